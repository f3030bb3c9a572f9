package handler

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mizow1/satelite-column11/internal/model"
	"github.com/mizow1/satelite-column11/pkg/llm"
)

var errSMTPDown = errors.New("smtp down")

// authAs bypasses token resolution so handler tests can exercise the routes
// directly.
func authAs(user *model.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(userContextKey, user)
		c.Next()
	}
}

func testUser() *model.User {
	return &model.User{ID: "u1", Email: "u1@example.com", Name: "One", APIToken: "token-1"}
}

type fakeUserStore struct {
	byEmail      map[string]*model.User
	byToken      map[string]*model.User
	byResetToken map[string]*model.User

	created       []*model.User
	createErr     error
	resetTokens   map[string]string
	passwords     map[string]string
	duplicateMail bool
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		byEmail:      make(map[string]*model.User),
		byToken:      make(map[string]*model.User),
		byResetToken: make(map[string]*model.User),
		resetTokens:  make(map[string]string),
		passwords:    make(map[string]string),
	}
}

func (f *fakeUserStore) CreateUser(user *model.User) (bool, error) {
	if f.createErr != nil {
		return false, f.createErr
	}
	if f.duplicateMail {
		return false, nil
	}
	user.ID = "new-user"
	user.APIToken = "new-token"
	f.created = append(f.created, user)
	return true, nil
}

func (f *fakeUserStore) GetByEmail(email string) (*model.User, error) {
	return f.byEmail[email], nil
}

func (f *fakeUserStore) GetByAPIToken(token string) (*model.User, error) {
	return f.byToken[token], nil
}

func (f *fakeUserStore) GetByResetToken(token string) (*model.User, error) {
	return f.byResetToken[token], nil
}

func (f *fakeUserStore) SetResetToken(userID, token string) error {
	f.resetTokens[userID] = token
	return nil
}

func (f *fakeUserStore) UpdatePassword(userID, passwordHash string) error {
	f.passwords[userID] = passwordHash
	return nil
}

type fakeSiteStore struct {
	sites map[string]*model.Site
	list  []model.Site
	urls  []model.SiteURL

	createErr    error
	replacedURLs []string
	updated      *model.Site
	policy       string
	deleted      []string

	countSites, countOutlines, countArticles int
}

func newFakeSiteStore() *fakeSiteStore {
	return &fakeSiteStore{sites: make(map[string]*model.Site)}
}

func (f *fakeSiteStore) add(site *model.Site) {
	f.sites[site.ID] = site
	f.list = append(f.list, *site)
}

func (f *fakeSiteStore) Create(site *model.Site) error {
	if f.createErr != nil {
		return f.createErr
	}
	site.ID = "new-site"
	site.CreatedAt = time.Now()
	site.UpdatedAt = site.CreatedAt
	return nil
}

func (f *fakeSiteStore) GetByID(id, userID string) (*model.Site, error) {
	site := f.sites[id]
	if site == nil || site.UserID != userID {
		return nil, nil
	}
	return site, nil
}

func (f *fakeSiteStore) ListByUser(userID string) ([]model.Site, error) { return f.list, nil }

func (f *fakeSiteStore) Update(site *model.Site) error {
	f.updated = site
	return nil
}

func (f *fakeSiteStore) UpdatePolicy(siteID, userID, policy string) error {
	f.policy = policy
	return nil
}

func (f *fakeSiteStore) Delete(id, userID string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeSiteStore) ReplaceURLs(siteID string, urls []string) ([]model.SiteURL, error) {
	f.replacedURLs = urls
	saved := make([]model.SiteURL, len(urls))
	for i, u := range urls {
		saved[i] = model.SiteURL{ID: u, SiteID: siteID, URL: u, IsActive: true}
	}
	return saved, nil
}

func (f *fakeSiteStore) GetURLs(siteID string, activeOnly bool) ([]model.SiteURL, error) {
	return f.urls, nil
}

func (f *fakeSiteStore) CountsByUser(userID string) (int, int, int, error) {
	return f.countSites, f.countOutlines, f.countArticles, nil
}

type fakeOutlineStore struct {
	outlines map[string]*model.ArticleOutline
	bySite   []model.ArticleOutline
	recent   []model.ArticleOutline
	withSite []model.OutlineWithSite

	created []*model.ArticleOutline
	ratings map[string]int
	deleted []string
}

func newFakeOutlineStore() *fakeOutlineStore {
	return &fakeOutlineStore{
		outlines: make(map[string]*model.ArticleOutline),
		ratings:  make(map[string]int),
	}
}

func (f *fakeOutlineStore) Create(outline *model.ArticleOutline) error {
	outline.ID = "new-outline"
	outline.CreatedAt = time.Now()
	f.created = append(f.created, outline)
	return nil
}

func (f *fakeOutlineStore) GetByID(id, userID string) (*model.ArticleOutline, error) {
	return f.outlines[id], nil
}

func (f *fakeOutlineStore) ListBySite(siteID string) ([]model.ArticleOutline, error) {
	return f.bySite, nil
}

func (f *fakeOutlineStore) ListRecentBySite(siteID string, limit int) ([]model.ArticleOutline, error) {
	return f.recent, nil
}

func (f *fakeOutlineStore) Rate(id string, rating int) error {
	f.ratings[id] = rating
	return nil
}

func (f *fakeOutlineStore) Delete(id, userID string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeOutlineStore) ListWithSite(userID, siteID string, ids []string) ([]model.OutlineWithSite, error) {
	return f.withSite, nil
}

type fakeArticleStore struct {
	existing map[string]bool
	detailed map[string]*model.ArticleWithDetails
	list     []model.ArticleWithDetails

	inserted   []*model.Article
	insertFail bool
	updated    *model.Article
	ratings    map[string]int
	deleted    []string
}

func newFakeArticleStore() *fakeArticleStore {
	return &fakeArticleStore{
		existing: make(map[string]bool),
		detailed: make(map[string]*model.ArticleWithDetails),
		ratings:  make(map[string]int),
	}
}

func pairKey(outlineID, language string) string { return outlineID + "/" + language }

func (f *fakeArticleStore) Insert(article *model.Article) (bool, error) {
	if f.insertFail || f.existing[pairKey(article.OutlineID, article.Language)] {
		return false, nil
	}
	article.ID = "new-article"
	article.CreatedAt = time.Now()
	f.existing[pairKey(article.OutlineID, article.Language)] = true
	f.inserted = append(f.inserted, article)
	f.detailed[article.ID] = &model.ArticleWithDetails{Article: *article}
	return true, nil
}

func (f *fakeArticleStore) Exists(outlineID, language string) (bool, error) {
	return f.existing[pairKey(outlineID, language)], nil
}

func (f *fakeArticleStore) GetByID(id, userID string) (*model.ArticleWithDetails, error) {
	return f.detailed[id], nil
}

func (f *fakeArticleStore) ListDetailed(userID, siteID, outlineID string, ids []string) ([]model.ArticleWithDetails, error) {
	return f.list, nil
}

func (f *fakeArticleStore) Update(article *model.Article) error {
	f.updated = article
	return nil
}

func (f *fakeArticleStore) Rate(id string, rating int) error {
	f.ratings[id] = rating
	return nil
}

func (f *fakeArticleStore) Delete(id, userID string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeUsageStore struct {
	allowed bool
	total   int64
	monthly int64

	byService map[string]int64
	daily     []model.DailyUsage

	recorded        []int64
	recordedService []string
}

func (f *fakeUsageStore) Record(userID, aiService string, tokensUsed int64) error {
	f.recorded = append(f.recorded, tokensUsed)
	f.recordedService = append(f.recordedService, aiService)
	return nil
}

func (f *fakeUsageStore) CheckLimit(userID string) (bool, error)    { return f.allowed, nil }
func (f *fakeUsageStore) TotalUsage(userID string) (int64, error)   { return f.total, nil }
func (f *fakeUsageStore) MonthlyUsage(userID string) (int64, error) { return f.monthly, nil }

func (f *fakeUsageStore) UsageByService(userID string) (map[string]int64, error) {
	return f.byService, nil
}

func (f *fakeUsageStore) DailyUsage(userID string, days int) ([]model.DailyUsage, error) {
	return f.daily, nil
}

type fakeSettingsStore struct {
	settings *model.UserSettings
	updated  *model.UserSettings
}

func (f *fakeSettingsStore) GetSettings(userID string) (*model.UserSettings, error) {
	return f.settings, nil
}

func (f *fakeSettingsStore) UpdateSettings(s *model.UserSettings) error {
	f.updated = s
	return nil
}

func defaultSettings() *fakeSettingsStore {
	return &fakeSettingsStore{
		settings: &model.UserSettings{
			UserID:             "u1",
			AIService:          llm.ServiceGPT4,
			TokenLimitMonthly:  100000,
			EmailNotifications: true,
		},
	}
}

type fakeSender struct {
	sent     []string
	subjects []string
	err      error
}

func (f *fakeSender) Send(to, subject, html, text string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, to)
	f.subjects = append(f.subjects, subject)
	return nil
}

type fakeLLM struct {
	policy    string
	outlines  []llm.Outline
	content   string
	tokens    int64
	err       error
	calls     int
	lastCount int
}

func (f *fakeLLM) GenerateContentPolicy(site llm.SiteInfo) (string, error) {
	f.calls++
	return f.policy, f.err
}

func (f *fakeLLM) GenerateArticleOutlines(policy string, count int, existing []llm.Outline) ([]llm.Outline, error) {
	f.calls++
	f.lastCount = count
	if f.err != nil {
		return nil, f.err
	}
	return f.outlines, nil
}

func (f *fakeLLM) GenerateArticleContent(outline llm.Outline, language, userInstructions string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.content, nil
}

func (f *fakeLLM) TokenUsage() int64 { return f.tokens }

func stubClient(client llm.Client) func(string) (llm.Client, error) {
	return func(service string) (llm.Client, error) { return client, nil }
}
