package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mizow1/satelite-column11/internal/model"
	"github.com/mizow1/satelite-column11/pkg/crawler"
	"github.com/mizow1/satelite-column11/pkg/llm"
)

type SiteStore interface {
	Create(site *model.Site) error
	GetByID(id, userID string) (*model.Site, error)
	ListByUser(userID string) ([]model.Site, error)
	Update(site *model.Site) error
	UpdatePolicy(siteID, userID, policy string) error
	Delete(id, userID string) error
	ReplaceURLs(siteID string, urls []string) ([]model.SiteURL, error)
	GetURLs(siteID string, activeOnly bool) ([]model.SiteURL, error)
}

type SettingsStore interface {
	GetSettings(userID string) (*model.UserSettings, error)
	UpdateSettings(s *model.UserSettings) error
}

type SiteHandler struct {
	sites    SiteStore
	settings SettingsStore
	usage    UsageStore

	newClient func(service string) (llm.Client, error)
	crawl     func(seed string) ([]string, error)
}

func NewSiteHandler(sites SiteStore, settings SettingsStore, usage UsageStore) *SiteHandler {
	return &SiteHandler{
		sites:     sites,
		settings:  settings,
		usage:     usage,
		newClient: llm.NewClient,
		crawl: func(seed string) ([]string, error) {
			return crawler.New().CrawlSite(seed)
		},
	}
}

// aiService resolves the provider configured in the user's settings.
func aiService(settings SettingsStore, userID string) (string, error) {
	s, err := settings.GetSettings(userID)
	if err != nil {
		return "", err
	}
	if s == nil {
		return llm.ServiceGPT4, nil
	}
	return s.AIService, nil
}

func (h *SiteHandler) List(c *gin.Context) {
	user := currentUser(c)

	sites, err := h.sites.ListByUser(user.ID)
	if err != nil {
		slog.Error("error listing sites", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	res := make([]SiteResponse, 0, len(sites))
	for i := range sites {
		res = append(res, siteResponse(&sites[i], nil))
	}
	c.JSON(http.StatusOK, gin.H{"sites": res})
}

func (h *SiteHandler) Create(c *gin.Context) {
	user := currentUser(c)

	var req CreateSiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Site name is required"})
		return
	}

	site := &model.Site{
		UserID:    user.ID,
		Name:      req.Name,
		URL:       req.URL,
		SiteImage: req.SiteImage,
	}
	if err := h.sites.Create(site); err != nil {
		slog.Error("error creating site", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusCreated, siteResponse(site, nil))
}

func (h *SiteHandler) Get(c *gin.Context) {
	user := currentUser(c)

	site, err := h.sites.GetByID(c.Param("id"), user.ID)
	if err != nil {
		slog.Error("error loading site", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if site == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Site not found"})
		return
	}

	urls, err := h.sites.GetURLs(site.ID, false)
	if err != nil {
		slog.Error("error loading site urls", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, siteResponse(site, urls))
}

func (h *SiteHandler) Update(c *gin.Context) {
	user := currentUser(c)

	var req UpdateSiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	site, err := h.sites.GetByID(c.Param("id"), user.ID)
	if err != nil {
		slog.Error("error loading site", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if site == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Site not found"})
		return
	}

	if req.Name != nil {
		if *req.Name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Site name is required"})
			return
		}
		site.Name = *req.Name
	}
	if req.URL != nil {
		site.URL = *req.URL
	}
	if req.SiteImage != nil {
		site.SiteImage = *req.SiteImage
	}
	if req.ContentPolicy != nil {
		site.ContentPolicy = *req.ContentPolicy
	}

	if err := h.sites.Update(site); err != nil {
		slog.Error("error updating site", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, siteResponse(site, nil))
}

func (h *SiteHandler) Delete(c *gin.Context) {
	user := currentUser(c)

	site, err := h.sites.GetByID(c.Param("id"), user.ID)
	if err != nil {
		slog.Error("error loading site", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if site == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Site not found"})
		return
	}

	if err := h.sites.Delete(site.ID, user.ID); err != nil {
		slog.Error("error deleting site", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Site deleted"})
}

// Crawl walks the site's URL and replaces the stored URL set with the result.
func (h *SiteHandler) Crawl(c *gin.Context) {
	user := currentUser(c)

	site, err := h.sites.GetByID(c.Param("id"), user.ID)
	if err != nil {
		slog.Error("error loading site", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if site == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Site not found"})
		return
	}
	if site.URL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Site has no URL to crawl"})
		return
	}

	urls, err := h.crawl(site.URL)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid site URL"})
		return
	}

	saved, err := h.sites.ReplaceURLs(site.ID, urls)
	if err != nil {
		slog.Error("error saving crawled urls", "site_id", site.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	res := make([]SiteURLResponse, 0, len(saved))
	for _, u := range saved {
		res = append(res, SiteURLResponse{ID: u.ID, URL: u.URL, IsActive: u.IsActive})
	}
	c.JSON(http.StatusOK, gin.H{"urls": res, "count": len(res)})
}

// GeneratePolicy asks the configured provider for a content policy built from
// the site profile and its crawled URLs, then stores it on the site.
func (h *SiteHandler) GeneratePolicy(c *gin.Context) {
	user := currentUser(c)

	site, err := h.sites.GetByID(c.Param("id"), user.ID)
	if err != nil {
		slog.Error("error loading site", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if site == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Site not found"})
		return
	}

	allowed, err := h.usage.CheckLimit(user.ID)
	if err != nil {
		slog.Error("error checking token limit", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if !allowed {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Monthly token limit reached"})
		return
	}

	service, err := aiService(h.settings, user.ID)
	if err != nil {
		slog.Error("error loading settings", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	client, err := h.newClient(service)
	if err != nil {
		slog.Error("error creating ai client", "service", service, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Content generation failed"})
		return
	}

	urls, err := h.sites.GetURLs(site.ID, true)
	if err != nil {
		slog.Error("error loading site urls", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	info := llm.SiteInfo{Name: site.Name, URL: site.URL, SiteImage: site.SiteImage}
	for _, u := range urls {
		info.URLs = append(info.URLs, u.URL)
	}

	policy, err := client.GenerateContentPolicy(info)
	if err != nil {
		slog.Error("content policy generation failed", "site_id", site.ID, "service", service, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Content generation failed"})
		return
	}

	if err := h.sites.UpdatePolicy(site.ID, user.ID, policy); err != nil {
		slog.Error("error saving content policy", "site_id", site.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	tokens := client.TokenUsage()
	if tokens > 0 {
		if err := h.usage.Record(user.ID, service, tokens); err != nil {
			slog.Error("error recording token usage", "user_id", user.ID, "error", err)
		}
	}

	c.JSON(http.StatusOK, gin.H{"content_policy": policy, "tokens_used": tokens})
}
