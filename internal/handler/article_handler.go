package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mizow1/satelite-column11/internal/model"
	"github.com/mizow1/satelite-column11/pkg/llm"
)

const defaultArticleLanguage = "ja"

type ArticleStore interface {
	Insert(article *model.Article) (bool, error)
	Exists(outlineID, language string) (bool, error)
	GetByID(id, userID string) (*model.ArticleWithDetails, error)
	ListDetailed(userID, siteID, outlineID string, ids []string) ([]model.ArticleWithDetails, error)
	Update(article *model.Article) error
	Rate(id string, rating int) error
	Delete(id, userID string) error
}

type ArticleHandler struct {
	articles ArticleStore
	outlines OutlineStore
	settings SettingsStore
	usage    UsageStore

	newClient func(service string) (llm.Client, error)
}

func NewArticleHandler(articles ArticleStore, outlines OutlineStore, settings SettingsStore, usage UsageStore) *ArticleHandler {
	return &ArticleHandler{
		articles:  articles,
		outlines:  outlines,
		settings:  settings,
		usage:     usage,
		newClient: llm.NewClient,
	}
}

func (h *ArticleHandler) List(c *gin.Context) {
	user := currentUser(c)

	articles, err := h.articles.ListDetailed(user.ID, c.Query("site_id"), c.Query("outline_id"), nil)
	if err != nil {
		slog.Error("error listing articles", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	res := make([]ArticleResponse, 0, len(articles))
	for i := range articles {
		res = append(res, articleResponse(&articles[i]))
	}
	c.JSON(http.StatusOK, gin.H{"articles": res})
}

func (h *ArticleHandler) Get(c *gin.Context) {
	user := currentUser(c)

	article, err := h.articles.GetByID(c.Param("id"), user.ID)
	if err != nil {
		slog.Error("error loading article", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if article == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
		return
	}

	c.JSON(http.StatusOK, articleResponse(article))
}

// Generate produces one article for an outline and language. Each outline
// carries at most one article per language, so an existing pair is rejected
// before any provider call is made.
func (h *ArticleHandler) Generate(c *gin.Context) {
	user := currentUser(c)

	var req GenerateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.OutlineID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Outline ID is required"})
		return
	}

	language := req.Language
	if language == "" {
		language = defaultArticleLanguage
	}

	outline, err := h.outlines.GetByID(req.OutlineID, user.ID)
	if err != nil {
		slog.Error("error loading outline", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if outline == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Outline not found"})
		return
	}

	exists, err := h.articles.Exists(outline.ID, language)
	if err != nil {
		slog.Error("error checking article existence", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if exists {
		c.JSON(http.StatusConflict, gin.H{"error": "An article already exists for this outline and language"})
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

	content, err := client.GenerateArticleContent(llm.Outline{
		Title:       outline.Title,
		Outline:     outline.Outline,
		SEOKeywords: model.SplitKeywords(outline.SEOKeywords),
	}, language, req.UserInstructions)
	if err != nil {
		slog.Error("article generation failed", "outline_id", outline.ID, "service", service, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Content generation failed"})
		return
	}

	// The provider consumed tokens whether or not persistence succeeds, so
	// the ledger row is written before the insert.
	tokens := client.TokenUsage()
	if tokens > 0 {
		if err := h.usage.Record(user.ID, service, tokens); err != nil {
			slog.Error("error recording token usage", "user_id", user.ID, "error", err)
		}
	}

	article := &model.Article{
		OutlineID:        outline.ID,
		Language:         language,
		Content:          content,
		UserInstructions: req.UserInstructions,
	}
	created, err := h.articles.Insert(article)
	if err != nil {
		slog.Error("error saving article", "outline_id", outline.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if !created {
		// Lost a race against a concurrent generation for the same pair.
		c.JSON(http.StatusConflict, gin.H{"error": "An article already exists for this outline and language"})
		return
	}

	detailed, err := h.articles.GetByID(article.ID, user.ID)
	if err != nil || detailed == nil {
		slog.Error("error reloading article", "article_id", article.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusCreated, GenerateArticleResponse{Article: articleResponse(detailed), TokensUsed: tokens})
}

// BulkGenerate generates the cross product of outlines and languages. Items
// fail or skip individually; token usage is recorded once for the whole run
// with the client's cumulative total.
func (h *ArticleHandler) BulkGenerate(c *gin.Context) {
	user := currentUser(c)

	var req BulkGenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if len(req.OutlineIDs) == 0 || len(req.Languages) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Outline IDs and languages are required"})
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

	var results []BulkItemResult
	var summary BulkSummary

	for _, outlineID := range req.OutlineIDs {
		outline, err := h.outlines.GetByID(outlineID, user.ID)
		if err != nil {
			slog.Error("error loading outline", "outline_id", outlineID, "error", err)
			outline = nil
		}

		for _, language := range req.Languages {
			summary.Total++
			item := BulkItemResult{OutlineID: outlineID, Language: language}

			if outline == nil {
				item.Status = "error"
				item.Reason = "outline not found"
				summary.Errors++
				results = append(results, item)
				continue
			}

			exists, err := h.articles.Exists(outlineID, language)
			if err != nil {
				item.Status = "error"
				item.Reason = "database error"
				summary.Errors++
				results = append(results, item)
				continue
			}
			if exists {
				item.Status = "skipped"
				item.Reason = "article already exists"
				summary.Skipped++
				results = append(results, item)
				continue
			}

			content, err := client.GenerateArticleContent(llm.Outline{
				Title:       outline.Title,
				Outline:     outline.Outline,
				SEOKeywords: model.SplitKeywords(outline.SEOKeywords),
			}, language, req.UserInstructions)
			if err != nil {
				slog.Error("article generation failed", "outline_id", outlineID, "language", language, "error", err)
				item.Status = "error"
				item.Reason = "generation failed"
				summary.Errors++
				results = append(results, item)
				continue
			}

			article := &model.Article{
				OutlineID:        outlineID,
				Language:         language,
				Content:          content,
				UserInstructions: req.UserInstructions,
			}
			created, err := h.articles.Insert(article)
			if err != nil {
				item.Status = "error"
				item.Reason = "database error"
				summary.Errors++
				results = append(results, item)
				continue
			}
			if !created {
				item.Status = "skipped"
				item.Reason = "article already exists"
				summary.Skipped++
				results = append(results, item)
				continue
			}

			item.Status = "success"
			item.ArticleID = article.ID
			summary.Success++
			results = append(results, item)
		}
	}

	tokens := client.TokenUsage()
	if tokens > 0 {
		if err := h.usage.Record(user.ID, service, tokens); err != nil {
			slog.Error("error recording token usage", "user_id", user.ID, "error", err)
		}
	}

	c.JSON(http.StatusOK, BulkGenerateResponse{
		Results:         results,
		Summary:         summary,
		TotalTokensUsed: tokens,
	})
}

func (h *ArticleHandler) Update(c *gin.Context) {
	user := currentUser(c)

	var req UpdateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.UserRating != nil && (*req.UserRating < 1 || *req.UserRating > 100) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Rating must be between 1 and 100"})
		return
	}

	article, err := h.articles.GetByID(c.Param("id"), user.ID)
	if err != nil {
		slog.Error("error loading article", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if article == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
		return
	}

	if req.Content != nil {
		article.Content = *req.Content
	}
	if req.UserInstructions != nil {
		article.UserInstructions = *req.UserInstructions
	}
	if req.UserRating != nil {
		article.UserRating = req.UserRating
	}

	if err := h.articles.Update(&article.Article); err != nil {
		slog.Error("error updating article", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, articleResponse(article))
}

func (h *ArticleHandler) Rate(c *gin.Context) {
	user := currentUser(c)

	var req RateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.Rating < 1 || req.Rating > 100 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Rating must be between 1 and 100"})
		return
	}

	article, err := h.articles.GetByID(req.ArticleID, user.ID)
	if err != nil {
		slog.Error("error loading article", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if article == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
		return
	}

	if err := h.articles.Rate(article.ID, req.Rating); err != nil {
		slog.Error("error rating article", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Rating saved"})
}

func (h *ArticleHandler) Delete(c *gin.Context) {
	user := currentUser(c)

	article, err := h.articles.GetByID(c.Param("id"), user.ID)
	if err != nil {
		slog.Error("error loading article", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if article == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
		return
	}

	if err := h.articles.Delete(article.ID, user.ID); err != nil {
		slog.Error("error deleting article", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Article deleted"})
}
