package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mizow1/satelite-column11/internal/model"
	"github.com/mizow1/satelite-column11/pkg/llm"
)

const (
	defaultOutlineCount = 10
	maxOutlineCount     = 20

	// Recent outlines handed to the provider as duplicate-avoidance context.
	outlineContextLimit = 50
)

type OutlineStore interface {
	Create(outline *model.ArticleOutline) error
	GetByID(id, userID string) (*model.ArticleOutline, error)
	ListBySite(siteID string) ([]model.ArticleOutline, error)
	ListRecentBySite(siteID string, limit int) ([]model.ArticleOutline, error)
	Rate(id string, rating int) error
	Delete(id, userID string) error
	ListWithSite(userID, siteID string, ids []string) ([]model.OutlineWithSite, error)
}

type OutlineHandler struct {
	outlines OutlineStore
	sites    SiteStore
	settings SettingsStore
	usage    UsageStore

	newClient func(service string) (llm.Client, error)
}

func NewOutlineHandler(outlines OutlineStore, sites SiteStore, settings SettingsStore, usage UsageStore) *OutlineHandler {
	return &OutlineHandler{
		outlines:  outlines,
		sites:     sites,
		settings:  settings,
		usage:     usage,
		newClient: llm.NewClient,
	}
}

func (h *OutlineHandler) List(c *gin.Context) {
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

	outlines, err := h.outlines.ListBySite(site.ID)
	if err != nil {
		slog.Error("error listing outlines", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	res := make([]OutlineResponse, 0, len(outlines))
	for i := range outlines {
		res = append(res, outlineResponse(&outlines[i]))
	}
	c.JSON(http.StatusOK, gin.H{"outlines": res})
}

// Generate asks the provider for new outline proposals. Recently stored
// outlines for the site are passed along so the provider avoids repeating
// topics.
func (h *OutlineHandler) Generate(c *gin.Context) {
	user := currentUser(c)

	var req GenerateOutlinesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	count := req.Count
	if count <= 0 {
		count = defaultOutlineCount
	}
	if count > maxOutlineCount {
		count = maxOutlineCount
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
	if site.ContentPolicy == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Generate a content policy for the site first"})
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

	recent, err := h.outlines.ListRecentBySite(site.ID, outlineContextLimit)
	if err != nil {
		slog.Error("error loading recent outlines", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	existing := make([]llm.Outline, len(recent))
	for i, o := range recent {
		existing[i] = llm.Outline{
			Title:       o.Title,
			Outline:     o.Outline,
			SEOKeywords: model.SplitKeywords(o.SEOKeywords),
		}
	}

	generated, err := client.GenerateArticleOutlines(site.ContentPolicy, count, existing)
	if err != nil {
		slog.Error("outline generation failed", "site_id", site.ID, "service", service, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Content generation failed"})
		return
	}

	res := make([]OutlineResponse, 0, len(generated))
	for _, g := range generated {
		outline := &model.ArticleOutline{
			SiteID:      site.ID,
			Title:       g.Title,
			Outline:     g.Outline,
			SEOKeywords: model.JoinKeywords(g.SEOKeywords),
		}
		if err := h.outlines.Create(outline); err != nil {
			slog.Error("error saving outline", "site_id", site.ID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		res = append(res, outlineResponse(outline))
	}

	tokens := client.TokenUsage()
	if tokens > 0 {
		if err := h.usage.Record(user.ID, service, tokens); err != nil {
			slog.Error("error recording token usage", "user_id", user.ID, "error", err)
		}
	}

	c.JSON(http.StatusOK, GenerateOutlinesResponse{Outlines: res, TokensUsed: tokens})
}

func (h *OutlineHandler) Rate(c *gin.Context) {
	user := currentUser(c)

	var req RateOutlineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.Rating < 1 || req.Rating > 100 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Rating must be between 1 and 100"})
		return
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

	if err := h.outlines.Rate(outline.ID, req.Rating); err != nil {
		slog.Error("error rating outline", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Rating saved"})
}

func (h *OutlineHandler) Delete(c *gin.Context) {
	user := currentUser(c)

	outline, err := h.outlines.GetByID(c.Param("id"), user.ID)
	if err != nil {
		slog.Error("error loading outline", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if outline == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Outline not found"})
		return
	}

	if err := h.outlines.Delete(outline.ID, user.ID); err != nil {
		slog.Error("error deleting outline", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Outline deleted"})
}
