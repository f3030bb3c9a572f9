package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mizow1/satelite-column11/pkg/export"
)

type ExportHandler struct {
	articles ArticleStore
	outlines OutlineStore
	sites    SiteStore
}

func NewExportHandler(articles ArticleStore, outlines OutlineStore, sites SiteStore) *ExportHandler {
	return &ExportHandler{articles: articles, outlines: outlines, sites: sites}
}

// siteNameFor resolves the optional site filter. Returns ("", false) when the
// site does not exist or belongs to another user.
func (h *ExportHandler) siteNameFor(c *gin.Context, siteID, userID string) (string, bool) {
	if siteID == "" {
		return "", true
	}

	site, err := h.sites.GetByID(siteID, userID)
	if err != nil {
		slog.Error("error loading site", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return "", false
	}
	if site == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Site not found"})
		return "", false
	}
	return site.Name, true
}

func writeCSV(c *gin.Context, filename, data string) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, url.PathEscape(filename)))
	c.String(http.StatusOK, data)
}

func (h *ExportHandler) ExportArticles(c *gin.Context) {
	user := currentUser(c)

	var req ExportArticlesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	format := req.Format
	if format == "" {
		format = export.FormatStandard
	}
	if format != export.FormatStandard && format != export.FormatWordPress && format != export.FormatDrupal {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported export format"})
		return
	}

	siteName, ok := h.siteNameFor(c, req.SiteID, user.ID)
	if !ok {
		return
	}

	articles, err := h.articles.ListDetailed(user.ID, req.SiteID, "", req.ArticleIDs)
	if err != nil {
		slog.Error("error loading articles for export", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	opts := export.DefaultOptions()
	if req.Options != nil {
		if req.Options.IncludeMetadata != nil {
			opts.IncludeMetadata = *req.Options.IncludeMetadata
		}
		if req.Options.IncludeContent != nil {
			opts.IncludeContent = *req.Options.IncludeContent
		}
		if req.Options.IncludeRatings != nil {
			opts.IncludeRatings = *req.Options.IncludeRatings
		}
	}

	var data string
	switch format {
	case export.FormatWordPress:
		data = export.WordPress(articles)
	case export.FormatDrupal:
		data = export.Drupal(articles)
	default:
		data = export.Articles(articles, opts)
	}

	writeCSV(c, export.Filename("articles", siteName, format, time.Now()), data)
}

func (h *ExportHandler) ExportOutlines(c *gin.Context) {
	user := currentUser(c)

	var req ExportOutlinesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	siteName, ok := h.siteNameFor(c, req.SiteID, user.ID)
	if !ok {
		return
	}

	outlines, err := h.outlines.ListWithSite(user.ID, req.SiteID, req.OutlineIDs)
	if err != nil {
		slog.Error("error loading outlines for export", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	writeCSV(c, export.Filename("outlines", siteName, "", time.Now()), export.Outlines(outlines))
}
