package handler

import (
	"log/slog"
	"net/http"
	"slices"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mizow1/satelite-column11/internal/model"
	"github.com/mizow1/satelite-column11/pkg/llm"
)

const (
	defaultUsageDays = 30
	maxUsageDays     = 365
)

type UsageStore interface {
	Record(userID, aiService string, tokensUsed int64) error
	CheckLimit(userID string) (bool, error)
	TotalUsage(userID string) (int64, error)
	MonthlyUsage(userID string) (int64, error)
	UsageByService(userID string) (map[string]int64, error)
	DailyUsage(userID string, days int) ([]model.DailyUsage, error)
}

type StatsStore interface {
	CountsByUser(userID string) (sites, outlines, articles int, err error)
}

type UsageHandler struct {
	usage    UsageStore
	settings SettingsStore
	stats    StatsStore
}

func NewUsageHandler(usage UsageStore, settings SettingsStore, stats StatsStore) *UsageHandler {
	return &UsageHandler{usage: usage, settings: settings, stats: stats}
}

func (h *UsageHandler) GetUsage(c *gin.Context) {
	user := currentUser(c)

	total, err := h.usage.TotalUsage(user.ID)
	if err != nil {
		slog.Error("error loading total usage", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	monthly, err := h.usage.MonthlyUsage(user.ID)
	if err != nil {
		slog.Error("error loading monthly usage", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	settings, err := h.settings.GetSettings(user.ID)
	if err != nil {
		slog.Error("error loading settings", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	var limit int64
	if settings != nil {
		limit = settings.TokenLimitMonthly
	}

	c.JSON(http.StatusOK, UsageResponse{TotalUsage: total, MonthlyUsage: monthly, MonthlyLimit: limit})
}

// GetDailyUsage returns per-day totals for the trailing window. Days without
// recorded usage are not present in the response.
func (h *UsageHandler) GetDailyUsage(c *gin.Context) {
	user := currentUser(c)

	days := defaultUsageDays
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxUsageDays {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid days parameter"})
			return
		}
		days = n
	}

	daily, err := h.usage.DailyUsage(user.ID, days)
	if err != nil {
		slog.Error("error loading daily usage", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	res := make([]DailyUsageResponse, 0, len(daily))
	for _, d := range daily {
		res = append(res, DailyUsageResponse{
			Date:       d.Date.Format("2006-01-02"),
			TokensUsed: d.TokensUsed,
		})
	}
	c.JSON(http.StatusOK, gin.H{"daily_usage": res})
}

func (h *UsageHandler) GetUsageByService(c *gin.Context) {
	user := currentUser(c)

	byService, err := h.usage.UsageByService(user.ID)
	if err != nil {
		slog.Error("error loading usage by service", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"usage_by_service": byService})
}

func (h *UsageHandler) GetSettings(c *gin.Context) {
	user := currentUser(c)

	settings, err := h.settings.GetSettings(user.ID)
	if err != nil {
		slog.Error("error loading settings", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if settings == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Settings not found"})
		return
	}

	c.JSON(http.StatusOK, SettingsResponse{
		AIService:          settings.AIService,
		TokenLimitMonthly:  settings.TokenLimitMonthly,
		EmailNotifications: settings.EmailNotifications,
	})
}

func (h *UsageHandler) UpdateSettings(c *gin.Context) {
	user := currentUser(c)

	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if req.AIService != nil && !slices.Contains(llm.SupportedServices(), *req.AIService) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported AI service"})
		return
	}
	if req.TokenLimitMonthly != nil && *req.TokenLimitMonthly < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Token limit must not be negative"})
		return
	}

	settings, err := h.settings.GetSettings(user.ID)
	if err != nil {
		slog.Error("error loading settings", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if settings == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Settings not found"})
		return
	}

	if req.AIService != nil {
		settings.AIService = *req.AIService
	}
	if req.TokenLimitMonthly != nil {
		settings.TokenLimitMonthly = *req.TokenLimitMonthly
	}
	if req.EmailNotifications != nil {
		settings.EmailNotifications = *req.EmailNotifications
	}

	if err := h.settings.UpdateSettings(settings); err != nil {
		slog.Error("error updating settings", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, SettingsResponse{
		AIService:          settings.AIService,
		TokenLimitMonthly:  settings.TokenLimitMonthly,
		EmailNotifications: settings.EmailNotifications,
	})
}

func (h *UsageHandler) GetDashboardStats(c *gin.Context) {
	user := currentUser(c)

	sites, outlines, articles, err := h.stats.CountsByUser(user.ID)
	if err != nil {
		slog.Error("error loading dashboard counts", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	monthly, err := h.usage.MonthlyUsage(user.ID)
	if err != nil {
		slog.Error("error loading monthly usage", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, DashboardStatsResponse{
		Sites:        sites,
		Outlines:     outlines,
		Articles:     articles,
		MonthlyUsage: monthly,
	})
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
