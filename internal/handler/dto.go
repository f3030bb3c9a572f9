package handler

import (
	"time"

	"github.com/mizow1/satelite-column11/internal/model"
)

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ResetRequestRequest struct {
	Email string `json:"email"`
}

type ResetConfirmRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

type CreateSiteRequest struct {
	Name      string `json:"name"`
	URL       string `json:"url"`
	SiteImage string `json:"site_image"`
}

type UpdateSiteRequest struct {
	Name          *string `json:"name"`
	URL           *string `json:"url"`
	SiteImage     *string `json:"site_image"`
	ContentPolicy *string `json:"content_policy"`
}

type GenerateOutlinesRequest struct {
	Count int `json:"count"`
}

type RateOutlineRequest struct {
	OutlineID string `json:"outline_id"`
	Rating    int    `json:"rating"`
}

type GenerateArticleRequest struct {
	OutlineID        string `json:"outline_id"`
	Language         string `json:"language"`
	UserInstructions string `json:"user_instructions"`
}

type BulkGenerateRequest struct {
	OutlineIDs       []string `json:"outline_ids"`
	Languages        []string `json:"languages"`
	UserInstructions string   `json:"user_instructions"`
}

type RateArticleRequest struct {
	ArticleID string `json:"article_id"`
	Rating    int    `json:"rating"`
}

type UpdateArticleRequest struct {
	Content          *string `json:"content"`
	UserInstructions *string `json:"user_instructions"`
	UserRating       *int    `json:"user_rating"`
}

type ExportArticlesRequest struct {
	ArticleIDs []string       `json:"article_ids"`
	SiteID     string         `json:"site_id"`
	Format     string         `json:"format"`
	Options    *ExportOptions `json:"options"`
}

type ExportOptions struct {
	IncludeMetadata *bool `json:"include_metadata"`
	IncludeContent  *bool `json:"include_content"`
	IncludeRatings  *bool `json:"include_ratings"`
}

type ExportOutlinesRequest struct {
	OutlineIDs []string `json:"outline_ids"`
	SiteID     string   `json:"site_id"`
}

type UpdateSettingsRequest struct {
	AIService          *string `json:"ai_service"`
	TokenLimitMonthly  *int64  `json:"token_limit_monthly"`
	EmailNotifications *bool   `json:"email_notifications"`
}

type RunProposalsRequest struct {
	UserID string `json:"user_id"`
	SiteID string `json:"site_id"`
}

type SiteResponse struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	URL           string            `json:"url,omitempty"`
	SiteImage     string            `json:"site_image,omitempty"`
	ContentPolicy string            `json:"content_policy,omitempty"`
	CreatedAt     string            `json:"created_at"`
	UpdatedAt     string            `json:"updated_at"`
	URLs          []SiteURLResponse `json:"urls,omitempty"`
}

type SiteURLResponse struct {
	ID       string `json:"id"`
	URL      string `json:"url"`
	IsActive bool   `json:"is_active"`
}

type OutlineResponse struct {
	ID          string   `json:"id"`
	SiteID      string   `json:"site_id"`
	Title       string   `json:"title"`
	Outline     string   `json:"outline"`
	SEOKeywords []string `json:"seo_keywords"`
	UserRating  *int     `json:"user_rating"`
	CreatedAt   string   `json:"created_at"`
}

type ArticleResponse struct {
	ID               string `json:"id"`
	OutlineID        string `json:"outline_id"`
	OutlineTitle     string `json:"outline_title"`
	SiteID           string `json:"site_id"`
	SiteName         string `json:"site_name"`
	Language         string `json:"language"`
	Content          string `json:"content,omitempty"`
	UserInstructions string `json:"user_instructions,omitempty"`
	UserRating       *int   `json:"user_rating"`
	CreatedAt        string `json:"created_at"`
}

type GenerateArticleResponse struct {
	Article    ArticleResponse `json:"article"`
	TokensUsed int64           `json:"tokens_used"`
}

type GenerateOutlinesResponse struct {
	Outlines   []OutlineResponse `json:"outlines"`
	TokensUsed int64             `json:"tokens_used"`
}

type BulkItemResult struct {
	OutlineID string `json:"outline_id"`
	Language  string `json:"language"`
	Status    string `json:"status"`
	ArticleID string `json:"article_id,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

type BulkSummary struct {
	Total   int `json:"total"`
	Success int `json:"success"`
	Skipped int `json:"skipped"`
	Errors  int `json:"errors"`
}

type BulkGenerateResponse struct {
	Results         []BulkItemResult `json:"results"`
	Summary         BulkSummary      `json:"summary"`
	TotalTokensUsed int64            `json:"total_tokens_used"`
}

type UsageResponse struct {
	TotalUsage   int64 `json:"total_usage"`
	MonthlyUsage int64 `json:"monthly_usage"`
	MonthlyLimit int64 `json:"monthly_limit"`
}

type DailyUsageResponse struct {
	Date       string `json:"date"`
	TokensUsed int64  `json:"tokens_used"`
}

type SettingsResponse struct {
	AIService          string `json:"ai_service"`
	TokenLimitMonthly  int64  `json:"token_limit_monthly"`
	EmailNotifications bool   `json:"email_notifications"`
}

type DashboardStatsResponse struct {
	Sites        int   `json:"sites"`
	Outlines     int   `json:"outlines"`
	Articles     int   `json:"articles"`
	MonthlyUsage int64 `json:"monthly_usage"`
}

func siteResponse(s *model.Site, urls []model.SiteURL) SiteResponse {
	res := SiteResponse{
		ID:            s.ID,
		Name:          s.Name,
		URL:           s.URL,
		SiteImage:     s.SiteImage,
		ContentPolicy: s.ContentPolicy,
		CreatedAt:     s.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     s.UpdatedAt.Format(time.RFC3339),
	}
	for _, u := range urls {
		res.URLs = append(res.URLs, SiteURLResponse{ID: u.ID, URL: u.URL, IsActive: u.IsActive})
	}
	return res
}

func outlineResponse(o *model.ArticleOutline) OutlineResponse {
	return OutlineResponse{
		ID:          o.ID,
		SiteID:      o.SiteID,
		Title:       o.Title,
		Outline:     o.Outline,
		SEOKeywords: model.SplitKeywords(o.SEOKeywords),
		UserRating:  o.UserRating,
		CreatedAt:   o.CreatedAt.Format(time.RFC3339),
	}
}

func articleResponse(a *model.ArticleWithDetails) ArticleResponse {
	return ArticleResponse{
		ID:               a.ID,
		OutlineID:        a.OutlineID,
		OutlineTitle:     a.OutlineTitle,
		SiteID:           a.SiteID,
		SiteName:         a.SiteName,
		Language:         a.Language,
		Content:          a.Content,
		UserInstructions: a.UserInstructions,
		UserRating:       a.UserRating,
		CreatedAt:        a.CreatedAt.Format(time.RFC3339),
	}
}
