package model

import (
	"strings"
	"time"
)

type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	APIToken     string
	ResetToken   string
	CreatedAt    time.Time
}

type UserSettings struct {
	UserID             string
	AIService          string
	TokenLimitMonthly  int64
	EmailNotifications bool
}

type Site struct {
	ID            string
	UserID        string
	Name          string
	URL           string
	SiteImage     string
	ContentPolicy string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type SiteURL struct {
	ID        string
	SiteID    string
	URL       string
	IsActive  bool
	CreatedAt time.Time
}

type ArticleOutline struct {
	ID          string
	SiteID      string
	Title       string
	Outline     string
	SEOKeywords string
	UserRating  *int
	CreatedAt   time.Time
}

type Article struct {
	ID               string
	OutlineID        string
	Language         string
	Content          string
	UserInstructions string
	UserRating       *int
	CreatedAt        time.Time
}

// ArticleWithDetails carries the joined outline and site rows needed for
// export and list responses.
type ArticleWithDetails struct {
	Article
	OutlineTitle  string
	OutlineText   string
	OutlineRating *int
	SEOKeywords   string
	SiteID        string
	SiteName      string
}

type OutlineWithSite struct {
	ArticleOutline
	SiteName string
}

type TokenUsage struct {
	ID         int64
	UserID     string
	AIService  string
	TokensUsed int64
	UsageDate  time.Time
}

type DailyUsage struct {
	Date       time.Time
	TokensUsed int64
}

// ProposalTarget is one user/site pair picked for the daily proposal batch:
// the user's most recently updated site that has a content policy.
type ProposalTarget struct {
	UserID        string
	Email         string
	Name          string
	AIService     string
	SiteID        string
	SiteName      string
	ContentPolicy string
}

// Keywords are stored as a single comma-joined column. These two helpers are
// the only place that encoding is visible.
func SplitKeywords(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	keywords := make([]string, 0, len(parts))
	for _, p := range parts {
		if k := strings.TrimSpace(p); k != "" {
			keywords = append(keywords, k)
		}
	}
	return keywords
}

func JoinKeywords(keywords []string) string {
	return strings.Join(keywords, ",")
}
