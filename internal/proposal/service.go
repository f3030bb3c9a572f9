// Package proposal implements the daily outline proposal batch: for each
// opted-in user, generate three fresh outline proposals for their primary
// site and email them.
package proposal

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/mizow1/satelite-column11/internal/model"
	"github.com/mizow1/satelite-column11/pkg/llm"
	"github.com/mizow1/satelite-column11/pkg/mail"
)

const (
	proposalCount   = 3
	contextOutlines = 50
)

var (
	ErrLimitReached = errors.New("monthly token limit reached")
	ErrSiteNotFound = errors.New("site not found or content policy not set")
	ErrUserNotFound = errors.New("user not found")
)

type UserStore interface {
	GetByID(id string) (*model.User, error)
	GetSettings(userID string) (*model.UserSettings, error)
	GetProposalTargets() ([]model.ProposalTarget, error)
}

type SiteStore interface {
	GetByID(id, userID string) (*model.Site, error)
}

type OutlineStore interface {
	ListRecentBySite(siteID string, limit int) ([]model.ArticleOutline, error)
}

type UsageStore interface {
	CheckLimit(userID string) (bool, error)
	MonthlyUsage(userID string) (int64, error)
	Record(userID, aiService string, tokensUsed int64) error
}

type Service struct {
	users     UserStore
	sites     SiteStore
	outlines  OutlineStore
	usage     UsageStore
	sender    mail.Sender
	newClient func(service string) (llm.Client, error)
	appURL    string
}

func NewService(users UserStore, sites SiteStore, outlines OutlineStore, usage UsageStore, sender mail.Sender) *Service {
	return &Service{
		users:     users,
		sites:     sites,
		outlines:  outlines,
		usage:     usage,
		sender:    sender,
		newClient: llm.NewClient,
		appURL:    os.Getenv("APP_URL"),
	}
}

// RunBatch processes every qualifying user. A failure for one user is logged
// and the batch continues; the batch itself only fails if the target list
// cannot be loaded.
func (s *Service) RunBatch() error {
	targets, err := s.users.GetProposalTargets()
	if err != nil {
		return fmt.Errorf("loading proposal targets: %w", err)
	}

	for _, t := range targets {
		ok, err := s.usage.CheckLimit(t.UserID)
		if err != nil {
			slog.Error("limit check failed", "user_id", t.UserID, "error", err)
			continue
		}
		if !ok {
			slog.Info("user over monthly token limit, skipping proposals", "user_id", t.UserID)
			s.sendLimitWarning(t.UserID, t.Email, t.Name)
			continue
		}

		if err := s.sendProposals(t); err != nil {
			slog.Error("daily proposal failed", "user_id", t.UserID, "site_id", t.SiteID, "error", err)
			continue
		}

		slog.Info("daily proposals sent", "user_id", t.UserID, "site_id", t.SiteID)
	}

	return nil
}

// RunForUser is the manual single-user variant. Unlike RunBatch it
// propagates every failure to the caller.
func (s *Service) RunForUser(userID, siteID string) error {
	user, err := s.users.GetByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	settings, err := s.users.GetSettings(userID)
	if err != nil {
		return err
	}
	if settings == nil {
		return ErrUserNotFound
	}

	site, err := s.sites.GetByID(siteID, userID)
	if err != nil {
		return err
	}
	if site == nil || site.ContentPolicy == "" {
		return ErrSiteNotFound
	}

	ok, err := s.usage.CheckLimit(userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrLimitReached
	}

	return s.sendProposals(model.ProposalTarget{
		UserID:        userID,
		Email:         user.Email,
		Name:          user.Name,
		AIService:     settings.AIService,
		SiteID:        site.ID,
		SiteName:      site.Name,
		ContentPolicy: site.ContentPolicy,
	})
}

func (s *Service) sendProposals(t model.ProposalTarget) error {
	existing, err := s.outlines.ListRecentBySite(t.SiteID, contextOutlines)
	if err != nil {
		return fmt.Errorf("loading existing outlines: %w", err)
	}

	context := make([]llm.Outline, len(existing))
	for i, o := range existing {
		context[i] = llm.Outline{
			Title:       o.Title,
			Outline:     o.Outline,
			SEOKeywords: model.SplitKeywords(o.SEOKeywords),
		}
	}

	client, err := s.newClient(t.AIService)
	if err != nil {
		return err
	}

	proposals, err := client.GenerateArticleOutlines(t.ContentPolicy, proposalCount, context)
	if err != nil {
		return fmt.Errorf("generating proposals: %w", err)
	}

	tpl := mail.DailyProposalTemplate(mail.DailyProposalData{
		UserName:  t.Name,
		SiteName:  t.SiteName,
		Proposals: proposals,
		SiteURL:   s.appURL,
	}, time.Now())

	if err := s.sender.Send(t.Email, tpl.Subject, tpl.HTML, tpl.Text); err != nil {
		return fmt.Errorf("sending proposal email: %w", err)
	}

	if tokens := client.TokenUsage(); tokens > 0 {
		if err := s.usage.Record(t.UserID, t.AIService, tokens); err != nil {
			return fmt.Errorf("recording token usage: %w", err)
		}
	}

	return nil
}

func (s *Service) sendLimitWarning(userID, email, name string) {
	settings, err := s.users.GetSettings(userID)
	if err != nil || settings == nil {
		return
	}
	monthly, err := s.usage.MonthlyUsage(userID)
	if err != nil {
		return
	}

	tpl := mail.TokenLimitWarningTemplate(name, monthly, settings.TokenLimitMonthly)
	if err := s.sender.Send(email, tpl.Subject, tpl.HTML, tpl.Text); err != nil {
		slog.Error("token limit warning email failed", "user_id", userID, "error", err)
	}
}
