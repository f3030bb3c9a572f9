package mail

import (
	"strings"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"
	"github.com/mizow1/satelite-column11/pkg/llm"
)

func TestDailyProposalTemplate(t *testing.T) {
	data := DailyProposalData{
		UserName: "Mio",
		SiteName: "My Blog",
		Proposals: []llm.Outline{
			{Title: "First", Outline: "First outline", SEOKeywords: []string{"a", "b"}},
			{Title: "Second", Outline: "Second outline", SEOKeywords: []string{"c"}},
		},
		SiteURL: "https://app.example.com",
	}

	tpl := DailyProposalTemplate(data, time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC))

	assert.Equal(t, "[My Blog] Today's article proposals - 2026-08-30", tpl.Subject)
	assert.Equal(t, true, strings.Contains(tpl.HTML, "Proposal 1: First"))
	assert.Equal(t, true, strings.Contains(tpl.HTML, "Proposal 2: Second"))
	assert.Equal(t, true, strings.Contains(tpl.HTML, "a, b"))
	assert.Equal(t, true, strings.Contains(tpl.HTML, "https://app.example.com"))
	assert.Equal(t, true, strings.Contains(tpl.Text, "Proposal 2: Second"))
}

func TestDailyProposalTemplate_NoSiteURL(t *testing.T) {
	tpl := DailyProposalTemplate(DailyProposalData{UserName: "Mio", SiteName: "Blog"}, time.Now())
	assert.Equal(t, false, strings.Contains(tpl.HTML, "Open the dashboard"))
}

func TestWelcomeTemplate(t *testing.T) {
	tpl := WelcomeTemplate("Mio")
	assert.Equal(t, "Welcome to the SEO article writer!", tpl.Subject)
	assert.Equal(t, true, strings.Contains(tpl.HTML, "Mio"))
	assert.Equal(t, true, strings.Contains(tpl.Text, "Mio"))
}

func TestPasswordResetTemplate(t *testing.T) {
	tpl := PasswordResetTemplate("Mio", "https://app.example.com/reset?token=abc")
	assert.Equal(t, true, strings.Contains(tpl.HTML, "https://app.example.com/reset?token=abc"))
	assert.Equal(t, true, strings.Contains(tpl.Text, "https://app.example.com/reset?token=abc"))
}

func TestTokenLimitWarningTemplate(t *testing.T) {
	tpl := TokenLimitWarningTemplate("Mio", 100000, 100000)
	assert.Equal(t, true, strings.Contains(tpl.HTML, "100000"))
	assert.Equal(t, true, strings.Contains(tpl.Text, "100000"))
}
