package mail

import (
	"fmt"
	"strings"
	"time"

	"github.com/mizow1/satelite-column11/pkg/llm"
)

// Template is a fully rendered message: subject, HTML body and plain-text
// fallback. Builders are pure string construction.
type Template struct {
	Subject string
	HTML    string
	Text    string
}

type DailyProposalData struct {
	UserName  string
	SiteName  string
	Proposals []llm.Outline
	SiteURL   string
}

func DailyProposalTemplate(data DailyProposalData, now time.Time) Template {
	today := now.Format("2006-01-02")

	var htmlProposals, textProposals strings.Builder
	for i, p := range data.Proposals {
		keywords := strings.Join(p.SEOKeywords, ", ")
		fmt.Fprintf(&htmlProposals, `
        <div style="margin-bottom: 30px; padding: 20px; border: 1px solid #e0e0e0; border-radius: 8px;">
          <h3 style="color: #2563eb; margin-bottom: 10px;">Proposal %d: %s</h3>
          <p style="margin-bottom: 15px; line-height: 1.6;">%s</p>
          <div style="background-color: #f8fafc; padding: 10px; border-radius: 4px;">
            <strong>SEO keywords:</strong> %s
          </div>
        </div>`, i+1, p.Title, p.Outline, keywords)

		fmt.Fprintf(&textProposals, "\nProposal %d: %s\n%s\nSEO keywords: %s\n---\n", i+1, p.Title, p.Outline, keywords)
	}

	linkHTML := ""
	if data.SiteURL != "" {
		linkHTML = fmt.Sprintf(`<p style="margin: 10px 0 0 0;"><a href="%s" style="color: #2563eb;">Open the dashboard</a></p>`, data.SiteURL)
	}

	subject := fmt.Sprintf("[%s] Today's article proposals - %s", data.SiteName, today)

	html := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Today's article proposals</title></head>
<body style="font-family: sans-serif; line-height: 1.6; color: #333;">
  <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
    <div style="background-color: #2563eb; color: white; padding: 20px; border-radius: 8px 8px 0 0;">
      <h1 style="margin: 0; font-size: 24px;">Today's article proposals</h1>
      <p style="margin: 10px 0 0 0; opacity: 0.9;">%s</p>
    </div>
    <div style="background-color: #f8fafc; padding: 20px; border-radius: 0 0 8px 8px;">
      <p>Hello %s,</p>
      <p>Here are today's article proposals for <strong>%s</strong>.</p>
      %s
      <div style="margin-top: 30px; padding: 20px; background-color: #dbeafe; border-radius: 8px;">
        <p style="margin: 0;">If any of these look good, log in to the dashboard to start generating the article.</p>
        %s
      </div>
    </div>
    <div style="margin-top: 20px; text-align: center; color: #666; font-size: 12px;">
      <p>This email was sent automatically. Notification settings can be changed in the dashboard.</p>
    </div>
  </div>
</body>
</html>`, today, data.UserName, data.SiteName, htmlProposals.String(), linkHTML)

	text := fmt.Sprintf(`Today's article proposals - %s

Hello %s,

Here are today's article proposals for %s.
%s
If any of these look good, log in to the dashboard to start generating the article.

This email was sent automatically. Notification settings can be changed in the dashboard.
`, today, data.UserName, data.SiteName, textProposals.String())

	return Template{Subject: subject, HTML: html, Text: text}
}

func WelcomeTemplate(userName string) Template {
	subject := "Welcome to the SEO article writer!"

	html := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Welcome</title></head>
<body style="font-family: sans-serif; line-height: 1.6; color: #333;">
  <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
    <div style="background-color: #10b981; color: white; padding: 20px; border-radius: 8px 8px 0 0;">
      <h1 style="margin: 0; font-size: 24px;">Welcome!</h1>
    </div>
    <div style="background-color: #f8fafc; padding: 20px; border-radius: 0 0 8px 8px;">
      <p>%s, thank you for creating an account!</p>
      <p>Register a site, generate a content policy, and start producing SEO-optimized articles in thirteen languages.</p>
      <h2>Main features:</h2>
      <ul>
        <li>Site crawling and content policy generation</li>
        <li>Article outline proposals with duplicate avoidance</li>
        <li>Multilingual long-form article generation</li>
        <li>CSV export for WordPress and Drupal</li>
      </ul>
    </div>
  </div>
</body>
</html>`, userName)

	text := fmt.Sprintf(`Welcome!

%s, thank you for creating an account!

Register a site, generate a content policy, and start producing SEO-optimized
articles in thirteen languages.
`, userName)

	return Template{Subject: subject, HTML: html, Text: text}
}

func PasswordResetTemplate(userName, resetLink string) Template {
	subject := "Password reset"

	html := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Password reset</title></head>
<body style="font-family: sans-serif; line-height: 1.6; color: #333;">
  <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
    <p>Hello %s,</p>
    <p>A password reset was requested for your account. Use the link below to set a new password:</p>
    <p><a href="%s" style="color: #2563eb;">%s</a></p>
    <p>If you did not request this, you can ignore this email.</p>
  </div>
</body>
</html>`, userName, resetLink, resetLink)

	text := fmt.Sprintf(`Hello %s,

A password reset was requested for your account. Use the link below to set a
new password:

%s

If you did not request this, you can ignore this email.
`, userName, resetLink)

	return Template{Subject: subject, HTML: html, Text: text}
}

func TokenLimitWarningTemplate(userName string, currentUsage, limit int64) Template {
	subject := "Monthly token limit reached"

	html := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Token limit</title></head>
<body style="font-family: sans-serif; line-height: 1.6; color: #333;">
  <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
    <p>Hello %s,</p>
    <p>Your token usage this month is <strong>%d</strong> of your <strong>%d</strong> limit.
    Article and outline generation is paused until the start of next month, or until the
    limit is raised in your settings.</p>
  </div>
</body>
</html>`, userName, currentUsage, limit)

	text := fmt.Sprintf(`Hello %s,

Your token usage this month is %d of your %d limit. Article and outline
generation is paused until the start of next month, or until the limit is
raised in your settings.
`, userName, currentUsage, limit)

	return Template{Subject: subject, HTML: html, Text: text}
}
