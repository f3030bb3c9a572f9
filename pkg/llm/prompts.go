package llm

import (
	"fmt"
	"strings"
)

const policySystemPrompt = "You are an SEO specialist. Analyze the site information and produce an effective content policy for article creation."

const outlineSystemPrompt = "You are an SEO content planner. Produce high-quality article outlines."

func contentSystemPrompt(language string) string {
	return fmt.Sprintf("You are a professional content writer. Write high-quality, SEO-optimized articles in %s.", language)
}

func buildPolicyPrompt(site SiteInfo) string {
	var sb strings.Builder
	sb.WriteString("Based on the following site information, create a content policy for SEO-optimized articles.\n\n")
	sb.WriteString("Site name: " + site.Name + "\n")
	if site.URL != "" {
		sb.WriteString("URL: " + site.URL + "\n")
	}
	if site.SiteImage != "" {
		sb.WriteString("Site description: " + site.SiteImage + "\n")
	}
	if len(site.URLs) > 0 {
		sb.WriteString("Related URLs: " + strings.Join(site.URLs, ", ") + "\n")
	}
	sb.WriteString(`
Create a detailed article creation policy covering:
1. Target audience
2. Primary SEO keyword strategy
3. Content direction
4. Tone and style
5. SEO elements to emphasize
`)
	return sb.String()
}

func buildOutlinesPrompt(policy string, count int, existing []Outline) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Based on the following content policy, create %d article outlines:\n\n%s\n", count, policy)

	if len(existing) > 0 {
		sb.WriteString("\nExisting article titles (avoid duplicating these):\n")
		for _, o := range existing {
			sb.WriteString(o.Title + "\n")
		}
	}

	fmt.Fprintf(&sb, `
Output each outline in exactly this format:
---
Title: [article title]
Outline: [article summary, 200-300 characters]
Keywords: [keyword1, keyword2, keyword3]
---

Create %d article outlines.
`, count)
	return sb.String()
}

func buildContentPrompt(outline Outline, language string, userInstructions string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Based on the following outline and SEO keywords, write a detailed article of at least 20,000 characters in %s:\n\n", language)
	sb.WriteString("Title: " + outline.Title + "\n")
	sb.WriteString("Outline: " + outline.Outline + "\n")
	sb.WriteString("SEO keywords: " + strings.Join(outline.SEOKeywords, ", ") + "\n")

	if userInstructions != "" {
		sb.WriteString("\nAdditional instructions from the user:\n" + userInstructions + "\n")
	}

	sb.WriteString(`
Requirements:
- Markdown output
- Proper heading structure (H1, H2, H3)
- Place SEO keywords naturally
- Readable, valuable content
- At least 20,000 characters
- No meta commentary or character counts
- Output the article body only
`)
	return sb.String()
}
