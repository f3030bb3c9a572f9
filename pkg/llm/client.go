package llm

import (
	"fmt"
	"strings"
)

// SiteInfo is the site context handed to content policy generation.
type SiteInfo struct {
	Name      string
	URL       string
	SiteImage string
	URLs      []string
}

// Outline is one proposed article: title, summary body and SEO keywords.
type Outline struct {
	Title       string
	Outline     string
	SEOKeywords []string
}

// Client is implemented by each generative-text provider. Instances are
// constructed per request and not reused; TokenUsage reports the tokens
// consumed by all calls made on the instance.
type Client interface {
	GenerateContentPolicy(site SiteInfo) (string, error)
	GenerateArticleOutlines(policy string, count int, existing []Outline) ([]Outline, error)
	GenerateArticleContent(outline Outline, language string, userInstructions string) (string, error)
	TokenUsage() int64
}

const (
	ServiceGPT4   = "gpt-4"
	ServiceClaude = "claude"
	ServiceGemini = "gemini"
)

// NewClient resolves the provider configured in user settings. Unknown
// service names fail here, not on first use.
func NewClient(service string) (Client, error) {
	switch service {
	case ServiceGPT4:
		return NewOpenAIClient(), nil
	case ServiceClaude:
		return NewAnthropicClient(), nil
	case ServiceGemini:
		return NewGeminiClient(), nil
	default:
		return nil, fmt.Errorf("unsupported AI service: %s", service)
	}
}

func SupportedServices() []string {
	return []string{ServiceGPT4, ServiceClaude, ServiceGemini}
}

var serviceDisplayNames = map[string]string{
	ServiceGPT4:   "GPT-4",
	ServiceClaude: "Claude Sonnet",
	ServiceGemini: "Gemini Pro",
}

func ServiceDisplayName(service string) string {
	if name, ok := serviceDisplayNames[service]; ok {
		return name
	}
	return service
}

var languageNames = map[string]string{
	"ja":    "Japanese",
	"en":    "English",
	"zh-cn": "Simplified Chinese",
	"zh-tw": "Traditional Chinese",
	"ko":    "Korean",
	"es":    "Spanish",
	"ar":    "Arabic",
	"pt":    "Portuguese",
	"fr":    "French",
	"de":    "German",
	"ru":    "Russian",
	"it":    "Italian",
	"hi":    "Hindi",
}

const defaultLanguage = "Japanese"

// LanguageName maps a language code to the name used in prompts.
// Unrecognized codes fall back to Japanese.
func LanguageName(code string) string {
	if name, ok := languageNames[code]; ok {
		return name
	}
	return defaultLanguage
}

// parseOutlines extracts outlines from the delimited block format the
// providers are instructed to emit:
//
//	---
//	Title: ...
//	Outline: ...
//	Keywords: a, b, c
//	---
//
// Blocks missing a title, outline or at least one keyword are dropped;
// a malformed block never fails the batch.
func parseOutlines(content string) []Outline {
	var outlines []Outline

	for _, section := range strings.Split(content, "---") {
		section = strings.TrimSpace(section)
		if section == "" {
			continue
		}

		var title, outline string
		var keywords []string

		for _, line := range strings.Split(section, "\n") {
			line = strings.TrimSpace(line)
			switch {
			case strings.HasPrefix(line, "Title:"):
				title = strings.TrimSpace(strings.TrimPrefix(line, "Title:"))
			case strings.HasPrefix(line, "Outline:"):
				outline = strings.TrimSpace(strings.TrimPrefix(line, "Outline:"))
			case strings.HasPrefix(line, "Keywords:"):
				keywords = splitKeywordList(strings.TrimPrefix(line, "Keywords:"))
			}
		}

		if title != "" && outline != "" && len(keywords) > 0 {
			outlines = append(outlines, Outline{
				Title:       title,
				Outline:     outline,
				SEOKeywords: keywords,
			})
		}
	}

	return outlines
}

func splitKeywordList(s string) []string {
	var keywords []string
	for _, k := range strings.Split(s, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keywords = append(keywords, k)
		}
	}
	return keywords
}
