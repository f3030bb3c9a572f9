// Package export builds CSV documents for article and outline downloads.
// All builders are pure: records are authorized and fetched by the caller.
package export

import (
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	"github.com/mizow1/satelite-column11/internal/model"
)

const (
	FormatStandard  = "standard"
	FormatWordPress = "wordpress"
	FormatDrupal    = "drupal"
)

// Options controls which optional column groups the standard article layout
// includes. The zero value is not useful; use DefaultOptions.
type Options struct {
	IncludeMetadata bool
	IncludeContent  bool
	IncludeRatings  bool
}

func DefaultOptions() Options {
	return Options{IncludeMetadata: true, IncludeContent: true, IncludeRatings: true}
}

func writeAll(records [][]string) string {
	var sb strings.Builder
	w := csv.NewWriter(&sb)
	w.WriteAll(records)
	return sb.String()
}

func ratingField(rating *int) string {
	if rating == nil {
		return ""
	}
	return fmt.Sprintf("%d", *rating)
}

// Articles renders the standard article layout. Column groups for metadata,
// ratings and content are toggled by opts; the user-instructions column is
// always last.
func Articles(articles []model.ArticleWithDetails, opts Options) string {
	header := []string{"Site Name", "Title", "Language", "Created"}
	if opts.IncludeMetadata {
		header = append(header, "SEO Keywords", "Outline")
	}
	if opts.IncludeRatings {
		header = append(header, "Outline Rating", "Article Rating")
	}
	if opts.IncludeContent {
		header = append(header, "Content")
	}
	header = append(header, "User Instructions")

	records := [][]string{header}
	for _, a := range articles {
		row := []string{
			a.SiteName,
			a.OutlineTitle,
			a.Language,
			a.CreatedAt.Format("2006-01-02"),
		}
		if opts.IncludeMetadata {
			row = append(row, a.SEOKeywords, a.OutlineText)
		}
		if opts.IncludeRatings {
			row = append(row, ratingField(a.OutlineRating), ratingField(a.UserRating))
		}
		if opts.IncludeContent {
			row = append(row, a.Content)
		}
		row = append(row, a.UserInstructions)
		records = append(records, row)
	}

	return writeAll(records)
}

// Outlines renders the fixed outline layout.
func Outlines(outlines []model.OutlineWithSite) string {
	records := [][]string{
		{"Site Name", "Title", "Outline", "SEO Keywords", "User Rating", "Created"},
	}
	for _, o := range outlines {
		records = append(records, []string{
			o.SiteName,
			o.Title,
			o.Outline,
			o.SEOKeywords,
			ratingField(o.UserRating),
			o.CreatedAt.Format("2006-01-02"),
		})
	}
	return writeAll(records)
}

// WordPress renders the WordPress importer field layout.
func WordPress(articles []model.ArticleWithDetails) string {
	records := [][]string{
		{"post_title", "post_content", "post_excerpt", "post_status", "post_type", "post_category", "tags_input", "post_date"},
	}
	for _, a := range articles {
		records = append(records, []string{
			a.OutlineTitle,
			a.Content,
			a.OutlineText,
			"publish",
			"post",
			"",
			a.SEOKeywords,
			a.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	return writeAll(records)
}

// Drupal renders the Drupal importer field layout.
func Drupal(articles []model.ArticleWithDetails) string {
	records := [][]string{
		{"title", "body", "summary", "status", "type", "tags", "created"},
	}
	for _, a := range articles {
		records = append(records, []string{
			a.OutlineTitle,
			a.Content,
			a.OutlineText,
			"1",
			"article",
			a.SEOKeywords,
			fmt.Sprintf("%d", a.CreatedAt.Unix()),
		})
	}
	return writeAll(records)
}

// Filename composes the download filename:
// <label>[_site][_format]_<YYYY-MM-DD>.csv. The site name is sanitized to a
// filesystem-safe token.
func Filename(docType string, siteName string, format string, now time.Time) string {
	label := "articles"
	if docType == "outlines" {
		label = "outlines"
	}

	parts := []string{label}
	if siteName != "" {
		parts = append(parts, sanitizeName(siteName))
	}
	if format != "" && format != FormatStandard {
		parts = append(parts, format)
	}
	parts = append(parts, now.Format("2006-01-02"))

	return strings.Join(parts, "_") + ".csv"
}

func sanitizeName(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
			return r
		case r == ' ' || r == '_':
			return '_'
		default:
			return -1
		}
	}, name)
}
