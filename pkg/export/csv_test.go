package export

import (
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"
	"github.com/mizow1/satelite-column11/internal/model"
)

func sampleArticle() model.ArticleWithDetails {
	rating := 80
	a := model.ArticleWithDetails{
		OutlineTitle:  "Brewing at home",
		OutlineText:   "Guide to pour-over",
		OutlineRating: &rating,
		SEOKeywords:   "coffee,brewing",
		SiteName:      "My Blog",
	}
	a.Language = "en"
	a.Content = "Full article body"
	a.UserInstructions = "casual tone"
	a.CreatedAt = time.Date(2026, 8, 30, 14, 5, 9, 0, time.UTC)
	return a
}

func TestArticles_AllColumns(t *testing.T) {
	out := Articles([]model.ArticleWithDetails{sampleArticle()}, DefaultOptions())

	rows, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	assert.Equal(t, err, nil)
	assert.Equal(t, 2, len(rows))
	assert.Equal(t, []string{
		"Site Name", "Title", "Language", "Created",
		"SEO Keywords", "Outline", "Outline Rating", "Article Rating",
		"Content", "User Instructions",
	}, rows[0])
	assert.Equal(t, []string{
		"My Blog", "Brewing at home", "en", "2026-08-30",
		"coffee,brewing", "Guide to pour-over", "80", "",
		"Full article body", "casual tone",
	}, rows[1])
}

func TestArticles_OptionalColumnsOff(t *testing.T) {
	out := Articles([]model.ArticleWithDetails{sampleArticle()}, Options{})

	rows, _ := csv.NewReader(strings.NewReader(out)).ReadAll()
	assert.Equal(t, []string{"Site Name", "Title", "Language", "Created", "User Instructions"}, rows[0])
	assert.Equal(t, 5, len(rows[1]))
}

func TestEscaping_RoundTrip(t *testing.T) {
	a := sampleArticle()
	a.Content = "a,b\"c\nd"

	out := Articles([]model.ArticleWithDetails{a}, DefaultOptions())
	assert.Equal(t, true, strings.Contains(out, `"a,b""c`))

	rows, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	assert.Equal(t, err, nil)
	assert.Equal(t, "a,b\"c\nd", rows[1][8])
}

func TestOutlines(t *testing.T) {
	o := model.OutlineWithSite{SiteName: "My Blog"}
	o.Title = "Brewing at home"
	o.Outline = "Guide to pour-over"
	o.SEOKeywords = "coffee,brewing"
	o.CreatedAt = time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)

	rows, _ := csv.NewReader(strings.NewReader(Outlines([]model.OutlineWithSite{o}))).ReadAll()
	assert.Equal(t, []string{"Site Name", "Title", "Outline", "SEO Keywords", "User Rating", "Created"}, rows[0])
	assert.Equal(t, []string{"My Blog", "Brewing at home", "Guide to pour-over", "coffee,brewing", "", "2026-08-30"}, rows[1])
}

func TestWordPress(t *testing.T) {
	rows, _ := csv.NewReader(strings.NewReader(WordPress([]model.ArticleWithDetails{sampleArticle()}))).ReadAll()
	assert.Equal(t, []string{"post_title", "post_content", "post_excerpt", "post_status", "post_type", "post_category", "tags_input", "post_date"}, rows[0])
	assert.Equal(t, "publish", rows[1][3])
	assert.Equal(t, "post", rows[1][4])
	assert.Equal(t, "", rows[1][5])
	assert.Equal(t, "2026-08-30 14:05:09", rows[1][7])
}

func TestDrupal(t *testing.T) {
	rows, _ := csv.NewReader(strings.NewReader(Drupal([]model.ArticleWithDetails{sampleArticle()}))).ReadAll()
	assert.Equal(t, []string{"title", "body", "summary", "status", "type", "tags", "created"}, rows[0])
	assert.Equal(t, "1", rows[1][3])
	assert.Equal(t, "article", rows[1][4])
	assert.Equal(t, "1788098709", rows[1][6])
}

func TestFilename(t *testing.T) {
	now := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "articles_My_Blog_wordpress_2026-08-30.csv", Filename("articles", "My Blog", FormatWordPress, now))
	assert.Equal(t, "articles_2026-08-30.csv", Filename("articles", "", FormatStandard, now))
	assert.Equal(t, "outlines_caf_2026-08-30.csv", Filename("outlines", "café!", "", now))
}
