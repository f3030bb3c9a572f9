package crawler

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"
)

const (
	maxDepth       = 2
	maxURLs        = 50
	maxConcurrency = 10
	userAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
)

var excludedExtensions = []string{
	".pdf", ".doc", ".docx", ".xls", ".xlsx", ".zip",
	".jpg", ".jpeg", ".png", ".gif",
}

// Crawler discovers same-domain URLs from a seed by a bounded breadth-first
// walk. Instances are single-use: the visited set is shared across the walk.
type Crawler struct {
	client *http.Client

	mu      sync.Mutex
	visited map[string]bool
	found   []string
}

func New() *Crawler {
	return &Crawler{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		visited: make(map[string]bool),
	}
}

// CrawlSite walks the seed's site up to two levels deep and returns at most
// 50 discovered URLs, seed included. The only error is a malformed seed;
// per-page fetch failures just stop that branch.
func (c *Crawler) CrawlSite(seed string) ([]string, error) {
	base, err := normalizeURL(seed)
	if err != nil {
		return nil, err
	}

	c.crawl(base, base.Hostname(), 0)

	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.found) > maxURLs {
		return c.found[:maxURLs], nil
	}
	return c.found, nil
}

func (c *Crawler) crawl(page *url.URL, host string, depth int) {
	pageURL := page.String()

	c.mu.Lock()
	if depth > maxDepth || c.visited[pageURL] || len(c.found) >= maxURLs {
		c.mu.Unlock()
		return
	}
	c.visited[pageURL] = true
	c.found = append(c.found, pageURL)
	c.mu.Unlock()

	doc, err := c.fetch(pageURL)
	if err != nil {
		return
	}

	var links []*url.URL
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok || len(links) >= maxConcurrency {
			return
		}
		resolved, err := page.Parse(href)
		if err != nil {
			return
		}
		// Discovered links get the same normalization as the seed: query
		// and fragment are dropped before filtering.
		link := &url.URL{Scheme: resolved.Scheme, Host: resolved.Host, Path: resolved.Path}
		if acceptLink(link, host) {
			links = append(links, link)
		}
	})

	var g errgroup.Group
	for _, link := range links {
		g.Go(func() error {
			c.crawl(link, host, depth+1)
			return nil
		})
	}
	g.Wait()
}

func (c *Crawler) fetch(pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequest(http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, pageURL)
	}

	return goquery.NewDocumentFromReader(resp.Body)
}

// normalizeURL prefixes a missing scheme with https and strips query and
// fragment, keeping scheme://host/path.
func normalizeURL(raw string) (*url.URL, error) {
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		return nil, fmt.Errorf("invalid URL format: %s", raw)
	}

	return &url.URL{Scheme: u.Scheme, Host: u.Host, Path: u.Path}, nil
}

func acceptLink(u *url.URL, host string) bool {
	if u.Hostname() != host {
		return false
	}

	path := strings.ToLower(u.Path)
	for _, ext := range excludedExtensions {
		if strings.HasSuffix(path, ext) {
			return false
		}
	}

	return true
}

// PageTitle fetches a single page and returns its <title> text, or "" on any
// failure.
func (c *Crawler) PageTitle(pageURL string) string {
	doc, err := c.fetch(pageURL)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Find("title").Text())
}

// PageDescription returns the page's meta description, falling back to the
// Open Graph description, then to the first paragraph truncated to 200
// characters. "" on any failure.
func (c *Crawler) PageDescription(pageURL string) string {
	doc, err := c.fetch(pageURL)
	if err != nil {
		return ""
	}

	if desc, ok := doc.Find(`meta[name="description"]`).Attr("content"); ok && strings.TrimSpace(desc) != "" {
		return strings.TrimSpace(desc)
	}

	if desc, ok := doc.Find(`meta[property="og:description"]`).Attr("content"); ok && strings.TrimSpace(desc) != "" {
		return strings.TrimSpace(desc)
	}

	paragraph := strings.TrimSpace(doc.Find("p").First().Text())
	if len(paragraph) > 200 {
		return paragraph[:200] + "..."
	}
	return paragraph
}
