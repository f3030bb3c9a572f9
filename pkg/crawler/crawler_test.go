package crawler

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"testing"

	"github.com/go-playground/assert/v2"
)

func TestNormalizeURL(t *testing.T) {
	u, err := normalizeURL("example.com/about")
	assert.Equal(t, err, nil)
	assert.Equal(t, "https://example.com/about", u.String())

	u, err = normalizeURL("https://example.com/page?x=1#frag")
	assert.Equal(t, err, nil)
	assert.Equal(t, "https://example.com/page", u.String())

	_, err = normalizeURL("https://")
	assert.NotEqual(t, err, nil)
}

func TestAcceptLink(t *testing.T) {
	cases := []struct {
		link string
		want bool
	}{
		{"https://example.com/page", true},
		{"https://other.com/page", false},
		{"https://example.com/doc.pdf", false},
		{"https://example.com/photo.JPG", false},
		{"https://example.com/archive.zip", false},
	}

	for _, tc := range cases {
		u, _ := url.Parse(tc.link)
		assert.Equal(t, tc.want, acceptLink(u, "example.com"))
	}
}

func TestCrawlSite_CollectsSameDomainLinks(t *testing.T) {
	mux := http.NewServeMux()
	var srv *httptest.Server

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `<html><body>
			<a href="/about">about</a>
			<a href="/page?x=1#frag">page</a>
			<a href="https://other.example.org/">external</a>
			<a href="/doc.pdf">pdf</a>
		</body></html>`)
	})
	mux.HandleFunc("/about", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `<html><body><a href="%s/contact">contact</a></body></html>`, srv.URL)
	})
	mux.HandleFunc("/page", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>no links</body></html>`)
	})
	mux.HandleFunc("/contact", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>done</body></html>`)
	})

	srv = httptest.NewServer(mux)
	defer srv.Close()

	urls, err := New().CrawlSite(srv.URL)
	assert.Equal(t, err, nil)

	sort.Strings(urls)
	want := []string{srv.URL, srv.URL + "/about", srv.URL + "/contact", srv.URL + "/page"}
	sort.Strings(want)
	assert.Equal(t, want, urls)
}

func TestCrawlSite_SwallowsPageFailures(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><a href="/broken">broken</a><a href="/ok">ok</a></body></html>`)
	})
	mux.HandleFunc("/broken", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	mux.HandleFunc("/ok", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body></body></html>`)
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	urls, err := New().CrawlSite(srv.URL)
	assert.Equal(t, err, nil)

	// The failing page is still listed as discovered; its branch just ends.
	sort.Strings(urls)
	want := []string{srv.URL, srv.URL + "/broken", srv.URL + "/ok"}
	sort.Strings(want)
	assert.Equal(t, want, urls)
}

func TestCrawlSite_MalformedSeed(t *testing.T) {
	_, err := New().CrawlSite("https://")
	assert.NotEqual(t, err, nil)
}

func TestPageTitle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><head><title> My Site </title></head><body></body></html>`)
	}))
	defer srv.Close()

	assert.Equal(t, "My Site", New().PageTitle(srv.URL))
	assert.Equal(t, "", New().PageTitle("http://127.0.0.1:1/nope"))
}

func TestPageDescription_MetaThenOGThenParagraph(t *testing.T) {
	meta := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><head><meta name="description" content="meta desc"></head></html>`)
	}))
	defer meta.Close()
	assert.Equal(t, "meta desc", New().PageDescription(meta.URL))

	og := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><head><meta property="og:description" content="og desc"></head></html>`)
	}))
	defer og.Close()
	assert.Equal(t, "og desc", New().PageDescription(og.URL))

	para := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><p>first paragraph</p><p>second</p></body></html>`)
	}))
	defer para.Close()
	assert.Equal(t, "first paragraph", New().PageDescription(para.URL))
}
