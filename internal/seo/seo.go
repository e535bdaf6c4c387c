// Package seo renders the machine-readable surfaces of the site: sitemap,
// RSS feed, schema.org JSON-LD, OpenGraph images and the web manifest.
package seo

import (
	"html"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
)

const (
	SiteName        = "AI Agents Directory"
	SiteShortName   = "AI Agents"
	SiteDescription = "Discover the perfect AI agent for your needs. Browse our curated directory of AI tools and agents."

	// CacheControl is sent with feeds and structured data.
	CacheControl = "public, max-age=3600, stale-while-revalidate=86400"
)

// Site identifies the public origin documents are rendered for.
type Site struct {
	BaseURL string
	Now     func() time.Time
}

// NewSite returns a Site for baseURL using the wall clock.
func NewSite(baseURL string) Site {
	return Site{BaseURL: strings.TrimRight(baseURL, "/"), Now: time.Now}
}

func (s Site) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

// URL joins path onto the base URL.
func (s Site) URL(path string) string {
	if path == "" || path == "/" {
		return s.BaseURL
	}
	return s.BaseURL + "/" + strings.TrimLeft(path, "/")
}

var strict = bluemonday.StrictPolicy()

// PlainText strips markup from scraped copy and collapses whitespace.
func PlainText(s string) string {
	clean := html.UnescapeString(strict.Sanitize(s))
	return strings.Join(strings.Fields(clean), " ")
}
