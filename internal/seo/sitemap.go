package seo

import (
	"encoding/xml"
	"io"
	"time"

	"github.com/30tools/ai-agents-directory/pkg/models"
)

// ChangeFreq is a sitemap changefreq value.
type ChangeFreq string

const (
	Daily   ChangeFreq = "daily"
	Weekly  ChangeFreq = "weekly"
	Monthly ChangeFreq = "monthly"
)

const sitemapNS = "http://www.sitemaps.org/schemas/sitemap/0.9"

// SitemapURL is one <url> entry.
type SitemapURL struct {
	Loc        string     `xml:"loc"`
	LastMod    string     `xml:"lastmod,omitempty"`
	ChangeFreq ChangeFreq `xml:"changefreq,omitempty"`
	Priority   float64    `xml:"priority"`
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []SitemapURL `xml:"url"`
}

// SitemapEntries lists static pages, blog posts, agents and categories, in
// that order.
func (s Site) SitemapEntries(blogSlugs []string, agents []models.Agent, categories []models.Category) []SitemapURL {
	mod := s.now().Format(time.RFC3339)
	entry := func(path string, freq ChangeFreq, prio float64) SitemapURL {
		return SitemapURL{Loc: s.URL(path), LastMod: mod, ChangeFreq: freq, Priority: prio}
	}

	out := []SitemapURL{
		entry("", Daily, 1),
		entry("agents", Daily, 0.9),
		entry("categories", Weekly, 0.8),
		entry("blog", Daily, 0.8),
		entry("about", Monthly, 0.5),
		entry("favorites", Weekly, 0.3),
	}
	for _, slug := range blogSlugs {
		out = append(out, entry("blog/"+slug, Monthly, 0.7))
	}
	for _, a := range agents {
		out = append(out, entry("agents/"+a.Name, Weekly, 0.7))
	}
	for _, c := range categories {
		out = append(out, entry("categories/"+c.Name, Weekly, 0.6))
	}
	return out
}

// WriteSitemap encodes entries as a sitemap.xml document.
func WriteSitemap(w io.Writer, entries []SitemapURL) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(urlSet{XMLNS: sitemapNS, URLs: entries}); err != nil {
		return err
	}
	return enc.Close()
}
