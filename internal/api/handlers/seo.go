package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/30tools/ai-agents-directory/internal/seo"

	"github.com/go-http-utils/headers"
	"github.com/rs/zerolog/log"
)

// writeDocument renders into a buffer and writes nothing unless rendering
// succeeds.
func writeDocument(w http.ResponseWriter, contentType, cacheControl string, render func(*bytes.Buffer) error) {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		log.Error().Err(err).Str("content_type", contentType).Msg("Failed to render document")
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	w.Header().Set(headers.ContentType, contentType)
	if cacheControl != "" {
		w.Header().Set(headers.CacheControl, cacheControl)
	}
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// GET /sitemap.xml
func (h *Handlers) Sitemap(w http.ResponseWriter, r *http.Request) {
	entries := h.Site.SitemapEntries(h.Blog.Slugs(), h.Catalog.Agents(), h.Catalog.Categories())
	writeDocument(w, "application/xml; charset=utf-8", seo.CacheControl, func(b *bytes.Buffer) error {
		return seo.WriteSitemap(b, entries)
	})
}

// GET /feed/rss.xml
func (h *Handlers) RSSFeed(w http.ResponseWriter, r *http.Request) {
	writeDocument(w, "application/rss+xml; charset=utf-8", seo.CacheControl, func(b *bytes.Buffer) error {
		return h.Site.WriteFeed(b, h.Catalog.Agents())
	})
}

// GET /manifest.webmanifest
func (h *Handlers) Manifest(w http.ResponseWriter, r *http.Request) {
	writeDocument(w, "application/manifest+json", "", func(b *bytes.Buffer) error {
		return json.NewEncoder(b).Encode(seo.WebManifest())
	})
}

// GET /api/og?title=&description=&category=
func (h *Handlers) OGImage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	img := seo.OGImage{
		Title:       q.Get("title"),
		Description: q.Get("description"),
		Category:    q.Get("category"),
	}
	writeDocument(w, "image/svg+xml", seo.OGCacheControl, func(b *bytes.Buffer) error {
		svg, err := img.Render()
		if err != nil {
			return err
		}
		b.Write(svg)
		return nil
	})
}

// StructuredData answers unknown types with a plain-text 400.
// GET /api/structured-data?type=website|organization|catalog|breadcrumb
func (h *Handlers) StructuredData(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	doc, err := h.Site.StructuredData(seo.Kind(q.Get("type")), h.Catalog.Agents(), seo.BreadcrumbTarget{
		Agent:    q.Get("agent"),
		Category: q.Get("category"),
	})
	if err != nil {
		http.Error(w, "Invalid type parameter", http.StatusBadRequest)
		return
	}
	writeDocument(w, "application/ld+json", seo.CacheControl, func(b *bytes.Buffer) error {
		return json.NewEncoder(b).Encode(doc)
	})
}
