// Package handlers implements the HTTP handlers for the AI agents directory:
// the JSON API, the HTML pages, the SEO documents and IndexNow submission.
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/30tools/ai-agents-directory/internal/blog"
	"github.com/30tools/ai-agents-directory/internal/catalog"
	"github.com/30tools/ai-agents-directory/internal/favorites"
	"github.com/30tools/ai-agents-directory/internal/links"
	"github.com/30tools/ai-agents-directory/internal/notify"
	"github.com/30tools/ai-agents-directory/internal/seo"
	"github.com/30tools/ai-agents-directory/internal/web"

	"github.com/go-http-utils/headers"
)

// Handlers holds all handler dependencies.
type Handlers struct {
	Catalog   *catalog.Catalog
	Favorites *favorites.Store
	IndexNow  *notify.Service
	Blog      *blog.Blog
	Pages     *web.Renderer
	Links     *links.Resolver
	Site      seo.Site
	Version   string

	// PageViews is optional; when set, agent and category page views are
	// reported to IndexNow.
	PageViews *notify.Notifier
}

// New creates a new Handlers instance with all dependencies.
func New(cat *catalog.Catalog, fav *favorites.Store, in *notify.Service, b *blog.Blog, pages *web.Renderer, res *links.Resolver, site seo.Site, version string) *Handlers {
	return &Handlers{
		Catalog:   cat,
		Favorites: fav,
		IndexNow:  in,
		Blog:      b,
		Pages:     pages,
		Links:     res,
		Site:      site,
		Version:   version,
	}
}

// ── Ops ──────────────────────────────────────────────────────

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":  "healthy",
		"service": "ai-agents-directory",
		"agents":  len(h.Catalog.Agents()),
	})
}

func (h *Handlers) VersionInfo(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"version": h.Version,
		"service": "ai-agents-directory",
	})
}

// ── Helpers ──────────────────────────────────────────────────

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set(headers.ContentType, "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// intParam parses an optional positive integer query parameter.
func intParam(r *http.Request, name string, def int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}
