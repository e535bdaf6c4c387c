// Package web renders the server-side HTML pages from embedded templates.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/30tools/ai-agents-directory/internal/blog"
	"github.com/30tools/ai-agents-directory/internal/links"
	"github.com/30tools/ai-agents-directory/internal/query"
	"github.com/30tools/ai-agents-directory/internal/seo"
	"github.com/30tools/ai-agents-directory/pkg/models"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Page names.
const (
	PageHome       = "home"
	PageAgents     = "agents"
	PageAgent      = "agent"
	PageCategories = "categories"
	PageCategory   = "category"
	PageFavorites  = "favorites"
	PageBlog       = "blog"
	PagePost       = "post"
	PageAbout      = "about"
	PageError      = "error"
)

var pageNames = []string{
	PageHome, PageAgents, PageAgent, PageCategories, PageCategory,
	PageFavorites, PageBlog, PagePost, PageAbout, PageError,
}

// Page is the data every template receives.
type Page struct {
	Title       string
	Description string
	Path        string
	Nav         string
	Canonical   string
	OGImage     string
	JSONLD      []seo.Object
	Favorites   map[string]bool
	Year        int
	Data        any
}

// ── View models ──────────────────────────────────────────────

type HomeView struct {
	Featured    []models.Agent
	Popular     []models.Category
	Posts       []blog.Post
	TotalAgents int
	TotalCats   int
}

type AgentsView struct {
	Result     query.Page
	Params     query.Params
	Categories []models.Category
	Pricing    []models.PricingFilter
	Sorts      []models.SortOption
}

type AgentView struct {
	Agent      models.Agent
	VisitURL   string
	Categories []models.Category
	Related    []models.Agent
}

type CategoryCount struct {
	Category models.Category
	Count    int
}

type CategoriesView struct {
	Categories []CategoryCount
}

type CategoryView struct {
	Category models.Category
	Count    int
	Agents   []models.Agent
	Related  []models.Category
}

type FavoritesView struct {
	Agents []models.Agent
}

type BlogView struct {
	Posts      []blog.Post
	Featured   []blog.Post
	Categories []string
	Active     string
}

type PostView struct {
	Post blog.Post
	More []blog.Post
}

type AboutView struct {
	Metadata    models.Metadata
	TotalAgents int
	TotalCats   int
}

type ErrorView struct {
	Status  int
	Message string
}

// ── Renderer ─────────────────────────────────────────────────

// Renderer holds one parsed template set per page.
type Renderer struct {
	pages map[string]*template.Template
}

// New parses every page template against the shared layout.
func New() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template, len(pageNames))}
	for _, name := range pageNames {
		t, err := template.New("layout.html").Funcs(funcs).ParseFS(templatesFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// Render writes page to w. Rendering goes through a buffer so a template
// error never leaves a half-written response.
func (r *Renderer) Render(w io.Writer, name string, p Page) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	if p.Year == 0 {
		p.Year = time.Now().Year()
	}
	if p.Favorites == nil {
		p.Favorites = map[string]bool{}
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout.html", p); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	_, err := buf.WriteTo(w)
	return err
}

var funcs = template.FuncMap{
	"favicon":      func(u string) string { return links.FaviconURL(u, 32) },
	"domain":       links.Domain,
	"plain":        seo.PlainText,
	"slug":         models.Slugify,
	"pricingClass": pricingClass,
	"date":         func(t time.Time) string { return t.Format("January 2, 2006") },
	"add":          func(a, b int) int { return a + b },
	"pageURL":      pageURL,
	"truncate":     truncate,
	"dict":         dict,
}

func pricingClass(p models.Pricing) string {
	switch p {
	case models.PricingFree:
		return "free"
	case models.PricingPaid:
		return "paid"
	case models.PricingFreemium:
		return "freemium"
	default:
		return "ask"
	}
}

// pageURL builds a listing URL for page n keeping the current filters.
func pageURL(p query.Params, n int) string {
	v := url.Values{}
	if p.Search != "" {
		v.Set("search", p.Search)
	}
	if p.Category != "" {
		v.Set("category", p.Category)
	}
	if p.Pricing != "" && p.Pricing != models.PricingFilterAll {
		v.Set("pricing", string(p.Pricing))
	}
	if p.Sort != "" && p.Sort != models.SortByName {
		v.Set("sort", string(p.Sort))
	}
	if n > 1 {
		v.Set("page", strconv.Itoa(n))
	}
	if len(v) == 0 {
		return "/agents"
	}
	return "/agents?" + v.Encode()
}

// dict builds a map from alternating keys and values for sub-templates.
func dict(kv ...any) (map[string]any, error) {
	if len(kv)%2 != 0 {
		return nil, fmt.Errorf("dict: odd number of arguments")
	}
	m := make(map[string]any, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		k, ok := kv[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict: key %v is not a string", kv[i])
		}
		m[k] = kv[i+1]
	}
	return m, nil
}

func truncate(n int, s string) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) <= n {
		return string(r)
	}
	return strings.TrimSpace(string(r[:n])) + "…"
}
