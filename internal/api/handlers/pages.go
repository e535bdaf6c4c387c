package handlers

import (
	"bytes"
	"net/http"
	"net/url"
	"strings"

	"github.com/30tools/ai-agents-directory/internal/blog"
	"github.com/30tools/ai-agents-directory/internal/notify"
	"github.com/30tools/ai-agents-directory/internal/query"
	"github.com/30tools/ai-agents-directory/internal/seo"
	"github.com/30tools/ai-agents-directory/internal/web"
	"github.com/30tools/ai-agents-directory/pkg/models"

	"github.com/go-chi/chi/v5"
	"github.com/go-http-utils/headers"
	"github.com/rs/zerolog/log"
)

const (
	homeFeatured  = 6
	homePopular   = 8
	homePosts     = 3
	relatedAgents = 3
	relatedCats   = 4
	morePosts     = 3
)

// render writes an HTML page with status. Favorites state is filled in
// from the store for every page.
func (h *Handlers) render(w http.ResponseWriter, r *http.Request, status int, name string, p web.Page) {
	p.Favorites = h.favoriteSet(r)
	if p.Canonical == "" {
		p.Canonical = h.Site.URL(r.URL.Path)
	}
	if p.OGImage == "" {
		p.OGImage = h.ogImageURL(p.Title, p.Description, "")
	}

	var buf bytes.Buffer
	if err := h.Pages.Render(&buf, name, p); err != nil {
		log.Error().Err(err).Str("page", name).Msg("Failed to render page")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set(headers.ContentType, "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

func (h *Handlers) favoriteSet(r *http.Request) map[string]bool {
	ids := h.Favorites.List(r.Context())
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

func (h *Handlers) ogImageURL(title, description, category string) string {
	v := url.Values{}
	if title != "" {
		v.Set("title", title)
	}
	if description != "" {
		v.Set("description", description)
	}
	if category != "" {
		v.Set("category", category)
	}
	u := h.Site.URL("api/og")
	if len(v) > 0 {
		u += "?" + v.Encode()
	}
	return u
}

func (h *Handlers) notFoundPage(w http.ResponseWriter, r *http.Request, msg string) {
	h.render(w, r, http.StatusNotFound, web.PageError, web.Page{
		Title: "Not Found | " + seo.SiteName,
		Data:  web.ErrorView{Status: http.StatusNotFound, Message: msg},
	})
}

// NotFound is the router fallback. API paths get JSON, everything else the
// HTML error page.
func (h *Handlers) NotFound(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		respondError(w, http.StatusNotFound, "Not found")
		return
	}
	h.notFoundPage(w, r, "The page you are looking for does not exist.")
}

// pageViewed reports a crawlable page to IndexNow when page-view
// notification is enabled.
func (h *Handlers) pageViewed(u string) {
	if h.PageViews != nil {
		h.PageViews.PageViewed(u)
	}
}

// ── Pages ────────────────────────────────────────────────────

// GET /
func (h *Handlers) HomePage(w http.ResponseWriter, r *http.Request) {
	website, _ := h.Site.StructuredData(seo.KindWebsite, nil, seo.BreadcrumbTarget{})
	org, _ := h.Site.StructuredData(seo.KindOrganization, nil, seo.BreadcrumbTarget{})

	posts := h.Blog.Featured()
	if len(posts) > homePosts {
		posts = posts[:homePosts]
	}
	h.render(w, r, http.StatusOK, web.PageHome, web.Page{
		Title:       seo.SiteName + " - Discover the Best AI Tools & Agents",
		Description: seo.SiteDescription,
		Path:        "/",
		Nav:         "home",
		Canonical:   h.Site.BaseURL,
		JSONLD:      []seo.Object{website, org},
		Data: web.HomeView{
			Featured:    h.Catalog.FeaturedAgents(homeFeatured),
			Popular:     h.Catalog.PopularCategories(homePopular),
			Posts:       posts,
			TotalAgents: len(h.Catalog.Agents()),
			TotalCats:   len(h.Catalog.Categories()),
		},
	})
}

// AgentsPage is lenient: unknown filter values fall back to the defaults.
// GET /agents
func (h *Handlers) AgentsPage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := query.DefaultParams()
	params.Search = q.Get("search")
	if c := q.Get("category"); c != "all" {
		params.Category = c
	}
	if f, err := query.ParsePricingFilter(q.Get("pricing")); err == nil {
		params.Pricing = f
	}
	if s, err := query.ParseSortOption(q.Get("sort")); err == nil {
		params.Sort = s
	}
	page, ok := intParam(r, "page", 1)
	if !ok {
		page = 1
	}

	result := query.Paginate(query.Apply(h.Catalog.Agents(), params), page, query.DefaultPerPage)
	catalogDoc, _ := h.Site.StructuredData(seo.KindCatalog, result.Items, seo.BreadcrumbTarget{})

	h.render(w, r, http.StatusOK, web.PageAgents, web.Page{
		Title:       "Browse AI Agents | " + seo.SiteName,
		Description: "Search and filter AI agents by category, pricing and features.",
		Path:        "/agents",
		Nav:         "agents",
		Canonical:   h.Site.URL("agents"),
		JSONLD:      []seo.Object{catalogDoc},
		Data: web.AgentsView{
			Result:     result,
			Params:     params,
			Categories: h.Catalog.Categories(),
			Pricing:    models.PricingFilters,
			Sorts:      models.SortOptions,
		},
	})
}

// GET /agents/{name}
func (h *Handlers) AgentPage(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	agent, ok := h.Catalog.AgentByName(name)
	if !ok {
		h.notFoundPage(w, r, "No agent named "+name+" is listed.")
		return
	}

	var cats []models.Category
	for _, c := range agent.Categories {
		if cat, ok := h.Catalog.CategoryByName(models.Slugify(c)); ok {
			cats = append(cats, cat)
		}
	}

	var related []models.Agent
	if primary := agent.PrimaryCategory(); primary != "" {
		for _, a := range h.Catalog.AgentsByCategory(models.Slugify(primary)) {
			if len(related) == relatedAgents {
				break
			}
			if a.Name != agent.Name {
				related = append(related, a)
			}
		}
	}

	crumb, _ := h.Site.StructuredData(seo.KindBreadcrumb, nil, seo.BreadcrumbTarget{Agent: agent.Name})
	description := seo.PlainText(agent.Summary())
	canonical := notify.AgentURL(h.Site.BaseURL, agent.Name)

	h.render(w, r, http.StatusOK, web.PageAgent, web.Page{
		Title:       agent.DisplayTitle() + " | " + seo.SiteName,
		Description: description,
		Path:        r.URL.Path,
		Nav:         "agents",
		Canonical:   canonical,
		OGImage:     h.ogImageURL(agent.DisplayTitle(), description, agent.PrimaryCategory()),
		JSONLD:      []seo.Object{h.Site.AgentApplication(agent), crumb},
		Data: web.AgentView{
			Agent:      agent,
			VisitURL:   h.Links.VisitURL(agent),
			Categories: cats,
			Related:    related,
		},
	})
	h.pageViewed(canonical)
}

// GET /categories
func (h *Handlers) CategoriesPage(w http.ResponseWriter, r *http.Request) {
	cats := h.Catalog.Categories()
	counts := make([]web.CategoryCount, 0, len(cats))
	for _, c := range cats {
		counts = append(counts, web.CategoryCount{Category: c, Count: h.Catalog.LiveCategoryCount(c.Name)})
	}
	h.render(w, r, http.StatusOK, web.PageCategories, web.Page{
		Title:       "AI Agent Categories | " + seo.SiteName,
		Description: "Browse AI agents by category.",
		Path:        "/categories",
		Nav:         "categories",
		Canonical:   h.Site.URL("categories"),
		Data:        web.CategoriesView{Categories: counts},
	})
}

// GET /categories/{name}
func (h *Handlers) CategoryPage(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "name")
	cat, ok := h.Catalog.CategoryByName(slug)
	if !ok {
		h.notFoundPage(w, r, "No category named "+slug+" exists.")
		return
	}
	agents := query.Sort(h.Catalog.AgentsByCategory(cat.Name), models.SortByName)
	crumb, _ := h.Site.StructuredData(seo.KindBreadcrumb, nil, seo.BreadcrumbTarget{Category: cat.Name})
	title := cat.DisplayTitle()
	canonical := notify.CategoryURL(h.Site.BaseURL, cat.Name)

	h.render(w, r, http.StatusOK, web.PageCategory, web.Page{
		Title:       title + " AI Agents | " + seo.SiteName,
		Description: "Discover the best " + title + " AI agents and tools.",
		Path:        r.URL.Path,
		Nav:         "categories",
		Canonical:   canonical,
		OGImage:     h.ogImageURL(title+" AI Agents", "", title),
		JSONLD:      []seo.Object{crumb},
		Data: web.CategoryView{
			Category: cat,
			Count:    len(agents),
			Agents:   agents,
			Related:  h.Catalog.RelatedCategories(cat.Name, relatedCats),
		},
	})
	h.pageViewed(canonical)
}

// GET /favorites
func (h *Handlers) FavoritesPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, web.PageFavorites, web.Page{
		Title:       "Your Favorite AI Agents | " + seo.SiteName,
		Description: "The AI agents you saved for later.",
		Path:        "/favorites",
		Nav:         "favorites",
		Data:        web.FavoritesView{Agents: h.Favorites.Agents(r.Context(), h.Catalog.Agents())},
	})
}

// ToggleFavoriteForm handles the no-script favorite button and redirects
// back to the page it came from.
// POST /favorites/{name}/toggle
func (h *Handlers) ToggleFavoriteForm(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if _, ok := h.Catalog.AgentByName(name); !ok && !h.Favorites.Contains(r.Context(), name) {
		h.notFoundPage(w, r, "No agent named "+name+" is listed.")
		return
	}
	h.Favorites.Toggle(r.Context(), name)
	http.Redirect(w, r, h.backTo(r, "/favorites"), http.StatusSeeOther)
}

// POST /favorites/clear
func (h *Handlers) ClearFavoritesForm(w http.ResponseWriter, r *http.Request) {
	h.Favorites.Clear(r.Context())
	http.Redirect(w, r, "/favorites", http.StatusSeeOther)
}

// backTo returns the same-site path of the Referer, or fallback. Only
// rooted paths qualify; "//host" and "/\\host" would leave the site.
func (h *Handlers) backTo(r *http.Request, fallback string) string {
	ref, err := url.Parse(r.Header.Get(headers.Referer))
	if err != nil || (ref.Host != "" && ref.Host != r.Host) {
		return fallback
	}
	path := ref.EscapedPath()
	if !strings.HasPrefix(path, "/") || strings.HasPrefix(path, "//") || strings.HasPrefix(path, "/\\") {
		return fallback
	}
	if ref.RawQuery != "" {
		return path + "?" + ref.RawQuery
	}
	return path
}

// GET /blog?category=
func (h *Handlers) BlogPage(w http.ResponseWriter, r *http.Request) {
	active := r.URL.Query().Get("category")
	if active == "" {
		active = "all"
	}
	h.render(w, r, http.StatusOK, web.PageBlog, web.Page{
		Title:       "AI Agents Blog - Guides, Reviews & Insights | " + seo.SiteName,
		Description: "Guides and reviews on AI agents, productivity and automation.",
		Path:        "/blog",
		Nav:         "blog",
		Canonical:   h.Site.URL("blog"),
		Data: web.BlogView{
			Posts:      h.Blog.ByCategory(active),
			Featured:   h.Blog.Featured(),
			Categories: h.Blog.Categories(),
			Active:     active,
		},
	})
}

// GET /blog/{slug}
func (h *Handlers) PostPage(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	post, ok := h.Blog.Post(slug)
	if !ok {
		h.notFoundPage(w, r, "That article does not exist.")
		return
	}
	var more []blog.Post
	for _, p := range h.Blog.Posts() {
		if len(more) == morePosts {
			break
		}
		if p.Slug != post.Slug {
			more = append(more, p)
		}
	}
	h.render(w, r, http.StatusOK, web.PagePost, web.Page{
		Title:       post.Title + " | " + seo.SiteName,
		Description: post.Excerpt,
		Path:        r.URL.Path,
		Nav:         "blog",
		Canonical:   h.Site.URL("blog/" + post.Slug),
		OGImage:     h.ogImageURL(post.Title, post.Excerpt, post.Category),
		Data:        web.PostView{Post: post, More: more},
	})
}

// GET /about
func (h *Handlers) AboutPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, web.PageAbout, web.Page{
		Title:       "About | " + seo.SiteName,
		Description: "About the AI Agents Directory and its dataset.",
		Path:        "/about",
		Nav:         "about",
		Canonical:   h.Site.URL("about"),
		Data: web.AboutView{
			Metadata:    h.Catalog.Metadata(),
			TotalAgents: len(h.Catalog.Agents()),
			TotalCats:   len(h.Catalog.Categories()),
		},
	})
}
