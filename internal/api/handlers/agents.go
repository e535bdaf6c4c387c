package handlers

import (
	"net/http"

	"github.com/30tools/ai-agents-directory/internal/links"
	"github.com/30tools/ai-agents-directory/internal/query"
	"github.com/30tools/ai-agents-directory/pkg/models"

	"github.com/go-chi/chi/v5"
)

const (
	maxPerPage        = 100
	defaultFeatured   = 6
	defaultPopularCat = 8
)

type agentListResponse struct {
	query.Page
	Params query.Params `json:"params"`
}

type agentDetail struct {
	models.Agent
	RealURL    string `json:"real_url,omitempty"`
	FaviconURL string `json:"favicon_url"`
	Favorite   bool   `json:"favorite"`
}

type categoryWithCount struct {
	models.Category
	LiveCount int `json:"live_count"`
}

type categoryDetail struct {
	Category  models.Category   `json:"category"`
	LiveCount int               `json:"live_count"`
	Agents    []models.Agent    `json:"agents"`
	Related   []models.Category `json:"related"`
}

// listParams reads the listing pipeline parameters from the query string.
func listParams(r *http.Request) (query.Params, error) {
	q := r.URL.Query()
	pricing, err := query.ParsePricingFilter(q.Get("pricing"))
	if err != nil {
		return query.Params{}, err
	}
	sort, err := query.ParseSortOption(q.Get("sort"))
	if err != nil {
		return query.Params{}, err
	}
	category := q.Get("category")
	if category == "all" {
		category = ""
	}
	return query.Params{
		Search:   q.Get("search"),
		Category: category,
		Pricing:  pricing,
		Sort:     sort,
	}, nil
}

// ListAgents runs search, filters, sort and pagination over the catalog.
// GET /api/v1/agents
func (h *Handlers) ListAgents(w http.ResponseWriter, r *http.Request) {
	params, err := listParams(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	page, ok := intParam(r, "page", 1)
	if !ok {
		respondError(w, http.StatusBadRequest, "page must be a positive integer")
		return
	}
	perPage, ok := intParam(r, "per_page", query.DefaultPerPage)
	if !ok {
		respondError(w, http.StatusBadRequest, "per_page must be a positive integer")
		return
	}
	perPage = min(perPage, maxPerPage)

	result := query.Paginate(query.Apply(h.Catalog.Agents(), params), page, perPage)
	respondJSON(w, http.StatusOK, agentListResponse{Page: result, Params: params})
}

// GET /api/v1/agents/featured
func (h *Handlers) FeaturedAgents(w http.ResponseWriter, r *http.Request) {
	limit, ok := intParam(r, "limit", defaultFeatured)
	if !ok {
		respondError(w, http.StatusBadRequest, "limit must be a positive integer")
		return
	}
	respondJSON(w, http.StatusOK, h.Catalog.FeaturedAgents(limit))
}

// GET /api/v1/agents/{name}
func (h *Handlers) GetAgent(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	agent, ok := h.Catalog.AgentByName(name)
	if !ok {
		respondError(w, http.StatusNotFound, "Agent not found")
		return
	}
	realURL, _ := h.Links.RealURL(agent)
	respondJSON(w, http.StatusOK, agentDetail{
		Agent:      agent,
		RealURL:    realURL,
		FaviconURL: links.FaviconURL(h.Links.VisitURL(agent), 0),
		Favorite:   h.Favorites.Contains(r.Context(), agent.Name),
	})
}

// ── Categories ───────────────────────────────────────────────

func (h *Handlers) withCounts(cats []models.Category) []categoryWithCount {
	out := make([]categoryWithCount, 0, len(cats))
	for _, c := range cats {
		out = append(out, categoryWithCount{Category: c, LiveCount: h.Catalog.LiveCategoryCount(c.Name)})
	}
	return out
}

// GET /api/v1/categories
func (h *Handlers) ListCategories(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.withCounts(h.Catalog.Categories()))
}

// GET /api/v1/categories/popular
func (h *Handlers) PopularCategories(w http.ResponseWriter, r *http.Request) {
	limit, ok := intParam(r, "limit", defaultPopularCat)
	if !ok {
		respondError(w, http.StatusBadRequest, "limit must be a positive integer")
		return
	}
	respondJSON(w, http.StatusOK, h.withCounts(h.Catalog.PopularCategories(limit)))
}

// GET /api/v1/categories/{name}
func (h *Handlers) GetCategory(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "name")
	cat, ok := h.Catalog.CategoryByName(slug)
	if !ok {
		respondError(w, http.StatusNotFound, "Category not found")
		return
	}
	agents := h.Catalog.AgentsByCategory(cat.Name)
	respondJSON(w, http.StatusOK, categoryDetail{
		Category:  cat,
		LiveCount: len(agents),
		Agents:    agents,
		Related:   h.Catalog.RelatedCategories(cat.Name, 4),
	})
}

// GET /api/v1/database
func (h *Handlers) Database(w http.ResponseWriter, r *http.Request) {
	agents := h.Catalog.Agents()
	pricing := make(map[models.Pricing]int)
	for _, a := range agents {
		pricing[a.Pricing]++
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"metadata":         h.Catalog.Metadata(),
		"total_agents":     len(agents),
		"total_categories": len(h.Catalog.Categories()),
		"pricing":          pricing,
	})
}
