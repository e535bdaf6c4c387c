// Package query implements the listing pipeline over agent slices:
// search, category filter, pricing filter and sort, plus pagination.
//
// Every function is pure. Inputs are never modified and each call returns a
// new slice, so results depend only on the arguments.
package query

import (
	"fmt"
	"slices"
	"strings"

	"github.com/30tools/ai-agents-directory/pkg/models"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// DefaultPerPage matches the listing grid size.
const DefaultPerPage = 12

// FilterByPricing keeps agents in the selected tier. "all" and unrecognized
// filters return every agent.
func FilterByPricing(agents []models.Agent, filter models.PricingFilter) []models.Agent {
	var want models.Pricing
	switch filter {
	case models.PricingFilterFree:
		want = models.PricingFree
	case models.PricingFilterPaid:
		want = models.PricingPaid
	case models.PricingFilterFreemium:
		want = models.PricingFreemium
	case models.PricingFilterAsk:
		want = models.PricingAsk
	default:
		return clone(agents)
	}
	return keepIf(agents, func(a models.Agent) bool { return a.Pricing == want })
}

// FilterByCategory keeps agents with a category matching slug. An empty slug
// keeps everything.
func FilterByCategory(agents []models.Agent, slug string) []models.Agent {
	if slug == "" {
		return clone(agents)
	}
	return keepIf(agents, func(a models.Agent) bool { return a.HasCategory(slug) })
}

// Search does a case-insensitive substring match over name, title,
// description, meta description, categories and tags. A blank query keeps
// everything.
func Search(agents []models.Agent, q string) []models.Agent {
	if strings.TrimSpace(q) == "" {
		return clone(agents)
	}
	term := strings.ToLower(q)
	return keepIf(agents, func(a models.Agent) bool { return matches(a, term) })
}

func matches(a models.Agent, term string) bool {
	contains := func(s string) bool { return strings.Contains(strings.ToLower(s), term) }

	if contains(a.Name) || contains(a.Title) || contains(a.Description) {
		return true
	}
	if a.MetaDescription != "" && contains(a.MetaDescription) {
		return true
	}
	return slices.ContainsFunc(a.Categories, contains) || slices.ContainsFunc(a.Tags, contains)
}

// Sort orders agents by key. All orderings are stable. SortNewest reverses
// the input order; there is no per-agent timestamp. Unknown keys return the
// input order.
func Sort(agents []models.Agent, key models.SortOption) []models.Agent {
	sorted := clone(agents)

	switch key {
	case models.SortByName:
		col := newCollator()
		slices.SortStableFunc(sorted, func(a, b models.Agent) int {
			return col.CompareString(a.Name, b.Name)
		})
	case models.SortByCategory:
		col := newCollator()
		slices.SortStableFunc(sorted, func(a, b models.Agent) int {
			return col.CompareString(a.PrimaryCategory(), b.PrimaryCategory())
		})
	case models.SortByPricing:
		slices.SortStableFunc(sorted, func(a, b models.Agent) int {
			return a.Pricing.Rank() - b.Pricing.Rank()
		})
	case models.SortNewest:
		slices.Reverse(sorted)
	}
	return sorted
}

// newCollator returns a fresh collator; collate.Collator is not safe for
// concurrent use.
func newCollator() *collate.Collator {
	return collate.New(language.English)
}

// ── Pipeline ─────────────────────────────────────────────────

// Params is one listing request.
type Params struct {
	Search   string               `json:"search,omitempty"`
	Category string               `json:"category,omitempty"`
	Pricing  models.PricingFilter `json:"pricing,omitempty"`
	Sort     models.SortOption    `json:"sort,omitempty"`
}

// DefaultParams is the unfiltered listing sorted by name.
func DefaultParams() Params {
	return Params{Pricing: models.PricingFilterAll, Sort: models.SortByName}
}

// Apply runs search, category filter, pricing filter and sort, in that order.
func Apply(agents []models.Agent, p Params) []models.Agent {
	out := Search(agents, p.Search)
	out = FilterByCategory(out, p.Category)
	out = FilterByPricing(out, p.Pricing)
	return Sort(out, p.Sort)
}

// ── Pagination ───────────────────────────────────────────────

type Page struct {
	Items      []models.Agent `json:"items"`
	Page       int            `json:"page"`
	PerPage    int            `json:"per_page"`
	Total      int            `json:"total"`
	TotalPages int            `json:"total_pages"`
}

// HasNext reports whether a later page exists.
func (p Page) HasNext() bool { return p.Page < p.TotalPages }

// HasPrev reports whether an earlier page exists.
func (p Page) HasPrev() bool { return p.Page > 1 }

// Paginate slices out a 1-based page. Out-of-range pages are clamped.
func Paginate(agents []models.Agent, page, perPage int) Page {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	total := len(agents)
	totalPages := (total + perPage - 1) / perPage
	if totalPages == 0 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * perPage
	end := min(start+perPage, total)

	return Page{
		Items:      clone(agents[start:end]),
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
	}
}

// ── Option parsing ───────────────────────────────────────────

// InvalidOptionError is returned for unrecognized filter or sort values.
type InvalidOptionError struct {
	Option string
	Value  string
}

func (e *InvalidOptionError) Error() string {
	return fmt.Sprintf("invalid %s: %q", e.Option, e.Value)
}

// ParsePricingFilter accepts the known filter values; empty means "all".
func ParsePricingFilter(s string) (models.PricingFilter, error) {
	if s == "" {
		return models.PricingFilterAll, nil
	}
	f := models.PricingFilter(strings.ToLower(s))
	if !slices.Contains(models.PricingFilters, f) {
		return "", &InvalidOptionError{Option: "pricing", Value: s}
	}
	return f, nil
}

// ParseSortOption accepts the known sort keys; empty means "name".
func ParseSortOption(s string) (models.SortOption, error) {
	if s == "" {
		return models.SortByName, nil
	}
	o := models.SortOption(strings.ToLower(s))
	if !slices.Contains(models.SortOptions, o) {
		return "", &InvalidOptionError{Option: "sort", Value: s}
	}
	return o, nil
}

// ── helpers ──────────────────────────────────────────────────

func clone(agents []models.Agent) []models.Agent {
	out := make([]models.Agent, len(agents))
	copy(out, agents)
	return out
}

func keepIf(agents []models.Agent, keep func(models.Agent) bool) []models.Agent {
	out := make([]models.Agent, 0, len(agents))
	for _, a := range agents {
		if keep(a) {
			out = append(out, a)
		}
	}
	return out
}
