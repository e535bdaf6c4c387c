package models

import (
	"regexp"
	"strings"
)

// ── Pricing ──────────────────────────────────────────────────

type Pricing string

const (
	PricingFree     Pricing = "Free"
	PricingPaid     Pricing = "Paid"
	PricingFreemium Pricing = "Free + Paid"
	PricingAsk      Pricing = "Ask for Pricing"
)

// Rank orders pricing tiers cheapest first. Unknown values sort last.
func (p Pricing) Rank() int {
	switch p {
	case PricingFree:
		return 0
	case PricingFreemium:
		return 1
	case PricingPaid:
		return 2
	case PricingAsk:
		return 3
	default:
		return 4
	}
}

// Known reports whether p is one of the four dataset tiers.
func (p Pricing) Known() bool {
	return p.Rank() < 4
}

// PricingFilter selects a pricing tier in listing queries.
type PricingFilter string

const (
	PricingFilterAll      PricingFilter = "all"
	PricingFilterFree     PricingFilter = "free"
	PricingFilterPaid     PricingFilter = "paid"
	PricingFilterFreemium PricingFilter = "freemium"
	PricingFilterAsk      PricingFilter = "ask"
)

// PricingFilters lists the accepted filter values in display order.
var PricingFilters = []PricingFilter{
	PricingFilterAll,
	PricingFilterFree,
	PricingFilterPaid,
	PricingFilterFreemium,
	PricingFilterAsk,
}

// Label is the human-readable option text.
func (f PricingFilter) Label() string {
	switch f {
	case PricingFilterAll:
		return "All Pricing"
	case PricingFilterFree:
		return string(PricingFree)
	case PricingFilterPaid:
		return string(PricingPaid)
	case PricingFilterFreemium:
		return string(PricingFreemium)
	case PricingFilterAsk:
		return string(PricingAsk)
	}
	return string(f)
}

// ── Sorting ──────────────────────────────────────────────────

type SortOption string

const (
	SortByName     SortOption = "name"
	SortByCategory SortOption = "category"
	SortByPricing  SortOption = "pricing"
	// SortNewest reverses the current order. Agents carry no timestamp, so
	// this only means "newest" when the input is in dataset order.
	SortNewest SortOption = "newest"
)

var SortOptions = []SortOption{SortByName, SortByCategory, SortByPricing, SortNewest}

func (s SortOption) Label() string {
	switch s {
	case SortByName:
		return "Name (A-Z)"
	case SortByCategory:
		return "Category"
	case SortByPricing:
		return "Pricing"
	case SortNewest:
		return "Recently Added"
	}
	return string(s)
}

// ── Agent ────────────────────────────────────────────────────

// Agent is one listed tool. Name is the primary key everywhere.
type Agent struct {
	Name            string   `json:"name"`
	URL             string   `json:"url"`
	Source          string   `json:"source"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Pricing         Pricing  `json:"pricing"`
	Categories      []string `json:"categories"`
	DetailedTitle   string   `json:"detailed_title,omitempty"`
	MetaDescription string   `json:"meta_description,omitempty"`
	PricingInfo     string   `json:"pricing_info,omitempty"`
	ExternalLinks   []string `json:"external_links,omitempty"`
	Tags            []string `json:"tags,omitempty"`
}

// primaryLinkCount is how many external links are surfaced as actions.
const primaryLinkCount = 3

// DisplayTitle prefers the detailed title over the slug.
func (a Agent) DisplayTitle() string {
	if a.DetailedTitle != "" {
		return a.DetailedTitle
	}
	return a.Name
}

// Summary is the best available one-paragraph description.
func (a Agent) Summary() string {
	if a.MetaDescription != "" {
		return a.MetaDescription
	}
	if a.Description != "" {
		return a.Description
	}
	return a.Title
}

func (a Agent) PrimaryCategory() string {
	if len(a.Categories) == 0 {
		return ""
	}
	return a.Categories[0]
}

// CleanTags returns tags with their leading '#' removed.
func (a Agent) CleanTags() []string {
	out := make([]string, 0, len(a.Tags))
	for _, t := range a.Tags {
		out = append(out, strings.Replace(t, "#", "", 1))
	}
	return out
}

func (a Agent) PrimaryLinks() []string {
	if len(a.ExternalLinks) <= primaryLinkCount {
		return a.ExternalLinks
	}
	return a.ExternalLinks[:primaryLinkCount]
}

func (a Agent) AdditionalLinks() []string {
	if len(a.ExternalLinks) <= primaryLinkCount {
		return nil
	}
	return a.ExternalLinks[primaryLinkCount:]
}

// ShowPricingInfo is true when the free-text pricing adds something to the tier.
func (a Agent) ShowPricingInfo() bool {
	return a.PricingInfo != "" && a.PricingInfo != string(a.Pricing)
}

var (
	listingMarkerRe = regexp.MustCompile(`^(Featured|Recently Added)`)
	leadingWordsRe  = regexp.MustCompile(`^[A-Z][a-z\s]+`)
)

// CleanTitle strips the scraped listing noise from the title: a leading
// "Featured"/"Recently Added" marker, the agent name, and a leading run of
// capitalized words.
func (a Agent) CleanTitle() string {
	t := listingMarkerRe.ReplaceAllString(a.Title, "")
	if a.Name != "" {
		t = strings.Replace(t, a.Name, "", 1)
	}
	t = leadingWordsRe.ReplaceAllString(t, "")
	return strings.TrimSpace(t)
}

// ── Category ─────────────────────────────────────────────────

// Category groups agents. Count is a stored snapshot and may drift from the
// number of agents that actually reference the category.
type Category struct {
	Name  string `json:"name"`
	Title string `json:"title"`
	URL   string `json:"url"`
	Count int    `json:"count"`
}

var digitsRe = regexp.MustCompile(`\d+`)

// DisplayTitle drops any count text embedded in the scraped title.
func (c Category) DisplayTitle() string {
	if t := strings.TrimSpace(digitsRe.Split(c.Title, 2)[0]); t != "" {
		return t
	}
	return strings.Replace(c.Name, "-", " ", 1)
}

// ── Dataset ──────────────────────────────────────────────────

type Metadata struct {
	ScrapedAt       string `json:"scraped_at"`
	TotalAgents     int    `json:"total_agents"`
	TotalCategories int    `json:"total_categories"`
	SourceURL       string `json:"source_url"`
	ScraperVersion  string `json:"scraper_version"`
}

// Dataset is the static snapshot everything renders from.
type Dataset struct {
	Metadata   Metadata   `json:"metadata"`
	Categories []Category `json:"categories"`
	Agents     []Agent    `json:"agents"`
}

// ── Slugs ────────────────────────────────────────────────────

// whitespaceRe matches ASCII whitespace, vertical tab, Unicode separators
// and the byte order mark.
var whitespaceRe = regexp.MustCompile(`[\s\v\p{Z}\x{FEFF}]+`)

// Slugify lowercases s and replaces each whitespace run with a hyphen.
// It is the only slug rule: category slugs are always compared through it.
func Slugify(s string) string {
	return whitespaceRe.ReplaceAllString(strings.ToLower(s), "-")
}

// HasCategory reports whether any of the agent's categories slugifies to slug.
// The comparison is case-insensitive on slug.
func (a Agent) HasCategory(slug string) bool {
	want := strings.ToLower(slug)
	for _, c := range a.Categories {
		if Slugify(c) == want {
			return true
		}
	}
	return false
}
