package catalog

import (
	"slices"

	"github.com/30tools/ai-agents-directory/pkg/models"
)

// Report summarizes dataset completeness and consistency.
type Report struct {
	Metadata   models.Metadata `json:"metadata"`
	Agents     int             `json:"agents"`
	Categories int             `json:"categories"`

	WithDetails       int `json:"with_details"`
	WithPricing       int `json:"with_pricing"`
	WithTags          int `json:"with_tags"`
	WithExternalLinks int `json:"with_external_links"`

	Pricing []PricingCount `json:"pricing"`

	DuplicateNames  []string        `json:"duplicate_names,omitempty"`
	UnknownPricing  []string        `json:"unknown_pricing,omitempty"`
	CountDrift      []CategoryDrift `json:"count_drift,omitempty"`
	MetadataDrift   bool            `json:"metadata_drift"`
	EmptyCategories []string        `json:"empty_categories,omitempty"`
}

type PricingCount struct {
	Pricing models.Pricing `json:"pricing"`
	Count   int            `json:"count"`
}

// CategoryDrift records a category whose stored count disagrees with the
// number of agents that reference it.
type CategoryDrift struct {
	Name   string `json:"name"`
	Stored int    `json:"stored"`
	Live   int    `json:"live"`
}

// OK reports whether the dataset has no integrity problems. Count drift is
// expected and does not fail the check.
func (r Report) OK() bool {
	return len(r.DuplicateNames) == 0 && len(r.UnknownPricing) == 0
}

// Validate inspects the snapshot. It never modifies the catalog.
func (c *Catalog) Validate() Report {
	r := Report{
		Metadata:   c.ds.Metadata,
		Agents:     len(c.ds.Agents),
		Categories: len(c.ds.Categories),
	}

	seen := make(map[string]bool, len(c.ds.Agents))
	pricing := map[models.Pricing]int{}
	var order []models.Pricing

	for _, a := range c.ds.Agents {
		if seen[a.Name] && !slices.Contains(r.DuplicateNames, a.Name) {
			r.DuplicateNames = append(r.DuplicateNames, a.Name)
		}
		seen[a.Name] = true

		if a.DetailedTitle != "" {
			r.WithDetails++
		}
		if a.Pricing != "" {
			r.WithPricing++
			if _, ok := pricing[a.Pricing]; !ok {
				order = append(order, a.Pricing)
			}
			pricing[a.Pricing]++
			if !a.Pricing.Known() && !slices.Contains(r.UnknownPricing, a.Name) {
				r.UnknownPricing = append(r.UnknownPricing, a.Name)
			}
		}
		if len(a.Tags) > 0 {
			r.WithTags++
		}
		if len(a.ExternalLinks) > 0 {
			r.WithExternalLinks++
		}
	}

	for _, p := range order {
		r.Pricing = append(r.Pricing, PricingCount{Pricing: p, Count: pricing[p]})
	}
	slices.SortStableFunc(r.Pricing, func(a, b PricingCount) int { return b.Count - a.Count })

	for _, cat := range c.ds.Categories {
		live := c.LiveCategoryCount(cat.Name)
		if live != cat.Count {
			r.CountDrift = append(r.CountDrift, CategoryDrift{Name: cat.Name, Stored: cat.Count, Live: live})
		}
		if live == 0 {
			r.EmptyCategories = append(r.EmptyCategories, cat.Name)
		}
	}

	r.MetadataDrift = c.ds.Metadata.TotalAgents != len(c.ds.Agents) ||
		c.ds.Metadata.TotalCategories != len(c.ds.Categories)

	return r
}
