package seo

import (
	"fmt"

	"github.com/30tools/ai-agents-directory/pkg/models"
)

// CatalogLimit caps the number of agents listed in the catalog document.
const CatalogLimit = 100

// Kind selects a structured-data document.
type Kind string

const (
	KindWebsite      Kind = "website"
	KindOrganization Kind = "organization"
	KindCatalog      Kind = "catalog"
	KindBreadcrumb   Kind = "breadcrumb"
)

// InvalidKindError is returned for unknown structured-data kinds.
type InvalidKindError struct {
	Kind string
}

func (e *InvalidKindError) Error() string {
	return fmt.Sprintf("invalid structured data type %q", e.Kind)
}

// Object is a JSON-LD node.
type Object = map[string]any

// BreadcrumbTarget names the page a breadcrumb trail ends at. At most one
// field is used; Agent wins.
type BreadcrumbTarget struct {
	Agent    string
	Category string
}

// StructuredData builds the JSON-LD document of the given kind.
func (s Site) StructuredData(kind Kind, agents []models.Agent, crumb BreadcrumbTarget) (Object, error) {
	switch kind {
	case KindWebsite:
		return s.website(), nil
	case KindOrganization:
		return s.organization(), nil
	case KindCatalog:
		return s.catalog(agents), nil
	case KindBreadcrumb:
		return s.breadcrumb(crumb), nil
	default:
		return nil, &InvalidKindError{Kind: string(kind)}
	}
}

func (s Site) website() Object {
	return Object{
		"@context":    "https://schema.org",
		"@type":       "WebSite",
		"name":        SiteName,
		"description": SiteDescription,
		"url":         s.BaseURL,
		"potentialAction": Object{
			"@type": "SearchAction",
			"target": Object{
				"@type":       "EntryPoint",
				"urlTemplate": s.URL("agents") + "?search={search_term_string}",
			},
			"query-input": "required name=search_term_string",
		},
		"publisher": Object{
			"@type": "Organization",
			"name":  SiteName,
			"url":   s.BaseURL,
		},
	}
}

func (s Site) organization() Object {
	return Object{
		"@context":    "https://schema.org",
		"@type":       "Organization",
		"name":        SiteName,
		"description": "A comprehensive directory of AI agents and tools",
		"url":         s.BaseURL,
		"logo":        s.URL("icon-512.png"),
		"sameAs":      []string{},
		"contactPoint": Object{
			"@type":             "ContactPoint",
			"contactType":       "customer service",
			"availableLanguage": "English",
		},
	}
}

func (s Site) catalog(agents []models.Agent) Object {
	listed := agents
	if len(listed) > CatalogLimit {
		listed = listed[:CatalogLimit]
	}

	items := make([]Object, 0, len(listed))
	for i, a := range listed {
		offer := Object{
			"@type":         "Offer",
			"priceCurrency": "USD",
			"availability":  "https://schema.org/InStock",
		}
		if a.Pricing == models.PricingFree {
			offer["price"] = "0"
		}
		category := a.PrimaryCategory()
		if category == "" {
			category = "AI Tool"
		}
		description := a.MetaDescription
		if description == "" {
			description = a.Description
		}

		items = append(items, Object{
			"@type":    "ListItem",
			"position": i + 1,
			"item": Object{
				"@type":               "SoftwareApplication",
				"name":                PlainText(a.DisplayTitle()),
				"description":         PlainText(description),
				"url":                 s.URL("agents/" + a.Name),
				"applicationCategory": category,
				"offers":              offer,
				"creator": Object{
					"@type": "Organization",
					"name":  SiteName,
				},
			},
		})
	}

	return Object{
		"@context":        "https://schema.org",
		"@type":           "ItemList",
		"name":            SiteName,
		"description":     "Complete catalog of AI agents and tools",
		"url":             s.URL("agents"),
		"numberOfItems":   len(agents),
		"itemListElement": items,
	}
}

func (s Site) breadcrumb(t BreadcrumbTarget) Object {
	var section, sectionPath, name string
	switch {
	case t.Agent != "":
		section, sectionPath, name = "Agents", "agents", t.Agent
	case t.Category != "":
		section, sectionPath, name = "Categories", "categories", t.Category
	default:
		return Object{}
	}

	crumb := func(pos int, name, url string) Object {
		return Object{"@type": "ListItem", "position": pos, "name": name, "item": url}
	}
	return Object{
		"@context": "https://schema.org",
		"@type":    "BreadcrumbList",
		"itemListElement": []Object{
			crumb(1, "Home", s.BaseURL),
			crumb(2, section, s.URL(sectionPath)),
			crumb(3, name, s.URL(sectionPath+"/"+name)),
		},
	}
}

// AgentApplication is the SoftwareApplication node embedded in an agent
// detail page.
func (s Site) AgentApplication(a models.Agent) Object {
	obj := Object{
		"@context":            "https://schema.org",
		"@type":               "SoftwareApplication",
		"name":                PlainText(a.DisplayTitle()),
		"description":         PlainText(a.Summary()),
		"url":                 s.URL("agents/" + a.Name),
		"applicationCategory": a.PrimaryCategory(),
		"operatingSystem":     "Web",
	}
	if a.Pricing == models.PricingFree {
		obj["offers"] = Object{"@type": "Offer", "price": "0", "priceCurrency": "USD"}
	}
	return obj
}
