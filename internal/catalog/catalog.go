// Package catalog provides read-only access to the agents directory dataset.
//
// The dataset is a pre-built JSON artifact (agents, categories, metadata).
// It is loaded once, either from the copy embedded in the binary or from a
// file path (AGENTDIR_DATASET_PATH), and never mutated afterwards. Every
// accessor returns fresh slices so callers cannot disturb the snapshot or
// its insertion order, which is the default listing order.
package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"slices"

	"github.com/30tools/ai-agents-directory/pkg/models"
	"github.com/rs/zerolog/log"
)

const (
	// DefaultFeaturedLimit is used when FeaturedAgents gets a non-positive limit.
	DefaultFeaturedLimit = 6

	// DefaultPopularLimit is used when PopularCategories gets a non-positive limit.
	DefaultPopularLimit = 8
)

//go:embed data/ai_agents_database.json
var embeddedDataset []byte

// Catalog is an immutable, concurrency-safe view over one dataset snapshot.
type Catalog struct {
	ds     models.Dataset
	byName map[string]int
}

// New wraps an in-memory dataset.
func New(ds models.Dataset) *Catalog {
	c := &Catalog{
		ds:     cloneDataset(ds),
		byName: make(map[string]int, len(ds.Agents)),
	}
	for i, a := range c.ds.Agents {
		// first occurrence wins, matching a linear scan
		if _, dup := c.byName[a.Name]; !dup {
			c.byName[a.Name] = i
		}
	}
	return c
}

// Parse decodes a dataset document.
func Parse(data []byte) (*Catalog, error) {
	var ds models.Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}
	return New(ds), nil
}

// Load reads the dataset from path, or the embedded copy when path is empty.
func Load(path string) (*Catalog, error) {
	data := embeddedDataset
	source := "embedded"
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read dataset %s: %w", path, err)
		}
		data = b
		source = path
	}

	c, err := Parse(data)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("source", source).
		Int("agents", len(c.ds.Agents)).
		Int("categories", len(c.ds.Categories)).
		Msg("Dataset loaded")
	return c, nil
}

// Database returns the whole dataset.
func (c *Catalog) Database() models.Dataset {
	return cloneDataset(c.ds)
}

// Metadata returns the informational scrape metadata.
func (c *Catalog) Metadata() models.Metadata {
	return c.ds.Metadata
}

// Agents returns every agent in dataset order.
func (c *Catalog) Agents() []models.Agent {
	return slices.Clone(c.ds.Agents)
}

// Categories returns every category in dataset order.
func (c *Catalog) Categories() []models.Category {
	return slices.Clone(c.ds.Categories)
}

// AgentByName is an exact, case-sensitive lookup on the agent slug.
func (c *Catalog) AgentByName(name string) (models.Agent, bool) {
	i, ok := c.byName[name]
	if !ok {
		return models.Agent{}, false
	}
	return c.ds.Agents[i], true
}

// CategoryByName looks up a category by its stored slug.
func (c *Catalog) CategoryByName(slug string) (models.Category, bool) {
	for _, cat := range c.ds.Categories {
		if cat.Name == slug {
			return cat, true
		}
	}
	return models.Category{}, false
}

// AgentsByCategory returns agents that list a category whose slug matches.
// The input slug is compared case-insensitively.
func (c *Catalog) AgentsByCategory(slug string) []models.Agent {
	out := []models.Agent{}
	for _, a := range c.ds.Agents {
		if a.HasCategory(slug) {
			out = append(out, a)
		}
	}
	return out
}

// LiveCategoryCount counts agents that actually reference the category.
// Use it instead of Category.Count whenever the number must be right.
func (c *Catalog) LiveCategoryCount(slug string) int {
	n := 0
	for _, a := range c.ds.Agents {
		if a.HasCategory(slug) {
			n++
		}
	}
	return n
}

// FeaturedAgents returns the first limit agents that have both a detailed
// title and at least one tag. No ranking is applied.
func (c *Catalog) FeaturedAgents(limit int) []models.Agent {
	if limit <= 0 {
		limit = DefaultFeaturedLimit
	}
	out := []models.Agent{}
	for _, a := range c.ds.Agents {
		if len(out) == limit {
			break
		}
		if a.DetailedTitle != "" && len(a.Tags) > 0 {
			out = append(out, a)
		}
	}
	return out
}

// PopularCategories returns the top categories by stored count. Ties keep
// dataset order.
func (c *Catalog) PopularCategories(limit int) []models.Category {
	if limit <= 0 {
		limit = DefaultPopularLimit
	}
	sorted := slices.Clone(c.ds.Categories)
	slices.SortStableFunc(sorted, func(a, b models.Category) int {
		return b.Count - a.Count
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

// RelatedCategories returns up to limit other categories, most popular first.
func (c *Catalog) RelatedCategories(slug string, limit int) []models.Category {
	out := []models.Category{}
	for _, cat := range c.PopularCategories(len(c.ds.Categories)) {
		if len(out) == limit {
			break
		}
		if cat.Name != slug {
			out = append(out, cat)
		}
	}
	return out
}

func cloneDataset(ds models.Dataset) models.Dataset {
	return models.Dataset{
		Metadata:   ds.Metadata,
		Categories: slices.Clone(ds.Categories),
		Agents:     slices.Clone(ds.Agents),
	}
}
