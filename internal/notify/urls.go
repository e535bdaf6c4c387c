package notify

import (
	"strings"

	"github.com/30tools/ai-agents-directory/pkg/models"
)

// DefaultBaseURL is the canonical public origin of the site.
const DefaultBaseURL = "https://ai-agents.30tools.com"

// URLStats breaks down AllIndexableURLs by kind.
type URLStats struct {
	Total      int `json:"total"`
	Static     int `json:"static"`
	Agents     int `json:"agents"`
	Categories int `json:"categories"`
}

// StaticURLs lists the fixed pages worth indexing.
func StaticURLs(baseURL string) []string {
	base := strings.TrimRight(baseURL, "/")
	return []string{
		base,
		base + "/agents",
		base + "/categories",
		base + "/about",
		base + "/favorites",
	}
}

// AgentURL is the detail page of an agent.
func AgentURL(baseURL, name string) string {
	return strings.TrimRight(baseURL, "/") + "/agents/" + name
}

// CategoryURL is the page of one category.
func CategoryURL(baseURL, slug string) string {
	return strings.TrimRight(baseURL, "/") + "/categories/" + slug
}

// AllIndexableURLs returns static pages, then agents, then categories.
func AllIndexableURLs(baseURL string, agents []models.Agent, categories []models.Category) ([]string, URLStats) {
	static := StaticURLs(baseURL)
	urls := make([]string, 0, len(static)+len(agents)+len(categories))
	urls = append(urls, static...)
	for _, a := range agents {
		urls = append(urls, AgentURL(baseURL, a.Name))
	}
	for _, c := range categories {
		urls = append(urls, CategoryURL(baseURL, c.Name))
	}
	return urls, URLStats{
		Total:      len(urls),
		Static:     len(static),
		Agents:     len(agents),
		Categories: len(categories),
	}
}
