package models_test

import (
	"testing"

	"github.com/30tools/ai-agents-directory/pkg/models"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Writing", "writing"},
		{"AI Agent Builders", "ai-agent-builders"},
		{"Customer   Service", "customer-service"},
		{"already-slug", "already-slug"},
		{"Customer\u00a0Service", "customer-service"},
		{"Digital\u2003\tWorkers", "digital-workers"},
		{"Line\vBreak\u2028Here", "line-break-here"},
		{" Padded ", "-padded-"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := models.Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestAgentHasCategory(t *testing.T) {
	a := models.Agent{Name: "gpt-writer", Categories: []string{"Content Writing", "Writing"}}

	for _, slug := range []string{"writing", "Writing", "WRITING", "content-writing", "Content-Writing"} {
		if !a.HasCategory(slug) {
			t.Errorf("HasCategory(%q) = false, want true", slug)
		}
	}
	nb := models.Agent{Categories: []string{"Customer\u00a0Service"}}
	if !nb.HasCategory("customer-service") {
		t.Error("HasCategory should treat a no-break space as whitespace")
	}
	if a.HasCategory("content writing") {
		t.Error("HasCategory should compare slugs, not display names")
	}
}

func TestPricingRank(t *testing.T) {
	order := []models.Pricing{models.PricingFree, models.PricingFreemium, models.PricingPaid, models.PricingAsk, "Unknown"}
	for i, p := range order {
		if p.Rank() != i {
			t.Errorf("%q.Rank() = %d, want %d", p, p.Rank(), i)
		}
	}
	if models.Pricing("Unknown").Known() {
		t.Error("unknown pricing should not be Known")
	}
}

func TestCategoryDisplayTitle(t *testing.T) {
	tests := []struct {
		cat  models.Category
		want string
	}{
		{models.Category{Name: "coding", Title: "Coding 42 agents"}, "Coding"},
		{models.Category{Name: "digital-workers", Title: "123"}, "digital workers"},
		{models.Category{Name: "ai-agent-builders", Title: ""}, "ai agent-builders"},
		{models.Category{Name: "productivity", Title: "Productivity"}, "Productivity"},
	}
	for _, tt := range tests {
		if got := tt.cat.DisplayTitle(); got != tt.want {
			t.Errorf("DisplayTitle(%+v) = %q, want %q", tt.cat, got, tt.want)
		}
	}
}

func TestAgentDisplayHelpers(t *testing.T) {
	a := models.Agent{
		Name:          "code-bot",
		Title:         "Featuredcode-bot Coding assistant for teams",
		Description:   "Writes code",
		Tags:          []string{"#coding", "#ai"},
		ExternalLinks: []string{"https://a.dev", "https://b.dev", "https://c.dev", "https://d.dev"},
		Pricing:       models.PricingPaid,
		PricingInfo:   "Paid",
	}

	if got := a.DisplayTitle(); got != "code-bot" {
		t.Errorf("DisplayTitle() = %q, want slug fallback", got)
	}
	if got := a.Summary(); got != "Writes code" {
		t.Errorf("Summary() = %q", got)
	}
	if got := a.CleanTags(); got[0] != "coding" || got[1] != "ai" {
		t.Errorf("CleanTags() = %v", got)
	}
	if len(a.PrimaryLinks()) != 3 || len(a.AdditionalLinks()) != 1 {
		t.Errorf("links split = %d/%d, want 3/1", len(a.PrimaryLinks()), len(a.AdditionalLinks()))
	}
	if a.ShowPricingInfo() {
		t.Error("pricing info equal to the tier should be hidden")
	}
	if got := a.PrimaryCategory(); got != "" {
		t.Errorf("PrimaryCategory() = %q, want empty", got)
	}
	if got := a.CleanTitle(); got != "Coding assistant for teams" {
		t.Errorf("CleanTitle() = %q", got)
	}
}
