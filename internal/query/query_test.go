package query_test

import (
	"strings"
	"testing"

	"github.com/30tools/ai-agents-directory/internal/query"
	"github.com/30tools/ai-agents-directory/pkg/models"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

func scenario() []models.Agent {
	return []models.Agent{
		{Name: "gpt-writer", Pricing: models.PricingFree, Categories: []string{"Writing"}},
		{Name: "code-bot", Pricing: models.PricingPaid, Categories: []string{"Coding"}},
	}
}

func mixed() []models.Agent {
	return []models.Agent{
		{Name: "zeta", Title: "Zeta", Pricing: models.PricingAsk, Categories: []string{"Sales"}, Tags: []string{"#crm"}},
		{Name: "alpha", Title: "Alpha", Pricing: models.PricingPaid, Categories: []string{"Coding", "Productivity"}},
		{Name: "Mango", Title: "Mango", Description: "Fruit-powered CHAT", Pricing: models.PricingFreemium},
		{Name: "beta", Title: "Beta", Pricing: models.PricingFree, Categories: []string{"Customer Service"}, MetaDescription: "helpdesk agent"},
		{Name: "delta", Title: "Delta", Pricing: models.PricingFree, Categories: []string{"Coding"}, Tags: []string{"#IDE"}},
	}
}

func names(agents []models.Agent) []string {
	out := make([]string, 0, len(agents))
	for _, a := range agents {
		out = append(out, a.Name)
	}
	return out
}

func TestScenario(t *testing.T) {
	all := scenario()

	assert.Equal(t, []string{"gpt-writer"}, names(query.FilterByPricing(all, models.PricingFilterFree)))
	assert.Equal(t, []string{"code-bot"}, names(query.Search(all, "bot")))
	assert.Equal(t, []string{"code-bot", "gpt-writer"}, names(query.Sort(all, models.SortByName)))
}

func TestFilterByPricing(t *testing.T) {
	all := mixed()

	if diff := cmp.Diff(all, query.FilterByPricing(all, models.PricingFilterAll)); diff != "" {
		t.Errorf("all filter is not identity (-want +got):\n%s", diff)
	}

	want := map[models.PricingFilter]models.Pricing{
		models.PricingFilterFree:     models.PricingFree,
		models.PricingFilterPaid:     models.PricingPaid,
		models.PricingFilterFreemium: models.PricingFreemium,
		models.PricingFilterAsk:      models.PricingAsk,
	}
	for f, p := range want {
		got := query.FilterByPricing(all, f)
		require.NotEmpty(t, got, f)
		for _, a := range got {
			assert.Equal(t, p, a.Pricing, "filter %s", f)
		}
	}

	assert.Len(t, query.FilterByPricing(all, "bogus"), len(all))
}

func TestFilterByCategory(t *testing.T) {
	all := mixed()

	assert.Len(t, query.FilterByCategory(all, ""), len(all))
	assert.Equal(t, []string{"alpha", "delta"}, names(query.FilterByCategory(all, "CODING")))
	assert.Equal(t, []string{"beta"}, names(query.FilterByCategory(all, "customer-service")))
	assert.Empty(t, query.FilterByCategory(all, "customer service"))
}

func TestSearch(t *testing.T) {
	all := mixed()

	assert.Len(t, query.Search(all, ""), len(all))
	assert.Len(t, query.Search(all, "   "), len(all))

	tests := []struct {
		q    string
		want []string
	}{
		{"chat", []string{"Mango"}},           // description, case-insensitive
		{"HELPDESK", []string{"beta"}},        // meta description
		{"productivity", []string{"alpha"}},   // second category
		{"#ide", []string{"delta"}},           // tag
		{"mango", []string{"Mango"}},          // name
		{"nothing-matches", []string{}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, names(query.Search(all, tt.q)), tt.q)
	}
}

func TestSearch_EveryResultContainsQuery(t *testing.T) {
	all := mixed()
	for _, q := range []string{"a", "e", "co", "#"} {
		for _, a := range query.Search(all, q) {
			fields := append([]string{a.Name, a.Title, a.Description, a.MetaDescription}, a.Categories...)
			fields = append(fields, a.Tags...)
			hay := strings.ToLower(strings.Join(fields, "\x00"))
			assert.Contains(t, hay, strings.ToLower(q), "agent %s for %q", a.Name, q)
		}
	}
}

func TestSortByName(t *testing.T) {
	col := collate.New(language.English)
	sorted := query.Sort(mixed(), models.SortByName)

	for i := 1; i < len(sorted); i++ {
		assert.LessOrEqual(t, col.CompareString(sorted[i-1].Name, sorted[i].Name), 0)
	}
	assert.Equal(t, []string{"alpha", "beta", "delta", "Mango", "zeta"}, names(sorted))

	if diff := cmp.Diff(sorted, query.Sort(sorted, models.SortByName)); diff != "" {
		t.Errorf("sort is not idempotent (-want +got):\n%s", diff)
	}
}

func TestSortByPricing(t *testing.T) {
	sorted := query.Sort(mixed(), models.SortByPricing)

	for i := 1; i < len(sorted); i++ {
		assert.LessOrEqual(t, sorted[i-1].Pricing.Rank(), sorted[i].Pricing.Rank())
	}
	// stable: beta precedes delta in the input
	assert.Equal(t, []string{"beta", "delta", "Mango", "alpha", "zeta"}, names(sorted))
}

func TestSortByCategory_MissingFirst(t *testing.T) {
	sorted := query.Sort(mixed(), models.SortByCategory)
	assert.Equal(t, []string{"Mango", "alpha", "delta", "beta", "zeta"}, names(sorted))
}

func TestSortNewest_ReversesCurrentOrder(t *testing.T) {
	all := mixed()
	assert.Equal(t, []string{"delta", "beta", "Mango", "alpha", "zeta"}, names(query.Sort(all, models.SortNewest)))
	assert.Equal(t, names(all), names(query.Sort(all, "unknown")))
}

func TestFunctionsDoNotMutateInput(t *testing.T) {
	all := mixed()
	before := names(all)

	query.Sort(all, models.SortByName)
	query.Sort(all, models.SortNewest)
	query.FilterByPricing(all, models.PricingFilterFree)
	query.Search(all, "a")

	assert.Equal(t, before, names(all))
}

func TestApply_Pipeline(t *testing.T) {
	got := query.Apply(mixed(), query.Params{
		Search:   "a",
		Category: "coding",
		Pricing:  models.PricingFilterAll,
		Sort:     models.SortByPricing,
	})
	assert.Equal(t, []string{"delta", "alpha"}, names(got))

	assert.Equal(t, []string{"alpha", "beta", "delta", "Mango", "zeta"}, names(query.Apply(mixed(), query.DefaultParams())))
}

func TestPaginate(t *testing.T) {
	agents := make([]models.Agent, 30)
	for i := range agents {
		agents[i].Name = string(rune('a' + i%26))
	}

	p := query.Paginate(agents, 1, 0)
	assert.Equal(t, query.DefaultPerPage, p.PerPage)
	assert.Len(t, p.Items, 12)
	assert.Equal(t, 3, p.TotalPages)
	assert.True(t, p.HasNext())
	assert.False(t, p.HasPrev())

	last := query.Paginate(agents, 99, 12)
	assert.Equal(t, 3, last.Page)
	assert.Len(t, last.Items, 6)
	assert.False(t, last.HasNext())

	empty := query.Paginate(nil, 0, 12)
	assert.Equal(t, 1, empty.Page)
	assert.Equal(t, 1, empty.TotalPages)
	assert.NotNil(t, empty.Items)
	assert.Empty(t, empty.Items)
}

func TestParseOptions(t *testing.T) {
	f, err := query.ParsePricingFilter("")
	require.NoError(t, err)
	assert.Equal(t, models.PricingFilterAll, f)

	f, err = query.ParsePricingFilter("Freemium")
	require.NoError(t, err)
	assert.Equal(t, models.PricingFilterFreemium, f)

	_, err = query.ParsePricingFilter("cheap")
	var invalid *query.InvalidOptionError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "pricing", invalid.Option)

	s, err := query.ParseSortOption("newest")
	require.NoError(t, err)
	assert.Equal(t, models.SortNewest, s)

	_, err = query.ParseSortOption("rating")
	assert.Error(t, err)
}
