package links_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/30tools/ai-agents-directory/internal/links"
	"github.com/30tools/ai-agents-directory/pkg/models"
)

func TestDomain(t *testing.T) {
	tests := map[string]string{
		"https://www.jasper.ai/pricing": "www.jasper.ai",
		"http://flowiseai.com":          "flowiseai.com",
		"www.usemotion.com/app":         "usemotion.com",
		"relevanceai.com?ref=x":         "relevanceai.com",
	}
	for in, want := range tests {
		if got := links.Domain(in); got != want {
			t.Errorf("Domain(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFaviconURLs(t *testing.T) {
	tests := []struct {
		got, want string
	}{
		{links.FaviconURL("https://www.ada.cx", 64), "https://www.google.com/s2/favicons?domain=www.ada.cx&sz=64"},
		{links.FaviconURL("https://www.ada.cx", 0), "https://www.google.com/s2/favicons?domain=www.ada.cx&sz=32"},
		{links.FallbackFaviconURL("https://www.ada.cx/about"), "https://www.ada.cx/favicon.ico"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}
}

func TestRealURL(t *testing.T) {
	r := links.NewResolver("https://ai-agents.30tools.com", "https://aiagentsdirectory.com", "::bad")
	if diff := cmp.Diff([]string{"ai-agents.30tools.com", "aiagentsdirectory.com"}, r.Internal); diff != "" {
		t.Errorf("internal hosts (-want +got):\n%s", diff)
	}

	external := models.Agent{URL: "https://www.jasper.ai"}
	if got, ok := r.RealURL(external); !ok || got != "https://www.jasper.ai" {
		t.Errorf("RealURL(external) = %q, %v", got, ok)
	}

	internal := models.Agent{
		URL: "https://aiagentsdirectory.com/agent/intercom-fin",
		ExternalLinks: []string{
			"https://twitter.com/intercom",
			"https://www.producthunt.com/posts/fin",
			"not a url",
			"https://www.intercom.com/fin",
		},
	}
	if got, ok := r.RealURL(internal); !ok || got != "https://www.intercom.com/fin" {
		t.Errorf("RealURL(internal) = %q, %v; want first non-social external link", got, ok)
	}

	onlySocial := models.Agent{
		URL:           "https://ai-agents.30tools.com/agents/x",
		ExternalLinks: []string{"https://github.com/x", "https://x.com/x"},
	}
	if got, ok := r.RealURL(onlySocial); ok {
		t.Errorf("RealURL(onlySocial) = %q, want no match", got)
	}
	if got := r.VisitURL(onlySocial); got != onlySocial.URL {
		t.Errorf("VisitURL(onlySocial) = %q, want %q", got, onlySocial.URL)
	}
}
