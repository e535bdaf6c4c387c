package blog_test

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/30tools/ai-agents-directory/internal/blog"
)

func TestLoadEmbedded(t *testing.T) {
	b, err := blog.Load()
	require.NoError(t, err)

	assert.Equal(t, []string{
		"best-ai-agents-2025",
		"ai-productivity-guide",
		"chatbot-vs-ai-agent",
		"ai-content-creation-tools",
		"implementing-ai-workplace",
		"ai-coding-assistants-2025",
	}, b.Slugs())

	p, ok := b.Post("chatbot-vs-ai-agent")
	require.True(t, ok)
	assert.Equal(t, "Chatbots vs AI Agents: Understanding the Key Differences", p.Title)
	assert.Equal(t, "Education", p.Category)
	assert.Equal(t, 2024, p.PublishDate.Year())
	assert.Contains(t, string(p.HTML), "<h2")

	assert.Len(t, b.Featured(), 4)
	assert.Contains(t, b.Categories(), "Reviews")
	assert.Len(t, b.ByCategory("reviews"), 2)
	assert.Len(t, b.ByCategory("All"), 6)

	_, ok = b.Post("missing")
	assert.False(t, ok)
}

func TestParse_SanitizesAndValidates(t *testing.T) {
	fsys := fstest.MapFS{
		"post.md": {Data: []byte("---\ntitle: Hello\ndate: 2024-02-01\n---\n# Hi\n\n<script>alert(1)</script>\n\n[link](https://example.com)\n")},
	}
	b, err := blog.Parse(fsys)
	require.NoError(t, err)

	p, ok := b.Post("post")
	require.True(t, ok)
	html := string(p.HTML)
	assert.Contains(t, html, "<h1")
	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, `href="https://example.com"`)

	for name, data := range map[string]string{
		"no-front-matter": "# Just markdown\n",
		"unterminated":    "---\ntitle: x\n",
		"no-title":        "---\ndate: 2024-01-01\n---\nbody\n",
		"bad-yaml":        "---\ntitle: [\n---\nbody\n",
	} {
		_, err := blog.Parse(fstest.MapFS{name + ".md": {Data: []byte(data)}})
		assert.Error(t, err, name)
	}
}
