// Package blog serves the editorial posts bundled with the binary. Posts
// are markdown files with a YAML front matter block.
package blog

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"slices"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog/log"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"gopkg.in/yaml.v3"
)

//go:embed posts/*.md
var embedded embed.FS

var (
	markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))
	policy   = bluemonday.UGCPolicy()
)

// Post is one rendered blog post.
type Post struct {
	Slug        string        `json:"slug"`
	Title       string        `json:"title"`
	Excerpt     string        `json:"excerpt"`
	PublishDate time.Time     `json:"publish_date"`
	ReadTime    string        `json:"read_time"`
	Category    string        `json:"category"`
	Tags        []string      `json:"tags"`
	Featured    bool          `json:"featured"`
	HTML        template.HTML `json:"-"`
}

type frontMatter struct {
	Title    string    `yaml:"title"`
	Excerpt  string    `yaml:"excerpt"`
	Date     time.Time `yaml:"date"`
	ReadTime string    `yaml:"read_time"`
	Category string    `yaml:"category"`
	Tags     []string  `yaml:"tags"`
	Featured bool      `yaml:"featured"`
}

// Blog holds every post, newest first.
type Blog struct {
	posts  []Post
	bySlug map[string]int
}

// Load parses the embedded posts.
func Load() (*Blog, error) {
	sub, err := fs.Sub(embedded, "posts")
	if err != nil {
		return nil, err
	}
	return Parse(sub)
}

// Parse reads every *.md file at the root of fsys. The file name without
// extension is the slug.
func Parse(fsys fs.FS) (*Blog, error) {
	names, err := fs.Glob(fsys, "*.md")
	if err != nil {
		return nil, err
	}

	b := &Blog{bySlug: make(map[string]int, len(names))}
	for _, name := range names {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		p, err := parsePost(strings.TrimSuffix(path.Base(name), ".md"), data)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		b.posts = append(b.posts, p)
	}

	slices.SortStableFunc(b.posts, func(x, y Post) int {
		return y.PublishDate.Compare(x.PublishDate)
	})
	for i, p := range b.posts {
		b.bySlug[p.Slug] = i
	}

	log.Debug().Int("posts", len(b.posts)).Msg("Blog loaded")
	return b, nil
}

func parsePost(slug string, data []byte) (Post, error) {
	meta, body, err := splitFrontMatter(data)
	if err != nil {
		return Post{}, err
	}

	var fm frontMatter
	if err := yaml.Unmarshal(meta, &fm); err != nil {
		return Post{}, fmt.Errorf("front matter: %w", err)
	}
	if fm.Title == "" {
		return Post{}, fmt.Errorf("front matter: title is required")
	}

	var buf bytes.Buffer
	if err := markdown.Convert(body, &buf); err != nil {
		return Post{}, fmt.Errorf("render markdown: %w", err)
	}

	return Post{
		Slug:        slug,
		Title:       fm.Title,
		Excerpt:     fm.Excerpt,
		PublishDate: fm.Date,
		ReadTime:    fm.ReadTime,
		Category:    fm.Category,
		Tags:        fm.Tags,
		Featured:    fm.Featured,
		HTML:        template.HTML(policy.SanitizeBytes(buf.Bytes())),
	}, nil
}

var fence = []byte("---")

// splitFrontMatter separates a leading "---" delimited block from the body.
func splitFrontMatter(data []byte) (meta, body []byte, err error) {
	data = bytes.TrimLeft(data, "\ufeff \t\r\n")
	if !bytes.HasPrefix(data, fence) {
		return nil, nil, fmt.Errorf("missing front matter")
	}
	rest := data[len(fence):]
	end := bytes.Index(rest, append([]byte("\n"), fence...))
	if end < 0 {
		return nil, nil, fmt.Errorf("unterminated front matter")
	}
	meta = rest[:end]
	body = rest[end+1+len(fence):]
	return meta, bytes.TrimLeft(body, "\r\n"), nil
}

// Posts returns all posts, newest first.
func (b *Blog) Posts() []Post {
	return slices.Clone(b.posts)
}

// Post returns the post with the given slug.
func (b *Blog) Post(slug string) (Post, bool) {
	i, ok := b.bySlug[slug]
	if !ok {
		return Post{}, false
	}
	return b.posts[i], true
}

// Slugs returns every slug, newest first.
func (b *Blog) Slugs() []string {
	out := make([]string, len(b.posts))
	for i, p := range b.posts {
		out[i] = p.Slug
	}
	return out
}

// Featured returns the posts flagged as featured.
func (b *Blog) Featured() []Post {
	out := []Post{}
	for _, p := range b.posts {
		if p.Featured {
			out = append(out, p)
		}
	}
	return out
}

// Categories returns distinct post categories in first-seen order.
func (b *Blog) Categories() []string {
	out := []string{}
	for _, p := range b.posts {
		if p.Category != "" && !slices.Contains(out, p.Category) {
			out = append(out, p.Category)
		}
	}
	return out
}

// ByCategory filters posts; "" and "All" keep everything.
func (b *Blog) ByCategory(category string) []Post {
	if category == "" || strings.EqualFold(category, "all") {
		return b.Posts()
	}
	out := []Post{}
	for _, p := range b.posts {
		if strings.EqualFold(p.Category, category) {
			out = append(out, p)
		}
	}
	return out
}
