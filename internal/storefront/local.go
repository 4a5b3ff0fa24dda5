package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
	"gopkg.in/yaml.v3"
)

const (
	fallbackFixtureLanguage = "en"
	collectionsFile         = "collections.yaml"
)

// Local answers storefront operations from a fixture directory:
//
//	<dir>/collections.yaml
//	<dir>/blogs/<blog>/<language>/<article>.md
//
// Articles are markdown with YAML front matter; format: html keeps the body verbatim.
type Local struct {
	dir string
	md  goldmark.Markdown
}

// NewLocal returns a fixture source rooted at dir.
func NewLocal(dir string) *Local {
	return &Local{
		dir: dir,
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM, extension.Typographer),
			// fixture bodies are authored in-repo; raw HTML is kept like the platform does
			goldmark.WithRendererOptions(html.WithUnsafe()),
		),
	}
}

// Query dispatches on the operation name and decodes the fixture response into out.
func (l *Local) Query(ctx context.Context, query string, vars map[string]any, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var (
		data any
		err  error
	)
	switch op := OperationName(query); op {
	case "ArticleDetails":
		data, err = l.articleDetails(vars)
	case "FeaturedCollections":
		data, err = l.featuredCollections(vars)
	default:
		return fmt.Errorf("storefront: local source cannot answer operation %q", op)
	}
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("storefront: encode fixture: %w", err)
	}
	return json.Unmarshal(raw, out)
}

type articleFrontMatter struct {
	Title       string      `yaml:"title"`
	Author      string      `yaml:"author"`
	PublishedAt string      `yaml:"published_at"`
	Format      string      `yaml:"format"`
	Image       *Image      `yaml:"image"`
	SEO         *ArticleSEO `yaml:"seo"`
}

func (l *Local) articleDetails(vars map[string]any) (any, error) {
	blog := sanitizeSlug(stringVar(vars, "blogHandle"))
	handle := sanitizeSlug(stringVar(vars, "articleHandle"))
	lang := strings.ToLower(stringVar(vars, "language"))

	var article *Article
	if blog != "" && handle != "" {
		priority := []string{lang}
		if lang != fallbackFixtureLanguage {
			priority = append(priority, fallbackFixtureLanguage)
		}
		for _, candidate := range priority {
			if candidate == "" {
				continue
			}
			a, err := l.readArticle(filepath.Join(l.dir, "blogs", blog, candidate, handle+".md"))
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			if err != nil {
				return nil, err
			}
			article = a
			break
		}
	}

	return map[string]any{
		"blog": map[string]any{"articleByHandle": article},
	}, nil
}

func (l *Local) readArticle(path string) (*Article, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	fm, body := splitFrontMatter(string(data))
	front := articleFrontMatter{}
	if strings.TrimSpace(fm) != "" {
		if err := yaml.Unmarshal([]byte(fm), &front); err != nil {
			return nil, fmt.Errorf("storefront: parse front matter %s: %w", path, err)
		}
	}

	content := body
	if !strings.EqualFold(strings.TrimSpace(front.Format), "html") {
		var buf bytes.Buffer
		if err := l.md.Convert([]byte(body), &buf); err != nil {
			return nil, fmt.Errorf("storefront: render %s: %w", path, err)
		}
		content = buf.String()
	}

	published, err := parseFixtureDate(front.PublishedAt)
	if err != nil {
		return nil, fmt.Errorf("storefront: %s: %w", path, err)
	}

	return &Article{
		Title:       strings.TrimSpace(front.Title),
		ContentHTML: strings.TrimSpace(content),
		PublishedAt: published,
		Author:      Author{Name: strings.TrimSpace(front.Author)},
		Image:       front.Image,
		SEO:         front.SEO,
	}, nil
}

func (l *Local) featuredCollections(vars map[string]any) (any, error) {
	data, err := os.ReadFile(filepath.Join(l.dir, collectionsFile))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	var collections []Collection
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &collections); err != nil {
			return nil, fmt.Errorf("storefront: parse %s: %w", collectionsFile, err)
		}
	}
	if first := intVar(vars, "first"); first > 0 && first < len(collections) {
		collections = collections[:first]
	}
	if collections == nil {
		collections = []Collection{}
	}
	return map[string]any{
		"collections": map[string]any{"nodes": collections},
	}, nil
}

func splitFrontMatter(input string) (string, string) {
	input = strings.TrimLeft(input, "\ufeff")
	lines := strings.Split(input, "\n")
	if strings.TrimSpace(lines[0]) != "---" {
		return "", input
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			fm := strings.Join(lines[1:i], "\n")
			body := strings.Join(lines[i+1:], "\n")
			return fm, strings.TrimLeft(body, "\n\r")
		}
	}
	return "", input
}

func parseFixtureDate(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, v); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid published_at %q", v)
}

func sanitizeSlug(slug string) string {
	slug = strings.TrimSpace(strings.ToLower(slug))
	slug = strings.Trim(slug, "/")
	if slug == "" || strings.Contains(slug, "..") || strings.ContainsAny(slug, `/\`) {
		return ""
	}
	return slug
}

func stringVar(vars map[string]any, key string) string {
	if v, ok := vars[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

func intVar(vars map[string]any, key string) int {
	switch v := vars[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}
