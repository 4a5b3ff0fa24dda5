package storefront

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

type articleResponse struct {
	Blog *struct {
		ArticleByHandle *Article `json:"articleByHandle"`
	} `json:"blog"`
}

func writeFixture(t *testing.T, dir, rel, content string) {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func queryArticle(t *testing.T, l *Local, handle, language string) *Article {
	t.Helper()
	var out articleResponse
	vars := map[string]any{"blogHandle": "News", "articleHandle": handle, "language": language}
	require.NoError(t, l.Query(context.Background(), testQuery, vars, &out))
	require.NotNil(t, out.Blog)
	return out.Blog.ArticleByHandle
}

func TestLocalArticleDetails(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFixture(t, dir, "blogs/news/en/spring-launch.md", `---
title: Spring launch
author: Ada Lovelace
published_at: "2024-06-01T00:00:00Z"
image:
  id: gid://shopify/MediaImage/1
  alt_text: Spring shelves
  url: https://cdn.example.com/spring.jpg
  width: 1200
  height: 800
seo:
  title: Spring launch notes
---
Our **spring** line is here.
`)
	writeFixture(t, dir, "blogs/news/fr/spring-launch.md", `---
title: Lancement
format: html
published_at: 2024-06-02
---
<p class="lead">Bonjour</p>
`)

	l := NewLocal(dir)

	got := queryArticle(t, l, "spring-launch", "EN")
	require.NotNil(t, got)
	want := &Article{
		Title:       "Spring launch",
		ContentHTML: "<p>Our <strong>spring</strong> line is here.</p>",
		PublishedAt: got.PublishedAt,
		Author:      Author{Name: "Ada Lovelace"},
		Image: &Image{
			ID:      "gid://shopify/MediaImage/1",
			AltText: "Spring shelves",
			URL:     "https://cdn.example.com/spring.jpg",
			Width:   1200,
			Height:  800,
		},
		SEO: &ArticleSEO{Title: "Spring launch notes"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("article mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, "2024-06-01T00:00:00Z", got.PublishedAt.Format("2006-01-02T15:04:05Z07:00"))

	fr := queryArticle(t, l, "spring-launch", "FR")
	require.NotNil(t, fr)
	require.Equal(t, `<p class="lead">Bonjour</p>`, fr.ContentHTML)
	require.Nil(t, fr.Image)

	// no German copy: falls back to English
	de := queryArticle(t, l, "spring-launch", "DE")
	require.NotNil(t, de)
	require.Equal(t, "Spring launch", de.Title)

	require.Nil(t, queryArticle(t, l, "missing", "EN"))
	require.Nil(t, queryArticle(t, l, "../../etc/passwd", "EN"))
}

func TestLocalFeaturedCollections(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFixture(t, dir, "collections.yaml", `
- id: c1
  handle: freestyle
  title: Freestyle
  image:
    url: https://cdn.example.com/freestyle.jpg
    width: 600
    height: 400
- id: c2
  handle: archive
  title: Archive
- id: c3
  handle: backcountry
  title: Backcountry
`)
	l := NewLocal(dir)

	var out struct {
		Collections struct {
			Nodes []Collection `json:"nodes"`
		} `json:"collections"`
	}
	require.NoError(t, l.Query(context.Background(), "query FeaturedCollections($first: Int) { collections { nodes { id } } }", map[string]any{"first": 2}, &out))
	require.Len(t, out.Collections.Nodes, 2)
	require.Equal(t, "freestyle", out.Collections.Nodes[0].Handle)
	require.NotNil(t, out.Collections.Nodes[0].Image)
	require.Nil(t, out.Collections.Nodes[1].Image)
}

func TestLocalFeaturedCollectionsWithoutFile(t *testing.T) {
	t.Parallel()
	l := NewLocal(t.TempDir())

	var out struct {
		Collections struct {
			Nodes []Collection `json:"nodes"`
		} `json:"collections"`
	}
	require.NoError(t, l.Query(context.Background(), "query FeaturedCollections { collections { nodes { id } } }", nil, &out))
	require.Empty(t, out.Collections.Nodes)
}

func TestLocalRejectsUnknownOperations(t *testing.T) {
	t.Parallel()
	err := NewLocal(t.TempDir()).Query(context.Background(), "query Cart { cart { id } }", nil, &struct{}{})
	require.ErrorContains(t, err, `"Cart"`)
}

func TestLocalHonoursCancelledContext(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := NewLocal(t.TempDir()).Query(ctx, testQuery, nil, &struct{}{})
	require.ErrorIs(t, err, context.Canceled)
}

func TestLocalRejectsArticleWithoutPublishedAt(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFixture(t, dir, "blogs/news/en/undated.md", `---
title: Undated
author: Ada Lovelace
---
No date here.
`)

	var out articleResponse
	vars := map[string]any{"blogHandle": "News", "articleHandle": "undated", "language": "EN"}
	err := NewLocal(dir).Query(context.Background(), testQuery, vars, &out)
	require.ErrorContains(t, err, `invalid published_at ""`)
}
