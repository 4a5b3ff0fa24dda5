package seo

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/wjsacken/k2Sci-Hydrogen/internal/storefront"
)

func sampleArticle() storefront.Article {
	return storefront.Article{
		Title:       "Spring launch",
		ContentHTML: "<p>Our spring line is here.</p><p>Come &amp; see.</p>",
		PublishedAt: time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC),
		Author:      storefront.Author{Name: "Ada"},
		Image: &storefront.Image{
			URL:     "https://cdn.example.com/spring.jpg",
			Width:   1200,
			Height:  800,
			AltText: "Shelves",
		},
	}
}

func TestArticlePayload(t *testing.T) {
	t.Parallel()

	url := "https://shop.example.com/news/spring-launch"
	got := Article(sampleArticle(), url)

	want := Payload{
		Title:         "Spring launch",
		TitleTemplate: "%s | Journal",
		Description:   "Our spring line is here. Come & see.",
		URL:           url,
		Media: &Media{
			Type:    "image",
			URL:     "https://cdn.example.com/spring.jpg",
			Width:   1200,
			Height:  800,
			AltText: "Shelves",
		},
		JSONLD: map[string]any{
			"@context":            "https://schema.org",
			"@type":               "Article",
			"alternativeHeadline": "Spring launch",
			"articleBody":         "<p>Our spring line is here.</p><p>Come &amp; see.</p>",
			"datePublished":       "2024-06-01T00:00:00Z",
			"description":         "Our spring line is here. Come & see.",
			"headline":            "Spring launch",
			"image":               "https://cdn.example.com/spring.jpg",
			"url":                 url,
			"author":              map[string]any{"@type": "Person", "name": "Ada"},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, "Spring launch | Journal", got.FullTitle())
}

func TestArticlePayloadPrefersSEOFields(t *testing.T) {
	t.Parallel()

	a := sampleArticle()
	a.Image = nil
	a.SEO = &storefront.ArticleSEO{Title: "Custom title", Description: "Custom description"}

	got := Article(a, "https://shop.example.com/news/x")
	require.Equal(t, "Custom title", got.Title)
	require.Equal(t, "Custom description", got.Description)
	require.Nil(t, got.Media)
	require.NotContains(t, got.JSONLD, "image")
	require.Equal(t, "Spring launch", got.JSONLD["alternativeHeadline"])
}

func TestArticlePayloadIsDeterministic(t *testing.T) {
	t.Parallel()

	a := sampleArticle()
	first := Article(a, "https://shop.example.com/news/spring-launch")
	second := Article(a, "https://shop.example.com/news/spring-launch")
	require.Empty(t, cmp.Diff(first, second))
	require.Equal(t, JSON(first), JSON(second))
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	short := "short text"
	require.Equal(t, short, Truncate(short, descriptionLimit))

	long := strings.Repeat("é", 200)
	got := Truncate(long, descriptionLimit)
	require.Equal(t, descriptionLimit, len([]rune(got)))
	require.True(t, strings.HasSuffix(got, "..."))
}

func TestJSONEscapesScriptTerminators(t *testing.T) {
	t.Parallel()
	require.NotContains(t, JSON(map[string]string{"body": "</script>"}), "</script>")
}
