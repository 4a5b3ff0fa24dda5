package seo

import (
	"encoding/json"
	"html"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"

	"github.com/wjsacken/k2Sci-Hydrogen/internal/storefront"
)

const (
	descriptionLimit     = 155
	articleTitleTemplate = "%s | Journal"
)

// Media is the share image advertised for a page.
type Media struct {
	Type    string `json:"type"`
	URL     string `json:"url"`
	Width   int    `json:"width,omitempty"`
	Height  int    `json:"height,omitempty"`
	AltText string `json:"altText,omitempty"`
}

// Payload is the page metadata consumed by the document head.
type Payload struct {
	Title         string         `json:"title"`
	TitleTemplate string         `json:"titleTemplate"`
	Description   string         `json:"description"`
	URL           string         `json:"url"`
	Media         *Media         `json:"media,omitempty"`
	JSONLD        map[string]any `json:"jsonLd,omitempty"`
}

// FullTitle applies the title template.
func (p Payload) FullTitle() string {
	if p.TitleTemplate == "" || !strings.Contains(p.TitleTemplate, "%s") {
		return p.Title
	}
	return strings.Replace(p.TitleTemplate, "%s", p.Title, 1)
}

var plainText = func() *bluemonday.Policy {
	p := bluemonday.StrictPolicy()
	p.AddSpaceWhenStrippingTag(true)
	return p
}()

// Article derives the metadata for an article page. The result depends only on its inputs.
func Article(article storefront.Article, url string) Payload {
	title := article.Title
	var seoTitle, seoDescription string
	if article.SEO != nil {
		seoTitle = strings.TrimSpace(article.SEO.Title)
		seoDescription = strings.TrimSpace(article.SEO.Description)
	}
	if seoTitle != "" {
		title = seoTitle
	}

	description := seoDescription
	if description == "" {
		description = PlainText(article.ContentHTML)
	}
	description = Truncate(description, descriptionLimit)

	p := Payload{
		Title:         title,
		TitleTemplate: articleTitleTemplate,
		Description:   description,
		URL:           url,
	}
	if article.Image != nil && article.Image.URL != "" {
		p.Media = &Media{
			Type:    "image",
			URL:     article.Image.URL,
			Width:   article.Image.Width,
			Height:  article.Image.Height,
			AltText: article.Image.AltText,
		}
	}

	ld := map[string]any{
		"@context":            "https://schema.org",
		"@type":               "Article",
		"alternativeHeadline": article.Title,
		"articleBody":         article.ContentHTML,
		"description":         description,
		"headline":            title,
		"url":                 url,
	}
	if !article.PublishedAt.IsZero() {
		ld["datePublished"] = article.PublishedAt.UTC().Format("2006-01-02T15:04:05Z07:00")
	}
	if article.Author.Name != "" {
		ld["author"] = map[string]any{"@type": "Person", "name": article.Author.Name}
	}
	if p.Media != nil {
		ld["image"] = p.Media.URL
	}
	p.JSONLD = ld
	return p
}

// PlainText strips markup from an HTML fragment and collapses whitespace.
func PlainText(fragment string) string {
	if strings.TrimSpace(fragment) == "" {
		return ""
	}
	text := html.UnescapeString(plainText.Sanitize(fragment))
	return strings.Join(strings.Fields(text), " ")
}

// Truncate shortens s to at most limit runes, ending in "..." when cut.
func Truncate(s string, limit int) string {
	if limit <= 3 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return strings.TrimRight(string(runes[:limit-3]), " ") + "..."
}

// JSON marshals v for embedding in a script tag. It returns an empty string on error.
func JSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
