package components

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/wjsacken/k2Sci-Hydrogen/internal/seo"
)

// CustomFontStylesheet is linked by pages that use the editorial typeface.
const CustomFontStylesheet = "/assets/styles/custom-font.css"

// DocumentProps configures the page shell.
type DocumentProps struct {
	Lang        string
	SiteName    string
	SEO         *seo.Payload
	Stylesheets []string
}

// Document renders a full HTML page with metadata from props and body inside main.
func Document(props DocumentProps, body ...templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		lang := props.Lang
		if lang == "" {
			lang = "en"
		}
		title := props.SiteName
		if props.SEO != nil && props.SEO.Title != "" {
			title = props.SEO.FullTitle()
		}

		m := newMarkup(ctx, w)
		m.raw("<!DOCTYPE html><html")
		m.attr("lang", lang)
		m.raw(`><head><meta charset="utf-8"><meta name="viewport" content="width=device-width,initial-scale=1">`)
		m.raw("<title>")
		m.text(title)
		m.raw("</title>")
		for _, href := range props.Stylesheets {
			m.raw(`<link rel="stylesheet"`)
			m.attr("href", href)
			m.raw(">")
		}
		if p := props.SEO; p != nil {
			writeSEO(m, *p, props.SiteName)
		}
		m.raw(`</head><body><main id="mainContent" role="main">`)
		m.renderAll(body)
		m.raw("</main></body></html>")
		return m.err
	})
}

func writeSEO(m *markup, p seo.Payload, siteName string) {
	if p.Description != "" {
		m.raw(`<meta name="description"`)
		m.attr("content", p.Description)
		m.raw(">")
	}
	if p.URL != "" {
		m.raw(`<link rel="canonical"`)
		m.attr("href", p.URL)
		m.raw(">")
	}

	ogType := "website"
	if t, _ := p.JSONLD["@type"].(string); t == "Article" {
		ogType = "article"
	}
	meta := [][2]string{
		{"og:type", ogType},
		{"og:title", p.Title},
		{"og:description", p.Description},
		{"og:url", p.URL},
		{"og:site_name", siteName},
	}
	if p.Media != nil {
		meta = append(meta, [2]string{"og:image", p.Media.URL}, [2]string{"og:image:alt", p.Media.AltText})
	}
	for _, kv := range meta {
		if kv[1] == "" {
			continue
		}
		m.raw(`<meta`)
		m.attr("property", kv[0])
		m.attr("content", kv[1])
		m.raw(">")
	}

	if len(p.JSONLD) > 0 {
		if ld := seo.JSON(p.JSONLD); ld != "" {
			m.raw(`<script type="application/ld+json">`)
			m.raw(ld)
			m.raw("</script>")
		}
	}
}
