package news

import (
	"context"
	"io"

	"github.com/a-h/templ"
	"github.com/microcosm-cc/bluemonday"

	"github.com/wjsacken/k2Sci-Hydrogen/internal/components"
)

var heroWidths = []int{400, 800, 1200}

// ViewOptions configures View.
type ViewOptions struct {
	// ContentPolicy, when set, sanitizes contentHtml before it is written. When nil the
	// HTML is written exactly as the content API returned it.
	ContentPolicy *bluemonday.Policy
}

// View renders an article page body from loader data.
func View(data LoaderResult, opts ViewOptions) templ.Component {
	article := data.Article

	byline := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, "<br><span>"+templ.EscapeString(data.FormattedDate+" · "+article.Author.Name)+"</span>")
		return err
	})

	hero := components.Image(article.Image, components.ImageOptions{
		Class: "w-full mx-auto mt-8 md:mt-16 max-w-7xl",
		Sizes: "90vw",
		// emitted verbatim; only the number feeds the src URL
		Width:   "100px",
		Widths:  heroWidths,
		Loading: components.LoadingEager,
		Crop:    "center",
		Scale:   2,
	})

	body := article.ContentHTML
	if opts.ContentPolicy != nil {
		body = opts.ContentPolicy.Sanitize(body)
	}
	content := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<div class="article">`); err != nil {
			return err
		}
		if err := templ.Raw(body).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, "</div>")
		return err
	})

	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<div class="justCent grid"><div class="container">`); err != nil {
			return err
		}
		page := components.Fragment(
			components.PageHeader(article.Title, components.PageHeaderBlogPost, byline),
			components.Section(components.SectionProps{As: "article", Padding: components.PaddingX}, hero, content),
		)
		if err := page.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, "</div></div>")
		return err
	})
}

// UGCPolicy is the opt-in policy for article bodies that are not trusted upstream.
func UGCPolicy() *bluemonday.Policy {
	policy := bluemonday.UGCPolicy()
	policy.AllowElements("figure", "figcaption")
	policy.AllowAttrs("class").OnElements("figure", "figcaption", "p", "span", "div")
	policy.AllowAttrs("loading").OnElements("img")
	policy.RequireNoFollowOnLinks(true)
	return policy
}
