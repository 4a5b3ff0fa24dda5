package components

import (
	"context"
	"io"
	"net/url"

	"github.com/a-h/templ"

	"github.com/wjsacken/k2Sci-Hydrogen/internal/storefront"
)

// DefaultCollectionsTitle is the section heading used when none is given.
const DefaultCollectionsTitle = "Collections"

var collectionImageWidths = []int{400, 500, 600, 700, 800, 900}

// CollectionPath is the link target of a collection card.
func CollectionPath(handle string) string {
	return "/collections/" + url.PathEscape(handle)
}

// FeaturedCollections renders collections with an image as a grid of link cards, in input
// order. An empty list renders nothing. Collections without an image are skipped.
func FeaturedCollections(collections []storefront.Collection, title string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if len(collections) == 0 {
			return nil
		}
		heading := title
		if heading == "" {
			heading = DefaultCollectionsTitle
		}

		cards := make([]templ.Component, 0, len(collections))
		for _, c := range collections {
			if c.Image == nil {
				continue
			}
			cards = append(cards, collectionCard(c))
		}

		return Section(SectionProps{Heading: heading}, Grid(len(cards), cards...)).Render(ctx, w)
	})
}

func collectionCard(c storefront.Collection) templ.Component {
	image := Image(c.Image, ImageOptions{
		Alt:    "Image of " + c.Title,
		Class:  "featCollections",
		Width:  Pixels(600),
		Height: Pixels(400),
		Sizes:  "(max-width: 32em) 100vw, 33vw",
		Widths: collectionImageWidths,
		Crop:   "center",
		Scale:  2,
	})

	return Link(
		LinkProps{
			Href:  CollectionPath(c.Handle),
			Attrs: map[string]string{"data-collection-id": c.ID},
		},
		templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
			m := newMarkup(ctx, w)
			m.raw(`<div class="grid gap-4"><div class="card-image bg-primary/5 bgWhite">`)
			m.render(image)
			m.raw("</div>")
			m.render(Heading(HeadingProps{Size: HeadingCopy}, c.Title))
			m.raw("</div>")
			return m.err
		}),
	)
}
