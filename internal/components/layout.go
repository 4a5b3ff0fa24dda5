package components

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"
)

// HeadingSize selects the typographic scale of a heading.
type HeadingSize string

const (
	HeadingDisplay HeadingSize = "display"
	HeadingHeading HeadingSize = "heading"
	HeadingLead    HeadingSize = "lead"
	HeadingCopy    HeadingSize = "copy"
)

var headingSizes = map[HeadingSize]string{
	HeadingDisplay: "font-bold text-display",
	HeadingHeading: "font-bold text-heading",
	HeadingLead:    "font-bold text-lead",
	HeadingCopy:    "font-medium text-copy",
}

// HeadingProps configures Heading. As defaults to h2 and Size to heading.
type HeadingProps struct {
	As    string
	Size  HeadingSize
	Class string
}

// Heading renders text inside a sized heading element.
func Heading(props HeadingProps, text string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		tag := props.As
		if !validTag(tag) {
			tag = "h2"
		}
		size := props.Size
		if _, ok := headingSizes[size]; !ok {
			size = HeadingHeading
		}
		m := newMarkup(ctx, w)
		m.raw("<" + tag)
		m.attr("class", classes("max-w-prose whitespace-pre-wrap", headingSizes[size], props.Class))
		m.attr("data-size", string(size))
		m.raw(">")
		m.text(text)
		m.raw("</" + tag + ">")
		return m.err
	})
}

// Padding selects Section padding.
type Padding string

const (
	PaddingAll  Padding = "all"
	PaddingX    Padding = "x"
	PaddingY    Padding = "y"
	PaddingNone Padding = "none"
)

var paddings = map[Padding]string{
	PaddingAll:  "p-6 md:p-8 lg:p-12",
	PaddingX:    "px-6 md:px-8 lg:px-12",
	PaddingY:    "py-6 md:py-8 lg:py-12",
	PaddingNone: "",
}

// SectionProps configures Section. As defaults to section and Padding to all.
type SectionProps struct {
	As      string
	Heading string
	Padding Padding
	Class   string
}

// Section wraps children in a padded grid container with an optional lead heading.
func Section(props SectionProps, children ...templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		tag := props.As
		if !validTag(tag) {
			tag = "section"
		}
		padding := props.Padding
		if _, ok := paddings[padding]; !ok {
			padding = PaddingAll
		}
		m := newMarkup(ctx, w)
		m.raw("<" + tag)
		m.attr("class", classes("w-full gap-4 md:gap-8 grid", paddings[padding], props.Class))
		m.raw(">")
		if props.Heading != "" {
			headingClass := ""
			if padding == PaddingY {
				headingClass = paddings[PaddingX]
			}
			m.render(Heading(HeadingProps{Size: HeadingLead, Class: headingClass}, props.Heading))
		}
		m.renderAll(children)
		m.raw("</" + tag + ">")
		return m.err
	})
}

// GridClass returns the responsive column classes for a grid holding items entries.
func GridClass(items int) string {
	cols := []string{"grid-cols-1"}
	switch {
	case items == 2:
		cols = append(cols, "md:grid-cols-2")
	case items == 3:
		cols = append(cols, "sm:grid-cols-3")
	case items > 3:
		cols = append(cols, "md:grid-cols-3", "lg:grid-cols-4")
	}
	return classes(append([]string{"grid", "gap-2 gap-y-6 md:gap-4 lg:gap-6"}, cols...)...)
}

// Grid lays children out in a responsive grid sized for items entries.
func Grid(items int, children ...templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		m := newMarkup(ctx, w)
		m.raw("<div")
		m.attr("class", GridClass(items))
		m.attr("data-grid-items", strconv.Itoa(items))
		m.raw(">")
		m.renderAll(children)
		m.raw("</div>")
		return m.err
	})
}

// LinkProps configures Link.
type LinkProps struct {
	Href  string
	Class string
	Attrs map[string]string
}

// Link renders an anchor around children.
func Link(props LinkProps, children ...templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		m := newMarkup(ctx, w)
		m.raw("<a")
		m.attr("href", string(templ.URL(props.Href)))
		m.optAttr("class", props.Class)
		for _, name := range sortedKeys(props.Attrs) {
			m.attr(name, props.Attrs[name])
		}
		m.raw(">")
		m.renderAll(children)
		m.raw("</a>")
		return m.err
	})
}

// PageHeaderVariant selects PageHeader layout.
type PageHeaderVariant string

const (
	PageHeaderDefault  PageHeaderVariant = "default"
	PageHeaderBlogPost PageHeaderVariant = "blogPost"
)

var pageHeaderVariants = map[PageHeaderVariant]string{
	PageHeaderDefault:  "grid w-full gap-8 p-6 py-8 md:p-8 lg:p-12 justify-items-start",
	PageHeaderBlogPost: "grid w-full gap-4 p-6 py-8 md:p-8 lg:p-12 md:pt-24 lg:pt-32 justify-items-center",
}

// PageHeader renders a page title as h1 followed by children.
func PageHeader(heading string, variant PageHeaderVariant, children ...templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, ok := pageHeaderVariants[variant]; !ok {
			variant = PageHeaderDefault
		}
		m := newMarkup(ctx, w)
		m.raw("<header")
		m.attr("class", pageHeaderVariants[variant])
		m.attr("data-variant", string(variant))
		m.raw(">")
		if heading != "" {
			m.render(Heading(HeadingProps{As: "h1", Size: HeadingHeading, Class: "inline-block"}, heading))
		}
		m.renderAll(children)
		m.raw("</header>")
		return m.err
	})
}

func validTag(tag string) bool {
	switch tag {
	case "div", "section", "article", "aside", "main", "header", "footer", "nav",
		"h1", "h2", "h3", "h4", "h5", "h6", "p", "span":
		return true
	default:
		return false
	}
}
