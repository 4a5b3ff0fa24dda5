package components

import (
	"context"
	"io"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"github.com/wjsacken/k2Sci-Hydrogen/internal/storefront"
)

const (
	LoadingLazy  = "lazy"
	LoadingEager = "eager"
)

// Dimension is an HTML width or height attribute value. It is emitted exactly as given, so
// both "600" and "100px" are valid.
type Dimension string

// Pixels returns the unitless dimension for n.
func Pixels(n int) Dimension {
	return Dimension(strconv.Itoa(n))
}

// Int returns the numeric pixel value of a unitless or px dimension.
func (d Dimension) Int() (int, bool) {
	s := strings.TrimSpace(string(d))
	s = strings.TrimSuffix(s, "px")
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// ImageOptions configures Image.
type ImageOptions struct {
	Alt     string
	Class   string
	Width   Dimension
	Height  Dimension
	Sizes   string
	Widths  []int
	Loading string
	Crop    string
	Scale   int
}

// Image renders a responsive storefront image. A nil image renders nothing.
func Image(img *storefront.Image, opts ImageOptions) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if img == nil || strings.TrimSpace(img.URL) == "" {
			return nil
		}

		alt := opts.Alt
		if alt == "" {
			alt = img.AltText
		}
		loading := opts.Loading
		if loading != LoadingEager {
			loading = LoadingLazy
		}

		width := opts.Width
		height := opts.Height
		if width == "" && img.Width > 0 {
			width = Pixels(img.Width)
			if height == "" && img.Height > 0 {
				height = Pixels(img.Height)
			}
		}

		ratio := aspectRatio(opts, img)
		srcWidth, ok := width.Int()
		if !ok && len(opts.Widths) > 0 {
			srcWidth = opts.Widths[0]
		}

		m := newMarkup(ctx, w)
		m.raw("<img")
		m.attr("src", imageURL(img.URL, srcWidth, heightFor(srcWidth, ratio), opts.Crop, opts.Scale))
		if srcset := srcSet(img.URL, opts.Widths, ratio, opts.Crop, opts.Scale); srcset != "" {
			m.attr("srcset", srcset)
		}
		m.optAttr("sizes", opts.Sizes)
		m.attr("alt", alt)
		m.optAttr("width", string(width))
		m.optAttr("height", string(height))
		m.attr("loading", loading)
		m.attr("decoding", "async")
		m.optAttr("class", opts.Class)
		m.raw(">")
		return m.err
	})
}

// aspectRatio prefers numeric option dimensions and falls back to the intrinsic size.
func aspectRatio(opts ImageOptions, img *storefront.Image) float64 {
	if w, ok := opts.Width.Int(); ok {
		if h, ok := opts.Height.Int(); ok {
			return float64(w) / float64(h)
		}
	}
	if img.Width > 0 && img.Height > 0 {
		return float64(img.Width) / float64(img.Height)
	}
	return 0
}

func heightFor(width int, ratio float64) int {
	if width <= 0 || ratio <= 0 {
		return 0
	}
	return int(math.Round(float64(width) / ratio))
}

func srcSet(src string, widths []int, ratio float64, crop string, scale int) string {
	entries := make([]string, 0, len(widths))
	for _, w := range widths {
		if w <= 0 {
			continue
		}
		entries = append(entries, imageURL(src, w, heightFor(w, ratio), crop, scale)+" "+strconv.Itoa(w)+"w")
	}
	return strings.Join(entries, ", ")
}

// imageURL adds CDN transform parameters to src.
func imageURL(src string, width, height int, crop string, scale int) string {
	u, err := url.Parse(src)
	if err != nil {
		return src
	}
	q := u.Query()
	if width > 0 {
		q.Set("width", strconv.Itoa(width))
	}
	if height > 0 {
		q.Set("height", strconv.Itoa(height))
	}
	if crop != "" {
		q.Set("crop", crop)
	}
	if scale > 1 {
		q.Set("scale", strconv.Itoa(scale))
	}
	u.RawQuery = q.Encode()
	return u.String()
}
