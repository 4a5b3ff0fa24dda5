package storefront

import "time"

// Image is a storefront media image. Width and Height are intrinsic pixel dimensions and
// may be zero when the platform does not report them.
type Image struct {
	ID      string `json:"id,omitempty" yaml:"id"`
	AltText string `json:"altText,omitempty" yaml:"alt_text"`
	URL     string `json:"url" yaml:"url"`
	Width   int    `json:"width,omitempty" yaml:"width"`
	Height  int    `json:"height,omitempty" yaml:"height"`
}

// Author is the article byline.
type Author struct {
	Name string `json:"name"`
}

// ArticleSEO holds the optional SEO overrides edited alongside an article.
type ArticleSEO struct {
	Title       string `json:"title,omitempty" yaml:"title"`
	Description string `json:"description,omitempty" yaml:"description"`
}

// Article is a blog article as returned by the ArticleDetails query.
type Article struct {
	Title       string      `json:"title"`
	ContentHTML string      `json:"contentHtml"`
	PublishedAt time.Time   `json:"publishedAt"`
	Author      Author      `json:"author"`
	Image       *Image      `json:"image"`
	SEO         *ArticleSEO `json:"seo"`
}

// Collection is a product collection reference used by featured collection grids.
type Collection struct {
	ID     string `json:"id" yaml:"id"`
	Handle string `json:"handle" yaml:"handle"`
	Title  string `json:"title" yaml:"title"`
	Image  *Image `json:"image" yaml:"image"`
}
