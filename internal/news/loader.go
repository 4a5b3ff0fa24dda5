// Package news serves journal articles from the storefront's "News" blog.
package news

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/wjsacken/k2Sci-Hydrogen/internal/cache"
	"github.com/wjsacken/k2Sci-Hydrogen/internal/format"
	"github.com/wjsacken/k2Sci-Hydrogen/internal/seo"
	"github.com/wjsacken/k2Sci-Hydrogen/internal/storefront"
)

// BlogHandle is the blog every journal article is read from.
const BlogHandle = "News"

// ArticleQuery fetches one article by handle in the requested language.
const ArticleQuery = `#graphql
  query ArticleDetails(
    $language: LanguageCode
    $blogHandle: String!
    $articleHandle: String!
  ) @inContext(language: $language) {
    blog(handle: $blogHandle) {
      articleByHandle(handle: $articleHandle) {
        title
        contentHtml
        publishedAt
        author: authorV2 {
          name
        }
        image {
          id
          altText
          url
          width
          height
        }
        seo {
          description
          title
        }
      }
    }
  }
`

// ErrNotFound is returned when the blog has no article with the requested handle.
var ErrNotFound = errors.New("news: article not found")

// InvariantError reports a request the route should never have dispatched.
type InvariantError struct {
	Message string
}

func (e *InvariantError) Error() string {
	return "invariant failed: " + e.Message
}

// Params are the route parameters of the article route.
type Params struct {
	JournalHandle string
}

// LoaderResult is the data an article page renders from.
type LoaderResult struct {
	Article       storefront.Article `json:"article"`
	FormattedDate string             `json:"formattedDate"`
	SEO           seo.Payload        `json:"seo"`
}

// Response pairs loader data with the headers the route responds with.
type Response struct {
	Data   LoaderResult
	Header http.Header
}

type articleQueryResponse struct {
	Blog *struct {
		ArticleByHandle *storefront.Article `json:"articleByHandle"`
	} `json:"blog"`
}

// Load fetches the article named by params.JournalHandle. It returns an *InvariantError,
// without querying, when the handle is empty, and ErrNotFound when the article does not exist.
func Load(ctx context.Context, r *http.Request, params Params, lc storefront.Context) (*Response, error) {
	handle := strings.TrimSpace(params.JournalHandle)
	if handle == "" {
		return nil, &InvariantError{Message: "Missing journal handle"}
	}
	if lc.Storefront == nil {
		return nil, errors.New("news: storefront querier is required")
	}

	var out articleQueryResponse
	vars := map[string]any{
		"blogHandle":    BlogHandle,
		"articleHandle": handle,
		"language":      lc.I18n.Language,
	}
	if err := lc.Storefront.Query(ctx, ArticleQuery, vars, &out); err != nil {
		return nil, fmt.Errorf("news: load article %q: %w", handle, err)
	}
	if out.Blog == nil || out.Blog.ArticleByHandle == nil {
		return nil, ErrNotFound
	}
	article := *out.Blog.ArticleByHandle

	header := http.Header{}
	header.Set("Cache-Control", cache.Long().Header())

	return &Response{
		Data: LoaderResult{
			Article:       article,
			FormattedDate: format.LongDate(article.PublishedAt, lc.I18n.Language, lc.I18n.Country),
			SEO:           seo.Article(article, RequestURL(r)),
		},
		Header: header,
	}, nil
}

// RequestURL reconstructs the absolute URL of r without the _data query flag.
func RequestURL(r *http.Request) string {
	if r == nil || r.URL == nil {
		return ""
	}
	u := *r.URL
	if u.Scheme == "" {
		u.Scheme = "http"
		if r.TLS != nil {
			u.Scheme = "https"
		}
		if proto := r.Header.Get("X-Forwarded-Proto"); proto == "http" || proto == "https" {
			u.Scheme = proto
		}
	}
	if u.Host == "" {
		u.Host = r.Host
	}
	q := u.Query()
	if q.Has("_data") {
		q.Del("_data")
		u.RawQuery = q.Encode()
	}
	u.Fragment = ""
	return u.String()
}
