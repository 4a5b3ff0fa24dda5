// Package collections serves the storefront home page and its featured collections grid.
package collections

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/wjsacken/k2Sci-Hydrogen/internal/cache"
	"github.com/wjsacken/k2Sci-Hydrogen/internal/components"
	"github.com/wjsacken/k2Sci-Hydrogen/internal/i18n"
	"github.com/wjsacken/k2Sci-Hydrogen/internal/middleware"
	"github.com/wjsacken/k2Sci-Hydrogen/internal/platform/httpx"
	"github.com/wjsacken/k2Sci-Hydrogen/internal/platform/requestctx"
	"github.com/wjsacken/k2Sci-Hydrogen/internal/storefront"
)

// FeaturedLimit is how many collections the home page asks for.
const FeaturedLimit = 8

// FeaturedQuery lists the most recently updated collections for a locale.
const FeaturedQuery = `#graphql
  query FeaturedCollections(
    $country: CountryCode
    $language: LanguageCode
    $first: Int
  ) @inContext(country: $country, language: $language) {
    collections(first: $first, sortKey: UPDATED_AT) {
      nodes {
        id
        title
        handle
        image {
          altText
          width
          height
          url
        }
      }
    }
  }
`

type featuredResponse struct {
	Collections *struct {
		Nodes []storefront.Collection `json:"nodes"`
	} `json:"collections"`
}

// LoadFeatured returns up to FeaturedLimit collections for the request locale.
func LoadFeatured(ctx context.Context, lc storefront.Context) ([]storefront.Collection, error) {
	if lc.Storefront == nil {
		return nil, errors.New("collections: storefront querier is required")
	}
	var out featuredResponse
	vars := map[string]any{
		"country":  lc.I18n.Country,
		"language": lc.I18n.Language,
		"first":    FeaturedLimit,
	}
	if err := lc.Storefront.Query(ctx, FeaturedQuery, vars, &out); err != nil {
		return nil, fmt.Errorf("collections: load featured: %w", err)
	}
	if out.Collections == nil {
		return nil, nil
	}
	return out.Collections.Nodes, nil
}

// Handler renders the home page.
type Handler struct {
	source        storefront.Querier
	siteName      string
	title         string
	defaultLocale i18n.Locale
}

// HandlerOption customises Handler.
type HandlerOption func(*Handler)

// WithSiteName sets the document title.
func WithSiteName(name string) HandlerOption {
	return func(h *Handler) { h.siteName = name }
}

// WithTitle sets the featured collections heading.
func WithTitle(title string) HandlerOption {
	return func(h *Handler) { h.title = title }
}

// WithDefaultLocale sets the locale used when no locale middleware ran.
func WithDefaultLocale(l i18n.Locale) HandlerOption {
	return func(h *Handler) { h.defaultLocale = l }
}

// NewHandler builds the home route handler.
func NewHandler(source storefront.Querier, opts ...HandlerOption) *Handler {
	h := &Handler{
		source:        source,
		title:         components.DefaultCollectionsTitle,
		defaultLocale: i18n.Locale{Language: "EN", Country: "US"},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// ServeHTTP renders the page even when collections cannot be loaded; the grid is then omitted.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := requestctx.Logger(ctx)

	locale, ok := middleware.LocaleFromContext(ctx)
	if !ok {
		locale = h.defaultLocale
	}

	featured, err := LoadFeatured(ctx, storefront.Context{Storefront: h.source, I18n: locale})
	if err != nil {
		if ctx.Err() != nil {
			logger.Info("home request cancelled", zap.Error(err))
			return
		}
		logger.Warn("featured collections unavailable", zap.Error(err))
		featured = nil
	}

	page := components.Document(components.DocumentProps{
		Lang:        locale.Tag(),
		SiteName:    h.siteName,
		Stylesheets: []string{components.CustomFontStylesheet},
	}, components.FeaturedCollections(featured, h.title))

	var buf bytes.Buffer
	if err := page.Render(ctx, &buf); err != nil {
		logger.Error("render home", zap.Error(err))
		httpx.WriteError(ctx, w, httpx.Internal())
		return
	}
	w.Header().Set("Cache-Control", cache.Short().Header())
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
