package news

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"github.com/wjsacken/k2Sci-Hydrogen/internal/cache"
	"github.com/wjsacken/k2Sci-Hydrogen/internal/components"
	"github.com/wjsacken/k2Sci-Hydrogen/internal/i18n"
	"github.com/wjsacken/k2Sci-Hydrogen/internal/middleware"
	"github.com/wjsacken/k2Sci-Hydrogen/internal/platform/httpx"
	"github.com/wjsacken/k2Sci-Hydrogen/internal/platform/requestctx"
	"github.com/wjsacken/k2Sci-Hydrogen/internal/storefront"
)

// RouteParam is the chi URL parameter holding the article handle.
const RouteParam = "journalHandle"

// Handler serves the article route as HTML, or as loader JSON for data requests.
type Handler struct {
	source        storefront.Querier
	siteName      string
	defaultLocale i18n.Locale
	policy        *bluemonday.Policy
}

// HandlerOption customises Handler.
type HandlerOption func(*Handler)

// WithSiteName sets the site name used in the document head.
func WithSiteName(name string) HandlerOption {
	return func(h *Handler) { h.siteName = name }
}

// WithDefaultLocale sets the locale used when no locale middleware ran.
func WithDefaultLocale(l i18n.Locale) HandlerOption {
	return func(h *Handler) { h.defaultLocale = l }
}

// WithContentPolicy sanitizes article bodies with policy before rendering.
func WithContentPolicy(policy *bluemonday.Policy) HandlerOption {
	return func(h *Handler) { h.policy = policy }
}

// NewHandler builds the article route handler.
func NewHandler(source storefront.Querier, opts ...HandlerOption) *Handler {
	h := &Handler{
		source:        source,
		defaultLocale: i18n.Locale{Language: "EN", Country: "US"},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := requestctx.Logger(ctx)

	locale, ok := middleware.LocaleFromContext(ctx)
	if !ok {
		locale = h.defaultLocale
	}

	resp, err := Load(ctx, r, Params{JournalHandle: chi.URLParam(r, RouteParam)}, storefront.Context{
		Storefront: h.source,
		I18n:       locale,
	})
	if err != nil {
		var invariant *InvariantError
		switch {
		case errors.Is(err, ErrNotFound):
			w.WriteHeader(http.StatusNotFound)
		case errors.As(err, &invariant):
			logger.Error("article route invariant failed", zap.Error(err))
			httpx.WriteError(ctx, w, httpx.Internal())
		case ctx.Err() != nil && errors.Is(err, ctx.Err()):
			logger.Info("article request cancelled", zap.Error(err))
		default:
			logger.Error("article load failed", zap.Error(err))
			httpx.WriteError(ctx, w, httpx.NewError("storefront_unavailable", "content service unavailable", http.StatusBadGateway))
		}
		return
	}

	// the same URL answers with HTML or loader JSON depending on Accept
	w.Header().Add("Vary", "Accept")

	if WantsData(r) {
		var buf bytes.Buffer
		if err := json.NewEncoder(&buf).Encode(resp.Data); err != nil {
			logger.Error("encode article data", zap.Error(err))
			httpx.WriteError(ctx, w, httpx.Internal())
			return
		}
		copyHeader(w.Header(), resp.Header)
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(buf.Bytes())
		return
	}

	page := components.Document(components.DocumentProps{
		Lang:        locale.Tag(),
		SiteName:    h.siteName,
		SEO:         &resp.Data.SEO,
		Stylesheets: []string{components.CustomFontStylesheet},
	}, View(resp.Data, ViewOptions{ContentPolicy: h.policy}))

	var buf bytes.Buffer
	if err := page.Render(ctx, &buf); err != nil {
		logger.Error("render article", zap.Error(err))
		httpx.WriteError(ctx, w, httpx.Internal())
		return
	}
	cache.RouteHeaders(w.Header(), resp.Header)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// WantsData reports whether the client asked for loader JSON instead of a document.
func WantsData(r *http.Request) bool {
	if r.URL.Query().Has("_data") {
		return true
	}
	for _, accept := range r.Header.Values("Accept") {
		for _, part := range strings.Split(accept, ",") {
			mediaType, _, _ := strings.Cut(strings.TrimSpace(part), ";")
			if strings.EqualFold(strings.TrimSpace(mediaType), "application/json") {
				return true
			}
		}
	}
	return false
}

func copyHeader(dst, src http.Header) {
	for key, values := range src {
		for _, v := range values {
			dst.Add(key, v)
		}
	}
}
