package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"github.com/wjsacken/k2Sci-Hydrogen/internal/collections"
	"github.com/wjsacken/k2Sci-Hydrogen/internal/i18n"
	"github.com/wjsacken/k2Sci-Hydrogen/internal/middleware"
	"github.com/wjsacken/k2Sci-Hydrogen/internal/news"
	"github.com/wjsacken/k2Sci-Hydrogen/internal/platform/observability"
	"github.com/wjsacken/k2Sci-Hydrogen/internal/storefront"
)

type routerDeps struct {
	Logger         *zap.Logger
	Source         storefront.Querier
	Resolver       *i18n.Resolver
	AssetsDir      string
	SiteName       string
	ContentPolicy  *bluemonday.Policy
	RequestTimeout time.Duration
}

func newRouter(deps routerDeps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	resolver := deps.Resolver
	if resolver == nil {
		resolver = i18n.NewResolver("EN", "US")
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(observability.InjectLoggerMiddleware(logger))
	r.Use(observability.TraceMiddleware())
	r.Use(observability.RequestLoggerMiddleware())
	r.Use(observability.RecoveryMiddleware(logger))
	r.Use(chimw.Compress(5))
	if deps.RequestTimeout > 0 {
		r.Use(chimw.Timeout(deps.RequestTimeout))
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_, _ = w.Write([]byte("ok"))
	})
	if deps.AssetsDir != "" {
		r.Handle("/assets/*", middleware.AssetsWithCache("/assets", deps.AssetsDir))
	}

	home := collections.NewHandler(deps.Source,
		collections.WithSiteName(deps.SiteName),
		collections.WithDefaultLocale(resolver.Default()),
	)
	article := news.NewHandler(deps.Source,
		news.WithSiteName(deps.SiteName),
		news.WithDefaultLocale(resolver.Default()),
		news.WithContentPolicy(deps.ContentPolicy),
	)
	articlePattern := "/news/{" + news.RouteParam + "}"

	r.Group(func(r chi.Router) {
		r.Use(middleware.Locale(resolver))
		r.Method(http.MethodGet, "/", home)
		r.Method(http.MethodGet, articlePattern, article)
		r.Route("/{"+middleware.LangParam+"}", func(r chi.Router) {
			r.Method(http.MethodGet, "/", home)
			r.Method(http.MethodGet, articlePattern, article)
		})
	})

	return r
}
