package news

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/wjsacken/k2Sci-Hydrogen/internal/cache"
	"github.com/wjsacken/k2Sci-Hydrogen/internal/i18n"
	"github.com/wjsacken/k2Sci-Hydrogen/internal/middleware"
	"github.com/wjsacken/k2Sci-Hydrogen/internal/platform/requestctx"
	"github.com/wjsacken/k2Sci-Hydrogen/internal/testutil"
)

func articleRouter(h http.Handler) http.Handler {
	r := chi.NewRouter()
	mw := middleware.Locale(i18n.NewResolver("EN", "US"))
	r.With(mw).Get("/news/{journalHandle}", h.ServeHTTP)
	r.With(mw).Get("/{lang}/news/{journalHandle}", h.ServeHTTP)
	return r
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandlerServesDataJSON(t *testing.T) {
	t.Parallel()

	q := &stubQuerier{response: springLaunchResponse}
	router := articleRouter(NewHandler(q))

	rec := serve(router, httptest.NewRequest(http.MethodGet, "/news/spring-launch?_data=routes", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, cache.LongHeader, rec.Header().Get("Cache-Control"))
	require.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))

	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	keys := make([]string, 0, len(body))
	for k := range body {
		keys = append(keys, k)
	}
	require.ElementsMatch(t, []string{"article", "formattedDate", "seo"}, keys)

	var formatted string
	require.NoError(t, json.Unmarshal(body["formattedDate"], &formatted))
	require.Equal(t, "June 1, 2024", formatted)

	var seoBody struct {
		URL string `json:"url"`
	}
	require.NoError(t, json.Unmarshal(body["seo"], &seoBody))
	require.Equal(t, "http://example.com/news/spring-launch", seoBody.URL)
}

func TestHandlerAcceptJSON(t *testing.T) {
	t.Parallel()

	router := articleRouter(NewHandler(&stubQuerier{response: springLaunchResponse}))
	req := httptest.NewRequest(http.MethodGet, "/news/spring-launch", nil)
	req.Header.Set("Accept", "text/html;q=0.9, application/json")
	rec := serve(router, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
}

func TestHandlerRendersDocument(t *testing.T) {
	t.Parallel()

	q := &stubQuerier{response: springLaunchResponse}
	router := articleRouter(NewHandler(q, WithSiteName("Hydrogen")))

	rec := serve(router, httptest.NewRequest(http.MethodGet, "/fr-ca/news/spring-launch", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, cache.LongHeader, rec.Header().Get("Cache-Control"))
	require.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	require.Equal(t, "FR", q.vars["language"])

	doc := testutil.ParseHTML(t, rec.Body.Bytes())
	lang, _ := doc.Find("html").Attr("lang")
	require.Equal(t, "fr-CA", lang)
	require.Equal(t, "Spring launch | Journal", doc.Find("title").Text())
	require.Equal(t, 1, doc.Find("main#mainContent header[data-variant='blogPost'] h1").Length())
	require.Equal(t, "1 juin 2024 · Ada Lovelace", doc.Find("header span").Text())
	require.Equal(t, 1, doc.Find("link[href='/assets/styles/custom-font.css']").Length())
}

func TestHandlerNotFoundHasEmptyBody(t *testing.T) {
	t.Parallel()

	router := articleRouter(NewHandler(&stubQuerier{response: `{"blog":{"articleByHandle":null}}`}))

	for _, target := range []string{"/news/missing", "/news/missing?_data=routes"} {
		rec := serve(router, httptest.NewRequest(http.MethodGet, target, nil))
		require.Equal(t, http.StatusNotFound, rec.Code, target)
		require.Zero(t, rec.Body.Len(), target)
	}
}

func TestHandlerMissingParamIsInternalError(t *testing.T) {
	t.Parallel()

	q := &stubQuerier{response: springLaunchResponse}
	core, logs := observer.New(zap.DebugLevel)
	req := httptest.NewRequest(http.MethodGet, "/news/", nil)
	req = req.WithContext(requestctx.WithLogger(req.Context(), zap.New(core)))

	rec := serve(NewHandler(q), req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Zero(t, q.calls)
	require.Equal(t, 1, logs.FilterMessage("article route invariant failed").Len())

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "internal_server_error", body["error"])
}

func TestHandlerUpstreamFailureIsBadGateway(t *testing.T) {
	t.Parallel()

	router := articleRouter(NewHandler(&stubQuerier{err: errors.New("connection refused")}))
	rec := serve(router, httptest.NewRequest(http.MethodGet, "/news/spring-launch", nil))

	require.Equal(t, http.StatusBadGateway, rec.Code)
	require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "storefront_unavailable", body["error"])
}

func TestHandlerCancelledRequestWritesNothing(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	router := articleRouter(NewHandler(&stubQuerier{err: context.Canceled}))
	req := httptest.NewRequest(http.MethodGet, "/news/spring-launch", nil).WithContext(ctx)

	rec := serve(router, req)
	require.Zero(t, rec.Body.Len())
}

func TestWantsData(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		target string
		accept string
		want   bool
	}{
		"document":      {target: "/news/a", accept: "text/html", want: false},
		"data flag":     {target: "/news/a?_data=routes%2Fnews", want: true},
		"empty flag":    {target: "/news/a?_data", want: true},
		"accept json":   {target: "/news/a", accept: "application/json", want: true},
		"accept params": {target: "/news/a", accept: "text/html, Application/JSON; q=0.5", want: true},
	}
	for name, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, tc.target, nil)
		if tc.accept != "" {
			req.Header.Set("Accept", tc.accept)
		}
		require.Equal(t, tc.want, WantsData(req), name)
	}
}

func TestHandlerVariesOnAccept(t *testing.T) {
	t.Parallel()

	router := articleRouter(NewHandler(&stubQuerier{response: springLaunchResponse}))

	for _, accept := range []string{"text/html", "application/json"} {
		req := httptest.NewRequest(http.MethodGet, "/news/spring-launch", nil)
		req.Header.Set("Accept", accept)
		rec := serve(router, req)

		require.Equal(t, http.StatusOK, rec.Code, accept)
		require.Equal(t, cache.LongHeader, rec.Header().Get("Cache-Control"), accept)
		vary := rec.Header().Values("Vary")
		require.Contains(t, vary, "Accept", accept)
		require.Contains(t, vary, "Accept-Language", accept)
	}
}
