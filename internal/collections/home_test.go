package collections

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/wjsacken/k2Sci-Hydrogen/internal/i18n"
	"github.com/wjsacken/k2Sci-Hydrogen/internal/middleware"
	"github.com/wjsacken/k2Sci-Hydrogen/internal/platform/requestctx"
	"github.com/wjsacken/k2Sci-Hydrogen/internal/storefront"
	"github.com/wjsacken/k2Sci-Hydrogen/internal/testutil"
)

const featuredFixture = `
- id: gid://shopify/Collection/1
  handle: freestyle
  title: Freestyle
  image:
    url: https://cdn.example.com/freestyle.jpg
    alt_text: Freestyle skis
    width: 1200
    height: 800
- id: gid://shopify/Collection/2
  handle: archive
  title: Archive
- id: gid://shopify/Collection/3
  handle: backcountry
  title: Backcountry
  image:
    url: https://cdn.example.com/backcountry.jpg
    width: 1200
    height: 800
`

func fixtureSource(t *testing.T) *storefront.Local {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "collections.yaml"), []byte(featuredFixture), 0o644))
	return storefront.NewLocal(dir)
}

func homeRouter(h http.Handler) http.Handler {
	r := chi.NewRouter()
	mw := middleware.Locale(i18n.NewResolver("EN", "US"))
	r.With(mw).Get("/", h.ServeHTTP)
	r.With(mw).Get("/{lang}/", h.ServeHTTP)
	return r
}

func TestLoadFeaturedSendsLocaleAndLimit(t *testing.T) {
	t.Parallel()

	var gotVars map[string]any
	q := storefront.QuerierFunc(func(_ context.Context, query string, vars map[string]any, out any) error {
		require.Equal(t, "FeaturedCollections", storefront.OperationName(query))
		gotVars = vars
		return json.Unmarshal([]byte(`{"collections":{"nodes":[{"id":"1","handle":"a","title":"A"}]}}`), out)
	})

	got, err := LoadFeatured(context.Background(), storefront.Context{Storefront: q, I18n: i18n.Locale{Language: "FR", Country: "CA"}})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, map[string]any{"country": "CA", "language": "FR", "first": FeaturedLimit}, gotVars)
}

func TestLoadFeaturedToleratesMissingConnection(t *testing.T) {
	t.Parallel()

	q := storefront.QuerierFunc(func(_ context.Context, _ string, _ map[string]any, out any) error {
		return json.Unmarshal([]byte(`{"collections":null}`), out)
	})
	got, err := LoadFeatured(context.Background(), storefront.Context{Storefront: q})
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestHomeRendersFeaturedGrid(t *testing.T) {
	t.Parallel()

	router := homeRouter(NewHandler(fixtureSource(t), WithSiteName("Hydrogen")))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "public, max-age=1, stale-while-revalidate=9", rec.Header().Get("Cache-Control"))

	doc := testutil.ParseHTML(t, rec.Body.Bytes())
	require.Equal(t, "Hydrogen", doc.Find("title").Text())
	grid := doc.Find("[data-grid-items]")
	require.Equal(t, 1, grid.Length())
	items, _ := grid.Attr("data-grid-items")
	require.Equal(t, "2", items)

	var hrefs []string
	grid.Find("a").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		hrefs = append(hrefs, href)
	})
	require.Equal(t, []string{"/collections/freestyle", "/collections/backcountry"}, hrefs)
}

func TestHomeWithoutCollectionsOmitsGrid(t *testing.T) {
	t.Parallel()

	router := homeRouter(NewHandler(storefront.NewLocal(t.TempDir())))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ja-jp/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	doc := testutil.ParseHTML(t, rec.Body.Bytes())
	lang, _ := doc.Find("html").Attr("lang")
	require.Equal(t, "ja-JP", lang)
	require.Zero(t, doc.Find("[data-grid-items]").Length())
	require.Equal(t, 1, doc.Find("main#mainContent").Length())
}

func TestHomeDegradesWhenStorefrontFails(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.DebugLevel)
	q := storefront.QuerierFunc(func(context.Context, string, map[string]any, any) error {
		return errors.New("upstream down")
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(requestctx.WithLogger(req.Context(), zap.New(core)))
	rec := httptest.NewRecorder()
	homeRouter(NewHandler(q)).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, logs.FilterMessage("featured collections unavailable").Len())
	require.Zero(t, testutil.ParseHTML(t, rec.Body.Bytes()).Find("[data-grid-items]").Length())
}

func TestHomeCustomTitle(t *testing.T) {
	t.Parallel()

	router := homeRouter(NewHandler(fixtureSource(t), WithTitle("Shop the season")))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	doc := testutil.ParseHTML(t, rec.Body.Bytes())
	require.Equal(t, "Shop the season", doc.Find("section > h2").Text())
}
