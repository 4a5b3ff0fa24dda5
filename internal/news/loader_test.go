package news

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/wjsacken/k2Sci-Hydrogen/internal/cache"
	"github.com/wjsacken/k2Sci-Hydrogen/internal/i18n"
	"github.com/wjsacken/k2Sci-Hydrogen/internal/storefront"
)

var enUS = i18n.Locale{Language: "EN", Country: "US"}

type stubQuerier struct {
	calls    int
	query    string
	vars     map[string]any
	response string
	err      error
}

func (s *stubQuerier) Query(_ context.Context, query string, vars map[string]any, out any) error {
	s.calls++
	s.query = query
	s.vars = vars
	if s.err != nil {
		return s.err
	}
	return json.Unmarshal([]byte(s.response), out)
}

const springLaunchResponse = `{"blog":{"articleByHandle":{
  "title":"Spring launch",
  "contentHtml":"<p>Our spring line is here.</p>",
  "publishedAt":"2024-06-01T00:00:00Z",
  "author":{"name":"Ada Lovelace"},
  "image":{"id":"img-1","altText":"Shelves","url":"https://cdn.example.com/spring.jpg","width":1200,"height":800},
  "seo":{"description":"","title":""}
}}}`

func TestLoadMissingHandleFailsBeforeQuerying(t *testing.T) {
	t.Parallel()

	q := &stubQuerier{response: springLaunchResponse}
	for _, handle := range []string{"", "   "} {
		resp, err := Load(context.Background(), httptest.NewRequest(http.MethodGet, "/news/", nil), Params{JournalHandle: handle}, storefront.Context{Storefront: q, I18n: enUS})
		require.Nil(t, resp)
		var invariant *InvariantError
		require.True(t, errors.As(err, &invariant), "handle %q", handle)
		require.Equal(t, "invariant failed: Missing journal handle", err.Error())
	}
	require.Zero(t, q.calls)
}

func TestLoadNotFound(t *testing.T) {
	t.Parallel()

	for name, body := range map[string]string{
		"null article": `{"blog":{"articleByHandle":null}}`,
		"null blog":    `{"blog":null}`,
	} {
		q := &stubQuerier{response: body}
		resp, err := Load(context.Background(), httptest.NewRequest(http.MethodGet, "/news/missing", nil), Params{JournalHandle: "missing"}, storefront.Context{Storefront: q, I18n: enUS})
		require.Nil(t, resp, name)
		require.ErrorIs(t, err, ErrNotFound, name)
		require.Equal(t, 1, q.calls, name)
	}
}

func TestLoadArticle(t *testing.T) {
	t.Parallel()

	q := &stubQuerier{response: springLaunchResponse}
	req := httptest.NewRequest(http.MethodGet, "/news/spring-launch", nil)
	resp, err := Load(context.Background(), req, Params{JournalHandle: "spring-launch"}, storefront.Context{Storefront: q, I18n: enUS})
	require.NoError(t, err)

	require.Equal(t, ArticleQuery, q.query)
	require.Equal(t, map[string]any{"blogHandle": "News", "articleHandle": "spring-launch", "language": "EN"}, q.vars)

	require.Equal(t, cache.LongHeader, resp.Header.Get("Cache-Control"))
	require.Equal(t, "June 1, 2024", resp.Data.FormattedDate)
	require.Equal(t, "Spring launch", resp.Data.Article.Title)
	require.True(t, resp.Data.Article.PublishedAt.Equal(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)))
	require.Equal(t, "Spring launch", resp.Data.SEO.Title)
	require.Equal(t, "http://example.com/news/spring-launch", resp.Data.SEO.URL)
	require.Equal(t, "Our spring line is here.", resp.Data.SEO.Description)
}

func TestLoadFormatsDateForLocale(t *testing.T) {
	t.Parallel()

	q := &stubQuerier{response: springLaunchResponse}
	resp, err := Load(context.Background(), httptest.NewRequest(http.MethodGet, "/en-gb/news/spring-launch", nil), Params{JournalHandle: "spring-launch"}, storefront.Context{
		Storefront: q,
		I18n:       i18n.Locale{Language: "EN", Country: "GB", PathPrefix: "/en-gb"},
	})
	require.NoError(t, err)
	require.Equal(t, "1 June 2024", resp.Data.FormattedDate)
}

func TestLoadWrapsUpstreamErrors(t *testing.T) {
	t.Parallel()

	upstream := &storefront.GraphQLError{Operation: "ArticleDetails", Messages: []string{"throttled"}}
	q := &stubQuerier{err: upstream}
	_, err := Load(context.Background(), httptest.NewRequest(http.MethodGet, "/news/x", nil), Params{JournalHandle: "x"}, storefront.Context{Storefront: q, I18n: enUS})

	require.Error(t, err)
	require.NotErrorIs(t, err, ErrNotFound)
	var gqlErr *storefront.GraphQLError
	require.True(t, errors.As(err, &gqlErr))
}

func TestLoadRequiresQuerier(t *testing.T) {
	t.Parallel()
	_, err := Load(context.Background(), httptest.NewRequest(http.MethodGet, "/news/x", nil), Params{JournalHandle: "x"}, storefront.Context{I18n: enUS})
	require.Error(t, err)
}

func TestRequestURL(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/news/spring-launch?_data=routes%2Fnews&utm=mail", nil)
	req.Host = "shop.example.com"
	req.Header.Set("X-Forwarded-Proto", "https")
	require.Equal(t, "https://shop.example.com/news/spring-launch?utm=mail", RequestURL(req))

	require.Empty(t, RequestURL(nil))
}
