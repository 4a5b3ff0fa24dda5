package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wjsacken/k2Sci-Hydrogen/internal/i18n"
)

// LangParam is the optional route parameter carrying a locale prefix such as "fr-ca".
const LangParam = "lang"

// Locale resolves the request locale from the {lang} route parameter or Accept-Language and
// stores it in context. A {lang} segment that is not a supported locale is answered with 404.
func Locale(resolver *i18n.Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			locale, ok := resolver.FromRequest(r, chi.URLParam(r, LangParam))
			if !ok {
				http.NotFound(w, r)
				return
			}
			w.Header().Add("Vary", "Accept-Language")
			w.Header().Set("Content-Language", locale.Tag())
			next.ServeHTTP(w, r.WithContext(WithLocale(r.Context(), locale)))
		})
	}
}
