package middleware

import (
	"context"

	"github.com/wjsacken/k2Sci-Hydrogen/internal/i18n"
)

// context keys are unexported to avoid collisions
type ctxKey string

const ctxKeyLocale ctxKey = "locale"

// WithLocale stores the resolved locale in context.
func WithLocale(ctx context.Context, l i18n.Locale) context.Context {
	return context.WithValue(ctx, ctxKeyLocale, l)
}

// LocaleFromContext returns the locale resolved for the request, if any.
func LocaleFromContext(ctx context.Context) (i18n.Locale, bool) {
	l, ok := ctx.Value(ctxKeyLocale).(i18n.Locale)
	return l, ok
}
