// Package storefront talks to the commerce platform's GraphQL storefront API, or to a local
// fixture directory that answers the same operations.
package storefront

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/wjsacken/k2Sci-Hydrogen/internal/i18n"
)

// Querier runs a GraphQL operation and decodes its data object into out.
type Querier interface {
	Query(ctx context.Context, query string, vars map[string]any, out any) error
}

// QuerierFunc adapts a function to Querier.
type QuerierFunc func(ctx context.Context, query string, vars map[string]any, out any) error

// Query calls f.
func (f QuerierFunc) Query(ctx context.Context, query string, vars map[string]any, out any) error {
	return f(ctx, query, vars, out)
}

// Context is the per-request load context handed to loaders.
type Context struct {
	Storefront Querier
	I18n       i18n.Locale
}

// GraphQLError is returned when the API answers with a non-empty errors array.
type GraphQLError struct {
	Operation string
	Messages  []string
}

func (e *GraphQLError) Error() string {
	return fmt.Sprintf("storefront: %s: %s", e.Operation, strings.Join(e.Messages, "; "))
}

// StatusError is returned for non-2xx HTTP responses.
type StatusError struct {
	Operation  string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("storefront: %s: unexpected status %d", e.Operation, e.StatusCode)
}

var operationPattern = regexp.MustCompile(`(?m)^\s*(?:query|mutation)\s+([A-Za-z_][A-Za-z0-9_]*)`)

// OperationName extracts the name of the first named operation in query.
func OperationName(query string) string {
	m := operationPattern.FindStringSubmatch(query)
	if len(m) < 2 {
		return ""
	}
	return m[1]
}
