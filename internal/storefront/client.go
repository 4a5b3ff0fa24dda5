package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/wjsacken/k2Sci-Hydrogen/internal/platform/requestctx"
)

const (
	accessTokenHeader = "X-Shopify-Storefront-Access-Token"
	defaultTimeout    = 5 * time.Second
	maxResponseBytes  = 4 << 20
)

var tracer = otel.Tracer("github.com/wjsacken/k2Sci-Hydrogen/internal/storefront")

// Client queries the storefront GraphQL endpoint over HTTP.
type Client struct {
	endpoint string
	token    string
	http     *http.Client
}

// ClientOption customises Client construction.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// NewClient builds a client for https://<domain>/api/<version>/graphql.json. A domain that
// already carries a scheme is used as is.
func NewClient(domain, version, token string, opts ...ClientOption) (*Client, error) {
	domain = strings.TrimRight(strings.TrimSpace(domain), "/")
	if domain == "" {
		return nil, errors.New("storefront: domain is required")
	}
	version = strings.Trim(strings.TrimSpace(version), "/")
	if version == "" {
		return nil, errors.New("storefront: api version is required")
	}
	if !strings.HasPrefix(domain, "http://") && !strings.HasPrefix(domain, "https://") {
		domain = "https://" + domain
	}

	c := &Client{
		endpoint: domain + "/api/" + version + "/graphql.json",
		token:    strings.TrimSpace(token),
		http:     &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Endpoint returns the GraphQL URL the client posts to.
func (c *Client) Endpoint() string { return c.endpoint }

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// Query posts the operation and decodes the response data into out.
func (c *Client) Query(ctx context.Context, query string, vars map[string]any, out any) (err error) {
	op := OperationName(query)
	if op == "" {
		op = "anonymous"
	}

	ctx, span := tracer.Start(ctx, "storefront "+op, trace.WithSpanKind(trace.SpanKindClient))
	span.SetAttributes(attribute.String("graphql.operation.name", op))
	start := time.Now()
	logger := requestctx.Logger(ctx).With(zap.String("operation", op))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "storefront query failed")
			logger.Warn("storefront query failed", zap.Duration("latency", time.Since(start)), zap.Error(err))
		} else {
			logger.Debug("storefront query", zap.Duration("latency", time.Since(start)))
		}
		span.End()
	}()

	body, err := json.Marshal(graphQLRequest{Query: query, Variables: vars})
	if err != nil {
		return fmt.Errorf("storefront: encode %s: %w", op, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("storefront: build %s: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set(accessTokenHeader, c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("storefront: %s: %w", op, err)
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return &StatusError{Operation: op, StatusCode: resp.StatusCode}
	}

	var payload graphQLResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&payload); err != nil {
		return fmt.Errorf("storefront: decode %s: %w", op, err)
	}
	if len(payload.Errors) > 0 {
		messages := make([]string, 0, len(payload.Errors))
		for _, e := range payload.Errors {
			messages = append(messages, e.Message)
		}
		return &GraphQLError{Operation: op, Messages: messages}
	}
	if out == nil || len(payload.Data) == 0 || string(payload.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(payload.Data, out); err != nil {
		return fmt.Errorf("storefront: decode %s data: %w", op, err)
	}
	return nil
}
