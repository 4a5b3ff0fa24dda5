package config

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultEnvFile         = ".env"
	defaultPort            = "8080"
	defaultReadTimeout     = 15 * time.Second
	defaultWriteTimeout    = 15 * time.Second
	defaultIdleTimeout     = 60 * time.Second
	defaultRequestTimeout  = 30 * time.Second
	defaultEnvironment     = "local"
	defaultAPIVersion      = "2023-04"
	defaultAPITimeout      = 5 * time.Second
	defaultFixtureDir      = "fixtures"
	defaultLanguage        = "EN"
	defaultCountry         = "US"
	defaultAssetsDir       = "public/assets"
	defaultSiteName        = "Storefront"
	defaultSecretsFallback = ".secrets.local"
	defaultLogLevel        = "info"

	// ArticlePolicyTrusted injects article HTML exactly as the content API returns it.
	ArticlePolicyTrusted = "trusted"
	// ArticlePolicyUGC runs article HTML through a user-generated-content policy before rendering.
	ArticlePolicyUGC = "ugc"
)

// Config captures all runtime configuration organised by concern.
type Config struct {
	Environment string
	Server      ServerConfig
	Storefront  StorefrontConfig
	Locale      LocaleConfig
	Content     ContentConfig
	Assets      AssetsConfig
	Site        SiteConfig
	Secrets     SecretsConfig
	Log         LogConfig
}

// ServerConfig configures HTTP server parameters.
type ServerConfig struct {
	Port           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	RequestTimeout time.Duration
}

// StorefrontConfig locates the GraphQL storefront API, or a local fixture directory when no domain is set.
type StorefrontConfig struct {
	Domain      string
	APIVersion  string
	AccessToken string
	Timeout     time.Duration
	FixtureDir  string
}

// UsesFixtures reports whether content is served from the local fixture directory.
func (s StorefrontConfig) UsesFixtures() bool {
	return strings.TrimSpace(s.Domain) == ""
}

// LocaleConfig holds the locale used when a request carries no usable preference.
type LocaleConfig struct {
	DefaultLanguage string
	DefaultCountry  string
}

// ContentConfig controls how article bodies cross into rendered pages.
type ContentConfig struct {
	ArticlePolicy string
}

// AssetsConfig points at the static asset directory.
type AssetsConfig struct {
	Dir string
}

// SiteConfig carries presentational settings shared by every page.
type SiteConfig struct {
	Name string
}

// SecretsConfig configures Secret Manager lookups.
type SecretsConfig struct {
	ProjectID    string
	FallbackFile string
}

// LogConfig configures the structured logger.
type LogConfig struct {
	Level string
}

// SecretResolver resolves references to external secrets (e.g. Secret Manager URIs).
type SecretResolver interface {
	ResolveSecret(ctx context.Context, ref string) (string, error)
}

// SecretResolverFunc adapts ordinary functions to SecretResolver.
type SecretResolverFunc func(context.Context, string) (string, error)

// ResolveSecret resolves the secret using the wrapped function.
func (f SecretResolverFunc) ResolveSecret(ctx context.Context, ref string) (string, error) {
	return f(ctx, ref)
}

// ValidationError is returned when required configuration fields are missing or invalid.
type ValidationError struct {
	fields []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed: missing or invalid fields [%s]", strings.Join(e.fields, ", "))
}

// Fields returns a copy of the missing/invalid field list.
func (e *ValidationError) Fields() []string {
	out := make([]string, len(e.fields))
	copy(out, e.fields)
	return out
}

// SecretError describes failures while resolving a secret reference.
type SecretError struct {
	Ref string
	Err error
}

// Error implements the error interface.
func (e *SecretError) Error() string {
	return fmt.Sprintf("secret resolution failed for ref %s: %v", redactSecretName(e.Ref), e.Err)
}

// Unwrap exposes the underlying error.
func (e *SecretError) Unwrap() error { return e.Err }

var errSecretResolverNotConfigured = errors.New("secret resolver not configured")

// Option customises Load behaviour.
type Option func(*loaderOptions)

type loaderOptions struct {
	envFile      string
	envMap       map[string]string
	useSystemEnv bool
	secret       SecretResolver
}

// WithEnvFile overrides the .env file path used for local overrides.
func WithEnvFile(path string) Option {
	return func(o *loaderOptions) {
		o.envFile = path
	}
}

// WithEnvMap injects an explicit key/value map for environment lookups. Values in the map
// take precedence over system environment variables.
func WithEnvMap(values map[string]string) Option {
	return func(o *loaderOptions) {
		o.envMap = values
	}
}

// WithoutSystemEnv disables reading from os.Getenv, relying only on provided maps and .env files.
func WithoutSystemEnv() Option {
	return func(o *loaderOptions) {
		o.useSystemEnv = false
	}
}

// WithSecretResolver sets a custom secret resolver used for secret:// and sm:// references.
func WithSecretResolver(resolver SecretResolver) Option {
	return func(o *loaderOptions) {
		o.secret = resolver
	}
}

// EnvironmentValues returns the effective key/value environment map after applying the same
// precedence rules as Load (dotenv < OS env < explicit env map). Callers use it to initialise
// dependencies, such as the secret fetcher, before invoking Load.
func EnvironmentValues(opts ...Option) (map[string]string, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	dotEnvValues, err := loadDotEnv(options.envFile)
	if err != nil {
		return nil, err
	}

	values := make(map[string]string, len(dotEnvValues))
	for key, value := range dotEnvValues {
		values[key] = value
	}
	if options.useSystemEnv {
		for _, entry := range os.Environ() {
			key, value, ok := strings.Cut(entry, "=")
			if !ok || strings.TrimSpace(key) == "" {
				continue
			}
			values[strings.TrimSpace(key)] = value
		}
	}
	for key, value := range options.envMap {
		values[key] = value
	}
	return values, nil
}

// Load assembles the application configuration by combining defaults, .env overrides,
// environment variables, and optional secret manager lookups.
func Load(ctx context.Context, opts ...Option) (Config, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	dotEnvValues, err := loadDotEnv(options.envFile)
	if err != nil {
		return Config{}, err
	}

	lookup := func(key string) (string, bool) {
		if options.envMap != nil {
			if value, ok := options.envMap[key]; ok {
				return value, true
			}
		}
		if options.useSystemEnv {
			if value, ok := os.LookupEnv(key); ok {
				return value, true
			}
		}
		if value, ok := dotEnvValues[key]; ok {
			return value, true
		}
		return "", false
	}

	cfg := Config{
		Environment: strings.ToLower(stringWithDefault(lookup, "STOREFRONT_ENV", defaultEnvironment)),
		Server: ServerConfig{
			// Cloud Run injects PORT; an explicit STOREFRONT_PORT wins.
			Port:           stringWithDefault(lookup, "STOREFRONT_PORT", stringWithDefault(lookup, "PORT", defaultPort)),
			ReadTimeout:    durationWithDefault(lookup, "STOREFRONT_READ_TIMEOUT", defaultReadTimeout),
			WriteTimeout:   durationWithDefault(lookup, "STOREFRONT_WRITE_TIMEOUT", defaultWriteTimeout),
			IdleTimeout:    durationWithDefault(lookup, "STOREFRONT_IDLE_TIMEOUT", defaultIdleTimeout),
			RequestTimeout: durationWithDefault(lookup, "STOREFRONT_REQUEST_TIMEOUT", defaultRequestTimeout),
		},
		Storefront: StorefrontConfig{
			Domain:      strings.TrimSpace(stringWithDefault(lookup, "STOREFRONT_API_DOMAIN", "")),
			APIVersion:  stringWithDefault(lookup, "STOREFRONT_API_VERSION", defaultAPIVersion),
			AccessToken: stringWithDefault(lookup, "STOREFRONT_API_TOKEN", ""),
			Timeout:     durationWithDefault(lookup, "STOREFRONT_API_TIMEOUT", defaultAPITimeout),
			FixtureDir:  stringWithDefault(lookup, "STOREFRONT_FIXTURE_DIR", defaultFixtureDir),
		},
		Locale: LocaleConfig{
			DefaultLanguage: strings.ToUpper(stringWithDefault(lookup, "STOREFRONT_DEFAULT_LANGUAGE", defaultLanguage)),
			DefaultCountry:  strings.ToUpper(stringWithDefault(lookup, "STOREFRONT_DEFAULT_COUNTRY", defaultCountry)),
		},
		Content: ContentConfig{
			ArticlePolicy: strings.ToLower(stringWithDefault(lookup, "STOREFRONT_ARTICLE_SANITIZE", ArticlePolicyTrusted)),
		},
		Assets: AssetsConfig{
			Dir: stringWithDefault(lookup, "STOREFRONT_ASSETS_DIR", defaultAssetsDir),
		},
		Site: SiteConfig{
			Name: stringWithDefault(lookup, "STOREFRONT_SITE_NAME", defaultSiteName),
		},
		Secrets: SecretsConfig{
			ProjectID:    stringWithDefault(lookup, "STOREFRONT_SECRETS_PROJECT", ""),
			FallbackFile: stringWithDefault(lookup, "STOREFRONT_SECRETS_FALLBACK_FILE", defaultSecretsFallback),
		},
		Log: LogConfig{
			Level: stringWithDefault(lookup, "LOG_LEVEL", defaultLogLevel),
		},
	}

	token, err := resolveSecret(ctx, cfg.Storefront.AccessToken, options.secret)
	if err != nil {
		return Config{}, err
	}
	cfg.Storefront.AccessToken = token

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func defaultOptions() loaderOptions {
	return loaderOptions{
		envFile:      defaultEnvFile,
		useSystemEnv: true,
		secret: SecretResolverFunc(func(ctx context.Context, ref string) (string, error) {
			return "", errSecretResolverNotConfigured
		}),
	}
}

func resolveSecret(ctx context.Context, value string, resolver SecretResolver) (string, error) {
	if value == "" || !isSecretReference(value) {
		return value, nil
	}
	normalized := normalizeSecretReference(value)
	if resolver == nil {
		return "", &SecretError{Ref: normalized, Err: errSecretResolverNotConfigured}
	}
	secret, err := resolver.ResolveSecret(ctx, normalized)
	if err != nil {
		return "", &SecretError{Ref: normalized, Err: err}
	}
	return strings.TrimSpace(secret), nil
}

func validateConfig(cfg Config) error {
	var missing []string

	if cfg.Server.Port == "" {
		missing = append(missing, "Server.Port")
	}
	if cfg.Storefront.UsesFixtures() && strings.TrimSpace(cfg.Storefront.FixtureDir) == "" {
		missing = append(missing, "Storefront.Domain|Storefront.FixtureDir")
	}
	if !cfg.Storefront.UsesFixtures() && strings.TrimSpace(cfg.Storefront.APIVersion) == "" {
		missing = append(missing, "Storefront.APIVersion")
	}
	if cfg.Storefront.Timeout <= 0 {
		missing = append(missing, "Storefront.Timeout")
	}
	if len(cfg.Locale.DefaultLanguage) < 2 {
		missing = append(missing, "Locale.DefaultLanguage")
	}
	if len(cfg.Locale.DefaultCountry) != 2 {
		missing = append(missing, "Locale.DefaultCountry")
	}
	switch cfg.Content.ArticlePolicy {
	case ArticlePolicyTrusted, ArticlePolicyUGC:
	default:
		missing = append(missing, "Content.ArticlePolicy")
	}
	if cfg.Server.RequestTimeout <= 0 {
		missing = append(missing, "Server.RequestTimeout")
	}

	if len(missing) > 0 {
		return &ValidationError{fields: missing}
	}
	return nil
}

func isSecretReference(value string) bool {
	trimmed := strings.TrimSpace(value)
	return strings.HasPrefix(trimmed, "secret://") || strings.HasPrefix(trimmed, "sm://")
}

func normalizeSecretReference(value string) string {
	trimmed := strings.TrimSpace(value)
	if strings.HasPrefix(trimmed, "sm://") {
		return "secret://" + strings.TrimPrefix(trimmed, "sm://")
	}
	return trimmed
}

func redactSecretName(name string) string {
	sum := sha256.Sum256([]byte(name))
	return hex.EncodeToString(sum[:8])
}

func loadDotEnv(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}
	if _, err := os.Stat(absPath); errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	values, err := godotenv.Read(absPath)
	if err != nil {
		return nil, fmt.Errorf("config: unable to read %s: %w", absPath, err)
	}
	return values, nil
}

func stringWithDefault(lookup func(string) (string, bool), key, fallback string) string {
	if value, ok := lookup(key); ok && value != "" {
		return value
	}
	return fallback
}

func durationWithDefault(lookup func(string) (string, bool), key string, fallback time.Duration) time.Duration {
	if value, ok := lookup(key); ok && value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		// bare integers are seconds
		if n, err := strconv.Atoi(value); err == nil {
			return time.Duration(n) * time.Second
		}
	}
	return fallback
}
