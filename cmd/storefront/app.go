package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/wjsacken/k2Sci-Hydrogen/internal/news"
	"github.com/wjsacken/k2Sci-Hydrogen/internal/platform/config"
	"github.com/wjsacken/k2Sci-Hydrogen/internal/platform/observability"
	"github.com/wjsacken/k2Sci-Hydrogen/internal/platform/secrets"
	"github.com/wjsacken/k2Sci-Hydrogen/internal/storefront"
)

// app holds the process-wide dependencies shared by every command.
type app struct {
	cfg     config.Config
	logger  *zap.Logger
	source  storefront.Querier
	fetcher *secrets.Fetcher
}

func bootstrap(ctx context.Context, flags *rootFlags) (*app, error) {
	envOpts := []config.Option{config.WithEnvFile(flags.envFile)}

	envValues, err := config.EnvironmentValues(envOpts...)
	if err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}

	baseLogger, err := observability.NewLogger(envValues["LOG_LEVEL"])
	if err != nil {
		return nil, fmt.Errorf("initialise logger: %w", err)
	}
	logger := baseLogger.Named("storefront")

	fetcher, err := newSecretFetcher(ctx, logger, envValues)
	if err != nil {
		_ = baseLogger.Sync()
		return nil, fmt.Errorf("initialise secret fetcher: %w", err)
	}

	cfg, err := config.Load(ctx, append(envOpts, config.WithSecretResolver(fetcher))...)
	if err != nil {
		var validation *config.ValidationError
		if errors.As(err, &validation) {
			logger.Error("invalid configuration", zap.Strings("fields", validation.Fields()))
		}
		_ = fetcher.Close()
		_ = baseLogger.Sync()
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	source, err := newSource(cfg.Storefront)
	if err != nil {
		_ = fetcher.Close()
		_ = baseLogger.Sync()
		return nil, err
	}
	if cfg.Storefront.UsesFixtures() {
		logger.Info("serving content from fixtures", zap.String("dir", cfg.Storefront.FixtureDir))
	} else {
		logger.Info("serving content from storefront api", zap.String("domain", cfg.Storefront.Domain), zap.String("version", cfg.Storefront.APIVersion))
	}

	return &app{cfg: cfg, logger: logger, source: source, fetcher: fetcher}, nil
}

func (a *app) Close() {
	if err := a.fetcher.Close(); err != nil {
		a.logger.Warn("secret fetcher close error", zap.Error(err))
	}
	_ = a.logger.Sync()
}

// contentPolicy maps the configured article policy onto a sanitizer. Trusted content gets none.
func (a *app) contentPolicy() *bluemonday.Policy {
	if a.cfg.Content.ArticlePolicy == config.ArticlePolicyUGC {
		return news.UGCPolicy()
	}
	return nil
}

func newSource(cfg config.StorefrontConfig) (storefront.Querier, error) {
	if cfg.UsesFixtures() {
		return storefront.NewLocal(cfg.FixtureDir), nil
	}
	client, err := storefront.NewClient(cfg.Domain, cfg.APIVersion, cfg.AccessToken, storefront.WithTimeout(cfg.Timeout))
	if err != nil {
		return nil, fmt.Errorf("initialise storefront client: %w", err)
	}
	return client, nil
}

func newSecretFetcher(ctx context.Context, logger *zap.Logger, env map[string]string) (*secrets.Fetcher, error) {
	lookup := func(key string) string {
		return strings.TrimSpace(env[key])
	}

	fallbackPath := lookup("STOREFRONT_SECRETS_FALLBACK_FILE")
	if fallbackPath == "" {
		fallbackPath = ".secrets.local"
	}

	opts := []secrets.Option{
		secrets.WithLogger(logger.Named("secrets")),
		secrets.WithFallbackFile(fallbackPath),
	}
	if project := lookup("STOREFRONT_SECRETS_PROJECT"); project != "" {
		opts = append(opts, secrets.WithProject(project))
	}
	if credentialsFile := lookup("STOREFRONT_SECRETS_CREDENTIALS_FILE"); credentialsFile != "" {
		opts = append(opts, secrets.WithClientOptions(option.WithCredentialsFile(credentialsFile)))
	}
	return secrets.NewFetcher(ctx, opts...)
}
