package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wjsacken/k2Sci-Hydrogen/internal/i18n"
	"github.com/wjsacken/k2Sci-Hydrogen/internal/news"
	"github.com/wjsacken/k2Sci-Hydrogen/internal/platform/observability"
	"github.com/wjsacken/k2Sci-Hydrogen/internal/storefront"
)

type articleFlags struct {
	locale  string
	baseURL string
}

func newArticleCmd(flags *rootFlags) *cobra.Command {
	af := &articleFlags{}
	cmd := &cobra.Command{
		Use:   "article <handle>",
		Short: "Run the article loader once and print its JSON",
		Long: `Loads one article from the "News" blog exactly as the article route does and
prints the loader data as JSON. Exits non-zero when the article does not exist.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			a, err := bootstrap(ctx, flags)
			if err != nil {
				return err
			}
			defer a.Close()
			ctx = observability.WithLogger(ctx, a.logger.Named("article"))

			resolver := i18n.NewResolver(a.cfg.Locale.DefaultLanguage, a.cfg.Locale.DefaultCountry)
			return printArticle(ctx, cmd.OutOrStdout(), a.source, resolver, args[0], *af)
		},
	}
	cmd.Flags().StringVar(&af.locale, "locale", "", "locale prefix such as en-us or fr-ca (default: configured locale)")
	cmd.Flags().StringVar(&af.baseURL, "base-url", "http://localhost:8080", "origin used for the canonical URL")
	return cmd
}

func printArticle(ctx context.Context, out io.Writer, source storefront.Querier, resolver *i18n.Resolver, handle string, af articleFlags) error {
	locale := resolver.Default()
	if af.locale != "" {
		l, ok := resolver.FromPrefix(strings.Trim(af.locale, "/"))
		if !ok {
			return fmt.Errorf("unsupported locale %q", af.locale)
		}
		locale = l
	}

	base, err := url.Parse(strings.TrimRight(af.baseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return fmt.Errorf("invalid --base-url %q", af.baseURL)
	}
	base.Path = locale.PathPrefix + "/news/" + url.PathEscape(handle)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base.String(), nil)
	if err != nil {
		return err
	}

	resp, err := news.Load(ctx, req, news.Params{JournalHandle: handle}, storefront.Context{Storefront: source, I18n: locale})
	if err != nil {
		if errors.Is(err, news.ErrNotFound) {
			return fmt.Errorf("article %q not found in blog %q", handle, news.BlogHandle)
		}
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(resp.Data)
}
