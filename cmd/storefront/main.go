package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type rootFlags struct {
	envFile string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:   "storefront",
		Short: "Server-rendered storefront: featured collections and journal articles",
		Long: `storefront renders the home page and journal articles from the storefront
GraphQL API, or from a local fixture directory when STOREFRONT_API_DOMAIN is unset.

Run without a subcommand to start the HTTP server.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), flags)
		},
	}
	root.PersistentFlags().StringVar(&flags.envFile, "env-file", ".env", "dotenv file read before the process environment")

	root.AddCommand(newServeCmd(flags), newArticleCmd(flags))
	return root
}
