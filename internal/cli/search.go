package cli

import (
	"context"

	"github.com/spf13/cobra"

	"mmpm/internal/core"
)

type searchOptions struct {
	CaseSensitive bool
	TitleOnly     bool
}

func newSearchCommand() *cobra.Command {
	opts := searchOptions{}
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the catalog by title, author, description, or category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd.Context(), cmd, args[0], opts)
		},
	}
	cmd.Flags().BoolVarP(&opts.CaseSensitive, "case-sensitive", "s", false, "Match case-sensitively")
	cmd.Flags().BoolVarP(&opts.TitleOnly, "title-only", "t", false, "Match exact titles only")
	return cmd
}

func runSearch(ctx context.Context, cmd *cobra.Command, query string, opts searchOptions) error {
	service, err := newAppService(cmd)
	if err != nil {
		return err
	}
	results, err := service.SearchCatalog(ctx, query, core.SearchOptions{
		CaseSensitive: opts.CaseSensitive,
		TitleOnly:     opts.TitleOnly,
	})
	if err != nil {
		return err
	}
	printCatalog(results, false)
	return nil
}
