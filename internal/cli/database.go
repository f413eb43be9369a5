package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type databaseOptions struct {
	Refresh bool
	Details bool
}

func newDatabaseCommand() *cobra.Command {
	opts := databaseOptions{}
	cmd := &cobra.Command{
		Use:   "database",
		Short: "Refresh or inspect the package catalog snapshot",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDatabase(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().BoolVarP(&opts.Refresh, "refresh", "r", false, "Force a catalog refresh")
	cmd.Flags().BoolVarP(&opts.Details, "details", "d", false, "Also print per-category package counts")
	_ = viper.BindPFlag("refresh", cmd.Flags().Lookup("refresh"))
	return cmd
}

func runDatabase(ctx context.Context, cmd *cobra.Command, opts databaseOptions) error {
	service, err := newAppService(cmd)
	if err != nil {
		return err
	}

	refresh := resolveBool(cmd, opts.Refresh, "refresh", "refresh")
	if refresh {
		if _, err := service.LoadCatalog(ctx, true); err != nil {
			return err
		}
	}

	status, err := service.CatalogStatus()
	if err != nil {
		return err
	}
	fmt.Printf("Last updated: %s\n", status.CreatedAt.Format("2006-01-02 15:04:05"))
	expires := status.ExpiresAt.Format("2006-01-02 15:04:05")
	if status.Expired {
		expires += " (expired)"
	}
	fmt.Printf("Expires:      %s\n", expires)
	fmt.Printf("Categories:   %d\n", status.Categories)
	fmt.Printf("Packages:     %d\n", status.Packages)

	if opts.Details {
		catalog, err := service.LoadCatalog(ctx, false)
		if err != nil {
			return err
		}
		for _, category := range catalog.Categories {
			fmt.Printf("  %s: %d\n", category.Name, len(category.Packages))
		}
	}
	return nil
}
