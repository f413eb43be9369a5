package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"mmpm/internal/app"
	"mmpm/internal/types"
)

type listOptions struct {
	Installed  bool
	Categories bool
	Upgradable bool
	TitleOnly  bool
}

func newListCommand() *cobra.Command {
	opts := listOptions{}
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog packages, installed packages, or categories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().BoolVarP(&opts.Installed, "installed", "i", false, "List only installed packages")
	cmd.Flags().BoolVarP(&opts.Categories, "categories", "c", false, "List categories and their package counts")
	cmd.Flags().BoolVarP(&opts.Upgradable, "upgradable", "u", false, "List pending upgrades recorded by 'mmpm update'")
	cmd.Flags().BoolVarP(&opts.TitleOnly, "title-only", "t", false, "Print titles only")
	return cmd
}

func runList(ctx context.Context, cmd *cobra.Command, opts listOptions) error {
	service, err := newAppService(cmd)
	if err != nil {
		return err
	}

	if opts.Upgradable {
		return printPendingUpgrades(service)
	}

	var catalog types.Catalog
	if opts.Installed {
		catalog, err = service.ListInstalled(ctx)
	} else {
		catalog, err = service.LoadCatalog(ctx, false)
	}
	if err != nil {
		return err
	}

	if opts.Categories {
		for _, category := range catalog.Categories {
			fmt.Printf("%s: %d\n", color.CyanString(category.Name), len(category.Packages))
		}
		return nil
	}
	printCatalog(catalog, opts.TitleOnly)
	return nil
}

func printPendingUpgrades(service app.Service) error {
	report, err := service.PendingUpgrades()
	if err != nil {
		return err
	}
	if !report.Available() {
		fmt.Println("All packages are up to date")
		return nil
	}
	for _, pkg := range report.Packages {
		fmt.Println(color.GreenString(pkg.Title))
	}
	if report.App {
		fmt.Println(color.GreenString(types.LedgerAppKey))
	}
	if report.Tool {
		fmt.Println(color.GreenString(types.LedgerToolKey))
	}
	return nil
}
