package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"mmpm/internal/types"
)

func newUpdateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "update",
		Short: "Check installed packages, the dashboard, and the tool for updates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runUpdate(cmd.Context(), cmd)
		},
	}
}

func runUpdate(ctx context.Context, cmd *cobra.Command) error {
	service, err := newAppService(cmd)
	if err != nil {
		return err
	}
	report, err := service.CheckForUpdates(ctx)
	if err != nil {
		return err
	}

	if !report.Available() {
		fmt.Println("All packages are up to date")
		return nil
	}
	for _, pkg := range report.Packages {
		fmt.Printf("An upgrade is available for %s\n", color.GreenString(pkg.Title))
	}
	if report.App {
		fmt.Printf("An upgrade is available for %s\n", color.GreenString(types.LedgerAppKey))
	}
	if report.Tool {
		fmt.Printf("An upgrade is available for %s\n", color.GreenString(types.LedgerToolKey))
	}
	fmt.Println("Run 'mmpm upgrade' to install the upgrades")
	return nil
}
