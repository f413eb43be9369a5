package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <title>...",
		Short: "Show the full catalog entry for the named packages",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd.Context(), cmd, args)
		},
	}
}

func runShow(ctx context.Context, cmd *cobra.Command, titles []string) error {
	service, err := newAppService(cmd)
	if err != nil {
		return err
	}
	matches, err := service.ShowPackages(ctx, titles)
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		fmt.Println(color.RedString("No packages match the given titles"))
		return nil
	}
	for _, pkg := range matches {
		printPackage(pkg)
	}
	return nil
}
