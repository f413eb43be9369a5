package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

type removeOptions struct {
	AssumeYes bool
}

func newRemoveCommand() *cobra.Command {
	opts := removeOptions{}
	cmd := &cobra.Command{
		Use:   "remove <title>...",
		Short: "Remove installed packages",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemove(cmd.Context(), cmd, args, opts)
		},
	}
	cmd.Flags().BoolVarP(&opts.AssumeYes, "yes", "y", false, "Assume yes for all prompts")
	return cmd
}

func runRemove(ctx context.Context, cmd *cobra.Command, titles []string, opts removeOptions) error {
	service, err := newAppService(cmd)
	if err != nil {
		return err
	}
	removed, err := service.Remove(ctx, titles, opts.AssumeYes)
	if err != nil {
		return err
	}
	if removed {
		fmt.Println("Run 'mmpm dashboard restart' for the changes to take effect")
	}
	return nil
}
