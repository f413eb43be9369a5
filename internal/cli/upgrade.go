package cli

import (
	"context"

	"github.com/spf13/cobra"
)

type upgradeOptions struct {
	AssumeYes bool
}

func newUpgradeCommand() *cobra.Command {
	opts := upgradeOptions{}
	cmd := &cobra.Command{
		Use:   "upgrade [title]...",
		Short: "Apply pending upgrades recorded by 'mmpm update'",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpgrade(cmd.Context(), cmd, args, opts)
		},
	}
	cmd.Flags().BoolVarP(&opts.AssumeYes, "yes", "y", false, "Assume yes for all prompts")
	return cmd
}

func runUpgrade(ctx context.Context, cmd *cobra.Command, titles []string, opts upgradeOptions) error {
	service, err := newAppService(cmd)
	if err != nil {
		return err
	}
	return service.Upgrade(ctx, titles, opts.AssumeYes)
}
