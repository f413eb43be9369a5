package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

type installOptions struct {
	AssumeYes bool
}

func newInstallCommand() *cobra.Command {
	opts := installOptions{}
	cmd := &cobra.Command{
		Use:   "install <title>...",
		Short: "Install packages from the catalog",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInstall(cmd.Context(), cmd, args, opts)
		},
	}
	cmd.Flags().BoolVarP(&opts.AssumeYes, "yes", "y", false, "Assume yes for all prompts")
	return cmd
}

func runInstall(ctx context.Context, cmd *cobra.Command, titles []string, opts installOptions) error {
	service, err := newAppService(cmd)
	if err != nil {
		return err
	}
	installed, err := service.Install(ctx, titles, opts.AssumeYes)
	if err != nil {
		return err
	}
	if installed {
		fmt.Println("Run 'mmpm dashboard restart' for the changes to take effect")
	}
	return nil
}
