package cli

import (
	"context"

	"github.com/spf13/cobra"
)

func newDashboardCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Control the dashboard process",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "start",
		Short: "Start the dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDashboard(cmd.Context(), cmd, "start")
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "stop",
		Short: "Stop the dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDashboard(cmd.Context(), cmd, "stop")
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "restart",
		Short: "Restart the dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDashboard(cmd.Context(), cmd, "restart")
		},
	})
	return cmd
}

func runDashboard(ctx context.Context, cmd *cobra.Command, action string) error {
	service, err := newAppService(cmd)
	if err != nil {
		return err
	}
	switch action {
	case "start":
		return service.StartDashboard(ctx)
	case "stop":
		return service.StopDashboard(ctx)
	default:
		return service.RestartDashboard(ctx)
	}
}
