package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newModulesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "modules",
		Short: "Inspect and toggle modules on the running dashboard",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the modules the dashboard has loaded",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runModulesList(cmd.Context(), cmd)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "hide <name>...",
		Short: "Hide modules on the dashboard",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := newAppService(cmd)
			if err != nil {
				return err
			}
			return service.HideModules(cmd.Context(), args)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "show <name>...",
		Short: "Reveal hidden modules on the dashboard",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := newAppService(cmd)
			if err != nil {
				return err
			}
			return service.ShowModules(cmd.Context(), args)
		},
	})
	return cmd
}

func runModulesList(ctx context.Context, cmd *cobra.Command) error {
	service, err := newAppService(cmd)
	if err != nil {
		return err
	}
	modules, err := service.ActiveModules(ctx)
	if err != nil {
		return err
	}
	for _, module := range modules {
		state := "visible"
		if module.Hidden {
			state = "hidden"
		}
		fmt.Printf("%s [%s]\n", color.GreenString(module.Name), state)
	}
	return nil
}
