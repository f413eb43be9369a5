package cli

import (
	"context"

	"github.com/spf13/cobra"

	"mmpm/internal/types"
)

type externalAddOptions struct {
	Title       string
	Author      string
	Repository  string
	Description string
}

func newExternalCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "external",
		Short: "Manage user-registered packages outside the community catalog",
	}
	cmd.AddCommand(newExternalAddCommand())
	cmd.AddCommand(newExternalRemoveCommand())
	return cmd
}

func newExternalAddCommand() *cobra.Command {
	opts := externalAddOptions{}
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register an external package; missing fields are prompted for",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runExternalAdd(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Title, "title", "", "Package title (derived from the repository URL when empty)")
	cmd.Flags().StringVar(&opts.Author, "author", "", "Package author")
	cmd.Flags().StringVar(&opts.Repository, "repo", "", "Repository URL")
	cmd.Flags().StringVar(&opts.Description, "desc", "", "Package description")
	return cmd
}

func runExternalAdd(ctx context.Context, cmd *cobra.Command, opts externalAddOptions) error {
	service, err := newAppService(cmd)
	if err != nil {
		return err
	}
	_, err = service.AddExternalPackage(ctx, types.PackageRecord{
		Title:       opts.Title,
		Author:      opts.Author,
		Repository:  opts.Repository,
		Description: opts.Description,
	})
	return err
}

func newExternalRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <title>...",
		Short: "Unregister external packages",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := newAppService(cmd)
			if err != nil {
				return err
			}
			_, err = service.RemoveExternalPackages(cmd.Context(), args)
			return err
		},
	}
}
