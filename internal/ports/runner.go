package ports

import (
	"context"

	"mmpm/internal/types"
)

// CommandRunner executes one subprocess to completion in the given working
// directory. A non-nil error means the command could not be started or was
// cancelled; a command that ran and exited non-zero is reported through the
// result, not the error.
type CommandRunner interface {
	Run(ctx context.Context, dir string, name string, args ...string) (types.CommandResult, error)
}
