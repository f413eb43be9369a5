package adapters

import (
	"bytes"
	"context"
	"errors"
	"os/exec"

	"mmpm/internal/ports"
	"mmpm/internal/types"
)

// ExecRunner runs subprocesses with os/exec. Each invocation gets an explicit
// working directory; the process-wide working directory is never touched.
type ExecRunner struct{}

func NewExecRunner() ExecRunner {
	return ExecRunner{}
}

func (ExecRunner) Run(ctx context.Context, dir string, name string, args ...string) (types.CommandResult, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := types.CommandResult{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return result, ctxErr
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.Code = exitErr.ExitCode()
			return result, nil
		}
		return result, err
	}
	return result, nil
}

var _ ports.CommandRunner = ExecRunner{}
