package adapters

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/rs/zerolog/log"

	"mmpm/internal/ports"
	"mmpm/internal/shared"
	"mmpm/internal/types"
)

// DashboardController supervises the dashboard process. It prefers pm2 when
// a process name is configured and the binary exists, then docker-compose
// when a compose file is configured, and finally falls back to npm in the
// dashboard root.
type DashboardController struct {
	Env    types.Env
	Runner ports.CommandRunner

	// lookPath is swapped in tests.
	lookPath func(string) (string, error)
}

func NewDashboardController(env types.Env, runner ports.CommandRunner) *DashboardController {
	return &DashboardController{Env: env, Runner: runner, lookPath: exec.LookPath}
}

func (c *DashboardController) Start(ctx context.Context) error {
	if name, args, ok := c.supervisorCommand("start", "up", "-d"); ok {
		return c.runSupervisor(ctx, name, args)
	}
	log.Info().Msg("no supervisor available; starting the dashboard with npm")
	result, err := c.Runner.Run(ctx, c.Env.Root, "npm", "start")
	if err != nil {
		return err
	}
	if result.Failed() {
		return shared.CommandError(result.Code, result.Stderr)
	}
	return nil
}

func (c *DashboardController) Stop(ctx context.Context) error {
	if name, args, ok := c.supervisorCommand("stop", "stop"); ok {
		return c.runSupervisor(ctx, name, args)
	}
	// Without a supervisor the best that can be done is killing the
	// dashboard's processes directly.
	for _, process := range []string{"electron", "magicmirror"} {
		result, err := c.Runner.Run(ctx, c.Env.Root, "pkill", "-f", process)
		if err != nil {
			return err
		}
		// pkill exits 1 when nothing matched; that is not a failure here.
		if result.Code > 1 {
			return shared.CommandError(result.Code, result.Stderr)
		}
	}
	return nil
}

func (c *DashboardController) Restart(ctx context.Context) error {
	if name, args, ok := c.supervisorCommand("restart", "restart"); ok {
		return c.runSupervisor(ctx, name, args)
	}
	if err := c.Stop(ctx); err != nil {
		return err
	}
	return c.Start(ctx)
}

func (c *DashboardController) Running(ctx context.Context) bool {
	for _, process := range []string{"electron", "magicmirror"} {
		result, err := c.Runner.Run(ctx, c.Env.Root, "pgrep", "-f", process)
		if err == nil && !result.Failed() && strings.TrimSpace(result.Stdout) != "" {
			return true
		}
	}
	return false
}

// supervisorCommand picks the configured supervisor, returning the command
// to run and whether one applies. pm2Action and composeAction differ because
// docker-compose spells "start" as "up -d".
func (c *DashboardController) supervisorCommand(pm2Action string, composeAction ...string) (string, []string, bool) {
	if c.Env.PM2Name != "" {
		if _, err := c.lookPath("pm2"); err == nil {
			return "pm2", []string{pm2Action, c.Env.PM2Name}, true
		}
	}
	if c.Env.ComposeFile != "" {
		if _, err := c.lookPath("docker-compose"); err == nil {
			args := append([]string{"-f", c.Env.ComposeFile}, composeAction...)
			return "docker-compose", args, true
		}
	}
	return "", nil, false
}

func (c *DashboardController) runSupervisor(ctx context.Context, name string, args []string) error {
	fmt.Printf("Controlling the dashboard via %s\n", name)
	result, err := c.Runner.Run(ctx, c.Env.Root, name, args...)
	if err != nil {
		return err
	}
	if result.Failed() {
		return shared.CommandError(result.Code, result.Stderr)
	}
	log.Info().Str("supervisor", name).Strs("args", args).Msg("dashboard control command succeeded")
	return nil
}

var _ ports.ProcessController = (*DashboardController)(nil)
