package adapters

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mmpm/internal/types"
)

type scriptedRunner struct {
	fn    func(dir string, name string, args []string) (types.CommandResult, error)
	calls [][]string
}

func (r *scriptedRunner) Run(_ context.Context, dir string, name string, args ...string) (types.CommandResult, error) {
	r.calls = append(r.calls, append([]string{name}, args...))
	if r.fn == nil {
		return types.CommandResult{}, nil
	}
	return r.fn(dir, name, args)
}

func controllerWith(env types.Env, runner *scriptedRunner, binaries ...string) *DashboardController {
	controller := NewDashboardController(env, runner)
	controller.lookPath = func(name string) (string, error) {
		for _, binary := range binaries {
			if binary == name {
				return "/usr/bin/" + name, nil
			}
		}
		return "", errors.New("not found")
	}
	return controller
}

func TestControllerPrefersPM2(t *testing.T) {
	runner := &scriptedRunner{}
	env := types.Env{Root: "/mm", PM2Name: "MagicMirror", ComposeFile: "/mm/compose.yml"}
	controller := controllerWith(env, runner, "pm2", "docker-compose")

	require.NoError(t, controller.Start(t.Context()))
	require.Len(t, runner.calls, 1)
	assert.Equal(t, []string{"pm2", "start", "MagicMirror"}, runner.calls[0])
}

func TestControllerFallsBackToCompose(t *testing.T) {
	runner := &scriptedRunner{}
	env := types.Env{Root: "/mm", PM2Name: "MagicMirror", ComposeFile: "/mm/compose.yml"}
	controller := controllerWith(env, runner, "docker-compose")

	require.NoError(t, controller.Start(t.Context()))
	require.Len(t, runner.calls, 1)
	assert.Equal(t, []string{"docker-compose", "-f", "/mm/compose.yml", "up", "-d"}, runner.calls[0])

	runner.calls = nil
	require.NoError(t, controller.Stop(t.Context()))
	assert.Equal(t, []string{"docker-compose", "-f", "/mm/compose.yml", "stop"}, runner.calls[0])
}

func TestControllerStartWithoutSupervisorUsesNPM(t *testing.T) {
	runner := &scriptedRunner{}
	env := types.Env{Root: "/mm"}
	controller := controllerWith(env, runner)

	require.NoError(t, controller.Start(t.Context()))
	require.Len(t, runner.calls, 1)
	assert.Equal(t, []string{"npm", "start"}, runner.calls[0])
}

func TestControllerStopWithoutSupervisorToleratesNoMatches(t *testing.T) {
	runner := &scriptedRunner{fn: func(_ string, name string, _ []string) (types.CommandResult, error) {
		// pkill exits 1 when no process matched.
		return types.CommandResult{Code: 1}, nil
	}}
	controller := controllerWith(types.Env{Root: "/mm"}, runner)

	require.NoError(t, controller.Stop(t.Context()))
	require.Len(t, runner.calls, 2)
	assert.Equal(t, "pkill", runner.calls[0][0])
}

func TestControllerSupervisorFailureSurfaces(t *testing.T) {
	runner := &scriptedRunner{fn: func(string, string, []string) (types.CommandResult, error) {
		return types.CommandResult{Code: 1, Stderr: "pm2 daemon down"}, nil
	}}
	env := types.Env{Root: "/mm", PM2Name: "MagicMirror"}
	controller := controllerWith(env, runner, "pm2")

	require.Error(t, controller.Restart(t.Context()))
}

func TestControllerRunningChecksProcessTable(t *testing.T) {
	runner := &scriptedRunner{fn: func(_ string, _ string, args []string) (types.CommandResult, error) {
		if len(args) == 2 && args[1] == "electron" {
			return types.CommandResult{Stdout: "1234\n"}, nil
		}
		return types.CommandResult{Code: 1}, nil
	}}
	controller := controllerWith(types.Env{Root: "/mm"}, runner)
	assert.True(t, controller.Running(t.Context()))

	idle := &scriptedRunner{fn: func(string, string, []string) (types.CommandResult, error) {
		return types.CommandResult{Code: 1}, nil
	}}
	controller = controllerWith(types.Env{Root: "/mm"}, idle)
	assert.False(t, controller.Running(t.Context()))
}
