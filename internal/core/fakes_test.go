package core

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"mmpm/internal/types"
)

// testEnv builds an Env rooted in temp directories, with a modules dir
// already in place.
func testEnv(t *testing.T) types.Env {
	t.Helper()
	t.Setenv("MMPM_CONFIG_DIR", t.TempDir())

	env, err := types.NewEnv(t.TempDir(), "ws://localhost:8080/mmpm", "", "")
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(env.ModulesDir, 0o755))
	return env
}

// installClone fakes an installed package: a directory with a .git marker.
func installClone(t *testing.T, env types.Env, name string) string {
	t.Helper()
	dir := filepath.Join(env.ModulesDir, name)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".git"), 0o755))
	return dir
}

type fakeFetcher struct {
	catalog types.Catalog
	err     error
	calls   int
}

func (f *fakeFetcher) Fetch(context.Context) (types.Catalog, error) {
	f.calls++
	return f.catalog, f.err
}

type fakeGit struct {
	remoteFn func(dir string) (string, error)
	cloneFn  func(workDir string, repository string, target string) (types.CommandResult, error)
	pullFn   func(dir string) (types.CommandResult, error)
	fetchFn  func(dir string) (types.CommandResult, error)
}

func (g fakeGit) RemoteOriginURL(_ context.Context, dir string) (string, error) {
	if g.remoteFn == nil {
		return "", os.ErrNotExist
	}
	return g.remoteFn(dir)
}

func (g fakeGit) Clone(_ context.Context, workDir string, repository string, target string) (types.CommandResult, error) {
	if g.cloneFn == nil {
		return types.CommandResult{}, nil
	}
	return g.cloneFn(workDir, repository, target)
}

func (g fakeGit) Pull(_ context.Context, dir string) (types.CommandResult, error) {
	if g.pullFn == nil {
		return types.CommandResult{}, nil
	}
	return g.pullFn(dir)
}

func (g fakeGit) FetchDryRun(_ context.Context, dir string) (types.CommandResult, error) {
	if g.fetchFn == nil {
		return types.CommandResult{}, nil
	}
	return g.fetchFn(dir)
}

type recordedCall struct {
	Dir  string
	Name string
	Args []string
}

type fakeRunner struct {
	fn    func(dir string, name string, args []string) (types.CommandResult, error)
	calls []recordedCall
}

func (r *fakeRunner) Run(_ context.Context, dir string, name string, args ...string) (types.CommandResult, error) {
	r.calls = append(r.calls, recordedCall{Dir: dir, Name: name, Args: args})
	if r.fn == nil {
		return types.CommandResult{}, nil
	}
	return r.fn(dir, name, args)
}

type fakePrompter struct {
	confirm []bool
	inputs  []string
}

func (p *fakePrompter) Confirm(context.Context, string, bool) (bool, error) {
	if len(p.confirm) == 0 {
		return true, nil
	}
	next := p.confirm[0]
	p.confirm = p.confirm[1:]
	return next, nil
}

func (p *fakePrompter) Input(context.Context, string, []string) (string, error) {
	if len(p.inputs) == 0 {
		return "response", nil
	}
	next := p.inputs[0]
	p.inputs = p.inputs[1:]
	return next, nil
}

type fakeControl struct {
	running bool
}

func (c fakeControl) Start(context.Context) error   { return nil }
func (c fakeControl) Stop(context.Context) error    { return nil }
func (c fakeControl) Restart(context.Context) error { return nil }
func (c fakeControl) Running(context.Context) bool  { return c.running }
