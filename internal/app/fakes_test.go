package app

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"mmpm/internal/ports"
	"mmpm/internal/types"
)

type fakeFetcher struct {
	catalog types.Catalog
	err     error
}

func (f fakeFetcher) Fetch(context.Context) (types.Catalog, error) {
	return f.catalog, f.err
}

type fakeGit struct {
	remoteFn func(dir string) (string, error)
	fetchFn  func(dir string) (types.CommandResult, error)
}

func (g fakeGit) RemoteOriginURL(_ context.Context, dir string) (string, error) {
	if g.remoteFn == nil {
		return "", os.ErrNotExist
	}
	return g.remoteFn(dir)
}

func (g fakeGit) Clone(context.Context, string, string, string) (types.CommandResult, error) {
	return types.CommandResult{}, nil
}

func (g fakeGit) Pull(context.Context, string) (types.CommandResult, error) {
	return types.CommandResult{}, nil
}

func (g fakeGit) FetchDryRun(_ context.Context, dir string) (types.CommandResult, error) {
	if g.fetchFn == nil {
		return types.CommandResult{}, nil
	}
	return g.fetchFn(dir)
}

type fakeRunner struct{}

func (fakeRunner) Run(context.Context, string, string, ...string) (types.CommandResult, error) {
	return types.CommandResult{}, nil
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

type fakeBridge struct {
	modules []ports.ActiveModule
	fails   []string
	err     error
}

func (b fakeBridge) ActiveModules(context.Context) ([]ports.ActiveModule, error) {
	return b.modules, b.err
}

func (b fakeBridge) HideModules(context.Context, []string) ([]string, error) {
	return b.fails, b.err
}

func (b fakeBridge) ShowModules(context.Context, []string) ([]string, error) {
	return b.fails, b.err
}

type fakeControl struct {
	running bool
	actions []string
}

func (c *fakeControl) Start(context.Context) error {
	c.actions = append(c.actions, "start")
	return nil
}

func (c *fakeControl) Stop(context.Context) error {
	c.actions = append(c.actions, "stop")
	return nil
}

func (c *fakeControl) Restart(context.Context) error {
	c.actions = append(c.actions, "restart")
	return nil
}

func (c *fakeControl) Running(context.Context) bool { return c.running }

// testService builds a Service on temp directories with every port faked.
func testService(t *testing.T) Service {
	t.Helper()
	t.Setenv("MMPM_CONFIG_DIR", t.TempDir())

	env, err := types.NewEnv(t.TempDir(), "ws://localhost:8080/mmpm", "", "")
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(env.ModulesDir, 0o755))

	return Service{
		Env:     env,
		Fetcher: fakeFetcher{},
		Runner:  fakeRunner{},
		Git:     fakeGit{},
		Prompt:  &fakePrompter{},
		Bridge:  fakeBridge{},
		Control: &fakeControl{},
		Clock:   time.Now,
		Version: "4.0.0",
	}
}

func writeCatalogSnapshot(t *testing.T, service Service, catalog types.Catalog) {
	t.Helper()
	data, err := json.Marshal(catalog)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(service.Env.CatalogFile, data, 0o644))
}

func communityCatalog() types.Catalog {
	catalog := types.Catalog{}
	catalog.Append("Utilities",
		types.PackageRecord{Title: "clock-plus", Author: "a", Description: "d", Repository: "https://example.com/clock-plus.git"},
	)
	catalog.Append("Weather",
		types.PackageRecord{Title: "weather-now", Author: "b", Description: "d", Repository: "https://example.com/weather-now.git"},
	)
	return catalog
}
