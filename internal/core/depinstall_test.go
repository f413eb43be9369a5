package core

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mmpm/internal/types"
)

func touch(t *testing.T, dir string, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
}

func TestInstallDependenciesRunsManagersInFixedOrder(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "package.json")
	touch(t, dir, "Gemfile")
	touch(t, dir, "Makefile")

	runner := &fakeRunner{}
	engine := testEngine(testEnv(t), fakeGit{}, runner, nil)

	msg, err := engine.installDependencies(t.Context(), dir)
	require.NoError(t, err)
	assert.Empty(t, msg)

	require.Len(t, runner.calls, 3)
	assert.Equal(t, "npm", runner.calls[0].Name)
	assert.Equal(t, "bundle", runner.calls[1].Name)
	assert.Equal(t, "make", runner.calls[2].Name)
}

func TestInstallDependenciesCMakeConfiguresThenRechecksBuildDir(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "CMakeLists.txt")

	runner := &fakeRunner{fn: func(callDir string, name string, _ []string) (types.CommandResult, error) {
		if name == "cmake" {
			// A successful configure emits a Makefile into the build dir.
			if err := os.WriteFile(filepath.Join(callDir, "Makefile"), []byte("all:"), 0o644); err != nil {
				return types.CommandResult{}, err
			}
		}
		return types.CommandResult{}, nil
	}}
	engine := testEngine(testEnv(t), fakeGit{}, runner, nil)

	msg, err := engine.installDependencies(t.Context(), dir)
	require.NoError(t, err)
	assert.Empty(t, msg)

	buildDir := filepath.Join(dir, "build")
	require.Len(t, runner.calls, 2)
	assert.Equal(t, "cmake", runner.calls[0].Name)
	assert.Equal(t, buildDir, runner.calls[0].Dir)
	assert.Equal(t, "make", runner.calls[1].Name)
	assert.Equal(t, buildDir, runner.calls[1].Dir)
}

func TestInstallDependenciesStopsAtFirstFailure(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "package.json")
	touch(t, dir, "Makefile")

	runner := &fakeRunner{fn: func(_ string, name string, _ []string) (types.CommandResult, error) {
		if name == "npm" {
			return types.CommandResult{Code: 1, Stderr: "registry unreachable"}, nil
		}
		return types.CommandResult{}, nil
	}}
	engine := testEngine(testEnv(t), fakeGit{}, runner, nil)

	msg, err := engine.installDependencies(t.Context(), dir)
	require.NoError(t, err)
	assert.Equal(t, "registry unreachable", msg)
	assert.Len(t, runner.calls, 1)
}

func TestInstallDependenciesMarkerMatchIsCaseInsensitive(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "makefile")

	runner := &fakeRunner{}
	engine := testEngine(testEnv(t), fakeGit{}, runner, nil)

	_, err := engine.installDependencies(t.Context(), dir)
	require.NoError(t, err)
	require.Len(t, runner.calls, 1)
	assert.Equal(t, "make", runner.calls[0].Name)
}

func TestInstallDependenciesNoMarkersRunsNothing(t *testing.T) {
	runner := &fakeRunner{}
	engine := testEngine(testEnv(t), fakeGit{}, runner, nil)

	msg, err := engine.installDependencies(t.Context(), t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, msg)
	assert.Empty(t, runner.calls)
}
