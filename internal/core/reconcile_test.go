package core

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mmpm/internal/types"
)

func testEngine(env types.Env, git fakeGit, runner *fakeRunner, prompt *fakePrompter) ReconciliationEngine {
	if runner == nil {
		runner = &fakeRunner{}
	}
	if prompt == nil {
		prompt = &fakePrompter{}
	}
	return ReconciliationEngine{
		Env:     env,
		Git:     git,
		Runner:  runner,
		Prompt:  prompt,
		Ledger:  NewUpgradeLedger(env),
		Control: fakeControl{},
	}
}

// ---------------------------------------------------------------------------
// FindUpdateCandidates
// ---------------------------------------------------------------------------

func TestFindUpdateCandidatesEmptyInstalledResetsLedger(t *testing.T) {
	env := testEnv(t)
	ledger := NewUpgradeLedger(env)
	require.NoError(t, ledger.RecordPackageUpgrades([]types.PackageRecord{
		{Title: "stale", Repository: "https://example.com/stale.git"},
	}))
	require.NoError(t, ledger.RecordAppUpgrade(true))

	engine := testEngine(env, fakeGit{}, nil, nil)
	candidates, err := engine.FindUpdateCandidates(t.Context(), types.Catalog{})
	require.NoError(t, err)
	assert.Empty(t, candidates)

	doc, err := ledger.Load()
	require.NoError(t, err)
	entry, _ := doc.Environment(env.Root)
	assert.Empty(t, entry.Packages)
	assert.False(t, entry.App)
}

func TestFindUpdateCandidatesProbesAndPersists(t *testing.T) {
	env := testEnv(t)
	installed := types.Catalog{}
	installed.Append("Utilities",
		types.PackageRecord{Title: "behind", Repository: "https://example.com/behind.git", Directory: "/m/behind"},
		types.PackageRecord{Title: "current", Repository: "https://example.com/current.git", Directory: "/m/current"},
		types.PackageRecord{Title: "unreachable", Repository: "https://example.com/unreachable.git", Directory: "/m/unreachable"},
	)

	git := fakeGit{fetchFn: func(dir string) (types.CommandResult, error) {
		switch filepath.Base(dir) {
		case "behind":
			return types.CommandResult{Stderr: "From https://example.com/behind\n   abc..def  master -> origin/master"}, nil
		case "unreachable":
			return types.CommandResult{Code: 128, Stderr: "could not resolve host"}, nil
		default:
			return types.CommandResult{}, nil
		}
	}}

	engine := testEngine(env, git, nil, nil)
	candidates, err := engine.FindUpdateCandidates(t.Context(), installed)
	require.NoError(t, err)

	// The unreachable probe is indeterminate, not a pending upgrade.
	require.Len(t, candidates, 1)
	assert.Equal(t, "behind", candidates[0].Title)

	doc, err := engine.Ledger.Load()
	require.NoError(t, err)
	entry, _ := doc.Environment(env.Root)
	require.Len(t, entry.Packages, 1)
	assert.Equal(t, "behind", entry.Packages[0].Title)
}

// ---------------------------------------------------------------------------
// ResolveInstallTargets
// ---------------------------------------------------------------------------

func TestResolveInstallTargetsIsCaseSensitive(t *testing.T) {
	engine := testEngine(testEnv(t), fakeGit{}, nil, nil)
	targets := engine.ResolveInstallTargets(sampleCatalog(), []string{"clock-plus", "CLOCK-PLUS", "missing"})
	require.Len(t, targets, 1)
	assert.Equal(t, "clock-plus", targets[0].Title)
}

func TestResolveInstallTargetsReportsEveryCategoryMatch(t *testing.T) {
	catalog := sampleCatalog()
	catalog.Append("Also Here", types.PackageRecord{Title: "clock-plus", Repository: "https://example.com/fork.git"})

	engine := testEngine(testEnv(t), fakeGit{}, nil, nil)
	targets := engine.ResolveInstallTargets(catalog, []string{"clock-plus"})
	assert.Len(t, targets, 2)
}

// ---------------------------------------------------------------------------
// Install
// ---------------------------------------------------------------------------

func TestInstallClonesAndRunsDependencies(t *testing.T) {
	env := testEnv(t)
	git := fakeGit{cloneFn: func(_ string, _ string, target string) (types.CommandResult, error) {
		require.NoError(t, os.MkdirAll(target, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(target, "package.json"), []byte(`{}`), 0o644))
		return types.CommandResult{}, nil
	}}
	runner := &fakeRunner{}
	engine := testEngine(env, git, runner, nil)

	installed, err := engine.Install(t.Context(), []types.PackageRecord{
		{Title: "clock-plus", Repository: "https://example.com/clock-plus.git"},
	}, true)
	require.NoError(t, err)
	assert.True(t, installed)

	require.Len(t, runner.calls, 1)
	assert.Equal(t, "npm", runner.calls[0].Name)
	assert.Equal(t, []string{"install"}, runner.calls[0].Args)
	assert.Equal(t, filepath.Join(env.ModulesDir, "clock-plus"), runner.calls[0].Dir)
}

func TestInstallSkipsConflictingDirectory(t *testing.T) {
	env := testEnv(t)
	installClone(t, env, "clock-plus")

	git := fakeGit{cloneFn: func(string, string, string) (types.CommandResult, error) {
		t.Fatal("clone must not run for a conflicting target")
		return types.CommandResult{}, nil
	}}
	engine := testEngine(env, git, nil, nil)

	installed, err := engine.Install(t.Context(), []types.PackageRecord{
		{Title: "clock-plus", Repository: "https://example.com/clock-plus.git"},
	}, true)
	require.NoError(t, err)
	assert.False(t, installed)
}

func TestInstallContinuesBatchAfterCloneFailure(t *testing.T) {
	env := testEnv(t)
	git := fakeGit{cloneFn: func(_ string, repository string, target string) (types.CommandResult, error) {
		if repository == "https://example.com/broken.git" {
			return types.CommandResult{Code: 128, Stderr: "repository not found"}, nil
		}
		require.NoError(t, os.MkdirAll(target, 0o755))
		return types.CommandResult{}, nil
	}}
	engine := testEngine(env, git, nil, nil)

	installed, err := engine.Install(t.Context(), []types.PackageRecord{
		{Title: "broken", Repository: "https://example.com/broken.git"},
		{Title: "fine", Repository: "https://example.com/fine.git"},
	}, true)
	require.NoError(t, err)
	assert.True(t, installed)
	assert.DirExists(t, filepath.Join(env.ModulesDir, "fine"))
	assert.NoDirExists(t, filepath.Join(env.ModulesDir, "broken"))
}

func TestInstallDependencyFailurePromptsForCleanup(t *testing.T) {
	env := testEnv(t)
	git := fakeGit{cloneFn: func(_ string, _ string, target string) (types.CommandResult, error) {
		require.NoError(t, os.MkdirAll(target, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(target, "package.json"), []byte(`{}`), 0o644))
		return types.CommandResult{}, nil
	}}
	runner := &fakeRunner{fn: func(string, string, []string) (types.CommandResult, error) {
		return types.CommandResult{Code: 1, Stderr: "npm blew up"}, nil
	}}
	// First confirm approves the install, second approves the cleanup.
	prompt := &fakePrompter{confirm: []bool{true, true}}
	engine := testEngine(env, git, runner, prompt)

	installed, err := engine.Install(t.Context(), []types.PackageRecord{
		{Title: "flaky", Repository: "https://example.com/flaky.git"},
	}, false)
	require.NoError(t, err)
	assert.False(t, installed)
	assert.NoDirExists(t, filepath.Join(env.ModulesDir, "flaky"))
}

func TestInstallSanitizesTitleForTargetDirectory(t *testing.T) {
	env := testEnv(t)
	var clonedTarget string
	git := fakeGit{cloneFn: func(_ string, _ string, target string) (types.CommandResult, error) {
		clonedTarget = target
		require.NoError(t, os.MkdirAll(target, 0o755))
		return types.CommandResult{}, nil
	}}
	engine := testEngine(env, git, nil, nil)

	_, err := engine.Install(t.Context(), []types.PackageRecord{
		{Title: "weird/../name", Repository: "https://example.com/weird.git"},
	}, true)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(env.ModulesDir, "weird..name"), clonedTarget)
}

// ---------------------------------------------------------------------------
// Upgrade
// ---------------------------------------------------------------------------

func TestUpgradePartialBatchKeepsFailedPackagesPending(t *testing.T) {
	env := testEnv(t)
	good := types.PackageRecord{Title: "good", Repository: "https://example.com/good.git", Directory: "/m/good"}
	bad := types.PackageRecord{Title: "bad", Repository: "https://example.com/bad.git", Directory: "/m/bad"}

	ledger := NewUpgradeLedger(env)
	require.NoError(t, ledger.RecordPackageUpgrades([]types.PackageRecord{good, bad}))

	git := fakeGit{pullFn: func(dir string) (types.CommandResult, error) {
		if filepath.Base(dir) == "bad" {
			return types.CommandResult{Code: 1, Stderr: "merge conflict"}, nil
		}
		return types.CommandResult{}, nil
	}}
	engine := testEngine(env, git, nil, nil)

	err := engine.Upgrade(t.Context(), ConfirmedUpgrades{Packages: []types.PackageRecord{good, bad}})
	require.NoError(t, err)

	doc, err := ledger.Load()
	require.NoError(t, err)
	entry, _ := doc.Environment(env.Root)
	require.Len(t, entry.Packages, 1)
	assert.Equal(t, "bad", entry.Packages[0].Title)
}

func TestUpgradeToolClearsFlagOnlyOnSuccess(t *testing.T) {
	env := testEnv(t)
	ledger := NewUpgradeLedger(env)
	require.NoError(t, ledger.RecordToolUpgrade(true))

	git := fakeGit{cloneFn: func(string, string, string) (types.CommandResult, error) {
		return types.CommandResult{Code: 128, Stderr: "network down"}, nil
	}}
	engine := testEngine(env, git, nil, nil)

	require.NoError(t, engine.Upgrade(t.Context(), ConfirmedUpgrades{Tool: true}))
	doc, err := ledger.Load()
	require.NoError(t, err)
	assert.True(t, doc.Tool, "a failed self-upgrade must stay pending")

	engine.Git = fakeGit{}
	require.NoError(t, engine.Upgrade(t.Context(), ConfirmedUpgrades{Tool: true}))
	doc, err = ledger.Load()
	require.NoError(t, err)
	assert.False(t, doc.Tool)
}

func TestUpgradeAppPullsDashboardRoot(t *testing.T) {
	env := testEnv(t)
	ledger := NewUpgradeLedger(env)
	require.NoError(t, ledger.RecordAppUpgrade(true))

	var pulled string
	git := fakeGit{pullFn: func(dir string) (types.CommandResult, error) {
		pulled = dir
		return types.CommandResult{}, nil
	}}
	engine := testEngine(env, git, nil, nil)

	require.NoError(t, engine.Upgrade(t.Context(), ConfirmedUpgrades{App: true}))
	assert.Equal(t, env.Root, pulled)

	doc, err := ledger.Load()
	require.NoError(t, err)
	entry, _ := doc.Environment(env.Root)
	assert.False(t, entry.App)
}

// ---------------------------------------------------------------------------
// Remove
// ---------------------------------------------------------------------------

func TestRemoveDeletesConfirmedPackages(t *testing.T) {
	env := testEnv(t)
	dir := installClone(t, env, "clock-plus")

	installed := types.Catalog{}
	installed.Append("Utilities", types.PackageRecord{
		Title:      "clock-plus",
		Repository: "https://example.com/clock-plus.git",
		Directory:  dir,
	})

	engine := testEngine(env, fakeGit{}, nil, nil)
	removed, err := engine.Remove(t.Context(), installed, []string{"clock-plus", "never-installed"}, true)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.NoDirExists(t, dir)
}

func TestRemoveDeclinedLeavesDirectoryInPlace(t *testing.T) {
	env := testEnv(t)
	dir := installClone(t, env, "clock-plus")

	installed := types.Catalog{}
	installed.Append("Utilities", types.PackageRecord{
		Title:      "clock-plus",
		Repository: "https://example.com/clock-plus.git",
		Directory:  dir,
	})

	prompt := &fakePrompter{confirm: []bool{false}}
	engine := testEngine(env, fakeGit{}, nil, prompt)
	removed, err := engine.Remove(t.Context(), installed, []string{"clock-plus"}, false)
	require.NoError(t, err)
	assert.False(t, removed)
	assert.DirExists(t, dir)
}
