package core

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	assert "github.com/ZanzyTHEbar/assert-lib"
	"github.com/fatih/color"
	"github.com/rs/zerolog/log"

	"mmpm/internal/ports"
	"mmpm/internal/shared"
	"mmpm/internal/types"
)

// toolRepository is where the package manager upgrades itself from.
const toolRepository = "https://github.com/Bee-Mar/mmpm.git"

// ReconciliationEngine drives install, upgrade and removal of packages, one
// item at a time with per-item failure isolation: a failing package is
// reported and the batch continues.
type ReconciliationEngine struct {
	Env     types.Env
	Git     ports.GitClient
	Runner  ports.CommandRunner
	Prompt  ports.Prompter
	Ledger  UpgradeLedger
	Control ports.ProcessController
}

// ConfirmedUpgrades is the set of upgrades the user agreed to perform.
type ConfirmedUpgrades struct {
	Packages []types.PackageRecord
	Tool     bool
	App      bool
}

// FindUpdateCandidates probes every installed package's remote with a
// dry-run fetch and returns the ones with pending changes, in catalog order.
// A probe that cannot reach the remote excludes its package from the result
// without classifying it either way. When nothing is installed at all, the
// per-root ledger state is reset so stale entries do not outlive a full
// uninstall, and the candidate list is empty. The surviving candidates are
// persisted as the root's pending package list.
func (e ReconciliationEngine) FindUpdateCandidates(ctx context.Context, installed types.Catalog) ([]types.PackageRecord, error) {
	if installed.Empty() {
		if !e.Ledger.ResetForRoot() {
			log.Error().Msg("failed to reset pending upgrades for the current environment")
		}
		return []types.PackageRecord{}, nil
	}

	candidates := []types.PackageRecord{}
	for _, category := range installed.Categories {
		for _, pkg := range category.Packages {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			fmt.Printf("Checking %s [%s] for updates\n", color.GreenString(pkg.Title), color.CyanString("package"))
			result, err := e.Git.FetchDryRun(ctx, pkg.Directory)
			if err != nil || result.Failed() {
				log.Warn().
					Str("package", pkg.Title).
					Msg("unable to communicate with the git server; skipping update check")
				continue
			}
			if result.Output() != "" {
				candidates = append(candidates, pkg)
			}
		}
	}

	if err := e.Ledger.RecordPackageUpgrades(candidates); err != nil {
		return nil, err
	}
	return candidates, nil
}

// ResolveInstallTargets matches the requested titles against every catalog
// category, case-sensitively. A title found in several categories yields one
// entry per category so the ambiguity is visible to the user; a title found
// nowhere is reported and omitted.
func (e ReconciliationEngine) ResolveInstallTargets(catalog types.Catalog, titles []string) []types.PackageRecord {
	targets := []types.PackageRecord{}
	for _, title := range titles {
		found := false
		for _, category := range catalog.Categories {
			for _, pkg := range category.Packages {
				if pkg.Title == title {
					log.Info().Str("package", pkg.Title).Str("category", category.Name).Msg("matched installation candidate")
					targets = append(targets, pkg)
					found = true
				}
			}
		}
		if !found {
			fmt.Println(color.RedString("No package matches '%s'. Is there a typo?", title))
		}
	}
	return targets
}

// Install clones and sets up each confirmed candidate under the modules
// directory. A candidate whose target directory already exists is reported
// and skipped without aborting the batch. Returns whether any candidate was
// installed.
func (e ReconciliationEngine) Install(ctx context.Context, candidates []types.PackageRecord, assumeYes bool) (bool, error) {
	if _, err := os.Stat(e.Env.ModulesDir); err != nil {
		return false, configurationError("modules directory not found; check the dashboard root configuration", err)
	}
	if len(candidates) == 0 {
		fmt.Println(color.RedString("Unable to match query to any installation candidates"))
		return false, nil
	}

	existing, err := e.knownDirectories()
	if err != nil {
		return false, err
	}

	installedAny := false
	for _, candidate := range candidates {
		if err := ctx.Err(); err != nil {
			return installedAny, err
		}
		ok, err := e.Prompt.Confirm(ctx,
			fmt.Sprintf("Install %s (%s)?", color.GreenString(candidate.Title), candidate.Repository),
			assumeYes,
		)
		if err != nil {
			return installedAny, err
		}
		if !ok {
			log.Info().Str("package", candidate.Title).Msg("user declined installation")
			continue
		}

		target := filepath.Join(e.Env.ModulesDir, shared.SanitizeTitle(candidate.Title))
		if _, clash := existing[target]; clash {
			fmt.Println(color.RedString(
				"A package named %s is already installed at %s. Remove it first.",
				candidate.Title, target,
			))
			continue
		}

		success, err := e.installOne(ctx, candidate, target, assumeYes)
		if err != nil {
			return installedAny, err
		}
		if success {
			existing[target] = struct{}{}
			installedAny = true
		}
	}
	return installedAny, nil
}

// installOne clones one package and installs its dependencies. Cancellation
// mid-install force-removes the partial clone before unwinding.
func (e ReconciliationEngine) installOne(ctx context.Context, pkg types.PackageRecord, target string, assumeYes bool) (bool, error) {
	assert.NotEmpty(ctx, pkg.Title, "package title must be set")
	assert.NotEmpty(ctx, pkg.Repository, "package repository must be set")
	fmt.Printf("Installing %s\n", color.GreenString(pkg.Title))

	result, err := e.Git.Clone(ctx, e.Env.ModulesDir, pkg.Repository, target)
	if err != nil {
		if ctx.Err() != nil {
			e.cleanupPartial(target)
			return false, ctx.Err()
		}
		return false, err
	}
	if result.Failed() {
		fmt.Println(color.RedString(strings.TrimSpace(result.Stderr)))
		return false, nil
	}

	failure, err := e.installDependencies(ctx, target)
	if err != nil {
		e.cleanupPartial(target)
		return false, err
	}
	if failure != "" {
		fmt.Println(color.RedString(failure))
		log.Error().Str("package", pkg.Title).Str("directory", target).Msg("dependency installation failed")

		remove, err := e.Prompt.Confirm(ctx,
			fmt.Sprintf("Failed to install %s at %q. Remove the directory?", pkg.Title, target),
			assumeYes,
		)
		if err != nil {
			return false, err
		}
		if remove {
			if err := os.RemoveAll(target); err != nil {
				log.Error().Err(err).Str("directory", target).Msg("failed to remove directory")
			}
			fmt.Printf("Removed %q\n", target)
		} else {
			fmt.Printf("Keeping %s at %q\n", pkg.Title, target)
		}
		return false, nil
	}
	return true, nil
}

// Upgrade pulls each confirmed package and re-runs its dependency install.
// Packages that upgrade cleanly leave the pending ledger list immediately;
// failing ones stay for a retry. The tool and dashboard flags follow the same
// clear-only-on-success rule. After any success, a restart reminder is
// printed while the dashboard is running.
func (e ReconciliationEngine) Upgrade(ctx context.Context, confirmed ConfirmedUpgrades) error {
	ledger, err := e.Ledger.Load()
	if err != nil {
		return err
	}
	env, _ := ledger.Environment(e.Ledger.Root)
	upgraded := false

	for _, pkg := range confirmed.Packages {
		if err := ctx.Err(); err != nil {
			return err
		}
		if msg := e.upgradePackage(ctx, pkg); msg != "" {
			fmt.Println(color.RedString(msg))
			continue
		}
		env.Packages = removePackage(env.Packages, pkg)
		if err := e.Ledger.RecordPackageUpgrades(env.Packages); err != nil {
			return err
		}
		upgraded = true
	}

	if confirmed.Tool {
		if msg := e.upgradeTool(ctx); msg != "" {
			fmt.Println(color.RedString(msg))
		} else {
			if err := e.Ledger.RecordToolUpgrade(false); err != nil {
				return err
			}
			upgraded = true
		}
	}

	if confirmed.App {
		if msg := e.upgradeApp(ctx); msg != "" {
			fmt.Println(color.RedString(msg))
		} else {
			if err := e.Ledger.RecordAppUpgrade(false); err != nil {
				return err
			}
			upgraded = true
		}
	}

	if upgraded && e.Control != nil && e.Control.Running(ctx) {
		fmt.Println("Restart the dashboard for the changes to take effect")
	}
	return nil
}

func (e ReconciliationEngine) upgradePackage(ctx context.Context, pkg types.PackageRecord) string {
	assert.NotEmpty(ctx, pkg.Directory, "package directory must be set")
	fmt.Printf("Upgrading %s\n", color.GreenString(pkg.Title))
	result, err := e.Git.Pull(ctx, pkg.Directory)
	if err != nil {
		return err.Error()
	}
	if result.Failed() {
		return strings.TrimSpace(result.Stderr)
	}
	failure, err := e.installDependencies(ctx, pkg.Directory)
	if err != nil {
		return err.Error()
	}
	return failure
}

// upgradeTool reinstalls the package manager from a fresh clone in the
// system temp directory.
func (e ReconciliationEngine) upgradeTool(ctx context.Context) string {
	fmt.Printf("Upgrading %s\n", color.GreenString(types.LedgerToolKey))
	staging := filepath.Join(os.TempDir(), "mmpm")
	if err := os.RemoveAll(staging); err != nil {
		return err.Error()
	}
	result, err := e.Git.Clone(ctx, os.TempDir(), toolRepository, staging)
	if err != nil {
		return err.Error()
	}
	if result.Failed() {
		return strings.TrimSpace(result.Stderr)
	}
	result, err = e.Runner.Run(ctx, staging, "make", "reinstall")
	if err != nil {
		return err.Error()
	}
	if result.Failed() {
		return strings.TrimSpace(result.Stderr)
	}
	return ""
}

func (e ReconciliationEngine) upgradeApp(ctx context.Context) string {
	fmt.Printf("Upgrading %s\n", color.GreenString(types.LedgerAppKey))
	result, err := e.Git.Pull(ctx, e.Env.Root)
	if err != nil {
		return err.Error()
	}
	if result.Failed() {
		return strings.TrimSpace(result.Stderr)
	}
	failure, err := e.installDependencies(ctx, e.Env.Root)
	if err != nil {
		return err.Error()
	}
	return failure
}

// Remove deletes the requested installed packages by directory basename.
// Titles that match nothing installed are reported as such; declined
// removals are tracked apart from failures.
func (e ReconciliationEngine) Remove(ctx context.Context, installed types.Catalog, titles []string, assumeYes bool) (bool, error) {
	marked := []string{}
	cancelled := []string{}

	for _, category := range installed.Categories {
		for _, pkg := range category.Packages {
			if err := ctx.Err(); err != nil {
				return false, err
			}
			base := filepath.Base(pkg.Directory)
			if !containsString(titles, base) {
				continue
			}
			ok, err := e.Prompt.Confirm(ctx,
				fmt.Sprintf("Remove %s (%s)?", color.GreenString(pkg.Title), pkg.Directory),
				assumeYes,
			)
			if err != nil {
				return false, err
			}
			if ok {
				marked = append(marked, pkg.Directory)
				log.Info().Str("package", base).Msg("marked for removal")
			} else {
				cancelled = append(cancelled, base)
				log.Info().Str("package", base).Msg("removal declined")
			}
		}
	}

	for _, title := range titles {
		if !containsBase(marked, title) && !containsString(cancelled, title) {
			fmt.Println(color.RedString("'%s' is not installed", title))
		}
	}

	for _, dir := range marked {
		if err := os.RemoveAll(dir); err != nil {
			fmt.Println(color.RedString("Failed to remove %s: %v", dir, err))
			continue
		}
		fmt.Printf("Removed %s\n", color.GreenString(filepath.Base(dir)))
	}
	return len(marked) > 0, nil
}

func (e ReconciliationEngine) knownDirectories() (map[string]struct{}, error) {
	entries, err := os.ReadDir(e.Env.ModulesDir)
	if err != nil {
		return nil, configurationError("failed to list the modules directory", err)
	}
	known := make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			known[filepath.Join(e.Env.ModulesDir, entry.Name())] = struct{}{}
		}
	}
	return known, nil
}

func (e ReconciliationEngine) cleanupPartial(target string) {
	log.Info().Str("directory", target).Msg("cleaning up cancelled installation")
	if err := os.RemoveAll(target); err != nil {
		log.Error().Err(err).Str("directory", target).Msg("failed to clean up partial clone")
	}
}

func removePackage(packages []types.PackageRecord, target types.PackageRecord) []types.PackageRecord {
	remaining := packages[:0]
	for _, pkg := range packages {
		if pkg.Title == target.Title && pkg.SameRepository(target) {
			continue
		}
		remaining = append(remaining, pkg)
	}
	return remaining
}

func containsString(values []string, target string) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}

func containsBase(paths []string, target string) bool {
	for _, value := range paths {
		if filepath.Base(value) == target {
			return true
		}
	}
	return false
}
