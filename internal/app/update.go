package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/rs/zerolog/log"

	"mmpm/internal/types"
)

// UpdateReport is the outcome of a full update check: the packages with
// pending changes, plus whether the dashboard application and the tool itself
// have upgrades available.
type UpdateReport struct {
	Packages []types.PackageRecord
	App      bool
	Tool     bool
}

// Available reports whether anything at all can be upgraded.
func (r UpdateReport) Available() bool {
	return len(r.Packages) > 0 || r.App || r.Tool
}

// PendingUpgrades reports what the ledger currently records for this
// environment, without probing anything.
func (s Service) PendingUpgrades() (UpdateReport, error) {
	doc, err := s.ledger().Load()
	if err != nil {
		return UpdateReport{}, err
	}
	entry, _ := doc.Environment(s.Env.Root)
	return UpdateReport{Packages: entry.Packages, App: entry.App, Tool: doc.Tool}, nil
}

// CheckForUpdates probes every installed package, the dashboard application
// and the tool itself for pending upgrades, and persists the findings in the
// upgrade ledger. Probes that cannot reach their remote leave the item out of
// the report without failing the check.
func (s Service) CheckForUpdates(ctx context.Context) (UpdateReport, error) {
	installed, err := s.ListInstalled(ctx)
	if err != nil {
		return UpdateReport{}, err
	}

	candidates, err := s.engine().FindUpdateCandidates(ctx, installed)
	if err != nil {
		return UpdateReport{}, err
	}

	report := UpdateReport{Packages: candidates}
	report.App = s.checkAppUpdate(ctx)
	report.Tool = s.checkToolUpdate(ctx)
	return report, nil
}

// checkAppUpdate probes the dashboard checkout itself. Installations that are
// not git clones (e.g. docker images) are skipped with a notice.
func (s Service) checkAppUpdate(ctx context.Context) bool {
	if _, err := os.Stat(filepath.Join(s.Env.Root, ".git")); err != nil {
		log.Info().Str("root", s.Env.Root).
			Msg("dashboard root is not a git clone; skipping the application update check")
		return false
	}

	fmt.Printf("Checking %s [%s] for updates\n",
		color.GreenString(types.LedgerAppKey), color.CyanString("application"))
	result, err := s.Git.FetchDryRun(ctx, s.Env.Root)
	if err != nil || result.Failed() {
		log.Warn().Msg("unable to communicate with the git server; skipping the application update check")
		return false
	}

	available := result.Output() != ""
	if err := s.ledger().RecordAppUpgrade(available); err != nil {
		log.Error().Err(err).Msg("failed to record the application upgrade state")
	}
	return available
}

func (s Service) checkToolUpdate(ctx context.Context) bool {
	fmt.Printf("Checking %s [%s] for updates\n",
		color.GreenString(types.LedgerToolKey), color.CyanString("application"))
	available, err := s.toolUpdateAvailable(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("unable to check for a newer release of the tool")
		return false
	}
	if err := s.ledger().RecordToolUpgrade(available); err != nil {
		log.Error().Err(err).Msg("failed to record the tool upgrade state")
	}
	return available
}
