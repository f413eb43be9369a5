package core

import (
	"encoding/json"
	"os"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"mmpm/internal/types"
)

// UpgradeLedger is the file-backed record of pending upgrades for the current
// environment. Every mutation is a full read-modify-rewrite of the document;
// a crash mid-write can corrupt the file, which the parse-failure reset in
// Load repairs on the next read.
type UpgradeLedger struct {
	Path string
	Root string
}

func NewUpgradeLedger(env types.Env) UpgradeLedger {
	return UpgradeLedger{Path: env.LedgerFile, Root: env.Root}
}

// Load reads the ledger document. Malformed JSON resets the whole file to the
// default shape; a valid document missing the current root gains a default
// entry without touching other roots. Both repairs persist immediately.
func (l UpgradeLedger) Load() (types.Ledger, error) {
	data, err := os.ReadFile(l.Path)
	if err != nil {
		if !os.IsNotExist(err) {
			return types.Ledger{}, errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to read upgrade ledger").
				WithCause(err)
		}
		ledger := types.NewLedger(l.Root)
		return ledger, l.save(ledger)
	}

	var ledger types.Ledger
	if err := json.Unmarshal(data, &ledger); err != nil {
		log.Warn().Err(err).Str("file", l.Path).Msg("upgrade ledger is malformed; resetting to defaults")
		ledger = types.NewLedger(l.Root)
		return ledger, l.save(ledger)
	}

	if _, existed := ledger.Environment(l.Root); !existed {
		if err := l.save(ledger); err != nil {
			return types.Ledger{}, err
		}
	}
	return ledger, nil
}

// RecordPackageUpgrades overwrites the pending package list for the current
// root.
func (l UpgradeLedger) RecordPackageUpgrades(packages []types.PackageRecord) error {
	ledger, err := l.Load()
	if err != nil {
		return err
	}
	env, _ := ledger.Environment(l.Root)
	env.Packages = append([]types.PackageRecord{}, packages...)
	return l.save(ledger)
}

// RecordAppUpgrade sets the dashboard-application upgrade flag for the
// current root.
func (l UpgradeLedger) RecordAppUpgrade(available bool) error {
	ledger, err := l.Load()
	if err != nil {
		return err
	}
	env, _ := ledger.Environment(l.Root)
	env.App = available
	return l.save(ledger)
}

// RecordToolUpgrade sets the global self-upgrade flag.
func (l UpgradeLedger) RecordToolUpgrade(available bool) error {
	ledger, err := l.Load()
	if err != nil {
		return err
	}
	ledger.Tool = available
	return l.save(ledger)
}

// ResetForRoot clears the pending packages and app flag for the current root.
// Used when nothing is installed there anymore, so stale upgrade notices do
// not survive a full uninstall. Returns whether the reset was persisted.
func (l UpgradeLedger) ResetForRoot() bool {
	ledger, err := l.Load()
	if err != nil {
		log.Error().Err(err).Msg("failed to load upgrade ledger for reset")
		return false
	}
	env, _ := ledger.Environment(l.Root)
	env.Packages = []types.PackageRecord{}
	env.App = false
	if err := l.save(ledger); err != nil {
		log.Error().Err(err).Msg("failed to persist upgrade ledger reset")
		return false
	}
	return true
}

func (l UpgradeLedger) save(ledger types.Ledger) error {
	data, err := json.Marshal(ledger)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to encode upgrade ledger").
			WithCause(err)
	}
	if err := os.WriteFile(l.Path, data, 0o644); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write upgrade ledger").
			WithCause(err)
	}
	return nil
}
