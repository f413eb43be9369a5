package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Keys of the persisted upgrade ledger document. The tool key tracks the
// package manager's own pending upgrade; the app key tracks the dashboard
// application inside each environment entry.
const (
	LedgerToolKey = "mmpm"
	LedgerAppKey  = "MagicMirror"
)

// EnvironmentUpgrades is the pending-upgrade state of one dashboard
// installation.
type EnvironmentUpgrades struct {
	Packages []PackageRecord
	App      bool
}

// Ledger is the persisted record of pending upgrades across every dashboard
// environment the tool has ever operated against, plus one global flag for
// the tool itself. Environment keys are normalized absolute root paths.
type Ledger struct {
	Tool         bool
	Environments map[string]*EnvironmentUpgrades
}

// NewLedger returns a ledger with a default entry for root.
func NewLedger(root string) Ledger {
	return Ledger{
		Environments: map[string]*EnvironmentUpgrades{
			root: {Packages: []PackageRecord{}},
		},
	}
}

// Environment returns the entry for root, creating a default one if missing.
// The second result reports whether the entry already existed.
func (l *Ledger) Environment(root string) (*EnvironmentUpgrades, bool) {
	if l.Environments == nil {
		l.Environments = map[string]*EnvironmentUpgrades{}
	}
	if env, ok := l.Environments[root]; ok {
		return env, true
	}
	env := &EnvironmentUpgrades{Packages: []PackageRecord{}}
	l.Environments[root] = env
	return env, false
}

func (l Ledger) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	key, err := json.Marshal(LedgerToolKey)
	if err != nil {
		return nil, err
	}
	buf.Write(key)
	buf.WriteByte(':')
	value, err := json.Marshal(l.Tool)
	if err != nil {
		return nil, err
	}
	buf.Write(value)

	roots := make([]string, 0, len(l.Environments))
	for root := range l.Environments {
		roots = append(roots, root)
	}
	sort.Strings(roots)

	for _, root := range roots {
		env := l.Environments[root]
		packages := env.Packages
		if packages == nil {
			packages = []PackageRecord{}
		}
		entry := map[string]any{
			"packages":   packages,
			LedgerAppKey: env.App,
		}
		buf.WriteByte(',')
		key, err := json.Marshal(root)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		value, err := json.Marshal(entry)
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (l *Ledger) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	out := Ledger{Environments: map[string]*EnvironmentUpgrades{}}
	for key, value := range raw {
		if key == LedgerToolKey {
			if err := json.Unmarshal(value, &out.Tool); err != nil {
				return fmt.Errorf("ledger: key %q: %w", key, err)
			}
			continue
		}

		var entry struct {
			Packages []json.RawMessage `json:"packages"`
			App      bool              `json:"MagicMirror"`
		}
		if err := json.Unmarshal(value, &entry); err != nil {
			return fmt.Errorf("ledger: environment %q: %w", key, err)
		}
		env := &EnvironmentUpgrades{Packages: []PackageRecord{}, App: entry.App}
		for _, rawPkg := range entry.Packages {
			record, err := DecodePackageRecord(rawPkg)
			if err != nil {
				return fmt.Errorf("ledger: environment %q: %w", key, err)
			}
			env.Packages = append(env.Packages, record)
		}
		out.Environments[key] = env
	}

	*l = out
	return nil
}
