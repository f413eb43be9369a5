package core

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mmpm/internal/types"
)

func TestUpgradeLedgerCreatesDefaultWhenMissing(t *testing.T) {
	env := testEnv(t)
	ledger := NewUpgradeLedger(env)

	doc, err := ledger.Load()
	require.NoError(t, err)

	entry, existed := doc.Environment(env.Root)
	assert.True(t, existed)
	assert.Empty(t, entry.Packages)
	assert.False(t, entry.App)
	assert.False(t, doc.Tool)
	assert.FileExists(t, env.LedgerFile)
}

func TestUpgradeLedgerResetsMalformedFile(t *testing.T) {
	env := testEnv(t)
	require.NoError(t, os.WriteFile(env.LedgerFile, []byte(`{"mmpm": tru`), 0o644))

	doc, err := NewUpgradeLedger(env).Load()
	require.NoError(t, err)
	_, existed := doc.Environment(env.Root)
	assert.True(t, existed)

	data, err := os.ReadFile(env.LedgerFile)
	require.NoError(t, err)
	assert.True(t, json.Valid(data))
}

func TestUpgradeLedgerInsertsMissingRootWithoutTouchingOthers(t *testing.T) {
	env := testEnv(t)
	other := types.NewLedger("/some/other/root")
	entry, _ := other.Environment("/some/other/root")
	entry.App = true
	data, err := json.Marshal(other)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(env.LedgerFile, data, 0o644))

	doc, err := NewUpgradeLedger(env).Load()
	require.NoError(t, err)

	_, existed := doc.Environment(env.Root)
	assert.True(t, existed)
	kept, existed := doc.Environment("/some/other/root")
	require.True(t, existed)
	assert.True(t, kept.App)
}

func TestUpgradeLedgerRecordsAndResets(t *testing.T) {
	env := testEnv(t)
	ledger := NewUpgradeLedger(env)

	pending := []types.PackageRecord{{Title: "pkg", Repository: "https://example.com/pkg.git"}}
	require.NoError(t, ledger.RecordPackageUpgrades(pending))
	require.NoError(t, ledger.RecordAppUpgrade(true))
	require.NoError(t, ledger.RecordToolUpgrade(true))

	doc, err := ledger.Load()
	require.NoError(t, err)
	entry, _ := doc.Environment(env.Root)
	assert.Len(t, entry.Packages, 1)
	assert.True(t, entry.App)
	assert.True(t, doc.Tool)

	require.True(t, ledger.ResetForRoot())
	doc, err = ledger.Load()
	require.NoError(t, err)
	entry, _ = doc.Environment(env.Root)
	assert.Empty(t, entry.Packages)
	assert.False(t, entry.App)
	// The tool flag is global and survives a per-root reset.
	assert.True(t, doc.Tool)
}
