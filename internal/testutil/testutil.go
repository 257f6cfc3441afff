// Package testutil provides shared test helpers for setting up registries,
// data directories and checklist sources.
package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/raftcheck/internal/catalog"
	"github.com/starford/raftcheck/internal/inspection"
	"github.com/starford/raftcheck/internal/ledger"
	"github.com/starford/raftcheck/internal/models"
	"github.com/starford/raftcheck/internal/registry"
	"github.com/starford/raftcheck/internal/storage"
)

// LedgerFile is the ledger file name used by TestLedger.
const LedgerFile = "ledger.json"

// SampleLedger holds one ledger sheet matching SampleAsset's serial number.
const SampleLedger = `[
	{
		"file": "INSPECTION_SHEET_5103-2019.xlsx",
		"components": [
			{"name": "Hydrostatic release", "valid_until": "2027-03"},
			{"name": "Flares", "valid_until": "2026-11"}
		]
	}
]`

// SampleAsset is a throw-over ZODIAC COASTER covered by SampleLedger and the
// embedded manual catalog.
func SampleAsset() models.Asset {
	return models.Asset{
		Name:         "Raft 7",
		Brand:        "ZODIAC",
		Model:        "COASTER",
		SerialNumber: "5103-2019",
		LaunchType:   models.LaunchThrowOver,
	}
}

// TestRegistry creates a temporary SQLite registry that is automatically cleaned up.
func TestRegistry(t *testing.T) *registry.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "raftcheck-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := registry.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestDataDir creates a temporary data directory with a storage.Provider.
func TestDataDir(t *testing.T) (string, storage.Provider) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return dir, store
}

// TestLedger writes content as the ledger file of a fresh data directory and
// loads it. An empty content leaves the file absent.
func TestLedger(t *testing.T, content string) *ledger.Ledger {
	t.Helper()
	dir, store := TestDataDir(t)
	if content != "" {
		if err := os.WriteFile(filepath.Join(dir, LedgerFile), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	l := ledger.New(store, LedgerFile)
	if _, err := l.Load(); err != nil {
		t.Fatal(err)
	}
	return l
}

// TestSources wires a temporary registry, SampleLedger and the embedded manual
// catalog into checklist sources.
func TestSources(t *testing.T) *inspection.Sources {
	t.Helper()
	manual, err := catalog.DefaultManualCatalog()
	if err != nil {
		t.Fatal(err)
	}
	return &inspection.Sources{
		Registry: TestRegistry(t),
		Ledger:   TestLedger(t, SampleLedger),
		Manual:   manual,
	}
}

// CreateAsset registers a in src's registry.
func CreateAsset(t *testing.T, src *inspection.Sources, a models.Asset) models.Asset {
	t.Helper()
	created, err := src.Registry.CreateAsset(context.Background(), a)
	if err != nil {
		t.Fatal(err)
	}
	return created
}
