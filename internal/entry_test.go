package internal

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/starford/raftcheck/internal/ledger"
	"github.com/starford/raftcheck/internal/storage"
)

func TestWatchLedgerLogsStartupFailure(t *testing.T) {
	store, err := storage.NewFS(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	// A name outside the data root cannot be resolved, so Watch fails at once.
	l := ledger.New(store, "../outside.json")

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	watchLedger(context.Background(), l, logger, nil)

	out := buf.String()
	if !strings.Contains(out, `"level":"WARN"`) || !strings.Contains(out, "ledger watcher stopped") {
		t.Errorf("missing warning in log: %s", out)
	}
	if !strings.Contains(out, "escapes data root") {
		t.Errorf("log lacks the cause: %s", out)
	}
}

func TestLoadManualCatalogDefaultsToEmbedded(t *testing.T) {
	c, err := loadManualCatalog("")
	if err != nil {
		t.Fatalf("loadManualCatalog: %v", err)
	}
	if c.Len() == 0 {
		t.Error("embedded manual catalog is empty")
	}
	if _, err := loadManualCatalog("does-not-exist.yaml"); err == nil {
		t.Error("expected error for a missing manual specs file")
	}
}
