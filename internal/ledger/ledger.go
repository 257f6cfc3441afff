// Package ledger serves the pre-extracted inspection ledger: one entry per
// inspected raft, each listing the components recorded on its inspection sheet.
package ledger

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/starford/raftcheck/internal/models"
	"github.com/starford/raftcheck/internal/storage"
)

// Entry is one ledger sheet.
type Entry struct {
	File         string                   `json:"file"`
	SerialNumber string                   `json:"serial_number,omitempty"`
	Components   []models.LedgerComponent `json:"components"`
}

// Ledger holds the parsed ledger file in memory. It is safe for concurrent use.
type Ledger struct {
	store storage.Provider
	name  string

	mu       sync.RWMutex
	entries  []Entry
	digest   string
	loadedAt time.Time
}

// New creates an empty ledger backed by the file name inside store.
func New(store storage.Provider, name string) *Ledger {
	return &Ledger{store: store, name: name}
}

// Name returns the ledger file path relative to the data directory.
func (l *Ledger) Name() string {
	return l.name
}

// Parse decodes ledger JSON.
func Parse(data []byte) ([]Entry, error) {
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("ledger: decode: %w", err)
	}
	for i, e := range entries {
		if e.File == "" && e.SerialNumber == "" {
			return nil, fmt.Errorf("ledger: entry %d has neither file nor serial_number", i)
		}
	}
	return entries, nil
}

// Load reads the ledger file. A missing file yields an empty ledger.
// It reports whether the in-memory contents changed.
func (l *Ledger) Load() (bool, error) {
	data, err := l.store.Read(l.name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return l.apply(nil, ""), nil
		}
		return false, err
	}
	digest := sum(data)

	l.mu.RLock()
	same := digest == l.digest
	l.mu.RUnlock()
	if same {
		return false, nil
	}

	entries, err := Parse(data)
	if err != nil {
		return false, err
	}
	return l.apply(entries, digest), nil
}

// Replace validates data, writes it atomically to the ledger file and
// swaps the in-memory contents.
func (l *Ledger) Replace(data []byte) (int, error) {
	entries, err := Parse(data)
	if err != nil {
		return 0, err
	}
	if err := l.store.Write(l.name, data); err != nil {
		return 0, err
	}
	l.apply(entries, sum(data))
	return len(entries), nil
}

// Clear removes the ledger file and empties the in-memory contents.
// Clearing an absent ledger is not an error.
func (l *Ledger) Clear() error {
	if err := l.store.Delete(l.name); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	l.apply(nil, "")
	return nil
}

func (l *Ledger) apply(entries []Entry, digest string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if digest == l.digest && digest != "" {
		return false
	}
	changed := digest != l.digest
	l.entries = entries
	l.digest = digest
	l.loadedAt = time.Now()
	return changed
}

// Lookup returns the components of the first entry whose file name contains
// serial or whose serial number equals it. An empty serial matches nothing.
func (l *Ledger) Lookup(serial string) []models.LedgerComponent {
	if serial == "" {
		return nil
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, e := range l.entries {
		if strings.Contains(e.File, serial) || e.SerialNumber == serial {
			return slices.Clone(e.Components)
		}
	}
	return nil
}

// Len returns the number of loaded entries.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Digest returns the SHA-256 of the loaded file, empty when none is loaded.
func (l *Ledger) Digest() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.digest
}

// LoadedAt returns when the contents were last swapped.
func (l *Ledger) LoadedAt() time.Time {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.loadedAt
}

func sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}
