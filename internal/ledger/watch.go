package ledger

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ReloadCallback is called after a watcher-driven reload changed the ledger.
type ReloadCallback func(entries int)

const reloadDebounce = 200 * time.Millisecond

// Watch reloads the ledger whenever its file changes on disk, until ctx is
// cancelled. The parent directory is watched so atomic rename-over writes
// are seen. Bursts of events are debounced into a single reload.
func Watch(ctx context.Context, l *Ledger, logger *slog.Logger, cb ReloadCallback) error {
	abs, err := l.store.Abs(l.name)
	if err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(abs)); err != nil {
		return err
	}

	logger.Info("ledger watcher: started", slog.String("path", abs))

	var timer *time.Timer
	var timerCh <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("ledger watcher: stopped")
			return nil

		case <-timerCh:
			changed, err := l.Load()
			if err != nil {
				logger.Warn("ledger watcher: reload failed", slog.String("error", err.Error()))
				continue
			}
			if changed {
				n := l.Len()
				logger.Info("ledger watcher: reloaded", slog.Int("entries", n))
				if cb != nil {
					cb(n)
				}
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(reloadDebounce)
				timerCh = timer.C
			} else {
				timer.Reset(reloadDebounce)
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("ledger watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}
