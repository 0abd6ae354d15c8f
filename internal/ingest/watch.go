package ingest

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchSettle is how long the watcher waits after the last event before
// triggering a pass, so multi-file drops are picked up whole.
const watchSettle = 2 * time.Second

// Watch observes the source root with fsnotify and calls run after file
// activity settles. Events under the archive subdirectory are ignored (the
// pipeline's own moves would otherwise re-trigger it). Blocks until ctx is
// cancelled.
func Watch(ctx context.Context, sourceRoot, archiveName string, logger *slog.Logger, run func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(sourceRoot); err != nil {
		return err
	}

	logger.Info("watching source root", slog.String("root", sourceRoot))

	archivePrefix := filepath.Join(sourceRoot, archiveName)

	var settle *time.Timer
	var settleCh <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Name == archivePrefix || filepath.Dir(ev.Name) == archivePrefix {
				continue
			}
			if !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Rename) && !ev.Op.Has(fsnotify.Write) {
				continue
			}
			logger.Debug("source activity", slog.String("path", ev.Name), slog.String("op", ev.Op.String()))
			if settle == nil {
				settle = time.NewTimer(watchSettle)
				settleCh = settle.C
			} else {
				if !settle.Stop() {
					select {
					case <-settle.C:
					default:
					}
				}
				settle.Reset(watchSettle)
			}

		case <-settleCh:
			settle = nil
			settleCh = nil
			run()

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", slog.String("error", err.Error()))
		}
	}
}
