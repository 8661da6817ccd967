package analyzer

import (
	"context"
	"fmt"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/usagelens/usagelens/internal/util"
)

// Watcher reruns the pipeline whenever the input file changes. Reloads
// are tagged with a monotonically increasing id; a reload that finishes
// after a newer one has started is discarded, so output always reflects
// the latest file contents.
type Watcher struct {
	analyzer *Analyzer
	loadID   atomic.Int64

	lastInfo        *util.FileInfo
	lastFingerprint string
}

func NewWatcher(a *Analyzer) *Watcher {
	return &Watcher{analyzer: a}
}

// Watch runs one initial analysis, then blocks reloading on every
// change until ctx is canceled.
func (w *Watcher) Watch(ctx context.Context) error {
	path := w.analyzer.config.InputPath

	w.recordState(path)
	if err := w.analyzer.Run(); err != nil {
		return err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer fw.Close()

	// Watch the directory, not the file: editors and exporters replace
	// the file on save, which drops a watch on the file itself.
	if err := fw.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(path), err)
	}

	util.LogInfo(fmt.Sprintf("Watching %s for changes", path))

	// Coalesce event bursts so one save triggers one reload.
	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			pending = time.After(200 * time.Millisecond)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			util.LogWarn(fmt.Sprintf("Watcher error: %v", err))
		case <-pending:
			pending = nil
			if !w.changed(path) {
				util.LogDebug("Input unchanged, skipping reload")
				continue
			}
			w.reload()
		}
	}
}

// changed reports whether the file differs from the last observed
// state, comparing stat identity first and a content fingerprint when
// the stat is inconclusive.
func (w *Watcher) changed(path string) bool {
	info, err := util.GetFileInfo(path)
	if err != nil {
		// Treat a vanished or unreadable file as changed so the reload
		// surfaces the error.
		return true
	}
	fingerprint, _ := util.CalculateFileFingerprint(path)

	same := info.Equal(w.lastInfo) && fingerprint == w.lastFingerprint
	w.lastInfo = info
	w.lastFingerprint = fingerprint
	return !same
}

func (w *Watcher) recordState(path string) {
	if info, err := util.GetFileInfo(path); err == nil {
		w.lastInfo = info
	}
	w.lastFingerprint, _ = util.CalculateFileFingerprint(path)
}

// reload runs the pipeline in the background. Stale completions are
// dropped: only the reload holding the newest id may emit output.
func (w *Watcher) reload() {
	id := w.loadID.Add(1)
	go func() {
		report, err := w.analyzer.Process()
		if id != w.loadID.Load() {
			util.LogDebug(fmt.Sprintf("Discarding stale reload %d", id))
			return
		}
		if err != nil {
			util.LogError(fmt.Sprintf("Reload failed: %v", err))
			return
		}
		if err := w.analyzer.formatAndOutput(report); err != nil {
			util.LogError(fmt.Sprintf("Output failed: %v", err))
		}
	}()
}
