// Package watcher reloads the dataset when its CSV file changes on disk.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"bikeshare/internal/infrastructure"
	"bikeshare/pkg/contracts/domain"
)

// DefaultDebounce is used when a non-positive debounce is configured
const DefaultDebounce = 500 * time.Millisecond

// ErrStopped is returned by Start after Stop
var ErrStopped = errors.New("watcher stopped")

// Reloader swaps in a freshly loaded dataset
type Reloader interface {
	Reload(ctx context.Context) (domain.DatasetInfo, error)
}

// Stats counts watcher activity
type Stats struct {
	Events   int64
	Reloads  int64
	Failures int64
}

// Watcher watches the directory holding the dataset file. Editors often
// replace a file by renaming a temporary copy over it, so the directory is
// watched rather than the file itself.
type Watcher struct {
	mu      sync.Mutex
	fsw     *fsnotify.Watcher
	path    string
	dir     string
	name    string
	wait    time.Duration
	target  Reloader
	logger  *slog.Logger
	stopCh  chan struct{}
	doneCh  chan struct{}
	running bool
	stopped bool

	events   atomic.Int64
	reloads  atomic.Int64
	failures atomic.Int64
}

// New creates a watcher for the file at path
func New(path string, debounce time.Duration, target Reloader, logger *slog.Logger) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	return &Watcher{
		fsw:    fsw,
		path:   abs,
		dir:    filepath.Dir(abs),
		name:   filepath.Base(abs),
		wait:   debounce,
		target: target,
		logger: infrastructure.WithComponent(logger, "watcher").With(slog.String("path", abs)),
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}, nil
}

// Start begins watching. It returns once the directory watch is registered.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return ErrStopped
	}
	if w.running {
		return nil
	}
	if err := w.fsw.Add(w.dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}
	w.running = true
	go w.run(ctx)
	w.logger.Info("watching dataset for changes", slog.Duration("debounce", w.wait))
	return nil
}

// Stop ends the watch and waits for the event loop to exit. Safe to call more than once.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return
	}
	wasRunning := w.running
	w.stopped = true
	w.running = false
	close(w.stopCh)
	w.mu.Unlock()

	if wasRunning {
		<-w.doneCh
	}
	if err := w.fsw.Close(); err != nil {
		w.logger.Warn("failed to close file watcher", slog.String("error", err.Error()))
	}
	w.logger.Info("watcher stopped")
}

// Path returns the absolute path being watched
func (w *Watcher) Path() string { return w.path }

// Stats returns a snapshot of watcher counters
func (w *Watcher) Stats() Stats {
	return Stats{
		Events:   w.events.Load(),
		Reloads:  w.reloads.Load(),
		Failures: w.failures.Load(),
	}
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	timer := time.NewTimer(w.wait)
	timer.Stop()
	defer timer.Stop()
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !w.relevant(ev) {
				continue
			}
			w.events.Add(1)
			w.logger.Debug("dataset changed", slog.String("op", ev.Op.String()))
			timer.Reset(w.wait)
			fire = timer.C

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Error("file watcher error", slog.String("error", err.Error()))

		case <-fire:
			fire = nil
			w.reload(ctx)
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if filepath.Base(ev.Name) != w.name {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)
}

// reload tags ctx with a trace ID so the reload logs and its broadcast share one
func (w *Watcher) reload(ctx context.Context) {
	ctx = infrastructure.EnsureTraceID(ctx)
	start := time.Now()
	info, err := w.target.Reload(ctx)
	if err != nil {
		w.failures.Add(1)
		infrastructure.WithError(w.logger, err).WarnContext(ctx, "dataset reload failed, keeping previous data",
			slog.Duration("duration", time.Since(start)))
		return
	}
	w.reloads.Add(1)
	w.logger.InfoContext(ctx, "dataset reloaded after file change",
		slog.Int("rows", info.Rows),
		slog.Duration("duration", time.Since(start)))
}
