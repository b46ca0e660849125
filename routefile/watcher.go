package routefile

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// WatcherConfig configures a Watcher. Path, Handlers and Target are
// required; the rest have usable zero values.
type WatcherConfig struct {
	// Path is the route file to watch.
	Path string

	// Handlers resolves handler names on every rebuild.
	Handlers Handlers

	// Target receives each successfully rebuilt router.
	Target *Handler

	// Debounce is how long to wait after the last file event before
	// reloading. Editors often produce bursts of writes for one save.
	// Defaults to 100ms.
	Debounce time.Duration

	// Logger defaults to the global zap logger.
	Logger *zap.Logger

	// OnError, if set, is called when a reload or watch error occurs.
	// The previously published table stays in effect.
	OnError func(error)
}

// Watcher rebuilds a route table whenever its file changes and swaps
// the result into the target handler. A reload that fails to parse,
// validate or build leaves the previous table serving.
//
// The underlying file watch is held only while the watch loop runs and
// is released when the loop exits, whether through Stop or context
// cancellation.
type Watcher struct {
	path     string
	handlers Handlers
	target   *Handler
	debounce time.Duration
	logger   *zap.Logger
	onError  func(error)

	mu        sync.Mutex
	running   bool
	stopCh    chan struct{}
	stoppedCh chan struct{}
}

// NewWatcher creates a watcher for the route file named in cfg.
func NewWatcher(cfg WatcherConfig) (*Watcher, error) {
	if cfg.Path == "" {
		return nil, errors.New("routefile: watcher needs a path")
	}
	if cfg.Target == nil {
		return nil, errors.New("routefile: watcher needs a target handler")
	}

	absPath, err := filepath.Abs(cfg.Path)
	if err != nil {
		return nil, err
	}

	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = 100 * time.Millisecond
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.L()
	}

	return &Watcher{
		path:     absPath,
		handlers: cfg.Handlers,
		target:   cfg.Target,
		debounce: debounce,
		logger:   logger,
		onError:  cfg.OnError,
	}, nil
}

// Start loads and publishes the route table, then begins watching the
// file for changes. The initial load is strict: its error is returned
// and nothing is watched. A stopped watcher can be started again.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}

	if err := w.ForceReload(); err != nil {
		return err
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	// Watch the directory rather than the file itself, so atomic
	// rename-over-the-file updates keep being seen.
	if err := fsWatcher.Add(filepath.Dir(w.path)); err != nil {
		_ = fsWatcher.Close()
		return err
	}

	w.running = true
	w.stopCh = make(chan struct{})
	w.stoppedCh = make(chan struct{})
	w.logger.Info("watching route file", zap.String("path", w.path))

	go w.watch(ctx, fsWatcher, w.stopCh, w.stoppedCh)

	return nil
}

// Stop stops watching. It blocks until the watch loop has exited and
// the underlying file watch is released.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = false
	stopCh, stoppedCh := w.stopCh, w.stoppedCh
	w.mu.Unlock()

	close(stopCh)
	<-stoppedCh

	return nil
}

// ForceReload rebuilds and publishes the route table immediately.
func (w *Watcher) ForceReload() error {
	file, err := Load(w.path)
	if err != nil {
		return err
	}

	router, err := file.Build(w.handlers)
	if err != nil {
		return err
	}

	w.target.Swap(router, file)

	w.logger.Info("route table published",
		zap.String("path", w.path),
		zap.Int("routes", len(file.Routes)),
	)

	return nil
}

func (w *Watcher) watch(ctx context.Context, fsWatcher *fsnotify.Watcher, stopCh, stoppedCh chan struct{}) {
	var debounceTimer *time.Timer
	var debounceCh <-chan time.Time

	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
		if err := fsWatcher.Close(); err != nil {
			w.logger.Warn("route file watch close", zap.Error(err))
		}
		close(stoppedCh)
	}()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("route file watcher stopped", zap.Error(ctx.Err()))
			return

		case <-stopCh:
			w.logger.Info("route file watcher stopped")
			return

		case event, ok := <-fsWatcher.Events:
			if !ok {
				return
			}
			debounceTimer, debounceCh = w.handleFileEvent(event, debounceTimer, debounceCh)

		case <-debounceCh:
			debounceCh = nil
			w.reload()

		case err, ok := <-fsWatcher.Errors:
			if !ok {
				return
			}
			w.fail("route file watch error", err)
		}
	}
}

// handleFileEvent resets the debounce timer when the watched file was
// written or created.
func (w *Watcher) handleFileEvent(
	event fsnotify.Event,
	debounceTimer *time.Timer,
	debounceCh <-chan time.Time,
) (*time.Timer, <-chan time.Time) {
	if filepath.Clean(event.Name) != w.path {
		return debounceTimer, debounceCh
	}
	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return debounceTimer, debounceCh
	}

	w.logger.Debug("route file changed",
		zap.String("path", event.Name),
		zap.String("op", event.Op.String()),
	)

	if debounceTimer != nil {
		debounceTimer.Stop()
	}
	debounceTimer = time.NewTimer(w.debounce)
	return debounceTimer, debounceTimer.C
}

func (w *Watcher) reload() {
	if err := w.ForceReload(); err != nil {
		w.fail("route table reload failed", err)
	}
}

func (w *Watcher) fail(msg string, err error) {
	w.logger.Error(msg, zap.Error(err))
	if w.onError != nil {
		w.onError(err)
	}
}
