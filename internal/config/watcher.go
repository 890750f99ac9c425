package config

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/vyrodovalexey/reqtrace/internal/observability"
)

const defaultDebounce = 100 * time.Millisecond

// ConfigCallback receives every configuration that loads and validates.
type ConfigCallback func(*Config)

// ErrorCallback receives reload and watch failures.
type ErrorCallback func(error)

// Watcher re-reads a configuration file when it changes on disk. A file that
// fails to load or validate never reaches the ConfigCallback, so whatever the
// caller applied last stays in effect.
type Watcher struct {
	path     string
	fs       *fsnotify.Watcher
	onChange ConfigCallback
	onError  ErrorCallback
	logger   observability.Logger
	debounce time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounceDelay sets how long the file must be quiet before a reload.
func WithDebounceDelay(delay time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.debounce = delay
	}
}

// WithLogger sets the watcher's logger.
func WithLogger(logger observability.Logger) WatcherOption {
	return func(w *Watcher) {
		w.logger = logger
	}
}

// WithErrorCallback routes failures to callback instead of the error log.
func WithErrorCallback(callback ErrorCallback) WatcherOption {
	return func(w *Watcher) {
		w.onError = callback
	}
}

// NewWatcher creates a watcher for path. Nothing is read until Start.
func NewWatcher(path string, onChange ConfigCallback, opts ...WatcherOption) (*Watcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path %s: %w", path, err)
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	w := &Watcher{
		path:     absPath,
		fs:       fsWatcher,
		onChange: onChange,
		logger:   observability.NopLogger(),
		debounce: defaultDebounce,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Start checks that the file is valid and watches it until ctx is done or
// Stop is called. The initial read does not invoke the ConfigCallback.
// Starting a running watcher is a no-op.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.cancel != nil {
		return nil
	}
	if _, err := w.load(); err != nil {
		return err
	}

	// Editors replace files rather than write them in place, so the
	// directory is watched and events are filtered by name.
	if err := w.fs.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(w.path), err)
	}

	ctx, w.cancel = context.WithCancel(ctx)
	w.done = make(chan struct{})
	go w.loop(ctx, w.done)

	w.logger.Info("watching configuration file", observability.String("path", w.path))
	return nil
}

// Stop ends the watch loop and releases the file watcher.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	cancel, done := w.cancel, w.done
	w.cancel, w.done = nil, nil
	w.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
	return w.fs.Close()
}

// Reload reads the file immediately and hands a valid result to the
// ConfigCallback.
func (w *Watcher) Reload() error {
	cfg, err := w.load()
	if err != nil {
		return err
	}

	w.logger.Info("configuration reloaded", observability.String("path", w.path))
	if w.onChange != nil {
		w.onChange(cfg)
	}
	return nil
}

func (w *Watcher) load() (*Config, error) {
	cfg, err := LoadConfig(w.path)
	if err != nil {
		return nil, err
	}
	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", w.path, err)
	}
	return cfg, nil
}

func (w *Watcher) loop(ctx context.Context, done chan<- struct{}) {
	defer close(done)

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if w.touchesConfig(event) {
				timer.Reset(w.debounce)
			}

		case <-timer.C:
			if err := w.Reload(); err != nil {
				w.fail(err)
			}

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.fail(fmt.Errorf("file watcher error for %s: %w", w.path, err))
		}
	}
}

func (w *Watcher) touchesConfig(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return false
	}
	w.logger.Debug("configuration file changed",
		observability.String("path", event.Name),
		observability.String("op", event.Op.String()),
	)
	return true
}

func (w *Watcher) fail(err error) {
	if w.onError != nil {
		w.onError(err)
		return
	}
	w.logger.Error("configuration reload failed", observability.Error(err))
}
