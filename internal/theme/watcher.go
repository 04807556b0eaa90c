package theme

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// DefaultPollInterval is how often a user theme is checked for edits.
const DefaultPollInterval = time.Second

// Watcher polls a user theme's palette and CSS files and reloads the
// theme when either changes.
type Watcher struct {
	mu       sync.RWMutex
	logger   *slog.Logger
	theme    *Theme
	interval time.Duration
	onChange func(theme *Theme)

	stopCh  chan struct{}
	doneCh  chan struct{}
	running bool
}

// NewWatcher creates a watcher for theme.
func NewWatcher(theme *Theme, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		logger:   logger,
		theme:    theme,
		interval: DefaultPollInterval,
	}
}

// SetPollInterval sets the polling interval. It applies from the next Start.
func (w *Watcher) SetPollInterval(interval time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.interval = interval
}

// SetChangeCallback sets the callback invoked with the reloaded theme.
func (w *Watcher) SetChangeCallback(callback func(theme *Theme)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = callback
}

// Start begins polling. Bundled themes cannot change and are not watched.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return nil
	}
	if w.theme == nil || w.theme.IsBundled {
		w.logger.Debug("not watching bundled theme")
		return nil
	}

	w.running = true
	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})
	go w.poll(ctx, w.interval, w.stopCh, w.doneCh)

	w.logger.Debug("theme watcher started", "path", w.theme.Path, "interval", w.interval)
	return nil
}

// Stop stops polling and waits for the poll loop to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	close(w.stopCh)
	done := w.doneCh
	w.mu.Unlock()

	<-done
	w.logger.Debug("theme watcher stopped")
}

// IsRunning returns whether the watcher is currently polling.
func (w *Watcher) IsRunning() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.running
}

func (w *Watcher) poll(ctx context.Context, interval time.Duration, stop, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-stop:
			return
		case <-ticker.C:
			w.check()
		}
	}
}

func (w *Watcher) check() {
	w.mu.RLock()
	theme, callback := w.theme, w.onChange
	w.mu.RUnlock()

	changed, err := theme.Reload()
	if err != nil {
		// Mid-save files fail to parse; the next tick retries.
		w.logger.Debug("theme reload failed", "path", theme.Path, "error", err)
		return
	}
	if changed && callback != nil {
		callback(theme)
	}
}
