package config

import (
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches the config file and reloads it when it changes.
// A file that fails to parse or validate is reported to the error callback
// and the last good config stays current.
type Watcher struct {
	mu      sync.RWMutex
	logger  *slog.Logger
	watcher *fsnotify.Watcher

	path    string
	current *Config

	onReload func(cfg *Config)
	onError  func(err error)

	done    chan struct{}
	stopped chan struct{}
	running bool
}

// NewWatcher creates a watcher for the config file at path.
// An empty path uses ConfigPath().
func NewWatcher(path string, initial *Config, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if path == "" {
		path = ConfigPath()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		logger:  logger,
		watcher: fsw,
		path:    path,
		current: initial,
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}, nil
}

// SetReloadCallback sets the callback invoked with each successfully reloaded config.
func (w *Watcher) SetReloadCallback(callback func(cfg *Config)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onReload = callback
}

// SetErrorCallback sets the callback invoked when a changed file is rejected.
func (w *Watcher) SetErrorCallback(callback func(err error)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onError = callback
}

// Current returns the last valid configuration.
func (w *Watcher) Current() *Config {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

// Start begins watching. The containing directory is watched because
// editors usually replace the file rather than write it in place.
func (w *Watcher) Start() error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		return err
	}

	go w.watch()
	w.logger.Debug("config watcher started", "path", w.path)
	return nil
}

func (w *Watcher) watch() {
	defer close(w.stopped)
	filename := filepath.Base(w.path)

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filename {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				w.reload()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("config watcher error", "error", err)

		case <-w.done:
			return
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := LoadConfig(w.path)

	w.mu.Lock()
	reload, onErr := w.onReload, w.onError
	if err == nil {
		w.current = cfg
	}
	w.mu.Unlock()

	if err != nil {
		w.logger.Warn("config reload rejected", "path", w.path, "error", err)
		if onErr != nil {
			onErr(err)
		}
		return
	}

	w.logger.Info("config reloaded", "path", w.path)
	if reload != nil {
		reload(cfg)
	}
}

// Stop stops the watcher and waits for the watch loop to exit.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = false
	close(w.done)
	w.mu.Unlock()

	err := w.watcher.Close()
	<-w.stopped
	w.logger.Debug("config watcher stopped")
	return err
}
