package theme

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// Loader resolves theme names and keeps the current theme hot-reloaded.
type Loader struct {
	mu        sync.RWMutex
	logger    *slog.Logger
	themesDir string
	theme     *Theme
	watcher   *Watcher
	onChange  func(*Theme)
}

// NewLoader creates a loader reading user themes from themesDir.
// An empty themesDir uses ThemesDir().
func NewLoader(themesDir string, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}

	if themesDir == "" {
		dir, err := ThemesDir()
		if err != nil {
			logger.Warn("failed to get themes directory", "error", err)
		}
		themesDir = dir
	}

	return &Loader{
		logger:    logger,
		themesDir: themesDir,
		theme:     NewDefaultTheme(),
	}
}

// LoadTheme loads a theme by name.
// Theme resolution order:
//  1. User themes directory (~/.config/anchortip/themes/<name>.toml)
//  2. Embedded/bundled themes
//  3. The default theme
func (l *Loader) LoadTheme(name string) *Theme {
	l.mu.Lock()
	defer l.mu.Unlock()

	if name == "" {
		name = DefaultThemeName
	}

	if l.themesDir != "" {
		path := filepath.Join(l.themesDir, name+".toml")
		if _, err := os.Stat(path); err == nil {
			theme, err := NewTheme(name, path)
			if err != nil {
				l.logger.Warn("failed to load user theme, trying bundled", "theme", name, "error", err)
			} else {
				l.theme = theme
				l.logger.Info("loaded user theme", "name", name, "path", path)
				return theme
			}
		}
	}

	if theme, err := NewBundledTheme(name); err == nil {
		l.theme = theme
		l.logger.Debug("loaded bundled theme", "name", name)
		return theme
	}

	l.logger.Warn("theme not found, using default", "theme", name)
	l.theme = NewDefaultTheme()
	return l.theme
}

// Theme returns the currently loaded theme.
func (l *Loader) Theme() *Theme {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.theme
}

// SetChangeCallback sets the callback invoked after a hot reload.
func (l *Loader) SetChangeCallback(callback func(*Theme)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onChange = callback
}

// StartHotReload starts watching the current user theme for changes.
// Bundled themes are never watched.
func (l *Loader) StartHotReload(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.theme == nil || l.theme.IsBundled {
		l.logger.Debug("not starting hot-reload for bundled theme")
		return
	}

	if l.watcher != nil {
		l.watcher.Stop()
	}

	l.watcher = NewWatcher(l.theme, l.logger)
	l.watcher.SetChangeCallback(func(theme *Theme) {
		l.mu.RLock()
		callback := l.onChange
		l.mu.RUnlock()
		l.logger.Info("hot-reloaded theme", "name", theme.Name)
		if callback != nil {
			callback(theme)
		}
	})

	if err := l.watcher.Start(ctx); err != nil {
		l.logger.Warn("failed to start theme watcher", "error", err)
	}
}

// StopHotReload stops watching the theme for changes.
func (l *Loader) StopHotReload() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.watcher != nil {
		l.watcher.Stop()
		l.watcher = nil
	}
}

// ListThemes returns the bundled themes followed by the user themes that
// do not shadow a bundled one.
func (l *Loader) ListThemes() []ThemeInfo {
	infos, err := listThemes(l.themesDir)
	if err != nil {
		l.logger.Debug("failed to read themes directory", "error", err)
	}
	return infos
}
