package daemon

import (
	"log/slog"
	"sync"
	"time"

	"github.com/jmylchreest/anchortip/internal/display"
	"github.com/jmylchreest/anchortip/internal/tooltip"
)

// NotificationLevel indicates the severity of an internal notification.
type NotificationLevel int

const (
	// NotificationLevelInfo uses the theme colors.
	NotificationLevelInfo NotificationLevel = iota
	// NotificationLevelWarning is shown on amber.
	NotificationLevelWarning
	// NotificationLevelError is shown on red.
	NotificationLevelError
)

func (l NotificationLevel) String() string {
	switch l {
	case NotificationLevelWarning:
		return "warning"
	case NotificationLevelError:
		return "error"
	default:
		return "info"
	}
}

// Balloon colors of the internal notification levels.
const (
	warningColor = "#df8e1d"
	errorColor   = "#d20f39"
)

// internalTimeout is how long internal notifications stay up.
const internalTimeout = 5 * time.Second

// InternalNotifier reports anchortipd's own events as tooltips. It rate
// limits repeats so a file saved in a loop does not flood the screen.
type InternalNotifier struct {
	mu     sync.Mutex
	logger *slog.Logger

	show   func(display.Request) (string, error)
	anchor func() tooltip.Target

	lastNotifyTime map[string]time.Time
	minInterval    time.Duration
	now            func() time.Time

	enabled bool
}

// NewInternalNotifier creates a new InternalNotifier.
func NewInternalNotifier(logger *slog.Logger) *InternalNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &InternalNotifier{
		logger:         logger,
		lastNotifyTime: make(map[string]time.Time),
		minInterval:    5 * time.Second,
		now:            time.Now,
		enabled:        true,
	}
}

// SetShowHandler sets the function that shows a tooltip. It is called on
// the goroutine that called Notify.
func (n *InternalNotifier) SetShowHandler(show func(display.Request) (string, error)) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.show = show
}

// SetAnchor sets where notifications point at.
func (n *InternalNotifier) SetAnchor(anchor func() tooltip.Target) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.anchor = anchor
}

// SetEnabled enables or disables internal notifications.
func (n *InternalNotifier) SetEnabled(enabled bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.enabled = enabled
}

// SetMinInterval sets the minimum interval between notifications with the
// same key.
func (n *InternalNotifier) SetMinInterval(interval time.Duration) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.minInterval = interval
}

// Notify shows text unless a notification with the same key was shown
// within the minimum interval.
func (n *InternalNotifier) Notify(key, text string, level NotificationLevel) {
	n.mu.Lock()
	if !n.enabled {
		n.mu.Unlock()
		return
	}
	show, anchor := n.show, n.anchor
	if show == nil || anchor == nil {
		n.mu.Unlock()
		n.logger.Debug("internal notification skipped: no handler", "text", text)
		return
	}

	now := n.now()
	if last, ok := n.lastNotifyTime[key]; ok && now.Sub(last) < n.minInterval {
		n.mu.Unlock()
		n.logger.Debug("internal notification rate-limited", "key", key)
		return
	}
	n.lastNotifyTime[key] = now
	n.mu.Unlock()

	req := display.Request{
		Target:  anchor(),
		Text:    text,
		Timeout: internalTimeout,
	}
	switch level {
	case NotificationLevelWarning:
		req.Color = warningColor
	case NotificationLevelError:
		req.Color = errorColor
	}

	n.logger.Debug("sending internal notification", "key", key, "level", level.String())
	if _, err := show(req); err != nil {
		n.logger.Warn("failed to show internal notification", "key", key, "error", err)
	}
}

// NotifyConfigReloaded reports a successful config reload.
func (n *InternalNotifier) NotifyConfigReloaded() {
	n.Notify("config-reload", "Configuration reloaded", NotificationLevelInfo)
}

// NotifyConfigError reports a rejected config file.
func (n *InternalNotifier) NotifyConfigError(err error) {
	n.Notify("config-error", "Configuration error: "+err.Error(), NotificationLevelWarning)
}

// NotifyThemeReloaded reports a theme change.
func (n *InternalNotifier) NotifyThemeReloaded(themeName string) {
	n.Notify("theme-reload", "Theme '"+themeName+"' reloaded", NotificationLevelInfo)
}

// NotifyThemeError reports a theme that failed to render.
func (n *InternalNotifier) NotifyThemeError(err error) {
	n.Notify("theme-error", "Theme error: "+err.Error(), NotificationLevelError)
}
