package display

import (
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/jmylchreest/anchortip/internal/config"
	"github.com/jmylchreest/anchortip/internal/dbus"
	"github.com/jmylchreest/anchortip/internal/geom"
	"github.com/jmylchreest/anchortip/internal/theme"
	"github.com/jmylchreest/anchortip/internal/tooltip"
)

// Request describes a tooltip to show.
type Request struct {
	Target tooltip.Target
	Text   string
	// Colors as "#rrggbb"; empty uses the theme.
	Color     string
	TextColor string
	Bold      *bool
	// DismissOnTap overrides the configured behavior when set.
	DismissOnTap *bool
	// Timeout overrides the configured auto-dismiss: 0 never expires,
	// negative uses the configuration.
	Timeout time.Duration
}

// Entry describes an active tooltip.
type Entry struct {
	ID        string          `json:"id" yaml:"id"`
	Text      string          `json:"text" yaml:"text"`
	Target    geom.Rect       `json:"target" yaml:"target"`
	Position  geom.Point      `json:"position" yaml:"position"`
	Gravity   tooltip.Gravity `json:"gravity" yaml:"gravity"`
	Visible   bool            `json:"visible" yaml:"visible"`
	CreatedAt time.Time       `json:"created_at" yaml:"created_at"`
	ExpiresAt time.Time       `json:"expires_at,omitzero" yaml:"expires_at,omitempty"`
}

type tooltipState struct {
	tip       *tooltip.Tooltip
	createdAt time.Time
	expiresAt time.Time
	timer     *time.Timer
}

// CloseCallback is called when a tooltip is closed.
type CloseCallback func(id string, reason dbus.CloseReason)

// ShowCallback is called when a tooltip has been attached.
type ShowCallback func(id string)

// Manager keeps the active tooltips of a host. Show, Close and the
// accessors of the tooltips themselves must run on the host's UI loop;
// expiry timers come back through the poster.
type Manager struct {
	host    tooltip.Host
	metrics tooltip.Metrics
	logger  *slog.Logger
	post    func(func())

	mu     sync.RWMutex
	config *config.Config
	theme  *theme.Theme
	dark   bool
	active map[string]*tooltipState

	onClose CloseCallback
	onShow  ShowCallback
	now     func() time.Time
}

// NewManager creates a manager for host. Tooltips are drawn with metrics.
func NewManager(host tooltip.Host, metrics tooltip.Metrics, cfg *config.Config, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Manager{
		host:    host,
		metrics: metrics,
		logger:  logger,
		post:    func(fn func()) { fn() },
		config:  cfg,
		theme:   theme.NewDefaultTheme(),
		active:  make(map[string]*tooltipState),
		now:     time.Now,
	}
}

// SetPoster sets how expiry timers get back onto the UI loop.
func (m *Manager) SetPoster(post func(func())) {
	m.post = post
}

// SetTheme sets the palette for tooltips shown from now on.
func (m *Manager) SetTheme(th *theme.Theme, dark bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if th != nil {
		m.theme = th
	}
	m.dark = dark
}

// SetMetrics sets the sizes for tooltips shown from now on.
func (m *Manager) SetMetrics(metrics tooltip.Metrics) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.metrics = metrics
}

// SetCloseCallback sets the callback for close events.
func (m *Manager) SetCloseCallback(cb CloseCallback) {
	m.onClose = cb
}

// SetShowCallback sets the callback for show events.
func (m *Manager) SetShowCallback(cb ShowCallback) {
	m.onShow = cb
}

// Show creates, styles and shows a tooltip and returns its ID. When the
// configured maximum is reached the oldest tooltip is closed first.
func (m *Manager) Show(req Request) (string, error) {
	m.mu.RLock()
	cfg := m.config
	th := m.theme
	dark := m.dark
	metrics := m.metrics
	m.mu.RUnlock()

	tip, err := m.newTooltip(req, cfg, th, dark, metrics)
	if err != nil {
		return "", err
	}

	for m.ActiveCount() >= max(1, cfg.Daemon.MaxActive) {
		oldest := m.oldest()
		if oldest == "" {
			break
		}
		m.logger.Debug("closing oldest tooltip", "tooltip_id", oldest, "max_active", cfg.Daemon.MaxActive)
		m.Close(oldest, dbus.CloseReasonExpired)
	}

	id := tip.ID()
	state := &tooltipState{tip: tip, createdAt: m.now()}

	timeout := req.Timeout
	if timeout < 0 {
		timeout = cfg.TimeoutDuration()
	}
	if timeout > 0 {
		state.expiresAt = state.createdAt.Add(timeout)
		state.timer = time.AfterFunc(timeout, func() {
			m.post(func() { m.Close(id, dbus.CloseReasonExpired) })
		})
	}

	m.mu.Lock()
	m.active[id] = state
	m.mu.Unlock()

	if err := tip.Show(); err != nil {
		m.mu.Lock()
		delete(m.active, id)
		m.mu.Unlock()
		if state.timer != nil {
			state.timer.Stop()
		}
		return "", &DisplayError{Message: "failed to show tooltip", Cause: err}
	}

	m.logger.Debug("showed tooltip",
		"tooltip_id", id,
		"timeout", timeout,
		"active", m.ActiveCount(),
	)
	return id, nil
}

func (m *Manager) newTooltip(req Request, cfg *config.Config, th *theme.Theme, dark bool, metrics tooltip.Metrics) (*tooltip.Tooltip, error) {
	tip := tooltip.New(m.host, metrics, m.logger)
	if err := tip.SetTarget(req.Target); err != nil {
		return nil, &DisplayError{Message: "invalid target", Cause: err}
	}
	tip.SetText(req.Text)
	tip.SetTracking(cfg.Behavior.TrackTargets)

	balloon, text, err := th.Colors(cfg.Style, dark)
	if err != nil {
		return nil, &DisplayError{Message: "invalid style colors", Cause: err}
	}
	if req.Color != "" {
		if balloon, err = config.ParseColor(req.Color); err != nil {
			return nil, &DisplayError{Message: "invalid color", Cause: err}
		}
		if req.TextColor == "" {
			text = theme.ContrastText(balloon)
		}
	}
	if req.TextColor != "" {
		if text, err = config.ParseColor(req.TextColor); err != nil {
			return nil, &DisplayError{Message: "invalid text color", Cause: err}
		}
	}
	tip.SetColor(balloon)
	tip.SetTextColor(text)

	bold := cfg.Style.Bold
	if req.Bold != nil {
		bold = *req.Bold
	}
	tip.SetBold(bold)

	dismissOnTap := cfg.Behavior.DismissOnTap
	if req.DismissOnTap != nil {
		dismissOnTap = *req.DismissOnTap
	}
	tip.SetDismissOnTap(dismissOnTap)

	tip.OnShow(func(t *tooltip.Tooltip) {
		if m.onShow != nil {
			m.onShow(t.ID())
		}
	})
	// Taps dismiss the tooltip directly; Close removes the entry first.
	tip.OnDismiss(func(t *tooltip.Tooltip) {
		if m.remove(t.ID()) != nil && m.onClose != nil {
			m.onClose(t.ID(), dbus.CloseReasonDismissed)
		}
	})
	return tip, nil
}

func (m *Manager) remove(id string) *tooltipState {
	m.mu.Lock()
	defer m.mu.Unlock()
	state, ok := m.active[id]
	if !ok {
		return nil
	}
	delete(m.active, id)
	if state.timer != nil {
		state.timer.Stop()
	}
	return state
}

func (m *Manager) oldest() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var (
		id string
		at time.Time
	)
	for k, s := range m.active {
		if id == "" || s.createdAt.Before(at) {
			id, at = k, s.createdAt
		}
	}
	return id
}

// Close dismisses a tooltip. It returns false when id is not active.
func (m *Manager) Close(id string, reason dbus.CloseReason) bool {
	state := m.remove(id)
	if state == nil {
		return false
	}

	// Pending tooltips are cancelled so a later layout pass cannot attach them.
	if state.tip.State().Attached || state.tip.Pending() {
		if err := state.tip.Dismiss(); err != nil {
			m.logger.Warn("failed to dismiss tooltip", "tooltip_id", id, "error", err)
		}
	}

	if m.onClose != nil {
		m.onClose(id, reason)
	}

	m.logger.Debug("closed tooltip", "tooltip_id", id, "reason", reason.String())
	return true
}

// CloseAll dismisses every tooltip.
func (m *Manager) CloseAll(reason dbus.CloseReason) {
	for _, e := range m.Active() {
		m.Close(e.ID, reason)
	}
}

// Active returns the active tooltips, oldest first.
func (m *Manager) Active() []Entry {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entries := make([]Entry, 0, len(m.active))
	for id, s := range m.active {
		target, _ := s.tip.Resolved()
		entries = append(entries, Entry{
			ID:        id,
			Text:      s.tip.Text(),
			Target:    target,
			Position:  s.tip.Position(),
			Gravity:   s.tip.Gravity(),
			Visible:   s.tip.State().Visible,
			CreatedAt: s.createdAt,
			ExpiresAt: s.expiresAt,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].CreatedAt.Equal(entries[j].CreatedAt) {
			return entries[i].ID < entries[j].ID
		}
		return entries[i].CreatedAt.Before(entries[j].CreatedAt)
	})
	return entries
}

// ActiveCount returns the number of active tooltips.
func (m *Manager) ActiveCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.active)
}

// UpdateConfig applies a reloaded configuration. Tooltips over the new
// maximum are closed, oldest first.
func (m *Manager) UpdateConfig(cfg *config.Config) {
	m.mu.Lock()
	oldMax := m.config.Daemon.MaxActive
	m.config = cfg
	m.mu.Unlock()

	m.logger.Debug("display manager config updated",
		"old_max_active", oldMax,
		"new_max_active", cfg.Daemon.MaxActive,
	)

	for m.ActiveCount() > max(1, cfg.Daemon.MaxActive) {
		m.Close(m.oldest(), dbus.CloseReasonExpired)
	}
}

// Stop closes every tooltip.
func (m *Manager) Stop() {
	m.CloseAll(dbus.CloseReasonClosed)
	m.logger.Info("display manager stopped")
}

// DisplayError represents a display-related error.
type DisplayError struct {
	Message string
	Cause   error
}

func (e *DisplayError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *DisplayError) Unwrap() error {
	return e.Cause
}
