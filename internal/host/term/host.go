// Package term is a terminal cell-grid host for tooltips. Views are
// labelled widgets, overlays are composited over the screen with lipgloss,
// and the owner drives layout and frames explicitly.
package term

import (
	"errors"
	"log/slog"
	"sort"

	"github.com/jmylchreest/anchortip/internal/geom"
	"github.com/jmylchreest/anchortip/internal/tooltip"
)

// Metrics returns tooltip metrics in cells.
func Metrics() tooltip.Metrics {
	return tooltip.Metrics{
		ArrowSide:         1,
		CornerRadius:      1,
		PaddingVertical:   0,
		PaddingHorizontal: 1,
		TextSize:          1,
	}
}

type overlayWindow struct {
	overlay *tooltip.Overlay
	origin  geom.Point
	visible bool
	seq     uint64
}

type frameHook struct {
	id   tooltip.HookID
	view *Widget
	fn   func()
}

type layoutCallback struct {
	view *Widget
	fn   func()
}

// Host is a terminal screen implementing tooltip.Host and tooltip.MenuHost.
// It is not safe for concurrent use.
type Host struct {
	logger *slog.Logger
	size   geom.Size

	widgets []*Widget
	panes   []*Pane
	menu    *MenuBar

	windows map[*tooltip.Overlay]*overlayWindow
	taps    map[*tooltip.Overlay]func()
	seq     uint64

	hooks    []frameHook
	nextHook tooltip.HookID
	pending  []layoutCallback
}

var (
	_ tooltip.Host     = (*Host)(nil)
	_ tooltip.MenuHost = (*Host)(nil)
)

// ErrNoSize is returned by Viewport before the terminal size is known.
var ErrNoSize = errors.New("terminal size unknown")

// New creates a host for a screen of the given size in cells.
func New(size geom.Size, logger *slog.Logger) *Host {
	if logger == nil {
		logger = slog.Default()
	}
	return &Host{
		logger:  logger,
		size:    size,
		windows: make(map[*tooltip.Overlay]*overlayWindow),
		taps:    make(map[*tooltip.Overlay]func()),
	}
}

// Resize changes the screen size.
func (h *Host) Resize(size geom.Size) { h.size = size }

// Size returns the screen size.
func (h *Host) Size() geom.Size { return h.size }

// Reset detaches every widget, pane and the menu so a new screen can be
// built. Layout callbacks still waiting are dropped. Overlays are left alone.
func (h *Host) Reset() {
	for _, w := range h.allWidgets() {
		w.attached = false
	}
	h.pending = nil
	h.widgets = nil
	h.panes = nil
	h.menu = nil
}

// Add places a widget at screen coordinates.
func (h *Host) Add(w *Widget) *Widget {
	w.pane = nil
	w.attached = true
	h.widgets = append(h.widgets, w)
	return w
}

// AddPane adds a scrolling region.
func (h *Host) AddPane(area geom.Rect) *Pane {
	p := &Pane{Area: area}
	h.panes = append(h.panes, p)
	return p
}

// SetMenu installs the menu bar on row 0.
func (h *Host) SetMenu(m *MenuBar) { h.menu = m }

// View looks up a widget by name, including menu action views.
func (h *Host) View(name string) (tooltip.View, bool) {
	for _, w := range h.allWidgets() {
		if w.Name == name && !w.placeholder {
			return w, true
		}
	}
	return nil, false
}

// Menu returns the menu bar, or nil when the screen has none.
func (h *Host) Menu() tooltip.Menu {
	if h.menu == nil {
		return nil
	}
	return h.menu
}

func (h *Host) allWidgets() []*Widget {
	all := append([]*Widget(nil), h.widgets...)
	for _, p := range h.panes {
		all = append(all, p.widgets...)
	}
	if h.menu != nil {
		for _, item := range h.menu.Items {
			if item.action != nil {
				all = append(all, item.action)
			}
		}
	}
	return all
}

// Layout lays out the menu bar and runs the callbacks waiting for a layout
// pass of an attached view.
func (h *Host) Layout() {
	if h.menu != nil {
		h.menu.layout(h.size.Width)
	}

	pending := h.pending
	h.pending = nil
	for _, cb := range pending {
		if !cb.view.attached {
			h.pending = append(h.pending, cb)
			continue
		}
		cb.fn()
	}
}

// Frame runs the frame hooks of attached views in registration order.
func (h *Host) Frame() {
	hooks := append([]frameHook(nil), h.hooks...)
	for _, hook := range hooks {
		if !h.hookRegistered(hook.id) || !hook.view.attached {
			continue
		}
		hook.fn()
	}
}

func (h *Host) hookRegistered(id tooltip.HookID) bool {
	for _, hook := range h.hooks {
		if hook.id == id {
			return true
		}
	}
	return false
}

// Draw lays out, runs a frame and renders the screen.
func (h *Host) Draw() string {
	h.Layout()
	h.Frame()
	return h.Render()
}

// Tap delivers a tap at p to the topmost visible overlay under it.
func (h *Host) Tap(p geom.Point) bool {
	for _, win := range h.stack() {
		if !win.visible {
			continue
		}
		if !geom.FromPoint(win.origin, win.overlay.Layout.Size).Contains(p) {
			continue
		}
		if fn := h.taps[win.overlay]; fn != nil {
			fn()
		}
		return true
	}
	return false
}

// stack returns overlay windows topmost first.
func (h *Host) stack() []*overlayWindow {
	wins := make([]*overlayWindow, 0, len(h.windows))
	for _, win := range h.windows {
		wins = append(wins, win)
	}
	sort.Slice(wins, func(i, j int) bool { return wins[i].seq > wins[j].seq })
	return wins
}

// Overlays returns the number of attached overlays.
func (h *Host) Overlays() int { return len(h.windows) }

func (h *Host) Viewport() (geom.Size, error) {
	if h.size.IsZero() {
		return geom.Size{}, ErrNoSize
	}
	return h.size, nil
}

func (h *Host) Measure(v tooltip.Visual, bounds geom.Size) geom.Size {
	b, ok := v.(*balloon)
	if !ok {
		return geom.Size{}
	}
	b.render(bounds.Width)
	return b.size
}

func (h *Host) NewBalloon(style tooltip.BalloonStyle) tooltip.Visual {
	return &balloon{style: style}
}

func (h *Host) NewArrow(style tooltip.ArrowStyle) tooltip.Visual {
	return &arrow{style: style}
}

func (h *Host) ClearOverlay(o *tooltip.Overlay) {
	if b, ok := o.Balloon.(*balloon); ok {
		b.lines = nil
	}
}

func (h *Host) LocateOnScreen(v tooltip.View) geom.Point {
	return screenRect(v.(*Widget)).Origin()
}

func (h *Host) ViewSize(v tooltip.View) geom.Size {
	return v.(*Widget).Bounds.Size()
}

func (h *Host) IsShown(v tooltip.View) bool {
	w := v.(*Widget)
	return w.attached && !w.Hidden
}

func (h *Host) VisibleRect(v tooltip.View) (geom.Rect, bool) {
	w := v.(*Widget)
	r := screenRect(w).Intersect(geom.XYWH(0, 0, h.size.Width, h.size.Height))
	if w.pane != nil {
		r = r.Intersect(w.pane.Area)
	}
	return r, !r.Empty()
}

func screenRect(w *Widget) geom.Rect {
	if w.pane == nil {
		return w.Bounds
	}
	return w.Bounds.Translate(w.pane.Area.Left, w.pane.Area.Top-w.pane.offset)
}

func (h *Host) AttachOverlay(o *tooltip.Overlay, pos geom.Point) {
	h.seq++
	h.windows[o] = &overlayWindow{overlay: o, seq: h.seq}
	h.UpdateOverlay(o, pos)
	h.logger.Debug("overlay attached", "tooltip_id", o.ID, "x", pos.X, "y", pos.Y)
}

func (h *Host) UpdateOverlay(o *tooltip.Overlay, pos geom.Point) {
	win, ok := h.windows[o]
	if !ok {
		return
	}
	win.origin = geom.ClampOrigin(pos, o.Layout.Size, h.size)
	win.visible = o.Visible
}

func (h *Host) SetOverlayVisible(o *tooltip.Overlay, visible bool) {
	if win, ok := h.windows[o]; ok {
		win.visible = visible
	}
}

func (h *Host) DetachOverlay(o *tooltip.Overlay) {
	delete(h.windows, o)
	delete(h.taps, o)
	h.logger.Debug("overlay detached", "tooltip_id", o.ID)
}

func (h *Host) OnOverlayTap(o *tooltip.Overlay, fn func()) {
	h.taps[o] = fn
}

func (h *Host) RegisterFrameHook(v tooltip.View, fn func()) tooltip.HookID {
	h.nextHook++
	h.hooks = append(h.hooks, frameHook{id: h.nextHook, view: v.(*Widget), fn: fn})
	return h.nextHook
}

func (h *Host) UnregisterFrameHook(_ tooltip.View, id tooltip.HookID) {
	for i, hook := range h.hooks {
		if hook.id == id {
			h.hooks = append(h.hooks[:i], h.hooks[i+1:]...)
			return
		}
	}
}

// Hooks returns the number of registered frame hooks.
func (h *Host) Hooks() int { return len(h.hooks) }

func (h *Host) AfterLayout(v tooltip.View, fn func()) {
	h.pending = append(h.pending, layoutCallback{view: v.(*Widget), fn: fn})
}

func (h *Host) FindMenuItem(menu tooltip.Menu, id string) (tooltip.MenuItem, bool) {
	bar, ok := menu.(*MenuBar)
	if !ok || bar == nil {
		return nil, false
	}
	item, ok := bar.find(id)
	if !ok {
		return nil, false
	}
	return item, true
}

func (h *Host) ActionView(item tooltip.MenuItem) (tooltip.View, bool) {
	mi := item.(*MenuItem)
	if mi.action == nil {
		return nil, false
	}
	return mi.action, true
}

func (h *Host) SetActionView(item tooltip.MenuItem, v tooltip.View) {
	mi := item.(*MenuItem)
	if mi.action != nil && mi.action != mi.fallback {
		mi.action.attached = false
	}
	if v == nil {
		mi.action = mi.fallback
		return
	}
	mi.action = v.(*Widget)
}

// NewPlaceholder returns an empty widget that takes the item's slot on the
// next layout pass. Collapsed items take the overflow button's slot.
func (h *Host) NewPlaceholder(item tooltip.MenuItem) tooltip.View {
	mi := item.(*MenuItem)
	return &Widget{Name: mi.ID, placeholder: true}
}
