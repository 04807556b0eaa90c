package tooltip

import (
	"github.com/jmylchreest/anchortip/internal/geom"
)

type fakeView struct {
	name  string
	rect  geom.Rect
	shown bool
}

type fakeVisual struct {
	kind    string
	balloon BalloonStyle
	arrow   ArrowStyle
	cleared bool
}

type fakeHook struct {
	view View
	fn   func()
}

// fakeHost records every call a tooltip makes.
type fakeHost struct {
	viewport    geom.Size
	viewportErr error
	balloonSize geom.Size

	visuals     []*fakeVisual
	attached    map[*Overlay]geom.Point
	visible     map[*Overlay]bool
	taps        map[*Overlay]func()
	hooks       map[HookID]fakeHook
	nextHook    HookID
	afterLayout []func()

	attachCount   int
	detachCount   int
	updateCount   int
	measureBounds []geom.Size
	calls         []string
}

func newFakeHost(vp geom.Size) *fakeHost {
	return &fakeHost{
		viewport:    vp,
		balloonSize: geom.Size{Width: 160, Height: 80},
		attached:    make(map[*Overlay]geom.Point),
		visible:     make(map[*Overlay]bool),
		taps:        make(map[*Overlay]func()),
		hooks:       make(map[HookID]fakeHook),
	}
}

func (h *fakeHost) Viewport() (geom.Size, error) {
	return h.viewport, h.viewportErr
}

func (h *fakeHost) Measure(v Visual, bounds geom.Size) geom.Size {
	h.measureBounds = append(h.measureBounds, bounds)
	return h.balloonSize
}

func (h *fakeHost) NewBalloon(style BalloonStyle) Visual {
	v := &fakeVisual{kind: "balloon", balloon: style}
	h.visuals = append(h.visuals, v)
	return v
}

func (h *fakeHost) NewArrow(style ArrowStyle) Visual {
	v := &fakeVisual{kind: "arrow", arrow: style}
	h.visuals = append(h.visuals, v)
	return v
}

func (h *fakeHost) ClearOverlay(o *Overlay) {
	h.calls = append(h.calls, "clear")
	for _, v := range []Visual{o.Balloon, o.Arrow} {
		if fv, ok := v.(*fakeVisual); ok {
			fv.cleared = true
		}
	}
}

// liveVisuals counts visuals that have not been cleared.
func (h *fakeHost) liveVisuals() int {
	n := 0
	for _, v := range h.visuals {
		if !v.cleared {
			n++
		}
	}
	return n
}

func (h *fakeHost) LocateOnScreen(v View) geom.Point {
	return v.(*fakeView).rect.Origin()
}

func (h *fakeHost) ViewSize(v View) geom.Size {
	return v.(*fakeView).rect.Size()
}

func (h *fakeHost) IsShown(v View) bool {
	return v.(*fakeView).shown
}

func (h *fakeHost) VisibleRect(v View) (geom.Rect, bool) {
	clip := v.(*fakeView).rect.Intersect(geom.XYWH(0, 0, h.viewport.Width, h.viewport.Height))
	return clip, !clip.Empty()
}

func (h *fakeHost) AttachOverlay(o *Overlay, pos geom.Point) {
	h.calls = append(h.calls, "attach")
	h.attachCount++
	h.attached[o] = pos
	h.visible[o] = o.Visible
}

func (h *fakeHost) UpdateOverlay(o *Overlay, pos geom.Point) {
	h.calls = append(h.calls, "update")
	h.updateCount++
	h.attached[o] = pos
}

func (h *fakeHost) SetOverlayVisible(o *Overlay, visible bool) {
	h.calls = append(h.calls, "visible")
	h.visible[o] = visible
}

func (h *fakeHost) DetachOverlay(o *Overlay) {
	h.calls = append(h.calls, "detach")
	h.detachCount++
	delete(h.attached, o)
	delete(h.visible, o)
}

func (h *fakeHost) OnOverlayTap(o *Overlay, fn func()) {
	h.taps[o] = fn
}

func (h *fakeHost) RegisterFrameHook(v View, fn func()) HookID {
	h.calls = append(h.calls, "hook")
	h.nextHook++
	h.hooks[h.nextHook] = fakeHook{view: v, fn: fn}
	return h.nextHook
}

func (h *fakeHost) UnregisterFrameHook(v View, id HookID) {
	h.calls = append(h.calls, "unhook")
	delete(h.hooks, id)
}

func (h *fakeHost) AfterLayout(v View, fn func()) {
	h.afterLayout = append(h.afterLayout, fn)
}

// frame runs every registered hook once.
func (h *fakeHost) frame() {
	for _, hk := range h.hooks {
		hk.fn()
	}
}

// layout runs the pending after-layout callbacks.
func (h *fakeHost) layout() {
	pending := h.afterLayout
	h.afterLayout = nil
	for _, fn := range pending {
		fn()
	}
}

type fakeItem struct {
	id         string
	actionView View
	slot       geom.Rect
	history    []View
}

// fakeMenuHost adds a menu bar whose items are laid out in fixed slots.
type fakeMenuHost struct {
	*fakeHost
	items map[string]*fakeItem
}

func newFakeMenuHost(vp geom.Size) *fakeMenuHost {
	return &fakeMenuHost{fakeHost: newFakeHost(vp), items: make(map[string]*fakeItem)}
}

func (h *fakeMenuHost) FindMenuItem(menu Menu, id string) (MenuItem, bool) {
	item, ok := h.items[id]
	return item, ok
}

func (h *fakeMenuHost) ActionView(item MenuItem) (View, bool) {
	it := item.(*fakeItem)
	return it.actionView, it.actionView != nil
}

func (h *fakeMenuHost) SetActionView(item MenuItem, v View) {
	it := item.(*fakeItem)
	it.history = append(it.history, v)
	it.actionView = v
}

func (h *fakeMenuHost) NewPlaceholder(item MenuItem) View {
	it := item.(*fakeItem)
	return &fakeView{name: it.id + "-placeholder", rect: it.slot, shown: true}
}
