package gtkhost

import (
	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/graphene"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/jmylchreest/anchortip/internal/geom"
	"github.com/jmylchreest/anchortip/internal/tooltip"
)

type hook struct {
	widget *gtk.Widget
	tick   uint
}

// SetOrigin sets where the views' toplevel sits on the monitor. Wayland
// clients cannot query their window position, so callers that place their
// window (a layer-shell surface, say) report it here.
func (h *Host) SetOrigin(p geom.Point) { h.origin = p }

func widget(v tooltip.View) *gtk.Widget {
	w, ok := v.(gtk.Widgetter)
	if !ok || w == nil {
		return nil
	}
	return gtk.BaseWidget(w)
}

func rectOf(r *graphene.Rect) geom.Rect {
	return geom.XYWH(int(r.X()), int(r.Y()), int(r.Width()), int(r.Height()))
}

// bounds is the view's rect relative to its toplevel.
func bounds(w *gtk.Widget) (geom.Rect, bool) {
	root := w.Root()
	if root == nil {
		return geom.Rect{}, false
	}
	r, ok := w.ComputeBounds(root)
	if !ok || r == nil {
		return geom.Rect{}, false
	}
	return rectOf(r), true
}

func (h *Host) LocateOnScreen(v tooltip.View) geom.Point {
	w := widget(v)
	if w == nil {
		return geom.Point{}
	}
	r, _ := bounds(w)
	return geom.Point{X: h.origin.X + r.Left, Y: h.origin.Y + r.Top}
}

func (h *Host) ViewSize(v tooltip.View) geom.Size {
	w := widget(v)
	if w == nil {
		return geom.Size{}
	}
	return geom.Size{Width: w.Width(), Height: w.Height()}
}

func (h *Host) IsShown(v tooltip.View) bool {
	w := widget(v)
	return w != nil && w.IsVisible() && w.Mapped()
}

// VisibleRect clips the view by its toplevel and by the nearest scrolled
// window around it.
func (h *Host) VisibleRect(v tooltip.View) (geom.Rect, bool) {
	w := widget(v)
	if w == nil {
		return geom.Rect{}, false
	}
	r, ok := bounds(w)
	if !ok {
		return geom.Rect{}, false
	}

	root := w.Root()
	clip := geom.XYWH(0, 0, gtk.BaseWidget(root).Width(), gtk.BaseWidget(root).Height())
	if anc := w.Ancestor(gtk.GTypeScrolledWindow); anc != nil {
		if sr, ok := bounds(gtk.BaseWidget(anc)); ok {
			clip = clip.Intersect(sr)
		}
	}

	visible := r.Intersect(clip)
	if visible.Empty() {
		return geom.Rect{}, false
	}
	return visible.Translate(h.origin.X, h.origin.Y), true
}

// RegisterFrameHook runs fn from the view's tick callback.
func (h *Host) RegisterFrameHook(v tooltip.View, fn func()) tooltip.HookID {
	w := widget(v)
	if w == nil {
		return 0
	}
	h.nextHook++
	id := h.nextHook
	tick := w.AddTickCallback(func(gtk.Widgetter, gdk.FrameClocker) bool {
		fn()
		return true
	})
	h.hooks[id] = hook{widget: w, tick: tick}
	return id
}

func (h *Host) UnregisterFrameHook(_ tooltip.View, id tooltip.HookID) {
	hk, ok := h.hooks[id]
	if !ok {
		return
	}
	delete(h.hooks, id)
	hk.widget.RemoveTickCallback(hk.tick)
}

// AfterLayout waits for a frame in which the view is mapped with a size,
// which means a layout pass has placed it, then runs fn once.
func (h *Host) AfterLayout(v tooltip.View, fn func()) {
	w := widget(v)
	if w == nil {
		return
	}
	w.AddTickCallback(func(gtk.Widgetter, gdk.FrameClocker) bool {
		if !w.Mapped() || w.Width() == 0 && w.Height() == 0 {
			return true
		}
		fn()
		return false
	})
}
