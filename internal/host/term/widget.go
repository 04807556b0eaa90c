package term

import (
	"github.com/mattn/go-runewidth"

	"github.com/jmylchreest/anchortip/internal/geom"
)

// Widget is a labelled rectangle on the screen. Widgets are the views
// tooltips anchor to.
type Widget struct {
	Name     string
	Label    string
	Bounds   geom.Rect // relative to its pane, or the screen
	Hidden   bool
	Selected bool

	pane        *Pane
	attached    bool
	placeholder bool
}

// Pane is a vertically scrolling region of the screen.
type Pane struct {
	Area    geom.Rect
	offset  int
	widgets []*Widget
}

// Add places a widget inside the pane at content coordinates.
func (p *Pane) Add(w *Widget) *Widget {
	w.pane = p
	w.attached = true
	p.widgets = append(p.widgets, w)
	return w
}

// Offset returns the current scroll offset in rows.
func (p *Pane) Offset() int { return p.offset }

// ContentHeight is the height of the pane's content.
func (p *Pane) ContentHeight() int {
	h := 0
	for _, w := range p.widgets {
		h = max(h, w.Bounds.Bottom)
	}
	return h
}

// ScrollTo sets the scroll offset, clamped to the content.
func (p *Pane) ScrollTo(offset int) {
	p.offset = geom.Trim(offset, 0, max(0, p.ContentHeight()-p.Area.Height()))
}

// ScrollBy scrolls by delta rows.
func (p *Pane) ScrollBy(delta int) { p.ScrollTo(p.offset + delta) }

// MenuItem is an entry of the menu bar.
type MenuItem struct {
	ID        string
	Label     string
	Collapsed bool // shown in the overflow menu

	action   *Widget
	fallback *Widget
	slot     geom.Rect
}

// MenuBar is the top row of the screen. Visible items are laid out right
// aligned, collapsed items behind an overflow button.
type MenuBar struct {
	Title string
	Items []*MenuItem

	overflow geom.Rect
}

const overflowLabel = "⋮"

// NewMenuItem creates an item. A non-nil action view is used as the
// item's widget in the bar.
func NewMenuItem(id, label string, action *Widget) *MenuItem {
	if action != nil {
		action.attached = true
	}
	return &MenuItem{ID: id, Label: label, action: action, fallback: action}
}

func (m *MenuBar) find(id string) (*MenuItem, bool) {
	for _, item := range m.Items {
		if item.ID == id {
			return item, true
		}
	}
	return nil, false
}

func slotWidth(label string) int {
	return runewidth.StringWidth(label) + 2
}

// layout assigns each item a slot on row 0 of a screen width wide.
func (m *MenuBar) layout(width int) {
	total := 0
	collapsed := false
	for _, item := range m.Items {
		if item.Collapsed {
			collapsed = true
			continue
		}
		total += slotWidth(item.Label)
	}
	if collapsed {
		total += slotWidth(overflowLabel)
	}

	x := width - total
	for _, item := range m.Items {
		if item.Collapsed {
			continue
		}
		w := slotWidth(item.Label)
		item.slot = geom.XYWH(x, 0, w, 1)
		x += w
	}

	m.overflow = geom.Rect{}
	if collapsed {
		m.overflow = geom.XYWH(x, 0, slotWidth(overflowLabel), 1)
	}

	for _, item := range m.Items {
		if item.Collapsed {
			item.slot = m.overflow
		}
		if item.action != nil {
			item.action.Bounds = item.slot
			item.action.attached = true
		}
	}
}
