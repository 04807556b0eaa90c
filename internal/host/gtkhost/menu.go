package gtkhost

import (
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/jmylchreest/anchortip/internal/tooltip"
)

// Bar is the part of a header bar the menu needs. Both gtk.HeaderBar and
// adw.HeaderBar satisfy it.
type Bar interface {
	PackEnd(child gtk.Widgetter)
	Remove(child gtk.Widgetter)
}

// MenuItem is an entry of a Menu. Entries in the overflow popover have no
// button of their own.
type MenuItem struct {
	ID string

	action   gtk.Widgetter
	fallback gtk.Widgetter
	inBar    bool
}

// Menu maps action names to the header bar buttons that activate them.
type Menu struct {
	bar   Bar
	items []*MenuItem
}

// NewMenu creates an empty menu on bar.
func NewMenu(bar Bar) *Menu {
	return &Menu{bar: bar}
}

// AddButton packs a button for action "app.<id>" and returns it.
func (m *Menu) AddButton(id, iconName, tooltipText string) *gtk.Button {
	btn := gtk.NewButtonFromIconName(iconName)
	btn.SetActionName("app." + id)
	btn.SetTooltipText(tooltipText)
	m.bar.PackEnd(btn)
	m.items = append(m.items, &MenuItem{ID: id, action: btn, fallback: btn, inBar: true})
	return btn
}

// AddOverflow registers an entry that only lives in the overflow popover.
func (m *Menu) AddOverflow(id string) {
	m.items = append(m.items, &MenuItem{ID: id})
}

func (h *Host) FindMenuItem(menu tooltip.Menu, id string) (tooltip.MenuItem, bool) {
	m, ok := menu.(*Menu)
	if !ok || m == nil {
		return nil, false
	}
	for _, item := range m.items {
		if item.ID == id {
			return &menuRef{menu: m, item: item}, true
		}
	}
	return nil, false
}

type menuRef struct {
	menu *Menu
	item *MenuItem
}

func (h *Host) ActionView(item tooltip.MenuItem) (tooltip.View, bool) {
	ref := item.(*menuRef)
	if ref.item.action == nil {
		return nil, false
	}
	return ref.item.action, true
}

// SetActionView packs v at the end of the bar in place of the item's
// button. nil removes it again and restores the button.
func (h *Host) SetActionView(item tooltip.MenuItem, v tooltip.View) {
	ref := item.(*menuRef)
	it := ref.item
	if it.action != nil && it.action != it.fallback {
		ref.menu.bar.Remove(it.action)
	}
	if v == nil {
		it.action = it.fallback
		return
	}
	w := v.(gtk.Widgetter)
	ref.menu.bar.PackEnd(w)
	it.action = w
}

// NewPlaceholder returns an empty box. Packed at the end of the bar it
// lands next to the overflow button.
func (h *Host) NewPlaceholder(item tooltip.MenuItem) tooltip.View {
	box := gtk.NewBox(gtk.OrientationHorizontal, 0)
	box.SetSizeRequest(1, 1)
	return box
}

// Scene names the widgets of a window so tours can target them.
type Scene struct {
	Views map[string]gtk.Widgetter
	Bar   *Menu
}

func (s Scene) View(name string) (tooltip.View, bool) {
	w, ok := s.Views[name]
	if !ok {
		return nil, false
	}
	return w, true
}

func (s Scene) Menu() tooltip.Menu {
	if s.Bar == nil {
		return nil
	}
	return s.Bar
}
