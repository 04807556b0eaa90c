package tui

import (
	"fmt"

	"github.com/jmylchreest/anchortip/internal/geom"
	"github.com/jmylchreest/anchortip/internal/host/term"
)

// Screen identifies a demo screen. Tours name the screen they run on.
type Screen int

const (
	ScreenHome Screen = iota
	ScreenButtons
	ScreenList
)

var screenNames = map[Screen]string{
	ScreenHome:    "home",
	ScreenButtons: "buttons",
	ScreenList:    "list",
}

// screenTours is the tour started when a screen opens.
var screenTours = map[Screen]string{
	ScreenHome:    "welcome",
	ScreenButtons: "buttons",
	ScreenList:    "list",
}

func (s Screen) String() string {
	if name, ok := screenNames[s]; ok {
		return name
	}
	return fmt.Sprintf("screen(%d)", int(s))
}

// ParseScreen parses a screen name.
func ParseScreen(name string) (Screen, error) {
	for s, n := range screenNames {
		if n == name {
			return s, nil
		}
	}
	return ScreenHome, fmt.Errorf("unknown screen %q", name)
}

// homeChoices are the screens reachable from home, in display order.
var homeChoices = []Screen{ScreenButtons, ScreenList}

const (
	buttonWidth  = 14
	buttonHeight = 3
	listRows     = 60
)

// build lays out screen s on the host. It returns the list pane, if any.
func build(h *term.Host, s Screen, selected int) *term.Pane {
	h.Reset()
	size := h.Size()
	w, ht := size.Width, size.Height

	switch s {
	case ScreenButtons:
		h.SetMenu(&term.MenuBar{
			Title: "Buttons",
			Items: []*term.MenuItem{
				term.NewMenuItem("search", "Search", nil),
				term.NewMenuItem("share", "Share", nil),
				{ID: "settings", Label: "Settings", Collapsed: true},
			},
		})
		right := w - buttonWidth - 1
		bottom := ht - buttonHeight - 1
		for _, b := range []struct {
			name, label string
			x, y        int
		}{
			{"top-left", "Top left", 1, 2},
			{"top-right", "Top right", right, 2},
			{"center", "Center", w/2 - buttonWidth/2, ht/2 - 1},
			{"bottom-left", "Bottom left", 1, bottom},
			{"bottom-right", "Bottom right", right, bottom},
		} {
			h.Add(&term.Widget{Name: b.name, Label: b.label, Bounds: geom.XYWH(b.x, b.y, buttonWidth, buttonHeight)})
		}
		return nil

	case ScreenList:
		h.SetMenu(&term.MenuBar{
			Title: "List",
			Items: []*term.MenuItem{
				term.NewMenuItem("filter", "Filter", &term.Widget{Name: "filter"}),
			},
		})
		pane := h.AddPane(geom.XYWH(0, 1, w, ht-1))
		for i := 0; i < listRows; i++ {
			pane.Add(&term.Widget{
				Name:     fmt.Sprintf("row-%d", i),
				Label:    fmt.Sprintf("Item %d", i),
				Bounds:   geom.XYWH(0, i, w, 1),
				Selected: i == selected,
			})
		}
		return pane

	default:
		h.SetMenu(&term.MenuBar{
			Title: "anchortip demo",
			Items: []*term.MenuItem{
				term.NewMenuItem("help", "Help", nil),
				{ID: "tours", Label: "Tours", Collapsed: true},
			},
		})
		for i, choice := range homeChoices {
			x := w/2 - 22 + i*24
			h.Add(&term.Widget{
				Name:     choice.String(),
				Label:    titleCase(choice.String()),
				Bounds:   geom.XYWH(x, ht/2-1, 20, buttonHeight),
				Selected: i == selected,
			})
		}
		return nil
	}
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
