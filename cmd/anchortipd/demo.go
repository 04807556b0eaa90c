package main

import (
	"fmt"
	"log/slog"

	"github.com/diamondburned/gotk4-adwaita/pkg/adw"
	layershell "github.com/diamondburned/gotk4-layer-shell/pkg/gtk4layershell"
	"github.com/diamondburned/gotk4/pkg/gio/v2"
	"github.com/diamondburned/gotk4/pkg/glib/v2"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/jmylchreest/anchortip/internal/daemon"
	"github.com/jmylchreest/anchortip/internal/dbus"
	"github.com/jmylchreest/anchortip/internal/display"
	"github.com/jmylchreest/anchortip/internal/geom"
	"github.com/jmylchreest/anchortip/internal/host/gtkhost"
	"github.com/jmylchreest/anchortip/internal/tour"
)

// demoRun steps through a tour in the demo window.
type demoRun struct {
	tour    *tour.Tour
	scene   gtkhost.Scene
	manager *display.Manager
	logger  *slog.Logger
	step    int
	current string
}

func (r *demoRun) next() {
	if r.current != "" {
		r.manager.Close(r.current, dbus.CloseReasonClosed)
		r.current = ""
	}
	if r.step >= len(r.tour.Steps) {
		r.logger.Info("demo tour finished", "tour", r.tour.Name)
		return
	}

	step := r.tour.Steps[r.step]
	r.step++

	target, err := step.Target.Resolve(r.scene)
	if err != nil {
		r.logger.Warn("skipping demo step", "target", step.Target.String(), "error", err)
		r.next()
		return
	}
	id, err := r.manager.Show(display.Request{
		Target:       target,
		Text:         step.Text,
		Color:        step.Color,
		TextColor:    step.TextColor,
		Bold:         step.Bold,
		DismissOnTap: step.DismissOnTap,
		Timeout:      -1,
	})
	if err != nil {
		r.logger.Warn("failed to show demo step", "step", r.step, "error", err)
		return
	}
	r.current = id
}

// openDemo opens a window with buttons in every corner and a header bar
// menu, then runs the named tour on it. The window is a layer-shell
// surface pinned to the top-left corner so its widgets have known screen
// positions.
func openDemo(app *gtk.Application, host *gtkhost.Host, d *daemon.Daemon, loader *tour.Loader, name string, logger *slog.Logger) error {
	t, err := loader.Load(name)
	if err != nil {
		return err
	}

	win := adw.NewApplicationWindow(app)
	win.SetTitle(fmt.Sprintf("anchortip demo: %s", t.Title))
	win.SetDefaultSize(900, 600)

	layershell.InitForWindow(&win.Window)
	layershell.SetLayer(&win.Window, layershell.LayerShellLayerTop)
	layershell.SetNamespace(&win.Window, "anchortip-demo")
	layershell.SetKeyboardMode(&win.Window, layershell.LayerShellKeyboardModeOnDemand)
	layershell.SetAnchor(&win.Window, layershell.LayerShellEdgeTop, true)
	layershell.SetAnchor(&win.Window, layershell.LayerShellEdgeLeft, true)
	host.SetOrigin(geom.Point{})

	header := adw.NewHeaderBar()
	menu := gtkhost.NewMenu(header)

	scene := gtkhost.Scene{Views: make(map[string]gtk.Widgetter), Bar: menu}
	run := &demoRun{tour: t, scene: scene, manager: d.Manager(), logger: logger}

	for _, item := range []struct{ id, icon, tip string }{
		{"next", "go-next-symbolic", "Next tooltip"},
		{"share", "emblem-shared-symbolic", "Share"},
		{"search", "system-search-symbolic", "Search"},
	} {
		action := gio.NewSimpleAction(item.id, nil)
		if item.id == "next" {
			action.ConnectActivate(func(*glib.Variant) { run.next() })
		}
		app.AddAction(action)
		menu.AddButton(item.id, item.icon, item.tip)
	}
	menu.AddOverflow("settings")

	grid := gtk.NewGrid()
	grid.SetRowHomogeneous(true)
	grid.SetColumnHomogeneous(true)
	grid.SetVExpand(true)
	grid.SetMarginTop(12)
	grid.SetMarginBottom(12)
	grid.SetMarginStart(12)
	grid.SetMarginEnd(12)

	for _, b := range []struct {
		name, label string
		col, row    int
		halign      gtk.Align
		valign      gtk.Align
	}{
		{"top-left", "Top left", 0, 0, gtk.AlignStart, gtk.AlignStart},
		{"top-right", "Top right", 2, 0, gtk.AlignEnd, gtk.AlignStart},
		{"center", "Center", 1, 1, gtk.AlignCenter, gtk.AlignCenter},
		{"bottom-left", "Bottom left", 0, 2, gtk.AlignStart, gtk.AlignEnd},
		{"bottom-right", "Bottom right", 2, 2, gtk.AlignEnd, gtk.AlignEnd},
	} {
		btn := gtk.NewButtonWithLabel(b.label)
		btn.SetHAlign(b.halign)
		btn.SetVAlign(b.valign)
		grid.Attach(btn, b.col, b.row, 1, 1)
		scene.Views[b.name] = btn
	}

	content := gtk.NewBox(gtk.OrientationVertical, 0)
	content.Append(header)
	content.Append(grid)
	win.SetContent(content)

	win.ConnectCloseRequest(func() bool {
		if run.current != "" {
			run.manager.Close(run.current, dbus.CloseReasonClosed)
			run.current = ""
		}
		return false
	})

	win.SetVisible(true)
	// Start once the window has been laid out.
	host.AfterLayout(grid, run.next)

	logger.Info("demo window open", "tour", t.Name, "steps", len(t.Steps))
	return nil
}
