package gtkhost

import (
	"log/slog"
	"unsafe"

	"github.com/diamondburned/gotk4/pkg/core/glib"
	"github.com/diamondburned/gotk4/pkg/gdk/v4"
)

// monitorFor returns the monitor to show overlays on:
// - 0: the first monitor
// - 1+: a specific monitor (1-indexed), falling back to the first
func monitorFor(display *gdk.Display, n int, logger *slog.Logger) *gdk.Monitor {
	if display == nil {
		return nil
	}
	monitors := display.Monitors()
	if monitors == nil || monitors.NItems() == 0 {
		logger.Warn("no monitors list available")
		return nil
	}

	index := uint(0)
	if n > 0 {
		index = uint(n - 1)
	}
	if index >= monitors.NItems() {
		logger.Warn("configured monitor not available, using first",
			"configured", n,
			"available", monitors.NItems(),
		)
		index = 0
	}

	return wrapMonitor(monitors.Item(index))
}

// wrapMonitor wraps a list model item as a gdk.Monitor. gotk4 does not
// export its own wrapper.
func wrapMonitor(obj *glib.Object) *gdk.Monitor {
	if obj == nil {
		return nil
	}
	type monitor struct {
		_ [0]func()
		*glib.Object
	}
	m := &monitor{Object: obj}
	return (*gdk.Monitor)(unsafe.Pointer(m))
}
