package daemon

import (
	"errors"
	"sync/atomic"
	"time"

	"github.com/jmylchreest/anchortip/internal/dbus"
	"github.com/jmylchreest/anchortip/internal/display"
	"github.com/jmylchreest/anchortip/internal/geom"
	"github.com/jmylchreest/anchortip/internal/tooltip"
)

// ErrLoopTimeout is returned when the UI loop did not run a call in time.
var ErrLoopTimeout = errors.New("ui loop did not respond")

// Poster runs fn on the UI loop, for example through glib.IdleAdd.
type Poster func(fn func())

// bridge serves D-Bus calls from the bus goroutine by running them on the
// UI loop and waiting for the result.
type bridge struct {
	manager *display.Manager
	post    Poster
	timeout time.Duration
}

var _ dbus.Handler = (*bridge)(nil)

// onLoop runs fn on the UI loop and waits for its result. A call that has
// not started when the timeout fires is abandoned and never runs, so a
// caller that got ErrLoopTimeout has no side effect to clean up.
func onLoop[T any](b *bridge, fn func() T) (T, error) {
	var claimed atomic.Bool
	result := make(chan T, 1)
	b.post(func() {
		if !claimed.CompareAndSwap(false, true) {
			return
		}
		result <- fn()
	})
	select {
	case v := <-result:
		return v, nil
	case <-time.After(b.timeout):
		if claimed.CompareAndSwap(false, true) {
			var zero T
			return zero, ErrLoopTimeout
		}
		// The loop picked the call up just in time.
		return <-result, nil
	}
}

type showResult struct {
	id  string
	err error
}

// Show converts a show call into a display request.
func (b *bridge) Show(req dbus.ShowRequest) (string, error) {
	dreq := toRequest(req)
	res, err := onLoop(b, func() showResult {
		id, err := b.manager.Show(dreq)
		return showResult{id: id, err: err}
	})
	if err != nil {
		return "", err
	}
	return res.id, res.err
}

func toRequest(req dbus.ShowRequest) display.Request {
	var target tooltip.Target
	if req.Point {
		target = tooltip.PointTarget{X: req.X, Y: req.Y}
	} else {
		target = tooltip.RectTarget{Rect: geom.XYWH(req.X, req.Y, req.Width, req.Height)}
	}
	return display.Request{
		Target:       target,
		Text:         req.Text,
		Color:        req.Options.Color,
		TextColor:    req.Options.TextColor,
		Bold:         req.Options.Bold,
		DismissOnTap: req.Options.DismissOnTap,
		Timeout:      req.Options.Timeout,
	}
}

// Dismiss closes a tooltip on request of a client.
func (b *bridge) Dismiss(id string) bool {
	found, _ := onLoop(b, func() bool {
		return b.manager.Close(id, dbus.CloseReasonClosed)
	})
	return found
}

// List reports the active tooltips with the position of their balloons.
func (b *bridge) List() []dbus.TooltipInfo {
	entries, err := onLoop(b, b.manager.Active)
	if err != nil {
		return nil
	}

	list := make([]dbus.TooltipInfo, 0, len(entries))
	for _, e := range entries {
		list = append(list, dbus.TooltipInfo{
			ID:      e.ID,
			Text:    e.Text,
			X:       int32(e.Position.X),
			Y:       int32(e.Position.Y),
			Created: e.CreatedAt.Unix(),
		})
	}
	return list
}
