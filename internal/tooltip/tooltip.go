// Package tooltip anchors a balloon with an arrow to a point, a rectangle,
// a host view or a menu entry, and keeps it anchored while the target moves.
package tooltip

import (
	"image/color"
	"log/slog"

	"github.com/oklog/ulid/v2"

	"github.com/jmylchreest/anchortip/internal/geom"
)

// State is the attachment state of a tooltip.
type State struct {
	Attached bool
	Visible  bool
}

// Tooltip is a single anchored overlay. It is driven from the host's UI
// loop and is not safe for concurrent use. A dismissed tooltip cannot be
// shown again.
type Tooltip struct {
	id      string
	host    Host
	metrics Metrics
	logger  *slog.Logger

	target Target
	shown  bool

	text         string
	color        color.Color
	textColor    color.Color
	bold         bool
	dismissOnTap bool
	track        bool

	onShow    func(*Tooltip)
	onDismiss func(*Tooltip)
	onClick   func(*Tooltip)

	gravity   Gravity
	resolved  *geom.Rect
	position  geom.Point
	measured  Measured
	overlay   *Overlay
	state     State
	tracker   *tracker
	pending   *pendingMenuItem
	dismissed bool
}

// New creates a tooltip on host. Metrics are fixed for its lifetime.
func New(host Host, metrics Metrics, logger *slog.Logger) *Tooltip {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tooltip{
		id:           ulid.Make().String(),
		host:         host,
		metrics:      metrics,
		logger:       logger,
		color:        color.White,
		textColor:    color.Black,
		bold:         true,
		dismissOnTap: true,
		track:        true,
		gravity:      GravityTop,
	}
}

// ID returns the tooltip's unique identifier.
func (t *Tooltip) ID() string { return t.id }

// SetTarget sets what the tooltip points at. It must be called before Show.
func (t *Tooltip) SetTarget(target Target) error {
	if t.shown {
		return ErrTargetLocked
	}
	t.target = target
	return nil
}

// Target returns the current target, nil when unset.
func (t *Tooltip) Target() Target { return t.target }

// SetText sets the balloon text.
func (t *Tooltip) SetText(text string) { t.text = text }

// Text returns the balloon text.
func (t *Tooltip) Text() string { return t.text }

// SetColor sets the balloon and arrow color.
func (t *Tooltip) SetColor(c color.Color) { t.color = c }

// SetTextColor sets the balloon text color.
func (t *Tooltip) SetTextColor(c color.Color) { t.textColor = c }

// SetBold sets whether the balloon text is bold.
func (t *Tooltip) SetBold(bold bool) { t.bold = bold }

// SetDismissOnTap controls whether a tap dismisses the tooltip when no
// click callback is set.
func (t *Tooltip) SetDismissOnTap(dismiss bool) { t.dismissOnTap = dismiss }

// SetTracking controls whether view targets are followed after Show.
// Untracked tooltips stay where they were first placed.
func (t *Tooltip) SetTracking(track bool) { t.track = track }

// OnShow sets the callback run each time the tooltip is shown.
func (t *Tooltip) OnShow(fn func(*Tooltip)) { t.onShow = fn }

// OnDismiss sets the callback run when the tooltip is dismissed.
func (t *Tooltip) OnDismiss(fn func(*Tooltip)) { t.onDismiss = fn }

// OnClick sets the tap callback. It replaces tap-to-dismiss.
func (t *Tooltip) OnClick(fn func(*Tooltip)) { t.onClick = fn }

// State returns whether the tooltip is attached and visible.
func (t *Tooltip) State() State { return t.state }

// Gravity returns the side chosen by the last Show.
func (t *Tooltip) Gravity() Gravity { return t.gravity }

// Position returns the overlay's top-left corner.
func (t *Tooltip) Position() geom.Point { return t.position }

// Layout returns the arrow and balloon placement inside the overlay.
func (t *Tooltip) Layout() Layout {
	if t.overlay == nil {
		return Layout{}
	}
	return t.overlay.Layout
}

// Resolved returns the last resolved target rect.
func (t *Tooltip) Resolved() (geom.Rect, bool) {
	if t.resolved == nil {
		return geom.Rect{}, false
	}
	return *t.resolved, true
}

// Show builds the visuals, resolves the target and attaches the overlay.
// Calling Show again on an attached tooltip rebuilds the visuals and lays
// them out in place. For menu entries without an action view the overlay
// appears after the host's next layout pass.
func (t *Tooltip) Show() error {
	if t.dismissed {
		return ErrDismissed
	}
	t.shown = true

	if t.overlay == nil {
		t.overlay = &Overlay{ID: t.id}
	}
	o := t.overlay
	if o.Balloon != nil || o.Arrow != nil {
		t.host.ClearOverlay(o)
	}

	o.Balloon = t.host.NewBalloon(BalloonStyle{
		Text:              t.text,
		Color:             t.color,
		TextColor:         t.textColor,
		Bold:              t.bold,
		TextSize:          t.metrics.TextSize,
		PaddingVertical:   t.metrics.PaddingVertical,
		PaddingHorizontal: t.metrics.PaddingHorizontal,
		CornerRadius:      t.metrics.CornerRadius,
	})
	o.Arrow = t.host.NewArrow(ArrowStyle{Color: t.color, Side: t.metrics.ArrowSide})
	t.measured = Measured{}
	t.host.OnOverlayTap(o, t.tap)

	t.release(t.pending)
	return t.resolve(t.attach)
}

// attach runs once the target is resolved during Show.
func (t *Tooltip) attach(res Resolution) error {
	g, err := t.selectGravity()
	if err != nil {
		return err
	}
	t.gravity = g

	if err := t.place(); err != nil {
		return err
	}

	o := t.overlay
	o.Visible = res.Visible
	if t.state.Attached {
		t.host.UpdateOverlay(o, t.position)
		t.host.SetOverlayVisible(o, res.Visible)
	} else {
		t.host.AttachOverlay(o, t.position)
		t.state.Attached = true
	}
	t.state.Visible = res.Visible

	if t.track && t.tracker == nil && res.Kind == Immediate {
		if view := t.liveView(); view != nil {
			t.tracker = newTracker(t.host, view, t.update)
			t.tracker.start()
		}
	}

	t.logger.Debug("tooltip shown",
		"tooltip_id", t.id,
		"gravity", g.String(),
		"x", t.position.X,
		"y", t.position.Y,
		"visible", res.Visible,
		"resolution", res.Kind.String(),
	)

	if t.onShow != nil {
		t.onShow(t)
	}
	return nil
}

// selectGravity requires a resolved target.
func (t *Tooltip) selectGravity() (Gravity, error) {
	if t.resolved == nil {
		return GravityTop, &PreconditionError{Op: "select gravity", Message: "no target has been resolved"}
	}
	return SelectGravity(*t.resolved, t.viewport()), nil
}

// ensureMeasured measures the visuals once per Show.
func (t *Tooltip) ensureMeasured(viewport geom.Size) error {
	if t.measured.Ready() {
		return nil
	}
	if t.overlay == nil || t.overlay.Balloon == nil || t.overlay.Arrow == nil {
		return &PreconditionError{Op: "measure", Message: "visuals have not been built"}
	}

	arrow := ArrowSize(t.gravity, t.metrics.ArrowSide)
	bounds := geom.Size{
		Width:  max(0, viewport.Width-arrow.Width),
		Height: max(0, viewport.Height-arrow.Height),
	}
	t.measured = Measured{
		Arrow:   arrow,
		Balloon: t.host.Measure(t.overlay.Balloon, bounds),
	}
	return nil
}

// place recomputes the window position and the child layout from the
// resolved target.
func (t *Tooltip) place() error {
	if t.resolved == nil {
		return &PreconditionError{Op: "compute position", Message: "no target has been resolved"}
	}
	vp := t.viewport()
	if err := t.ensureMeasured(vp); err != nil {
		return err
	}

	pos, err := ComputePosition(t.gravity, *t.resolved, t.measured, vp)
	if err != nil {
		return err
	}
	layout, err := ComputeLayout(t.gravity, pos, t.measured, vp)
	if err != nil {
		return err
	}

	t.position = pos
	t.overlay.Gravity = t.gravity
	t.overlay.Layout = layout
	return nil
}

// update is the per-frame tracking step. Gravity is kept from Show.
func (t *Tooltip) update() {
	err := t.resolve(func(res Resolution) error {
		if !res.Changed {
			return nil
		}
		if err := t.place(); err != nil {
			return err
		}

		o := t.overlay
		switch {
		case t.state.Visible && res.Visible:
			t.host.UpdateOverlay(o, t.position)
		case t.state.Visible && !res.Visible:
			o.Visible = false
			t.host.SetOverlayVisible(o, false)
			t.state.Visible = false
		case !t.state.Visible && res.Visible:
			o.Visible = true
			t.host.UpdateOverlay(o, t.position)
			t.host.SetOverlayVisible(o, true)
			t.state.Visible = true
		}
		return nil
	})
	if err != nil {
		t.logger.Error("tooltip tracking failed", "tooltip_id", t.id, "error", err)
	}
}

func (t *Tooltip) tap() {
	if t.onClick != nil {
		t.onClick(t)
		return
	}
	if !t.dismissOnTap {
		return
	}
	if err := t.Dismiss(); err != nil {
		t.logger.Error("dismiss on tap failed", "tooltip_id", t.id, "error", err)
	}
}

// Dismiss removes the tracking hook, then detaches the overlay. A tooltip
// still waiting for its menu entry's layout is cancelled instead: the
// placeholder is removed and the overlay never attaches. Otherwise the
// tooltip must be attached.
func (t *Tooltip) Dismiss() error {
	if !t.state.Attached && t.pending == nil {
		return &PreconditionError{Op: "dismiss", Message: "tooltip is not attached"}
	}

	t.release(t.pending)
	if t.tracker != nil {
		t.tracker.stop()
		t.tracker = nil
	}
	if t.state.Attached {
		t.host.DetachOverlay(t.overlay)
	}
	t.state = State{}
	t.dismissed = true

	t.logger.Debug("tooltip dismissed", "tooltip_id", t.id)

	if t.onDismiss != nil {
		t.onDismiss(t)
	}
	return nil
}

// Pending reports whether the tooltip waits for a layout pass to attach.
func (t *Tooltip) Pending() bool { return t.pending != nil }
