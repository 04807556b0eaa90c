package tooltip

import "github.com/jmylchreest/anchortip/internal/geom"

// continuation receives a resolved target. It runs at most once per resolve.
type continuation func(res Resolution) error

// resolve locates the target and hands the result to done. Point, rect and
// view targets complete synchronously and return done's error. Menu items
// without an action view complete after the host's next layout pass; done
// then never runs inside resolve and its error is logged.
func (t *Tooltip) resolve(done continuation) error {
	switch target := t.target.(type) {
	case PointTarget:
		return done(t.resolveRect(target.rect()))
	case RectTarget:
		return done(t.resolveRect(target.Rect))
	case ViewTarget:
		return done(t.resolveView(target.View, Immediate))
	case MenuItemTarget:
		return t.resolveMenuItem(target, done)
	default:
		return done(Resolution{Visible: false, Changed: t.resolved != nil})
	}
}

// viewport probes the host. A failed probe or an empty viewport falls back
// to 1x1 so that the geometry stays defined.
func (t *Tooltip) viewport() geom.Size {
	vp, err := t.host.Viewport()
	if err != nil || vp.IsZero() {
		t.logger.Warn("unusable viewport, assuming 1x1",
			"tooltip_id", t.id,
			"viewport", vp.String(),
			"error", err,
		)
		return geom.Size{Width: 1, Height: 1}
	}
	return vp
}

func (t *Tooltip) record(rect geom.Rect, kind ResolutionKind, visible bool) Resolution {
	changed := t.resolved == nil || !t.resolved.Equal(rect)
	t.resolved = &rect
	return Resolution{
		Rect:    rect,
		Kind:    kind,
		Visible: visible,
		Changed: changed,
		Found:   true,
	}
}

// resolveRect treats a rect as visible when it reaches into the viewport
// on both axes. Touching an edge counts.
func (t *Tooltip) resolveRect(r geom.Rect) Resolution {
	vp := t.viewport()
	visible := (r.Right >= 0 || r.Left <= vp.Width) && (r.Top >= 0 || r.Bottom <= vp.Height)
	return t.record(r, Immediate, visible)
}

func (t *Tooltip) resolveView(v View, kind ResolutionKind) Resolution {
	rect := geom.FromPoint(t.host.LocateOnScreen(v), t.host.ViewSize(v))
	clip, ok := t.host.VisibleRect(v)
	visible := ok && !clip.Empty() && t.host.IsShown(v)
	return t.record(rect, kind, visible)
}

func (t *Tooltip) resolveMenuItem(target MenuItemTarget, done continuation) error {
	mh, ok := t.host.(MenuHost)
	if !ok {
		t.logger.Debug("host has no menus, tooltip stays hidden", "tooltip_id", t.id)
		return nil
	}

	item, ok := mh.FindMenuItem(target.Menu, target.ItemID)
	if !ok {
		t.logger.Debug("menu item not found", "tooltip_id", t.id, "item", target.ItemID)
		return nil
	}

	if view, ok := mh.ActionView(item); ok && view != nil {
		return done(t.resolveView(view, Immediate))
	}

	placeholder := mh.NewPlaceholder(item)
	if placeholder == nil {
		t.logger.Debug("no placeholder for menu item", "tooltip_id", t.id, "item", target.ItemID)
		return nil
	}

	p := &pendingMenuItem{host: mh, item: item}
	t.pending = p
	mh.SetActionView(item, placeholder)
	t.host.AfterLayout(placeholder, func() {
		if p.released {
			return
		}
		defer t.release(p)
		if err := done(t.resolveView(placeholder, Deferred)); err != nil {
			t.logger.Error("deferred target resolution failed",
				"tooltip_id", t.id,
				"item", target.ItemID,
				"error", err,
			)
		}
	})
	return nil
}

// pendingMenuItem is a placeholder installed for a menu entry whose layout
// has not run yet.
type pendingMenuItem struct {
	host     MenuHost
	item     MenuItem
	released bool
}

// release removes the placeholder of p. It is safe to call more than once.
func (t *Tooltip) release(p *pendingMenuItem) {
	if p == nil || p.released {
		return
	}
	p.released = true
	p.host.SetActionView(p.item, nil)
	if t.pending == p {
		t.pending = nil
	}
}

// liveView returns the view whose frames drive tracking, if the target has one.
func (t *Tooltip) liveView() View {
	switch target := t.target.(type) {
	case ViewTarget:
		return target.View
	case MenuItemTarget:
		mh, ok := t.host.(MenuHost)
		if !ok {
			return nil
		}
		item, ok := mh.FindMenuItem(target.Menu, target.ItemID)
		if !ok {
			return nil
		}
		if view, ok := mh.ActionView(item); ok {
			return view
		}
	}
	return nil
}
