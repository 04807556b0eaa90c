package tooltip

import "github.com/jmylchreest/anchortip/internal/geom"

// Target describes what a tooltip is anchored to. Exactly one of
// PointTarget, RectTarget, ViewTarget or MenuItemTarget.
type Target interface {
	isTarget()
}

// PointTarget anchors to a point. A non-zero Width/Height is a size hint:
// the target rect is then centered on the point.
type PointTarget struct {
	X, Y          int
	Width, Height int
}

// RectTarget anchors to a fixed rectangle in viewport coordinates.
type RectTarget struct {
	Rect geom.Rect
}

// ViewTarget anchors to a live host view and follows it as it moves.
type ViewTarget struct {
	View View
}

// MenuItemTarget anchors to a menu entry. Entries without an action view
// are resolved after the next host layout pass through a placeholder.
// Entries collapsed into an overflow menu have undefined geometry.
type MenuItemTarget struct {
	Menu   Menu
	ItemID string
}

func (PointTarget) isTarget()    {}
func (RectTarget) isTarget()     {}
func (ViewTarget) isTarget()     {}
func (MenuItemTarget) isTarget() {}

func (p PointTarget) rect() geom.Rect {
	if p.Width == 0 && p.Height == 0 {
		return geom.Rect{Left: p.X, Top: p.Y, Right: p.X, Bottom: p.Y}
	}
	return geom.XYWH(p.X-p.Width/2, p.Y-p.Height/2, p.Width, p.Height)
}

// ResolutionKind tells whether a target was located synchronously.
type ResolutionKind int

const (
	Immediate ResolutionKind = iota
	Deferred
)

func (k ResolutionKind) String() string {
	if k == Deferred {
		return "deferred"
	}
	return "immediate"
}

// Resolution is the outcome of locating a target.
type Resolution struct {
	Rect    geom.Rect
	Kind    ResolutionKind
	Visible bool
	// Changed reports whether Rect differs from the previous resolution.
	Changed bool
	// Found is false when no target is set.
	Found bool
}
