package tooltip

import "github.com/jmylchreest/anchortip/internal/geom"

// Measured holds the measured sizes of the arrow and the balloon.
type Measured struct {
	Arrow   geom.Size
	Balloon geom.Size
}

// Ready reports whether both visuals have been measured.
func (m Measured) Ready() bool {
	return !m.Arrow.IsZero() && !m.Balloon.IsZero()
}

// Layout places the arrow and the balloon inside the overlay window.
type Layout struct {
	Size    geom.Size `json:"size" yaml:"size"`
	Arrow   geom.Rect `json:"arrow" yaml:"arrow"`
	Balloon geom.Rect `json:"balloon" yaml:"balloon"`
}

// ArrowSize returns the arrow box: twice as long as it is deep, with the
// long side against the balloon.
func ArrowSize(g Gravity, side int) geom.Size {
	if g.Vertical() {
		return geom.Size{Width: side * 2, Height: side}
	}
	return geom.Size{Width: side, Height: side * 2}
}

// ArrowPath returns the arrow triangle inside its box, the third point
// being the tip that touches the target.
func ArrowPath(g Gravity, side int) [3]geom.Point {
	long := side * 2
	switch g {
	case GravityBottom:
		return [3]geom.Point{{X: 0, Y: side}, {X: long, Y: side}, {X: side, Y: 0}}
	case GravityLeft:
		return [3]geom.Point{{X: 0, Y: 0}, {X: 0, Y: long}, {X: side, Y: side}}
	case GravityRight:
		return [3]geom.Point{{X: side, Y: 0}, {X: side, Y: long}, {X: 0, Y: side}}
	default:
		return [3]geom.Point{{X: 0, Y: 0}, {X: long, Y: 0}, {X: side, Y: side}}
	}
}

// OverlaySize is the window size: the balloon plus the arrow on the gravity side.
func OverlaySize(g Gravity, m Measured) geom.Size {
	if g.Vertical() {
		return geom.Size{Width: m.Balloon.Width, Height: m.Arrow.Height + m.Balloon.Height}
	}
	return geom.Size{Width: m.Arrow.Width + m.Balloon.Width, Height: m.Balloon.Height}
}

// VisibleCenterX is the horizontal center of the on-screen part of target.
func VisibleCenterX(target geom.Rect, viewport geom.Size) int {
	return (geom.Trim(target.Right, 0, viewport.Width) + geom.Trim(target.Left, 0, viewport.Width)) / 2
}

// VisibleCenterY is the vertical center of the on-screen part of target.
func VisibleCenterY(target geom.Rect, viewport geom.Size) int {
	return (geom.Trim(target.Bottom, 0, viewport.Height) + geom.Trim(target.Top, 0, viewport.Height)) / 2
}

func visibleWidth(target geom.Rect, viewport geom.Size) int {
	return geom.Trim(target.Right, 0, viewport.Width) - geom.Trim(target.Left, 0, viewport.Width)
}

func visibleHeight(target geom.Rect, viewport geom.Size) int {
	return geom.Trim(target.Bottom, 0, viewport.Height) - geom.Trim(target.Top, 0, viewport.Height)
}

func errUnmeasured(op string) error {
	return &PreconditionError{Op: op, Message: "arrow and balloon must be measured first"}
}

// ComputePosition returns the overlay's top-left corner. The overlay is
// centered on the visible part of the target along the gravity's cross
// axis and abuts the target edge along the other, pulled in by half the
// arrow so the tip never overshoots a target smaller than the arrow.
func ComputePosition(g Gravity, target geom.Rect, m Measured, viewport geom.Size) (geom.Point, error) {
	if !m.Ready() {
		return geom.Point{}, errUnmeasured("compute position")
	}

	var pos geom.Point
	if g.Vertical() {
		pos.X = VisibleCenterX(target, viewport) - m.Balloon.Width/2
	} else {
		pos.Y = VisibleCenterY(target, viewport) - m.Balloon.Height/2
	}

	switch g {
	case GravityTop:
		pos.Y = target.Top - m.Balloon.Height - min(m.Arrow.Height/2, visibleHeight(target, viewport)/2)
	case GravityBottom:
		pos.Y = target.Bottom - min(m.Arrow.Height/2, visibleHeight(target, viewport)/2)
	case GravityLeft:
		pos.X = target.Left - m.Balloon.Width - min(m.Arrow.Width/2, visibleWidth(target, viewport)/2)
	case GravityRight:
		pos.X = target.Right - min(m.Arrow.Width/2, visibleWidth(target, viewport)/2)
	}
	return pos, nil
}

// ComputeLayout places the arrow and the balloon inside an overlay whose
// top-left is pos. Both children are shifted by the amount a host moves
// the window to keep it on screen, so the arrow keeps pointing at the
// target when the window itself is pushed back inside the viewport.
func ComputeLayout(g Gravity, pos geom.Point, m Measured, viewport geom.Size) (Layout, error) {
	if !m.Ready() {
		return Layout{}, errUnmeasured("compute layout")
	}

	size := OverlaySize(g, m)
	offX := geom.Trim(0, pos.X+size.Width-viewport.Width, pos.X)
	offY := geom.Trim(0, pos.Y+size.Height-viewport.Height, pos.Y)

	arrow := geom.Point{X: offX, Y: offY}
	balloon := geom.Point{X: offX, Y: offY}

	switch g {
	case GravityTop:
		arrow.X += size.Width/2 - m.Arrow.Width/2
		arrow.Y += m.Balloon.Height
	case GravityBottom:
		arrow.X += size.Width/2 - m.Arrow.Width/2
		balloon.Y += m.Arrow.Height
	case GravityLeft:
		arrow.X += m.Balloon.Width
		arrow.Y += size.Height/2 - m.Arrow.Height/2
	case GravityRight:
		arrow.Y += size.Height/2 - m.Arrow.Height/2
		balloon.X += m.Arrow.Width
	}

	return Layout{
		Size:    size,
		Arrow:   geom.FromPoint(arrow, m.Arrow),
		Balloon: geom.FromPoint(balloon, m.Balloon),
	}, nil
}
