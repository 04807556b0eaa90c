// Package geom provides the integer screen geometry used by tooltip placement.
package geom

import "fmt"

// Point is a position in viewport coordinates.
type Point struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// Size is a width/height pair.
type Size struct {
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// IsZero reports whether either dimension is zero or negative.
func (s Size) IsZero() bool {
	return s.Width <= 0 || s.Height <= 0
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// Rect is an edge-based rectangle. Right and Bottom are exclusive.
type Rect struct {
	Left   int `json:"left" yaml:"left"`
	Top    int `json:"top" yaml:"top"`
	Right  int `json:"right" yaml:"right"`
	Bottom int `json:"bottom" yaml:"bottom"`
}

// XYWH builds a rect from an origin and a size.
func XYWH(x, y, w, h int) Rect {
	return Rect{Left: x, Top: y, Right: x + w, Bottom: y + h}
}

// FromPoint builds a rect of the given size whose top-left is p.
func FromPoint(p Point, s Size) Rect {
	return XYWH(p.X, p.Y, s.Width, s.Height)
}

// Width returns the horizontal extent.
func (r Rect) Width() int { return r.Right - r.Left }

// Height returns the vertical extent.
func (r Rect) Height() int { return r.Bottom - r.Top }

// Size returns the rect dimensions.
func (r Rect) Size() Size { return Size{Width: r.Width(), Height: r.Height()} }

// Origin returns the top-left corner.
func (r Rect) Origin() Point { return Point{X: r.Left, Y: r.Top} }

// Empty reports whether the rect has no area.
func (r Rect) Empty() bool {
	return r.Left >= r.Right || r.Top >= r.Bottom
}

// Equal compares edges, not identity.
func (r Rect) Equal(o Rect) bool {
	return r == o
}

// Contains reports whether p lies inside r.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Left && p.X < r.Right && p.Y >= r.Top && p.Y < r.Bottom
}

// Translate shifts the rect by dx, dy.
func (r Rect) Translate(dx, dy int) Rect {
	return Rect{Left: r.Left + dx, Top: r.Top + dy, Right: r.Right + dx, Bottom: r.Bottom + dy}
}

// Intersect returns the overlap of r and o. The result is Empty when they
// do not overlap.
func (r Rect) Intersect(o Rect) Rect {
	out := Rect{
		Left:   max(r.Left, o.Left),
		Top:    max(r.Top, o.Top),
		Right:  min(r.Right, o.Right),
		Bottom: min(r.Bottom, o.Bottom),
	}
	if out.Empty() {
		return Rect{}
	}
	return out
}

// ClampTo clamps every edge into the viewport [0, size].
func (r Rect) ClampTo(viewport Size) Rect {
	return Rect{
		Left:   Trim(r.Left, 0, viewport.Width),
		Top:    Trim(r.Top, 0, viewport.Height),
		Right:  Trim(r.Right, 0, viewport.Width),
		Bottom: Trim(r.Bottom, 0, viewport.Height),
	}
}

func (r Rect) String() string {
	return fmt.Sprintf("(%d,%d)-(%d,%d)", r.Left, r.Top, r.Right, r.Bottom)
}

// Trim bounds val to [lo, hi]. When lo > hi the lower bound wins.
func Trim(val, lo, hi int) int {
	return max(lo, min(hi, val))
}

// ClampOrigin moves a window of the given size so it starts inside the
// viewport, the way a window manager refuses to place it off-screen.
func ClampOrigin(p Point, s Size, viewport Size) Point {
	return Point{
		X: max(0, min(p.X, viewport.Width-s.Width)),
		Y: max(0, min(p.Y, viewport.Height-s.Height)),
	}
}
