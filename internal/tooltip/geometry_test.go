package tooltip

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/anchortip/internal/geom"
)

func TestComputePosition_TallViewportScenario(t *testing.T) {
	vp := geom.Size{Width: 1000, Height: 2000}
	target := geom.Rect{Left: 100, Top: 100, Right: 200, Bottom: 140}
	m := Measured{
		Arrow:   geom.Size{Width: 20, Height: 10},
		Balloon: geom.Size{Width: 160, Height: 80},
	}

	g := SelectGravity(target, vp)
	require.Equal(t, GravityBottom, g)

	pos, err := ComputePosition(g, target, m, vp)
	require.NoError(t, err)
	assert.Equal(t, geom.Point{X: 70, Y: 135}, pos)

	layout, err := ComputeLayout(g, pos, m, vp)
	require.NoError(t, err)
	assert.Equal(t, geom.Size{Width: 160, Height: 90}, layout.Size)
	assert.Equal(t, geom.XYWH(70, 0, 20, 10), layout.Arrow)
	assert.Equal(t, geom.XYWH(0, 10, 160, 80), layout.Balloon)
}

func TestComputePosition(t *testing.T) {
	vp := geom.Size{Width: 400, Height: 300}
	target := geom.Rect{Left: 100, Top: 100, Right: 140, Bottom: 120}
	m := Measured{Balloon: geom.Size{Width: 60, Height: 30}}

	tests := []struct {
		gravity Gravity
		want    geom.Point
	}{
		// Vertical: arrow 20x10, half arrow depth 5 < half target height 10.
		{GravityTop, geom.Point{X: 90, Y: 100 - 30 - 5}},
		{GravityBottom, geom.Point{X: 90, Y: 120 - 5}},
		// Horizontal: arrow 10x20, half arrow depth 5 < half target width 20.
		{GravityLeft, geom.Point{X: 100 - 60 - 5, Y: 95}},
		{GravityRight, geom.Point{X: 140 - 5, Y: 95}},
	}

	for _, tt := range tests {
		t.Run(tt.gravity.String(), func(t *testing.T) {
			m := m
			m.Arrow = ArrowSize(tt.gravity, 10)
			pos, err := ComputePosition(tt.gravity, target, m, vp)
			require.NoError(t, err)
			assert.Equal(t, tt.want, pos)
		})
	}
}

func TestComputePosition_SmallTargetLimitsInset(t *testing.T) {
	vp := geom.Size{Width: 400, Height: 300}
	m := Measured{Arrow: geom.Size{Width: 20, Height: 10}, Balloon: geom.Size{Width: 60, Height: 30}}

	// A point target has no height, so the arrow tip sits exactly on it.
	point := PointTarget{X: 200, Y: 150}.rect()
	pos, err := ComputePosition(GravityBottom, point, m, vp)
	require.NoError(t, err)
	assert.Equal(t, geom.Point{X: 170, Y: 150}, pos)

	// A 4px tall target limits the inset to 2px.
	thin := geom.XYWH(180, 150, 40, 4)
	pos, err = ComputePosition(GravityTop, thin, m, vp)
	require.NoError(t, err)
	assert.Equal(t, geom.Point{X: 170, Y: 150 - 30 - 2}, pos)
}

func TestComputePosition_RequiresMeasurement(t *testing.T) {
	vp := geom.Size{Width: 100, Height: 100}
	_, err := ComputePosition(GravityTop, geom.XYWH(10, 10, 5, 5), Measured{}, vp)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrPrecondition))

	var pe *PreconditionError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "compute position", pe.Op)

	_, err = ComputeLayout(GravityTop, geom.Point{}, Measured{Arrow: geom.Size{Width: 2, Height: 1}}, vp)
	assert.ErrorIs(t, err, ErrPrecondition)
}

func TestComputeLayout_OffsetsCompensateHostClamping(t *testing.T) {
	vp := geom.Size{Width: 200, Height: 100}

	tests := []struct {
		name    string
		gravity Gravity
		pos     geom.Point
	}{
		{"top inside", GravityTop, geom.Point{X: 40, Y: 20}},
		{"top off left", GravityTop, geom.Point{X: -30, Y: 5}},
		{"top off right", GravityTop, geom.Point{X: 150, Y: 5}},
		{"bottom off bottom", GravityBottom, geom.Point{X: 20, Y: 80}},
		{"left off top", GravityLeft, geom.Point{X: 10, Y: -25}},
		{"right off bottom", GravityRight, geom.Point{X: 60, Y: 70}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Measured{Arrow: ArrowSize(tt.gravity, 10), Balloon: geom.Size{Width: 100, Height: 40}}
			layout, err := ComputeLayout(tt.gravity, tt.pos, m, vp)
			require.NoError(t, err)

			window := geom.ClampOrigin(tt.pos, layout.Size, vp)
			arrowCenter := geom.Point{
				X: window.X + layout.Arrow.Left + layout.Arrow.Width()/2,
				Y: window.Y + layout.Arrow.Top + layout.Arrow.Height()/2,
			}

			// The arrow lands where it would in an unclamped window.
			if tt.gravity.Vertical() {
				assert.Equal(t, tt.pos.X+layout.Size.Width/2, arrowCenter.X)
			} else {
				assert.Equal(t, tt.pos.Y+layout.Size.Height/2, arrowCenter.Y)
			}
		})
	}
}

// arrowCenter returns the arrow's center inside the overlay window.
func arrowCenter(l Layout) geom.Point {
	return geom.Point{
		X: l.Arrow.Left + l.Arrow.Width()/2,
		Y: l.Arrow.Top + l.Arrow.Height()/2,
	}
}

func TestComputeLayout_ArrowCenterStaysOffCorners(t *testing.T) {
	const cornerRadius = 4
	vp := geom.Size{Width: 640, Height: 480}
	balloon := geom.Size{Width: 120, Height: 36}

	for x := 0; x < vp.Width; x += 37 {
		for y := 0; y < vp.Height; y += 29 {
			target := geom.XYWH(x, y, min(48, vp.Width-x), min(24, vp.Height-y))
			g := SelectGravity(target, vp)
			m := Measured{Arrow: ArrowSize(g, 10), Balloon: balloon}

			pos, err := ComputePosition(g, target, m, vp)
			require.NoError(t, err)
			layout, err := ComputeLayout(g, pos, m, vp)
			require.NoError(t, err)

			// Where the host actually puts the window.
			window := geom.ClampOrigin(pos, layout.Size, vp)
			c := arrowCenter(layout)
			screen := geom.Point{X: window.X + c.X, Y: window.Y + c.Y}

			if g.Vertical() {
				assert.GreaterOrEqual(t, c.X, cornerRadius, "target %v", target)
				assert.LessOrEqual(t, c.X, layout.Size.Width-cornerRadius, "target %v", target)
				assert.Equal(t, VisibleCenterX(target, vp), screen.X, "target %v", target)
			} else {
				assert.GreaterOrEqual(t, c.Y, cornerRadius, "target %v", target)
				assert.LessOrEqual(t, c.Y, layout.Size.Height-cornerRadius, "target %v", target)
				assert.Equal(t, VisibleCenterY(target, vp), screen.Y, "target %v", target)
			}
		}
	}
}

func TestVisibleCenter_MonotonicAndBounded(t *testing.T) {
	vp := geom.Size{Width: 300, Height: 200}

	prevX, prevY := -1, -1
	for offset := -400; offset <= 600; offset += 7 {
		target := geom.XYWH(offset, offset, 50, 30)

		cx := VisibleCenterX(target, vp)
		cy := VisibleCenterY(target, vp)

		assert.GreaterOrEqual(t, cx, 0)
		assert.LessOrEqual(t, cx, vp.Width)
		assert.GreaterOrEqual(t, cy, 0)
		assert.LessOrEqual(t, cy, vp.Height)
		assert.GreaterOrEqual(t, cx, prevX)
		assert.GreaterOrEqual(t, cy, prevY)

		prevX, prevY = cx, cy
	}
}

func TestVisibleCenter_UsesVisiblePart(t *testing.T) {
	vp := geom.Size{Width: 300, Height: 200}
	// Half off the left edge: only 0..40 is on screen.
	target := geom.Rect{Left: -40, Top: 10, Right: 40, Bottom: 30}
	assert.Equal(t, 20, VisibleCenterX(target, vp))
	assert.Equal(t, 20, VisibleCenterY(target, vp))
}

func TestArrowSizeAndOverlaySize(t *testing.T) {
	assert.Equal(t, geom.Size{Width: 20, Height: 10}, ArrowSize(GravityTop, 10))
	assert.Equal(t, geom.Size{Width: 10, Height: 20}, ArrowSize(GravityRight, 10))

	m := Measured{Arrow: geom.Size{Width: 20, Height: 10}, Balloon: geom.Size{Width: 100, Height: 40}}
	assert.Equal(t, geom.Size{Width: 100, Height: 50}, OverlaySize(GravityBottom, m))

	m.Arrow = geom.Size{Width: 10, Height: 20}
	assert.Equal(t, geom.Size{Width: 110, Height: 40}, OverlaySize(GravityLeft, m))
}

func TestArrowPath_TipPointsAtTarget(t *testing.T) {
	tests := []struct {
		gravity Gravity
		tip     geom.Point
	}{
		{GravityTop, geom.Point{X: 10, Y: 10}},
		{GravityBottom, geom.Point{X: 10, Y: 0}},
		{GravityLeft, geom.Point{X: 10, Y: 10}},
		{GravityRight, geom.Point{X: 0, Y: 10}},
	}

	for _, tt := range tests {
		t.Run(tt.gravity.String(), func(t *testing.T) {
			path := ArrowPath(tt.gravity, 10)
			assert.Equal(t, tt.tip, path[2])

			box := ArrowSize(tt.gravity, 10)
			for _, p := range path {
				assert.True(t, p.X >= 0 && p.X <= box.Width && p.Y >= 0 && p.Y <= box.Height, "%v outside %v", p, box)
			}
		})
	}
}
