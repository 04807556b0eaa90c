package tooltip

import (
	"fmt"
	"strings"

	"github.com/jmylchreest/anchortip/internal/geom"
)

// Gravity is the side of the target the tooltip extends from.
type Gravity int

const (
	GravityTop Gravity = iota
	GravityBottom
	GravityLeft
	GravityRight
)

// verticalBias lets Top or Bottom win while within 30% of the most spacious side.
const verticalBias = 0.7

var gravityNames = map[Gravity]string{
	GravityTop:    "top",
	GravityBottom: "bottom",
	GravityLeft:   "left",
	GravityRight:  "right",
}

func (g Gravity) String() string {
	if name, ok := gravityNames[g]; ok {
		return name
	}
	return fmt.Sprintf("gravity(%d)", int(g))
}

// Vertical reports whether the tooltip sits above or below the target.
func (g Gravity) Vertical() bool {
	return g == GravityTop || g == GravityBottom
}

// MarshalText implements encoding.TextMarshaler.
func (g Gravity) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (g *Gravity) UnmarshalText(text []byte) error {
	parsed, err := ParseGravity(string(text))
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}

// ParseGravity parses "top", "bottom", "left" or "right".
func ParseGravity(s string) (Gravity, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for g, name := range gravityNames {
		if name == s {
			return g, nil
		}
	}
	return GravityTop, fmt.Errorf("unknown gravity %q", s)
}

// SelectGravity picks the side of target with the most room. Each gap is
// scaled by the orthogonal viewport dimension so horizontal and vertical
// gaps compare as areas.
func SelectGravity(target geom.Rect, viewport geom.Size) Gravity {
	vw, vh := int64(viewport.Width), int64(viewport.Height)

	left := int64(target.Left) * vh
	top := int64(target.Top) * vw
	right := (vw - int64(target.Right)) * vh
	bottom := (vh - int64(target.Bottom)) * vw

	most := max(left, top, right, bottom)
	band := verticalBias * float64(most)

	switch {
	case top == most || (bottom != most && float64(top) > band):
		return GravityTop
	case bottom == most || (top != most && float64(bottom) > band):
		return GravityBottom
	case left == most:
		return GravityLeft
	default:
		return GravityRight
	}
}
