package tooltip

import "github.com/jmylchreest/anchortip/internal/config"

// Metrics are the pixel sizes a tooltip is drawn with.
type Metrics struct {
	ArrowSide         int
	CornerRadius      int
	PaddingVertical   int
	PaddingHorizontal int
	TextSize          int
}

// DefaultMetrics returns the metrics of the default style at density 1.
func DefaultMetrics() Metrics {
	return MetricsFromStyle(config.DefaultConfig().Style)
}

// MetricsFromStyle converts density-independent style values to pixels.
// The arrow side is rounded down to an even number so the arrow tip lands
// on a whole pixel.
func MetricsFromStyle(s config.StyleConfig) Metrics {
	density := s.Density
	if density <= 0 {
		density = config.DefaultDensity
	}
	px := func(dp int) int {
		return int(float64(dp) * density)
	}

	side := px(s.ArrowSideDP)
	side -= side & 1

	return Metrics{
		ArrowSide:         side,
		CornerRadius:      px(s.CornerRadiusDP),
		PaddingVertical:   px(s.PaddingVerticalDP),
		PaddingHorizontal: px(s.PaddingHorizontalDP),
		TextSize:          px(s.TextSizeSP),
	}
}
