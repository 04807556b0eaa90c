package theme

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/lucasb-eyer/go-colorful"
)

// Style classes set on the overlay widgets.
const (
	ClassOverlay = "anchortip-overlay"
	ClassBalloon = "anchortip-balloon"
	ClassArrow   = "anchortip-arrow"
)

// CSSOptions are the pixel sizes and colors baked into the stylesheet.
type CSSOptions struct {
	Balloon           colorful.Color
	Text              colorful.Color
	Border            colorful.Color
	CornerRadius      int
	PaddingVertical   int
	PaddingHorizontal int
	TextSize          int
	Bold              bool
}

var cssTemplate = template.Must(template.New("css").Parse(`window.{{.ClassOverlay}} {
  background: transparent;
}

.{{.ClassBalloon}} {
  background-color: {{.Balloon}};
  border: 1px solid {{.Border}};
  border-radius: {{.CornerRadius}}px;
  padding: {{.PaddingVertical}}px {{.PaddingHorizontal}}px;
}

.{{.ClassBalloon}} label {
  color: {{.Text}};
  font-size: {{.TextSize}}px;
  font-weight: {{if .Bold}}bold{{else}}normal{{end}};
}

.{{.ClassArrow}} {
  color: {{.Balloon}};
}
`))

// RenderCSS renders the stylesheet for the given options, followed by the
// theme's extra CSS.
func (t *Theme) RenderCSS(opts CSSOptions) (string, error) {
	data := struct {
		ClassOverlay, ClassBalloon, ClassArrow string
		Balloon, Text, Border                  string
		CornerRadius                           int
		PaddingVertical, PaddingHorizontal     int
		TextSize                               int
		Bold                                   bool
	}{
		ClassOverlay:      ClassOverlay,
		ClassBalloon:      ClassBalloon,
		ClassArrow:        ClassArrow,
		Balloon:           opts.Balloon.Hex(),
		Text:              opts.Text.Hex(),
		Border:            opts.Border.Hex(),
		CornerRadius:      opts.CornerRadius,
		PaddingVertical:   opts.PaddingVertical,
		PaddingHorizontal: opts.PaddingHorizontal,
		TextSize:          opts.TextSize,
		Bold:              opts.Bold,
	}

	var buf bytes.Buffer
	if err := cssTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render theme css: %w", err)
	}
	if t.CSS != "" {
		buf.WriteString("\n")
		buf.WriteString(t.CSS)
	}
	return buf.String(), nil
}

// BorderColor resolves the palette border, defaulting to the balloon color.
func (p Palette) BorderColor(balloon colorful.Color) colorful.Color {
	if p.Border == "" {
		return balloon
	}
	c, err := colorful.Hex(p.Border)
	if err != nil {
		return balloon
	}
	return c
}
