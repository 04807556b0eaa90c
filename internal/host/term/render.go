package term

import (
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/mattn/go-runewidth"

	"github.com/jmylchreest/anchortip/internal/geom"
	"github.com/jmylchreest/anchortip/internal/tooltip"
)

type balloon struct {
	style tooltip.BalloonStyle
	lines []string
	size  geom.Size
}

type arrow struct {
	style tooltip.ArrowStyle
}

// render lays the text out in a rounded box, wrapping when the natural
// width exceeds maxWidth.
func (b *balloon) render(maxWidth int) {
	frame := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(b.style.PaddingVertical, b.style.PaddingHorizontal)

	out := frame.Render(b.style.Text)
	border := frame.GetHorizontalBorderSize()
	if lipgloss.Width(out) > maxWidth && maxWidth > border+frame.GetHorizontalPadding() {
		out = frame.Width(maxWidth - border).Render(b.style.Text)
	}

	b.lines = strings.Split(out, "\n")
	b.size = geom.Size{Width: lipgloss.Width(out), Height: lipgloss.Height(out)}
}

// glyphs returns the arrow glyph rows for a box of the given gravity.
func (a *arrow) glyphs(g tooltip.Gravity, box geom.Size) []string {
	rows := make([][]rune, box.Height)
	for y := range rows {
		rows[y] = []rune(strings.Repeat(" ", box.Width))
	}
	set := func(x, y int, r rune) {
		if y >= 0 && y < len(rows) && x >= 0 && x < len(rows[y]) {
			rows[y][x] = r
		}
	}

	side := a.style.Side
	for i := 0; i < side; i++ {
		switch g {
		case tooltip.GravityTop:
			set(i, i, '╲')
			set(2*side-1-i, i, '╱')
		case tooltip.GravityBottom:
			set(side-1-i, i, '╱')
			set(side+i, i, '╲')
		case tooltip.GravityLeft:
			set(i, i, '╲')
			set(i, 2*side-1-i, '╱')
		case tooltip.GravityRight:
			set(side-1-i, i, '╱')
			set(side-1-i, 2*side-1-i, '╲')
		}
	}

	out := make([]string, len(rows))
	for y, row := range rows {
		out[y] = string(row)
	}
	return out
}

type cellStyle struct {
	fg, bg   string
	bold     bool
	reverse  bool
	skipFill bool // spaces do not overwrite what is below
}

func (s cellStyle) toLipgloss() lipgloss.Style {
	st := lipgloss.NewStyle().Bold(s.bold).Reverse(s.reverse)
	if s.fg != "" {
		st = st.Foreground(lipgloss.Color(s.fg))
	}
	if s.bg != "" {
		st = st.Background(lipgloss.Color(s.bg))
	}
	return st
}

type cell struct {
	r     rune // 0 for the trailing half of a wide rune
	style cellStyle
}

type grid struct {
	size  geom.Size
	cells [][]cell
}

func newGrid(size geom.Size) *grid {
	g := &grid{size: size, cells: make([][]cell, size.Height)}
	for y := range g.cells {
		row := make([]cell, size.Width)
		for x := range row {
			row[x] = cell{r: ' '}
		}
		g.cells[y] = row
	}
	return g
}

// text writes s at (x, y), dropping cells outside clip.
func (g *grid) text(x, y int, s string, style cellStyle, clip geom.Rect) {
	clip = clip.Intersect(geom.XYWH(0, 0, g.size.Width, g.size.Height))
	if y < clip.Top || y >= clip.Bottom {
		return
	}
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if r == ' ' && style.skipFill {
			x += w
			continue
		}
		if x >= clip.Left && x+w <= clip.Right {
			g.split(x, y)
			g.split(x+w, y)
			g.cells[y][x] = cell{r: r, style: style}
			if w == 2 {
				g.cells[y][x+1] = cell{r: 0, style: style}
			}
		}
		x += w
	}
}

// split blanks a wide rune straddling the boundary before column x.
func (g *grid) split(x, y int) {
	if x <= 0 || x >= g.size.Width || g.cells[y][x].r != 0 {
		return
	}
	g.cells[y][x-1] = cell{r: ' ', style: g.cells[y][x-1].style}
	g.cells[y][x] = cell{r: ' ', style: g.cells[y][x].style}
}

func (g *grid) block(x, y int, lines []string, style cellStyle, clip geom.Rect) {
	for i, line := range lines {
		g.text(x, y+i, line, style, clip)
	}
}

// String renders the grid, styling runs of equally styled cells.
func (g *grid) String() string {
	var sb strings.Builder
	for y, row := range g.cells {
		if y > 0 {
			sb.WriteByte('\n')
		}
		var run strings.Builder
		var runStyle cellStyle
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if runStyle == (cellStyle{}) {
				sb.WriteString(run.String())
			} else {
				sb.WriteString(runStyle.toLipgloss().Render(run.String()))
			}
			run.Reset()
		}
		for _, c := range row {
			if c.r == 0 {
				continue
			}
			style := c.style
			style.skipFill = false
			if style != runStyle {
				flush()
				runStyle = style
			}
			run.WriteRune(c.r)
		}
		flush()
	}
	return sb.String()
}

func hexColor(c color.Color) string {
	if c == nil {
		return ""
	}
	cf, _ := colorful.MakeColor(c)
	return cf.Hex()
}

var (
	menuStyle     = cellStyle{reverse: true}
	menuItemStyle = cellStyle{reverse: true, bold: true}
	selectedStyle = cellStyle{reverse: true}
)

// Render draws the widgets, the menu bar and the visible overlays.
func (h *Host) Render() string {
	g := newGrid(h.size)
	screen := geom.XYWH(0, 0, h.size.Width, h.size.Height)

	for _, w := range h.widgets {
		drawWidget(g, w, screenRect(w), screen)
	}
	for _, p := range h.panes {
		for _, w := range p.widgets {
			drawWidget(g, w, screenRect(w), p.Area)
		}
	}
	if h.menu != nil {
		h.drawMenu(g)
	}

	wins := h.stack()
	for i := len(wins) - 1; i >= 0; i-- {
		win := wins[i]
		if !win.visible {
			continue
		}
		drawOverlay(g, win, screen)
	}
	return g.String()
}

func drawWidget(g *grid, w *Widget, r geom.Rect, clip geom.Rect) {
	if w.Hidden || r.Empty() {
		return
	}
	style := cellStyle{}
	if w.Selected {
		style = selectedStyle
	}

	if r.Height() >= 3 && r.Width() >= 3 {
		box := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Width(r.Width()-2).
			Height(r.Height()-2).
			Align(lipgloss.Center, lipgloss.Center).
			Render(runewidth.Truncate(w.Label, r.Width()-2, "…"))
		g.block(r.Left, r.Top, strings.Split(box, "\n"), style, clip.Intersect(r))
		return
	}

	label := runewidth.FillRight(" "+runewidth.Truncate(w.Label, r.Width()-1, "…"), r.Width())
	for y := r.Top; y < r.Bottom; y++ {
		g.text(r.Left, y, label, style, clip.Intersect(r))
	}
}

func (h *Host) drawMenu(g *grid) {
	bar := geom.XYWH(0, 0, h.size.Width, 1)
	g.text(0, 0, runewidth.FillRight(" "+h.menu.Title, h.size.Width), menuStyle, bar)

	for _, item := range h.menu.Items {
		if item.Collapsed {
			continue
		}
		g.text(item.slot.Left, 0, " "+item.Label+" ", menuItemStyle, bar)
	}
	if !h.menu.overflow.Empty() {
		g.text(h.menu.overflow.Left, 0, " "+overflowLabel+" ", menuItemStyle, bar)
	}
}

func drawOverlay(g *grid, win *overlayWindow, screen geom.Rect) {
	o := win.overlay
	b, ok := o.Balloon.(*balloon)
	if !ok || b.lines == nil {
		return
	}
	origin := win.origin

	fill := cellStyle{fg: hexColor(b.style.TextColor), bg: hexColor(b.style.Color), bold: b.style.Bold}
	at := o.Layout.Balloon.Translate(origin.X, origin.Y)
	g.block(at.Left, at.Top, b.lines, fill, screen)

	if a, ok := o.Arrow.(*arrow); ok {
		r := o.Layout.Arrow.Translate(origin.X, origin.Y)
		glyph := cellStyle{fg: hexColor(a.style.Color), skipFill: true}
		g.block(r.Left, r.Top, a.glyphs(o.Gravity, r.Size()), glyph, screen)
	}
}
