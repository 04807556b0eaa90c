// Package gtkhost shows tooltips as GTK4 layer-shell surfaces. Each overlay
// is its own top-left anchored window whose margins are the window origin
// on the configured monitor.
package gtkhost

import (
	"fmt"
	"image/color"
	"log/slog"
	"strings"

	layershell "github.com/diamondburned/gotk4-layer-shell/pkg/gtk4layershell"
	"github.com/diamondburned/gotk4/pkg/cairo"
	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/jmylchreest/anchortip/internal/geom"
	"github.com/jmylchreest/anchortip/internal/theme"
	"github.com/jmylchreest/anchortip/internal/tooltip"
)

const namespace = "anchortip"

type balloonVisual struct {
	name   string
	box    *gtk.Box
	label  *gtk.Label
	style  tooltip.BalloonStyle
	parent *gtk.Fixed
}

type arrowVisual struct {
	area    *gtk.DrawingArea
	style   tooltip.ArrowStyle
	gravity tooltip.Gravity
	parent  *gtk.Fixed
}

type overlayWindow struct {
	window *gtk.Window
	fixed  *gtk.Fixed
}

// Host implements tooltip.Host and tooltip.MenuHost on GTK4. All methods
// must be called on the GTK main loop.
type Host struct {
	app     *gtk.Application
	logger  *slog.Logger
	monitor int

	provider *gtk.CSSProvider
	tips     *gtk.CSSProvider
	rules    map[string]string
	applied  *gdk.Display

	windows map[*tooltip.Overlay]*overlayWindow
	taps    map[*tooltip.Overlay]func()
	seq     int

	origin   geom.Point
	hooks    map[tooltip.HookID]hook
	nextHook tooltip.HookID
}

var (
	_ tooltip.Host     = (*Host)(nil)
	_ tooltip.MenuHost = (*Host)(nil)
)

// New creates a host whose overlays belong to app. monitor selects the
// output: 0 for the first, 1+ for a specific monitor.
func New(app *gtk.Application, monitor int, logger *slog.Logger) *Host {
	if logger == nil {
		logger = slog.Default()
	}
	return &Host{
		app:      app,
		logger:   logger,
		monitor:  monitor,
		provider: gtk.NewCSSProvider(),
		tips:     gtk.NewCSSProvider(),
		rules:    make(map[string]string),
		windows:  make(map[*tooltip.Overlay]*overlayWindow),
		taps:     make(map[*tooltip.Overlay]func()),
		hooks:    make(map[tooltip.HookID]hook),
	}
}

// SetMonitor changes the output used for new and updated overlays.
func (h *Host) SetMonitor(monitor int) { h.monitor = monitor }

// ApplyCSS replaces the theme stylesheet.
func (h *Host) ApplyCSS(css string) {
	h.provider.LoadFromString(css)
	h.attachProviders()
}

func (h *Host) attachProviders() {
	display := gdk.DisplayGetDefault()
	if display == nil {
		h.logger.Warn("no display available, cannot apply theme")
		return
	}
	if h.applied == display {
		return
	}
	h.applied = display
	gtk.StyleContextAddProviderForDisplay(display, h.provider, gtk.STYLE_PROVIDER_PRIORITY_APPLICATION)
	// Per-tooltip colors win over the theme.
	gtk.StyleContextAddProviderForDisplay(display, h.tips, gtk.STYLE_PROVIDER_PRIORITY_APPLICATION+1)
}

func (h *Host) reloadRules() {
	var b strings.Builder
	for _, rule := range h.rules {
		b.WriteString(rule)
	}
	h.tips.LoadFromString(b.String())
	h.attachProviders()
}

// Viewport returns the size of the configured monitor.
func (h *Host) Viewport() (geom.Size, error) {
	mon := monitorFor(gdk.DisplayGetDefault(), h.monitor, h.logger)
	if mon == nil {
		return geom.Size{}, fmt.Errorf("no monitor available")
	}
	g := mon.Geometry()
	return geom.Size{Width: g.Width(), Height: g.Height()}, nil
}

// Measure sizes the visual by its natural size, wrapping balloon text at
// bounds.Width.
func (h *Host) Measure(v tooltip.Visual, bounds geom.Size) geom.Size {
	switch vis := v.(type) {
	case *balloonVisual:
		_, natW, _, _ := vis.box.Measure(gtk.OrientationHorizontal, -1)
		w := min(natW, bounds.Width)
		_, natH, _, _ := vis.box.Measure(gtk.OrientationVertical, w)
		size := geom.Size{Width: w, Height: min(natH, bounds.Height)}
		vis.box.SetSizeRequest(size.Width, size.Height)
		return size
	case *arrowVisual:
		return tooltip.ArrowSize(vis.gravity, vis.style.Side)
	}
	return geom.Size{}
}

// NewBalloon builds a rounded box holding a wrapping label.
func (h *Host) NewBalloon(style tooltip.BalloonStyle) tooltip.Visual {
	h.seq++
	name := fmt.Sprintf("anchortip-%d", h.seq)

	label := gtk.NewLabel(style.Text)
	label.SetWrap(true)
	label.SetXAlign(0)

	box := gtk.NewBox(gtk.OrientationVertical, 0)
	box.SetName(name)
	box.AddCSSClass(theme.ClassBalloon)
	box.Append(label)

	h.rules[name] = balloonRule(name, style)
	h.reloadRules()

	return &balloonVisual{name: name, box: box, label: label, style: style}
}

// NewArrow builds a drawing area filled with the arrow triangle.
func (h *Host) NewArrow(style tooltip.ArrowStyle) tooltip.Visual {
	a := &arrowVisual{area: gtk.NewDrawingArea(), style: style}
	a.area.AddCSSClass(theme.ClassArrow)
	a.area.SetDrawFunc(func(_ *gtk.DrawingArea, cr *cairo.Context, _, _ int) {
		c, _ := colorful.MakeColor(orBlack(a.style.Color))
		r, g, b := c.RGB255()
		cr.SetSourceRGB(float64(r)/255, float64(g)/255, float64(b)/255)
		pts := tooltip.ArrowPath(a.gravity, a.style.Side)
		cr.MoveTo(float64(pts[0].X), float64(pts[0].Y))
		cr.LineTo(float64(pts[1].X), float64(pts[1].Y))
		cr.LineTo(float64(pts[2].X), float64(pts[2].Y))
		cr.ClosePath()
		cr.Fill()
	})
	return a
}

func balloonRule(name string, style tooltip.BalloonStyle) string {
	weight := "normal"
	if style.Bold {
		weight = "bold"
	}
	return fmt.Sprintf(`#%s {
  background-color: %s;
  border-radius: %dpx;
  padding: %dpx %dpx;
}
#%s label {
  color: %s;
  font-size: %dpx;
  font-weight: %s;
}
`, name, hex(style.Color), style.CornerRadius, style.PaddingVertical, style.PaddingHorizontal,
		name, hex(style.TextColor), style.TextSize, weight)
}

func orBlack(c color.Color) color.Color {
	if c == nil {
		return color.Black
	}
	return c
}

func hex(c color.Color) string {
	cc, _ := colorful.MakeColor(orBlack(c))
	return cc.Hex()
}

// ClearOverlay drops the overlay's visuals and their style rules.
func (h *Host) ClearOverlay(o *tooltip.Overlay) {
	if b, ok := o.Balloon.(*balloonVisual); ok {
		delete(h.rules, b.name)
		h.reloadRules()
		if b.parent != nil {
			b.parent.Remove(b.box)
			b.parent = nil
		}
	}
	if a, ok := o.Arrow.(*arrowVisual); ok && a.parent != nil {
		a.parent.Remove(a.area)
		a.parent = nil
	}
	o.Balloon = nil
	o.Arrow = nil
}

// AttachOverlay creates the layer-shell window for o.
func (h *Host) AttachOverlay(o *tooltip.Overlay, pos geom.Point) {
	win := gtk.NewWindow()
	win.SetApplication(h.app)
	win.SetDecorated(false)
	win.SetResizable(false)
	win.AddCSSClass(theme.ClassOverlay)

	layershell.InitForWindow(win)
	layershell.SetLayer(win, layershell.LayerShellLayerOverlay)
	layershell.SetExclusiveZone(win, 0)
	layershell.SetKeyboardMode(win, layershell.LayerShellKeyboardModeNone)
	layershell.SetNamespace(win, namespace)
	layershell.SetAnchor(win, layershell.LayerShellEdgeTop, true)
	layershell.SetAnchor(win, layershell.LayerShellEdgeLeft, true)
	if mon := monitorFor(gdk.DisplayGetDefault(), h.monitor, h.logger); mon != nil {
		layershell.SetMonitor(win, mon)
	}

	ow := &overlayWindow{window: win, fixed: gtk.NewFixed()}
	win.SetChild(ow.fixed)

	click := gtk.NewGestureClick()
	click.ConnectReleased(func(nPress int, x, y float64) {
		if fn := h.taps[o]; fn != nil {
			fn()
		}
	})
	win.AddController(click)

	h.windows[o] = ow
	h.place(o, ow, pos)
	win.SetVisible(o.Visible)
}

// UpdateOverlay moves the window and re-places its children.
func (h *Host) UpdateOverlay(o *tooltip.Overlay, pos geom.Point) {
	ow, ok := h.windows[o]
	if !ok {
		return
	}
	h.place(o, ow, pos)
}

func (h *Host) place(o *tooltip.Overlay, ow *overlayWindow, pos geom.Point) {
	vp, err := h.Viewport()
	if err == nil {
		pos = geom.ClampOrigin(pos, o.Layout.Size, vp)
	}
	layershell.SetMargin(ow.window, layershell.LayerShellEdgeTop, pos.Y)
	layershell.SetMargin(ow.window, layershell.LayerShellEdgeLeft, pos.X)
	ow.window.SetDefaultSize(o.Layout.Size.Width, o.Layout.Size.Height)
	ow.window.SetSizeRequest(o.Layout.Size.Width, o.Layout.Size.Height)

	if b, ok := o.Balloon.(*balloonVisual); ok {
		putChild(ow.fixed, &b.parent, b.box, o.Layout.Balloon)
	}
	if a, ok := o.Arrow.(*arrowVisual); ok {
		a.gravity = o.Gravity
		a.area.SetContentWidth(o.Layout.Arrow.Width())
		a.area.SetContentHeight(o.Layout.Arrow.Height())
		putChild(ow.fixed, &a.parent, a.area, o.Layout.Arrow)
		a.area.QueueDraw()
	}
}

func putChild(fixed *gtk.Fixed, parent **gtk.Fixed, child gtk.Widgetter, r geom.Rect) {
	if *parent == fixed {
		fixed.Move(child, float64(r.Left), float64(r.Top))
		return
	}
	fixed.Put(child, float64(r.Left), float64(r.Top))
	*parent = fixed
}

// SetOverlayVisible maps or unmaps the window.
func (h *Host) SetOverlayVisible(o *tooltip.Overlay, visible bool) {
	if ow, ok := h.windows[o]; ok {
		ow.window.SetVisible(visible)
	}
}

// DetachOverlay destroys the window.
func (h *Host) DetachOverlay(o *tooltip.Overlay) {
	ow, ok := h.windows[o]
	if !ok {
		return
	}
	delete(h.windows, o)
	delete(h.taps, o)
	if b, ok := o.Balloon.(*balloonVisual); ok {
		delete(h.rules, b.name)
		h.reloadRules()
	}
	ow.window.Close()
}

// OnOverlayTap installs the click handler of o's window.
func (h *Host) OnOverlayTap(o *tooltip.Overlay, fn func()) {
	h.taps[o] = fn
}

// Overlays returns the number of attached overlays.
func (h *Host) Overlays() int { return len(h.windows) }
