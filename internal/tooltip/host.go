package tooltip

import (
	"image/color"

	"github.com/jmylchreest/anchortip/internal/geom"
)

// View is a host widget handle. Its concrete type belongs to the host.
type View any

// Visual is a host-built balloon or arrow.
type Visual any

// Menu and MenuItem are host menu handles.
type (
	Menu     any
	MenuItem any
)

// HookID identifies a registered frame hook.
type HookID uint64

// BalloonStyle describes the content bubble.
type BalloonStyle struct {
	Text              string
	Color             color.Color
	TextColor         color.Color
	Bold              bool
	TextSize          int
	PaddingVertical   int
	PaddingHorizontal int
	CornerRadius      int
}

// ArrowStyle describes the arrow glyph. Side is the short side length.
type ArrowStyle struct {
	Color color.Color
	Side  int
}

// Overlay is the window a tooltip attaches: its two visuals plus where they
// sit inside it. Hosts keep it by pointer for the tooltip's lifetime.
type Overlay struct {
	ID      string
	Balloon Visual
	Arrow   Visual
	Gravity Gravity
	Layout  Layout
	// Visible is the state the overlay should have when attached.
	Visible bool
}

// Host is the display surface a tooltip is shown on. All calls are made on
// the host's UI loop and are assumed not to fail.
type Host interface {
	// Viewport reports the usable display size.
	Viewport() (geom.Size, error)
	// Measure sizes a visual within the given bounds.
	Measure(v Visual, max geom.Size) geom.Size

	NewBalloon(style BalloonStyle) Visual
	NewArrow(style ArrowStyle) Visual
	// ClearOverlay discards the overlay's current visuals.
	ClearOverlay(o *Overlay)

	LocateOnScreen(v View) geom.Point
	ViewSize(v View) geom.Size
	IsShown(v View) bool
	// VisibleRect returns the unclipped part of the view; false when none.
	VisibleRect(v View) (geom.Rect, bool)

	// AttachOverlay shows the overlay window with its top-left at pos. A
	// host may move the window back inside the viewport; Layout offsets
	// compensate for that.
	AttachOverlay(o *Overlay, pos geom.Point)
	UpdateOverlay(o *Overlay, pos geom.Point)
	SetOverlayVisible(o *Overlay, visible bool)
	DetachOverlay(o *Overlay)
	OnOverlayTap(o *Overlay, fn func())

	// RegisterFrameHook runs fn before every frame in which v is drawn.
	RegisterFrameHook(v View, fn func()) HookID
	UnregisterFrameHook(v View, id HookID)
	// AfterLayout runs fn once, after the next layout pass that includes v.
	AfterLayout(v View, fn func())
}

// MenuHost is implemented by hosts that can anchor tooltips to menu entries.
type MenuHost interface {
	FindMenuItem(menu Menu, id string) (MenuItem, bool)
	ActionView(item MenuItem) (View, bool)
	// SetActionView replaces the item's action view; nil restores the default.
	SetActionView(item MenuItem, v View)
	// NewPlaceholder builds a zero-content view standing in for the item.
	NewPlaceholder(item MenuItem) View
}
