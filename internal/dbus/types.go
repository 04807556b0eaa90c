package dbus

import (
	"fmt"
	"time"

	"github.com/godbus/dbus/v5"
)

const (
	// Interface is the tooltip interface name.
	Interface = "io.github.jmylchreest.Anchortip"
	// Path is the tooltip object path.
	Path = dbus.ObjectPath("/io/github/jmylchreest/Anchortip")
	// BusName is the bus name to claim.
	BusName = "io.github.jmylchreest.Anchortip"
)

// CloseReason represents the reason a tooltip was closed. The values
// follow the freedesktop.org notification close reasons.
type CloseReason uint32

const (
	// CloseReasonExpired indicates the timeout was reached, or the tooltip
	// made room for a newer one.
	CloseReasonExpired CloseReason = 1
	// CloseReasonDismissed indicates the user tapped the tooltip away.
	CloseReasonDismissed CloseReason = 2
	// CloseReasonClosed indicates the tooltip was closed via Dismiss.
	CloseReasonClosed CloseReason = 3
	// CloseReasonUndefined is reserved.
	CloseReasonUndefined CloseReason = 4
)

// String returns the string representation of the close reason.
func (r CloseReason) String() string {
	switch r {
	case CloseReasonExpired:
		return "expired"
	case CloseReasonDismissed:
		return "dismissed"
	case CloseReasonClosed:
		return "closed"
	case CloseReasonUndefined:
		return "undefined"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (r CloseReason) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// Option keys accepted in the a{sv} argument of ShowAt and ShowRect.
const (
	OptionColor        = "color"          // s, "#rrggbb"
	OptionTextColor    = "text-color"     // s, "#rrggbb"
	OptionBold         = "bold"           // b
	OptionDismissOnTap = "dismiss-on-tap" // b
	OptionTimeout      = "timeout"        // i, milliseconds; -1 = default, 0 = never
)

// Options are the optional tooltip settings of a show call.
type Options struct {
	Color        string
	TextColor    string
	Bold         *bool
	DismissOnTap *bool
	// Timeout is negative when the daemon default applies.
	Timeout time.Duration
}

// DefaultOptions returns options that leave every setting to the daemon.
func DefaultOptions() Options {
	return Options{Timeout: -1}
}

// ParseOptions reads the options map of a show call. Unknown keys are
// ignored so newer clients keep working.
func ParseOptions(opts map[string]dbus.Variant) (Options, error) {
	o := DefaultOptions()
	for key, v := range opts {
		switch key {
		case OptionColor, OptionTextColor:
			s, ok := v.Value().(string)
			if !ok {
				return o, fmt.Errorf("option %s: want string, got %s", key, v.Signature())
			}
			if key == OptionColor {
				o.Color = s
			} else {
				o.TextColor = s
			}
		case OptionBold, OptionDismissOnTap:
			b, ok := v.Value().(bool)
			if !ok {
				return o, fmt.Errorf("option %s: want boolean, got %s", key, v.Signature())
			}
			if key == OptionBold {
				o.Bold = &b
			} else {
				o.DismissOnTap = &b
			}
		case OptionTimeout:
			ms, ok := v.Value().(int32)
			if !ok {
				return o, fmt.Errorf("option %s: want int32, got %s", key, v.Signature())
			}
			if ms < 0 {
				o.Timeout = -1
			} else {
				o.Timeout = time.Duration(ms) * time.Millisecond
			}
		}
	}
	return o, nil
}

// Variants encodes the options for a show call, leaving out unset ones.
func (o Options) Variants() map[string]dbus.Variant {
	v := make(map[string]dbus.Variant)
	if o.Color != "" {
		v[OptionColor] = dbus.MakeVariant(o.Color)
	}
	if o.TextColor != "" {
		v[OptionTextColor] = dbus.MakeVariant(o.TextColor)
	}
	if o.Bold != nil {
		v[OptionBold] = dbus.MakeVariant(*o.Bold)
	}
	if o.DismissOnTap != nil {
		v[OptionDismissOnTap] = dbus.MakeVariant(*o.DismissOnTap)
	}
	if o.Timeout >= 0 {
		v[OptionTimeout] = dbus.MakeVariant(int32(o.Timeout / time.Millisecond))
	}
	return v
}

// ShowRequest is a show call: a point is a rect without size.
type ShowRequest struct {
	X, Y          int
	Width, Height int
	Point         bool
	Text          string
	Options       Options
}

// TooltipInfo describes an active tooltip in List replies: a(ssiix).
type TooltipInfo struct {
	ID      string
	Text    string
	X       int32
	Y       int32
	Created int64 // Unix seconds
}

// CreatedAt returns the creation time.
func (t TooltipInfo) CreatedAt() time.Time {
	return time.Unix(t.Created, 0)
}

// ServerInfo contains information about the tooltip server.
type ServerInfo struct {
	Name    string // "anchortipd"
	Vendor  string // "anchortip"
	Version string // Build version
}

// DefaultServerInfo returns the default server information.
func DefaultServerInfo() ServerInfo {
	return ServerInfo{
		Name:    "anchortipd",
		Vendor:  "anchortip",
		Version: "0.0.1", // Will be replaced by build-time version
	}
}
