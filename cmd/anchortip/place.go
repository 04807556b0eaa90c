package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/anchortip/internal/geom"
	"github.com/jmylchreest/anchortip/internal/tooltip"
	"github.com/jmylchreest/anchortip/internal/tour"
)

var placeOpts struct {
	viewport string
	balloon  string
	arrow    int
	gravity  string
	format   string
}

// placement is the result of the place command.
type placement struct {
	Target   geom.Rect       `json:"target" yaml:"target"`
	Viewport geom.Size       `json:"viewport" yaml:"viewport"`
	Gravity  tooltip.Gravity `json:"gravity" yaml:"gravity"`
	Position geom.Point      `json:"position" yaml:"position"`
	Layout   tooltip.Layout  `json:"layout" yaml:"layout"`
}

var placeCmd = &cobra.Command{
	Use:   "place <target>",
	Short: "Compute where a tooltip goes",
	Long: `Run the placement engine for a target without showing anything.

The target is point:x,y, point:x,y,w,h (a point with a size hint) or
rect:x,y,w,h in viewport coordinates. The balloon size is given in the
same units; the arrow side defaults to the configured style.

Examples:
  # Where does a 120x40 balloon go for a button at the top of a 1920x1080 screen?
  anchortip place rect:900,0,120,32 --balloon 120x40

  # Force a side and print the full layout as YAML
  anchortip place point:10,500 --gravity right --format yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runPlace,
}

func init() {
	rootCmd.AddCommand(placeCmd)

	placeCmd.Flags().StringVar(&placeOpts.viewport, "viewport", "1920x1080",
		"Viewport size as WIDTHxHEIGHT")
	placeCmd.Flags().StringVar(&placeOpts.balloon, "balloon", "160x40",
		"Measured balloon size as WIDTHxHEIGHT")
	placeCmd.Flags().IntVar(&placeOpts.arrow, "arrow", 0,
		"Arrow short side (0 = from the configured style)")
	placeCmd.Flags().StringVar(&placeOpts.gravity, "gravity", "",
		"Force a side (top, bottom, left, right) instead of choosing one")
	placeCmd.Flags().StringVarP(&placeOpts.format, "format", "f", formatPlain,
		"Output format (plain, json, yaml)")
}

func runPlace(cmd *cobra.Command, args []string) error {
	spec, err := tour.ParseTarget(args[0])
	if err != nil {
		return err
	}
	viewport, err := parseSize(placeOpts.viewport)
	if err != nil {
		return fmt.Errorf("--viewport: %w", err)
	}
	balloon, err := parseSize(placeOpts.balloon)
	if err != nil {
		return fmt.Errorf("--balloon: %w", err)
	}

	side := placeOpts.arrow
	if side <= 0 {
		side = tooltip.MetricsFromStyle(cfg.Style).ArrowSide
	}

	var forced *tooltip.Gravity
	if placeOpts.gravity != "" {
		g, err := tooltip.ParseGravity(placeOpts.gravity)
		if err != nil {
			return err
		}
		forced = &g
	}

	p, err := place(spec, viewport, balloon, side, forced)
	if err != nil {
		return err
	}
	logger.Debug("placed tooltip",
		"gravity", p.Gravity.String(),
		"x", p.Position.X,
		"y", p.Position.Y,
	)

	return writeFormatted(os.Stdout, placeOpts.format, p, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "%s %d,%d %s\n", p.Gravity, p.Position.X, p.Position.Y, p.Layout.Size)
		return err
	})
}

// place runs gravity selection, positioning and child layout for a point
// or rect target.
func place(spec tour.TargetSpec, viewport, balloon geom.Size, side int, forced *tooltip.Gravity) (placement, error) {
	var target geom.Rect
	switch spec.Kind {
	case tour.TargetPoint:
		if spec.Width == 0 && spec.Height == 0 {
			target = geom.Rect{Left: spec.X, Top: spec.Y, Right: spec.X, Bottom: spec.Y}
		} else {
			target = geom.XYWH(spec.X-spec.Width/2, spec.Y-spec.Height/2, spec.Width, spec.Height)
		}
	case tour.TargetRect:
		target = geom.XYWH(spec.X, spec.Y, spec.Width, spec.Height)
	default:
		return placement{}, fmt.Errorf("target %s: only point and rect targets can be placed offline", spec)
	}

	g := tooltip.SelectGravity(target, viewport)
	if forced != nil {
		g = *forced
	}

	m := tooltip.Measured{Arrow: tooltip.ArrowSize(g, side), Balloon: balloon}
	pos, err := tooltip.ComputePosition(g, target, m, viewport)
	if err != nil {
		return placement{}, err
	}
	layout, err := tooltip.ComputeLayout(g, pos, m, viewport)
	if err != nil {
		return placement{}, err
	}

	return placement{
		Target:   target,
		Viewport: viewport,
		Gravity:  g,
		Position: pos,
		Layout:   layout,
	}, nil
}

// parseSize parses WIDTHxHEIGHT.
func parseSize(s string) (geom.Size, error) {
	w, h, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return geom.Size{}, fmt.Errorf("size %q: want WIDTHxHEIGHT", s)
	}
	width, err := strconv.Atoi(w)
	if err != nil {
		return geom.Size{}, fmt.Errorf("size %q: invalid width", s)
	}
	height, err := strconv.Atoi(h)
	if err != nil {
		return geom.Size{}, fmt.Errorf("size %q: invalid height", s)
	}
	if width <= 0 || height <= 0 {
		return geom.Size{}, fmt.Errorf("size %q: must be positive", s)
	}
	return geom.Size{Width: width, Height: height}, nil
}
