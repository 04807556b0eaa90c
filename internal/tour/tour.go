// Package tour parses guided tours: named sequences of tooltips anchored
// to points, rectangles, views or menu items of a screen.
package tour

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jmylchreest/anchortip/internal/config"
	"github.com/jmylchreest/anchortip/internal/geom"
	"github.com/jmylchreest/anchortip/internal/tooltip"
)

// TargetKind identifies how a step's target is resolved.
type TargetKind string

const (
	TargetPoint TargetKind = "point"
	TargetRect  TargetKind = "rect"
	TargetView  TargetKind = "view"
	TargetMenu  TargetKind = "menu"
)

// TargetSpec is a parsed step target such as "view:save" or "rect:1,2,10,3".
type TargetSpec struct {
	Kind TargetKind
	// Name is the view name or menu item id.
	Name string
	// X, Y, Width, Height are used by point and rect targets.
	X, Y, Width, Height int
}

// Step is one tooltip of a tour.
type Step struct {
	Target    TargetSpec
	Text      string
	Color     string
	TextColor string
	// Bold and DismissOnTap are nil when the step does not override them.
	Bold         *bool
	DismissOnTap *bool
}

// Tour is a named sequence of steps shown on a screen.
type Tour struct {
	Name   string
	Title  string
	Screen string
	Steps  []Step
}

// Scene looks up the live views and menu of the screen a tour runs on.
type Scene interface {
	View(name string) (tooltip.View, bool)
	Menu() tooltip.Menu
}

// ParseTarget parses a target spec of the form kind:args.
func ParseTarget(s string) (TargetSpec, error) {
	kind, args, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return TargetSpec{}, fmt.Errorf("target %q: missing kind", s)
	}

	spec := TargetSpec{Kind: TargetKind(strings.ToLower(kind))}
	switch spec.Kind {
	case TargetPoint:
		nums, err := parseInts(args, 2, 4)
		if err != nil {
			return TargetSpec{}, fmt.Errorf("target %q: %w", s, err)
		}
		spec.X, spec.Y = nums[0], nums[1]
		if len(nums) == 4 {
			spec.Width, spec.Height = nums[2], nums[3]
		}
	case TargetRect:
		nums, err := parseInts(args, 4, 4)
		if err != nil {
			return TargetSpec{}, fmt.Errorf("target %q: %w", s, err)
		}
		spec.X, spec.Y, spec.Width, spec.Height = nums[0], nums[1], nums[2], nums[3]
	case TargetView, TargetMenu:
		spec.Name = strings.TrimSpace(args)
		if spec.Name == "" {
			return TargetSpec{}, fmt.Errorf("target %q: missing name", s)
		}
	default:
		return TargetSpec{}, fmt.Errorf("target %q: unknown kind %q", s, kind)
	}
	return spec, nil
}

func parseInts(s string, minCount, maxCount int) ([]int, error) {
	parts := strings.Split(s, ",")
	if len(parts) != minCount && len(parts) != maxCount {
		if minCount == maxCount {
			return nil, fmt.Errorf("want %d numbers, got %d", minCount, len(parts))
		}
		return nil, fmt.Errorf("want %d or %d numbers, got %d", minCount, maxCount, len(parts))
	}
	nums := make([]int, len(parts))
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", p)
		}
		nums[i] = v
	}
	return nums, nil
}

func (s TargetSpec) String() string {
	switch s.Kind {
	case TargetPoint:
		if s.Width != 0 || s.Height != 0 {
			return fmt.Sprintf("point:%d,%d,%d,%d", s.X, s.Y, s.Width, s.Height)
		}
		return fmt.Sprintf("point:%d,%d", s.X, s.Y)
	case TargetRect:
		return fmt.Sprintf("rect:%d,%d,%d,%d", s.X, s.Y, s.Width, s.Height)
	default:
		return string(s.Kind) + ":" + s.Name
	}
}

// Resolve turns the spec into a tooltip target using the scene's views.
func (s TargetSpec) Resolve(scene Scene) (tooltip.Target, error) {
	switch s.Kind {
	case TargetPoint:
		return tooltip.PointTarget{X: s.X, Y: s.Y, Width: s.Width, Height: s.Height}, nil
	case TargetRect:
		return tooltip.RectTarget{Rect: geom.XYWH(s.X, s.Y, s.Width, s.Height)}, nil
	case TargetView:
		v, ok := scene.View(s.Name)
		if !ok {
			return nil, fmt.Errorf("no view named %q", s.Name)
		}
		return tooltip.ViewTarget{View: v}, nil
	case TargetMenu:
		menu := scene.Menu()
		if menu == nil {
			return nil, fmt.Errorf("screen has no menu for item %q", s.Name)
		}
		return tooltip.MenuItemTarget{Menu: menu, ItemID: s.Name}, nil
	}
	return nil, fmt.Errorf("unknown target kind %q", s.Kind)
}

// Parse parses an XML tour from a reader.
func Parse(r io.Reader) (*Tour, error) {
	decoder := xml.NewDecoder(r)

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			return nil, fmt.Errorf("no <tour> element")
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read tour: %w", err)
		}

		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if se.Name.Local != "tour" {
			return nil, fmt.Errorf("unexpected root element: %s", se.Name.Local)
		}

		t := &Tour{}
		for _, attr := range se.Attr {
			switch attr.Name.Local {
			case "name":
				t.Name = attr.Value
			case "title":
				t.Title = attr.Value
			case "screen":
				t.Screen = attr.Value
			}
		}

		steps, err := parseSteps(decoder)
		if err != nil {
			return nil, err
		}
		t.Steps = steps
		return t, nil
	}
}

// parseSteps reads <step> children until the closing </tour>.
func parseSteps(decoder *xml.Decoder) ([]Step, error) {
	var steps []Step

	for {
		tok, err := decoder.Token()
		if err != nil {
			return nil, fmt.Errorf("failed to read step: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if strings.ToLower(t.Name.Local) != "step" {
				return nil, fmt.Errorf("unknown element type: %s", t.Name.Local)
			}
			step, err := parseStep(decoder, t)
			if err != nil {
				return nil, fmt.Errorf("step %d: %w", len(steps)+1, err)
			}
			steps = append(steps, step)

		case xml.EndElement:
			return steps, nil
		}
	}
}

func parseStep(decoder *xml.Decoder, se xml.StartElement) (Step, error) {
	var step Step
	hasTarget := false

	for _, attr := range se.Attr {
		switch attr.Name.Local {
		case "target":
			spec, err := ParseTarget(attr.Value)
			if err != nil {
				return step, err
			}
			step.Target = spec
			hasTarget = true
		case "color":
			if _, err := config.ParseColor(attr.Value); err != nil {
				return step, fmt.Errorf("color: %w", err)
			}
			step.Color = attr.Value
		case "text-color":
			if _, err := config.ParseColor(attr.Value); err != nil {
				return step, fmt.Errorf("text-color: %w", err)
			}
			step.TextColor = attr.Value
		case "bold":
			b, err := strconv.ParseBool(attr.Value)
			if err != nil {
				return step, fmt.Errorf("bold: %w", err)
			}
			step.Bold = &b
		case "dismiss-on-tap":
			b, err := strconv.ParseBool(attr.Value)
			if err != nil {
				return step, fmt.Errorf("dismiss-on-tap: %w", err)
			}
			step.DismissOnTap = &b
		}
	}
	if !hasTarget {
		return step, fmt.Errorf("missing target attribute")
	}

	var text strings.Builder
	for {
		tok, err := decoder.Token()
		if err != nil {
			return step, fmt.Errorf("failed to read step text: %w", err)
		}
		switch t := tok.(type) {
		case xml.CharData:
			text.Write(t)
		case xml.StartElement:
			return step, fmt.Errorf("unexpected element in step: %s", t.Name.Local)
		case xml.EndElement:
			step.Text = strings.Join(strings.Fields(text.String()), " ")
			return step, nil
		}
	}
}

// ParseString parses a tour from a string.
func ParseString(s string) (*Tour, error) {
	return Parse(strings.NewReader(s))
}

// LoadFile loads a tour from file.
func LoadFile(path string) (*Tour, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open tour: %w", err)
	}
	defer func() { _ = f.Close() }()
	return Parse(f)
}
