package tour

import (
	"github.com/jmylchreest/anchortip/internal/config"
	"github.com/jmylchreest/anchortip/internal/tooltip"
)

// Apply configures tt for this step. Colors left empty in the step keep
// the tooltip's current colors.
func (s Step) Apply(tt *tooltip.Tooltip, scene Scene) error {
	target, err := s.Target.Resolve(scene)
	if err != nil {
		return err
	}
	if err := tt.SetTarget(target); err != nil {
		return err
	}
	tt.SetText(s.Text)

	if s.Color != "" {
		c, err := config.ParseColor(s.Color)
		if err != nil {
			return err
		}
		tt.SetColor(c)
	}
	if s.TextColor != "" {
		c, err := config.ParseColor(s.TextColor)
		if err != nil {
			return err
		}
		tt.SetTextColor(c)
	}
	if s.Bold != nil {
		tt.SetBold(*s.Bold)
	}
	if s.DismissOnTap != nil {
		tt.SetDismissOnTap(*s.DismissOnTap)
	}
	return nil
}
