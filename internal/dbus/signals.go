package dbus

import (
	"fmt"
)

// EmitShown emits the Shown signal once a tooltip is on screen.
func (s *TooltipServer) EmitShown(id string) error {
	if s.conn == nil {
		return fmt.Errorf("not connected to D-Bus")
	}

	if err := s.conn.Emit(Path, Interface+".Shown", id); err != nil {
		return fmt.Errorf("failed to emit Shown signal: %w", err)
	}

	s.logger.Debug("emitted Shown signal", "tooltip_id", id)
	return nil
}

// EmitDismissed emits the Dismissed signal. It is emitted when a tooltip
// closes for any reason: timeout, tap or an explicit Dismiss call.
func (s *TooltipServer) EmitDismissed(id string, reason CloseReason) error {
	if s.conn == nil {
		return fmt.Errorf("not connected to D-Bus")
	}

	if err := s.conn.Emit(Path, Interface+".Dismissed", id, uint32(reason)); err != nil {
		return fmt.Errorf("failed to emit Dismissed signal: %w", err)
	}

	s.logger.Debug("emitted Dismissed signal", "tooltip_id", id, "reason", reason.String())
	return nil
}
