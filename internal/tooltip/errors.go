package tooltip

import (
	"errors"
	"fmt"
)

var (
	// ErrPrecondition matches every *PreconditionError.
	ErrPrecondition = errors.New("precondition failed")
	// ErrTargetLocked is returned when the target is changed after Show.
	ErrTargetLocked = errors.New("target cannot change after show")
	// ErrDismissed is returned when a dismissed tooltip is shown again.
	ErrDismissed = errors.New("tooltip was dismissed")
)

// PreconditionError reports an operation called in the wrong state.
type PreconditionError struct {
	Op      string
	Message string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *PreconditionError) Unwrap() error {
	return ErrPrecondition
}
