package layout

import (
	"errors"
	"fmt"
)

// ErrGestureInProgress is returned when a resize starts while another is active
var ErrGestureInProgress = errors.New("a resize gesture is already in progress")

// ValidationError rejects a request before any state is modified
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// IsValidationError reports whether err is, or wraps, a *ValidationError
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
