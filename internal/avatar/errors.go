package avatar

import (
	"errors"
	"fmt"
)

// ErrHalted marks a device that stopped after an unrecoverable bring-up failure.
var ErrHalted = errors.New("device halted")

// BringUpError reports a subsystem that failed to initialize. It is fatal:
// the device shows the failure and halts without retrying.
type BringUpError struct {
	Component string
	Err       error
}

func (e *BringUpError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("failed to boot %s: %v", e.Component, e.Err)
}

func (e *BringUpError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// IsBringUpFailure reports whether err carries a BringUpError.
func IsBringUpFailure(err error) bool {
	var bu *BringUpError
	return errors.As(err, &bu)
}
