package main

import (
	"errors"
	"fmt"

	"github.com/srg/avatarlink/internal/avatar"
	"github.com/srg/avatarlink/internal/link"
)

// ErrInvalidDistance indicates an encode argument that is not a millimeter value in range.
var ErrInvalidDistance = errors.New("invalid distance")

// FormatUserError turns an error chain into a one-line message for the terminal.
func FormatUserError(err error) string {
	var bu *avatar.BringUpError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &bu):
		return fmt.Sprintf("failed to boot %s: %v (device halted)", bu.Component, bu.Err)
	case errors.Is(err, link.ErrUnsupported):
		return fmt.Sprintf("%v; try --radio loopback", err)
	default:
		return err.Error()
	}
}
