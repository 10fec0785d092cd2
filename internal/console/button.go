// Package console maps a host terminal onto the device's physical surface:
// the confirm button and raw key input.
package console

import "sync/atomic"

// Button is an edge-triggered confirm input. Press may be called from any
// goroutine; WasPressed is polled by the control loop.
type Button struct {
	pressed atomic.Bool
}

// Press records a press.
func (b *Button) Press() {
	b.pressed.Store(true)
}

// WasPressed reports a press since the last call and clears it.
func (b *Button) WasPressed() bool {
	return b.pressed.Swap(false)
}
