package link

import "sync/atomic"

const (
	cellCodeMask = 0xff
	cellSet      = 1 << 8 // a code has been written at least once
	cellChanged  = 1 << 9 // written code not yet consumed
)

// ExpressionCell is a single-producer/single-consumer cell holding the last
// written expression code and its changed edge flag.
//
// Code, "set" and "changed" share one atomic word, so the consumer always
// observes a code together with the flag that announced it. Offer is called
// only from the radio's write handler; Take only from the control loop.
type ExpressionCell struct {
	word atomic.Uint32
}

// Offer stores code and raises the changed flag unless code equals the stored one.
// It reports whether the write counted as a change.
func (c *ExpressionCell) Offer(code byte) bool {
	for {
		old := c.word.Load()
		if old&cellSet != 0 && byte(old&cellCodeMask) == code {
			return false
		}
		if c.word.CompareAndSwap(old, uint32(code)|cellSet|cellChanged) {
			return true
		}
	}
}

// Take returns the pending code and clears the changed flag. A change is
// handed out at most once; ok is false when nothing changed since the last Take.
func (c *ExpressionCell) Take() (code byte, ok bool) {
	for {
		old := c.word.Load()
		if old&cellChanged == 0 {
			return 0, false
		}
		if c.word.CompareAndSwap(old, old&^cellChanged) {
			return byte(old & cellCodeMask), true
		}
	}
}

// Peek returns the stored code without consuming the change.
func (c *ExpressionCell) Peek() (code byte, set bool) {
	w := c.word.Load()
	return byte(w & cellCodeMask), w&cellSet != 0
}

// Pending reports whether a change is waiting for the consumer.
func (c *ExpressionCell) Pending() bool {
	return c.word.Load()&cellChanged != 0
}
