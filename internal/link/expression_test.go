package link

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpressionCell_EdgeTriggered(t *testing.T) {
	// GOAL: Verify the changed flag is raised iff a write differs from the previous value
	//
	// TEST SCENARIO: write sequence with repeats → Offer result per write → final Take returns last value

	var c ExpressionCell

	writes := []byte{2, 2, 0, 0, 0, 5, 2, 2}
	want := []bool{true, false, true, false, false, true, true, false}

	for i, v := range writes {
		assert.Equal(t, want[i], c.Offer(v), "write %d (%d) change detection MUST match", i, v)
	}

	code, ok := c.Take()
	assert.True(t, ok, "pending change MUST be returned")
	assert.Equal(t, byte(2), code, "drained value MUST equal the last write")
}

func TestExpressionCell_FirstWriteAlwaysChanges(t *testing.T) {
	var c ExpressionCell

	_, set := c.Peek()
	assert.False(t, set, "fresh cell MUST be unset")
	assert.True(t, c.Offer(0), "first write of the zero code MUST count as a change")
}

func TestExpressionCell_TakeExactlyOnce(t *testing.T) {
	var c ExpressionCell
	c.Offer(3)

	code, ok := c.Take()
	assert.True(t, ok)
	assert.Equal(t, byte(3), code)

	_, ok = c.Take()
	assert.False(t, ok, "a change MUST be consumed at most once")
	assert.False(t, c.Pending())

	code, set := c.Peek()
	assert.True(t, set, "stored code MUST survive consumption")
	assert.Equal(t, byte(3), code)

	assert.False(t, c.Offer(3), "rewriting the consumed value MUST be a no-op")
	assert.False(t, c.Pending())
}

func TestExpressionCell_ConcurrentProducerConsumer(t *testing.T) {
	// GOAL: Verify no change is observed twice and the final value is delivered under concurrency
	//
	// TEST SCENARIO: producer alternates values while consumer drains → each Take sees a code → last code delivered

	var c ExpressionCell
	const rounds = 10000

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < rounds; i++ {
			c.Offer(byte(i % 6))
		}
	}()

	var last byte
	taken := 0
	drain := func() {
		if code, ok := c.Take(); ok {
			last = code
			taken++
		}
	}

	for running := true; running; {
		select {
		case <-done:
			running = false
		default:
			drain()
		}
	}
	drain()

	assert.LessOrEqual(t, taken, rounds, "changes MUST NOT be delivered more often than written")
	assert.Equal(t, byte((rounds-1)%6), last, "last delivered code MUST be the last written")
	assert.False(t, c.Pending())
}
