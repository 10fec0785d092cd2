package console

import (
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestButton_EdgeTriggered(t *testing.T) {
	var b Button

	assert.False(t, b.WasPressed(), "fresh button MUST NOT report a press")

	b.Press()
	b.Press()
	assert.True(t, b.WasPressed(), "press MUST be reported")
	assert.False(t, b.WasPressed(), "press MUST be reported once")
}

func TestKeyReader_DeliversKeys(t *testing.T) {
	r := NewKeyReader(strings.NewReader("a 2"), nil)

	var mu sync.Mutex
	var keys []byte
	done, err := r.Start(context.Background(), func(k byte) {
		mu.Lock()
		defer mu.Unlock()
		keys = append(keys, k)
	})
	require.NoError(t, err)

	select {
	case <-done:
	case <-time.After(time.Second):
		require.FailNow(t, "reader MUST stop at end of input")
	}
	r.Restore()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []byte("a 2"), keys)
}

func TestKeyReader_CancelTakesEffectAtNextKey(t *testing.T) {
	// GOAL: Verify cancellation stops delivery without closing the input
	//
	// TEST SCENARIO: key delivered → cancel → reader still blocked → next key read but not delivered → done closed

	pr, pw := io.Pipe()
	defer pw.Close()
	r := NewKeyReader(pr, nil)

	keys := make(chan byte, 4)
	ctx, cancel := context.WithCancel(context.Background())
	done, err := r.Start(ctx, func(k byte) { keys <- k })
	require.NoError(t, err)

	_, err = pw.Write([]byte("a"))
	require.NoError(t, err)
	assert.Equal(t, byte('a'), <-keys)

	cancel()
	select {
	case <-done:
		require.FailNow(t, "reader blocked in Read MUST NOT observe cancel before input")
	case <-time.After(20 * time.Millisecond):
	}

	_, err = pw.Write([]byte("b"))
	require.NoError(t, err)

	select {
	case <-done:
	case <-time.After(time.Second):
		require.FailNow(t, "reader MUST stop after the next key once cancelled")
	}
	assert.Empty(t, keys, "keys read after cancel MUST NOT be delivered")
}

func TestCRLFWriter(t *testing.T) {
	var sb strings.Builder
	w := CRLFWriter{W: &sb}

	n, err := w.Write([]byte("happy\nsad\n"))

	require.NoError(t, err)
	assert.Equal(t, 10, n, "MUST report the caller's byte count")
	assert.Equal(t, "happy\r\nsad\r\n", sb.String())
}

func TestKeyReader_NonTerminalIsNotRaw(t *testing.T) {
	r := NewKeyReader(strings.NewReader(""), nil)

	assert.False(t, r.Raw(), "non-terminal input MUST NOT switch to raw mode")
	r.Restore()
}
