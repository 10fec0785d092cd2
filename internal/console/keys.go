package console

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/srg/avatarlink/internal/groutine"
	"golang.org/x/term"
)

// KeyHandler receives every byte read from the input.
type KeyHandler func(key byte)

// KeyReader reads single keystrokes from a terminal.
type KeyReader struct {
	in     io.Reader
	fd     int
	raw    bool
	state  *term.State
	logger *logrus.Logger
}

// NewKeyReader reads keys from in. When in is a terminal, Start switches it
// into raw mode so keys arrive without waiting for Enter.
func NewKeyReader(in io.Reader, logger *logrus.Logger) *KeyReader {
	if logger == nil {
		logger = logrus.New()
	}
	r := &KeyReader{in: in, fd: -1, logger: logger}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		r.fd = int(f.Fd())
		r.raw = true
	}
	return r
}

// Raw reports whether the input is a terminal that Start puts into raw mode.
func (r *KeyReader) Raw() bool {
	return r.raw
}

// Start begins delivering keys to handler until ctx is done or input ends.
// The returned channel is closed when reading stops. Cancellation is only
// observed after the next Read returns, so on a terminal the reader stays
// blocked on stdin until a key arrives or the process exits; callers that
// cannot supply more input must not wait on the channel.
func (r *KeyReader) Start(ctx context.Context, handler KeyHandler) (<-chan struct{}, error) {
	if r.raw {
		state, err := term.MakeRaw(r.fd)
		if err != nil {
			return nil, fmt.Errorf("failed to enable raw terminal mode: %w", err)
		}
		r.state = state
	}

	return groutine.Go(ctx, "key-reader", func(ctx context.Context) {
		buf := make([]byte, 1)
		for {
			n, err := r.in.Read(buf)
			if err != nil {
				if err != io.EOF {
					r.logger.WithError(err).Debug("Key input closed")
				}
				return
			}
			if ctx.Err() != nil {
				return
			}
			if n == 1 {
				handler(buf[0])
			}
		}
	}), nil
}

// Restore returns the terminal to its previous mode.
func (r *KeyReader) Restore() {
	if r.state != nil {
		_ = term.Restore(r.fd, r.state)
		r.state = nil
	}
}
