package console

import (
	"bytes"
	"io"
)

// CRLFWriter translates "\n" into "\r\n"; raw terminal mode disables that translation.
type CRLFWriter struct {
	W io.Writer
}

func (w CRLFWriter) Write(p []byte) (int, error) {
	if _, err := w.W.Write(bytes.ReplaceAll(p, []byte("\n"), []byte("\r\n"))); err != nil {
		return 0, err
	}
	return len(p), nil
}
