package testutils

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

type recordingT struct {
	errors []string
}

func (r *recordingT) Helper() {}

func (r *recordingT) Errorf(format string, args ...interface{}) {
	r.errors = append(r.errors, fmt.Sprintf(format, args...))
}

func TestTextAsserter_Defaults(t *testing.T) {
	ta := NewTextAsserter(t)

	assert.True(t, ta.options.StripANSI)
	assert.True(t, ta.options.NormalizeCRLF)
	assert.True(t, ta.options.IgnoreTrailingWhitespace)
	assert.False(t, ta.options.IgnoreEmptyLines)
	assert.False(t, ta.options.ColorDiff)
}

func TestTextAsserter_Normalize(t *testing.T) {
	tests := []struct {
		name string
		opts []TextOption
		in   string
		want string
	}{
		{name: "strips color", in: "\x1b[32;1m(^‿^)  happy\x1b[0m\n", want: "(^‿^)  happy\n"},
		{name: "keeps color on request", opts: []TextOption{WithANSI()}, in: "\x1b[1mA\x1b[0m", want: "\x1b[1mA\x1b[0m"},
		{name: "raw mode line endings", in: "a\r\nb\r\n", want: "a\nb\n"},
		{name: "trailing blanks", in: "CODE  NAME   \nx\t", want: "CODE  NAME\nx"},
		{name: "empty lines", opts: []TextOption{WithIgnoreEmptyLines()}, in: "a\n\n\nb\n", want: "a\nb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewTextAsserter(t, tt.opts...).Normalize(tt.in))
		})
	}
}

func TestTextAsserter_ReportsUnifiedDiff(t *testing.T) {
	rec := &recordingT{}
	ta := NewTextAsserter(rec)

	ok := ta.Assert("Press to start\n(•_•)  neutral\n", "Press to start\n(^‿^)  happy\n")

	assert.False(t, ok)
	if assert.Len(t, rec.errors, 1) {
		assert.Contains(t, rec.errors[0], "--- expected")
		assert.Contains(t, rec.errors[0], "+++ actual")
		assert.Contains(t, rec.errors[0], "-(^‿^)  happy")
		assert.Contains(t, rec.errors[0], "+(•_•)  neutral")
	}
}

func TestTextAsserter_MatchProducesNoError(t *testing.T) {
	rec := &recordingT{}

	ok := NewTextAsserter(rec).Assert("a\r\nb  \r\n", "a\nb\n")

	assert.True(t, ok)
	assert.Empty(t, rec.errors)
}

func TestTextAsserter_ColorDiff(t *testing.T) {
	ta := NewTextAsserter(t, WithColorDiff())

	assert.Contains(t, ta.Diff("x", "y"), "\x1b[", "colored diff MUST carry escape sequences")
	assert.Empty(t, ta.Diff("same", "same"))
}
