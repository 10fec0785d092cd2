package face_test

import (
	"bytes"
	"testing"

	"github.com/srg/avatarlink/internal/console"
	"github.com/srg/avatarlink/internal/face"
	"github.com/srg/avatarlink/internal/testutils"
	"github.com/stretchr/testify/require"
)

func TestTerminal_SessionTranscript(t *testing.T) {
	// GOAL: Verify a boot-to-expression session draws the expected screen
	//
	// TEST SCENARIO: prompt at size 2 → Init draws neutral → happy → sleepy; raw-mode CRLF and color are normalized away

	var buf bytes.Buffer
	term := face.NewTerminal(console.CRLFWriter{W: &buf}, true)

	term.SetTextSize(2)
	term.Println("Press to start")
	require.NoError(t, term.Init())
	term.SetExpression(face.Happy)
	term.SetExpression(face.Sleepy)

	testutils.NewTextAsserter(t).Assert(buf.String(), `Press to start
(•_•)  neutral
(^‿^)  happy
(-_-) zz  sleepy
`)
}
