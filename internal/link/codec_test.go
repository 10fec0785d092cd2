package link

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDistance_LowByteFirst(t *testing.T) {
	assert.Equal(t, []byte{0x34, 0x12}, EncodeDistance(0x1234))
	assert.Equal(t, []byte{0xC2, 0x01}, EncodeDistance(450))
	assert.Equal(t, []byte{0x00, 0x00}, EncodeDistance(0))
	assert.Equal(t, []byte{0xFF, 0xFF}, EncodeDistance(math.MaxUint16))
}

func TestDistanceCodec_RoundTrip(t *testing.T) {
	for x := 0; x <= math.MaxUint16; x++ {
		got, err := DecodeDistance(EncodeDistance(uint16(x)))
		if err != nil || got != uint16(x) {
			require.FailNowf(t, "round trip mismatch", "x=%d got=%d err=%v", x, got, err)
		}
	}
}

func TestDecodeDistance_InvalidLength(t *testing.T) {
	tests := []struct {
		name    string
		payload []byte
	}{
		{name: "empty", payload: nil},
		{name: "one byte", payload: []byte{0x01}},
		{name: "three bytes", payload: []byte{0x01, 0x02, 0x03}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeDistance(tt.payload)
			assert.Error(t, err)
			assert.Contains(t, err.Error(), "must be 2 bytes")
		})
	}
}
