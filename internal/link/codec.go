package link

import (
	"encoding/binary"
	"fmt"
)

// EncodeDistance packs millimeters as the two-byte little-endian notify payload.
func EncodeDistance(mm uint16) []byte {
	buf := make([]byte, distancePayloadLength)
	binary.LittleEndian.PutUint16(buf, mm)
	return buf
}

// DecodeDistance is the inverse of EncodeDistance.
func DecodeDistance(payload []byte) (uint16, error) {
	if len(payload) != distancePayloadLength {
		return 0, fmt.Errorf("distance payload must be %d bytes, got %d", distancePayloadLength, len(payload))
	}
	return binary.LittleEndian.Uint16(payload), nil
}
