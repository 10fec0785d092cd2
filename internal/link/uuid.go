package link

import (
	"errors"

	"github.com/go-ble/ble"
)

// Avatar service and its characteristics
var (
	ServiceUUID        = ble.MustParse(`0B21C05A-44C2-47CC-BFEF-4F7165C33908`)
	ExpressionCharUUID = ble.MustParse(`B3C450C9-5FC5-48F6-9EFD-D588E494F462`)
	DistanceCharUUID   = ble.MustParse(`29C2D1B2-944A-4FBA-AFCD-133E09532556`)
)

// DefaultDeviceName is the advertised local name.
const DefaultDeviceName = "M5AtomS3"

const distancePayloadLength = 2

// ErrUnsupported is returned when the host has no usable peripheral radio.
var ErrUnsupported = errors.New("peripheral radio unsupported on this platform")
