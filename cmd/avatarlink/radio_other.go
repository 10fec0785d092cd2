//go:build !linux

package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/srg/avatarlink/internal/link"
)

// newHCIRadio is only available where the host exposes raw HCI sockets.
func newHCIRadio(hci int, _ *link.Endpoint, _ *logrus.Logger) (link.Radio, error) {
	return nil, fmt.Errorf("%w: hci%d peripheral role", link.ErrUnsupported, hci)
}
