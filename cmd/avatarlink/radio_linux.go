//go:build linux

package main

import (
	"fmt"

	"github.com/go-ble/ble"
	"github.com/go-ble/ble/linux"
	"github.com/go-ble/ble/linux/hci/evt"
	"github.com/sirupsen/logrus"
	"github.com/srg/avatarlink/internal/link"
)

// newHCIRadio opens the HCI adapter hciN and routes its connection events to the endpoint.
func newHCIRadio(hci int, endpoint *link.Endpoint, logger *logrus.Logger) (link.Radio, error) {
	dev, err := linux.NewDevice(
		ble.OptDeviceID(hci),
		ble.OptConnectHandler(func(c evt.LEConnectionComplete) {
			logger.WithField("handle", c.ConnectionHandle()).Debug("Central connected")
			endpoint.OnConnect()
		}),
		ble.OptDisconnectHandler(func(d evt.DisconnectionComplete) {
			logger.WithField("reason", d.Reason()).Debug("Central disconnected")
			endpoint.OnDisconnect()
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open hci%d: %w", hci, err)
	}
	ble.SetDefaultDevice(dev)
	return dev, nil
}
