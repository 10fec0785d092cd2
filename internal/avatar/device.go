// Package avatar assembles the device: it registers the Start/Ready/Idle
// behaviors on the state machine and hands them the renderer, the wireless
// endpoint and the ranging poller.
package avatar

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/srg/avatarlink/internal/face"
	"github.com/srg/avatarlink/internal/fsm"
	"github.com/srg/avatarlink/internal/link"
	"github.com/srg/avatarlink/internal/ranging"
)

// ConfirmInput is the physical confirm button.
type ConfirmInput interface {
	WasPressed() bool
}

// Options are the device's fixed parameters.
type Options struct {
	DeviceName     string
	PromptText     string
	PromptTextSize int
	TickInterval   time.Duration
	SampleInterval time.Duration
	Clock          func() time.Time
}

// Deps are the hardware collaborators, injected so the core runs without hardware.
type Deps struct {
	Radio    link.Radio
	Endpoint *link.Endpoint
	Sensor   ranging.RangeSensor
	Renderer face.Renderer
	Display  face.Display
	Button   ConfirmInput
}

// Device owns the state machine and every collaborator its behaviors drive.
type Device struct {
	opts       Options
	radio      link.Radio
	endpoint   *link.Endpoint
	sensor     ranging.RangeSensor
	renderer   face.Renderer
	display    face.Display
	button     ConfirmInput
	advertiser *link.Advertiser
	poller     *ranging.Poller
	machine    *fsm.Machine
	clock      func() time.Time
	logger     *logrus.Logger
}

// New wires a device. Behaviors are registered once and live as long as the device.
func New(opts Options, deps Deps, logger *logrus.Logger) *Device {
	if logger == nil {
		logger = logrus.New()
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = 10 * time.Millisecond
	}
	if opts.PromptText == "" {
		opts.PromptText = "Press to start"
	}

	d := &Device{
		opts:     opts,
		radio:    deps.Radio,
		endpoint: deps.Endpoint,
		sensor:   deps.Sensor,
		renderer: deps.Renderer,
		display:  deps.Display,
		button:   deps.Button,
		clock:    opts.Clock,
		logger:   logger,
	}
	d.advertiser = link.NewAdvertiser(deps.Radio, opts.DeviceName, logger)
	d.poller = ranging.NewPoller(deps.Sensor, deps.Endpoint, opts.SampleInterval, logger)

	d.machine = fsm.New(logger).
		Register(fsm.Start, &startBehavior{d: d}).
		Register(fsm.Ready, &readyBehavior{d: d}).
		Register(fsm.Idle, &idleBehavior{d: d})

	return d
}

// Machine exposes the state machine for stepping.
func (d *Device) Machine() *fsm.Machine {
	return d.machine
}

// Advertising reports whether the device is currently advertising.
func (d *Device) Advertising() bool {
	return d.advertiser.Advertising()
}

// Sampling reports whether continuous ranging is active.
func (d *Device) Sampling() bool {
	return d.poller.Active()
}

// bringUp initializes renderer, wireless endpoint and sensor, in that order.
// A failure is shown on the display before it is returned.
func (d *Device) bringUp() error {
	steps := []struct {
		component string
		init      func() error
	}{
		{"avatar", d.renderer.Init},
		{"BLE", func() error { return d.endpoint.Start(d.radio) }},
		{"VL53L0X", d.sensor.Begin},
	}

	for _, step := range steps {
		if err := step.init(); err != nil {
			bu := &BringUpError{Component: step.component, Err: err}
			d.display.Println(fmt.Sprintf("Failed to boot %s", step.component))
			return bu
		}
		d.logger.WithField("component", step.component).Debug("Component initialized")
	}
	return nil
}

// Run drives the control loop until ctx is done. After a bring-up failure the
// device halts: no further ticks run and Run returns only when ctx is done.
func (d *Device) Run(ctx context.Context) error {
	err := d.machine.Run(ctx, d.opts.TickInterval)
	if err == nil || !IsBringUpFailure(err) {
		d.shutdown()
		return err
	}

	d.logger.WithError(err).Error("Bring-up failed, halting")
	<-ctx.Done()
	return fmt.Errorf("%w: %w", ErrHalted, err)
}

// shutdown releases whatever the current state holds when the loop ends.
func (d *Device) shutdown() {
	d.advertiser.Stop()
	if err := d.poller.Stop(); err != nil {
		d.logger.WithError(err).Warn("Failed to stop ranging")
	}
}
