package testutils

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/srg/avatarlink/internal/avatar"
	"github.com/srg/avatarlink/internal/console"
	"github.com/srg/avatarlink/internal/fsm"
	"github.com/srg/avatarlink/internal/link"
	"github.com/stretchr/testify/suite"
)

// AvatarDeviceSuite wires a Device to a loopback central, mocked hardware and a
// manual clock. Tests step the machine with Tick instead of running the loop.
//
// Usage:
//
//	type ScenarioSuite struct {
//	    testutils.AvatarDeviceSuite
//	}
//
//	func (s *ScenarioSuite) SetupTest() {
//	    s.Options.SampleInterval = 250 * time.Millisecond // optional, before the parent call
//	    s.AvatarDeviceSuite.SetupTest()
//	}
type AvatarDeviceSuite struct {
	suite.Suite

	Helper *TestHelper
	Logger *logrus.Logger

	// Options are applied by SetupTest; zero fields get the device defaults used on hardware.
	Options avatar.Options

	// Radio replaces Central as the device's radio when set before SetupTest.
	Radio link.Radio

	Clock    *ManualClock
	Endpoint *link.Endpoint
	Central  *link.Loopback
	Sensor   *MockRangeSensor
	Renderer *MockRenderer
	Display  *MockDisplay
	Button   *console.Button
	Device   *avatar.Device
	Ctx      context.Context
}

// SetupSuite creates the logger shared by every test.
func (s *AvatarDeviceSuite) SetupSuite() {
	s.Helper = NewTestHelper(s.T())
	s.Logger = s.Helper.Logger
}

// SetupTest builds a fresh device. The Start prompt is always expected.
func (s *AvatarDeviceSuite) SetupTest() {
	s.Clock = NewManualClock()
	s.Endpoint = link.NewEndpoint(s.Logger)
	s.Central = link.NewLoopback(s.Endpoint.OnConnect, s.Endpoint.OnDisconnect, s.Logger)
	s.Sensor = &MockRangeSensor{}
	s.Renderer = &MockRenderer{}
	s.Display = &MockDisplay{}
	s.Button = &console.Button{}
	s.Ctx = context.Background()

	opts := s.Options
	if opts.DeviceName == "" {
		opts.DeviceName = link.DefaultDeviceName
	}
	if opts.PromptText == "" {
		opts.PromptText = "Press to start"
	}
	if opts.PromptTextSize == 0 {
		opts.PromptTextSize = 2
	}
	if opts.SampleInterval == 0 {
		opts.SampleInterval = 100 * time.Millisecond
	}
	if opts.Clock == nil {
		opts.Clock = s.Clock.Now
	}

	s.Display.On("SetTextSize", opts.PromptTextSize).Return()
	s.Display.On("Println", opts.PromptText).Return()

	var radio link.Radio = s.Central
	if s.Radio != nil {
		radio = s.Radio
	}

	s.Device = avatar.New(opts, avatar.Deps{
		Radio:    radio,
		Endpoint: s.Endpoint,
		Sensor:   s.Sensor,
		Renderer: s.Renderer,
		Display:  s.Display,
		Button:   s.Button,
	}, s.Logger)
}

// TearDownTest ends any open subscription and resets options.
func (s *AvatarDeviceSuite) TearDownTest() {
	s.Central.Unsubscribe()
	s.Options = avatar.Options{}
	s.Radio = nil
}

// Tick steps the machine once.
func (s *AvatarDeviceSuite) Tick() {
	s.Require().NoError(s.Device.Machine().Tick(s.Ctx), "tick MUST succeed")
}

// ExpectBringUp expects one successful renderer and sensor initialization.
func (s *AvatarDeviceSuite) ExpectBringUp() {
	s.Renderer.On("Init").Return(nil).Once()
	s.Sensor.On("Begin").Return(nil).Once()
}

// BootToReady presses the button and ticks until Ready is current.
func (s *AvatarDeviceSuite) BootToReady() {
	s.ExpectBringUp()
	s.Require().NoError(s.Device.Machine().Begin(s.Ctx))

	s.Button.Press()
	s.Tick() // Start.Update sees the press
	s.Tick() // Start → Ready
	s.Require().Equal(fsm.Ready, s.Device.Machine().Current())
}

// ConnectToIdle connects the central and ticks until Idle is current.
func (s *AvatarDeviceSuite) ConnectToIdle() {
	s.Sensor.On("StartContinuous").Return(nil).Once()
	s.Central.Connect()
	s.Tick() // Ready.Update sees the connection
	s.Sensor.On("IsRangeComplete").Return(false).Once()
	s.Tick() // Ready → Idle
	s.Require().Equal(fsm.Idle, s.Device.Machine().Current())
}

// WaitAdvertising waits until the central sees the device advertised under name.
func (s *AvatarDeviceSuite) WaitAdvertising(name string) {
	s.Require().Eventually(func() bool { return s.Central.Advertising() == name },
		time.Second, time.Millisecond, "device MUST advertise as %q", name)
}
