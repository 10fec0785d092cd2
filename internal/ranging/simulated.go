package ranging

import (
	"errors"
	"time"
)

// ErrBootFailed is returned by SimulatedSensor.Begin when configured to fail.
var ErrBootFailed = errors.New("sensor did not respond")

// SimulatedOptions shapes the simulated readings.
type SimulatedOptions struct {
	MinMM        uint16
	MaxMM        uint16
	Period       time.Duration // one full near → far → near sweep
	TimingBudget time.Duration // time between two measurements in continuous mode
	FailBoot     bool
	Clock        func() time.Time
}

// SimulatedSensor stands in for the time-of-flight sensor on hosts without one.
// Readings sweep linearly between MinMM and MaxMM.
type SimulatedSensor struct {
	opts       SimulatedOptions
	booted     bool
	continuous bool
	epoch      time.Time
	measuredAt time.Time
}

// NewSimulatedSensor creates a simulated sensor.
func NewSimulatedSensor(opts SimulatedOptions) *SimulatedSensor {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.MaxMM <= opts.MinMM {
		opts.MaxMM = opts.MinMM + 1
	}
	if opts.Period <= 0 {
		opts.Period = 4 * time.Second
	}
	if opts.TimingBudget <= 0 {
		opts.TimingBudget = 33 * time.Millisecond
	}
	return &SimulatedSensor{opts: opts}
}

func (s *SimulatedSensor) Begin() error {
	if s.opts.FailBoot {
		return ErrBootFailed
	}
	s.booted = true
	s.epoch = s.opts.Clock()
	return nil
}

func (s *SimulatedSensor) StartContinuous() error {
	if !s.booted {
		return ErrNotRanging
	}
	s.continuous = true
	s.measuredAt = s.opts.Clock()
	return nil
}

func (s *SimulatedSensor) StopContinuous() error {
	s.continuous = false
	return nil
}

// IsRangeComplete reports whether a new measurement finished since the last read.
func (s *SimulatedSensor) IsRangeComplete() bool {
	return s.continuous && s.opts.Clock().Sub(s.measuredAt) >= s.opts.TimingBudget
}

func (s *SimulatedSensor) ReadRange() (uint16, error) {
	if !s.continuous {
		return 0, ErrNotRanging
	}
	now := s.opts.Clock()
	s.measuredAt = now
	return s.distanceAt(now), nil
}

func (s *SimulatedSensor) distanceAt(t time.Time) uint16 {
	span := float64(s.opts.MaxMM - s.opts.MinMM)
	phase := float64(t.Sub(s.epoch)%s.opts.Period) / float64(s.opts.Period)

	// triangle wave: 0 → 1 → 0 over one period
	frac := 2 * phase
	if frac > 1 {
		frac = 2 - frac
	}
	return s.opts.MinMM + uint16(frac*span)
}
