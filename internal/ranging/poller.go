// Package ranging samples a time-of-flight distance sensor on the control loop
// and forwards accepted samples to the notify path.
package ranging

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultInterval is the minimum gap between two accepted samples.
const DefaultInterval = 100 * time.Millisecond

// ErrNotRanging is returned when a measurement is read outside continuous mode.
var ErrNotRanging = errors.New("sensor is not in continuous mode")

// RangeSensor is the ranging hardware seen by the control loop. IsRangeComplete
// must not block.
type RangeSensor interface {
	Begin() error
	StartContinuous() error
	StopContinuous() error
	IsRangeComplete() bool
	ReadRange() (uint16, error)
}

// DistanceSink receives accepted samples, in millimeters.
type DistanceSink interface {
	SendDistance(mm uint16)
}

// Poller gates sensor samples by a fixed interval. It is driven by the control
// loop and is not safe for concurrent use.
type Poller struct {
	sensor   RangeSensor
	sink     DistanceSink
	interval time.Duration
	logger   *logrus.Logger

	active   bool
	last     time.Time
	accepted bool
}

// NewPoller creates a poller; a non-positive interval falls back to DefaultInterval.
func NewPoller(sensor RangeSensor, sink DistanceSink, interval time.Duration, logger *logrus.Logger) *Poller {
	if logger == nil {
		logger = logrus.New()
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Poller{sensor: sensor, sink: sink, interval: interval, logger: logger}
}

// Interval returns the acceptance interval.
func (p *Poller) Interval() time.Duration {
	return p.interval
}

// Active reports whether a continuous sampling session is running.
func (p *Poller) Active() bool {
	return p.active
}

// Start puts the sensor into continuous mode.
func (p *Poller) Start() error {
	if p.active {
		return nil
	}
	if err := p.sensor.StartContinuous(); err != nil {
		return fmt.Errorf("failed to start continuous ranging: %w", err)
	}
	p.active = true
	p.logger.Debug("Continuous ranging started")
	return nil
}

// Stop leaves continuous mode so no stale sample survives until the next Start.
func (p *Poller) Stop() error {
	if !p.active {
		return nil
	}
	p.active = false
	if err := p.sensor.StopContinuous(); err != nil {
		return fmt.Errorf("failed to stop continuous ranging: %w", err)
	}
	p.logger.Debug("Continuous ranging stopped")
	return nil
}

// Poll checks the sensor once. A ready measurement is read and forwarded only
// when at least one interval has passed since the last accepted sample.
// It reports whether a sample was accepted.
func (p *Poller) Poll(now time.Time) bool {
	if !p.active {
		return false
	}

	if !p.sensor.IsRangeComplete() {
		return false
	}
	if p.accepted && now.Sub(p.last) < p.interval {
		return false
	}

	mm, err := p.sensor.ReadRange()
	if err != nil {
		p.logger.WithError(err).Warn("Range read failed")
		return false
	}

	p.sink.SendDistance(mm)
	p.last = now
	p.accepted = true

	p.logger.WithField("distance_mm", mm).Debug("Distance sample accepted")
	return true
}
