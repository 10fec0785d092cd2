// Package fsm implements the lifecycle state machine that sequences device
// bring-up and dispatches per-tick updates to the active state's behavior.
//
// The machine is cooperative: exactly one behavior runs per tick, and a
// transition requested during a tick is only applied at the top of the next one.
package fsm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cornelk/hashmap"
	"github.com/sirupsen/logrus"
)

// State identifies a lifecycle state
type State int

const (
	Start State = iota
	Ready
	Idle
)

// States lists every lifecycle state the machine must have a behavior for.
var States = []State{Start, Ready, Idle}

func (s State) String() string {
	switch s {
	case Start:
		return "start"
	case Ready:
		return "ready"
	case Idle:
		return "idle"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

var (
	// ErrNoBehavior is returned when the machine is asked to run a state without a registered behavior.
	ErrNoBehavior = errors.New("no behavior registered for state")

	// ErrNotStarted is returned by Tick when Begin was not called.
	ErrNotStarted = errors.New("state machine not started")
)

// Requester buffers a transition request until the next tick boundary.
type Requester interface {
	Request(next State)
}

// Behavior is the per-state capability set. Enter and Exit run to completion
// around a transition; Update runs once per tick while the state is current.
type Behavior interface {
	Enter(ctx context.Context) error
	Update(ctx context.Context, r Requester) error
	Exit(ctx context.Context) error
}

// Machine owns the behavior registry and the current/requested state pair.
type Machine struct {
	registry  *hashmap.Map[State, Behavior]
	current   State
	requested State
	active    Behavior
	started   bool
	logger    *logrus.Logger
}

// New creates a machine whose initial state is Start.
func New(logger *logrus.Logger) *Machine {
	if logger == nil {
		logger = logrus.New()
	}
	return &Machine{
		registry:  hashmap.New[State, Behavior](),
		current:   Start,
		requested: Start,
		logger:    logger,
	}
}

// Register binds a behavior to a state. Registration happens once at startup.
func (m *Machine) Register(state State, b Behavior) *Machine {
	m.registry.Set(state, b)
	return m
}

// Current returns the state whose behavior is active.
func (m *Machine) Current() State {
	return m.current
}

// Requested returns the state that will become current at the next tick.
func (m *Machine) Requested() State {
	return m.requested
}

// Request records the next state. It never runs hooks itself.
func (m *Machine) Request(next State) {
	m.requested = next
}

func (m *Machine) behavior(state State) (Behavior, error) {
	b, ok := m.registry.Get(state)
	if !ok || b == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoBehavior, state)
	}
	return b, nil
}

// Begin validates the registry and enters the initial state.
func (m *Machine) Begin(ctx context.Context) error {
	for _, s := range States {
		if _, err := m.behavior(s); err != nil {
			return err
		}
	}

	b, _ := m.behavior(m.current)
	m.active = b
	m.started = true

	m.logger.WithField("state", m.current).Debug("Entering initial state")
	return b.Enter(ctx)
}

// Tick applies a pending transition, then dispatches the current state's update.
func (m *Machine) Tick(ctx context.Context) error {
	if !m.started {
		return ErrNotStarted
	}

	if m.requested != m.current {
		if err := m.transition(ctx, m.requested); err != nil {
			return err
		}
	}

	return m.active.Update(ctx, m)
}

// transition runs exit, switches the current state and runs enter, in that order.
// Requests issued by the hooks stay buffered for the next tick.
func (m *Machine) transition(ctx context.Context, next State) error {
	nb, err := m.behavior(next)
	if err != nil {
		return err
	}

	prev := m.current
	if err := m.active.Exit(ctx); err != nil {
		return fmt.Errorf("exit %s: %w", prev, err)
	}

	m.current = next
	m.active = nb

	m.logger.WithFields(logrus.Fields{
		"from": prev,
		"to":   next,
	}).Info("State transition")

	if err := nb.Enter(ctx); err != nil {
		return fmt.Errorf("enter %s: %w", next, err)
	}
	return nil
}

// Run begins the machine and ticks it every interval until ctx is done or a hook fails.
func (m *Machine) Run(ctx context.Context, interval time.Duration) error {
	if err := m.Begin(ctx); err != nil {
		return err
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := m.Tick(ctx); err != nil {
				return err
			}
		}
	}
}
