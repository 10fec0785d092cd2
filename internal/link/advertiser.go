package link

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/srg/avatarlink/internal/groutine"
)

// Advertiser runs connectable advertising under a fixed name until stopped.
type Advertiser struct {
	radio  Radio
	name   string
	logger *logrus.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   <-chan struct{}
}

// NewAdvertiser creates an advertiser for the avatar service.
func NewAdvertiser(radio Radio, name string, logger *logrus.Logger) *Advertiser {
	if logger == nil {
		logger = logrus.New()
	}
	if name == "" {
		name = DefaultDeviceName
	}
	return &Advertiser{radio: radio, name: name, logger: logger}
}

// Start begins advertising in the background. Calling Start while already
// advertising is a no-op.
func (a *Advertiser) Start(ctx context.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.cancel != nil {
		return
	}

	advCtx, cancel := context.WithCancel(ctx)
	a.cancel = cancel
	a.done = groutine.Go(advCtx, "advertise", func(ctx context.Context) {
		a.logger.WithField("name", a.name).Info("Advertising started")
		err := a.radio.AdvertiseNameAndServices(ctx, a.name, ServiceUUID)
		if err != nil && !errors.Is(err, context.Canceled) {
			a.logger.WithError(err).Error("Advertising failed")
		}
	})
}

// Stop cancels advertising and waits for the radio to return.
func (a *Advertiser) Stop() {
	a.mu.Lock()
	cancel, done := a.cancel, a.done
	a.cancel, a.done = nil, nil
	a.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	a.logger.Info("Advertising stopped")
}

// Advertising reports whether Start was called without a matching Stop.
func (a *Advertiser) Advertising() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cancel != nil
}
