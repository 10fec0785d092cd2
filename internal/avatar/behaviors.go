package avatar

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/srg/avatarlink/internal/face"
	"github.com/srg/avatarlink/internal/fsm"
)

// startBehavior shows the prompt and waits for the confirm input. Leaving
// Start brings up the renderer, the wireless endpoint and the sensor.
type startBehavior struct {
	d      *Device
	booted bool
}

func (b *startBehavior) Enter(context.Context) error {
	b.d.display.SetTextSize(b.d.opts.PromptTextSize)
	b.d.display.Println(b.d.opts.PromptText)
	return nil
}

func (b *startBehavior) Update(_ context.Context, r fsm.Requester) error {
	if b.d.button.WasPressed() {
		r.Request(fsm.Ready)
	}
	return nil
}

func (b *startBehavior) Exit(context.Context) error {
	if b.booted {
		return nil
	}
	if err := b.d.bringUp(); err != nil {
		return err
	}
	b.booted = true
	return nil
}

// readyBehavior advertises until a central connects.
type readyBehavior struct {
	d *Device
}

func (b *readyBehavior) Enter(ctx context.Context) error {
	b.d.advertiser.Start(ctx)
	return nil
}

func (b *readyBehavior) Update(_ context.Context, r fsm.Requester) error {
	if b.d.endpoint.IsConnected() {
		r.Request(fsm.Idle)
	}
	return nil
}

func (b *readyBehavior) Exit(context.Context) error {
	b.d.advertiser.Stop()
	return nil
}

// idleBehavior serves a connected central: applies expression changes and
// streams distance samples.
type idleBehavior struct {
	d *Device
}

func (b *idleBehavior) Enter(context.Context) error {
	return b.d.poller.Start()
}

func (b *idleBehavior) Update(_ context.Context, r fsm.Requester) error {
	d := b.d
	if !d.endpoint.IsConnected() {
		r.Request(fsm.Ready)
		return nil
	}

	if code, ok := d.endpoint.TakeExpression(); ok {
		e := face.Expression(code)
		if e.Valid() {
			d.renderer.SetExpression(e)
			d.logger.WithField("expression", e).Info("Expression changed")
		} else {
			d.logger.WithFields(logrus.Fields{
				"code": code,
			}).Warn("Ignoring unknown expression code")
		}
	}

	d.poller.Poll(d.clock())
	return nil
}

func (b *idleBehavior) Exit(context.Context) error {
	return b.d.poller.Stop()
}
