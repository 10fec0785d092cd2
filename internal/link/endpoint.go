package link

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/go-ble/ble"
	"github.com/sirupsen/logrus"
)

// Radio is the subset of ble.Device the endpoint needs. A *linux.Device
// satisfies it; tests use Loopback.
type Radio interface {
	AddService(svc *ble.Service) error
	AdvertiseNameAndServices(ctx context.Context, name string, uuids ...ble.UUID) error
}

// subscriber wraps the notifier of the central currently subscribed to distance updates
type subscriber struct {
	n ble.Notifier
}

const distanceSet = 1 << 16

// Endpoint is the avatar's GATT server side. It owns the connection flag, the
// expression cell and the distance notify path.
type Endpoint struct {
	connected  atomic.Bool
	expression ExpressionCell
	distance   atomic.Uint32
	subscriber atomic.Pointer[subscriber]

	service *ble.Service
	logger  *logrus.Logger
}

// NewEndpoint creates an endpoint and builds its GATT service.
func NewEndpoint(logger *logrus.Logger) *Endpoint {
	if logger == nil {
		logger = logrus.New()
	}

	e := &Endpoint{logger: logger}
	e.service = e.buildService()
	return e
}

func (e *Endpoint) buildService() *ble.Service {
	svc := ble.NewService(ServiceUUID)

	expr := svc.NewCharacteristic(ExpressionCharUUID)
	expr.HandleRead(ble.ReadHandlerFunc(e.serveExpressionRead))
	expr.HandleWrite(ble.WriteHandlerFunc(e.serveExpressionWrite))

	dist := svc.NewCharacteristic(DistanceCharUUID)
	dist.HandleRead(ble.ReadHandlerFunc(e.serveDistanceRead))
	dist.HandleNotify(ble.NotifyHandlerFunc(e.serveDistanceNotify))

	return svc
}

// Service returns the GATT service definition.
func (e *Endpoint) Service() *ble.Service {
	return e.service
}

// Start registers the service with the radio.
func (e *Endpoint) Start(radio Radio) error {
	if err := radio.AddService(e.service); err != nil {
		return fmt.Errorf("failed to add avatar service: %w", err)
	}
	e.logger.WithField("service", ServiceUUID.String()).Info("Avatar service registered")
	return nil
}

// OnConnect is invoked from the radio's connection event context.
func (e *Endpoint) OnConnect() {
	e.connected.Store(true)
	e.logger.Debug("Central connected")
}

// OnDisconnect is invoked from the radio's disconnection event context.
func (e *Endpoint) OnDisconnect() {
	e.connected.Store(false)
	e.subscriber.Store(nil)
	e.logger.Debug("Central disconnected")
}

// IsConnected reports the effect of the most recent connection event.
func (e *Endpoint) IsConnected() bool {
	return e.connected.Load()
}

// Subscribed reports whether a central currently receives distance notifications.
func (e *Endpoint) Subscribed() bool {
	return e.subscriber.Load() != nil
}

// TakeExpression consumes a pending expression change, if any.
func (e *Endpoint) TakeExpression() (byte, bool) {
	return e.expression.Take()
}

// SendDistance stores the encoded sample and pushes it to the subscribed central.
// Delivery is fire-and-forget: no subscriber or a failed write simply drops the sample.
func (e *Endpoint) SendDistance(mm uint16) {
	e.distance.Store(uint32(mm) | distanceSet)

	sub := e.subscriber.Load()
	if sub == nil {
		return
	}
	if _, err := sub.n.Write(EncodeDistance(mm)); err != nil {
		e.logger.WithError(err).Debug("Distance notification dropped")
	}
}

// WriteExpression applies a remote write payload: empty payloads are ignored,
// an unchanged first byte is a no-op, anything else replaces the stored code.
func (e *Endpoint) WriteExpression(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	changed := e.expression.Offer(data[0])
	if changed {
		e.logger.WithField("code", data[0]).Debug("Expression written")
	}
	return changed
}

func (e *Endpoint) serveExpressionWrite(req ble.Request, _ ble.ResponseWriter) {
	e.WriteExpression(req.Data())
}

func (e *Endpoint) serveExpressionRead(_ ble.Request, rsp ble.ResponseWriter) {
	if code, set := e.expression.Peek(); set {
		_, _ = rsp.Write([]byte{code})
	}
}

func (e *Endpoint) serveDistanceRead(_ ble.Request, rsp ble.ResponseWriter) {
	if v := e.distance.Load(); v&distanceSet != 0 {
		_, _ = rsp.Write(EncodeDistance(uint16(v)))
	}
}

// serveDistanceNotify holds the notifier for the lifetime of the subscription.
func (e *Endpoint) serveDistanceNotify(_ ble.Request, n ble.Notifier) {
	sub := &subscriber{n: n}
	e.subscriber.Store(sub)
	e.logger.Debug("Distance notifications subscribed")

	<-n.Context().Done()

	e.subscriber.CompareAndSwap(sub, nil)
	e.logger.Debug("Distance notifications unsubscribed")
}
