package link

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/go-ble/ble"
	"github.com/sirupsen/logrus"
	"github.com/srg/avatarlink/internal/groutine"
)

// ErrNotFound is returned when the loopback central cannot find a characteristic.
var ErrNotFound = errors.New("characteristic not found")

// Loopback is an in-process Radio paired with a simulated central. It serves
// the registered GATT handlers directly, which lets the device run without
// HCI hardware and gives tests a way to drive connect, write and notify.
type Loopback struct {
	mu           sync.Mutex
	services     []*ble.Service
	advertising  string
	onConnect    func()
	onDisconnect func()
	connected    bool
	subCancel    context.CancelFunc
	subDone      <-chan struct{}
	logger       *logrus.Logger
}

// NewLoopback creates a loopback radio. Connection events are delivered to
// onConnect/onDisconnect the way a real radio's handlers would.
func NewLoopback(onConnect, onDisconnect func(), logger *logrus.Logger) *Loopback {
	if logger == nil {
		logger = logrus.New()
	}
	return &Loopback{onConnect: onConnect, onDisconnect: onDisconnect, logger: logger}
}

// AddService implements Radio.
func (l *Loopback) AddService(svc *ble.Service) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.services = append(l.services, svc)
	return nil
}

// AdvertiseNameAndServices implements Radio. It blocks until ctx is done.
func (l *Loopback) AdvertiseNameAndServices(ctx context.Context, name string, _ ...ble.UUID) error {
	l.mu.Lock()
	l.advertising = name
	l.mu.Unlock()

	<-ctx.Done()

	l.mu.Lock()
	l.advertising = ""
	l.mu.Unlock()
	return ctx.Err()
}

// Advertising returns the advertised name, empty when not advertising.
func (l *Loopback) Advertising() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.advertising
}

// Connected reports whether the simulated central is connected.
func (l *Loopback) Connected() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.connected
}

// Connect simulates a central connecting.
func (l *Loopback) Connect() {
	l.mu.Lock()
	l.connected = true
	l.mu.Unlock()

	l.logger.Debug("Loopback central connected")
	if l.onConnect != nil {
		l.onConnect()
	}
}

// Disconnect simulates the central dropping the link, ending any subscription.
func (l *Loopback) Disconnect() {
	l.Unsubscribe()

	l.mu.Lock()
	l.connected = false
	l.mu.Unlock()

	l.logger.Debug("Loopback central disconnected")
	if l.onDisconnect != nil {
		l.onDisconnect()
	}
}

func (l *Loopback) characteristic(uuid ble.UUID) (*ble.Characteristic, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, svc := range l.services {
		for _, c := range svc.Characteristics {
			if c.UUID.Equal(uuid) {
				return c, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, uuid)
}

// WriteExpression writes payload to the expression characteristic.
func (l *Loopback) WriteExpression(payload ...byte) error {
	c, err := l.characteristic(ExpressionCharUUID)
	if err != nil {
		return err
	}
	if c.WriteHandler == nil {
		return fmt.Errorf("%w: %s is not writable", ErrNotFound, c.UUID)
	}
	c.WriteHandler.ServeWrite(&loopbackRequest{data: payload}, &loopbackResponse{})
	return nil
}

func (l *Loopback) read(uuid ble.UUID) ([]byte, error) {
	c, err := l.characteristic(uuid)
	if err != nil {
		return nil, err
	}
	if c.ReadHandler == nil {
		return nil, fmt.Errorf("%w: %s is not readable", ErrNotFound, c.UUID)
	}
	rsp := &loopbackResponse{}
	c.ReadHandler.ServeRead(&loopbackRequest{}, rsp)
	return rsp.buf.Bytes(), nil
}

// ReadExpression reads the expression characteristic.
func (l *Loopback) ReadExpression() ([]byte, error) {
	return l.read(ExpressionCharUUID)
}

// ReadDistance reads the distance characteristic.
func (l *Loopback) ReadDistance() ([]byte, error) {
	return l.read(DistanceCharUUID)
}

// Subscribe enables distance notifications. Payloads arrive on the returned
// channel; when the channel is full, new notifications are dropped.
func (l *Loopback) Subscribe(capacity int) (<-chan []byte, error) {
	c, err := l.characteristic(DistanceCharUUID)
	if err != nil {
		return nil, err
	}
	if c.NotifyHandler == nil {
		return nil, fmt.Errorf("%w: %s does not notify", ErrNotFound, c.UUID)
	}

	l.Unsubscribe()

	ctx, cancel := context.WithCancel(context.Background())
	n := &loopbackNotifier{ctx: ctx, ch: make(chan []byte, capacity)}

	l.mu.Lock()
	l.subCancel = cancel
	l.subDone = groutine.Go(ctx, "loopback-notify", func(context.Context) {
		c.NotifyHandler.ServeNotify(&loopbackRequest{}, n)
	})
	l.mu.Unlock()

	return n.ch, nil
}

// Unsubscribe ends the current distance subscription, if any.
func (l *Loopback) Unsubscribe() {
	l.mu.Lock()
	cancel, done := l.subCancel, l.subDone
	l.subCancel, l.subDone = nil, nil
	l.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

// loopbackRequest implements ble.Request
type loopbackRequest struct {
	data []byte
}

func (r *loopbackRequest) Conn() ble.Conn { return nil }
func (r *loopbackRequest) Data() []byte   { return r.data }
func (r *loopbackRequest) Offset() int    { return 0 }

// loopbackResponse implements ble.ResponseWriter
type loopbackResponse struct {
	buf    bytes.Buffer
	status ble.ATTError
}

func (r *loopbackResponse) Write(b []byte) (int, error)   { return r.buf.Write(b) }
func (r *loopbackResponse) Status() ble.ATTError          { return r.status }
func (r *loopbackResponse) SetStatus(status ble.ATTError) { r.status = status }
func (r *loopbackResponse) Len() int                      { return r.buf.Len() }
func (r *loopbackResponse) Cap() int                      { return 512 }

// loopbackNotifier implements ble.Notifier
type loopbackNotifier struct {
	ctx context.Context
	ch  chan []byte
}

func (n *loopbackNotifier) Context() context.Context { return n.ctx }
func (n *loopbackNotifier) Done() <-chan struct{}    { return n.ctx.Done() }
func (n *loopbackNotifier) Close() error             { return nil }
func (n *loopbackNotifier) Cap() int                 { return 20 }

func (n *loopbackNotifier) Write(b []byte) (int, error) {
	if n.ctx.Err() != nil {
		return 0, n.ctx.Err()
	}
	payload := append([]byte(nil), b...)
	select {
	case n.ch <- payload:
		return len(b), nil
	default:
		return 0, errors.New("notification queue full")
	}
}
