// Package kitchen simulates restaurants that finish every order after a fixed
// preparation time.
package kitchen

import (
	"context"
	"sync"
	"time"

	"service-dispatch/internal/domain"
	"service-dispatch/internal/logx"
	"service-dispatch/internal/service/window"
)

// Readier receives the "preparation complete" signal.
type Readier interface {
	OnOrderReady(ctx context.Context, orderID string) (domain.Order, error)
}

// Kitchen listens for new_order_for_restaurant notifications and reports the
// order ready after Delay. It never calls back into the coordinator from
// Notify itself.
type Kitchen struct {
	delay   time.Duration
	clock   window.Clock
	log     logx.Logger
	timeout time.Duration

	mu      sync.Mutex
	readier Readier
	pending map[string]window.Stopper
	stopped bool
}

// Option configures a Kitchen.
type Option func(*Kitchen)

// WithClock replaces the real clock.
func WithClock(c window.Clock) Option { return func(k *Kitchen) { k.clock = c } }

// WithLogger sets the logger.
func WithLogger(l logx.Logger) Option { return func(k *Kitchen) { k.log = l } }

// New creates a kitchen with the given preparation time.
func New(delay time.Duration, opts ...Option) *Kitchen {
	k := &Kitchen{
		delay:   delay,
		clock:   window.RealClock{},
		log:     logx.Nop(),
		timeout: 5 * time.Second,
		pending: make(map[string]window.Stopper),
	}
	for _, o := range opts {
		o(k)
	}
	if k.delay < 0 {
		k.delay = 0
	}
	return k
}

// Attach sets the receiver of ready signals. The kitchen is itself a notifier
// of the coordinator, so the two are wired after construction.
func (k *Kitchen) Attach(r Readier) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.readier = r
}

// Notify implements the notifier port.
func (k *Kitchen) Notify(_ context.Context, n domain.Notification) {
	if n.Event != domain.EventNewOrderForRestaurant || n.OrderID == "" {
		return
	}
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.stopped || k.readier == nil {
		return
	}
	if _, ok := k.pending[n.OrderID]; ok {
		return
	}
	orderID := n.OrderID
	k.pending[orderID] = k.clock.AfterFunc(k.delay, func() { k.cook(orderID) })
	k.log.Debug("kitchen started preparing", logx.OrderID(orderID), logx.Duration("delay", k.delay))
}

func (k *Kitchen) cook(orderID string) {
	k.mu.Lock()
	_, ok := k.pending[orderID]
	delete(k.pending, orderID)
	r := k.readier
	stopped := k.stopped
	k.mu.Unlock()
	if !ok || stopped || r == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), k.timeout)
	defer cancel()
	if _, err := r.OnOrderReady(ctx, orderID); err != nil {
		k.log.Warn("kitchen ready signal rejected", logx.OrderID(orderID), logx.Err(err))
		return
	}
	k.log.Info("order prepared", logx.OrderID(orderID))
}

// Pending returns the number of orders still being prepared.
func (k *Kitchen) Pending() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.pending)
}

// Stop cancels every pending preparation.
func (k *Kitchen) Stop() {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.stopped = true
	for id, s := range k.pending {
		s.Stop()
		delete(k.pending, id)
	}
}
