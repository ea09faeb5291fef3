// Package dispatch drives orders from placement to delivery: it runs the courier
// acceptance window, hands the ranked candidates to a manager and falls back to
// automatic assignment when the manager does not decide in time.
package dispatch

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"service-dispatch/internal/apperr"
	"service-dispatch/internal/domain"
	"service-dispatch/internal/logx"
	"service-dispatch/internal/service/candidates"
	"service-dispatch/internal/service/registry"
	"service-dispatch/internal/service/window"
)

// Coordinator is the dispatch state machine. Orders never share state; each one
// is guarded by its own ticket.
type Coordinator struct {
	cfg      Config
	orders   *registry.Registry
	windows  *window.Scheduler
	couriers CourierDirectory
	menus    MenuValidator
	notifier Notifier
	obs      Observer
	log      logx.Logger

	mu      sync.RWMutex
	tickets map[string]*ticket

	busyMu sync.Mutex
	busy   map[string]string
}

// ticket is everything the coordinator owns for one order besides the registry record.
type ticket struct {
	mu     sync.Mutex
	sendMu sync.Mutex

	orderID  string
	pool     *candidates.Pool
	ranked   []domain.Candidate
	window   *window.Window
	resolved atomic.Bool
	reopens  int
	rated    bool
}

// Option customizes a Coordinator.
type Option func(*Coordinator)

// WithMenus enables item validation against restaurant menus.
func WithMenus(m MenuValidator) Option {
	return func(c *Coordinator) { c.menus = m }
}

// WithObserver attaches an outcome observer.
func WithObserver(o Observer) Option {
	return func(c *Coordinator) {
		if o != nil {
			c.obs = o
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logx.Logger) Option {
	return func(c *Coordinator) {
		if l != nil {
			c.log = l
		}
	}
}

// New wires a coordinator.
func New(
	cfg Config,
	orders *registry.Registry,
	windows *window.Scheduler,
	couriers CourierDirectory,
	notifier Notifier,
	opts ...Option,
) (*Coordinator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if orders == nil || windows == nil || couriers == nil || notifier == nil {
		return nil, fmt.Errorf("%w: dispatch dependencies are required", apperr.ErrInvalid)
	}
	if cfg.NotifyTimeout == 0 {
		cfg.NotifyTimeout = DefaultNotifyTimeout
	}
	c := &Coordinator{
		cfg:      cfg,
		orders:   orders,
		windows:  windows,
		couriers: couriers,
		notifier: notifier,
		obs:      nopObserver{},
		log:      logx.Nop(),
		tickets:  make(map[string]*ticket),
		busy:     make(map[string]string),
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

func (c *Coordinator) register(t *ticket) {
	c.mu.Lock()
	c.tickets[t.orderID] = t
	c.mu.Unlock()
}

func (c *Coordinator) ticket(orderID string) (*ticket, error) {
	c.mu.RLock()
	t, ok := c.tickets[orderID]
	c.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("order %s: %w", orderID, apperr.ErrNotFound)
	}
	return t, nil
}

// expiryContext is the context of a window expiry. Nobody waits on the
// callback, so the notification flush gets its own deadline instead.
func (c *Coordinator) expiryContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), c.cfg.NotifyTimeout)
}

// lock takes the ticket lock and returns the outbox to fill while holding it.
// The returned func releases the lock and then delivers the outbox, keeping
// per-order notification order.
func (c *Coordinator) lock(ctx context.Context, t *ticket) (*outbox, func()) {
	t.mu.Lock()
	box := &outbox{}
	return box, func() {
		t.sendMu.Lock()
		t.mu.Unlock()
		defer t.sendMu.Unlock()
		for _, n := range box.items {
			c.notifier.Notify(ctx, n)
		}
	}
}

// discard drops the candidates once the order resolved.
func (t *ticket) discard() {
	t.pool = nil
	t.ranked = nil
	t.window = nil
}

// claimCourier marks courierID busy with orderID. It fails when the courier is
// already engaged in another order.
func (c *Coordinator) claimCourier(courierID, orderID string) bool {
	c.busyMu.Lock()
	defer c.busyMu.Unlock()
	if cur, ok := c.busy[courierID]; ok && cur != orderID {
		return false
	}
	c.busy[courierID] = orderID
	return true
}

func (c *Coordinator) releaseCourier(courierID, orderID string) {
	c.busyMu.Lock()
	defer c.busyMu.Unlock()
	if c.busy[courierID] == orderID {
		delete(c.busy, courierID)
	}
}

// Busy reports the order a courier is currently engaged in.
func (c *Coordinator) Busy(courierID string) (string, bool) {
	c.busyMu.Lock()
	defer c.busyMu.Unlock()
	id, ok := c.busy[courierID]
	return id, ok
}

// Order returns the current state of an order.
func (c *Coordinator) Order(orderID string) (domain.Order, error) {
	return c.orders.Get(orderID)
}

// Orders lists orders matching f.
func (c *Coordinator) Orders(f domain.OrderFilter) []domain.Order {
	return c.orders.List(f)
}

// Candidates returns the ranked candidates of an order: the live pool during the
// acceptance window, the closed list afterwards, nothing once resolved.
func (c *Coordinator) Candidates(orderID string) ([]domain.Candidate, error) {
	t, err := c.ticket(orderID)
	if err != nil {
		return nil, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.ranked != nil {
		return append([]domain.Candidate(nil), t.ranked...), nil
	}
	if t.pool != nil {
		return t.pool.Snapshot(), nil
	}
	return []domain.Candidate{}, nil
}

// Interests lists the unresolved orders the courier has offered on, oldest
// first. Offers are forgotten once an order resolves.
func (c *Coordinator) Interests(courierID string) []domain.Order {
	c.mu.RLock()
	tickets := make([]*ticket, 0, len(c.tickets))
	for _, t := range c.tickets {
		tickets = append(tickets, t)
	}
	c.mu.RUnlock()

	out := []domain.Order{}
	for _, t := range tickets {
		if !t.offeredBy(courierID) {
			continue
		}
		o, err := c.orders.Get(t.orderID)
		if err != nil {
			continue
		}
		if o.Status == domain.StatusSeekingCouriers || o.Status == domain.StatusAwaitingManagerDecision {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (t *ticket) offeredBy(courierID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	cs := t.ranked
	if cs == nil && t.pool != nil {
		cs = t.pool.Snapshot()
	}
	for _, cand := range cs {
		if cand.CourierID == courierID {
			return true
		}
	}
	return false
}

// Window returns the live decision window of an order.
func (c *Coordinator) Window(orderID string) (domain.WindowView, bool) {
	w, ok := c.windows.Active(orderID)
	if !ok {
		return domain.WindowView{}, false
	}
	return w.View(c.windows.Now()), true
}

// Stop cancels every live window. Orders keep their current status.
func (c *Coordinator) Stop() {
	c.windows.Stop()
}
