// Package registry keeps the authoritative state of every order.
package registry

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"service-dispatch/internal/apperr"
	"service-dispatch/internal/domain"
)

// IDFunc generates order identifiers.
type IDFunc func() string

// Registry is an in-memory order store. Each record carries its own lock so
// transitions on different orders never contend.
type Registry struct {
	now   func() time.Time
	newID IDFunc

	mu      sync.RWMutex
	records map[string]*record
}

type record struct {
	mu    sync.Mutex
	order domain.Order
}

// Option customizes a Registry.
type Option func(*Registry)

// WithClock overrides the time source used for CreatedAt/UpdatedAt.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

// WithIDs overrides the order id generator.
func WithIDs(f IDFunc) Option {
	return func(r *Registry) { r.newID = f }
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		now:     time.Now,
		newID:   uuid.NewString,
		records: make(map[string]*record),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Create stores a new order in status placed.
func (r *Registry) Create(clientID, restaurantID string, items []string) (domain.Order, error) {
	if len(items) == 0 {
		return domain.Order{}, apperr.ErrInvalidOrder
	}
	for _, it := range items {
		if strings.TrimSpace(it) == "" {
			return domain.Order{}, fmt.Errorf("%w: blank item", apperr.ErrInvalidOrder)
		}
	}
	if strings.TrimSpace(clientID) == "" || strings.TrimSpace(restaurantID) == "" {
		return domain.Order{}, fmt.Errorf("%w: client and restaurant are required", apperr.ErrInvalid)
	}

	now := r.now()
	o := domain.Order{
		ID:           r.newID(),
		ClientID:     clientID,
		RestaurantID: restaurantID,
		Items:        append([]string(nil), items...),
		Status:       domain.StatusPlaced,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.records[o.ID]; exists {
		return domain.Order{}, fmt.Errorf("%w: order id %s", apperr.ErrConflict, o.ID)
	}
	r.records[o.ID] = &record{order: o}
	return o.Clone(), nil
}

func (r *Registry) lookup(id string) (*record, error) {
	r.mu.RLock()
	rec, ok := r.records[id]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("order %s: %w", id, apperr.ErrNotFound)
	}
	return rec, nil
}

// Get returns a copy of the order.
func (r *Registry) Get(id string) (domain.Order, error) {
	rec, err := r.lookup(id)
	if err != nil {
		return domain.Order{}, err
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	return rec.order.Clone(), nil
}

// Transition moves the order to status to. Re-applying the current status is a
// no-op reported with changed == false.
func (r *Registry) Transition(id string, to domain.OrderStatus) (domain.Order, bool, error) {
	rec, err := r.lookup(id)
	if err != nil {
		return domain.Order{}, false, err
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()

	from := rec.order.Status
	if from == to {
		return rec.order.Clone(), false, nil
	}
	if !from.CanTransition(to) {
		return rec.order.Clone(), false, fmt.Errorf("order %s %s -> %s: %w", id, from, to, apperr.ErrIllegalTransition)
	}
	rec.order.Status = to
	rec.order.UpdatedAt = r.now()
	return rec.order.Clone(), true, nil
}

// Assign binds courierID to the order and moves it to assigned.
func (r *Registry) Assign(id, courierID string, auto bool) (domain.Order, error) {
	rec, err := r.lookup(id)
	if err != nil {
		return domain.Order{}, err
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()

	if rec.order.Status == domain.StatusAssigned && rec.order.CourierID == courierID {
		return rec.order.Clone(), nil
	}
	if !rec.order.Status.CanTransition(domain.StatusAssigned) {
		return rec.order.Clone(), fmt.Errorf("order %s %s -> %s: %w",
			id, rec.order.Status, domain.StatusAssigned, apperr.ErrIllegalTransition)
	}
	rec.order.Status = domain.StatusAssigned
	rec.order.CourierID = courierID
	rec.order.AutoAssigned = auto
	rec.order.UpdatedAt = r.now()
	return rec.order.Clone(), nil
}

// List returns the orders matching f, oldest first.
func (r *Registry) List(f domain.OrderFilter) []domain.Order {
	r.mu.RLock()
	recs := make([]*record, 0, len(r.records))
	for _, rec := range r.records {
		recs = append(recs, rec)
	}
	r.mu.RUnlock()

	out := make([]domain.Order, 0, len(recs))
	for _, rec := range recs {
		rec.mu.Lock()
		o := rec.order.Clone()
		rec.mu.Unlock()
		if f.Match(o) {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Len returns the number of stored orders.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}
