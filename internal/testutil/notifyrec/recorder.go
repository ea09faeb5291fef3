// Package notifyrec records notifications emitted by the dispatch coordinator in tests.
package notifyrec

import (
	"context"
	"sync"

	"service-dispatch/internal/domain"
)

// Recorder is an in-memory Notifier.
type Recorder struct {
	mu   sync.Mutex
	sent []domain.Notification
}

// New returns an empty Recorder.
func New() *Recorder { return &Recorder{} }

// Notify records n.
func (r *Recorder) Notify(_ context.Context, n domain.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
}

// All returns every recorded notification in emission order.
func (r *Recorder) All() []domain.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Notification(nil), r.sent...)
}

// ByEvent returns the notifications with the given event name.
func (r *Recorder) ByEvent(event string) []domain.Notification {
	var out []domain.Notification
	for _, n := range r.All() {
		if n.Event == event {
			out = append(out, n)
		}
	}
	return out
}

// Statuses returns the statuses carried by order_status_update events of one order.
func (r *Recorder) Statuses(orderID string) []domain.OrderStatus {
	var out []domain.OrderStatus
	seen := make(map[domain.OrderStatus]bool)
	for _, n := range r.ByEvent(domain.EventOrderStatusUpdate) {
		if n.OrderID != orderID {
			continue
		}
		p, ok := n.Payload.(domain.OrderStatusUpdate)
		if !ok || seen[p.Status] {
			continue
		}
		seen[p.Status] = true
		out = append(out, p.Status)
	}
	return out
}

// Reset drops everything recorded so far.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = nil
}
