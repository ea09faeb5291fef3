package dispatch

import (
	"context"

	"service-dispatch/internal/domain"
	"service-dispatch/internal/logx"
	"service-dispatch/internal/service/candidates"
)

// Reconcile re-enters the current phase of every order left in a dispatch phase
// without a live window, which happens when a window could not be scheduled.
// It returns the number of recovered orders.
func (c *Coordinator) Reconcile(ctx context.Context) int {
	recovered := 0
	for _, status := range []domain.OrderStatus{domain.StatusSeekingCouriers, domain.StatusAwaitingManagerDecision} {
		for _, o := range c.orders.List(domain.OrderFilter{Status: status}) {
			if c.recover(ctx, o.ID) {
				recovered++
			}
		}
	}
	if recovered > 0 {
		c.log.Warn("reconciled stuck orders", logx.Int("orders", recovered))
	}
	return recovered
}

func (c *Coordinator) recover(ctx context.Context, orderID string) bool {
	t, err := c.ticket(orderID)
	if err != nil {
		return false
	}
	_, unlock := c.lock(ctx, t)
	defer unlock()

	if _, live := c.windows.Active(orderID); live || t.window != nil {
		return false
	}
	o, err := c.orders.Get(orderID)
	if err != nil {
		return false
	}

	switch o.Status {
	case domain.StatusSeekingCouriers:
		if t.pool == nil || t.pool.Closed() {
			t.pool = candidates.Open(orderID, c.cfg.Weights)
		}
		c.startAcceptanceWindow(t)
	case domain.StatusAwaitingManagerDecision:
		if t.resolved.Load() {
			return false
		}
		c.startDecisionWindow(t)
	default:
		return false
	}
	if t.window == nil {
		return false
	}
	c.log.Info("decision window restored", logx.OrderID(orderID), logx.String("phase", string(t.window.Phase)))
	return true
}
