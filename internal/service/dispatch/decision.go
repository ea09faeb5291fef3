package dispatch

import (
	"context"
	"fmt"

	"service-dispatch/internal/apperr"
	"service-dispatch/internal/domain"
	"service-dispatch/internal/logx"
	"service-dispatch/internal/service/window"
)

func (c *Coordinator) startDecisionWindow(t *ticket) {
	w, err := c.windows.Start(t.orderID, domain.PhaseManagerDecision, c.cfg.DecisionWindow, c.onDecisionExpired)
	if err != nil {
		t.window = nil
		c.log.Error("schedule manager decision window", logx.OrderID(t.orderID), logx.Err(err))
		return
	}
	t.window = w
}

// ManagerAssign resolves an order awaiting a manager decision with one of its
// candidates. A second call, or one racing the automatic fallback and losing,
// returns apperr.ErrAlreadyResolved and changes nothing.
func (c *Coordinator) ManagerAssign(ctx context.Context, orderID, courierID string) (domain.Order, error) {
	t, err := c.ticket(orderID)
	if err != nil {
		return domain.Order{}, err
	}
	box, unlock := c.lock(ctx, t)
	defer unlock()

	o, err := c.orders.Get(orderID)
	if err != nil {
		return domain.Order{}, err
	}
	if o.Status != domain.StatusAwaitingManagerDecision {
		if o.Status.Reached(domain.StatusAssigned) {
			return o, fmt.Errorf("order %s: %w", orderID, apperr.ErrAlreadyResolved)
		}
		return o, fmt.Errorf("order %s is %s: %w", orderID, o.Status, apperr.ErrIllegalTransition)
	}
	if t.resolved.Load() {
		return o, fmt.Errorf("order %s: %w", orderID, apperr.ErrAlreadyResolved)
	}

	cand, ok := findCandidate(t.ranked, courierID)
	if !ok {
		return o, fmt.Errorf("courier %s for order %s: %w", courierID, orderID, apperr.ErrNotCandidate)
	}
	if !t.resolved.CompareAndSwap(false, true) {
		return o, fmt.Errorf("order %s: %w", orderID, apperr.ErrAlreadyResolved)
	}
	if !c.claimCourier(cand.CourierID, orderID) {
		t.resolved.Store(false)
		return o, fmt.Errorf("courier %s: %w", courierID, apperr.ErrCourierBusy)
	}

	c.windows.Cancel(orderID)
	t.window = nil
	return c.assign(t, cand, false, box)
}

func findCandidate(cs []domain.Candidate, courierID string) (domain.Candidate, bool) {
	for _, c := range cs {
		if c.CourierID == courierID {
			return c, true
		}
	}
	return domain.Candidate{}, false
}

func (c *Coordinator) onDecisionExpired(w *window.Window) {
	t, err := c.ticket(w.OrderID)
	if err != nil {
		return
	}
	ctx, cancel := c.expiryContext()
	defer cancel()
	box, unlock := c.lock(ctx, t)
	defer unlock()

	if t.window != w {
		return
	}
	t.window = nil
	o, err := c.orders.Get(w.OrderID)
	if err != nil || o.Status != domain.StatusAwaitingManagerDecision {
		return
	}
	if !t.resolved.CompareAndSwap(false, true) {
		return
	}
	c.obs.WindowExpired(domain.PhaseManagerDecision)

	for _, cand := range t.ranked {
		if !c.claimCourier(cand.CourierID, o.ID) {
			c.log.Info("skipping busy candidate", logx.OrderID(o.ID), logx.String("courier_id", cand.CourierID))
			continue
		}
		if _, err := c.assign(t, cand, true, box); err != nil {
			c.log.Error("auto assignment", logx.OrderID(o.ID), logx.Err(err))
		}
		return
	}
	c.log.Warn("no eligible candidate, order failed", logx.OrderID(o.ID), logx.Int("candidates", len(t.ranked)))
	c.fail(t, box)
}

// assign commits the resolution. The resolved flag is already set and the
// courier claimed. Caller holds the ticket lock.
func (c *Coordinator) assign(t *ticket, cand domain.Candidate, auto bool, box *outbox) (domain.Order, error) {
	o, err := c.orders.Assign(t.orderID, cand.CourierID, auto)
	if err != nil {
		c.releaseCourier(cand.CourierID, t.orderID)
		c.log.Warn("illegal transition", logx.OrderID(t.orderID), logx.Err(err))
		return o, err
	}
	t.discard()

	assignment := domain.CourierAssignment{OrderID: o.ID, CourierID: cand.CourierID}
	box.status(o)
	box.toCourier(cand.CourierID, o.ID, domain.EventCourierAssigned, assignment)
	if auto {
		box.toManager(o.ID, domain.EventManagerAutoAssigned, assignment)
	}

	c.obs.Assigned(auto)
	c.log.Info("courier assigned",
		logx.OrderID(o.ID),
		logx.String("courier_id", cand.CourierID),
		logx.Bool("auto", auto),
		logx.Float64("recommendation", cand.Recommendation))
	return o, nil
}

// fail moves the order to failed from whichever dispatch phase it is in.
func (c *Coordinator) fail(t *ticket, box *outbox) {
	o, changed, err := c.orders.Transition(t.orderID, domain.StatusFailed)
	if err != nil {
		c.log.Warn("illegal transition", logx.OrderID(t.orderID), logx.Err(err))
		return
	}
	t.discard()
	if changed {
		box.status(o)
		c.obs.Failed()
	}
}
