package dispatch

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"service-dispatch/internal/apperr"
	"service-dispatch/internal/domain"
	"service-dispatch/internal/logx"
	"service-dispatch/internal/service/candidates"
	"service-dispatch/internal/service/window"
)

// openAcceptance opens a fresh candidate pool and the acceptance window. A
// scheduling failure leaves the order in seeking_couriers without a window;
// Reconcile opens it again.
func (c *Coordinator) openAcceptance(t *ticket, o domain.Order, box *outbox) {
	t.pool = candidates.Open(o.ID, c.cfg.Weights)
	t.ranked = nil
	c.startAcceptanceWindow(t)
	box.add(domain.Notification{
		Role:    domain.RoleCourier,
		OrderID: o.ID,
		Event:   domain.EventNewOrderForCourier,
		Payload: domain.NewOrderForCourier{
			ID:         o.ID,
			Restaurant: o.RestaurantID,
			Articles:   append([]string(nil), o.Items...),
		},
	})
}

func (c *Coordinator) startAcceptanceWindow(t *ticket) {
	w, err := c.windows.Start(t.orderID, domain.PhaseAcceptance, c.cfg.AcceptanceWindow, c.onAcceptanceExpired)
	if err != nil {
		t.window = nil
		c.log.Error("schedule acceptance window", logx.OrderID(t.orderID), logx.Err(err))
		return
	}
	t.window = w
	c.log.Info("acceptance window opened", logx.OrderID(t.orderID), logx.Duration("duration", w.Duration))
}

// CourierAccept records a courier's offer for an order in its acceptance window.
// Rejections are reported to the courier with acceptance_failed and never change
// the order.
func (c *Coordinator) CourierAccept(ctx context.Context, orderID, courierID string) (domain.Candidate, error) {
	if strings.TrimSpace(courierID) == "" {
		return domain.Candidate{}, fmt.Errorf("%w: courier id is required", apperr.ErrInvalid)
	}
	t, err := c.ticket(orderID)
	if err != nil {
		return domain.Candidate{}, err
	}

	o, err := c.orders.Get(orderID)
	if err != nil {
		return domain.Candidate{}, err
	}
	if o.Status != domain.StatusSeekingCouriers {
		return domain.Candidate{}, c.rejectOffer(ctx, orderID, courierID, apperr.ErrWindowClosed)
	}
	if busyWith, ok := c.Busy(courierID); ok && busyWith != orderID {
		return domain.Candidate{}, c.rejectOffer(ctx, orderID, courierID, apperr.ErrCourierBusy)
	}

	profile, err := c.couriers.Profile(ctx, o.RestaurantID, courierID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return domain.Candidate{}, c.rejectOffer(ctx, orderID, courierID, err)
		}
		c.log.Error("courier profile lookup", logx.OrderID(orderID), logx.String("courier_id", courierID), logx.Err(err))
		c.notifyOfferFailed(ctx, orderID, courierID, "courier profile unavailable")
		return domain.Candidate{}, fmt.Errorf("courier profile: %w", err)
	}

	box, unlock := c.lock(ctx, t)
	defer unlock()

	o, err = c.orders.Get(orderID)
	if err != nil {
		return domain.Candidate{}, err
	}
	if o.Status != domain.StatusSeekingCouriers || t.pool == nil {
		c.obs.OfferRejected(reasonOf(apperr.ErrWindowClosed))
		box.toCourier(courierID, orderID, domain.EventAcceptanceFailed,
			domain.AcceptanceResult{OrderID: orderID, Message: apperr.ErrWindowClosed.Error()})
		return domain.Candidate{}, fmt.Errorf("order %s: %w", orderID, apperr.ErrWindowClosed)
	}

	cand, err := t.pool.Offer(courierID, profile.Score, profile.DistanceKm, c.windows.Now())
	if err != nil {
		c.obs.OfferRejected(reasonOf(err))
		box.toCourier(courierID, orderID, domain.EventAcceptanceFailed,
			domain.AcceptanceResult{OrderID: orderID, Message: err.Error()})
		return domain.Candidate{}, fmt.Errorf("order %s: %w", orderID, err)
	}
	box.toCourier(courierID, orderID, domain.EventAcceptanceConfirmed, domain.AcceptanceResult{OrderID: orderID})
	c.log.Info("courier offered",
		logx.OrderID(orderID),
		logx.String("courier_id", courierID),
		logx.Float64("recommendation", cand.Recommendation))

	if c.cfg.EarlyCloseAt > 0 && t.pool.Len() >= c.cfg.EarlyCloseAt && t.window != nil {
		if c.windows.Cancel(orderID) {
			c.log.Info("acceptance window closed early", logx.OrderID(orderID), logx.Int("candidates", t.pool.Len()))
			c.closeAcceptance(t, box)
		}
	}
	return cand, nil
}

func (c *Coordinator) rejectOffer(ctx context.Context, orderID, courierID string, err error) error {
	c.obs.OfferRejected(reasonOf(err))
	c.notifyOfferFailed(ctx, orderID, courierID, err.Error())
	return fmt.Errorf("order %s: %w", orderID, err)
}

func (c *Coordinator) notifyOfferFailed(ctx context.Context, orderID, courierID, msg string) {
	c.notifier.Notify(ctx, domain.Notification{
		Role:      domain.RoleCourier,
		Recipient: courierID,
		OrderID:   orderID,
		Event:     domain.EventAcceptanceFailed,
		Payload:   domain.AcceptanceResult{OrderID: orderID, Message: msg},
	})
}

func reasonOf(err error) string {
	switch {
	case errors.Is(err, apperr.ErrWindowClosed):
		return "window_closed"
	case errors.Is(err, apperr.ErrDuplicateCandidate):
		return "duplicate"
	case errors.Is(err, apperr.ErrCourierBusy):
		return "busy"
	case errors.Is(err, apperr.ErrNotFound):
		return "unknown_courier"
	default:
		return "error"
	}
}

func (c *Coordinator) onAcceptanceExpired(w *window.Window) {
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
	c.obs.WindowExpired(domain.PhaseAcceptance)
	c.closeAcceptance(t, box)
}

// closeAcceptance freezes the pool and moves the order to the manager decision,
// or applies the empty pool policy. Caller holds the ticket lock.
func (c *Coordinator) closeAcceptance(t *ticket, box *outbox) {
	t.window = nil
	o, err := c.orders.Get(t.orderID)
	if err != nil || o.Status != domain.StatusSeekingCouriers || t.pool == nil {
		return
	}

	ranked := t.pool.Close()
	if len(ranked) == 0 {
		c.handleEmptyPool(t, o, box)
		return
	}

	o, _, err = c.orders.Transition(t.orderID, domain.StatusAwaitingManagerDecision)
	if err != nil {
		c.log.Warn("illegal transition", logx.OrderID(t.orderID), logx.Err(err))
		return
	}
	t.ranked = ranked
	t.resolved.Store(false)
	box.status(o)
	c.startDecisionWindow(t)
	box.toManager(o.ID, domain.EventManagerActionRequired, domain.ManagerActionRequired{
		OrderID:    o.ID,
		Candidates: domain.CandidateViews(ranked),
	})
}

func (c *Coordinator) handleEmptyPool(t *ticket, o domain.Order, box *outbox) {
	if c.cfg.EmptyPool == PolicyReopen && t.reopens < c.cfg.MaxReopens {
		t.reopens++
		c.log.Warn("no courier offered, reopening acceptance window",
			logx.OrderID(o.ID), logx.Int("reopens", t.reopens))
		c.openAcceptance(t, o, box)
		return
	}
	c.log.Warn("no courier offered, order failed", logx.OrderID(o.ID))
	c.fail(t, box)
}
