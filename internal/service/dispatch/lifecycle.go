package dispatch

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"service-dispatch/internal/apperr"
	"service-dispatch/internal/domain"
	"service-dispatch/internal/logx"
)

// PlaceOrder creates an order and hands it to the restaurant, which starts
// preparing it right away.
func (c *Coordinator) PlaceOrder(ctx context.Context, clientID, restaurantID string, items []string) (domain.Order, error) {
	if c.menus != nil && len(items) > 0 {
		if err := c.menus.ValidateItems(restaurantID, items); err != nil {
			return domain.Order{}, err
		}
	}
	o, err := c.orders.Create(clientID, restaurantID, items)
	if err != nil {
		return domain.Order{}, err
	}

	t := &ticket{orderID: o.ID}
	box, unlock := c.lock(ctx, t)
	defer unlock()
	c.register(t)

	o, _, err = c.orders.Transition(o.ID, domain.StatusPreparing)
	if err != nil {
		return domain.Order{}, fmt.Errorf("start preparation: %w", err)
	}
	box.add(domain.Notification{
		Role:      domain.RoleRestaurant,
		Recipient: o.RestaurantID,
		OrderID:   o.ID,
		Event:     domain.EventNewOrderForRestaurant,
		Payload: domain.NewOrderForRestaurant{
			ID:       o.ID,
			Client:   o.ClientID,
			Articles: append([]string(nil), o.Items...),
			Status:   o.Status,
		},
	})
	box.status(o)

	c.obs.OrderPlaced()
	c.log.Info("order placed",
		logx.OrderID(o.ID),
		logx.String("client_id", o.ClientID),
		logx.String("restaurant_id", o.RestaurantID),
		logx.String("items", strings.Join(o.Items, ", ")))
	return o, nil
}

// OnOrderReady handles the restaurant "preparation complete" signal: the order
// goes through ready to seeking_couriers and the acceptance window opens.
// Repeated signals are no-ops.
func (c *Coordinator) OnOrderReady(ctx context.Context, orderID string) (domain.Order, error) {
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
	if o.Status.Reached(domain.StatusReady) {
		c.log.Debug("duplicate ready signal ignored", logx.OrderID(orderID), logx.String("status", string(o.Status)))
		return o, nil
	}

	for _, next := range []domain.OrderStatus{domain.StatusReady, domain.StatusSeekingCouriers} {
		o, _, err = c.orders.Transition(orderID, next)
		if err != nil {
			c.log.Warn("illegal transition", logx.OrderID(orderID), logx.String("to", string(next)), logx.Err(err))
			return o, err
		}
		box.status(o)
	}
	c.openAcceptance(t, o, box)
	return o, nil
}

// StartDelivery records that the assigned courier picked the order up.
func (c *Coordinator) StartDelivery(ctx context.Context, orderID, courierID string) (domain.Order, error) {
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
	if o.CourierID != "" && o.CourierID != courierID {
		return o, fmt.Errorf("%w: order %s is assigned to another courier", apperr.ErrConflict, orderID)
	}
	if o.Status == domain.StatusInDelivery {
		return o, nil
	}
	o, _, err = c.orders.Transition(orderID, domain.StatusInDelivery)
	if err != nil {
		c.log.Warn("illegal transition", logx.OrderID(orderID), logx.String("to", string(domain.StatusInDelivery)), logx.Err(err))
		return o, err
	}
	box.status(o)
	return o, nil
}

// MarkDelivered completes the order and frees its courier. An assigned order
// passes through in_delivery first.
func (c *Coordinator) MarkDelivered(ctx context.Context, orderID string) (domain.Order, error) {
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
	switch o.Status {
	case domain.StatusDelivered:
		return o, nil
	case domain.StatusAssigned, domain.StatusInDelivery:
	default:
		err = fmt.Errorf("order %s %s -> %s: %w", orderID, o.Status, domain.StatusDelivered, apperr.ErrIllegalTransition)
		c.log.Warn("illegal transition", logx.OrderID(orderID), logx.Err(err))
		return o, err
	}

	for _, next := range []domain.OrderStatus{domain.StatusInDelivery, domain.StatusDelivered} {
		var changed bool
		o, changed, err = c.orders.Transition(orderID, next)
		if err != nil {
			return o, err
		}
		if changed {
			box.status(o)
		}
	}
	c.releaseCourier(o.CourierID, orderID)
	c.obs.Delivered()
	c.log.Info("order delivered", logx.OrderID(orderID), logx.String("courier_id", o.CourierID))
	return o, nil
}

// RateDelivery forwards the client's rating of a delivered order to the courier directory.
func (c *Coordinator) RateDelivery(ctx context.Context, orderID string, rating int) error {
	if rating < 1 || rating > 5 {
		return fmt.Errorf("%w: rating must be between 1 and 5", apperr.ErrInvalid)
	}
	t, err := c.ticket(orderID)
	if err != nil {
		return err
	}

	t.mu.Lock()
	o, err := c.orders.Get(orderID)
	if err == nil && o.Status != domain.StatusDelivered {
		err = fmt.Errorf("%w: order %s is %s", apperr.ErrIllegalTransition, orderID, o.Status)
	}
	if err == nil && t.rated {
		err = fmt.Errorf("%w: order %s already rated", apperr.ErrConflict, orderID)
	}
	if err != nil {
		t.mu.Unlock()
		return err
	}
	t.rated = true
	t.mu.Unlock()

	if err := c.couriers.RecordRating(ctx, o.CourierID, float64(rating)); err != nil {
		t.mu.Lock()
		t.rated = false
		t.mu.Unlock()
		if errors.Is(err, apperr.ErrNotFound) {
			return err
		}
		return fmt.Errorf("record rating: %w", err)
	}
	c.log.Info("delivery rated", logx.OrderID(orderID), logx.String("courier_id", o.CourierID), logx.Int("rating", rating))
	return nil
}
