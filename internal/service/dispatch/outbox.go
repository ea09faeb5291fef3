package dispatch

import "service-dispatch/internal/domain"

// outbox collects the notifications of one operation until the order lock is released.
type outbox struct {
	items []domain.Notification
}

func (b *outbox) add(n domain.Notification) {
	b.items = append(b.items, n)
}

// status queues order_status_update for every party of the order.
func (b *outbox) status(o domain.Order) {
	payload := domain.OrderStatusUpdate{ID: o.ID, Status: o.Status, Message: o.Status.Message()}
	b.add(domain.Notification{Role: domain.RoleClient, Recipient: o.ClientID, OrderID: o.ID, Event: domain.EventOrderStatusUpdate, Payload: payload})
	b.add(domain.Notification{Role: domain.RoleRestaurant, Recipient: o.RestaurantID, OrderID: o.ID, Event: domain.EventOrderStatusUpdate, Payload: payload})
	b.add(domain.Notification{Role: domain.RoleManager, OrderID: o.ID, Event: domain.EventOrderStatusUpdate, Payload: payload})
	if o.CourierID != "" {
		b.add(domain.Notification{Role: domain.RoleCourier, Recipient: o.CourierID, OrderID: o.ID, Event: domain.EventOrderStatusUpdate, Payload: payload})
	}
}

func (b *outbox) toCourier(courierID, orderID, event string, payload any) {
	b.add(domain.Notification{Role: domain.RoleCourier, Recipient: courierID, OrderID: orderID, Event: event, Payload: payload})
}

func (b *outbox) toManager(orderID, event string, payload any) {
	b.add(domain.Notification{Role: domain.RoleManager, OrderID: orderID, Event: event, Payload: payload})
}
