package domain

// OrderStatus represents a step of the order lifecycle.
type OrderStatus string

// List of order statuses in lifecycle order.
const (
	StatusPlaced                  OrderStatus = "placed"
	StatusPreparing               OrderStatus = "preparing"
	StatusReady                   OrderStatus = "ready"
	StatusSeekingCouriers         OrderStatus = "seeking_couriers"
	StatusAwaitingManagerDecision OrderStatus = "awaiting_manager_decision"
	StatusAssigned                OrderStatus = "assigned"
	StatusInDelivery              OrderStatus = "in_delivery"
	StatusDelivered               OrderStatus = "delivered"
	StatusFailed                  OrderStatus = "failed"
)

// transitions is the lifecycle graph: status -> statuses reachable in one step.
var transitions = map[OrderStatus][]OrderStatus{
	StatusPlaced:                  {StatusPreparing},
	StatusPreparing:               {StatusReady},
	StatusReady:                   {StatusSeekingCouriers},
	StatusSeekingCouriers:         {StatusAwaitingManagerDecision, StatusFailed},
	StatusAwaitingManagerDecision: {StatusAssigned, StatusFailed},
	StatusAssigned:                {StatusInDelivery},
	StatusInDelivery:              {StatusDelivered},
}

var statusMessages = map[OrderStatus]string{
	StatusPlaced:                  "Order placed",
	StatusPreparing:               "The restaurant is preparing your order",
	StatusReady:                   "Your order is ready",
	StatusSeekingCouriers:         "Looking for a courier",
	StatusAwaitingManagerDecision: "Waiting for courier assignment",
	StatusAssigned:                "A courier has been assigned",
	StatusInDelivery:              "Your order is on its way",
	StatusDelivered:               "Order delivered",
	StatusFailed:                  "No courier could be found for this order",
}

// Valid checks if the OrderStatus is known.
func (s OrderStatus) Valid() bool {
	_, ok := statusMessages[s]
	return ok
}

// Terminal reports whether no transition leaves s.
func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusFailed
}

// CanTransition reports whether to is reachable from s in one step.
func (s OrderStatus) CanTransition(to OrderStatus) bool {
	for _, next := range transitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// Message returns the human readable text sent along with status updates.
func (s OrderStatus) Message() string {
	if m, ok := statusMessages[s]; ok {
		return m
	}
	return string(s)
}

var statusRank = map[OrderStatus]int{
	StatusPlaced:                  0,
	StatusPreparing:               1,
	StatusReady:                   2,
	StatusSeekingCouriers:         3,
	StatusAwaitingManagerDecision: 4,
	StatusAssigned:                5,
	StatusInDelivery:              6,
	StatusDelivered:               7,
	StatusFailed:                  8,
}

// Reached reports whether s is target or lies past it in the lifecycle.
// A failed order has passed every step.
func (s OrderStatus) Reached(target OrderStatus) bool {
	a, ok := statusRank[s]
	b, ok2 := statusRank[target]
	return ok && ok2 && a >= b
}
