package domain

import "time"

// Order is a client's request for a set of items from one restaurant.
type Order struct {
	ID           string
	ClientID     string
	RestaurantID string
	Items        []string
	Status       OrderStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
	// CourierID is empty until the order is assigned.
	CourierID    string
	AutoAssigned bool
}

// Clone returns a deep copy so callers never share the item slice with the registry.
func (o Order) Clone() Order {
	o.Items = append([]string(nil), o.Items...)
	return o
}

// OrderFilter narrows registry listings. Zero fields match everything.
type OrderFilter struct {
	Status       OrderStatus
	ClientID     string
	RestaurantID string
	CourierID    string
}

// Match reports whether o satisfies the filter.
func (f OrderFilter) Match(o Order) bool {
	if f.Status != "" && o.Status != f.Status {
		return false
	}
	if f.ClientID != "" && o.ClientID != f.ClientID {
		return false
	}
	if f.RestaurantID != "" && o.RestaurantID != f.RestaurantID {
		return false
	}
	if f.CourierID != "" && o.CourierID != f.CourierID {
		return false
	}
	return true
}
