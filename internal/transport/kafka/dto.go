package kafka

import (
	"strings"
	"time"

	"service-dispatch/internal/service/orders"
)

// EventDTO is the wire form of an inbound order signal
type EventDTO struct {
	OrderID   string    `json:"order_id"`
	Status    string    `json:"status"`
	CourierID string    `json:"courier_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ToDomain converts EventDTO to orders.Event
func ToDomain(dto EventDTO) orders.Event {
	return orders.Event{
		OrderID:   strings.TrimSpace(dto.OrderID),
		Status:    strings.TrimSpace(dto.Status),
		CourierID: strings.TrimSpace(dto.CourierID),
		CreatedAt: dto.CreatedAt,
	}
}
