package orders

import (
	"time"
)

// Event is a single inbound order signal
type Event struct {
	OrderID   string
	Status    string
	CourierID string
	CreatedAt time.Time
}
