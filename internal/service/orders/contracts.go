//go:generate mockgen -source=contracts.go -destination=orders_mocks_test.go -package=orders_test

package orders

import (
	"context"

	"service-dispatch/internal/domain"
)

// Dispatcher is the subset of the dispatch coordinator driven by inbound
// restaurant and courier signals.
type Dispatcher interface {
	OnOrderReady(ctx context.Context, orderID string) (domain.Order, error)
	StartDelivery(ctx context.Context, orderID, courierID string) (domain.Order, error)
	MarkDelivered(ctx context.Context, orderID string) (domain.Order, error)
}
