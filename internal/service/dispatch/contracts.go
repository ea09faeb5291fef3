//go:generate mockgen -source=contracts.go -destination=dispatch_mocks_test.go -package=dispatch_test

package dispatch

import (
	"context"

	"service-dispatch/internal/domain"
)

// CourierDirectory answers courier score and distance questions.
// Profile returns an error wrapping apperr.ErrNotFound for unknown couriers.
type CourierDirectory interface {
	Profile(ctx context.Context, restaurantID, courierID string) (domain.CourierProfile, error)
	RecordRating(ctx context.Context, courierID string, rating float64) error
}

// Notifier delivers events to subscribed roles. Delivery is fire-and-forget.
type Notifier interface {
	Notify(ctx context.Context, n domain.Notification)
}

// MenuValidator checks ordered items against the restaurant menu.
type MenuValidator interface {
	ValidateItems(restaurantID string, items []string) error
}

// Observer receives dispatch outcomes, typically for metrics.
type Observer interface {
	OrderPlaced()
	WindowExpired(phase domain.Phase)
	OfferRejected(reason string)
	Assigned(auto bool)
	Delivered()
	Failed()
}

type nopObserver struct{}

func (nopObserver) OrderPlaced()               {}
func (nopObserver) WindowExpired(domain.Phase) {}
func (nopObserver) OfferRejected(string)       {}
func (nopObserver) Assigned(bool)              {}
func (nopObserver) Delivered()                 {}
func (nopObserver) Failed()                    {}
