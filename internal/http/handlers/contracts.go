package handlers

import (
	"context"

	"service-dispatch/internal/domain"
	"service-dispatch/internal/repository"
	"service-dispatch/internal/service/dispatch"
	"service-dispatch/internal/service/menu"
)

type dispatchUsecase interface {
	PlaceOrder(ctx context.Context, clientID, restaurantID string, items []string) (domain.Order, error)
	OnOrderReady(ctx context.Context, orderID string) (domain.Order, error)
	CourierAccept(ctx context.Context, orderID, courierID string) (domain.Candidate, error)
	ManagerAssign(ctx context.Context, orderID, courierID string) (domain.Order, error)
	StartDelivery(ctx context.Context, orderID, courierID string) (domain.Order, error)
	MarkDelivered(ctx context.Context, orderID string) (domain.Order, error)
	RateDelivery(ctx context.Context, orderID string, rating int) error

	Order(orderID string) (domain.Order, error)
	Orders(f domain.OrderFilter) []domain.Order
	Candidates(orderID string) ([]domain.Candidate, error)
	Window(orderID string) (domain.WindowView, bool)
	Interests(courierID string) []domain.Order
}

// NewDispatchUsecase wires the coordinator into a dispatchUsecase.
func NewDispatchUsecase(c *dispatch.Coordinator) dispatchUsecase {
	return c
}

type menuUsecase interface {
	AddItem(ctx context.Context, restaurantID string, item domain.MenuItem) (domain.Menu, error)
	Menu(restaurantID string) domain.Menu
}

// NewMenuUsecase wires the catalog into a menuUsecase.
func NewMenuUsecase(c *menu.Catalog) menuUsecase {
	return c
}

// CourierLocator stores courier registrations and the positions reported by
// courier devices.
type CourierLocator interface {
	Register(ctx context.Context, c domain.Courier) error
	Move(ctx context.Context, courierID string, p domain.GeoPoint) error
}

type journalReader interface {
	History(ctx context.Context, orderID string) ([]repository.JournalEntry, error)
}

// NewJournalReader exposes the order journal. It is nil without a database.
func NewJournalReader(r *repository.JournalRepo) journalReader {
	if r == nil {
		return nil
	}
	return r
}
