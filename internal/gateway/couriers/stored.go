package couriers

import (
	"context"
	"fmt"

	"service-dispatch/internal/apperr"
	"service-dispatch/internal/domain"
)

// store is the persistence the database-backed directory needs.
type store interface {
	Get(ctx context.Context, id string) (*domain.Courier, error)
	RestaurantPosition(ctx context.Context, id string) (*domain.GeoPoint, error)
	AddRating(ctx context.Context, id string, rating float64) (bool, error)
	UpdatePosition(ctx context.Context, id string, p domain.GeoPoint) (bool, error)
	Upsert(ctx context.Context, c domain.Courier) error
}

// Stored is a directory backed by the courier tables.
type Stored struct {
	store store
}

// NewStored wraps a store.
func NewStored(s store) *Stored {
	if s == nil {
		return nil
	}
	return &Stored{store: s}
}

// Profile loads the courier and computes its distance to the restaurant.
func (d *Stored) Profile(ctx context.Context, restaurantID, courierID string) (domain.CourierProfile, error) {
	c, err := d.store.Get(ctx, courierID)
	if err != nil {
		return domain.CourierProfile{}, err
	}
	if c == nil {
		return domain.CourierProfile{}, fmt.Errorf("courier %s: %w", courierID, apperr.ErrNotFound)
	}
	pos, err := d.store.RestaurantPosition(ctx, restaurantID)
	if err != nil {
		return domain.CourierProfile{}, err
	}
	if pos == nil {
		pos = &DefaultPosition
	}
	return profileOf(*c, *pos), nil
}

// RecordRating stores a delivery rating; the store keeps the running average.
func (d *Stored) RecordRating(ctx context.Context, courierID string, rating float64) error {
	ok, err := d.store.AddRating(ctx, courierID, rating)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("courier %s: %w", courierID, apperr.ErrNotFound)
	}
	return nil
}

// Move stores the last reported courier position. Unknown couriers are not created.
func (d *Stored) Move(ctx context.Context, courierID string, p domain.GeoPoint) error {
	ok, err := d.store.UpdatePosition(ctx, courierID, p)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("courier %s: %w", courierID, apperr.ErrNotFound)
	}
	return nil
}

// Register inserts the courier or refreshes its position.
func (d *Stored) Register(ctx context.Context, c domain.Courier) error {
	if err := validateCourier(c); err != nil {
		return err
	}
	return d.store.Upsert(ctx, c)
}
