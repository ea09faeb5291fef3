// Package couriers answers courier score and distance lookups for the dispatch coordinator.
package couriers

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"service-dispatch/internal/apperr"
	"service-dispatch/internal/domain"
)

// Static is an in-memory directory seeded at start-up.
type Static struct {
	mu          sync.RWMutex
	couriers    map[string]domain.Courier
	restaurants map[string]domain.GeoPoint
}

// NewStatic builds a directory from seed records.
func NewStatic(cs []domain.Courier, rs []domain.Restaurant) *Static {
	s := &Static{
		couriers:    make(map[string]domain.Courier, len(cs)),
		restaurants: make(map[string]domain.GeoPoint, len(rs)),
	}
	for _, c := range cs {
		s.couriers[c.ID] = c
	}
	for _, r := range rs {
		s.restaurants[r.ID] = r.Position
	}
	return s
}

// Profile returns the courier score and its distance to the restaurant.
func (s *Static) Profile(_ context.Context, restaurantID, courierID string) (domain.CourierProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.couriers[courierID]
	if !ok {
		return domain.CourierProfile{}, fmt.Errorf("courier %s: %w", courierID, apperr.ErrNotFound)
	}
	pos, ok := s.restaurants[restaurantID]
	if !ok {
		pos = DefaultPosition
	}
	return profileOf(c, pos), nil
}

// RecordRating folds a delivery rating into the courier's average score.
func (s *Static) RecordRating(_ context.Context, courierID string, rating float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.couriers[courierID]
	if !ok {
		return fmt.Errorf("courier %s: %w", courierID, apperr.ErrNotFound)
	}
	c.Score = runningAverage(c.Score, c.Ratings, rating)
	c.Ratings++
	s.couriers[courierID] = c
	return nil
}

// Move updates the courier position, registering unknown couriers with a zero score.
func (s *Static) Move(_ context.Context, courierID string, p domain.GeoPoint) error {
	if strings.TrimSpace(courierID) == "" {
		return fmt.Errorf("%w: courier id is required", apperr.ErrInvalid)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.couriers[courierID]
	c.ID = courierID
	c.Position = p
	s.couriers[courierID] = c
	return nil
}

// Register adds a courier or refreshes its position. Once the courier has been
// rated its score is kept.
func (s *Static) Register(_ context.Context, c domain.Courier) error {
	if err := validateCourier(c); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.couriers[c.ID]; ok && old.Ratings > 0 {
		c.Score, c.Ratings = old.Score, old.Ratings
	}
	s.couriers[c.ID] = c
	return nil
}

// Courier returns the record of a courier.
func (s *Static) Courier(courierID string) (domain.Courier, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.couriers[courierID]
	return c, ok
}

// ParseCouriers parses "id:score:lat:lon" entries separated by commas.
func ParseCouriers(list string) ([]domain.Courier, error) {
	var out []domain.Courier
	for _, entry := range splitList(list) {
		parts := strings.Split(entry, ":")
		if len(parts) != 4 {
			return nil, fmt.Errorf("%w: courier seed %q, want id:score:lat:lon", apperr.ErrInvalid, entry)
		}
		nums, err := parseFloats(parts[1:])
		if err != nil {
			return nil, fmt.Errorf("courier seed %q: %w", entry, err)
		}
		out = append(out, domain.Courier{
			ID:       strings.TrimSpace(parts[0]),
			Score:    nums[0],
			Position: domain.GeoPoint{Lat: nums[1], Lon: nums[2]},
		})
	}
	return out, nil
}

// ParseRestaurants parses "id:lat:lon" entries separated by commas.
func ParseRestaurants(list string) ([]domain.Restaurant, error) {
	var out []domain.Restaurant
	for _, entry := range splitList(list) {
		i := strings.LastIndex(entry, ":")
		j := -1
		if i > 0 {
			j = strings.LastIndex(entry[:i], ":")
		}
		if j <= 0 {
			return nil, fmt.Errorf("%w: restaurant seed %q, want id:lat:lon", apperr.ErrInvalid, entry)
		}
		nums, err := parseFloats([]string{entry[j+1 : i], entry[i+1:]})
		if err != nil {
			return nil, fmt.Errorf("restaurant seed %q: %w", entry, err)
		}
		out = append(out, domain.Restaurant{
			ID:       strings.TrimSpace(entry[:j]),
			Position: domain.GeoPoint{Lat: nums[0], Lon: nums[1]},
		})
	}
	return out, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseFloats(ss []string) ([]float64, error) {
	out := make([]float64, 0, len(ss))
	for _, s := range ss {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperr.ErrInvalid, err)
		}
		out = append(out, f)
	}
	return out, nil
}
