// Package menu keeps the menu snapshot of every restaurant.
package menu

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"

	"service-dispatch/internal/apperr"
	"service-dispatch/internal/domain"
	"service-dispatch/internal/logx"
)

type notifier interface {
	Notify(ctx context.Context, n domain.Notification)
}

// Catalog stores one menu per restaurant and broadcasts every edit as a full snapshot.
type Catalog struct {
	notifier notifier
	log      logx.Logger

	mu    sync.RWMutex
	menus map[string]domain.Menu
}

// NewCatalog creates an empty catalog.
func NewCatalog(n notifier, log logx.Logger) *Catalog {
	if log == nil {
		log = logx.Nop()
	}
	return &Catalog{notifier: n, log: log, menus: make(map[string]domain.Menu)}
}

// AddItem adds or reprices an item and returns the resulting menu.
func (c *Catalog) AddItem(ctx context.Context, restaurantID string, item domain.MenuItem) (domain.Menu, error) {
	name := strings.TrimSpace(item.Name)
	if strings.TrimSpace(restaurantID) == "" || name == "" {
		return nil, fmt.Errorf("%w: restaurant and item name are required", apperr.ErrInvalid)
	}
	if item.Price < 0 || math.IsNaN(item.Price) || math.IsInf(item.Price, 0) {
		return nil, fmt.Errorf("%w: price %v", apperr.ErrInvalid, item.Price)
	}

	c.mu.Lock()
	m, ok := c.menus[restaurantID]
	if !ok {
		m = make(domain.Menu)
		c.menus[restaurantID] = m
	}
	m[name] = item.Price
	snap := m.Clone()
	c.mu.Unlock()

	c.log.Info("menu item saved",
		logx.String("restaurant_id", restaurantID),
		logx.String("item", name),
		logx.Float64("price", item.Price))
	c.broadcast(ctx, snap)
	return snap, nil
}

// Replace swaps the whole menu of a restaurant.
func (c *Catalog) Replace(ctx context.Context, restaurantID string, m domain.Menu) error {
	if strings.TrimSpace(restaurantID) == "" {
		return fmt.Errorf("%w: restaurant is required", apperr.ErrInvalid)
	}
	snap := m.Clone()
	c.mu.Lock()
	c.menus[restaurantID] = snap.Clone()
	c.mu.Unlock()
	c.broadcast(ctx, snap)
	return nil
}

// Menu returns a copy of the restaurant menu, empty if unknown.
func (c *Catalog) Menu(restaurantID string) domain.Menu {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.menus[restaurantID].Clone()
}

// ValidateItems checks items against a known menu. Restaurants without a menu accept anything.
func (c *Catalog) ValidateItems(restaurantID string, items []string) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	m := c.menus[restaurantID]
	if len(m) == 0 {
		return nil
	}
	for _, it := range items {
		if _, ok := m[strings.TrimSpace(it)]; !ok {
			return fmt.Errorf("%w: %q is not on the menu of %s", apperr.ErrInvalidOrder, it, restaurantID)
		}
	}
	return nil
}

func (c *Catalog) broadcast(ctx context.Context, snap domain.Menu) {
	if c.notifier == nil {
		return
	}
	c.notifier.Notify(ctx, domain.Notification{
		Role:    domain.RoleClient,
		Event:   domain.EventMenuUpdated,
		Payload: snap,
	})
}
