package dispatch

import (
	"fmt"
	"time"

	"service-dispatch/internal/apperr"
	"service-dispatch/internal/service/scoring"
)

// EmptyPoolPolicy decides what happens when an acceptance window closes without offers.
type EmptyPoolPolicy string

// Supported empty pool policies.
const (
	PolicyFail   EmptyPoolPolicy = "fail"
	PolicyReopen EmptyPoolPolicy = "reopen"
)

// DefaultWindow is the length of both decision windows unless configured.
const DefaultWindow = 60 * time.Second

// DefaultNotifyTimeout bounds the notification flush of a window expiry.
const DefaultNotifyTimeout = 2 * time.Second

// Config tunes the coordinator.
type Config struct {
	AcceptanceWindow time.Duration
	DecisionWindow   time.Duration
	Weights          scoring.Weights
	EmptyPool        EmptyPoolPolicy
	// MaxReopens bounds PolicyReopen; once reached the order fails.
	MaxReopens int
	// EarlyCloseAt closes the acceptance window as soon as that many couriers offered. 0 disables it.
	EarlyCloseAt int
	// NotifyTimeout bounds notifications sent from window expiries, which have
	// no caller context. 0 means DefaultNotifyTimeout.
	NotifyTimeout time.Duration
}

// DefaultConfig returns the stock 60s/60s configuration.
func DefaultConfig() Config {
	return Config{
		AcceptanceWindow: DefaultWindow,
		DecisionWindow:   DefaultWindow,
		Weights:          scoring.DefaultWeights,
		EmptyPool:        PolicyFail,
		MaxReopens:       1,
		NotifyTimeout:    DefaultNotifyTimeout,
	}
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.AcceptanceWindow <= 0 || c.DecisionWindow <= 0 {
		return fmt.Errorf("%w: window durations must be positive", apperr.ErrInvalid)
	}
	switch c.EmptyPool {
	case PolicyFail, PolicyReopen:
	default:
		return fmt.Errorf("%w: empty pool policy %q", apperr.ErrInvalid, c.EmptyPool)
	}
	if c.MaxReopens < 0 || c.EarlyCloseAt < 0 || c.NotifyTimeout < 0 {
		return fmt.Errorf("%w: max reopens, early close and notify timeout must not be negative", apperr.ErrInvalid)
	}
	return nil
}
