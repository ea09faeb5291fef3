package couriers

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"service-dispatch/internal/domain"
	"service-dispatch/internal/logx"
)

type directory interface {
	Profile(ctx context.Context, restaurantID, courierID string) (domain.CourierProfile, error)
	RecordRating(ctx context.Context, courierID string, rating float64) error
}

type counter interface {
	Inc()
}

// RetryConfig describes the retry behaviour of Retrying.
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	// Timeout bounds a single attempt. Zero leaves the caller's deadline alone.
	Timeout time.Duration
}

// Retrying retries transient directory failures with exponential backoff.
type Retrying struct {
	next    directory
	logger  logx.Logger
	retries counter
	cfg     RetryConfig
}

// NewRetrying wraps next. It returns nil when next is nil.
func NewRetrying(next directory, logger logx.Logger, retries counter, cfg RetryConfig) *Retrying {
	if next == nil {
		return nil
	}
	if logger == nil {
		logger = logx.Nop()
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &Retrying{next: next, logger: logger, retries: retries, cfg: cfg}
}

// Profile implements the directory lookup with retries.
func (g *Retrying) Profile(ctx context.Context, restaurantID, courierID string) (domain.CourierProfile, error) {
	var out domain.CourierProfile
	err := g.do(ctx, "Profile", func(ctx context.Context) error {
		p, err := g.next.Profile(ctx, restaurantID, courierID)
		if err == nil {
			out = p
		}
		return err
	})
	return out, err
}

// RecordRating implements rating storage with retries.
func (g *Retrying) RecordRating(ctx context.Context, courierID string, rating float64) error {
	return g.do(ctx, "RecordRating", func(ctx context.Context) error {
		return g.next.RecordRating(ctx, courierID, rating)
	})
}

func (g *Retrying) do(ctx context.Context, method string, call func(context.Context) error) error {
	var lastErr error
	for attempt := 1; attempt <= g.cfg.MaxAttempts; attempt++ {
		err := g.attempt(ctx, call)
		if err == nil {
			return nil
		}
		lastErr = err
		if ctx.Err() != nil || attempt == g.cfg.MaxAttempts || !isRetryable(err) {
			break
		}

		delay := backoff(g.cfg.BaseDelay, g.cfg.MaxDelay, attempt)
		if g.retries != nil {
			g.retries.Inc()
		}
		g.logger.Warn("courier directory retry",
			logx.String("method", method),
			logx.Int("attempt", attempt),
			logx.Duration("delay", delay),
			logx.Err(err),
		)
		if !sleepWithContext(ctx, delay) {
			break
		}
	}
	return lastErr
}

func (g *Retrying) attempt(ctx context.Context, call func(context.Context) error) error {
	if g.cfg.Timeout <= 0 {
		return call(ctx)
	}
	ctx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()
	return call(ctx)
}

// isRetryable reports connection level failures that a new attempt may fix.
func isRetryable(err error) bool {
	if pgconn.SafeToRetry(err) || pgconn.Timeout(err) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgerrcode.IsConnectionException(pgErr.Code) ||
			pgErr.Code == pgerrcode.SerializationFailure ||
			pgErr.Code == pgerrcode.DeadlockDetected ||
			pgErr.Code == pgerrcode.TooManyConnections
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func backoff(base, max time.Duration, attempt int) time.Duration {
	d := base << (attempt - 1)
	if d > max {
		return max
	}
	return d
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
