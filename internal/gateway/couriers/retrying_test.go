package couriers

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"service-dispatch/internal/apperr"
	"service-dispatch/internal/domain"
	testlog "service-dispatch/internal/testutil"
)

type fakeDirectory struct {
	profileFn func(context.Context, string, string) (domain.CourierProfile, error)
	ratingFn  func(context.Context, string, float64) error
}

func (f *fakeDirectory) Profile(ctx context.Context, restaurantID, courierID string) (domain.CourierProfile, error) {
	return f.profileFn(ctx, restaurantID, courierID)
}

func (f *fakeDirectory) RecordRating(ctx context.Context, courierID string, rating float64) error {
	return f.ratingFn(ctx, courierID, rating)
}

type counterStub struct{ n int64 }

func (c *counterStub) Inc()         { atomic.AddInt64(&c.n, 1) }
func (c *counterStub) Count() int64 { return atomic.LoadInt64(&c.n) }

func connLost() error {
	return &pgconn.PgError{Code: pgerrcode.ConnectionFailure, Message: "connection failure"}
}

func TestRetrying_Profile_RetriesThenSucceeds(t *testing.T) {
	t.Parallel()

	rec := testlog.New()
	var calls int32
	next := &fakeDirectory{
		profileFn: func(context.Context, string, string) (domain.CourierProfile, error) {
			switch atomic.AddInt32(&calls, 1) {
			case 1, 2:
				return domain.CourierProfile{}, connLost()
			default:
				return domain.CourierProfile{CourierID: "livreur1", Score: 4.8}, nil
			}
		},
	}
	ctr := &counterStub{}
	g := NewRetrying(next, rec.Logger(), ctr, RetryConfig{MaxAttempts: 5})
	require.NotNil(t, g)

	got, err := g.Profile(context.Background(), "r1", "livreur1")
	require.NoError(t, err)
	assert.Equal(t, "livreur1", got.CourierID)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	assert.Equal(t, int64(2), ctr.Count())
	assert.True(t, rec.Has("warn", "courier directory retry"))
}

func TestRetrying_NoRetryOnDomainErrors(t *testing.T) {
	t.Parallel()

	var calls int32
	next := &fakeDirectory{
		profileFn: func(context.Context, string, string) (domain.CourierProfile, error) {
			atomic.AddInt32(&calls, 1)
			return domain.CourierProfile{}, apperr.ErrNotFound
		},
		ratingFn: func(context.Context, string, float64) error {
			atomic.AddInt32(&calls, 1)
			return &pgconn.PgError{Code: pgerrcode.UniqueViolation}
		},
	}
	ctr := &counterStub{}
	g := NewRetrying(next, nil, ctr, RetryConfig{MaxAttempts: 5})

	_, err := g.Profile(context.Background(), "r1", "ghost")
	require.ErrorIs(t, err, apperr.ErrNotFound)
	require.Error(t, g.RecordRating(context.Background(), "livreur1", 5))

	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	assert.Equal(t, int64(0), ctr.Count())
}

func TestRetrying_GivesUpAfterMaxAttempts(t *testing.T) {
	t.Parallel()

	var calls int32
	next := &fakeDirectory{
		ratingFn: func(context.Context, string, float64) error {
			atomic.AddInt32(&calls, 1)
			return connLost()
		},
	}
	ctr := &counterStub{}
	g := NewRetrying(next, nil, ctr, RetryConfig{MaxAttempts: 3, BaseDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond})

	err := g.RecordRating(context.Background(), "livreur1", 5)
	var pgErr *pgconn.PgError
	require.True(t, errors.As(err, &pgErr))
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	assert.Equal(t, int64(2), ctr.Count())
}

func TestRetrying_StopsOnCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	var calls int32
	next := &fakeDirectory{
		profileFn: func(context.Context, string, string) (domain.CourierProfile, error) {
			atomic.AddInt32(&calls, 1)
			cancel()
			return domain.CourierProfile{}, connLost()
		},
	}
	g := NewRetrying(next, nil, nil, RetryConfig{MaxAttempts: 5, BaseDelay: time.Second, MaxDelay: time.Second})

	_, err := g.Profile(ctx, "r1", "livreur1")
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestBackoff(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 10*time.Millisecond, backoff(10*time.Millisecond, time.Second, 1))
	assert.Equal(t, 40*time.Millisecond, backoff(10*time.Millisecond, time.Second, 3))
	assert.Equal(t, 50*time.Millisecond, backoff(10*time.Millisecond, 50*time.Millisecond, 4))
	assert.Nil(t, NewRetrying(nil, nil, nil, RetryConfig{}))
}

func TestRetrying_AttemptTimeout(t *testing.T) {
	t.Parallel()

	var deadlines []bool
	next := &fakeDirectory{
		profileFn: func(ctx context.Context, _, _ string) (domain.CourierProfile, error) {
			_, ok := ctx.Deadline()
			deadlines = append(deadlines, ok)
			return domain.CourierProfile{CourierID: "livreur1"}, nil
		},
	}

	g := NewRetrying(next, nil, nil, RetryConfig{MaxAttempts: 1, Timeout: time.Second})
	_, err := g.Profile(context.Background(), "r1", "livreur1")
	require.NoError(t, err)

	g = NewRetrying(next, nil, nil, RetryConfig{MaxAttempts: 1})
	_, err = g.Profile(context.Background(), "r1", "livreur1")
	require.NoError(t, err)

	assert.Equal(t, []bool{true, false}, deadlines)
}
