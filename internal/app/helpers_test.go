package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	testlog "service-dispatch/internal/testutil"
)

func withStubNewPool(t *testing.T, stub func(context.Context, string, int32) (*pgxpool.Pool, error)) {
	t.Helper()
	orig := newPool
	newPool = stub
	t.Cleanup(func() { newPool = orig })
}

func TestConnectDbWithRetry_SuccessFirstAttempt(t *testing.T) {
	rec := testlog.New()
	wantPool := &pgxpool.Pool{}
	calls := 0

	withStubNewPool(t, func(_ context.Context, dsn string, maxConns int32) (*pgxpool.Pool, error) {
		calls++
		require.Equal(t, "postgres://stub", dsn)
		require.Equal(t, int32(7), maxConns)
		return wantPool, nil
	})

	pool, err := connectDbWithRetry(context.Background(), rec.Logger(), "postgres://stub", 7, 3, 10*time.Millisecond)
	require.NoError(t, err)
	require.Same(t, wantPool, pool)
	require.Equal(t, 1, calls)
	require.True(t, rec.Has("info", "db connected"))
}

func TestConnectDbWithRetry_ExhaustsRetries(t *testing.T) {
	rec := testlog.New()
	sentinelErr := errors.New("db boom")
	calls := 0

	withStubNewPool(t, func(context.Context, string, int32) (*pgxpool.Pool, error) {
		calls++
		return nil, sentinelErr
	})

	pool, err := connectDbWithRetry(context.Background(), rec.Logger(), "postgres://stub", 1, 3, 0)
	require.Error(t, err)
	require.Nil(t, pool)
	require.Equal(t, 3, calls)
	require.ErrorIs(t, err, sentinelErr)
	require.True(t, rec.Has("warn", "db connect failed"))
}

func TestConnectDbWithRetry_ContextCanceledBetweenRetries(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	withStubNewPool(t, func(context.Context, string, int32) (*pgxpool.Pool, error) {
		return nil, errors.New("db boom")
	})

	pool, err := connectDbWithRetry(ctx, testlog.New().Logger(), "postgres://stub", 1, 3, 50*time.Millisecond)
	require.Error(t, err)
	require.Nil(t, pool)
	require.ErrorIs(t, err, context.Canceled)
}
