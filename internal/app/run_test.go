package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/dig"

	"service-dispatch/internal/config"
	"service-dispatch/internal/gateway/couriers"
	"service-dispatch/internal/jobs"
	"service-dispatch/internal/logx"
	"service-dispatch/internal/service/dispatch"
	"service-dispatch/internal/service/kitchen"
	"service-dispatch/internal/service/registry"
	"service-dispatch/internal/service/window"
	testlog "service-dispatch/internal/testutil"
	"service-dispatch/internal/testutil/notifyrec"
)

func containerWithLogger(t *testing.T, rec *testlog.Recorder) *dig.Container {
	t.Helper()
	c := dig.New()
	require.NoError(t, c.Provide(func() logx.Logger { return rec.Logger() }))
	return c
}

func TestMustRun_ShutdownRequested(t *testing.T) {
	t.Parallel()

	rec := testlog.New()
	r := &Runner{runFn: func(*dig.Container) error { return context.Canceled }}
	r.MustRun(containerWithLogger(t, rec))
	require.True(t, rec.Has("info", "shutdown requested, exiting"))
}

func TestRunner_MustRun_StartupTimeout(t *testing.T) {
	t.Parallel()

	rec := testlog.New()
	r := &Runner{runFn: func(*dig.Container) error { return context.DeadlineExceeded }}
	r.MustRun(containerWithLogger(t, rec))
	require.True(t, rec.Has("warn", "startup aborted: startup timeout exceeded"))
}

func TestRunner_MustRun_FatalExits(t *testing.T) {
	t.Parallel()

	rec := testlog.New()
	code := -1
	r := &Runner{
		runFn: func(*dig.Container) error { return errors.New("boom") },
		exit:  func(c int) { code = c },
	}
	r.MustRun(containerWithLogger(t, rec))
	require.Equal(t, 1, code)
	require.True(t, rec.Has("error", "run error"))
}

func TestRunner_MustRun_NoLoggerFallsBackToNop(t *testing.T) {
	t.Parallel()

	r := &Runner{runFn: func(*dig.Container) error { return context.Canceled }}
	require.NotPanics(t, func() { r.MustRun(dig.New()) })
}

func TestNewRunner_DefaultFields(t *testing.T) {
	t.Parallel()

	r := NewRunner()
	require.NotNil(t, r)
	require.NotNil(t, r.runFn)
	require.NotNil(t, r.exit)
	require.Equal(t, fmt.Sprintf("%p", run), fmt.Sprintf("%p", r.runFn))
}

func TestGracefulShutdown_DoesNotPanic(t *testing.T) {
	t.Parallel()

	srv := &http.Server{Addr: "127.0.0.1:0", Handler: http.NewServeMux()}
	require.NotPanics(t, func() {
		gracefulShutdown(srv, logx.Nop(), 100*time.Millisecond)
	})
}

func newTestCoordinator(t *testing.T) *dispatch.Coordinator {
	t.Helper()
	cs, err := couriers.ParseCouriers(config.Default().Seed.Couriers)
	require.NoError(t, err)
	c, err := dispatch.New(
		dispatch.DefaultConfig(),
		registry.New(),
		window.NewScheduler(window.RealClock{}),
		couriers.NewStatic(cs, nil),
		notifyrec.New(),
	)
	require.NoError(t, err)
	return c
}

func TestRun_ServesUntilContextDone(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	rec := testlog.New()
	coord := newTestCoordinator(t)

	container := dig.New()
	require.NoError(t, container.Provide(func() context.Context { return ctx }))
	require.NoError(t, container.Provide(func() logx.Logger { return rec.Logger() }))
	require.NoError(t, container.Provide(func() *dispatch.Coordinator { return coord }))
	require.NoError(t, container.Provide(func() *kitchen.Kitchen { return kitchen.New(time.Minute) }))
	require.NoError(t, container.Provide(func() *jobs.ReconcileJob {
		return jobs.NewReconcileJob(coord, "", rec.Logger())
	}))
	require.NoError(t, container.Provide(func() *http.Server {
		return &http.Server{Addr: "127.0.0.1:0", Handler: http.NewServeMux()}
	}))

	done := make(chan error, 1)
	go func() { done <- run(container) }()

	require.Eventually(t, func() bool {
		return rec.Has("info", "service-dispatch listening")
	}, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("run did not return after cancel")
	}
	require.True(t, rec.Has("info", "shutting down service-dispatch"))
	require.True(t, rec.Has("info", "reconcile job stopped"))
}

func TestRun_ListenErrorIsReturned(t *testing.T) {
	t.Parallel()

	rec := testlog.New()
	coord := newTestCoordinator(t)

	container := dig.New()
	require.NoError(t, container.Provide(func() context.Context { return context.Background() }))
	require.NoError(t, container.Provide(func() logx.Logger { return rec.Logger() }))
	require.NoError(t, container.Provide(func() *dispatch.Coordinator { return coord }))
	require.NoError(t, container.Provide(func() *http.Server {
		return &http.Server{Addr: "bad-address", Handler: http.NewServeMux()}
	}))

	err := run(container)
	require.Error(t, err)
	require.True(t, rec.Has("error", "listen error"))
}
