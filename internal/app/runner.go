package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/dig"

	"service-dispatch/internal/jobs"
	"service-dispatch/internal/logx"
	"service-dispatch/internal/notify"
	"service-dispatch/internal/service/dispatch"
	"service-dispatch/internal/service/kitchen"
	"service-dispatch/internal/transport/kafka"
)

const shutdownTimeout = 15 * time.Second

// Runner runs the application held by a container.
type Runner struct {
	runFn func(*dig.Container) error
	exit  func(int)
}

// NewRunner returns a runner that serves until the container context ends.
func NewRunner() *Runner {
	return &Runner{runFn: run, exit: os.Exit}
}

// MustRun starts the application using the provided DI container
func MustRun(container *dig.Container) {
	NewRunner().MustRun(container)
}

// MustRun runs the application and exits the process on a fatal error.
func (r *Runner) MustRun(container *dig.Container) {
	err := r.runFn(container)
	if err == nil {
		return
	}
	logger := loggerFrom(container)
	switch {
	case errors.Is(err, context.Canceled):
		logger.Info("shutdown requested, exiting")
	case errors.Is(err, context.DeadlineExceeded):
		logger.Warn("startup aborted: startup timeout exceeded")
	default:
		logger.Error("run error", logx.Err(err))
		if r.exit != nil {
			r.exit(1)
		}
	}
}

func loggerFrom(container *dig.Container) logx.Logger {
	logger := logx.Nop()
	_ = container.Invoke(func(l logx.Logger) { logger = l })
	return logger
}

type runDeps struct {
	dig.In

	Ctx         context.Context
	Logger      logx.Logger
	Server      *http.Server
	Pprof       *http.Server `name:"pprof_server" optional:"true"`
	Coordinator *dispatch.Coordinator
	Job         *jobs.ReconcileJob `optional:"true"`
	Kitchen     *kitchen.Kitchen   `optional:"true"`
	Consumer    *kafka.Consumer    `optional:"true"`
	Publisher   *notify.Kafka      `optional:"true"`
	Journal     *notify.Journal    `optional:"true"`
	Pool        *pgxpool.Pool      `optional:"true"`
}

func run(container *dig.Container) error {
	return container.Invoke(serve)
}

// serve starts every background worker and the HTTP server, waits for the
// context to end and stops them in reverse dependency order.
func serve(d runDeps) error {
	logger := d.Logger
	if d.Job != nil {
		if err := d.Job.Start(); err != nil {
			return err
		}
	}

	var journalWG sync.WaitGroup
	journalCtx, stopJournal := context.WithCancel(context.Background())
	defer stopJournal()
	if d.Journal != nil {
		journalWG.Add(1)
		go func() {
			defer journalWG.Done()
			_ = d.Journal.Run(journalCtx)
		}()
	}

	var consumerWG sync.WaitGroup
	consumerCtx, stopConsumer := context.WithCancel(d.Ctx)
	defer stopConsumer()
	if d.Consumer != nil {
		consumerWG.Add(1)
		go func() {
			defer consumerWG.Done()
			if err := d.Consumer.Run(consumerCtx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("kafka consumer stopped", logx.Err(err))
			}
		}()
	}

	if d.Pprof != nil {
		go func() {
			logger.Info("pprof listening", logx.String("addr", d.Pprof.Addr))
			if err := d.Pprof.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Warn("pprof listen error", logx.Err(err))
			}
		}()
	}

	serverErr := startServer(d.Server, logger)
	var runErr error
	select {
	case <-d.Ctx.Done():
		logger.Info("shutting down service-dispatch")
	case runErr = <-serverErr:
		logger.Error("listen error", logx.Err(runErr))
	}

	gracefulShutdown(d.Server, logger, shutdownTimeout)
	if d.Pprof != nil {
		gracefulShutdown(d.Pprof, logger, time.Second)
	}

	stopConsumer()
	consumerWG.Wait()
	if err := d.Consumer.Close(); err != nil {
		logger.Warn("kafka consumer close", logx.Err(err))
	}
	if d.Job != nil {
		d.Job.Stop()
	}
	if d.Kitchen != nil {
		d.Kitchen.Stop()
	}
	d.Coordinator.Stop()

	if err := d.Publisher.Close(); err != nil {
		logger.Warn("kafka publisher close", logx.Err(err))
	}
	stopJournal()
	journalWG.Wait()

	closeResources(d.Pool, d.Server, logger)
	_ = logger.Sync()
	return runErr
}

func startServer(server *http.Server, logger logx.Logger) <-chan error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("service-dispatch listening", logx.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	return errCh
}

func gracefulShutdown(srv *http.Server, logger logx.Logger, timeout time.Duration) {
	shCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shCtx); err != nil {
		logger.Warn("graceful shutdown error", logx.Err(err))
	}
}

func closeResources(pool *pgxpool.Pool, server *http.Server, logger logx.Logger) {
	if err := server.Close(); err != nil {
		logger.Warn("server close error", logx.Err(err))
	}
	if pool != nil {
		pool.Close()
	}
}
