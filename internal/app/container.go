package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/dig"

	"service-dispatch/internal/config"
	"service-dispatch/internal/domain"
	"service-dispatch/internal/gateway/couriers"
	"service-dispatch/internal/http/handlers"
	"service-dispatch/internal/http/pprofserver"
	"service-dispatch/internal/http/router"
	"service-dispatch/internal/jobs"
	"service-dispatch/internal/logx"
	"service-dispatch/internal/metrics"
	"service-dispatch/internal/notify"
	"service-dispatch/internal/repository"
	"service-dispatch/internal/service/dispatch"
	"service-dispatch/internal/service/kitchen"
	"service-dispatch/internal/service/menu"
	"service-dispatch/internal/service/orders"
	"service-dispatch/internal/service/registry"
	"service-dispatch/internal/service/scoring"
	"service-dispatch/internal/service/window"
	"service-dispatch/internal/transport/kafka"
)

// DBConnectFunc opens the Postgres pool.
type DBConnectFunc func(ctx context.Context, logger logx.Logger, cfg config.DB) (*pgxpool.Pool, error)

// ContainerBuilder is a dig container builder.
type ContainerBuilder struct {
	dbConnect  DBConnectFunc
	loadConfig func() (*config.Config, error)
	logFatalf  func(string, ...interface{})
}

// NewContainerBuilder returns a new dig container builder
func NewContainerBuilder() *ContainerBuilder {
	return &ContainerBuilder{
		dbConnect: func(ctx context.Context, logger logx.Logger, cfg config.DB) (*pgxpool.Pool, error) {
			return connectDbWithRetry(ctx, logger, cfg.DSN, cfg.MaxConns, 10, time.Second)
		},
		loadConfig: config.Load,
		logFatalf:  log.Fatalf,
	}
}

// WithDBConnect sets the database connection function
func (b *ContainerBuilder) WithDBConnect(fn DBConnectFunc) *ContainerBuilder {
	if fn != nil {
		b.dbConnect = fn
	}
	return b
}

// WithConfig replaces config loading, mostly for tests.
func (b *ContainerBuilder) WithConfig(fn func() (*config.Config, error)) *ContainerBuilder {
	if fn != nil {
		b.loadConfig = fn
	}
	return b
}

// WithLogFatalf sets the log.Fatalf function
func (b *ContainerBuilder) WithLogFatalf(fn func(string, ...interface{})) *ContainerBuilder {
	if fn != nil {
		b.logFatalf = fn
	}
	return b
}

// MustBuild builds and returns a new dig container
func (b *ContainerBuilder) MustBuild(ctx context.Context) *dig.Container {
	container, err := b.build(ctx)
	if err != nil {
		b.logFatalf("failed to build container: %v", err)
	}
	return container
}

func (b *ContainerBuilder) build(ctx context.Context) (*dig.Container, error) {
	container := dig.New()

	if err := registerCore(container, ctx, b.loadConfig); err != nil {
		return nil, fmt.Errorf("core: %w", err)
	}
	if err := registerMetrics(container); err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}
	if err := registerDb(container, b.dbConnect); err != nil {
		return nil, fmt.Errorf("DB: %w", err)
	}
	if err := registerDispatch(container); err != nil {
		return nil, fmt.Errorf("dispatch: %w", err)
	}
	if err := registerTransport(container); err != nil {
		return nil, fmt.Errorf("transport: %w", err)
	}
	if err := registerHTTP(container); err != nil {
		return nil, fmt.Errorf("http: %w", err)
	}
	return container, nil
}

// MustBuildContainer builds and returns a new dig container
func MustBuildContainer(ctx context.Context) *dig.Container {
	return NewContainerBuilder().MustBuild(ctx)
}

func provideAll(container *dig.Container, providers ...any) error {
	for _, provider := range providers {
		if err := container.Provide(provider); err != nil {
			return fmt.Errorf("provide %T: %w", provider, err)
		}
	}
	return nil
}

func registerCore(container *dig.Container, ctx context.Context, loadConfig func() (*config.Config, error)) error {
	return provideAll(container,
		func() context.Context { return ctx },
		loadConfig,
		NewLogger,
	)
}

func registerDb(container *dig.Container, dbConnect DBConnectFunc) error {
	providerDB := func(ctx context.Context, cfg *config.Config, logger logx.Logger) (*pgxpool.Pool, error) {
		if strings.TrimSpace(cfg.DB.DSN) == "" {
			logger.Info("no database configured, courier directory stays in memory")
			return nil, nil
		}
		pool, err := dbConnect(ctx, logger, cfg.DB)
		if err != nil {
			return nil, err
		}
		if err := repository.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		return pool, nil
	}
	return provideAll(container,
		providerDB,
		func(pool *pgxpool.Pool) *repository.CourierRepo {
			if pool == nil {
				return nil
			}
			return repository.NewCourierRepo(pool)
		},
		func(pool *pgxpool.Pool) *repository.JournalRepo {
			if pool == nil {
				return nil
			}
			return repository.NewJournalRepo(pool)
		},
	)
}

// dispatchConfig maps the flat settings onto the coordinator config.
func dispatchConfig(cfg config.Dispatch) dispatch.Config {
	return dispatch.Config{
		AcceptanceWindow: cfg.AcceptanceWindow,
		DecisionWindow:   cfg.DecisionWindow,
		Weights:          scoring.Weights{Score: cfg.WeightScore, Distance: cfg.WeightDistance},
		EmptyPool:        dispatch.EmptyPoolPolicy(strings.ToLower(cfg.EmptyPoolPolicy)),
		MaxReopens:       cfg.MaxReopens,
		EarlyCloseAt:     cfg.EarlyCloseAt,
		NotifyTimeout:    cfg.NotifyTimeout,
	}
}

type directoryIn struct {
	dig.In

	Ctx     context.Context
	Config  *config.Config
	Logger  logx.Logger
	Repo    *repository.CourierRepo
	Retries prometheus.Counter `name:"gateway_retries_total"`
}

type directoryOut struct {
	dig.Out

	Directory dispatch.CourierDirectory
	Locator   handlers.CourierLocator
}

// provideDirectory returns the Postgres backed directory when a database is
// configured and the seeded in-memory one otherwise.
func provideDirectory(in directoryIn) (directoryOut, error) {
	cs, err := couriers.ParseCouriers(in.Config.Seed.Couriers)
	if err != nil {
		return directoryOut{}, fmt.Errorf("seed couriers: %w", err)
	}
	rs, err := couriers.ParseRestaurants(in.Config.Seed.Restaurants)
	if err != nil {
		return directoryOut{}, fmt.Errorf("seed restaurants: %w", err)
	}

	if in.Repo == nil {
		static := couriers.NewStatic(cs, rs)
		return directoryOut{Directory: static, Locator: static}, nil
	}

	if err := seedDirectory(in.Ctx, in.Repo, cs, rs); err != nil {
		return directoryOut{}, err
	}
	stored := couriers.NewStored(in.Repo)
	d := in.Config.Directory
	retrying := couriers.NewRetrying(stored, in.Logger, in.Retries, couriers.RetryConfig{
		MaxAttempts: d.MaxAttempts,
		BaseDelay:   d.BaseDelay,
		MaxDelay:    d.MaxDelay,
		Timeout:     d.Timeout,
	})
	return directoryOut{Directory: retrying, Locator: stored}, nil
}

func seedDirectory(ctx context.Context, repo *repository.CourierRepo, cs []domain.Courier, rs []domain.Restaurant) error {
	if len(cs) == 0 && len(rs) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := repo.Seed(ctx, cs, rs); err != nil {
		return fmt.Errorf("seed directory: %w", err)
	}
	return nil
}

type notifierIn struct {
	dig.In

	Logger    logx.Logger
	Publisher *notify.Kafka
	Journal   *notify.Journal
	Kitchen   *kitchen.Kitchen
}

// provideNotifier fans every notification out to the log, the broker, the
// order journal and the kitchen. Missing sinks are skipped.
func provideNotifier(in notifierIn) dispatch.Notifier {
	fan := notify.Fanout{notify.NewLog(in.Logger)}
	if in.Publisher != nil {
		fan = append(fan, in.Publisher)
	}
	if in.Journal != nil {
		fan = append(fan, in.Journal)
	}
	if in.Kitchen != nil {
		fan = append(fan, in.Kitchen)
	}
	return fan
}

type publisherIn struct {
	dig.In

	Config  *config.Config
	Logger  logx.Logger
	Results *prometheus.CounterVec `name:"dispatch_notifications_total"`
}

func providePublisher(in publisherIn) (*notify.Kafka, error) {
	k := in.Config.Kafka
	return notify.NewKafka(in.Logger, k.Brokers, k.NotificationsTopic, in.Results)
}

type coordinatorIn struct {
	dig.In

	Config    *config.Config
	Logger    logx.Logger
	Orders    *registry.Registry
	Windows   *window.Scheduler
	Directory dispatch.CourierDirectory
	Notifier  dispatch.Notifier
	Menus     *menu.Catalog
	Observer  *metrics.Dispatch
	Kitchen   *kitchen.Kitchen
}

func provideCoordinator(in coordinatorIn) (*dispatch.Coordinator, error) {
	c, err := dispatch.New(
		dispatchConfig(in.Config.Dispatch),
		in.Orders,
		in.Windows,
		in.Directory,
		in.Notifier,
		dispatch.WithMenus(in.Menus),
		dispatch.WithObserver(in.Observer),
		dispatch.WithLogger(in.Logger.With(logx.String("component", "dispatch"))),
	)
	if err != nil {
		return nil, err
	}
	if in.Kitchen != nil {
		in.Kitchen.Attach(c)
	}
	return c, nil
}

func registerDispatch(container *dig.Container) error {
	return provideAll(container,
		provideDirectory,
		func() *registry.Registry { return registry.New() },
		func() *window.Scheduler { return window.NewScheduler(window.RealClock{}) },
		func(cfg *config.Config, logger logx.Logger) *kitchen.Kitchen {
			if cfg.Kitchen.Delay <= 0 {
				return nil
			}
			return kitchen.New(cfg.Kitchen.Delay, kitchen.WithLogger(logger.With(logx.String("component", "kitchen"))))
		},
		func(repo *repository.JournalRepo, logger logx.Logger) *notify.Journal {
			if repo == nil {
				return nil
			}
			return notify.NewJournal(repo, logger, 0, 0)
		},
		providePublisher,
		provideNotifier,
		func(n dispatch.Notifier, logger logx.Logger) *menu.Catalog {
			return menu.NewCatalog(n, logger)
		},
		provideCoordinator,
		func(c *dispatch.Coordinator, cfg *config.Config, logger logx.Logger) *jobs.ReconcileJob {
			return jobs.NewReconcileJob(c, cfg.Dispatch.ReconcileSchedule, logger)
		},
	)
}

func registerTransport(container *dig.Container) error {
	return provideAll(container,
		func(c *dispatch.Coordinator, logger logx.Logger) *orders.Processor {
			return orders.NewProcessor(c, logger)
		},
		func(cfg *config.Config, logger logx.Logger, p *orders.Processor) (*kafka.Consumer, error) {
			k := cfg.Kafka
			return kafka.NewConsumer(logger, k.Brokers, k.GroupID, k.OrdersTopic, p.Handle)
		},
	)
}

type pprofOut struct {
	dig.Out

	Server *http.Server `name:"pprof_server"`
}

func registerHTTP(container *dig.Container) error {
	serverProvider := func(cfg *config.Config, mux http.Handler) *http.Server {
		return &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
		}
	}
	pprofProvider := func(cfg *config.Config) pprofOut {
		p := cfg.Pprof
		if !p.Enabled {
			return pprofOut{}
		}
		return pprofOut{Server: &http.Server{
			Addr:              p.Addr,
			Handler:           pprofserver.Handler(pprofserver.Config{User: p.User, Pass: p.Pass}),
			ReadHeaderTimeout: 5 * time.Second,
		}}
	}
	return provideAll(container,
		pprofProvider,
		newRateLimitClock,
		newRateLimiter,
		newRateLimitMiddleware,
		handlers.New,
		handlers.NewDispatchUsecase,
		handlers.NewOrderHandler,
		handlers.NewMenuUsecase,
		handlers.NewMenuHandler,
		handlers.NewCourierHandler,
		handlers.NewJournalReader,
		handlers.NewHistoryHandler,
		router.New,
		serverProvider,
	)
}
