package app

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/dig"

	"service-dispatch/internal/metrics"
)

type metricsOut struct {
	dig.Out

	RateLimitExceededTotal prometheus.Counter     `name:"rate_limit_exceeded_total"`
	GatewayRetriesTotal    prometheus.Counter     `name:"gateway_retries_total"`
	NotificationsTotal     *prometheus.CounterVec `name:"dispatch_notifications_total"`
	Dispatch               *metrics.Dispatch
	HTTP                   *metrics.HTTP
	Handler                http.Handler `name:"metrics"`
}

func registerMetrics(container *dig.Container) error {
	return provideAll(container, provideMetrics)
}

// provideMetrics registers every collector with the default registerer.
// Collectors that are already registered are reused.
func provideMetrics() (metricsOut, error) {
	reg := prometheus.DefaultRegisterer

	rl, err := registerCounter(reg, metrics.NewRateLimitExceededTotal(), "rate_limit_exceeded_total")
	if err != nil {
		return metricsOut{}, err
	}
	gr, err := registerCounter(reg, metrics.NewGatewayRetriesTotal(), "gateway_retries_total")
	if err != nil {
		return metricsOut{}, err
	}
	notifications := metrics.NewNotificationsTotal()
	if err := reg.Register(notifications); err != nil {
		var are prometheus.AlreadyRegisteredError
		if !errors.As(err, &are) {
			return metricsOut{}, fmt.Errorf("register dispatch_notifications_total: %w", err)
		}
		existing, ok := are.ExistingCollector.(*prometheus.CounterVec)
		if !ok {
			return metricsOut{}, fmt.Errorf("register dispatch_notifications_total: %w", err)
		}
		notifications = existing
	}

	d := metrics.NewDispatch()
	if err := registerAll(reg, "dispatch", d.Collectors()); err != nil {
		return metricsOut{}, err
	}
	h := metrics.NewHTTP()
	if err := registerAll(reg, "http", h.Collectors()); err != nil {
		return metricsOut{}, err
	}

	return metricsOut{
		RateLimitExceededTotal: rl,
		GatewayRetriesTotal:    gr,
		NotificationsTotal:     notifications,
		Dispatch:               d,
		HTTP:                   h,
		Handler:                promhttp.Handler(),
	}, nil
}

func registerCounter(reg prometheus.Registerer, c prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
		}
		return nil, fmt.Errorf("register %s: %w", name, err)
	}
	return c, nil
}

func registerAll(reg prometheus.Registerer, group string, cs []prometheus.Collector) error {
	for _, c := range cs {
		if err := reg.Register(c); err != nil {
			return fmt.Errorf("register %s metrics: %w", group, err)
		}
	}
	return nil
}
