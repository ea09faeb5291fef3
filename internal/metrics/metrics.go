package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"service-dispatch/internal/domain"
)

// NewRateLimitExceededTotal returns a Prometheus counter for the number of rejected HTTP requests due to rate limiting
func NewRateLimitExceededTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rate_limit_exceeded_total",
		Help: "Total number of rejected HTTP requests due to rate limiting",
	})
}

// NewGatewayRetriesTotal returns a Prometheus counter for the number of retry attempts performed by gateways
func NewGatewayRetriesTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "gateway_retries_total",
		Help: "Total number of retry attempts performed by gateways",
	})
}

// NewNotificationsTotal counts notifications handed to the publisher, by event and result.
func NewNotificationsTotal() *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dispatch_notifications_total",
		Help: "Notifications handed to the publisher by event and result",
	}, []string{"event", "result"})
}

// Dispatch collects coordinator outcomes.
type Dispatch struct {
	ordersPlaced   prometheus.Counter
	windowsExpired *prometheus.CounterVec
	offersRejected *prometheus.CounterVec
	assignments    *prometheus.CounterVec
	delivered      prometheus.Counter
	failed         prometheus.Counter
}

// NewDispatch builds the dispatch collectors. Register them with Collectors.
func NewDispatch() *Dispatch {
	return &Dispatch{
		ordersPlaced: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dispatch_orders_placed_total",
			Help: "Orders accepted by the coordinator",
		}),
		windowsExpired: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dispatch_windows_expired_total",
			Help: "Decision windows that ran to expiry, by phase",
		}, []string{"phase"}),
		offersRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dispatch_offers_rejected_total",
			Help: "Courier offers rejected, by reason",
		}, []string{"reason"}),
		assignments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dispatch_assignments_total",
			Help: "Orders assigned to a courier, by mode",
		}, []string{"mode"}),
		delivered: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dispatch_orders_delivered_total",
			Help: "Orders delivered",
		}),
		failed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dispatch_orders_failed_total",
			Help: "Orders that ended without a courier",
		}),
	}
}

// Collectors returns every collector for registration.
func (d *Dispatch) Collectors() []prometheus.Collector {
	return []prometheus.Collector{d.ordersPlaced, d.windowsExpired, d.offersRejected, d.assignments, d.delivered, d.failed}
}

func (d *Dispatch) OrderPlaced() { d.ordersPlaced.Inc() }

func (d *Dispatch) WindowExpired(phase domain.Phase) {
	d.windowsExpired.WithLabelValues(string(phase)).Inc()
}

func (d *Dispatch) OfferRejected(reason string) { d.offersRejected.WithLabelValues(reason).Inc() }

func (d *Dispatch) Assigned(auto bool) {
	mode := "manual"
	if auto {
		mode = "auto"
	}
	d.assignments.WithLabelValues(mode).Inc()
}

func (d *Dispatch) Delivered() { d.delivered.Inc() }

func (d *Dispatch) Failed() { d.failed.Inc() }

// HTTP holds request metrics labelled by route pattern.
type HTTP struct {
	Requests *prometheus.CounterVec
	Duration *prometheus.HistogramVec
}

// NewHTTP builds the HTTP collectors.
func NewHTTP() *HTTP {
	return &HTTP{
		Requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
	}
}

// Collectors returns every collector for registration.
func (h *HTTP) Collectors() []prometheus.Collector {
	return []prometheus.Collector{h.Requests, h.Duration}
}
