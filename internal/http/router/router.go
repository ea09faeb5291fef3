package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/dig"

	"service-dispatch/internal/http/handlers"
	obs "service-dispatch/internal/http/middleware"
	"service-dispatch/internal/http/middleware/ratelimit"
	"service-dispatch/internal/logx"
	"service-dispatch/internal/metrics"
)

// Params are the router dependencies. Optional ones may be nil.
type Params struct {
	dig.In

	Base      *handlers.Handlers
	Orders    *handlers.OrderHandler
	Menus     *handlers.MenuHandler
	Couriers  *handlers.CourierHandler `optional:"true"`
	History   *handlers.HistoryHandler `optional:"true"`
	Logger    logx.Logger
	HTTP      *metrics.HTTP         `optional:"true"`
	RateLimit *ratelimit.Middleware `optional:"true"`
	Metrics   http.Handler          `name:"metrics" optional:"true"`
}

// New constructs a chi-based http.Handler with base middleware and routes.
func New(p Params) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(obs.Observability(p.Logger, p.HTTP))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(5 * time.Second))

	r.Get("/ping", p.Base.Ping)
	r.Method(http.MethodHead, "/healthcheck", http.HandlerFunc(p.Base.HealthcheckHead))
	if p.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", p.Metrics)
	}

	r.Group(func(r chi.Router) {
		if p.RateLimit != nil {
			r.Use(p.RateLimit.Handler())
		}

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", p.Orders.Place)
			r.Get("/", p.Orders.List)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", p.Orders.Get)
				r.Get("/candidates", p.Orders.Candidates)
				r.Post("/ready", p.Orders.Ready)
				r.Post("/accept", p.Orders.Accept)
				r.Post("/assign", p.Orders.Assign)
				r.Post("/pickup", p.Orders.Pickup)
				r.Post("/delivered", p.Orders.Delivered)
				r.Post("/rating", p.Orders.Rate)
				if p.History != nil {
					r.Get("/history", p.History.Get)
				}
			})
		})

		r.Route("/restaurants/{id}/menu", func(r chi.Router) {
			r.Get("/", p.Menus.Get)
			r.Post("/", p.Menus.AddItem)
		})

		r.Get("/couriers/{id}/interests", p.Orders.Interests)
		if p.Couriers != nil {
			r.Post("/couriers", p.Couriers.Register)
			r.Put("/couriers/{id}/position", p.Couriers.Position)
		}
	})

	r.NotFound(http.HandlerFunc(p.Base.NotFound))

	return r
}
