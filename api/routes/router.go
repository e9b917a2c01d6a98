package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ovenandcrumb/bakeshop-backend/api/controllers"
	"github.com/ovenandcrumb/bakeshop-backend/api/middleware"
	"github.com/ovenandcrumb/bakeshop-backend/internal/admins"
	"github.com/ovenandcrumb/bakeshop-backend/internal/blackouts"
	"github.com/ovenandcrumb/bakeshop-backend/internal/items"
	"github.com/ovenandcrumb/bakeshop-backend/internal/orders"
	"github.com/ovenandcrumb/bakeshop-backend/pkg/config"
	"github.com/ovenandcrumb/bakeshop-backend/pkg/logger"
	"github.com/ovenandcrumb/bakeshop-backend/pkg/metrics"
	"github.com/ovenandcrumb/bakeshop-backend/pkg/redis"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Config *config.Config
	Logger *logger.Logger

	DB    controllers.Pinger
	Redis *redis.Client

	HTTPMetrics *metrics.HTTPMetrics
	Gatherer    prometheus.Gatherer

	Items     items.Service
	Orders    orders.Service
	Blackouts blackouts.Service
	Admins    admins.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	// A typed nil inside the interface would defeat the middleware's own
	// nil-store checks.
	var idemStore redis.IdempotencyStore
	var limiterStore interface {
		IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
	}
	var cachePinger controllers.Pinger
	if deps.Redis != nil {
		idemStore = deps.Redis
		limiterStore = deps.Redis
		cachePinger = deps.Redis
	}

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg, deps.HTTPMetrics),
		middleware.CORS(cfg.App.AllowedOrigins()),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, deps.DB, cachePinger, logg))
	})

	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	loginPolicy := middleware.NewLoginRateLimitPolicy(
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Idempotency(idemStore, logg))

		r.Get("/items", controllers.PublicListItems(deps.Items, logg))
		r.Get("/items/{id}", controllers.PublicGetItem(deps.Items, logg))
		r.Get("/blackouts", controllers.ListBlackouts(deps.Blackouts, logg))
		r.Post("/quotes", controllers.CreateQuote(deps.Orders, logg))
		r.Post("/orders", controllers.CreateOrder(deps.Orders, logg))
		r.Get("/orders/{id}", controllers.GetOrder(deps.Orders, logg))
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.With(middleware.LoginRateLimit(loginPolicy, limiterStore, logg)).
			Post("/auth/login", controllers.AdminLogin(deps.Admins, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.Use(middleware.Idempotency(idemStore, logg))

			r.Get("/me", controllers.AdminMe(deps.Admins, logg))

			r.Route("/items", func(r chi.Router) {
				r.Get("/", controllers.AdminListItems(deps.Items, logg))
				r.Post("/", controllers.AdminCreateItem(deps.Items, logg))
				r.Put("/{id}", controllers.AdminUpdateItem(deps.Items, logg))
				r.Delete("/{id}", controllers.AdminDeleteItem(deps.Items, logg))
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.AdminListOrders(deps.Orders, logg))
				r.Get("/{id}", controllers.GetOrder(deps.Orders, logg))
				r.Post("/{id}/status", controllers.AdminTransitionOrderStatus(deps.Orders, logg))
			})

			r.Route("/blackouts", func(r chi.Router) {
				r.Get("/", controllers.ListBlackouts(deps.Blackouts, logg))
				r.Post("/", controllers.AdminAddBlackout(deps.Blackouts, logg))
				r.Delete("/{id}", controllers.AdminRemoveBlackout(deps.Blackouts, logg))
			})
		})
	})

	return r
}
