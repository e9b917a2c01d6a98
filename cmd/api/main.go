package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/ovenandcrumb/bakeshop-backend/api/routes"
	"github.com/ovenandcrumb/bakeshop-backend/internal/admins"
	"github.com/ovenandcrumb/bakeshop-backend/internal/blackouts"
	"github.com/ovenandcrumb/bakeshop-backend/internal/delivery"
	"github.com/ovenandcrumb/bakeshop-backend/internal/items"
	"github.com/ovenandcrumb/bakeshop-backend/internal/notify"
	"github.com/ovenandcrumb/bakeshop-backend/internal/orders"
	"github.com/ovenandcrumb/bakeshop-backend/internal/payments"
	"github.com/ovenandcrumb/bakeshop-backend/internal/pricing"
	"github.com/ovenandcrumb/bakeshop-backend/internal/scheduling"
	"github.com/ovenandcrumb/bakeshop-backend/pkg/config"
	"github.com/ovenandcrumb/bakeshop-backend/pkg/db"
	"github.com/ovenandcrumb/bakeshop-backend/pkg/logger"
	"github.com/ovenandcrumb/bakeshop-backend/pkg/mail"
	"github.com/ovenandcrumb/bakeshop-backend/pkg/maps"
	"github.com/ovenandcrumb/bakeshop-backend/pkg/metrics"
	"github.com/ovenandcrumb/bakeshop-backend/pkg/migrate"
	"github.com/ovenandcrumb/bakeshop-backend/pkg/redis"
	"github.com/ovenandcrumb/bakeshop-backend/pkg/stripe"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	stripeClient, err := stripe.NewClient(context.Background(), cfg.Stripe, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap stripe", err)
		os.Exit(1)
	}

	mapsClient, err := maps.NewClient(cfg.GoogleMaps.APIKey)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap geocoding", err)
		os.Exit(1)
	}

	mailClient, err := mail.NewClient(cfg.Mailjet)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap mail", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)
	orderMetrics := metrics.NewOrderMetrics(registry)

	pricingEngine, err := pricing.NewEngine(cfg.Tax, cfg.Delivery)
	if err != nil {
		logg.Error(context.Background(), "failed to build pricing engine", err)
		os.Exit(1)
	}

	deliveryValidator, err := delivery.NewValidator(cfg.Delivery)
	if err != nil {
		logg.Error(context.Background(), "failed to build delivery validator", err)
		os.Exit(1)
	}

	blackoutRepo := blackouts.NewRepository(dbClient.DB())
	scheduler, err := scheduling.NewValidator(cfg.Orders, blackoutRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to build scheduling validator", err)
		os.Exit(1)
	}

	gateway, err := payments.NewGateway(payments.NewIntentClient(stripeClient), logg, cfg.Stripe, cfg.Orders)
	if err != nil {
		logg.Error(context.Background(), "failed to build payment gateway", err)
		os.Exit(1)
	}

	notifier, err := notify.NewNotifier(mailClient, cfg.Mailjet, cfg.Orders)
	if err != nil {
		logg.Error(context.Background(), "failed to build notifier", err)
		os.Exit(1)
	}

	itemRepo := items.NewRepository(dbClient.DB())
	itemService, err := items.NewService(itemRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create items service", err)
		os.Exit(1)
	}

	orderService, err := orders.NewService(orders.ServiceDeps{
		Repo:      orders.NewRepository(dbClient.DB()),
		Catalog:   itemRepo,
		Engine:    pricingEngine,
		Delivery:  deliveryValidator,
		Scheduler: scheduler,
		Gateway:   gateway,
		Resolver:  mapsClient,
		Notifier:  notifier,
		Tx:        dbClient,
		Logger:    logg,
		Metrics:   orderMetrics,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	blackoutService, err := blackouts.NewService(blackoutRepo, cfg.Orders.Timezone)
	if err != nil {
		logg.Error(context.Background(), "failed to create blackouts service", err)
		os.Exit(1)
	}

	adminService, err := admins.NewService(admins.NewRepository(dbClient.DB()), cfg.JWT, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create admins service", err)
		os.Exit(1)
	}

	router := routes.NewRouter(routes.Deps{
		Config:      cfg,
		Logger:      logg,
		DB:          dbClient,
		Redis:       redisClient,
		HTTPMetrics: httpMetrics,
		Gatherer:    registry,
		Items:       itemService,
		Orders:      orderService,
		Blackouts:   blackoutService,
		Admins:      adminService,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	shutdownCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-shutdownCtx.Done():
		logg.Info(ctx, "shutting down api server")
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(timeoutCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}
}
