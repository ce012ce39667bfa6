package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/multierr"

	"github.com/calebreyes/storefront-backend/api/routes"
	"github.com/calebreyes/storefront-backend/internal/inventory"
	"github.com/calebreyes/storefront-backend/internal/notifications"
	"github.com/calebreyes/storefront-backend/internal/orders"
	"github.com/calebreyes/storefront-backend/internal/payments"
	"github.com/calebreyes/storefront-backend/internal/promotions"
	"github.com/calebreyes/storefront-backend/internal/shipping"
	"github.com/calebreyes/storefront-backend/internal/taxes"
	stripewebhook "github.com/calebreyes/storefront-backend/internal/webhooks/stripe"
	"github.com/calebreyes/storefront-backend/pkg/config"
	"github.com/calebreyes/storefront-backend/pkg/db"
	"github.com/calebreyes/storefront-backend/pkg/logger"
	"github.com/calebreyes/storefront-backend/pkg/metrics"
	"github.com/calebreyes/storefront-backend/pkg/migrate"
	"github.com/calebreyes/storefront-backend/pkg/redis"
	stripeclient "github.com/calebreyes/storefront-backend/pkg/stripe"
)

const shutdownTimeout = 15 * time.Second

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

	stripeClient, err := stripeclient.NewClient(context.Background(), cfg.Stripe, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap stripe client", err)
		os.Exit(1)
	}

	deps, err := buildDependencies(cfg, logg, dbClient, redisClient, stripeClient)
	if err != nil {
		logg.Error(context.Background(), "failed to wire services", err)
		os.Exit(1)
	}

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
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, deps),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		serveErr := error(nil)
		shutdownErr := server.Shutdown(shutdownCtx)
		if err := <-errCh; err != nil && err != http.ErrServerClosed {
			serveErr = err
		}
		if combined := multierr.Combine(shutdownErr, serveErr); combined != nil {
			logg.Error(ctx, "shutdown finished with errors", combined)
		}
	}
}

func buildDependencies(
	cfg *config.Config,
	logg *logger.Logger,
	dbClient *db.Client,
	redisClient *redis.Client,
	stripeClient *stripeclient.Client,
) (routes.Dependencies, error) {
	gormDB := dbClient.DB()

	inventoryRepo := inventory.NewRepository(gormDB)
	inventorySvc, err := inventory.NewService(inventory.ServiceParams{
		Repo:              inventoryRepo,
		TransactionRunner: dbClient,
	})
	if err != nil {
		return routes.Dependencies{}, err
	}

	promotionsRepo := promotions.NewRepository(gormDB)
	promotionEngine, err := promotions.NewEngine(promotionsRepo)
	if err != nil {
		return routes.Dependencies{}, err
	}
	promotionSvc, err := promotions.NewService(promotionsRepo)
	if err != nil {
		return routes.Dependencies{}, err
	}

	taxCalculator, err := taxes.NewCalculator(taxes.NewRepository(gormDB))
	if err != nil {
		return routes.Dependencies{}, err
	}

	shippingSvc, err := shipping.NewService(shipping.NewRepository(gormDB))
	if err != nil {
		return routes.Dependencies{}, err
	}

	ordersRepo := orders.NewRepository(gormDB)
	ordersSvc, err := orders.NewService(orders.ServiceParams{
		Repo:              ordersRepo,
		TransactionRunner: dbClient,
		Stock:             inventorySvc,
		Locations:         inventoryRepo,
		Coupons:           promotionEngine,
		Taxes:             taxCalculator,
		Methods:           shippingSvc,
		ShippingPricer:    shipping.NewWeightBased(),
		Currency:          cfg.Checkout.Currency,
	})
	if err != nil {
		return routes.Dependencies{}, err
	}

	var sink notifications.Sink
	if cfg.Mail.EndpointURL != "" {
		mailSink, err := notifications.NewMailSink(cfg.Mail)
		if err != nil {
			return routes.Dependencies{}, err
		}
		sink = mailSink
	} else {
		sink = notifications.NewLogSink(logg)
	}
	notifier := notifications.NewDispatcher(sink, logg)

	paymentsSvc, err := payments.NewService(payments.ServiceParams{
		Orders:            ordersRepo,
		Payments:          payments.NewRepository(gormDB),
		TransactionRunner: dbClient,
		Gateway:           stripeClient,
		Seller:            inventorySvc,
		Notifier:          notifier,
		Checkout:          cfg.Checkout,
	})
	if err != nil {
		return routes.Dependencies{}, err
	}

	webhookGuard, err := stripewebhook.NewIdempotencyGuard(redisClient, cfg.Webhooks.IdempotencyTTL, "stripe_events")
	if err != nil {
		return routes.Dependencies{}, err
	}

	return routes.Dependencies{
		DB:           dbClient,
		Redis:        redisClient,
		Orders:       ordersSvc,
		Shipping:     shippingSvc,
		Inventory:    inventorySvc,
		Promotions:   promotionSvc,
		Payments:     paymentsSvc,
		StripeClient: stripeClient,
		WebhookGuard: webhookGuard,
		Metrics:      metrics.NewHTTPMetrics(),
	}, nil
}
