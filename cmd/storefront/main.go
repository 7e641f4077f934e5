package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/primosportswear/storefront/api"
	"github.com/primosportswear/storefront/api/routes"
	"github.com/primosportswear/storefront/internal/backend"
	"github.com/primosportswear/storefront/internal/cart"
	"github.com/primosportswear/storefront/internal/checkout"
	"github.com/primosportswear/storefront/internal/designs"
	"github.com/primosportswear/storefront/internal/gateway"
	"github.com/primosportswear/storefront/internal/orders"
	"github.com/primosportswear/storefront/internal/session"
	"github.com/primosportswear/storefront/pkg/config"
	"github.com/primosportswear/storefront/pkg/logger"
	"github.com/primosportswear/storefront/pkg/metrics"
	"github.com/primosportswear/storefront/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "storefront"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "storefront",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}

	sessionStore, err := session.NewRedisStore(redisClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create session store", err)
		os.Exit(1)
	}

	backendClient, err := backend.NewClient(cfg.Backend)
	if err != nil {
		logg.Error(context.Background(), "failed to create backend client", err)
		os.Exit(1)
	}

	gatewayClient, err := gateway.NewClient(cfg.Gateway)
	if err != nil {
		logg.Error(context.Background(), "failed to create gateway client", err)
		os.Exit(1)
	}

	promRegistry := prometheus.NewRegistry()
	cartMetrics := metrics.NewCartPollMetrics(promRegistry)
	checkoutMetrics := metrics.NewCheckoutMetrics(promRegistry)

	cartRegistry, err := cart.NewRegistry(backendClient, cfg.Cart.PollInterval, cfg.Cart.PollEnabled, logg, cartMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart registry", err)
		os.Exit(1)
	}

	fulfillment, err := checkout.NewOrderFulfillment(backendClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create order fulfillment", err)
		os.Exit(1)
	}

	checkoutManager, err := checkout.NewManager(gatewayClient, fulfillment, cfg.Gateway.LinkDescription, logg, checkoutMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout manager", err)
		os.Exit(1)
	}

	designService, err := designs.NewService(backendClient, checkoutManager, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create design service", err)
		os.Exit(1)
	}

	orderService, err := orders.NewService(backendClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
		os.Exit(1)
	}

	handler := routes.NewRouter(routes.Deps{
		Config:        cfg,
		Logger:        logg,
		Redis:         redisClient,
		Sessions:      sessionStore,
		Backend:       backendClient,
		Carts:         cartRegistry,
		Checkouts:     checkoutManager,
		Designs:       designService,
		Orders:        orderService,
		PromGatherers: promRegistry,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	server := api.NewServer(addr, handler, cartRegistry, checkoutManager, redisClient, logg)

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting storefront server")

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "storefront server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down")
		if err := server.Close(context.Background()); err != nil {
			logg.Error(ctx, "shutdown finished with errors", err)
			os.Exit(1)
		}
	}
}
