package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/primosportswear/storefront/api/controllers"
	"github.com/primosportswear/storefront/api/middleware"
	"github.com/primosportswear/storefront/internal/backend"
	"github.com/primosportswear/storefront/internal/cart"
	"github.com/primosportswear/storefront/internal/checkout"
	"github.com/primosportswear/storefront/internal/designs"
	"github.com/primosportswear/storefront/internal/orders"
	"github.com/primosportswear/storefront/internal/session"
	"github.com/primosportswear/storefront/pkg/config"
	"github.com/primosportswear/storefront/pkg/logger"
	"github.com/primosportswear/storefront/pkg/redis"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Config        *config.Config
	Logger        *logger.Logger
	Redis         *redis.Client
	Sessions      session.Store
	Backend       *backend.Client
	Carts         *cart.Registry
	Checkouts     *checkout.Manager
	Designs       *designs.Service
	Orders        *orders.Service
	PromGatherers prometheus.Gatherer
}

func NewRouter(d Deps) http.Handler {
	cfg := d.Config
	logg := d.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	var redisPinger redis.Pinger
	if d.Redis != nil {
		redisPinger = d.Redis
	}
	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, redisPinger))
	})

	if d.PromGatherers != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(d.PromGatherers, promhttp.HandlerOpts{}))
	}

	// Provider redirects land here without a bearer token; the session ID in
	// the path is the only credential.
	r.Get("/checkout/return/{sessionId}/*", controllers.CheckoutReturn(d.Checkouts, logg))

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/session", controllers.SessionStart(d.Sessions, cfg.Session.TTL, logg))
		r.Get("/products", controllers.Products(d.Backend, logg))

		r.Route("/password", func(r chi.Router) {
			r.Post("/forgot", controllers.PasswordForgot(d.Backend, logg))
			r.Post("/verify-otp", controllers.PasswordVerifyOTP(d.Backend, logg))
			r.Post("/reset", controllers.PasswordReset(d.Backend, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(d.Sessions, logg))

			r.Delete("/session", controllers.SessionEnd(d.Sessions, d.Carts, logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartView(d.Carts, logg))
				r.Post("/", controllers.CartAdd(d.Carts, d.Backend, logg))
				r.Post("/refresh", controllers.CartRefresh(d.Carts, logg))
				r.Delete("/{productId}", controllers.CartRemove(d.Carts, logg))
			})

			r.Route("/checkout", func(r chi.Router) {
				r.Post("/", controllers.CheckoutBegin(d.Carts, d.Backend, d.Checkouts, cfg.Checkout.ReturnBaseURL, logg))
				r.Get("/", controllers.CheckoutStatus(d.Checkouts, logg))
				r.Post("/events", controllers.CheckoutEvent(d.Checkouts, logg))
				r.Post("/cancel", controllers.CheckoutCancel(d.Checkouts, logg))
			})

			r.Route("/designs", func(r chi.Router) {
				r.Get("/", controllers.DesignList(d.Designs, logg))
				r.Post("/", controllers.DesignSubmit(d.Designs, cfg.Checkout.ReturnBaseURL, logg))
			})

			r.Get("/orders", controllers.OrdersList(d.Orders, logg))
		})
	})

	return r
}
