package api

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/multierr"

	"github.com/primosportswear/storefront/internal/cart"
	"github.com/primosportswear/storefront/internal/checkout"
	"github.com/primosportswear/storefront/pkg/logger"
	"github.com/primosportswear/storefront/pkg/redis"
)

const shutdownGrace = 10 * time.Second

// Server owns the HTTP listener plus the background pieces that must stop
// with it: cart pollers, open checkouts, and the redis connection.
type Server struct {
	httpServer *http.Server
	carts      *cart.Registry
	checkouts  *checkout.Manager
	redis      *redis.Client
	logg       *logger.Logger
}

func NewServer(addr string, handler http.Handler, carts *cart.Registry, checkouts *checkout.Manager, redisClient *redis.Client, logg *logger.Logger) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		carts:     carts,
		checkouts: checkouts,
		redis:     redisClient,
		logg:      logg,
	}
}

// ListenAndServe blocks until the listener stops.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Close drains the listener, stops polling, archives open payment links, and
// releases redis.
func (s *Server) Close(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownGrace)
	defer cancel()

	var errs error
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		errs = multierr.Append(errs, err)
	}
	if s.carts != nil {
		s.carts.Close()
	}
	if s.checkouts != nil {
		if err := s.checkouts.Close(shutdownCtx); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	return errs
}
