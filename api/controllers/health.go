package controllers

import (
	"net/http"

	"github.com/primosportswear/storefront/api/responses"
	"github.com/primosportswear/storefront/pkg/config"
	"github.com/primosportswear/storefront/pkg/logger"
	"github.com/primosportswear/storefront/pkg/redis"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Storefront-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

func HealthReady(cfg *config.Config, logg *logger.Logger, redisPinger redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Storefront-Env", cfg.App.Env)

		checks := map[string]string{"redis": "ok"}
		status := http.StatusOK
		overall := "ready"
		if redisPinger != nil {
			if err := redisPinger.Ping(r.Context()); err != nil {
				checks["redis"] = "down"
				status = http.StatusServiceUnavailable
				overall = "degraded"
				if logg != nil {
					logg.Error(r.Context(), "redis readiness check failed", err)
				}
			}
		}

		responses.WriteSuccessStatus(w, status, map[string]any{
			"status": overall,
			"checks": checks,
		})
	}
}
