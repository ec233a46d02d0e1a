package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/cryptobooking/booking-client/api/responses"
	"github.com/cryptobooking/booking-client/pkg/config"
	pkgerrors "github.com/cryptobooking/booking-client/pkg/errors"
	"github.com/cryptobooking/booking-client/pkg/logger"
	"github.com/cryptobooking/booking-client/pkg/redis"
)

const envHeader = "X-CryptoBooking-Env"

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings redis when it is configured; a nil pinger means the
// process runs without it.
func HealthReady(cfg *config.Config, redisPinger redis.Pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		if redisPinger != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := redisPinger.Ping(ctx); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis unavailable").WithDetails(map[string]any{"dependency": "redis"}))
				return
			}
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
