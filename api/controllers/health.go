package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/pixelcrate/gameshelf-backend/api/responses"
	"github.com/pixelcrate/gameshelf-backend/pkg/config"
	pkgerrors "github.com/pixelcrate/gameshelf-backend/pkg/errors"
	"github.com/pixelcrate/gameshelf-backend/pkg/logger"
)

const envHeader = "X-GameShelf-Env"

const readinessTimeout = 2 * time.Second

type pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady verifies the datasources behind the API are reachable.
func HealthReady(cfg *config.Config, logg *logger.Logger, database, cache pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		checks := map[string]string{}
		healthy := true

		checks["database"] = "ok"
		if database == nil {
			checks["database"] = "not configured"
			healthy = false
		} else if err := database.Ping(ctx); err != nil {
			checks["database"] = err.Error()
			healthy = false
		}

		checks["redis"] = "ok"
		if cache == nil {
			checks["redis"] = "not configured"
			healthy = false
		} else if err := cache.Ping(ctx); err != nil {
			checks["redis"] = err.Error()
			healthy = false
		}

		if !healthy {
			err := pkgerrors.New(pkgerrors.CodeDependency, "service not ready").WithDetails(checks)
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
