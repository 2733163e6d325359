package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/osgiliath-dev/tradepost/api/responses"
	"github.com/osgiliath-dev/tradepost/pkg/config"
	pkgerrors "github.com/osgiliath-dev/tradepost/pkg/errors"
	"github.com/osgiliath-dev/tradepost/pkg/logger"
)

// Pinger is satisfied by the database and redis clients.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Tradepost-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady verifies the datasource before reporting ready.
func HealthReady(cfg *config.Config, db Pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Tradepost-Env", cfg.App.Env)

		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := db.Ping(ctx); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unreachable"))
				return
			}
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
