package controllers

import (
	"context"
	"net/http"

	"github.com/surtidoapp/procurement-backend/api/responses"
	"github.com/surtidoapp/procurement-backend/pkg/config"
	pkgerrors "github.com/surtidoapp/procurement-backend/pkg/errors"
	"github.com/surtidoapp/procurement-backend/pkg/logger"
	"github.com/surtidoapp/procurement-backend/pkg/types"
)

// Pinger is any dependency the readiness probe can check.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Surtido-Env", cfg.App.Env)
		responses.WriteOK(w, types.Envelope{OK: true})
	}
}

// HealthReady pings every registered dependency; one failure makes the
// whole probe fail.
func HealthReady(cfg *config.Config, logg *logger.Logger, checks map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		w.Header().Set("X-Surtido-Env", cfg.App.Env)

		for name, check := range checks {
			if check == nil {
				continue
			}
			if err := check.Ping(ctx); err != nil {
				responses.WriteError(ctx, logg, w,
					pkgerrors.Wrap(pkgerrors.CodeDependency, err, name+" not ready"))
				return
			}
		}
		responses.WriteOK(w, types.Envelope{OK: true})
	}
}
