package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/surtidoapp/procurement-backend/api/controllers"
	webhookcontrollers "github.com/surtidoapp/procurement-backend/api/controllers/webhooks"
	"github.com/surtidoapp/procurement-backend/api/middleware"
	"github.com/surtidoapp/procurement-backend/api/responses"
	"github.com/surtidoapp/procurement-backend/pkg/config"
	pkgerrors "github.com/surtidoapp/procurement-backend/pkg/errors"
	"github.com/surtidoapp/procurement-backend/pkg/logger"
	"github.com/surtidoapp/procurement-backend/pkg/metrics"
	"github.com/surtidoapp/procurement-backend/pkg/redis"
)

// Deps bundles everything the router wires into handlers.
type Deps struct {
	Config         *config.Config
	Logger         *logger.Logger
	Redis          *redis.Client
	Metrics        *metrics.WebhookMetrics
	Procurement    webhookcontrollers.ProcurementService
	Suppliers      webhookcontrollers.SuppliersService
	ReadinessPings map[string]controllers.Pinger
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		responses.WriteError(req.Context(), nil, w, pkgerrors.New(pkgerrors.CodeNotFound, "route not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		responses.WriteError(req.Context(), nil, w, pkgerrors.New(pkgerrors.CodeMethodNotAllowed, "method not allowed"))
	})

	quotesPolicy := middleware.NewWebhookRateLimitPolicy(
		"quotes",
		cfg.RateLimit.QuoteWindow,
		cfg.RateLimit.QuoteLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.ReadinessPings))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1/webhooks", func(r chi.Router) {
		r.Use(middleware.WebhookSecret(cfg.Webhook.Secret, logg))

		quotes := webhookcontrollers.QuoteIntake(deps.Procurement, deps.Metrics, logg)
		if deps.Redis != nil {
			r.With(middleware.WebhookRateLimit(quotesPolicy, deps.Redis, logg)).
				Post("/quotes", quotes)
		} else {
			r.Post("/quotes", quotes)
		}
		r.Post("/order-confirmation", webhookcontrollers.OrderConfirmation(deps.Procurement, deps.Metrics, logg))
		r.Post("/supplier-candidates", webhookcontrollers.SupplierCandidates(deps.Suppliers, deps.Metrics, logg))
	})

	return r
}
