package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/surtidoapp/procurement-backend/api/responses"
	pkgerrors "github.com/surtidoapp/procurement-backend/pkg/errors"
	"github.com/surtidoapp/procurement-backend/pkg/logger"
)

const webhookSecretHeader = "X-Webhook-Secret"

// WebhookSecret rejects requests whose shared-secret header does not match the
// configured value. Comparison is constant time.
func WebhookSecret(secret string, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if secret == "" {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "webhook secret not configured"))
				return
			}

			presented := r.Header.Get(webhookSecretHeader)
			if subtle.ConstantTimeCompare([]byte(presented), []byte(secret)) != 1 {
				if logg != nil {
					logg.Warn(logg.WithFields(ctx, map[string]any{"header": webhookSecretHeader}), "webhook.auth.rejected")
				}
				responses.WriteError(ctx, nil, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid webhook secret"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
