package webhooks

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/surtidoapp/procurement-backend/api/responses"
	"github.com/surtidoapp/procurement-backend/api/validators"
	"github.com/surtidoapp/procurement-backend/internal/procurement"
	"github.com/surtidoapp/procurement-backend/pkg/enums"
	pkgerrors "github.com/surtidoapp/procurement-backend/pkg/errors"
	"github.com/surtidoapp/procurement-backend/pkg/logger"
	"github.com/surtidoapp/procurement-backend/pkg/metrics"
	"github.com/surtidoapp/procurement-backend/pkg/types"
)

const opOrderConfirmation = "order_confirmation"

// maxConfirmationLen caps the free-text confirmation copied into the audit
// note.
const maxConfirmationLen = 500

type orderConfirmationRequest struct {
	ProcurementRequestID string  `json:"procurement_request_id" validate:"required,uuid4"`
	BusinessID           string  `json:"business_id" validate:"required,uuid4"`
	SupplierID           string  `json:"supplier_id" validate:"required,uuid4"`
	Status               string  `json:"status" validate:"omitempty,oneof=ordered confirmed"`
	SupplierConfirmation *string `json:"supplier_confirmation"`
}

// OrderConfirmation applies an out-of-band supplier confirmation to a request.
func OrderConfirmation(svc ProcurementService, m *metrics.WebhookMetrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		start := time.Now()

		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "procurement service unavailable"))
			return
		}

		var body orderConfirmationRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			m.IncFailure(opOrderConfirmation)
			responses.WriteError(ctx, logg, w, err)
			return
		}

		confirmation := body.SupplierConfirmation
		if confirmation != nil {
			trimmed := validators.SanitizeString(*confirmation, maxConfirmationLen)
			confirmation = &trimmed
		}

		result, err := svc.ConfirmOrder(ctx, procurement.ConfirmOrderInput{
			ProcurementRequestID: uuid.MustParse(body.ProcurementRequestID),
			BusinessID:           uuid.MustParse(body.BusinessID),
			SupplierID:           uuid.MustParse(body.SupplierID),
			Status:               enums.RequestStatus(body.Status),
			SupplierConfirmation: confirmation,
		})
		if err != nil {
			m.IncFailure(opOrderConfirmation)
			responses.WriteError(ctx, logg, w, err)
			return
		}

		m.IncSuccess(opOrderConfirmation)
		m.ObserveDuration(opOrderConfirmation, time.Since(start))
		responses.WriteOK(w, types.OrderConfirmationResponse{
			OK:                   true,
			ProcurementRequestID: result.ProcurementRequestID.String(),
			Status:               string(result.Status),
		})
	}
}
