package webhooks

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/surtidoapp/procurement-backend/api/responses"
	"github.com/surtidoapp/procurement-backend/api/validators"
	"github.com/surtidoapp/procurement-backend/internal/procurement"
	"github.com/surtidoapp/procurement-backend/pkg/enums"
	pkgerrors "github.com/surtidoapp/procurement-backend/pkg/errors"
	"github.com/surtidoapp/procurement-backend/pkg/logger"
	"github.com/surtidoapp/procurement-backend/pkg/metrics"
	"github.com/surtidoapp/procurement-backend/pkg/types"
)

const opQuoteIntake = "quote_intake"

// maxRawMessageLen caps the relay transcript stored alongside a quote.
const maxRawMessageLen = 4000

// ProcurementService is the slice of the procurement service the webhook
// controllers consume.
type ProcurementService interface {
	IntakeQuote(ctx context.Context, input procurement.IntakeQuoteInput) (*procurement.IntakeQuoteResult, error)
	ConfirmOrder(ctx context.Context, input procurement.ConfirmOrderInput) (*procurement.ConfirmOrderResult, error)
}

type quoteIntakeRequest struct {
	ProcurementRequestID string          `json:"procurement_request_id" validate:"required,uuid4"`
	BusinessID           string          `json:"business_id" validate:"required,uuid4"`
	SupplierID           string          `json:"supplier_id" validate:"required,uuid4"`
	PricePerUnit         decimal.Decimal `json:"price_per_unit"`
	Available            *bool           `json:"available"`
	DeliveryTimeDays     *int            `json:"delivery_time_days" validate:"omitempty,gte=0"`
	Currency             string          `json:"currency" validate:"omitempty,len=3"`
	RawMessage           *string         `json:"raw_message"`
	QuoteSource          string          `json:"quote_source" validate:"omitempty,oneof=relay-message email manual api"`

	// Phone identifies the inbound channel for rate limiting; the relay
	// includes it on every forwarded message.
	Phone string `json:"phone"`
}

// QuoteIntake ingests one supplier quote delivered through the relay.
func QuoteIntake(svc ProcurementService, m *metrics.WebhookMetrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		start := time.Now()

		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "procurement service unavailable"))
			return
		}

		var body quoteIntakeRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			m.IncFailure(opQuoteIntake)
			responses.WriteError(ctx, logg, w, err)
			return
		}

		rawMessage := body.RawMessage
		if rawMessage != nil {
			trimmed := validators.SanitizeString(*rawMessage, maxRawMessageLen)
			rawMessage = &trimmed
		}

		input := procurement.IntakeQuoteInput{
			ProcurementRequestID: uuid.MustParse(body.ProcurementRequestID),
			BusinessID:           uuid.MustParse(body.BusinessID),
			SupplierID:           uuid.MustParse(body.SupplierID),
			PricePerUnit:         body.PricePerUnit,
			Available:            body.Available,
			DeliveryTimeDays:     body.DeliveryTimeDays,
			Currency:             body.Currency,
			RawMessage:           rawMessage,
			QuoteSource:          enums.QuoteSource(body.QuoteSource),
		}

		result, err := svc.IntakeQuote(ctx, input)
		if err != nil {
			m.IncFailure(opQuoteIntake)
			responses.WriteError(ctx, logg, w, err)
			return
		}

		m.IncSuccess(opQuoteIntake)
		m.ObserveDuration(opQuoteIntake, time.Since(start))
		responses.WriteOK(w, types.QuoteIntakeResponse{
			OK:                   true,
			QuoteID:              result.QuoteID.String(),
			ProcurementRequestID: result.ProcurementRequestID.String(),
			Status:               string(result.Status),
		})
	}
}
