package webhooks

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/surtidoapp/procurement-backend/api/responses"
	"github.com/surtidoapp/procurement-backend/api/validators"
	"github.com/surtidoapp/procurement-backend/internal/suppliers"
	"github.com/surtidoapp/procurement-backend/pkg/enums"
	pkgerrors "github.com/surtidoapp/procurement-backend/pkg/errors"
	"github.com/surtidoapp/procurement-backend/pkg/logger"
	"github.com/surtidoapp/procurement-backend/pkg/metrics"
	"github.com/surtidoapp/procurement-backend/pkg/types"
)

const opSupplierCandidates = "supplier_candidates"

// SuppliersService is the slice of the supplier selection service the
// controller consumes.
type SuppliersService interface {
	Candidates(ctx context.Context, input suppliers.CandidatesInput) ([]suppliers.Candidate, error)
	Solicit(ctx context.Context, input suppliers.SolicitInput, candidates []suppliers.Candidate)
}

type supplierCandidatesRequest struct {
	BusinessID string `json:"business_id" validate:"required,uuid4"`
	ProductID  string `json:"product_id" validate:"required,uuid4"`
	// Limit is clamped to [1,5] by the service; out-of-range values are
	// accepted, not rejected.
	Limit int `json:"limit"`

	// When set, solicitations are fanned out to the selected suppliers
	// through the relay, best effort.
	Solicit              bool    `json:"solicit"`
	ProcurementRequestID *string `json:"procurement_request_id" validate:"omitempty,uuid4"`
	Quantity             int     `json:"quantity" validate:"omitempty,gt=0"`
	Urgency              string  `json:"urgency" validate:"omitempty,oneof=low normal high"`
}

// SupplierCandidates returns the ranked suppliers to solicit for a product.
func SupplierCandidates(svc SuppliersService, m *metrics.WebhookMetrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		start := time.Now()

		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "suppliers service unavailable"))
			return
		}

		var body supplierCandidatesRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			m.IncFailure(opSupplierCandidates)
			responses.WriteError(ctx, logg, w, err)
			return
		}

		candidates, err := svc.Candidates(ctx, suppliers.CandidatesInput{
			BusinessID: uuid.MustParse(body.BusinessID),
			ProductID:  uuid.MustParse(body.ProductID),
			Limit:      body.Limit,
		})
		if err != nil {
			m.IncFailure(opSupplierCandidates)
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if body.Solicit {
			input := suppliers.SolicitInput{
				ProductID: uuid.MustParse(body.ProductID),
				Quantity:  body.Quantity,
				Urgency:   enums.Urgency(body.Urgency),
			}
			if body.ProcurementRequestID != nil {
				input.ProcurementRequestID = uuid.MustParse(*body.ProcurementRequestID)
			}
			svc.Solicit(ctx, input, candidates)
		}

		out := make([]types.SupplierCandidate, 0, len(candidates))
		for _, c := range candidates {
			out = append(out, types.SupplierCandidate{
				SupplierID:   c.SupplierID.String(),
				SupplierName: c.SupplierName,
				Phone:        c.Phone,
				Source:       string(c.Source),
				Priority:     c.Priority,
			})
		}

		m.IncSuccess(opSupplierCandidates)
		m.ObserveDuration(opSupplierCandidates, time.Since(start))
		responses.WriteOK(w, types.SupplierCandidatesResponse{OK: true, Candidates: out})
	}
}
