package webhooks

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/surtidoapp/procurement-backend/internal/procurement"
	"github.com/surtidoapp/procurement-backend/internal/suppliers"
	"github.com/surtidoapp/procurement-backend/pkg/enums"
	pkgerrors "github.com/surtidoapp/procurement-backend/pkg/errors"
	"github.com/surtidoapp/procurement-backend/pkg/logger"
)

type testProcurementService struct {
	intakeFn  func(ctx context.Context, input procurement.IntakeQuoteInput) (*procurement.IntakeQuoteResult, error)
	confirmFn func(ctx context.Context, input procurement.ConfirmOrderInput) (*procurement.ConfirmOrderResult, error)
}

func (s *testProcurementService) IntakeQuote(ctx context.Context, input procurement.IntakeQuoteInput) (*procurement.IntakeQuoteResult, error) {
	if s.intakeFn != nil {
		return s.intakeFn(ctx, input)
	}
	return nil, nil
}

func (s *testProcurementService) ConfirmOrder(ctx context.Context, input procurement.ConfirmOrderInput) (*procurement.ConfirmOrderResult, error) {
	if s.confirmFn != nil {
		return s.confirmFn(ctx, input)
	}
	return nil, nil
}

type testSuppliersService struct {
	candidatesFn func(ctx context.Context, input suppliers.CandidatesInput) ([]suppliers.Candidate, error)
	solicited    []suppliers.Candidate
}

func (s *testSuppliersService) Candidates(ctx context.Context, input suppliers.CandidatesInput) ([]suppliers.Candidate, error) {
	if s.candidatesFn != nil {
		return s.candidatesFn(ctx, input)
	}
	return nil, nil
}

func (s *testSuppliersService) Solicit(ctx context.Context, input suppliers.SolicitInput, candidates []suppliers.Candidate) {
	s.solicited = append(s.solicited, candidates...)
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func TestQuoteIntakeSuccess(t *testing.T) {
	requestID := uuid.New()
	businessID := uuid.New()
	supplierID := uuid.New()
	quoteID := uuid.New()

	svc := &testProcurementService{
		intakeFn: func(ctx context.Context, input procurement.IntakeQuoteInput) (*procurement.IntakeQuoteResult, error) {
			if input.ProcurementRequestID != requestID {
				t.Fatalf("unexpected request id %s", input.ProcurementRequestID)
			}
			if input.PricePerUnit.StringFixed(2) != "80.50" {
				t.Fatalf("unexpected price %s", input.PricePerUnit)
			}
			if input.QuoteSource != enums.QuoteSourceEmail {
				t.Fatalf("unexpected source %s", input.QuoteSource)
			}
			return &procurement.IntakeQuoteResult{
				QuoteID:              quoteID,
				ProcurementRequestID: requestID,
				Status:               enums.RequestStatusWaitingForApproval,
			}, nil
		},
	}

	payload := `{
		"procurement_request_id": "` + requestID.String() + `",
		"business_id": "` + businessID.String() + `",
		"supplier_id": "` + supplierID.String() + `",
		"price_per_unit": 80.50,
		"delivery_time_days": 10,
		"quote_source": "email",
		"phone": "+5215512345678"
	}`

	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/quotes", strings.NewReader(payload))
	resp := httptest.NewRecorder()

	QuoteIntake(svc, nil, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", resp.Code, resp.Body.String())
	}
	var body struct {
		OK      bool   `json:"ok"`
		QuoteID string `json:"quote_id"`
		Status  string `json:"status"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !body.OK || body.QuoteID != quoteID.String() || body.Status != "waiting_for_approval" {
		t.Fatalf("unexpected body %+v", body)
	}
}

func TestQuoteIntakeValidation(t *testing.T) {
	svc := &testProcurementService{
		intakeFn: func(ctx context.Context, input procurement.IntakeQuoteInput) (*procurement.IntakeQuoteResult, error) {
			t.Fatal("service must not be reached on validation failure")
			return nil, nil
		},
	}

	cases := []struct {
		name    string
		payload string
	}{
		{"malformed uuid", `{"procurement_request_id":"not-a-uuid","business_id":"` + uuid.NewString() + `","supplier_id":"` + uuid.NewString() + `","price_per_unit":10}`},
		{"unknown quote source", `{"procurement_request_id":"` + uuid.NewString() + `","business_id":"` + uuid.NewString() + `","supplier_id":"` + uuid.NewString() + `","price_per_unit":10,"quote_source":"pigeon"}`},
		{"negative delivery", `{"procurement_request_id":"` + uuid.NewString() + `","business_id":"` + uuid.NewString() + `","supplier_id":"` + uuid.NewString() + `","price_per_unit":10,"delivery_time_days":-1}`},
		{"unknown field", `{"procurement_request_id":"` + uuid.NewString() + `","business_id":"` + uuid.NewString() + `","supplier_id":"` + uuid.NewString() + `","price_per_unit":10,"surprise":true}`},
		{"missing business", `{"procurement_request_id":"` + uuid.NewString() + `","supplier_id":"` + uuid.NewString() + `","price_per_unit":10}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/quotes", strings.NewReader(tc.payload))
			resp := httptest.NewRecorder()

			QuoteIntake(svc, nil, testLogger())(resp, req)

			if resp.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d body=%s", resp.Code, resp.Body.String())
			}
			var body struct {
				OK bool `json:"ok"`
			}
			if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if body.OK {
				t.Fatal("ok must be false on validation failure")
			}
		})
	}
}

func TestQuoteIntakeConflictPassthrough(t *testing.T) {
	svc := &testProcurementService{
		intakeFn: func(ctx context.Context, input procurement.IntakeQuoteInput) (*procurement.IntakeQuoteResult, error) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "request is cancelled")
		},
	}

	payload := `{"procurement_request_id":"` + uuid.NewString() + `","business_id":"` + uuid.NewString() + `","supplier_id":"` + uuid.NewString() + `","price_per_unit":10}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/quotes", strings.NewReader(payload))
	resp := httptest.NewRecorder()

	QuoteIntake(svc, nil, testLogger())(resp, req)

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.Code)
	}
}

func TestOrderConfirmationSuccess(t *testing.T) {
	requestID := uuid.New()

	svc := &testProcurementService{
		confirmFn: func(ctx context.Context, input procurement.ConfirmOrderInput) (*procurement.ConfirmOrderResult, error) {
			if input.Status != enums.RequestStatusConfirmed {
				t.Fatalf("unexpected status %s", input.Status)
			}
			if input.SupplierConfirmation == nil || *input.SupplierConfirmation != "folio 8841" {
				t.Fatal("supplier confirmation not forwarded")
			}
			return &procurement.ConfirmOrderResult{
				ProcurementRequestID: requestID,
				Status:               enums.RequestStatusConfirmed,
			}, nil
		},
	}

	payload := `{
		"procurement_request_id": "` + requestID.String() + `",
		"business_id": "` + uuid.NewString() + `",
		"supplier_id": "` + uuid.NewString() + `",
		"status": "confirmed",
		"supplier_confirmation": "folio 8841"
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/order-confirmation", strings.NewReader(payload))
	resp := httptest.NewRecorder()

	OrderConfirmation(svc, nil, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", resp.Code, resp.Body.String())
	}
	var body struct {
		OK     bool   `json:"ok"`
		Status string `json:"status"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !body.OK || body.Status != "confirmed" {
		t.Fatalf("unexpected body %+v", body)
	}
}

func TestOrderConfirmationRejectsUnknownStatus(t *testing.T) {
	svc := &testProcurementService{}

	payload := `{"procurement_request_id":"` + uuid.NewString() + `","business_id":"` + uuid.NewString() + `","supplier_id":"` + uuid.NewString() + `","status":"shipped"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/order-confirmation", strings.NewReader(payload))
	resp := httptest.NewRecorder()

	OrderConfirmation(svc, nil, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestSupplierCandidatesSuccessWithSolicit(t *testing.T) {
	businessID := uuid.New()
	productID := uuid.New()
	supplierID := uuid.New()

	svc := &testSuppliersService{
		candidatesFn: func(ctx context.Context, input suppliers.CandidatesInput) ([]suppliers.Candidate, error) {
			if input.Limit != 2 {
				t.Fatalf("unexpected limit %d", input.Limit)
			}
			return []suppliers.Candidate{{
				SupplierID:   supplierID,
				SupplierName: "Preferred SA",
				Phone:        "+5215500000000",
				Source:       enums.CandidateSourcePreferred,
				Priority:     1,
			}}, nil
		},
	}

	payload := `{
		"business_id": "` + businessID.String() + `",
		"product_id": "` + productID.String() + `",
		"limit": 2,
		"solicit": true,
		"quantity": 10,
		"urgency": "high"
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/supplier-candidates", strings.NewReader(payload))
	resp := httptest.NewRecorder()

	SupplierCandidates(svc, nil, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", resp.Code, resp.Body.String())
	}
	var body struct {
		OK         bool `json:"ok"`
		Candidates []struct {
			SupplierID string `json:"supplier_id"`
			Source     string `json:"source"`
			Priority   int    `json:"priority"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !body.OK || len(body.Candidates) != 1 {
		t.Fatalf("unexpected body %+v", body)
	}
	if body.Candidates[0].SupplierID != supplierID.String() || body.Candidates[0].Priority != 1 {
		t.Fatalf("unexpected candidate %+v", body.Candidates[0])
	}
	if len(svc.solicited) != 1 {
		t.Fatalf("expected solicitation fan-out, got %d", len(svc.solicited))
	}
}

func TestSupplierCandidatesLimitOutOfRangeIsAccepted(t *testing.T) {
	// Out-of-range limits are clamped by the service, never rejected at
	// the validation layer.
	for _, limit := range []int{0, 7, -3} {
		var got *suppliers.CandidatesInput
		svc := &testSuppliersService{
			candidatesFn: func(ctx context.Context, input suppliers.CandidatesInput) ([]suppliers.Candidate, error) {
				got = &input
				return nil, nil
			},
		}

		payload := `{
			"business_id": "` + uuid.NewString() + `",
			"product_id": "` + uuid.NewString() + `",
			"limit": ` + strconv.Itoa(limit) + `
		}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/supplier-candidates", strings.NewReader(payload))
		resp := httptest.NewRecorder()

		SupplierCandidates(svc, nil, testLogger())(resp, req)

		if resp.Code != http.StatusOK {
			t.Fatalf("limit %d: expected 200, got %d body=%s", limit, resp.Code, resp.Body.String())
		}
		if got == nil || got.Limit != limit {
			t.Fatalf("limit %d: service must receive the raw limit, got %+v", limit, got)
		}
	}
}

func TestSupplierCandidatesNotFoundPassthrough(t *testing.T) {
	svc := &testSuppliersService{
		candidatesFn: func(ctx context.Context, input suppliers.CandidatesInput) ([]suppliers.Candidate, error) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		},
	}

	payload := `{"business_id":"` + uuid.NewString() + `","product_id":"` + uuid.NewString() + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/supplier-candidates", strings.NewReader(payload))
	resp := httptest.NewRecorder()

	SupplierCandidates(svc, nil, testLogger())(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}
