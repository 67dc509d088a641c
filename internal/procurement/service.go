package procurement

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/surtidoapp/procurement-backend/internal/notifications"
	"github.com/surtidoapp/procurement-backend/pkg/db/models"
	"github.com/surtidoapp/procurement-backend/pkg/enums"
	pkgerrors "github.com/surtidoapp/procurement-backend/pkg/errors"
	"github.com/surtidoapp/procurement-backend/pkg/logger"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// requestLocker serializes scoring per procurement request. Concurrent quote
// intakes for the same request would otherwise race on the full-recompute and
// overwrite each other's normalization with stale ranges.
type requestLocker interface {
	WithLock(ctx context.Context, requestID string, fn func(ctx context.Context) error) error
}

// Service defines the webhook-triggered procurement operations.
type Service interface {
	IntakeQuote(ctx context.Context, input IntakeQuoteInput) (*IntakeQuoteResult, error)
	ConfirmOrder(ctx context.Context, input ConfirmOrderInput) (*ConfirmOrderResult, error)
}

type service struct {
	repo     Repository
	tx       txRunner
	locker   requestLocker
	notifier notifications.Service
	logg     *logger.Logger
	defaults Weights
}

// IntakeQuoteInput is the validated payload of one inbound supplier quote.
type IntakeQuoteInput struct {
	ProcurementRequestID uuid.UUID
	BusinessID           uuid.UUID
	SupplierID           uuid.UUID
	PricePerUnit         decimal.Decimal
	Available            *bool
	DeliveryTimeDays     *int
	Currency             string
	RawMessage           *string
	QuoteSource          enums.QuoteSource
}

// IntakeQuoteResult reports the stored quote and the request status after
// intake and any scoring that followed.
type IntakeQuoteResult struct {
	QuoteID              uuid.UUID
	ProcurementRequestID uuid.UUID
	Status               enums.RequestStatus
}

// ConfirmOrderInput is the validated payload of an out-of-band order
// confirmation.
type ConfirmOrderInput struct {
	ProcurementRequestID uuid.UUID
	BusinessID           uuid.UUID
	SupplierID           uuid.UUID
	Status               enums.RequestStatus
	SupplierConfirmation *string
}

// ConfirmOrderResult echoes the request and its terminal status.
type ConfirmOrderResult struct {
	ProcurementRequestID uuid.UUID
	Status               enums.RequestStatus
}

// NewService wires the procurement service dependencies.
func NewService(repo Repository, tx txRunner, locker requestLocker, notifier notifications.Service, logg *logger.Logger, defaults Weights) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "procurement repository required")
	}
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction runner required")
	}
	if locker == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "request locker required")
	}
	if notifier == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "notifier required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger required")
	}
	return &service{
		repo:     repo,
		tx:       tx,
		locker:   locker,
		notifier: notifier,
		logg:     logg,
		defaults: defaults,
	}, nil
}

func (s *service) IntakeQuote(ctx context.Context, input IntakeQuoteInput) (*IntakeQuoteResult, error) {
	if err := validateIntake(input); err != nil {
		return nil, err
	}

	ctx = s.logg.WithProcurementRequestID(ctx, input.ProcurementRequestID.String())
	ctx = s.logg.WithSupplierID(ctx, input.SupplierID.String())

	available := true
	if input.Available != nil {
		available = *input.Available
	}
	currency := input.Currency
	if currency == "" {
		currency = "MXN"
	}
	source := input.QuoteSource
	if source == "" {
		source = enums.QuoteSourceRelayMessage
	}

	quote := &models.SupplierQuote{
		ProcurementRequestID: input.ProcurementRequestID,
		SupplierID:           input.SupplierID,
		PricePerUnit:         input.PricePerUnit,
		Available:            available,
		DeliveryTimeDays:     input.DeliveryTimeDays,
		Currency:             currency,
		QuoteSource:          source,
		RawMessage:           input.RawMessage,
	}

	var request *models.ProcurementRequest
	var supplier *models.Supplier
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		var err error
		request, err = s.loadOwnedRequest(ctx, repo, input.ProcurementRequestID, input.BusinessID)
		if err != nil {
			return err
		}
		if request.Status == enums.RequestStatusCancelled {
			return pkgerrors.New(pkgerrors.CodeConflict, "request is cancelled")
		}

		supplier, err = s.loadOwnedSupplier(ctx, repo, input.SupplierID, input.BusinessID)
		if err != nil {
			return err
		}

		if err := repo.CreateQuote(ctx, quote); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store quote")
		}

		if CanTransition(request.Status, enums.RequestStatusQuotesReceived) {
			if err := repo.UpdateRequestStatus(ctx, request.ID, enums.RequestStatusQuotesReceived); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "advance request status")
			}
			request.Status = enums.RequestStatusQuotesReceived
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Everything past the insert degrades gracefully: a scoring failure
	// leaves the request in quotes_received and still reports success for
	// the stored quote.
	status := s.rescore(ctx, request)

	s.notifyQuote(ctx, request, supplier, quote, status)

	return &IntakeQuoteResult{
		QuoteID:              quote.ID,
		ProcurementRequestID: request.ID,
		Status:               status,
	}, nil
}

func (s *service) ConfirmOrder(ctx context.Context, input ConfirmOrderInput) (*ConfirmOrderResult, error) {
	if input.ProcurementRequestID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "procurement_request_id required")
	}
	if input.BusinessID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "business_id required")
	}
	if input.SupplierID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "supplier_id required")
	}
	status := input.Status
	if status == "" {
		status = enums.RequestStatusOrdered
	}
	if !status.IsTerminalSuccess() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "status must be ordered or confirmed")
	}

	ctx = s.logg.WithProcurementRequestID(ctx, input.ProcurementRequestID.String())

	var request *models.ProcurementRequest
	var supplier *models.Supplier
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		var err error
		request, err = s.loadOwnedRequest(ctx, repo, input.ProcurementRequestID, input.BusinessID)
		if err != nil {
			return err
		}
		if !CanConfirm(request.Status) {
			return pkgerrors.New(pkgerrors.CodeConflict, "request is cancelled")
		}

		supplier, err = s.loadOwnedSupplier(ctx, repo, input.SupplierID, input.BusinessID)
		if err != nil {
			return err
		}

		if err := repo.UpdateRequestStatus(ctx, request.ID, status); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update request status")
		}

		note := confirmationNote(supplier.Name, status, input.SupplierConfirmation, time.Now().UTC())
		if err := repo.AppendRequestNote(ctx, request.ID, note); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append confirmation note")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Publish(ctx, notifications.Event{
		BusinessID:           request.BusinessID,
		ProcurementRequestID: &request.ID,
		Type:                 enums.NotificationTypeOrderConfirmed,
		Title:                "Order confirmed",
		Message:              fmt.Sprintf("%s confirmed the order, request is now %s", supplier.Name, status),
	})

	return &ConfirmOrderResult{ProcurementRequestID: request.ID, Status: status}, nil
}

// rescore recomputes scores for every quote on the request under the
// per-request lock and advances the request to waiting_for_approval when a
// recommendation exists. Failures are logged and leave the status untouched.
func (s *service) rescore(ctx context.Context, request *models.ProcurementRequest) enums.RequestStatus {
	status := request.Status

	err := s.locker.WithLock(ctx, request.ID.String(), func(ctx context.Context) error {
		quotes, err := s.repo.ListQuotesByRequest(ctx, request.ID)
		if err != nil {
			return fmt.Errorf("list quotes: %w", err)
		}

		priorities, names, err := s.supplierDirectory(ctx, quotes)
		if err != nil {
			return err
		}

		stored, err := s.repo.GetScoringConfig(ctx, request.BusinessID)
		if err != nil {
			return fmt.Errorf("load scoring config: %w", err)
		}
		weights := weightsFromConfig(stored, s.defaults)

		scores := scoreQuotes(quotes, priorities, weights)
		if scores == nil {
			// No available quote: no recommendation, status stays put.
			return nil
		}

		return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
			repo := s.repo.WithTx(tx)

			if err := repo.SaveQuoteScores(ctx, scores); err != nil {
				return fmt.Errorf("persist scores: %w", err)
			}

			best, ok := selectRecommendation(quotes, scores)
			if !ok {
				return nil
			}

			next := status
			if CanTransition(status, enums.RequestStatusWaitingForApproval) {
				next = enums.RequestStatusWaitingForApproval
			}
			if err := repo.SetRecommendation(ctx, request.ID, best.ID, next); err != nil {
				return fmt.Errorf("set recommendation: %w", err)
			}

			rationale := buildRationale(best, scores[best.ID], names[best.SupplierID])
			if err := repo.AppendRequestNote(ctx, request.ID, rationale); err != nil {
				return fmt.Errorf("append rationale: %w", err)
			}

			status = next
			request.RecommendedQuoteID = &best.ID
			return nil
		})
	})
	if err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "procurement.scoring.skipped")
	}

	request.Status = status
	return status
}

func (s *service) supplierDirectory(ctx context.Context, quotes []models.SupplierQuote) (map[uuid.UUID]int, map[uuid.UUID]string, error) {
	seen := map[uuid.UUID]bool{}
	var ids []uuid.UUID
	for _, q := range quotes {
		if !seen[q.SupplierID] {
			seen[q.SupplierID] = true
			ids = append(ids, q.SupplierID)
		}
	}

	suppliers, err := s.repo.SuppliersByIDs(ctx, ids)
	if err != nil {
		return nil, nil, fmt.Errorf("load quoting suppliers: %w", err)
	}

	priorities := make(map[uuid.UUID]int, len(suppliers))
	names := make(map[uuid.UUID]string, len(suppliers))
	for _, supplier := range suppliers {
		priorities[supplier.ID] = supplier.PriorityScore
		names[supplier.ID] = supplier.Name
	}
	return priorities, names, nil
}

func (s *service) notifyQuote(ctx context.Context, request *models.ProcurementRequest, supplier *models.Supplier, quote *models.SupplierQuote, status enums.RequestStatus) {
	productName := request.ProductID.String()
	if product, err := s.repo.FindProduct(ctx, request.ProductID); err == nil {
		productName = product.Name
	}

	s.notifier.Publish(ctx, notifications.Event{
		BusinessID:           request.BusinessID,
		ProcurementRequestID: &request.ID,
		Type:                 enums.NotificationTypeQuoteReceived,
		Title:                "New quote received",
		Message: fmt.Sprintf("%s quoted %s %s for %s, request is now %s",
			supplier.Name, quote.PricePerUnit.StringFixed(2), quote.Currency, productName, status),
	})

	if status == enums.RequestStatusWaitingForApproval {
		s.notifier.Publish(ctx, notifications.Event{
			BusinessID:           request.BusinessID,
			ProcurementRequestID: &request.ID,
			Type:                 enums.NotificationTypeRecommendation,
			Title:                "Recommendation ready",
			Message:              fmt.Sprintf("A recommended quote for %s is awaiting approval", productName),
		})
	}
}

func (s *service) loadOwnedRequest(ctx context.Context, repo Repository, id, businessID uuid.UUID) (*models.ProcurementRequest, error) {
	request, err := repo.FindRequest(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "procurement request not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load procurement request")
	}
	if request.BusinessID != businessID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "request does not belong to business")
	}
	return request, nil
}

func (s *service) loadOwnedSupplier(ctx context.Context, repo Repository, id, businessID uuid.UUID) (*models.Supplier, error) {
	supplier, err := repo.FindSupplier(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "supplier not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load supplier")
	}
	if supplier.BusinessID != businessID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "supplier does not belong to business")
	}
	return supplier, nil
}

func validateIntake(input IntakeQuoteInput) error {
	if input.ProcurementRequestID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "procurement_request_id required")
	}
	if input.BusinessID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "business_id required")
	}
	if input.SupplierID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "supplier_id required")
	}
	if !input.PricePerUnit.IsPositive() {
		return pkgerrors.New(pkgerrors.CodeValidation, "price_per_unit must be greater than 0")
	}
	if input.DeliveryTimeDays != nil && *input.DeliveryTimeDays < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "delivery_time_days must not be negative")
	}
	if input.QuoteSource != "" && !input.QuoteSource.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown quote_source")
	}
	return nil
}

func confirmationNote(supplierName string, status enums.RequestStatus, confirmation *string, at time.Time) string {
	note := fmt.Sprintf("[%s] Order %s by %s", at.Format(time.RFC3339), status, supplierName)
	if confirmation != nil && *confirmation != "" {
		note += ": " + *confirmation
	}
	return note
}
