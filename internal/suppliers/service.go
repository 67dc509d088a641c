package suppliers

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/surtidoapp/procurement-backend/pkg/db/models"
	"github.com/surtidoapp/procurement-backend/pkg/enums"
	pkgerrors "github.com/surtidoapp/procurement-backend/pkg/errors"
	"github.com/surtidoapp/procurement-backend/pkg/logger"
	"github.com/surtidoapp/procurement-backend/pkg/relay"
)

const (
	defaultCandidateLimit = 3
	minCandidateLimit     = 1
	maxCandidateLimit     = 5
)

// Service selects the suppliers to solicit for a product and optionally fans
// the solicitations out through the message relay.
type Service interface {
	Candidates(ctx context.Context, input CandidatesInput) ([]Candidate, error)
	Solicit(ctx context.Context, input SolicitInput, candidates []Candidate)
}

type relaySender interface {
	SendSolicitation(ctx context.Context, msg relay.SolicitationMessage) error
}

type service struct {
	repo  Repository
	relay relaySender
	logg  *logger.Logger
}

// CandidatesInput identifies the product to source and bounds the result.
type CandidatesInput struct {
	BusinessID uuid.UUID
	ProductID  uuid.UUID
	Limit      int
}

// Candidate is one supplier to solicit, in rank order.
type Candidate struct {
	SupplierID   uuid.UUID
	SupplierName string
	Phone        string
	Source       enums.CandidateSource
	Priority     int
}

// SolicitInput carries the request context echoed to the relay. ProductName
// is resolved from ProductID when left empty.
type SolicitInput struct {
	ProcurementRequestID uuid.UUID
	ProductID            uuid.UUID
	ProductName          string
	Quantity             int
	Urgency              enums.Urgency
}

// NewService wires the supplier selection dependencies. The relay sender is
// optional; without it Solicit logs and does nothing.
func NewService(repo Repository, relay relaySender, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "suppliers repository required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger required")
	}
	return &service{repo: repo, relay: relay, logg: logg}, nil
}

// Candidates walks the three preference sources in order: the product's
// preferred supplier, category preferences by configured priority, then
// brand-tier suppliers by tier and priority. Deduplication is by supplier id;
// once the clamped bound is reached no further sources are consulted.
func (s *service) Candidates(ctx context.Context, input CandidatesInput) ([]Candidate, error) {
	if input.BusinessID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "business_id required")
	}
	if input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product_id required")
	}
	limit := clampLimit(input.Limit)

	product, err := s.repo.FindProduct(ctx, input.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if product.BusinessID != input.BusinessID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "product does not belong to business")
	}

	picker := newPicker(limit)

	if product.PreferredSupplierID != nil {
		supplier, err := s.repo.FindSupplier(ctx, *product.PreferredSupplierID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load preferred supplier")
		}
		if supplier != nil && supplier.Active && supplier.BusinessID == input.BusinessID {
			picker.add(*supplier, enums.CandidateSourcePreferred)
		}
	}

	if !picker.full() && product.Category != "" {
		if err := s.addCategoryCandidates(ctx, picker, input.BusinessID, product.Category); err != nil {
			return nil, err
		}
	}

	if !picker.full() {
		tiered, err := s.repo.BrandTierSuppliers(ctx, input.BusinessID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load brand tier suppliers")
		}
		for _, supplier := range tiered {
			if picker.full() {
				break
			}
			picker.add(supplier, enums.CandidateSourceBrand)
		}
	}

	return picker.candidates, nil
}

// Solicit fans the quote requests out through the relay, best effort. Relay
// failures are logged per candidate and never propagated.
func (s *service) Solicit(ctx context.Context, input SolicitInput, candidates []Candidate) {
	if s.relay == nil {
		s.logg.Warn(ctx, "suppliers.solicit.skipped_no_relay")
		return
	}

	if input.ProductName == "" && input.ProductID != uuid.Nil {
		if product, err := s.repo.FindProduct(ctx, input.ProductID); err == nil {
			input.ProductName = product.Name
		}
	}

	for _, candidate := range candidates {
		msg := relay.SolicitationMessage{
			SupplierID:           candidate.SupplierID.String(),
			SupplierName:         candidate.SupplierName,
			Phone:                candidate.Phone,
			ProcurementRequestID: input.ProcurementRequestID.String(),
			ProductName:          input.ProductName,
			Quantity:             input.Quantity,
			Urgency:              string(input.Urgency),
		}
		if err := s.relay.SendSolicitation(ctx, msg); err != nil {
			s.logg.Warn(s.logg.WithFields(ctx, map[string]any{
				"supplier_id": candidate.SupplierID.String(),
				"error":       err.Error(),
			}), "suppliers.solicit.failed")
		}
	}
}

func (s *service) addCategoryCandidates(ctx context.Context, picker *candidatePicker, businessID uuid.UUID, category string) error {
	prefs, err := s.repo.CategoryPreferences(ctx, businessID, category)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category preferences")
	}
	if len(prefs) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, 0, len(prefs))
	for _, pref := range prefs {
		ids = append(ids, pref.SupplierID)
	}
	suppliers, err := s.repo.SuppliersByIDs(ctx, ids)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category suppliers")
	}
	byID := make(map[uuid.UUID]models.Supplier, len(suppliers))
	for _, supplier := range suppliers {
		byID[supplier.ID] = supplier
	}

	for _, pref := range prefs {
		if picker.full() {
			break
		}
		supplier, ok := byID[pref.SupplierID]
		if !ok || !supplier.Active {
			continue
		}
		picker.add(supplier, enums.CandidateSourceCategory)
	}
	return nil
}

type candidatePicker struct {
	limit      int
	seen       map[uuid.UUID]bool
	candidates []Candidate
}

func newPicker(limit int) *candidatePicker {
	return &candidatePicker{limit: limit, seen: map[uuid.UUID]bool{}}
}

func (p *candidatePicker) full() bool {
	return len(p.candidates) >= p.limit
}

func (p *candidatePicker) add(supplier models.Supplier, source enums.CandidateSource) {
	if p.full() || p.seen[supplier.ID] {
		return
	}
	p.seen[supplier.ID] = true
	p.candidates = append(p.candidates, Candidate{
		SupplierID:   supplier.ID,
		SupplierName: supplier.Name,
		Phone:        supplier.Phone,
		Source:       source,
		Priority:     len(p.candidates) + 1,
	})
}

func clampLimit(limit int) int {
	if limit == 0 {
		return defaultCandidateLimit
	}
	if limit < minCandidateLimit {
		return minCandidateLimit
	}
	if limit > maxCandidateLimit {
		return maxCandidateLimit
	}
	return limit
}
