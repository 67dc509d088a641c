package procurement

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/surtidoapp/procurement-backend/pkg/db/models"
	"github.com/surtidoapp/procurement-backend/pkg/enums"
)

// Repository exposes persistence helpers for procurement requests and their
// quotes.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindRequest(ctx context.Context, id uuid.UUID) (*models.ProcurementRequest, error)
	FindProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindSupplier(ctx context.Context, id uuid.UUID) (*models.Supplier, error)
	SuppliersByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Supplier, error)
	CreateQuote(ctx context.Context, quote *models.SupplierQuote) error
	ListQuotesByRequest(ctx context.Context, requestID uuid.UUID) ([]models.SupplierQuote, error)
	SaveQuoteScores(ctx context.Context, scores map[uuid.UUID]int) error
	UpdateRequestStatus(ctx context.Context, id uuid.UUID, status enums.RequestStatus) error
	SetRecommendation(ctx context.Context, id uuid.UUID, quoteID uuid.UUID, status enums.RequestStatus) error
	AppendRequestNote(ctx context.Context, id uuid.UUID, note string) error
	GetScoringConfig(ctx context.Context, businessID uuid.UUID) (*models.BusinessScoringConfig, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a procurement repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) FindRequest(ctx context.Context, id uuid.UUID) (*models.ProcurementRequest, error) {
	var request models.ProcurementRequest
	if err := r.db.WithContext(ctx).First(&request, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *repositoryImpl) FindProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *repositoryImpl) FindSupplier(ctx context.Context, id uuid.UUID) (*models.Supplier, error) {
	var supplier models.Supplier
	if err := r.db.WithContext(ctx).First(&supplier, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &supplier, nil
}

func (r *repositoryImpl) SuppliersByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Supplier, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var suppliers []models.Supplier
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&suppliers).Error; err != nil {
		return nil, err
	}
	return suppliers, nil
}

func (r *repositoryImpl) CreateQuote(ctx context.Context, quote *models.SupplierQuote) error {
	return r.db.WithContext(ctx).Create(quote).Error
}

// ListQuotesByRequest returns quotes in insertion order. The (created_at, id)
// ordering keeps the recommendation tie-break stable.
func (r *repositoryImpl) ListQuotesByRequest(ctx context.Context, requestID uuid.UUID) ([]models.SupplierQuote, error) {
	var quotes []models.SupplierQuote
	err := r.db.WithContext(ctx).
		Where("procurement_request_id = ?", requestID).
		Order("created_at ASC, id ASC").
		Find(&quotes).Error
	if err != nil {
		return nil, err
	}
	return quotes, nil
}

func (r *repositoryImpl) SaveQuoteScores(ctx context.Context, scores map[uuid.UUID]int) error {
	for id, score := range scores {
		err := r.db.WithContext(ctx).
			Model(&models.SupplierQuote{}).
			Where("id = ?", id).
			UpdateColumn("score", score).Error
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *repositoryImpl) UpdateRequestStatus(ctx context.Context, id uuid.UUID, status enums.RequestStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.ProcurementRequest{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *repositoryImpl) SetRecommendation(ctx context.Context, id uuid.UUID, quoteID uuid.UUID, status enums.RequestStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.ProcurementRequest{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"recommended_quote_id": quoteID,
			"status":               status,
		}).Error
}

// AppendRequestNote appends to the request's audit trail. Notes are
// append-only; existing content is never rewritten.
func (r *repositoryImpl) AppendRequestNote(ctx context.Context, id uuid.UUID, note string) error {
	return r.db.WithContext(ctx).
		Model(&models.ProcurementRequest{}).
		Where("id = ?", id).
		UpdateColumn("notes", gorm.Expr("CASE WHEN notes = '' THEN ? ELSE notes || ? END", note, "\n"+note)).Error
}

func (r *repositoryImpl) GetScoringConfig(ctx context.Context, businessID uuid.UUID) (*models.BusinessScoringConfig, error) {
	var cfg models.BusinessScoringConfig
	err := r.db.WithContext(ctx).First(&cfg, "business_id = ?", businessID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}
