package suppliers

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/surtidoapp/procurement-backend/pkg/db/models"
)

// Repository exposes the reads backing supplier candidate selection.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindSupplier(ctx context.Context, id uuid.UUID) (*models.Supplier, error)
	CategoryPreferences(ctx context.Context, businessID uuid.UUID, category string) ([]models.SupplierCategoryPreference, error)
	SuppliersByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Supplier, error)
	BrandTierSuppliers(ctx context.Context, businessID uuid.UUID) ([]models.Supplier, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a suppliers repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
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

// CategoryPreferences returns the business's ranking for one category,
// highest configured priority first.
func (r *repositoryImpl) CategoryPreferences(ctx context.Context, businessID uuid.UUID, category string) ([]models.SupplierCategoryPreference, error) {
	var prefs []models.SupplierCategoryPreference
	err := r.db.WithContext(ctx).
		Where("business_id = ? AND category = ?", businessID, category).
		Order("priority DESC, created_at ASC, id ASC").
		Find(&prefs).Error
	if err != nil {
		return nil, err
	}
	return prefs, nil
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

// BrandTierSuppliers returns active tiered suppliers, best tier first, then
// highest priority score.
func (r *repositoryImpl) BrandTierSuppliers(ctx context.Context, businessID uuid.UUID) ([]models.Supplier, error) {
	var suppliers []models.Supplier
	err := r.db.WithContext(ctx).
		Where("business_id = ? AND active = ? AND brand_tier IS NOT NULL", businessID, true).
		Order("brand_tier ASC, priority_score DESC, id ASC").
		Find(&suppliers).Error
	if err != nil {
		return nil, err
	}
	return suppliers, nil
}
