package notifications

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/surtidoapp/procurement-backend/pkg/db/models"
)

// Repository exposes persistence helpers for notifications and the
// activity log.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateNotification(ctx context.Context, notification *models.Notification) error
	CreateActivityLog(ctx context.Context, entry *models.ActivityLog) error
	FindBusiness(ctx context.Context, id uuid.UUID) (*models.Business, error)
	ListMembers(ctx context.Context, businessID uuid.UUID) ([]models.BusinessMember, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a notifications repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) CreateNotification(ctx context.Context, notification *models.Notification) error {
	return r.db.WithContext(ctx).Create(notification).Error
}

func (r *repositoryImpl) CreateActivityLog(ctx context.Context, entry *models.ActivityLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repositoryImpl) FindBusiness(ctx context.Context, id uuid.UUID) (*models.Business, error) {
	var business models.Business
	if err := r.db.WithContext(ctx).First(&business, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &business, nil
}

func (r *repositoryImpl) ListMembers(ctx context.Context, businessID uuid.UUID) ([]models.BusinessMember, error) {
	var members []models.BusinessMember
	err := r.db.WithContext(ctx).
		Where("business_id = ?", businessID).
		Order("created_at ASC, id ASC").
		Find(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}
