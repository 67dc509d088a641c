package models

import (
	"time"

	"github.com/google/uuid"
)

// SupplierCategoryPreference ranks suppliers for a product category.
type SupplierCategoryPreference struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	BusinessID uuid.UUID `gorm:"column:business_id;type:uuid;not null;index"`
	SupplierID uuid.UUID `gorm:"column:supplier_id;type:uuid;not null"`
	Category   string    `gorm:"column:category;not null"`
	Priority   int       `gorm:"column:priority;not null;default:0"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}
