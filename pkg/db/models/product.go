package models

import (
	"time"

	"github.com/google/uuid"
)

// Product is the catalog entry a procurement request sources.
type Product struct {
	ID                  uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	BusinessID          uuid.UUID  `gorm:"column:business_id;type:uuid;not null;index"`
	Name                string     `gorm:"column:name;not null"`
	Category            string     `gorm:"column:category;not null"`
	Brand               *string    `gorm:"column:brand"`
	PreferredSupplierID *uuid.UUID `gorm:"column:preferred_supplier_id;type:uuid"`
	CreatedAt           time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
