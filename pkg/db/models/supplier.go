package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Supplier is a vendor the business can solicit quotes from.
type Supplier struct {
	ID            uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	BusinessID    uuid.UUID      `gorm:"column:business_id;type:uuid;not null;index"`
	Name          string         `gorm:"column:name;not null"`
	Phone         string         `gorm:"column:phone;not null"`
	Email         *string        `gorm:"column:email"`
	Categories    pq.StringArray `gorm:"column:categories;type:text[]"`
	PriorityScore int            `gorm:"column:priority_score;not null;default:0"`
	BrandTier     *int           `gorm:"column:brand_tier"`
	Active        bool           `gorm:"column:active;not null;default:true"`
	CreatedAt     time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
