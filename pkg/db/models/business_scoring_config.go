package models

import (
	"time"

	"github.com/google/uuid"
)

// BusinessScoringConfig holds per-business scoring weights. Weights are
// applied as-is; they are not required to sum to 1.
type BusinessScoringConfig struct {
	BusinessID        uuid.UUID `gorm:"column:business_id;type:uuid;primaryKey"`
	PriceWeight       float64   `gorm:"column:price_weight;not null;default:0.4"`
	DeliveryWeight    float64   `gorm:"column:delivery_weight;not null;default:0.3"`
	PriorityWeight    float64   `gorm:"column:priority_weight;not null;default:0.2"`
	ReliabilityWeight float64   `gorm:"column:reliability_weight;not null;default:0.1"`
	UpdatedAt         time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
