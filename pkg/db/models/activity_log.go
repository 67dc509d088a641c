package models

import (
	"time"

	"github.com/google/uuid"
)

// ActivityLog is the append-only business-visible audit trail.
type ActivityLog struct {
	ID                   uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	BusinessID           uuid.UUID  `gorm:"column:business_id;type:uuid;not null;index"`
	ProcurementRequestID *uuid.UUID `gorm:"column:procurement_request_id;type:uuid"`
	Action               string     `gorm:"column:action;not null"`
	Detail               string     `gorm:"column:detail;type:text;not null;default:''"`
	CreatedAt            time.Time  `gorm:"column:created_at;autoCreateTime"`
}
