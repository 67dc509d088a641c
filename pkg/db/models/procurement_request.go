package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/surtidoapp/procurement-backend/pkg/enums"
)

// ProcurementRequest tracks one sourcing need from trigger to terminal
// state. Rows are never deleted; terminal requests remain as audit records.
type ProcurementRequest struct {
	ID                 uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	BusinessID         uuid.UUID           `gorm:"column:business_id;type:uuid;not null;index"`
	ProductID          uuid.UUID           `gorm:"column:product_id;type:uuid;not null"`
	Quantity           int                 `gorm:"column:quantity;not null"`
	TriggerType        enums.TriggerType   `gorm:"column:trigger_type;type:request_trigger_type;not null"`
	Urgency            enums.Urgency       `gorm:"column:urgency;type:request_urgency;not null;default:'normal'"`
	Status             enums.RequestStatus `gorm:"column:status;type:procurement_request_status;not null;default:'waiting_for_quotes'"`
	RecommendedQuoteID *uuid.UUID          `gorm:"column:recommended_quote_id;type:uuid"`
	Notes              string              `gorm:"column:notes;type:text;not null;default:''"`
	CreatedAt          time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
