package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/surtidoapp/procurement-backend/pkg/enums"
)

// SupplierQuote is one supplier's offer against a procurement request.
// Rows are immutable after insert except for Score, which the scoring
// engine rewrites in bulk whenever a new quote lands on the same request.
type SupplierQuote struct {
	ID                   uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ProcurementRequestID uuid.UUID         `gorm:"column:procurement_request_id;type:uuid;not null;index"`
	SupplierID           uuid.UUID         `gorm:"column:supplier_id;type:uuid;not null"`
	PricePerUnit         decimal.Decimal   `gorm:"column:price_per_unit;type:numeric(12,2);not null"`
	Available            bool              `gorm:"column:available;not null"`
	DeliveryTimeDays     *int              `gorm:"column:delivery_time_days"`
	Currency             string            `gorm:"column:currency;not null;default:'MXN'"`
	QuoteSource          enums.QuoteSource `gorm:"column:quote_source;type:quote_source;not null;default:'relay-message'"`
	Score                int               `gorm:"column:score;not null;default:0"`
	RawMessage           *string           `gorm:"column:raw_message;type:text"`
	CreatedAt            time.Time         `gorm:"column:created_at;autoCreateTime"`
}
