package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/surtidoapp/procurement-backend/pkg/enums"
)

// Notification stores in-app notification payloads scoped to one recipient
// of a business.
type Notification struct {
	ID         uuid.UUID              `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	BusinessID uuid.UUID              `gorm:"column:business_id;type:uuid;not null;index"`
	UserID     uuid.UUID              `gorm:"column:user_id;type:uuid;not null"`
	Type       enums.NotificationType `gorm:"column:type;type:notification_type;not null"`
	Title      string                 `gorm:"column:title;type:text;not null"`
	Message    string                 `gorm:"column:message;type:text;not null"`
	ReadAt     *time.Time             `gorm:"column:read_at;type:timestamptz"`
	CreatedAt  time.Time              `gorm:"column:created_at;type:timestamptz;default:now()"`
}
