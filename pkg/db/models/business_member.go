package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/surtidoapp/procurement-backend/pkg/enums"
)

// BusinessMember links a user to a business with a permissions role.
type BusinessMember struct {
	ID         uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	BusinessID uuid.UUID        `gorm:"column:business_id;type:uuid;not null;index"`
	UserID     uuid.UUID        `gorm:"column:user_id;type:uuid;not null"`
	Role       enums.MemberRole `gorm:"column:role;type:member_role;not null;default:'member'"`
	CreatedAt  time.Time        `gorm:"column:created_at;autoCreateTime"`
}
