package notifications

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/surtidoapp/procurement-backend/pkg/db/models"
	"github.com/surtidoapp/procurement-backend/pkg/enums"
	pkgerrors "github.com/surtidoapp/procurement-backend/pkg/errors"
	"github.com/surtidoapp/procurement-backend/pkg/logger"
)

// Event is one business-visible update to fan out.
type Event struct {
	BusinessID           uuid.UUID              `json:"business_id"`
	ProcurementRequestID *uuid.UUID             `json:"procurement_request_id,omitempty"`
	Type                 enums.NotificationType `json:"type"`
	Title                string                 `json:"title"`
	Message              string                 `json:"message"`
}

type eventPublisher interface {
	Publish(ctx context.Context, data []byte, attrs map[string]string) error
}

// Service fans out activity-log entries and per-recipient notifications.
type Service interface {
	Publish(ctx context.Context, event Event)
}

type service struct {
	repo   Repository
	logg   *logger.Logger
	events eventPublisher
}

// NewService wires notification fan-out dependencies. The event publisher is
// optional; when nil, events are persisted but not forwarded.
func NewService(repo Repository, logg *logger.Logger, events eventPublisher) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "notifications repository required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger required")
	}
	return &service{repo: repo, logg: logg, events: events}, nil
}

// Publish is best effort end to end: every failure is logged and swallowed so
// the primary state transition that triggered the event can never be failed
// or rolled back by its notifications.
func (s *service) Publish(ctx context.Context, event Event) {
	ctx = s.logg.WithFields(ctx, map[string]any{
		"business_id":       event.BusinessID.String(),
		"notification_type": string(event.Type),
	})

	entry := &models.ActivityLog{
		BusinessID:           event.BusinessID,
		ProcurementRequestID: event.ProcurementRequestID,
		Action:               string(event.Type),
		Detail:               event.Message,
	}
	if err := s.repo.CreateActivityLog(ctx, entry); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "notifications.activity_log.failed")
	}

	for _, userID := range s.recipients(ctx, event.BusinessID) {
		notification := &models.Notification{
			BusinessID: event.BusinessID,
			UserID:     userID,
			Type:       event.Type,
			Title:      event.Title,
			Message:    event.Message,
		}
		if err := s.repo.CreateNotification(ctx, notification); err != nil {
			s.logg.Warn(s.logg.WithFields(ctx, map[string]any{
				"user_id": userID.String(),
				"error":   err.Error(),
			}), "notifications.create.failed")
		}
	}

	s.forward(ctx, event)
}

func (s *service) recipients(ctx context.Context, businessID uuid.UUID) []uuid.UUID {
	ownerID := uuid.Nil
	if business, err := s.repo.FindBusiness(ctx, businessID); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "notifications.business_lookup.failed")
	} else {
		ownerID = business.OwnerID
	}

	members, err := s.repo.ListMembers(ctx, businessID)
	if err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "notifications.members_lookup.failed")
	}

	return resolveRecipients(ownerID, members)
}

func (s *service) forward(ctx context.Context, event Event) {
	if s.events == nil {
		return
	}
	payload, err := json.Marshal(event)
	if err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "notifications.event_encode.failed")
		return
	}
	attrs := map[string]string{"type": string(event.Type)}
	if err := s.events.Publish(ctx, payload, attrs); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "notifications.event_publish.failed")
	}
}
