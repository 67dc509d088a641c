package notifications

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/surtidoapp/procurement-backend/pkg/db/models"
	"github.com/surtidoapp/procurement-backend/pkg/enums"
	"github.com/surtidoapp/procurement-backend/pkg/logger"
)

type stubNotificationsRepo struct {
	business      *models.Business
	members       []models.BusinessMember
	notifications []models.Notification
	activity      []models.ActivityLog

	createNotificationErr error
	activityErr           error
}

func (s *stubNotificationsRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubNotificationsRepo) CreateNotification(ctx context.Context, notification *models.Notification) error {
	if s.createNotificationErr != nil {
		return s.createNotificationErr
	}
	s.notifications = append(s.notifications, *notification)
	return nil
}

func (s *stubNotificationsRepo) CreateActivityLog(ctx context.Context, entry *models.ActivityLog) error {
	if s.activityErr != nil {
		return s.activityErr
	}
	s.activity = append(s.activity, *entry)
	return nil
}

func (s *stubNotificationsRepo) FindBusiness(ctx context.Context, id uuid.UUID) (*models.Business, error) {
	if s.business == nil || s.business.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.business, nil
}

func (s *stubNotificationsRepo) ListMembers(ctx context.Context, businessID uuid.UUID) ([]models.BusinessMember, error) {
	return s.members, nil
}

type stubPublisher struct {
	published int
	err       error
}

func (p *stubPublisher) Publish(ctx context.Context, data []byte, attrs map[string]string) error {
	p.published++
	return p.err
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: zerolog.ErrorLevel, Output: io.Discard})
}

func member(businessID uuid.UUID, role enums.MemberRole) models.BusinessMember {
	return models.BusinessMember{
		ID:         uuid.New(),
		BusinessID: businessID,
		UserID:     uuid.New(),
		Role:       role,
	}
}

func TestResolveRecipients_PrivilegedRolesPlusOwner(t *testing.T) {
	businessID := uuid.New()
	ownerID := uuid.New()
	admin := member(businessID, enums.MemberRoleAdmin)
	regular := member(businessID, enums.MemberRoleMember)

	got := resolveRecipients(ownerID, []models.BusinessMember{admin, regular})
	if len(got) != 2 {
		t.Fatalf("expected owner + admin, got %d recipients", len(got))
	}
	if got[0] != ownerID || got[1] != admin.UserID {
		t.Fatalf("unexpected recipients %v", got)
	}
}

func TestResolveRecipients_AllMembersFallback(t *testing.T) {
	businessID := uuid.New()
	a := member(businessID, enums.MemberRoleMember)
	b := member(businessID, enums.MemberRoleMember)

	got := resolveRecipients(uuid.Nil, []models.BusinessMember{a, b})
	if len(got) != 2 {
		t.Fatalf("expected all-members fallback, got %d", len(got))
	}
}

func TestResolveRecipients_DedupesOwnerMembership(t *testing.T) {
	businessID := uuid.New()
	owner := member(businessID, enums.MemberRoleOwner)

	got := resolveRecipients(owner.UserID, []models.BusinessMember{owner})
	if len(got) != 1 {
		t.Fatalf("owner listed as member must not be duplicated, got %v", got)
	}
}

func TestResolveRecipients_NoMembersYieldsEmpty(t *testing.T) {
	if got := resolveRecipients(uuid.Nil, nil); len(got) != 0 {
		t.Fatalf("expected zero recipients, got %v", got)
	}
}

func TestPublish_FansOutToResolvedRecipients(t *testing.T) {
	businessID := uuid.New()
	ownerID := uuid.New()
	admin := member(businessID, enums.MemberRoleAdmin)

	repo := &stubNotificationsRepo{
		business: &models.Business{ID: businessID, OwnerID: ownerID},
		members:  []models.BusinessMember{admin},
	}
	events := &stubPublisher{}
	svc, err := NewService(repo, testLogger(), events)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	requestID := uuid.New()
	svc.Publish(context.Background(), Event{
		BusinessID:           businessID,
		ProcurementRequestID: &requestID,
		Type:                 enums.NotificationTypeQuoteReceived,
		Title:                "New quote received",
		Message:              "Proveedor quoted 80.00 MXN",
	})

	if len(repo.activity) != 1 {
		t.Fatalf("expected one activity log entry, got %d", len(repo.activity))
	}
	if repo.activity[0].Action != string(enums.NotificationTypeQuoteReceived) {
		t.Fatalf("unexpected activity action %q", repo.activity[0].Action)
	}
	if len(repo.notifications) != 2 {
		t.Fatalf("expected owner + admin notifications, got %d", len(repo.notifications))
	}
	if events.published != 1 {
		t.Fatalf("expected one forwarded event, got %d", events.published)
	}
}

func TestPublish_SwallowsEveryFailure(t *testing.T) {
	businessID := uuid.New()
	repo := &stubNotificationsRepo{
		business:              &models.Business{ID: businessID, OwnerID: uuid.New()},
		createNotificationErr: errors.New("insert failed"),
		activityErr:           errors.New("insert failed"),
	}
	events := &stubPublisher{err: errors.New("broker down")}
	svc, _ := NewService(repo, testLogger(), events)

	// Must not panic or surface anything.
	svc.Publish(context.Background(), Event{
		BusinessID: businessID,
		Type:       enums.NotificationTypeOrderConfirmed,
		Title:      "Order confirmed",
	})
}

func TestPublish_NoRecipientsIsNotAnError(t *testing.T) {
	businessID := uuid.New()
	repo := &stubNotificationsRepo{}

	svc, _ := NewService(repo, testLogger(), nil)
	svc.Publish(context.Background(), Event{
		BusinessID: businessID,
		Type:       enums.NotificationTypeRequestUpdate,
		Title:      "Update",
	})

	if len(repo.notifications) != 0 {
		t.Fatalf("expected zero notifications, got %d", len(repo.notifications))
	}
	if len(repo.activity) != 1 {
		t.Fatal("the activity log entry is still written")
	}
}
