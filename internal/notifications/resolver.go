package notifications

import (
	"github.com/google/uuid"

	"github.com/surtidoapp/procurement-backend/pkg/db/models"
)

// resolveRecipients returns the deduplicated set of user ids entitled to be
// notified for a business: the owner plus any member holding a privileged
// role. When that yields nobody, every member is notified. An empty result
// is not an error; it simply means zero notifications go out.
func resolveRecipients(ownerID uuid.UUID, members []models.BusinessMember) []uuid.UUID {
	seen := map[uuid.UUID]bool{}
	var recipients []uuid.UUID

	add := func(id uuid.UUID) {
		if id == uuid.Nil || seen[id] {
			return
		}
		seen[id] = true
		recipients = append(recipients, id)
	}

	add(ownerID)
	for _, m := range members {
		if m.Role.IsPrivileged() {
			add(m.UserID)
		}
	}
	if len(recipients) > 0 {
		return recipients
	}

	for _, m := range members {
		add(m.UserID)
	}
	return recipients
}
