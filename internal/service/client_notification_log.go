package service

import (
	"time"

	"github.com/MKhiriev/lks-registry/internal/utils"
	"github.com/MKhiriev/lks-registry/models"
)

// DefaultNotificationLimit bounds the notification log when no limit is
// configured.
const DefaultNotificationLimit = 50

// notificationLog maintains the bounded, newest-first log of user actions
// stored in [models.AppState.Notifications].
type notificationLog struct {
	limit int
	ids   *utils.UUIDGenerator
	now   func() time.Time
}

func newNotificationLog(limit int) *notificationLog {
	if limit <= 0 {
		limit = DefaultNotificationLimit
	}
	return &notificationLog{limit: limit, ids: utils.NewUUIDGenerator(), now: time.Now}
}

// Add prepends an unread entry and evicts the oldest entries past the limit.
func (l *notificationLog) Add(state *models.AppState, actor, action, target string) models.Notification {
	n := models.Notification{
		ID:        l.ids.Generate(),
		Actor:     actor,
		Action:    action,
		Target:    target,
		Timestamp: l.now().UTC(),
	}

	entries := make([]models.Notification, 0, min(len(state.Notifications)+1, l.limit))
	entries = append(entries, n)
	for _, existing := range state.Notifications {
		if len(entries) == l.limit {
			break
		}
		entries = append(entries, existing)
	}
	state.Notifications = entries

	return n
}

// MarkAllRead sets the read flag on every entry and reports whether any
// entry changed.
func (l *notificationLog) MarkAllRead(state *models.AppState) bool {
	changed := false
	for i := range state.Notifications {
		if !state.Notifications[i].Read {
			state.Notifications[i].Read = true
			changed = true
		}
	}
	return changed
}

// UnreadCount returns the number of unread entries.
func UnreadCount(notifications []models.Notification) int {
	n := 0
	for _, entry := range notifications {
		if !entry.Read {
			n++
		}
	}
	return n
}
