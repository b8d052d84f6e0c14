package services

import (
	"context"
	"log"

	"github.com/kollect-app/kollect/backend/internal/models"
	"github.com/kollect-app/kollect/backend/internal/repositories"
)

// Notifier records notifications as a best-effort side effect. A failure is
// logged and discarded so the primary action (like, follow, submission) is
// never blocked by the notification path.
type Notifier struct {
	notifications repositories.NotificationRepository
}

// NewNotifier creates a new Notifier
func NewNotifier(notificationRepo repositories.NotificationRepository) *Notifier {
	return &Notifier{notifications: notificationRepo}
}

// Record writes a deduplicated notification for the recipient. Returns the
// stored record, or nil when the event was a self-notification or the write
// failed.
func (n *Notifier) Record(ctx context.Context, recipientID, actorID, eventType, targetID, message string) *models.Notification {
	notification, err := n.notifications.RecordEvent(ctx, recipientID, actorID, eventType, targetID, message)
	if err != nil {
		log.Printf("notifier: failed to record %s event for user %s: %v", eventType, recipientID, err)
		return nil
	}
	return notification
}
