package services

import (
	"context"
	"errors"
	"testing"

	"github.com/kollect-app/kollect/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubNotificationRepo struct {
	err      error
	recorded int
	last     *models.Notification
}

func (s *stubNotificationRepo) RecordEvent(ctx context.Context, recipientID, actorID, eventType, targetID, message string) (*models.Notification, error) {
	s.recorded++
	if s.err != nil {
		return nil, s.err
	}
	if recipientID == actorID {
		return nil, nil
	}
	s.last = &models.Notification{
		RecipientID: recipientID,
		ActorID:     actorID,
		Type:        eventType,
		TargetID:    targetID,
		Message:     message,
	}
	return s.last, nil
}

func (s *stubNotificationRepo) GetByRecipient(ctx context.Context, recipientID string, page, limit int) ([]models.Notification, int64, error) {
	return nil, 0, nil
}

func (s *stubNotificationRepo) GetUnreadCount(ctx context.Context, recipientID string) (int64, error) {
	return 0, nil
}

func (s *stubNotificationRepo) MarkAsRead(ctx context.Context, notificationID, recipientID string) error {
	return nil
}

func (s *stubNotificationRepo) MarkAllAsRead(ctx context.Context, recipientID string) error {
	return nil
}

func TestNotifierRecordsEvent(t *testing.T) {
	repo := &stubNotificationRepo{}
	notifier := NewNotifier(repo)

	notification := notifier.Record(context.Background(), "rcpt", "actor", models.NotificationTypeLike, "post1", "actor liked your post")
	require.NotNil(t, notification)
	assert.Equal(t, "rcpt", notification.RecipientID)
	assert.Equal(t, models.NotificationTypeLike, notification.Type)
	assert.Equal(t, 1, repo.recorded)
}

func TestNotifierSwallowsRepositoryFailure(t *testing.T) {
	repo := &stubNotificationRepo{err: errors.New("mongo down")}
	notifier := NewNotifier(repo)

	notification := notifier.Record(context.Background(), "rcpt", "actor", models.NotificationTypeFollow, "", "actor followed you")
	assert.Nil(t, notification)
	assert.Equal(t, 1, repo.recorded)
}

func TestNotifierSelfEventReturnsNil(t *testing.T) {
	repo := &stubNotificationRepo{}
	notifier := NewNotifier(repo)

	notification := notifier.Record(context.Background(), "u1", "u1", models.NotificationTypeLike, "post1", "noop")
	assert.Nil(t, notification)
}
