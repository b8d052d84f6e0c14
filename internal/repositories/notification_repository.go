package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kollect-app/kollect/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// notificationDedupWindow is the trailing span during which a repeated event
// refreshes an existing notification instead of inserting a duplicate
const notificationDedupWindow = 24 * time.Hour

// ErrNotificationNotFound is returned when a notification does not exist or
// does not belong to the caller
var ErrNotificationNotFound = errors.New("notification not found")

// NotificationRepository defines the interface for notification operations
type NotificationRepository interface {
	RecordEvent(ctx context.Context, recipientID, actorID, eventType, targetID, message string) (*models.Notification, error)
	GetByRecipient(ctx context.Context, recipientID string, page, limit int) ([]models.Notification, int64, error)
	GetUnreadCount(ctx context.Context, recipientID string) (int64, error)
	MarkAsRead(ctx context.Context, notificationID, recipientID string) error
	MarkAllAsRead(ctx context.Context, recipientID string) error
}

// MongoNotificationRepository implements NotificationRepository for MongoDB
type MongoNotificationRepository struct {
	collection *mongo.Collection
}

// NewMongoNotificationRepository creates a new MongoNotificationRepository
func NewMongoNotificationRepository(db *mongo.Database) *MongoNotificationRepository {
	return &MongoNotificationRepository{collection: db.Collection("notifications")}
}

// RecordEvent records a notification for the recipient, deduplicating on
// (recipient, actor, type, target) within the trailing window. A hit
// refreshes the timestamp and clears the read flag so the repeated action
// resurfaces as new; a miss inserts a fresh unread record. Both cases are one
// atomic upsert, so racing requests cannot create duplicates. Self-events
// (recipient == actor) are a no-op and return nil.
func (r *MongoNotificationRepository) RecordEvent(ctx context.Context, recipientID, actorID, eventType, targetID, message string) (*models.Notification, error) {
	if recipientID == actorID {
		return nil, nil
	}

	now := time.Now().UTC()
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var notification models.Notification
	err := r.collection.FindOneAndUpdate(ctx,
		dedupFilter(recipientID, actorID, eventType, targetID, now),
		dedupUpdate(message, now),
		opts,
	).Decode(&notification)
	if err != nil {
		return nil, err
	}
	return &notification, nil
}

// dedupFilter matches an existing notification for the same event created
// within the dedup window. The equality keys double as the inserted
// document's identity fields when the upsert misses.
func dedupFilter(recipientID, actorID, eventType, targetID string, now time.Time) bson.M {
	return bson.M{
		"recipient_id": recipientID,
		"actor_id":     actorID,
		"type":         eventType,
		"target_id":    targetID,
		"created_at":   bson.M{"$gte": now.Add(-notificationDedupWindow)},
	}
}

// dedupUpdate refreshes the timestamp, clears the read flag and rewrites the
// message, for both the update and the insert branch of the upsert
func dedupUpdate(message string, now time.Time) bson.M {
	return bson.M{
		"$set": bson.M{
			"message":    message,
			"is_read":    false,
			"created_at": now,
		},
	}
}

// GetByRecipient returns the recipient's notifications, newest first, with
// the total count for pagination
func (r *MongoNotificationRepository) GetByRecipient(ctx context.Context, recipientID string, page, limit int) ([]models.Notification, int64, error) {
	filter := bson.M{"recipient_id": recipientID}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	skip := int64((page - 1) * limit)
	findOptions := options.Find().
		SetSkip(skip).
		SetLimit(int64(limit)).
		SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var notifications []models.Notification
	if err = cursor.All(ctx, &notifications); err != nil {
		return nil, 0, err
	}
	return notifications, total, nil
}

// GetUnreadCount returns the number of unread notifications for the recipient
func (r *MongoNotificationRepository) GetUnreadCount(ctx context.Context, recipientID string) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"recipient_id": recipientID, "is_read": false})
}

// MarkAsRead marks one notification as read, scoped to the recipient
func (r *MongoNotificationRepository) MarkAsRead(ctx context.Context, notificationID, recipientID string) error {
	objID, err := primitive.ObjectIDFromHex(notificationID)
	if err != nil {
		return fmt.Errorf("invalid notification ID format: %w", err)
	}

	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": objID, "recipient_id": recipientID},
		bson.M{"$set": bson.M{"is_read": true}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

// MarkAllAsRead marks all of the recipient's notifications as read
func (r *MongoNotificationRepository) MarkAllAsRead(ctx context.Context, recipientID string) error {
	_, err := r.collection.UpdateMany(ctx,
		bson.M{"recipient_id": recipientID, "is_read": false},
		bson.M{"$set": bson.M{"is_read": true}},
	)
	return err
}
