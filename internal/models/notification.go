package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification types
const (
	NotificationTypeLike        = "like"
	NotificationTypeComment     = "comment"
	NotificationTypeFollow      = "follow"
	NotificationTypeApplication = "application"
	NotificationTypeSubmission  = "submission"
	NotificationTypeWorkUpdate  = "work_update"
)

// Notification represents a user notification (MongoDB). Records are
// deduplicated on (recipient, actor, type, target) within a trailing window:
// a repeated event refreshes CreatedAt and clears IsRead instead of inserting
// a duplicate.
type Notification struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	RecipientID string             `json:"recipient_id" bson:"recipient_id"`
	ActorID     string             `json:"actor_id" bson:"actor_id"`
	Type        string             `json:"type" bson:"type"`
	TargetID    string             `json:"target_id,omitempty" bson:"target_id"` // post ID, work ID, etc.
	Message     string             `json:"message" bson:"message"`
	IsRead      bool               `json:"is_read" bson:"is_read"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
}
