package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Campaign statuses
const (
	CampaignStatusOpen   = "open"
	CampaignStatusClosed = "closed"
)

// Campaign represents a brand campaign stored in MongoDB
type Campaign struct {
	ID           primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	BrandID      string             `json:"brand_id" bson:"brand_id"`
	Title        string             `json:"title" bson:"title"`
	Brief        string             `json:"brief" bson:"brief"`
	Budget       int64              `json:"budget" bson:"budget"` // in cents
	Status       string             `json:"status" bson:"status"`
	Deliverables []DeliverableSpec  `json:"deliverables" bson:"deliverables"`
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at" bson:"updated_at"`
}

// DeliverableSpec describes one content requirement of a campaign
type DeliverableSpec struct {
	Type     string `json:"type" bson:"type"` // post, story or video
	Required int    `json:"required" bson:"required"`
}

// CreateCampaignRequest defines the request body for creating a campaign
type CreateCampaignRequest struct {
	Title        string                   `json:"title" validate:"required,min=3,max=120"`
	Brief        string                   `json:"brief" validate:"required,min=10,max=5000"`
	Budget       int64                    `json:"budget" validate:"gte=0"`
	Deliverables []DeliverableSpecRequest `json:"deliverables" validate:"required,min=1,dive"`
}

// DeliverableSpecRequest is one requirement line in a campaign creation request
type DeliverableSpecRequest struct {
	Type     string `json:"type" validate:"required,oneof=post story video"`
	Required int    `json:"required" validate:"required,min=1"`
}
