package models

import (
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Work statuses
const (
	WorkStatusPending   = "pending"
	WorkStatusActive    = "active"
	WorkStatusInReview  = "in_review"
	WorkStatusCompleted = "completed"
	WorkStatusRejected  = "rejected"
)

// Submission statuses
const (
	SubmissionStatusPending  = "pending"
	SubmissionStatusApproved = "approved"
	SubmissionStatusRejected = "rejected"
)

// Work tracks a KOL's deliverables for a campaign (MongoDB)
type Work struct {
	ID           primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	CampaignID   string             `json:"campaign_id" bson:"campaign_id"`
	BrandID      string             `json:"brand_id" bson:"brand_id"`
	KolID        string             `json:"kol_id" bson:"kol_id"`
	Status       string             `json:"status" bson:"status"`
	Deliverables []Deliverable      `json:"deliverables" bson:"deliverables"`
	Progress     int                `json:"progress" bson:"progress"` // percent, 0-100
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at" bson:"updated_at"`
}

// Deliverable is one content requirement within a work record
type Deliverable struct {
	ID          string       `json:"id" bson:"id"`
	Type        string       `json:"type" bson:"type"`
	Required    int          `json:"required" bson:"required"`
	Submitted   int          `json:"submitted" bson:"submitted"`
	Submissions []Submission `json:"submissions" bson:"submissions"`
}

// Submission is an individual piece of submitted content
type Submission struct {
	ID          string    `json:"id" bson:"id"`
	URL         string    `json:"url" bson:"url"`
	Caption     string    `json:"caption,omitempty" bson:"caption,omitempty"`
	Status      string    `json:"status" bson:"status"`
	SubmittedAt time.Time `json:"submitted_at" bson:"submitted_at"`
}

// Recompute rederives the submitted counts, overall progress and status from
// the full deliverable list. It never applies deltas, so rerunning it on
// unchanged state yields the same result.
//
// Submitted counts every non-rejected submission. Progress is
// round(100 * sum(min(submitted, required)) / sum(required)). Status moves
// pending -> active once progress > 0 and to in_review at 100; a work in
// review drops back to active if progress falls below 100 (a submission was
// rejected and needs replacing).
func (w *Work) Recompute() {
	totalRequired := 0
	totalDone := 0
	for i := range w.Deliverables {
		d := &w.Deliverables[i]
		n := 0
		for _, s := range d.Submissions {
			if s.Status != SubmissionStatusRejected {
				n++
			}
		}
		d.Submitted = n

		totalRequired += d.Required
		done := d.Submitted
		if done > d.Required {
			done = d.Required
		}
		totalDone += done
	}

	if totalRequired == 0 {
		w.Progress = 0
		return
	}
	w.Progress = int(math.Round(100 * float64(totalDone) / float64(totalRequired)))

	if w.Progress >= 100 {
		if w.Status == WorkStatusPending || w.Status == WorkStatusActive {
			w.Status = WorkStatusInReview
		}
		return
	}
	if w.Status == WorkStatusInReview {
		w.Status = WorkStatusActive
	}
	if w.Status == WorkStatusPending && w.Progress > 0 {
		w.Status = WorkStatusActive
	}
}

// AllApproved reports whether every required submission has been approved
func (w *Work) AllApproved() bool {
	for _, d := range w.Deliverables {
		approved := 0
		for _, s := range d.Submissions {
			if s.Status == SubmissionStatusApproved {
				approved++
			}
		}
		if approved < d.Required {
			return false
		}
	}
	return true
}

// SubmitContentRequest defines the request body for a deliverable submission
type SubmitContentRequest struct {
	DeliverableID string `json:"deliverable_id" validate:"required"`
	URL           string `json:"url" validate:"required,url"`
	Caption       string `json:"caption,omitempty" validate:"omitempty,max=2200"`
}

// ReviewSubmissionRequest defines the request body for a brand reviewing a submission
type ReviewSubmissionRequest struct {
	Status string `json:"status" validate:"required,oneof=approved rejected"`
}
