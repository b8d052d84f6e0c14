package models

import "time"

// Message represents a direct message between two users (PostgreSQL)
type Message struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	SenderID    string    `json:"sender_id" gorm:"size:24;index:idx_msg_pair"`
	RecipientID string    `json:"recipient_id" gorm:"size:24;index:idx_msg_pair"`
	Body        string    `json:"body" gorm:"type:text"`
	IsRead      bool      `json:"is_read" gorm:"default:false;index"`
	CreatedAt   time.Time `json:"created_at" gorm:"index"`
}

// SendMessageRequest defines the request body for sending a direct message
type SendMessageRequest struct {
	Body string `json:"body" validate:"required,min=1,max=2000"`
}
