package repositories

import (
	"github.com/kollect-app/kollect/backend/internal/models"
	"gorm.io/gorm"
)

// MessageRepository defines the interface for direct message operations
type MessageRepository interface {
	CreateMessage(message *models.Message) error
	GetConversation(userID, peerID string, limit int) ([]models.Message, error)
	GetConversationHeads(userID string) ([]models.Message, error)
	MarkConversationRead(recipientID, senderID string) error
	GetUnreadCount(recipientID string) (int64, error)
}

// PostgresMessageRepository implements MessageRepository for PostgreSQL
type PostgresMessageRepository struct {
	db *gorm.DB
}

// NewPostgresMessageRepository creates a new PostgresMessageRepository
func NewPostgresMessageRepository(db *gorm.DB) *PostgresMessageRepository {
	return &PostgresMessageRepository{db: db}
}

// CreateMessage stores a new direct message
func (r *PostgresMessageRepository) CreateMessage(message *models.Message) error {
	return r.db.Create(message).Error
}

// GetConversation retrieves the two-way thread between two users, oldest first
func (r *PostgresMessageRepository) GetConversation(userID, peerID string, limit int) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.
		Where("(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)",
			userID, peerID, peerID, userID).
		Order("created_at ASC").
		Limit(limit).
		Find(&messages).Error
	return messages, err
}

// GetConversationHeads returns the latest message of each conversation the
// user participates in, newest conversation first
func (r *PostgresMessageRepository) GetConversationHeads(userID string) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.
		Where("sender_id = ? OR recipient_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var heads []models.Message
	for _, m := range messages {
		peer := m.SenderID
		if peer == userID {
			peer = m.RecipientID
		}
		if seen[peer] {
			continue
		}
		seen[peer] = true
		heads = append(heads, m)
	}
	return heads, nil
}

// MarkConversationRead marks every message from sender to recipient as read
func (r *PostgresMessageRepository) MarkConversationRead(recipientID, senderID string) error {
	return r.db.Model(&models.Message{}).
		Where("recipient_id = ? AND sender_id = ? AND is_read = false", recipientID, senderID).
		Update("is_read", true).Error
}

// GetUnreadCount returns the number of unread messages for the recipient
func (r *PostgresMessageRepository) GetUnreadCount(recipientID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Message{}).
		Where("recipient_id = ? AND is_read = false", recipientID).
		Count(&count).Error
	return count, err
}
