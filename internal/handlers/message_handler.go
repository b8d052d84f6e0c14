package handlers

import (
	"errors"
	"net/http"

	"github.com/kollect-app/kollect/backend/internal/models"
	"github.com/kollect-app/kollect/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// MessageHandler handles direct message HTTP requests
type MessageHandler struct {
	messageRepository repositories.MessageRepository
	userRepository    repositories.UserRepository
}

// NewMessageHandler creates a new MessageHandler
func NewMessageHandler(messageRepo repositories.MessageRepository, userRepo repositories.UserRepository) *MessageHandler {
	return &MessageHandler{
		messageRepository: messageRepo,
		userRepository:    userRepo,
	}
}

// RegisterMessageRoutes registers message-related routes
func (h *MessageHandler) RegisterMessageRoutes(g *echo.Group) {
	g.GET("/messages", h.GetConversations)
	g.GET("/messages/:username", h.GetConversation)
	g.POST("/messages/:username", h.SendMessage)
}

// ConversationHead is the latest message of a conversation plus the peer
type ConversationHead struct {
	User        models.UserCompact `json:"user"`
	LastMessage models.Message     `json:"last_message"`
}

// GetConversations lists the user's conversations, newest first
func (h *MessageHandler) GetConversations(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	heads, err := h.messageRepository.GetConversationHeads(currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	conversations := make([]ConversationHead, 0, len(heads))
	for _, m := range heads {
		peerID := m.SenderID
		if peerID == currentUserID {
			peerID = m.RecipientID
		}
		head := ConversationHead{LastMessage: m}
		if user, err := h.userRepository.GetUserByID(c.Request().Context(), peerID); err == nil {
			head.User = user.ToCompact()
		}
		conversations = append(conversations, head)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"conversations": conversations}})
}

// GetConversation returns the thread with the named user and marks their
// messages as read
func (h *MessageHandler) GetConversation(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	peer, err := h.userRepository.GetUserByUsername(c.Request().Context(), c.Param("username"))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "user not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	peerID := peer.ID.Hex()

	if err := h.messageRepository.MarkConversationRead(currentUserID, peerID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	messages, err := h.messageRepository.GetConversation(currentUserID, peerID, 200)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"user":     peer.ToCompact(),
			"messages": messages,
		},
	})
}

// SendMessage sends a direct message to the named user
func (h *MessageHandler) SendMessage(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	var req models.SendMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	peer, err := h.userRepository.GetUserByUsername(c.Request().Context(), c.Param("username"))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "user not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	peerID := peer.ID.Hex()
	if peerID == currentUserID {
		return echo.NewHTTPError(http.StatusBadRequest, "cannot message yourself")
	}

	message := &models.Message{
		SenderID:    currentUserID,
		RecipientID: peerID,
		Body:        req.Body,
	}
	if err := h.messageRepository.CreateMessage(message); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": echo.Map{"message": message}})
}
