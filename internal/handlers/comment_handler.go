package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/kollect-app/kollect/backend/internal/models"
	"github.com/kollect-app/kollect/backend/internal/repositories"
	"github.com/kollect-app/kollect/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// CommentHandler handles HTTP requests related to post comments
type CommentHandler struct {
	postRepository repositories.PostRepository
	notifier       *services.Notifier
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(postRepo repositories.PostRepository, notifier *services.Notifier) *CommentHandler {
	return &CommentHandler{
		postRepository: postRepo,
		notifier:       notifier,
	}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/posts/:id/comments", h.CreateComment)
	g.DELETE("/posts/:id/comments/:commentId", h.DeleteComment)
}

// CreateComment adds a comment to a post
func (h *CommentHandler) CreateComment(c echo.Context) error {
	claims := getClaimsFromContext(c)
	postID := c.Param("id")

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	comment := models.Comment{
		ID:        uuid.NewString(),
		UserID:    claims.UserID,
		Content:   req.Content,
		CreatedAt: time.Now(),
	}

	post, err := h.postRepository.AddComment(c.Request().Context(), postID, comment)
	if err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.notifier.Record(c.Request().Context(), post.UserID, claims.UserID,
		models.NotificationTypeComment, postID,
		claims.Username+" commented on your post")

	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"data": echo.Map{
			"comment":       comment,
			"commentsCount": len(post.Comments),
		},
	})
}

// DeleteComment removes the caller's own comment from a post
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	err := h.postRepository.DeleteComment(c.Request().Context(),
		c.Param("id"), c.Param("commentId"), getUserIDFromContext(c))
	if err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "post not found")
		}
		if errors.Is(err, repositories.ErrCommentNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "comment not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"deleted": true}})
}
