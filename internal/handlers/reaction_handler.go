package handlers

import (
	"errors"
	"net/http"

	"github.com/kollect-app/kollect/backend/internal/models"
	"github.com/kollect-app/kollect/backend/internal/repositories"
	"github.com/kollect-app/kollect/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// ReactionHandler handles the like and save toggles on posts. Both routes go
// through the same reactor-set toggle; only the field name and the
// notification side effect differ.
type ReactionHandler struct {
	postRepository repositories.PostRepository
	notifier       *services.Notifier
}

// NewReactionHandler creates a new ReactionHandler
func NewReactionHandler(postRepo repositories.PostRepository, notifier *services.Notifier) *ReactionHandler {
	return &ReactionHandler{
		postRepository: postRepo,
		notifier:       notifier,
	}
}

// RegisterReactionRoutes registers like/save routes
func (h *ReactionHandler) RegisterReactionRoutes(g *echo.Group) {
	g.POST("/posts/:id/like", h.ToggleLike)
	g.POST("/posts/:id/save", h.ToggleSave)
	g.DELETE("/posts/:id/save", h.Unsave)
}

// ToggleLike likes the post, or unlikes when already liked
func (h *ReactionHandler) ToggleLike(c echo.Context) error {
	claims := getClaimsFromContext(c)
	postID := c.Param("id")

	post, liked, err := h.postRepository.ToggleReaction(c.Request().Context(), postID, models.ReactionLikes, claims.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if liked {
		h.notifier.Record(c.Request().Context(), post.UserID, claims.UserID,
			models.NotificationTypeLike, postID,
			claims.Username+" liked your post")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"isLiked":    liked,
			"likesCount": len(post.Likes),
		},
	})
}

// ToggleSave saves the post, or unsaves when already saved
func (h *ReactionHandler) ToggleSave(c echo.Context) error {
	claims := getClaimsFromContext(c)

	post, saved, err := h.postRepository.ToggleReaction(c.Request().Context(), c.Param("id"), models.ReactionSaves, claims.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"isSaved":    saved,
			"savesCount": len(post.Saves),
		},
	})
}

// Unsave removes the post from the user's saves. Idempotent.
func (h *ReactionHandler) Unsave(c echo.Context) error {
	claims := getClaimsFromContext(c)

	post, err := h.postRepository.RemoveReaction(c.Request().Context(), c.Param("id"), models.ReactionSaves, claims.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"isSaved":    false,
			"savesCount": len(post.Saves),
		},
	})
}
