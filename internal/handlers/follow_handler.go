package handlers

import (
	"errors"
	"net/http"

	"github.com/kollect-app/kollect/backend/internal/models"
	"github.com/kollect-app/kollect/backend/internal/repositories"
	"github.com/kollect-app/kollect/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// FollowHandler handles follow/unfollow HTTP requests
type FollowHandler struct {
	userRepository repositories.UserRepository
	notifier       *services.Notifier
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(userRepo repositories.UserRepository, notifier *services.Notifier) *FollowHandler {
	return &FollowHandler{
		userRepository: userRepo,
		notifier:       notifier,
	}
}

// RegisterFollowRoutes registers follow-related routes
func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group) {
	g.POST("/users/:username/follow", h.ToggleFollow)
}

// ToggleFollow follows the target user, or unfollows when already following.
// A second identical call undoes the first rather than erroring.
func (h *FollowHandler) ToggleFollow(c echo.Context) error {
	claims := getClaimsFromContext(c)

	target, err := h.userRepository.GetUserByUsername(c.Request().Context(), c.Param("username"))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "user not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	targetID := target.ID.Hex()
	if targetID == claims.UserID {
		return echo.NewHTTPError(http.StatusBadRequest, "cannot follow yourself")
	}

	following, followersCount, err := h.userRepository.ToggleFollow(c.Request().Context(), claims.UserID, targetID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if following {
		h.notifier.Record(c.Request().Context(), targetID, claims.UserID,
			models.NotificationTypeFollow, "",
			claims.Username+" started following you")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"following":      following,
			"followersCount": followersCount,
		},
	})
}
