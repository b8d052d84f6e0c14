package handlers

import (
	"math"
	"net/http"
	"strconv"

	"github.com/kollect-app/kollect/backend/internal/models"
	"github.com/kollect-app/kollect/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// FeedHandler handles the explore feed
type FeedHandler struct {
	postRepository repositories.PostRepository
	userRepository repositories.UserRepository
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(postRepo repositories.PostRepository, userRepo repositories.UserRepository) *FeedHandler {
	return &FeedHandler{
		postRepository: postRepo,
		userRepository: userRepo,
	}
}

// RegisterFeedRoutes registers feed-related routes
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/explore/feed", h.GetExploreFeed)
}

// GetExploreFeed returns paginated posts across all users, enriched with
// author info and viewer flags
func (h *FeedHandler) GetExploreFeed(c echo.Context) error {
	viewerID := getUserIDFromContext(c)

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 10
	}
	skip := int64((page - 1) * limit)

	posts, err := h.postRepository.GetExplorePosts(c.Request().Context(), skip, int64(limit))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	totalItems, err := h.postRepository.CountPosts(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// Build the author map; authors repeated across posts are fetched once
	authorCache := make(map[string]models.UserCompact)
	for _, p := range posts {
		if _, ok := authorCache[p.UserID]; ok {
			continue
		}
		if user, err := h.userRepository.GetUserByID(c.Request().Context(), p.UserID); err == nil {
			authorCache[p.UserID] = user.ToCompact()
		}
	}

	enriched := make([]EnrichedPost, len(posts))
	for i, p := range posts {
		enriched[i] = enrichPost(p, authorCache[p.UserID], viewerID)
	}

	totalPages := int(math.Ceil(float64(totalItems) / float64(limit)))

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"posts": enriched,
		},
		"meta": echo.Map{
			"currentPage":     page,
			"totalPages":      totalPages,
			"totalItems":      totalItems,
			"itemsPerPage":    limit,
			"hasNextPage":     page < totalPages,
			"hasPreviousPage": page > 1,
		},
	})
}
