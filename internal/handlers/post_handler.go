package handlers

import (
	"errors"
	"net/http"

	"github.com/kollect-app/kollect/backend/internal/engagement"
	"github.com/kollect-app/kollect/backend/internal/models"
	"github.com/kollect-app/kollect/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// PostHandler handles post CRUD HTTP requests
type PostHandler struct {
	postRepository repositories.PostRepository
	userRepository repositories.UserRepository
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(postRepo repositories.PostRepository, userRepo repositories.UserRepository) *PostHandler {
	return &PostHandler{
		postRepository: postRepo,
		userRepository: userRepo,
	}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("/posts", h.CreatePost)
	g.GET("/posts/:id", h.GetPost)
	g.DELETE("/posts/:id", h.DeletePost)
	g.GET("/users/:username/posts", h.GetUserPosts)
}

// EnrichedPost is a post with author info and viewer-specific flags. Likes
// and saves are exposed as derived counts, not member lists.
type EnrichedPost struct {
	models.Post
	Author        models.UserCompact `json:"author"`
	LikesCount    int                `json:"likes_count"`
	SavesCount    int                `json:"saves_count"`
	CommentsCount int                `json:"comments_count"`
	IsLiked       bool               `json:"is_liked"`
	IsSaved       bool               `json:"is_saved"`
}

// enrichPost builds the response shape for one post for the given viewer
func enrichPost(post models.Post, author models.UserCompact, viewerID string) EnrichedPost {
	return EnrichedPost{
		Post:          post,
		Author:        author,
		LikesCount:    len(post.Likes),
		SavesCount:    len(post.Saves),
		CommentsCount: len(post.Comments),
		IsLiked:       engagement.Contains(post.Likes, viewerID),
		IsSaved:       engagement.Contains(post.Saves, viewerID),
	}
}

// CreatePost creates a new post authored by the current user
func (h *PostHandler) CreatePost(c echo.Context) error {
	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	post := &models.Post{
		UserID:    getUserIDFromContext(c),
		Content:   req.Content,
		ImageURLs: req.ImageURLs,
		VideoURLs: req.VideoURLs,
	}
	if err := h.postRepository.CreatePost(c.Request().Context(), post); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": echo.Map{"post": post}})
}

// GetPost retrieves a single post with author info and viewer flags
func (h *PostHandler) GetPost(c echo.Context) error {
	post, err := h.postRepository.GetPostByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	var author models.UserCompact
	if user, err := h.userRepository.GetUserByID(c.Request().Context(), post.UserID); err == nil {
		author = user.ToCompact()
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"post": enrichPost(*post, author, getUserIDFromContext(c))},
	})
}

// DeletePost deletes a post owned by the current user
func (h *PostHandler) DeletePost(c echo.Context) error {
	post, err := h.postRepository.GetPostByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if post.UserID != getUserIDFromContext(c) {
		return echo.NewHTTPError(http.StatusForbidden, "you can only delete your own posts")
	}

	if err := h.postRepository.DeletePost(c.Request().Context(), c.Param("id")); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"deleted": true}})
}

// GetUserPosts lists a user's posts by username
func (h *PostHandler) GetUserPosts(c echo.Context) error {
	user, err := h.userRepository.GetUserByUsername(c.Request().Context(), c.Param("username"))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "user not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	posts, err := h.postRepository.GetPostsByUserID(c.Request().Context(), user.ID.Hex(), 0, 100)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	viewerID := getUserIDFromContext(c)
	author := user.ToCompact()
	enriched := make([]EnrichedPost, len(posts))
	for i, p := range posts {
		enriched[i] = enrichPost(p, author, viewerID)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"posts": enriched}})
}
