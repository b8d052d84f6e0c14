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

// WorkHandler handles deliverable tracking HTTP requests
type WorkHandler struct {
	workRepository repositories.WorkRepository
	notifier       *services.Notifier
}

// NewWorkHandler creates a new WorkHandler
func NewWorkHandler(workRepo repositories.WorkRepository, notifier *services.Notifier) *WorkHandler {
	return &WorkHandler{
		workRepository: workRepo,
		notifier:       notifier,
	}
}

// RegisterWorkRoutes registers work-related routes
func (h *WorkHandler) RegisterWorkRoutes(g *echo.Group) {
	g.GET("/works", h.GetWorks)
	g.GET("/works/:id", h.GetWork)
	g.POST("/works/:id/submit", h.SubmitContent)
	g.PUT("/works/:id/submissions/:submissionId", h.ReviewSubmission)
}

// GetWorks lists the current user's work records: own deliverables for a
// KOL, works across owned campaigns for a brand
func (h *WorkHandler) GetWorks(c echo.Context) error {
	claims := getClaimsFromContext(c)

	var (
		works []models.Work
		err   error
	)
	if claims.Role == models.RoleBrand {
		works, err = h.workRepository.GetWorksByBrand(c.Request().Context(), claims.UserID)
	} else {
		works, err = h.workRepository.GetWorksByKol(c.Request().Context(), claims.UserID)
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"works": works}})
}

// GetWork retrieves a single work record; participants only
func (h *WorkHandler) GetWork(c echo.Context) error {
	work, err := h.loadWork(c)
	if err != nil {
		return err
	}

	currentUserID := getUserIDFromContext(c)
	if work.KolID != currentUserID && work.BrandID != currentUserID {
		return echo.NewHTTPError(http.StatusForbidden, "you are not a participant of this work")
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"work": work}})
}

// SubmitContent appends a submission to one of the work's deliverables and
// recomputes progress and status from the full deliverable list
func (h *WorkHandler) SubmitContent(c echo.Context) error {
	claims := getClaimsFromContext(c)

	var req models.SubmitContentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	work, err := h.loadWork(c)
	if err != nil {
		return err
	}
	if work.KolID != claims.UserID {
		return echo.NewHTTPError(http.StatusForbidden, "you can only submit to your own work")
	}
	if work.Status == models.WorkStatusCompleted || work.Status == models.WorkStatusRejected {
		return echo.NewHTTPError(http.StatusBadRequest, "work is no longer accepting submissions")
	}

	var deliverable *models.Deliverable
	for i := range work.Deliverables {
		if work.Deliverables[i].ID == req.DeliverableID {
			deliverable = &work.Deliverables[i]
			break
		}
	}
	if deliverable == nil {
		return echo.NewHTTPError(http.StatusNotFound, "deliverable not found")
	}

	submission := models.Submission{
		ID:          uuid.NewString(),
		URL:         req.URL,
		Caption:     req.Caption,
		Status:      models.SubmissionStatusPending,
		SubmittedAt: time.Now(),
	}
	deliverable.Submissions = append(deliverable.Submissions, submission)
	work.Recompute()

	if err := h.workRepository.SaveProgress(c.Request().Context(), work); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.notifier.Record(c.Request().Context(), work.BrandID, claims.UserID,
		models.NotificationTypeSubmission, work.ID.Hex(),
		claims.Username+" submitted content for review")

	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"data": echo.Map{
			"submission": submission,
			"work":       work,
		},
	})
}

// ReviewSubmission lets the campaign's brand approve or reject a submission,
// then recomputes progress. Approving the final submission completes the work.
func (h *WorkHandler) ReviewSubmission(c echo.Context) error {
	claims := getClaimsFromContext(c)

	var req models.ReviewSubmissionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	work, err := h.loadWork(c)
	if err != nil {
		return err
	}
	if work.BrandID != claims.UserID {
		return echo.NewHTTPError(http.StatusForbidden, "only the campaign brand can review submissions")
	}

	var submission *models.Submission
	for i := range work.Deliverables {
		for j := range work.Deliverables[i].Submissions {
			if work.Deliverables[i].Submissions[j].ID == c.Param("submissionId") {
				submission = &work.Deliverables[i].Submissions[j]
			}
		}
	}
	if submission == nil {
		return echo.NewHTTPError(http.StatusNotFound, "submission not found")
	}

	submission.Status = req.Status
	work.Recompute()
	if work.Status == models.WorkStatusInReview && work.Progress >= 100 && work.AllApproved() {
		work.Status = models.WorkStatusCompleted
	}

	if err := h.workRepository.SaveProgress(c.Request().Context(), work); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	message := "your submission was approved"
	if req.Status == models.SubmissionStatusRejected {
		message = "your submission was rejected"
	}
	h.notifier.Record(c.Request().Context(), work.KolID, claims.UserID,
		models.NotificationTypeWorkUpdate, work.ID.Hex(), message)

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"work": work}})
}

// loadWork fetches the work record from the :id param, mapping a miss to 404
func (h *WorkHandler) loadWork(c echo.Context) (*models.Work, error) {
	work, err := h.workRepository.GetWorkByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repositories.ErrWorkNotFound) {
			return nil, echo.NewHTTPError(http.StatusNotFound, "work not found")
		}
		return nil, echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return work, nil
}
