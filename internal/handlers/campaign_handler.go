package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/kollect-app/kollect/backend/internal/models"
	"github.com/kollect-app/kollect/backend/internal/repositories"
	"github.com/kollect-app/kollect/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// CampaignHandler handles brand campaign HTTP requests
type CampaignHandler struct {
	campaignRepository repositories.CampaignRepository
	workRepository     repositories.WorkRepository
	userRepository     repositories.UserRepository
	notifier           *services.Notifier
}

// NewCampaignHandler creates a new CampaignHandler
func NewCampaignHandler(
	campaignRepo repositories.CampaignRepository,
	workRepo repositories.WorkRepository,
	userRepo repositories.UserRepository,
	notifier *services.Notifier,
) *CampaignHandler {
	return &CampaignHandler{
		campaignRepository: campaignRepo,
		workRepository:     workRepo,
		userRepository:     userRepo,
		notifier:           notifier,
	}
}

// RegisterCampaignRoutes registers campaign-related routes
func (h *CampaignHandler) RegisterCampaignRoutes(g *echo.Group) {
	g.GET("/campaigns", h.GetCampaigns)
	g.POST("/campaigns", h.CreateCampaign)
	g.GET("/campaigns/:id", h.GetCampaign)
	g.POST("/campaigns/:id/apply", h.ApplyToCampaign)
}

// GetCampaigns lists campaigns, optionally filtered by status
func (h *CampaignHandler) GetCampaigns(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 20
	}

	campaigns, err := h.campaignRepository.GetCampaigns(c.Request().Context(),
		c.QueryParam("status"), int64((page-1)*limit), int64(limit))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"campaigns": campaigns}})
}

// CreateCampaign creates a campaign; brand accounts only
func (h *CampaignHandler) CreateCampaign(c echo.Context) error {
	claims := getClaimsFromContext(c)
	if claims.Role != models.RoleBrand {
		return echo.NewHTTPError(http.StatusForbidden, "only brand accounts can create campaigns")
	}

	var req models.CreateCampaignRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	deliverables := make([]models.DeliverableSpec, len(req.Deliverables))
	for i, d := range req.Deliverables {
		deliverables[i] = models.DeliverableSpec{Type: d.Type, Required: d.Required}
	}

	campaign := &models.Campaign{
		BrandID:      claims.UserID,
		Title:        req.Title,
		Brief:        req.Brief,
		Budget:       req.Budget,
		Status:       models.CampaignStatusOpen,
		Deliverables: deliverables,
	}
	if err := h.campaignRepository.CreateCampaign(c.Request().Context(), campaign); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": echo.Map{"campaign": campaign}})
}

// GetCampaign retrieves a campaign with its brand info
func (h *CampaignHandler) GetCampaign(c echo.Context) error {
	campaign, err := h.campaignRepository.GetCampaignByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repositories.ErrCampaignNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "campaign not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	var brand models.UserCompact
	if user, err := h.userRepository.GetUserByID(c.Request().Context(), campaign.BrandID); err == nil {
		brand = user.ToCompact()
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"campaign": campaign, "brand": brand},
	})
}

// ApplyToCampaign creates a pending work record for the KOL against the
// campaign's deliverable requirements
func (h *CampaignHandler) ApplyToCampaign(c echo.Context) error {
	claims := getClaimsFromContext(c)
	if claims.Role != models.RoleKOL {
		return echo.NewHTTPError(http.StatusForbidden, "only KOL accounts can apply to campaigns")
	}

	campaign, err := h.campaignRepository.GetCampaignByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repositories.ErrCampaignNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "campaign not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if campaign.Status != models.CampaignStatusOpen {
		return echo.NewHTTPError(http.StatusBadRequest, "campaign is closed")
	}

	campaignID := campaign.ID.Hex()
	applied, err := h.workRepository.HasApplied(c.Request().Context(), campaignID, claims.UserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if applied {
		return echo.NewHTTPError(http.StatusConflict, "already applied to this campaign")
	}

	deliverables := make([]models.Deliverable, len(campaign.Deliverables))
	for i, spec := range campaign.Deliverables {
		deliverables[i] = models.Deliverable{
			ID:          uuid.NewString(),
			Type:        spec.Type,
			Required:    spec.Required,
			Submissions: []models.Submission{},
		}
	}

	work := &models.Work{
		CampaignID:   campaignID,
		BrandID:      campaign.BrandID,
		KolID:        claims.UserID,
		Status:       models.WorkStatusPending,
		Deliverables: deliverables,
	}
	if err := h.workRepository.CreateWork(c.Request().Context(), work); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.notifier.Record(c.Request().Context(), campaign.BrandID, claims.UserID,
		models.NotificationTypeApplication, campaignID,
		claims.Username+" applied to your campaign "+campaign.Title)

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": echo.Map{"work": work}})
}
