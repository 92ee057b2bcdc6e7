package handlers

import (
	"alumnifund/internal/core/services"
	"alumnifund/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// SettingsHandler handles user settings endpoints
type SettingsHandler struct {
	settingsService *services.SettingsService
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settingsService *services.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// UpdateSettingsRequest represents settings update request
type UpdateSettingsRequest struct {
	NotifyOnApproval  *bool   `json:"notify_on_approval"`
	NotifyOnRejection *bool   `json:"notify_on_rejection"`
	MonthlyStatement  *bool   `json:"monthly_statement"`
	Language          *string `json:"language"`
	Theme             *string `json:"theme"`
}

// Get gets the current user's settings
// @Summary Get settings
// @Description Get current user's preferences
// @Tags Settings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /settings [get]
func (h *SettingsHandler) Get(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok || userID == 0 {
		return response.Unauthorized(c, "Unauthorized")
	}

	settings, err := h.settingsService.Get(c.Context(), userID)
	if err != nil {
		return response.InternalServerError(c, "Failed to get settings")
	}

	return response.Success(c, "Settings retrieved successfully", fiber.Map{
		"settings": settings,
	})
}

// Update updates the current user's settings
// @Summary Update settings
// @Description Update current user's preferences
// @Tags Settings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body UpdateSettingsRequest true "Settings data"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /settings [put]
func (h *SettingsHandler) Update(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok || userID == 0 {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req UpdateSettingsRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	settings, err := h.settingsService.Update(c.Context(), userID, services.UpdateSettingsInput{
		NotifyOnApproval:  req.NotifyOnApproval,
		NotifyOnRejection: req.NotifyOnRejection,
		MonthlyStatement:  req.MonthlyStatement,
		Language:          req.Language,
		Theme:             req.Theme,
	})
	if err != nil {
		return response.InternalServerError(c, "Failed to update settings")
	}

	return response.Success(c, "Settings updated successfully", fiber.Map{
		"settings": settings,
	})
}
