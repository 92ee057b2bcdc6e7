package handlers

import (
	"errors"

	"alumnifund/internal/core/domain"
	"alumnifund/internal/core/services"
	"alumnifund/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// DashboardHandler handles dashboard endpoints
type DashboardHandler struct {
	dashboardService *services.DashboardService
	summaryService   *services.SummaryService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *services.DashboardService, summaryService *services.SummaryService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		summaryService:   summaryService,
	}
}

// AdminDashboard returns admin dashboard data
// @Summary Admin dashboard
// @Description Get pending work queues and ledger statistics (Admin only)
// @Tags Dashboard
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /dashboard/admin [get]
func (h *DashboardHandler) AdminDashboard(c *fiber.Ctx) error {
	data, err := h.dashboardService.GetAdminDashboard(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to load dashboard")
	}

	return response.Success(c, "Dashboard retrieved successfully", data)
}

// MemberDashboard returns the current member's dashboard data
// @Summary Member dashboard
// @Description Get the current member's summary and recent activity
// @Tags Dashboard
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /dashboard/me [get]
func (h *DashboardHandler) MemberDashboard(c *fiber.Ctx) error {
	memberID, ok := c.Locals("memberID").(uint)
	if !ok || memberID == 0 {
		return response.Unauthorized(c, "Unauthorized")
	}

	data, err := h.dashboardService.GetMemberDashboard(c.Context(), memberID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return response.NotFound(c, "Member not found")
		}
		return response.InternalServerError(c, "Failed to load dashboard")
	}

	return response.Success(c, "Dashboard retrieved successfully", data)
}

// FinancialSummary returns the system-wide financial summary
// @Summary Financial summary
// @Description Get system-wide financial totals derived from the ledger (Admin only)
// @Tags Dashboard
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /dashboard/financial-summary [get]
func (h *DashboardHandler) FinancialSummary(c *fiber.Ctx) error {
	summary, err := h.summaryService.SystemSummary(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to compute financial summary")
	}

	return response.Success(c, "Financial summary retrieved successfully", summary)
}
