package handlers

import (
	"errors"
	"time"

	"alumnifund/internal/core/domain"
	"alumnifund/internal/core/services"
	"alumnifund/internal/pkg/pagination"
	"alumnifund/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ReportHandler handles report endpoints
type ReportHandler struct {
	reportService *services.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// GenerateReportRequest represents report generation request
type GenerateReportRequest struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Type        string `json:"type"`
	DateFrom    string `json:"date_from"`
	DateTo      string `json:"date_to"`
}

// Generate generates a new report snapshot
// @Summary Generate report
// @Description Generate an immutable report over a date range (Admin only)
// @Tags Reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body GenerateReportRequest true "Report parameters"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /reports [post]
func (h *ReportHandler) Generate(c *fiber.Ctx) error {
	var req GenerateReportRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	dateFrom, err := time.Parse("2006-01-02", req.DateFrom)
	if err != nil {
		return response.BadRequest(c, "Invalid date_from, expected YYYY-MM-DD")
	}
	dateTo, err := time.Parse("2006-01-02", req.DateTo)
	if err != nil {
		return response.BadRequest(c, "Invalid date_to, expected YYYY-MM-DD")
	}
	// Make the range inclusive of the final day
	dateTo = dateTo.Add(24*time.Hour - time.Second)

	report, err := h.reportService.Generate(c.Context(), actorFromCtx(c), services.GenerateReportInput{
		Title:       req.Title,
		Description: req.Description,
		Type:        req.Type,
		DateFrom:    dateFrom,
		DateTo:      dateTo,
	})
	if err != nil {
		switch {
		case domain.IsValidation(err):
			return response.BadRequest(c, err.Error())
		case errors.Is(err, domain.ErrUnauthorized):
			return response.Forbidden(c, "You don't have permission to generate reports")
		default:
			return response.InternalServerError(c, "Failed to generate report")
		}
	}

	return response.Created(c, "Report generated successfully", fiber.Map{
		"report": report,
	})
}

// GetByID gets a stored report
// @Summary Get report by ID
// @Description Get a stored report snapshot (Admin only)
// @Tags Reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Report ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /reports/{id} [get]
func (h *ReportHandler) GetByID(c *fiber.Ctx) error {
	report, err := h.reportService.Get(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return response.NotFound(c, "Report not found")
		}
		return response.InternalServerError(c, "Failed to get report")
	}

	return response.Success(c, "Report retrieved successfully", fiber.Map{
		"report": report,
	})
}

// List lists stored reports
// @Summary List reports
// @Description List stored reports, optionally filtered by type (Admin only)
// @Tags Reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Param type query string false "Filter by report type"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /reports [get]
func (h *ReportHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	reports, total, err := h.reportService.List(c.Context(), c.Query("type"), params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list reports")
	}

	return response.Success(c, "Reports retrieved successfully", pagination.NewResponse(reports, params, total))
}
