package handlers

import (
	"errors"
	"strconv"
	"time"

	"alumnifund/internal/core/domain"
	"alumnifund/internal/core/services"
	"alumnifund/internal/pkg/pagination"
	"alumnifund/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// PaymentHandler handles payment ledger endpoints
type PaymentHandler struct {
	ledgerService   *services.LedgerService
	approvalService *services.ApprovalService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(ledgerService *services.LedgerService, approvalService *services.ApprovalService) *PaymentHandler {
	return &PaymentHandler{
		ledgerService:   ledgerService,
		approvalService: approvalService,
	}
}

// actorFromCtx builds the acting identity from auth middleware locals
func actorFromCtx(c *fiber.Ctx) services.Actor {
	userID, _ := c.Locals("userID").(uint)
	role, _ := c.Locals("role").(string)
	return services.Actor{UserID: userID, Role: domain.Role(role)}
}

// SubmitPaymentRequest represents submit payment request
type SubmitPaymentRequest struct {
	Amount      float64 `json:"amount"`
	Type        string  `json:"type"`
	Description string  `json:"description,omitempty"`
	Date        string  `json:"date,omitempty"`
	ReceiptURL  *string `json:"receipt_url,omitempty"`
}

// Submit submits a new payment record
// @Summary Submit payment
// @Description Submit a dues, donation or pledge payment for approval
// @Tags Payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body SubmitPaymentRequest true "Payment data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /payments [post]
func (h *PaymentHandler) Submit(c *fiber.Ctx) error {
	var req SubmitPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	memberID, ok := c.Locals("memberID").(uint)
	if !ok || memberID == 0 {
		return response.Unauthorized(c, "Unauthorized")
	}

	input := services.SubmitPaymentInput{
		MemberID:    memberID,
		Amount:      req.Amount,
		Type:        domain.PaymentType(req.Type),
		Description: req.Description,
		ReceiptURL:  req.ReceiptURL,
	}
	if req.Date != "" {
		date, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			return response.BadRequest(c, "Invalid date format, expected YYYY-MM-DD")
		}
		input.Date = date
	}

	payment, err := h.ledgerService.SubmitPayment(c.Context(), input)
	if err != nil {
		switch {
		case domain.IsValidation(err):
			return response.BadRequest(c, err.Error())
		case errors.Is(err, domain.ErrNotFound):
			return response.NotFound(c, "Member not found")
		default:
			return response.InternalServerError(c, "Failed to submit payment")
		}
	}

	return response.Created(c, "Payment submitted successfully", fiber.Map{
		"payment": payment.ToResponse(),
	})
}

// GetMyPayments gets the current member's payments
// @Summary Get my payments
// @Description Get current member's payment history
// @Tags Payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /payments/my [get]
func (h *PaymentHandler) GetMyPayments(c *fiber.Ctx) error {
	memberID, ok := c.Locals("memberID").(uint)
	if !ok || memberID == 0 {
		return response.Unauthorized(c, "Unauthorized")
	}

	payments, err := h.ledgerService.ListMemberPayments(c.Context(), memberID)
	if err != nil {
		return response.InternalServerError(c, "Failed to list payments")
	}

	items := make([]interface{}, len(payments))
	for i, p := range payments {
		items[i] = p.ToResponse()
	}

	return response.Success(c, "Payments retrieved successfully", fiber.Map{
		"payments": items,
	})
}

// GetByID gets a payment by ID
// @Summary Get payment by ID
// @Description Get a specific payment record (Admin only)
// @Tags Payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Payment ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /payments/{id} [get]
func (h *PaymentHandler) GetByID(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid payment ID")
	}

	payment, err := h.ledgerService.GetPayment(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return response.NotFound(c, "Payment not found")
		}
		return response.InternalServerError(c, "Failed to get payment")
	}

	return response.Success(c, "Payment retrieved successfully", fiber.Map{
		"payment": payment.ToResponse(),
	})
}

// List lists payments across members
// @Summary List payments
// @Description List payments, optionally filtered by status (Admin only)
// @Tags Payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Param status query string false "Filter by status (pending/approved/rejected)"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /payments [get]
func (h *PaymentHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	var status *domain.PaymentStatus
	if q := c.Query("status"); q != "" {
		s := domain.PaymentStatus(q)
		status = &s
	}

	payments, total, err := h.ledgerService.ListPayments(c.Context(), status, params.Offset, params.Limit)
	if err != nil {
		if domain.IsValidation(err) {
			return response.BadRequest(c, err.Error())
		}
		return response.InternalServerError(c, "Failed to list payments")
	}

	items := make([]interface{}, len(payments))
	for i, p := range payments {
		items[i] = p.ToResponse()
	}

	return response.Success(c, "Payments retrieved successfully", pagination.NewResponse(items, params, total))
}

// Approve approves a pending payment
// @Summary Approve payment
// @Description Approve a pending payment (Admin only). Approving an already approved payment is a no-op.
// @Tags Payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Payment ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /payments/{id}/approve [put]
func (h *PaymentHandler) Approve(c *fiber.Ctx) error {
	return h.decide(c, domain.PaymentApproved)
}

// Reject rejects a pending payment
// @Summary Reject payment
// @Description Reject a pending payment (Admin only). Rejecting an already rejected payment is a no-op.
// @Tags Payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Payment ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /payments/{id}/reject [put]
func (h *PaymentHandler) Reject(c *fiber.Ctx) error {
	return h.decide(c, domain.PaymentRejected)
}

func (h *PaymentHandler) decide(c *fiber.Ctx, target domain.PaymentStatus) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid payment ID")
	}

	actor := actorFromCtx(c)

	var result error
	if target == domain.PaymentApproved {
		p, err := h.approvalService.ApprovePayment(c.Context(), actor, uint(id))
		if err == nil {
			return response.Success(c, "Payment approved", fiber.Map{"payment": p.ToResponse()})
		}
		result = err
	} else {
		p, err := h.approvalService.RejectPayment(c.Context(), actor, uint(id))
		if err == nil {
			return response.Success(c, "Payment rejected", fiber.Map{"payment": p.ToResponse()})
		}
		result = err
	}

	switch {
	case errors.Is(result, domain.ErrNotFound):
		return response.NotFound(c, "Payment not found")
	case errors.Is(result, domain.ErrUnauthorized):
		return response.Forbidden(c, "You don't have permission to decide payments")
	case errors.Is(result, domain.ErrInvalidTransition):
		return response.Conflict(c, "Payment already decided")
	default:
		return response.InternalServerError(c, "Failed to update payment")
	}
}
