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

// LoanHandler handles loan ledger endpoints
type LoanHandler struct {
	ledgerService    *services.LedgerService
	approvalService  *services.ApprovalService
	repaymentService *services.RepaymentService
}

// NewLoanHandler creates a new loan handler
func NewLoanHandler(
	ledgerService *services.LedgerService,
	approvalService *services.ApprovalService,
	repaymentService *services.RepaymentService,
) *LoanHandler {
	return &LoanHandler{
		ledgerService:    ledgerService,
		approvalService:  approvalService,
		repaymentService: repaymentService,
	}
}

// ApplyLoanRequest represents loan application request
type ApplyLoanRequest struct {
	Amount  float64 `json:"amount"`
	Purpose string  `json:"purpose"`
}

// ApproveLoanRequest represents loan approval request
type ApproveLoanRequest struct {
	RepaymentTerm int `json:"repayment_term"`
}

// RecordRepaymentRequest represents repayment recording request
type RecordRepaymentRequest struct {
	Amount float64 `json:"amount"`
	Date   string  `json:"date,omitempty"`
}

// Apply submits a new loan application
// @Summary Apply for loan
// @Description Submit a loan application for approval
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body ApplyLoanRequest true "Loan application data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /loans [post]
func (h *LoanHandler) Apply(c *fiber.Ctx) error {
	var req ApplyLoanRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	memberID, ok := c.Locals("memberID").(uint)
	if !ok || memberID == 0 {
		return response.Unauthorized(c, "Unauthorized")
	}

	loan, err := h.ledgerService.SubmitLoanApplication(c.Context(), services.SubmitLoanInput{
		MemberID: memberID,
		Amount:   req.Amount,
		Purpose:  req.Purpose,
	})
	if err != nil {
		switch {
		case domain.IsValidation(err):
			return response.BadRequest(c, err.Error())
		case errors.Is(err, domain.ErrNotFound):
			return response.NotFound(c, "Member not found")
		default:
			return response.InternalServerError(c, "Failed to submit loan application")
		}
	}

	return response.Created(c, "Loan application submitted successfully", fiber.Map{
		"loan": loan.ToResponse(),
	})
}

// GetMyLoans gets the current member's loans
// @Summary Get my loans
// @Description Get current member's loan history with repayments
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /loans/my [get]
func (h *LoanHandler) GetMyLoans(c *fiber.Ctx) error {
	memberID, ok := c.Locals("memberID").(uint)
	if !ok || memberID == 0 {
		return response.Unauthorized(c, "Unauthorized")
	}

	loans, err := h.ledgerService.ListMemberLoans(c.Context(), memberID)
	if err != nil {
		return response.InternalServerError(c, "Failed to list loans")
	}

	items := make([]interface{}, len(loans))
	for i, l := range loans {
		items[i] = l.ToResponse()
	}

	return response.Success(c, "Loans retrieved successfully", fiber.Map{
		"loans": items,
	})
}

// GetByID gets a loan by ID
// @Summary Get loan by ID
// @Description Get a specific loan record (Admin only)
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /loans/{id} [get]
func (h *LoanHandler) GetByID(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid loan ID")
	}

	loan, err := h.ledgerService.GetLoan(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return response.NotFound(c, "Loan not found")
		}
		return response.InternalServerError(c, "Failed to get loan")
	}

	return response.Success(c, "Loan retrieved successfully", fiber.Map{
		"loan": loan.ToResponse(),
	})
}

// List lists loans across members
// @Summary List loans
// @Description List loans, optionally filtered by status (Admin only)
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Param status query string false "Filter by status (pending/approved/rejected/paid/defaulted)"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /loans [get]
func (h *LoanHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	var status *domain.LoanStatus
	if q := c.Query("status"); q != "" {
		s := domain.LoanStatus(q)
		status = &s
	}

	loans, total, err := h.ledgerService.ListLoans(c.Context(), status, params.Offset, params.Limit)
	if err != nil {
		if domain.IsValidation(err) {
			return response.BadRequest(c, err.Error())
		}
		return response.InternalServerError(c, "Failed to list loans")
	}

	items := make([]interface{}, len(loans))
	for i, l := range loans {
		items[i] = l.ToResponse()
	}

	return response.Success(c, "Loans retrieved successfully", pagination.NewResponse(items, params, total))
}

// Approve approves a pending loan
// @Summary Approve loan
// @Description Approve a pending loan, assigning a repayment term (Admin only). Approving an already approved loan is a no-op.
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Param body body ApproveLoanRequest true "Approval data"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /loans/{id}/approve [put]
func (h *LoanHandler) Approve(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid loan ID")
	}

	var req ApproveLoanRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	loan, err := h.approvalService.ApproveLoan(c.Context(), actorFromCtx(c), uint(id), domain.RepaymentTerm(req.RepaymentTerm))
	if err != nil {
		return h.decisionError(c, err)
	}

	return response.Success(c, "Loan approved", fiber.Map{"loan": loan.ToResponse()})
}

// Reject rejects a pending loan
// @Summary Reject loan
// @Description Reject a pending loan (Admin only). Rejecting an already rejected loan is a no-op.
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /loans/{id}/reject [put]
func (h *LoanHandler) Reject(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid loan ID")
	}

	loan, err := h.approvalService.RejectLoan(c.Context(), actorFromCtx(c), uint(id))
	if err != nil {
		return h.decisionError(c, err)
	}

	return response.Success(c, "Loan rejected", fiber.Map{"loan": loan.ToResponse()})
}

func (h *LoanHandler) decisionError(c *fiber.Ctx, err error) error {
	switch {
	case domain.IsValidation(err):
		return response.BadRequest(c, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		return response.NotFound(c, "Loan not found")
	case errors.Is(err, domain.ErrUnauthorized):
		return response.Forbidden(c, "You don't have permission to decide loans")
	case errors.Is(err, domain.ErrInvalidTransition):
		return response.Conflict(c, "Loan already decided")
	default:
		return response.InternalServerError(c, "Failed to update loan")
	}
}

// RecordRepayment records a repayment against an approved loan
// @Summary Record repayment
// @Description Record a repayment against an approved loan (Admin only). The loan moves to paid when the balance reaches zero.
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Param body body RecordRepaymentRequest true "Repayment data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /loans/{id}/repayments [post]
func (h *LoanHandler) RecordRepayment(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid loan ID")
	}

	var req RecordRepaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	input := services.RecordRepaymentInput{
		LoanID: uint(id),
		Amount: req.Amount,
	}
	if req.Date != "" {
		date, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			return response.BadRequest(c, "Invalid date format, expected YYYY-MM-DD")
		}
		input.Date = date
	}

	repayment, err := h.repaymentService.RecordRepayment(c.Context(), actorFromCtx(c), input)
	if err != nil {
		switch {
		case domain.IsValidation(err):
			return response.BadRequest(c, err.Error())
		case errors.Is(err, domain.ErrNotFound):
			return response.NotFound(c, "Loan not found")
		case errors.Is(err, domain.ErrUnauthorized):
			return response.Forbidden(c, "You don't have permission to record repayments")
		case errors.Is(err, domain.ErrInvalidTransition):
			return response.Conflict(c, "Loan is not accepting repayments")
		default:
			return response.InternalServerError(c, "Failed to record repayment")
		}
	}

	return response.Created(c, "Repayment recorded successfully", fiber.Map{
		"repayment": repayment,
	})
}

// ListRepayments lists repayments recorded against a loan
// @Summary List loan repayments
// @Description List repayments recorded against a loan
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /loans/{id}/repayments [get]
func (h *LoanHandler) ListRepayments(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid loan ID")
	}

	repayments, err := h.repaymentService.ListByLoan(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return response.NotFound(c, "Loan not found")
		}
		return response.InternalServerError(c, "Failed to list repayments")
	}

	return response.Success(c, "Repayments retrieved successfully", fiber.Map{
		"repayments": repayments,
	})
}
