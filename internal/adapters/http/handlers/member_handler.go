package handlers

import (
	"errors"
	"strconv"

	"alumnifund/internal/core/domain"
	"alumnifund/internal/core/services"
	"alumnifund/internal/pkg/pagination"
	"alumnifund/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// MemberHandler handles member registry endpoints
type MemberHandler struct {
	memberService  *services.MemberService
	summaryService *services.SummaryService
}

// NewMemberHandler creates a new member handler
func NewMemberHandler(memberService *services.MemberService, summaryService *services.SummaryService) *MemberHandler {
	return &MemberHandler{
		memberService:  memberService,
		summaryService: summaryService,
	}
}

// CreateMemberRequest represents member registration request
type CreateMemberRequest struct {
	FullName       string `json:"full_name"`
	Email          string `json:"email"`
	Phone          string `json:"phone,omitempty"`
	Department     string `json:"department,omitempty"`
	GraduationYear int    `json:"graduation_year,omitempty"`
	Workplace      string `json:"workplace,omitempty"`
}

// UpdateMemberRequest represents member profile update request
type UpdateMemberRequest struct {
	FullName       *string `json:"full_name"`
	Phone          *string `json:"phone"`
	Department     *string `json:"department"`
	GraduationYear *int    `json:"graduation_year"`
	Workplace      *string `json:"workplace"`
}

// Create registers a new member
// @Summary Register member
// @Description Register a new alumni member (Admin only)
// @Tags Members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateMemberRequest true "Member data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /members [post]
func (h *MemberHandler) Create(c *fiber.Ctx) error {
	var req CreateMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	member, err := h.memberService.Create(c.Context(), actorFromCtx(c), services.CreateMemberInput{
		FullName:       req.FullName,
		Email:          req.Email,
		Phone:          req.Phone,
		Department:     req.Department,
		GraduationYear: req.GraduationYear,
		Workplace:      req.Workplace,
	})
	if err != nil {
		switch {
		case domain.IsValidation(err):
			return response.BadRequest(c, err.Error())
		case errors.Is(err, domain.ErrUnauthorized):
			return response.Forbidden(c, "You don't have permission to manage members")
		default:
			return response.InternalServerError(c, "Failed to register member")
		}
	}

	return response.Created(c, "Member registered successfully", fiber.Map{
		"member": member,
	})
}

// GetByID gets a member by ID
// @Summary Get member by ID
// @Description Get a member's profile
// @Tags Members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Member ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /members/{id} [get]
func (h *MemberHandler) GetByID(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid member ID")
	}

	member, err := h.memberService.Get(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return response.NotFound(c, "Member not found")
		}
		return response.InternalServerError(c, "Failed to get member")
	}

	return response.Success(c, "Member retrieved successfully", fiber.Map{
		"member": member,
	})
}

// Update updates a member profile
// @Summary Update member
// @Description Update a member's profile (Admin only)
// @Tags Members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Member ID"
// @Param body body UpdateMemberRequest true "Member data"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /members/{id} [put]
func (h *MemberHandler) Update(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid member ID")
	}

	var req UpdateMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	member, err := h.memberService.Update(c.Context(), actorFromCtx(c), uint(id), services.UpdateMemberInput{
		FullName:       req.FullName,
		Phone:          req.Phone,
		Department:     req.Department,
		GraduationYear: req.GraduationYear,
		Workplace:      req.Workplace,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return response.NotFound(c, "Member not found")
		case errors.Is(err, domain.ErrUnauthorized):
			return response.Forbidden(c, "You don't have permission to manage members")
		default:
			return response.InternalServerError(c, "Failed to update member")
		}
	}

	return response.Success(c, "Member updated successfully", fiber.Map{
		"member": member,
	})
}

// List lists members with pagination
// @Summary List members
// @Description List alumni members (Admin only)
// @Tags Members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /members [get]
func (h *MemberHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	members, total, err := h.memberService.List(c.Context(), params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list members")
	}

	return response.Success(c, "Members retrieved successfully", pagination.NewResponse(members, params, total))
}

// Search searches members by name or email
// @Summary Search members
// @Description Search members by name or email (Admin only)
// @Tags Members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param q query string true "Search query"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /members/search [get]
func (h *MemberHandler) Search(c *fiber.Ctx) error {
	members, err := h.memberService.Search(c.Context(), c.Query("q"), 20)
	if err != nil {
		if domain.IsValidation(err) {
			return response.BadRequest(c, err.Error())
		}
		return response.InternalServerError(c, "Failed to search members")
	}

	return response.Success(c, "Members retrieved successfully", fiber.Map{
		"members": members,
	})
}

// GetSummary gets a member's financial summary
// @Summary Get member summary
// @Description Get a member's derived financial summary
// @Tags Members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Member ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /members/{id}/summary [get]
func (h *MemberHandler) GetSummary(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid member ID")
	}

	summary, err := h.summaryService.GetMemberSummary(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return response.NotFound(c, "Member not found")
		}
		return response.InternalServerError(c, "Failed to get summary")
	}

	return response.Success(c, "Summary retrieved successfully", fiber.Map{
		"summary": summary,
	})
}
