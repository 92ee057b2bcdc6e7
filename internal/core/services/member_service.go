package services

import (
	"context"
	"errors"

	"alumnifund/internal/adapters/persistence/models"
	"alumnifund/internal/adapters/persistence/repositories"
	"alumnifund/internal/core/domain"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// MemberService manages the alumni member registry
type MemberService struct {
	members repositories.MemberRepository
	log     *logrus.Logger
}

// NewMemberService creates a new member service
func NewMemberService(members repositories.MemberRepository, log *logrus.Logger) *MemberService {
	return &MemberService{members: members, log: log}
}

// CreateMemberInput for registering a member
type CreateMemberInput struct {
	FullName       string
	Email          string
	Phone          string
	Department     string
	GraduationYear int
	Workplace      string
}

// UpdateMemberInput for updating a member profile
type UpdateMemberInput struct {
	FullName       *string
	Phone          *string
	Department     *string
	GraduationYear *int
	Workplace      *string
}

// Create registers a new member
func (s *MemberService) Create(ctx context.Context, actor Actor, input CreateMemberInput) (*models.Member, error) {
	if !actor.Role.Can(domain.CapManageMembers) {
		return nil, domain.ErrUnauthorized
	}
	if input.FullName == "" {
		return nil, domain.NewValidationError("full_name", "is required")
	}
	if input.Email == "" {
		return nil, domain.NewValidationError("email", "is required")
	}

	member := &models.Member{
		FullName:       input.FullName,
		Email:          input.Email,
		Phone:          input.Phone,
		Department:     input.Department,
		GraduationYear: input.GraduationYear,
		Workplace:      input.Workplace,
	}
	if err := s.members.Create(ctx, member); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"member_id": member.ID,
		"actor_id":  actor.UserID,
	}).Info("member registered")

	return member, nil
}

// Get gets a member by ID
func (s *MemberService) Get(ctx context.Context, id uint) (*models.Member, error) {
	member, err := s.members.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return member, nil
}

// Update updates a member profile
func (s *MemberService) Update(ctx context.Context, actor Actor, id uint, input UpdateMemberInput) (*models.Member, error) {
	if !actor.Role.Can(domain.CapManageMembers) {
		return nil, domain.ErrUnauthorized
	}

	member, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.FullName != nil {
		member.FullName = *input.FullName
	}
	if input.Phone != nil {
		member.Phone = *input.Phone
	}
	if input.Department != nil {
		member.Department = *input.Department
	}
	if input.GraduationYear != nil {
		member.GraduationYear = *input.GraduationYear
	}
	if input.Workplace != nil {
		member.Workplace = *input.Workplace
	}

	if err := s.members.Update(ctx, member); err != nil {
		return nil, err
	}
	return member, nil
}

// List lists members with pagination
func (s *MemberService) List(ctx context.Context, offset, limit int) ([]*models.Member, int64, error) {
	return s.members.List(ctx, offset, limit)
}

// Search searches members by name or email
func (s *MemberService) Search(ctx context.Context, query string, limit int) ([]*models.Member, error) {
	if query == "" {
		return nil, domain.NewValidationError("q", "is required")
	}
	return s.members.Search(ctx, query, limit)
}
