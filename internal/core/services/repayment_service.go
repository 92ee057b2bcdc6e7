package services

import (
	"context"
	"errors"
	"time"

	"alumnifund/internal/adapters/persistence/models"
	"alumnifund/internal/adapters/persistence/repositories"
	"alumnifund/internal/core/domain"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// RepaymentService records partial repayments against approved loans
// and raises the completion signal when the principal is covered.
type RepaymentService struct {
	loans      repositories.LoanRepository
	repayments repositories.RepaymentRepository
	approvals  *ApprovalService
	log        *logrus.Logger
}

// NewRepaymentService creates a new repayment service
func NewRepaymentService(
	loans repositories.LoanRepository,
	repayments repositories.RepaymentRepository,
	approvals *ApprovalService,
	log *logrus.Logger,
) *RepaymentService {
	return &RepaymentService{
		loans:      loans,
		repayments: repayments,
		approvals:  approvals,
		log:        log,
	}
}

// RecordRepaymentInput for recording a repayment
type RecordRepaymentInput struct {
	LoanID uint
	Amount float64
	Date   time.Time
}

// RecordRepayment records a repayment against an approved loan. Only
// approved loans accept repayments, and a repayment may not exceed the
// outstanding balance. When the balance reaches zero the loan is moved
// to paid.
func (s *RepaymentService) RecordRepayment(ctx context.Context, actor Actor, input RecordRepaymentInput) (*models.Repayment, error) {
	if !actor.Role.Can(domain.CapRecordRepayments) {
		return nil, domain.ErrUnauthorized
	}
	if input.Amount <= 0 {
		return nil, domain.NewValidationError("amount", "must be greater than zero")
	}
	if input.Date.IsZero() {
		input.Date = time.Now()
	}

	loan, err := s.loans.GetByID(ctx, input.LoanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if loan.Status != domain.LoanApproved {
		return nil, domain.ErrInvalidTransition
	}

	repaid, err := s.repayments.SumByLoan(ctx, input.LoanID)
	if err != nil {
		return nil, err
	}
	outstanding := loan.Amount - repaid
	if input.Amount > outstanding {
		return nil, domain.NewValidationError("amount", "exceeds outstanding balance")
	}

	repayment := &models.Repayment{
		LoanID:     input.LoanID,
		Amount:     input.Amount,
		Date:       input.Date,
		RecordedBy: actor.UserID,
	}
	if err := s.repayments.Create(ctx, repayment); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"loan_id":     input.LoanID,
		"member_id":   loan.MemberID,
		"amount":      input.Amount,
		"outstanding": outstanding - input.Amount,
	}).Info("repayment recorded")

	if outstanding-input.Amount <= 0 {
		if _, err := s.approvals.CompleteLoan(ctx, input.LoanID); err != nil {
			// The repayment itself is committed. A racing default
			// sweep can legally win here.
			s.log.WithFields(logrus.Fields{
				"loan_id": input.LoanID,
				"error":   err.Error(),
			}).Warn("loan completion signal failed")
		}
	}

	return repayment, nil
}

// ListByLoan lists repayments recorded against a loan
func (s *RepaymentService) ListByLoan(ctx context.Context, loanID uint) ([]*models.Repayment, error) {
	if _, err := s.loans.GetByID(ctx, loanID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return s.repayments.ListByLoan(ctx, loanID)
}
