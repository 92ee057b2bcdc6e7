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

// LedgerService handles payment and loan record submission and lookup.
// Records enter the ledger as pending; only the approval workflow
// mutates them afterwards.
type LedgerService struct {
	payments repositories.PaymentRepository
	loans    repositories.LoanRepository
	members  repositories.MemberRepository
	log      *logrus.Logger
}

// NewLedgerService creates a new ledger service
func NewLedgerService(
	payments repositories.PaymentRepository,
	loans repositories.LoanRepository,
	members repositories.MemberRepository,
	log *logrus.Logger,
) *LedgerService {
	return &LedgerService{
		payments: payments,
		loans:    loans,
		members:  members,
		log:      log,
	}
}

// SubmitPaymentInput for submitting a payment record
type SubmitPaymentInput struct {
	MemberID    uint
	Amount      float64
	Type        domain.PaymentType
	Description string
	Date        time.Time
	ReceiptURL  *string
}

// SubmitLoanInput for submitting a loan application
type SubmitLoanInput struct {
	MemberID uint
	Amount   float64
	Purpose  string
}

// SubmitPayment records a new payment in pending status
func (s *LedgerService) SubmitPayment(ctx context.Context, input SubmitPaymentInput) (*models.Payment, error) {
	if input.Amount <= 0 {
		return nil, domain.NewValidationError("amount", "must be greater than zero")
	}
	if !input.Type.Valid() {
		return nil, domain.NewValidationError("type", "must be dues, donation or pledge")
	}
	if input.Date.IsZero() {
		input.Date = time.Now()
	}

	exists, err := s.members.Exists(ctx, input.MemberID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrNotFound
	}

	payment := &models.Payment{
		MemberID:    input.MemberID,
		Amount:      input.Amount,
		Type:        input.Type,
		Description: input.Description,
		Date:        input.Date,
		Status:      domain.PaymentPending,
		ReceiptURL:  input.ReceiptURL,
	}
	if err := s.payments.Create(ctx, payment); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"payment_id": payment.ID,
		"member_id":  payment.MemberID,
		"type":       payment.Type,
		"amount":     payment.Amount,
	}).Info("payment submitted")

	return payment, nil
}

// SubmitLoanApplication records a new loan application in pending status
func (s *LedgerService) SubmitLoanApplication(ctx context.Context, input SubmitLoanInput) (*models.Loan, error) {
	if input.Amount <= 0 {
		return nil, domain.NewValidationError("amount", "must be greater than zero")
	}
	if input.Purpose == "" {
		return nil, domain.NewValidationError("purpose", "is required")
	}

	exists, err := s.members.Exists(ctx, input.MemberID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrNotFound
	}

	loan := &models.Loan{
		MemberID:        input.MemberID,
		Amount:          input.Amount,
		Purpose:         input.Purpose,
		ApplicationDate: time.Now(),
		Status:          domain.LoanPending,
	}
	if err := s.loans.Create(ctx, loan); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"loan_id":   loan.ID,
		"member_id": loan.MemberID,
		"amount":    loan.Amount,
	}).Info("loan application submitted")

	return loan, nil
}

// GetPayment gets a single payment record
func (s *LedgerService) GetPayment(ctx context.Context, id uint) (*models.Payment, error) {
	payment, err := s.payments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return payment, nil
}

// GetLoan gets a single loan record with its repayments
func (s *LedgerService) GetLoan(ctx context.Context, id uint) (*models.Loan, error) {
	loan, err := s.loans.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return loan, nil
}

// ListMemberPayments lists all of a member's payments, newest first
func (s *LedgerService) ListMemberPayments(ctx context.Context, memberID uint) ([]*models.Payment, error) {
	return s.payments.ListByMember(ctx, memberID)
}

// ListMemberLoans lists all of a member's loans, newest application first
func (s *LedgerService) ListMemberLoans(ctx context.Context, memberID uint) ([]*models.Loan, error) {
	return s.loans.ListByMember(ctx, memberID)
}

// ListPayments lists payments across members, optionally filtered by status
func (s *LedgerService) ListPayments(ctx context.Context, status *domain.PaymentStatus, offset, limit int) ([]*models.Payment, int64, error) {
	if status != nil && !status.Valid() {
		return nil, 0, domain.NewValidationError("status", "unknown payment status")
	}
	return s.payments.List(ctx, status, offset, limit)
}

// ListLoans lists loans across members, optionally filtered by status
func (s *LedgerService) ListLoans(ctx context.Context, status *domain.LoanStatus, offset, limit int) ([]*models.Loan, int64, error) {
	if status != nil && !status.Valid() {
		return nil, 0, domain.NewValidationError("status", "unknown loan status")
	}
	return s.loans.List(ctx, status, offset, limit)
}
