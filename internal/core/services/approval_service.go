package services

import (
	"context"
	"errors"
	"time"

	"alumnifund/internal/adapters/persistence/models"
	"alumnifund/internal/adapters/persistence/repositories"
	"alumnifund/internal/core/domain"
	"alumnifund/internal/metrics"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Actor identifies who is performing a privileged operation
type Actor struct {
	UserID uint
	Role   domain.Role
}

// ApprovalService drives the ledger record state machine. Every status
// change goes through a conditional update keyed on the current status,
// so concurrent decisions on the same record serialize: exactly one
// writer wins and losers observe the committed outcome.
type ApprovalService struct {
	payments  repositories.PaymentRepository
	loans     repositories.LoanRepository
	summaries *SummaryService
	log       *logrus.Logger
}

// NewApprovalService creates a new approval service
func NewApprovalService(
	payments repositories.PaymentRepository,
	loans repositories.LoanRepository,
	summaries *SummaryService,
	log *logrus.Logger,
) *ApprovalService {
	return &ApprovalService{
		payments:  payments,
		loans:     loans,
		summaries: summaries,
		log:       log,
	}
}

// ApprovePayment moves a pending payment to approved
func (s *ApprovalService) ApprovePayment(ctx context.Context, actor Actor, id uint) (*models.Payment, error) {
	return s.transitionPayment(ctx, actor, id, domain.PaymentApproved)
}

// RejectPayment moves a pending payment to rejected
func (s *ApprovalService) RejectPayment(ctx context.Context, actor Actor, id uint) (*models.Payment, error) {
	return s.transitionPayment(ctx, actor, id, domain.PaymentRejected)
}

// transitionPayment applies one payment decision. Requesting the status
// the record already holds is a no-op returning the record unchanged;
// any other illegal jump fails with ErrInvalidTransition.
func (s *ApprovalService) transitionPayment(ctx context.Context, actor Actor, id uint, target domain.PaymentStatus) (*models.Payment, error) {
	if !actor.Role.Can(domain.CapApproveTransactions) {
		return nil, domain.ErrUnauthorized
	}

	payment, err := s.payments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	if payment.Status == target {
		return payment, nil
	}
	if !payment.Status.CanTransitionTo(target) {
		return nil, domain.ErrInvalidTransition
	}

	now := time.Now()
	fields := map[string]interface{}{
		"approval_date": now,
		"approved_by":   actor.UserID,
	}
	affected, err := s.payments.TransitionStatus(ctx, id, payment.Status, target, fields)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		// Lost the race. Reload and treat an identical concurrent
		// decision as a no-op.
		return s.resolvePaymentRace(ctx, id, target)
	}

	s.log.WithFields(logrus.Fields{
		"payment_id": id,
		"member_id":  payment.MemberID,
		"status":     target,
		"actor_id":   actor.UserID,
	}).Info("payment decision applied")
	metrics.TransitionsTotal.WithLabelValues("payment", string(target)).Inc()

	s.recompute(ctx, payment.MemberID)
	return s.payments.GetByID(ctx, id)
}

func (s *ApprovalService) resolvePaymentRace(ctx context.Context, id uint, target domain.PaymentStatus) (*models.Payment, error) {
	payment, err := s.payments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if payment.Status == target {
		return payment, nil
	}
	return nil, domain.ErrInvalidTransition
}

// ApproveLoan moves a pending loan to approved, assigning the
// repayment term and due date at decision time
func (s *ApprovalService) ApproveLoan(ctx context.Context, actor Actor, id uint, term domain.RepaymentTerm) (*models.Loan, error) {
	if !term.Valid() {
		return nil, domain.NewValidationError("repayment_term", "must be 3, 6, 12 or 24 months")
	}
	now := time.Now()
	fields := map[string]interface{}{
		"approval_date":  now,
		"approved_by":    actor.UserID,
		"repayment_term": term,
		"due_date":       term.DueDateFrom(now),
	}
	return s.transitionLoan(ctx, actor, id, domain.LoanApproved, fields)
}

// RejectLoan moves a pending loan to rejected
func (s *ApprovalService) RejectLoan(ctx context.Context, actor Actor, id uint) (*models.Loan, error) {
	fields := map[string]interface{}{
		"approval_date": time.Now(),
		"approved_by":   actor.UserID,
	}
	return s.transitionLoan(ctx, actor, id, domain.LoanRejected, fields)
}

// transitionLoan applies one loan decision with the same serialization
// and idempotency contract as transitionPayment.
func (s *ApprovalService) transitionLoan(ctx context.Context, actor Actor, id uint, target domain.LoanStatus, fields map[string]interface{}) (*models.Loan, error) {
	if !actor.Role.Can(domain.CapApproveTransactions) {
		return nil, domain.ErrUnauthorized
	}

	loan, err := s.loans.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	if loan.Status == target {
		return loan, nil
	}
	if !loan.Status.CanTransitionTo(target) {
		return nil, domain.ErrInvalidTransition
	}

	affected, err := s.loans.TransitionStatus(ctx, id, loan.Status, target, fields)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return s.resolveLoanRace(ctx, id, target)
	}

	s.log.WithFields(logrus.Fields{
		"loan_id":   id,
		"member_id": loan.MemberID,
		"status":    target,
		"actor_id":  actor.UserID,
	}).Info("loan decision applied")
	metrics.TransitionsTotal.WithLabelValues("loan", string(target)).Inc()

	s.recompute(ctx, loan.MemberID)
	return s.loans.GetByID(ctx, id)
}

func (s *ApprovalService) resolveLoanRace(ctx context.Context, id uint, target domain.LoanStatus) (*models.Loan, error) {
	loan, err := s.loans.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if loan.Status == target {
		return loan, nil
	}
	return nil, domain.ErrInvalidTransition
}

// CompleteLoan moves an approved loan to paid. Internal signal raised
// when recorded repayments cover the principal.
func (s *ApprovalService) CompleteLoan(ctx context.Context, id uint) (*models.Loan, error) {
	loan, err := s.loans.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if loan.Status == domain.LoanPaid {
		return loan, nil
	}
	if !loan.Status.CanTransitionTo(domain.LoanPaid) {
		return nil, domain.ErrInvalidTransition
	}

	affected, err := s.loans.TransitionStatus(ctx, id, loan.Status, domain.LoanPaid, nil)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return s.resolveLoanRace(ctx, id, domain.LoanPaid)
	}

	s.log.WithFields(logrus.Fields{
		"loan_id":   id,
		"member_id": loan.MemberID,
	}).Info("loan fully repaid")
	metrics.TransitionsTotal.WithLabelValues("loan", string(domain.LoanPaid)).Inc()

	s.recompute(ctx, loan.MemberID)
	return s.loans.GetByID(ctx, id)
}

// DefaultLoan moves an approved loan to defaulted. Internal signal
// raised by the overdue sweep; records already out of approved are
// left alone.
func (s *ApprovalService) DefaultLoan(ctx context.Context, id uint) (*models.Loan, error) {
	loan, err := s.loans.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if loan.Status == domain.LoanDefaulted {
		return loan, nil
	}
	if !loan.Status.CanTransitionTo(domain.LoanDefaulted) {
		return nil, domain.ErrInvalidTransition
	}

	affected, err := s.loans.TransitionStatus(ctx, id, loan.Status, domain.LoanDefaulted, nil)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return s.resolveLoanRace(ctx, id, domain.LoanDefaulted)
	}

	s.log.WithFields(logrus.Fields{
		"loan_id":   id,
		"member_id": loan.MemberID,
	}).Warn("loan marked defaulted")
	metrics.TransitionsTotal.WithLabelValues("loan", string(domain.LoanDefaulted)).Inc()

	s.recompute(ctx, loan.MemberID)
	return s.loans.GetByID(ctx, id)
}

// recompute refreshes a member's summary after a committed transition.
// The ledger write already succeeded, so a recompute failure is logged
// and left for the reconciliation sweep rather than surfaced.
func (s *ApprovalService) recompute(ctx context.Context, memberID uint) {
	if _, err := s.summaries.Recompute(ctx, memberID); err != nil {
		s.log.WithFields(logrus.Fields{
			"member_id": memberID,
			"error":     err.Error(),
		}).Error("summary recompute after transition failed")
	}
}
