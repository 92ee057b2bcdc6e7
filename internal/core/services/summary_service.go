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

// SummaryService derives financial aggregates from the ledger. Stored
// member summaries are pure functions of ledger state; recomputing an
// unchanged member must write identical values.
type SummaryService struct {
	payments   repositories.PaymentRepository
	loans      repositories.LoanRepository
	repayments repositories.RepaymentRepository
	members    repositories.MemberRepository
	summaries  repositories.SummaryRepository
	annualDues float64
	log        *logrus.Logger
}

// NewSummaryService creates a new summary service
func NewSummaryService(
	payments repositories.PaymentRepository,
	loans repositories.LoanRepository,
	repayments repositories.RepaymentRepository,
	members repositories.MemberRepository,
	summaries repositories.SummaryRepository,
	annualDues float64,
	log *logrus.Logger,
) *SummaryService {
	return &SummaryService{
		payments:   payments,
		loans:      loans,
		repayments: repayments,
		members:    members,
		summaries:  summaries,
		annualDues: annualDues,
		log:        log,
	}
}

// Recompute rebuilds a member's summary from approved ledger records
// and stores it. Pending and rejected records never contribute.
func (s *SummaryService) Recompute(ctx context.Context, memberID uint) (*models.MemberSummary, error) {
	member, err := s.members.GetByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	duesPaid, err := s.payments.SumByMember(ctx, memberID, domain.PaymentTypeDues, domain.PaymentApproved)
	if err != nil {
		return nil, err
	}
	donations, err := s.payments.SumByMember(ctx, memberID, domain.PaymentTypeDonation, domain.PaymentApproved)
	if err != nil {
		return nil, err
	}
	activeLoans, err := s.loans.CountByMember(ctx, memberID, domain.LoanApproved)
	if err != nil {
		return nil, err
	}
	activePrincipal, err := s.loans.SumByMember(ctx, memberID, domain.LoanApproved)
	if err != nil {
		return nil, err
	}
	repaid, err := s.repayments.SumByMember(ctx, memberID, []domain.LoanStatus{domain.LoanApproved})
	if err != nil {
		return nil, err
	}

	summary := &models.MemberSummary{
		MemberID:       memberID,
		TotalDuesPaid:  duesPaid,
		DuesOwing:      s.duesOwing(member, duesPaid),
		TotalDonations: donations,
		ActiveLoans:    activeLoans,
		LoanBalance:    activePrincipal - repaid,
	}
	if summary.LoanBalance < 0 {
		summary.LoanBalance = 0
	}

	if err := s.summaries.Upsert(ctx, summary); err != nil {
		return nil, err
	}
	metrics.SummaryRecomputesTotal.Inc()
	return summary, nil
}

// duesOwing charges one annual dues amount per membership year since
// joining, inclusive of the current year, minus dues already approved.
func (s *SummaryService) duesOwing(member *models.Member, duesPaid float64) float64 {
	years := time.Now().Year() - member.CreatedAt.Year() + 1
	if years < 1 {
		years = 1
	}
	owing := s.annualDues*float64(years) - duesPaid
	if owing < 0 {
		return 0
	}
	return owing
}

// GetMemberSummary returns the stored summary, computing it on first
// access if the member has no summary row yet.
func (s *SummaryService) GetMemberSummary(ctx context.Context, memberID uint) (*models.MemberSummary, error) {
	summary, err := s.summaries.GetByMemberID(ctx, memberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return s.Recompute(ctx, memberID)
		}
		return nil, err
	}
	return summary, nil
}

// RecomputeAll rebuilds every member's summary. Used by the nightly
// reconciliation job; failures on one member do not stop the sweep.
func (s *SummaryService) RecomputeAll(ctx context.Context) (int, error) {
	ids, err := s.members.ListIDs(ctx)
	if err != nil {
		return 0, err
	}

	recomputed := 0
	for _, id := range ids {
		if _, err := s.Recompute(ctx, id); err != nil {
			s.log.WithFields(logrus.Fields{
				"member_id": id,
				"error":     err.Error(),
			}).Warn("summary recompute failed")
			continue
		}
		recomputed++
	}
	return recomputed, nil
}

// FinancialSummary represents system-wide financial totals
type FinancialSummary struct {
	TotalMembers         int64   `json:"total_members"`
	TotalDuesCollected   float64 `json:"total_dues_collected"`
	TotalDuesPending     float64 `json:"total_dues_pending"`
	TotalDonations       float64 `json:"total_donations"`
	TotalPledges         float64 `json:"total_pledges"`
	PendingPayments      int64   `json:"pending_payments"`
	PendingLoans         int64   `json:"pending_loans"`
	ActiveLoans          int64   `json:"active_loans"`
	PaidLoans            int64   `json:"paid_loans"`
	DefaultedLoans       int64   `json:"defaulted_loans"`
	TotalLoansDisbursed  float64 `json:"total_loans_disbursed"`
	OutstandingLoanTotal float64 `json:"outstanding_loan_total"`
	TotalRepaid          float64 `json:"total_repaid"`
	GeneratedAt          string  `json:"generated_at"`
}

// SystemSummary computes the system-wide financial summary from the
// ledger. Never stored; always derived on demand.
func (s *SummaryService) SystemSummary(ctx context.Context) (*FinancialSummary, error) {
	out := &FinancialSummary{GeneratedAt: time.Now().Format(time.RFC3339)}

	var err error
	if out.TotalMembers, err = s.members.Count(ctx); err != nil {
		return nil, err
	}
	if out.TotalDuesCollected, err = s.payments.SumAll(ctx, domain.PaymentTypeDues, domain.PaymentApproved); err != nil {
		return nil, err
	}
	if out.TotalDuesPending, err = s.payments.SumAll(ctx, domain.PaymentTypeDues, domain.PaymentPending); err != nil {
		return nil, err
	}
	if out.TotalDonations, err = s.payments.SumAll(ctx, domain.PaymentTypeDonation, domain.PaymentApproved); err != nil {
		return nil, err
	}
	if out.TotalPledges, err = s.payments.SumAll(ctx, domain.PaymentTypePledge, domain.PaymentApproved); err != nil {
		return nil, err
	}
	if out.PendingPayments, err = s.payments.CountByStatus(ctx, domain.PaymentPending); err != nil {
		return nil, err
	}
	if out.PendingLoans, err = s.loans.CountByStatus(ctx, domain.LoanPending); err != nil {
		return nil, err
	}
	if out.ActiveLoans, err = s.loans.CountByStatus(ctx, domain.LoanApproved); err != nil {
		return nil, err
	}
	if out.PaidLoans, err = s.loans.CountByStatus(ctx, domain.LoanPaid); err != nil {
		return nil, err
	}
	if out.DefaultedLoans, err = s.loans.CountByStatus(ctx, domain.LoanDefaulted); err != nil {
		return nil, err
	}

	// Disbursed covers every loan that reached approved, including
	// loans later paid off or defaulted.
	for _, status := range []domain.LoanStatus{domain.LoanApproved, domain.LoanPaid, domain.LoanDefaulted} {
		sum, err := s.loans.SumByStatus(ctx, status)
		if err != nil {
			return nil, err
		}
		out.TotalLoansDisbursed += sum
	}

	if out.TotalRepaid, err = s.repayments.SumTotal(ctx); err != nil {
		return nil, err
	}

	activePrincipal, err := s.loans.SumByStatus(ctx, domain.LoanApproved)
	if err != nil {
		return nil, err
	}
	activeRepaid, err := s.repayments.SumByLoanStatus(ctx, []domain.LoanStatus{domain.LoanApproved})
	if err != nil {
		return nil, err
	}
	out.OutstandingLoanTotal = activePrincipal - activeRepaid
	if out.OutstandingLoanTotal < 0 {
		out.OutstandingLoanTotal = 0
	}

	return out, nil
}
