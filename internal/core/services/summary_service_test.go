package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"alumnifund/internal/core/domain"
)

func TestRecomputeCountsApprovedRecordsOnly(t *testing.T) {
	f := newLedgerFixture()
	// Joined two calendar years ago, so three membership years at 100/year
	joined := time.Now().AddDate(-2, 0, 0)
	f.addMember(1, joined)

	f.addPayment(1, 150, domain.PaymentTypeDues, domain.PaymentApproved)
	f.addPayment(1, 50, domain.PaymentTypeDues, domain.PaymentPending)
	f.addPayment(1, 80, domain.PaymentTypeDues, domain.PaymentRejected)
	f.addPayment(1, 25, domain.PaymentTypeDonation, domain.PaymentApproved)
	f.addPayment(1, 40, domain.PaymentTypeDonation, domain.PaymentPending)

	loan := f.addLoan(1, 1000, domain.LoanApproved)
	f.addLoan(1, 500, domain.LoanPending)
	f.repayments.repayments = append(f.repayments.repayments, newRepayment(loan.ID, 400))

	sum, err := f.summary.Recompute(context.Background(), 1)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if sum.TotalDuesPaid != 150 {
		t.Errorf("expected dues paid 150, got %v", sum.TotalDuesPaid)
	}
	if sum.DuesOwing != 150 {
		t.Errorf("expected dues owing 150 (3 years at 100 minus 150 paid), got %v", sum.DuesOwing)
	}
	if sum.TotalDonations != 25 {
		t.Errorf("expected donations 25, got %v", sum.TotalDonations)
	}
	if sum.ActiveLoans != 1 {
		t.Errorf("expected 1 active loan, got %d", sum.ActiveLoans)
	}
	if sum.LoanBalance != 600 {
		t.Errorf("expected loan balance 600, got %v", sum.LoanBalance)
	}
}

func TestRecomputeIsIdempotent(t *testing.T) {
	f := newLedgerFixture()
	f.addMember(1, time.Now().AddDate(-1, 0, 0))
	f.addPayment(1, 100, domain.PaymentTypeDues, domain.PaymentApproved)
	loan := f.addLoan(1, 500, domain.LoanApproved)
	f.repayments.repayments = append(f.repayments.repayments, newRepayment(loan.ID, 200))

	first, err := f.summary.Recompute(context.Background(), 1)
	if err != nil {
		t.Fatalf("first recompute failed: %v", err)
	}
	second, err := f.summary.Recompute(context.Background(), 1)
	if err != nil {
		t.Fatalf("second recompute failed: %v", err)
	}
	if *first != *second {
		t.Fatalf("recompute on unchanged ledger must be identical: %+v vs %+v", first, second)
	}
}

func TestDuesOwingNeverNegative(t *testing.T) {
	f := newLedgerFixture()
	f.addMember(1, time.Now())
	// Paid well past the single year owed
	f.addPayment(1, 900, domain.PaymentTypeDues, domain.PaymentApproved)

	sum, err := f.summary.Recompute(context.Background(), 1)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if sum.DuesOwing != 0 {
		t.Fatalf("expected dues owing floored at 0, got %v", sum.DuesOwing)
	}
}

func TestRecomputeUnknownMember(t *testing.T) {
	f := newLedgerFixture()

	_, err := f.summary.Recompute(context.Background(), 7)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetMemberSummaryComputesOnFirstAccess(t *testing.T) {
	f := newLedgerFixture()
	f.addMember(1, time.Now())
	f.addPayment(1, 100, domain.PaymentTypeDues, domain.PaymentApproved)

	sum, err := f.summary.GetMemberSummary(context.Background(), 1)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if sum.TotalDuesPaid != 100 {
		t.Errorf("expected dues paid 100, got %v", sum.TotalDuesPaid)
	}
	if f.summaries.upserts != 1 {
		t.Errorf("expected summary stored on first access, got %d upserts", f.summaries.upserts)
	}

	// Second read serves the stored row
	if _, err := f.summary.GetMemberSummary(context.Background(), 1); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if f.summaries.upserts != 1 {
		t.Errorf("expected no recompute on second access, got %d upserts", f.summaries.upserts)
	}
}

func TestRecomputeAllContinuesPastFailures(t *testing.T) {
	f := newLedgerFixture()
	f.addMember(1, time.Now())
	f.addMember(2, time.Now())

	recomputed, err := f.summary.RecomputeAll(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if recomputed != 2 {
		t.Fatalf("expected 2 members recomputed, got %d", recomputed)
	}
}

func TestSystemSummary(t *testing.T) {
	f := newLedgerFixture()
	f.addMember(1, time.Now())
	f.addMember(2, time.Now())

	f.addPayment(1, 200, domain.PaymentTypeDues, domain.PaymentApproved)
	f.addPayment(2, 75, domain.PaymentTypeDonation, domain.PaymentApproved)
	f.addPayment(2, 30, domain.PaymentTypeDues, domain.PaymentPending)

	active := f.addLoan(1, 1000, domain.LoanApproved)
	f.addLoan(2, 500, domain.LoanPaid)
	f.addLoan(2, 250, domain.LoanPending)
	f.repayments.repayments = append(f.repayments.repayments, newRepayment(active.ID, 300))

	got, err := f.summary.SystemSummary(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got.TotalMembers != 2 {
		t.Errorf("expected 2 members, got %d", got.TotalMembers)
	}
	if got.TotalDuesCollected != 200 {
		t.Errorf("expected dues collected 200, got %v", got.TotalDuesCollected)
	}
	if got.TotalDuesPending != 30 {
		t.Errorf("expected dues pending 30, got %v", got.TotalDuesPending)
	}
	if got.TotalDonations != 75 {
		t.Errorf("expected donations 75, got %v", got.TotalDonations)
	}
	if got.PendingPayments != 1 {
		t.Errorf("expected 1 pending payment, got %d", got.PendingPayments)
	}
	if got.PendingLoans != 1 {
		t.Errorf("expected 1 pending loan, got %d", got.PendingLoans)
	}
	if got.ActiveLoans != 1 || got.PaidLoans != 1 {
		t.Errorf("expected 1 active and 1 paid loan, got %d and %d", got.ActiveLoans, got.PaidLoans)
	}
	// Disbursed includes the paid-off loan, not the pending application
	if got.TotalLoansDisbursed != 1500 {
		t.Errorf("expected disbursed 1500, got %v", got.TotalLoansDisbursed)
	}
	if got.OutstandingLoanTotal != 700 {
		t.Errorf("expected outstanding 700, got %v", got.OutstandingLoanTotal)
	}
	if got.TotalRepaid != 300 {
		t.Errorf("expected repaid 300, got %v", got.TotalRepaid)
	}
}
