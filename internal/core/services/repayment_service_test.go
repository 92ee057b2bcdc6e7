package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"alumnifund/internal/core/domain"
)

func TestRecordRepaymentPartial(t *testing.T) {
	f := newLedgerFixture()
	f.addMember(1, time.Now())
	l := f.addLoan(1, 1000, domain.LoanApproved)

	got, err := f.repayment.RecordRepayment(context.Background(), adminActor, RecordRepaymentInput{
		LoanID: l.ID,
		Amount: 400,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got.Amount != 400 {
		t.Fatalf("expected amount 400, got %v", got.Amount)
	}
	if got.RecordedBy != adminActor.UserID {
		t.Errorf("expected recorder %d, got %d", adminActor.UserID, got.RecordedBy)
	}
	if got.Date.IsZero() {
		t.Errorf("expected date defaulted")
	}
	if l.Status != domain.LoanApproved {
		t.Fatalf("partial repayment must leave the loan approved, got %s", l.Status)
	}
}

func TestRecordRepaymentCompletesLoan(t *testing.T) {
	f := newLedgerFixture()
	f.addMember(1, time.Now())
	l := f.addLoan(1, 1000, domain.LoanApproved)

	if _, err := f.repayment.RecordRepayment(context.Background(), adminActor, RecordRepaymentInput{LoanID: l.ID, Amount: 600}); err != nil {
		t.Fatalf("first repayment failed: %v", err)
	}
	if _, err := f.repayment.RecordRepayment(context.Background(), adminActor, RecordRepaymentInput{LoanID: l.ID, Amount: 400}); err != nil {
		t.Fatalf("final repayment failed: %v", err)
	}

	if l.Status != domain.LoanPaid {
		t.Fatalf("expected loan paid once the principal is covered, got %s", l.Status)
	}
}

func TestRecordRepaymentOverpayRejected(t *testing.T) {
	f := newLedgerFixture()
	f.addMember(1, time.Now())
	l := f.addLoan(1, 1000, domain.LoanApproved)

	_, err := f.repayment.RecordRepayment(context.Background(), adminActor, RecordRepaymentInput{
		LoanID: l.ID,
		Amount: 1100,
	})
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(f.repayments.repayments) != 0 {
		t.Fatalf("expected nothing recorded, got %d", len(f.repayments.repayments))
	}
}

func TestRecordRepaymentNonApprovedLoan(t *testing.T) {
	for _, status := range []domain.LoanStatus{domain.LoanPending, domain.LoanRejected, domain.LoanPaid, domain.LoanDefaulted} {
		f := newLedgerFixture()
		f.addMember(1, time.Now())
		l := f.addLoan(1, 1000, status)

		_, err := f.repayment.RecordRepayment(context.Background(), adminActor, RecordRepaymentInput{LoanID: l.ID, Amount: 100})
		if !errors.Is(err, domain.ErrInvalidTransition) {
			t.Errorf("status %s: expected ErrInvalidTransition, got %v", status, err)
		}
	}
}

func TestRecordRepaymentUnauthorized(t *testing.T) {
	f := newLedgerFixture()
	f.addMember(1, time.Now())
	l := f.addLoan(1, 1000, domain.LoanApproved)

	_, err := f.repayment.RecordRepayment(context.Background(), memberActor, RecordRepaymentInput{LoanID: l.ID, Amount: 100})
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestRecordRepaymentInvalidAmount(t *testing.T) {
	f := newLedgerFixture()
	f.addMember(1, time.Now())
	l := f.addLoan(1, 1000, domain.LoanApproved)

	for _, amount := range []float64{0, -50} {
		_, err := f.repayment.RecordRepayment(context.Background(), adminActor, RecordRepaymentInput{LoanID: l.ID, Amount: amount})
		if !domain.IsValidation(err) {
			t.Errorf("amount %v: expected validation error, got %v", amount, err)
		}
	}
}

func TestListRepaymentsUnknownLoan(t *testing.T) {
	f := newLedgerFixture()

	_, err := f.repayment.ListByLoan(context.Background(), 42)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
