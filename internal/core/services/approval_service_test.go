package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"alumnifund/internal/core/domain"
)

var (
	adminActor  = Actor{UserID: 9, Role: domain.RoleAdmin}
	memberActor = Actor{UserID: 3, Role: domain.RoleMember}
)

func TestApprovePayment(t *testing.T) {
	f := newLedgerFixture()
	f.addMember(1, time.Now())
	p := f.addPayment(1, 150, domain.PaymentTypeDues, domain.PaymentPending)

	got, err := f.approvals.ApprovePayment(context.Background(), adminActor, p.ID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got.Status != domain.PaymentApproved {
		t.Fatalf("expected approved, got %s", got.Status)
	}
	if got.ApprovedBy == nil || *got.ApprovedBy != adminActor.UserID {
		t.Errorf("expected approver %d recorded", adminActor.UserID)
	}
	if got.ApprovalDate == nil {
		t.Errorf("expected approval date recorded")
	}
	if f.summaries.upserts != 1 {
		t.Errorf("expected summary recompute after decision, got %d upserts", f.summaries.upserts)
	}
}

func TestApprovePaymentUnauthorized(t *testing.T) {
	f := newLedgerFixture()
	f.addMember(1, time.Now())
	p := f.addPayment(1, 150, domain.PaymentTypeDues, domain.PaymentPending)

	_, err := f.approvals.ApprovePayment(context.Background(), memberActor, p.ID)
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if f.payments.transitionCalls != 0 {
		t.Errorf("expected no transition attempt, got %d", f.payments.transitionCalls)
	}
}

func TestApprovePaymentNotFound(t *testing.T) {
	f := newLedgerFixture()

	_, err := f.approvals.ApprovePayment(context.Background(), adminActor, 99)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestApprovePaymentRepeatIsNoOp(t *testing.T) {
	f := newLedgerFixture()
	f.addMember(1, time.Now())
	p := f.addPayment(1, 150, domain.PaymentTypeDues, domain.PaymentApproved)

	got, err := f.approvals.ApprovePayment(context.Background(), adminActor, p.ID)
	if err != nil {
		t.Fatalf("expected repeated approval to be a no-op, got %v", err)
	}
	if got.Status != domain.PaymentApproved {
		t.Fatalf("expected approved, got %s", got.Status)
	}
	if f.payments.transitionCalls != 0 {
		t.Errorf("expected no conditional update for a no-op, got %d", f.payments.transitionCalls)
	}
}

func TestRejectApprovedPaymentFails(t *testing.T) {
	f := newLedgerFixture()
	f.addMember(1, time.Now())
	p := f.addPayment(1, 150, domain.PaymentTypeDues, domain.PaymentApproved)

	_, err := f.approvals.RejectPayment(context.Background(), adminActor, p.ID)
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestApprovePaymentLostRaceSameOutcome(t *testing.T) {
	f := newLedgerFixture()
	f.addMember(1, time.Now())
	p := f.addPayment(1, 150, domain.PaymentTypeDues, domain.PaymentPending)

	// Another admin approves between our read and our conditional update
	f.payments.beforeTransition = func() {
		p.Status = domain.PaymentApproved
	}

	got, err := f.approvals.ApprovePayment(context.Background(), adminActor, p.ID)
	if err != nil {
		t.Fatalf("losing a race to the same outcome must not error, got %v", err)
	}
	if got.Status != domain.PaymentApproved {
		t.Fatalf("expected approved, got %s", got.Status)
	}
}

func TestApprovePaymentLostRaceConflictingOutcome(t *testing.T) {
	f := newLedgerFixture()
	f.addMember(1, time.Now())
	p := f.addPayment(1, 150, domain.PaymentTypeDues, domain.PaymentPending)

	// Another admin rejects between our read and our conditional update
	f.payments.beforeTransition = func() {
		p.Status = domain.PaymentRejected
	}

	_, err := f.approvals.ApprovePayment(context.Background(), adminActor, p.ID)
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition on conflicting race, got %v", err)
	}
	if p.Status != domain.PaymentRejected {
		t.Fatalf("loser must not overwrite the committed outcome, got %s", p.Status)
	}
}

func TestApproveLoanAssignsTermAndDueDate(t *testing.T) {
	f := newLedgerFixture()
	f.addMember(1, time.Now())
	l := f.addLoan(1, 1000, domain.LoanPending)

	got, err := f.approvals.ApproveLoan(context.Background(), adminActor, l.ID, domain.TermTwelveMonths)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got.Status != domain.LoanApproved {
		t.Fatalf("expected approved, got %s", got.Status)
	}
	if got.RepaymentTerm == nil || *got.RepaymentTerm != domain.TermTwelveMonths {
		t.Fatalf("expected repayment term 12 assigned")
	}
	if got.DueDate == nil || got.ApprovalDate == nil {
		t.Fatalf("expected due date and approval date assigned")
	}
	wantDue := got.ApprovalDate.AddDate(0, 12, 0)
	if !got.DueDate.Equal(wantDue) {
		t.Errorf("expected due date %v, got %v", wantDue, *got.DueDate)
	}
}

func TestApproveLoanInvalidTerm(t *testing.T) {
	f := newLedgerFixture()
	f.addMember(1, time.Now())
	l := f.addLoan(1, 1000, domain.LoanPending)

	_, err := f.approvals.ApproveLoan(context.Background(), adminActor, l.ID, domain.RepaymentTerm(5))
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRejectLoan(t *testing.T) {
	f := newLedgerFixture()
	f.addMember(1, time.Now())
	l := f.addLoan(1, 1000, domain.LoanPending)

	got, err := f.approvals.RejectLoan(context.Background(), adminActor, l.ID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got.Status != domain.LoanRejected {
		t.Fatalf("expected rejected, got %s", got.Status)
	}
}

func TestCompleteLoanFromApproved(t *testing.T) {
	f := newLedgerFixture()
	f.addMember(1, time.Now())
	l := f.addLoan(1, 1000, domain.LoanApproved)

	got, err := f.approvals.CompleteLoan(context.Background(), l.ID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got.Status != domain.LoanPaid {
		t.Fatalf("expected paid, got %s", got.Status)
	}
}

func TestCompleteLoanRepeatIsNoOp(t *testing.T) {
	f := newLedgerFixture()
	f.addMember(1, time.Now())
	l := f.addLoan(1, 1000, domain.LoanPaid)

	got, err := f.approvals.CompleteLoan(context.Background(), l.ID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got.Status != domain.LoanPaid {
		t.Fatalf("expected paid, got %s", got.Status)
	}
	if f.loans.transitionCalls != 0 {
		t.Errorf("expected no conditional update for a no-op, got %d", f.loans.transitionCalls)
	}
}

func TestDefaultLoanRequiresApproved(t *testing.T) {
	f := newLedgerFixture()
	f.addMember(1, time.Now())
	l := f.addLoan(1, 1000, domain.LoanPending)

	_, err := f.approvals.DefaultLoan(context.Background(), l.ID)
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestDefaultLoanLostRaceToCompletion(t *testing.T) {
	f := newLedgerFixture()
	f.addMember(1, time.Now())
	l := f.addLoan(1, 1000, domain.LoanApproved)

	// Final repayment lands between the sweep's read and its update
	f.loans.beforeTransition = func() {
		l.Status = domain.LoanPaid
	}

	_, err := f.approvals.DefaultLoan(context.Background(), l.ID)
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if l.Status != domain.LoanPaid {
		t.Fatalf("sweep must not overwrite a paid loan, got %s", l.Status)
	}
}
