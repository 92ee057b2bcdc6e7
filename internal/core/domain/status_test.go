package domain

import (
	"testing"
	"time"
)

func TestPaymentStatusTransitions(t *testing.T) {
	tests := []struct {
		from, to PaymentStatus
		want     bool
	}{
		{PaymentPending, PaymentApproved, true},
		{PaymentPending, PaymentRejected, true},
		{PaymentApproved, PaymentRejected, false},
		{PaymentApproved, PaymentPending, false},
		{PaymentRejected, PaymentApproved, false},
		{PaymentPending, PaymentPending, false},
	}
	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
			t.Errorf("%s -> %s: got %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestPaymentStatusTerminal(t *testing.T) {
	if PaymentPending.Terminal() {
		t.Errorf("pending must not be terminal")
	}
	if !PaymentApproved.Terminal() || !PaymentRejected.Terminal() {
		t.Errorf("approved and rejected must be terminal")
	}
}

func TestLoanStatusTransitions(t *testing.T) {
	tests := []struct {
		from, to LoanStatus
		want     bool
	}{
		{LoanPending, LoanApproved, true},
		{LoanPending, LoanRejected, true},
		{LoanApproved, LoanPaid, true},
		{LoanApproved, LoanDefaulted, true},
		{LoanPending, LoanPaid, false},
		{LoanPending, LoanDefaulted, false},
		{LoanRejected, LoanApproved, false},
		{LoanPaid, LoanDefaulted, false},
		{LoanDefaulted, LoanPaid, false},
		{LoanApproved, LoanPending, false},
	}
	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
			t.Errorf("%s -> %s: got %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestLoanStatusTerminal(t *testing.T) {
	for _, s := range []LoanStatus{LoanRejected, LoanPaid, LoanDefaulted} {
		if !s.Terminal() {
			t.Errorf("%s must be terminal", s)
		}
	}
	for _, s := range []LoanStatus{LoanPending, LoanApproved} {
		if s.Terminal() {
			t.Errorf("%s must not be terminal", s)
		}
	}
}

func TestRepaymentTermValid(t *testing.T) {
	for _, term := range []RepaymentTerm{3, 6, 12, 24} {
		if !term.Valid() {
			t.Errorf("term %d should be valid", term)
		}
	}
	for _, term := range []RepaymentTerm{0, 1, 5, 36} {
		if term.Valid() {
			t.Errorf("term %d should be invalid", term)
		}
	}
}

func TestRepaymentTermDueDate(t *testing.T) {
	approval := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	got := TermSixMonths.DueDateFrom(approval)
	want := time.Date(2026, 7, 15, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestPaymentTypeValid(t *testing.T) {
	for _, pt := range []PaymentType{PaymentTypeDues, PaymentTypeDonation, PaymentTypePledge} {
		if !pt.Valid() {
			t.Errorf("type %s should be valid", pt)
		}
	}
	if PaymentType("tip").Valid() {
		t.Errorf("unknown type should be invalid")
	}
}
