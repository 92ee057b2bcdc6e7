package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"alumnifund/internal/core/domain"
)

func TestSubmitPayment(t *testing.T) {
	f := newLedgerFixture()
	f.addMember(1, time.Now())

	p, err := f.ledger.SubmitPayment(context.Background(), SubmitPaymentInput{
		MemberID: 1,
		Amount:   120,
		Type:     domain.PaymentTypeDues,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if p.Status != domain.PaymentPending {
		t.Fatalf("expected new payments to enter pending, got %s", p.Status)
	}
	if p.Date.IsZero() {
		t.Errorf("expected payment date defaulted to now")
	}
	if p.ID == 0 {
		t.Errorf("expected payment persisted with an ID")
	}
}

func TestSubmitPaymentValidation(t *testing.T) {
	f := newLedgerFixture()
	f.addMember(1, time.Now())

	tests := []struct {
		name  string
		input SubmitPaymentInput
	}{
		{"zero amount", SubmitPaymentInput{MemberID: 1, Amount: 0, Type: domain.PaymentTypeDues}},
		{"negative amount", SubmitPaymentInput{MemberID: 1, Amount: -10, Type: domain.PaymentTypeDues}},
		{"unknown type", SubmitPaymentInput{MemberID: 1, Amount: 10, Type: "bribe"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.ledger.SubmitPayment(context.Background(), tt.input); !domain.IsValidation(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestSubmitPaymentUnknownMember(t *testing.T) {
	f := newLedgerFixture()

	_, err := f.ledger.SubmitPayment(context.Background(), SubmitPaymentInput{
		MemberID: 42,
		Amount:   120,
		Type:     domain.PaymentTypeDues,
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSubmitLoanApplication(t *testing.T) {
	f := newLedgerFixture()
	f.addMember(1, time.Now())

	l, err := f.ledger.SubmitLoanApplication(context.Background(), SubmitLoanInput{
		MemberID: 1,
		Amount:   5000,
		Purpose:  "tuition support",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if l.Status != domain.LoanPending {
		t.Fatalf("expected new loans to enter pending, got %s", l.Status)
	}
	if l.RepaymentTerm != nil || l.DueDate != nil {
		t.Errorf("term and due date must stay unset until approval")
	}
}

func TestSubmitLoanApplicationValidation(t *testing.T) {
	f := newLedgerFixture()
	f.addMember(1, time.Now())

	if _, err := f.ledger.SubmitLoanApplication(context.Background(), SubmitLoanInput{MemberID: 1, Amount: -1, Purpose: "x"}); !domain.IsValidation(err) {
		t.Fatalf("expected validation error for amount, got %v", err)
	}
	if _, err := f.ledger.SubmitLoanApplication(context.Background(), SubmitLoanInput{MemberID: 1, Amount: 100}); !domain.IsValidation(err) {
		t.Fatalf("expected validation error for missing purpose, got %v", err)
	}
}

func TestGetPaymentNotFound(t *testing.T) {
	f := newLedgerFixture()

	_, err := f.ledger.GetPayment(context.Background(), 99)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListPaymentsRejectsUnknownStatusFilter(t *testing.T) {
	f := newLedgerFixture()

	bad := domain.PaymentStatus("limbo")
	_, _, err := f.ledger.ListPayments(context.Background(), &bad, 0, 10)
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestListLoansRejectsUnknownStatusFilter(t *testing.T) {
	f := newLedgerFixture()

	bad := domain.LoanStatus("limbo")
	_, _, err := f.ledger.ListLoans(context.Background(), &bad, 0, 10)
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
