package domain

import "time"

// PaymentType classifies a ledger payment
type PaymentType string

const (
	PaymentTypeDues     PaymentType = "dues"
	PaymentTypeDonation PaymentType = "donation"
	PaymentTypePledge   PaymentType = "pledge"
)

// Valid reports whether the payment type is in the allowed set
func (t PaymentType) Valid() bool {
	switch t {
	case PaymentTypeDues, PaymentTypeDonation, PaymentTypePledge:
		return true
	}
	return false
}

// PaymentStatus represents a payment lifecycle status
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentApproved PaymentStatus = "approved"
	PaymentRejected PaymentStatus = "rejected"
)

// paymentTransitions is the legal transition set for payments.
// approved and rejected are terminal.
var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentPending: {PaymentApproved, PaymentRejected},
}

// Terminal reports whether no further transition is permitted
func (s PaymentStatus) Terminal() bool {
	return s == PaymentApproved || s == PaymentRejected
}

// CanTransitionTo reports whether s -> target is a legal transition
func (s PaymentStatus) CanTransitionTo(target PaymentStatus) bool {
	for _, t := range paymentTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// Valid reports whether the status is a known payment status
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentApproved, PaymentRejected:
		return true
	}
	return false
}

// LoanStatus represents a loan lifecycle status
type LoanStatus string

const (
	LoanPending   LoanStatus = "pending"
	LoanApproved  LoanStatus = "approved"
	LoanRejected  LoanStatus = "rejected"
	LoanPaid      LoanStatus = "paid"
	LoanDefaulted LoanStatus = "defaulted"
)

// loanTransitions is the legal transition set for loans.
// paid, rejected and defaulted are terminal; paid and defaulted are
// reached from approved via repayment-completion / overdue signals.
var loanTransitions = map[LoanStatus][]LoanStatus{
	LoanPending:  {LoanApproved, LoanRejected},
	LoanApproved: {LoanPaid, LoanDefaulted},
}

// Terminal reports whether no further transition is permitted
func (s LoanStatus) Terminal() bool {
	return s == LoanRejected || s == LoanPaid || s == LoanDefaulted
}

// CanTransitionTo reports whether s -> target is a legal transition
func (s LoanStatus) CanTransitionTo(target LoanStatus) bool {
	for _, t := range loanTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// Valid reports whether the status is a known loan status
func (s LoanStatus) Valid() bool {
	switch s {
	case LoanPending, LoanApproved, LoanRejected, LoanPaid, LoanDefaulted:
		return true
	}
	return false
}

// RepaymentTerm is the loan repayment term in months, assigned at approval
type RepaymentTerm int

const (
	TermThreeMonths      RepaymentTerm = 3
	TermSixMonths        RepaymentTerm = 6
	TermTwelveMonths     RepaymentTerm = 12
	TermTwentyFourMonths RepaymentTerm = 24
)

// Valid reports whether the term is in the allowed set
func (t RepaymentTerm) Valid() bool {
	switch t {
	case TermThreeMonths, TermSixMonths, TermTwelveMonths, TermTwentyFourMonths:
		return true
	}
	return false
}

// DueDateFrom computes the loan due date from the approval date
func (t RepaymentTerm) DueDateFrom(approvalDate time.Time) time.Time {
	return approvalDate.AddDate(0, int(t), 0)
}
