package services

import (
	"context"
	"io"
	"time"

	"alumnifund/internal/adapters/persistence/models"
	"alumnifund/internal/core/domain"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// stubMemberRepo is an in-memory MemberRepository
type stubMemberRepo struct {
	members map[uint]*models.Member
}

func newStubMemberRepo() *stubMemberRepo {
	return &stubMemberRepo{members: map[uint]*models.Member{}}
}

func (s *stubMemberRepo) Create(ctx context.Context, member *models.Member) error {
	member.ID = uint(len(s.members) + 1)
	s.members[member.ID] = member
	return nil
}

func (s *stubMemberRepo) GetByID(ctx context.Context, id uint) (*models.Member, error) {
	m, ok := s.members[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return m, nil
}

func (s *stubMemberRepo) Update(ctx context.Context, member *models.Member) error {
	s.members[member.ID] = member
	return nil
}

func (s *stubMemberRepo) List(ctx context.Context, offset, limit int) ([]*models.Member, int64, error) {
	var out []*models.Member
	for _, m := range s.members {
		out = append(out, m)
	}
	return out, int64(len(out)), nil
}

func (s *stubMemberRepo) ListIDs(ctx context.Context) ([]uint, error) {
	var ids []uint
	for id := range s.members {
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *stubMemberRepo) Exists(ctx context.Context, id uint) (bool, error) {
	_, ok := s.members[id]
	return ok, nil
}

func (s *stubMemberRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(s.members)), nil
}

func (s *stubMemberRepo) Search(ctx context.Context, query string, limit int) ([]*models.Member, error) {
	return nil, nil
}

// stubPaymentRepo is an in-memory PaymentRepository. beforeTransition,
// when set, runs inside TransitionStatus before the status check so
// tests can simulate a concurrent writer winning the race.
type stubPaymentRepo struct {
	payments         map[uint]*models.Payment
	nextID           uint
	transitionCalls  int
	transitionErr    error
	beforeTransition func()
}

func newStubPaymentRepo() *stubPaymentRepo {
	return &stubPaymentRepo{payments: map[uint]*models.Payment{}, nextID: 1}
}

func (s *stubPaymentRepo) Create(ctx context.Context, payment *models.Payment) error {
	payment.ID = s.nextID
	s.nextID++
	s.payments[payment.ID] = payment
	return nil
}

func (s *stubPaymentRepo) GetByID(ctx context.Context, id uint) (*models.Payment, error) {
	p, ok := s.payments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (s *stubPaymentRepo) ListByMember(ctx context.Context, memberID uint) ([]*models.Payment, error) {
	var out []*models.Payment
	for _, p := range s.payments {
		if p.MemberID == memberID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *stubPaymentRepo) List(ctx context.Context, status *domain.PaymentStatus, offset, limit int) ([]*models.Payment, int64, error) {
	var out []*models.Payment
	for _, p := range s.payments {
		if status == nil || p.Status == *status {
			out = append(out, p)
		}
	}
	return out, int64(len(out)), nil
}

func (s *stubPaymentRepo) ListInRange(ctx context.Context, from, to time.Time) ([]*models.Payment, error) {
	var out []*models.Payment
	for _, p := range s.payments {
		if !p.Date.Before(from) && !p.Date.After(to) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *stubPaymentRepo) TransitionStatus(ctx context.Context, id uint, from, to domain.PaymentStatus, fields map[string]interface{}) (int64, error) {
	s.transitionCalls++
	if s.transitionErr != nil {
		return 0, s.transitionErr
	}
	if s.beforeTransition != nil {
		s.beforeTransition()
	}
	p, ok := s.payments[id]
	if !ok || p.Status != from {
		return 0, nil
	}
	p.Status = to
	if v, ok := fields["approval_date"].(time.Time); ok {
		p.ApprovalDate = &v
	}
	if v, ok := fields["approved_by"].(uint); ok {
		p.ApprovedBy = &v
	}
	return 1, nil
}

func (s *stubPaymentRepo) SumByMember(ctx context.Context, memberID uint, ptype domain.PaymentType, status domain.PaymentStatus) (float64, error) {
	var sum float64
	for _, p := range s.payments {
		if p.MemberID == memberID && p.Type == ptype && p.Status == status {
			sum += p.Amount
		}
	}
	return sum, nil
}

func (s *stubPaymentRepo) SumAll(ctx context.Context, ptype domain.PaymentType, status domain.PaymentStatus) (float64, error) {
	var sum float64
	for _, p := range s.payments {
		if p.Type == ptype && p.Status == status {
			sum += p.Amount
		}
	}
	return sum, nil
}

func (s *stubPaymentRepo) CountByStatus(ctx context.Context, status domain.PaymentStatus) (int64, error) {
	var n int64
	for _, p := range s.payments {
		if p.Status == status {
			n++
		}
	}
	return n, nil
}

// stubLoanRepo is an in-memory LoanRepository with the same race hook
// as stubPaymentRepo.
type stubLoanRepo struct {
	loans            map[uint]*models.Loan
	nextID           uint
	transitionCalls  int
	transitionErr    error
	beforeTransition func()
}

func newStubLoanRepo() *stubLoanRepo {
	return &stubLoanRepo{loans: map[uint]*models.Loan{}, nextID: 1}
}

func (s *stubLoanRepo) Create(ctx context.Context, loan *models.Loan) error {
	loan.ID = s.nextID
	s.nextID++
	s.loans[loan.ID] = loan
	return nil
}

func (s *stubLoanRepo) GetByID(ctx context.Context, id uint) (*models.Loan, error) {
	l, ok := s.loans[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return l, nil
}

func (s *stubLoanRepo) ListByMember(ctx context.Context, memberID uint) ([]*models.Loan, error) {
	var out []*models.Loan
	for _, l := range s.loans {
		if l.MemberID == memberID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (s *stubLoanRepo) List(ctx context.Context, status *domain.LoanStatus, offset, limit int) ([]*models.Loan, int64, error) {
	var out []*models.Loan
	for _, l := range s.loans {
		if status == nil || l.Status == *status {
			out = append(out, l)
		}
	}
	return out, int64(len(out)), nil
}

func (s *stubLoanRepo) ListInRange(ctx context.Context, from, to time.Time) ([]*models.Loan, error) {
	var out []*models.Loan
	for _, l := range s.loans {
		if !l.ApplicationDate.Before(from) && !l.ApplicationDate.After(to) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (s *stubLoanRepo) ListOverdue(ctx context.Context, asOf time.Time) ([]*models.Loan, error) {
	var out []*models.Loan
	for _, l := range s.loans {
		if l.Status == domain.LoanApproved && l.DueDate != nil && l.DueDate.Before(asOf) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (s *stubLoanRepo) TransitionStatus(ctx context.Context, id uint, from, to domain.LoanStatus, fields map[string]interface{}) (int64, error) {
	s.transitionCalls++
	if s.transitionErr != nil {
		return 0, s.transitionErr
	}
	if s.beforeTransition != nil {
		s.beforeTransition()
	}
	l, ok := s.loans[id]
	if !ok || l.Status != from {
		return 0, nil
	}
	l.Status = to
	if v, ok := fields["approval_date"].(time.Time); ok {
		l.ApprovalDate = &v
	}
	if v, ok := fields["approved_by"].(uint); ok {
		l.ApprovedBy = &v
	}
	if v, ok := fields["repayment_term"].(domain.RepaymentTerm); ok {
		l.RepaymentTerm = &v
	}
	if v, ok := fields["due_date"].(time.Time); ok {
		l.DueDate = &v
	}
	return 1, nil
}

func (s *stubLoanRepo) CountByMember(ctx context.Context, memberID uint, status domain.LoanStatus) (int64, error) {
	var n int64
	for _, l := range s.loans {
		if l.MemberID == memberID && l.Status == status {
			n++
		}
	}
	return n, nil
}

func (s *stubLoanRepo) SumByMember(ctx context.Context, memberID uint, status domain.LoanStatus) (float64, error) {
	var sum float64
	for _, l := range s.loans {
		if l.MemberID == memberID && l.Status == status {
			sum += l.Amount
		}
	}
	return sum, nil
}

func (s *stubLoanRepo) CountByStatus(ctx context.Context, status domain.LoanStatus) (int64, error) {
	var n int64
	for _, l := range s.loans {
		if l.Status == status {
			n++
		}
	}
	return n, nil
}

func (s *stubLoanRepo) SumByStatus(ctx context.Context, status domain.LoanStatus) (float64, error) {
	var sum float64
	for _, l := range s.loans {
		if l.Status == status {
			sum += l.Amount
		}
	}
	return sum, nil
}

// stubRepaymentRepo is an in-memory RepaymentRepository. It resolves
// loan joins through the loans stub when one is attached.
type stubRepaymentRepo struct {
	repayments []*models.Repayment
	loans      *stubLoanRepo
	createErr  error
}

func newStubRepaymentRepo(loans *stubLoanRepo) *stubRepaymentRepo {
	return &stubRepaymentRepo{loans: loans}
}

func (s *stubRepaymentRepo) Create(ctx context.Context, repayment *models.Repayment) error {
	if s.createErr != nil {
		return s.createErr
	}
	repayment.ID = uint(len(s.repayments) + 1)
	s.repayments = append(s.repayments, repayment)
	return nil
}

func (s *stubRepaymentRepo) ListByLoan(ctx context.Context, loanID uint) ([]*models.Repayment, error) {
	var out []*models.Repayment
	for _, r := range s.repayments {
		if r.LoanID == loanID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *stubRepaymentRepo) SumByLoan(ctx context.Context, loanID uint) (float64, error) {
	var sum float64
	for _, r := range s.repayments {
		if r.LoanID == loanID {
			sum += r.Amount
		}
	}
	return sum, nil
}

func (s *stubRepaymentRepo) loanStatusIn(loanID uint, statuses []domain.LoanStatus) bool {
	if s.loans == nil {
		return false
	}
	l, ok := s.loans.loans[loanID]
	if !ok {
		return false
	}
	for _, st := range statuses {
		if l.Status == st {
			return true
		}
	}
	return false
}

func (s *stubRepaymentRepo) SumByMember(ctx context.Context, memberID uint, statuses []domain.LoanStatus) (float64, error) {
	var sum float64
	for _, r := range s.repayments {
		if s.loans == nil {
			continue
		}
		l, ok := s.loans.loans[r.LoanID]
		if !ok || l.MemberID != memberID {
			continue
		}
		if s.loanStatusIn(r.LoanID, statuses) {
			sum += r.Amount
		}
	}
	return sum, nil
}

func (s *stubRepaymentRepo) SumByLoanStatus(ctx context.Context, statuses []domain.LoanStatus) (float64, error) {
	var sum float64
	for _, r := range s.repayments {
		if s.loanStatusIn(r.LoanID, statuses) {
			sum += r.Amount
		}
	}
	return sum, nil
}

func (s *stubRepaymentRepo) SumTotal(ctx context.Context) (float64, error) {
	var sum float64
	for _, r := range s.repayments {
		sum += r.Amount
	}
	return sum, nil
}

// stubSummaryRepo is an in-memory SummaryRepository
type stubSummaryRepo struct {
	summaries map[uint]*models.MemberSummary
	upserts   int
}

func newStubSummaryRepo() *stubSummaryRepo {
	return &stubSummaryRepo{summaries: map[uint]*models.MemberSummary{}}
}

func (s *stubSummaryRepo) Upsert(ctx context.Context, summary *models.MemberSummary) error {
	s.upserts++
	s.summaries[summary.MemberID] = summary
	return nil
}

func (s *stubSummaryRepo) GetByMemberID(ctx context.Context, memberID uint) (*models.MemberSummary, error) {
	sum, ok := s.summaries[memberID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return sum, nil
}

// ledgerFixture bundles the stub repositories behind a fully wired
// service stack for state machine and aggregation tests.
type ledgerFixture struct {
	members    *stubMemberRepo
	payments   *stubPaymentRepo
	loans      *stubLoanRepo
	repayments *stubRepaymentRepo
	summaries  *stubSummaryRepo

	ledger    *LedgerService
	approvals *ApprovalService
	repayment *RepaymentService
	summary   *SummaryService
}

func newLedgerFixture() *ledgerFixture {
	f := &ledgerFixture{
		members:   newStubMemberRepo(),
		payments:  newStubPaymentRepo(),
		loans:     newStubLoanRepo(),
		summaries: newStubSummaryRepo(),
	}
	f.repayments = newStubRepaymentRepo(f.loans)

	log := testLogger()
	f.summary = NewSummaryService(f.payments, f.loans, f.repayments, f.members, f.summaries, 100, log)
	f.approvals = NewApprovalService(f.payments, f.loans, f.summary, log)
	f.ledger = NewLedgerService(f.payments, f.loans, f.members, log)
	f.repayment = NewRepaymentService(f.loans, f.repayments, f.approvals, log)
	return f
}

func (f *ledgerFixture) addMember(id uint, joined time.Time) *models.Member {
	m := &models.Member{ID: id, FullName: "Test Member", Email: "member@example.com", CreatedAt: joined}
	f.members.members[id] = m
	return m
}

func (f *ledgerFixture) addPayment(memberID uint, amount float64, ptype domain.PaymentType, status domain.PaymentStatus) *models.Payment {
	p := &models.Payment{MemberID: memberID, Amount: amount, Type: ptype, Date: time.Now(), Status: status}
	_ = f.payments.Create(context.Background(), p)
	return p
}

func (f *ledgerFixture) addLoan(memberID uint, amount float64, status domain.LoanStatus) *models.Loan {
	l := &models.Loan{MemberID: memberID, Amount: amount, Purpose: "test", ApplicationDate: time.Now(), Status: status}
	_ = f.loans.Create(context.Background(), l)
	return l
}

func newRepayment(loanID uint, amount float64) *models.Repayment {
	return &models.Repayment{LoanID: loanID, Amount: amount, Date: time.Now(), RecordedBy: 9}
}
