package repositories

import (
	"context"
	"time"

	"alumnifund/internal/adapters/persistence/models"
	"alumnifund/internal/core/domain"

	"gorm.io/gorm"
)

// loanRepository implements LoanRepository
type loanRepository struct {
	db *gorm.DB
}

// NewLoanRepository creates a new loan repository
func NewLoanRepository(db *gorm.DB) LoanRepository {
	return &loanRepository{db: db}
}

// Create creates a new loan record
func (r *loanRepository) Create(ctx context.Context, loan *models.Loan) error {
	return r.db.WithContext(ctx).Create(loan).Error
}

// GetByID gets a loan by ID with relations
func (r *loanRepository) GetByID(ctx context.Context, id uint) (*models.Loan, error) {
	var loan models.Loan
	err := r.db.WithContext(ctx).
		Preload("Member").
		Preload("Repayments").
		First(&loan, id).Error
	if err != nil {
		return nil, err
	}
	return &loan, nil
}

// ListByMember gets a member's loans, newest application first
func (r *loanRepository) ListByMember(ctx context.Context, memberID uint) ([]*models.Loan, error) {
	var loans []*models.Loan
	err := r.db.WithContext(ctx).
		Preload("Repayments").
		Where("member_id = ?", memberID).
		Order("application_date DESC").
		Find(&loans).Error
	return loans, err
}

// List lists loans with pagination, optionally filtered by status
func (r *loanRepository) List(ctx context.Context, status *domain.LoanStatus, offset, limit int) ([]*models.Loan, int64, error) {
	var loans []*models.Loan
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Loan{})
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("Member").
		Preload("Repayments").
		Order("application_date DESC").
		Offset(offset).
		Limit(limit).
		Find(&loans).Error
	return loans, total, err
}

// ListInRange lists loans applied for within [from, to]
func (r *loanRepository) ListInRange(ctx context.Context, from, to time.Time) ([]*models.Loan, error) {
	var loans []*models.Loan
	err := r.db.WithContext(ctx).
		Preload("Repayments").
		Where("application_date >= ? AND application_date <= ?", from, to).
		Order("application_date ASC").
		Find(&loans).Error
	return loans, err
}

// ListOverdue lists approved loans whose due date has passed
func (r *loanRepository) ListOverdue(ctx context.Context, asOf time.Time) ([]*models.Loan, error) {
	var loans []*models.Loan
	err := r.db.WithContext(ctx).
		Preload("Repayments").
		Where("status = ? AND due_date IS NOT NULL AND due_date < ?", domain.LoanApproved, asOf).
		Find(&loans).Error
	return loans, err
}

// TransitionStatus applies a conditional status update, see
// PaymentRepository.TransitionStatus for the serialization contract.
func (r *loanRepository) TransitionStatus(ctx context.Context, id uint, from, to domain.LoanStatus, fields map[string]interface{}) (int64, error) {
	updates := map[string]interface{}{"status": to}
	for k, v := range fields {
		updates[k] = v
	}
	res := r.db.WithContext(ctx).
		Model(&models.Loan{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	return res.RowsAffected, res.Error
}

// CountByMember counts a member's loans in a status
func (r *loanRepository) CountByMember(ctx context.Context, memberID uint, status domain.LoanStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Loan{}).
		Where("member_id = ? AND status = ?", memberID, status).
		Count(&count).Error
	return count, err
}

// SumByMember sums a member's loan amounts in a status
func (r *loanRepository) SumByMember(ctx context.Context, memberID uint, status domain.LoanStatus) (float64, error) {
	var sum float64
	err := r.db.WithContext(ctx).
		Model(&models.Loan{}).
		Where("member_id = ? AND status = ?", memberID, status).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&sum).Error
	return sum, err
}

// CountByStatus counts loans in a status across all members
func (r *loanRepository) CountByStatus(ctx context.Context, status domain.LoanStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Loan{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}

// SumByStatus sums loan amounts in a status across all members
func (r *loanRepository) SumByStatus(ctx context.Context, status domain.LoanStatus) (float64, error) {
	var sum float64
	err := r.db.WithContext(ctx).
		Model(&models.Loan{}).
		Where("status = ?", status).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&sum).Error
	return sum, err
}

// repaymentRepository implements RepaymentRepository
type repaymentRepository struct {
	db *gorm.DB
}

// NewRepaymentRepository creates a new repayment repository
func NewRepaymentRepository(db *gorm.DB) RepaymentRepository {
	return &repaymentRepository{db: db}
}

// Create creates a new repayment record
func (r *repaymentRepository) Create(ctx context.Context, repayment *models.Repayment) error {
	return r.db.WithContext(ctx).Create(repayment).Error
}

// ListByLoan gets a loan's repayments, newest first
func (r *repaymentRepository) ListByLoan(ctx context.Context, loanID uint) ([]*models.Repayment, error) {
	var repayments []*models.Repayment
	err := r.db.WithContext(ctx).
		Where("loan_id = ?", loanID).
		Order("date DESC").
		Find(&repayments).Error
	return repayments, err
}

// SumByLoan sums repayment amounts for a loan
func (r *repaymentRepository) SumByLoan(ctx context.Context, loanID uint) (float64, error) {
	var sum float64
	err := r.db.WithContext(ctx).
		Model(&models.Repayment{}).
		Where("loan_id = ?", loanID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&sum).Error
	return sum, err
}

// SumByMember sums repayments against a member's loans in the given statuses
func (r *repaymentRepository) SumByMember(ctx context.Context, memberID uint, statuses []domain.LoanStatus) (float64, error) {
	var sum float64
	err := r.db.WithContext(ctx).
		Model(&models.Repayment{}).
		Joins("JOIN loans ON repayments.loan_id = loans.id").
		Where("loans.member_id = ? AND loans.status IN ?", memberID, statuses).
		Select("COALESCE(SUM(repayments.amount), 0)").
		Scan(&sum).Error
	return sum, err
}

// SumByLoanStatus sums repayments against loans in the given statuses
// across all members
func (r *repaymentRepository) SumByLoanStatus(ctx context.Context, statuses []domain.LoanStatus) (float64, error) {
	var sum float64
	err := r.db.WithContext(ctx).
		Model(&models.Repayment{}).
		Joins("JOIN loans ON repayments.loan_id = loans.id").
		Where("loans.status IN ?", statuses).
		Select("COALESCE(SUM(repayments.amount), 0)").
		Scan(&sum).Error
	return sum, err
}

// SumTotal sums all repayment amounts
func (r *repaymentRepository) SumTotal(ctx context.Context) (float64, error) {
	var sum float64
	err := r.db.WithContext(ctx).
		Model(&models.Repayment{}).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&sum).Error
	return sum, err
}
