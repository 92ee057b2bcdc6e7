package repositories

import (
	"context"
	"time"

	"alumnifund/internal/adapters/persistence/models"
	"alumnifund/internal/core/domain"

	"gorm.io/gorm"
)

// paymentRepository implements PaymentRepository
type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

// Create creates a new payment record
func (r *paymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

// GetByID gets a payment by ID with relations
func (r *paymentRepository) GetByID(ctx context.Context, id uint) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).
		Preload("Member").
		First(&payment, id).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// ListByMember gets a member's payments, newest first
func (r *paymentRepository) ListByMember(ctx context.Context, memberID uint) ([]*models.Payment, error) {
	var payments []*models.Payment
	err := r.db.WithContext(ctx).
		Where("member_id = ?", memberID).
		Order("date DESC").
		Find(&payments).Error
	return payments, err
}

// List lists payments with pagination, optionally filtered by status
func (r *paymentRepository) List(ctx context.Context, status *domain.PaymentStatus, offset, limit int) ([]*models.Payment, int64, error) {
	var payments []*models.Payment
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Payment{})
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("Member").
		Order("date DESC").
		Offset(offset).
		Limit(limit).
		Find(&payments).Error
	return payments, total, err
}

// ListInRange lists payments dated within [from, to]
func (r *paymentRepository) ListInRange(ctx context.Context, from, to time.Time) ([]*models.Payment, error) {
	var payments []*models.Payment
	err := r.db.WithContext(ctx).
		Where("date >= ? AND date <= ?", from, to).
		Order("date ASC").
		Find(&payments).Error
	return payments, err
}

// TransitionStatus applies a conditional status update. The WHERE clause
// on the current status makes concurrent transitions serialize: only the
// first writer affects a row.
func (r *paymentRepository) TransitionStatus(ctx context.Context, id uint, from, to domain.PaymentStatus, fields map[string]interface{}) (int64, error) {
	updates := map[string]interface{}{"status": to}
	for k, v := range fields {
		updates[k] = v
	}
	res := r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	return res.RowsAffected, res.Error
}

// SumByMember sums a member's payment amounts for a type and status
func (r *paymentRepository) SumByMember(ctx context.Context, memberID uint, ptype domain.PaymentType, status domain.PaymentStatus) (float64, error) {
	var sum float64
	err := r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Where("member_id = ? AND type = ? AND status = ?", memberID, ptype, status).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&sum).Error
	return sum, err
}

// SumAll sums payment amounts across all members for a type and status
func (r *paymentRepository) SumAll(ctx context.Context, ptype domain.PaymentType, status domain.PaymentStatus) (float64, error) {
	var sum float64
	err := r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Where("type = ? AND status = ?", ptype, status).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&sum).Error
	return sum, err
}

// CountByStatus counts payments in a status across all members
func (r *paymentRepository) CountByStatus(ctx context.Context, status domain.PaymentStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}
