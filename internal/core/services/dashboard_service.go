package services

import (
	"context"
	"time"

	"alumnifund/internal/adapters/persistence/models"
	"alumnifund/internal/core/domain"

	"gorm.io/gorm"
)

// DashboardService handles dashboard operations. Dashboards are
// read-only views over the ledger and derived summaries.
type DashboardService struct {
	db        *gorm.DB
	summaries *SummaryService
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(db *gorm.DB, summaries *SummaryService) *DashboardService {
	return &DashboardService{db: db, summaries: summaries}
}

// ============================================================
// Admin Dashboard
// ============================================================

// AdminDashboardData represents admin dashboard data
type AdminDashboardData struct {
	// Registry
	TotalMembers int64 `json:"total_members"`
	TotalUsers   int64 `json:"total_users"`

	// Pending work queue
	PendingPayments int64 `json:"pending_payments"`
	PendingLoans    int64 `json:"pending_loans"`

	// Ledger statistics
	ApprovedPaymentTotal float64 `json:"approved_payment_total"`
	ActiveLoans          int64   `json:"active_loans"`
	ActiveLoanPrincipal  float64 `json:"active_loan_principal"`
	DefaultedLoans       int64   `json:"defaulted_loans"`

	// This month
	PaymentsThisMonth int64   `json:"payments_this_month"`
	AmountThisMonth   float64 `json:"amount_this_month"`

	// Work queues
	RecentPendingPayments []PendingPaymentInfo `json:"recent_pending_payments"`
	RecentPendingLoans    []PendingLoanInfo    `json:"recent_pending_loans"`
	OverdueLoans          []OverdueLoanInfo    `json:"overdue_loans"`
}

// PendingPaymentInfo represents a payment awaiting decision
type PendingPaymentInfo struct {
	ID         uint      `json:"id"`
	MemberID   uint      `json:"member_id"`
	MemberName string    `json:"member_name"`
	Amount     float64   `json:"amount"`
	Type       string    `json:"type"`
	Date       time.Time `json:"date"`
}

// PendingLoanInfo represents a loan application awaiting decision
type PendingLoanInfo struct {
	ID              uint      `json:"id"`
	MemberID        uint      `json:"member_id"`
	MemberName      string    `json:"member_name"`
	Amount          float64   `json:"amount"`
	Purpose         string    `json:"purpose"`
	ApplicationDate time.Time `json:"application_date"`
}

// OverdueLoanInfo represents an approved loan past its due date
type OverdueLoanInfo struct {
	ID         uint       `json:"id"`
	MemberID   uint       `json:"member_id"`
	MemberName string     `json:"member_name"`
	Amount     float64    `json:"amount"`
	DueDate    *time.Time `json:"due_date"`
}

// GetAdminDashboard returns admin dashboard data
func (s *DashboardService) GetAdminDashboard(ctx context.Context) (*AdminDashboardData, error) {
	data := &AdminDashboardData{}

	s.db.WithContext(ctx).Table("members").Count(&data.TotalMembers)
	s.db.WithContext(ctx).Table("users").Where("deleted_at IS NULL").Count(&data.TotalUsers)

	s.db.WithContext(ctx).Table("payments").
		Where("status = ?", domain.PaymentPending).
		Count(&data.PendingPayments)
	s.db.WithContext(ctx).Table("loans").
		Where("status = ?", domain.LoanPending).
		Count(&data.PendingLoans)

	s.db.WithContext(ctx).Table("payments").
		Where("status = ?", domain.PaymentApproved).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&data.ApprovedPaymentTotal)

	s.db.WithContext(ctx).Table("loans").
		Where("status = ?", domain.LoanApproved).
		Count(&data.ActiveLoans)
	s.db.WithContext(ctx).Table("loans").
		Where("status = ?", domain.LoanApproved).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&data.ActiveLoanPrincipal)
	s.db.WithContext(ctx).Table("loans").
		Where("status = ?", domain.LoanDefaulted).
		Count(&data.DefaultedLoans)

	// This month statistics
	startOfMonth := time.Now().AddDate(0, 0, -time.Now().Day()+1).Truncate(24 * time.Hour)
	s.db.WithContext(ctx).Table("payments").
		Where("created_at >= ? AND status = ?", startOfMonth, domain.PaymentApproved).
		Count(&data.PaymentsThisMonth)
	s.db.WithContext(ctx).Table("payments").
		Where("created_at >= ? AND status = ?", startOfMonth, domain.PaymentApproved).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&data.AmountThisMonth)

	// Oldest pending payments first so the queue drains in order
	var pendingPayments []struct {
		ID         uint
		MemberID   uint
		MemberName string
		Amount     float64
		Type       string
		Date       time.Time
	}
	s.db.WithContext(ctx).Table("payments").
		Select("payments.id, payments.member_id, members.full_name as member_name, payments.amount, payments.type, payments.date").
		Joins("LEFT JOIN members ON payments.member_id = members.id").
		Where("payments.status = ?", domain.PaymentPending).
		Order("payments.created_at ASC").
		Limit(10).
		Scan(&pendingPayments)

	data.RecentPendingPayments = make([]PendingPaymentInfo, len(pendingPayments))
	for i, p := range pendingPayments {
		data.RecentPendingPayments[i] = PendingPaymentInfo{
			ID:         p.ID,
			MemberID:   p.MemberID,
			MemberName: p.MemberName,
			Amount:     p.Amount,
			Type:       p.Type,
			Date:       p.Date,
		}
	}

	var pendingLoans []struct {
		ID              uint
		MemberID        uint
		MemberName      string
		Amount          float64
		Purpose         string
		ApplicationDate time.Time
	}
	s.db.WithContext(ctx).Table("loans").
		Select("loans.id, loans.member_id, members.full_name as member_name, loans.amount, loans.purpose, loans.application_date").
		Joins("LEFT JOIN members ON loans.member_id = members.id").
		Where("loans.status = ?", domain.LoanPending).
		Order("loans.application_date ASC").
		Limit(10).
		Scan(&pendingLoans)

	data.RecentPendingLoans = make([]PendingLoanInfo, len(pendingLoans))
	for i, l := range pendingLoans {
		data.RecentPendingLoans[i] = PendingLoanInfo{
			ID:              l.ID,
			MemberID:        l.MemberID,
			MemberName:      l.MemberName,
			Amount:          l.Amount,
			Purpose:         l.Purpose,
			ApplicationDate: l.ApplicationDate,
		}
	}

	var overdue []struct {
		ID         uint
		MemberID   uint
		MemberName string
		Amount     float64
		DueDate    *time.Time
	}
	s.db.WithContext(ctx).Table("loans").
		Select("loans.id, loans.member_id, members.full_name as member_name, loans.amount, loans.due_date").
		Joins("LEFT JOIN members ON loans.member_id = members.id").
		Where("loans.status = ? AND loans.due_date IS NOT NULL AND loans.due_date < ?", domain.LoanApproved, time.Now()).
		Order("loans.due_date ASC").
		Limit(10).
		Scan(&overdue)

	data.OverdueLoans = make([]OverdueLoanInfo, len(overdue))
	for i, l := range overdue {
		data.OverdueLoans[i] = OverdueLoanInfo{
			ID:         l.ID,
			MemberID:   l.MemberID,
			MemberName: l.MemberName,
			Amount:     l.Amount,
			DueDate:    l.DueDate,
		}
	}

	return data, nil
}

// ============================================================
// Member Dashboard
// ============================================================

// MemberDashboardData represents member dashboard data
type MemberDashboardData struct {
	Summary        *models.MemberSummary     `json:"summary"`
	RecentPayments []*models.PaymentResponse `json:"recent_payments"`
	RecentLoans    []*models.LoanResponse    `json:"recent_loans"`
}

// GetMemberDashboard returns a member's dashboard data
func (s *DashboardService) GetMemberDashboard(ctx context.Context, memberID uint) (*MemberDashboardData, error) {
	summary, err := s.summaries.GetMemberSummary(ctx, memberID)
	if err != nil {
		return nil, err
	}
	data := &MemberDashboardData{Summary: summary}

	var payments []models.Payment
	s.db.WithContext(ctx).
		Where("member_id = ?", memberID).
		Order("date DESC").
		Limit(5).
		Find(&payments)
	for i := range payments {
		data.RecentPayments = append(data.RecentPayments, payments[i].ToResponse())
	}

	var loans []models.Loan
	s.db.WithContext(ctx).
		Preload("Repayments").
		Where("member_id = ?", memberID).
		Order("application_date DESC").
		Limit(5).
		Find(&loans)
	for i := range loans {
		data.RecentLoans = append(data.RecentLoans, loans[i].ToResponse())
	}

	return data, nil
}
