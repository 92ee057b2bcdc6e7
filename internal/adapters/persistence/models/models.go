package models

import (
	"time"

	"alumnifund/internal/core/domain"

	"gorm.io/gorm"
)

// ============================================================
// Auth & User Tables
// ============================================================

// User represents users table
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	MemberID  uint           `gorm:"uniqueIndex;not null" json:"member_id"`
	Username  string         `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Email     string         `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Password  string         `gorm:"size:255;not null" json:"-"`
	Role      domain.Role    `gorm:"size:20;default:'MEMBER'" json:"role"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// UserResponse DTO
type UserResponse struct {
	ID        uint        `json:"id"`
	MemberID  uint        `json:"member_id"`
	Username  string      `json:"username"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	IsActive  bool        `json:"is_active"`
	FullName  string      `json:"full_name,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		MemberID:  u.MemberID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

// RefreshToken represents refresh_tokens table
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`
	User      User       `gorm:"foreignKey:UserID" json:"-"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// ============================================================
// Member Registry
// ============================================================

// Member represents the alumni member registry. The ledger references
// members by id only; aggregate totals live in MemberSummary and are
// never written outside the summary recompute path.
type Member struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	FullName       string    `gorm:"size:120;not null" json:"full_name"`
	Email          string    `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Phone          string    `gorm:"size:30" json:"phone"`
	Department     string    `gorm:"size:100" json:"department"`
	GraduationYear int       `json:"graduation_year"`
	Workplace      string    `gorm:"size:120" json:"workplace"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Member) TableName() string {
	return "members"
}

// ============================================================
// Transaction Ledger (append-mostly; records are never deleted)
// ============================================================

// Payment represents a dues, donation or pledge submission.
// Mutated only by an administrator approve/reject transition.
type Payment struct {
	ID           uint                 `gorm:"primaryKey" json:"id"`
	MemberID     uint                 `gorm:"not null;index" json:"member_id"`
	Amount       float64              `gorm:"type:decimal(15,2);not null" json:"amount"`
	Type         domain.PaymentType   `gorm:"size:20;not null;index" json:"type"`
	Description  string               `gorm:"type:text" json:"description"`
	Date         time.Time            `gorm:"not null" json:"date"`
	Status       domain.PaymentStatus `gorm:"size:20;not null;default:'pending';index" json:"status"`
	ReceiptURL   *string              `gorm:"size:255" json:"receipt_url"`
	ApprovalDate *time.Time           `json:"approval_date"`
	ApprovedBy   *uint                `json:"approved_by"`
	CreatedAt    time.Time            `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time            `gorm:"autoUpdateTime" json:"updated_at"`

	Member   *Member `gorm:"foreignKey:MemberID" json:"member,omitempty"`
	Approver *User   `gorm:"foreignKey:ApprovedBy" json:"approver,omitempty"`
}

func (Payment) TableName() string {
	return "payments"
}

// PaymentResponse DTO
type PaymentResponse struct {
	ID           uint                 `json:"id"`
	MemberID     uint                 `json:"member_id"`
	MemberName   string               `json:"member_name,omitempty"`
	Amount       float64              `json:"amount"`
	Type         domain.PaymentType   `json:"type"`
	Description  string               `json:"description"`
	Date         time.Time            `json:"date"`
	Status       domain.PaymentStatus `json:"status"`
	ReceiptURL   *string              `json:"receipt_url"`
	ApprovalDate *time.Time           `json:"approval_date"`
}

func (p *Payment) ToResponse() *PaymentResponse {
	resp := &PaymentResponse{
		ID:           p.ID,
		MemberID:     p.MemberID,
		Amount:       p.Amount,
		Type:         p.Type,
		Description:  p.Description,
		Date:         p.Date,
		Status:       p.Status,
		ReceiptURL:   p.ReceiptURL,
		ApprovalDate: p.ApprovalDate,
	}
	if p.Member != nil {
		resp.MemberName = p.Member.FullName
	}
	return resp
}

// Loan represents a member loan application. RepaymentTerm and DueDate
// are assigned at approval time.
type Loan struct {
	ID              uint                  `gorm:"primaryKey" json:"id"`
	MemberID        uint                  `gorm:"not null;index" json:"member_id"`
	Amount          float64               `gorm:"type:decimal(15,2);not null" json:"amount"`
	Purpose         string                `gorm:"type:text;not null" json:"purpose"`
	ApplicationDate time.Time             `gorm:"not null" json:"application_date"`
	Status          domain.LoanStatus     `gorm:"size:20;not null;default:'pending';index" json:"status"`
	ApprovalDate    *time.Time            `json:"approval_date"`
	DueDate         *time.Time            `json:"due_date"`
	RepaymentTerm   *domain.RepaymentTerm `json:"repayment_term"`
	ApprovedBy      *uint                 `json:"approved_by"`
	CreatedAt       time.Time             `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time             `gorm:"autoUpdateTime" json:"updated_at"`

	Member     *Member     `gorm:"foreignKey:MemberID" json:"member,omitempty"`
	Approver   *User       `gorm:"foreignKey:ApprovedBy" json:"approver,omitempty"`
	Repayments []Repayment `gorm:"foreignKey:LoanID" json:"repayments,omitempty"`
}

func (Loan) TableName() string {
	return "loans"
}

// LoanResponse DTO
type LoanResponse struct {
	ID              uint                  `json:"id"`
	MemberID        uint                  `json:"member_id"`
	MemberName      string                `json:"member_name,omitempty"`
	Amount          float64               `json:"amount"`
	Purpose         string                `json:"purpose"`
	ApplicationDate time.Time             `json:"application_date"`
	Status          domain.LoanStatus     `json:"status"`
	ApprovalDate    *time.Time            `json:"approval_date"`
	DueDate         *time.Time            `json:"due_date"`
	RepaymentTerm   *domain.RepaymentTerm `json:"repayment_term"`
	TotalRepaid     float64               `json:"total_repaid"`
	Outstanding     float64               `json:"outstanding"`
}

func (l *Loan) ToResponse() *LoanResponse {
	resp := &LoanResponse{
		ID:              l.ID,
		MemberID:        l.MemberID,
		Amount:          l.Amount,
		Purpose:         l.Purpose,
		ApplicationDate: l.ApplicationDate,
		Status:          l.Status,
		ApprovalDate:    l.ApprovalDate,
		DueDate:         l.DueDate,
		RepaymentTerm:   l.RepaymentTerm,
	}
	for _, r := range l.Repayments {
		resp.TotalRepaid += r.Amount
	}
	if l.Status == domain.LoanApproved || l.Status == domain.LoanDefaulted {
		resp.Outstanding = l.Amount - resp.TotalRepaid
	}
	if l.Member != nil {
		resp.MemberName = l.Member.FullName
	}
	return resp
}

// Repayment represents a partial repayment against an approved loan
type Repayment struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	LoanID     uint      `gorm:"not null;index" json:"loan_id"`
	Amount     float64   `gorm:"type:decimal(15,2);not null" json:"amount"`
	Date       time.Time `gorm:"not null" json:"date"`
	RecordedBy uint      `gorm:"not null" json:"recorded_by"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`

	Loan *Loan `gorm:"foreignKey:LoanID" json:"loan,omitempty"`
}

func (Repayment) TableName() string {
	return "repayments"
}

// ============================================================
// Aggregate Summaries (derived state, written only by recompute)
// ============================================================

// MemberSummary holds the derived financial totals for one member.
// Always a pure function of that member's payments, loans and
// repayments; re-running the recompute must yield identical values.
type MemberSummary struct {
	MemberID       uint      `gorm:"primaryKey" json:"member_id"`
	TotalDuesPaid  float64   `gorm:"type:decimal(15,2);not null;default:0" json:"total_dues_paid"`
	DuesOwing      float64   `gorm:"type:decimal(15,2);not null;default:0" json:"dues_owing"`
	TotalDonations float64   `gorm:"type:decimal(15,2);not null;default:0" json:"total_donations"`
	ActiveLoans    int64     `gorm:"not null;default:0" json:"active_loans"`
	LoanBalance    float64   `gorm:"type:decimal(15,2);not null;default:0" json:"loan_balance"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (MemberSummary) TableName() string {
	return "member_summaries"
}

// ============================================================
// Reports & Settings (boundary schemas)
// ============================================================

// Report is an immutable generated snapshot. Data is opaque JSON
// shaped by the report type; the core never mutates a stored report.
type Report struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Title       string    `gorm:"size:150;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Type        string    `gorm:"size:40;not null;index" json:"type"`
	DateFrom    time.Time `gorm:"not null" json:"date_from"`
	DateTo      time.Time `gorm:"not null" json:"date_to"`
	GeneratedBy uint      `gorm:"not null" json:"generated_by"`
	GeneratedAt time.Time `gorm:"not null" json:"generated_at"`
	Data        string    `gorm:"type:json" json:"data"`
}

func (Report) TableName() string {
	return "reports"
}

// UserSettings holds per-user notification/UI preferences. Owned by
// the presentation collaborators; the lifecycle core never reads it.
type UserSettings struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	UserID            uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	NotifyOnApproval  bool      `gorm:"default:true" json:"notify_on_approval"`
	NotifyOnRejection bool      `gorm:"default:true" json:"notify_on_rejection"`
	MonthlyStatement  bool      `gorm:"default:false" json:"monthly_statement"`
	Language          string    `gorm:"size:10;default:'en'" json:"language"`
	Theme             string    `gorm:"size:10;default:'light'" json:"theme"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (UserSettings) TableName() string {
	return "user_settings"
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&RefreshToken{},
		&Member{},
		&Payment{},
		&Loan{},
		&Repayment{},
		&MemberSummary{},
		&Report{},
		&UserSettings{},
	)
}
