package repositories

import (
	"context"
	"time"

	"alumnifund/internal/adapters/persistence/models"
	"alumnifund/internal/core/domain"
)

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByMemberID(ctx context.Context, memberID uint) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, offset, limit int) ([]*models.User, int64, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByMemberID(ctx context.Context, memberID uint) (bool, error)
}

// RefreshTokenRepository defines refresh token repository interface
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, id uint) error
	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	RevokeAllByUserID(ctx context.Context, userID uint) error
	DeleteExpired(ctx context.Context) error
}

// MemberRepository defines member registry access
type MemberRepository interface {
	Create(ctx context.Context, member *models.Member) error
	GetByID(ctx context.Context, id uint) (*models.Member, error)
	Update(ctx context.Context, member *models.Member) error
	List(ctx context.Context, offset, limit int) ([]*models.Member, int64, error)
	ListIDs(ctx context.Context) ([]uint, error)
	Exists(ctx context.Context, id uint) (bool, error)
	Count(ctx context.Context) (int64, error)
	Search(ctx context.Context, query string, limit int) ([]*models.Member, error)
}

// PaymentRepository defines ledger access for payments. TransitionStatus
// is a conditional single-row update: it only applies when the stored
// status still equals from, and reports the affected row count so the
// caller can detect a lost race.
type PaymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	GetByID(ctx context.Context, id uint) (*models.Payment, error)
	ListByMember(ctx context.Context, memberID uint) ([]*models.Payment, error)
	List(ctx context.Context, status *domain.PaymentStatus, offset, limit int) ([]*models.Payment, int64, error)
	ListInRange(ctx context.Context, from, to time.Time) ([]*models.Payment, error)
	TransitionStatus(ctx context.Context, id uint, from, to domain.PaymentStatus, fields map[string]interface{}) (int64, error)
	SumByMember(ctx context.Context, memberID uint, ptype domain.PaymentType, status domain.PaymentStatus) (float64, error)
	SumAll(ctx context.Context, ptype domain.PaymentType, status domain.PaymentStatus) (float64, error)
	CountByStatus(ctx context.Context, status domain.PaymentStatus) (int64, error)
}

// LoanRepository defines ledger access for loans
type LoanRepository interface {
	Create(ctx context.Context, loan *models.Loan) error
	GetByID(ctx context.Context, id uint) (*models.Loan, error)
	ListByMember(ctx context.Context, memberID uint) ([]*models.Loan, error)
	List(ctx context.Context, status *domain.LoanStatus, offset, limit int) ([]*models.Loan, int64, error)
	ListInRange(ctx context.Context, from, to time.Time) ([]*models.Loan, error)
	ListOverdue(ctx context.Context, asOf time.Time) ([]*models.Loan, error)
	TransitionStatus(ctx context.Context, id uint, from, to domain.LoanStatus, fields map[string]interface{}) (int64, error)
	CountByMember(ctx context.Context, memberID uint, status domain.LoanStatus) (int64, error)
	SumByMember(ctx context.Context, memberID uint, status domain.LoanStatus) (float64, error)
	CountByStatus(ctx context.Context, status domain.LoanStatus) (int64, error)
	SumByStatus(ctx context.Context, status domain.LoanStatus) (float64, error)
}

// RepaymentRepository defines access to loan repayments
type RepaymentRepository interface {
	Create(ctx context.Context, repayment *models.Repayment) error
	ListByLoan(ctx context.Context, loanID uint) ([]*models.Repayment, error)
	SumByLoan(ctx context.Context, loanID uint) (float64, error)
	SumByMember(ctx context.Context, memberID uint, statuses []domain.LoanStatus) (float64, error)
	SumByLoanStatus(ctx context.Context, statuses []domain.LoanStatus) (float64, error)
	SumTotal(ctx context.Context) (float64, error)
}

// SummaryRepository stores derived member summaries
type SummaryRepository interface {
	Upsert(ctx context.Context, summary *models.MemberSummary) error
	GetByMemberID(ctx context.Context, memberID uint) (*models.MemberSummary, error)
}

// ReportRepository stores generated report snapshots
type ReportRepository interface {
	Create(ctx context.Context, report *models.Report) error
	GetByID(ctx context.Context, id string) (*models.Report, error)
	List(ctx context.Context, reportType string, offset, limit int) ([]*models.Report, int64, error)
}

// SettingsRepository stores per-user preferences
type SettingsRepository interface {
	GetByUserID(ctx context.Context, userID uint) (*models.UserSettings, error)
	Upsert(ctx context.Context, settings *models.UserSettings) error
}
