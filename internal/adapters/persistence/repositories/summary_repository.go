package repositories

import (
	"context"

	"alumnifund/internal/adapters/persistence/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// summaryRepository implements SummaryRepository
type summaryRepository struct {
	db *gorm.DB
}

// NewSummaryRepository creates a new summary repository
func NewSummaryRepository(db *gorm.DB) SummaryRepository {
	return &summaryRepository{db: db}
}

// Upsert writes a recomputed summary, replacing any previous row.
// This is the only write path for member_summaries.
func (r *summaryRepository) Upsert(ctx context.Context, summary *models.MemberSummary) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "member_id"}},
			UpdateAll: true,
		}).
		Create(summary).Error
}

// GetByMemberID gets a member's stored summary
func (r *summaryRepository) GetByMemberID(ctx context.Context, memberID uint) (*models.MemberSummary, error) {
	var summary models.MemberSummary
	err := r.db.WithContext(ctx).
		Where("member_id = ?", memberID).
		First(&summary).Error
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

// reportRepository implements ReportRepository
type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository creates a new report repository
func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

// Create stores a generated report snapshot
func (r *reportRepository) Create(ctx context.Context, report *models.Report) error {
	return r.db.WithContext(ctx).Create(report).Error
}

// GetByID gets a report by ID
func (r *reportRepository) GetByID(ctx context.Context, id string) (*models.Report, error) {
	var report models.Report
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&report).Error
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// List lists reports with pagination, optionally filtered by type
func (r *reportRepository) List(ctx context.Context, reportType string, offset, limit int) ([]*models.Report, int64, error) {
	var reports []*models.Report
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Report{})
	if reportType != "" {
		query = query.Where("type = ?", reportType)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("generated_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&reports).Error
	return reports, total, err
}

// settingsRepository implements SettingsRepository
type settingsRepository struct {
	db *gorm.DB
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(db *gorm.DB) SettingsRepository {
	return &settingsRepository{db: db}
}

// GetByUserID gets a user's settings
func (r *settingsRepository) GetByUserID(ctx context.Context, userID uint) (*models.UserSettings, error) {
	var settings models.UserSettings
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&settings).Error
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

// Upsert writes a user's settings
func (r *settingsRepository) Upsert(ctx context.Context, settings *models.UserSettings) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			UpdateAll: true,
		}).
		Create(settings).Error
}
