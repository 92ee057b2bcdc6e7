package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"alumnifund/internal/adapters/persistence/models"
	"alumnifund/internal/adapters/persistence/repositories"
	"alumnifund/internal/core/domain"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Report types
const (
	ReportTypePayments  = "payments"
	ReportTypeLoans     = "loans"
	ReportTypeFinancial = "financial"
)

// ReportService generates immutable report snapshots over a date range
type ReportService struct {
	payments  repositories.PaymentRepository
	loans     repositories.LoanRepository
	reports   repositories.ReportRepository
	summaries *SummaryService
	log       *logrus.Logger
}

// NewReportService creates a new report service
func NewReportService(
	payments repositories.PaymentRepository,
	loans repositories.LoanRepository,
	reports repositories.ReportRepository,
	summaries *SummaryService,
	log *logrus.Logger,
) *ReportService {
	return &ReportService{
		payments:  payments,
		loans:     loans,
		reports:   reports,
		summaries: summaries,
		log:       log,
	}
}

// GenerateReportInput for generating a report
type GenerateReportInput struct {
	Title       string
	Description string
	Type        string
	DateFrom    time.Time
	DateTo      time.Time
}

// paymentReportData is the snapshot payload for a payments report
type paymentReportData struct {
	Count        int                       `json:"count"`
	TotalAmount  float64                   `json:"total_amount"`
	CountByType  map[string]int            `json:"count_by_type"`
	AmountByType map[string]float64        `json:"amount_by_type"`
	Records      []*models.PaymentResponse `json:"records"`
}

// loanReportData is the snapshot payload for a loans report
type loanReportData struct {
	Count          int                    `json:"count"`
	TotalAmount    float64                `json:"total_amount"`
	CountByStatus  map[string]int         `json:"count_by_status"`
	AmountByStatus map[string]float64     `json:"amount_by_status"`
	Records        []*models.LoanResponse `json:"records"`
}

// Generate builds and stores a report snapshot. The stored Data is a
// frozen JSON payload; later ledger changes never rewrite it.
func (s *ReportService) Generate(ctx context.Context, actor Actor, input GenerateReportInput) (*models.Report, error) {
	if !actor.Role.Can(domain.CapGenerateReports) {
		return nil, domain.ErrUnauthorized
	}
	if input.Title == "" {
		return nil, domain.NewValidationError("title", "is required")
	}
	if input.DateFrom.After(input.DateTo) {
		return nil, domain.NewValidationError("date_from", "must not be after date_to")
	}

	var payload interface{}
	var err error
	switch input.Type {
	case ReportTypePayments:
		payload, err = s.buildPaymentReport(ctx, input.DateFrom, input.DateTo)
	case ReportTypeLoans:
		payload, err = s.buildLoanReport(ctx, input.DateFrom, input.DateTo)
	case ReportTypeFinancial:
		payload, err = s.summaries.SystemSummary(ctx)
	default:
		return nil, domain.NewValidationError("type", "must be payments, loans or financial")
	}
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	report := &models.Report{
		ID:          uuid.NewString(),
		Title:       input.Title,
		Description: input.Description,
		Type:        input.Type,
		DateFrom:    input.DateFrom,
		DateTo:      input.DateTo,
		GeneratedBy: actor.UserID,
		GeneratedAt: time.Now(),
		Data:        string(data),
	}
	if err := s.reports.Create(ctx, report); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"report_id": report.ID,
		"type":      report.Type,
		"actor_id":  actor.UserID,
	}).Info("report generated")

	return report, nil
}

func (s *ReportService) buildPaymentReport(ctx context.Context, from, to time.Time) (*paymentReportData, error) {
	payments, err := s.payments.ListInRange(ctx, from, to)
	if err != nil {
		return nil, err
	}

	data := &paymentReportData{
		Count:        len(payments),
		CountByType:  map[string]int{},
		AmountByType: map[string]float64{},
		Records:      make([]*models.PaymentResponse, 0, len(payments)),
	}
	for _, p := range payments {
		data.Records = append(data.Records, p.ToResponse())
		data.CountByType[string(p.Type)]++
		if p.Status == domain.PaymentApproved {
			data.TotalAmount += p.Amount
			data.AmountByType[string(p.Type)] += p.Amount
		}
	}
	return data, nil
}

func (s *ReportService) buildLoanReport(ctx context.Context, from, to time.Time) (*loanReportData, error) {
	loans, err := s.loans.ListInRange(ctx, from, to)
	if err != nil {
		return nil, err
	}

	data := &loanReportData{
		Count:          len(loans),
		CountByStatus:  map[string]int{},
		AmountByStatus: map[string]float64{},
		Records:        make([]*models.LoanResponse, 0, len(loans)),
	}
	for _, l := range loans {
		data.Records = append(data.Records, l.ToResponse())
		data.CountByStatus[string(l.Status)]++
		data.AmountByStatus[string(l.Status)] += l.Amount
		data.TotalAmount += l.Amount
	}
	return data, nil
}

// Get gets a stored report by ID
func (s *ReportService) Get(ctx context.Context, id string) (*models.Report, error) {
	report, err := s.reports.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return report, nil
}

// List lists stored reports, optionally filtered by type
func (s *ReportService) List(ctx context.Context, reportType string, offset, limit int) ([]*models.Report, int64, error) {
	return s.reports.List(ctx, reportType, offset, limit)
}
