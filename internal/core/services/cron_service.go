package services

import (
	"context"
	"time"

	"alumnifund/internal/adapters/persistence/repositories"
	"alumnifund/internal/config"
	"alumnifund/internal/metrics"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// CronService runs the background jobs: the overdue loan sweep, the
// nightly summary reconciliation and expired token cleanup.
type CronService struct {
	cron      *cron.Cron
	loans     repositories.LoanRepository
	tokens    repositories.RefreshTokenRepository
	approvals *ApprovalService
	summaries *SummaryService
	cfg       config.CronConfig
	log       *logrus.Logger
}

// NewCronService creates a new cron service
func NewCronService(
	loans repositories.LoanRepository,
	tokens repositories.RefreshTokenRepository,
	approvals *ApprovalService,
	summaries *SummaryService,
	cfg config.CronConfig,
	log *logrus.Logger,
) *CronService {
	return &CronService{
		cron:      cron.New(),
		loans:     loans,
		tokens:    tokens,
		approvals: approvals,
		summaries: summaries,
		cfg:       cfg,
		log:       log,
	}
}

// Start registers and starts all scheduled jobs
func (s *CronService) Start() error {
	if _, err := s.cron.AddFunc(s.cfg.OverdueSweepSpec, s.runOverdueSweep); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc(s.cfg.ReconcileSpec, s.runReconcile); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc(s.cfg.TokenCleanupSpec, s.runTokenCleanup); err != nil {
		return err
	}

	s.cron.Start()
	s.log.WithFields(logrus.Fields{
		"overdue_sweep": s.cfg.OverdueSweepSpec,
		"reconcile":     s.cfg.ReconcileSpec,
		"token_cleanup": s.cfg.TokenCleanupSpec,
	}).Info("cron jobs started")
	return nil
}

// Stop stops the scheduler and waits for running jobs
func (s *CronService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info("cron jobs stopped")
}

// runOverdueSweep marks approved loans past their due date as
// defaulted. Loans that left approved since listing are skipped by
// the conditional update inside DefaultLoan.
func (s *CronService) runOverdueSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	overdue, err := s.loans.ListOverdue(ctx, time.Now())
	if err != nil {
		s.log.WithField("error", err.Error()).Error("overdue sweep listing failed")
		return
	}

	defaulted := 0
	for _, loan := range overdue {
		if _, err := s.approvals.DefaultLoan(ctx, loan.ID); err != nil {
			s.log.WithFields(logrus.Fields{
				"loan_id": loan.ID,
				"error":   err.Error(),
			}).Warn("overdue sweep could not default loan")
			continue
		}
		defaulted++
		metrics.OverdueLoansDefaulted.Inc()
	}

	s.log.WithFields(logrus.Fields{
		"overdue":   len(overdue),
		"defaulted": defaulted,
	}).Info("overdue sweep finished")
}

// runReconcile rebuilds every member summary from the ledger
func (s *CronService) runReconcile() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	recomputed, err := s.summaries.RecomputeAll(ctx)
	if err != nil {
		s.log.WithField("error", err.Error()).Error("summary reconciliation failed")
		return
	}
	s.log.WithField("recomputed", recomputed).Info("summary reconciliation finished")
}

// runTokenCleanup removes expired refresh tokens
func (s *CronService) runTokenCleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := s.tokens.DeleteExpired(ctx); err != nil {
		s.log.WithField("error", err.Error()).Error("token cleanup failed")
		return
	}
	s.log.Info("expired refresh tokens cleaned up")
}
