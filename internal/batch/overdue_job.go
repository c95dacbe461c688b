package batch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"library-engine/internal/domain/loan"
	"library-engine/internal/event"
	"library-engine/internal/infrastructure/monitoring"
)

// OverdueScanJob runs daily: it counts overdue loans and affected members,
// refreshes the overdue gauge, and publishes a summary event for downstream
// notification consumers.
type OverdueScanJob struct {
	loanService loan.LoanService
	publisher   event.Publisher
	logger      *slog.Logger
}

func NewOverdueScanJob(loanSvc loan.LoanService, pub event.Publisher, logger *slog.Logger) *OverdueScanJob {
	if loanSvc == nil || pub == nil || logger == nil {
		panic("OverdueScanJob dependencies cannot be nil")
	}
	return &OverdueScanJob{
		loanService: loanSvc,
		publisher:   pub,
		logger:      logger.With("job", "OverdueScan"),
	}
}

func (j *OverdueScanJob) Run(ctx context.Context) error {
	startTime := time.Now()
	j.logger.InfoContext(ctx, "Starting daily overdue scan job.")

	overdueLoans, err := j.loanService.OverdueLoans(ctx)
	if err != nil {
		j.logger.ErrorContext(ctx, "Failed to list overdue loans, aborting job.", slog.Any("error", err))
		return fmt.Errorf("cannot run job, failed to list overdue loans: %w", err)
	}

	overdueMembers, err := j.loanService.OverdueMembers(ctx)
	if err != nil {
		j.logger.ErrorContext(ctx, "Failed to aggregate overdue members, aborting job.", slog.Any("error", err))
		return fmt.Errorf("cannot run job, failed to aggregate overdue members: %w", err)
	}

	monitoring.Business.OverdueLoansObserved.Set(float64(len(overdueLoans)))

	for _, l := range overdueLoans {
		j.logger.WarnContext(ctx, "Loan is overdue.",
			slog.Int64("loanID", l.LoanID),
			slog.Int64("memberID", l.MemberID),
			slog.Int("days_overdue", l.DaysOverdue),
		)
	}

	scanEvent := event.OverdueScanEvent{
		OverdueLoans:   len(overdueLoans),
		OverdueMembers: len(overdueMembers),
		Timestamp:      time.Now(),
	}
	if err := j.publisher.PublishOverdueScan(ctx, scanEvent); err != nil {
		// Publishing is best effort, the scan itself already succeeded.
		j.logger.WarnContext(ctx, "Failed to publish overdue scan event.", slog.Any("error", err))
	}

	j.logger.InfoContext(ctx, "Overdue scan job finished.",
		slog.Duration("duration", time.Since(startTime)),
		slog.Int("overdue_loans", len(overdueLoans)),
		slog.Int("members_with_overdues", len(overdueMembers)),
	)
	return nil
}
