package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"reportbot/internal/domain"
	"reportbot/internal/repository"

	"go.uber.org/zap"
)

const (
	// RetentionDays is how long delivered reports stay in the archive
	RetentionDays = 60
	// MaxDeliveryAttempts bounds how often an archived report is written
	MaxDeliveryAttempts = 5

	redeliveryBatch = 20
)

// Redelivery messages
const (
	MsgRedelivered = "Your %s report from %s has been recorded."
	MsgAbandoned   = "Your %s report from %s could not be recorded. Please submit it again."
)

// MaintenanceService redelivers failed reports and prunes the archive
type MaintenanceService struct {
	archive  repository.ReportArchive
	delivery *Delivery
	logger   *zap.Logger

	// pending reports untouched for this long lost their delivery goroutine
	staleAfter time.Duration
}

// NewMaintenanceService creates a new maintenance service. Pending reports
// older than staleAfter are redelivered along with failed ones.
func NewMaintenanceService(
	archive repository.ReportArchive,
	delivery *Delivery,
	staleAfter time.Duration,
	logger *zap.Logger,
) *MaintenanceService {
	return &MaintenanceService{
		archive:    archive,
		delivery:   delivery,
		logger:     logger,
		staleAfter: staleAfter,
	}
}

// Run performs one redelivery and cleanup pass
func (s *MaintenanceService) Run(ctx context.Context) error {
	return errors.Join(s.Redeliver(ctx), s.CleanupOldData(ctx))
}

// Redeliver writes archived reports whose delivery failed earlier or never
// finished
func (s *MaintenanceService) Redeliver(ctx context.Context) error {
	reports, err := s.archive.ListUndelivered(ctx, MaxDeliveryAttempts, s.staleAfter, redeliveryBatch)
	if err != nil {
		s.logger.Error("Failed to list undelivered reports", zap.Error(err))
		return err
	}
	if len(reports) == 0 {
		return nil
	}

	s.logger.Info("Redelivering undelivered reports", zap.Int("count", len(reports)))

	delivered := 0
	for i := range reports {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		report := &reports[i]
		column, err := s.delivery.Deliver(ctx, report)
		if err != nil {
			s.redeliveryFailed(ctx, report, err)
			continue
		}

		if err := s.archive.MarkDelivered(ctx, report.ID, column); err != nil {
			s.logger.Warn("Failed to mark report delivered", zap.Int64("report_id", report.ID), zap.Error(err))
		}
		s.notify(report, MsgRedelivered)
		delivered++
	}

	s.logger.Info("Redelivery completed",
		zap.Int("delivered", delivered),
		zap.Int("failed", len(reports)-delivered))
	return nil
}

func (s *MaintenanceService) redeliveryFailed(ctx context.Context, report *domain.Report, cause error) {
	s.logger.Warn("Redelivery failed",
		zap.Int64("report_id", report.ID),
		zap.Int("attempts", report.Attempts+1),
		zap.Error(cause))

	if err := s.archive.MarkFailed(ctx, report.ID, cause.Error()); err != nil {
		s.logger.Warn("Failed to mark report failed", zap.Int64("report_id", report.ID), zap.Error(err))
		return
	}

	// MarkFailed counted this attempt
	if report.Attempts+1 >= MaxDeliveryAttempts {
		s.notify(report, MsgAbandoned)
	}
}

func (s *MaintenanceService) notify(report *domain.Report, format string) {
	msg := fmt.Sprintf(format, report.Department.Name(), domain.DateStamp(report.SubmittedAt, s.delivery.loc))
	if err := s.delivery.notifier.Notify(report.ChatID, msg); err != nil {
		s.logger.Error("Failed to notify user", zap.Int64("chat_id", report.ChatID), zap.Error(err))
	}
}

// CleanupOldData removes delivered reports older than RetentionDays
func (s *MaintenanceService) CleanupOldData(ctx context.Context) error {
	s.logger.Info("Starting cleanup of old reports", zap.Int("retention_days", RetentionDays))

	err := s.archive.CleanOldReports(ctx, RetentionDays)
	if err != nil {
		s.logger.Error("Failed to cleanup old reports", zap.Error(err))
		return err
	}

	s.logger.Info("Cleanup completed successfully")
	return nil
}
