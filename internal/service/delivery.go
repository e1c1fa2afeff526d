package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"reportbot/internal/domain"
	"reportbot/internal/repository"
	"reportbot/internal/retry"

	"go.uber.org/zap"
)

// Notifier sends a plain message to a chat
type Notifier interface {
	Notify(chatID int64, text string) error
}

// Delivery failure messages
const (
	MsgWriteFailed   = "An error occurred while recording the report. Please try again later."
	MsgWriteDeferred = "An error occurred while recording the report. It has been saved and will be recorded automatically."
)

// Delivery writes completed reports into the spreadsheet
type Delivery struct {
	sheet     repository.SheetRepository
	archive   repository.ReportArchive
	notifier  Notifier
	allocator *ColumnAllocator
	policy    retry.Policy
	loc       *time.Location
	logger    *zap.Logger

	// allocation and write of one department must not interleave
	locks map[domain.Department]*sync.Mutex
	wg    sync.WaitGroup
}

// NewDelivery creates a new delivery. archive may be nil, in which case failed
// reports are only reported to the user.
func NewDelivery(
	sheet repository.SheetRepository,
	archive repository.ReportArchive,
	notifier Notifier,
	policy retry.Policy,
	loc *time.Location,
	logger *zap.Logger,
) *Delivery {
	locks := make(map[domain.Department]*sync.Mutex, len(domain.Departments))
	for _, d := range domain.Departments {
		locks[d] = &sync.Mutex{}
	}

	return &Delivery{
		sheet:     sheet,
		archive:   archive,
		notifier:  notifier,
		allocator: NewColumnAllocator(sheet, policy, logger),
		policy:    policy,
		loc:       loc,
		logger:    logger,
		locks:     locks,
	}
}

// Submit records the report in the background. The caller's conversation is
// not blocked by spreadsheet latency or retries.
func (d *Delivery) Submit(ctx context.Context, report domain.Report) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.process(ctx, &report)
	}()
}

// Wait blocks until every submitted report has been processed
func (d *Delivery) Wait() {
	d.wg.Wait()
}

// Deliver allocates the next free column of the report's department and
// writes the report there in a single batch. It returns the column used.
func (d *Delivery) Deliver(ctx context.Context, report *domain.Report) (int, error) {
	if err := report.Validate(); err != nil {
		return 0, err
	}

	lock := d.locks[report.Department]
	lock.Lock()
	defer lock.Unlock()

	column, err := d.allocator.Next(ctx, report.Department.StartRow())
	if err != nil {
		return 0, err
	}

	updates, err := domain.BuildUpdates(report, column, d.loc)
	if err != nil {
		return 0, err
	}

	err = retry.Do(ctx, d.policy, func() error {
		return d.sheet.BatchWrite(ctx, updates)
	}, isTransient, func(err error, attempt int, delay time.Duration) {
		d.logger.Warn("Spreadsheet write failed, retrying",
			zap.String("department", string(report.Department)),
			zap.Int("column", column),
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.Error(err))
	})
	if err != nil {
		return 0, fmt.Errorf("failed to write report to column %d: %w", column, err)
	}

	d.logger.Info("Report recorded",
		zap.Int64("user_id", report.UserID),
		zap.String("department", string(report.Department)),
		zap.Int("column", column))
	return column, nil
}

func (d *Delivery) process(ctx context.Context, report *domain.Report) {
	if d.archive != nil {
		id, err := d.archive.SaveReport(ctx, report)
		if err != nil {
			d.logger.Warn("Failed to archive report", zap.Error(err))
		} else {
			report.ID = id
		}
	}

	column, err := d.Deliver(ctx, report)
	if err != nil {
		d.logger.Error("Failed to record report",
			zap.Int64("user_id", report.UserID),
			zap.String("department", string(report.Department)),
			zap.Error(err))

		msg := MsgWriteFailed
		if d.markFailed(ctx, report, err) {
			msg = MsgWriteDeferred
		}
		if nerr := d.notifier.Notify(report.ChatID, msg); nerr != nil {
			d.logger.Error("Failed to notify user", zap.Int64("chat_id", report.ChatID), zap.Error(nerr))
		}
		return
	}

	d.markDelivered(ctx, report, column)
}

func (d *Delivery) markDelivered(ctx context.Context, report *domain.Report, column int) {
	if d.archive == nil || report.ID == 0 {
		return
	}
	if err := d.archive.MarkDelivered(ctx, report.ID, column); err != nil {
		d.logger.Warn("Failed to mark report delivered", zap.Int64("report_id", report.ID), zap.Error(err))
	}
}

// markFailed reports whether the failure was stored for redelivery
func (d *Delivery) markFailed(ctx context.Context, report *domain.Report, cause error) bool {
	if d.archive == nil || report.ID == 0 {
		return false
	}
	if err := d.archive.MarkFailed(ctx, report.ID, cause.Error()); err != nil {
		d.logger.Warn("Failed to mark report failed", zap.Int64("report_id", report.ID), zap.Error(err))
		return false
	}
	return true
}
