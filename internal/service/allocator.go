package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"reportbot/internal/domain"
	"reportbot/internal/repository"
	"reportbot/internal/retry"

	"go.uber.org/zap"
)

// ErrNoEmptyColumn is returned when a row is filled up to the last column
var ErrNoEmptyColumn = errors.New("no empty column left")

// ColumnAllocator finds where the next report of a department goes
type ColumnAllocator struct {
	sheet     repository.SheetRepository
	policy    retry.Policy
	maxColumn int
	logger    *zap.Logger
}

// NewColumnAllocator creates a new column allocator
func NewColumnAllocator(sheet repository.SheetRepository, policy retry.Policy, logger *zap.Logger) *ColumnAllocator {
	return &ColumnAllocator{
		sheet:     sheet,
		policy:    policy,
		maxColumn: domain.MaxColumn,
		logger:    logger,
	}
}

// Next returns the first column, starting at domain.FirstColumn, whose cell in
// row is empty. Every probe is retried on transient failures.
func (a *ColumnAllocator) Next(ctx context.Context, row int) (int, error) {
	for column := domain.FirstColumn; column <= a.maxColumn; column++ {
		value, err := a.read(ctx, row, column)
		if err != nil {
			a.logger.Error("Failed to find empty column",
				zap.Int("row", row),
				zap.Int("column", column),
				zap.Error(err))
			return 0, fmt.Errorf("failed to read row %d column %d: %w", row, column, err)
		}
		if value == "" {
			return column, nil
		}
	}
	return 0, fmt.Errorf("row %d: %w", row, ErrNoEmptyColumn)
}

func (a *ColumnAllocator) read(ctx context.Context, row, column int) (string, error) {
	var value string
	err := retry.Do(ctx, a.policy, func() error {
		var err error
		value, err = a.sheet.ReadCell(ctx, row, column)
		return err
	}, isTransient, func(err error, attempt int, delay time.Duration) {
		a.logger.Warn("Spreadsheet read failed, retrying",
			zap.Int("row", row),
			zap.Int("column", column),
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.Error(err))
	})
	return value, err
}

func isTransient(err error) bool {
	return errors.Is(err, repository.ErrUnavailable)
}
