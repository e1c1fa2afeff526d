package repository

import (
	"context"
	"errors"
	"time"

	"reportbot/internal/domain"
)

// ErrUnavailable marks a transient spreadsheet failure worth retrying
var ErrUnavailable = errors.New("spreadsheet unavailable")

// SheetRepository defines spreadsheet cell operations
type SheetRepository interface {
	ReadCell(ctx context.Context, row, column int) (string, error)
	BatchWrite(ctx context.Context, updates []domain.CellUpdate) error
}

// ReportArchive defines durable storage of completed reports
type ReportArchive interface {
	SaveReport(ctx context.Context, report *domain.Report) (int64, error)
	MarkDelivered(ctx context.Context, id int64, column int) error
	MarkFailed(ctx context.Context, id int64, cause string) error
	ListUndelivered(ctx context.Context, maxAttempts int, staleAfter time.Duration, limit int) ([]domain.Report, error)
	CleanOldReports(ctx context.Context, days int) error
}
