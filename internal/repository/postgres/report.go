package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"reportbot/internal/domain"
)

// ReportRepo implements repository.ReportArchive
type ReportRepo struct {
	db *sql.DB
}

// NewReportRepo creates a new report repository
func NewReportRepo(db *sql.DB) *ReportRepo {
	return &ReportRepo{db: db}
}

// SaveReport stores a completed report as pending and returns its id
func (r *ReportRepo) SaveReport(ctx context.Context, report *domain.Report) (int64, error) {
	answers, err := json.Marshal(report.Answers)
	if err != nil {
		return 0, fmt.Errorf("encode answers: %w", err)
	}

	query := `
		INSERT INTO reports (user_id, chat_id, department, answers, submitted_at, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	var id int64
	err = r.db.QueryRowContext(ctx, query,
		report.UserID, report.ChatID, string(report.Department), string(answers), report.SubmittedAt, string(domain.ReportPending),
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// MarkDelivered records the sheet column a report was written to
func (r *ReportRepo) MarkDelivered(ctx context.Context, id int64, column int) error {
	query := `
		UPDATE reports
		SET status = $2, sheet_column = $3, attempts = attempts + 1, last_error = NULL, updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, query, id, string(domain.ReportDelivered), column)
	return err
}

// MarkFailed counts a failed delivery attempt
func (r *ReportRepo) MarkFailed(ctx context.Context, id int64, cause string) error {
	query := `
		UPDATE reports
		SET status = $2, attempts = attempts + 1, last_error = $3, updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, query, id, string(domain.ReportFailed), cause)
	return err
}

// ListUndelivered returns reports that still have attempts left and are
// either failed or stuck as pending for longer than staleAfter, oldest first.
// A pending report goes stale when the process writing it stopped mid-delivery.
func (r *ReportRepo) ListUndelivered(ctx context.Context, maxAttempts int, staleAfter time.Duration, limit int) ([]domain.Report, error) {
	query := `
		SELECT id, user_id, chat_id, department, answers, submitted_at, status, attempts
		FROM reports
		WHERE attempts < $3
		  AND (status = $1 OR (status = $2 AND updated_at < NOW() - INTERVAL '1 second' * $4))
		ORDER BY submitted_at
		LIMIT $5
	`

	rows, err := r.db.QueryContext(ctx, query,
		string(domain.ReportFailed), string(domain.ReportPending), maxAttempts, int64(staleAfter/time.Second), limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []domain.Report
	for rows.Next() {
		var (
			rep        domain.Report
			department string
			status     string
			answers    []byte
		)
		if err := rows.Scan(&rep.ID, &rep.UserID, &rep.ChatID, &department, &answers, &rep.SubmittedAt, &status, &rep.Attempts); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(answers, &rep.Answers); err != nil {
			return nil, fmt.Errorf("decode answers of report %d: %w", rep.ID, err)
		}
		rep.Department = domain.Department(department)
		rep.Status = domain.ReportStatus(status)
		reports = append(reports, rep)
	}

	return reports, rows.Err()
}

// CleanOldReports deletes delivered reports older than specified days
func (r *ReportRepo) CleanOldReports(ctx context.Context, days int) error {
	query := `
		DELETE FROM reports
		WHERE status = $1 AND submitted_at < NOW() - INTERVAL '1 day' * $2
	`
	_, err := r.db.ExecContext(ctx, query, string(domain.ReportDelivered), days)
	return err
}
