package testutil

import (
	"fmt"
	"time"

	"reportbot/internal/domain"

	"go.uber.org/zap"
)

// NewTestLogger creates a no-op logger for tests
func NewTestLogger() *zap.Logger {
	return zap.NewNop()
}

// NewTestReport creates a complete report for department with every field
// answered
func NewTestReport(userID int64, department domain.Department, submittedAt time.Time) *domain.Report {
	return &domain.Report{
		UserID:      userID,
		ChatID:      userID,
		Department:  department,
		Answers:     NewTestAnswers(department),
		SubmittedAt: submittedAt,
		Status:      domain.ReportPending,
	}
}

// NewTestAnswers answers every question of department: integers with their
// chain position, decimals with 1.5 and text with "-"
func NewTestAnswers(department domain.Department) domain.Answers {
	answers := domain.Answers{}
	for i, q := range department.Chain() {
		switch q.Kind {
		case domain.KindInt:
			answers[q.Field] = domain.IntValue(int64(i + 1))
		case domain.KindDecimal:
			answers[q.Field] = domain.DecimalValue(1.5)
		default:
			answers[q.Field] = domain.TextValue(domain.NoneText)
		}
	}
	return answers
}

func toString(v interface{}) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}
