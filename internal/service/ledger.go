package service

import (
	"sync"
	"time"

	"reportbot/internal/domain"
)

type ledgerKey struct {
	userID     int64
	department domain.Department
}

// SubmissionLedger allows one confirmed report per user, department and
// calendar day in the configured timezone
type SubmissionLedger struct {
	loc *time.Location
	now func() time.Time

	mu   sync.Mutex
	last map[ledgerKey]string
}

// NewSubmissionLedger creates an empty ledger
func NewSubmissionLedger(loc *time.Location) *SubmissionLedger {
	return &SubmissionLedger{
		loc:  loc,
		now:  time.Now,
		last: make(map[ledgerKey]string),
	}
}

// CanSubmit reports whether the user has not confirmed this department today
func (l *SubmissionLedger) CanSubmit(userID int64, department domain.Department) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.last[ledgerKey{userID, department}] != domain.DateKey(l.now(), l.loc)
}

// RecordSubmission marks the department as reported by the user today.
// Entries from earlier days no longer block anything and are dropped.
func (l *SubmissionLedger) RecordSubmission(userID int64, department domain.Department) {
	l.mu.Lock()
	defer l.mu.Unlock()

	today := domain.DateKey(l.now(), l.loc)
	for key, date := range l.last {
		if date != today {
			delete(l.last, key)
		}
	}
	l.last[ledgerKey{userID, department}] = today
}
