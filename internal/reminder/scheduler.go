// Package reminder schedules the daily "submit your report" message per chat.
package reminder

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// DefaultSpec fires at 16:45 on weekdays
const DefaultSpec = "45 16 * * 1-5"

// Text is the reminder message
const Text = "Don't forget to submit your daily report!"

// ErrInvalidSpec is returned for a schedule cron cannot parse
var ErrInvalidSpec = errors.New("invalid reminder schedule")

// Sender delivers the reminder to a chat
type Sender interface {
	SendReminder(chatID int64) error
}

// Scheduler runs one cron job per subscribed chat
type Scheduler struct {
	cron     *cron.Cron
	schedule cron.Schedule
	sender   Sender
	logger   *zap.Logger

	mu      sync.Mutex
	entries map[int64]cron.EntryID
}

// New creates a scheduler firing on spec, evaluated in loc
func New(spec string, loc *time.Location, sender Sender, logger *zap.Logger) (*Scheduler, error) {
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidSpec, spec, err)
	}

	return &Scheduler{
		cron:     cron.New(cron.WithLocation(loc)),
		schedule: schedule,
		sender:   sender,
		logger:   logger,
		entries:  make(map[int64]cron.EntryID),
	}, nil
}

// Schedule subscribes chatID to the reminder. It reports false when the chat
// already has one.
func (s *Scheduler) Schedule(chatID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[chatID]; exists {
		return false
	}

	s.entries[chatID] = s.cron.Schedule(s.schedule, cron.FuncJob(func() {
		s.remind(chatID)
	}))
	s.logger.Info("Reminder scheduled", zap.Int64("chat_id", chatID))
	return true
}

// Next returns the next time the chat will be reminded
func (s *Scheduler) Next(chatID int64) (time.Time, bool) {
	s.mu.Lock()
	_, exists := s.entries[chatID]
	s.mu.Unlock()

	if !exists {
		return time.Time{}, false
	}
	return s.schedule.Next(time.Now().In(s.cron.Location())), true
}

// Start runs the scheduler in the background
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the scheduler and waits for running reminders to finish
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) remind(chatID int64) {
	if err := s.sender.SendReminder(chatID); err != nil {
		s.logger.Error("Failed to send reminder", zap.Int64("chat_id", chatID), zap.Error(err))
		return
	}
	s.logger.Debug("Reminder sent", zap.Int64("chat_id", chatID))
}
