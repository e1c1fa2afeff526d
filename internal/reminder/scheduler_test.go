package reminder

import (
	"errors"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeSender struct {
	sent []int64
	err  error
}

func (f *fakeSender) SendReminder(chatID int64) error {
	f.sent = append(f.sent, chatID)
	return f.err
}

func TestNew_InvalidSpec(t *testing.T) {
	_, err := New("every day at five", time.UTC, &fakeSender{}, zap.NewNop())
	assert.ErrorIs(t, err, ErrInvalidSpec)
}

func TestScheduler_ScheduleOncePerChat(t *testing.T) {
	s, err := New(DefaultSpec, time.UTC, &fakeSender{}, zap.NewNop())
	require.NoError(t, err)

	assert.True(t, s.Schedule(1))
	assert.False(t, s.Schedule(1))
	assert.True(t, s.Schedule(2))
	assert.Len(t, s.cron.Entries(), 2)
}

func TestScheduler_JobSendsReminder(t *testing.T) {
	sender := &fakeSender{}
	s, err := New(DefaultSpec, time.UTC, sender, zap.NewNop())
	require.NoError(t, err)

	s.Schedule(42)
	s.cron.Entries()[0].Job.Run()

	assert.Equal(t, []int64{42}, sender.sent)
}

func TestScheduler_SendErrorIsLogged(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	sender := &fakeSender{err: errors.New("bot was blocked by the user")}
	s, err := New(DefaultSpec, time.UTC, sender, zap.New(core))
	require.NoError(t, err)

	s.Schedule(42)
	s.cron.Entries()[0].Job.Run()

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "Failed to send reminder", logs.All()[0].Message)
}

func TestScheduler_NextRunsOnWeekdayAfternoon(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Kiev")
	require.NoError(t, err)

	s, err := New(DefaultSpec, loc, &fakeSender{}, zap.NewNop())
	require.NoError(t, err)

	_, ok := s.Next(7)
	assert.False(t, ok)

	s.Schedule(7)
	next, ok := s.Next(7)
	require.True(t, ok)

	assert.Equal(t, loc, next.Location())
	assert.Equal(t, 16, next.Hour())
	assert.Equal(t, 45, next.Minute())
	assert.NotEqual(t, time.Saturday, next.Weekday())
	assert.NotEqual(t, time.Sunday, next.Weekday())
}

func TestScheduler_StartStop(t *testing.T) {
	s, err := New(DefaultSpec, time.UTC, &fakeSender{}, zap.NewNop())
	require.NoError(t, err)

	s.Start()
	s.Schedule(1)
	s.Stop()
}
