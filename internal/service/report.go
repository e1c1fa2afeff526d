package service

import (
	"context"
	"sync"
	"time"

	"reportbot/internal/domain"

	"go.uber.org/zap"
)

// ReportService runs report conversations and hands completed reports to
// delivery
type ReportService struct {
	sessions *SessionStore
	ledger   *SubmissionLedger
	auth     *AuthService
	delivery *Delivery
	logger   *zap.Logger
	now      func() time.Time

	// one input per user at a time; users sharing a stripe just wait
	userLocks [lockStripes]sync.Mutex
}

const lockStripes = 64

// NewReportService creates a new report service
func NewReportService(
	sessions *SessionStore,
	ledger *SubmissionLedger,
	auth *AuthService,
	delivery *Delivery,
	logger *zap.Logger,
) *ReportService {
	return &ReportService{
		sessions: sessions,
		ledger:   ledger,
		auth:     auth,
		delivery: delivery,
		logger:   logger,
		now:      time.Now,
	}
}

// Start begins a new report, dropping any report in progress
func (s *ReportService) Start(ctx context.Context, userID, chatID int64) Reply {
	return s.Handle(ctx, userID, chatID, Input{Kind: InputStart})
}

// Stop abandons the report in progress
func (s *ReportService) Stop(ctx context.Context, userID, chatID int64) Reply {
	return s.Handle(ctx, userID, chatID, Input{Kind: InputStop})
}

// HandleText processes a typed message
func (s *ReportService) HandleText(ctx context.Context, userID, chatID int64, text string) Reply {
	return s.Handle(ctx, userID, chatID, Input{Kind: InputText, Payload: text})
}

// HandleButton processes an inline button press
func (s *ReportService) HandleButton(ctx context.Context, userID, chatID int64, payload string) Reply {
	return s.Handle(ctx, userID, chatID, Input{Kind: InputButton, Payload: payload})
}

// Handle advances the user's session by one input and applies its effect
func (s *ReportService) Handle(ctx context.Context, userID, chatID int64, in Input) Reply {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	session := s.sessions.Get(userID)
	out := Transition(session, in, Guards{
		CanSubmit: func(d domain.Department) bool {
			return s.ledger.CanSubmit(userID, d)
		},
		CheckPassword: s.auth.CheckPassword,
	})

	switch out.Effect {
	case EffectRecordSubmission:
		s.ledger.RecordSubmission(userID, out.Session.Department)
		s.sessions.Set(out.Session)
		s.logger.Info("Department confirmed",
			zap.Int64("user_id", userID),
			zap.String("department", string(out.Session.Department)))
	case EffectSubmit:
		s.sessions.Reset(userID)
		s.submit(ctx, chatID, out.Completed)
	case EffectReset:
		s.sessions.Reset(userID)
		s.logger.Info("Report stopped", zap.Int64("user_id", userID), zap.String("step", string(session.Step)))
	default:
		s.sessions.Set(out.Session)
	}

	if session.Step != out.Session.Step {
		s.logger.Debug("Session step changed",
			zap.Int64("user_id", userID),
			zap.String("from", string(session.Step)),
			zap.String("to", string(out.Session.Step)))
	}

	return out.Reply
}

func (s *ReportService) submit(ctx context.Context, chatID int64, completed *domain.Session) {
	report := domain.Report{
		UserID:      completed.UserID,
		ChatID:      chatID,
		Department:  completed.Department,
		Answers:     completed.Answers.Clone(),
		SubmittedAt: s.now(),
		Status:      domain.ReportPending,
	}

	s.logger.Info("Report completed",
		zap.Int64("user_id", report.UserID),
		zap.String("department", string(report.Department)))

	s.delivery.Submit(ctx, report)
}

func (s *ReportService) userLock(userID int64) *sync.Mutex {
	return &s.userLocks[uint64(userID)%lockStripes]
}
