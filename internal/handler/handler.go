package handler

import (
	"context"

	"reportbot/internal/domain"
	"reportbot/internal/reminder"
	"reportbot/internal/service"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// Handler manages all bot interactions
type Handler struct {
	bot       *tele.Bot
	reports   *service.ReportService
	reminders *reminder.Scheduler
	logger    *zap.Logger

	// outlives single updates, deliveries started from a handler use it
	ctx context.Context
}

// NewHandler creates a new handler instance
func NewHandler(
	ctx context.Context,
	bot *tele.Bot,
	reports *service.ReportService,
	reminders *reminder.Scheduler,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		bot:       bot,
		reports:   reports,
		reminders: reminders,
		logger:    logger,
		ctx:       ctx,
	}
}

// RegisterHandlers registers all bot handlers
func (h *Handler) RegisterHandlers() {
	// Commands
	h.bot.Handle("/start", h.handleStart)
	h.bot.Handle("/stop", h.handleStop)
	h.bot.Handle("/reminder", h.handleReminder)

	// Reply keyboard
	h.bot.Handle(&btnCreateReport, h.handleStart)

	// Text messages
	h.bot.Handle(tele.OnText, h.handleText)

	// Department and confirmation buttons
	h.bot.Handle(tele.OnCallback, h.handleCallback)
}

// Reply keyboard button shown outside of a report
var btnCreateReport = tele.Btn{Text: "Create Report"}

// mainMenuMarkup returns the persistent reply keyboard
func mainMenuMarkup() *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{ResizeKeyboard: true}
	menu.Reply(menu.Row(btnCreateReport))
	return menu
}

// departmentsMarkup returns one inline button per department
func departmentsMarkup() *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	rows := make([]tele.Row, 0, len(domain.Departments))
	for _, d := range domain.Departments {
		rows = append(rows, markup.Row(markup.Data(d.Label(), string(d))))
	}
	markup.Inline(rows...)
	return markup
}

func confirmMarkup() *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	markup.Inline(markup.Row(
		markup.Data("Confirm", service.PayloadConfirm),
		markup.Data("Reselect", service.PayloadReselect),
	))
	return markup
}

func markupFor(k service.Keyboard) *tele.ReplyMarkup {
	switch k {
	case service.KeyboardDepartments:
		return departmentsMarkup()
	case service.KeyboardConfirm:
		return confirmMarkup()
	case service.KeyboardMain:
		return mainMenuMarkup()
	}
	return nil
}

// chatID returns the chat of the update, the sender's private chat when the
// update has none
func chatID(c tele.Context) int64 {
	if chat := c.Chat(); chat != nil {
		return chat.ID
	}
	return c.Sender().ID
}

// sendReply sends a service reply with its keyboard
func (h *Handler) sendReply(c tele.Context, reply service.Reply) error {
	if markup := markupFor(reply.Keyboard); markup != nil {
		return c.Send(reply.Text, markup)
	}
	return c.Send(reply.Text)
}
