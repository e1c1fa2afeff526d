package handler

import (
	"fmt"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// Reminder replies
const (
	msgReminderSet    = "Reminder set! I will remind you to submit the report on weekdays. Next reminder: %s."
	msgReminderExists = "Reminder is already set for this chat."
)

// handleStart handles /start command and the Create Report button
func (h *Handler) handleStart(c tele.Context) error {
	userID := c.Sender().ID

	h.logger.Info("User started report",
		zap.Int64("user_id", userID),
		zap.String("username", c.Sender().Username),
	)

	return h.sendReply(c, h.reports.Start(h.ctx, userID, chatID(c)))
}

// handleStop handles /stop command
func (h *Handler) handleStop(c tele.Context) error {
	return h.sendReply(c, h.reports.Stop(h.ctx, c.Sender().ID, chatID(c)))
}

// handleReminder subscribes the chat to the weekday reminder
func (h *Handler) handleReminder(c tele.Context) error {
	chat := chatID(c)

	if !h.reminders.Schedule(chat) {
		return c.Send(msgReminderExists, mainMenuMarkup())
	}

	next, _ := h.reminders.Next(chat)
	return c.Send(fmt.Sprintf(msgReminderSet, next.Format("Mon 02/01 15:04")), mainMenuMarkup())
}
