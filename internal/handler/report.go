package handler

import (
	"strings"

	tele "gopkg.in/telebot.v3"
)

// handleText passes typed messages to the report conversation
func (h *Handler) handleText(c tele.Context) error {
	text := strings.TrimSpace(c.Text())

	// Unknown commands
	if strings.HasPrefix(text, "/") {
		return nil
	}

	reply := h.reports.HandleText(h.ctx, c.Sender().ID, chatID(c), text)
	return h.sendReply(c, reply)
}
