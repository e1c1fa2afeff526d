package handler

import (
	"strings"
	"unicode"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// cleanCallbackData removes all non-printable characters from callback data
func cleanCallbackData(data string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) {
			return r
		}
		return -1
	}, strings.TrimSpace(data))
}

// callbackPayload returns the button payload. Buttons built with
// markup.Data carry it in Unique; raw callback data is accepted as well.
func callbackPayload(cb *tele.Callback) string {
	if cb.Unique != "" {
		return cb.Unique
	}
	return cleanCallbackData(cb.Data)
}

// handleCallback handles ALL callback queries
func (h *Handler) handleCallback(c tele.Context) error {
	callback := c.Callback()
	if callback == nil {
		h.logger.Warn("handleCallback: callback is nil")
		return nil
	}

	payload := callbackPayload(callback)
	h.logger.Debug("Processing callback",
		zap.String("payload", payload),
		zap.String("data_raw", callback.Data),
		zap.Int64("user_id", c.Sender().ID),
	)

	reply := h.reports.HandleButton(h.ctx, c.Sender().ID, chatID(c), payload)

	// Always acknowledge callback before sending the reply
	if err := c.Respond(); err != nil {
		h.logger.Warn("Failed to acknowledge callback", zap.Error(err))
	}
	return h.sendReply(c, reply)
}
