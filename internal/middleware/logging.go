package middleware

import (
	"time"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// LoggingMiddleware logs every update with its sender, and any error the
// handler returns
func LoggingMiddleware(logger *zap.Logger) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			started := time.Now()
			fields := updateFields(c)

			logger.Debug("Update received", fields...)

			err := next(c)
			fields = append(fields, zap.Duration("took", time.Since(started)))
			if err != nil {
				logger.Error("Failed to handle update", append(fields, zap.Error(err))...)
				return err
			}

			logger.Info("Update handled", fields...)
			return nil
		}
	}
}

func updateFields(c tele.Context) []zap.Field {
	fields := []zap.Field{zap.Int("update_id", c.Update().ID)}

	if sender := c.Sender(); sender != nil {
		fields = append(fields,
			zap.Int64("user_id", sender.ID),
			zap.String("username", sender.Username))
	}
	if chat := c.Chat(); chat != nil {
		fields = append(fields, zap.Int64("chat_id", chat.ID))
	}

	if cb := c.Callback(); cb != nil {
		fields = append(fields,
			zap.String("kind", "callback"),
			zap.String("unique", cb.Unique),
			zap.String("data", cb.Data))
	} else if c.Message() != nil {
		fields = append(fields, zap.String("kind", "message"))
	}
	return fields
}
