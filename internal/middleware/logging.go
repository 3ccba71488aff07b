package middleware

import (
	"time"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// Logger logs every update together with the error returned by its handler
func Logger(logger *zap.Logger) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			start := time.Now()
			err := next(c)

			fields := []zap.Field{zap.Duration("duration", time.Since(start))}
			if sender := c.Sender(); sender != nil {
				fields = append(fields, zap.Int64("user_id", sender.ID))
			}
			if callback := c.Callback(); callback != nil {
				fields = append(fields, zap.String("callback", callback.Unique))
			} else if text := c.Text(); text != "" {
				fields = append(fields, zap.String("text", text))
			}

			if err != nil {
				logger.Error("Update failed", append(fields, zap.Error(err))...)
				return err
			}

			logger.Debug("Update handled", fields...)
			return nil
		}
	}
}
