package middlewares

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Audit logs one structured line per request: method, path, status,
// duration, client IP, user and query count. It wraps the whole pipeline so
// short-circuited requests are logged too.
func Audit(log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		fields := []zap.Field{
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("duration", time.Since(start)),
		}
		if st := State(c); st != nil {
			fields = append(fields,
				zap.String("ip", st.IP),
				zap.Int("queries", len(st.Queries)),
			)
			if st.User != nil {
				fields = append(fields, zap.Int64("user_id", st.User.ID))
			}
		}
		if err != nil {
			fields = append(fields, zap.Error(err))
		}
		log.Info("request", fields...)
		return err
	}
}
