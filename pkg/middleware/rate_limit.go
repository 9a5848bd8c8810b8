package middleware

import (
	"github.com/formrelay/formrelay/pkg/common"
	"github.com/formrelay/formrelay/pkg/infra/prometheus"
	"github.com/formrelay/formrelay/pkg/ratelimit"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

const MsgRateLimited = "Too many requests. Please try again later."

type rateLimitMiddleware struct {
	logger  *logrus.Logger
	limiter *ratelimit.Limiter
}

func NewRateLimitMiddleware(logger *logrus.Logger, limiter *ratelimit.Limiter) Middleware {
	return &rateLimitMiddleware{
		logger:  logger,
		limiter: limiter,
	}
}

// Middleware rejects clients that exhausted their window before any body
// work happens. Non-POST requests pass through untouched so the handler can
// answer with its method error instead.
func (m *rateLimitMiddleware) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Method() != fiber.MethodPost {
			return c.Next()
		}

		clientKey, ok := c.Locals(common.ClientKeyCtxKey).(string)
		if !ok || clientKey == "" {
			clientKey = ratelimit.ClientKey(c)
		}

		if !m.limiter.CheckAndRecord(clientKey) {
			m.logger.WithField("client_key", clientKey).Warn("client rate limited")
			prometheus.SubmissionsTotal.WithLabelValues("rate_limited").Inc()
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"ok":      false,
				"message": MsgRateLimited,
			})
		}

		return c.Next()
	}
}
