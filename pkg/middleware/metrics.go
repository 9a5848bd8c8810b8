package middleware

import (
	"strconv"

	"github.com/formrelay/formrelay/pkg/config"
	"github.com/formrelay/formrelay/pkg/infra/prometheus"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type metricsMiddleware struct {
	logger  *logrus.Logger
	enabled bool
}

func NewMetricsMiddleware(logger *logrus.Logger, cfg config.MetricsConfig) Middleware {
	return &metricsMiddleware{
		logger:  logger,
		enabled: cfg.Enabled,
	}
}

func (m *metricsMiddleware) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		if !m.enabled {
			return err
		}

		status := c.Response().StatusCode()
		if err != nil {
			if fiberErr, ok := err.(*fiber.Error); ok {
				status = fiberErr.Code
			}
		}
		prometheus.RequestsTotal.WithLabelValues(c.Method(), strconv.Itoa(status)).Inc()
		return err
	}
}
