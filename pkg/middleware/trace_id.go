package middleware

import (
	"context"

	"github.com/formrelay/formrelay/pkg/common"
	"github.com/formrelay/formrelay/pkg/ratelimit"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// traceIdMiddleware tags every request with a trace id and the derived
// client key, for handlers and log correlation.
type traceIdMiddleware struct{}

func NewTraceIdMiddleware() Middleware {
	return &traceIdMiddleware{}
}

func (m *traceIdMiddleware) Middleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		id := uuid.New().String()
		clientKey := ratelimit.ClientKey(ctx)

		ctx.Locals(common.TraceIdKey, id)
		ctx.Locals(common.ClientKeyCtxKey, clientKey)

		c := context.WithValue(ctx.UserContext(), common.TraceIdKey, id)
		c = context.WithValue(c, common.ClientKeyCtxKey, clientKey)
		ctx.SetUserContext(c)
		return ctx.Next()
	}
}
