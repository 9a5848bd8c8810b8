package router

import (
	"errors"

	handlers "github.com/formrelay/formrelay/pkg/handlers/http"
	"github.com/formrelay/formrelay/pkg/middleware"
	"github.com/gofiber/fiber/v2"
)

var ErrInvalidHandlerTransport = errors.New("invalid handler transport")

type apiRouter struct {
	middlewareTransport *middleware.Transport
	handlerTransport    handlers.HandlerTransport
}

func NewAPIRouter(
	middlewareTransport *middleware.Transport,
	handlerTransport handlers.HandlerTransport,
) ServerRouter {
	return &apiRouter{
		middlewareTransport: middlewareTransport,
		handlerTransport:    handlerTransport,
	}
}

func (r *apiRouter) BuildRoutes(router *fiber.App) error {
	if r.handlerTransport.ContactHandler == nil {
		return ErrInvalidHandlerTransport
	}

	if r.middlewareTransport.TraceIdMiddleware != nil {
		router.Use(r.middlewareTransport.TraceIdMiddleware.Middleware())
	}
	if r.middlewareTransport.MetricsMiddleware != nil {
		router.Use(r.middlewareTransport.MetricsMiddleware.Middleware())
	}

	if r.handlerTransport.VersionHandler != nil {
		router.Get("/version", r.handlerTransport.VersionHandler.Handle)
	}

	api := router.Group("/api")
	{
		// The contact route takes every method; the handler answers
		// non-POST with its own 405 body. Rate limiting sits on this
		// route only so health and version stay unthrottled.
		if r.middlewareTransport.RateLimitMiddleware != nil {
			api.All("/contact",
				r.middlewareTransport.RateLimitMiddleware.Middleware(),
				r.handlerTransport.ContactHandler.Handle,
			)
		} else {
			api.All("/contact", r.handlerTransport.ContactHandler.Handle)
		}
	}

	return nil
}
