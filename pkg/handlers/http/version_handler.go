package http

import (
	"github.com/formrelay/formrelay/pkg/version"
	"github.com/gofiber/fiber/v2"
)

type versionHandler struct{}

func NewVersionHandler() Handler {
	return &versionHandler{}
}

func (h *versionHandler) Handle(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(version.GetInfo())
}
