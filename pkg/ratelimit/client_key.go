package ratelimit

import (
	"strings"

	"github.com/formrelay/formrelay/pkg/common"
	"github.com/gofiber/fiber/v2"
)

// ClientKey derives the rate-limit key for a request: the first hop listed in
// X-Forwarded-For when present, otherwise the transport peer address. The
// header is taken at face value; deployments sit behind a proxy that owns it.
func ClientKey(c *fiber.Ctx) string {
	if fwd := c.Get(common.ForwardedForHeader); fwd != "" {
		first := strings.TrimSpace(strings.Split(fwd, ",")[0])
		if first != "" {
			return first
		}
	}
	if ip := c.IP(); ip != "" {
		return ip
	}
	return "unknown"
}
