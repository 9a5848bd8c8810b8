package http

import (
	"github.com/formrelay/formrelay/pkg/app/contact"
	"github.com/formrelay/formrelay/pkg/common"
	"github.com/formrelay/formrelay/pkg/handlers/http/response"
	"github.com/formrelay/formrelay/pkg/infra/prometheus"
	"github.com/formrelay/formrelay/pkg/ratelimit"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

const MsgMethodNotAllowed = "Method not allowed."

type contactHandler struct {
	logger    *logrus.Logger
	processor contact.Processor
}

func NewContactHandler(logger *logrus.Logger, processor contact.Processor) Handler {
	return &contactHandler{
		logger:    logger,
		processor: processor,
	}
}

// Handle accepts a contact submission. The route is registered for all
// methods so non-POST requests still get the endpoint's JSON error shape.
func (h *contactHandler) Handle(c *fiber.Ctx) error {
	if c.Method() != fiber.MethodPost {
		return c.Status(fiber.StatusMethodNotAllowed).JSON(response.ContactResponse{
			Ok:      false,
			Message: MsgMethodNotAllowed,
		})
	}

	clientKey, ok := c.Locals(common.ClientKeyCtxKey).(string)
	if !ok || clientKey == "" {
		clientKey = ratelimit.ClientKey(c)
	}

	result := h.processor.Process(c.UserContext(), c.Body(), clientKey)
	prometheus.SubmissionsTotal.WithLabelValues(result.Outcome.String()).Inc()

	return c.Status(statusFor(result.Outcome)).JSON(response.ContactResponse{
		Ok:      result.Outcome == contact.OutcomeSuccess,
		Message: result.Message,
	})
}

func statusFor(outcome contact.Outcome) int {
	switch outcome {
	case contact.OutcomeSuccess:
		return fiber.StatusOK
	case contact.OutcomeBadRequest, contact.OutcomeSpamRejected:
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}
