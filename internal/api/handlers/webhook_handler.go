package handlers

import (
	"errors"

	"github.com/contentflow/contentflow-api/internal/service"
	"github.com/gofiber/fiber/v2"
)

type WebhookHandler struct {
	s service.SubscriptionService
}

func NewWebhookHandler(s service.SubscriptionService) *WebhookHandler {
	return &WebhookHandler{s: s}
}

// PaddleWebhook verifies and applies one billing event. Once the
// signature checks out Paddle always gets a 200 so a store outage does
// not turn into a redelivery storm.
func (h *WebhookHandler) PaddleWebhook(c *fiber.Ctx) error {
	signature := c.Get("paddle-signature")
	if signature == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "missing signature header",
		})
	}

	// c.Body() is the raw bytes; signature verification must see them
	// before any parsing.
	err := h.s.HandleWebhook(c.Context(), c.Body(), signature)
	if err != nil {
		if errors.Is(err, service.ErrInvalidSignature) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid signature",
			})
		}
		if errors.Is(err, service.ErrMalformedEvent) {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "unable to process event",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "unable to process event",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"received": true,
	})
}
