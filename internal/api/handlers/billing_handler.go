package handlers

import (
	"errors"

	"github.com/contentflow/contentflow-api/internal/service"
	"github.com/gofiber/fiber/v2"
)

type BillingHandler struct {
	s service.BillingService
}

func NewBillingHandler(s service.BillingService) *BillingHandler {
	return &BillingHandler{s: s}
}

func (h *BillingHandler) CreateCheckout(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var req struct {
		PriceID string `json:"price_id"`
	}
	if err := c.BodyParser(&req); err != nil || req.PriceID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "price_id is required",
		})
	}

	checkoutURL, err := h.s.CreateCheckout(c.Context(), userID, req.PriceID)
	if err != nil {
		return h.providerError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"url": checkoutURL,
	})
}

func (h *BillingHandler) CancelSubscription(c *fiber.Ctx) error {
	userID := GetUserID(c)

	err := h.s.CancelSubscription(c.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrNoSubscription) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "No active subscription",
			})
		}
		return h.providerError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Cancellation scheduled",
	})
}

func (h *BillingHandler) PortalSession(c *fiber.Ctx) error {
	userID := GetUserID(c)

	portalURL, err := h.s.PortalSession(c.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrNoSubscription) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "No billing account",
			})
		}
		return h.providerError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"url": portalURL,
	})
}

func (h *BillingHandler) GetSubscription(c *fiber.Ctx) error {
	userID := GetUserID(c)

	sub, err := h.s.GetSubscription(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to load subscription",
		})
	}
	if sub == nil {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{})
	}

	return c.Status(fiber.StatusOK).JSON(sub)
}

// providerError surfaces the raw Paddle response under details for
// operator diagnosis.
func (h *BillingHandler) providerError(c *fiber.Ctx, err error) error {
	var provErr *service.ProviderError
	if errors.As(err, &provErr) {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error":   "Billing provider request failed",
			"details": provErr.Details,
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Billing request failed",
	})
}
