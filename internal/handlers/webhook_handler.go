package handlers

import (
	"crypto/subtle"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/ahmetcoskunkizilkaya/looksmax-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/looksmax-backend/internal/services"
)

type WebhookHandler struct {
	premiumService *services.PremiumService
	expectedAuth   string
}

func NewWebhookHandler(premiumService *services.PremiumService, expectedAuth string) *WebhookHandler {
	return &WebhookHandler{premiumService: premiumService, expectedAuth: expectedAuth}
}

// HandleRevenueCat authenticates with the shared Authorization header value.
func (h *WebhookHandler) HandleRevenueCat(c *fiber.Ctx) error {
	if h.expectedAuth == "" {
		return fail(c, fiber.StatusNotFound, "Webhooks not configured")
	}
	if subtle.ConstantTimeCompare([]byte(c.Get("Authorization")), []byte(h.expectedAuth)) != 1 {
		return fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var webhook dto.RevenueCatWebhook
	if err := c.BodyParser(&webhook); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid webhook payload")
	}

	if err := h.premiumService.HandleWebhookEvent(c.UserContext(), &webhook.Event); err != nil {
		slog.Error("webhook processing failed", "event_type", webhook.Event.Type, "error", err)
		return fail(c, fiber.StatusInternalServerError, "Failed to process webhook event")
	}

	slog.Info("webhook processed", "event_type", webhook.Event.Type, "device_id", webhook.Event.AppUserID)
	return c.JSON(fiber.Map{"received": true})
}
