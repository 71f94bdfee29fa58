package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ahmetcoskunkizilkaya/looksmax-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/looksmax-backend/internal/profile"
	"github.com/ahmetcoskunkizilkaya/looksmax-backend/internal/session"
)

// PremiumRequired rejects devices without an active premium status. Expiry is
// checked here on every request.
func PremiumRequired(profiles *profile.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		deviceID, err := session.DeviceID(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}
		status := profiles.For(deviceID.String()).GetPremiumStatus(c.UserContext())
		if !status.Active(time.Now()) {
			return c.Status(fiber.StatusPaymentRequired).JSON(dto.ErrorResponse{
				Error: true, Message: "Premium subscription required",
			})
		}
		return c.Next()
	}
}
