package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ahmetcoskunkizilkaya/looksmax-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/looksmax-backend/internal/session"
)

func fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Error: true, Message: message})
}

// device resolves the caller's device id; ok is false once a 401 was written.
func device(c *fiber.Ctx) (string, bool, error) {
	id, err := session.DeviceID(c)
	if err != nil {
		return "", false, fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	return id.String(), true, nil
}
