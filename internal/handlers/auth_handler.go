package handlers

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ahmetcoskunkizilkaya/looksmax-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/looksmax-backend/internal/profile"
	"github.com/ahmetcoskunkizilkaya/looksmax-backend/internal/services"
)

type AuthHandler struct {
	authService *services.AuthService
	profiles    *profile.Manager
}

func NewAuthHandler(authService *services.AuthService, profiles *profile.Manager) *AuthHandler {
	return &AuthHandler{authService: authService, profiles: profiles}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.DeviceRegisterRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return fail(c, fiber.StatusBadRequest, "Invalid request body")
		}
	}

	resp, err := h.authService.Register(c.UserContext(), &req)
	if err != nil {
		slog.Error("device registration failed", "error", err)
		return fail(c, fiber.StatusInternalServerError, "Internal server error")
	}

	now := time.Now().UTC()
	id := resp.DeviceID.String()
	if err := h.profiles.For(id).SaveProfile(c.UserContext(), profile.UserProfile{ID: id, CreatedAt: &now}); err != nil {
		return fail(c, fiber.StatusInternalServerError, "Internal server error")
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.DeviceLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	resp, err := h.authService.Login(c.UserContext(), &req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return fail(c, fiber.StatusUnauthorized, err.Error())
		}
		return fail(c, fiber.StatusInternalServerError, "Internal server error")
	}

	return c.JSON(resp)
}
