package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/ahmetcoskunkizilkaya/looksmax-backend/internal/coach"
	"github.com/ahmetcoskunkizilkaya/looksmax-backend/internal/dto"
)

type CoachHandler struct {
	hub *coach.Hub
}

func NewCoachHandler(hub *coach.Hub) *CoachHandler {
	return &CoachHandler{hub: hub}
}

func (h *CoachHandler) Messages(c *fiber.Ctx) error {
	id, ok, err := device(c)
	if !ok {
		return err
	}
	return c.JSON(fiber.Map{"messages": h.hub.Session(id).Messages()})
}

// Send records the user's message. The coach reply shows up in Messages once
// the reply delay has passed.
func (h *CoachHandler) Send(c *fiber.Ctx) error {
	id, ok, err := device(c)
	if !ok {
		return err
	}

	var req dto.CoachMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	msg, err := h.hub.Session(id).Send(req.Text)
	if err != nil {
		if errors.Is(err, coach.ErrEmptyMessage) {
			return fail(c, fiber.StatusBadRequest, err.Error())
		}
		if errors.Is(err, coach.ErrSessionClosed) {
			return fail(c, fiber.StatusConflict, err.Error())
		}
		return fail(c, fiber.StatusInternalServerError, "Internal server error")
	}
	return c.Status(fiber.StatusAccepted).JSON(msg)
}

func (h *CoachHandler) Articles(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"articles": coach.Articles()})
}
