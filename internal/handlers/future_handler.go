package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/ahmetcoskunkizilkaya/looksmax-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/looksmax-backend/internal/services"
)

type FutureHandler struct {
	projectionService *services.ProjectionService
}

func NewFutureHandler(projectionService *services.ProjectionService) *FutureHandler {
	return &FutureHandler{projectionService: projectionService}
}

func (h *FutureHandler) Project(c *fiber.Ctx) error {
	id, ok, err := device(c)
	if !ok {
		return err
	}

	var req dto.FutureRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	url, err := h.projectionService.Project(c.UserContext(), id, req.Months)
	switch {
	case err == nil:
		return c.JSON(dto.FutureResponse{ImageURL: url, Months: req.Months})
	case errors.Is(err, services.ErrInvalidHorizon):
		return fail(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrNoFaceResults):
		return fail(c, fiber.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, services.ErrImageGenFailed):
		return fail(c, fiber.StatusBadGateway, "Image generation failed, please try again")
	default:
		return fail(c, fiber.StatusInternalServerError, "Internal server error")
	}
}
