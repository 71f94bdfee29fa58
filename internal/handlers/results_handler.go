package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ahmetcoskunkizilkaya/looksmax-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/looksmax-backend/internal/profile"
	"github.com/ahmetcoskunkizilkaya/looksmax-backend/internal/recommend"
)

// ResultsHandler serves the latest scores and plans. Devices without premium
// see only the overall and potential scores.
type ResultsHandler struct {
	profiles *profile.Manager
}

func NewResultsHandler(profiles *profile.Manager) *ResultsHandler {
	return &ResultsHandler{profiles: profiles}
}

func (h *ResultsHandler) Face(c *fiber.Ctx) error {
	id, ok, err := device(c)
	if !ok {
		return err
	}

	store := h.profiles.For(id)
	r := store.GetFaceResults(c.UserContext())
	if r == nil {
		return fail(c, fiber.StatusNotFound, "No face scan yet")
	}
	locked, results := scoresView(premium(c, store), r, r.Overall, r.Potential)
	return c.JSON(dto.ResultsResponse{Locked: locked, Results: results})
}

func (h *ResultsHandler) Body(c *fiber.Ctx) error {
	id, ok, err := device(c)
	if !ok {
		return err
	}

	store := h.profiles.For(id)
	r := store.GetBodyResults(c.UserContext())
	if r == nil {
		return fail(c, fiber.StatusNotFound, "No body scan yet")
	}
	locked, results := scoresView(premium(c, store), r, r.Overall, r.Potential)
	return c.JSON(dto.ResultsResponse{Locked: locked, Results: results})
}

func (h *ResultsHandler) FacePlan(c *fiber.Ctx) error {
	id, ok, err := device(c)
	if !ok {
		return err
	}

	r := h.profiles.For(id).GetFaceResults(c.UserContext())
	if r == nil {
		return fail(c, fiber.StatusNotFound, "No face scan yet")
	}
	return c.JSON(recommend.ForFace(*r))
}

func (h *ResultsHandler) BodyPlan(c *fiber.Ctx) error {
	id, ok, err := device(c)
	if !ok {
		return err
	}

	r := h.profiles.For(id).GetBodyResults(c.UserContext())
	if r == nil {
		return fail(c, fiber.StatusNotFound, "No body scan yet")
	}
	return c.JSON(recommend.ForBody(*r))
}
