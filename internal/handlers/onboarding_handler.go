package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/ahmetcoskunkizilkaya/looksmax-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/looksmax-backend/internal/onboarding"
	"github.com/ahmetcoskunkizilkaya/looksmax-backend/internal/profile"
)

type OnboardingHandler struct {
	profiles *profile.Manager
}

func NewOnboardingHandler(profiles *profile.Manager) *OnboardingHandler {
	return &OnboardingHandler{profiles: profiles}
}

func (h *OnboardingHandler) Get(c *fiber.Ctx) error {
	id, ok, err := device(c)
	if !ok {
		return err
	}
	return c.JSON(h.state(c, h.profiles.For(id)))
}

func (h *OnboardingHandler) Advance(c *fiber.Ctx) error {
	id, ok, err := device(c)
	if !ok {
		return err
	}

	to, err := onboarding.ParseStep(c.Params("step"))
	if err != nil {
		return fail(c, fiber.StatusNotFound, err.Error())
	}
	var in onboarding.Input
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return fail(c, fiber.StatusBadRequest, "Invalid request body")
		}
	}

	store := h.profiles.For(id)
	if _, err := onboarding.New(store).Advance(c.UserContext(), to, in); err != nil {
		return onboardingError(c, err)
	}
	return c.JSON(h.state(c, store))
}

func (h *OnboardingHandler) Back(c *fiber.Ctx) error {
	id, ok, err := device(c)
	if !ok {
		return err
	}

	store := h.profiles.For(id)
	if _, err := onboarding.New(store).Back(c.UserContext()); err != nil {
		return onboardingError(c, err)
	}
	return c.JSON(h.state(c, store))
}

func (h *OnboardingHandler) state(c *fiber.Ctx, store *profile.Store) dto.OnboardingResponse {
	ctx := c.UserContext()
	flow := onboarding.New(store)
	return dto.OnboardingResponse{
		Step:           flow.Current(ctx),
		Next:           flow.Allowed(ctx),
		SetupCompleted: store.HasCompletedSetup(ctx),
		Gender:         store.GetGender(ctx),
		Goals:          store.GetGoals(ctx),
	}
}

func onboardingError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, onboarding.ErrInvalidTransition):
		return fail(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, onboarding.ErrMissingInput), errors.Is(err, profile.ErrUnknownGoal), errors.Is(err, profile.ErrUnknownPlan):
		return fail(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, onboarding.ErrNotReady):
		return fail(c, fiber.StatusUnprocessableEntity, err.Error())
	default:
		return fail(c, fiber.StatusInternalServerError, "Failed to update onboarding")
	}
}
