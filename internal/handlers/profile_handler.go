package handlers

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ahmetcoskunkizilkaya/looksmax-backend/internal/coach"
	"github.com/ahmetcoskunkizilkaya/looksmax-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/looksmax-backend/internal/media"
	"github.com/ahmetcoskunkizilkaya/looksmax-backend/internal/profile"
	"github.com/ahmetcoskunkizilkaya/looksmax-backend/internal/services"
)

type ProfileHandler struct {
	profiles       *profile.Manager
	premiumService *services.PremiumService
	hub            *coach.Hub
	images         media.Store
}

func NewProfileHandler(profiles *profile.Manager, premiumService *services.PremiumService, hub *coach.Hub, images media.Store) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, premiumService: premiumService, hub: hub, images: images}
}

func (h *ProfileHandler) GetProfile(c *fiber.Ctx) error {
	id, ok, err := device(c)
	if !ok {
		return err
	}

	p := h.profiles.For(id).GetProfile(c.UserContext())
	if p == nil {
		return fail(c, fiber.StatusNotFound, "Profile not found")
	}
	return c.JSON(p)
}

// UpdateProfile merges the given fields. Goals and gender also land in their
// own slots.
func (h *ProfileHandler) UpdateProfile(c *fiber.Ctx) error {
	id, ok, err := device(c)
	if !ok {
		return err
	}

	var patch profile.UserProfile
	if err := c.BodyParser(&patch); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	ctx := c.UserContext()
	store := h.profiles.For(id)
	if patch.Goals != nil {
		if err := store.SaveGoals(ctx, patch.Goals); err != nil {
			if errors.Is(err, profile.ErrUnknownGoal) {
				return fail(c, fiber.StatusBadRequest, err.Error())
			}
			return fail(c, fiber.StatusInternalServerError, "Failed to save profile")
		}
		patch.Goals = nil
	}
	if patch.Gender != "" {
		if err := store.SaveGender(ctx, patch.Gender); err != nil {
			return fail(c, fiber.StatusInternalServerError, "Failed to save profile")
		}
		patch.Gender = ""
	}

	// Identity and timestamps are server-owned.
	patch.ID, patch.CreatedAt, patch.LastScanAt = "", nil, nil
	if err := store.SaveProfile(ctx, patch); err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to save profile")
	}

	return c.JSON(store.GetProfile(ctx))
}

func (h *ProfileHandler) GetPremium(c *fiber.Ctx) error {
	id, ok, err := device(c)
	if !ok {
		return err
	}

	status := h.profiles.For(id).GetPremiumStatus(c.UserContext())
	status.IsPremium = status.Active(time.Now())
	return c.JSON(status)
}

func (h *ProfileHandler) ActivatePremium(c *fiber.Ctx) error {
	id, ok, err := device(c)
	if !ok {
		return err
	}

	var req dto.ActivatePremiumRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return fail(c, fiber.StatusBadRequest, "Invalid request body")
		}
	}

	status, err := h.premiumService.Activate(c.UserContext(), id, req.Plan)
	if err != nil {
		if errors.Is(err, profile.ErrUnknownPlan) {
			return fail(c, fiber.StatusBadRequest, err.Error())
		}
		return fail(c, fiber.StatusInternalServerError, "Failed to activate premium")
	}
	return c.JSON(status)
}

func (h *ProfileHandler) GetHistory(c *fiber.Ctx) error {
	id, ok, err := device(c)
	if !ok {
		return err
	}
	store := h.profiles.For(id)
	history := store.GetHistory(c.UserContext())
	if !premium(c, store) {
		return c.JSON(dto.HistoryResponse{Locked: true, History: previewHistory(history)})
	}
	return c.JSON(dto.HistoryResponse{History: history})
}

// ClearAll wipes every stored slot for the device, deletes its captured
// photos and ends its coach session. The device itself stays registered.
func (h *ProfileHandler) ClearAll(c *fiber.Ctx) error {
	id, ok, err := device(c)
	if !ok {
		return err
	}

	ctx := c.UserContext()
	store := h.profiles.For(id)
	for _, refs := range []*profile.Images{store.GetFaceImages(ctx), store.GetBodyImages(ctx)} {
		if refs == nil {
			continue
		}
		for _, ref := range []string{refs.Front, refs.Side} {
			if err := h.images.Delete(ctx, ref); err != nil {
				slog.Error("photo delete failed", "device_id", id, "error", err)
				return fail(c, fiber.StatusInternalServerError, "Failed to clear data")
			}
		}
	}

	if err := store.ClearAll(ctx); err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to clear data")
	}
	h.hub.End(id)

	slog.Info("device data cleared", "device_id", id)
	return c.SendStatus(fiber.StatusNoContent)
}
