package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ahmetcoskunkizilkaya/looksmax-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/looksmax-backend/internal/profile"
)

// DeviceChecker confirms a RevenueCat app user id is one of our devices.
type DeviceChecker interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// PremiumService applies purchases to a device's premium status. The mobile
// app sets the RevenueCat app user id to its device id.
type PremiumService struct {
	profiles *profile.Manager
	devices  DeviceChecker
}

func NewPremiumService(profiles *profile.Manager, devices DeviceChecker) *PremiumService {
	return &PremiumService{profiles: profiles, devices: devices}
}

func (s *PremiumService) Activate(ctx context.Context, deviceID string, plan profile.Plan) (profile.PremiumStatus, error) {
	return s.profiles.For(deviceID).ActivatePremium(ctx, plan)
}

func (s *PremiumService) HandleWebhookEvent(ctx context.Context, event *dto.RevenueCatEvent) error {
	id, err := uuid.Parse(event.AppUserID)
	if err != nil {
		slog.Warn("webhook for non-device user ignored", "app_user_id", event.AppUserID, "event_type", event.Type)
		return nil
	}
	if ok, err := s.devices.Exists(ctx, id); err != nil {
		return err
	} else if !ok {
		slog.Warn("webhook for unknown device ignored", "device_id", id.String(), "event_type", event.Type)
		return nil
	}

	store := s.profiles.For(id.String())
	switch event.Type {
	case "INITIAL_PURCHASE", "RENEWAL":
		return store.SetPremiumStatus(ctx, statusFromEvent(event))
	case "CANCELLATION", "EXPIRATION":
		status := store.GetPremiumStatus(ctx)
		status.IsPremium = false
		return store.SetPremiumStatus(ctx, status)
	default:
		return nil
	}
}

func statusFromEvent(event *dto.RevenueCatEvent) profile.PremiumStatus {
	purchased := msToTime(event.PurchasedAtMs)
	status := profile.PremiumStatus{
		IsPremium:   true,
		PurchasedAt: &purchased,
	}
	if event.ExpirationAtMs > 0 {
		expires := msToTime(event.ExpirationAtMs)
		status.ExpiresAt = &expires
	}
	status.Plan = planForProduct(event.ProductID, status.PurchasedAt, status.ExpiresAt)
	return status
}

// planForProduct reads the plan from the store product id, falling back to
// the length of the paid period.
func planForProduct(productID string, purchased, expires *time.Time) profile.Plan {
	id := strings.ToLower(productID)
	switch {
	case strings.Contains(id, "lifetime"):
		return profile.PlanLifetime
	case strings.Contains(id, "annual"), strings.Contains(id, "year"):
		return profile.PlanYearly
	case strings.Contains(id, "month"):
		return profile.PlanMonthly
	case strings.Contains(id, "week"):
		return profile.PlanWeekly
	}

	if expires == nil || purchased == nil {
		return profile.PlanLifetime
	}
	switch period := expires.Sub(*purchased); {
	case period <= 8*24*time.Hour:
		return profile.PlanWeekly
	case period <= 31*24*time.Hour:
		return profile.PlanMonthly
	default:
		return profile.PlanYearly
	}
}

func msToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
