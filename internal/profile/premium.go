package profile

import (
	"errors"
	"time"
)

var ErrUnknownPlan = errors.New("unknown premium plan")

type Plan string

const (
	PlanWeekly   Plan = "weekly"
	PlanMonthly  Plan = "monthly"
	PlanYearly   Plan = "yearly"
	PlanLifetime Plan = "lifetime"
)

const day = 24 * time.Hour

var planDurations = map[Plan]time.Duration{
	PlanWeekly:   7 * day,
	PlanMonthly:  30 * day,
	PlanYearly:   365 * day,
	PlanLifetime: 0,
}

func (p Plan) Valid() bool {
	_, ok := planDurations[p]
	return ok
}

// PremiumStatus is stored as-is; nothing flips IsPremium when ExpiresAt
// passes, so callers check Active.
type PremiumStatus struct {
	IsPremium   bool       `json:"isPremium"`
	Plan        Plan       `json:"plan,omitempty"`
	PurchasedAt *time.Time `json:"purchasedAt,omitempty"`
	ExpiresAt   *time.Time `json:"expiresAt,omitempty"`
}

func (p PremiumStatus) Active(now time.Time) bool {
	if !p.IsPremium {
		return false
	}
	return p.ExpiresAt == nil || now.Before(*p.ExpiresAt)
}

// NewPremiumStatus builds the status for a purchase made at now. Lifetime
// plans never expire; an empty plan means lifetime.
func NewPremiumStatus(plan Plan, now time.Time) (PremiumStatus, error) {
	if plan == "" {
		plan = PlanLifetime
	}
	d, ok := planDurations[plan]
	if !ok {
		return PremiumStatus{}, ErrUnknownPlan
	}
	purchased := now.UTC()
	status := PremiumStatus{IsPremium: true, Plan: plan, PurchasedAt: &purchased}
	if d > 0 {
		expires := purchased.Add(d)
		status.ExpiresAt = &expires
	}
	return status, nil
}
