// Package onboarding walks a device through the first-run steps. Each step
// persists its answer through the profile store before the step is recorded.
package onboarding

import (
	"context"
	"errors"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/looksmax-backend/internal/profile"
)

var (
	ErrInvalidTransition = errors.New("invalid onboarding transition")
	ErrUnknownStep       = errors.New("unknown onboarding step")
	ErrMissingInput      = errors.New("missing onboarding input")
	ErrNotReady          = errors.New("onboarding step precondition not met")
)

type Step string

const (
	StepStart                 Step = "start"
	StepGenderSelected        Step = "gender_selected"
	StepReferralEntered       Step = "referral_entered"
	StepNotificationsPrompted Step = "notifications_prompted"
	StepFaceCaptured          Step = "face_captured"
	StepFaceAnalyzed          Step = "face_analyzed"
	StepGoalSelected          Step = "goal_selected"
	StepPaywallShown          Step = "paywall_shown"
	StepPremiumActivated      Step = "premium_activated"
	StepPremiumDeferred       Step = "premium_deferred"
	StepBodyPrompted          Step = "body_prompted"
	StepComplete              Step = "complete"
)

// next lists the forward moves allowed from each step.
var next = map[Step][]Step{
	StepStart:                 {StepGenderSelected},
	StepGenderSelected:        {StepReferralEntered},
	StepReferralEntered:       {StepNotificationsPrompted},
	StepNotificationsPrompted: {StepFaceCaptured},
	StepFaceCaptured:          {StepFaceAnalyzed},
	StepFaceAnalyzed:          {StepGoalSelected},
	StepGoalSelected:          {StepPaywallShown},
	StepPaywallShown:          {StepPremiumActivated, StepPremiumDeferred},
	StepPremiumActivated:      {StepBodyPrompted},
	StepPremiumDeferred:       {StepBodyPrompted},
	StepBodyPrompted:          {StepComplete},
	StepComplete:              nil,
}

// previous is where "back" leads. Both paywall outcomes return to the paywall.
var previous = map[Step]Step{
	StepGenderSelected:        StepStart,
	StepReferralEntered:       StepGenderSelected,
	StepNotificationsPrompted: StepReferralEntered,
	StepFaceCaptured:          StepNotificationsPrompted,
	StepFaceAnalyzed:          StepFaceCaptured,
	StepGoalSelected:          StepFaceAnalyzed,
	StepPaywallShown:          StepGoalSelected,
	StepPremiumActivated:      StepPaywallShown,
	StepPremiumDeferred:       StepPaywallShown,
	StepBodyPrompted:          StepPaywallShown,
	StepComplete:              StepBodyPrompted,
}

func ParseStep(s string) (Step, error) {
	step := Step(s)
	if _, ok := next[step]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownStep, s)
	}
	return step, nil
}

// Input carries the answer collected on a step. Only the field relevant to
// the target step is read.
type Input struct {
	Gender               string       `json:"gender,omitempty"`
	ReferralCode         string       `json:"referralCode,omitempty"`
	NotificationsEnabled *bool        `json:"notificationsEnabled,omitempty"`
	Goals                []string     `json:"goals,omitempty"`
	Plan                 profile.Plan `json:"plan,omitempty"`
}

type Flow struct {
	store *profile.Store
}

func New(store *profile.Store) *Flow {
	return &Flow{store: store}
}

// Current returns the last recorded step, or StepStart.
func (f *Flow) Current(ctx context.Context) Step {
	step, err := ParseStep(f.store.GetOnboardingStep(ctx))
	if err != nil {
		return StepStart
	}
	return step
}

// Allowed lists the steps reachable from the current one.
func (f *Flow) Allowed(ctx context.Context) []Step {
	return next[f.Current(ctx)]
}

// Advance moves forward to the given step, persisting its input first.
func (f *Flow) Advance(ctx context.Context, to Step, in Input) (Step, error) {
	from := f.Current(ctx)
	if !canMove(from, to) {
		return from, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	if err := f.apply(ctx, to, in); err != nil {
		return from, err
	}
	if err := f.store.SetOnboardingStep(ctx, string(to)); err != nil {
		return from, err
	}
	return to, nil
}

// Back returns to the previous step. Data written on later steps stays.
func (f *Flow) Back(ctx context.Context) (Step, error) {
	from := f.Current(ctx)
	to, ok := previous[from]
	if !ok {
		return from, fmt.Errorf("%w: no step before %s", ErrInvalidTransition, from)
	}
	if err := f.store.SetOnboardingStep(ctx, string(to)); err != nil {
		return from, err
	}
	return to, nil
}

func canMove(from, to Step) bool {
	for _, s := range next[from] {
		if s == to {
			return true
		}
	}
	return false
}

func (f *Flow) apply(ctx context.Context, to Step, in Input) error {
	switch to {
	case StepGenderSelected:
		if in.Gender == "" {
			return fmt.Errorf("%w: gender", ErrMissingInput)
		}
		return f.store.SaveGender(ctx, in.Gender)
	case StepReferralEntered:
		// the referral code is optional
		if in.ReferralCode == "" {
			return nil
		}
		return f.store.SaveProfile(ctx, profile.UserProfile{ReferralCode: in.ReferralCode})
	case StepNotificationsPrompted:
		enabled := in.NotificationsEnabled != nil && *in.NotificationsEnabled
		return f.store.SaveProfile(ctx, profile.UserProfile{NotificationsEnabled: &enabled})
	case StepFaceCaptured:
		if f.store.GetFaceImages(ctx) == nil {
			return fmt.Errorf("%w: no face capture stored", ErrNotReady)
		}
	case StepFaceAnalyzed:
		if f.store.GetFaceResults(ctx) == nil {
			return fmt.Errorf("%w: no face result stored", ErrNotReady)
		}
	case StepGoalSelected:
		if len(in.Goals) == 0 {
			return fmt.Errorf("%w: goals", ErrMissingInput)
		}
		return f.store.SaveGoals(ctx, in.Goals)
	case StepPremiumActivated:
		_, err := f.store.ActivatePremium(ctx, in.Plan)
		return err
	case StepComplete:
		return f.store.SetOnboardingComplete(ctx)
	}
	return nil
}
