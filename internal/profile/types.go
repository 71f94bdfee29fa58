package profile

import (
	"encoding/json"
	"time"

	"github.com/ahmetcoskunkizilkaya/looksmax-backend/internal/scoring"
)

// Slot names of a device namespace. ClearAll removes every one of them.
const (
	KeyProfile            = "user_profile"
	KeyFaceResults        = "faceResults"
	KeyFaceImages         = "faceImages"
	KeyBodyResults        = "bodyResults"
	KeyBodyImages         = "bodyImages"
	KeyPremiumStatus      = "premium_status"
	KeyScanHistory        = "scan_history"
	KeyOnboardingComplete = "onboarding_complete"
	KeyGoals              = "user_goals"
	KeyGender             = "user_gender"
	KeyOnboardingStep     = "onboarding_step"
)

var Namespace = []string{
	KeyProfile,
	KeyFaceResults,
	KeyFaceImages,
	KeyBodyResults,
	KeyBodyImages,
	KeyPremiumStatus,
	KeyScanHistory,
	KeyOnboardingComplete,
	KeyGoals,
	KeyGender,
	KeyOnboardingStep,
}

// DefaultHistoryLimit caps the scan history; older entries are evicted first.
const DefaultHistoryLimit = 50

// UserProfile is merged field by field: only set fields overwrite.
type UserProfile struct {
	ID                   string     `json:"id,omitempty"`
	Email                string     `json:"email,omitempty"`
	Name                 string     `json:"name,omitempty"`
	Gender               string     `json:"gender,omitempty"`
	Goals                []string   `json:"goals,omitempty"`
	ReferralCode         string     `json:"referralCode,omitempty"`
	NotificationsEnabled *bool      `json:"notificationsEnabled,omitempty"`
	CreatedAt            *time.Time `json:"createdAt,omitempty"`
	LastScanAt           *time.Time `json:"lastScanAt,omitempty"`
}

// HistoryEntry records one completed analysis.
type HistoryEntry struct {
	ID      string          `json:"id"`
	Type    scoring.Variant `json:"type"`
	Date    time.Time       `json:"date"`
	Results json.RawMessage `json:"results"`
}

// Images holds references to the captured photos: data URLs or object keys.
type Images struct {
	Front string `json:"front"`
	Side  string `json:"side,omitempty"`
}

// Goal catalog offered during onboarding.
const (
	GoalAntiAging           = "anti-aging"
	GoalSkinQuality         = "skin-quality"
	GoalFacialStructure     = "facial-structure"
	GoalMuscleGrowth        = "muscle-growth"
	GoalFatLoss             = "fat-loss"
	GoalOverallOptimization = "overall-optimization"
	GoalCustom              = "custom"
)

var knownGoals = map[string]bool{
	GoalAntiAging:           true,
	GoalSkinQuality:         true,
	GoalFacialStructure:     true,
	GoalMuscleGrowth:        true,
	GoalFatLoss:             true,
	GoalOverallOptimization: true,
	GoalCustom:              true,
}

func ValidGoal(id string) bool { return knownGoals[id] }
