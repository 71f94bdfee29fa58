package recommend

import (
	"fmt"

	"github.com/ahmetcoskunkizilkaya/looksmax-backend/internal/scoring"
)

// Weekday abbreviations used in weekly schedules, Monday first.
const (
	Mon = "Mon"
	Tue = "Tue"
	Wed = "Wed"
	Thu = "Thu"
	Fri = "Fri"
	Sat = "Sat"
	Sun = "Sun"
)

var everyDay = []string{Mon, Tue, Wed, Thu, Fri, Sat, Sun}

// NeedThreshold is the score below which a field counts as needing work.
const NeedThreshold = 7.0

type Item struct {
	Name                string   `json:"name"`
	Purpose             string   `json:"purpose"`
	DosageAmount        string   `json:"dosageAmount"`
	Frequency           string   `json:"frequency"`
	WeeklyScheduleDays  []string `json:"weeklyScheduleDays"`
	DurationDescription string   `json:"durationDescription"`
	Benefits            []string `json:"benefits"`
	IconKey             string   `json:"iconKey"`
}

type Plan struct {
	Title            string `json:"title"`
	Description      string `json:"description"`
	Items            []Item `json:"items"`
	TotalWeeklyDoses int    `json:"totalWeeklyDoses"`
}

func newPlan(title, description string, items []Item) Plan {
	total := 0
	for _, it := range items {
		total += len(it.WeeklyScheduleDays)
	}
	return Plan{Title: title, Description: description, Items: items, TotalWeeklyDoses: total}
}

// rule pairs a trigger with the item it adds. Rules are evaluated in slice order.
type rule struct {
	when func(scoring.FaceScores) bool
	item func() Item
}

var faceRules = []rule{
	{func(s scoring.FaceScores) bool { return s.SkinQuality < NeedThreshold }, ghkCu},
	{func(s scoring.FaceScores) bool { return s.Jawline < NeedThreshold || s.Masculinity < NeedThreshold }, cjcIpamorelin},
	{func(s scoring.FaceScores) bool { return s.Overall < 8 }, bpc157},
	{func(s scoring.FaceScores) bool { return s.Potential > s.Overall }, epithalon},
}

// faceBaseline is always appended after the rule-driven items.
var faceBaseline = []func() Item{tb500, collagen}

// ForFace derives the face protocol. It performs no I/O and uses no randomness.
func ForFace(s scoring.FaceScores) Plan {
	items := make([]Item, 0, len(faceRules)+len(faceBaseline))
	for _, r := range faceRules {
		if r.when(s) {
			items = append(items, r.item())
		}
	}
	for _, base := range faceBaseline {
		items = append(items, base())
	}
	return newPlan(
		"Your Personalized Peptide Protocol",
		fmt.Sprintf("Based on your analysis, we've created a customized peptide stack to help you reach your %.1f potential score.", s.Potential),
		items,
	)
}

// ForBody returns the fixed body composition protocol. Scores do not change
// the item set.
func ForBody(_ scoring.BodyScores) Plan {
	return newPlan(
		"Body Optimization Protocol",
		"A targeted peptide stack for body composition improvement.",
		[]Item{tesamorelin(), ghrp6(), follistatin()},
	)
}

// Items are built by constructors so callers never share slices.

func ghkCu() Item {
	return Item{
		Name:                "GHK-Cu",
		Purpose:             "Skin Regeneration & Collagen",
		DosageAmount:        "200-500mcg",
		Frequency:           "1x daily",
		WeeklyScheduleDays:  clone(everyDay),
		DurationDescription: "8-12 weeks",
		Benefits:            []string{"Increases collagen production", "Improves skin elasticity", "Reduces fine lines", "Enhances skin firmness"},
		IconKey:             "sparkles",
	}
}

func cjcIpamorelin() Item {
	return Item{
		Name:                "CJC-1295 + Ipamorelin",
		Purpose:             "Growth Hormone Release",
		DosageAmount:        "100mcg each",
		Frequency:           "2x daily",
		WeeklyScheduleDays:  []string{Mon, Wed, Fri},
		DurationDescription: "12-16 weeks",
		Benefits:            []string{"Promotes lean muscle", "Enhances facial bone density", "Improves body composition", "Better sleep quality"},
		IconKey:             "fitness",
	}
}

func bpc157() Item {
	return Item{
		Name:                "BPC-157",
		Purpose:             "Healing & Recovery",
		DosageAmount:        "250-500mcg",
		Frequency:           "1x daily",
		WeeklyScheduleDays:  []string{Mon, Tue, Wed, Thu, Fri},
		DurationDescription: "4-8 weeks",
		Benefits:            []string{"Accelerates healing", "Reduces inflammation", "Improves gut health", "Tissue repair"},
		IconKey:             "medkit",
	}
}

func epithalon() Item {
	return Item{
		Name:                "Epithalon",
		Purpose:             "Anti-Aging & Telomere Support",
		DosageAmount:        "5-10mg",
		Frequency:           "Cycle: 10 days on",
		WeeklyScheduleDays:  clone(everyDay),
		DurationDescription: "10-day cycles, 3x per year",
		Benefits:            []string{"Telomere elongation", "DNA protection", "Enhanced longevity", "Improved skin quality"},
		IconKey:             "hourglass",
	}
}

func tb500() Item {
	return Item{
		Name:                "TB-500",
		Purpose:             "Tissue Regeneration",
		DosageAmount:        "2-2.5mg",
		Frequency:           "2x weekly",
		WeeklyScheduleDays:  []string{Mon, Thu},
		DurationDescription: "4-6 weeks loading, then maintenance",
		Benefits:            []string{"Promotes healing", "Reduces inflammation", "Improves flexibility", "Hair growth support"},
		IconKey:             "leaf",
	}
}

func collagen() Item {
	return Item{
		Name:                "Collagen Peptides",
		Purpose:             "Skin & Joint Health",
		DosageAmount:        "10-15g",
		Frequency:           "1x daily (oral)",
		WeeklyScheduleDays:  clone(everyDay),
		DurationDescription: "Ongoing",
		Benefits:            []string{"Improved skin hydration", "Reduced wrinkles", "Stronger hair/nails", "Joint support"},
		IconKey:             "water",
	}
}

func tesamorelin() Item {
	return Item{
		Name:                "Tesamorelin",
		Purpose:             "Targeted Fat Reduction",
		DosageAmount:        "2mg",
		Frequency:           "1x daily",
		WeeklyScheduleDays:  clone(everyDay),
		DurationDescription: "12-24 weeks",
		Benefits:            []string{"Reduces visceral fat", "Improves body composition", "Enhances metabolism", "FDA-approved"},
		IconKey:             "flame",
	}
}

func ghrp6() Item {
	return Item{
		Name:                "GHRP-6",
		Purpose:             "Muscle Growth & Appetite",
		DosageAmount:        "100-300mcg",
		Frequency:           "2-3x daily",
		WeeklyScheduleDays:  clone(everyDay),
		DurationDescription: "8-12 weeks",
		Benefits:            []string{"Stimulates GH release", "Increases appetite", "Promotes muscle growth", "Improves recovery"},
		IconKey:             "barbell",
	}
}

func follistatin() Item {
	return Item{
		Name:                "Follistatin",
		Purpose:             "Muscle Mass Enhancement",
		DosageAmount:        "100mcg",
		Frequency:           "1x daily",
		WeeklyScheduleDays:  []string{Mon, Wed, Fri},
		DurationDescription: "4-8 weeks",
		Benefits:            []string{"Inhibits myostatin", "Promotes muscle growth", "Enhances strength", "Body recomposition"},
		IconKey:             "body",
	}
}

func clone(days []string) []string {
	return append([]string(nil), days...)
}
