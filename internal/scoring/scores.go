package scoring

import (
	"math"
	"math/rand/v2"
)

// Variant selects which photo was analyzed.
type Variant string

const (
	VariantFace Variant = "face"
	VariantBody Variant = "body"
)

func (v Variant) Valid() bool {
	return v == VariantFace || v == VariantBody
}

const (
	MinScore     = 1.0
	MaxScore     = 10.0
	NeutralScore = 6.0
)

const (
	faceFallbackSummary = "Your facial features show good overall balance and structure."
	bodyFallbackSummary = "Good overall body composition with room for improvement."
	defaultSummary      = "Analysis complete."
)

// FaceScores is the normalized rating vector for one face photo.
type FaceScores struct {
	Overall     float64 `json:"overall"`
	Potential   float64 `json:"potential"`
	Masculinity float64 `json:"masculinity"`
	SkinQuality float64 `json:"skinQuality"`
	Jawline     float64 `json:"jawline"`
	Cheekbones  float64 `json:"cheekbones"`
	EyeArea     float64 `json:"eyeArea"`
	Harmony     float64 `json:"harmony"`
	Summary     string  `json:"summary"`
}

// Values returns the numeric fields in declaration order.
func (s FaceScores) Values() []float64 {
	return []float64{s.Overall, s.Potential, s.Masculinity, s.SkinQuality, s.Jawline, s.Cheekbones, s.EyeArea, s.Harmony}
}

// BodyScores is the normalized rating vector for one body photo.
type BodyScores struct {
	Overall     float64 `json:"overall"`
	BodyFat     float64 `json:"bodyFat"`
	MuscleMass  float64 `json:"muscleMass"`
	Posture     float64 `json:"posture"`
	Proportions float64 `json:"proportions"`
	Shoulders   float64 `json:"shoulders"`
	Potential   float64 `json:"potential"`
	Summary     string  `json:"summary"`
}

func (s BodyScores) Values() []float64 {
	return []float64{s.Overall, s.BodyFat, s.MuscleMass, s.Posture, s.Proportions, s.Shoulders, s.Potential}
}

// Clamp forces v into [MinScore, MaxScore] with one decimal. Non-finite
// input yields NeutralScore.
func Clamp(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return NeutralScore
	}
	return round1(math.Min(MaxScore, math.Max(MinScore, v)))
}

// inRange reports whether v is a stored score: within [MinScore, MaxScore]
// and already rounded to one decimal.
func inRange(v float64) bool {
	return v >= MinScore && v <= MaxScore && round1(v) == v
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Source yields uniform values in [0, 1). A nil Source means math/rand/v2.
type Source func() float64

func (src Source) score() float64 {
	f := src
	if f == nil {
		f = rand.Float64
	}
	return round1(5 + f()*3)
}

// FallbackFace builds synthetic face scores in [5.0, 8.0], drawn
// independently per field.
func FallbackFace(src Source) FaceScores {
	return FaceScores{
		Overall:     src.score(),
		Potential:   src.score(),
		Masculinity: src.score(),
		SkinQuality: src.score(),
		Jawline:     src.score(),
		Cheekbones:  src.score(),
		EyeArea:     src.score(),
		Harmony:     src.score(),
		Summary:     faceFallbackSummary,
	}
}

// FallbackBody builds synthetic body scores in [5.0, 8.0].
func FallbackBody(src Source) BodyScores {
	return BodyScores{
		Overall:     src.score(),
		BodyFat:     src.score(),
		MuscleMass:  src.score(),
		Posture:     src.score(),
		Proportions: src.score(),
		Shoulders:   src.score(),
		Potential:   src.score(),
		Summary:     bodyFallbackSummary,
	}
}
