package scoring

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// RawScore is one untrusted numeric field from the classifier. Decoding
// never fails: anything that is not a number or numeric string stays unset.
type RawScore struct {
	value float64
	set   bool
}

func Score(v float64) RawScore {
	return RawScore{value: v, set: true}
}

func (s *RawScore) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		s.value, s.set = f, true
		return nil
	}
	var str string
	if err := json.Unmarshal(b, &str); err == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(str), 64); err == nil {
			s.value, s.set = f, true
		}
	}
	return nil
}

// Present reports whether the field carried a usable number. Zero counts as
// absent so that alternate spellings get a chance.
func (s RawScore) Present() bool {
	return s.set && s.value != 0
}

// Clamped returns the normalized value, NeutralScore when unset.
func (s RawScore) Clamped() float64 {
	if !s.set {
		return NeutralScore
	}
	return Clamp(s.value)
}

// RawText is an untrusted free-text field; non-string values are ignored.
type RawText string

func (t *RawText) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err == nil {
		*t = RawText(str)
	}
	return nil
}

// RawAnalysisPayload mirrors whatever object the classifier returned. Every
// field is optional and both camelCase and snake_case spellings are accepted.
type RawAnalysisPayload struct {
	Overall          RawScore `json:"overall"`
	Potential        RawScore `json:"potential"`
	Masculinity      RawScore `json:"masculinity"`
	SkinQuality      RawScore `json:"skinQuality"`
	SkinQualitySnake RawScore `json:"skin_quality"`
	Jawline          RawScore `json:"jawline"`
	Cheekbones       RawScore `json:"cheekbones"`
	EyeArea          RawScore `json:"eyeArea"`
	EyeAreaSnake     RawScore `json:"eye_area"`
	Eyes             RawScore `json:"eyes"`
	Harmony          RawScore `json:"harmony"`

	BodyFat         RawScore `json:"bodyFat"`
	BodyFatSnake    RawScore `json:"body_fat"`
	MuscleMass      RawScore `json:"muscleMass"`
	MuscleMassSnake RawScore `json:"muscle_mass"`
	Posture         RawScore `json:"posture"`
	Proportions     RawScore `json:"proportions"`
	Shoulders       RawScore `json:"shoulders"`

	Summary RawText `json:"summary"`
}

// first picks the first present spelling, falling back to the last one so an
// explicit zero still clamps to MinScore rather than the neutral default.
func first(candidates ...RawScore) RawScore {
	for _, c := range candidates {
		if c.Present() {
			return c
		}
	}
	for i := len(candidates) - 1; i >= 0; i-- {
		if candidates[i].set {
			return candidates[i]
		}
	}
	return RawScore{}
}

func summaryOr(t RawText, fallback string) string {
	if s := strings.TrimSpace(string(t)); s != "" {
		return s
	}
	return fallback
}

// Face maps the payload onto the strict face record.
func (p RawAnalysisPayload) Face() FaceScores {
	return FaceScores{
		Overall:     p.Overall.Clamped(),
		Potential:   p.Potential.Clamped(),
		Masculinity: p.Masculinity.Clamped(),
		SkinQuality: first(p.SkinQuality, p.SkinQualitySnake).Clamped(),
		Jawline:     p.Jawline.Clamped(),
		Cheekbones:  p.Cheekbones.Clamped(),
		EyeArea:     first(p.EyeArea, p.EyeAreaSnake, p.Eyes).Clamped(),
		Harmony:     p.Harmony.Clamped(),
		Summary:     summaryOr(p.Summary, defaultSummary),
	}
}

// Body maps the payload onto the strict body record.
func (p RawAnalysisPayload) Body() BodyScores {
	return BodyScores{
		Overall:     p.Overall.Clamped(),
		BodyFat:     first(p.BodyFat, p.BodyFatSnake).Clamped(),
		MuscleMass:  first(p.MuscleMass, p.MuscleMassSnake).Clamped(),
		Posture:     p.Posture.Clamped(),
		Proportions: p.Proportions.Clamped(),
		Shoulders:   p.Shoulders.Clamped(),
		Potential:   p.Potential.Clamped(),
		Summary:     summaryOr(p.Summary, defaultSummary),
	}
}
