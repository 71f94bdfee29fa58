package analysis

import (
	"fmt"

	"github.com/ahmetcoskunkizilkaya/looksmax-backend/internal/scoring"
)

const facePrompt = `[Request ID: %s] You are an expert facial aesthetics analyst. Carefully analyze this specific face photo and provide accurate personalized ratings from 1-10 for each category.

CRITICAL: This is a unique face - give it unique scores based on what you actually see. Do NOT give generic scores.

IMPORTANT: Respond ONLY with a valid JSON object in this exact format, no other text:
{
  "overall": <number between 1.0-10.0 with one decimal>,
  "potential": <number between 1.0-10.0 with one decimal>,
  "masculinity": <number between 1.0-10.0 with one decimal>,
  "skinQuality": <number between 1.0-10.0 with one decimal>,
  "jawline": <number between 1.0-10.0 with one decimal>,
  "cheekbones": <number between 1.0-10.0 with one decimal>,
  "eyeArea": <number between 1.0-10.0 with one decimal>,
  "harmony": <number between 1.0-10.0 with one decimal>,
  "summary": "<specific 2-3 sentence analysis mentioning actual features you observe>"
}

Rating Guidelines:
- Overall: General facial attractiveness (be honest, use full 1-10 range)
- Potential: What they could achieve with improvements (usually higher than overall)
- Masculinity: Masculine features (strong jaw, brow ridge, facial width)
- Skin Quality: Clarity, texture, evenness, acne, pores
- Jawline: Definition, angularity, width
- Cheekbones: Prominence, height, definition
- Eye Area: Shape, canthal tilt, eye spacing, under-eye
- Harmony: Overall facial proportions and symmetry

Be specific and honest. Scores should vary based on actual facial features.`

const sideProfileNote = `
A second photo shows the side profile of the same person; use it for jawline and harmony.`

const bodyPrompt = `[Request ID: %s] You are an expert body composition analyst. Analyze this body photo and provide ratings from 1-10.

IMPORTANT: Respond ONLY with a valid JSON object:
{
  "overall": <number 1-10>,
  "bodyFat": <number 1-10 where 10 is optimal low bf>,
  "muscleMass": <number 1-10>,
  "posture": <number 1-10>,
  "proportions": <number 1-10>,
  "shoulders": <number 1-10>,
  "potential": <number 1-10>,
  "summary": "<brief analysis>"
}

Be realistic but encouraging.`

// BuildPrompt returns the instruction text for one analysis call. The request
// id is embedded so repeated uploads of the same photo are not served a
// cached answer by the vendor.
func BuildPrompt(variant scoring.Variant, requestID string, withSide bool) string {
	if variant == scoring.VariantBody {
		return fmt.Sprintf(bodyPrompt, requestID)
	}
	prompt := fmt.Sprintf(facePrompt, requestID)
	if withSide {
		prompt += sideProfileNote
	}
	return prompt
}
