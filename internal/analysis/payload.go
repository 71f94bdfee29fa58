package analysis

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"

	"github.com/ahmetcoskunkizilkaya/looksmax-backend/internal/scoring"
)

var ErrNoJSONObject = errors.New("no JSON object in analysis text")

// Greedy on purpose: first '{' to last '}', so code fences and chatter
// around the object are dropped.
var jsonObjectPattern = regexp.MustCompile(`(?s)\{.*\}`)

// DecodePayload finds the embedded object in the model's reply and decodes
// it into the untrusted intermediate shape.
func DecodePayload(text string) (scoring.RawAnalysisPayload, error) {
	var payload scoring.RawAnalysisPayload
	match := jsonObjectPattern.FindString(text)
	if match == "" {
		return payload, ErrNoJSONObject
	}
	if err := json.Unmarshal([]byte(match), &payload); err != nil {
		return payload, fmt.Errorf("failed to parse analysis result: %w", err)
	}
	return payload, nil
}
