package handlers

import (
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ahmetcoskunkizilkaya/looksmax-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/looksmax-backend/internal/profile"
)

// premium reports whether the device's subscription is live right now.
func premium(c *fiber.Ctx, store *profile.Store) bool {
	return store.GetPremiumStatus(c.UserContext()).Active(time.Now())
}

// scoresView returns full when unlocked, otherwise only the headline scores.
func scoresView(unlocked bool, full any, overall, potential float64) (locked bool, results any) {
	if unlocked {
		return false, full
	}
	return true, dto.ScorePreview{Overall: overall, Potential: potential}
}

// previewHistory strips every entry down to its headline scores.
func previewHistory(entries []profile.HistoryEntry) []profile.HistoryEntry {
	out := make([]profile.HistoryEntry, 0, len(entries))
	for _, e := range entries {
		var p dto.ScorePreview
		// Unreadable blobs still leave a zeroed preview rather than the raw data.
		_ = json.Unmarshal(e.Results, &p)
		e.Results, _ = json.Marshal(p)
		out = append(out, e)
	}
	return out
}
