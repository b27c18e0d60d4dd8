package board

import (
	"strings"

	"postroom-backend/internal/forwarding/domain"
)

// StatusUnknown is the display bucket for status vocabulary the board does
// not recognize. It is never sent to the server.
const StatusUnknown domain.Status = "unknown"

// NormalizeStatus maps raw status vocabulary onto the canonical machine
// states. Older exports and partner feeds used several synonyms per state;
// anything unrecognized lands in StatusUnknown so data-quality problems stay
// visible instead of being silently folded into a default bucket.
func NormalizeStatus(raw string) domain.Status {
	key := strings.ToLower(strings.TrimSpace(raw))
	key = strings.ReplaceAll(key, "-", "_")
	key = strings.ReplaceAll(key, " ", "_")

	switch key {
	case "requested", "pending", "new":
		return domain.StatusRequested
	case "in_progress", "inprogress", "processing", "reviewed":
		return domain.StatusInProgress
	case "done", "complete", "completed", "dispatched", "delivered", "shipped":
		return domain.StatusDone
	default:
		return StatusUnknown
	}
}
