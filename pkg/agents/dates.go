package agents

import (
	"strings"
	"time"
)

// resolveDate maps a date slot to a calendar date: empty, "today" and "now"
// resolve to the current date, "yesterday" to the day before, anything else
// is parsed as an explicit ISO date. ok is false when parsing fails.
func resolveDate(raw string, now time.Time) (time.Time, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "today", "now":
		return now, true
	case "yesterday":
		return now.AddDate(0, 0, -1), true
	default:
		d, err := time.Parse("2006-01-02", strings.TrimSpace(raw))
		if err != nil {
			return time.Time{}, false
		}
		return d, true
	}
}
