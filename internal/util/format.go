package util

import "time"

var displayLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999", "2006-01-02 15:04:05", "2006-01-02"}

func parseDisplay(s string) (time.Time, bool) {
	for _, layout := range displayLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatDateHuman formats a stored timestamp or date as "Jan 2, 2006".
// Returns the original string if parsing fails.
func FormatDateHuman(s string) string {
	t, ok := parseDisplay(s)
	if !ok {
		return s
	}
	return t.Format("Jan 2, 2006")
}

// FormatDateTime formats a stored timestamp as "2006-01-02 15:04".
// Returns the original string if parsing fails.
func FormatDateTime(s string) string {
	t, ok := parseDisplay(s)
	if !ok {
		return s
	}
	return t.Format("2006-01-02 15:04")
}
