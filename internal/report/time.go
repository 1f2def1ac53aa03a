package report

import "time"

// FormatTimestamp returns a RFC3339 UTC timestamp string.
func FormatTimestamp() string {
	return FormatTime(time.Now())
}

// FormatTime renders t as RFC3339 UTC with sub-second precision, or "" for
// the zero time.
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}
