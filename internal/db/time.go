package db

import "time"

// TimeLayout is the canonical storage format for timestamps (UTC).
const TimeLayout = "2006-01-02 15:04:05"

// ParseTime tries multiple SQLite timestamp layouts.
// go-sqlite3 may return RFC3339 or the plain "2006-01-02 15:04:05" format
// depending on the connection string and platform.
func ParseTime(s string) time.Time {
	layouts := []string{
		time.RFC3339,
		"2006-01-02T15:04:05Z",
		TimeLayout,
		"2006-01-02T15:04:05",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
