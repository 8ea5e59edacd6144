package validators

import (
	"fmt"
	"strings"
	"time"
)

// UTC timestamp formats
const (
	// ISO8601 format with Z suffix
	ISO8601UTC = "2006-01-02T15:04:05Z"

	// ISO8601 with milliseconds, the shape browsers produce with Date.toISOString()
	ISO8601UTCMillis = "2006-01-02T15:04:05.000Z"
)

var acceptedFormats = []string{
	ISO8601UTCMillis,
	ISO8601UTC,
	time.RFC3339Nano,
}

// FormatTimestamp formats t as UTC ISO 8601 with milliseconds
// Always returns format: 2025-11-10T14:30:00.123Z
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(ISO8601UTCMillis)
}

// Now returns the current time as a response timestamp
func Now() string {
	return FormatTimestamp(time.Now())
}

// IsValidUTCTimestamp checks if the timestamp string is valid UTC format
// Accepts: 2025-11-10T14:30:00Z or 2025-11-10T14:30:00.123Z
func IsValidUTCTimestamp(timestamp string) bool {
	_, err := ParseUTCTimestamp(timestamp)
	return err == nil
}

// ParseUTCTimestamp parses a UTC timestamp string to time.Time
func ParseUTCTimestamp(timestamp string) (time.Time, error) {
	if timestamp == "" {
		return time.Time{}, fmt.Errorf("timestamp is required")
	}

	// Must end with 'Z' to indicate UTC
	if !strings.HasSuffix(timestamp, "Z") {
		return time.Time{}, fmt.Errorf("timestamp %q is not in UTC", timestamp)
	}

	for _, format := range acceptedFormats {
		if t, err := time.Parse(format, timestamp); err == nil {
			return t.UTC(), nil
		}
	}

	return time.Time{}, fmt.Errorf("invalid UTC timestamp format: %s", timestamp)
}
