package domain

import (
	"fmt"
	"time"
)

// TimestampLayout is the storage format for every timestamp column:
// UTC, second precision, trailing Z.
const TimestampLayout = "2006-01-02 15:04:05Z"

// NormalizeTimestamp converts a user-supplied timestamp to the storage format.
// Accepts the literal "now", RFC 3339, or an already-normalized value.
// Zone-less inputs are interpreted as local time.
func NormalizeTimestamp(value string) (string, error) {
	if value == "now" {
		return Now(), nil
	}
	// RFC 3339 carries its own zone; the storage layout's Z means UTC.
	if ts, err := time.Parse(time.RFC3339, value); err == nil {
		return ts.UTC().Format(TimestampLayout), nil
	}
	if ts, err := time.ParseInLocation(TimestampLayout, value, time.UTC); err == nil {
		return ts.Format(TimestampLayout), nil
	}
	for _, layout := range []string{"2006-01-02 15:04:05", "2006-01-02T15:04:05"} {
		ts, err := time.ParseInLocation(layout, value, time.Local)
		if err == nil {
			return ts.UTC().Format(TimestampLayout), nil
		}
	}
	return "", fmt.Errorf("%w: %q is not a recognized timestamp", ErrValidation, value)
}

// Now returns the current time in the storage format.
func Now() string {
	return time.Now().UTC().Truncate(time.Second).Format(TimestampLayout)
}
