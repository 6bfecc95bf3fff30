package helper_util

import (
	"fmt"
	"time"
)

// isoMillis matches Date.prototype.toISOString, which is what the frontend
// expects cached views to carry
const isoMillis = "2006-01-02T15:04:05.000Z"

// FormatISO renders t as an ISO-8601 UTC timestamp with millisecond precision
func FormatISO(t time.Time) string {
	return t.UTC().Format(isoMillis)
}

// Helper function to parse time
func ParseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	return t, err
}

func ParseNullableTime(value interface{}) (*time.Time, error) {
	if value == nil {
		return nil, nil
	}

	switch v := value.(type) {
	case time.Time:
		return &v, nil
	case string:
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return nil, err
		}
		return &t, nil
	default:
		return nil, fmt.Errorf("unsupported type for time parsing: %T", value)
	}
}
