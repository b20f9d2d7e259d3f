package history

import (
	"fmt"
	"strings"
	"time"
)

// naiveLayouts are accepted for records written without a zone offset.
// They are interpreted in local time.
var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseTimestamp accepts RFC 3339 timestamps and naive ISO 8601 timestamps
// with optional fractional seconds.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}

// FormatTimestamp renders t the way both backends store it.
func FormatTimestamp(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}
