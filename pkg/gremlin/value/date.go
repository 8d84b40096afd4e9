package value

import (
	"fmt"
	"time"

	"github.com/go-openapi/strfmt"
)

// Layouts tried after RFC 3339 parsing fails. Values without a zone are UTC.
var dateFallbacks = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseDate parses the ISO-8601 argument of a datetime(...) literal.
func ParseDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, fmt.Errorf("empty datetime")
	}
	if dt, err := strfmt.ParseDateTime(raw); err == nil {
		return time.Time(dt).UTC(), nil
	}
	for _, layout := range dateFallbacks {
		if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid datetime %q", raw)
}

// EpochMillis parses raw like ParseDate and returns milliseconds since the
// Unix epoch.
func EpochMillis(raw string) (int64, error) {
	t, err := ParseDate(raw)
	if err != nil {
		return 0, err
	}
	return t.UnixMilli(), nil
}
