package shared

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

func ParseTimestampString(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	layouts := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05.000Z",
	}
	for _, layout := range layouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts.UTC(), nil
		}
	}
	// Zone-less timestamps are wall-clock times on this host.
	if ts, err := time.ParseInLocation("2006-01-02 15:04:05", value, time.Local); err == nil {
		return ts.UTC(), nil
	}
	if n, err := strconv.ParseInt(value, 10, 64); err == nil {
		return UnixAuto(n), nil
	}
	if f, err := strconv.ParseFloat(value, 64); err == nil {
		return unixFloat(f), nil
	}
	return time.Time{}, strconv.ErrSyntax
}

// ParseTimestampValue accepts a raw JSON timestamp: an ISO-8601 string or a
// Unix epoch number in seconds, milliseconds or microseconds.
func ParseTimestampValue(raw json.RawMessage) (time.Time, bool) {
	if len(raw) == 0 {
		return time.Time{}, false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		ts, err := ParseTimestampString(s)
		return ts, err == nil
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil && f > 0 {
		return unixFloat(f), true
	}
	return time.Time{}, false
}

func UnixAuto(ts int64) time.Time {
	switch {
	case ts > 1_000_000_000_000_000:
		return time.UnixMicro(ts).UTC()
	case ts > 1_000_000_000_000:
		return time.UnixMilli(ts).UTC()
	default:
		return time.Unix(ts, 0).UTC()
	}
}

func unixFloat(f float64) time.Time {
	if f > 1_000_000_000_000 {
		return UnixAuto(int64(f))
	}
	sec := int64(f)
	nsec := int64((f - float64(sec)) * 1e9)
	return time.Unix(sec, nsec).UTC()
}
