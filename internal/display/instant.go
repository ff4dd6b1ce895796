package display

import (
	"time"
)

// EpochMillis is implemented by values that identify an absolute instant as
// milliseconds since the Unix epoch.
type EpochMillis interface {
	EpochMillis() int64
}

// Layouts with an explicit zone or offset marker are honored as given.
var zonedLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05 -0700",
	"2006-01-02 15:04:05 -07:00",
}

// Layouts without zone information are interpreted as UTC.
var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// NormalizeInstant converts any accepted timestamp shape into an absolute
// time. Accepted shapes:
//   - time.Time (and *time.Time)
//   - a date-time string with an explicit zone/offset, honored as given
//   - a date-time string without a zone, interpreted as UTC
//   - integer or float epoch milliseconds
//   - any value implementing EpochMillis
//
// Returns false for nil, zero, unparseable or unrecognized input. Callers
// must treat false as "no instant", never as an error.
func NormalizeInstant(v any) (time.Time, bool) {
	switch t := v.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		if t.IsZero() {
			return time.Time{}, false
		}
		return t, true
	case *time.Time:
		if t == nil || t.IsZero() {
			return time.Time{}, false
		}
		return *t, true
	case string:
		return parseInstantString(t)
	case int64:
		return fromMillis(t)
	case int:
		return fromMillis(int64(t))
	case float64:
		return fromMillis(int64(t))
	case EpochMillis:
		return fromMillis(t.EpochMillis())
	}
	return time.Time{}, false
}

func fromMillis(ms int64) (time.Time, bool) {
	if ms <= 0 {
		return time.Time{}, false
	}
	return time.UnixMilli(ms), true
}

func parseInstantString(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
