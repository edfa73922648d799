package task

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"
)

// naiveLayouts are timestamp forms carrying no offset. Values parsed from
// them are localized to the configured location.
var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

var defaultLocation atomic.Pointer[time.Location]

func init() {
	defaultLocation.Store(time.UTC)
}

// SetDefaultLocation sets the location naive timestamps are localized to.
// Called once at startup from the configured timezone.
func SetDefaultLocation(loc *time.Location) {
	if loc != nil {
		defaultLocation.Store(loc)
	}
}

// DefaultLocation returns the location used for naive timestamps.
func DefaultLocation() *time.Location {
	return defaultLocation.Load()
}

// ParseTimestamp parses an ISO timestamp, accepting both offset-carrying
// (RFC3339) and naive forms. Naive values are interpreted in the default
// location so every stored timestamp ends up timezone-aware.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}

	if ts, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return ts, nil
	}
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}

	loc := DefaultLocation()
	for _, layout := range naiveLayouts {
		if ts, err := time.ParseInLocation(layout, s, loc); err == nil {
			return ts, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// ParseDueDate parses a user-supplied due date string through the same
// normalization boundary as stored timestamps.
func ParseDueDate(s string) (time.Time, error) {
	ts, err := ParseTimestamp(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid due date: %w", err)
	}
	return ts, nil
}
