// Package sqltime converts between time.Time and the stored
// "YYYY-MM-DD HH:MM:SS.ffffff" UTC format.
package sqltime

import (
	"fmt"
	"strings"
	"time"
)

// Layout is the on-disk timestamp format: UTC, microsecond precision (the precision of a
// PostgreSQL TIMESTAMP). Trailing zero fractions are omitted, so whole seconds stay short.
const Layout = "2006-01-02 15:04:05.999999"

// Precision is the finest unit that survives a Format/Parse round trip.
const Precision = time.Microsecond

// Truncate drops what storage cannot hold, so a value kept by the caller equals the one read back.
func Truncate(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC().Truncate(Precision)
}

// Format renders t for storage. The zero time maps to "".
func Format(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return Truncate(t).Format(Layout)
}

// Parse reads a stored timestamp back as UTC. "" maps to the zero time.
func Parse(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation(Layout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid stored timestamp %q: %w", s, err)
	}
	return t, nil
}

// ParseAny accepts ISO-8601 (with or without fractional seconds and zone), the stored
// format, or a bare date. Values without a zone are read as UTC.
func ParseAny(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999999", Layout, time.DateOnly} {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q: want ISO-8601 or %s", s, Layout)
}
