package dbx

import (
	"database/sql"
	"fmt"
	"time"
)

// Timestamps are stored as RFC3339 text in UTC with fixed-width nanosecond
// digits, so that lexicographic comparison in SQL matches chronological
// order. STRICT tables reject implicit coercion, so the conversion is always
// explicit.

// TimeLayout is the storage layout for timestamps.
const TimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// FormatTime renders t for storage.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// ParseTime reads a stored timestamp back.
func ParseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse stored timestamp %q: %w", s, err)
	}
	return t, nil
}

// NullTimeArg converts an optional time into an exec argument (NULL for nil).
func NullTimeArg(t *time.Time) any {
	if t == nil {
		return nil
	}
	return FormatTime(*t)
}

// NullStringArg converts an optional string into an exec argument.
func NullStringArg(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

// ScanNullTime converts a scanned nullable column into an optional time.
func ScanNullTime(s sql.NullString) (*time.Time, error) {
	if !s.Valid {
		return nil, nil
	}
	t, err := ParseTime(s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ScanNullString converts a scanned nullable column into an optional string.
func ScanNullString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}
