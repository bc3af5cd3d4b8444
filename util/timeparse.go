package util

import (
	"fmt"
	"strings"
	"time"
)

const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04:05"
)

// ParseDate parses a YYYY-MM-DD string as midnight UTC.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.UTC)
}

// ParseDateTime parses a YYYY-MM-DD HH:MM:SS string in UTC.
func ParseDateTime(s string) (time.Time, error) {
	return time.ParseInLocation(DateTimeLayout, strings.TrimSpace(s), time.UTC)
}

// ParseTimeBound accepts either a date or a date-time and reports which one
// it got, so callers can widen a date-only upper bound to the whole day.
func ParseTimeBound(s string) (t time.Time, dateOnly bool, err error) {
	s = strings.TrimSpace(s)
	if t, err = ParseDateTime(s); err == nil {
		return t, false, nil
	}
	if t, err = ParseDate(s); err == nil {
		return t, true, nil
	}
	return time.Time{}, false, fmt.Errorf("%q is not YYYY-MM-DD or YYYY-MM-DD HH:MM:SS", s)
}

// FormatDateTime renders t the way every report prints post times.
func FormatDateTime(t time.Time) string {
	return t.UTC().Format(DateTimeLayout)
}
