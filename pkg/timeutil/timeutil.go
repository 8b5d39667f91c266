// Package timeutil converts between the two calendar-date forms used by the
// service (display DD/MM/YYYY and canonical YYYY-MM-DD) and between 24-hour
// and 12-hour clock strings. Conversions are strict: malformed input is an
// error, never a silently defaulted value.
package timeutil

import (
	"errors"
	"fmt"
	"time"
)

const (
	// DisplayDateLayout is the user-facing form, day first.
	DisplayDateLayout = "02/01/2006"
	// CanonicalDateLayout is the storage form used as the Date field of
	// persisted appointments.
	CanonicalDateLayout = "2006-01-02"
	// ClockLayout is the 24-hour slot boundary form.
	ClockLayout = "15:04"
)

var (
	ErrInvalidDate = errors.New("invalid date format")
	ErrInvalidTime = errors.New("invalid time format")
)

// ToCanonicalDate converts DD/MM/YYYY to YYYY-MM-DD.
func ToCanonicalDate(display string) (string, error) {
	t, err := time.Parse(DisplayDateLayout, display)
	if err != nil {
		return "", fmt.Errorf("%w: %q is not DD/MM/YYYY", ErrInvalidDate, display)
	}
	return t.Format(CanonicalDateLayout), nil
}

// ToDisplayDate converts YYYY-MM-DD to DD/MM/YYYY.
func ToDisplayDate(canonical string) (string, error) {
	t, err := time.Parse(CanonicalDateLayout, canonical)
	if err != nil {
		return "", fmt.Errorf("%w: %q is not YYYY-MM-DD", ErrInvalidDate, canonical)
	}
	return t.Format(DisplayDateLayout), nil
}

// IsCanonicalDate reports whether s is a well-formed YYYY-MM-DD date.
func IsCanonicalDate(s string) bool {
	_, err := time.Parse(CanonicalDateLayout, s)
	return err == nil
}

// NormalizeDate accepts either date form and returns the canonical one.
func NormalizeDate(s string) (string, error) {
	if IsCanonicalDate(s) {
		return s, nil
	}
	return ToCanonicalDate(s)
}

// TodayDisplay returns today's date in display form, anchored to the local
// clock.
func TodayDisplay() string {
	return time.Now().Format(DisplayDateLayout)
}

// TomorrowDisplay returns tomorrow's date in display form.
func TomorrowDisplay() string {
	return time.Now().AddDate(0, 0, 1).Format(DisplayDateLayout)
}

// ParseClock parses an HH:MM 24-hour string into minutes since midnight.
func ParseClock(s string) (int, error) {
	t, err := time.Parse(ClockLayout, s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not HH:MM", ErrInvalidTime, s)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// FormatClock renders minutes since midnight as a zero-padded HH:MM string.
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// Format12Hour converts a 24-hour HH:MM string to H:MM AM/PM.
// 00:MM maps to 12:MM AM and 12:MM maps to 12:MM PM.
func Format12Hour(clock string) (string, error) {
	minutes, err := ParseClock(clock)
	if err != nil {
		return "", err
	}

	hour := minutes / 60
	minute := minutes % 60

	period := "AM"
	if hour >= 12 {
		period = "PM"
	}

	hour12 := hour % 12
	if hour12 == 0 {
		hour12 = 12
	}

	return fmt.Sprintf("%d:%02d %s", hour12, minute, period), nil
}
