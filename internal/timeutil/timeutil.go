// Package timeutil provides minute-of-day arithmetic over "HH:MM" strings.
//
// The simulation models time-of-day only: no dates, no time zones. All
// arithmetic wraps modulo 1440 minutes, so "23:50" plus 20 minutes is "00:10".
package timeutil

import (
	"errors"
	"fmt"
	"regexp"
)

// MinutesPerDay is the number of simulated minutes in one wrapped day.
const MinutesPerDay = 24 * 60

// ErrInvalidTimeFormat is returned when a string is not a 24-hour "HH:MM" time.
var ErrInvalidTimeFormat = errors.New("invalid time format")

// timePattern accepts 24-hour times with an optional leading zero on the hour,
// e.g. "9:05" and "09:05" are both valid; "25:00" and "9:5" are not.
var timePattern = regexp.MustCompile(`^([01]?[0-9]|2[0-3]):([0-5][0-9])$`)

// IsValid reports whether t is a well-formed 24-hour "HH:MM" time.
func IsValid(t string) bool {
	return timePattern.MatchString(t)
}

// MinuteOfDay parses t into its minute offset from midnight, in [0, 1440).
func MinuteOfDay(t string) (int, error) {
	m := timePattern.FindStringSubmatch(t)
	if m == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, t)
	}

	var hours, minutes int
	fmt.Sscanf(m[1], "%d", &hours)
	fmt.Sscanf(m[2], "%d", &minutes)
	return hours*60 + minutes, nil
}

// FormatMinute renders a minute-of-day value as "HH:MM". The value is
// normalized modulo 1440 first, so negative and multi-day inputs are safe.
func FormatMinute(m int) string {
	m %= MinutesPerDay
	if m < 0 {
		m += MinutesPerDay
	}
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// AddMinutes returns t advanced by n minutes with modulo-1440 wraparound.
// Multi-day rollover collapses implicitly into the same wrapped day.
func AddMinutes(t string, n int) (string, error) {
	m, err := MinuteOfDay(t)
	if err != nil {
		return "", err
	}
	return FormatMinute(m + n), nil
}

// Compare returns the sign of MinuteOfDay(t1) - MinuteOfDay(t2): negative when
// t1 is earlier in the day, zero when equal, positive when later. Inputs that
// fail to parse compare as midnight.
func Compare(t1, t2 string) int {
	m1, _ := MinuteOfDay(t1)
	m2, _ := MinuteOfDay(t2)
	switch {
	case m1 < m2:
		return -1
	case m1 > m2:
		return 1
	default:
		return 0
	}
}

// MinutesBetween returns the signed minute difference from one time to
// another, positive when to is later in the day than from.
func MinutesBetween(from, to string) (int, error) {
	m1, err := MinuteOfDay(from)
	if err != nil {
		return 0, err
	}
	m2, err := MinuteOfDay(to)
	if err != nil {
		return 0, err
	}
	return m2 - m1, nil
}

// Format12Hour converts t to a 12-hour clock display with an AM/PM suffix.
// Hours 0 and 12 both render as "12". An empty or invalid input returns "".
func Format12Hour(t string) string {
	m := timePattern.FindStringSubmatch(t)
	if m == nil {
		return ""
	}

	var hours int
	fmt.Sscanf(m[1], "%d", &hours)

	period := "AM"
	if hours >= 12 {
		period = "PM"
	}
	hours12 := hours % 12
	if hours12 == 0 {
		hours12 = 12
	}
	return fmt.Sprintf("%d:%s %s", hours12, m[2], period)
}
