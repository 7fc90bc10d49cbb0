// Package schedule implements the appointment slot computation used across
// the booking flow: clock-time parsing, candidate slot generation from a
// dentist's working-hour window, and conflict filtering against occupied
// intervals. Everything in this package is pure computation -- callers fetch
// the data, these functions only do arithmetic on it.
package schedule

import (
	"errors"
	"strconv"
	"strings"
)

// Minutes is a clock time expressed as minutes since midnight. Values above
// 1440 are used transiently for windows that wrap past midnight.
type Minutes int

// MinutesPerDay is one full day in minutes.
const MinutesPerDay = 1440

// ErrUnparseableClock is returned when a time string yields no usable digits.
var ErrUnparseableClock = errors.New("unparseable clock time")

// ParseClock converts a free-form clock string ("9:00", "09.30 AM", "14h30",
// "5 PM") to minutes since midnight. All characters other than digits and
// colons are stripped before splitting; an AM/PM marker anywhere in the input
// is honoured case-insensitively. Hours clamp to [0,23] and minutes to [0,59].
func ParseClock(s string) (Minutes, error) {
	upper := strings.ToUpper(s)
	pm := strings.Contains(upper, "PM")
	am := strings.Contains(upper, "AM")

	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == ':' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if cleaned == "" {
		return 0, ErrUnparseableClock
	}

	parts := strings.Split(cleaned, ":")
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, ErrUnparseableClock
	}

	minute := 0
	if len(parts) > 1 && parts[1] != "" {
		// A malformed minutes field degrades to :00 rather than failing the
		// whole parse.
		if m, err := strconv.Atoi(parts[1]); err == nil {
			minute = m
		}
	}

	// 12-hour to 24-hour conversion: 12 AM is midnight, 12 PM stays noon.
	if pm && hour >= 1 && hour <= 11 {
		hour += 12
	}
	if am && hour == 12 {
		hour = 0
	}

	hour = clamp(hour, 0, 23)
	minute = clamp(minute, 0, 59)

	return Minutes(hour*60 + minute), nil
}

// Format renders the value as a 24-hour "HH:MM" string, normalising wrapped
// values back into the day.
func (m Minutes) Format() string {
	v := int(m) % MinutesPerDay
	if v < 0 {
		v += MinutesPerDay
	}
	h := v / 60
	mm := v % 60
	return pad2(h) + ":" + pad2(mm)
}

// DefaultDurationMinutes is used when a treatment's duration cannot be
// determined from its stored value.
const DefaultDurationMinutes = 30

// ParseDurationMinutes normalises a human duration description ("45 minutes",
// "1 hour", "90") to an integer minute count. Hour units multiply by 60.
// Anything that yields no positive number falls back to DefaultDurationMinutes.
func ParseDurationMinutes(s string) int {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	n, err := strconv.Atoi(b.String())
	if err != nil || n <= 0 {
		return DefaultDurationMinutes
	}

	lower := strings.ToLower(s)
	if strings.Contains(lower, "hour") || strings.Contains(lower, "hr") {
		n *= 60
	}
	return n
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func pad2(v int) string {
	if v < 10 {
		return "0" + strconv.Itoa(v)
	}
	return strconv.Itoa(v)
}
