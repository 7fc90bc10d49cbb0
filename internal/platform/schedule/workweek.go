package schedule

import (
	"strings"
	"time"
)

// WorkSchedule is a dentist's recurring weekly availability window, stored on
// the profile as free-form weekday names and clock strings. The scheduler only
// reads it; profile updates own the writes.
type WorkSchedule struct {
	WorkDayFrom string `json:"work_days_from"`
	WorkDayTo   string `json:"work_days_to"`
	TimeFrom    string `json:"work_time_from"`
	TimeTo      string `json:"work_time_to"`
}

// Monday-first week, matching how clinic schedules are written ("Mon to Fri",
// "Saturday to Monday").
var weekdayIndex = map[string]int{
	"monday":    0,
	"tuesday":   1,
	"wednesday": 2,
	"thursday":  3,
	"friday":    4,
	"saturday":  5,
	"sunday":    6,
}

func dayIndex(name string) (int, bool) {
	idx, ok := weekdayIndex[strings.ToLower(strings.TrimSpace(name))]
	return idx, ok
}

// IsWorkingDay reports whether date falls inside the schedule's weekday range.
// A range whose end precedes its start wraps across the week boundary
// (Saturday to Monday covers Sat, Sun, Mon). The second return value reports
// whether both configured weekday names resolved; when it is false the first
// value is true -- the policy is to fail open and let the caller warn rather
// than silently refuse bookings over a typo in the profile.
func IsWorkingDay(date time.Time, ws WorkSchedule) (working, resolved bool) {
	from, okFrom := dayIndex(ws.WorkDayFrom)
	to, okTo := dayIndex(ws.WorkDayTo)
	if !okFrom || !okTo {
		return true, false
	}

	// time.Weekday is Sunday-first; shift to Monday-first.
	target := (int(date.Weekday()) + 6) % 7

	if from <= to {
		return from <= target && target <= to, true
	}
	return target >= from || target <= to, true
}
