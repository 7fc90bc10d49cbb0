package schedule

// Interval is a half-open time range [Start, End) in minutes since midnight.
// End may exceed MinutesPerDay when the range wraps past midnight.
type Interval struct {
	Start Minutes `json:"-"`
	End   Minutes `json:"-"`
}

// NewInterval builds an interval from two clock strings. The boolean reports
// whether both boundaries parsed.
func NewInterval(from, to string) (Interval, bool) {
	s, err := ParseClock(from)
	if err != nil {
		return Interval{}, false
	}
	e, err := ParseClock(to)
	if err != nil {
		return Interval{}, false
	}
	return Interval{Start: s, End: e}, true
}

// WholeDay covers an entire day; used for blocked records that carry no
// explicit time range.
var WholeDay = Interval{Start: 0, End: 23*60 + 59}

// maxSlotsPerWindow bounds GenerateSlots output so a degenerate duration can
// never produce unbounded output. A day at 15-minute granularity is 96 slots,
// well past anything a single working window yields at realistic durations.
const maxSlotsPerWindow = 50

// GenerateSlots emits the ordered sequence of fixed-duration candidate slots
// covering the working window [timeFrom, timeTo). If either boundary fails to
// parse the result is empty -- the booking UI shows "no slots" rather than an
// error. A window whose end does not exceed its start is treated as wrapping
// into the next day. Trailing partial slots are discarded, never truncated.
func GenerateSlots(timeFrom, timeTo string, durationMinutes int) []Interval {
	start, err := ParseClock(timeFrom)
	if err != nil {
		return nil
	}
	end, err := ParseClock(timeTo)
	if err != nil {
		return nil
	}
	if end <= start {
		end += MinutesPerDay
	}

	d := Minutes(durationMinutes)
	if d <= 0 {
		return nil
	}
	var slots []Interval
	for cur := start; cur+d <= end && len(slots) < maxSlotsPerWindow; cur += d {
		slots = append(slots, Interval{Start: cur, End: cur + d})
	}
	return slots
}

// Overlaps reports whether two half-open intervals intersect. Adjacent
// intervals (one ending exactly where the other starts) do not conflict.
func Overlaps(a, b Interval) bool {
	return a.Start < b.End && a.End > b.Start
}

// FilterAvailable returns the candidates that overlap none of the occupied
// intervals. Order is preserved. Both inputs are left untouched.
func FilterAvailable(candidates, occupied []Interval) []Interval {
	var free []Interval
	for _, c := range candidates {
		conflict := false
		for _, o := range occupied {
			if Overlaps(c, o) {
				conflict = true
				break
			}
		}
		if !conflict {
			free = append(free, c)
		}
	}
	return free
}
