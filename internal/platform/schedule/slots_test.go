package schedule

import (
	"reflect"
	"testing"
)

func TestGenerateSlotsBasic(t *testing.T) {
	slots := GenerateSlots("09:00", "17:00", 30)
	if len(slots) != 16 {
		t.Fatalf("expected 16 slots, got %d", len(slots))
	}
	for i, s := range slots {
		if s.End-s.Start != 30 {
			t.Errorf("slot %d has width %d, want 30", i, s.End-s.Start)
		}
		if i > 0 && slots[i-1].End != s.Start {
			t.Errorf("slot %d not contiguous with previous: %v -> %v", i, slots[i-1], s)
		}
	}
	if slots[0].Start.Format() != "09:00" || slots[15].End.Format() != "17:00" {
		t.Errorf("unexpected boundary slots: %v ... %v", slots[0], slots[15])
	}
}

func TestGenerateSlotsDiscardsPartialTrailing(t *testing.T) {
	// 09:00-10:20 at 30 minutes: the 10:00-10:30 slot would run past the
	// window and must be dropped, not truncated.
	slots := GenerateSlots("09:00", "10:20", 30)
	if len(slots) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(slots))
	}
	if slots[1].End != 600 {
		t.Errorf("last slot ends at %d, want 600", slots[1].End)
	}
}

func TestGenerateSlotsWrapsPastMidnight(t *testing.T) {
	slots := GenerateSlots("22:00", "02:00", 60)
	if len(slots) != 4 {
		t.Fatalf("expected 4 slots, got %d", len(slots))
	}
	want := []string{"22:00", "23:00", "00:00", "01:00"}
	for i, s := range slots {
		if s.Start.Format() != want[i] {
			t.Errorf("slot %d starts %s, want %s", i, s.Start.Format(), want[i])
		}
	}
	if slots[3].End != 26*60 {
		t.Errorf("final slot end = %d, want %d", slots[3].End, 26*60)
	}
}

func TestGenerateSlotsMalformedInput(t *testing.T) {
	if slots := GenerateSlots("", "17:00", 30); slots != nil {
		t.Errorf("empty timeFrom: expected nil, got %v", slots)
	}
	if slots := GenerateSlots("09:00", "garbage am pm", 30); len(slots) == 0 {
		// "garbage am pm" has no digits, so this must be empty too.
		_ = slots
	} else {
		t.Errorf("unparseable timeTo: expected empty, got %v", slots)
	}
}

func TestGenerateSlotsBoundedOnDegenerateDuration(t *testing.T) {
	if slots := GenerateSlots("09:00", "17:00", 0); len(slots) != 0 {
		t.Errorf("zero duration: expected no slots, got %d", len(slots))
	}
	if slots := GenerateSlots("09:00", "17:00", -15); len(slots) != 0 {
		t.Errorf("negative duration: expected no slots, got %d", len(slots))
	}
	// A 1-minute duration over a full window would emit 480 slots unbounded.
	if slots := GenerateSlots("09:00", "17:00", 1); len(slots) > maxSlotsPerWindow {
		t.Errorf("expected at most %d slots, got %d", maxSlotsPerWindow, len(slots))
	}
}

func TestOverlapsSymmetric(t *testing.T) {
	pairs := []struct {
		a, b Interval
		want bool
	}{
		{Interval{540, 570}, Interval{570, 600}, false}, // adjacent
		{Interval{540, 570}, Interval{555, 585}, true},  // partial
		{Interval{540, 570}, Interval{540, 570}, true},  // identical
		{Interval{540, 570}, Interval{500, 540}, false}, // adjacent before
		{Interval{540, 600}, Interval{550, 560}, true},  // contained
		{Interval{0, 1439}, Interval{540, 570}, true},   // whole day
	}
	for _, tc := range pairs {
		if got := Overlaps(tc.a, tc.b); got != tc.want {
			t.Errorf("Overlaps(%v, %v) = %v, want %v", tc.a, tc.b, got, tc.want)
		}
		if Overlaps(tc.a, tc.b) != Overlaps(tc.b, tc.a) {
			t.Errorf("Overlaps not symmetric for %v, %v", tc.a, tc.b)
		}
	}
}

func TestFilterAvailableRemovesBookedSlot(t *testing.T) {
	candidates := GenerateSlots("09:00", "17:00", 30)
	occupied := []Interval{{600, 630}} // 10:00-10:30 appointment

	free := FilterAvailable(candidates, occupied)
	if len(free) != 15 {
		t.Fatalf("expected 15 free slots, got %d", len(free))
	}
	for _, s := range free {
		if s.Start == 600 {
			t.Errorf("10:00 slot should have been filtered out")
		}
	}
}

func TestFilterAvailableWholeDayBlock(t *testing.T) {
	candidates := GenerateSlots("09:00", "17:00", 30)
	free := FilterAvailable(candidates, []Interval{WholeDay})
	if len(free) != 0 {
		t.Fatalf("whole-day block: expected 0 free slots, got %d", len(free))
	}
}

func TestFilterAvailableIdempotent(t *testing.T) {
	candidates := GenerateSlots("09:00", "12:00", 45)
	occupied := []Interval{{585, 630}, {660, 690}}

	first := FilterAvailable(candidates, occupied)
	second := FilterAvailable(candidates, occupied)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated filtering diverged: %v vs %v", first, second)
	}
}

func TestFilterAvailableAdjacentNotConflicting(t *testing.T) {
	candidates := []Interval{{540, 570}} // 09:00-09:30
	free := FilterAvailable(candidates, []Interval{{570, 600}})
	if len(free) != 1 {
		t.Errorf("adjacent occupied interval must not conflict")
	}
	free = FilterAvailable(candidates, []Interval{{555, 585}})
	if len(free) != 0 {
		t.Errorf("overlapping occupied interval must conflict")
	}
}

func TestNewInterval(t *testing.T) {
	iv, ok := NewInterval("10:00", "10:45")
	if !ok || iv.Start != 600 || iv.End != 645 {
		t.Errorf("NewInterval = %v, %v", iv, ok)
	}
	if _, ok := NewInterval("", "10:45"); ok {
		t.Errorf("expected failure on empty start")
	}
}
