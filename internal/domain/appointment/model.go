package appointment

import (
	"time"

	"github.com/google/uuid"

	"github.com/NaveenSandaru/dentax-v1-sub001/internal/platform/schedule"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusNoShow    Status = "noshow"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// Appointment stores both the clock strings the client sent and the
// derived minute offsets. The minute columns are what the conflict
// queries and the exclusion constraint operate on.
type Appointment struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	DentistID   uuid.UUID  `db:"dentist_id" json:"dentist_id"`
	PatientID   uuid.UUID  `db:"patient_id" json:"patient_id"`
	TreatmentID *uuid.UUID `db:"treatment_id" json:"treatment_id,omitempty"`
	Date        time.Time  `db:"date" json:"date"`
	TimeFrom    string     `db:"time_from" json:"time_from"`
	TimeTo      string     `db:"time_to" json:"time_to"`
	StartMinute int        `db:"start_minute" json:"start_minute"`
	EndMinute   int        `db:"end_minute" json:"end_minute"`
	Status      Status     `db:"status" json:"status"`
	Note        *string    `db:"note" json:"note,omitempty"`
	Fee         float64    `db:"fee" json:"fee"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

func (a *Appointment) Interval() schedule.Interval {
	return schedule.Interval{
		Start: schedule.Minutes(a.StartMinute),
		End:   schedule.Minutes(a.EndMinute),
	}
}

// BlockedSlot is a period a dentist is unavailable outside of booked
// appointments. Both times nil means the whole day is blocked.
type BlockedSlot struct {
	ID        uuid.UUID `db:"id" json:"id"`
	DentistID uuid.UUID `db:"dentist_id" json:"dentist_id"`
	Date      time.Time `db:"date" json:"date"`
	TimeFrom  *string   `db:"time_from" json:"time_from,omitempty"`
	TimeTo    *string   `db:"time_to" json:"time_to,omitempty"`
	Reason    *string   `db:"reason" json:"reason,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Interval resolves the blocked period to minutes. Missing or
// unparseable bounds widen to the whole day rather than silently
// freeing time, and a range ending at or before its start wraps into
// the next day like any other clock window.
func (b *BlockedSlot) Interval() schedule.Interval {
	if b.TimeFrom == nil || b.TimeTo == nil {
		return schedule.WholeDay
	}
	iv, ok := schedule.NewInterval(*b.TimeFrom, *b.TimeTo)
	if !ok {
		return schedule.WholeDay
	}
	if iv.End <= iv.Start {
		iv.End += schedule.MinutesPerDay
	}
	return iv
}
