package dentist

import (
	"time"

	"github.com/google/uuid"

	"github.com/NaveenSandaru/dentax-v1-sub001/internal/platform/schedule"
)

// Dentist maps to the dentists table. The work_* columns are the recurring
// weekly availability window the scheduler reads; they are free-form strings
// maintained through profile updates ("Monday", "09:00 AM").
type Dentist struct {
	ID                  uuid.UUID `db:"id" json:"id"`
	Name                string    `db:"name" json:"name"`
	Email               string    `db:"email" json:"email"`
	Phone               *string   `db:"phone" json:"phone,omitempty"`
	Specialization      *string   `db:"specialization" json:"specialization,omitempty"`
	WorkDaysFrom        string    `db:"work_days_from" json:"work_days_from"`
	WorkDaysTo          string    `db:"work_days_to" json:"work_days_to"`
	WorkTimeFrom        string    `db:"work_time_from" json:"work_time_from"`
	WorkTimeTo          string    `db:"work_time_to" json:"work_time_to"`
	AppointmentDuration string    `db:"appointment_duration" json:"appointment_duration"`
	AppointmentFee      float64   `db:"appointment_fee" json:"appointment_fee"`
	Active              bool      `db:"active" json:"active"`
	CreatedAt           time.Time `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time `db:"updated_at" json:"updated_at"`
}

// Schedule returns the dentist's weekly window as a value object for the
// slot computation.
func (d *Dentist) Schedule() schedule.WorkSchedule {
	return schedule.WorkSchedule{
		WorkDayFrom: d.WorkDaysFrom,
		WorkDayTo:   d.WorkDaysTo,
		TimeFrom:    d.WorkTimeFrom,
		TimeTo:      d.WorkTimeTo,
	}
}

// DefaultSlotMinutes is the dentist's own appointment length in minutes,
// used when a booking does not name a treatment.
func (d *Dentist) DefaultSlotMinutes() int {
	return schedule.ParseDurationMinutes(d.AppointmentDuration)
}
