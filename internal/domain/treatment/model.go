package treatment

import (
	"time"

	"github.com/google/uuid"
)

// Treatment is a billable service the clinic offers. DurationMinutes
// overrides the dentist's default appointment length when a booking
// names a treatment.
type Treatment struct {
	ID              uuid.UUID `db:"id" json:"id"`
	Name            string    `db:"name" json:"name"`
	Description     *string   `db:"description" json:"description,omitempty"`
	DurationMinutes int       `db:"duration_minutes" json:"duration_minutes"`
	Fee             float64   `db:"fee" json:"fee"`
	Active          bool      `db:"active" json:"active"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}
