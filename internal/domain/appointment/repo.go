package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error
	// ListForDentistDate returns the appointments that occupy time on the
	// given day, i.e. everything not cancelled.
	ListForDentistDate(ctx context.Context, dentistID uuid.UUID, date time.Time) ([]*Appointment, error)
	ListForPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Appointment, int, error)
	List(ctx context.Context, dentistID *uuid.UUID, from, to *time.Time, limit, offset int) ([]*Appointment, int, error)
	// LockDentistDay takes a transaction-scoped advisory lock serializing
	// bookings against the same dentist and day. Must be called inside a
	// transaction.
	LockDentistDay(ctx context.Context, dentistID uuid.UUID, date time.Time) error
}

type BlockedSlotRepository interface {
	Create(ctx context.Context, b *BlockedSlot) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListForDentistDate(ctx context.Context, dentistID uuid.UUID, date time.Time) ([]*BlockedSlot, error)
}

// TxRunner runs fn inside a database transaction whose connection is
// carried in the context, so repository calls made by fn share it.
type TxRunner interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}
