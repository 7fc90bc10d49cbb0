package dentist

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, d *Dentist) error
	GetByID(ctx context.Context, id uuid.UUID) (*Dentist, error)
	Update(ctx context.Context, d *Dentist) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, activeOnly bool, limit, offset int) ([]*Dentist, int, error)
}
