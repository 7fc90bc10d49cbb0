package treatment

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type Service struct {
	treatments Repository
}

func NewService(treatments Repository) *Service {
	return &Service{treatments: treatments}
}

func (s *Service) validate(t *Treatment) error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if t.DurationMinutes <= 0 {
		return fmt.Errorf("duration must be positive")
	}
	if t.Fee < 0 {
		return fmt.Errorf("fee cannot be negative")
	}
	return nil
}

func (s *Service) Create(ctx context.Context, t *Treatment) error {
	if err := s.validate(t); err != nil {
		return err
	}
	t.Active = true
	return s.treatments.Create(ctx, t)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Treatment, error) {
	return s.treatments.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, t *Treatment) error {
	if err := s.validate(t); err != nil {
		return err
	}
	return s.treatments.Update(ctx, t)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.treatments.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, activeOnly bool, limit, offset int) ([]*Treatment, int, error) {
	return s.treatments.List(ctx, activeOnly, limit, offset)
}
