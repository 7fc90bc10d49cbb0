package dentist

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type Service struct {
	dentists Repository
}

func NewService(dentists Repository) *Service {
	return &Service{dentists: dentists}
}

func (s *Service) validate(d *Dentist) error {
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if !strings.Contains(d.Email, "@") {
		return fmt.Errorf("a valid email is required")
	}
	if d.AppointmentFee < 0 {
		return fmt.Errorf("appointment fee cannot be negative")
	}
	return nil
}

func (s *Service) Create(ctx context.Context, d *Dentist) error {
	if err := s.validate(d); err != nil {
		return err
	}
	d.Active = true
	return s.dentists.Create(ctx, d)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Dentist, error) {
	return s.dentists.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, d *Dentist) error {
	if err := s.validate(d); err != nil {
		return err
	}
	return s.dentists.Update(ctx, d)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.dentists.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, activeOnly bool, limit, offset int) ([]*Dentist, int, error) {
	return s.dentists.List(ctx, activeOnly, limit, offset)
}
