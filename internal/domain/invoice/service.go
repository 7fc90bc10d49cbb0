package invoice

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Service struct {
	invoices Repository
}

func NewService(invoices Repository) *Service {
	return &Service{invoices: invoices}
}

func (s *Service) validate(i *Invoice) error {
	if i.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if len(i.Items) == 0 {
		return fmt.Errorf("at least one line item is required")
	}
	for _, li := range i.Items {
		if li.Quantity <= 0 {
			return fmt.Errorf("line item quantity must be positive")
		}
		if li.UnitPrice < 0 {
			return fmt.Errorf("line item price cannot be negative")
		}
	}
	if i.TaxRate < 0 || i.TaxRate > 1 {
		return fmt.Errorf("tax rate must be between 0 and 1")
	}
	return nil
}

func (s *Service) Create(ctx context.Context, i *Invoice) error {
	if err := s.validate(i); err != nil {
		return err
	}
	if i.Status == "" {
		i.Status = StatusDraft
	}
	if !i.Status.Valid() {
		return fmt.Errorf("unknown status %q", i.Status)
	}
	i.Recalculate()
	return s.invoices.Create(ctx, i)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Invoice, error) {
	return s.invoices.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, i *Invoice) error {
	if err := s.validate(i); err != nil {
		return err
	}
	if !i.Status.Valid() {
		return fmt.Errorf("unknown status %q", i.Status)
	}
	i.Recalculate()
	return s.invoices.Update(ctx, i)
}

// SetStatus moves an invoice through its lifecycle. Paid and void are
// terminal.
func (s *Service) SetStatus(ctx context.Context, id uuid.UUID, status Status) (*Invoice, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("unknown status %q", status)
	}
	i, err := s.invoices.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if i.Status == StatusPaid || i.Status == StatusVoid {
		return nil, fmt.Errorf("invoice is %s and cannot change status", i.Status)
	}
	i.Status = status
	if err := s.invoices.Update(ctx, i); err != nil {
		return nil, err
	}
	return i, nil
}

func (s *Service) ListForPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Invoice, int, error) {
	return s.invoices.ListForPatient(ctx, patientID, limit, offset)
}

func (s *Service) List(ctx context.Context, status *Status, limit, offset int) ([]*Invoice, int, error) {
	return s.invoices.List(ctx, status, limit, offset)
}
