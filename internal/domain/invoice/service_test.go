package invoice

import (
	"context"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
)

type mockRepo struct {
	invoices map[uuid.UUID]*Invoice
}

func newMockRepo() *mockRepo {
	return &mockRepo{invoices: make(map[uuid.UUID]*Invoice)}
}

func (m *mockRepo) Create(_ context.Context, i *Invoice) error {
	i.ID = uuid.New()
	i.CreatedAt = time.Now()
	i.UpdatedAt = time.Now()
	m.invoices[i.ID] = i
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Invoice, error) {
	i, ok := m.invoices[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return i, nil
}

func (m *mockRepo) Update(_ context.Context, i *Invoice) error {
	m.invoices[i.ID] = i
	return nil
}

func (m *mockRepo) ListForPatient(_ context.Context, patientID uuid.UUID, _, _ int) ([]*Invoice, int, error) {
	var out []*Invoice
	for _, i := range m.invoices {
		if i.PatientID == patientID {
			out = append(out, i)
		}
	}
	return out, len(out), nil
}

func (m *mockRepo) List(_ context.Context, status *Status, _, _ int) ([]*Invoice, int, error) {
	var out []*Invoice
	for _, i := range m.invoices {
		if status != nil && i.Status != *status {
			continue
		}
		out = append(out, i)
	}
	return out, len(out), nil
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestCreateInvoiceComputesTotals(t *testing.T) {
	svc := NewService(newMockRepo())
	ctx := context.Background()

	inv := &Invoice{
		PatientID: uuid.New(),
		TaxRate:   0.1,
		Items: []LineItem{
			{Description: "Cleaning", Quantity: 1, UnitPrice: 5000},
			{Description: "X-Ray", Quantity: 2, UnitPrice: 1500, Amount: 999}, // client amount ignored
		},
	}
	if err := svc.Create(ctx, inv); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if !almostEqual(inv.Subtotal, 8000) {
		t.Errorf("Subtotal = %v, want 8000", inv.Subtotal)
	}
	if !almostEqual(inv.TaxAmount, 800) {
		t.Errorf("TaxAmount = %v, want 800", inv.TaxAmount)
	}
	if !almostEqual(inv.Total, 8800) {
		t.Errorf("Total = %v, want 8800", inv.Total)
	}
	if !almostEqual(inv.Items[1].Amount, 3000) {
		t.Errorf("line amount = %v, want 3000", inv.Items[1].Amount)
	}
	if inv.Status != StatusDraft {
		t.Errorf("Status = %q, want draft", inv.Status)
	}
}

func TestCreateInvoiceValidation(t *testing.T) {
	svc := NewService(newMockRepo())
	ctx := context.Background()

	cases := []struct {
		name string
		in   *Invoice
	}{
		{"missing patient", &Invoice{Items: []LineItem{{Description: "x", Quantity: 1}}}},
		{"no items", &Invoice{PatientID: uuid.New()}},
		{"zero quantity", &Invoice{PatientID: uuid.New(), Items: []LineItem{{Quantity: 0}}}},
		{"negative price", &Invoice{PatientID: uuid.New(), Items: []LineItem{{Quantity: 1, UnitPrice: -1}}}},
		{"bad tax rate", &Invoice{PatientID: uuid.New(), TaxRate: 1.5, Items: []LineItem{{Quantity: 1}}}},
	}
	for _, tc := range cases {
		if err := svc.Create(ctx, tc.in); err == nil {
			t.Errorf("%s: expected validation error", tc.name)
		}
	}
}

func TestInvoiceStatusLifecycle(t *testing.T) {
	svc := NewService(newMockRepo())
	ctx := context.Background()

	inv := &Invoice{
		PatientID: uuid.New(),
		Items:     []LineItem{{Description: "Filling", Quantity: 1, UnitPrice: 7500}},
	}
	if err := svc.Create(ctx, inv); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.SetStatus(ctx, inv.ID, StatusIssued); err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := svc.SetStatus(ctx, inv.ID, StatusPaid); err != nil {
		t.Fatalf("pay: %v", err)
	}
	if _, err := svc.SetStatus(ctx, inv.ID, StatusVoid); err == nil {
		t.Error("paid invoice must not change status")
	}
}
