package invoice

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusDraft  Status = "draft"
	StatusIssued Status = "issued"
	StatusPaid   Status = "paid"
	StatusVoid   Status = "void"
)

func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusIssued, StatusPaid, StatusVoid:
		return true
	}
	return false
}

// LineItem is one billed row; Amount is always Quantity * UnitPrice,
// recomputed server-side.
type LineItem struct {
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Amount      float64 `json:"amount"`
}

// Invoice totals are derived from Items on every write; clients cannot
// submit their own totals.
type Invoice struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	PatientID     uuid.UUID  `db:"patient_id" json:"patient_id"`
	AppointmentID *uuid.UUID `db:"appointment_id" json:"appointment_id,omitempty"`
	Items         []LineItem `db:"items" json:"items"`
	Subtotal      float64    `db:"subtotal" json:"subtotal"`
	TaxRate       float64    `db:"tax_rate" json:"tax_rate"`
	TaxAmount     float64    `db:"tax_amount" json:"tax_amount"`
	Total         float64    `db:"total" json:"total"`
	Status        Status     `db:"status" json:"status"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
}

// Recalculate rewrites the per-line amounts and the invoice totals.
func (i *Invoice) Recalculate() {
	i.Subtotal = 0
	for idx := range i.Items {
		li := &i.Items[idx]
		li.Amount = float64(li.Quantity) * li.UnitPrice
		i.Subtotal += li.Amount
	}
	i.TaxAmount = i.Subtotal * i.TaxRate
	i.Total = i.Subtotal + i.TaxAmount
}
