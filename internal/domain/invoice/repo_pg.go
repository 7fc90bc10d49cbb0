package invoice

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/NaveenSandaru/dentax-v1-sub001/internal/platform/db"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) db.Queryable {
	if q := db.ConnFromContext(ctx); q != nil {
		return q
	}
	return r.pool
}

const invoiceCols = `id, patient_id, appointment_id, items, subtotal, tax_rate,
	tax_amount, total, status, created_at, updated_at`

func scanInvoice(row pgx.Row) (*Invoice, error) {
	var i Invoice
	var items []byte
	err := row.Scan(&i.ID, &i.PatientID, &i.AppointmentID, &items, &i.Subtotal,
		&i.TaxRate, &i.TaxAmount, &i.Total, &i.Status, &i.CreatedAt, &i.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(items, &i.Items); err != nil {
		return nil, fmt.Errorf("decode invoice items: %w", err)
	}
	return &i, nil
}

func (r *repoPG) Create(ctx context.Context, i *Invoice) error {
	i.ID = uuid.New()
	items, err := json.Marshal(i.Items)
	if err != nil {
		return fmt.Errorf("encode invoice items: %w", err)
	}
	_, err = r.conn(ctx).Exec(ctx, `
		INSERT INTO invoices (id, patient_id, appointment_id, items, subtotal,
			tax_rate, tax_amount, total, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		i.ID, i.PatientID, i.AppointmentID, items, i.Subtotal,
		i.TaxRate, i.TaxAmount, i.Total, i.Status)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Invoice, error) {
	return scanInvoice(r.conn(ctx).QueryRow(ctx,
		`SELECT `+invoiceCols+` FROM invoices WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, i *Invoice) error {
	items, err := json.Marshal(i.Items)
	if err != nil {
		return fmt.Errorf("encode invoice items: %w", err)
	}
	_, err = r.conn(ctx).Exec(ctx, `
		UPDATE invoices SET items=$2, subtotal=$3, tax_rate=$4, tax_amount=$5,
			total=$6, status=$7, updated_at=NOW()
		WHERE id = $1`,
		i.ID, items, i.Subtotal, i.TaxRate, i.TaxAmount, i.Total, i.Status)
	return err
}

func (r *repoPG) ListForPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Invoice, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM invoices WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+invoiceCols+` FROM invoices
		WHERE patient_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`,
		patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items, err := collectInvoices(rows)
	return items, total, err
}

func (r *repoPG) List(ctx context.Context, status *Status, limit, offset int) ([]*Invoice, int, error) {
	where := ` WHERE ($1::text IS NULL OR status = $1)`

	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM invoices`+where, status).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+invoiceCols+` FROM invoices`+where+`
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`,
		status, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items, err := collectInvoices(rows)
	return items, total, err
}

func collectInvoices(rows pgx.Rows) ([]*Invoice, error) {
	var items []*Invoice
	for rows.Next() {
		i, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}
