package dentist

import (
	"context"

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

const dentistCols = `id, name, email, phone, specialization, work_days_from,
	work_days_to, work_time_from, work_time_to, appointment_duration,
	appointment_fee, active, created_at, updated_at`

func scanDentist(row pgx.Row) (*Dentist, error) {
	var d Dentist
	err := row.Scan(&d.ID, &d.Name, &d.Email, &d.Phone, &d.Specialization,
		&d.WorkDaysFrom, &d.WorkDaysTo, &d.WorkTimeFrom, &d.WorkTimeTo,
		&d.AppointmentDuration, &d.AppointmentFee, &d.Active,
		&d.CreatedAt, &d.UpdatedAt)
	return &d, err
}

func (r *repoPG) Create(ctx context.Context, d *Dentist) error {
	d.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO dentists (id, name, email, phone, specialization,
			work_days_from, work_days_to, work_time_from, work_time_to,
			appointment_duration, appointment_fee, active)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		d.ID, d.Name, d.Email, d.Phone, d.Specialization,
		d.WorkDaysFrom, d.WorkDaysTo, d.WorkTimeFrom, d.WorkTimeTo,
		d.AppointmentDuration, d.AppointmentFee, d.Active)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Dentist, error) {
	return scanDentist(r.conn(ctx).QueryRow(ctx,
		`SELECT `+dentistCols+` FROM dentists WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, d *Dentist) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE dentists SET name=$2, email=$3, phone=$4, specialization=$5,
			work_days_from=$6, work_days_to=$7, work_time_from=$8,
			work_time_to=$9, appointment_duration=$10, appointment_fee=$11,
			active=$12, updated_at=NOW()
		WHERE id = $1`,
		d.ID, d.Name, d.Email, d.Phone, d.Specialization,
		d.WorkDaysFrom, d.WorkDaysTo, d.WorkTimeFrom, d.WorkTimeTo,
		d.AppointmentDuration, d.AppointmentFee, d.Active)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM dentists WHERE id = $1`, id)
	return err
}

func (r *repoPG) List(ctx context.Context, activeOnly bool, limit, offset int) ([]*Dentist, int, error) {
	where := ``
	if activeOnly {
		where = ` WHERE active`
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM dentists`+where).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+dentistCols+` FROM dentists`+where+` ORDER BY name LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*Dentist
	for rows.Next() {
		d, err := scanDentist(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, d)
	}
	return items, total, rows.Err()
}
