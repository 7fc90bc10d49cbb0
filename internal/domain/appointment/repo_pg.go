package appointment

import (
	"context"
	"time"

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

const apptCols = `id, dentist_id, patient_id, treatment_id, date, time_from,
	time_to, start_minute, end_minute, status, note, fee, created_at, updated_at`

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(&a.ID, &a.DentistID, &a.PatientID, &a.TreatmentID, &a.Date,
		&a.TimeFrom, &a.TimeTo, &a.StartMinute, &a.EndMinute, &a.Status,
		&a.Note, &a.Fee, &a.CreatedAt, &a.UpdatedAt)
	return &a, err
}

func (r *repoPG) Create(ctx context.Context, a *Appointment) error {
	a.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO appointments (id, dentist_id, patient_id, treatment_id,
			date, time_from, time_to, start_minute, end_minute, status, note, fee)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		a.ID, a.DentistID, a.PatientID, a.TreatmentID, a.Date, a.TimeFrom,
		a.TimeTo, a.StartMinute, a.EndMinute, a.Status, a.Note, a.Fee)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return scanAppointment(r.conn(ctx).QueryRow(ctx,
		`SELECT `+apptCols+` FROM appointments WHERE id = $1`, id))
}

func (r *repoPG) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error {
	_, err := r.conn(ctx).Exec(ctx,
		`UPDATE appointments SET status = $2, updated_at = NOW() WHERE id = $1`,
		id, status)
	return err
}

func (r *repoPG) ListForDentistDate(ctx context.Context, dentistID uuid.UUID, date time.Time) ([]*Appointment, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+apptCols+` FROM appointments
		WHERE dentist_id = $1 AND date = $2 AND status <> 'cancelled'
		ORDER BY start_minute`,
		dentistID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAppointments(rows)
}

func (r *repoPG) ListForPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM appointments WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+apptCols+` FROM appointments
		WHERE patient_id = $1
		ORDER BY date DESC, start_minute DESC
		LIMIT $2 OFFSET $3`,
		patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items, err := collectAppointments(rows)
	return items, total, err
}

func (r *repoPG) List(ctx context.Context, dentistID *uuid.UUID, from, to *time.Time, limit, offset int) ([]*Appointment, int, error) {
	where := ` WHERE ($1::uuid IS NULL OR dentist_id = $1)
		AND ($2::date IS NULL OR date >= $2)
		AND ($3::date IS NULL OR date <= $3)`

	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM appointments`+where, dentistID, from, to).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+apptCols+` FROM appointments`+where+`
		ORDER BY date, start_minute
		LIMIT $4 OFFSET $5`,
		dentistID, from, to, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items, err := collectAppointments(rows)
	return items, total, err
}

// LockDentistDay serializes concurrent bookings for one dentist-day via a
// pg_advisory_xact_lock keyed on a text hash. The lock is released at
// transaction end.
func (r *repoPG) LockDentistDay(ctx context.Context, dentistID uuid.UUID, date time.Time) error {
	key := dentistID.String() + ":" + date.Format("2006-01-02")
	_, err := r.conn(ctx).Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, key)
	return err
}

func collectAppointments(rows pgx.Rows) ([]*Appointment, error) {
	var items []*Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

type blockedRepoPG struct{ pool *pgxpool.Pool }

func NewBlockedSlotRepoPG(pool *pgxpool.Pool) BlockedSlotRepository {
	return &blockedRepoPG{pool: pool}
}

func (r *blockedRepoPG) conn(ctx context.Context) db.Queryable {
	if q := db.ConnFromContext(ctx); q != nil {
		return q
	}
	return r.pool
}

func (r *blockedRepoPG) Create(ctx context.Context, b *BlockedSlot) error {
	b.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO blocked_slots (id, dentist_id, date, time_from, time_to, reason)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		b.ID, b.DentistID, b.Date, b.TimeFrom, b.TimeTo, b.Reason)
	return err
}

func (r *blockedRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM blocked_slots WHERE id = $1`, id)
	return err
}

func (r *blockedRepoPG) ListForDentistDate(ctx context.Context, dentistID uuid.UUID, date time.Time) ([]*BlockedSlot, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, dentist_id, date, time_from, time_to, reason, created_at
		FROM blocked_slots
		WHERE dentist_id = $1 AND date = $2`,
		dentistID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*BlockedSlot
	for rows.Next() {
		var b BlockedSlot
		if err := rows.Scan(&b.ID, &b.DentistID, &b.Date, &b.TimeFrom,
			&b.TimeTo, &b.Reason, &b.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, &b)
	}
	return items, rows.Err()
}

type txRunnerPG struct{ pool *pgxpool.Pool }

func NewTxRunner(pool *pgxpool.Pool) TxRunner { return &txRunnerPG{pool: pool} }

func (t *txRunnerPG) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return db.InTx(ctx, t.pool, fn)
}
