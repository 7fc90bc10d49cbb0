package appointment

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/NaveenSandaru/dentax-v1-sub001/internal/domain/dentist"
	"github.com/NaveenSandaru/dentax-v1-sub001/internal/domain/patient"
	"github.com/NaveenSandaru/dentax-v1-sub001/internal/domain/treatment"
)

type mockApptRepo struct {
	appts map[uuid.UUID]*Appointment
}

func newMockApptRepo() *mockApptRepo {
	return &mockApptRepo{appts: make(map[uuid.UUID]*Appointment)}
}

func (m *mockApptRepo) Create(_ context.Context, a *Appointment) error {
	a.ID = uuid.New()
	a.CreatedAt = time.Now()
	a.UpdatedAt = time.Now()
	m.appts[a.ID] = a
	return nil
}

func (m *mockApptRepo) GetByID(_ context.Context, id uuid.UUID) (*Appointment, error) {
	a, ok := m.appts[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return a, nil
}

func (m *mockApptRepo) UpdateStatus(_ context.Context, id uuid.UUID, status Status) error {
	a, ok := m.appts[id]
	if !ok {
		return fmt.Errorf("not found")
	}
	a.Status = status
	return nil
}

func (m *mockApptRepo) ListForDentistDate(_ context.Context, dentistID uuid.UUID, date time.Time) ([]*Appointment, error) {
	var out []*Appointment
	for _, a := range m.appts {
		if a.DentistID == dentistID && a.Date.Equal(date) && a.Status != StatusCancelled {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *mockApptRepo) ListForPatient(_ context.Context, patientID uuid.UUID, _, _ int) ([]*Appointment, int, error) {
	var out []*Appointment
	for _, a := range m.appts {
		if a.PatientID == patientID {
			out = append(out, a)
		}
	}
	return out, len(out), nil
}

func (m *mockApptRepo) List(_ context.Context, _ *uuid.UUID, _, _ *time.Time, _, _ int) ([]*Appointment, int, error) {
	var out []*Appointment
	for _, a := range m.appts {
		out = append(out, a)
	}
	return out, len(out), nil
}

func (m *mockApptRepo) LockDentistDay(_ context.Context, _ uuid.UUID, _ time.Time) error {
	return nil
}

type mockBlockRepo struct {
	blocks map[uuid.UUID]*BlockedSlot
}

func newMockBlockRepo() *mockBlockRepo {
	return &mockBlockRepo{blocks: make(map[uuid.UUID]*BlockedSlot)}
}

func (m *mockBlockRepo) Create(_ context.Context, b *BlockedSlot) error {
	b.ID = uuid.New()
	m.blocks[b.ID] = b
	return nil
}

func (m *mockBlockRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.blocks, id)
	return nil
}

func (m *mockBlockRepo) ListForDentistDate(_ context.Context, dentistID uuid.UUID, date time.Time) ([]*BlockedSlot, error) {
	var out []*BlockedSlot
	for _, b := range m.blocks {
		if b.DentistID == dentistID && b.Date.Equal(date) {
			out = append(out, b)
		}
	}
	return out, nil
}

type mockDentistRepo struct {
	dentists map[uuid.UUID]*dentist.Dentist
}

func (m *mockDentistRepo) Create(_ context.Context, d *dentist.Dentist) error {
	m.dentists[d.ID] = d
	return nil
}

func (m *mockDentistRepo) GetByID(_ context.Context, id uuid.UUID) (*dentist.Dentist, error) {
	d, ok := m.dentists[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return d, nil
}

func (m *mockDentistRepo) Update(_ context.Context, d *dentist.Dentist) error { return nil }
func (m *mockDentistRepo) Delete(_ context.Context, _ uuid.UUID) error        { return nil }

func (m *mockDentistRepo) List(_ context.Context, _ bool, _, _ int) ([]*dentist.Dentist, int, error) {
	return nil, 0, nil
}

type mockPatientRepo struct {
	patients map[uuid.UUID]*patient.Patient
}

func (m *mockPatientRepo) Create(_ context.Context, p *patient.Patient) error {
	m.patients[p.ID] = p
	return nil
}

func (m *mockPatientRepo) GetByID(_ context.Context, id uuid.UUID) (*patient.Patient, error) {
	p, ok := m.patients[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return p, nil
}

func (m *mockPatientRepo) GetByEmail(_ context.Context, _ string) (*patient.Patient, error) {
	return nil, fmt.Errorf("not found")
}

func (m *mockPatientRepo) Update(_ context.Context, _ *patient.Patient) error { return nil }
func (m *mockPatientRepo) Delete(_ context.Context, _ uuid.UUID) error        { return nil }

func (m *mockPatientRepo) List(_ context.Context, _ string, _, _ int) ([]*patient.Patient, int, error) {
	return nil, 0, nil
}

type mockTreatmentRepo struct {
	treatments map[uuid.UUID]*treatment.Treatment
}

func (m *mockTreatmentRepo) Create(_ context.Context, t *treatment.Treatment) error {
	m.treatments[t.ID] = t
	return nil
}

func (m *mockTreatmentRepo) GetByID(_ context.Context, id uuid.UUID) (*treatment.Treatment, error) {
	t, ok := m.treatments[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return t, nil
}

func (m *mockTreatmentRepo) Update(_ context.Context, _ *treatment.Treatment) error { return nil }
func (m *mockTreatmentRepo) Delete(_ context.Context, _ uuid.UUID) error            { return nil }

func (m *mockTreatmentRepo) List(_ context.Context, _ bool, _, _ int) ([]*treatment.Treatment, int, error) {
	return nil, 0, nil
}

// mockTx runs the callback directly; the mock repositories have no real
// transactions to share.
type mockTx struct{}

func (mockTx) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixture struct {
	svc     *Service
	appts   *mockApptRepo
	blocks  *mockBlockRepo
	dentist *dentist.Dentist
	patient *patient.Patient
}

func newFixture() *fixture {
	d := &dentist.Dentist{
		ID:                  uuid.New(),
		Name:                "Dr. Kusal Mendis",
		Email:               "kusal@clinic.example",
		WorkDaysFrom:        "Monday",
		WorkDaysTo:          "Friday",
		WorkTimeFrom:        "09:00 AM",
		WorkTimeTo:          "05:00 PM",
		AppointmentDuration: "30 minutes",
		AppointmentFee:      2500,
		Active:              true,
	}
	p := &patient.Patient{
		ID:    uuid.New(),
		Name:  "Amara Silva",
		Email: "amara@example.com",
	}

	appts := newMockApptRepo()
	blocks := newMockBlockRepo()
	svc := NewService(
		appts,
		blocks,
		&mockDentistRepo{dentists: map[uuid.UUID]*dentist.Dentist{d.ID: d}},
		&mockPatientRepo{patients: map[uuid.UUID]*patient.Patient{p.ID: p}},
		&mockTreatmentRepo{treatments: map[uuid.UUID]*treatment.Treatment{}},
		mockTx{},
		nil,
		zerolog.Nop(),
	)
	return &fixture{svc: svc, appts: appts, blocks: blocks, dentist: d, patient: p}
}

// tuesday is a date inside the fixture dentist's Monday-Friday work week.
var tuesday = time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC)

// sunday falls outside it.
var sunday = time.Date(2026, time.September, 6, 0, 0, 0, 0, time.UTC)

func TestGetAvailabilityFullDay(t *testing.T) {
	f := newFixture()

	avail, err := f.svc.GetAvailability(context.Background(), f.dentist.ID, tuesday, nil)
	if err != nil {
		t.Fatalf("GetAvailability: %v", err)
	}
	if len(avail.Slots) != 16 {
		t.Fatalf("slots = %d, want 16", len(avail.Slots))
	}
	if avail.Slots[0].TimeFrom != "09:00" || avail.Slots[15].TimeTo != "17:00" {
		t.Errorf("slot bounds = %s..%s", avail.Slots[0].TimeFrom, avail.Slots[15].TimeTo)
	}
	if avail.NonWorkingDay {
		t.Error("Tuesday should be a working day")
	}
}

func TestGetAvailabilityExcludesBookedSlot(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	if _, err := f.svc.Book(ctx, BookingRequest{
		DentistID: f.dentist.ID,
		PatientID: f.patient.ID,
		Date:      tuesday,
		TimeFrom:  "10:00",
		TimeTo:    "10:30",
	}); err != nil {
		t.Fatalf("Book: %v", err)
	}

	avail, err := f.svc.GetAvailability(ctx, f.dentist.ID, tuesday, nil)
	if err != nil {
		t.Fatalf("GetAvailability: %v", err)
	}
	if len(avail.Slots) != 15 {
		t.Fatalf("slots = %d, want 15", len(avail.Slots))
	}
	for _, s := range avail.Slots {
		if s.TimeFrom == "10:00" {
			t.Error("booked 10:00 slot still offered")
		}
	}
}

func TestBookRejectsConflict(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	if _, err := f.svc.Book(ctx, BookingRequest{
		DentistID: f.dentist.ID,
		PatientID: f.patient.ID,
		Date:      tuesday,
		TimeFrom:  "10:00",
		TimeTo:    "10:30",
	}); err != nil {
		t.Fatalf("first booking: %v", err)
	}

	_, err := f.svc.Book(ctx, BookingRequest{
		DentistID: f.dentist.ID,
		PatientID: f.patient.ID,
		Date:      tuesday,
		TimeFrom:  "10:00",
		TimeTo:    "10:30",
	})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("second booking err = %v, want ErrConflict", err)
	}
	if len(f.appts.appts) != 1 {
		t.Errorf("stored appointments = %d, want 1", len(f.appts.appts))
	}
}

// A client can submit any interval, not just a generated slot; the write-time
// check still catches partial overlaps.
func TestBookRejectsPartialOverlap(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	if _, err := f.svc.Book(ctx, BookingRequest{
		DentistID: f.dentist.ID,
		PatientID: f.patient.ID,
		Date:      tuesday,
		TimeFrom:  "10:00",
		TimeTo:    "10:30",
	}); err != nil {
		t.Fatalf("first booking: %v", err)
	}

	_, err := f.svc.Book(ctx, BookingRequest{
		DentistID: f.dentist.ID,
		PatientID: f.patient.ID,
		Date:      tuesday,
		TimeFrom:  "10:15",
		TimeTo:    "10:45",
	})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("overlapping booking err = %v, want ErrConflict", err)
	}
}

func TestBookAllowsAdjacent(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	if _, err := f.svc.Book(ctx, BookingRequest{
		DentistID: f.dentist.ID,
		PatientID: f.patient.ID,
		Date:      tuesday,
		TimeFrom:  "09:00",
		TimeTo:    "09:30",
	}); err != nil {
		t.Fatalf("first booking: %v", err)
	}

	if _, err := f.svc.Book(ctx, BookingRequest{
		DentistID: f.dentist.ID,
		PatientID: f.patient.ID,
		Date:      tuesday,
		TimeFrom:  "09:30",
		TimeTo:    "10:00",
	}); err != nil {
		t.Fatalf("adjacent booking rejected: %v", err)
	}
}

func TestWholeDayBlockEmptiesAvailability(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	if err := f.svc.BlockSlot(ctx, &BlockedSlot{
		DentistID: f.dentist.ID,
		Date:      tuesday,
	}); err != nil {
		t.Fatalf("BlockSlot: %v", err)
	}

	avail, err := f.svc.GetAvailability(ctx, f.dentist.ID, tuesday, nil)
	if err != nil {
		t.Fatalf("GetAvailability: %v", err)
	}
	if len(avail.Slots) != 0 {
		t.Errorf("slots = %d, want 0 for whole-day block", len(avail.Slots))
	}

	_, err = f.svc.Book(ctx, BookingRequest{
		DentistID: f.dentist.ID,
		PatientID: f.patient.ID,
		Date:      tuesday,
		TimeFrom:  "11:00",
		TimeTo:    "11:30",
	})
	if !errors.Is(err, ErrConflict) {
		t.Errorf("booking on blocked day err = %v, want ErrConflict", err)
	}
}

func TestBookWarnsOnNonWorkingDay(t *testing.T) {
	f := newFixture()

	result, err := f.svc.Book(context.Background(), BookingRequest{
		DentistID: f.dentist.ID,
		PatientID: f.patient.ID,
		Date:      sunday,
		TimeFrom:  "10:00",
		TimeTo:    "10:30",
	})
	if err != nil {
		t.Fatalf("Book: %v", err)
	}
	if !result.NonWorkingDay {
		t.Error("expected non_working_day warning for Sunday")
	}
}

func TestBookFailsOpenOnUnresolvableWorkWeek(t *testing.T) {
	f := newFixture()
	f.dentist.WorkDaysFrom = "Funday"

	result, err := f.svc.Book(context.Background(), BookingRequest{
		DentistID: f.dentist.ID,
		PatientID: f.patient.ID,
		Date:      sunday,
		TimeFrom:  "10:00",
		TimeTo:    "10:30",
	})
	if err != nil {
		t.Fatalf("Book: %v", err)
	}
	if result.NonWorkingDay {
		t.Error("unresolvable work week must be treated as working")
	}
}

func TestBookDerivesTimeTo(t *testing.T) {
	f := newFixture()

	result, err := f.svc.Book(context.Background(), BookingRequest{
		DentistID: f.dentist.ID,
		PatientID: f.patient.ID,
		Date:      tuesday,
		TimeFrom:  "02:00 PM",
	})
	if err != nil {
		t.Fatalf("Book: %v", err)
	}
	a := result.Appointment
	if a.TimeFrom != "14:00" || a.TimeTo != "14:30" {
		t.Errorf("times = %s..%s, want 14:00..14:30", a.TimeFrom, a.TimeTo)
	}
	if a.StartMinute != 840 || a.EndMinute != 870 {
		t.Errorf("minutes = %d..%d", a.StartMinute, a.EndMinute)
	}
}

func TestBookRejectsUnparseableTime(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Book(context.Background(), BookingRequest{
		DentistID: f.dentist.ID,
		PatientID: f.patient.ID,
		Date:      tuesday,
		TimeFrom:  "whenever",
		TimeTo:    "later",
	})
	if !errors.Is(err, ErrInvalidTime) {
		t.Fatalf("err = %v, want ErrInvalidTime", err)
	}
}

func TestCancelFreesSlot(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	result, err := f.svc.Book(ctx, BookingRequest{
		DentistID: f.dentist.ID,
		PatientID: f.patient.ID,
		Date:      tuesday,
		TimeFrom:  "10:00",
		TimeTo:    "10:30",
	})
	if err != nil {
		t.Fatalf("Book: %v", err)
	}

	if _, err := f.svc.SetStatus(ctx, result.Appointment.ID, StatusCancelled); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}

	if _, err := f.svc.Book(ctx, BookingRequest{
		DentistID: f.dentist.ID,
		PatientID: f.patient.ID,
		Date:      tuesday,
		TimeFrom:  "10:00",
		TimeTo:    "10:30",
	}); err != nil {
		t.Fatalf("rebooking cancelled slot: %v", err)
	}
}

// nightFixture reconfigures the dentist to a window that wraps past
// midnight.
func nightFixture() *fixture {
	f := newFixture()
	f.dentist.WorkTimeFrom = "10:00 PM"
	f.dentist.WorkTimeTo = "02:00 AM"
	f.dentist.AppointmentDuration = "60 minutes"
	return f
}

func TestGetAvailabilityWrapWindow(t *testing.T) {
	f := nightFixture()

	avail, err := f.svc.GetAvailability(context.Background(), f.dentist.ID, tuesday, nil)
	if err != nil {
		t.Fatalf("GetAvailability: %v", err)
	}
	if len(avail.Slots) != 4 {
		t.Fatalf("slots = %d, want 4", len(avail.Slots))
	}
	if avail.Slots[1].TimeFrom != "23:00" || avail.Slots[1].TimeTo != "00:00" {
		t.Errorf("slot[1] = %s..%s, want 23:00..00:00", avail.Slots[1].TimeFrom, avail.Slots[1].TimeTo)
	}
}

// A slot advertised by a wrapping window must be bookable as-is.
func TestBookWrapWindowSlot(t *testing.T) {
	f := nightFixture()
	ctx := context.Background()

	result, err := f.svc.Book(ctx, BookingRequest{
		DentistID: f.dentist.ID,
		PatientID: f.patient.ID,
		Date:      tuesday,
		TimeFrom:  "23:00",
		TimeTo:    "00:00",
	})
	if err != nil {
		t.Fatalf("Book: %v", err)
	}
	a := result.Appointment
	if a.StartMinute != 1380 || a.EndMinute != 1440 {
		t.Errorf("minutes = %d..%d, want 1380..1440", a.StartMinute, a.EndMinute)
	}

	_, err = f.svc.Book(ctx, BookingRequest{
		DentistID: f.dentist.ID,
		PatientID: f.patient.ID,
		Date:      tuesday,
		TimeFrom:  "11:30 PM",
		TimeTo:    "12:30 AM",
	})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("overlapping wrap booking err = %v, want ErrConflict", err)
	}
}

func TestWrappingBlockedRangeBlocksTime(t *testing.T) {
	f := nightFixture()
	ctx := context.Background()

	from, to := "23:00", "01:00"
	if err := f.svc.BlockSlot(ctx, &BlockedSlot{
		DentistID: f.dentist.ID,
		Date:      tuesday,
		TimeFrom:  &from,
		TimeTo:    &to,
	}); err != nil {
		t.Fatalf("BlockSlot: %v", err)
	}

	avail, err := f.svc.GetAvailability(ctx, f.dentist.ID, tuesday, nil)
	if err != nil {
		t.Fatalf("GetAvailability: %v", err)
	}
	if len(avail.Slots) != 2 {
		t.Fatalf("slots = %d, want 2", len(avail.Slots))
	}
	for _, s := range avail.Slots {
		if s.TimeFrom != "22:00" && s.TimeFrom != "01:00" {
			t.Errorf("blocked slot %s..%s still offered", s.TimeFrom, s.TimeTo)
		}
	}

	_, err = f.svc.Book(ctx, BookingRequest{
		DentistID: f.dentist.ID,
		PatientID: f.patient.ID,
		Date:      tuesday,
		TimeFrom:  "23:00",
		TimeTo:    "00:00",
	})
	if !errors.Is(err, ErrConflict) {
		t.Errorf("booking inside wrapped block err = %v, want ErrConflict", err)
	}
}

func TestBlockedSlotIntervalWraps(t *testing.T) {
	from, to := "23:00", "01:00"
	b := &BlockedSlot{TimeFrom: &from, TimeTo: &to}
	iv := b.Interval()
	if iv.Start != 1380 || iv.End != 1500 {
		t.Errorf("interval = [%d,%d), want [1380,1500)", iv.Start, iv.End)
	}
}

func TestGetAvailabilityUnknownDentist(t *testing.T) {
	f := newFixture()

	_, err := f.svc.GetAvailability(context.Background(), uuid.New(), tuesday, nil)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestBlockSlotValidation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	from := "09:00"
	if err := f.svc.BlockSlot(ctx, &BlockedSlot{
		DentistID: f.dentist.ID,
		Date:      tuesday,
		TimeFrom:  &from,
	}); err == nil {
		t.Error("expected error for one-sided time range")
	}
}
