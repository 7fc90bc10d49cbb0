package appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/NaveenSandaru/dentax-v1-sub001/internal/domain/dentist"
	"github.com/NaveenSandaru/dentax-v1-sub001/internal/domain/patient"
	"github.com/NaveenSandaru/dentax-v1-sub001/internal/domain/treatment"
	"github.com/NaveenSandaru/dentax-v1-sub001/internal/platform/notification"
	"github.com/NaveenSandaru/dentax-v1-sub001/internal/platform/schedule"
)

var (
	// ErrConflict means the requested interval overlaps an existing
	// appointment or a blocked period; handlers map it to 409.
	ErrConflict = errors.New("requested time is no longer available")
	// ErrInvalidTime means the requested clock strings could not be parsed.
	ErrInvalidTime = errors.New("invalid appointment time")
	// ErrNotFound means a referenced dentist or treatment does not exist.
	ErrNotFound = errors.New("not found")
)

type Service struct {
	appts      Repository
	blocks     BlockedSlotRepository
	dentists   dentist.Repository
	patients   patient.Repository
	treatments treatment.Repository
	tx         TxRunner
	notifier   *notification.Notifier
	log        zerolog.Logger
}

func NewService(
	appts Repository,
	blocks BlockedSlotRepository,
	dentists dentist.Repository,
	patients patient.Repository,
	treatments treatment.Repository,
	tx TxRunner,
	notifier *notification.Notifier,
	log zerolog.Logger,
) *Service {
	return &Service{
		appts:      appts,
		blocks:     blocks,
		dentists:   dentists,
		patients:   patients,
		treatments: treatments,
		tx:         tx,
		notifier:   notifier,
		log:        log,
	}
}

// Slot is one bookable interval in an availability response.
type Slot struct {
	TimeFrom    string `json:"time_from"`
	TimeTo      string `json:"time_to"`
	StartMinute int    `json:"start_minute"`
	EndMinute   int    `json:"end_minute"`
}

// Availability is the bookable view of one dentist-day.
type Availability struct {
	DentistID       uuid.UUID `json:"dentist_id"`
	Date            string    `json:"date"`
	DurationMinutes int       `json:"duration_minutes"`
	Slots           []Slot    `json:"slots"`
	// NonWorkingDay warns that the date falls outside the dentist's
	// configured work week. It never suppresses the slot list.
	NonWorkingDay bool `json:"non_working_day"`
}

// slotDuration picks the appointment length: the treatment's own duration
// when one is named, otherwise the dentist's default.
func (s *Service) slotDuration(ctx context.Context, d *dentist.Dentist, treatmentID *uuid.UUID) (int, error) {
	if treatmentID == nil {
		return d.DefaultSlotMinutes(), nil
	}
	tr, err := s.treatments.GetByID(ctx, *treatmentID)
	if err != nil {
		return 0, fmt.Errorf("treatment: %w", ErrNotFound)
	}
	if tr.DurationMinutes > 0 {
		return tr.DurationMinutes, nil
	}
	return d.DefaultSlotMinutes(), nil
}

// occupiedIntervals collects every interval that consumes time on the
// dentist's day: non-cancelled appointments plus blocked periods.
func (s *Service) occupiedIntervals(ctx context.Context, dentistID uuid.UUID, date time.Time) ([]schedule.Interval, error) {
	appts, err := s.appts.ListForDentistDate(ctx, dentistID, date)
	if err != nil {
		return nil, fmt.Errorf("load appointments: %w", err)
	}
	blocks, err := s.blocks.ListForDentistDate(ctx, dentistID, date)
	if err != nil {
		return nil, fmt.Errorf("load blocked slots: %w", err)
	}

	occupied := make([]schedule.Interval, 0, len(appts)+len(blocks))
	for _, a := range appts {
		occupied = append(occupied, a.Interval())
	}
	for _, b := range blocks {
		occupied = append(occupied, b.Interval())
	}
	return occupied, nil
}

// workingDay evaluates the dentist's work week for the date, logging when
// an unresolvable weekday name forces the fail-open path.
func (s *Service) workingDay(d *dentist.Dentist, date time.Time) bool {
	working, resolved := schedule.IsWorkingDay(date, d.Schedule())
	if !resolved {
		s.log.Warn().
			Str("dentist_id", d.ID.String()).
			Str("work_days_from", d.WorkDaysFrom).
			Str("work_days_to", d.WorkDaysTo).
			Msg("unresolvable work week, treating day as working")
	}
	return working
}

// GetAvailability computes the free slots for one dentist on one date.
func (s *Service) GetAvailability(ctx context.Context, dentistID uuid.UUID, date time.Time, treatmentID *uuid.UUID) (*Availability, error) {
	d, err := s.dentists.GetByID(ctx, dentistID)
	if err != nil {
		return nil, fmt.Errorf("dentist: %w", ErrNotFound)
	}

	dur, err := s.slotDuration(ctx, d, treatmentID)
	if err != nil {
		return nil, err
	}

	candidates := schedule.GenerateSlots(d.WorkTimeFrom, d.WorkTimeTo, dur)
	occupied, err := s.occupiedIntervals(ctx, dentistID, date)
	if err != nil {
		return nil, err
	}
	free := schedule.FilterAvailable(candidates, occupied)

	result := &Availability{
		DentistID:       dentistID,
		Date:            date.Format("2006-01-02"),
		DurationMinutes: dur,
		Slots:           make([]Slot, 0, len(free)),
		NonWorkingDay:   !s.workingDay(d, date),
	}
	for _, iv := range free {
		result.Slots = append(result.Slots, Slot{
			TimeFrom:    iv.Start.Format(),
			TimeTo:      iv.End.Format(),
			StartMinute: int(iv.Start),
			EndMinute:   int(iv.End),
		})
	}
	return result, nil
}

// BookingRequest is what a client submits to take a slot. TimeTo may be
// empty, in which case it is derived from the slot duration.
type BookingRequest struct {
	DentistID   uuid.UUID  `json:"dentist_id"`
	PatientID   uuid.UUID  `json:"patient_id"`
	TreatmentID *uuid.UUID `json:"treatment_id,omitempty"`
	Date        time.Time  `json:"-"`
	DateStr     string     `json:"date"`
	TimeFrom    string     `json:"time_from"`
	TimeTo      string     `json:"time_to,omitempty"`
	Note        *string    `json:"note,omitempty"`
}

// BookingResult wraps the stored appointment with soft warnings.
type BookingResult struct {
	Appointment   *Appointment `json:"appointment"`
	NonWorkingDay bool         `json:"non_working_day,omitempty"`
}

// Book validates and stores an appointment. The availability a client saw
// is advisory only: the authoritative conflict check runs here, inside a
// transaction that holds the dentist-day advisory lock, so two concurrent
// requests for the same slot cannot both succeed.
func (s *Service) Book(ctx context.Context, req BookingRequest) (*BookingResult, error) {
	d, err := s.dentists.GetByID(ctx, req.DentistID)
	if err != nil {
		return nil, fmt.Errorf("dentist: %w", ErrNotFound)
	}

	dur, err := s.slotDuration(ctx, d, req.TreatmentID)
	if err != nil {
		return nil, err
	}

	timeTo := req.TimeTo
	if timeTo == "" {
		start, perr := schedule.ParseClock(req.TimeFrom)
		if perr != nil {
			return nil, ErrInvalidTime
		}
		timeTo = (start + schedule.Minutes(dur)).Format()
	}
	iv, ok := schedule.NewInterval(req.TimeFrom, timeTo)
	if !ok {
		return nil, ErrInvalidTime
	}
	// A slot ending at or before its start spans into the next day, matching
	// the candidate slots generated for a wrapping work window.
	if iv.End <= iv.Start {
		iv.End += schedule.MinutesPerDay
	}

	fee := d.AppointmentFee
	if req.TreatmentID != nil {
		if tr, terr := s.treatments.GetByID(ctx, *req.TreatmentID); terr == nil {
			fee = tr.Fee
		}
	}

	appt := &Appointment{
		DentistID:   req.DentistID,
		PatientID:   req.PatientID,
		TreatmentID: req.TreatmentID,
		Date:        req.Date,
		TimeFrom:    iv.Start.Format(),
		TimeTo:      iv.End.Format(),
		StartMinute: int(iv.Start),
		EndMinute:   int(iv.End),
		Status:      StatusConfirmed,
		Note:        req.Note,
		Fee:         fee,
	}

	err = s.tx.InTx(ctx, func(txCtx context.Context) error {
		if lerr := s.appts.LockDentistDay(txCtx, req.DentistID, req.Date); lerr != nil {
			return fmt.Errorf("lock dentist day: %w", lerr)
		}
		occupied, oerr := s.occupiedIntervals(txCtx, req.DentistID, req.Date)
		if oerr != nil {
			return oerr
		}
		for _, o := range occupied {
			if schedule.Overlaps(iv, o) {
				return ErrConflict
			}
		}
		return s.appts.Create(txCtx, appt)
	})
	if err != nil {
		return nil, err
	}

	s.notifyBooked(ctx, d, appt)

	return &BookingResult{
		Appointment:   appt,
		NonWorkingDay: !s.workingDay(d, req.Date),
	}, nil
}

// notifyBooked dispatches the confirmation best-effort; the booking has
// already committed.
func (s *Service) notifyBooked(ctx context.Context, d *dentist.Dentist, a *Appointment) {
	if s.notifier == nil {
		return
	}
	p, err := s.patients.GetByID(ctx, a.PatientID)
	if err != nil {
		s.log.Warn().Err(err).Msg("skipping booking notification, patient lookup failed")
		return
	}
	msg := notification.Message{
		PatientName:  p.Name,
		PatientEmail: p.Email,
		DentistName:  d.Name,
		Date:         a.Date.Format("2006-01-02"),
		TimeFrom:     a.TimeFrom,
		TimeTo:       a.TimeTo,
	}
	if p.Phone != nil {
		msg.PatientPhone = *p.Phone
	}
	s.notifier.AppointmentBooked(ctx, msg)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.appts.GetByID(ctx, id)
}

// SetStatus transitions an appointment; cancelling frees its slot because
// conflict queries skip cancelled rows.
func (s *Service) SetStatus(ctx context.Context, id uuid.UUID, status Status) (*Appointment, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("unknown status %q", status)
	}
	if err := s.appts.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	a, err := s.appts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if status == StatusCancelled {
		s.notifyCancelled(ctx, a)
	}
	return a, nil
}

func (s *Service) notifyCancelled(ctx context.Context, a *Appointment) {
	if s.notifier == nil {
		return
	}
	p, perr := s.patients.GetByID(ctx, a.PatientID)
	d, derr := s.dentists.GetByID(ctx, a.DentistID)
	if perr != nil || derr != nil {
		return
	}
	msg := notification.Message{
		PatientName:  p.Name,
		PatientEmail: p.Email,
		DentistName:  d.Name,
		Date:         a.Date.Format("2006-01-02"),
		TimeFrom:     a.TimeFrom,
		TimeTo:       a.TimeTo,
	}
	if p.Phone != nil {
		msg.PatientPhone = *p.Phone
	}
	s.notifier.AppointmentCancelled(ctx, msg)
}

func (s *Service) List(ctx context.Context, dentistID *uuid.UUID, from, to *time.Time, limit, offset int) ([]*Appointment, int, error) {
	return s.appts.List(ctx, dentistID, from, to, limit, offset)
}

func (s *Service) ListForPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	return s.appts.ListForPatient(ctx, patientID, limit, offset)
}

// BlockSlot records a period the dentist is unavailable. Nil times block
// the whole day.
func (s *Service) BlockSlot(ctx context.Context, b *BlockedSlot) error {
	if _, err := s.dentists.GetByID(ctx, b.DentistID); err != nil {
		return fmt.Errorf("load dentist: %w", err)
	}
	if (b.TimeFrom == nil) != (b.TimeTo == nil) {
		return fmt.Errorf("time_from and time_to must be given together")
	}
	if b.TimeFrom != nil {
		if _, ok := schedule.NewInterval(*b.TimeFrom, *b.TimeTo); !ok {
			return ErrInvalidTime
		}
	}
	return s.blocks.Create(ctx, b)
}

func (s *Service) UnblockSlot(ctx context.Context, id uuid.UUID) error {
	return s.blocks.Delete(ctx, id)
}

func (s *Service) BlockedSlots(ctx context.Context, dentistID uuid.UUID, date time.Time) ([]*BlockedSlot, error) {
	return s.blocks.ListForDentistDate(ctx, dentistID, date)
}
