package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"medicos-platform-server/internal/models"
)

// DefaultDurationMinutes is applied when the create form leaves the
// appointment length unset.
const DefaultDurationMinutes = 30

// ErrInvalidTransition is returned when an update would move an
// appointment's status along a disallowed edge.
var ErrInvalidTransition = errors.New("status transition not allowed")

// ErrUnknownStatus is returned when an update names a status outside the
// known set.
var ErrUnknownStatus = errors.New("unknown appointment status")

// CreateAppointmentData is the booking form payload for a new
// appointment. Date and Time are composed into the scheduled instant.
type CreateAppointmentData struct {
	PatientID       string
	DoctorID        string
	SpecialtyID     string
	Date            string // 2006-01-02
	Time            string // 15:04
	DurationMinutes int
	Type            models.AppointmentType
	Notes           string
	PatientNotes    string
}

// AppointmentStore holds one session's appointments in memory. Every
// operation performs a single remote round trip and reconciles the local
// collection only after the remote store acknowledged the write.
type AppointmentStore struct {
	session Session
	repo    AppointmentRepository
	now     func() time.Time

	mu           sync.Mutex
	appointments []models.AppointmentDetail
	loaded       bool
}

// NewAppointmentStore creates a store bound to the given session.
func NewAppointmentStore(session Session, repo AppointmentRepository) *AppointmentStore {
	return &AppointmentStore{
		session: session,
		repo:    repo,
		now:     time.Now,
	}
}

// List fetches all appointments where the session user is patient or
// doctor, ascending by scheduled instant, and replaces the local
// collection with the result.
func (s *AppointmentStore) List(ctx context.Context) ([]models.AppointmentDetail, error) {
	appointments, err := s.repo.ListForUser(ctx, s.session.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch appointments: %w", err)
	}

	s.mu.Lock()
	s.appointments = appointments
	s.loaded = true
	s.mu.Unlock()

	return s.snapshot(), nil
}

// Appointments returns a copy of the local collection without a remote
// fetch. Useful for re-deriving day-level views after List.
func (s *AppointmentStore) Appointments() []models.AppointmentDetail {
	return s.snapshot()
}

// Create validates the booking form and persists a new appointment. The
// scheduled instant must be strictly in the future; validation failures
// are reported before any remote call. On success the new appointment is
// appended to the local collection.
func (s *AppointmentStore) Create(ctx context.Context, data CreateAppointmentData) (*models.AppointmentDetail, error) {
	fieldErrs := FieldErrors{}
	if data.DoctorID == "" {
		fieldErrs["doctor_id"] = "select a doctor"
	}
	if data.PatientID == "" {
		fieldErrs["patient_id"] = "select a patient"
	}
	if data.SpecialtyID == "" {
		fieldErrs["specialty_id"] = "select a specialty"
	}
	if data.Date == "" {
		fieldErrs["appointment_date"] = "select a date"
	}
	if data.Time == "" {
		fieldErrs["appointment_time"] = "select a time"
	}
	if len(fieldErrs) > 0 {
		return nil, fieldErrs
	}

	instant, err := time.Parse("2006-01-02 15:04", data.Date+" "+data.Time)
	if err != nil {
		return nil, FieldErrors{"appointment_date": "invalid date or time"}
	}
	if !instant.After(s.now()) {
		return nil, FieldErrors{"appointment_date": "appointment date must be in the future"}
	}

	duration := data.DurationMinutes
	if duration <= 0 {
		duration = DefaultDurationMinutes
	}
	aptType := data.Type
	if aptType == "" {
		aptType = models.TypeConsultation
	}

	appointment := &models.Appointment{
		PatientID:       data.PatientID,
		DoctorID:        data.DoctorID,
		SpecialtyID:     data.SpecialtyID,
		AppointmentDate: instant,
		DurationMinutes: duration,
		Status:          models.StatusScheduled,
		Type:            aptType,
		Notes:           data.Notes,
		PatientNotes:    data.PatientNotes,
	}

	created, err := s.repo.Insert(ctx, appointment)
	if err != nil {
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}

	s.mu.Lock()
	if s.loaded {
		s.appointments = append(s.appointments, *created)
	}
	s.mu.Unlock()

	return created, nil
}

// Update merges the given fields into the appointment remotely and
// replaces the matching local record on success. Status changes are
// checked against the allowed-transition table first.
func (s *AppointmentStore) Update(ctx context.Context, id string, changes AppointmentChanges) (*models.AppointmentDetail, error) {
	if changes.Status != nil {
		if !changes.Status.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrUnknownStatus, *changes.Status)
		}
		current, err := s.currentStatus(ctx, id)
		if err != nil {
			return nil, err
		}
		if !current.CanTransitionTo(*changes.Status) {
			return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current, *changes.Status)
		}
	}

	updated, err := s.repo.Save(ctx, id, changes)
	if err != nil {
		return nil, fmt.Errorf("failed to update appointment: %w", err)
	}

	s.replace(*updated)
	return updated, nil
}

// Cancel sets the appointment's status to cancelled, recording an
// optional reason in the notes field. On success the local record is
// patched in place; no other field is touched.
func (s *AppointmentStore) Cancel(ctx context.Context, id string, reason string) error {
	current, err := s.currentStatus(ctx, id)
	if err != nil {
		return err
	}
	if !current.CanTransitionTo(models.StatusCancelled) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current, models.StatusCancelled)
	}

	notes := "Cancelled"
	if reason != "" {
		notes = "Cancelled: " + reason
	}
	status := models.StatusCancelled
	updated, err := s.repo.Save(ctx, id, AppointmentChanges{
		Status: &status,
		Notes:  &notes,
	})
	if err != nil {
		return fmt.Errorf("failed to cancel appointment: %w", err)
	}

	s.mu.Lock()
	for i := range s.appointments {
		if s.appointments[i].ID == id {
			s.appointments[i].Status = updated.Status
			s.appointments[i].Notes = updated.Notes
			s.appointments[i].UpdatedAt = updated.UpdatedAt
			break
		}
	}
	s.mu.Unlock()

	return nil
}

// Upcoming queries future appointments with status scheduled or
// confirmed, ascending by scheduled instant, capped at limit. The local
// collection is left untouched.
func (s *AppointmentStore) Upcoming(ctx context.Context, limit int) ([]models.AppointmentDetail, error) {
	appointments, err := s.repo.Upcoming(ctx, s.session.UserID, s.now(), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch upcoming appointments: %w", err)
	}
	return appointments, nil
}

// currentStatus reads the appointment's present status, preferring the
// local collection over a remote fetch.
func (s *AppointmentStore) currentStatus(ctx context.Context, id string) (models.AppointmentStatus, error) {
	s.mu.Lock()
	for i := range s.appointments {
		if s.appointments[i].ID == id {
			status := s.appointments[i].Status
			s.mu.Unlock()
			return status, nil
		}
	}
	s.mu.Unlock()

	appointment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", fmt.Errorf("failed to fetch appointment: %w", err)
	}
	return appointment.Status, nil
}

func (s *AppointmentStore) replace(updated models.AppointmentDetail) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.appointments {
		if s.appointments[i].ID == updated.ID {
			s.appointments[i] = updated
			return
		}
	}
}

func (s *AppointmentStore) snapshot() []models.AppointmentDetail {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.AppointmentDetail, len(s.appointments))
	copy(out, s.appointments)
	return out
}
