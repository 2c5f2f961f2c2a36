package store

import (
	"context"
	"sort"
	"strings"
	"time"

	"medicos-platform-server/internal/models"
)

// Session identifies the authenticated user a store acts for. It is
// created at sign-in and passed explicitly to every store constructor;
// nothing session-scoped lives in package state.
type Session struct {
	UserID string
	Role   models.Role
}

// AppointmentChanges carries the fields of a partial appointment update.
// Nil pointers are left untouched by the remote write.
type AppointmentChanges struct {
	AppointmentDate *time.Time
	DurationMinutes *int
	Status          *models.AppointmentStatus
	Type            *models.AppointmentType
	Notes           *string
	PatientNotes    *string
}

// AppointmentRepository is the remote persistence contract the
// appointment store operates against.
type AppointmentRepository interface {
	// ListForUser returns every appointment where the user is the
	// patient or the doctor, ascending by scheduled instant, with
	// patient/doctor/specialty display fields joined on.
	ListForUser(ctx context.Context, userID string) ([]models.AppointmentDetail, error)

	// GetByID fetches a single appointment with joined display fields.
	GetByID(ctx context.Context, id string) (*models.AppointmentDetail, error)

	// Insert persists a new appointment and returns it with joined
	// display fields.
	Insert(ctx context.Context, appointment *models.Appointment) (*models.AppointmentDetail, error)

	// Save merges the given fields into the stored appointment, stamps
	// the update time, and returns the updated record with joined
	// display fields.
	Save(ctx context.Context, id string, changes AppointmentChanges) (*models.AppointmentDetail, error)

	// Upcoming returns appointments for the user scheduled at or after
	// the given instant with status scheduled or confirmed, ascending,
	// capped at limit.
	Upcoming(ctx context.Context, userID string, after time.Time, limit int) ([]models.AppointmentDetail, error)
}

// SpecialtyRepository is the remote contract for specialty reference data.
type SpecialtyRepository interface {
	// ListActive returns all active specialties ordered by name.
	ListActive(ctx context.Context) ([]models.MedicalSpecialty, error)
}

// FieldErrors maps form field names to validation messages. Operations
// return it before any remote call is made.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+e[f])
	}
	return "validation failed: " + strings.Join(parts, ", ")
}
