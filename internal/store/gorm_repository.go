package store

import (
	"context"
	"time"

	"gorm.io/gorm"

	"medicos-platform-server/internal/models"
)

// Compile-time checks that the gorm repositories satisfy the contracts.
var (
	_ AppointmentRepository = (*GormAppointmentRepository)(nil)
	_ SpecialtyRepository   = (*GormSpecialtyRepository)(nil)
)

// GormAppointmentRepository implements AppointmentRepository on the
// appointments table, joining patient/doctor/specialty display fields
// through gorm preloads.
type GormAppointmentRepository struct {
	DB *gorm.DB
}

// NewAppointmentRepository creates a repository over the given database.
func NewAppointmentRepository(db *gorm.DB) *GormAppointmentRepository {
	return &GormAppointmentRepository{DB: db}
}

func (r *GormAppointmentRepository) withJoins(ctx context.Context) *gorm.DB {
	return r.DB.WithContext(ctx).
		Preload("Patient").
		Preload("Doctor").
		Preload("Specialty")
}

// ListForUser returns all appointments where the user is patient or
// doctor, ascending by scheduled instant.
func (r *GormAppointmentRepository) ListForUser(ctx context.Context, userID string) ([]models.AppointmentDetail, error) {
	var appointments []models.Appointment
	err := r.withJoins(ctx).
		Where("patient_id = ? OR doctor_id = ?", userID, userID).
		Order("appointment_date asc").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}

	details := make([]models.AppointmentDetail, len(appointments))
	for i := range appointments {
		details[i] = appointments[i].Detail()
	}
	return details, nil
}

// GetByID fetches one appointment with joined display fields.
func (r *GormAppointmentRepository) GetByID(ctx context.Context, id string) (*models.AppointmentDetail, error) {
	var appointment models.Appointment
	if err := r.withJoins(ctx).First(&appointment, "id = ?", id).Error; err != nil {
		return nil, err
	}
	detail := appointment.Detail()
	return &detail, nil
}

// Insert persists a new appointment and returns it with joined fields.
func (r *GormAppointmentRepository) Insert(ctx context.Context, appointment *models.Appointment) (*models.AppointmentDetail, error) {
	if err := r.DB.WithContext(ctx).Create(appointment).Error; err != nil {
		return nil, err
	}
	return r.GetByID(ctx, appointment.ID)
}

// Save merges the given fields into the stored appointment, stamps the
// update time, and returns the updated record with joined fields.
func (r *GormAppointmentRepository) Save(ctx context.Context, id string, changes AppointmentChanges) (*models.AppointmentDetail, error) {
	fields := map[string]interface{}{
		"updated_at": time.Now(),
	}
	if changes.AppointmentDate != nil {
		fields["appointment_date"] = *changes.AppointmentDate
	}
	if changes.DurationMinutes != nil {
		fields["duration_minutes"] = *changes.DurationMinutes
	}
	if changes.Status != nil {
		fields["status"] = *changes.Status
	}
	if changes.Type != nil {
		fields["type"] = *changes.Type
	}
	if changes.Notes != nil {
		fields["notes"] = *changes.Notes
	}
	if changes.PatientNotes != nil {
		fields["patient_notes"] = *changes.PatientNotes
	}

	result := r.DB.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ?", id).
		Updates(fields)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	return r.GetByID(ctx, id)
}

// Upcoming returns future scheduled/confirmed appointments for the user,
// ascending, capped at limit.
func (r *GormAppointmentRepository) Upcoming(ctx context.Context, userID string, after time.Time, limit int) ([]models.AppointmentDetail, error) {
	var appointments []models.Appointment
	err := r.withJoins(ctx).
		Where("patient_id = ? OR doctor_id = ?", userID, userID).
		Where("appointment_date >= ?", after).
		Where("status IN ?", []models.AppointmentStatus{models.StatusScheduled, models.StatusConfirmed}).
		Order("appointment_date asc").
		Limit(limit).
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}

	details := make([]models.AppointmentDetail, len(appointments))
	for i := range appointments {
		details[i] = appointments[i].Detail()
	}
	return details, nil
}

// GormSpecialtyRepository implements SpecialtyRepository on the
// medical_specialties reference table.
type GormSpecialtyRepository struct {
	DB *gorm.DB
}

// NewSpecialtyRepository creates a repository over the given database.
func NewSpecialtyRepository(db *gorm.DB) *GormSpecialtyRepository {
	return &GormSpecialtyRepository{DB: db}
}

// ListActive returns all active specialties ordered by name.
func (r *GormSpecialtyRepository) ListActive(ctx context.Context) ([]models.MedicalSpecialty, error) {
	var specialties []models.MedicalSpecialty
	err := r.DB.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name asc").
		Find(&specialties).Error
	if err != nil {
		return nil, err
	}
	return specialties, nil
}
