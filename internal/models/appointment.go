package models

import (
	"time"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusScheduled  AppointmentStatus = "scheduled"
	StatusConfirmed  AppointmentStatus = "confirmed"
	StatusInProgress AppointmentStatus = "in_progress"
	StatusCompleted  AppointmentStatus = "completed"
	StatusCancelled  AppointmentStatus = "cancelled"
	StatusNoShow     AppointmentStatus = "no_show"
)

// AppointmentType represents the kind of visit being booked
type AppointmentType string

const (
	TypeConsultation AppointmentType = "consultation"
	TypeFollowUp     AppointmentType = "follow_up"
	TypeEmergency    AppointmentType = "emergency"
	TypeRoutineCheck AppointmentType = "routine_check"
)

// statusTransitions is the table of allowed status edges. Completed,
// cancelled and no_show are terminal.
var statusTransitions = map[AppointmentStatus][]AppointmentStatus{
	StatusScheduled:  {StatusConfirmed, StatusCancelled, StatusNoShow},
	StatusConfirmed:  {StatusInProgress, StatusCancelled, StatusNoShow},
	StatusInProgress: {StatusCompleted, StatusCancelled},
	StatusCompleted:  {},
	StatusCancelled:  {},
	StatusNoShow:     {},
}

// Valid reports whether s is one of the known appointment statuses.
func (s AppointmentStatus) Valid() bool {
	_, ok := statusTransitions[s]
	return ok
}

// CanTransitionTo reports whether moving from s to next is an allowed edge.
// Setting the same status again is always permitted.
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Appointment represents a scheduled medical appointment
type Appointment struct {
	BaseModel
	PatientID       string            `gorm:"size:36;index" json:"patient_id"`
	DoctorID        string            `gorm:"size:36;index" json:"doctor_id"`
	SpecialtyID     string            `gorm:"size:36;index" json:"specialty_id"`
	AppointmentDate time.Time         `gorm:"index" json:"appointment_date"`
	DurationMinutes int               `gorm:"default:30" json:"duration_minutes"`
	Status          AppointmentStatus `gorm:"size:20;default:'scheduled'" json:"status"`
	Type            AppointmentType   `gorm:"size:20;default:'consultation'" json:"type"`
	Notes           string            `gorm:"type:text" json:"notes,omitempty"`
	PatientNotes    string            `gorm:"type:text" json:"patient_notes,omitempty"`

	// Relations
	Patient   User             `gorm:"foreignKey:PatientID" json:"-"`
	Doctor    User             `gorm:"foreignKey:DoctorID" json:"-"`
	Specialty MedicalSpecialty `gorm:"foreignKey:SpecialtyID" json:"-"`
}

// PatientInfo is the denormalized patient display data joined onto an
// appointment for list views.
type PatientInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

// DoctorInfo is the denormalized doctor display data joined onto an
// appointment for list views.
type DoctorInfo struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Specialty string `json:"specialty,omitempty"`
}

// SpecialtyInfo is the denormalized specialty display data joined onto an
// appointment for list views.
type SpecialtyInfo struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// AppointmentDetail is an appointment together with the joined display
// fields API consumers render. Built at the repository boundary so the
// rest of the code never touches loosely-typed join results.
type AppointmentDetail struct {
	Appointment
	Patient   PatientInfo   `json:"patient"`
	Doctor    DoctorInfo    `json:"doctor"`
	Specialty SpecialtyInfo `json:"specialty"`
}

// Detail builds an AppointmentDetail from an appointment whose Patient,
// Doctor and Specialty relations have been preloaded.
func (a *Appointment) Detail() AppointmentDetail {
	return AppointmentDetail{
		Appointment: *a,
		Patient: PatientInfo{
			Name:  a.Patient.Name,
			Email: a.Patient.Email,
			Phone: a.Patient.Phone,
		},
		Doctor: DoctorInfo{
			Name:      a.Doctor.Name,
			Email:     a.Doctor.Email,
			Specialty: a.Doctor.Specialty,
		},
		Specialty: SpecialtyInfo{
			Name: a.Specialty.Name,
			Code: a.Specialty.Code,
		},
	}
}
