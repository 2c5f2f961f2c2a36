package handlers

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"medicos-platform-server/internal/calendar"
	"medicos-platform-server/internal/middleware"
	"medicos-platform-server/internal/models"
	"medicos-platform-server/internal/store"
	"medicos-platform-server/internal/utils"
)

// AppointmentHandler handles appointment related requests.
type AppointmentHandler struct {
	DB   *gorm.DB
	Repo store.AppointmentRepository
}

// NewAppointmentHandler creates a new AppointmentHandler.
func NewAppointmentHandler(db *gorm.DB, repo store.AppointmentRepository) *AppointmentHandler {
	return &AppointmentHandler{DB: db, Repo: repo}
}

// storeForSession builds the session-scoped appointment store for the
// authenticated request. Returns false (with a response already written)
// when the request carries no session.
func (h *AppointmentHandler) storeForSession(c *gin.Context) (*store.AppointmentStore, bool) {
	session, ok := middleware.GetSessionFromContext(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return nil, false
	}
	return store.NewAppointmentStore(session, h.Repo), true
}

// respondStoreError maps store errors onto the response envelope.
func respondStoreError(c *gin.Context, err error) {
	var fieldErrs store.FieldErrors
	switch {
	case errors.As(err, &fieldErrs):
		utils.ValidationFailed(c, fieldErrs)
	case errors.Is(err, store.ErrInvalidTransition), errors.Is(err, store.ErrUnknownStatus):
		utils.BadRequest(c, err.Error())
	case errors.Is(err, gorm.ErrRecordNotFound):
		utils.NotFound(c, "Appointment not found")
	default:
		utils.InternalServerError(c, err.Error())
	}
}

// GetAppointments handles fetching appointments for the logged-in user
// (as patient or doctor), ascending by scheduled instant.
func (h *AppointmentHandler) GetAppointments(c *gin.Context) {
	s, ok := h.storeForSession(c)
	if !ok {
		return
	}

	appointments, err := s.List(c.Request.Context())
	if err != nil {
		respondStoreError(c, err)
		return
	}

	utils.Success(c, "Appointments fetched successfully", appointments)
}

// CreateAppointmentRequest represents the request body for creating an appointment.
type CreateAppointmentRequest struct {
	DoctorID        string `json:"doctor_id"`
	PatientID       string `json:"patient_id"`
	SpecialtyID     string `json:"specialty_id"`
	Date            string `json:"date"` // 2006-01-02
	Time            string `json:"time"` // 15:04
	DurationMinutes int    `json:"duration_minutes"`
	Type            string `json:"type"`
	Notes           string `json:"notes"`
	PatientNotes    string `json:"patient_notes"`
}

// CreateAppointment handles booking a new appointment. Either role can
// book; patients only for themselves.
func (h *AppointmentHandler) CreateAppointment(c *gin.Context) {
	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	session, ok := middleware.GetSessionFromContext(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	// Patients book for themselves; an empty patient_id means "me".
	if session.Role == models.RolePatient {
		if req.PatientID == "" {
			req.PatientID = session.UserID
		} else if req.PatientID != session.UserID {
			utils.Forbidden(c, "Patients can only book appointments for themselves.")
			return
		}
	}
	if session.Role == models.RoleDoctor && req.DoctorID == "" {
		req.DoctorID = session.UserID
	}

	// Verify doctor exists and is a doctor
	if req.DoctorID != "" {
		var doctor models.User
		if err := h.DB.Where("id = ? AND role = ?", req.DoctorID, models.RoleDoctor).First(&doctor).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				utils.NotFound(c, "Doctor not found or user is not a doctor")
			} else {
				utils.InternalServerError(c, "Database error verifying doctor: "+err.Error())
			}
			return
		}
	}
	// Verify patient exists
	if req.PatientID != "" {
		var patient models.User
		if err := h.DB.Where("id = ? AND role = ?", req.PatientID, models.RolePatient).First(&patient).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				utils.NotFound(c, "Patient not found")
			} else {
				utils.InternalServerError(c, "Database error verifying patient: "+err.Error())
			}
			return
		}
	}

	s := store.NewAppointmentStore(session, h.Repo)
	created, err := s.Create(c.Request.Context(), store.CreateAppointmentData{
		PatientID:       req.PatientID,
		DoctorID:        req.DoctorID,
		SpecialtyID:     req.SpecialtyID,
		Date:            req.Date,
		Time:            req.Time,
		DurationMinutes: req.DurationMinutes,
		Type:            models.AppointmentType(req.Type),
		Notes:           req.Notes,
		PatientNotes:    req.PatientNotes,
	})
	if err != nil {
		respondStoreError(c, err)
		return
	}

	utils.Created(c, "Appointment created successfully", created)
}

// UpdateAppointmentRequest represents the request body for a partial
// appointment update. Absent fields stay untouched.
type UpdateAppointmentRequest struct {
	Status          *string    `json:"status"`
	AppointmentDate *time.Time `json:"appointment_date"`
	DurationMinutes *int       `json:"duration_minutes"`
	Type            *string    `json:"type"`
	Notes           *string    `json:"notes"`
	PatientNotes    *string    `json:"patient_notes"`
}

// UpdateAppointment handles merging fields into an appointment. Only the
// involved patient or doctor may update; patients may only change status
// to cancelled.
func (h *AppointmentHandler) UpdateAppointment(c *gin.Context) {
	appointmentID := c.Param("id")

	var req UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	session, appointment, ok := h.authorizeAppointmentAccess(c, appointmentID)
	if !ok {
		return
	}

	changes := store.AppointmentChanges{
		AppointmentDate: req.AppointmentDate,
		DurationMinutes: req.DurationMinutes,
		Notes:           req.Notes,
		PatientNotes:    req.PatientNotes,
	}
	if req.Status != nil {
		status := models.AppointmentStatus(*req.Status)
		if session.Role == models.RolePatient && status != models.StatusCancelled {
			utils.Forbidden(c, "Patients can only cancel appointments.")
			return
		}
		changes.Status = &status
	}
	if req.Type != nil {
		aptType := models.AppointmentType(*req.Type)
		changes.Type = &aptType
	}
	if req.AppointmentDate != nil && req.AppointmentDate.Before(time.Now()) {
		utils.BadRequest(c, "Appointment date must be in the future.")
		return
	}

	s := store.NewAppointmentStore(session, h.Repo)
	updated, err := s.Update(c.Request.Context(), appointment.ID, changes)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	utils.Success(c, "Appointment updated successfully", updated)
}

// CancelAppointmentRequest represents the request body for cancellation.
type CancelAppointmentRequest struct {
	Reason string `json:"reason"`
}

// CancelAppointment handles cancelling an appointment, recording the
// optional reason in the notes field.
func (h *AppointmentHandler) CancelAppointment(c *gin.Context) {
	appointmentID := c.Param("id")

	var req CancelAppointmentRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.BadRequest(c, "Invalid request payload: "+err.Error())
			return
		}
	}

	session, appointment, ok := h.authorizeAppointmentAccess(c, appointmentID)
	if !ok {
		return
	}

	s := store.NewAppointmentStore(session, h.Repo)
	if err := s.Cancel(c.Request.Context(), appointment.ID, req.Reason); err != nil {
		respondStoreError(c, err)
		return
	}

	utils.Success(c, "Appointment cancelled successfully", nil)
}

// GetUpcomingAppointments handles fetching the next scheduled/confirmed
// appointments for the logged-in user.
func (h *AppointmentHandler) GetUpcomingAppointments(c *gin.Context) {
	s, ok := h.storeForSession(c)
	if !ok {
		return
	}

	limit := 5
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			utils.BadRequest(c, "Invalid limit parameter")
			return
		}
		limit = parsed
	}

	appointments, err := s.Upcoming(c.Request.Context(), limit)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	utils.Success(c, "Upcoming appointments fetched successfully", appointments)
}

// CalendarResponse is the month view rendered by the calendar screen.
type CalendarResponse struct {
	Month  string                                            `json:"month"`
	Days   []calendar.DayView                                `json:"days"`
	Legend map[models.AppointmentStatus]calendar.StatusStyle `json:"legend"`
}

// GetCalendar handles rendering the 42-cell month view with the user's
// appointments bucketed per day.
func (h *AppointmentHandler) GetCalendar(c *gin.Context) {
	s, ok := h.storeForSession(c)
	if !ok {
		return
	}

	ref := time.Now()
	if raw := c.Query("month"); raw != "" {
		parsed, err := time.Parse("2006-01", raw)
		if err != nil {
			utils.BadRequest(c, "Invalid month parameter, expected YYYY-MM")
			return
		}
		ref = parsed
	}

	appointments, err := s.List(c.Request.Context())
	if err != nil {
		respondStoreError(c, err)
		return
	}

	legend := make(map[models.AppointmentStatus]calendar.StatusStyle)
	for _, status := range []models.AppointmentStatus{
		models.StatusScheduled, models.StatusConfirmed, models.StatusInProgress,
		models.StatusCompleted, models.StatusCancelled, models.StatusNoShow,
	} {
		legend[status] = calendar.StyleForStatus(status)
	}

	utils.Success(c, "Calendar fetched successfully", CalendarResponse{
		Month:  ref.Format("2006-01"),
		Days:   calendar.BuildMonthView(ref, appointments),
		Legend: legend,
	})
}

// GetTimeSlots handles listing the bookable times of a day: 09:00 to
// 17:30 in 30-minute steps.
func (h *AppointmentHandler) GetTimeSlots(c *gin.Context) {
	var slots []string
	for hour := 9; hour < 18; hour++ {
		for minute := 0; minute < 60; minute += 30 {
			slots = append(slots, fmt.Sprintf("%02d:%02d", hour, minute))
		}
	}
	utils.Success(c, "Time slots fetched successfully", slots)
}

// DashboardSummary is the landing-page overview for the logged-in user.
type DashboardSummary struct {
	TodayAppointments int                        `json:"today_appointments"`
	WeekAppointments  int                        `json:"week_appointments"`
	TotalPatients     int                        `json:"total_patients"`
	Upcoming          []models.AppointmentDetail `json:"upcoming"`
}

// GetDashboardSummary handles building the dashboard stats: today's and
// this week's counts plus the next upcoming appointments.
func (h *AppointmentHandler) GetDashboardSummary(c *gin.Context) {
	s, ok := h.storeForSession(c)
	if !ok {
		return
	}

	appointments, err := s.List(c.Request.Context())
	if err != nil {
		respondStoreError(c, err)
		return
	}

	upcoming, err := s.Upcoming(c.Request.Context(), 5)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	now := time.Now()
	weekFromNow := now.AddDate(0, 0, 7)
	patients := make(map[string]struct{})
	summary := DashboardSummary{Upcoming: upcoming}
	summary.TodayAppointments = len(calendar.AppointmentsOnDate(appointments, now))
	for _, apt := range appointments {
		patients[apt.PatientID] = struct{}{}
		if apt.AppointmentDate.After(now) && apt.AppointmentDate.Before(weekFromNow) {
			summary.WeekAppointments++
		}
	}
	summary.TotalPatients = len(patients)

	utils.Success(c, "Dashboard summary fetched successfully", summary)
}

// authorizeAppointmentAccess fetches the appointment and verifies the
// session user is the involved patient or doctor. On failure a response
// is written and ok is false.
func (h *AppointmentHandler) authorizeAppointmentAccess(c *gin.Context, id string) (store.Session, *models.AppointmentDetail, bool) {
	session, ok := middleware.GetSessionFromContext(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return store.Session{}, nil, false
	}

	appointment, err := h.Repo.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Appointment not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return store.Session{}, nil, false
	}

	if session.UserID != appointment.PatientID && session.UserID != appointment.DoctorID {
		utils.Forbidden(c, "You are not authorized to access this appointment")
		return store.Session{}, nil, false
	}

	return session, appointment, true
}
