package store

import (
	"context"
	"errors"
	"sort"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medicos-platform-server/internal/models"
)

// Compile-time check that the mock satisfies the contract.
var _ AppointmentRepository = (*MockAppointmentRepository)(nil)

// MockAppointmentRepository is a func-field mock of AppointmentRepository.
type MockAppointmentRepository struct {
	ListForUserFunc func(ctx context.Context, userID string) ([]models.AppointmentDetail, error)
	GetByIDFunc     func(ctx context.Context, id string) (*models.AppointmentDetail, error)
	InsertFunc      func(ctx context.Context, appointment *models.Appointment) (*models.AppointmentDetail, error)
	SaveFunc        func(ctx context.Context, id string, changes AppointmentChanges) (*models.AppointmentDetail, error)
	UpcomingFunc    func(ctx context.Context, userID string, after time.Time, limit int) ([]models.AppointmentDetail, error)

	InsertCallCount int32
	SaveCallCount   int32
}

func (m *MockAppointmentRepository) ListForUser(ctx context.Context, userID string) ([]models.AppointmentDetail, error) {
	if m.ListForUserFunc != nil {
		return m.ListForUserFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockAppointmentRepository) GetByID(ctx context.Context, id string) (*models.AppointmentDetail, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, errors.New("GetByIDFunc not implemented in mock")
}

func (m *MockAppointmentRepository) Insert(ctx context.Context, appointment *models.Appointment) (*models.AppointmentDetail, error) {
	atomic.AddInt32(&m.InsertCallCount, 1)
	if m.InsertFunc != nil {
		return m.InsertFunc(ctx, appointment)
	}
	return nil, errors.New("InsertFunc not implemented in mock")
}

func (m *MockAppointmentRepository) Save(ctx context.Context, id string, changes AppointmentChanges) (*models.AppointmentDetail, error) {
	atomic.AddInt32(&m.SaveCallCount, 1)
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, id, changes)
	}
	return nil, errors.New("SaveFunc not implemented in mock")
}

func (m *MockAppointmentRepository) Upcoming(ctx context.Context, userID string, after time.Time, limit int) ([]models.AppointmentDetail, error) {
	if m.UpcomingFunc != nil {
		return m.UpcomingFunc(ctx, userID, after, limit)
	}
	return nil, nil
}

func fixedNow() time.Time {
	return time.Date(2026, time.April, 1, 12, 0, 0, 0, time.UTC)
}

func testSession() Session {
	return Session{UserID: "patient-1", Role: models.RolePatient}
}

func detailWith(id string, status models.AppointmentStatus, at time.Time) models.AppointmentDetail {
	apt := models.Appointment{
		PatientID:       "patient-1",
		DoctorID:        "doctor-1",
		SpecialtyID:     "spec-1",
		AppointmentDate: at,
		DurationMinutes: 30,
		Status:          status,
		Type:            models.TypeConsultation,
	}
	apt.ID = id
	return models.AppointmentDetail{Appointment: apt}
}

func validCreateData() CreateAppointmentData {
	return CreateAppointmentData{
		PatientID:   "patient-1",
		DoctorID:    "doctor-1",
		SpecialtyID: "spec-1",
		Date:        "2026-04-07",
		Time:        "09:30",
	}
}

func newTestStore(repo AppointmentRepository) *AppointmentStore {
	s := NewAppointmentStore(testSession(), repo)
	s.now = fixedNow
	return s
}

func TestCreateRejectsPastInstantBeforeAnyRemoteCall(t *testing.T) {
	repo := &MockAppointmentRepository{}
	s := newTestStore(repo)

	data := validCreateData()
	data.Date = "2026-03-30" // before fixedNow
	data.Time = "10:00"

	_, err := s.Create(context.Background(), data)

	var fieldErrs FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Contains(t, fieldErrs, "appointment_date")
	assert.Equal(t, int32(0), repo.InsertCallCount, "no remote call expected")
}

func TestCreateRejectsMissingFields(t *testing.T) {
	repo := &MockAppointmentRepository{}
	s := newTestStore(repo)

	_, err := s.Create(context.Background(), CreateAppointmentData{})

	var fieldErrs FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	for _, field := range []string{"doctor_id", "patient_id", "specialty_id", "appointment_date", "appointment_time"} {
		assert.Contains(t, fieldErrs, field)
	}
	assert.Equal(t, int32(0), repo.InsertCallCount)
}

func TestCreateAppliesDefaultsAndAppendsLocally(t *testing.T) {
	var inserted *models.Appointment
	repo := &MockAppointmentRepository{
		ListForUserFunc: func(ctx context.Context, userID string) ([]models.AppointmentDetail, error) {
			return nil, nil
		},
		InsertFunc: func(ctx context.Context, appointment *models.Appointment) (*models.AppointmentDetail, error) {
			inserted = appointment
			appointment.ID = "apt-1"
			return &models.AppointmentDetail{Appointment: *appointment}, nil
		},
	}
	s := newTestStore(repo)

	_, err := s.List(context.Background())
	require.NoError(t, err)

	created, err := s.Create(context.Background(), validCreateData())
	require.NoError(t, err)

	require.NotNil(t, inserted)
	assert.Equal(t, models.StatusScheduled, inserted.Status)
	assert.Equal(t, models.TypeConsultation, inserted.Type)
	assert.Equal(t, DefaultDurationMinutes, inserted.DurationMinutes)
	assert.Equal(t, time.Date(2026, time.April, 7, 9, 30, 0, 0, time.UTC), inserted.AppointmentDate)

	local := s.Appointments()
	require.Len(t, local, 1)
	assert.Equal(t, created.ID, local[0].ID)
}

func TestUpdateRejectsDisallowedTransition(t *testing.T) {
	existing := detailWith("apt-1", models.StatusScheduled, fixedNow().AddDate(0, 0, 3))
	repo := &MockAppointmentRepository{
		ListForUserFunc: func(ctx context.Context, userID string) ([]models.AppointmentDetail, error) {
			return []models.AppointmentDetail{existing}, nil
		},
	}
	s := newTestStore(repo)
	_, err := s.List(context.Background())
	require.NoError(t, err)

	completed := models.StatusCompleted
	_, err = s.Update(context.Background(), "apt-1", AppointmentChanges{Status: &completed})

	require.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, int32(0), repo.SaveCallCount)
}

func TestUpdateRejectsUnknownStatus(t *testing.T) {
	repo := &MockAppointmentRepository{}
	s := newTestStore(repo)

	bogus := models.AppointmentStatus("rescheduled")
	_, err := s.Update(context.Background(), "apt-1", AppointmentChanges{Status: &bogus})

	require.ErrorIs(t, err, ErrUnknownStatus)
	assert.Equal(t, int32(0), repo.SaveCallCount)
}

func TestUpdateReplacesLocalRecordOnSuccess(t *testing.T) {
	existing := detailWith("apt-1", models.StatusScheduled, fixedNow().AddDate(0, 0, 3))
	updated := existing
	updated.Status = models.StatusConfirmed
	updated.UpdatedAt = fixedNow()

	repo := &MockAppointmentRepository{
		ListForUserFunc: func(ctx context.Context, userID string) ([]models.AppointmentDetail, error) {
			return []models.AppointmentDetail{existing}, nil
		},
		SaveFunc: func(ctx context.Context, id string, changes AppointmentChanges) (*models.AppointmentDetail, error) {
			require.NotNil(t, changes.Status)
			assert.Equal(t, models.StatusConfirmed, *changes.Status)
			return &updated, nil
		},
	}
	s := newTestStore(repo)
	_, err := s.List(context.Background())
	require.NoError(t, err)

	confirmed := models.StatusConfirmed
	result, err := s.Update(context.Background(), "apt-1", AppointmentChanges{Status: &confirmed})
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, result.Status)

	local := s.Appointments()
	require.Len(t, local, 1)
	assert.Equal(t, models.StatusConfirmed, local[0].Status)
}

func TestUpdateFetchesStatusRemotelyWhenNotCached(t *testing.T) {
	existing := detailWith("apt-1", models.StatusCompleted, fixedNow().AddDate(0, 0, -3))
	repo := &MockAppointmentRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*models.AppointmentDetail, error) {
			return &existing, nil
		},
	}
	s := newTestStore(repo)

	cancelled := models.StatusCancelled
	_, err := s.Update(context.Background(), "apt-1", AppointmentChanges{Status: &cancelled})

	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestCancelPatchesOnlyStatusNotesAndUpdateTime(t *testing.T) {
	existing := detailWith("apt-1", models.StatusConfirmed, fixedNow().AddDate(0, 0, 3))
	existing.PatientNotes = "knee pain"

	repo := &MockAppointmentRepository{
		ListForUserFunc: func(ctx context.Context, userID string) ([]models.AppointmentDetail, error) {
			return []models.AppointmentDetail{existing}, nil
		},
		SaveFunc: func(ctx context.Context, id string, changes AppointmentChanges) (*models.AppointmentDetail, error) {
			require.NotNil(t, changes.Status)
			require.NotNil(t, changes.Notes)
			assert.Equal(t, models.StatusCancelled, *changes.Status)
			assert.Equal(t, "Cancelled: patient request", *changes.Notes)
			assert.Nil(t, changes.AppointmentDate)
			assert.Nil(t, changes.DurationMinutes)
			assert.Nil(t, changes.Type)
			assert.Nil(t, changes.PatientNotes)

			result := existing
			result.Status = *changes.Status
			result.Notes = *changes.Notes
			result.UpdatedAt = fixedNow()
			return &result, nil
		},
	}
	s := newTestStore(repo)
	_, err := s.List(context.Background())
	require.NoError(t, err)

	require.NoError(t, s.Cancel(context.Background(), "apt-1", "patient request"))

	local := s.Appointments()
	require.Len(t, local, 1)
	got := local[0]
	assert.Equal(t, models.StatusCancelled, got.Status)
	assert.Equal(t, "Cancelled: patient request", got.Notes)
	assert.Equal(t, fixedNow(), got.UpdatedAt)

	// Everything else byte-identical with the pre-cancel record.
	got.Status = existing.Status
	got.Notes = existing.Notes
	got.UpdatedAt = existing.UpdatedAt
	assert.Equal(t, existing, got)
}

func TestCancelWithoutReason(t *testing.T) {
	existing := detailWith("apt-1", models.StatusScheduled, fixedNow().AddDate(0, 0, 3))
	repo := &MockAppointmentRepository{
		ListForUserFunc: func(ctx context.Context, userID string) ([]models.AppointmentDetail, error) {
			return []models.AppointmentDetail{existing}, nil
		},
		SaveFunc: func(ctx context.Context, id string, changes AppointmentChanges) (*models.AppointmentDetail, error) {
			assert.Equal(t, "Cancelled", *changes.Notes)
			result := existing
			result.Status = *changes.Status
			result.Notes = *changes.Notes
			return &result, nil
		},
	}
	s := newTestStore(repo)
	_, err := s.List(context.Background())
	require.NoError(t, err)

	require.NoError(t, s.Cancel(context.Background(), "apt-1", ""))
}

func TestCancelRejectsTerminalStates(t *testing.T) {
	for _, status := range []models.AppointmentStatus{models.StatusCompleted, models.StatusCancelled, models.StatusNoShow} {
		t.Run(string(status), func(t *testing.T) {
			existing := detailWith("apt-1", status, fixedNow().AddDate(0, 0, -1))
			repo := &MockAppointmentRepository{
				ListForUserFunc: func(ctx context.Context, userID string) ([]models.AppointmentDetail, error) {
					return []models.AppointmentDetail{existing}, nil
				},
			}
			s := newTestStore(repo)
			_, err := s.List(context.Background())
			require.NoError(t, err)

			err = s.Cancel(context.Background(), "apt-1", "")
			if status == models.StatusCancelled {
				// Cancelling twice is a no-op transition, not an error.
				assert.NotErrorIs(t, err, ErrInvalidTransition)
			} else {
				require.ErrorIs(t, err, ErrInvalidTransition)
				assert.Equal(t, int32(0), repo.SaveCallCount)
			}
		})
	}
}

func TestUpcomingForwardsQueryAndRespectsLimit(t *testing.T) {
	// Fixture: 7 future scheduled/confirmed appointments and 2 past
	// ones. The mock applies the documented remote query semantics.
	var fixture []models.AppointmentDetail
	for i := 1; i <= 7; i++ {
		status := models.StatusScheduled
		if i%2 == 0 {
			status = models.StatusConfirmed
		}
		fixture = append(fixture, detailWith(
			"future-"+string(rune('0'+i)), status, fixedNow().AddDate(0, 0, i)))
	}
	fixture = append(fixture,
		detailWith("past-1", models.StatusScheduled, fixedNow().AddDate(0, 0, -1)),
		detailWith("past-2", models.StatusConfirmed, fixedNow().AddDate(0, 0, -2)))

	repo := &MockAppointmentRepository{
		UpcomingFunc: func(ctx context.Context, userID string, after time.Time, limit int) ([]models.AppointmentDetail, error) {
			assert.Equal(t, "patient-1", userID)
			assert.Equal(t, fixedNow(), after)

			var matched []models.AppointmentDetail
			for _, apt := range fixture {
				if apt.AppointmentDate.Before(after) {
					continue
				}
				if apt.Status != models.StatusScheduled && apt.Status != models.StatusConfirmed {
					continue
				}
				matched = append(matched, apt)
			}
			sort.Slice(matched, func(i, j int) bool {
				return matched[i].AppointmentDate.Before(matched[j].AppointmentDate)
			})
			if len(matched) > limit {
				matched = matched[:limit]
			}
			return matched, nil
		},
	}
	s := newTestStore(repo)

	upcoming, err := s.Upcoming(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, upcoming, 5)
	for i := 1; i < len(upcoming); i++ {
		assert.True(t, upcoming[i-1].AppointmentDate.Before(upcoming[i].AppointmentDate))
	}
	for _, apt := range upcoming {
		assert.False(t, apt.AppointmentDate.Before(fixedNow()), "past appointment %s returned", apt.ID)
	}
}

func TestListReplacesLocalCollection(t *testing.T) {
	first := []models.AppointmentDetail{detailWith("apt-1", models.StatusScheduled, fixedNow().AddDate(0, 0, 1))}
	second := []models.AppointmentDetail{
		detailWith("apt-2", models.StatusConfirmed, fixedNow().AddDate(0, 0, 2)),
		detailWith("apt-3", models.StatusScheduled, fixedNow().AddDate(0, 0, 3)),
	}
	calls := 0
	repo := &MockAppointmentRepository{
		ListForUserFunc: func(ctx context.Context, userID string) ([]models.AppointmentDetail, error) {
			calls++
			if calls == 1 {
				return first, nil
			}
			return second, nil
		},
	}
	s := newTestStore(repo)

	got, err := s.List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)

	got, err = s.List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Len(t, s.Appointments(), 2)
}

func TestListSurfacesRemoteErrorWithoutMutatingState(t *testing.T) {
	boom := errors.New("connection reset")
	repo := &MockAppointmentRepository{
		ListForUserFunc: func(ctx context.Context, userID string) ([]models.AppointmentDetail, error) {
			return nil, boom
		},
	}
	s := newTestStore(repo)

	_, err := s.List(context.Background())
	require.ErrorIs(t, err, boom)
	assert.Empty(t, s.Appointments())
}
