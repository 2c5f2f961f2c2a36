package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medicos-platform-server/internal/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func appointmentAt(id string, at time.Time) models.AppointmentDetail {
	apt := models.Appointment{AppointmentDate: at}
	apt.ID = id
	return models.AppointmentDetail{Appointment: apt}
}

func TestBuildMonthGridAlways42Cells(t *testing.T) {
	refs := []time.Time{
		date(2026, time.January, 1),
		date(2026, time.February, 15), // 28-day month starting Sunday
		date(2024, time.February, 29), // leap February
		date(2026, time.April, 10),    // 30-day month starting Wednesday
		date(2026, time.August, 31),   // 31-day month starting Saturday
		date(2025, time.December, 31),
	}

	for _, ref := range refs {
		cells := BuildMonthGrid(ref)
		require.Len(t, cells, GridSize, "grid for %s", ref.Format("2006-01"))
	}
}

func TestBuildMonthGridDatesIncreaseByOneDay(t *testing.T) {
	cells := BuildMonthGrid(date(2026, time.April, 10))

	for i := 1; i < len(cells); i++ {
		want := cells[i-1].Date.AddDate(0, 0, 1)
		assert.True(t, cells[i].Date.Equal(want),
			"cell %d: got %s, want %s", i, cells[i].Date, want)
	}
}

func TestBuildMonthGridCurrentMonthFlags(t *testing.T) {
	tests := []struct {
		ref          time.Time
		daysInMonth  int
		leadingCells int
	}{
		// April 2026 starts on a Wednesday and has 30 days:
		// 3 leading cells, 30 current, 9 trailing.
		{date(2026, time.April, 10), 30, 3},
		// February 2026 starts on a Sunday: no leading cells at all.
		{date(2026, time.February, 1), 28, 0},
		// August 2026 starts on a Saturday, the worst leading case.
		{date(2026, time.August, 15), 31, 6},
		// Leap February.
		{date(2024, time.February, 1), 29, 4},
	}

	for _, tt := range tests {
		t.Run(tt.ref.Format("2006-01"), func(t *testing.T) {
			cells := BuildMonthGrid(tt.ref)
			require.Len(t, cells, GridSize)

			current := 0
			for _, c := range cells {
				if c.IsCurrentMonth {
					current++
				}
			}
			assert.Equal(t, tt.daysInMonth, current)

			for i := 0; i < tt.leadingCells; i++ {
				assert.False(t, cells[i].IsCurrentMonth, "leading cell %d", i)
			}
			assert.True(t, cells[tt.leadingCells].IsCurrentMonth, "first day of month")
			last := tt.leadingCells + tt.daysInMonth - 1
			assert.True(t, cells[last].IsCurrentMonth, "last day of month")
			for i := last + 1; i < GridSize; i++ {
				assert.False(t, cells[i].IsCurrentMonth, "trailing cell %d", i)
			}
		})
	}
}

func TestBuildMonthGridFirstCellIsSunday(t *testing.T) {
	for m := time.January; m <= time.December; m++ {
		cells := BuildMonthGrid(date(2026, m, 1))
		assert.Equal(t, time.Sunday, cells[0].Date.Weekday(), "month %s", m)
	}
}

func TestAppointmentsOnDate(t *testing.T) {
	appointments := []models.AppointmentDetail{
		appointmentAt("a", time.Date(2026, time.April, 7, 9, 0, 0, 0, time.UTC)),
		appointmentAt("b", time.Date(2026, time.April, 7, 16, 30, 0, 0, time.UTC)),
		appointmentAt("c", time.Date(2026, time.April, 8, 10, 0, 0, 0, time.UTC)),
		appointmentAt("d", time.Date(2026, time.May, 7, 9, 0, 0, 0, time.UTC)),
	}

	matched := AppointmentsOnDate(appointments, date(2026, time.April, 7))
	require.Len(t, matched, 2)
	ids := []string{matched[0].ID, matched[1].ID}
	assert.ElementsMatch(t, []string{"a", "b"}, ids)

	assert.Empty(t, AppointmentsOnDate(appointments, date(2026, time.April, 9)))
}

func TestGridBucketingCoversDisplayedRange(t *testing.T) {
	// One appointment per grid day of April 2026, including the
	// leading March and trailing May cells, plus one far outside.
	cells := BuildMonthGrid(date(2026, time.April, 1))
	var appointments []models.AppointmentDetail
	for i, c := range cells {
		at := time.Date(c.Date.Year(), c.Date.Month(), c.Date.Day(), 12, 0, 0, 0, time.UTC)
		appointments = append(appointments, appointmentAt(string(rune('A'+i)), at))
	}
	appointments = append(appointments,
		appointmentAt("outside", time.Date(2026, time.July, 1, 12, 0, 0, 0, time.UTC)))

	seen := 0
	for _, c := range cells {
		day := AppointmentsOnDate(appointments, c.Date)
		require.Len(t, day, 1, "cell %s", c.Date.Format("2006-01-02"))
		assert.NotEqual(t, "outside", day[0].ID)
		seen += len(day)
	}
	assert.Equal(t, GridSize, seen)
}

func TestSortByTime(t *testing.T) {
	appointments := []models.AppointmentDetail{
		appointmentAt("late", time.Date(2026, time.April, 7, 16, 0, 0, 0, time.UTC)),
		appointmentAt("early", time.Date(2026, time.April, 7, 9, 0, 0, 0, time.UTC)),
		appointmentAt("noon", time.Date(2026, time.April, 7, 12, 0, 0, 0, time.UTC)),
	}

	sorted := SortByTime(appointments)
	require.Len(t, sorted, 3)
	assert.Equal(t, "early", sorted[0].ID)
	assert.Equal(t, "noon", sorted[1].ID)
	assert.Equal(t, "late", sorted[2].ID)

	// Input order untouched.
	assert.Equal(t, "late", appointments[0].ID)
}

func TestBuildMonthView(t *testing.T) {
	appointments := []models.AppointmentDetail{
		appointmentAt("pm", time.Date(2026, time.April, 7, 15, 0, 0, 0, time.UTC)),
		appointmentAt("am", time.Date(2026, time.April, 7, 9, 0, 0, 0, time.UTC)),
	}

	days := BuildMonthView(date(2026, time.April, 1), appointments)
	require.Len(t, days, GridSize)

	// April 2026 starts Wednesday: 3 leading cells, so the 7th sits at
	// index 3 + 6.
	day := days[9]
	require.Equal(t, 7, day.Date.Day())
	require.Len(t, day.Appointments, 2)
	assert.Equal(t, "am", day.Appointments[0].ID)
	assert.Equal(t, "pm", day.Appointments[1].ID)
}

func TestStyleForStatusIsTotal(t *testing.T) {
	statuses := []models.AppointmentStatus{
		models.StatusScheduled,
		models.StatusConfirmed,
		models.StatusInProgress,
		models.StatusCompleted,
		models.StatusCancelled,
		models.StatusNoShow,
	}

	for _, s := range statuses {
		style := StyleForStatus(s)
		assert.NotEmpty(t, style.Label, "status %s", s)
		assert.NotEmpty(t, style.Color, "status %s", s)
		// Deterministic: same input, same pair.
		assert.Equal(t, style, StyleForStatus(s))
	}
}

func TestStyleForStatusUnknownFallsBack(t *testing.T) {
	style := StyleForStatus("rescheduled")
	assert.Equal(t, "neutral", style.Color)
	assert.Equal(t, "rescheduled", style.Label)
}
