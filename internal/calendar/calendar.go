// Package calendar builds the month-view model for appointment screens:
// a fixed 42-cell day grid plus per-day bucketing of appointments.
package calendar

import (
	"sort"
	"time"

	"medicos-platform-server/internal/models"
)

// GridSize is the number of cells in a month grid: 6 rows of 7 days. The
// grid is always this size regardless of month length or start weekday.
const GridSize = 42

// Cell is one day slot of the month grid. Leading and trailing cells
// belong to the adjacent months and carry IsCurrentMonth=false.
type Cell struct {
	Date           time.Time `json:"date"`
	IsCurrentMonth bool      `json:"is_current_month"`
}

// BuildMonthGrid returns the 42-cell grid for the month containing ref.
// The grid starts on the Sunday of the week holding the first of the
// month and advances one calendar day per cell.
func BuildMonthGrid(ref time.Time) []Cell {
	year, month, _ := ref.Date()
	firstOfMonth := time.Date(year, month, 1, 0, 0, 0, 0, ref.Location())
	offset := int(firstOfMonth.Weekday()) // 0 = Sunday

	cells := make([]Cell, 0, GridSize)
	for i := 0; i < GridSize; i++ {
		day := firstOfMonth.AddDate(0, 0, i-offset)
		cells = append(cells, Cell{
			Date:           day,
			IsCurrentMonth: day.Month() == month && day.Year() == year,
		})
	}
	return cells
}

// SameCalendarDate reports whether two instants fall on the same calendar
// date, each read in its own stored location.
func SameCalendarDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// AppointmentsOnDate filters appointments down to those whose scheduled
// instant falls on the given calendar date. Order is not defined; use
// SortByTime for display.
func AppointmentsOnDate(appointments []models.AppointmentDetail, date time.Time) []models.AppointmentDetail {
	var matched []models.AppointmentDetail
	for _, apt := range appointments {
		if SameCalendarDate(apt.AppointmentDate, date) {
			matched = append(matched, apt)
		}
	}
	return matched
}

// SortByTime returns the appointments ordered ascending by scheduled
// instant. The input slice is not modified.
func SortByTime(appointments []models.AppointmentDetail) []models.AppointmentDetail {
	sorted := make([]models.AppointmentDetail, len(appointments))
	copy(sorted, appointments)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].AppointmentDate.Before(sorted[j].AppointmentDate)
	})
	return sorted
}

// DayView is the grid cell enriched with that day's appointments, sorted
// by time, as rendered by the calendar screen.
type DayView struct {
	Cell
	Appointments []models.AppointmentDetail `json:"appointments"`
}

// BuildMonthView buckets appointments into the 42-cell grid of the month
// containing ref. Day selection and month navigation re-derive from the
// same appointment collection without another fetch.
func BuildMonthView(ref time.Time, appointments []models.AppointmentDetail) []DayView {
	cells := BuildMonthGrid(ref)
	days := make([]DayView, len(cells))
	for i, cell := range cells {
		days[i] = DayView{
			Cell:         cell,
			Appointments: SortByTime(AppointmentsOnDate(appointments, cell.Date)),
		}
	}
	return days
}
