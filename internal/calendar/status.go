package calendar

import (
	"medicos-platform-server/internal/models"
)

// StatusStyle is the presentation pair for an appointment status badge.
type StatusStyle struct {
	Color string `json:"color"`
	Label string `json:"label"`
}

var statusStyles = map[models.AppointmentStatus]StatusStyle{
	models.StatusScheduled:  {Color: "blue", Label: "Scheduled"},
	models.StatusConfirmed:  {Color: "green", Label: "Confirmed"},
	models.StatusInProgress: {Color: "yellow", Label: "In Progress"},
	models.StatusCompleted:  {Color: "gray", Label: "Completed"},
	models.StatusCancelled:  {Color: "red", Label: "Cancelled"},
	models.StatusNoShow:     {Color: "orange", Label: "No Show"},
}

// StyleForStatus maps an appointment status to its badge color and label.
// Unknown statuses get a neutral color and the raw status string as label,
// so the mapping is total.
func StyleForStatus(status models.AppointmentStatus) StatusStyle {
	if style, ok := statusStyles[status]; ok {
		return style
	}
	return StatusStyle{Color: "neutral", Label: string(status)}
}
