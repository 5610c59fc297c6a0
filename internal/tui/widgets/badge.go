// ABOUTME: Inline badges and status text for bookings, payments and notices
// ABOUTME: Maps booking state and error kinds onto a small set of severity levels

package widgets

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/yaswanth756/vibha-sports-client/internal/apperr"
	"github.com/yaswanth756/vibha-sports-client/internal/models"
	"github.com/yaswanth756/vibha-sports-client/internal/tui/icons"
)

// StatusLevel represents the severity of a status
type StatusLevel int

const (
	StatusOK StatusLevel = iota
	StatusWarning
	StatusCritical
	StatusInfo
	StatusNeutral
)

type levelStyle struct {
	bg, fg lipgloss.Color
	icon   icons.Icon
}

var levels = map[StatusLevel]levelStyle{
	StatusOK:       {lipgloss.Color("#10B981"), lipgloss.Color("#FFFFFF"), icons.CheckOK},
	StatusWarning:  {lipgloss.Color("#F59E0B"), lipgloss.Color("#000000"), icons.Warning},
	StatusCritical: {lipgloss.Color("#EF4444"), lipgloss.Color("#FFFFFF"), icons.Critical},
	StatusInfo:     {lipgloss.Color("#3B82F6"), lipgloss.Color("#FFFFFF"), icons.Info},
}

func styleFor(level StatusLevel) levelStyle {
	if s, ok := levels[level]; ok {
		return s
	}
	return levelStyle{lipgloss.Color("#6B7280"), lipgloss.Color("#FFFFFF"), icons.Icon{NerdFont: "•", Fallback: "•"}}
}

// Badge renders text on a background colored by level
func Badge(text string, level StatusLevel) string {
	s := styleFor(level)
	return lipgloss.NewStyle().
		Background(s.bg).
		Foreground(s.fg).
		Padding(0, 1).
		Bold(true).
		Render(text)
}

// StatusText returns text prefixed with the level's icon, both in the level color
func StatusText(text string, level StatusLevel) string {
	s := styleFor(level)
	style := lipgloss.NewStyle().Foreground(s.bg)
	return style.Render(s.icon.String()) + " " + style.Render(text)
}

// BookingStatusBadge renders the lifecycle state of a booking
func BookingStatusBadge(status models.BookingStatus) string {
	switch status {
	case models.StatusBooked:
		return Badge("Booked", StatusInfo)
	case models.StatusCompleted:
		return Badge("Completed", StatusOK)
	case models.StatusCancelled:
		return Badge("Cancelled", StatusCritical)
	default:
		return Badge(string(status), StatusNeutral)
	}
}

// PaymentBadge renders whether a booking has been paid
func PaymentBadge(status models.PaymentStatus) string {
	if status == models.PaymentPaid {
		return Badge("Paid", StatusOK)
	}
	return Badge("Pay at reception", StatusWarning)
}

// LevelForError picks the notice level for a failed action.
// Rule violations the user can fix are warnings; everything else is critical.
func LevelForError(err error) StatusLevel {
	switch apperr.KindOf(err) {
	case apperr.SelectionConflict, apperr.LeadTimeViolation, apperr.Unauthorized:
		return StatusWarning
	default:
		return StatusCritical
	}
}
