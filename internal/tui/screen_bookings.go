// ABOUTME: My bookings screen with status tabs, status/payment badges, and cancellation
// ABOUTME: Cancellation is checked against the lead time before any request is sent

package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/yaswanth756/vibha-sports-client/internal/apperr"
	"github.com/yaswanth756/vibha-sports-client/internal/booking"
	"github.com/yaswanth756/vibha-sports-client/internal/guard"
	"github.com/yaswanth756/vibha-sports-client/internal/models"
	"github.com/yaswanth756/vibha-sports-client/internal/session"
	"github.com/yaswanth756/vibha-sports-client/internal/slots"
	"github.com/yaswanth756/vibha-sports-client/internal/tui/icons"
	"github.com/yaswanth756/vibha-sports-client/internal/tui/styles"
	"github.com/yaswanth756/vibha-sports-client/internal/tui/widgets"
)

func (a *App) openMyBookings() (tea.Model, tea.Cmd) {
	d := a.userGuard.Evaluate(a.now())
	if d.Outcome != guard.Allowed {
		return a.deny(d, ScreenMyBookings)
	}

	a.screen = ScreenMyBookings
	a.pendingCancel = nil
	return a, a.loadBookings(d.Claims.ID)
}

func (a *App) loadBookings(userID string) tea.Cmd {
	a.loadingBookings = true
	apiClient := a.client
	return func() tea.Msg {
		bookings, err := apiClient.UserBookings(context.Background(), userID)
		return bookingsLoadedMsg{userID: userID, bookings: bookings, err: err}
	}
}

func (a *App) handleBookingsLoaded(msg bookingsLoadedMsg) (tea.Model, tea.Cmd) {
	a.loadingBookings = false

	claims := a.sessions.Current(a.now())
	if claims == nil || claims.ID != msg.userID {
		// The identity changed while the request was in flight
		return a, nil
	}

	if msg.err != nil {
		return a.handleIdentityCallError(msg.err, ScreenMyBookings)
	}

	a.ledger.Replace(msg.bookings)
	a.lastUpdate = a.now()
	a.bookingCursor = clamp(a.bookingCursor, len(a.currentTabBookings()))
	return a, nil
}

// handleIdentityCallError reports a failed call made on the user's behalf.
// A rejected token ends the session and sends the user to log in.
func (a *App) handleIdentityCallError(err error, target Screen) (tea.Model, tea.Cmd) {
	if apperr.IsSessionError(err) {
		a.sessions.Teardown(session.ReasonInvalid)
		return a.redirectToLogin(target, apperr.Message(err))
	}
	return a, a.notifyError(err)
}

func (a *App) currentTab() booking.Tab {
	return booking.Tabs[a.tabIdx%len(booking.Tabs)]
}

func (a *App) currentTabBookings() []models.Booking {
	return a.ledger.Filter(a.currentTab())
}

func (a *App) updateMyBookings(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.pendingCancel != nil {
		return a.updateCancelDialog(msg)
	}

	list := a.currentTabBookings()

	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit
	case key.Matches(msg, a.keys.Help):
		a.help.ShowAll = !a.help.ShowAll
	case key.Matches(msg, a.keys.Back):
		a.screen = ScreenHome
		return a, a.menu.Init()
	case key.Matches(msg, a.keys.Up):
		if a.bookingCursor > 0 {
			a.bookingCursor--
		}
	case key.Matches(msg, a.keys.Down):
		if a.bookingCursor < len(list)-1 {
			a.bookingCursor++
		}
	case key.Matches(msg, a.keys.Left):
		a.tabIdx = (a.tabIdx + len(booking.Tabs) - 1) % len(booking.Tabs)
		a.bookingCursor = 0
	case key.Matches(msg, a.keys.Right), key.Matches(msg, a.keys.Tab):
		a.tabIdx = (a.tabIdx + 1) % len(booking.Tabs)
		a.bookingCursor = 0
	case key.Matches(msg, a.keys.Refresh):
		return a.openMyBookings()
	case key.Matches(msg, a.keys.Cancel):
		if a.loadingBookings || len(list) == 0 {
			return a, nil
		}
		b := list[a.bookingCursor]
		if err := a.ledger.CheckCancel(b, a.now()); err != nil {
			return a, a.notifyCancelRefusal(err)
		}
		a.pendingCancel = &b
	}
	return a, nil
}

func (a *App) notifyCancelRefusal(err error) tea.Cmd {
	if errors.Is(err, booking.ErrNotCancellable) {
		return a.notify("Only upcoming bookings can be cancelled.", levelWarning)
	}
	return a.notifyError(err)
}

func (a *App) updateCancelDialog(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.cancelling {
		return a, nil
	}

	switch {
	case key.Matches(msg, a.keys.Confirm):
		b := *a.pendingCancel
		// Time passed while the dialog was open
		if err := a.ledger.CheckCancel(b, a.now()); err != nil {
			a.pendingCancel = nil
			return a, a.notifyCancelRefusal(err)
		}
		a.cancelling = true
		apiClient := a.client
		return a, func() tea.Msg {
			err := apiClient.CancelBooking(context.Background(), b.BookingID)
			return cancelResultMsg{id: b.BookingID, err: err}
		}
	case key.Matches(msg, a.keys.Deny):
		a.pendingCancel = nil
	}
	return a, nil
}

func (a *App) handleCancelResult(msg cancelResultMsg) (tea.Model, tea.Cmd) {
	a.cancelling = false
	a.pendingCancel = nil

	if msg.err != nil {
		return a.handleIdentityCallError(msg.err, ScreenMyBookings)
	}

	a.ledger.Remove(msg.id)
	a.bookingCursor = clamp(a.bookingCursor, len(a.currentTabBookings()))
	return a, a.notify("Booking cancelled.", levelOK)
}

func (a *App) viewMyBookings() string {
	var sb strings.Builder

	sb.WriteString(styles.Title.Render(icons.Ticket.String() + " My bookings"))
	sb.WriteString("\n")

	labels := make([]string, len(booking.Tabs))
	for i, tab := range booking.Tabs {
		labels[i] = fmt.Sprintf("%s (%d)", tab, a.ledger.Count(tab))
	}
	sb.WriteString(styles.Chips(labels, a.tabIdx%len(booking.Tabs)))
	sb.WriteString("\n\n")

	list := a.currentTabBookings()
	switch {
	case a.loadingBookings && len(a.ledger.Bookings()) == 0:
		sb.WriteString(a.spinner.View() + " Loading your bookings...")
	case len(list) == 0:
		sb.WriteString(lipgloss.NewStyle().Foreground(styles.Muted).Render("No bookings here yet."))
	default:
		rows := make([]string, len(list))
		for i, b := range list {
			rows[i] = a.bookingRow(i, b)
		}
		sb.WriteString(strings.Join(rows, "\n"))
	}

	if a.pendingCancel != nil {
		sb.WriteString("\n\n")
		sb.WriteString(a.viewCancelDialog())
	}

	return sb.String()
}

func (a *App) bookingRow(idx int, b models.Booking) string {
	pointer := "  "
	if idx == a.bookingCursor {
		pointer = styles.Cursor.Render(icons.Pointer.String()) + " "
	}

	date := b.BookingDate
	if d, err := models.ParseDate(b.BookingDate, a.now().Location()); err == nil {
		date = d.Format(dateChipLayout)
	}

	return fmt.Sprintf("%s%-10s  %-14s  %-8s  %-6s  %s  %s %s",
		pointer,
		date,
		slots.FormatRange(b.StartTime, b.EndTime),
		b.Court,
		b.Type,
		styles.Price.Render(formatPrice(b.Price)),
		widgets.BookingStatusBadge(b.Status),
		widgets.PaymentBadge(b.PaymentStatus),
	)
}

func (a *App) viewCancelDialog() string {
	b := a.pendingCancel
	var lines []string

	if a.cancelling {
		lines = append(lines, a.spinner.View()+" Cancelling...")
	} else {
		lines = append(lines,
			styles.Section.Render("Cancel this booking?"),
			fmt.Sprintf("%s  %s  %s", b.Court, b.BookingDate, slots.FormatRange(b.StartTime, b.EndTime)),
			"",
			styles.KeyStyle.Render("y")+" Cancel booking  "+styles.KeyStyle.Render("n")+" Keep it",
		)
	}

	return styles.Dialog.Render(strings.Join(lines, "\n"))
}
