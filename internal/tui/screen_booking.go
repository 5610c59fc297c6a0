// ABOUTME: Booking screen: date/court/duration pickers, grouped slot list, and confirmation dialog
// ABOUTME: Availability results are applied only for the fetch ticket that is still current

package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/sync/errgroup"

	"github.com/yaswanth756/vibha-sports-client/internal/apperr"
	"github.com/yaswanth756/vibha-sports-client/internal/booking"
	"github.com/yaswanth756/vibha-sports-client/internal/models"
	"github.com/yaswanth756/vibha-sports-client/internal/selection"
	"github.com/yaswanth756/vibha-sports-client/internal/session"
	"github.com/yaswanth756/vibha-sports-client/internal/slots"
	"github.com/yaswanth756/vibha-sports-client/internal/tui/icons"
	"github.com/yaswanth756/vibha-sports-client/internal/tui/styles"
)

const dateChipLayout = "Mon 02 Jan"

func (a *App) openBooking() (tea.Model, tea.Cmd) {
	a.screen = ScreenBooking
	a.dates = slots.Dates(a.now(), a.cfg.BookingDays)
	if a.dateIdx >= len(a.dates) {
		a.dateIdx = 0
	}
	return a, a.loadAvailability()
}

func (a *App) court() string {
	if len(a.cfg.Courts) == 0 {
		return ""
	}
	return a.cfg.Courts[a.courtIdx%len(a.cfg.Courts)]
}

func (a *App) durationType() models.DurationType {
	return models.DurationTypes[a.typeIdx%len(models.DurationTypes)]
}

func (a *App) date() time.Time {
	if len(a.dates) == 0 {
		return time.Time{}
	}
	return a.dates[a.dateIdx]
}

func (a *App) browsingContext() selection.Context {
	return selection.Context{
		Date:  a.date().Format(models.DateLayout),
		Court: a.court(),
		Type:  a.durationType(),
	}
}

// loadAvailability makes the pickers' values the active context and fetches it.
// A changed context clears the selection.
func (a *App) loadAvailability() tea.Cmd {
	c := a.browsingContext()
	a.engine.SetContext(c)
	t := a.fetcher.Begin(slots.Query{Date: c.Date, Court: c.Court, Type: c.Type})
	return a.fetchSlots(t)
}

// fetchSlots loads availability and the court price for t concurrently
func (a *App) fetchSlots(t slots.Ticket) tea.Cmd {
	a.loadingSlots = true
	fetcher, apiClient := a.fetcher, a.client

	return func() tea.Msg {
		ctx := context.Background()
		var (
			list  []models.Slot
			price float64
		)

		var g errgroup.Group
		g.Go(func() error {
			list = fetcher.Load(ctx, t)
			return nil
		})
		g.Go(func() error {
			var err error
			price, err = apiClient.CourtPrice(ctx, t.Query.Court)
			return err
		})
		priceErr := g.Wait()

		return slotsLoadedMsg{ticket: t, slots: list, price: price, priceErr: priceErr}
	}
}

func (a *App) handleSlotsLoaded(msg slotsLoadedMsg) (tea.Model, tea.Cmd) {
	if !a.fetcher.Accept(msg.ticket) {
		return a, nil
	}

	a.loadingSlots = false
	a.lastUpdate = a.now()
	a.buckets = slots.Group(msg.slots, msg.ticket.Query.Type)
	a.visible = append(append([]models.Slot(nil), a.buckets.MorningAfternoon...), a.buckets.Evening...)
	a.cursor = clamp(a.cursor, len(a.visible))

	if a.submitter.NeedsRefresh() {
		a.submitter.AcknowledgeRefresh()
	}

	if msg.priceErr != nil {
		a.engine.SetPricePerHour(0)
		return a, a.notifyError(msg.priceErr)
	}
	a.engine.SetPricePerHour(msg.price)
	return a, nil
}

func (a *App) updateBooking(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.submitter.State() != booking.Idle {
		return a.updateBookingDialog(msg)
	}

	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit
	case key.Matches(msg, a.keys.Help):
		a.help.ShowAll = !a.help.ShowAll
	case key.Matches(msg, a.keys.Back):
		a.screen = ScreenHome
		return a, a.menu.Init()
	case key.Matches(msg, a.keys.Up):
		if a.cursor > 0 {
			a.cursor--
		}
	case key.Matches(msg, a.keys.Down):
		if a.cursor < len(a.visible)-1 {
			a.cursor++
		}
	case key.Matches(msg, a.keys.Left):
		if a.dateIdx > 0 {
			a.dateIdx--
			a.cursor = 0
			return a, a.loadAvailability()
		}
	case key.Matches(msg, a.keys.Right):
		if a.dateIdx < len(a.dates)-1 {
			a.dateIdx++
			a.cursor = 0
			return a, a.loadAvailability()
		}
	case key.Matches(msg, a.keys.Court):
		a.courtIdx = (a.courtIdx + 1) % max(len(a.cfg.Courts), 1)
		a.cursor = 0
		return a, a.loadAvailability()
	case key.Matches(msg, a.keys.Type):
		a.typeIdx = (a.typeIdx + 1) % len(models.DurationTypes)
		a.cursor = 0
		return a, a.loadAvailability()
	case key.Matches(msg, a.keys.Refresh):
		return a, a.fetchSlots(a.fetcher.Refresh())
	case key.Matches(msg, a.keys.Toggle):
		return a.toggleSlot()
	case key.Matches(msg, a.keys.Proceed):
		return a.proceed()
	}
	return a, nil
}

func (a *App) toggleSlot() (tea.Model, tea.Cmd) {
	if a.loadingSlots || len(a.visible) == 0 {
		return a, nil
	}
	if err := a.engine.Toggle(a.visible[a.cursor]); err != nil {
		return a, a.notifyError(err)
	}
	return a, nil
}

func (a *App) proceed() (tea.Model, tea.Cmd) {
	err := a.submitter.Proceed()
	switch {
	case err == nil:
		return a, nil
	case errors.Is(err, booking.ErrEmptySelection):
		return a, a.notify("Select at least one slot to book.", levelWarning)
	case apperr.IsSessionError(err):
		return a.redirectToLogin(ScreenBooking, apperr.Message(err))
	default:
		return a, a.notifyError(err)
	}
}

func (a *App) updateBookingDialog(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch a.submitter.State() {
	case booking.Succeeded:
		a.submitter.Dismiss()
		return a, nil

	case booking.Submitting:
		// Confirm is absorbed by the submitter while the request is in flight
		if key.Matches(msg, a.keys.Confirm) {
			return a.confirmBooking()
		}
		return a, nil
	}

	switch {
	case key.Matches(msg, a.keys.Confirm):
		if a.submitter.State() == booking.Failed && !apperr.Retryable(a.submitter.LastError()) {
			return a, nil
		}
		return a.confirmBooking()
	case key.Matches(msg, a.keys.Deny):
		a.submitter.CancelDialog()
	}
	return a, nil
}

func (a *App) confirmBooking() (tea.Model, tea.Cmd) {
	req, err := a.submitter.Begin()
	switch {
	case errors.Is(err, booking.ErrSubmitInFlight):
		return a, nil
	case apperr.IsSessionError(err):
		return a.redirectToLogin(ScreenBooking, apperr.Message(err))
	case err != nil:
		return a, a.notifyError(err)
	}

	apiClient := a.client
	return a, func() tea.Msg {
		b, err := apiClient.CreateBooking(context.Background(), req)
		return bookingResultMsg{booking: b, err: err}
	}
}

func (a *App) handleBookingResult(msg bookingResultMsg) (tea.Model, tea.Cmd) {
	a.submitter.Complete(msg.booking, msg.err)

	if msg.err != nil {
		if apperr.IsSessionError(msg.err) {
			a.submitter.CancelDialog()
			a.sessions.Teardown(session.ReasonInvalid)
			return a.redirectToLogin(ScreenBooking, apperr.Message(msg.err))
		}
		return a, a.notifyError(msg.err)
	}

	cmds := []tea.Cmd{a.notify("Booking confirmed!", levelOK)}
	if a.submitter.NeedsRefresh() {
		cmds = append(cmds, a.fetchSlots(a.fetcher.Refresh()))
	}
	return a, tea.Batch(cmds...)
}

func (a *App) viewBooking() string {
	var sb strings.Builder

	sb.WriteString(styles.Title.Render(icons.Court.String() + " Book a court"))
	sb.WriteString("\n")

	labels := make([]string, len(a.dates))
	for i, d := range a.dates {
		labels[i] = d.Format(dateChipLayout)
	}
	sb.WriteString(icons.Calendar.String() + " " + styles.Chips(labels, a.dateIdx))
	sb.WriteString("\n")

	types := make([]string, len(models.DurationTypes))
	for i, t := range models.DurationTypes {
		types[i] = string(t)
	}
	pickers := icons.Court.String() + " " + styles.Chips(a.cfg.Courts, a.courtIdx) +
		"   " + icons.Clock.String() + " " + styles.Chips(types, a.typeIdx)
	if p := a.engine.PricePerHour(); p > 0 {
		pickers += "   " + styles.Price.Render(formatPrice(p)+"/hr")
	}
	sb.WriteString(pickers)
	sb.WriteString("\n\n")

	sb.WriteString(a.viewSlots())
	sb.WriteString("\n\n")
	sb.WriteString(a.viewSelectionSummary())

	if a.submitter.State() != booking.Idle {
		sb.WriteString("\n\n")
		sb.WriteString(a.viewBookingDialog())
	}

	return sb.String()
}

func (a *App) viewSlots() string {
	muted := lipgloss.NewStyle().Foreground(styles.Muted)

	if a.loadingSlots {
		return a.spinner.View() + " Loading slots..."
	}
	notice := slots.EmptyNotice(a.date(), a.now()).Text()

	var lines []string
	idx := 0
	groups := []struct {
		title string
		slots []models.Slot
	}{
		{"Morning & Afternoon", a.buckets.MorningAfternoon},
		{"Evening", a.buckets.Evening},
	}
	for _, g := range groups {
		lines = append(lines, styles.Section.Render(g.title))
		if len(g.slots) == 0 {
			lines = append(lines, "  "+muted.Render(notice))
			continue
		}
		for _, s := range g.slots {
			lines = append(lines, a.slotRow(idx, s))
			idx++
		}
	}
	return strings.Join(lines, "\n")
}

func (a *App) slotRow(idx int, s models.Slot) string {
	pointer := "  "
	if idx == a.cursor {
		pointer = styles.Cursor.Render(icons.Pointer.String()) + " "
	}

	mark := icons.Unchecked.String()
	label := styles.Unselected.Render(slots.FormatRange(s.StartTime, s.EndTime))
	if a.engine.Contains(s.ID) {
		mark = styles.Selected.Render(icons.Checked.String())
		label = styles.Selected.Render(slots.FormatRange(s.StartTime, s.EndTime))
	}
	return pointer + mark + " " + label
}

func (a *App) viewSelectionSummary() string {
	n := a.engine.Len()
	if n == 0 {
		return lipgloss.NewStyle().Foreground(styles.Muted).Render("No slots selected")
	}
	return fmt.Sprintf("%s %s  %s %s",
		icons.Ticket.String(),
		styles.ValueStyle.Render(pluralize(n, "slot")),
		icons.Cash.String(),
		styles.Price.Render("Total "+formatPrice(a.engine.TotalPrice())),
	)
}

func (a *App) viewBookingDialog() string {
	var lines []string

	switch state := a.submitter.State(); state {
	case booking.Confirming, booking.Failed:
		c := a.engine.Context()
		lines = append(lines,
			styles.Section.Render("Confirm booking"),
			fmt.Sprintf("%s  %s  %s", c.Court, c.Date, c.Type),
			"",
		)
		for _, s := range a.engine.Slots() {
			lines = append(lines, "  "+slots.FormatRange(s.StartTime, s.EndTime))
		}
		lines = append(lines, "", styles.Price.Render("Total "+formatPrice(a.engine.TotalPrice())), "")
		if state == booking.Failed {
			hint := styles.KeyStyle.Render("n") + " Close"
			if apperr.Retryable(a.submitter.LastError()) {
				hint = styles.KeyStyle.Render("y") + " Retry  " + hint
			}
			lines = append(lines,
				styles.StatusCritical.Render(icons.Critical.String()+" "+apperr.Message(a.submitter.LastError())),
				hint,
			)
		} else {
			lines = append(lines, styles.KeyStyle.Render("y")+" Confirm  "+styles.KeyStyle.Render("n")+" Cancel")
		}

	case booking.Submitting:
		lines = append(lines, a.spinner.View()+" Booking your slots...")

	case booking.Succeeded:
		lines = append(lines, styles.StatusOK.Render(icons.CheckOK.String()+" Booking confirmed"))
		if b := a.submitter.Booking(); b != nil {
			lines = append(lines,
				"",
				fmt.Sprintf("Booking ID  %s", b.BookingID),
				fmt.Sprintf("%s  %s  %s", b.Court, b.BookingDate, slots.FormatRange(b.StartTime, b.EndTime)),
				styles.Price.Render(formatPrice(b.Price)),
			)
		}
		lines = append(lines, "", "Pay at the reception before you play.", lipgloss.NewStyle().Foreground(styles.Muted).Render("Press any key to continue"))
	}

	return styles.Dialog.Render(strings.Join(lines, "\n"))
}

func formatPrice(p float64) string {
	return fmt.Sprintf("₹%.0f", p)
}

func pluralize(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// clamp keeps a cursor inside a list of n items
func clamp(cursor, n int) int {
	if cursor >= n {
		cursor = n - 1
	}
	if cursor < 0 {
		cursor = 0
	}
	return cursor
}
