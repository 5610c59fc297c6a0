// ABOUTME: The signed-in user's bookings and the cancellation rule
// ABOUTME: Same-day cancellations need a minimum lead time before the booking starts

package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/yaswanth756/vibha-sports-client/internal/apperr"
	"github.com/yaswanth756/vibha-sports-client/internal/models"
)

// DefaultLeadTime is the minimum notice for cancelling a booking on its own day
const DefaultLeadTime = 2 * time.Hour

// LeadTimeMessage is shown when a cancellation comes too late
const LeadTimeMessage = "Cancel at least 2 hours before start time. Need help? Contact our team."

var (
	ErrBookingNotFound = errors.New("booking not found")
	ErrNotCancellable  = errors.New("only upcoming bookings can be cancelled")
)

// Service is the booking service surface the ledger needs
type Service interface {
	UserBookings(ctx context.Context, userID string) ([]models.Booking, error)
	CancelBooking(ctx context.Context, bookingID string) error
}

// Tab filters the bookings list by status
type Tab int

const (
	TabAll Tab = iota
	TabBooked
	TabCompleted
	TabCancelled
)

// Tabs lists the filters in display order
var Tabs = []Tab{TabAll, TabBooked, TabCompleted, TabCancelled}

func (t Tab) String() string {
	switch t {
	case TabBooked:
		return "Booked"
	case TabCompleted:
		return "Completed"
	case TabCancelled:
		return "Cancelled"
	default:
		return "All"
	}
}

func (t Tab) matches(b models.Booking) bool {
	switch t {
	case TabBooked:
		return b.Status == models.StatusBooked
	case TabCompleted:
		return b.Status == models.StatusCompleted
	case TabCancelled:
		return b.Status == models.StatusCancelled
	default:
		return true
	}
}

// Ledger is the local read model of one user's bookings
type Ledger struct {
	svc      Service
	loc      *time.Location
	leadTime time.Duration

	bookings []models.Booking
}

// LedgerOption customizes a Ledger
type LedgerOption func(*Ledger)

// WithLeadTime overrides DefaultLeadTime
func WithLeadTime(d time.Duration) LedgerOption {
	return func(l *Ledger) {
		l.leadTime = d
	}
}

// WithLocation sets the zone booking dates and times are interpreted in
func WithLocation(loc *time.Location) LedgerOption {
	return func(l *Ledger) {
		l.loc = loc
	}
}

// NewLedger creates an empty ledger
func NewLedger(svc Service, opts ...LedgerOption) *Ledger {
	l := &Ledger{
		svc:      svc,
		loc:      time.Local,
		leadTime: DefaultLeadTime,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load replaces the ledger with the user's bookings, newest first.
// On failure the previous contents are kept.
func (l *Ledger) Load(ctx context.Context, userID string) error {
	bookings, err := l.svc.UserBookings(ctx, userID)
	if err != nil {
		return err
	}
	l.Replace(bookings)
	return nil
}

// Replace installs bookings fetched elsewhere
func (l *Ledger) Replace(bookings []models.Booking) {
	sorted := append([]models.Booking(nil), bookings...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].BookingDate != sorted[j].BookingDate {
			return sorted[i].BookingDate > sorted[j].BookingDate
		}
		return sorted[i].StartTime > sorted[j].StartTime
	})
	l.bookings = sorted
}

// Bookings returns every loaded booking
func (l *Ledger) Bookings() []models.Booking {
	return l.bookings
}

// Filter returns the bookings shown under tab
func (l *Ledger) Filter(tab Tab) []models.Booking {
	var out []models.Booking
	for _, b := range l.bookings {
		if tab.matches(b) {
			out = append(out, b)
		}
	}
	return out
}

// Count returns how many bookings tab shows
func (l *Ledger) Count(tab Tab) int {
	n := 0
	for _, b := range l.bookings {
		if tab.matches(b) {
			n++
		}
	}
	return n
}

// Find looks up a booking by id
func (l *Ledger) Find(id string) (models.Booking, bool) {
	for _, b := range l.bookings {
		if b.BookingID == id {
			return b, true
		}
	}
	return models.Booking{}, false
}

// CheckCancel applies the local cancellation rules at now without calling the service
func (l *Ledger) CheckCancel(b models.Booking, now time.Time) error {
	if b.Status != models.StatusBooked {
		return ErrNotCancellable
	}

	startsAt, err := b.StartsAt(l.loc)
	if err != nil {
		return fmt.Errorf("booking %s: %w", b.BookingID, err)
	}

	now = now.In(l.loc)
	if models.SameDay(now, startsAt) && startsAt.Sub(now) < l.leadTime {
		return apperr.New(apperr.LeadTimeViolation, LeadTimeMessage)
	}
	return nil
}

// Cancel cancels the booking with id. The booking leaves the ledger only once
// the service confirms.
func (l *Ledger) Cancel(ctx context.Context, id string, now time.Time) error {
	b, ok := l.Find(id)
	if !ok {
		return ErrBookingNotFound
	}
	if err := l.CheckCancel(b, now); err != nil {
		slog.Info("Cancellation refused", "booking_id", id, "reason", err)
		return err
	}

	if err := l.svc.CancelBooking(ctx, id); err != nil {
		slog.Warn("Cancellation failed", "booking_id", id, "error", err)
		return err
	}

	l.Remove(id)
	slog.Info("Booking cancelled", "booking_id", id)
	return nil
}

// Remove drops the booking with id from the read model
func (l *Ledger) Remove(id string) {
	out := l.bookings[:0:0]
	for _, b := range l.bookings {
		if b.BookingID != id {
			out = append(out, b)
		}
	}
	l.bookings = out
}
