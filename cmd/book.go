// ABOUTME: Book command for the vibha CLI
// ABOUTME: Selects slots by start time and submits one booking for the logged-in user

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yaswanth756/vibha-sports-client/internal/booking"
	"github.com/yaswanth756/vibha-sports-client/internal/models"
	"github.com/yaswanth756/vibha-sports-client/internal/selection"
	"github.com/yaswanth756/vibha-sports-client/internal/slots"
)

var (
	bookDate  string
	bookCourt string
	bookType  string
	bookSlots []string
)

var bookCmd = &cobra.Command{
	Use:   "book",
	Short: "Book one or more slots",
	Long: `Book slots on one court and date. Slots are named by start time (or slot id)
and must all have the same duration. Payment is taken at the reception.

Example:
  vibha book --court "Court A" --date 2026-10-20 --slot 10:00 --slot 11:00`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runBook(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(bookCmd)
	bookCmd.Flags().StringVar(&bookDate, "date", "", "Date as YYYY-MM-DD (default today)")
	bookCmd.Flags().StringVar(&bookCourt, "court", "", "Court name (default the first configured court)")
	bookCmd.Flags().StringVar(&bookType, "type", "1 hr", `Slot duration, "1 hr" or "1.5 hr"`)
	bookCmd.Flags().StringArrayVar(&bookSlots, "slot", nil, "Slot start time such as 10:00 (repeatable)")
}

// bookingReceipt is what the book command reports
type bookingReceipt struct {
	Booking *models.Booking `json:"booking"`
	Slots   []models.Slot   `json:"slots"`
	Total   float64         `json:"totalPrice"`
}

// runBook submits the booking and returns exit code
func runBook(ctx context.Context, w io.Writer) int {
	if len(bookSlots) == 0 {
		return usageError(w, errors.New("at least one --slot is required"))
	}

	s, err := newServices()
	if err != nil {
		return usageError(w, err)
	}
	defer s.Close()

	q, err := s.query(bookDate, bookCourt, bookType)
	if err != nil {
		return usageError(w, err)
	}

	if _, err := s.authorize(models.RoleUser); err != nil {
		return fail(w, err)
	}

	list, price, err := s.loadAvailability(ctx, q)
	if err != nil {
		return fail(w, err)
	}
	buckets := slots.Group(list, q.Type)
	offered := append(append([]models.Slot(nil), buckets.MorningAfternoon...), buckets.Evening...)

	engine := selection.New()
	engine.SetContext(selection.Context{Date: q.Date, Court: q.Court, Type: q.Type})
	engine.SetPricePerHour(price)

	for _, want := range bookSlots {
		slot, ok := findSlot(offered, want)
		if !ok {
			fmt.Fprintf(w, "Error: no available %s slot at %s on %s for %s\n", q.Type, want, q.Date, q.Court)
			return 1
		}
		if engine.Contains(slot.ID) {
			continue
		}
		if err := engine.Toggle(slot); err != nil {
			return fail(w, err)
		}
	}

	submitter := booking.NewSubmitter(engine, s.sessions)
	submitter.SetNow(s.sessions.Now)
	if err := submitter.Proceed(); err != nil {
		return fail(w, err)
	}

	receipt := bookingReceipt{Slots: engine.Slots(), Total: engine.TotalPrice()}
	b, err := submitter.Submit(ctx, s.client)
	if err != nil {
		return fail(w, err)
	}
	receipt.Booking = b

	if IsJSONOutput() {
		fmt.Fprintln(w, formatJSON(receipt))
	} else {
		fmt.Fprintln(w, formatBookingHuman(formatDate(s, q.Date), q.Court, receipt))
	}
	return 0
}

// findSlot matches want against a slot's start time or id
func findSlot(offered []models.Slot, want string) (models.Slot, bool) {
	want = strings.TrimSpace(want)
	for _, slot := range offered {
		if slot.StartTime == want || slot.ID == want {
			return slot, true
		}
	}
	return models.Slot{}, false
}

// formatBookingHuman formats a confirmed booking for human readability
func formatBookingHuman(date, court string, r bookingReceipt) string {
	rows := make([]string, len(r.Slots))
	for i, slot := range r.Slots {
		rows[i] = slots.FormatRange(slot.StartTime, slot.EndTime)
	}

	out := fmt.Sprintf(`Booking confirmed!
Court:   %s
Date:    %s
Slots:
%s
Total:   %s (pay at reception)`,
		court, date, indent(rows), formatPrice(r.Total))

	if r.Booking != nil && r.Booking.BookingID != "" {
		out += "\nBooking: " + r.Booking.BookingID
	}
	return out
}
