// ABOUTME: Bookings and cancel commands for the vibha CLI
// ABOUTME: Lists the user's bookings by status and cancels upcoming ones

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yaswanth756/vibha-sports-client/internal/booking"
	"github.com/yaswanth756/vibha-sports-client/internal/models"
	"github.com/yaswanth756/vibha-sports-client/internal/slots"
)

var bookingsStatus string

var bookingsCmd = &cobra.Command{
	Use:   "bookings",
	Short: "List your bookings",
	Long:  `List the logged-in user's bookings, newest first. Use --status to show one tab.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runBookings(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var cancelCmd = &cobra.Command{
	Use:   "cancel BOOKING_ID",
	Short: "Cancel an upcoming booking",
	Long: `Cancel one of your upcoming bookings.

Same-day bookings can only be cancelled at least 2 hours before they start
(VIBHA_CANCEL_LEAD_MINUTES changes the notice).`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runCancel(ctx, os.Stdout, args[0])
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(bookingsCmd)
	rootCmd.AddCommand(cancelCmd)
	bookingsCmd.Flags().StringVar(&bookingsStatus, "status", "all", "One of all, booked, completed, cancelled")
}

// parseTab maps a --status value to a bookings tab
func parseTab(s string) (booking.Tab, error) {
	for _, tab := range booking.Tabs {
		if strings.EqualFold(tab.String(), strings.TrimSpace(s)) {
			return tab, nil
		}
	}
	return 0, fmt.Errorf("--status must be one of all, booked, completed, cancelled, got %q", s)
}

// loadLedger authorizes the user and loads their bookings
func loadLedger(ctx context.Context, s *services) (*booking.Ledger, error) {
	claims, err := s.authorize(models.RoleUser)
	if err != nil {
		return nil, err
	}
	ledger := booking.NewLedger(s.client, booking.WithLeadTime(s.cfg.CancelLeadTime))
	if err := ledger.Load(ctx, claims.ID); err != nil {
		return nil, err
	}
	return ledger, nil
}

// runBookings lists bookings and returns exit code
func runBookings(ctx context.Context, w io.Writer) int {
	tab, err := parseTab(bookingsStatus)
	if err != nil {
		return usageError(w, err)
	}

	s, err := newServices()
	if err != nil {
		return usageError(w, err)
	}
	defer s.Close()

	ledger, err := loadLedger(ctx, s)
	if err != nil {
		return fail(w, err)
	}

	list := ledger.Filter(tab)
	if IsJSONOutput() {
		if list == nil {
			list = []models.Booking{}
		}
		fmt.Fprintln(w, formatJSON(list))
	} else {
		fmt.Fprintln(w, formatBookingsHuman(s, tab, list))
	}
	return 0
}

// formatBookingsHuman formats a bookings tab as a table
func formatBookingsHuman(s *services, tab booking.Tab, list []models.Booking) string {
	if len(list) == 0 {
		if tab == booking.TabAll {
			return "No bookings yet."
		}
		return fmt.Sprintf("No %s bookings.", strings.ToLower(tab.String()))
	}

	rows := make([]string, len(list))
	for i, b := range list {
		payment := "Pay at reception"
		if b.PaymentStatus == models.PaymentPaid {
			payment = "Paid"
		}
		rows[i] = fmt.Sprintf("%-24s  %-16s  %-14s  %-8s  %-6s  %6s  %-9s  %s",
			b.BookingID,
			formatDate(s, b.BookingDate),
			slots.FormatRange(b.StartTime, b.EndTime),
			b.Court,
			b.Type,
			formatPrice(b.Price),
			b.Status,
			payment,
		)
	}
	return strings.Join(rows, "\n")
}

// runCancel cancels bookingID and returns exit code
func runCancel(ctx context.Context, w io.Writer, bookingID string) int {
	s, err := newServices()
	if err != nil {
		return usageError(w, err)
	}
	defer s.Close()

	ledger, err := loadLedger(ctx, s)
	if err != nil {
		return fail(w, err)
	}

	if err := ledger.Cancel(ctx, bookingID, s.sessions.Now()); err != nil {
		return fail(w, err)
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatJSON(map[string]string{"bookingId": bookingID, "status": string(models.StatusCancelled)}))
	} else {
		fmt.Fprintf(w, "Booking %s cancelled.\n", bookingID)
	}
	return 0
}
