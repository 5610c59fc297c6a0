// ABOUTME: Slots command for the vibha CLI
// ABOUTME: Lists available slots for a date, court and duration grouped by time of day

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

	"github.com/yaswanth756/vibha-sports-client/internal/models"
	"github.com/yaswanth756/vibha-sports-client/internal/slots"
)

var (
	slotsDate  string
	slotsCourt string
	slotsType  string
)

var slotsCmd = &cobra.Command{
	Use:   "slots",
	Short: "Show available slots",
	Long:  `Show the open slots of one court for a date and duration, split into morning & afternoon and evening.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runSlots(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(slotsCmd)
	slotsCmd.Flags().StringVar(&slotsDate, "date", "", "Date as YYYY-MM-DD (default today)")
	slotsCmd.Flags().StringVar(&slotsCourt, "court", "", "Court name (default the first configured court)")
	slotsCmd.Flags().StringVar(&slotsType, "type", "1 hr", `Slot duration, "1 hr" or "1.5 hr"`)
}

// availability is the printable result of one slots lookup
type availability struct {
	Date             string              `json:"date"`
	Court            string              `json:"court"`
	Type             models.DurationType `json:"type"`
	PricePerHour     float64             `json:"pricePerHour"`
	MorningAfternoon []models.Slot       `json:"morningAfternoon"`
	Evening          []models.Slot       `json:"evening"`
	Notice           string              `json:"notice,omitempty"`
}

// runSlots looks up availability and returns exit code
func runSlots(ctx context.Context, w io.Writer) int {
	s, err := newServices()
	if err != nil {
		return usageError(w, err)
	}
	defer s.Close()

	q, err := s.query(slotsDate, slotsCourt, slotsType)
	if err != nil {
		return usageError(w, err)
	}

	list, price, err := s.loadAvailability(ctx, q)
	if err != nil {
		return fail(w, err)
	}

	buckets := slots.Group(list, q.Type)
	result := availability{
		Date:             q.Date,
		Court:            q.Court,
		Type:             q.Type,
		PricePerHour:     price,
		MorningAfternoon: nonNil(buckets.MorningAfternoon),
		Evening:          nonNil(buckets.Evening),
	}
	if buckets.MorningAfternoon == nil || buckets.Evening == nil {
		date, _ := models.ParseDate(q.Date, s.sessions.Now().Location())
		result.Notice = slots.EmptyNotice(date, s.sessions.Now()).Text()
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatJSON(result))
	} else {
		fmt.Fprintln(w, formatSlotsHuman(formatDate(s, q.Date), result))
	}
	return 0
}

// formatSlotsHuman formats availability for human readability
func formatSlotsHuman(date string, a availability) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s · %s · %s · %s/hr\n", a.Court, date, a.Type, formatPrice(a.PricePerHour))

	section := func(title string, list []models.Slot) {
		sb.WriteString("\n" + title + "\n")
		if len(list) == 0 {
			sb.WriteString("  " + a.Notice + "\n")
			return
		}
		rows := make([]string, len(list))
		for i, slot := range list {
			rows[i] = fmt.Sprintf("%-8s %s", slot.StartTime, slots.FormatRange(slot.StartTime, slot.EndTime))
		}
		sb.WriteString(indent(rows) + "\n")
	}
	section("Morning & Afternoon", a.MorningAfternoon)
	section("Evening", a.Evening)

	return strings.TrimRight(sb.String(), "\n")
}

func nonNil(list []models.Slot) []models.Slot {
	if list == nil {
		return []models.Slot{}
	}
	return list
}
