// ABOUTME: Courts command for the vibha CLI
// ABOUTME: Shows courts and hourly prices to admins

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
)

var courtsCmd = &cobra.Command{
	Use:   "courts",
	Short: "Show courts and prices (admins)",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runCourts(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(courtsCmd)
}

// runCourts lists courts and returns exit code
func runCourts(ctx context.Context, w io.Writer) int {
	s, err := newServices()
	if err != nil {
		return usageError(w, err)
	}
	defer s.Close()

	if _, err := s.authorize(models.RoleAdmin); err != nil {
		return fail(w, err)
	}

	courts, err := s.client.Courts(ctx)
	if err != nil {
		return fail(w, err)
	}
	if courts == nil {
		courts = []models.Court{}
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatJSON(courts))
	} else {
		fmt.Fprintln(w, formatCourtsHuman(courts))
	}
	return 0
}

// formatCourtsHuman formats courts as a table
func formatCourtsHuman(courts []models.Court) string {
	if len(courts) == 0 {
		return "No courts configured."
	}
	rows := []string{fmt.Sprintf("%-20s  %s", "Court", "Price/hr")}
	for _, c := range courts {
		rows = append(rows, fmt.Sprintf("%-20s  %s", c.Name, formatPrice(c.PricePerHour)))
	}
	return strings.Join(rows, "\n")
}
