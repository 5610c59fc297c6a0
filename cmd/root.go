// ABOUTME: Root command for the vibha CLI
// ABOUTME: Starts the interactive storefront and holds global flags

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaswanth756/vibha-sports-client/internal/config"
	"github.com/yaswanth756/vibha-sports-client/internal/tui"
)

var (
	apiURL     string
	jsonOutput bool
)

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "vibha",
	Short: "Book courts at Vibha Sports from the terminal",
	Long: `vibha is a terminal storefront for Vibha Sports court bookings.

Run without a subcommand to open the interactive storefront. The subcommands
cover the same flows for scripts.

Exit codes:
  0 - Success
  1 - Action refused (not logged in, slot unavailable, cancellation too late)
  2 - Error (connectivity, invalid input)

Environment Variables:
  VIBHA_API_URL              Booking service URL (default: ` + config.DefaultAPIURL + `)
  VIBHA_CONFIG_DIR           Session and log directory (default: ~/.config/vibha-sports)
  VIBHA_COURTS               Courts offered in the picker (default: Court A,Court B)
  VIBHA_BOOKING_DAYS         Selectable days starting today (default: 4)
  VIBHA_CANCEL_LEAD_MINUTES  Same-day cancellation notice (default: 120)
  LOG_LEVEL, LOG_FORMAT      Logging written to debug.log in the config directory`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newServices()
		if err != nil {
			return err
		}
		defer s.Close()

		if err := tui.Run(s.cfg, s.client, s.sessions); err != nil {
			return fmt.Errorf("storefront: %w", err)
		}
		return nil
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Booking service URL (overrides VIBHA_API_URL)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output JSON instead of human-readable text")
}

// GetAPIURL returns the API URL from the flag, or the environment/default resolved by cfg
func GetAPIURL(cfg *config.Config) string {
	if apiURL != "" {
		return apiURL
	}
	return cfg.APIURL
}

// IsJSONOutput returns whether JSON output is requested
func IsJSONOutput() bool {
	return jsonOutput
}
