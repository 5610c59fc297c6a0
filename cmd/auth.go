// ABOUTME: Login, logout and whoami commands for the vibha CLI
// ABOUTME: Login is two calls: request a one-time code, then exchange it for a session

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
	"time"

	"github.com/spf13/cobra"

	"github.com/yaswanth756/vibha-sports-client/internal/apperr"
	"github.com/yaswanth756/vibha-sports-client/internal/models"
	"github.com/yaswanth756/vibha-sports-client/internal/session"
)

var (
	loginEmail string
	loginOTP   string
	loginName  string
	loginPhone string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in with an emailed one-time code",
	Long: `Log in or create an account.

Run once with --email to receive a one-time code, then again with --otp.
New accounts also need --name and --phone.

Example:
  vibha login --email you@example.com
  vibha login --email you@example.com --otp 123456`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runLogin(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the stored session",
	Run: func(cmd *cobra.Command, args []string) {
		exitCode := runLogout(os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in user",
	Run: func(cmd *cobra.Command, args []string) {
		exitCode := runWhoami(os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Account email")
	loginCmd.Flags().StringVar(&loginOTP, "otp", "", "One-time code from the email")
	loginCmd.Flags().StringVar(&loginName, "name", "", "Full name (new accounts)")
	loginCmd.Flags().StringVar(&loginPhone, "phone", "", "Phone number (new accounts)")
}

// runLogin requests a code or exchanges one for a session, returning exit code
func runLogin(ctx context.Context, w io.Writer) int {
	email := strings.TrimSpace(loginEmail)
	if email == "" {
		return usageError(w, errors.New("--email is required"))
	}

	s, err := newServices()
	if err != nil {
		return usageError(w, err)
	}
	defer s.Close()

	otp := strings.TrimSpace(loginOTP)
	if otp == "" {
		resp, err := s.client.CheckUser(ctx, email)
		if err != nil {
			return fail(w, err)
		}
		fmt.Fprintf(w, "A one-time code was sent to %s.\n", email)
		if resp.IsNew {
			fmt.Fprintln(w, "New account: run again with --otp CODE --name NAME --phone PHONE.")
		} else {
			fmt.Fprintln(w, "Run again with --otp CODE to log in.")
		}
		return 0
	}

	var resp *models.AuthResponse
	if name := strings.TrimSpace(loginName); name != "" {
		resp, err = s.client.Register(ctx, &models.RegisterRequest{
			Email: email,
			OTP:   otp,
			Name:  name,
			Phone: strings.TrimSpace(loginPhone),
		})
	} else {
		resp, err = s.client.Login(ctx, &models.LoginRequest{Email: email, OTP: otp})
	}
	if err != nil {
		return fail(w, err)
	}
	if resp.Token == "" {
		return fail(w, apperr.New(apperr.ServiceError, "login did not return a session"))
	}

	claims, err := s.sessions.Establish(resp.Token)
	if err != nil {
		return fail(w, err)
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatJSON(claims))
	} else {
		fmt.Fprintf(w, "Logged in as %s (%s).\n", claims.Name, claims.Role)
	}
	return 0
}

// runLogout clears the stored session and returns exit code
func runLogout(w io.Writer) int {
	s, err := newServices()
	if err != nil {
		return usageError(w, err)
	}
	defer s.Close()

	if s.sessions.Restore() == nil {
		fmt.Fprintln(w, "Not logged in.")
		return 0
	}
	s.sessions.Teardown(session.ReasonLogout)
	fmt.Fprintln(w, "Logged out.")
	return 0
}

// runWhoami prints the stored identity; exit code 1 when logged out
func runWhoami(w io.Writer) int {
	s, err := newServices()
	if err != nil {
		return usageError(w, err)
	}
	defer s.Close()

	claims := s.sessions.Restore()
	if claims == nil {
		fmt.Fprintln(w, "Not logged in.")
		return 1
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatJSON(claims))
	} else {
		fmt.Fprintln(w, formatWhoamiHuman(claims, s.sessions.Now()))
	}
	return 0
}

// formatWhoamiHuman formats the session identity for human readability
func formatWhoamiHuman(c *models.Claims, now time.Time) string {
	return fmt.Sprintf(`Name:     %s
Email:    %s
Role:     %s
Expires:  %s (in %s)`,
		c.Name,
		c.Email,
		c.Role,
		c.ExpiresAt.Format("Mon 02 Jan 15:04"),
		c.ExpiresAt.Sub(now).Round(time.Minute),
	)
}
