// ABOUTME: Shared wiring for vibha commands: config, logging, session store and API client
// ABOUTME: Also holds the exit-code and output helpers every subcommand uses

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/yaswanth756/vibha-sports-client/internal/apperr"
	"github.com/yaswanth756/vibha-sports-client/internal/client"
	"github.com/yaswanth756/vibha-sports-client/internal/config"
	"github.com/yaswanth756/vibha-sports-client/internal/guard"
	"github.com/yaswanth756/vibha-sports-client/internal/logger"
	"github.com/yaswanth756/vibha-sports-client/internal/models"
	"github.com/yaswanth756/vibha-sports-client/internal/session"
	"github.com/yaswanth756/vibha-sports-client/internal/slots"
)

// services is what a command needs to talk to the booking service
type services struct {
	cfg      *config.Config
	client   *client.Client
	sessions *session.Store
	logs     io.Closer
}

func newServices() (*services, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	cfg.APIURL = GetAPIURL(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logs, err := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Path:   cfg.LogPath(),
	})
	if err != nil {
		return nil, fmt.Errorf("opening log: %w", err)
	}

	sessions := session.New(session.NewFileTokenStore(cfg.ConfigDir))
	apiClient := client.New(cfg.APIURL,
		client.WithTimeout(cfg.HTTPTimeout),
		client.WithPriceCacheTTL(cfg.CourtsCacheTTL),
		client.WithTokenSource(func() string {
			return sessions.Token(sessions.Now())
		}),
	)

	return &services{cfg: cfg, client: apiClient, sessions: sessions, logs: logs}, nil
}

// Close releases the client and the log file
func (s *services) Close() {
	s.client.Close()
	s.logs.Close()
}

// authorize restores the stored session and checks it against role
func (s *services) authorize(role models.Role) (*models.Claims, error) {
	s.sessions.Restore()
	d := guard.New(s.sessions, role).Evaluate(s.sessions.Now())
	if d.Outcome != guard.Allowed {
		if apperr.IsSessionError(d.Err) {
			return nil, apperr.New(apperr.SessionInvalid, "please log in first with `vibha login`")
		}
		return nil, d.Err
	}
	return d.Claims, nil
}

// query resolves availability flags, defaulting to today, the first court and 1 hr
func (s *services) query(date, court, durationType string) (slots.Query, error) {
	q := slots.Query{Date: date, Court: court, Type: models.OneHour}

	if q.Date == "" {
		q.Date = s.sessions.Now().Format(models.DateLayout)
	} else if _, err := models.ParseDate(q.Date, s.sessions.Now().Location()); err != nil {
		return slots.Query{}, fmt.Errorf("--date must be YYYY-MM-DD, got %q", date)
	}

	if q.Court == "" && len(s.cfg.Courts) > 0 {
		q.Court = s.cfg.Courts[0]
	}

	if durationType != "" {
		t, err := models.ParseDurationType(durationType)
		if err != nil {
			return slots.Query{}, err
		}
		q.Type = t
	}
	return q, nil
}

// loadAvailability fetches the slots of q and the court's hourly price together
func (s *services) loadAvailability(ctx context.Context, q slots.Query) ([]models.Slot, float64, error) {
	var (
		list  []models.Slot
		price float64
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		list, err = s.client.Availability(ctx, q.Date, q.Court, q.Type)
		return err
	})
	g.Go(func() error {
		var err error
		price, err = s.client.CourtPrice(ctx, q.Court)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	return list, price, nil
}

// exitCode maps a failure to the CLI convention:
// 1 for actions the service or local rules refused, 2 for connectivity
func exitCode(err error) int {
	if apperr.KindOf(err) == apperr.NetworkFailure {
		return 2
	}
	return 1
}

// fail prints err and returns its exit code
func fail(w io.Writer, err error) int {
	fmt.Fprintf(w, "Error: %s\n", apperr.Message(err))
	return exitCode(err)
}

// usageError prints a bad-input message and returns 2
func usageError(w io.Writer, err error) int {
	fmt.Fprintf(w, "Error: %v\n", err)
	return 2
}

func formatJSON(v any) string {
	data, _ := json.MarshalIndent(v, "", "  ")
	return string(data)
}

func formatPrice(p float64) string {
	return fmt.Sprintf("₹%.0f", p)
}

// formatDate renders a wire date as "Sun 18 Oct 2026", falling back to the raw value
func formatDate(s *services, date string) string {
	d, err := models.ParseDate(date, s.sessions.Now().Location())
	if err != nil {
		return date
	}
	return d.Format("Mon 02 Jan 2006")
}

func indent(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return "  " + strings.Join(lines, "\n  ")
}
