// ABOUTME: Confirm and submit state machine for a slot selection
// ABOUTME: Guarantees at most one in-flight booking request per confirmation

package booking

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/yaswanth756/vibha-sports-client/internal/apperr"
	"github.com/yaswanth756/vibha-sports-client/internal/models"
	"github.com/yaswanth756/vibha-sports-client/internal/selection"
)

var (
	ErrEmptySelection = errors.New("select at least one slot to book")
	ErrNotConfirming  = errors.New("no booking awaiting confirmation")
	ErrSubmitInFlight = errors.New("booking is already being submitted")
)

// State of the submit flow
type State int

const (
	Idle State = iota
	Confirming
	Submitting
	Succeeded
	// Failed keeps the dialog open so the user can retry or back out
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Confirming:
		return "confirming"
	case Submitting:
		return "submitting"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Sessions supplies the identity a booking is made for
type Sessions interface {
	Current(now time.Time) *models.Claims
}

// Creator is the booking service call made on confirm
type Creator interface {
	CreateBooking(ctx context.Context, req *models.BookingRequest) (*models.Booking, error)
}

// Submitter drives one selection through confirmation and submission.
// It is not safe for concurrent use; the owner serializes access.
type Submitter struct {
	engine   *selection.Engine
	sessions Sessions
	now      func() time.Time

	state        State
	lastErr      error
	booking      *models.Booking
	needsRefresh bool
}

// NewSubmitter creates a submitter over engine
func NewSubmitter(engine *selection.Engine, sessions Sessions) *Submitter {
	return &Submitter{
		engine:   engine,
		sessions: sessions,
		now:      time.Now,
	}
}

// SetNow replaces the time source
func (s *Submitter) SetNow(now func() time.Time) {
	s.now = now
}

func (s *Submitter) State() State {
	return s.state
}

// LastError is the failure from the most recent attempt, if any
func (s *Submitter) LastError() error {
	return s.lastErr
}

// Booking is the booking created by the last successful submission
func (s *Submitter) Booking() *models.Booking {
	return s.booking
}

// NeedsRefresh reports that availability changed and must be refetched
func (s *Submitter) NeedsRefresh() bool {
	return s.needsRefresh
}

// AcknowledgeRefresh clears the refresh mark once availability was refetched
func (s *Submitter) AcknowledgeRefresh() {
	s.needsRefresh = false
}

// Proceed opens the confirmation. It needs a non-empty selection and a valid
// session; without a session it fails with SessionInvalid and the caller
// should route to login.
func (s *Submitter) Proceed() error {
	if s.state == Submitting {
		return ErrSubmitInFlight
	}
	if s.engine.Len() == 0 {
		return ErrEmptySelection
	}
	if s.sessions.Current(s.now()) == nil {
		return apperr.New(apperr.SessionInvalid, "please log in to book")
	}

	s.state = Confirming
	s.lastErr = nil
	return nil
}

// Begin confirms and moves to Submitting, returning the request to send.
// Repeated calls while a request is in flight fail with ErrSubmitInFlight.
func (s *Submitter) Begin() (*models.BookingRequest, error) {
	switch s.state {
	case Submitting:
		slog.Debug("Ignored repeated confirm while submitting")
		return nil, ErrSubmitInFlight
	case Confirming, Failed:
	default:
		return nil, ErrNotConfirming
	}

	claims := s.sessions.Current(s.now())
	if claims == nil {
		s.state = Idle
		return nil, apperr.New(apperr.SessionInvalid, "your session has expired, please log in again")
	}
	if s.engine.Len() == 0 {
		s.state = Idle
		return nil, ErrEmptySelection
	}

	s.state = Submitting
	s.lastErr = nil
	return s.engine.Request(claims.ID), nil
}

// Complete records the outcome of the request produced by Begin.
// Success clears the selection and marks availability for refresh; failure
// keeps the selection and leaves the dialog open.
func (s *Submitter) Complete(b *models.Booking, err error) {
	if s.state != Submitting {
		slog.Debug("Ignored booking result outside submission", "state", s.state)
		return
	}

	if err != nil {
		s.state = Failed
		s.lastErr = err
		slog.Warn("Booking failed", "error", err)
		return
	}

	s.state = Succeeded
	s.booking = b
	s.needsRefresh = true
	s.engine.Reset()
	if b != nil {
		slog.Info("Booking created", "booking_id", b.BookingID, "court", b.Court, "date", b.BookingDate)
	}
}

// CancelDialog closes the confirmation without side effects
func (s *Submitter) CancelDialog() {
	if s.state == Confirming || s.state == Failed {
		s.state = Idle
		s.lastErr = nil
	}
}

// Dismiss closes the success acknowledgment
func (s *Submitter) Dismiss() {
	if s.state == Succeeded {
		s.state = Idle
	}
}

// Submit runs Begin, the service call and Complete in one step
func (s *Submitter) Submit(ctx context.Context, svc Creator) (*models.Booking, error) {
	req, err := s.Begin()
	if err != nil {
		return nil, err
	}
	b, err := svc.CreateBooking(ctx, req)
	s.Complete(b, err)
	if err != nil {
		return nil, err
	}
	return b, nil
}
