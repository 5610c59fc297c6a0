// ABOUTME: Tests for the confirm and submit state machine
// ABOUTME: Covers session gating, the double-submit guard and failure recovery

package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/yaswanth756/vibha-sports-client/internal/apperr"
	"github.com/yaswanth756/vibha-sports-client/internal/models"
	"github.com/yaswanth756/vibha-sports-client/internal/selection"
)

type fakeSessions struct {
	claims *models.Claims
}

func (f *fakeSessions) Current(now time.Time) *models.Claims {
	if !f.claims.Valid(now) {
		return nil
	}
	return f.claims
}

type countingCreator struct {
	calls int
	err   error
}

func (c *countingCreator) CreateBooking(ctx context.Context, req *models.BookingRequest) (*models.Booking, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return &models.Booking{BookingID: "b-1", Court: req.Court, BookingDate: req.BookingDate, Status: models.StatusBooked}, nil
}

func newSubmitter(t *testing.T, loggedIn bool) (*Submitter, *selection.Engine, *fakeSessions) {
	t.Helper()
	engine := selection.New()
	engine.SetContext(selection.Context{Date: "2026-03-10", Court: "Court A", Type: models.OneHour})
	engine.SetPricePerHour(500)

	sessions := &fakeSessions{}
	if loggedIn {
		sessions.claims = &models.Claims{ID: "u-1", Role: models.RoleUser, ExpiresAt: now.Add(time.Hour)}
	}

	s := NewSubmitter(engine, sessions)
	s.SetNow(func() time.Time { return now })
	return s, engine, sessions
}

func pick(t *testing.T, e *selection.Engine, ids ...string) {
	t.Helper()
	for i, id := range ids {
		start := time.Date(2026, 3, 10, 10+i, 0, 0, 0, time.UTC)
		slot := models.Slot{ID: id, StartTime: start.Format("15:04"), EndTime: start.Add(time.Hour).Format("15:04"), Type: models.OneHour}
		if err := e.Toggle(slot); err != nil {
			t.Fatalf("Toggle: %v", err)
		}
	}
}

func TestProceed_Guards(t *testing.T) {
	s, engine, _ := newSubmitter(t, false)

	if err := s.Proceed(); !errors.Is(err, ErrEmptySelection) {
		t.Errorf("expected ErrEmptySelection, got %v", err)
	}

	pick(t, engine, "a")
	if err := s.Proceed(); apperr.KindOf(err) != apperr.SessionInvalid {
		t.Errorf("expected SessionInvalid, got %v", err)
	}
	if s.State() != Idle {
		t.Errorf("state = %v, want idle", s.State())
	}
}

func TestBegin_RequiresConfirmation(t *testing.T) {
	s, engine, _ := newSubmitter(t, true)
	pick(t, engine, "a")

	if _, err := s.Begin(); !errors.Is(err, ErrNotConfirming) {
		t.Errorf("expected ErrNotConfirming, got %v", err)
	}
}

func TestDoubleSubmitGuard(t *testing.T) {
	s, engine, _ := newSubmitter(t, true)
	pick(t, engine, "a", "b")

	if err := s.Proceed(); err != nil {
		t.Fatalf("Proceed: %v", err)
	}

	req, err := s.Begin()
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if req.UserID != "u-1" || req.TotalPrice != 1000 || len(req.SelectedSlots) != 2 {
		t.Errorf("unexpected request %+v", req)
	}

	for i := 0; i < 3; i++ {
		again, err := s.Begin()
		if !errors.Is(err, ErrSubmitInFlight) || again != nil {
			t.Fatalf("repeat %d: expected ErrSubmitInFlight, got %v %v", i, again, err)
		}
	}
	if err := s.Proceed(); !errors.Is(err, ErrSubmitInFlight) {
		t.Errorf("Proceed while submitting: expected ErrSubmitInFlight, got %v", err)
	}

	creator := &countingCreator{}
	if _, err := s.Submit(context.Background(), creator); !errors.Is(err, ErrSubmitInFlight) {
		t.Errorf("Submit while submitting: expected ErrSubmitInFlight, got %v", err)
	}
	if creator.calls != 0 {
		t.Errorf("expected no network call, got %d", creator.calls)
	}
}

func TestComplete_Success(t *testing.T) {
	s, engine, _ := newSubmitter(t, true)
	pick(t, engine, "a", "b")

	if err := s.Proceed(); err != nil {
		t.Fatalf("Proceed: %v", err)
	}
	b, err := s.Submit(context.Background(), &countingCreator{})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if s.State() != Succeeded || s.Booking() != b {
		t.Errorf("state = %v booking = %+v", s.State(), s.Booking())
	}
	if engine.Len() != 0 || engine.TotalPrice() != 0 {
		t.Error("expected selection to be cleared")
	}
	if !s.NeedsRefresh() {
		t.Error("expected availability to be marked for refresh")
	}

	s.AcknowledgeRefresh()
	s.Dismiss()
	if s.NeedsRefresh() || s.State() != Idle {
		t.Errorf("after dismiss: refresh=%v state=%v", s.NeedsRefresh(), s.State())
	}
}

func TestComplete_FailurePreservesSelection(t *testing.T) {
	s, engine, _ := newSubmitter(t, true)
	pick(t, engine, "a", "b")

	if err := s.Proceed(); err != nil {
		t.Fatalf("Proceed: %v", err)
	}
	creator := &countingCreator{err: apperr.New(apperr.NetworkFailure, "request timed out")}
	if _, err := s.Submit(context.Background(), creator); apperr.KindOf(err) != apperr.NetworkFailure {
		t.Fatalf("expected NetworkFailure, got %v", err)
	}

	if s.State() != Failed || s.LastError() == nil {
		t.Errorf("state = %v lastErr = %v", s.State(), s.LastError())
	}
	if engine.Len() != 2 || engine.TotalPrice() != 1000 {
		t.Error("expected selection to be preserved")
	}
	if s.NeedsRefresh() {
		t.Error("failure must not mark availability for refresh")
	}

	// retry from the still-open dialog
	creator.err = nil
	if _, err := s.Submit(context.Background(), creator); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if creator.calls != 2 || s.State() != Succeeded {
		t.Errorf("calls = %d state = %v", creator.calls, s.State())
	}
}

func TestCancelDialog(t *testing.T) {
	s, engine, _ := newSubmitter(t, true)
	pick(t, engine, "a")

	if err := s.Proceed(); err != nil {
		t.Fatalf("Proceed: %v", err)
	}
	s.CancelDialog()

	if s.State() != Idle || engine.Len() != 1 {
		t.Errorf("state = %v len = %d", s.State(), engine.Len())
	}
}

func TestBegin_SessionExpiredWhileConfirming(t *testing.T) {
	s, engine, sessions := newSubmitter(t, true)
	pick(t, engine, "a")

	if err := s.Proceed(); err != nil {
		t.Fatalf("Proceed: %v", err)
	}
	sessions.claims = nil

	if _, err := s.Begin(); apperr.KindOf(err) != apperr.SessionInvalid {
		t.Errorf("expected SessionInvalid, got %v", err)
	}
	if s.State() != Idle || engine.Len() != 1 {
		t.Errorf("state = %v len = %d", s.State(), engine.Len())
	}
}

func TestComplete_IgnoredOutsideSubmission(t *testing.T) {
	s, engine, _ := newSubmitter(t, true)
	pick(t, engine, "a")

	s.Complete(&models.Booking{BookingID: "x"}, nil)

	if s.State() != Idle || engine.Len() != 1 || s.NeedsRefresh() {
		t.Errorf("stray result changed state: %v len=%d", s.State(), engine.Len())
	}
}
