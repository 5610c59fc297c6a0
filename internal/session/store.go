// ABOUTME: Session lifecycle: establish, restore, expire and tear down
// ABOUTME: Keeps one expiry timer per session armed from the token's absolute expiry

package session

import (
	"log/slog"
	"sync"
	"time"

	"github.com/yaswanth756/vibha-sports-client/internal/apperr"
	"github.com/yaswanth756/vibha-sports-client/internal/models"
)

// Status describes what the store currently knows about the user
type Status int

const (
	// StatusRestoring means Restore has not completed yet
	StatusRestoring Status = iota
	StatusAnonymous
	StatusAuthenticated
)

func (s Status) String() string {
	switch s {
	case StatusRestoring:
		return "restoring"
	case StatusAnonymous:
		return "anonymous"
	case StatusAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Reason explains why a session was cleared
type Reason int

const (
	ReasonLogout Reason = iota
	ReasonExpired
	ReasonInvalid
)

func (r Reason) String() string {
	switch r {
	case ReasonLogout:
		return "logout"
	case ReasonExpired:
		return "expired"
	case ReasonInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// EventKind distinguishes session events
type EventKind int

const (
	EventEstablished EventKind = iota
	EventCleared
)

// Event is delivered to listeners after the session changes
type Event struct {
	Kind   EventKind
	Claims *models.Claims // set for EventEstablished
	Reason Reason         // set for EventCleared
}

// Listener receives session events. It may be called from the expiry timer's goroutine.
type Listener func(Event)

// Store owns the current session
type Store struct {
	tokens TokenStore
	clock  Clock

	mu        sync.Mutex
	restored  bool
	token     string
	claims    *models.Claims
	timer     Timer
	gen       uint64
	listeners []Listener
}

// Option customizes a Store
type Option func(*Store)

// WithClock replaces the system clock
func WithClock(c Clock) Option {
	return func(s *Store) {
		s.clock = c
	}
}

// New creates a store persisting through tokens
func New(tokens TokenStore, opts ...Option) *Store {
	s := &Store{
		tokens: tokens,
		clock:  SystemClock(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Subscribe registers l for future events
func (s *Store) Subscribe(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

// Establish replaces the current session with token. On failure the current
// session is left untouched.
func (s *Store) Establish(token string) (*models.Claims, error) {
	claims, err := Decode(token)
	if err != nil {
		slog.Warn("Rejected session token", "error", err)
		return nil, err
	}

	now := s.clock.Now()
	if !claims.Valid(now) {
		return nil, apperr.New(apperr.SessionInvalid, "session token has already expired")
	}

	s.mu.Lock()
	if err := s.tokens.Save(token); err != nil {
		s.mu.Unlock()
		return nil, apperr.Wrap(apperr.ServiceError, "failed to save session", err)
	}
	s.restored = true
	s.install(token, claims, now)
	listeners := s.snapshotListeners()
	s.mu.Unlock()

	slog.Info("Session established", "user", claims.ID, "role", claims.Role, "expires_at", claims.ExpiresAt)
	notify(listeners, Event{Kind: EventEstablished, Claims: claims})
	return claims, nil
}

// Restore loads a persisted token once at startup. Missing, malformed or
// expired tokens leave the store anonymous and are removed from storage.
func (s *Store) Restore() *models.Claims {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	if s.restored {
		return s.validClaims(now)
	}
	s.restored = true

	token, err := s.tokens.Load()
	if err != nil {
		slog.Warn("Failed to read stored session", "error", err)
		return nil
	}
	if token == "" {
		return nil
	}

	claims, err := Decode(token)
	if err != nil {
		slog.Warn("Discarding unreadable stored session", "error", err)
		s.clearStored()
		return nil
	}
	if !claims.Valid(now) {
		slog.Info("Discarding expired stored session", "user", claims.ID, "expired_at", claims.ExpiresAt)
		s.clearStored()
		return nil
	}

	s.install(token, claims, now)
	slog.Info("Session restored", "user", claims.ID, "expires_at", claims.ExpiresAt)
	return claims
}

// Teardown clears the session and its stored token unconditionally
func (s *Store) Teardown(reason Reason) {
	s.teardown(reason, nil)
}

func (s *Store) expire(gen uint64) {
	s.teardown(ReasonExpired, &gen)
}

// teardown skips the work when gen is set and no longer current, so a timer
// that fires after being superseded cannot clear a newer session
func (s *Store) teardown(reason Reason, gen *uint64) {
	s.mu.Lock()
	if gen != nil && *gen != s.gen {
		s.mu.Unlock()
		return
	}
	s.clearStored()
	had := s.token != ""
	s.restored = true
	s.reset()
	listeners := s.snapshotListeners()
	s.mu.Unlock()

	if had {
		slog.Info("Session cleared", "reason", reason)
		notify(listeners, Event{Kind: EventCleared, Reason: reason})
	}
}

// Status reports the store state at now
func (s *Store) Status(now time.Time) Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.restored {
		return StatusRestoring
	}
	if s.validClaims(now) == nil {
		return StatusAnonymous
	}
	return StatusAuthenticated
}

// Current returns the claims if the session is valid at now, nil otherwise.
// Validity is recomputed from the absolute expiry on every call.
func (s *Store) Current(now time.Time) *models.Claims {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.validClaims(now)
}

// Token returns the bearer credential while the session is valid at now
func (s *Store) Token(now time.Time) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.validClaims(now) == nil {
		return ""
	}
	return s.token
}

// Now returns the store's clock reading
func (s *Store) Now() time.Time {
	return s.clock.Now()
}

// install must be called with mu held
func (s *Store) install(token string, claims *models.Claims, now time.Time) {
	s.reset()
	s.token = token
	s.claims = claims

	gen := s.gen
	d := max(claims.ExpiresAt.Sub(now), 0)
	s.timer = s.clock.AfterFunc(d, func() { s.expire(gen) })
}

// reset must be called with mu held
func (s *Store) reset() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.gen++
	s.token = ""
	s.claims = nil
}

func (s *Store) validClaims(now time.Time) *models.Claims {
	if s.claims == nil || !s.claims.Valid(now) {
		return nil
	}
	return s.claims
}

func (s *Store) clearStored() {
	if err := s.tokens.Clear(); err != nil {
		slog.Warn("Failed to remove stored session", "error", err)
	}
}

func (s *Store) snapshotListeners() []Listener {
	return append([]Listener(nil), s.listeners...)
}

func notify(listeners []Listener, ev Event) {
	for _, l := range listeners {
		l(ev)
	}
}
