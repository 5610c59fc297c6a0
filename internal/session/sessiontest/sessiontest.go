// ABOUTME: Helpers for tests that need sessions: signed tokens and a manual clock
// ABOUTME: Shared by packages that build on the session store

package sessiontest

import (
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/yaswanth756/vibha-sports-client/internal/session"
)

// Token signs a token carrying the given identity and expiry. The key is
// irrelevant because clients never verify signatures.
func Token(t testing.TB, id string, role string, exp time.Time) string {
	t.Helper()

	claims := jwt.MapClaims{
		"id":    id,
		"name":  "Test " + id,
		"email": id + "@example.com",
		"exp":   exp.Unix(),
	}
	if role != "" {
		claims["role"] = role
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return signed
}

// Clock is a manually advanced session.Clock. Timers fire during Advance,
// on the caller's goroutine, in deadline order.
type Clock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*timer
}

type timer struct {
	clock   *Clock
	at      time.Time
	f       func()
	stopped bool
	fired   bool
}

// NewClock creates a clock reading now
func NewClock(now time.Time) *Clock {
	return &Clock{now: now}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Clock) AfterFunc(d time.Duration, f func()) session.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	tm := &timer{clock: c, at: c.now.Add(d), f: f}
	c.timers = append(c.timers, tm)
	return tm
}

// Pending returns the number of armed timers
func (c *Clock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, tm := range c.timers {
		if !tm.stopped && !tm.fired {
			n++
		}
	}
	return n
}

// Advance moves the clock forward and runs every timer that came due
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	now := c.now

	var due []*timer
	for _, tm := range c.timers {
		if !tm.stopped && !tm.fired && !tm.at.After(now) {
			tm.fired = true
			due = append(due, tm)
		}
	}
	c.mu.Unlock()

	sort.Slice(due, func(i, j int) bool { return due[i].at.Before(due[j].at) })
	for _, tm := range due {
		tm.f()
	}
}

func (t *timer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()

	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}
