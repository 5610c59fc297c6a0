// ABOUTME: Tests for the capability gate
// ABOUTME: Covers pending restore, expiry re-checks and role ordering

package guard

import (
	"testing"
	"time"

	"github.com/yaswanth756/vibha-sports-client/internal/apperr"
	"github.com/yaswanth756/vibha-sports-client/internal/models"
	"github.com/yaswanth756/vibha-sports-client/internal/session"
	"github.com/yaswanth756/vibha-sports-client/internal/session/sessiontest"
)

var start = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func storeWith(t *testing.T, role string, exp time.Time) (*session.Store, *sessiontest.Clock) {
	t.Helper()
	clock := sessiontest.NewClock(start)
	store := session.New(session.NewMemoryTokenStore(""), session.WithClock(clock))
	store.Restore()
	if role != "-" {
		if _, err := store.Establish(sessiontest.Token(t, "u-1", role, exp)); err != nil {
			t.Fatalf("Establish() error: %v", err)
		}
	}
	return store, clock
}

func TestEvaluate_PendingWhileRestoring(t *testing.T) {
	store := session.New(session.NewMemoryTokenStore(""), session.WithClock(sessiontest.NewClock(start)))

	d := New(store, models.RoleUser).Evaluate(start)
	if d.Outcome != Pending {
		t.Errorf("Outcome = %v, want pending", d.Outcome)
	}
}

func TestEvaluate_Roles(t *testing.T) {
	tests := []struct {
		name     string
		role     string
		required models.Role
		want     Outcome
		wantKind apperr.Kind
	}{
		{"user on user page", "user", models.RoleUser, Allowed, 0},
		{"missing role defaults to user", "", models.RoleUser, Allowed, 0},
		{"admin on user page", "admin", models.RoleUser, Allowed, 0},
		{"admin on admin page", "admin", models.RoleAdmin, Allowed, 0},
		{"user on admin page", "user", models.RoleAdmin, Denied, apperr.Unauthorized},
		{"unknown role", "owner", models.RoleUser, Denied, apperr.Unauthorized},
		{"anonymous", "-", models.RoleUser, Denied, apperr.SessionInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, clock := storeWith(t, tt.role, start.Add(time.Hour))

			d := New(store, tt.required).Evaluate(clock.Now())
			if d.Outcome != tt.want {
				t.Fatalf("Outcome = %v, want %v", d.Outcome, tt.want)
			}
			if tt.want == Denied {
				if apperr.KindOf(d.Err) != tt.wantKind {
					t.Errorf("Err kind = %v, want %v", apperr.KindOf(d.Err), tt.wantKind)
				}
				if d.Notice != DeniedNotice || d.Redirect != RedirectLogin {
					t.Errorf("Unexpected notice/redirect: %q %q", d.Notice, d.Redirect)
				}
			}
		})
	}
}

func TestEvaluate_UnauthorizedKeepsSession(t *testing.T) {
	store, clock := storeWith(t, "user", start.Add(time.Hour))

	New(store, models.RoleAdmin).Evaluate(clock.Now())

	if store.Current(clock.Now()) == nil {
		t.Error("Expected session to survive a role denial")
	}
}

func TestEvaluate_ExpiredTokenDeniedAndTornDown(t *testing.T) {
	store, clock := storeWith(t, "admin", start.Add(time.Hour))
	g := New(store, models.RoleUser)

	if d := g.Evaluate(clock.Now()); d.Outcome != Allowed {
		t.Fatalf("Outcome before expiry = %v, want allowed", d.Outcome)
	}

	// evaluated past expiry without the timer having fired
	late := start.Add(time.Hour + time.Second)
	d := g.Evaluate(late)
	if d.Outcome != Denied || apperr.KindOf(d.Err) != apperr.SessionInvalid {
		t.Fatalf("Expected SessionInvalid denial, got %v %v", d.Outcome, d.Err)
	}
	if store.Token(start) != "" {
		t.Error("Expected stale session to be torn down")
	}
}

func TestNew_PanicsOnUnknownRole(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Expected panic for unknown role")
		}
	}()
	New(nil, models.Role("owner"))
}
