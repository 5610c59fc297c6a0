// ABOUTME: Capability gate for protected screens and commands
// ABOUTME: Orders roles by privilege and re-checks token expiry on every evaluation

package guard

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/yaswanth756/vibha-sports-client/internal/apperr"
	"github.com/yaswanth756/vibha-sports-client/internal/models"
	"github.com/yaswanth756/vibha-sports-client/internal/session"
)

// DeniedNotice is shown whenever access is refused
const DeniedNotice = "You are not authorized to access this page."

// RedirectLogin names the surface a denied caller is sent to
const RedirectLogin = "login"

// roleHierarchy defines the privilege level for each role.
// Unknown roles resolve to 0, which denies every capability.
var roleHierarchy = map[models.Role]int{
	models.RoleUser:  1,
	models.RoleAdmin: 2,
}

// Sessions is the part of the session store the guard reads
type Sessions interface {
	Status(now time.Time) session.Status
	Current(now time.Time) *models.Claims
	Teardown(reason session.Reason)
}

// Outcome of an evaluation
type Outcome int

const (
	// Pending means the session is still being restored; render nothing yet
	Pending Outcome = iota
	Allowed
	Denied
)

func (o Outcome) String() string {
	switch o {
	case Pending:
		return "pending"
	case Allowed:
		return "allowed"
	case Denied:
		return "denied"
	default:
		return "unknown"
	}
}

// Decision is the result of Evaluate
type Decision struct {
	Outcome  Outcome
	Claims   *models.Claims // set when Allowed
	Err      error          // SessionInvalid or Unauthorized when Denied
	Notice   string
	Redirect string
}

// Guard protects one capability
type Guard struct {
	sessions Sessions
	required models.Role
	level    int
}

// New creates a guard requiring at least role.
// Panics if role is not in the hierarchy.
func New(sessions Sessions, role models.Role) *Guard {
	level, ok := roleHierarchy[role]
	if !ok {
		panic(fmt.Sprintf("guard.New: unknown role %q", role))
	}
	return &Guard{sessions: sessions, required: role, level: level}
}

// Required returns the role the guard demands
func (g *Guard) Required() models.Role {
	return g.required
}

// Evaluate decides access at now. A missing or expired session is torn down;
// an insufficient role leaves the session in place.
func (g *Guard) Evaluate(now time.Time) Decision {
	if g.sessions.Status(now) == session.StatusRestoring {
		return Decision{Outcome: Pending}
	}

	claims := g.sessions.Current(now)
	if claims == nil {
		g.sessions.Teardown(session.ReasonInvalid)
		return Decision{
			Outcome:  Denied,
			Err:      apperr.New(apperr.SessionInvalid, "please log in to continue"),
			Notice:   DeniedNotice,
			Redirect: RedirectLogin,
		}
	}

	if roleHierarchy[claims.Role] < g.level {
		slog.Warn("Authorization denied",
			"required_role", g.required,
			"user_role", claims.Role,
			"user", claims.ID,
		)
		return Decision{
			Outcome:  Denied,
			Err:      apperr.New(apperr.Unauthorized, DeniedNotice),
			Notice:   DeniedNotice,
			Redirect: RedirectLogin,
		}
	}

	return Decision{Outcome: Allowed, Claims: claims}
}
