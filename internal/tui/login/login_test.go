// ABOUTME: Tests for the login flow model
// ABOUTME: Covers step transitions, service errors, and input validation

package login

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/yaswanth756/vibha-sports-client/internal/apperr"
	"github.com/yaswanth756/vibha-sports-client/internal/models"
)

type fakeAuth struct {
	isNew    bool
	token    string
	err      error
	login    *models.LoginRequest
	register *models.RegisterRequest
}

func (f *fakeAuth) CheckUser(ctx context.Context, email string) (*models.CheckUserResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.CheckUserResponse{IsNew: f.isNew}, nil
}

func (f *fakeAuth) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	f.login = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.AuthResponse{Token: f.token}, nil
}

func (f *fakeAuth) Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, error) {
	f.register = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.AuthResponse{Token: f.token}, nil
}

func update(t *testing.T, l *Login, msg tea.Msg) (*Login, tea.Cmd) {
	t.Helper()
	model, cmd := l.Update(msg)
	return model.(*Login), cmd
}

func TestLoginStartsAtEmail(t *testing.T) {
	l := New(&fakeAuth{})
	if l.step != stepEmail {
		t.Errorf("expected email step, got %d", l.step)
	}
	if l.form == nil {
		t.Fatal("expected form to be initialized")
	}
}

func TestLoginEmailStepChecksUser(t *testing.T) {
	auth := &fakeAuth{isNew: true}
	l := New(auth)
	l.email = "asha@example.com"

	model, cmd := l.advance()
	l = model.(*Login)
	if !l.busy {
		t.Error("expected flow to be busy while checking")
	}

	msg := cmd()
	checked, ok := msg.(checkedMsg)
	if !ok {
		t.Fatalf("expected checkedMsg, got %T", msg)
	}
	if !checked.isNew {
		t.Error("expected new account")
	}

	l, _ = update(t, l, checked)
	if l.step != stepVerify {
		t.Errorf("expected verify step, got %d", l.step)
	}
	if !l.isNew || l.busy {
		t.Errorf("expected isNew and not busy, got isNew=%v busy=%v", l.isNew, l.busy)
	}
}

func TestLoginCheckFailureStaysOnEmail(t *testing.T) {
	l := New(&fakeAuth{})
	l.busy = true

	l, _ = update(t, l, checkedMsg{err: apperr.New(apperr.NetworkFailure, "cannot connect to booking service")})
	if l.step != stepEmail {
		t.Errorf("expected email step, got %d", l.step)
	}
	if l.err != "cannot connect to booking service" {
		t.Errorf("unexpected error text %q", l.err)
	}
	if l.busy {
		t.Error("expected busy to be cleared")
	}
}

func TestLoginVerifyExistingAccount(t *testing.T) {
	auth := &fakeAuth{token: "tok"}
	l := New(auth)
	l.email = " asha@example.com "
	l, _ = update(t, l, checkedMsg{isNew: false})
	l.otp = "123456"

	_, cmd := l.advance()
	l, cmd = update(t, l, cmd())
	if cmd == nil {
		t.Fatal("expected completion command")
	}
	done, ok := cmd().(CompleteMsg)
	if !ok {
		t.Fatal("expected CompleteMsg")
	}
	if done.Token != "tok" {
		t.Errorf("expected token tok, got %q", done.Token)
	}
	if auth.login == nil || auth.login.Email != "asha@example.com" || auth.login.OTP != "123456" {
		t.Errorf("unexpected login request %+v", auth.login)
	}
	if auth.register != nil {
		t.Error("expected no registration for a known account")
	}
}

func TestLoginVerifyNewAccountRegisters(t *testing.T) {
	auth := &fakeAuth{isNew: true, token: "tok"}
	l := New(auth)
	l.email = "new@example.com"
	l, _ = update(t, l, checkedMsg{isNew: true})
	l.otp, l.name, l.phone = "4321", "Ravi", "9876543210"

	_, cmd := l.advance()
	msg := cmd()
	if m, ok := msg.(authedMsg); !ok || m.token != "tok" {
		t.Fatalf("expected authedMsg with token, got %#v", msg)
	}
	if auth.register == nil {
		t.Fatal("expected registration request")
	}
	if auth.register.Name != "Ravi" || auth.register.Phone != "9876543210" || auth.register.Admin {
		t.Errorf("unexpected register request %+v", auth.register)
	}
}

func TestLoginVerifyFailureClearsCode(t *testing.T) {
	l := New(&fakeAuth{})
	l, _ = update(t, l, checkedMsg{})
	l.otp = "0000"
	l.busy = true

	l, _ = update(t, l, authedMsg{err: apperr.New(apperr.ServiceError, "Invalid OTP")})
	if l.step != stepVerify {
		t.Errorf("expected to stay on verify, got %d", l.step)
	}
	if l.otp != "" {
		t.Errorf("expected code to be cleared, got %q", l.otp)
	}
	if l.err != "Invalid OTP" {
		t.Errorf("unexpected error text %q", l.err)
	}
}

func TestLoginEmptyTokenIsAnError(t *testing.T) {
	msg := authResult(&models.AuthResponse{}, nil)
	if msg.err == nil {
		t.Fatal("expected error for missing token")
	}
	if apperr.KindOf(msg.err) != apperr.ServiceError {
		t.Errorf("expected ServiceError, got %v", apperr.KindOf(msg.err))
	}
}

func TestLoginEscape(t *testing.T) {
	l := New(&fakeAuth{})
	l, _ = update(t, l, checkedMsg{})

	l, _ = update(t, l, tea.KeyMsg{Type: tea.KeyEsc})
	if l.step != stepEmail {
		t.Fatalf("expected esc on verify to return to email, got %d", l.step)
	}

	_, cmd := update(t, l, tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("expected cancel command")
	}
	if _, ok := cmd().(CancelledMsg); !ok {
		t.Error("expected CancelledMsg")
	}
}

func TestLoginIgnoresKeysWhileBusy(t *testing.T) {
	l := New(&fakeAuth{})
	l.busy = true

	_, cmd := update(t, l, tea.KeyMsg{Type: tea.KeyEsc})
	if cmd != nil {
		t.Error("expected keys to be ignored while busy")
	}
}

func TestValidators(t *testing.T) {
	tests := []struct {
		name  string
		check func(string) error
		input string
		ok    bool
	}{
		{"email ok", validateEmail, "asha@example.com", true},
		{"email missing at", validateEmail, "asha.example.com", false},
		{"email with name", validateEmail, "Asha <asha@example.com>", false},
		{"otp ok", validateOTP, "123456", true},
		{"otp empty", validateOTP, " ", false},
		{"otp letters", validateOTP, "12ab", false},
		{"phone ok", validatePhone, "9876543210", true},
		{"phone intl", validatePhone, "+91 98765-43210", true},
		{"phone short", validatePhone, "12345", false},
		{"phone letters", validatePhone, "98765x3210", false},
		{"name ok", required("name"), "Ravi", true},
		{"name blank", required("name"), "  ", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.check(tt.input)
			if (err == nil) != tt.ok {
				t.Errorf("input %q: got err=%v, want ok=%v", tt.input, err, tt.ok)
			}
		})
	}
}
