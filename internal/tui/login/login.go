// ABOUTME: One-time-password login and registration flow as a bubbletea model
// ABOUTME: Email step checks the account, verify step logs in or registers with name and phone

package login

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"unicode"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/yaswanth756/vibha-sports-client/internal/apperr"
	"github.com/yaswanth756/vibha-sports-client/internal/models"
	"github.com/yaswanth756/vibha-sports-client/internal/tui/icons"
	"github.com/yaswanth756/vibha-sports-client/internal/tui/styles"
)

// Auth is the booking service's account API
type Auth interface {
	CheckUser(ctx context.Context, email string) (*models.CheckUserResponse, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error)
	Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, error)
}

// CompleteMsg is sent when the service issued a token
type CompleteMsg struct {
	Token string
}

// CancelledMsg is sent when the user leaves the flow
type CancelledMsg struct{}

type step int

const (
	stepEmail step = iota + 1
	stepVerify
)

// Step names for progress indicator
var stepNames = []string{"Email", "Verify"}

// checkedMsg carries the account lookup for the entered email
type checkedMsg struct {
	isNew bool
	err   error
}

// authedMsg carries the login or registration result
type authedMsg struct {
	token string
	err   error
}

// Login manages the login flow
type Login struct {
	auth  Auth
	form  *huh.Form
	step  step
	busy  bool
	isNew bool
	width int
	err   string

	// Form field values
	email string
	otp   string
	name  string
	phone string
}

// New creates the flow at the email step
func New(auth Auth) *Login {
	l := &Login{auth: auth, step: stepEmail}
	l.form = l.emailForm()
	return l
}

func (l *Login) emailForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Placeholder("Enter your email").
				CharLimit(254).
				Value(&l.email).
				Validate(validateEmail),
		).Title("Log in or sign up").
			Description("We'll email you a one-time code"),
	).WithTheme(styles.FormTheme())
}

func (l *Login) verifyForm() *huh.Form {
	fields := []huh.Field{
		huh.NewInput().
			Title("One-time code").
			Description("Sent to " + l.email).
			Placeholder("Enter the OTP").
			CharLimit(8).
			Value(&l.otp).
			Validate(validateOTP),
	}
	title := "Welcome back"
	if l.isNew {
		title = "Create your account"
		fields = append(fields,
			huh.NewInput().
				Title("Name").
				Placeholder("Enter your name").
				CharLimit(80).
				Value(&l.name).
				Validate(required("name")),
			huh.NewInput().
				Title("Phone").
				Placeholder("Enter your phone number").
				CharLimit(16).
				Value(&l.phone).
				Validate(validatePhone),
		)
	}

	return huh.NewForm(
		huh.NewGroup(fields...).Title(title).Description("Esc changes the email"),
	).WithTheme(styles.FormTheme())
}

// Init implements tea.Model
func (l *Login) Init() tea.Cmd {
	return l.form.Init()
}

// Update implements tea.Model
func (l *Login) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		l.width = msg.Width
		form, cmd := l.form.Update(msg)
		if f, ok := form.(*huh.Form); ok {
			l.form = f
		}
		return l, cmd

	case checkedMsg:
		l.busy = false
		if msg.err != nil {
			l.err = apperr.Message(msg.err)
			l.form = l.emailForm()
			return l, l.form.Init()
		}
		l.err = ""
		l.isNew = msg.isNew
		l.step = stepVerify
		l.form = l.verifyForm()
		return l, l.form.Init()

	case authedMsg:
		l.busy = false
		if msg.err != nil {
			l.err = apperr.Message(msg.err)
			l.otp = ""
			l.form = l.verifyForm()
			return l, l.form.Init()
		}
		token := msg.token
		return l, func() tea.Msg { return CompleteMsg{Token: token} }

	case tea.KeyMsg:
		if l.busy {
			return l, nil
		}
		if msg.String() == "esc" {
			return l.back()
		}
	}

	if l.busy {
		return l, nil
	}

	form, cmd := l.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		l.form = f
	}

	if l.form.State == huh.StateCompleted {
		return l.advance()
	}

	return l, cmd
}

// back returns to the email step, or leaves the flow from there
func (l *Login) back() (tea.Model, tea.Cmd) {
	if l.step == stepVerify {
		l.step = stepEmail
		l.err = ""
		l.otp, l.name, l.phone = "", "", ""
		l.form = l.emailForm()
		return l, l.form.Init()
	}
	return l, func() tea.Msg { return CancelledMsg{} }
}

func (l *Login) advance() (tea.Model, tea.Cmd) {
	l.busy = true
	l.err = ""

	auth := l.auth
	email := strings.TrimSpace(l.email)

	if l.step == stepEmail {
		return l, func() tea.Msg {
			resp, err := auth.CheckUser(context.Background(), email)
			if err != nil {
				return checkedMsg{err: err}
			}
			return checkedMsg{isNew: resp.IsNew}
		}
	}

	otp := strings.TrimSpace(l.otp)
	if l.isNew {
		req := &models.RegisterRequest{
			Email: email,
			OTP:   otp,
			Name:  strings.TrimSpace(l.name),
			Phone: strings.TrimSpace(l.phone),
		}
		return l, func() tea.Msg {
			resp, err := auth.Register(context.Background(), req)
			return authResult(resp, err)
		}
	}

	req := &models.LoginRequest{Email: email, OTP: otp}
	return l, func() tea.Msg {
		resp, err := auth.Login(context.Background(), req)
		return authResult(resp, err)
	}
}

func authResult(resp *models.AuthResponse, err error) authedMsg {
	if err != nil {
		return authedMsg{err: err}
	}
	if resp.Token == "" {
		return authedMsg{err: apperr.New(apperr.ServiceError, "login succeeded but no token was issued")}
	}
	return authedMsg{token: resp.Token}
}

// SetWidth sets the flow width for proper rendering
func (l *Login) SetWidth(width int) {
	l.width = width
}

// View implements tea.Model
func (l *Login) View() string {
	var sb strings.Builder

	sb.WriteString(l.renderProgress())
	sb.WriteString("\n\n")

	if l.busy {
		msg := "Sending a code to " + l.email + "..."
		if l.step == stepVerify {
			msg = "Verifying..."
		}
		sb.WriteString(lipgloss.NewStyle().Foreground(styles.Muted).Render(msg))
	} else {
		sb.WriteString(l.form.View())
	}

	if l.err != "" {
		sb.WriteString("\n")
		sb.WriteString(styles.StatusCritical.Render(icons.Critical.String() + " " + l.err))
	}

	return sb.String()
}

// renderProgress renders the step indicator
func (l *Login) renderProgress() string {
	var steps []string
	for i, name := range stepNames {
		n := step(i + 1)
		var indicator string
		var nameStyle lipgloss.Style

		switch {
		case n < l.step:
			indicator = lipgloss.NewStyle().Foreground(styles.Secondary).Render(icons.CheckOK.String())
			nameStyle = lipgloss.NewStyle().Foreground(styles.Muted)
		case n == l.step:
			indicator = lipgloss.NewStyle().Foreground(styles.Primary).Bold(true).Render("●")
			nameStyle = lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
		default:
			indicator = lipgloss.NewStyle().Foreground(styles.Muted).Render("○")
			nameStyle = lipgloss.NewStyle().Foreground(styles.Muted)
		}

		steps = append(steps, fmt.Sprintf("%s %s", indicator, nameStyle.Render(name)))
	}

	return icons.Login.String() + "  " + strings.Join(steps, "    ")
}

func validateEmail(s string) error {
	addr, err := mail.ParseAddress(strings.TrimSpace(s))
	if err != nil || addr.Address != strings.TrimSpace(s) {
		return errors.New("enter a valid email address")
	}
	return nil
}

func validateOTP(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return errors.New("enter the code from your email")
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return errors.New("the code is numeric")
		}
	}
	return nil
}

func validatePhone(s string) error {
	digits := 0
	for i, r := range strings.TrimSpace(s) {
		switch {
		case unicode.IsDigit(r):
			digits++
		case r == '+' && i == 0, r == ' ', r == '-':
		default:
			return errors.New("enter a valid phone number")
		}
	}
	if digits < 10 {
		return errors.New("enter a valid phone number")
	}
	return nil
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}
