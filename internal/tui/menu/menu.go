// ABOUTME: Home menu of the storefront as a bubbletea model
// ABOUTME: Offers booking, my bookings, courts, and login/logout depending on the session

package menu

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/yaswanth756/vibha-sports-client/internal/models"
	"github.com/yaswanth756/vibha-sports-client/internal/tui/styles"
)

// Action is a home menu entry
type Action int

const (
	ActionBook Action = iota
	ActionMyBookings
	ActionCourts
	ActionLogin
	ActionLogout
	ActionQuit
)

// SelectedMsg is sent when the user picks an entry
type SelectedMsg struct {
	Action Action
}

type option struct {
	label string
	value Action
	note  string
}

// Menu is the home screen menu
type Menu struct {
	options  []option
	selected Action
	form     *huh.Form
}

// New creates the menu for the signed-in identity. claims is nil for guests.
// Entries the identity cannot open are still listed; access is checked on selection.
func New(claims *models.Claims) *Menu {
	m := &Menu{
		options: []option{
			{label: "Book a court", value: ActionBook},
			{label: "My bookings", value: ActionMyBookings},
			{label: "Courts & pricing", value: ActionCourts},
		},
		selected: ActionBook,
	}

	switch {
	case claims == nil:
		m.options[1].note = "login required"
		m.options[2].note = "admins only"
		m.options = append(m.options, option{label: "Log in", value: ActionLogin})
	default:
		if claims.Role != models.RoleAdmin {
			m.options[2].note = "admins only"
		}
		m.options = append(m.options, option{label: fmt.Sprintf("Log out (%s)", claims.Name), value: ActionLogout})
	}
	m.options = append(m.options, option{label: "Quit", value: ActionQuit})

	m.form = m.build()
	return m
}

func (m *Menu) build() *huh.Form {
	var options []huh.Option[Action]
	for _, opt := range m.options {
		label := opt.label
		if opt.note != "" {
			label = fmt.Sprintf("%s (%s)", label, opt.note)
		}
		options = append(options, huh.NewOption(label, opt.value))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[Action]().
				Title("What would you like to do?").
				Options(options...).
				Value(&m.selected),
		),
	).WithTheme(styles.FormTheme()).WithShowHelp(false)
}

// Init implements tea.Model
func (m *Menu) Init() tea.Cmd {
	return m.form.Init()
}

// Update implements tea.Model
func (m *Menu) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		action := m.selected
		m.form = m.build()
		return m, tea.Batch(m.form.Init(), func() tea.Msg { return SelectedMsg{Action: action} })
	}

	return m, cmd
}

// View implements tea.Model
func (m *Menu) View() string {
	return m.form.View()
}

// Actions lists the entries in display order
func (m *Menu) Actions() []Action {
	out := make([]Action, len(m.options))
	for i, opt := range m.options {
		out[i] = opt.value
	}
	return out
}

// String returns the string representation of an Action
func (a Action) String() string {
	switch a {
	case ActionBook:
		return "book"
	case ActionMyBookings:
		return "bookings"
	case ActionCourts:
		return "courts"
	case ActionLogin:
		return "login"
	case ActionLogout:
		return "logout"
	case ActionQuit:
		return "quit"
	default:
		return "unknown"
	}
}
