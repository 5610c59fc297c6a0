// ABOUTME: Root bubbletea model for the storefront TUI
// ABOUTME: Owns the session, selection and booking state and routes input to the active screen

package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/yaswanth756/vibha-sports-client/internal/booking"
	"github.com/yaswanth756/vibha-sports-client/internal/client"
	"github.com/yaswanth756/vibha-sports-client/internal/config"
	"github.com/yaswanth756/vibha-sports-client/internal/guard"
	"github.com/yaswanth756/vibha-sports-client/internal/models"
	"github.com/yaswanth756/vibha-sports-client/internal/selection"
	"github.com/yaswanth756/vibha-sports-client/internal/session"
	"github.com/yaswanth756/vibha-sports-client/internal/slots"
	"github.com/yaswanth756/vibha-sports-client/internal/tui/login"
	"github.com/yaswanth756/vibha-sports-client/internal/tui/menu"
	"github.com/yaswanth756/vibha-sports-client/internal/tui/styles"
)

// Screen represents the current TUI screen
type Screen int

const (
	ScreenHome Screen = iota
	ScreenLogin
	ScreenBooking
	ScreenMyBookings
	ScreenCourts
)

// Layout constants
const (
	minTerminalWidth = 80 // Frame never renders narrower than this
	toastDuration    = 4 * time.Second
)

// slotsLoadedMsg carries availability and the court price for one fetch ticket
type slotsLoadedMsg struct {
	ticket   slots.Ticket
	slots    []models.Slot
	price    float64
	priceErr error
}

// bookingResultMsg is sent when the create booking call returns
type bookingResultMsg struct {
	booking *models.Booking
	err     error
}

// bookingsLoadedMsg is sent when the user's bookings are fetched
type bookingsLoadedMsg struct {
	userID   string
	bookings []models.Booking
	err      error
}

// cancelResultMsg is sent when a cancellation call returns
type cancelResultMsg struct {
	id  string
	err error
}

// courtsLoadedMsg is sent when the court list is fetched
type courtsLoadedMsg struct {
	courts []models.Court
	err    error
}

// sessionEventMsg forwards a session store event into the update loop
type sessionEventMsg struct {
	event session.Event
}

// App is the root model for the TUI
type App struct {
	client   *client.Client
	sessions *session.Store
	cfg      *config.Config

	fetcher    *slots.Fetcher
	engine     *selection.Engine
	submitter  *booking.Submitter
	ledger     *booking.Ledger
	userGuard  *guard.Guard
	adminGuard *guard.Guard

	screen     Screen
	afterLogin Screen // where a login started by a guard or the submitter returns to
	width      int
	height     int
	lastUpdate time.Time

	// send delivers messages from outside the update loop; nil until Run
	send func(tea.Msg)

	keys     keyMap
	help     help.Model
	spinner  spinner.Model
	toast    *toast
	toastSeq int

	// Child models
	menu  *menu.Menu
	login *login.Login

	// Booking screen
	dates        []time.Time
	dateIdx      int
	courtIdx     int
	typeIdx      int
	buckets      slots.Buckets
	visible      []models.Slot // buckets flattened in display order
	cursor       int
	loadingSlots bool

	// My bookings screen
	tabIdx          int
	bookingCursor   int
	loadingBookings bool
	pendingCancel   *models.Booking
	cancelling      bool

	// Courts screen
	courts        []models.Court
	loadingCourts bool
}

// New creates the TUI application
func New(cfg *config.Config, apiClient *client.Client, sessions *session.Store) *App {
	engine := selection.New()
	submitter := booking.NewSubmitter(engine, sessions)
	submitter.SetNow(sessions.Now)

	a := &App{
		client:     apiClient,
		sessions:   sessions,
		cfg:        cfg,
		fetcher:    slots.NewFetcher(apiClient),
		engine:     engine,
		submitter:  submitter,
		ledger:     booking.NewLedger(apiClient, booking.WithLeadTime(cfg.CancelLeadTime)),
		userGuard:  guard.New(sessions, models.RoleUser),
		adminGuard: guard.New(sessions, models.RoleAdmin),
		screen:     ScreenHome,
		afterLogin: ScreenHome,
		keys:       newKeyMap(),
		help:       help.New(),
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(styles.Primary)),
		),
		menu: menu.New(nil),
	}

	sessions.Subscribe(a.onSessionEvent)
	return a
}

// onSessionEvent runs on whichever goroutine changed the session, including the
// expiry timer, so it only hands the event to the program.
func (a *App) onSessionEvent(ev session.Event) {
	if send := a.send; send != nil {
		go send(sessionEventMsg{event: ev})
	}
}

// now is the session clock's current time
func (a *App) now() time.Time {
	return a.sessions.Now()
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	a.sessions.Restore()
	a.rebuildMenu()
	return tea.Batch(a.menu.Init(), a.spinner.Tick)
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = a.frameWidth()
		// Forward to child models
		a.menu.Update(msg)
		if a.login != nil {
			a.login.SetWidth(a.frameWidth())
			a.login.Update(msg)
		}
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case toastExpiredMsg:
		if a.toast != nil && a.toast.id == msg.id {
			a.toast = nil
		}
		return a, nil

	case sessionEventMsg:
		return a.handleSessionEvent(msg.event)

	case slotsLoadedMsg:
		return a.handleSlotsLoaded(msg)

	case bookingResultMsg:
		return a.handleBookingResult(msg)

	case bookingsLoadedMsg:
		return a.handleBookingsLoaded(msg)

	case cancelResultMsg:
		return a.handleCancelResult(msg)

	case courtsLoadedMsg:
		return a.handleCourtsLoaded(msg)

	case menu.SelectedMsg:
		return a.handleMenuSelection(msg.Action)

	case login.CompleteMsg:
		return a.handleLoginComplete(msg.Token)

	case login.CancelledMsg:
		a.login = nil
		a.afterLogin = ScreenHome
		a.screen = ScreenHome
		return a, a.menu.Init()

	case tea.KeyMsg:
		// Handle global quit
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

		switch a.screen {
		case ScreenHome:
			return a.updateHome(msg)
		case ScreenLogin:
			return a.updateLogin(msg)
		case ScreenBooking:
			return a.updateBooking(msg)
		case ScreenMyBookings:
			return a.updateMyBookings(msg)
		case ScreenCourts:
			return a.updateCourts(msg)
		}
	}

	// Forms need their internal messages
	switch a.screen {
	case ScreenHome:
		_, cmd := a.menu.Update(msg)
		return a, cmd
	case ScreenLogin:
		return a.updateLogin(msg)
	}

	return a, nil
}

func (a *App) updateHome(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "q" {
		return a, tea.Quit
	}
	_, cmd := a.menu.Update(msg)
	return a, cmd
}

func (a *App) updateLogin(msg tea.Msg) (tea.Model, tea.Cmd) {
	if a.login == nil {
		return a, nil
	}
	_, cmd := a.login.Update(msg)
	return a, cmd
}

func (a *App) handleMenuSelection(action menu.Action) (tea.Model, tea.Cmd) {
	switch action {
	case menu.ActionBook:
		return a.openBooking()
	case menu.ActionMyBookings:
		return a.openMyBookings()
	case menu.ActionCourts:
		return a.openCourts()
	case menu.ActionLogin:
		return a.openLogin(ScreenHome)
	case menu.ActionLogout:
		a.sessions.Teardown(session.ReasonLogout)
		a.clearIdentityState()
		a.rebuildMenu()
		return a, tea.Batch(a.menu.Init(), a.notify("You have been logged out.", levelOK))
	case menu.ActionQuit:
		return a, tea.Quit
	}
	return a, nil
}

// openLogin starts the login flow; after a successful login the app moves to next
func (a *App) openLogin(next Screen) (tea.Model, tea.Cmd) {
	a.afterLogin = next
	a.login = login.New(a.client)
	a.login.SetWidth(a.frameWidth())
	a.screen = ScreenLogin
	return a, a.login.Init()
}

// redirectToLogin reports why access was refused and starts the login flow
func (a *App) redirectToLogin(next Screen, notice string) (tea.Model, tea.Cmd) {
	toastCmd := a.notify(notice, levelWarning)
	_, cmd := a.openLogin(next)
	return a, tea.Batch(toastCmd, cmd)
}

func (a *App) handleLoginComplete(token string) (tea.Model, tea.Cmd) {
	a.login = nil
	next := a.afterLogin
	a.afterLogin = ScreenHome

	claims, err := a.sessions.Establish(token)
	a.rebuildMenu()
	if err != nil {
		a.screen = ScreenHome
		return a, tea.Batch(a.menu.Init(), a.notifyError(err))
	}

	welcome := a.notify("Welcome, "+claims.Name+"!", levelOK)
	switch next {
	case ScreenBooking:
		a.screen = ScreenBooking
		return a, welcome
	case ScreenMyBookings:
		_, cmd := a.openMyBookings()
		return a, tea.Batch(welcome, cmd)
	case ScreenCourts:
		_, cmd := a.openCourts()
		return a, tea.Batch(welcome, cmd)
	default:
		a.screen = ScreenHome
		return a, tea.Batch(welcome, a.menu.Init())
	}
}

func (a *App) handleSessionEvent(ev session.Event) (tea.Model, tea.Cmd) {
	a.rebuildMenu()
	cmds := []tea.Cmd{a.menu.Init()}

	if ev.Kind != session.EventCleared {
		return a, tea.Batch(cmds...)
	}

	a.clearIdentityState()
	switch s := a.submitter.State(); s {
	case booking.Confirming, booking.Failed:
		a.submitter.CancelDialog()
	}

	switch a.screen {
	case ScreenMyBookings, ScreenCourts:
		a.screen = ScreenHome
	}

	if ev.Reason == session.ReasonExpired {
		cmds = append(cmds, a.notify("Your session has expired. Please log in again.", levelWarning))
	}
	return a, tea.Batch(cmds...)
}

// clearIdentityState drops everything loaded for the previous identity
func (a *App) clearIdentityState() {
	a.ledger.Replace(nil)
	a.pendingCancel = nil
	a.cancelling = false
	a.courts = nil
}

func (a *App) rebuildMenu() {
	a.menu = menu.New(a.sessions.Current(a.now()))
}

// deny turns a refused guard decision into feedback. Both a missing session and
// an insufficient role go to login and return to target afterwards; the current
// session stays until another account logs in.
func (a *App) deny(d guard.Decision, target Screen) (tea.Model, tea.Cmd) {
	switch {
	case d.Outcome == guard.Pending:
		return a, a.notify("Restoring your session...", levelInfo)
	case d.Redirect == guard.RedirectLogin:
		return a.redirectToLogin(target, d.Notice)
	default:
		a.screen = ScreenHome
		return a, a.notify(d.Notice, levelWarning)
	}
}

// View implements tea.Model
func (a *App) View() string {
	var content string

	switch a.screen {
	case ScreenHome:
		content = a.viewHome()
	case ScreenLogin:
		content = a.viewLogin()
	case ScreenBooking:
		content = a.viewBooking()
	case ScreenMyBookings:
		content = a.viewMyBookings()
	case ScreenCourts:
		content = a.viewCourts()
	}

	if a.help.ShowAll && a.screen != ScreenHome && a.screen != ScreenLogin {
		content += "\n\n" + a.help.View(a.keys)
	}
	if a.toast != nil {
		content += "\n\n" + a.toast.render()
	}

	return a.wrapWithFrame(content)
}

func (a *App) viewHome() string {
	greeting := "Welcome! Log in to manage your bookings."
	if claims := a.sessions.Current(a.now()); claims != nil {
		greeting = "Hi " + claims.Name + ", ready to play?"
	}
	return styles.Title.Render("Vibha Sports") + "\n" +
		styles.Subtitle.Render(greeting) + "\n" +
		a.menu.View()
}

func (a *App) viewLogin() string {
	if a.login == nil {
		return ""
	}
	return a.login.View()
}

// Run starts the TUI
func Run(cfg *config.Config, apiClient *client.Client, sessions *session.Store) error {
	app := New(cfg, apiClient, sessions)

	p := tea.NewProgram(
		app,
		tea.WithAltScreen(),
	)
	app.send = p.Send

	_, err := p.Run()
	return err
}
