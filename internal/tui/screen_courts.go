// ABOUTME: Courts and pricing screen, available to admins
// ABOUTME: Read-only listing of every court with its hourly price

package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/yaswanth756/vibha-sports-client/internal/guard"
	"github.com/yaswanth756/vibha-sports-client/internal/tui/icons"
	"github.com/yaswanth756/vibha-sports-client/internal/tui/styles"
)

func (a *App) openCourts() (tea.Model, tea.Cmd) {
	d := a.adminGuard.Evaluate(a.now())
	if d.Outcome != guard.Allowed {
		return a.deny(d, ScreenCourts)
	}

	a.screen = ScreenCourts
	a.loadingCourts = true
	apiClient := a.client
	return a, func() tea.Msg {
		courts, err := apiClient.Courts(context.Background())
		return courtsLoadedMsg{courts: courts, err: err}
	}
}

func (a *App) handleCourtsLoaded(msg courtsLoadedMsg) (tea.Model, tea.Cmd) {
	a.loadingCourts = false
	if msg.err != nil {
		return a.handleIdentityCallError(msg.err, ScreenCourts)
	}
	a.courts = msg.courts
	a.lastUpdate = a.now()
	return a, nil
}

func (a *App) updateCourts(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit
	case key.Matches(msg, a.keys.Help):
		a.help.ShowAll = !a.help.ShowAll
	case key.Matches(msg, a.keys.Back):
		a.screen = ScreenHome
		return a, a.menu.Init()
	case key.Matches(msg, a.keys.Refresh):
		return a.openCourts()
	}
	return a, nil
}

func (a *App) viewCourts() string {
	var sb strings.Builder

	sb.WriteString(styles.Title.Render(icons.Admin.String() + " Courts & pricing"))
	sb.WriteString("\n")

	switch {
	case a.loadingCourts && len(a.courts) == 0:
		sb.WriteString(a.spinner.View() + " Loading courts...")
	case len(a.courts) == 0:
		sb.WriteString(lipgloss.NewStyle().Foreground(styles.Muted).Render("No courts configured."))
	default:
		header := lipgloss.NewStyle().Foreground(styles.Muted).Render(fmt.Sprintf("%-20s  %s", "Court", "Price per hour"))
		rows := []string{header}
		for _, c := range a.courts {
			rows = append(rows, fmt.Sprintf("%-20s  %s", c.Name, styles.Price.Render(formatPrice(c.PricePerHour))))
		}
		sb.WriteString(styles.Panel.Render(strings.Join(rows, "\n")))
	}

	return sb.String()
}
