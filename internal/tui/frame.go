// ABOUTME: Header and footer frame drawn around every screen
// ABOUTME: Header shows branding and identity, footer shows shortcuts and data freshness

package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/yaswanth756/vibha-sports-client/internal/models"
	"github.com/yaswanth756/vibha-sports-client/internal/tui/icons"
	"github.com/yaswanth756/vibha-sports-client/internal/tui/styles"
)

// frameWidth is the terminal width minus one column, so the frame never
// wraps, clamped to minTerminalWidth
func (a *App) frameWidth() int {
	width := a.width - 1
	if width < minTerminalWidth {
		width = minTerminalWidth
	}
	return width
}

// renderHeader creates the header bar with app branding and identity
func (a *App) renderHeader() string {
	width := a.frameWidth()

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	titleStyle := lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
	contextStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	leftText := fmt.Sprintf(" %s %s ", icons.App.String(), titleStyle.Render("Vibha Sports"))

	rightText := " " + lipgloss.NewStyle().Foreground(styles.Muted).Render("Guest") + " "
	if claims := a.sessions.Current(a.now()); claims != nil {
		icon := icons.User
		if claims.Role == models.RoleAdmin {
			icon = icons.Admin
		}
		rightText = " " + contextStyle.Render(icon.String()+" "+claims.Name) + " "
	}

	leftWidth := lipgloss.Width(leftText)
	rightWidth := lipgloss.Width(rightText)
	fillWidth := width - 4 - leftWidth - rightWidth // -4 for ╭─ and ─╮
	if fillWidth < 0 {
		fillWidth = 0
	}

	header := "╭─" + leftText + strings.Repeat("─", fillWidth) + rightText + "─╮"
	return borderStyle.Render(header)
}

// shortcuts returns the footer bindings for the current screen
func (a *App) shortcuts() []key.Binding {
	choose := key.NewBinding(key.WithHelp("Enter", "Select"))
	navigate := key.NewBinding(key.WithHelp("↑↓", "Navigate"))

	switch a.screen {
	case ScreenHome:
		return []key.Binding{navigate, choose, a.keys.Quit}
	case ScreenLogin:
		return []key.Binding{
			key.NewBinding(key.WithHelp("Enter", "Continue")),
			key.NewBinding(key.WithHelp("Esc", "Back")),
		}
	case ScreenBooking:
		return []key.Binding{a.keys.Left, a.keys.Court, a.keys.Type, a.keys.Toggle, a.keys.Proceed, a.keys.Back, a.keys.Help}
	case ScreenMyBookings:
		return []key.Binding{navigate, a.keys.Tab, a.keys.Cancel, a.keys.Refresh, a.keys.Back}
	case ScreenCourts:
		return []key.Binding{a.keys.Refresh, a.keys.Back, a.keys.Quit}
	}
	return nil
}

// renderFooter creates the footer with keyboard shortcuts and status
func (a *App) renderFooter() string {
	width := a.frameWidth()

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	keyStyle := lipgloss.NewStyle().Foreground(styles.Primary)
	labelStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	statusStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	var styled []string
	for _, b := range a.shortcuts() {
		h := b.Help()
		styled = append(styled, keyStyle.Render(h.Key)+" "+labelStyle.Render(h.Desc))
	}
	leftText := " " + strings.Join(styled, "  ") + " "

	// Right side status (last update time)
	rightText := ""
	if !a.lastUpdate.IsZero() && a.screen != ScreenHome && a.screen != ScreenLogin {
		rightText = " " + statusStyle.Render("Updated "+formatTimeSince(a.lastUpdate, a.now())) + " "
	}

	leftWidth := lipgloss.Width(leftText)
	rightWidth := lipgloss.Width(rightText)
	if leftWidth+rightWidth+4 > width {
		rightText, rightWidth = "", 0
	}
	fillWidth := width - 4 - leftWidth - rightWidth // -4 for ╰─ and ─╯
	if fillWidth < 0 {
		fillWidth = 0
	}

	footer := "╰─" + leftText + strings.Repeat("─", fillWidth) + rightText + "─╯"
	return borderStyle.Render(footer)
}

// formatTimeSince formats the time between t and now in human-readable form
func formatTimeSince(t, now time.Time) string {
	d := now.Sub(t)

	if d < time.Minute {
		secs := int(d.Seconds())
		if secs < 5 {
			return "just now"
		}
		return fmt.Sprintf("%ds ago", secs)
	}

	if d < time.Hour {
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	}

	return fmt.Sprintf("%dh ago", int(d.Hours()))
}

// wrapWithFrame wraps content with header and footer
func (a *App) wrapWithFrame(content string) string {
	var sb strings.Builder

	sb.WriteString(a.renderHeader())
	sb.WriteString("\n")
	sb.WriteString(content)
	sb.WriteString("\n")
	sb.WriteString(a.renderFooter())

	return sb.String()
}
