// ABOUTME: huh form theme shared by the login flow and the home menu
// ABOUTME: Maps the storefront palette onto huh's focused and blurred field styles

package styles

import (
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// FormTheme returns the huh theme used by every form in the app
func FormTheme() *huh.Theme {
	t := huh.ThemeBase()
	fg := func(c lipgloss.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }

	t.Group.Title = fg(Primary).Bold(true).MarginBottom(1)
	t.Group.Description = fg(Subtle).MarginBottom(1)

	f := &t.Focused
	f.Base = lipgloss.NewStyle().
		PaddingLeft(1).
		BorderStyle(lipgloss.ThickBorder()).
		BorderLeft(true).
		BorderForeground(Primary)
	f.Title = fg(Accent).Bold(true)
	f.Description = fg(Subtle)
	f.ErrorIndicator = fg(Danger).SetString(" *")
	f.ErrorMessage = fg(Danger)
	f.SelectSelector = fg(Accent).SetString("▸ ")
	f.Option = fg(Text)
	f.SelectedOption = fg(Primary).Bold(true)
	f.TextInput.Cursor = fg(Accent)
	f.TextInput.Placeholder = fg(Muted)
	f.TextInput.Prompt = fg(Primary)
	f.TextInput.Text = fg(Text)
	f.FocusedButton = lipgloss.NewStyle().Foreground(Text).Background(Primary).Padding(0, 2).MarginRight(1)
	f.BlurredButton = lipgloss.NewStyle().Foreground(Subtle).Background(Surface).Padding(0, 2).MarginRight(1)

	t.Blurred = t.Focused
	t.Blurred.Base = lipgloss.NewStyle().
		PaddingLeft(1).
		BorderStyle(lipgloss.HiddenBorder()).
		BorderLeft(true)
	t.Blurred.Title = fg(Muted)
	t.Blurred.SelectSelector = fg(Muted).SetString("  ")
	t.Blurred.Option = fg(Muted)

	return t
}
