// ABOUTME: Shared lipgloss styles for consistent TUI appearance
// ABOUTME: Court-green palette plus the panel, picker and price styles the storefront screens share

package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Palette
	Primary   = lipgloss.Color("#059669") // Court green
	Secondary = lipgloss.Color("#34D399") // Mint, used for prices and confirmations
	Accent    = lipgloss.Color("#F97316") // Clay orange
	Danger    = lipgloss.Color("#EF4444")
	Muted     = lipgloss.Color("#6B7280")
	Subtle    = lipgloss.Color("#9CA3AF")
	Text      = lipgloss.Color("#F9FAFB")
	Surface   = lipgloss.Color("#374151")

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		MarginBottom(1)

	Subtitle = lipgloss.NewStyle().
			Foreground(Muted).
			MarginBottom(1)

	// Section headings inside a screen (slot groups, tabs)
	Section = lipgloss.NewStyle().
		Bold(true).
		Foreground(Accent)

	StatusOK = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	StatusCritical = lipgloss.NewStyle().
			Foreground(Danger).
			Bold(true)

	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Muted).
		Padding(1, 2)

	// Dialog is the confirmation overlay
	Dialog = lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(Accent).
		Padding(1, 3)

	KeyStyle = lipgloss.NewStyle().
			Foreground(Accent).
			Bold(true)

	ValueStyle = lipgloss.NewStyle().
			Foreground(Text).
			Bold(true)

	// Selectable rows: under the cursor, chosen, and the rest
	Cursor = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true)

	Selected = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	Unselected = lipgloss.NewStyle().
			Foreground(Text)

	chip = lipgloss.NewStyle().
		Background(Primary).
		Foreground(Text).
		Bold(true).
		Padding(0, 1)

	chipInactive = lipgloss.NewStyle().
			Foreground(Muted).
			Padding(0, 1)

	// Price is used for totals and per-hour rates
	Price = lipgloss.NewStyle().
		Foreground(Secondary).
		Bold(true)
)

// Chips renders labels as a horizontal picker with the active entry highlighted
func Chips(labels []string, active int) string {
	parts := make([]string, len(labels))
	for i, l := range labels {
		if i == active {
			parts[i] = chip.Render(l)
		} else {
			parts[i] = chipInactive.Render(l)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}
