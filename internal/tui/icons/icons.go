// ABOUTME: Icon set with Nerd Font glyphs and plain Unicode fallbacks
// ABOUTME: VIBHA_NERD_FONTS forces the choice, otherwise known terminals opt in

package icons

import (
	"os"
	"strings"
	"sync"
)

// nerdFontTerminals usually ship with a patched font
var nerdFontTerminals = []string{"iterm.app", "alacritty", "wezterm", "kitty", "ghostty"}

var nerdFonts = sync.OnceValue(func() bool {
	if env := os.Getenv("VIBHA_NERD_FONTS"); env != "" {
		return env == "1" || strings.EqualFold(env, "true")
	}

	terminal := strings.ToLower(os.Getenv("TERM_PROGRAM") + " " + os.Getenv("TERM"))
	for _, t := range nerdFontTerminals {
		if strings.Contains(terminal, t) {
			return true
		}
	}
	return false
})

// HasNerdFonts reports whether Nerd Font glyphs are used. Decided once per process.
func HasNerdFonts() bool {
	return nerdFonts()
}

// Icon pairs a Nerd Font glyph with a Unicode fallback
type Icon struct {
	NerdFont string
	Fallback string
}

func (i Icon) String() string {
	if HasNerdFonts() {
		return i.NerdFont
	}
	return i.Fallback
}

var (
	App      = Icon{"󰶠", "◈"} // nf-md-tennis
	Calendar = Icon{"󰃭", "▦"} // nf-md-calendar
	Clock    = Icon{"󰅐", "◷"} // nf-md-clock_outline
	Court    = Icon{"󰶠", "▭"}
	Cash     = Icon{"󰄔", "₹"}
	Ticket   = Icon{"󰲚", "▤"} // nf-md-ticket_confirmation
	User     = Icon{"󰀄", "☺"}
	Admin    = Icon{"󰢒", "⛊"} // nf-md-shield_account
	Login    = Icon{"󰍂", "→"}

	Checked   = Icon{"󰄵", "■"}
	Unchecked = Icon{"󰄱", "□"}
	Pointer   = Icon{"󰅂", "›"}

	CheckOK  = Icon{"", "✓"}
	Warning  = Icon{"", "⚠"}
	Critical = Icon{"", "✗"}
	Info     = Icon{"", "ℹ"}
)
