// ABOUTME: Transient notices shown above the footer
// ABOUTME: Each notice expires on its own timer; a newer notice replaces an older one

package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/yaswanth756/vibha-sports-client/internal/apperr"
	"github.com/yaswanth756/vibha-sports-client/internal/tui/widgets"
)

const (
	levelOK      = widgets.StatusOK
	levelWarning = widgets.StatusWarning
	levelError   = widgets.StatusCritical
	levelInfo    = widgets.StatusInfo
)

type toast struct {
	id    int
	text  string
	level widgets.StatusLevel
}

// toastExpiredMsg removes the notice with id if it is still showing
type toastExpiredMsg struct {
	id int
}

func (t *toast) render() string {
	return widgets.StatusText(t.text, t.level)
}

// notify shows text until toastDuration passes or another notice replaces it
func (a *App) notify(text string, level widgets.StatusLevel) tea.Cmd {
	a.toastSeq++
	id := a.toastSeq
	a.toast = &toast{id: id, text: text, level: level}
	return tea.Tick(toastDuration, func(time.Time) tea.Msg {
		return toastExpiredMsg{id: id}
	})
}

// notifyError shows the user-facing message of err
func (a *App) notifyError(err error) tea.Cmd {
	return a.notify(apperr.Message(err), widgets.LevelForError(err))
}
