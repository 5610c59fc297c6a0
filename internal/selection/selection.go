// ABOUTME: Slot selection state for one date/court/duration context
// ABOUTME: Enforces a single duration type and keeps the total price current

package selection

import (
	"log/slog"
	"sort"

	"github.com/yaswanth756/vibha-sports-client/internal/apperr"
	"github.com/yaswanth756/vibha-sports-client/internal/models"
)

// Context is the browsing context a selection belongs to
type Context struct {
	Date  string
	Court string
	Type  models.DurationType
}

// Engine holds the currently selected slots.
// It is not safe for concurrent use; the owner serializes access.
type Engine struct {
	ctx          Context
	pricePerHour float64
	selected     map[string]models.Slot
	total        float64
}

// New creates an empty engine
func New() *Engine {
	return &Engine{selected: make(map[string]models.Slot)}
}

// Toggle removes slot if it is selected, otherwise adds it.
// Adding a slot whose type differs from the current selection fails with SelectionConflict.
func (e *Engine) Toggle(slot models.Slot) error {
	if _, ok := e.selected[slot.ID]; ok {
		delete(e.selected, slot.ID)
		e.recompute()
		return nil
	}

	if t, ok := e.selectionType(); ok && t != slot.Type {
		slog.Debug("Rejected mixed selection", "selected_type", t, "slot_type", slot.Type, "slot", slot.ID)
		return apperr.New(apperr.SelectionConflict, "cannot mix 1 hr and 1.5 hr slots in a single booking")
	}

	e.selected[slot.ID] = slot
	e.recompute()
	return nil
}

// SetContext switches the browsing context. Any change clears the selection.
func (e *Engine) SetContext(c Context) {
	if c == e.ctx {
		return
	}
	e.ctx = c
	e.Reset()
}

// Context returns the current browsing context
func (e *Engine) Context() Context {
	return e.ctx
}

// SetPricePerHour updates the court price and recomputes the total
func (e *Engine) SetPricePerHour(p float64) {
	e.pricePerHour = p
	e.recompute()
}

// PricePerHour returns the price used for the total
func (e *Engine) PricePerHour() float64 {
	return e.pricePerHour
}

// Reset clears the selection
func (e *Engine) Reset() {
	clear(e.selected)
	e.total = 0
}

// TotalPrice is count x price per hour x hours of the selection's type
func (e *Engine) TotalPrice() float64 {
	return e.total
}

// Type returns the duration type shared by the selection, or "" when empty
func (e *Engine) Type() models.DurationType {
	t, _ := e.selectionType()
	return t
}

// Len returns the number of selected slots
func (e *Engine) Len() int {
	return len(e.selected)
}

// Contains reports whether the slot with id is selected
func (e *Engine) Contains(id string) bool {
	_, ok := e.selected[id]
	return ok
}

// Slots returns the selection ordered by start time
func (e *Engine) Slots() []models.Slot {
	out := make([]models.Slot, 0, len(e.selected))
	for _, s := range e.selected {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartTime != out[j].StartTime {
			return out[i].StartTime < out[j].StartTime
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Request builds the booking payload for the current selection
func (e *Engine) Request(userID string) *models.BookingRequest {
	return &models.BookingRequest{
		UserID:        userID,
		SelectedSlots: e.Slots(),
		BookingDate:   e.ctx.Date,
		Court:         e.ctx.Court,
		Type:          e.Type(),
		TotalPrice:    e.total,
	}
}

func (e *Engine) selectionType() (models.DurationType, bool) {
	for _, s := range e.selected {
		return s.Type, true
	}
	return "", false
}

func (e *Engine) recompute() {
	t, ok := e.selectionType()
	if !ok {
		e.total = 0
		return
	}
	e.total = float64(len(e.selected)) * e.pricePerHour * t.Hours()
}
