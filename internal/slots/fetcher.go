// ABOUTME: Availability fetching guarded against stale responses
// ABOUTME: Tags each query with a generation so superseded results are dropped

package slots

import (
	"context"
	"log/slog"
	"sync"

	"github.com/yaswanth756/vibha-sports-client/internal/models"
)

// Query identifies one availability lookup
type Query struct {
	Date  string
	Court string
	Type  models.DurationType
}

// Ticket is handed out when a query is issued and must be presented with its result
type Ticket struct {
	Gen   uint64
	Query Query
}

// Source is the booking service operation the fetcher needs
type Source interface {
	Availability(ctx context.Context, date, court string, durationType models.DurationType) ([]models.Slot, error)
}

// Fetcher issues availability queries and decides which results may still be applied
type Fetcher struct {
	source Source

	mu      sync.Mutex
	gen     uint64
	current Query
}

// NewFetcher creates a fetcher reading from source
func NewFetcher(source Source) *Fetcher {
	return &Fetcher{source: source}
}

// Begin makes q the active query and returns its ticket.
// Every earlier ticket stops being accepted.
func (f *Fetcher) Begin(q Query) Ticket {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.gen++
	f.current = q
	return Ticket{Gen: f.gen, Query: q}
}

// Refresh re-issues the active query under a new generation
func (f *Fetcher) Refresh() Ticket {
	f.mu.Lock()
	q := f.current
	f.mu.Unlock()
	return f.Begin(q)
}

// Current returns the active query
func (f *Fetcher) Current() Query {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current
}

// Accept reports whether a result for t may be applied: t must be the latest
// ticket and its parameters must still match the active query.
func (f *Fetcher) Accept(t Ticket) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if t.Gen != f.gen || t.Query != f.current {
		slog.Debug("Dropping stale availability", "gen", t.Gen, "current_gen", f.gen, "date", t.Query.Date, "court", t.Query.Court, "type", t.Query.Type)
		return false
	}
	return true
}

// Load performs the lookup for t. Failures are logged and produce an empty list.
func (f *Fetcher) Load(ctx context.Context, t Ticket) []models.Slot {
	slots, err := f.source.Availability(ctx, t.Query.Date, t.Query.Court, t.Query.Type)
	if err != nil {
		slog.Warn("Failed to fetch slots", "date", t.Query.Date, "court", t.Query.Court, "type", t.Query.Type, "error", err)
		return []models.Slot{}
	}
	if slots == nil {
		slots = []models.Slot{}
	}
	return slots
}
