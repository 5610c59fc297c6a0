// ABOUTME: End-to-end booking flow against a fake booking service
// ABOUTME: Fetch, group, select, price, submit and refetch through the real client

package booking

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/yaswanth756/vibha-sports-client/internal/client"
	"github.com/yaswanth756/vibha-sports-client/internal/models"
	"github.com/yaswanth756/vibha-sports-client/internal/selection"
	"github.com/yaswanth756/vibha-sports-client/internal/session"
	"github.com/yaswanth756/vibha-sports-client/internal/session/sessiontest"
	"github.com/yaswanth756/vibha-sports-client/internal/slots"
)

// bookingServer serves one court's day of hourly slots and removes them once booked
type bookingServer struct {
	mu     sync.Mutex
	t      *testing.T
	token  string
	booked map[string]bool
	posts  int
}

func (s *bookingServer) slotsFor(date string) []models.Slot {
	var out []models.Slot
	for h := 6; h < 24; h++ {
		id := date + "-" + time.Date(2000, 1, 1, h, 0, 0, 0, time.UTC).Format("1504")
		if s.booked[id] {
			continue
		}
		out = append(out, models.Slot{
			ID:        id,
			StartTime: time.Date(2000, 1, 1, h, 0, 0, 0, time.UTC).Format("15:04"),
			EndTime:   time.Date(2000, 1, 1, h+1, 0, 0, 0, time.UTC).Format("15:04"),
			Type:      models.OneHour,
			Court:     "Court A",
			Date:      date,
		})
	}
	// the last slot ends at midnight
	out[len(out)-1].EndTime = "24:00"
	return out
}

func (s *bookingServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/api/courts":
		json.NewEncoder(w).Encode([]models.Court{
			{ID: "c1", Name: "Court A", PricePerHour: 500},
			{ID: "c2", Name: "Court B", PricePerHour: 600},
		})
	case r.Method == http.MethodGet && r.URL.Path == "/api/slots/available":
		q := r.URL.Query()
		if q.Get("court") != "Court A" || q.Get("type") != string(models.OneHour) {
			json.NewEncoder(w).Encode([]models.Slot{})
			return
		}
		json.NewEncoder(w).Encode(s.slotsFor(q.Get("date")))
	case r.Method == http.MethodPost && r.URL.Path == "/api/bookings/createbooking":
		s.posts++
		if r.Header.Get("Authorization") != "Bearer "+s.token {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(models.ErrorResponse{Message: "Not authorized"})
			return
		}
		var req models.BookingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if req.TotalPrice != 1000 || req.Court != "Court A" || req.Type != models.OneHour {
			s.t.Errorf("unexpected booking request %+v", req)
		}
		for _, slot := range req.SelectedSlots {
			s.booked[slot.ID] = true
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{
			"message": "Booking successful",
			"booking": models.Booking{
				BookingID:     "b-1",
				Court:         req.Court,
				BookingDate:   req.BookingDate,
				StartTime:     req.SelectedSlots[0].StartTime,
				EndTime:       req.SelectedSlots[len(req.SelectedSlots)-1].EndTime,
				Type:          req.Type,
				Price:         req.TotalPrice,
				Status:        models.StatusBooked,
				PaymentStatus: models.PaymentPending,
			},
		})
	default:
		http.NotFound(w, r)
	}
}

func TestEndToEnd_BookTwoSlots(t *testing.T) {
	ctx := context.Background()

	store := session.New(session.NewMemoryTokenStore(""))
	token := sessiontest.Token(t, "u-1", "user", time.Now().Add(time.Hour))
	if _, err := store.Establish(token); err != nil {
		t.Fatalf("Establish: %v", err)
	}

	backend := &bookingServer{t: t, token: token, booked: map[string]bool{}}
	server := httptest.NewServer(backend)
	defer server.Close()

	api := client.New(server.URL, client.WithTokenSource(func() string { return store.Token(time.Now()) }))
	defer api.Close()

	date := time.Now().AddDate(0, 0, 1).Format(models.DateLayout)
	query := slots.Query{Date: date, Court: "Court A", Type: models.OneHour}

	fetcher := slots.NewFetcher(api)
	ticket := fetcher.Begin(query)
	available := fetcher.Load(ctx, ticket)
	if !fetcher.Accept(ticket) {
		t.Fatal("expected first fetch to be accepted")
	}
	buckets := slots.Group(available, query.Type)
	if len(buckets.MorningAfternoon) != 10 || len(buckets.Evening) != 8 {
		t.Fatalf("unexpected buckets: %d morning/afternoon, %d evening", len(buckets.MorningAfternoon), len(buckets.Evening))
	}

	engine := selection.New()
	engine.SetContext(selection.Context{Date: query.Date, Court: query.Court, Type: query.Type})
	price, err := api.CourtPrice(ctx, "Court A")
	if err != nil {
		t.Fatalf("CourtPrice: %v", err)
	}
	engine.SetPricePerHour(price)

	var picked []string
	for _, s := range buckets.MorningAfternoon {
		if s.StartTime == "10:00" || s.StartTime == "11:00" {
			if err := engine.Toggle(s); err != nil {
				t.Fatalf("Toggle: %v", err)
			}
			picked = append(picked, s.ID)
		}
	}
	if engine.TotalPrice() != 1000 {
		t.Fatalf("TotalPrice = %v, want 1000", engine.TotalPrice())
	}

	submitter := NewSubmitter(engine, store)
	if err := submitter.Proceed(); err != nil {
		t.Fatalf("Proceed: %v", err)
	}
	b, err := submitter.Submit(ctx, api)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if b.BookingID != "b-1" || b.Price != 1000 {
		t.Errorf("unexpected booking %+v", b)
	}
	if engine.Len() != 0 {
		t.Error("expected selection to clear after booking")
	}
	if !submitter.NeedsRefresh() {
		t.Fatal("expected refresh mark")
	}

	ticket = fetcher.Refresh()
	refetched := fetcher.Load(ctx, ticket)
	if !fetcher.Accept(ticket) {
		t.Fatal("expected refetch to be accepted")
	}
	submitter.AcknowledgeRefresh()

	for _, s := range refetched {
		for _, id := range picked {
			if s.ID == id {
				t.Errorf("booked slot %s still offered", id)
			}
		}
	}
	if len(refetched) != len(available)-2 {
		t.Errorf("expected %d slots after booking, got %d", len(available)-2, len(refetched))
	}
	if backend.posts != 1 {
		t.Errorf("expected exactly one booking request, got %d", backend.posts)
	}
	if !strings.HasPrefix(picked[0], date) {
		t.Errorf("unexpected slot ids %v", picked)
	}
}
