// ABOUTME: Fake booking service and environment setup shared by command tests
// ABOUTME: The fake keeps slots, bookings and auth state in memory behind httptest

package cmd

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/yaswanth756/vibha-sports-client/internal/models"
	"github.com/yaswanth756/vibha-sports-client/internal/session"
	"github.com/yaswanth756/vibha-sports-client/internal/session/sessiontest"
)

type fakeService struct {
	mu sync.Mutex

	slots    []models.Slot
	courts   []models.Court
	bookings []models.Booking

	created    []models.BookingRequest
	cancelled  []string
	checked    []string
	registered []models.RegisterRequest
	authHeader string

	token         string // issued by login and register
	rejectBooking bool
	rejectCancel  bool

	dir    string // config directory of the command under test
	server *httptest.Server
}

// newFakeService starts the fake and points the command environment at it
func newFakeService(t *testing.T) *fakeService {
	t.Helper()

	f := &fakeService{
		courts: []models.Court{
			{ID: "c1", Name: "Court A", PricePerHour: 500},
			{ID: "c2", Name: "Court B", PricePerHour: 400},
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/slots/available", f.available)
	mux.HandleFunc("POST /api/bookings/createbooking", f.createBooking)
	mux.HandleFunc("GET /api/bookings/user/{id}", f.userBookings)
	mux.HandleFunc("DELETE /api/bookings/{id}", f.cancelBooking)
	mux.HandleFunc("GET /api/courts", f.listCourts)
	mux.HandleFunc("GET /api/auth/checkUser", f.checkUser)
	mux.HandleFunc("POST /api/auth/login", f.login)
	mux.HandleFunc("POST /api/auth/register", f.register)

	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)

	f.dir = setupEnv(t, f.server.URL)
	return f
}

// setupEnv isolates config and flags for one test and returns the config directory
func setupEnv(t *testing.T, url string) string {
	t.Helper()

	dir := t.TempDir()
	t.Setenv("VIBHA_API_URL", url)
	t.Setenv("VIBHA_CONFIG_DIR", dir)
	t.Setenv("VIBHA_LOG_FILE", filepath.Join(dir, "test.log"))
	t.Setenv("VIBHA_COURTS", "Court A,Court B")
	t.Setenv("VIBHA_BOOKING_DAYS", "4")
	t.Setenv("VIBHA_CANCEL_LEAD_MINUTES", "120")

	reset := func() {
		apiURL, jsonOutput = "", false
		slotsDate, slotsCourt, slotsType = "", "", "1 hr"
		bookDate, bookCourt, bookType, bookSlots = "", "", "1 hr", nil
		bookingsStatus = "all"
		loginEmail, loginOTP, loginName, loginPhone = "", "", "", ""
	}
	reset()
	t.Cleanup(reset)
	return dir
}

// loginAs stores a session for id with role, as a previous login would
func (f *fakeService) loginAs(t *testing.T, id, role string) {
	t.Helper()
	token := sessiontest.Token(t, id, role, time.Now().Add(time.Hour))
	if err := session.NewFileTokenStore(f.dir).Save(token); err != nil {
		t.Fatalf("saving token: %v", err)
	}
}

func (f *fakeService) available(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	court := r.URL.Query().Get("court")
	durationType := models.DurationType(r.URL.Query().Get("type"))

	out := []models.Slot{}
	for _, s := range f.slots {
		if s.Court == court && s.Type == durationType {
			out = append(out, s)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (f *fakeService) createBooking(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.authHeader = r.Header.Get("Authorization")
	if f.rejectBooking {
		writeJSON(w, http.StatusConflict, map[string]string{"message": "Slot already booked"})
		return
	}

	var req models.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "bad request"})
		return
	}
	f.created = append(f.created, req)

	f.slots = slices.DeleteFunc(f.slots, func(s models.Slot) bool {
		return slices.ContainsFunc(req.SelectedSlots, func(b models.Slot) bool { return b.ID == s.ID })
	})

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Booking created",
		"booking": models.Booking{
			BookingID:   "b-new",
			Court:       req.Court,
			BookingDate: req.BookingDate,
			Type:        req.Type,
			Price:       req.TotalPrice,
			Status:      models.StatusBooked,
		},
	})
}

func (f *fakeService) userBookings(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.authHeader = r.Header.Get("Authorization")
	out := append([]models.Booking{}, f.bookings...)
	writeJSON(w, http.StatusOK, out)
}

func (f *fakeService) cancelBooking(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.rejectCancel {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Cannot cancel this booking"})
		return
	}
	f.cancelled = append(f.cancelled, r.PathValue("id"))
	writeJSON(w, http.StatusOK, map[string]string{"message": "Booking cancelled"})
}

func (f *fakeService) listCourts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, f.courts)
}

func (f *fakeService) checkUser(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	email := r.URL.Query().Get("email")
	f.checked = append(f.checked, email)
	writeJSON(w, http.StatusOK, models.CheckUserResponse{IsNew: email == "new@example.com"})
}

func (f *fakeService) login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	json.NewDecoder(r.Body).Decode(&req)
	if req.OTP != "123456" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid OTP"})
		return
	}
	writeJSON(w, http.StatusOK, models.AuthResponse{Token: f.token, Message: "Login successful"})
}

func (f *fakeService) register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	json.NewDecoder(r.Body).Decode(&req)

	f.mu.Lock()
	f.registered = append(f.registered, req)
	f.mu.Unlock()

	writeJSON(w, http.StatusCreated, models.AuthResponse{Token: f.token, Message: "Registered"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func oneHour(id, court, start, end string) models.Slot {
	return models.Slot{ID: id, StartTime: start, EndTime: end, Type: models.OneHour, Court: court}
}
