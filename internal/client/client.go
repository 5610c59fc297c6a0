// ABOUTME: HTTP client for the court booking service API
// ABOUTME: Wraps API calls with classified errors, bearer auth and request IDs

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/yaswanth756/vibha-sports-client/internal/apperr"
	"github.com/yaswanth756/vibha-sports-client/internal/cache"
	"github.com/yaswanth756/vibha-sports-client/internal/models"
)

// TokenSource returns the current bearer token, or "" when logged out
type TokenSource func() string

// Client is the API client for the booking service
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      TokenSource

	prices *cache.Cache[float64]
	group  singleflight.Group
}

// Option customizes a Client
type Option func(*Client)

// WithTimeout sets the per-request timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithTokenSource attaches a bearer token to identity-bound calls
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) {
		c.token = ts
	}
}

// WithPriceCacheTTL sets how long court prices are reused. Zero disables caching.
func WithPriceCacheTTL(ttl time.Duration) Option {
	return func(c *Client) {
		c.prices.Close()
		c.prices = cache.New[float64](ttl)
	}
}

// New creates a new API client with the given base URL
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		token:  func() string { return "" },
		prices: cache.New[float64](5 * time.Minute),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Close releases background resources
func (c *Client) Close() {
	c.prices.Close()
}

// Availability calls GET /api/slots/available
func (c *Client) Availability(ctx context.Context, date, court string, durationType models.DurationType) ([]models.Slot, error) {
	q := url.Values{}
	q.Set("date", date)
	q.Set("court", court)
	q.Set("type", string(durationType))

	var slots []models.Slot
	if err := c.do(ctx, http.MethodGet, "/api/slots/available?"+q.Encode(), nil, false, &slots); err != nil {
		return nil, err
	}
	if slots == nil {
		slots = []models.Slot{}
	}
	return slots, nil
}

// bookingEnvelope accepts both a bare booking and {"booking": {...}}
type bookingEnvelope struct {
	Message string          `json:"message"`
	Booking *models.Booking `json:"booking"`
}

// CreateBooking calls POST /api/bookings/createbooking
func (c *Client) CreateBooking(ctx context.Context, req *models.BookingRequest) (*models.Booking, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPost, "/api/bookings/createbooking", req, true, &raw); err != nil {
		return nil, err
	}

	var env bookingEnvelope
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil {
			return nil, apperr.Wrap(apperr.ServiceError, "invalid response from booking service", err)
		}
	}
	if env.Booking != nil {
		return env.Booking, nil
	}

	var b models.Booking
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &b); err != nil {
			return nil, apperr.Wrap(apperr.ServiceError, "invalid response from booking service", err)
		}
	}
	return &b, nil
}

// CancelBooking calls DELETE /api/bookings/{id}
func (c *Client) CancelBooking(ctx context.Context, bookingID string) error {
	return c.do(ctx, http.MethodDelete, "/api/bookings/"+url.PathEscape(bookingID), nil, true, nil)
}

// UserBookings calls GET /api/bookings/user/{id}
func (c *Client) UserBookings(ctx context.Context, userID string) ([]models.Booking, error) {
	var bookings []models.Booking
	if err := c.do(ctx, http.MethodGet, "/api/bookings/user/"+url.PathEscape(userID), nil, true, &bookings); err != nil {
		return nil, err
	}
	if bookings == nil {
		bookings = []models.Booking{}
	}
	return bookings, nil
}

// Courts calls GET /api/courts
func (c *Client) Courts(ctx context.Context) ([]models.Court, error) {
	var courts []models.Court
	if err := c.do(ctx, http.MethodGet, "/api/courts", nil, false, &courts); err != nil {
		return nil, err
	}
	return courts, nil
}

// CourtPrice returns the hourly price of the named court. Concurrent lookups
// share one request and results are cached.
func (c *Client) CourtPrice(ctx context.Context, name string) (float64, error) {
	if p, ok := c.prices.Get(name); ok {
		return p, nil
	}

	// The shared lookup is detached from each caller's cancellation
	ch := c.group.DoChan("courts", func() (interface{}, error) {
		lookupCtx, cancel := c.detached(ctx)
		defer cancel()

		courts, err := c.Courts(lookupCtx)
		if err != nil {
			return nil, err
		}
		for _, court := range courts {
			c.prices.Set(court.Name, court.PricePerHour)
		}
		return courts, nil
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		return 0, c.handleRequestError(ctx, ctx.Err())
	}
	if res.Err != nil {
		return 0, res.Err
	}
	if res.Shared {
		slog.Debug("Shared in-flight courts lookup", "court", name)
	}

	for _, court := range res.Val.([]models.Court) {
		if court.Name == name {
			return court.PricePerHour, nil
		}
	}
	return 0, apperr.New(apperr.ServiceError, fmt.Sprintf("court %q not found", name))
}

// detached keeps ctx's values but not its cancellation, bounded by the client timeout
func (c *Client) detached(ctx context.Context) (context.Context, context.CancelFunc) {
	base := context.WithoutCancel(ctx)
	if c.httpClient.Timeout > 0 {
		return context.WithTimeout(base, c.httpClient.Timeout)
	}
	return context.WithCancel(base)
}

// CheckUser calls GET /api/auth/checkUser, which also emails a one-time code
func (c *Client) CheckUser(ctx context.Context, email string) (*models.CheckUserResponse, error) {
	var resp models.CheckUserResponse
	if err := c.do(ctx, http.MethodGet, "/api/auth/checkUser?email="+url.QueryEscape(email), nil, false, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Login calls POST /api/auth/login
func (c *Client) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", req, false, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Register calls POST /api/auth/register
func (c *Client) Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", req, false, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// do performs one JSON round trip. out may be nil when the body is ignored.
func (c *Client) do(ctx context.Context, method, path string, in any, auth bool, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	if auth {
		if token := c.token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Debug("Request failed", "method", method, "path", path, "request_id", requestID, "error", err)
		return c.handleRequestError(ctx, err)
	}
	defer resp.Body.Close()

	slog.Debug("Request completed",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"request_id", requestID,
		"duration", time.Since(started),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.handleErrorResponse(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return apperr.Wrap(apperr.ServiceError, "invalid response from booking service", err)
	}
	return nil
}

// handleRequestError converts transport and context errors to user-friendly messages
func (c *Client) handleRequestError(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.Canceled) {
		return apperr.Wrap(apperr.NetworkFailure, "request canceled", err)
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return apperr.Wrap(apperr.NetworkFailure, "request timed out", err)
	}
	var ue *url.Error
	if errors.As(err, &ue) && ue.Timeout() {
		return apperr.Wrap(apperr.NetworkFailure, "request timed out", err)
	}
	return apperr.Wrap(apperr.NetworkFailure, fmt.Sprintf("cannot connect to booking service at %s", c.baseURL), err)
}

// handleErrorResponse parses API error responses
func (c *Client) handleErrorResponse(resp *http.Response) error {
	kind := apperr.ServiceError
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		kind = apperr.SessionInvalid
	case http.StatusForbidden:
		kind = apperr.Unauthorized
	}

	msg := fmt.Sprintf("booking service returned status %d", resp.StatusCode)
	var errResp models.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Text() != "" {
		msg = errResp.Text()
	}
	return &StatusError{Code: resp.StatusCode, Err: apperr.New(kind, msg)}
}

// StatusError carries the HTTP status of a rejected request
type StatusError struct {
	Code int
	Err  error
}

func (e *StatusError) Error() string {
	return e.Err.Error()
}

func (e *StatusError) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status behind err, or 0
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code
	}
	return 0
}
