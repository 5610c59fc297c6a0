// ABOUTME: Data models for courts, slots, and bookings
// ABOUTME: JSON-serializable structures matching the booking service API

package models

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar date format used on the wire (YYYY-MM-DD)
const DateLayout = "2006-01-02"

// DurationType is the booking granularity of a slot
type DurationType string

const (
	OneHour         DurationType = "1 hr"
	OneAndHalfHours DurationType = "1.5 hr"
)

// DurationTypes lists the offered booking granularities in display order
var DurationTypes = []DurationType{OneHour, OneAndHalfHours}

// Hours returns the length of a slot of this type in hours.
// It doubles as the price multiplier: "1.5 hr" is 1.5, everything else is 1.
func (d DurationType) Hours() float64 {
	if d == OneAndHalfHours {
		return 1.5
	}
	return 1
}

// ParseDurationType accepts "1", "1hr", "1 hr", "1.5", "1.5hr" and "1.5 hr"
func ParseDurationType(s string) (DurationType, error) {
	switch strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "") {
	case "1", "1hr":
		return OneHour, nil
	case "1.5", "1.5hr":
		return OneAndHalfHours, nil
	default:
		return "", fmt.Errorf("unknown duration type %q (want \"1 hr\" or \"1.5 hr\")", s)
	}
}

// Slot is a bookable time interval on one court and date.
// Times are 24-hour HH:MM strings.
type Slot struct {
	ID        string       `json:"_id"`
	StartTime string       `json:"startTime"`
	EndTime   string       `json:"endTime"`
	Type      DurationType `json:"type"`
	Court     string       `json:"court"`
	Date      string       `json:"date,omitempty"`
}

// Court is a bookable court with its hourly price
type Court struct {
	ID           string  `json:"_id"`
	Name         string  `json:"name"`
	PricePerHour float64 `json:"pricePerHour"`
}

// BookingStatus is the lifecycle state of a booking
type BookingStatus string

const (
	StatusBooked    BookingStatus = "booked"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
)

// PaymentStatus reports whether a booking has been paid at the reception
type PaymentStatus string

const (
	PaymentPaid    PaymentStatus = "paid"
	PaymentPending PaymentStatus = "pending"
)

// Booking is the server-owned read model of a confirmed booking
type Booking struct {
	BookingID     string        `json:"bookingId"`
	Court         string        `json:"court"`
	BookingDate   string        `json:"bookingDate"`
	StartTime     string        `json:"startTime"`
	EndTime       string        `json:"endTime"`
	Type          DurationType  `json:"type"`
	Price         float64       `json:"price"`
	Status        BookingStatus `json:"status"`
	PaymentStatus PaymentStatus `json:"paymentStatus"`
}

// StartsAt resolves the booking date and start time to an instant in loc.
// The date may be a plain calendar date or a full RFC 3339 timestamp.
func (b *Booking) StartsAt(loc *time.Location) (time.Time, error) {
	day, err := ParseDate(b.BookingDate, loc)
	if err != nil {
		return time.Time{}, err
	}
	h, m, err := ParseClock(b.StartTime)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(), h, m, 0, 0, loc), nil
}

// BookingRequest is the payload submitted to create a booking
type BookingRequest struct {
	UserID        string       `json:"userId"`
	SelectedSlots []Slot       `json:"selectedSlots"`
	BookingDate   string       `json:"bookingDate"`
	Court         string       `json:"court"`
	Type          DurationType `json:"type"`
	TotalPrice    float64      `json:"totalPrice"`
}

// ParseDate parses a YYYY-MM-DD date (or an RFC 3339 timestamp) as midnight in loc
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.ParseInLocation(DateLayout, s, loc); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc), nil
}

// ParseClock splits an HH:MM string into hour and minute.
// "24:00" is accepted as the end of the day.
func ParseClock(s string) (int, int, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, 0, fmt.Errorf("invalid time %q", s)
	}
	if h < 0 || h > 24 || m < 0 || m > 59 || (h == 24 && m != 0) {
		return 0, 0, fmt.Errorf("invalid time %q", s)
	}
	return h, m, nil
}

// SameDay reports whether a and b fall on the same calendar day in a's location
func SameDay(a, b time.Time) bool {
	b = b.In(a.Location())
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}
