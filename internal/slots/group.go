// ABOUTME: Partitions available slots into time-of-day display buckets
// ABOUTME: Also decides which empty-bucket notice a date should show

package slots

import (
	"time"

	"github.com/yaswanth756/vibha-sports-client/internal/models"
)

// Bucket window boundaries in minutes after midnight
const (
	dayOpens     = 6 * 60
	eveningStart = 16 * 60
	dayCloses    = 24 * 60
)

// Buckets holds the display partitions of one availability query
type Buckets struct {
	MorningAfternoon []models.Slot
	Evening          []models.Slot
}

// Group splits slots into the morning/afternoon (06:00-16:00) and evening (16:00-24:00) windows.
// Only slots whose length equals the requested duration are kept. Slots that straddle 16:00
// fit neither window and are dropped. Input order is preserved within each bucket.
func Group(slots []models.Slot, durationType models.DurationType) Buckets {
	want := int(durationType.Hours() * 60)

	var b Buckets
	for _, s := range slots {
		start, end, ok := span(s)
		if !ok || end-start != want {
			continue
		}
		switch {
		case start >= dayOpens && end <= eveningStart:
			b.MorningAfternoon = append(b.MorningAfternoon, s)
		case start >= eveningStart && end <= dayCloses:
			b.Evening = append(b.Evening, s)
		}
	}
	return b
}

// span returns start and end of a slot in minutes after midnight
func span(s models.Slot) (int, int, bool) {
	sh, sm, err := models.ParseClock(s.StartTime)
	if err != nil {
		return 0, 0, false
	}
	eh, em, err := models.ParseClock(s.EndTime)
	if err != nil {
		return 0, 0, false
	}
	return sh*60 + sm, eh*60 + em, true
}

// Notice is the message shown in place of an empty bucket
type Notice int

const (
	// NoticeNoSlots is the neutral message for a future date
	NoticeNoSlots Notice = iota
	// NoticePastSlots explains that today's earlier slots are gone
	NoticePastSlots
)

// Text returns the user-facing wording of the notice
func (n Notice) Text() string {
	if n == NoticePastSlots {
		return "All slots before the current time are unavailable. Please select a future slot or another date."
	}
	return "No slots available for this date."
}

// EmptyNotice picks the notice for an empty bucket on date, evaluated at now
func EmptyNotice(date, now time.Time) Notice {
	if models.SameDay(now, date) {
		return NoticePastSlots
	}
	return NoticeNoSlots
}

// Dates returns midnight of today and the following n-1 days in now's location
func Dates(now time.Time, n int) []time.Time {
	if n < 1 {
		n = 1
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	days := make([]time.Time, n)
	for i := range days {
		days[i] = today.AddDate(0, 0, i)
	}
	return days
}
