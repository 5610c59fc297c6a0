// ABOUTME: Human-readable time range formatting for slots and bookings
// ABOUTME: Collapses the AM/PM suffix when both ends share it

package slots

import (
	"fmt"

	"github.com/yaswanth756/vibha-sports-client/internal/models"
)

// FormatRange renders two 24-hour HH:MM times as a 12-hour range.
// "10:00","11:30" -> "10 - 11:30 AM"; "11:00","13:00" -> "11 AM - 1 PM".
// Unparseable input is returned as "start - end".
func FormatRange(start, end string) string {
	h1, m1, err1 := models.ParseClock(start)
	h2, m2, err2 := models.ParseClock(end)
	if err1 != nil || err2 != nil {
		return start + " - " + end
	}

	startSuffix := meridiem(h1)
	endSuffix := meridiem(h2)

	if startSuffix == endSuffix {
		return fmt.Sprintf("%s - %s %s", clock12(h1, m1), clock12(h2, m2), endSuffix)
	}
	return fmt.Sprintf("%s %s - %s %s", clock12(h1, m1), startSuffix, clock12(h2, m2), endSuffix)
}

// meridiem treats 24:00 as midnight
func meridiem(h int) string {
	if h%24 >= 12 {
		return "PM"
	}
	return "AM"
}

func clock12(h, m int) string {
	hour := h % 12
	if hour == 0 {
		hour = 12
	}
	if m == 0 {
		return fmt.Sprintf("%d", hour)
	}
	return fmt.Sprintf("%d:%02d", hour, m)
}
