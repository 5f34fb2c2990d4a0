package itinerary

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// TimeTBD is the sentinel time label for activities whose time is unknown.
// It sorts as minute 0, so unscheduled activities lead their day.
const TimeTBD = "TBD"

var clockPattern = regexp.MustCompile(`(?i)(\d{1,2}):(\d{2})\s*(AM|PM)`)

// ParseClock converts a human time label like "10:30 AM" into minutes since
// midnight. 12 AM maps to 0 and 12 PM to 720. Anything that does not match
// the H:MM AM/PM pattern returns 0 so that unknown times sort first; this is
// an ordering policy, not a validation failure.
func ParseClock(label string) int {
	m := clockPattern.FindStringSubmatch(label)
	if m == nil {
		return 0
	}

	hours, _ := strconv.Atoi(m[1])
	minutes, _ := strconv.Atoi(m[2])
	period := strings.ToUpper(m[3])

	if period == "PM" && hours != 12 {
		hours += 12
	}
	if period == "AM" && hours == 12 {
		hours = 0
	}

	return hours*60 + minutes
}

// PrettyDate renders a date in the long display form used for every day label
// regardless of which construction tier produced it.
func PrettyDate(t time.Time) string {
	return t.Format("Monday, January 2, 2006")
}

// DateFromDayOffset resolves a 1-based day number against the trip start date.
func DateFromDayOffset(day int, tripStart time.Time) time.Time {
	return tripStart.AddDate(0, 0, day-1)
}

// dateKey truncates a timestamp to its UTC calendar date, the grouping key for
// the flat-activity construction tier.
func dateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// parseRecordDate interprets the free-form date string carried by structured
// payload day records. Generation services have emitted both bare dates and
// full timestamps.
func parseRecordDate(s string) (time.Time, bool) {
	for _, layout := range []string{"2006-01-02", time.RFC3339, "January 2, 2006", "Monday, January 2, 2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
