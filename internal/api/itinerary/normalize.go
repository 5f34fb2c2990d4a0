package itinerary

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/roamly/roamly-api/internal/types"
)

// Activity is the canonical per-event record every construction tier produces.
type Activity struct {
	Title       string  `json:"title"`
	Category    string  `json:"category"`
	Time        string  `json:"time"`
	Location    string  `json:"location"`
	Description string  `json:"description"`
	Rating      float64 `json:"rating,omitempty"`
	Cost        string  `json:"cost,omitempty"`
}

// Day is one entry of the rebuilt timeline. Numbers are contiguous from 1 and
// activities are ordered by parsed time ascending.
type Day struct {
	Number     int        `json:"day"`
	Date       string     `json:"date"`
	Activities []Activity `json:"activities"`
}

// TransportLeg summarizes one direction of the trip's transportation plan.
type TransportLeg struct {
	Type          string `json:"type,omitempty"`
	DepartureTime string `json:"departure_time,omitempty"`
	ArrivalTime   string `json:"arrival_time,omitempty"`
	EstimatedCost string `json:"estimated_cost,omitempty"`
}

// Summary carries the payload-level cost and transportation information that
// is surfaced alongside, never inside, the per-day timeline.
type Summary struct {
	TotalEstimatedCost string        `json:"total_estimated_cost,omitempty"`
	ToDestination      *TransportLeg `json:"to_destination,omitempty"`
	FromDestination    *TransportLeg `json:"from_destination,omitempty"`
}

// tripDefaults are the contextual fallbacks the normalizer applies when a raw
// record is missing fields.
type tripDefaults struct {
	destination string
}

// isTransportCategory reports whether a category tag names a transportation
// leg. Those are excluded from day timelines and summarized separately.
func isTransportCategory(category string) bool {
	switch category {
	case "transportation", "train", "bus", "flight":
		return true
	}
	return false
}

func normalizeCategory(rawType string) string {
	category := strings.ToLower(strings.TrimSpace(rawType))
	if category == "" {
		return "activity"
	}
	return category
}

// normalizeStructured canonicalizes one activity record from the structured
// payload shape. Missing fields degrade to defaults; it never fails.
func normalizeStructured(raw types.RawActivity, defaults tripDefaults) Activity {
	title := strings.TrimSpace(raw.Title)
	if title == "" {
		title = "Activity"
	}

	timeLabel := strings.TrimSpace(raw.Time)
	if timeLabel == "" {
		timeLabel = TimeTBD
	}

	location := strings.TrimSpace(raw.Location)
	if location == "" {
		location = defaults.destination
	}

	description := strings.TrimSpace(raw.Description)
	if description == "" && timeLabel != TimeTBD {
		description = fmt.Sprintf("%s at %s", title, location)
	}
	if cost := strings.TrimSpace(raw.EstimatedCost); cost != "" && description != "" {
		description = fmt.Sprintf("%s (%s)", description, cost)
	}

	return Activity{
		Title:       title,
		Category:    normalizeCategory(raw.Type),
		Time:        timeLabel,
		Location:    location,
		Description: description,
		Rating:      raw.Rating,
		Cost:        strings.TrimSpace(raw.EstimatedCost),
	}
}

var leadingClockPattern = regexp.MustCompile(`(?i)^\d{1,2}:\d{2}\s*(AM|PM)$`)

// splitTimePrefix extracts a leading "H:MM AM/PM - " prefix from a flat
// activity description, returning the time label and the remaining text.
func splitTimePrefix(description string) (timeLabel, rest string, ok bool) {
	before, after, found := strings.Cut(description, " - ")
	if !found {
		return "", description, false
	}
	candidate := strings.TrimSpace(before)
	if !leadingClockPattern.MatchString(candidate) {
		return "", description, false
	}
	return candidate, strings.TrimSpace(after), true
}

// normalizeFlat canonicalizes one record from the flat activity list. The flat
// shape carries no explicit time or category; time is recovered from the
// description prefix when one parses.
func normalizeFlat(raw types.TripActivity, defaults tripDefaults) Activity {
	title := strings.TrimSpace(raw.Name)
	if title == "" {
		title = "Activity"
	}

	location := strings.TrimSpace(raw.Location)
	if location == "" {
		location = defaults.destination
	}

	timeLabel := TimeTBD
	description := strings.TrimSpace(raw.Description)
	if extracted, rest, ok := splitTimePrefix(description); ok {
		timeLabel = extracted
		if rest != "" {
			description = rest
		}
	}

	return Activity{
		Title:       title,
		Category:    "activity",
		Time:        timeLabel,
		Location:    location,
		Description: description,
	}
}
