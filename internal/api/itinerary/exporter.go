package itinerary

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/roamly/roamly-api/internal/types"
)

// Export renders a built timeline plus trip metadata as a flat text report.
// The layout is a stable contract: anything parsing exported files breaks if
// the header or section structure changes. Output is byte-identical for
// identical input except for the trailing timestamp line, which is why the
// clock is passed in rather than read here.
func Export(trip *types.Trip, timeline *Timeline, now time.Time) string {
	var b strings.Builder

	b.WriteString("TRIP ITINERARY\n")
	b.WriteString("================\n\n")
	fmt.Fprintf(&b, "Destination: %s\n", trip.Destination)
	fmt.Fprintf(&b, "Duration: %d days\n", types.DurationDays(trip.StartDate, trip.EndDate))
	fmt.Fprintf(&b, "Start Date: %s\n", PrettyDate(trip.StartDate))
	fmt.Fprintf(&b, "End Date: %s\n", PrettyDate(trip.EndDate))
	fmt.Fprintf(&b, "Travelers: %d\n", trip.Travelers)
	if trip.Budget > 0 {
		fmt.Fprintf(&b, "Budget: ₹%.0f\n\n", trip.Budget)
	} else {
		b.WriteString("Budget: Not set\n\n")
	}

	for _, day := range timeline.Days {
		fmt.Fprintf(&b, "DAY %d - %s\n", day.Number, day.Date)
		b.WriteString(strings.Repeat("=", 50) + "\n")
		if len(day.Activities) == 0 {
			b.WriteString("No activities planned yet.\n\n")
			continue
		}
		for _, act := range day.Activities {
			fmt.Fprintf(&b, "%s - %s\n", act.Time, act.Title)
			if act.Location != "" {
				fmt.Fprintf(&b, "    Location: %s\n", act.Location)
			}
			if act.Description != "" {
				fmt.Fprintf(&b, "    %s\n", act.Description)
			}
			if act.Cost != "" {
				fmt.Fprintf(&b, "    Cost: %s\n", act.Cost)
			}
		}
		b.WriteString("\n")
	}

	if s := timeline.Summary; s != nil {
		b.WriteString("SUMMARY\n")
		b.WriteString("================\n")
		if s.TotalEstimatedCost != "" {
			fmt.Fprintf(&b, "Total Estimated Cost: %s\n", s.TotalEstimatedCost)
		}
		writeLeg(&b, "To Destination", s.ToDestination)
		writeLeg(&b, "From Destination", s.FromDestination)
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "\nGenerated on: %s at %s\n", PrettyDate(now), now.Format("3:04:05 PM"))

	return b.String()
}

func writeLeg(b *strings.Builder, label string, leg *TransportLeg) {
	if leg == nil {
		return
	}
	line := fmt.Sprintf("%s: %s", label, leg.Type)
	if leg.DepartureTime != "" {
		line += fmt.Sprintf(", departs %s", leg.DepartureTime)
	}
	if leg.ArrivalTime != "" {
		line += fmt.Sprintf(", arrives %s", leg.ArrivalTime)
	}
	if leg.EstimatedCost != "" {
		line += fmt.Sprintf(" (%s)", leg.EstimatedCost)
	}
	b.WriteString(line + "\n")
}

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9]`)

// ExportFilename derives the download filename from the trip destination.
func ExportFilename(destination string) string {
	return unsafeFilenameChars.ReplaceAllString(destination, "_") + "_trip_itinerary.txt"
}
