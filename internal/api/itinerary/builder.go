package itinerary

import (
	"sort"
	"time"

	"github.com/roamly/roamly-api/internal/types"
)

// Source identifies which construction tier produced a timeline. The variants
// form a strict priority order decided once per build at the data boundary,
// never re-sniffed inside the builder functions.
type Source string

const (
	// SourceStructured rebuilds from the generated day/activity payload.
	SourceStructured Source = "structured"
	// SourceFlatActivities reconstructs day grouping from the flat list.
	SourceFlatActivities Source = "flat_activities"
	// SourceDatesOnly synthesizes an empty skeleton from the trip span.
	SourceDatesOnly Source = "dates_only"
	// SourceEmpty means there was nothing to build from.
	SourceEmpty Source = "empty"
)

// Classify inspects one trip snapshot and picks the construction tier. The
// shape decision happens here exactly once; each build function can then
// assume its own variant.
func Classify(trip *types.Trip) Source {
	switch {
	case trip.Itinerary != nil && len(trip.Itinerary.Itinerary) > 0:
		return SourceStructured
	case len(trip.Activities) > 0:
		return SourceFlatActivities
	case !trip.StartDate.IsZero() && !trip.EndDate.IsZero():
		return SourceDatesOnly
	default:
		return SourceEmpty
	}
}

// Timeline is the outcome of one build: the ordered day sequence, the
// payload-level summary when the structured tier produced it, the tier that
// ran, and whether an apparently-empty result is a generation still in flight
// (payload stored but unusable) rather than one never requested.
type Timeline struct {
	Days              []Day    `json:"days"`
	Summary           *Summary `json:"summary,omitempty"`
	Source            Source   `json:"source"`
	GenerationPending bool     `json:"generation_pending"`
}

// Build reconstructs the per-day timeline for one trip snapshot. It is a pure
// function of its input: malformed or partial data degrades to the next tier
// or to zero days, never to an error.
func Build(trip *types.Trip) *Timeline {
	source := Classify(trip)

	t := &Timeline{
		Days:   []Day{},
		Source: source,
		// A stored payload that yielded no usable days means a generation
		// result was persisted (or is being persisted) but cannot be shown;
		// callers prompt differently than for a trip never generated.
		GenerationPending: trip.Itinerary != nil && len(trip.Itinerary.Itinerary) == 0,
	}

	switch source {
	case SourceStructured:
		t.Days = buildStructured(trip)
		t.Summary = buildSummary(trip.Itinerary)
	case SourceFlatActivities:
		t.Days = buildFlat(trip)
	case SourceDatesOnly:
		t.Days = buildSkeleton(trip)
	case SourceEmpty:
		// Nothing to build; t.Days stays empty.
	}

	return t
}

func sortByClock(activities []Activity) {
	sort.SliceStable(activities, func(i, j int) bool {
		return ParseClock(activities[i].Time) < ParseClock(activities[j].Time)
	})
}

// buildStructured walks the generated payload day by day, normalizing each
// activity and dropping transportation legs from the timeline.
func buildStructured(trip *types.Trip) []Day {
	defaults := tripDefaults{destination: trip.Destination}
	payloadDays := trip.Itinerary.Itinerary

	days := make([]Day, 0, len(payloadDays))
	for i, record := range payloadDays {
		number := record.Day
		if number < 1 {
			number = i + 1
		}

		activities := make([]Activity, 0, len(record.Activities))
		for _, raw := range record.Activities {
			a := normalizeStructured(raw, defaults)
			if isTransportCategory(a.Category) {
				continue
			}
			activities = append(activities, a)
		}
		sortByClock(activities)

		days = append(days, Day{
			Number:     i + 1,
			Date:       structuredDayDate(record, number, trip.StartDate),
			Activities: activities,
		})
	}
	return days
}

// structuredDayDate prefers the record's own date field, falling back to the
// day offset from the trip start. An unparseable date string is displayed
// as-is rather than dropped.
func structuredDayDate(record types.RawItineraryDay, dayNumber int, tripStart time.Time) string {
	if record.Date != "" {
		if parsed, ok := parseRecordDate(record.Date); ok {
			return PrettyDate(parsed)
		}
		return record.Date
	}
	return PrettyDate(DateFromDayOffset(dayNumber, tripStart))
}

// buildFlat reconstructs day structure from the flat activity list: group by
// calendar date, sort the distinct dates ascending, and number them 1..N.
// The numbering reflects the dates present in the data, not the trip start;
// this tier only exists for legacy and partially-migrated trips.
func buildFlat(trip *types.Trip) []Day {
	defaults := tripDefaults{destination: trip.Destination}

	grouped := make(map[string][]types.TripActivity)
	for _, act := range trip.Activities {
		key := dateKey(act.Date)
		grouped[key] = append(grouped[key], act)
	}

	keys := make([]string, 0, len(grouped))
	for key := range grouped {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	days := make([]Day, 0, len(keys))
	for i, key := range keys {
		activities := make([]Activity, 0, len(grouped[key]))
		for _, raw := range grouped[key] {
			activities = append(activities, normalizeFlat(raw, defaults))
		}
		sortByClock(activities)

		date, _ := time.Parse("2006-01-02", key)
		days = append(days, Day{
			Number:     i + 1,
			Date:       PrettyDate(date),
			Activities: activities,
		})
	}
	return days
}

// buildSkeleton synthesizes one empty day per calendar day of the trip span.
func buildSkeleton(trip *types.Trip) []Day {
	span := types.DurationDays(trip.StartDate, trip.EndDate)

	days := make([]Day, 0, span)
	for i := 1; i <= span; i++ {
		days = append(days, Day{
			Number:     i,
			Date:       PrettyDate(DateFromDayOffset(i, trip.StartDate)),
			Activities: []Activity{},
		})
	}
	return days
}

func buildSummary(payload *types.RawItineraryPayload) *Summary {
	if payload.TotalEstimatedCost == "" && payload.Transportation == nil {
		return nil
	}

	s := &Summary{TotalEstimatedCost: payload.TotalEstimatedCost}
	if payload.Transportation != nil {
		s.ToDestination = summaryLeg(payload.Transportation.ToDestination)
		s.FromDestination = summaryLeg(payload.Transportation.FromDestination)
	}
	return s
}

func summaryLeg(leg *types.RawTransportLeg) *TransportLeg {
	if leg == nil {
		return nil
	}
	return &TransportLeg{
		Type:          leg.Type,
		DepartureTime: leg.DepartureTime,
		ArrivalTime:   leg.ArrivalTime,
		EstimatedCost: leg.EstimatedCost,
	}
}
