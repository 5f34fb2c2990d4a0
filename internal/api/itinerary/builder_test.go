package itinerary

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roamly/roamly-api/internal/types"
)

func tripFixture() *types.Trip {
	return &types.Trip{
		Destination: "Jaipur, India",
		StartDate:   time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC),
		Travelers:   2,
		Budget:      10500,
	}
}

func TestClassify(t *testing.T) {
	t.Run("structured payload wins over everything", func(t *testing.T) {
		trip := tripFixture()
		trip.Itinerary = &types.RawItineraryPayload{
			Itinerary: []types.RawItineraryDay{{Day: 1}},
		}
		trip.Activities = []types.TripActivity{{Name: "Old"}}

		assert.Equal(t, SourceStructured, Classify(trip))
	})

	t.Run("flat activities beat dates", func(t *testing.T) {
		trip := tripFixture()
		trip.Activities = []types.TripActivity{{Name: "Walk"}}

		assert.Equal(t, SourceFlatActivities, Classify(trip))
	})

	t.Run("dates alone give the skeleton", func(t *testing.T) {
		assert.Equal(t, SourceDatesOnly, Classify(tripFixture()))
	})

	t.Run("nothing at all is empty", func(t *testing.T) {
		assert.Equal(t, SourceEmpty, Classify(&types.Trip{}))
	})

	t.Run("a stored payload with no days falls through", func(t *testing.T) {
		trip := tripFixture()
		trip.Itinerary = &types.RawItineraryPayload{}

		assert.Equal(t, SourceDatesOnly, Classify(trip))
	})
}

func TestBuild_Skeleton(t *testing.T) {
	// Mar 1 to Mar 4 is ceil(3 days) = 3 day entries, not 4.
	timeline := Build(tripFixture())

	require.Len(t, timeline.Days, 3)
	assert.Equal(t, SourceDatesOnly, timeline.Source)
	assert.False(t, timeline.GenerationPending)

	assert.Equal(t, 1, timeline.Days[0].Number)
	assert.Equal(t, "Saturday, March 1, 2025", timeline.Days[0].Date)
	assert.Equal(t, "Sunday, March 2, 2025", timeline.Days[1].Date)
	assert.Equal(t, "Monday, March 3, 2025", timeline.Days[2].Date)
	for _, day := range timeline.Days {
		assert.Empty(t, day.Activities)
	}
}

func TestBuild_Structured_ExcludesTransport(t *testing.T) {
	trip := tripFixture()
	trip.Itinerary = &types.RawItineraryPayload{
		Itinerary: []types.RawItineraryDay{
			{
				Day:  1,
				Date: "2025-03-01",
				Activities: []types.RawActivity{
					{Title: "Flight to Jaipur", Type: "Flight", Time: "6:00 AM"},
					{Title: "City Palace", Type: "sightseeing", Time: "10:00 AM"},
				},
			},
		},
	}

	timeline := Build(trip)

	require.Len(t, timeline.Days, 1)
	require.Len(t, timeline.Days[0].Activities, 1)
	assert.Equal(t, "City Palace", timeline.Days[0].Activities[0].Title)
	assert.Equal(t, "sightseeing", timeline.Days[0].Activities[0].Category)
}

func TestBuild_Structured_SortsByTime(t *testing.T) {
	trip := tripFixture()
	trip.Itinerary = &types.RawItineraryPayload{
		Itinerary: []types.RawItineraryDay{
			{
				Day: 1,
				Activities: []types.RawActivity{
					{Title: "Afternoon fort", Time: "2:00 PM"},
					{Title: "Morning market", Time: "9:00 AM"},
				},
			},
		},
	}

	timeline := Build(trip)

	require.Len(t, timeline.Days, 1)
	got := timeline.Days[0].Activities
	require.Len(t, got, 2)
	assert.Equal(t, "9:00 AM", got[0].Time)
	assert.Equal(t, "2:00 PM", got[1].Time)
}

func TestBuild_Structured_UnknownTimeSortsFirst(t *testing.T) {
	trip := tripFixture()
	trip.Itinerary = &types.RawItineraryPayload{
		Itinerary: []types.RawItineraryDay{
			{
				Day: 1,
				Activities: []types.RawActivity{
					{Title: "Scheduled", Time: "9:00 AM"},
					{Title: "Unscheduled"},
				},
			},
		},
	}

	timeline := Build(trip)

	got := timeline.Days[0].Activities
	require.Len(t, got, 2)
	assert.Equal(t, TimeTBD, got[0].Time)
	assert.Equal(t, "Unscheduled", got[0].Title)
}

func TestBuild_Structured_DayDates(t *testing.T) {
	trip := tripFixture()
	trip.Itinerary = &types.RawItineraryPayload{
		Itinerary: []types.RawItineraryDay{
			{Day: 1, Date: "2025-03-01"},
			{Day: 2}, // no date: falls back to start + offset
		},
	}

	timeline := Build(trip)

	require.Len(t, timeline.Days, 2)
	assert.Equal(t, "Saturday, March 1, 2025", timeline.Days[0].Date)
	assert.Equal(t, "Sunday, March 2, 2025", timeline.Days[1].Date)
}

func TestBuild_Structured_CapturesSummary(t *testing.T) {
	trip := tripFixture()
	trip.Itinerary = &types.RawItineraryPayload{
		Itinerary:          []types.RawItineraryDay{{Day: 1}},
		TotalEstimatedCost: "₹42,000",
		Transportation: &types.RawTransportationPlan{
			ToDestination: &types.RawTransportLeg{
				Type:          "flight",
				DepartureTime: "6:00 AM",
				EstimatedCost: "₹8,000",
			},
		},
	}

	timeline := Build(trip)

	require.NotNil(t, timeline.Summary)
	assert.Equal(t, "₹42,000", timeline.Summary.TotalEstimatedCost)
	require.NotNil(t, timeline.Summary.ToDestination)
	assert.Equal(t, "flight", timeline.Summary.ToDestination.Type)
	assert.Nil(t, timeline.Summary.FromDestination)
}

func TestBuild_Flat_NumbersSortedDates(t *testing.T) {
	trip := tripFixture()
	trip.Activities = []types.TripActivity{
		{Name: "Third", Date: time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)},
		{Name: "First", Date: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)},
		{Name: "Second", Date: time.Date(2025, 3, 2, 9, 0, 0, 0, time.UTC)},
	}

	timeline := Build(trip)

	require.Len(t, timeline.Days, 3)
	assert.Equal(t, SourceFlatActivities, timeline.Source)
	assert.Equal(t, []int{1, 2, 3}, []int{timeline.Days[0].Number, timeline.Days[1].Number, timeline.Days[2].Number})
	assert.Equal(t, "First", timeline.Days[0].Activities[0].Title)
	assert.Equal(t, "Second", timeline.Days[1].Activities[0].Title)
	assert.Equal(t, "Third", timeline.Days[2].Activities[0].Title)
}

func TestBuild_Flat_ExtractsTimePrefix(t *testing.T) {
	trip := tripFixture()
	trip.Activities = []types.TripActivity{
		{
			Name:        "Museum",
			Date:        time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
			Description: "10:00 AM - Visit museum",
		},
		{
			Name:        "Lunch",
			Date:        time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
			Description: "somewhere nice - no time here",
		},
	}

	timeline := Build(trip)

	require.Len(t, timeline.Days, 1)
	acts := timeline.Days[0].Activities
	require.Len(t, acts, 2)

	// "Lunch" has no parseable prefix so it sorts first as TBD.
	assert.Equal(t, TimeTBD, acts[0].Time)
	assert.Equal(t, "somewhere nice - no time here", acts[0].Description)

	assert.Equal(t, "10:00 AM", acts[1].Time)
	assert.Equal(t, "Visit museum", acts[1].Description)
}

func TestBuild_Empty_GenerationPending(t *testing.T) {
	t.Run("stored but unusable payload reads as in flight", func(t *testing.T) {
		trip := &types.Trip{Itinerary: &types.RawItineraryPayload{}}

		timeline := Build(trip)

		assert.Equal(t, SourceEmpty, timeline.Source)
		assert.Empty(t, timeline.Days)
		assert.True(t, timeline.GenerationPending)
	})

	t.Run("nothing stored reads as never requested", func(t *testing.T) {
		timeline := Build(&types.Trip{})

		assert.Equal(t, SourceEmpty, timeline.Source)
		assert.False(t, timeline.GenerationPending)
	})
}

func TestBuild_MalformedPayloadDegrades(t *testing.T) {
	trip := tripFixture()
	trip.Itinerary = &types.RawItineraryPayload{
		Itinerary: []types.RawItineraryDay{
			{Day: -5, Date: "not a date", Activities: []types.RawActivity{{}}},
		},
	}

	timeline := Build(trip)

	// Junk day records still build: defaults all the way down, no error.
	require.Len(t, timeline.Days, 1)
	assert.Equal(t, 1, timeline.Days[0].Number)
	assert.Equal(t, "not a date", timeline.Days[0].Date)
	require.Len(t, timeline.Days[0].Activities, 1)
	assert.Equal(t, "Activity", timeline.Days[0].Activities[0].Title)
	assert.Equal(t, "activity", timeline.Days[0].Activities[0].Category)
	assert.Equal(t, TimeTBD, timeline.Days[0].Activities[0].Time)
	assert.Equal(t, "Jaipur, India", timeline.Days[0].Activities[0].Location)
}

func TestNormalizeStructured_DescriptionComposition(t *testing.T) {
	defaults := tripDefaults{destination: "Jaipur, India"}

	t.Run("time without description synthesizes title at location", func(t *testing.T) {
		a := normalizeStructured(types.RawActivity{
			Title: "Amber Fort",
			Time:  "9:00 AM",
		}, defaults)

		assert.Equal(t, "Amber Fort at Jaipur, India", a.Description)
	})

	t.Run("cost appends as parenthesized suffix", func(t *testing.T) {
		a := normalizeStructured(types.RawActivity{
			Title:         "Amber Fort",
			Description:   "Hilltop fort tour",
			EstimatedCost: "₹500",
		}, defaults)

		assert.Equal(t, "Hilltop fort tour (₹500)", a.Description)
		assert.Equal(t, "₹500", a.Cost)
	})

	t.Run("explicit location is kept", func(t *testing.T) {
		a := normalizeStructured(types.RawActivity{
			Title:    "Lunch",
			Location: "Old Town",
		}, defaults)

		assert.Equal(t, "Old Town", a.Location)
	})
}

func BenchmarkBuild_Structured(b *testing.B) {
	trip := tripFixture()
	days := make([]types.RawItineraryDay, 7)
	for i := range days {
		days[i] = types.RawItineraryDay{
			Day: i + 1,
			Activities: []types.RawActivity{
				{Title: "Morning walk", Time: "8:00 AM"},
				{Title: "Museum", Time: "11:00 AM", EstimatedCost: "₹300"},
				{Title: "Train to next town", Type: "train", Time: "2:00 PM"},
				{Title: "Dinner", Type: "meal", Time: "7:30 PM"},
			},
		}
	}
	trip.Itinerary = &types.RawItineraryPayload{Itinerary: days}

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		Build(trip)
	}
}
