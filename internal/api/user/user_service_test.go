package user

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/roamly/roamly-api/internal/types"
)

func TestCountryOf(t *testing.T) {
	tests := []struct {
		destination string
		want        string
	}{
		{"Paris, France", "France"},
		{"Jaipur, Rajasthan, India", "India"},
		{"Tokyo", "Tokyo"},
		{"  Lisbon , Portugal ", "Portugal"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.destination, func(t *testing.T) {
			assert.Equal(t, tt.want, CountryOf(tt.destination))
		})
	}
}

func TestTravelLevelFor(t *testing.T) {
	tests := []struct {
		name      string
		trips     int
		countries int
		want      string
	}{
		{"fresh account", 0, 0, "Beginner"},
		{"one trip", 1, 1, "Beginner"},
		{"two trips", 2, 1, "Traveler"},
		{"five trips three countries", 5, 3, "Adventurer"},
		{"many trips few countries", 10, 2, "Traveler"},
		{"ten trips five countries", 10, 5, "Explorer"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, travelLevelFor(tt.trips, tt.countries))
		})
	}
}

func TestComputeTravelStats(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	trips := []types.Trip{
		{
			Destination: "Paris, France",
			StartDate:   now.AddDate(0, 1, 0),
			Status:      types.TripStatusConfirmed,
			Budget:      3000,
		},
		{
			Destination: "Lyon, France",
			StartDate:   now.AddDate(0, -2, 0),
			Status:      types.TripStatusCompleted,
			Budget:      2500,
		},
		{
			Destination: "Tokyo",
			StartDate:   now.AddDate(0, 2, 0),
			Status:      types.TripStatusDraft,
			Budget:      9000,
		},
	}

	stats := computeTravelStats(trips, now)

	assert.Equal(t, 3, stats.TotalTrips)
	assert.Equal(t, 2, stats.CountriesVisited) // France + Tokyo
	assert.Equal(t, 2, stats.UpcomingTrips)
	assert.Equal(t, 1, stats.CompletedTrips)
	assert.Equal(t, 14500.0, stats.TotalSpent)
	assert.Equal(t, "Traveler", stats.TravelLevel)
}

func TestComputeTravelStats_CompletedFutureTripIsNotUpcoming(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	stats := computeTravelStats([]types.Trip{
		{Destination: "Rome, Italy", StartDate: now.AddDate(0, 1, 0), Status: types.TripStatusCompleted},
	}, now)

	assert.Equal(t, 0, stats.UpcomingTrips)
	assert.Equal(t, 1, stats.CompletedTrips)
}

func TestEarnedAchievements(t *testing.T) {
	t.Run("fresh account earns nothing", func(t *testing.T) {
		assert.Empty(t, earnedAchievements(types.TravelStats{}))
	})

	t.Run("thresholds unlock cumulatively", func(t *testing.T) {
		got := earnedAchievements(types.TravelStats{
			TotalTrips:       5,
			CountriesVisited: 3,
			TotalSpent:       6000,
			UpcomingTrips:    2,
			CompletedTrips:   3,
		})

		assert.Equal(t, []string{
			"First Trip Completed",
			"Frequent Traveler",
			"Multi-Country Explorer",
			"Budget Master",
			"Future Planner",
			"Experience Collector",
		}, got)
	})
}
