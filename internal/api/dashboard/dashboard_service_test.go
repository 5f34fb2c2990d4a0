package dashboard

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/roamly/roamly-api/internal/types"
)

type MockDashboardRepo struct {
	mock.Mock
}

func (m *MockDashboardRepo) ListTripStats(ctx context.Context, userID uuid.UUID) ([]types.Trip, error) {
	args := m.Called(ctx, userID)
	trips, _ := args.Get(0).([]types.Trip)
	return trips, args.Error(1)
}

func (m *MockDashboardRepo) ListUpcomingBookings(ctx context.Context, userID uuid.UUID, limit int) ([]types.Booking, error) {
	args := m.Called(ctx, userID, limit)
	bookings, _ := args.Get(0).([]types.Booking)
	return bookings, args.Error(1)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(sink{}, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

type sink struct{}

func (sink) Write(p []byte) (int, error) { return len(p), nil }

func TestComputeDashboardStats(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	trips := []types.Trip{
		{Destination: "Paris, France", StartDate: now.AddDate(0, 0, 10), Status: types.TripStatusConfirmed, Budget: 3000},
		{Destination: "Lyon, France", StartDate: now.AddDate(0, 0, -10), Status: types.TripStatusCompleted, Budget: 2000},
		{Destination: "Tokyo, Japan", StartDate: now.AddDate(0, -3, 0), Status: types.TripStatusCompleted, Budget: 9000},
	}

	stats := computeDashboardStats(trips, now)

	assert.Equal(t, 3, stats.TotalTrips)
	// June 5 and June 25 both start on/after June 1.
	assert.Equal(t, 2, stats.ThisMonthTrips)
	assert.Equal(t, 1, stats.UpcomingTrips)
	assert.Equal(t, 2, stats.CompletedTrips)
	assert.Equal(t, 2, stats.SavedCountries)
	assert.Equal(t, 14000.0, stats.TotalSaved)
}

func TestDashboardService_GetOverview_CachesResult(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	mockRepo := new(MockDashboardRepo)
	svc := NewDashboardService(mockRepo, testLogger())

	mockRepo.On("ListTripStats", mock.Anything, userID).Return([]types.Trip{
		{Destination: "Paris, France", Status: types.TripStatusDraft, Budget: 100},
	}, nil).Once()
	mockRepo.On("ListUpcomingBookings", mock.Anything, userID, upcomingBookingLimit).
		Return([]types.Booking{}, nil).Once()

	first, err := svc.GetOverview(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Stats.TotalTrips)

	// Second call is served from cache; the mocks are only good for one call.
	second, err := svc.GetOverview(ctx, userID)
	require.NoError(t, err)
	assert.Same(t, first, second)
	mockRepo.AssertExpectations(t)
}

func TestDashboardService_GetOverview_PropagatesRepoErrors(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	mockRepo := new(MockDashboardRepo)
	svc := NewDashboardService(mockRepo, testLogger())

	mockRepo.On("ListTripStats", mock.Anything, userID).Return(nil, assert.AnError)
	mockRepo.On("ListUpcomingBookings", mock.Anything, userID, upcomingBookingLimit).
		Return([]types.Booking{}, nil).Maybe()

	_, err := svc.GetOverview(ctx, userID)

	require.Error(t, err)
}
