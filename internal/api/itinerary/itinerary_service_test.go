package itinerary

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/roamly/roamly-api/app/observability/metrics"
	"github.com/roamly/roamly-api/internal/types"
)

func TestMain(m *testing.M) {
	// The global no-op meter provider is enough for instrument creation.
	metrics.InitAppMetrics()
	m.Run()
}

type MockItineraryRepo struct {
	mock.Mock
}

func (m *MockItineraryRepo) GetTripSnapshot(ctx context.Context, userID, tripID uuid.UUID) (*types.Trip, error) {
	args := m.Called(ctx, userID, tripID)
	trip, _ := args.Get(0).(*types.Trip)
	return trip, args.Error(1)
}

func (m *MockItineraryRepo) SaveGeneration(ctx context.Context, userID, tripID uuid.UUID, payload *types.RawItineraryPayload, activities []types.TripActivity, status types.TripStatus) error {
	args := m.Called(ctx, userID, tripID, payload, activities, status)
	return args.Error(0)
}

type MockGenerationClient struct {
	mock.Mock
}

func (m *MockGenerationClient) Generate(ctx context.Context, trip *types.Trip) (*types.RawItineraryPayload, error) {
	args := m.Called(ctx, trip)
	payload, _ := args.Get(0).(*types.RawItineraryPayload)
	return payload, args.Error(1)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(nullWriter{}, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

type nullWriter struct{}

func (nullWriter) Write(p []byte) (int, error) { return len(p), nil }

func serviceFixtureTrip(userID, tripID uuid.UUID) *types.Trip {
	return &types.Trip{
		ID:          tripID,
		UserID:      userID,
		Destination: "Jaipur, India",
		StartDate:   time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC),
		Travelers:   2,
		Status:      types.TripStatusDraft,
	}
}

func TestItineraryService_Generate(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	tripID := uuid.New()

	t.Run("stores payload verbatim, derives activities, moves to planning", func(t *testing.T) {
		mockRepo := new(MockItineraryRepo)
		mockClient := new(MockGenerationClient)
		svc := NewItineraryService(mockRepo, mockClient, quietLogger())

		trip := serviceFixtureTrip(userID, tripID)
		payload := &types.RawItineraryPayload{
			Itinerary: []types.RawItineraryDay{
				{
					Day:  1,
					Date: "2025-03-01",
					Activities: []types.RawActivity{
						{Title: "City Palace", Time: "10:00 AM", EstimatedCost: "₹700"},
						{Title: "Flight home", Type: "flight", Time: "8:00 PM"},
					},
				},
			},
		}

		mockRepo.On("GetTripSnapshot", ctx, userID, tripID).Return(trip, nil).Once()
		mockClient.On("Generate", ctx, trip).Return(payload, nil).Once()

		var savedActivities []types.TripActivity
		mockRepo.On("SaveGeneration", ctx, userID, tripID, payload, mock.AnythingOfType("[]types.TripActivity"), types.TripStatusPlanning).
			Run(func(args mock.Arguments) { savedActivities = args.Get(4).([]types.TripActivity) }).
			Return(nil).Once()

		result, err := svc.Generate(ctx, userID, tripID)

		require.NoError(t, err)
		assert.True(t, result.Success)
		assert.Same(t, payload, result.Itinerary)
		assert.Equal(t, types.TripStatusPlanning, result.Trip.Status)

		// The flight is a transport leg and never lands in the flat list.
		require.Len(t, savedActivities, 1)
		assert.Equal(t, "City Palace", savedActivities[0].Name)
		assert.Equal(t, "10:00 AM - City Palace (₹700)", savedActivities[0].Description)
		assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), savedActivities[0].Date)
		assert.Equal(t, "Jaipur, India", savedActivities[0].Location)

		mockRepo.AssertExpectations(t)
		mockClient.AssertExpectations(t)
	})

	t.Run("generation failure is not persisted", func(t *testing.T) {
		mockRepo := new(MockItineraryRepo)
		mockClient := new(MockGenerationClient)
		svc := NewItineraryService(mockRepo, mockClient, quietLogger())

		trip := serviceFixtureTrip(userID, tripID)
		mockRepo.On("GetTripSnapshot", ctx, userID, tripID).Return(trip, nil).Once()
		mockClient.On("Generate", ctx, trip).Return(nil, errors.New("service exploded")).Once()

		_, err := svc.Generate(ctx, userID, tripID)

		require.Error(t, err)
		mockRepo.AssertNotCalled(t, "SaveGeneration",
			mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("concurrent generation for the same trip is rejected with conflict", func(t *testing.T) {
		mockRepo := new(MockItineraryRepo)
		svc := NewItineraryService(mockRepo, blockingClient{entered: make(chan struct{}), release: make(chan struct{})}, quietLogger())
		client := svc.client.(blockingClient)

		trip := serviceFixtureTrip(userID, tripID)
		mockRepo.On("GetTripSnapshot", ctx, userID, tripID).Return(trip, nil)
		mockRepo.On("SaveGeneration", ctx, userID, tripID, mock.Anything, mock.Anything, types.TripStatusPlanning).Return(nil)

		var wg sync.WaitGroup
		wg.Add(1)
		var firstErr error
		go func() {
			defer wg.Done()
			_, firstErr = svc.Generate(ctx, userID, tripID)
		}()

		<-client.entered

		_, secondErr := svc.Generate(ctx, userID, tripID)
		require.Error(t, secondErr)
		assert.ErrorIs(t, secondErr, types.ErrConflict)

		close(client.release)
		wg.Wait()
		require.NoError(t, firstErr)

		// Once the first finishes, the guard is released again.
		mockRepo.On("GetTripSnapshot", ctx, userID, tripID).Return(trip, nil)
		_, thirdErr := svc.Generate(ctx, userID, tripID)
		require.NoError(t, thirdErr)
	})
}

// blockingClient parks inside Generate until released, to hold the
// single-flight guard open from a test.
type blockingClient struct {
	entered chan struct{}
	release chan struct{}
}

func (c blockingClient) Generate(ctx context.Context, trip *types.Trip) (*types.RawItineraryPayload, error) {
	select {
	case c.entered <- struct{}{}:
	default:
	}
	<-c.release
	return &types.RawItineraryPayload{Itinerary: []types.RawItineraryDay{{Day: 1}}}, nil
}

func TestItineraryService_BuildTimeline(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	tripID := uuid.New()

	t.Run("builds from the fetched snapshot", func(t *testing.T) {
		mockRepo := new(MockItineraryRepo)
		svc := NewItineraryService(mockRepo, new(MockGenerationClient), quietLogger())

		mockRepo.On("GetTripSnapshot", ctx, userID, tripID).
			Return(serviceFixtureTrip(userID, tripID), nil).Once()

		timeline, err := svc.BuildTimeline(ctx, userID, tripID)

		require.NoError(t, err)
		assert.Equal(t, SourceDatesOnly, timeline.Source)
		assert.Len(t, timeline.Days, 3)
	})

	t.Run("missing trip propagates not found", func(t *testing.T) {
		mockRepo := new(MockItineraryRepo)
		svc := NewItineraryService(mockRepo, new(MockGenerationClient), quietLogger())

		mockRepo.On("GetTripSnapshot", ctx, userID, tripID).
			Return(nil, types.ErrNotFound).Once()

		_, err := svc.BuildTimeline(ctx, userID, tripID)

		require.Error(t, err)
		assert.ErrorIs(t, err, types.ErrNotFound)
	})
}

func TestItineraryService_Export(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	tripID := uuid.New()

	mockRepo := new(MockItineraryRepo)
	svc := NewItineraryService(mockRepo, new(MockGenerationClient), quietLogger())

	mockRepo.On("GetTripSnapshot", ctx, userID, tripID).
		Return(serviceFixtureTrip(userID, tripID), nil).Once()

	filename, content, err := svc.Export(ctx, userID, tripID)

	require.NoError(t, err)
	assert.Equal(t, "Jaipur__India_trip_itinerary.txt", filename)
	assert.Contains(t, string(content), "TRIP ITINERARY")
	assert.Contains(t, string(content), "DAY 1 - Saturday, March 1, 2025")
}
