package assistant

import (
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/roamly/roamly-api/internal/types"
)

type MockAssistantRepo struct {
	mock.Mock
}

func (m *MockAssistantRepo) GetTrip(ctx context.Context, userID, tripID uuid.UUID) (*types.Trip, error) {
	args := m.Called(ctx, userID, tripID)
	trip, _ := args.Get(0).(*types.Trip)
	return trip, args.Error(1)
}

func (m *MockAssistantRepo) GetLatestTrip(ctx context.Context, userID uuid.UUID) (*types.Trip, error) {
	args := m.Called(ctx, userID)
	trip, _ := args.Get(0).(*types.Trip)
	return trip, args.Error(1)
}

type MockModelClient struct {
	mock.Mock
}

func (m *MockModelClient) GenerateReply(ctx context.Context, systemPrompt string, history []ChatMessage, message string) (string, error) {
	args := m.Called(ctx, systemPrompt, history, message)
	return args.String(0), args.Error(1)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(devNull{}, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

type devNull struct{}

func (devNull) Write(p []byte) (int, error) { return len(p), nil }

func contextTripFixture() *types.Trip {
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	return &types.Trip{
		ID:              uuid.New(),
		Destination:     "Jaipur, India",
		CurrentLocation: "Mumbai, India",
		StartDate:       start,
		EndDate:         start.AddDate(0, 0, 3),
		Travelers:       2,
		DailyBudget:     3500,
		BudgetRange:     types.BudgetRangeMidrange,
		Activities: []types.TripActivity{
			{
				Name:        "Amber Fort",
				Date:        start.AddDate(0, 0, 1),
				Location:    "Amer",
				Description: "Morning fort visit",
			},
			{
				Name:     "City Palace",
				Date:     start,
				Location: "Jaipur",
			},
		},
	}
}

func TestBuildTripContext(t *testing.T) {
	t.Run("no trip", func(t *testing.T) {
		assert.Equal(t, "No saved trip or activities were provided.", buildTripContext(nil))
	})

	t.Run("trip details and grouped activities", func(t *testing.T) {
		got := buildTripContext(contextTripFixture())

		assert.Contains(t, got, "Current trip details:")
		assert.Contains(t, got, "- From: Mumbai, India")
		assert.Contains(t, got, "- To: Jaipur, India")
		assert.Contains(t, got, "- Dates: 2025-03-01 to 2025-03-04")
		assert.Contains(t, got, "- Travelers: 2")
		assert.Contains(t, got, "- Budget range: midrange")
		assert.Contains(t, got, "- Approx daily budget: ₹3500")

		// Activities come back in date order regardless of stored order.
		assert.Contains(t, got, "Day 1 (2025-03-01):")
		assert.Contains(t, got, "- City Palace at Jaipur")
		assert.Contains(t, got, "Day 2 (2025-03-02):")
		assert.Contains(t, got, "- Amber Fort at Amer | Morning fort visit")
		assert.Less(t,
			strings.Index(got, "City Palace"),
			strings.Index(got, "Amber Fort"),
		)
	})

	t.Run("missing fields fall back", func(t *testing.T) {
		got := buildTripContext(&types.Trip{
			Activities: []types.TripActivity{{}},
		})

		assert.Contains(t, got, "- From: Unknown")
		assert.Contains(t, got, "- To: Unknown")
		assert.NotContains(t, got, "Travelers")
		assert.Contains(t, got, "Day 1 (Unknown date):")
		assert.Contains(t, got, "- Activity")
	})
}

func TestAssistantService_Chat_UsesLatestTripWhenNoneNamed(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	trip := contextTripFixture()

	mockRepo := new(MockAssistantRepo)
	mockModel := new(MockModelClient)
	svc := NewAssistantService(mockRepo, mockModel, quietLogger())

	mockRepo.On("GetLatestTrip", mock.Anything, userID).Return(trip, nil)
	mockModel.On("GenerateReply", mock.Anything,
		mock.MatchedBy(func(systemPrompt string) bool {
			return strings.Contains(systemPrompt, "Jaipur, India") &&
				strings.Contains(systemPrompt, "trip planning")
		}),
		[]ChatMessage(nil), "What should I pack?",
	).Return("Light clothes and sunscreen.", nil)

	resp, err := svc.Chat(ctx, userID, ChatRequest{Message: "What should I pack?"})

	require.NoError(t, err)
	assert.Equal(t, "Light clothes and sunscreen.", resp.Reply)
	mockRepo.AssertExpectations(t)
	mockModel.AssertExpectations(t)
}

func TestAssistantService_Chat_NamedTrip(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	trip := contextTripFixture()

	mockRepo := new(MockAssistantRepo)
	mockModel := new(MockModelClient)
	svc := NewAssistantService(mockRepo, mockModel, quietLogger())

	mockRepo.On("GetTrip", mock.Anything, userID, trip.ID).Return(trip, nil)
	mockModel.On("GenerateReply", mock.Anything, mock.Anything, mock.Anything, "How many days?").
		Return("3 days.", nil)

	resp, err := svc.Chat(ctx, userID, ChatRequest{Message: "How many days?", TripID: &trip.ID})

	require.NoError(t, err)
	assert.Equal(t, "3 days.", resp.Reply)
	mockRepo.AssertNotCalled(t, "GetLatestTrip", mock.Anything, mock.Anything)
}

func TestAssistantService_Chat_TripLookupFailureDegrades(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	tripID := uuid.New()

	mockRepo := new(MockAssistantRepo)
	mockModel := new(MockModelClient)
	svc := NewAssistantService(mockRepo, mockModel, quietLogger())

	mockRepo.On("GetTrip", mock.Anything, userID, tripID).Return(nil, types.ErrNotFound)
	mockModel.On("GenerateReply", mock.Anything,
		mock.MatchedBy(func(systemPrompt string) bool {
			return strings.Contains(systemPrompt, "No saved trip or activities were provided.")
		}),
		mock.Anything, "Where should I go?",
	).Return("Anywhere warm.", nil)

	resp, err := svc.Chat(ctx, userID, ChatRequest{Message: "Where should I go?", TripID: &tripID})

	require.NoError(t, err)
	assert.Equal(t, "Anywhere warm.", resp.Reply)
}

func TestAssistantService_Chat_TruncatesHistory(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	history := make([]ChatMessage, 0, 25)
	for i := 0; i < 25; i++ {
		role := RoleUser
		if i%2 == 1 {
			role = RoleAssistant
		}
		history = append(history, ChatMessage{Role: role, Content: "msg"})
	}

	mockRepo := new(MockAssistantRepo)
	mockModel := new(MockModelClient)
	svc := NewAssistantService(mockRepo, mockModel, quietLogger())

	mockRepo.On("GetLatestTrip", mock.Anything, userID).Return(nil, nil)
	mockModel.On("GenerateReply", mock.Anything, mock.Anything,
		mock.MatchedBy(func(h []ChatMessage) bool { return len(h) == maxHistoryMessages }),
		"still there?",
	).Return("Yes.", nil)

	_, err := svc.Chat(ctx, userID, ChatRequest{Message: "still there?", History: history})

	require.NoError(t, err)
	mockModel.AssertExpectations(t)
}

func TestAssistantService_Chat_ModelErrorSurfaces(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	mockRepo := new(MockAssistantRepo)
	mockModel := new(MockModelClient)
	svc := NewAssistantService(mockRepo, mockModel, quietLogger())

	mockRepo.On("GetLatestTrip", mock.Anything, userID).Return(nil, nil)
	mockModel.On("GenerateReply", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("", assert.AnError)

	_, err := svc.Chat(ctx, userID, ChatRequest{Message: "hello"})

	require.Error(t, err)
}
