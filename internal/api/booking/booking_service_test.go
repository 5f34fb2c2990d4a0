package booking

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

type MockBookingRepo struct {
	mock.Mock
}

func (m *MockBookingRepo) CreateBooking(ctx context.Context, booking *types.Booking) (uuid.UUID, error) {
	args := m.Called(ctx, booking)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockBookingRepo) GetBooking(ctx context.Context, userID, bookingID uuid.UUID) (*types.Booking, error) {
	args := m.Called(ctx, userID, bookingID)
	b, _ := args.Get(0).(*types.Booking)
	return b, args.Error(1)
}

func (m *MockBookingRepo) ListBookings(ctx context.Context, userID uuid.UUID) ([]types.Booking, error) {
	args := m.Called(ctx, userID)
	bs, _ := args.Get(0).([]types.Booking)
	return bs, args.Error(1)
}

func (m *MockBookingRepo) UpdateBooking(ctx context.Context, booking *types.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *MockBookingRepo) DeleteBooking(ctx context.Context, userID, bookingID uuid.UUID) error {
	args := m.Called(ctx, userID, bookingID)
	return args.Error(0)
}

func (m *MockBookingRepo) TripExists(ctx context.Context, userID, tripID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID, tripID)
	return args.Bool(0), args.Error(1)
}

func silentLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(devNull{}, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

type devNull struct{}

func (devNull) Write(p []byte) (int, error) { return len(p), nil }

func TestBookingService_CreateBooking(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	tripID := uuid.New()

	validReq := func() types.CreateBookingRequest {
		return types.CreateBookingRequest{
			TripID: tripID,
			Type:   types.BookingTypeHotel,
			Title:  "Hotel Pearl Palace",
			Date:   time.Date(2025, 3, 1, 14, 0, 0, 0, time.UTC),
			Price:  4200,
		}
	}

	t.Run("defaults status to pending and currency to USD", func(t *testing.T) {
		mockRepo := new(MockBookingRepo)
		svc := NewBookingService(mockRepo, silentLogger())

		bookingID := uuid.New()
		var stored *types.Booking
		mockRepo.On("TripExists", ctx, userID, tripID).Return(true, nil).Once()
		mockRepo.On("CreateBooking", ctx, mock.AnythingOfType("*types.Booking")).
			Run(func(args mock.Arguments) { stored = args.Get(1).(*types.Booking) }).
			Return(bookingID, nil).Once()
		mockRepo.On("GetBooking", ctx, userID, bookingID).
			Return(&types.Booking{ID: bookingID}, nil).Once()

		_, err := svc.CreateBooking(ctx, userID, validReq())

		require.NoError(t, err)
		assert.Equal(t, types.BookingStatusPending, stored.Status)
		assert.Equal(t, "USD", stored.Currency)
		mockRepo.AssertExpectations(t)
	})

	t.Run("rejects bookings for trips the user does not own", func(t *testing.T) {
		mockRepo := new(MockBookingRepo)
		svc := NewBookingService(mockRepo, silentLogger())

		mockRepo.On("TripExists", ctx, userID, tripID).Return(false, nil).Once()

		_, err := svc.CreateBooking(ctx, userID, validReq())

		require.Error(t, err)
		assert.ErrorIs(t, err, types.ErrNotFound)
		mockRepo.AssertNotCalled(t, "CreateBooking", mock.Anything, mock.Anything)
	})

	t.Run("rejects unknown booking type", func(t *testing.T) {
		mockRepo := new(MockBookingRepo)
		svc := NewBookingService(mockRepo, silentLogger())

		req := validReq()
		req.Type = "yacht"

		_, err := svc.CreateBooking(ctx, userID, req)

		require.Error(t, err)
		assert.ErrorIs(t, err, types.ErrValidation)
	})
}

func TestBookingService_UpdateBooking(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	bookingID := uuid.New()

	existing := func() *types.Booking {
		return &types.Booking{
			ID:       bookingID,
			UserID:   userID,
			Type:     types.BookingTypeFlight,
			Title:    "Flight to Jaipur",
			Status:   types.BookingStatusPending,
			Price:    8000,
			Currency: "INR",
		}
	}

	t.Run("applies partial update", func(t *testing.T) {
		mockRepo := new(MockBookingRepo)
		svc := NewBookingService(mockRepo, silentLogger())

		mockRepo.On("GetBooking", ctx, userID, bookingID).Return(existing(), nil).Once()
		mockRepo.On("UpdateBooking", ctx, mock.AnythingOfType("*types.Booking")).Return(nil).Once()

		status := "confirmed"
		confirmation := "PNR123"
		updated, err := svc.UpdateBooking(ctx, userID, bookingID, types.UpdateBookingParams{
			Status:             &status,
			ConfirmationNumber: &confirmation,
		})

		require.NoError(t, err)
		assert.Equal(t, types.BookingStatusConfirmed, updated.Status)
		assert.Equal(t, "PNR123", updated.ConfirmationNumber)
		assert.Equal(t, "Flight to Jaipur", updated.Title)
	})

	t.Run("rejects invalid status transition value", func(t *testing.T) {
		mockRepo := new(MockBookingRepo)
		svc := NewBookingService(mockRepo, silentLogger())

		mockRepo.On("GetBooking", ctx, userID, bookingID).Return(existing(), nil).Once()

		status := "teleported"
		_, err := svc.UpdateBooking(ctx, userID, bookingID, types.UpdateBookingParams{Status: &status})

		require.Error(t, err)
		assert.ErrorIs(t, err, types.ErrValidation)
		mockRepo.AssertNotCalled(t, "UpdateBooking", mock.Anything, mock.Anything)
	})
}
