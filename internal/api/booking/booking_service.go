package booking

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/roamly/roamly-api/internal/types"
)

var _ BookingService = (*BookingServiceImpl)(nil)

type BookingService interface {
	CreateBooking(ctx context.Context, userID uuid.UUID, req types.CreateBookingRequest) (*types.Booking, error)
	GetBooking(ctx context.Context, userID, bookingID uuid.UUID) (*types.Booking, error)
	ListBookings(ctx context.Context, userID uuid.UUID) ([]types.Booking, error)
	UpdateBooking(ctx context.Context, userID, bookingID uuid.UUID, params types.UpdateBookingParams) (*types.Booking, error)
	DeleteBooking(ctx context.Context, userID, bookingID uuid.UUID) error
}

type BookingServiceImpl struct {
	logger *slog.Logger
	repo   BookingRepo
}

func NewBookingService(repo BookingRepo, logger *slog.Logger) *BookingServiceImpl {
	return &BookingServiceImpl{
		logger: logger,
		repo:   repo,
	}
}

func validBookingType(t types.BookingType) bool {
	switch t {
	case types.BookingTypeFlight, types.BookingTypeHotel, types.BookingTypeCar,
		types.BookingTypeActivity, types.BookingTypeRestaurant:
		return true
	}
	return false
}

func validBookingStatus(s types.BookingStatus) bool {
	switch s {
	case types.BookingStatusConfirmed, types.BookingStatusPending,
		types.BookingStatusCancelled, types.BookingStatusCompleted:
		return true
	}
	return false
}

func (s *BookingServiceImpl) CreateBooking(ctx context.Context, userID uuid.UUID, req types.CreateBookingRequest) (*types.Booking, error) {
	ctx, span := otel.Tracer("BookingService").Start(ctx, "CreateBooking", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
		attribute.String("booking.type", string(req.Type)),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "CreateBooking"), slog.String("userID", userID.String()))

	req.Title = strings.TrimSpace(req.Title)
	switch {
	case req.TripID == uuid.Nil:
		return nil, fmt.Errorf("trip_id is required: %w", types.ErrValidation)
	case !validBookingType(req.Type):
		return nil, fmt.Errorf("unknown booking type %q: %w", req.Type, types.ErrValidation)
	case req.Title == "":
		return nil, fmt.Errorf("title is required: %w", types.ErrValidation)
	case req.Date.IsZero():
		return nil, fmt.Errorf("date is required: %w", types.ErrValidation)
	case req.Price < 0:
		return nil, fmt.Errorf("price must not be negative: %w", types.ErrValidation)
	}

	owned, err := s.repo.TripExists(ctx, userID, req.TripID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Ownership check failed")
		return nil, err
	}
	if !owned {
		span.SetStatus(codes.Error, "Trip not found")
		return nil, fmt.Errorf("trip not found: %w", types.ErrNotFound)
	}

	status := types.BookingStatusPending
	if req.Status != "" {
		status = types.BookingStatus(strings.ToLower(req.Status))
		if !validBookingStatus(status) {
			return nil, fmt.Errorf("unknown booking status %q: %w", req.Status, types.ErrValidation)
		}
	}
	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = "USD"
	}

	booking := &types.Booking{
		UserID:             userID,
		TripID:             req.TripID,
		Type:               req.Type,
		Title:              req.Title,
		Details:            req.Details,
		Date:               req.Date,
		EndDate:            req.EndDate,
		Status:             status,
		Price:              req.Price,
		Currency:           currency,
		ConfirmationNumber: req.ConfirmationNumber,
		Provider:           req.Provider,
		Location:           req.Location,
		Notes:              req.Notes,
	}

	bookingID, err := s.repo.CreateBooking(ctx, booking)
	if err != nil {
		l.ErrorContext(ctx, "Failed to create booking", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Booking creation failed")
		return nil, err
	}

	created, err := s.repo.GetBooking(ctx, userID, bookingID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Booking readback failed")
		return nil, err
	}

	l.InfoContext(ctx, "Booking created", slog.String("bookingID", bookingID.String()))
	span.SetStatus(codes.Ok, "Booking created")
	return created, nil
}

func (s *BookingServiceImpl) GetBooking(ctx context.Context, userID, bookingID uuid.UUID) (*types.Booking, error) {
	ctx, span := otel.Tracer("BookingService").Start(ctx, "GetBooking", trace.WithAttributes(
		attribute.String("booking.id", bookingID.String()),
	))
	defer span.End()

	booking, err := s.repo.GetBooking(ctx, userID, bookingID)
	if err != nil {
		span.SetStatus(codes.Error, "Booking fetch failed")
		return nil, err
	}
	span.SetStatus(codes.Ok, "Booking fetched")
	return booking, nil
}

func (s *BookingServiceImpl) ListBookings(ctx context.Context, userID uuid.UUID) ([]types.Booking, error) {
	ctx, span := otel.Tracer("BookingService").Start(ctx, "ListBookings", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
	))
	defer span.End()

	bookings, err := s.repo.ListBookings(ctx, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Booking list failed")
		return nil, err
	}
	span.SetStatus(codes.Ok, "Bookings listed")
	return bookings, nil
}

func (s *BookingServiceImpl) UpdateBooking(ctx context.Context, userID, bookingID uuid.UUID, params types.UpdateBookingParams) (*types.Booking, error) {
	ctx, span := otel.Tracer("BookingService").Start(ctx, "UpdateBooking", trace.WithAttributes(
		attribute.String("booking.id", bookingID.String()),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "UpdateBooking"), slog.String("bookingID", bookingID.String()))

	booking, err := s.repo.GetBooking(ctx, userID, bookingID)
	if err != nil {
		span.SetStatus(codes.Error, "Booking fetch failed")
		return nil, err
	}

	if params.Title != nil {
		booking.Title = strings.TrimSpace(*params.Title)
	}
	if params.Details != nil {
		booking.Details = *params.Details
	}
	if params.Date != nil {
		booking.Date = *params.Date
	}
	if params.EndDate != nil {
		booking.EndDate = params.EndDate
	}
	if params.Status != nil {
		status := types.BookingStatus(strings.ToLower(*params.Status))
		if !validBookingStatus(status) {
			return nil, fmt.Errorf("unknown booking status %q: %w", *params.Status, types.ErrValidation)
		}
		booking.Status = status
	}
	if params.Price != nil {
		if *params.Price < 0 {
			return nil, fmt.Errorf("price must not be negative: %w", types.ErrValidation)
		}
		booking.Price = *params.Price
	}
	if params.Currency != nil {
		booking.Currency = strings.ToUpper(strings.TrimSpace(*params.Currency))
	}
	if params.ConfirmationNumber != nil {
		booking.ConfirmationNumber = *params.ConfirmationNumber
	}
	if params.Provider != nil {
		booking.Provider = *params.Provider
	}
	if params.Location != nil {
		booking.Location = *params.Location
	}
	if params.Notes != nil {
		booking.Notes = *params.Notes
	}

	if booking.Title == "" {
		return nil, fmt.Errorf("title must not be empty: %w", types.ErrValidation)
	}

	if err := s.repo.UpdateBooking(ctx, booking); err != nil {
		l.ErrorContext(ctx, "Failed to update booking", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Booking update failed")
		return nil, err
	}

	span.SetStatus(codes.Ok, "Booking updated")
	return booking, nil
}

func (s *BookingServiceImpl) DeleteBooking(ctx context.Context, userID, bookingID uuid.UUID) error {
	ctx, span := otel.Tracer("BookingService").Start(ctx, "DeleteBooking", trace.WithAttributes(
		attribute.String("booking.id", bookingID.String()),
	))
	defer span.End()

	if err := s.repo.DeleteBooking(ctx, userID, bookingID); err != nil {
		span.SetStatus(codes.Error, "Booking deletion failed")
		return err
	}
	span.SetStatus(codes.Ok, "Booking deleted")
	return nil
}
