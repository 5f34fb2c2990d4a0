package trip

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

var _ TripService = (*TripServiceImpl)(nil)

type TripService interface {
	// CreateTrip validates the request, derives the daily and total budget from
	// the chosen budget range and trip length, and stores a new draft trip.
	CreateTrip(ctx context.Context, userID uuid.UUID, req types.CreateTripRequest) (*types.Trip, error)
	GetTrip(ctx context.Context, userID, tripID uuid.UUID) (*types.Trip, error)
	ListTrips(ctx context.Context, userID uuid.UUID) ([]types.Trip, error)
	// UpdateTrip applies a partial update. Only draft trips accept edits; a
	// date change recomputes the total budget from the stored daily budget.
	UpdateTrip(ctx context.Context, userID, tripID uuid.UUID, params types.UpdateTripParams) (*types.Trip, error)
	DeleteTrip(ctx context.Context, userID, tripID uuid.UUID) error
}

type TripServiceImpl struct {
	logger *slog.Logger
	repo   TripRepo
}

func NewTripService(repo TripRepo, logger *slog.Logger) *TripServiceImpl {
	return &TripServiceImpl{
		logger: logger,
		repo:   repo,
	}
}

func validBudgetRange(br types.BudgetRange) bool {
	switch br {
	case types.BudgetRangeBudget, types.BudgetRangeMidrange, types.BudgetRangeLuxury, types.BudgetRangeCustom:
		return true
	}
	return false
}

func (s *TripServiceImpl) CreateTrip(ctx context.Context, userID uuid.UUID, req types.CreateTripRequest) (*types.Trip, error) {
	ctx, span := otel.Tracer("TripService").Start(ctx, "CreateTrip", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
		attribute.String("trip.destination", req.Destination),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "CreateTrip"), slog.String("userID", userID.String()))

	req.Destination = strings.TrimSpace(req.Destination)
	req.CurrentLocation = strings.TrimSpace(req.CurrentLocation)
	switch {
	case req.Destination == "":
		return nil, fmt.Errorf("destination is required: %w", types.ErrValidation)
	case req.CurrentLocation == "":
		return nil, fmt.Errorf("current_location is required: %w", types.ErrValidation)
	case !req.EndDate.After(req.StartDate):
		return nil, fmt.Errorf("end_date must be after start_date: %w", types.ErrValidation)
	case req.Travelers < 1:
		return nil, fmt.Errorf("travelers must be at least 1: %w", types.ErrValidation)
	case !validBudgetRange(req.BudgetRange):
		return nil, fmt.Errorf("unknown budget_range %q: %w", req.BudgetRange, types.ErrValidation)
	case req.BudgetRange == types.BudgetRangeCustom && req.CustomBudget <= 0:
		return nil, fmt.Errorf("custom_budget must be positive for a custom range: %w", types.ErrValidation)
	}

	dailyBudget := types.DailyBudgetFor(req.BudgetRange, req.CustomBudget)
	days := types.DurationDays(req.StartDate, req.EndDate)

	trip := &types.Trip{
		UserID:          userID,
		Destination:     req.Destination,
		CurrentLocation: req.CurrentLocation,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		Travelers:       req.Travelers,
		DailyBudget:     dailyBudget,
		Budget:          dailyBudget * float64(days),
		BudgetRange:     req.BudgetRange,
		Status:          types.TripStatusDraft,
		Interests:       req.Interests,
		AdditionalNotes: req.AdditionalNotes,
		Image:           req.Image,
	}

	tripID, err := s.repo.CreateTrip(ctx, trip)
	if err != nil {
		l.ErrorContext(ctx, "Failed to create trip", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Trip creation failed")
		return nil, err
	}

	created, err := s.repo.GetTrip(ctx, userID, tripID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Trip readback failed")
		return nil, err
	}

	l.InfoContext(ctx, "Trip created",
		slog.String("tripID", tripID.String()),
		slog.Int("days", days),
		slog.Float64("budget", created.Budget))
	span.SetStatus(codes.Ok, "Trip created")
	return created, nil
}

func (s *TripServiceImpl) GetTrip(ctx context.Context, userID, tripID uuid.UUID) (*types.Trip, error) {
	ctx, span := otel.Tracer("TripService").Start(ctx, "GetTrip", trace.WithAttributes(
		attribute.String("trip.id", tripID.String()),
	))
	defer span.End()

	trip, err := s.repo.GetTrip(ctx, userID, tripID)
	if err != nil {
		span.SetStatus(codes.Error, "Trip fetch failed")
		return nil, err
	}
	span.SetStatus(codes.Ok, "Trip fetched")
	return trip, nil
}

func (s *TripServiceImpl) ListTrips(ctx context.Context, userID uuid.UUID) ([]types.Trip, error) {
	ctx, span := otel.Tracer("TripService").Start(ctx, "ListTrips", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
	))
	defer span.End()

	trips, err := s.repo.ListTrips(ctx, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Trip list failed")
		return nil, err
	}
	span.SetStatus(codes.Ok, "Trips listed")
	return trips, nil
}

func (s *TripServiceImpl) UpdateTrip(ctx context.Context, userID, tripID uuid.UUID, params types.UpdateTripParams) (*types.Trip, error) {
	ctx, span := otel.Tracer("TripService").Start(ctx, "UpdateTrip", trace.WithAttributes(
		attribute.String("trip.id", tripID.String()),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "UpdateTrip"), slog.String("tripID", tripID.String()))

	trip, err := s.repo.GetTrip(ctx, userID, tripID)
	if err != nil {
		span.SetStatus(codes.Error, "Trip fetch failed")
		return nil, err
	}

	if trip.Status != types.TripStatusDraft {
		l.WarnContext(ctx, "Rejected edit of non-draft trip", slog.String("status", string(trip.Status)))
		span.SetStatus(codes.Error, "Trip not editable")
		return nil, fmt.Errorf("only draft trips can be edited: %w", types.ErrConflict)
	}

	datesChanged := false
	if params.Destination != nil {
		trip.Destination = strings.TrimSpace(*params.Destination)
	}
	if params.CurrentLocation != nil {
		trip.CurrentLocation = strings.TrimSpace(*params.CurrentLocation)
	}
	if params.StartDate != nil {
		trip.StartDate = *params.StartDate
		datesChanged = true
	}
	if params.EndDate != nil {
		trip.EndDate = *params.EndDate
		datesChanged = true
	}
	if params.Travelers != nil {
		trip.Travelers = *params.Travelers
	}
	if params.Interests != nil {
		trip.Interests = params.Interests
	}
	if params.AdditionalNotes != nil {
		trip.AdditionalNotes = *params.AdditionalNotes
	}
	if params.Image != nil {
		trip.Image = *params.Image
	}

	if !trip.EndDate.After(trip.StartDate) {
		return nil, fmt.Errorf("end_date must be after start_date: %w", types.ErrValidation)
	}
	if trip.Travelers < 1 {
		return nil, fmt.Errorf("travelers must be at least 1: %w", types.ErrValidation)
	}

	if datesChanged {
		days := types.DurationDays(trip.StartDate, trip.EndDate)
		trip.Budget = trip.DailyBudget * float64(days)
	}

	if err := s.repo.UpdateTrip(ctx, trip); err != nil {
		l.ErrorContext(ctx, "Failed to update trip", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Trip update failed")
		return nil, err
	}

	l.InfoContext(ctx, "Trip updated")
	span.SetStatus(codes.Ok, "Trip updated")
	return trip, nil
}

func (s *TripServiceImpl) DeleteTrip(ctx context.Context, userID, tripID uuid.UUID) error {
	ctx, span := otel.Tracer("TripService").Start(ctx, "DeleteTrip", trace.WithAttributes(
		attribute.String("trip.id", tripID.String()),
	))
	defer span.End()

	if err := s.repo.DeleteTrip(ctx, userID, tripID); err != nil {
		span.SetStatus(codes.Error, "Trip deletion failed")
		return err
	}
	span.SetStatus(codes.Ok, "Trip deleted")
	return nil
}
