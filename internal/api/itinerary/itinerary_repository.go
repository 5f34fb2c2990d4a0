package itinerary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/roamly/roamly-api/internal/types"
)

var _ ItineraryRepo = (*PostgresItineraryRepo)(nil)

type ItineraryRepo interface {
	// GetTripSnapshot loads the trip fields the builder consumes. Ownership is
	// enforced here: another user's trip reads as ErrNotFound.
	GetTripSnapshot(ctx context.Context, userID, tripID uuid.UUID) (*types.Trip, error)
	// SaveGeneration persists a generation result atomically: the payload
	// verbatim, the derived flat activities, and the status transition.
	SaveGeneration(ctx context.Context, userID, tripID uuid.UUID, payload *types.RawItineraryPayload, activities []types.TripActivity, status types.TripStatus) error
}

type PostgresItineraryRepo struct {
	logger *slog.Logger
	pgpool *pgxpool.Pool
}

func NewPostgresItineraryRepo(pgxpool *pgxpool.Pool, logger *slog.Logger) *PostgresItineraryRepo {
	return &PostgresItineraryRepo{
		logger: logger,
		pgpool: pgxpool,
	}
}

func (r *PostgresItineraryRepo) GetTripSnapshot(ctx context.Context, userID, tripID uuid.UUID) (*types.Trip, error) {
	ctx, span := otel.Tracer("ItineraryRepo").Start(ctx, "GetTripSnapshot", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "trips"),
		attribute.String("db.trip.id", tripID.String()),
	))
	defer span.End()

	var t types.Trip
	err := r.pgpool.QueryRow(ctx, `
		SELECT id, user_id, destination, current_location, start_date, end_date,
		       travelers, budget, daily_budget, budget_range, status, interests,
		       additional_notes, image, activities, itinerary, created_at
		FROM trips WHERE id = $1 AND user_id = $2`,
		tripID, userID,
	).Scan(
		&t.ID, &t.UserID, &t.Destination, &t.CurrentLocation, &t.StartDate, &t.EndDate,
		&t.Travelers, &t.Budget, &t.DailyBudget, &t.BudgetRange, &t.Status, &t.Interests,
		&t.AdditionalNotes, &t.Image, &t.Activities, &t.Itinerary, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "Trip not found")
			return nil, fmt.Errorf("trip not found: %w", types.ErrNotFound)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB SELECT failed")
		return nil, fmt.Errorf("database error fetching trip snapshot: %w", err)
	}

	span.SetStatus(codes.Ok, "Snapshot fetched")
	return &t, nil
}

func (r *PostgresItineraryRepo) SaveGeneration(ctx context.Context, userID, tripID uuid.UUID, payload *types.RawItineraryPayload, activities []types.TripActivity, status types.TripStatus) error {
	ctx, span := otel.Tracer("ItineraryRepo").Start(ctx, "SaveGeneration", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "trips"),
		attribute.String("db.trip.id", tripID.String()),
	))
	defer span.End()

	l := r.logger.With(slog.String("method", "SaveGeneration"), slog.String("tripID", tripID.String()))

	tag, err := r.pgpool.Exec(ctx,
		`UPDATE trips SET itinerary = $1, activities = $2, status = $3 WHERE id = $4 AND user_id = $5`,
		payload, activities, status, tripID, userID,
	)
	if err != nil {
		l.ErrorContext(ctx, "Failed to persist generation result", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB UPDATE failed")
		return fmt.Errorf("database error saving generated itinerary: %w", err)
	}
	if tag.RowsAffected() == 0 {
		span.SetStatus(codes.Error, "Trip not found")
		return fmt.Errorf("trip not found: %w", types.ErrNotFound)
	}

	l.InfoContext(ctx, "Generation result persisted", slog.Int("activities", len(activities)))
	span.SetStatus(codes.Ok, "Generation saved")
	return nil
}
