package trip

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

var _ TripRepo = (*PostgresTripRepo)(nil)

type TripRepo interface {
	CreateTrip(ctx context.Context, trip *types.Trip) (uuid.UUID, error)
	// GetTrip returns a trip only when it belongs to userID. A trip owned by a
	// different user is reported as ErrNotFound, never ErrForbidden, so that
	// trip IDs are not enumerable.
	GetTrip(ctx context.Context, userID, tripID uuid.UUID) (*types.Trip, error)
	// ListTrips returns the user's trips, newest first.
	ListTrips(ctx context.Context, userID uuid.UUID) ([]types.Trip, error)
	UpdateTrip(ctx context.Context, trip *types.Trip) error
	DeleteTrip(ctx context.Context, userID, tripID uuid.UUID) error
}

type PostgresTripRepo struct {
	logger *slog.Logger
	pgpool *pgxpool.Pool
}

func NewPostgresTripRepo(pgxpool *pgxpool.Pool, logger *slog.Logger) *PostgresTripRepo {
	return &PostgresTripRepo{
		logger: logger,
		pgpool: pgxpool,
	}
}

const tripColumns = `id, user_id, destination, current_location, start_date, end_date,
	travelers, budget, daily_budget, budget_range, status, interests,
	additional_notes, image, activities, itinerary, created_at`

func scanTrip(row pgx.Row) (*types.Trip, error) {
	var t types.Trip
	err := row.Scan(
		&t.ID, &t.UserID, &t.Destination, &t.CurrentLocation, &t.StartDate, &t.EndDate,
		&t.Travelers, &t.Budget, &t.DailyBudget, &t.BudgetRange, &t.Status, &t.Interests,
		&t.AdditionalNotes, &t.Image, &t.Activities, &t.Itinerary, &t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *PostgresTripRepo) CreateTrip(ctx context.Context, trip *types.Trip) (uuid.UUID, error) {
	ctx, span := otel.Tracer("TripRepo").Start(ctx, "CreateTrip", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "trips"),
		attribute.String("db.user.id", trip.UserID.String()),
	))
	defer span.End()

	l := r.logger.With(slog.String("method", "CreateTrip"), slog.String("userID", trip.UserID.String()))

	var tripID uuid.UUID
	err := r.pgpool.QueryRow(ctx, `
		INSERT INTO trips (user_id, destination, current_location, start_date, end_date,
		                   travelers, budget, daily_budget, budget_range, status, interests,
		                   additional_notes, image, activities)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, '[]'::jsonb)
		RETURNING id`,
		trip.UserID, trip.Destination, trip.CurrentLocation, trip.StartDate, trip.EndDate,
		trip.Travelers, trip.Budget, trip.DailyBudget, trip.BudgetRange, trip.Status,
		trip.Interests, trip.AdditionalNotes, trip.Image,
	).Scan(&tripID)
	if err != nil {
		l.ErrorContext(ctx, "Failed to insert trip", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB INSERT failed")
		return uuid.Nil, fmt.Errorf("database error creating trip: %w", err)
	}

	l.InfoContext(ctx, "Trip created", slog.String("tripID", tripID.String()))
	span.SetStatus(codes.Ok, "Trip created")
	return tripID, nil
}

func (r *PostgresTripRepo) GetTrip(ctx context.Context, userID, tripID uuid.UUID) (*types.Trip, error) {
	ctx, span := otel.Tracer("TripRepo").Start(ctx, "GetTrip", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "trips"),
		attribute.String("db.trip.id", tripID.String()),
	))
	defer span.End()

	t, err := scanTrip(r.pgpool.QueryRow(ctx,
		`SELECT `+tripColumns+` FROM trips WHERE id = $1 AND user_id = $2`,
		tripID, userID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "Trip not found")
			return nil, fmt.Errorf("trip not found: %w", types.ErrNotFound)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB SELECT failed")
		return nil, fmt.Errorf("database error fetching trip: %w", err)
	}

	span.SetStatus(codes.Ok, "Trip fetched")
	return t, nil
}

func (r *PostgresTripRepo) ListTrips(ctx context.Context, userID uuid.UUID) ([]types.Trip, error) {
	ctx, span := otel.Tracer("TripRepo").Start(ctx, "ListTrips", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "trips"),
		attribute.String("db.user.id", userID.String()),
	))
	defer span.End()

	rows, err := r.pgpool.Query(ctx,
		`SELECT `+tripColumns+` FROM trips WHERE user_id = $1 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB SELECT failed")
		return nil, fmt.Errorf("database error listing trips: %w", err)
	}
	defer rows.Close()

	trips := make([]types.Trip, 0)
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "Row scan failed")
			return nil, fmt.Errorf("database error scanning trip: %w", err)
		}
		trips = append(trips, *t)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Row iteration failed")
		return nil, fmt.Errorf("database error iterating trips: %w", err)
	}

	span.SetAttributes(attribute.Int("db.rows.count", len(trips)))
	span.SetStatus(codes.Ok, "Trips listed")
	return trips, nil
}

func (r *PostgresTripRepo) UpdateTrip(ctx context.Context, trip *types.Trip) error {
	ctx, span := otel.Tracer("TripRepo").Start(ctx, "UpdateTrip", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "trips"),
		attribute.String("db.trip.id", trip.ID.String()),
	))
	defer span.End()

	tag, err := r.pgpool.Exec(ctx, `
		UPDATE trips SET destination = $1, current_location = $2, start_date = $3,
		                 end_date = $4, travelers = $5, budget = $6, daily_budget = $7,
		                 interests = $8, additional_notes = $9, image = $10
		WHERE id = $11 AND user_id = $12`,
		trip.Destination, trip.CurrentLocation, trip.StartDate,
		trip.EndDate, trip.Travelers, trip.Budget, trip.DailyBudget,
		trip.Interests, trip.AdditionalNotes, trip.Image,
		trip.ID, trip.UserID,
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB UPDATE failed")
		return fmt.Errorf("database error updating trip: %w", err)
	}
	if tag.RowsAffected() == 0 {
		span.SetStatus(codes.Error, "Trip not found")
		return fmt.Errorf("trip not found: %w", types.ErrNotFound)
	}

	span.SetStatus(codes.Ok, "Trip updated")
	return nil
}

func (r *PostgresTripRepo) DeleteTrip(ctx context.Context, userID, tripID uuid.UUID) error {
	ctx, span := otel.Tracer("TripRepo").Start(ctx, "DeleteTrip", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "trips"),
		attribute.String("db.trip.id", tripID.String()),
	))
	defer span.End()

	l := r.logger.With(slog.String("method", "DeleteTrip"), slog.String("tripID", tripID.String()))

	tag, err := r.pgpool.Exec(ctx,
		`DELETE FROM trips WHERE id = $1 AND user_id = $2`,
		tripID, userID,
	)
	if err != nil {
		l.ErrorContext(ctx, "Failed to delete trip", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB DELETE failed")
		return fmt.Errorf("database error deleting trip: %w", err)
	}
	if tag.RowsAffected() == 0 {
		span.SetStatus(codes.Error, "Trip not found")
		return fmt.Errorf("trip not found: %w", types.ErrNotFound)
	}

	l.InfoContext(ctx, "Trip deleted")
	span.SetStatus(codes.Ok, "Trip deleted")
	return nil
}
