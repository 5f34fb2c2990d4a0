package assistant

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

var _ AssistantRepo = (*PostgresAssistantRepo)(nil)

type AssistantRepo interface {
	// GetTrip loads a trip the user owns, for grounding the chat context.
	GetTrip(ctx context.Context, userID, tripID uuid.UUID) (*types.Trip, error)
	// GetLatestTrip returns the user's most recently created trip, or nil when
	// the user has no trips yet.
	GetLatestTrip(ctx context.Context, userID uuid.UUID) (*types.Trip, error)
}

type PostgresAssistantRepo struct {
	logger *slog.Logger
	pgpool *pgxpool.Pool
}

func NewPostgresAssistantRepo(pgxpool *pgxpool.Pool, logger *slog.Logger) *PostgresAssistantRepo {
	return &PostgresAssistantRepo{
		logger: logger,
		pgpool: pgxpool,
	}
}

const contextTripColumns = `id, user_id, destination, current_location, start_date, end_date,
	travelers, daily_budget, budget_range, activities`

func scanContextTrip(row pgx.Row) (*types.Trip, error) {
	var t types.Trip
	err := row.Scan(
		&t.ID, &t.UserID, &t.Destination, &t.CurrentLocation, &t.StartDate, &t.EndDate,
		&t.Travelers, &t.DailyBudget, &t.BudgetRange, &t.Activities,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *PostgresAssistantRepo) GetTrip(ctx context.Context, userID, tripID uuid.UUID) (*types.Trip, error) {
	ctx, span := otel.Tracer("AssistantRepo").Start(ctx, "GetTrip", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "trips"),
		attribute.String("db.trip.id", tripID.String()),
	))
	defer span.End()

	t, err := scanContextTrip(r.pgpool.QueryRow(ctx,
		`SELECT `+contextTripColumns+` FROM trips WHERE id = $1 AND user_id = $2`,
		tripID, userID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "Trip not found")
			return nil, fmt.Errorf("trip not found: %w", types.ErrNotFound)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB SELECT failed")
		return nil, fmt.Errorf("database error fetching trip for chat: %w", err)
	}

	span.SetStatus(codes.Ok, "Trip fetched")
	return t, nil
}

func (r *PostgresAssistantRepo) GetLatestTrip(ctx context.Context, userID uuid.UUID) (*types.Trip, error) {
	ctx, span := otel.Tracer("AssistantRepo").Start(ctx, "GetLatestTrip", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "trips"),
		attribute.String("db.user.id", userID.String()),
	))
	defer span.End()

	t, err := scanContextTrip(r.pgpool.QueryRow(ctx,
		`SELECT `+contextTripColumns+` FROM trips WHERE user_id = $1 ORDER BY created_at DESC LIMIT 1`,
		userID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Ok, "No trips yet")
			return nil, nil
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB SELECT failed")
		return nil, fmt.Errorf("database error fetching latest trip for chat: %w", err)
	}

	span.SetStatus(codes.Ok, "Latest trip fetched")
	return t, nil
}
