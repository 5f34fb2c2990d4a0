package dashboard

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/roamly/roamly-api/internal/types"
)

var _ DashboardRepo = (*PostgresDashboardRepo)(nil)

type DashboardRepo interface {
	// ListTripStats loads the trip fields the dashboard numbers reduce over.
	ListTripStats(ctx context.Context, userID uuid.UUID) ([]types.Trip, error)
	// ListUpcomingBookings returns the next confirmed or pending bookings.
	ListUpcomingBookings(ctx context.Context, userID uuid.UUID, limit int) ([]types.Booking, error)
}

type PostgresDashboardRepo struct {
	logger *slog.Logger
	pgpool *pgxpool.Pool
}

func NewPostgresDashboardRepo(pgxpool *pgxpool.Pool, logger *slog.Logger) *PostgresDashboardRepo {
	return &PostgresDashboardRepo{
		logger: logger,
		pgpool: pgxpool,
	}
}

func (r *PostgresDashboardRepo) ListTripStats(ctx context.Context, userID uuid.UUID) ([]types.Trip, error) {
	ctx, span := otel.Tracer("DashboardRepo").Start(ctx, "ListTripStats", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "trips"),
		attribute.String("db.user.id", userID.String()),
	))
	defer span.End()

	rows, err := r.pgpool.Query(ctx, `
		SELECT id, destination, start_date, end_date, status, budget
		FROM trips WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB SELECT failed")
		return nil, fmt.Errorf("database error listing dashboard trips: %w", err)
	}
	defer rows.Close()

	trips := make([]types.Trip, 0)
	for rows.Next() {
		var t types.Trip
		if err := rows.Scan(&t.ID, &t.Destination, &t.StartDate, &t.EndDate, &t.Status, &t.Budget); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "Row scan failed")
			return nil, fmt.Errorf("database error scanning dashboard trip: %w", err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Row iteration failed")
		return nil, fmt.Errorf("database error iterating dashboard trips: %w", err)
	}

	span.SetStatus(codes.Ok, "Dashboard trips listed")
	return trips, nil
}

func (r *PostgresDashboardRepo) ListUpcomingBookings(ctx context.Context, userID uuid.UUID, limit int) ([]types.Booking, error) {
	ctx, span := otel.Tracer("DashboardRepo").Start(ctx, "ListUpcomingBookings", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "bookings"),
		attribute.String("db.user.id", userID.String()),
	))
	defer span.End()

	rows, err := r.pgpool.Query(ctx, `
		SELECT id, user_id, trip_id, type, title, details, date, end_date,
		       status, price, currency, confirmation_number, provider,
		       location, notes, created_at, updated_at
		FROM bookings
		WHERE user_id = $1 AND date > now() AND status IN ('confirmed', 'pending')
		ORDER BY date ASC
		LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB SELECT failed")
		return nil, fmt.Errorf("database error listing upcoming bookings: %w", err)
	}
	defer rows.Close()

	bookings := make([]types.Booking, 0)
	for rows.Next() {
		var b types.Booking
		if err := rows.Scan(
			&b.ID, &b.UserID, &b.TripID, &b.Type, &b.Title, &b.Details, &b.Date, &b.EndDate,
			&b.Status, &b.Price, &b.Currency, &b.ConfirmationNumber, &b.Provider,
			&b.Location, &b.Notes, &b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "Row scan failed")
			return nil, fmt.Errorf("database error scanning upcoming booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Row iteration failed")
		return nil, fmt.Errorf("database error iterating upcoming bookings: %w", err)
	}

	span.SetStatus(codes.Ok, "Upcoming bookings listed")
	return bookings, nil
}
