package booking

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

var _ BookingRepo = (*PostgresBookingRepo)(nil)

type BookingRepo interface {
	CreateBooking(ctx context.Context, booking *types.Booking) (uuid.UUID, error)
	GetBooking(ctx context.Context, userID, bookingID uuid.UUID) (*types.Booking, error)
	// ListBookings returns the user's bookings ordered by date ascending with
	// the owning trip's destination and dates joined on.
	ListBookings(ctx context.Context, userID uuid.UUID) ([]types.Booking, error)
	UpdateBooking(ctx context.Context, booking *types.Booking) error
	DeleteBooking(ctx context.Context, userID, bookingID uuid.UUID) error
	// TripExists reports whether the trip belongs to the user; bookings may
	// only attach to owned trips.
	TripExists(ctx context.Context, userID, tripID uuid.UUID) (bool, error)
}

type PostgresBookingRepo struct {
	logger *slog.Logger
	pgpool *pgxpool.Pool
}

func NewPostgresBookingRepo(pgxpool *pgxpool.Pool, logger *slog.Logger) *PostgresBookingRepo {
	return &PostgresBookingRepo{
		logger: logger,
		pgpool: pgxpool,
	}
}

const bookingColumns = `b.id, b.user_id, b.trip_id, b.type, b.title, b.details, b.date,
	b.end_date, b.status, b.price, b.currency, b.confirmation_number,
	b.provider, b.location, b.notes, b.created_at, b.updated_at,
	t.destination, t.start_date, t.end_date`

func scanBooking(row pgx.Row) (*types.Booking, error) {
	var b types.Booking
	var ref types.BookingTripRef
	err := row.Scan(
		&b.ID, &b.UserID, &b.TripID, &b.Type, &b.Title, &b.Details, &b.Date,
		&b.EndDate, &b.Status, &b.Price, &b.Currency, &b.ConfirmationNumber,
		&b.Provider, &b.Location, &b.Notes, &b.CreatedAt, &b.UpdatedAt,
		&ref.Destination, &ref.StartDate, &ref.EndDate,
	)
	if err != nil {
		return nil, err
	}
	b.Trip = &ref
	return &b, nil
}

func (r *PostgresBookingRepo) CreateBooking(ctx context.Context, booking *types.Booking) (uuid.UUID, error) {
	ctx, span := otel.Tracer("BookingRepo").Start(ctx, "CreateBooking", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "bookings"),
		attribute.String("db.trip.id", booking.TripID.String()),
	))
	defer span.End()

	l := r.logger.With(slog.String("method", "CreateBooking"), slog.String("userID", booking.UserID.String()))

	var bookingID uuid.UUID
	err := r.pgpool.QueryRow(ctx, `
		INSERT INTO bookings (user_id, trip_id, type, title, details, date, end_date,
		                      status, price, currency, confirmation_number, provider,
		                      location, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id`,
		booking.UserID, booking.TripID, booking.Type, booking.Title, booking.Details,
		booking.Date, booking.EndDate, booking.Status, booking.Price, booking.Currency,
		booking.ConfirmationNumber, booking.Provider, booking.Location, booking.Notes,
	).Scan(&bookingID)
	if err != nil {
		l.ErrorContext(ctx, "Failed to insert booking", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB INSERT failed")
		return uuid.Nil, fmt.Errorf("database error creating booking: %w", err)
	}

	l.InfoContext(ctx, "Booking created", slog.String("bookingID", bookingID.String()))
	span.SetStatus(codes.Ok, "Booking created")
	return bookingID, nil
}

func (r *PostgresBookingRepo) GetBooking(ctx context.Context, userID, bookingID uuid.UUID) (*types.Booking, error) {
	ctx, span := otel.Tracer("BookingRepo").Start(ctx, "GetBooking", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "bookings"),
		attribute.String("db.booking.id", bookingID.String()),
	))
	defer span.End()

	b, err := scanBooking(r.pgpool.QueryRow(ctx, `
		SELECT `+bookingColumns+`
		FROM bookings b
		JOIN trips t ON t.id = b.trip_id
		WHERE b.id = $1 AND b.user_id = $2`,
		bookingID, userID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "Booking not found")
			return nil, fmt.Errorf("booking not found: %w", types.ErrNotFound)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB SELECT failed")
		return nil, fmt.Errorf("database error fetching booking: %w", err)
	}

	span.SetStatus(codes.Ok, "Booking fetched")
	return b, nil
}

func (r *PostgresBookingRepo) ListBookings(ctx context.Context, userID uuid.UUID) ([]types.Booking, error) {
	ctx, span := otel.Tracer("BookingRepo").Start(ctx, "ListBookings", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "bookings"),
		attribute.String("db.user.id", userID.String()),
	))
	defer span.End()

	rows, err := r.pgpool.Query(ctx, `
		SELECT `+bookingColumns+`
		FROM bookings b
		JOIN trips t ON t.id = b.trip_id
		WHERE b.user_id = $1
		ORDER BY b.date ASC`,
		userID,
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB SELECT failed")
		return nil, fmt.Errorf("database error listing bookings: %w", err)
	}
	defer rows.Close()

	bookings := make([]types.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "Row scan failed")
			return nil, fmt.Errorf("database error scanning booking: %w", err)
		}
		bookings = append(bookings, *b)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Row iteration failed")
		return nil, fmt.Errorf("database error iterating bookings: %w", err)
	}

	span.SetAttributes(attribute.Int("db.rows.count", len(bookings)))
	span.SetStatus(codes.Ok, "Bookings listed")
	return bookings, nil
}

func (r *PostgresBookingRepo) UpdateBooking(ctx context.Context, booking *types.Booking) error {
	ctx, span := otel.Tracer("BookingRepo").Start(ctx, "UpdateBooking", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "bookings"),
		attribute.String("db.booking.id", booking.ID.String()),
	))
	defer span.End()

	tag, err := r.pgpool.Exec(ctx, `
		UPDATE bookings SET title = $1, details = $2, date = $3, end_date = $4,
		                    status = $5, price = $6, currency = $7,
		                    confirmation_number = $8, provider = $9, location = $10,
		                    notes = $11, updated_at = now()
		WHERE id = $12 AND user_id = $13`,
		booking.Title, booking.Details, booking.Date, booking.EndDate,
		booking.Status, booking.Price, booking.Currency,
		booking.ConfirmationNumber, booking.Provider, booking.Location,
		booking.Notes, booking.ID, booking.UserID,
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB UPDATE failed")
		return fmt.Errorf("database error updating booking: %w", err)
	}
	if tag.RowsAffected() == 0 {
		span.SetStatus(codes.Error, "Booking not found")
		return fmt.Errorf("booking not found: %w", types.ErrNotFound)
	}

	span.SetStatus(codes.Ok, "Booking updated")
	return nil
}

func (r *PostgresBookingRepo) DeleteBooking(ctx context.Context, userID, bookingID uuid.UUID) error {
	ctx, span := otel.Tracer("BookingRepo").Start(ctx, "DeleteBooking", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "bookings"),
		attribute.String("db.booking.id", bookingID.String()),
	))
	defer span.End()

	tag, err := r.pgpool.Exec(ctx,
		`DELETE FROM bookings WHERE id = $1 AND user_id = $2`,
		bookingID, userID,
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB DELETE failed")
		return fmt.Errorf("database error deleting booking: %w", err)
	}
	if tag.RowsAffected() == 0 {
		span.SetStatus(codes.Error, "Booking not found")
		return fmt.Errorf("booking not found: %w", types.ErrNotFound)
	}

	span.SetStatus(codes.Ok, "Booking deleted")
	return nil
}

func (r *PostgresBookingRepo) TripExists(ctx context.Context, userID, tripID uuid.UUID) (bool, error) {
	ctx, span := otel.Tracer("BookingRepo").Start(ctx, "TripExists", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "trips"),
		attribute.String("db.trip.id", tripID.String()),
	))
	defer span.End()

	var exists bool
	err := r.pgpool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM trips WHERE id = $1 AND user_id = $2)`,
		tripID, userID,
	).Scan(&exists)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB SELECT failed")
		return false, fmt.Errorf("database error checking trip ownership: %w", err)
	}

	span.SetStatus(codes.Ok, "Ownership checked")
	return exists, nil
}
