package user

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

var _ UserRepo = (*PostgresUserRepo)(nil)

type UserRepo interface {
	GetUserWithProfile(ctx context.Context, userID uuid.UUID) (*types.User, error)
	// ListTripStats loads the trip fields statistics are derived from.
	ListTripStats(ctx context.Context, userID uuid.UUID) ([]types.Trip, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, params types.UpdateProfileParams) (*types.User, error)
	// DeleteAccount removes the user row; trips, bookings and refresh tokens
	// go with it through the schema's cascade rules.
	DeleteAccount(ctx context.Context, userID uuid.UUID) error
}

type PostgresUserRepo struct {
	logger *slog.Logger
	pgpool *pgxpool.Pool
}

func NewPostgresUserRepo(pgxpool *pgxpool.Pool, logger *slog.Logger) *PostgresUserRepo {
	return &PostgresUserRepo{
		logger: logger,
		pgpool: pgxpool,
	}
}

func (r *PostgresUserRepo) GetUserWithProfile(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	ctx, span := otel.Tracer("UserRepo").Start(ctx, "GetUserWithProfile", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "users"),
		attribute.String("db.user.id", userID.String()),
	))
	defer span.End()

	var u types.User
	err := r.pgpool.QueryRow(ctx, `
		SELECT id, email, name, created_at,
		       COALESCE(avatar, ''), COALESCE(phone, ''), COALESCE(bio, ''),
		       COALESCE(location, ''), interests, preferences
		FROM users WHERE id = $1`,
		userID,
	).Scan(
		&u.ID, &u.Email, &u.Name, &u.CreatedAt,
		&u.Profile.Avatar, &u.Profile.Phone, &u.Profile.Bio,
		&u.Profile.Location, &u.Profile.Interests, &u.Profile.Preferences,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "User not found")
			return nil, fmt.Errorf("user not found: %w", types.ErrNotFound)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB SELECT failed")
		return nil, fmt.Errorf("database error fetching user profile: %w", err)
	}

	span.SetStatus(codes.Ok, "Profile fetched")
	return &u, nil
}

func (r *PostgresUserRepo) ListTripStats(ctx context.Context, userID uuid.UUID) ([]types.Trip, error) {
	ctx, span := otel.Tracer("UserRepo").Start(ctx, "ListTripStats", trace.WithAttributes(
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
		return nil, fmt.Errorf("database error listing trip stats: %w", err)
	}
	defer rows.Close()

	trips := make([]types.Trip, 0)
	for rows.Next() {
		var t types.Trip
		if err := rows.Scan(&t.ID, &t.Destination, &t.StartDate, &t.EndDate, &t.Status, &t.Budget); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "Row scan failed")
			return nil, fmt.Errorf("database error scanning trip stats: %w", err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Row iteration failed")
		return nil, fmt.Errorf("database error iterating trip stats: %w", err)
	}

	span.SetStatus(codes.Ok, "Trip stats listed")
	return trips, nil
}

func (r *PostgresUserRepo) UpdateProfile(ctx context.Context, userID uuid.UUID, params types.UpdateProfileParams) (*types.User, error) {
	ctx, span := otel.Tracer("UserRepo").Start(ctx, "UpdateProfile", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "users"),
		attribute.String("db.user.id", userID.String()),
	))
	defer span.End()

	l := r.logger.With(slog.String("method", "UpdateProfile"), slog.String("userID", userID.String()))

	tag, err := r.pgpool.Exec(ctx, `
		UPDATE users SET
			bio       = COALESCE($1, bio),
			location  = COALESCE($2, location),
			phone     = COALESCE($3, phone),
			interests = COALESCE($4, interests)
		WHERE id = $5`,
		params.Bio, params.Location, params.Phone, params.Interests, userID,
	)
	if err != nil {
		l.ErrorContext(ctx, "Failed to update profile", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB UPDATE failed")
		return nil, fmt.Errorf("database error updating profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		span.SetStatus(codes.Error, "User not found")
		return nil, fmt.Errorf("user not found: %w", types.ErrNotFound)
	}

	span.SetStatus(codes.Ok, "Profile updated")
	return r.GetUserWithProfile(ctx, userID)
}

func (r *PostgresUserRepo) DeleteAccount(ctx context.Context, userID uuid.UUID) error {
	ctx, span := otel.Tracer("UserRepo").Start(ctx, "DeleteAccount", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "users"),
		attribute.String("db.user.id", userID.String()),
	))
	defer span.End()

	l := r.logger.With(slog.String("method", "DeleteAccount"), slog.String("userID", userID.String()))

	tag, err := r.pgpool.Exec(ctx, `DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		l.ErrorContext(ctx, "Failed to delete account", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB DELETE failed")
		return fmt.Errorf("database error deleting account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		span.SetStatus(codes.Error, "User not found")
		return fmt.Errorf("user not found: %w", types.ErrNotFound)
	}

	l.InfoContext(ctx, "Account deleted with cascading trips, bookings and tokens")
	span.SetStatus(codes.Ok, "Account deleted")
	return nil
}
