package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/roamly/roamly-api/internal/types"
)

var _ AuthRepo = (*PostgresAuthRepo)(nil)

type AuthRepo interface {
	// CreateUser inserts a new account with an already-hashed password.
	// Returns ErrConflict when the email is taken.
	CreateUser(ctx context.Context, name, email, passwordHash string) (uuid.UUID, error)
	GetUserByEmail(ctx context.Context, email string) (*types.User, error)
	GetUserByID(ctx context.Context, userID uuid.UUID) (*types.User, error)
	StoreRefreshToken(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error
	// LookupRefreshToken resolves a live (unexpired, not invalidated) refresh
	// token to its owner. Returns ErrUnauthenticated otherwise.
	LookupRefreshToken(ctx context.Context, token string) (uuid.UUID, error)
	InvalidateRefreshToken(ctx context.Context, token string) error
	InvalidateAllUserRefreshTokens(ctx context.Context, userID uuid.UUID) error
}

// PgxPool is the subset of pgxpool.Pool the repository touches. Tests swap in
// a pgxmock pool through it.
type PgxPool interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type PostgresAuthRepo struct {
	logger *slog.Logger
	pgpool PgxPool
}

func NewPostgresAuthRepo(pgxpool PgxPool, logger *slog.Logger) *PostgresAuthRepo {
	return &PostgresAuthRepo{
		logger: logger,
		pgpool: pgxpool,
	}
}

func (r *PostgresAuthRepo) CreateUser(ctx context.Context, name, email, passwordHash string) (uuid.UUID, error) {
	ctx, span := otel.Tracer("AuthRepo").Start(ctx, "CreateUser", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "users"),
	))
	defer span.End()

	l := r.logger.With(slog.String("method", "CreateUser"), slog.String("email", email))

	var userID uuid.UUID
	err := r.pgpool.QueryRow(ctx,
		`INSERT INTO users (name, email, password_hash) VALUES ($1, $2, $3) RETURNING id`,
		strings.TrimSpace(name), strings.ToLower(strings.TrimSpace(email)), passwordHash,
	).Scan(&userID)
	if err != nil {
		if strings.Contains(err.Error(), "users_email_key") {
			l.WarnContext(ctx, "Email already registered")
			span.SetStatus(codes.Error, "Duplicate email")
			return uuid.Nil, fmt.Errorf("email already registered: %w", types.ErrConflict)
		}
		l.ErrorContext(ctx, "Failed to insert user", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB INSERT failed")
		return uuid.Nil, fmt.Errorf("database error creating user: %w", err)
	}

	l.InfoContext(ctx, "User created", slog.String("userID", userID.String()))
	span.SetStatus(codes.Ok, "User created")
	return userID, nil
}

func (r *PostgresAuthRepo) GetUserByEmail(ctx context.Context, email string) (*types.User, error) {
	ctx, span := otel.Tracer("AuthRepo").Start(ctx, "GetUserByEmail", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "users"),
	))
	defer span.End()

	var user types.User
	err := r.pgpool.QueryRow(ctx,
		`SELECT id, email, password_hash, name, created_at FROM users WHERE email = $1`,
		strings.ToLower(strings.TrimSpace(email)),
	).Scan(&user.ID, &user.Email, &user.Password, &user.Name, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "User not found")
			return nil, fmt.Errorf("user not found: %w", types.ErrNotFound)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB SELECT failed")
		return nil, fmt.Errorf("database error fetching user: %w", err)
	}

	span.SetStatus(codes.Ok, "User fetched")
	return &user, nil
}

func (r *PostgresAuthRepo) GetUserByID(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	ctx, span := otel.Tracer("AuthRepo").Start(ctx, "GetUserByID", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "users"),
		attribute.String("db.user.id", userID.String()),
	))
	defer span.End()

	var user types.User
	err := r.pgpool.QueryRow(ctx,
		`SELECT id, email, password_hash, name, created_at FROM users WHERE id = $1`,
		userID,
	).Scan(&user.ID, &user.Email, &user.Password, &user.Name, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "User not found")
			return nil, fmt.Errorf("user not found: %w", types.ErrNotFound)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB SELECT failed")
		return nil, fmt.Errorf("database error fetching user: %w", err)
	}

	span.SetStatus(codes.Ok, "User fetched")
	return &user, nil
}

func (r *PostgresAuthRepo) StoreRefreshToken(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error {
	ctx, span := otel.Tracer("AuthRepo").Start(ctx, "StoreRefreshToken", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "refresh_tokens"),
	))
	defer span.End()

	_, err := r.pgpool.Exec(ctx,
		`INSERT INTO refresh_tokens (user_id, token, expires_at) VALUES ($1, $2, $3)`,
		userID, token, expiresAt,
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB INSERT failed")
		return fmt.Errorf("failed to store refresh token: %w", err)
	}
	span.SetStatus(codes.Ok, "Refresh token stored")
	return nil
}

func (r *PostgresAuthRepo) LookupRefreshToken(ctx context.Context, token string) (uuid.UUID, error) {
	ctx, span := otel.Tracer("AuthRepo").Start(ctx, "LookupRefreshToken", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "refresh_tokens"),
	))
	defer span.End()

	var userID uuid.UUID
	var expiresAt time.Time
	var invalidatedAt *time.Time
	err := r.pgpool.QueryRow(ctx,
		`SELECT user_id, expires_at, invalidated_at FROM refresh_tokens WHERE token = $1`,
		token,
	).Scan(&userID, &expiresAt, &invalidatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "Token not found")
			return uuid.Nil, fmt.Errorf("refresh token not found: %w", types.ErrUnauthenticated)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB SELECT failed")
		return uuid.Nil, fmt.Errorf("database error fetching refresh token: %w", err)
	}

	if time.Now().After(expiresAt) || invalidatedAt != nil {
		span.SetStatus(codes.Error, "Token expired or invalidated")
		return uuid.Nil, fmt.Errorf("refresh token expired or invalidated: %w", types.ErrUnauthenticated)
	}

	span.SetStatus(codes.Ok, "Token resolved")
	return userID, nil
}

func (r *PostgresAuthRepo) InvalidateRefreshToken(ctx context.Context, token string) error {
	ctx, span := otel.Tracer("AuthRepo").Start(ctx, "InvalidateRefreshToken", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "refresh_tokens"),
	))
	defer span.End()

	_, err := r.pgpool.Exec(ctx,
		`UPDATE refresh_tokens SET invalidated_at = now() WHERE token = $1 AND invalidated_at IS NULL`,
		token,
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB UPDATE failed")
		return fmt.Errorf("failed to invalidate refresh token: %w", err)
	}
	span.SetStatus(codes.Ok, "Token invalidated")
	return nil
}

func (r *PostgresAuthRepo) InvalidateAllUserRefreshTokens(ctx context.Context, userID uuid.UUID) error {
	ctx, span := otel.Tracer("AuthRepo").Start(ctx, "InvalidateAllUserRefreshTokens", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "refresh_tokens"),
		attribute.String("db.user.id", userID.String()),
	))
	defer span.End()

	_, err := r.pgpool.Exec(ctx,
		`UPDATE refresh_tokens SET invalidated_at = now() WHERE user_id = $1 AND invalidated_at IS NULL`,
		userID,
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB UPDATE failed")
		return fmt.Errorf("failed to invalidate user refresh tokens: %w", err)
	}
	span.SetStatus(codes.Ok, "Tokens invalidated")
	return nil
}
