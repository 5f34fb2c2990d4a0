package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roamly/roamly-api/internal/types"
)

func newMockRepo(t *testing.T) (*PostgresAuthRepo, pgxmock.PgxPoolIface) {
	t.Helper()
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockPool.Close)
	return NewPostgresAuthRepo(mockPool, testLogger()), mockPool
}

func TestPostgresAuthRepo_CreateUser(t *testing.T) {
	ctx := context.Background()

	t.Run("normalizes name and email before insert", func(t *testing.T) {
		repo, mockPool := newMockRepo(t)
		userID := uuid.New()

		mockPool.ExpectQuery(`INSERT INTO users`).
			WithArgs("Alice", "alice@example.com", "hashed").
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(userID))

		got, err := repo.CreateUser(ctx, "  Alice ", " Alice@Example.COM ", "hashed")

		require.NoError(t, err)
		assert.Equal(t, userID, got)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("duplicate email maps to conflict", func(t *testing.T) {
		repo, mockPool := newMockRepo(t)

		mockPool.ExpectQuery(`INSERT INTO users`).
			WithArgs("Alice", "alice@example.com", "hashed").
			WillReturnError(errors.New(`duplicate key value violates unique constraint "users_email_key"`))

		_, err := repo.CreateUser(ctx, "Alice", "alice@example.com", "hashed")

		assert.ErrorIs(t, err, types.ErrConflict)
	})
}

func TestPostgresAuthRepo_GetUserByEmail(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		repo, mockPool := newMockRepo(t)
		userID := uuid.New()
		created := time.Now()

		mockPool.ExpectQuery(`SELECT id, email, password_hash, name, created_at FROM users WHERE email`).
			WithArgs("alice@example.com").
			WillReturnRows(pgxmock.NewRows([]string{"id", "email", "password_hash", "name", "created_at"}).
				AddRow(userID, "alice@example.com", "hashed", "Alice", created))

		user, err := repo.GetUserByEmail(ctx, "Alice@Example.com")

		require.NoError(t, err)
		assert.Equal(t, userID, user.ID)
		assert.Equal(t, "Alice", user.Name)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("missing row maps to not found", func(t *testing.T) {
		repo, mockPool := newMockRepo(t)

		mockPool.ExpectQuery(`SELECT id, email, password_hash, name, created_at FROM users WHERE email`).
			WithArgs("ghost@example.com").
			WillReturnError(pgx.ErrNoRows)

		_, err := repo.GetUserByEmail(ctx, "ghost@example.com")

		assert.ErrorIs(t, err, types.ErrNotFound)
	})
}

func TestPostgresAuthRepo_LookupRefreshToken(t *testing.T) {
	ctx := context.Background()
	columns := []string{"user_id", "expires_at", "invalidated_at"}

	t.Run("live token resolves to owner", func(t *testing.T) {
		repo, mockPool := newMockRepo(t)
		userID := uuid.New()

		mockPool.ExpectQuery(`SELECT user_id, expires_at, invalidated_at FROM refresh_tokens`).
			WithArgs("token-1").
			WillReturnRows(pgxmock.NewRows(columns).
				AddRow(userID, time.Now().Add(time.Hour), (*time.Time)(nil)))

		got, err := repo.LookupRefreshToken(ctx, "token-1")

		require.NoError(t, err)
		assert.Equal(t, userID, got)
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		repo, mockPool := newMockRepo(t)

		mockPool.ExpectQuery(`SELECT user_id, expires_at, invalidated_at FROM refresh_tokens`).
			WithArgs("token-2").
			WillReturnRows(pgxmock.NewRows(columns).
				AddRow(uuid.New(), time.Now().Add(-time.Minute), (*time.Time)(nil)))

		_, err := repo.LookupRefreshToken(ctx, "token-2")

		assert.ErrorIs(t, err, types.ErrUnauthenticated)
	})

	t.Run("invalidated token is rejected", func(t *testing.T) {
		repo, mockPool := newMockRepo(t)
		revoked := time.Now().Add(-time.Minute)

		mockPool.ExpectQuery(`SELECT user_id, expires_at, invalidated_at FROM refresh_tokens`).
			WithArgs("token-3").
			WillReturnRows(pgxmock.NewRows(columns).
				AddRow(uuid.New(), time.Now().Add(time.Hour), &revoked))

		_, err := repo.LookupRefreshToken(ctx, "token-3")

		assert.ErrorIs(t, err, types.ErrUnauthenticated)
	})

	t.Run("unknown token is rejected", func(t *testing.T) {
		repo, mockPool := newMockRepo(t)

		mockPool.ExpectQuery(`SELECT user_id, expires_at, invalidated_at FROM refresh_tokens`).
			WithArgs("nope").
			WillReturnError(pgx.ErrNoRows)

		_, err := repo.LookupRefreshToken(ctx, "nope")

		assert.ErrorIs(t, err, types.ErrUnauthenticated)
	})
}

func TestPostgresAuthRepo_InvalidateRefreshToken(t *testing.T) {
	ctx := context.Background()
	repo, mockPool := newMockRepo(t)

	mockPool.ExpectExec(`UPDATE refresh_tokens SET invalidated_at`).
		WithArgs("token-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.InvalidateRefreshToken(ctx, "token-1")

	require.NoError(t, err)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}
