package auth

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/roamly/roamly-api/config"
	"github.com/roamly/roamly-api/internal/types"
)

type MockAuthRepo struct {
	mock.Mock
}

func (m *MockAuthRepo) CreateUser(ctx context.Context, name, email, passwordHash string) (uuid.UUID, error) {
	args := m.Called(ctx, name, email, passwordHash)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockAuthRepo) GetUserByEmail(ctx context.Context, email string) (*types.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*types.User)
	return user, args.Error(1)
}

func (m *MockAuthRepo) GetUserByID(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	args := m.Called(ctx, userID)
	user, _ := args.Get(0).(*types.User)
	return user, args.Error(1)
}

func (m *MockAuthRepo) StoreRefreshToken(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error {
	args := m.Called(ctx, userID, token, expiresAt)
	return args.Error(0)
}

func (m *MockAuthRepo) LookupRefreshToken(ctx context.Context, token string) (uuid.UUID, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockAuthRepo) InvalidateRefreshToken(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockAuthRepo) InvalidateAllUserRefreshTokens(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			SecretKey:     "test-secret-key",
			Issuer:        "roamly-api",
			Audience:      "roamly-clients",
			AccessExpiry:  30 * time.Minute,
			RefreshExpiry: 7 * 24 * time.Hour,
		},
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(testWriter{}, &slog.HandlerOptions{Level: slog.LevelError}))
}

type testWriter struct{}

func (testWriter) Write(p []byte) (int, error) { return len(p), nil }

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("success hashes the password before storing", func(t *testing.T) {
		mockRepo := new(MockAuthRepo)
		svc := NewAuthService(mockRepo, testConfig(), testLogger())

		userID := uuid.New()
		mockRepo.On("CreateUser", ctx, "Ana", "ana@example.com", mock.MatchedBy(func(hash string) bool {
			return bcrypt.CompareHashAndPassword([]byte(hash), []byte("Str0ngP@ss!")) == nil
		})).Return(userID, nil).Once()

		gotID, err := svc.Register(ctx, "Ana", "ana@example.com", "Str0ngP@ss!")

		require.NoError(t, err)
		assert.Equal(t, userID, gotID)
		mockRepo.AssertExpectations(t)
	})

	t.Run("duplicate email surfaces ErrConflict", func(t *testing.T) {
		mockRepo := new(MockAuthRepo)
		svc := NewAuthService(mockRepo, testConfig(), testLogger())

		mockRepo.On("CreateUser", ctx, "Ana", "ana@example.com", mock.AnythingOfType("string")).
			Return(uuid.Nil, types.ErrConflict).Once()

		_, err := svc.Register(ctx, "Ana", "ana@example.com", "Str0ngP@ss!")

		require.Error(t, err)
		assert.ErrorIs(t, err, types.ErrConflict)
		mockRepo.AssertExpectations(t)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	hashed, err := bcrypt.GenerateFromPassword([]byte("Str0ngP@ss!"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &types.User{
		ID:       uuid.New(),
		Name:     "Ana",
		Email:    "ana@example.com",
		Password: string(hashed),
	}

	t.Run("success returns signed access token and stores refresh token", func(t *testing.T) {
		mockRepo := new(MockAuthRepo)
		cfg := testConfig()
		svc := NewAuthService(mockRepo, cfg, testLogger())

		mockRepo.On("GetUserByEmail", ctx, "ana@example.com").Return(user, nil).Once()
		mockRepo.On("StoreRefreshToken", ctx, user.ID, mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).
			Return(nil).Once()

		accessToken, refreshToken, err := svc.Login(ctx, "ana@example.com", "Str0ngP@ss!")

		require.NoError(t, err)
		assert.NotEmpty(t, refreshToken)

		claims := &types.Claims{}
		parsed, err := jwt.ParseWithClaims(accessToken, claims, func(token *jwt.Token) (interface{}, error) {
			return []byte(cfg.JWT.SecretKey), nil
		})
		require.NoError(t, err)
		assert.True(t, parsed.Valid)
		assert.Equal(t, user.ID.String(), claims.UserID)
		assert.Equal(t, user.Email, claims.Email)
		assert.Equal(t, cfg.JWT.Issuer, claims.Issuer)
		mockRepo.AssertExpectations(t)
	})

	t.Run("wrong password returns ErrUnauthenticated", func(t *testing.T) {
		mockRepo := new(MockAuthRepo)
		svc := NewAuthService(mockRepo, testConfig(), testLogger())

		mockRepo.On("GetUserByEmail", ctx, "ana@example.com").Return(user, nil).Once()

		_, _, err := svc.Login(ctx, "ana@example.com", "wrong-password")

		require.Error(t, err)
		assert.ErrorIs(t, err, types.ErrUnauthenticated)
		mockRepo.AssertNotCalled(t, "StoreRefreshToken", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown email returns ErrUnauthenticated, not ErrNotFound", func(t *testing.T) {
		mockRepo := new(MockAuthRepo)
		svc := NewAuthService(mockRepo, testConfig(), testLogger())

		mockRepo.On("GetUserByEmail", ctx, "ghost@example.com").Return(nil, types.ErrNotFound).Once()

		_, _, err := svc.Login(ctx, "ghost@example.com", "whatever")

		require.Error(t, err)
		assert.ErrorIs(t, err, types.ErrUnauthenticated)
	})
}

func TestAuthService_RefreshSession(t *testing.T) {
	ctx := context.Background()

	user := &types.User{
		ID:    uuid.New(),
		Name:  "Ana",
		Email: "ana@example.com",
	}

	t.Run("rotates the refresh token", func(t *testing.T) {
		mockRepo := new(MockAuthRepo)
		svc := NewAuthService(mockRepo, testConfig(), testLogger())

		oldToken := uuid.NewString()
		mockRepo.On("LookupRefreshToken", ctx, oldToken).Return(user.ID, nil).Once()
		mockRepo.On("GetUserByID", ctx, user.ID).Return(user, nil).Once()
		mockRepo.On("InvalidateRefreshToken", ctx, oldToken).Return(nil).Once()
		mockRepo.On("StoreRefreshToken", ctx, user.ID, mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).
			Return(nil).Once()

		accessToken, newToken, err := svc.RefreshSession(ctx, oldToken)

		require.NoError(t, err)
		assert.NotEmpty(t, accessToken)
		assert.NotEmpty(t, newToken)
		assert.NotEqual(t, oldToken, newToken)
		mockRepo.AssertExpectations(t)
	})

	t.Run("dead token is rejected without rotation", func(t *testing.T) {
		mockRepo := new(MockAuthRepo)
		svc := NewAuthService(mockRepo, testConfig(), testLogger())

		mockRepo.On("LookupRefreshToken", ctx, "dead-token").
			Return(uuid.Nil, types.ErrUnauthenticated).Once()

		_, _, err := svc.RefreshSession(ctx, "dead-token")

		require.Error(t, err)
		assert.ErrorIs(t, err, types.ErrUnauthenticated)
		mockRepo.AssertNotCalled(t, "InvalidateRefreshToken", mock.Anything, mock.Anything)
	})
}

func TestAuthService_Logout(t *testing.T) {
	ctx := context.Background()

	mockRepo := new(MockAuthRepo)
	svc := NewAuthService(mockRepo, testConfig(), testLogger())

	mockRepo.On("InvalidateRefreshToken", ctx, "some-token").Return(nil).Once()

	err := svc.Logout(ctx, "some-token")

	require.NoError(t, err)
	mockRepo.AssertExpectations(t)
}
