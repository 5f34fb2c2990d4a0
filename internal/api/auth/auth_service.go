package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/crypto/bcrypt"

	"github.com/roamly/roamly-api/config"
	"github.com/roamly/roamly-api/internal/types"
)

const bcryptCost = 12

var _ AuthService = (*AuthServiceImpl)(nil)

type AuthService interface {
	// Register creates a new account. Returns ErrConflict for duplicate emails.
	Register(ctx context.Context, name, email, password string) (uuid.UUID, error)
	// Login verifies credentials and returns an access token plus a stored
	// refresh token. Returns ErrUnauthenticated on bad credentials.
	Login(ctx context.Context, email, password string) (string, string, error)
	// RefreshSession rotates the refresh token and issues a new access token.
	RefreshSession(ctx context.Context, refreshToken string) (string, string, error)
	// Logout invalidates the presented refresh token.
	Logout(ctx context.Context, refreshToken string) error
}

type AuthServiceImpl struct {
	logger *slog.Logger
	repo   AuthRepo
	cfg    *config.Config
}

func NewAuthService(repo AuthRepo, cfg *config.Config, logger *slog.Logger) *AuthServiceImpl {
	return &AuthServiceImpl{
		logger: logger,
		repo:   repo,
		cfg:    cfg,
	}
}

func (s *AuthServiceImpl) Register(ctx context.Context, name, email, password string) (uuid.UUID, error) {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "Register", trace.WithAttributes(
		attribute.String("user.email", email),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "Register"), slog.String("email", email))
	l.DebugContext(ctx, "Registering new user")

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		l.ErrorContext(ctx, "Failed to hash password", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Password hashing failed")
		return uuid.Nil, fmt.Errorf("error hashing password: %w", err)
	}

	userID, err := s.repo.CreateUser(ctx, name, email, string(hashed))
	if err != nil {
		l.ErrorContext(ctx, "Failed to create user", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "User creation failed")
		return uuid.Nil, err
	}

	l.InfoContext(ctx, "User registered successfully", slog.String("userID", userID.String()))
	span.SetStatus(codes.Ok, "User registered")
	return userID, nil
}

func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (string, string, error) {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "Login", trace.WithAttributes(
		attribute.String("user.email", email),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "Login"), slog.String("email", email))

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		l.WarnContext(ctx, "Login failed, user lookup", slog.Any("error", err))
		span.SetStatus(codes.Error, "User lookup failed")
		return "", "", fmt.Errorf("invalid credentials: %w", types.ErrUnauthenticated)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		l.WarnContext(ctx, "Login failed, password mismatch")
		span.SetStatus(codes.Error, "Password mismatch")
		return "", "", fmt.Errorf("invalid credentials: %w", types.ErrUnauthenticated)
	}

	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		l.ErrorContext(ctx, "Failed to generate access token", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Token generation failed")
		return "", "", fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken := uuid.NewString()
	expiresAt := time.Now().Add(s.refreshExpiry())
	if err := s.repo.StoreRefreshToken(ctx, user.ID, refreshToken, expiresAt); err != nil {
		l.ErrorContext(ctx, "Failed to store refresh token", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Refresh token storage failed")
		return "", "", err
	}

	l.InfoContext(ctx, "Login successful", slog.String("userID", user.ID.String()))
	span.SetStatus(codes.Ok, "Login successful")
	return accessToken, refreshToken, nil
}

func (s *AuthServiceImpl) RefreshSession(ctx context.Context, refreshToken string) (string, string, error) {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "RefreshSession")
	defer span.End()

	l := s.logger.With(slog.String("method", "RefreshSession"))

	userID, err := s.repo.LookupRefreshToken(ctx, refreshToken)
	if err != nil {
		l.WarnContext(ctx, "Refresh token rejected", slog.Any("error", err))
		span.SetStatus(codes.Error, "Refresh token rejected")
		return "", "", err
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		l.ErrorContext(ctx, "Failed to load user for refresh", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "User load failed")
		return "", "", err
	}

	// Rotate: invalidate old token before issuing the new pair
	if err := s.repo.InvalidateRefreshToken(ctx, refreshToken); err != nil {
		l.ErrorContext(ctx, "Failed to invalidate old refresh token", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Token rotation failed")
		return "", "", err
	}

	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Token generation failed")
		return "", "", fmt.Errorf("failed to generate access token: %w", err)
	}

	newRefreshToken := uuid.NewString()
	expiresAt := time.Now().Add(s.refreshExpiry())
	if err := s.repo.StoreRefreshToken(ctx, user.ID, newRefreshToken, expiresAt); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Refresh token storage failed")
		return "", "", err
	}

	span.SetStatus(codes.Ok, "Session refreshed")
	return accessToken, newRefreshToken, nil
}

func (s *AuthServiceImpl) Logout(ctx context.Context, refreshToken string) error {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "Logout")
	defer span.End()

	if err := s.repo.InvalidateRefreshToken(ctx, refreshToken); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Logout failed")
		return err
	}
	span.SetStatus(codes.Ok, "Logged out")
	return nil
}

func (s *AuthServiceImpl) refreshExpiry() time.Duration {
	if s.cfg.JWT.RefreshExpiry > 0 {
		return s.cfg.JWT.RefreshExpiry
	}
	return 7 * 24 * time.Hour
}

func (s *AuthServiceImpl) generateAccessToken(user *types.User) (string, error) {
	accessExpiry := s.cfg.JWT.AccessExpiry
	if accessExpiry <= 0 {
		accessExpiry = 30 * time.Minute
	}

	now := time.Now()
	claims := types.Claims{
		UserID: user.ID.String(),
		Name:   user.Name,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			Issuer:    s.cfg.JWT.Issuer,
			Audience:  jwt.ClaimStrings{s.cfg.JWT.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(accessExpiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWT.SecretKey))
}
