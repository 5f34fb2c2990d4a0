package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/roamly/roamly-api/internal/api"
	"github.com/roamly/roamly-api/internal/types"
)

type AuthHandler struct {
	authService AuthService
	logger      *slog.Logger
}

func NewAuthHandler(authService AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// Register godoc
// @Summary      Register a new user
// @Description  Creates a new user account with name, email and password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body types.RegisterRequest true "Registration details"
// @Success      201 {object} types.Response "User registered successfully"
// @Failure      400 {object} types.Response "Invalid request body"
// @Failure      409 {object} types.Response "Email already registered"
// @Failure      500 {object} types.Response "Internal server error"
// @Router       /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "Register"))

	var req types.RegisterRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode register request", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if req.Name == "" || req.Email == "" || len(req.Password) < 8 {
		api.ErrorResponse(w, r, http.StatusBadRequest, "name, email and a password of at least 8 characters are required")
		return
	}

	if _, err := h.authService.Register(ctx, req.Name, req.Email, req.Password); err != nil {
		if errors.Is(err, types.ErrConflict) {
			api.ErrorResponse(w, r, http.StatusConflict, "Email address is already registered")
			return
		}
		l.ErrorContext(ctx, "Registration failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to register user")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusCreated, types.Response{
		Success: true,
		Message: "User registered successfully",
	})
}

// Login godoc
// @Summary      Log in a user
// @Description  Authenticates a user and returns an access token and refresh token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body types.LoginRequest true "Login credentials"
// @Success      200 {object} types.LoginResponse "Login successful"
// @Failure      400 {object} types.Response "Invalid request body"
// @Failure      401 {object} types.Response "Invalid credentials"
// @Failure      500 {object} types.Response "Internal server error"
// @Router       /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "Login"))

	var req types.LoginRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode login request", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	accessToken, refreshToken, err := h.authService.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, types.ErrUnauthenticated) || errors.Is(err, types.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		l.ErrorContext(ctx, "Login failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to log in")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, types.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Message:      "Login successful",
	})
}

// RefreshToken godoc
// @Summary      Refresh tokens
// @Description  Exchanges a valid refresh token for a new access/refresh token pair
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body types.RefreshTokenRequest true "Refresh token"
// @Success      200 {object} types.TokenResponse "Tokens refreshed"
// @Failure      400 {object} types.Response "Invalid request body"
// @Failure      401 {object} types.Response "Invalid or expired refresh token"
// @Failure      500 {object} types.Response "Internal server error"
// @Router       /auth/refresh [post]
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "RefreshToken"))

	var req types.RefreshTokenRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode refresh request", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.RefreshToken == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "refresh_token is required")
		return
	}

	accessToken, refreshToken, err := h.authService.RefreshSession(ctx, req.RefreshToken)
	if err != nil {
		if errors.Is(err, types.ErrUnauthenticated) {
			api.ErrorResponse(w, r, http.StatusUnauthorized, "Invalid or expired refresh token")
			return
		}
		l.ErrorContext(ctx, "Token refresh failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to refresh session")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, types.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	})
}

// Logout godoc
// @Summary      Log out
// @Description  Invalidates the presented refresh token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body types.LogoutRequest true "Refresh token to invalidate"
// @Success      200 {object} types.Response "Logged out"
// @Failure      400 {object} types.Response "Invalid request body"
// @Failure      500 {object} types.Response "Internal server error"
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "Logout"))

	var req types.LogoutRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode logout request", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.authService.Logout(ctx, req.RefreshToken); err != nil {
		l.ErrorContext(ctx, "Logout failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to log out")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, types.Response{
		Success: true,
		Message: "Logged out successfully",
	})
}
