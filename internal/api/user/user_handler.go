package user

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/roamly/roamly-api/internal/api"
	"github.com/roamly/roamly-api/internal/api/auth"
	"github.com/roamly/roamly-api/internal/types"
)

type UserHandler struct {
	userService UserService
	logger      *slog.Logger
}

func NewUserHandler(userService UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		logger:      logger,
	}
}

func (h *UserHandler) identity(w http.ResponseWriter, r *http.Request, l *slog.Logger) (uuid.UUID, bool) {
	idStr, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		l.ErrorContext(r.Context(), "User ID not found in context")
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return uuid.Nil, false
	}
	userID, err := uuid.Parse(idStr)
	if err != nil {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Invalid authentication token")
		return uuid.Nil, false
	}
	return userID, true
}

// GetProfile godoc
// @Summary      Get the user profile
// @Description  Returns the user record plus trip-derived travel statistics and achievements
// @Tags         profile
// @Produce      json
// @Success      200 {object} types.ProfileResponse "Profile"
// @Failure      401 {object} types.Response "Unauthorized"
// @Failure      404 {object} types.Response "User not found"
// @Failure      500 {object} types.Response "Internal server error"
// @Security     BearerAuth
// @Router       /profile [get]
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "GetProfile"))

	userID, ok := h.identity(w, r, l)
	if !ok {
		return
	}

	profile, err := h.userService.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "User not found")
			return
		}
		l.ErrorContext(ctx, "Failed to assemble profile", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to fetch profile")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, profile)
}

// UpdateProfile godoc
// @Summary      Update the user profile
// @Description  Partially updates bio, location, phone and interests
// @Tags         profile
// @Accept       json
// @Produce      json
// @Param        request body types.UpdateProfileParams true "Fields to update"
// @Success      200 {object} types.UserProfile "Updated profile"
// @Failure      400 {object} types.Response "Invalid request body"
// @Failure      401 {object} types.Response "Unauthorized"
// @Failure      404 {object} types.Response "User not found"
// @Failure      500 {object} types.Response "Internal server error"
// @Security     BearerAuth
// @Router       /profile [put]
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "UpdateProfile"))

	userID, ok := h.identity(w, r, l)
	if !ok {
		return
	}

	var params types.UpdateProfileParams
	if err := api.DecodeJSONBody(w, r, &params); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	profile, err := h.userService.UpdateProfile(ctx, userID, params)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "User not found")
			return
		}
		l.ErrorContext(ctx, "Failed to update profile", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to update profile")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, profile)
}

// DeleteAccount godoc
// @Summary      Delete the account
// @Description  Permanently removes the user and all trips, bookings and sessions
// @Tags         profile
// @Produce      json
// @Success      204 "Account deleted"
// @Failure      401 {object} types.Response "Unauthorized"
// @Failure      404 {object} types.Response "User not found"
// @Failure      500 {object} types.Response "Internal server error"
// @Security     BearerAuth
// @Router       /profile [delete]
func (h *UserHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "DeleteAccount"))

	userID, ok := h.identity(w, r, l)
	if !ok {
		return
	}

	if err := h.userService.DeleteAccount(ctx, userID); err != nil {
		if errors.Is(err, types.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "User not found")
			return
		}
		l.ErrorContext(ctx, "Failed to delete account", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to delete account")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusNoContent, nil)
}
