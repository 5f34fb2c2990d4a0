package trip

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/roamly/roamly-api/internal/api"
	"github.com/roamly/roamly-api/internal/api/auth"
	"github.com/roamly/roamly-api/internal/types"
)

type TripHandler struct {
	tripService TripService
	logger      *slog.Logger
}

func NewTripHandler(tripService TripService, logger *slog.Logger) *TripHandler {
	return &TripHandler{
		tripService: tripService,
		logger:      logger,
	}
}

// requestIdentity pulls the authenticated user ID out of the context, writing
// a 401 and returning false when it is missing or malformed.
func requestIdentity(w http.ResponseWriter, r *http.Request, l *slog.Logger) (uuid.UUID, bool) {
	idStr, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		l.ErrorContext(r.Context(), "User ID not found in context")
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return uuid.Nil, false
	}
	userID, err := uuid.Parse(idStr)
	if err != nil {
		l.ErrorContext(r.Context(), "Invalid user ID format in context", slog.String("userID", idStr))
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Invalid authentication token")
		return uuid.Nil, false
	}
	return userID, true
}

// tripIDParam parses the {tripID} URL parameter.
func tripIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	tripID, err := uuid.Parse(chi.URLParam(r, "tripID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid trip ID format")
		return uuid.Nil, false
	}
	return tripID, true
}

// CreateTrip godoc
// @Summary      Create a trip
// @Description  Creates a draft trip; the total budget is derived from the budget range and trip length
// @Tags         trips
// @Accept       json
// @Produce      json
// @Param        request body types.CreateTripRequest true "Trip details"
// @Success      201 {object} types.Trip "Created trip"
// @Failure      400 {object} types.Response "Validation error"
// @Failure      401 {object} types.Response "Unauthorized"
// @Failure      500 {object} types.Response "Internal server error"
// @Security     BearerAuth
// @Router       /trips [post]
func (h *TripHandler) CreateTrip(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "CreateTrip"))

	userID, ok := requestIdentity(w, r, l)
	if !ok {
		return
	}

	var req types.CreateTripRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	trip, err := h.tripService.CreateTrip(ctx, userID, req)
	if err != nil {
		if errors.Is(err, types.ErrValidation) {
			api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
			return
		}
		l.ErrorContext(ctx, "Failed to create trip", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to create trip")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusCreated, trip)
}

// ListTrips godoc
// @Summary      List trips
// @Description  Returns the authenticated user's trips, newest first
// @Tags         trips
// @Produce      json
// @Success      200 {array} types.Trip "Trips"
// @Failure      401 {object} types.Response "Unauthorized"
// @Failure      500 {object} types.Response "Internal server error"
// @Security     BearerAuth
// @Router       /trips [get]
func (h *TripHandler) ListTrips(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "ListTrips"))

	userID, ok := requestIdentity(w, r, l)
	if !ok {
		return
	}

	trips, err := h.tripService.ListTrips(ctx, userID)
	if err != nil {
		l.ErrorContext(ctx, "Failed to list trips", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to list trips")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, trips)
}

// GetTrip godoc
// @Summary      Get a trip
// @Description  Returns a single trip owned by the authenticated user
// @Tags         trips
// @Produce      json
// @Param        tripID path string true "Trip ID" Format(uuid)
// @Success      200 {object} types.Trip "Trip"
// @Failure      400 {object} types.Response "Invalid trip ID"
// @Failure      401 {object} types.Response "Unauthorized"
// @Failure      404 {object} types.Response "Trip not found"
// @Failure      500 {object} types.Response "Internal server error"
// @Security     BearerAuth
// @Router       /trips/{tripID} [get]
func (h *TripHandler) GetTrip(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "GetTrip"))

	userID, ok := requestIdentity(w, r, l)
	if !ok {
		return
	}
	tripID, ok := tripIDParam(w, r)
	if !ok {
		return
	}

	trip, err := h.tripService.GetTrip(ctx, userID, tripID)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "Trip not found")
			return
		}
		l.ErrorContext(ctx, "Failed to fetch trip", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to fetch trip")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, trip)
}

// UpdateTrip godoc
// @Summary      Update a trip
// @Description  Partially updates a draft trip; changing dates recomputes the total budget
// @Tags         trips
// @Accept       json
// @Produce      json
// @Param        tripID path string true "Trip ID" Format(uuid)
// @Param        request body types.UpdateTripParams true "Fields to update"
// @Success      200 {object} types.Trip "Updated trip"
// @Failure      400 {object} types.Response "Validation error"
// @Failure      401 {object} types.Response "Unauthorized"
// @Failure      404 {object} types.Response "Trip not found"
// @Failure      409 {object} types.Response "Trip is not editable"
// @Failure      500 {object} types.Response "Internal server error"
// @Security     BearerAuth
// @Router       /trips/{tripID} [put]
func (h *TripHandler) UpdateTrip(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "UpdateTrip"))

	userID, ok := requestIdentity(w, r, l)
	if !ok {
		return
	}
	tripID, ok := tripIDParam(w, r)
	if !ok {
		return
	}

	var params types.UpdateTripParams
	if err := api.DecodeJSONBody(w, r, &params); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	trip, err := h.tripService.UpdateTrip(ctx, userID, tripID, params)
	if err != nil {
		switch {
		case errors.Is(err, types.ErrNotFound):
			api.ErrorResponse(w, r, http.StatusNotFound, "Trip not found")
		case errors.Is(err, types.ErrConflict):
			api.ErrorResponse(w, r, http.StatusConflict, "Only draft trips can be edited")
		case errors.Is(err, types.ErrValidation):
			api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		default:
			l.ErrorContext(ctx, "Failed to update trip", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to update trip")
		}
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, trip)
}

// DeleteTrip godoc
// @Summary      Delete a trip
// @Description  Deletes a trip owned by the authenticated user
// @Tags         trips
// @Produce      json
// @Param        tripID path string true "Trip ID" Format(uuid)
// @Success      204 "Trip deleted"
// @Failure      400 {object} types.Response "Invalid trip ID"
// @Failure      401 {object} types.Response "Unauthorized"
// @Failure      404 {object} types.Response "Trip not found"
// @Failure      500 {object} types.Response "Internal server error"
// @Security     BearerAuth
// @Router       /trips/{tripID} [delete]
func (h *TripHandler) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "DeleteTrip"))

	userID, ok := requestIdentity(w, r, l)
	if !ok {
		return
	}
	tripID, ok := tripIDParam(w, r)
	if !ok {
		return
	}

	if err := h.tripService.DeleteTrip(ctx, userID, tripID); err != nil {
		if errors.Is(err, types.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "Trip not found")
			return
		}
		l.ErrorContext(ctx, "Failed to delete trip", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to delete trip")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusNoContent, nil)
}
