package booking

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

type BookingHandler struct {
	bookingService BookingService
	logger         *slog.Logger
}

func NewBookingHandler(bookingService BookingService, logger *slog.Logger) *BookingHandler {
	return &BookingHandler{
		bookingService: bookingService,
		logger:         logger,
	}
}

func (h *BookingHandler) identity(w http.ResponseWriter, r *http.Request, l *slog.Logger) (uuid.UUID, bool) {
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

// CreateBooking godoc
// @Summary      Create a booking
// @Description  Attaches a booking to one of the user's trips
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Param        request body types.CreateBookingRequest true "Booking details"
// @Success      201 {object} types.Booking "Created booking"
// @Failure      400 {object} types.Response "Validation error"
// @Failure      401 {object} types.Response "Unauthorized"
// @Failure      404 {object} types.Response "Trip not found"
// @Failure      500 {object} types.Response "Internal server error"
// @Security     BearerAuth
// @Router       /bookings [post]
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "CreateBooking"))

	userID, ok := h.identity(w, r, l)
	if !ok {
		return
	}

	var req types.CreateBookingRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	booking, err := h.bookingService.CreateBooking(ctx, userID, req)
	if err != nil {
		switch {
		case errors.Is(err, types.ErrValidation):
			api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		case errors.Is(err, types.ErrNotFound):
			api.ErrorResponse(w, r, http.StatusNotFound, "Trip not found")
		default:
			l.ErrorContext(ctx, "Failed to create booking", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to create booking")
		}
		return
	}

	api.WriteJSONResponse(w, r, http.StatusCreated, booking)
}

// ListBookings godoc
// @Summary      List bookings
// @Description  Returns the user's bookings ordered by date with trip context joined
// @Tags         bookings
// @Produce      json
// @Success      200 {array} types.Booking "Bookings"
// @Failure      401 {object} types.Response "Unauthorized"
// @Failure      500 {object} types.Response "Internal server error"
// @Security     BearerAuth
// @Router       /bookings [get]
func (h *BookingHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "ListBookings"))

	userID, ok := h.identity(w, r, l)
	if !ok {
		return
	}

	bookings, err := h.bookingService.ListBookings(ctx, userID)
	if err != nil {
		l.ErrorContext(ctx, "Failed to list bookings", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to list bookings")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, bookings)
}

// GetBooking godoc
// @Summary      Get a booking
// @Tags         bookings
// @Produce      json
// @Param        bookingID path string true "Booking ID" Format(uuid)
// @Success      200 {object} types.Booking "Booking"
// @Failure      400 {object} types.Response "Invalid booking ID"
// @Failure      401 {object} types.Response "Unauthorized"
// @Failure      404 {object} types.Response "Booking not found"
// @Failure      500 {object} types.Response "Internal server error"
// @Security     BearerAuth
// @Router       /bookings/{bookingID} [get]
func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "GetBooking"))

	userID, ok := h.identity(w, r, l)
	if !ok {
		return
	}
	bookingID, err := uuid.Parse(chi.URLParam(r, "bookingID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid booking ID format")
		return
	}

	booking, err := h.bookingService.GetBooking(ctx, userID, bookingID)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "Booking not found")
			return
		}
		l.ErrorContext(ctx, "Failed to fetch booking", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to fetch booking")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, booking)
}

// UpdateBooking godoc
// @Summary      Update a booking
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Param        bookingID path string true "Booking ID" Format(uuid)
// @Param        request body types.UpdateBookingParams true "Fields to update"
// @Success      200 {object} types.Booking "Updated booking"
// @Failure      400 {object} types.Response "Validation error"
// @Failure      401 {object} types.Response "Unauthorized"
// @Failure      404 {object} types.Response "Booking not found"
// @Failure      500 {object} types.Response "Internal server error"
// @Security     BearerAuth
// @Router       /bookings/{bookingID} [put]
func (h *BookingHandler) UpdateBooking(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "UpdateBooking"))

	userID, ok := h.identity(w, r, l)
	if !ok {
		return
	}
	bookingID, err := uuid.Parse(chi.URLParam(r, "bookingID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid booking ID format")
		return
	}

	var params types.UpdateBookingParams
	if err := api.DecodeJSONBody(w, r, &params); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	booking, err := h.bookingService.UpdateBooking(ctx, userID, bookingID, params)
	if err != nil {
		switch {
		case errors.Is(err, types.ErrNotFound):
			api.ErrorResponse(w, r, http.StatusNotFound, "Booking not found")
		case errors.Is(err, types.ErrValidation):
			api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		default:
			l.ErrorContext(ctx, "Failed to update booking", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to update booking")
		}
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, booking)
}

// DeleteBooking godoc
// @Summary      Delete a booking
// @Tags         bookings
// @Produce      json
// @Param        bookingID path string true "Booking ID" Format(uuid)
// @Success      204 "Booking deleted"
// @Failure      400 {object} types.Response "Invalid booking ID"
// @Failure      401 {object} types.Response "Unauthorized"
// @Failure      404 {object} types.Response "Booking not found"
// @Failure      500 {object} types.Response "Internal server error"
// @Security     BearerAuth
// @Router       /bookings/{bookingID} [delete]
func (h *BookingHandler) DeleteBooking(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "DeleteBooking"))

	userID, ok := h.identity(w, r, l)
	if !ok {
		return
	}
	bookingID, err := uuid.Parse(chi.URLParam(r, "bookingID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid booking ID format")
		return
	}

	if err := h.bookingService.DeleteBooking(ctx, userID, bookingID); err != nil {
		if errors.Is(err, types.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "Booking not found")
			return
		}
		l.ErrorContext(ctx, "Failed to delete booking", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to delete booking")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusNoContent, nil)
}
