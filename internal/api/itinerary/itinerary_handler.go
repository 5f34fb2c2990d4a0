package itinerary

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/roamly/roamly-api/internal/api"
	"github.com/roamly/roamly-api/internal/api/auth"
	"github.com/roamly/roamly-api/internal/types"
)

type ItineraryHandler struct {
	itineraryService ItineraryService
	logger           *slog.Logger
}

func NewItineraryHandler(itineraryService ItineraryService, logger *slog.Logger) *ItineraryHandler {
	return &ItineraryHandler{
		itineraryService: itineraryService,
		logger:           logger,
	}
}

func (h *ItineraryHandler) requestParams(w http.ResponseWriter, r *http.Request, l *slog.Logger) (userID, tripID uuid.UUID, ok bool) {
	idStr, found := auth.GetUserIDFromContext(r.Context())
	if !found {
		l.ErrorContext(r.Context(), "User ID not found in context")
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return uuid.Nil, uuid.Nil, false
	}
	userID, err := uuid.Parse(idStr)
	if err != nil {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Invalid authentication token")
		return uuid.Nil, uuid.Nil, false
	}
	tripID, err = uuid.Parse(chi.URLParam(r, "tripID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid trip ID format")
		return uuid.Nil, uuid.Nil, false
	}
	return userID, tripID, true
}

// GetItinerary godoc
// @Summary      Get the built itinerary timeline
// @Description  Rebuilds the per-day activity timeline from the trip's stored state
// @Tags         itinerary
// @Produce      json
// @Param        tripID path string true "Trip ID" Format(uuid)
// @Success      200 {object} Timeline "Built timeline"
// @Failure      400 {object} types.Response "Invalid trip ID"
// @Failure      401 {object} types.Response "Unauthorized"
// @Failure      404 {object} types.Response "Trip not found"
// @Failure      500 {object} types.Response "Internal server error"
// @Security     BearerAuth
// @Router       /trips/{tripID}/itinerary [get]
func (h *ItineraryHandler) GetItinerary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "GetItinerary"))

	userID, tripID, ok := h.requestParams(w, r, l)
	if !ok {
		return
	}

	timeline, err := h.itineraryService.BuildTimeline(ctx, userID, tripID)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "Trip not found")
			return
		}
		l.ErrorContext(ctx, "Failed to build timeline", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to build itinerary")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, timeline)
}

// GenerateItinerary godoc
// @Summary      Generate an itinerary
// @Description  Calls the external generation service, stores the result and moves the trip to planning
// @Tags         itinerary
// @Produce      json
// @Param        tripID path string true "Trip ID" Format(uuid)
// @Success      200 {object} GenerateResult "Generation result"
// @Failure      400 {object} types.Response "Invalid trip ID"
// @Failure      401 {object} types.Response "Unauthorized"
// @Failure      404 {object} types.Response "Trip not found"
// @Failure      409 {object} types.Response "Generation already in progress"
// @Failure      502 {object} types.Response "Generation service failure"
// @Security     BearerAuth
// @Router       /trips/{tripID}/generate [post]
func (h *ItineraryHandler) GenerateItinerary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "GenerateItinerary"))

	userID, tripID, ok := h.requestParams(w, r, l)
	if !ok {
		return
	}

	result, err := h.itineraryService.Generate(ctx, userID, tripID)
	if err != nil {
		switch {
		case errors.Is(err, types.ErrNotFound):
			api.ErrorResponse(w, r, http.StatusNotFound, "Trip not found")
		case errors.Is(err, types.ErrConflict):
			api.ErrorResponse(w, r, http.StatusConflict, "Itinerary generation already in progress for this trip")
		default:
			l.ErrorContext(ctx, "Generation failed", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusBadGateway, "Failed to generate itinerary")
		}
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, result)
}

// ExportItinerary godoc
// @Summary      Export the itinerary as text
// @Description  Renders the built timeline plus trip metadata as a downloadable plain-text report
// @Tags         itinerary
// @Produce      plain
// @Param        tripID path string true "Trip ID" Format(uuid)
// @Success      200 {string} string "Plain-text itinerary report"
// @Failure      400 {object} types.Response "Invalid trip ID"
// @Failure      401 {object} types.Response "Unauthorized"
// @Failure      404 {object} types.Response "Trip not found"
// @Failure      500 {object} types.Response "Internal server error"
// @Security     BearerAuth
// @Router       /trips/{tripID}/itinerary/export [get]
func (h *ItineraryHandler) ExportItinerary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "ExportItinerary"))

	userID, tripID, ok := h.requestParams(w, r, l)
	if !ok {
		return
	}

	filename, content, err := h.itineraryService.Export(ctx, userID, tripID)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "Trip not found")
			return
		}
		l.ErrorContext(ctx, "Export failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to export itinerary")
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(content); err != nil {
		l.ErrorContext(ctx, "Failed to write export body", slog.Any("error", err))
	}
}
