package dashboard

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/roamly/roamly-api/internal/api"
	"github.com/roamly/roamly-api/internal/api/auth"
)

type DashboardHandler struct {
	dashboardService DashboardService
	logger           *slog.Logger
}

func NewDashboardHandler(dashboardService DashboardService, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		logger:           logger,
	}
}

// GetDashboard godoc
// @Summary      Get the dashboard overview
// @Description  Returns aggregate trip statistics and the next upcoming bookings
// @Tags         dashboard
// @Produce      json
// @Success      200 {object} Overview "Dashboard overview"
// @Failure      401 {object} types.Response "Unauthorized"
// @Failure      500 {object} types.Response "Internal server error"
// @Security     BearerAuth
// @Router       /dashboard [get]
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "GetDashboard"))

	idStr, ok := auth.GetUserIDFromContext(ctx)
	if !ok {
		l.ErrorContext(ctx, "User ID not found in context")
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}
	userID, err := uuid.Parse(idStr)
	if err != nil {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Invalid authentication token")
		return
	}

	overview, err := h.dashboardService.GetOverview(ctx, userID)
	if err != nil {
		l.ErrorContext(ctx, "Failed to assemble dashboard", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to load dashboard")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, overview)
}
