package assistant

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/roamly/roamly-api/internal/api"
	"github.com/roamly/roamly-api/internal/api/auth"
)

type AssistantHandler struct {
	assistantService AssistantService
	logger           *slog.Logger
}

func NewAssistantHandler(assistantService AssistantService, logger *slog.Logger) *AssistantHandler {
	return &AssistantHandler{
		assistantService: assistantService,
		logger:           logger,
	}
}

// Chat godoc
// @Summary      Ask the travel assistant
// @Description  Answers a travel question grounded in the user's trip and planned activities
// @Tags         assistant
// @Accept       json
// @Produce      json
// @Param        request body ChatRequest true "Chat message, optional trip ID and prior messages"
// @Success      200 {object} ChatResponse "Assistant reply"
// @Failure      400 {object} types.Response "Invalid request body"
// @Failure      401 {object} types.Response "Unauthorized"
// @Failure      502 {object} types.Response "Assistant unavailable"
// @Security     BearerAuth
// @Router       /assistant/chat [post]
func (h *AssistantHandler) Chat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "Chat"))

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

	var req ChatRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Please send a valid message.")
		return
	}

	resp, err := h.assistantService.Chat(ctx, userID, req)
	if err != nil {
		l.ErrorContext(ctx, "Assistant chat failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadGateway, "The assistant is currently unavailable")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, resp)
}
