package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/roamly/roamly-api/internal/types"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"

	// Older clients replay only the tail of the conversation anyway; anything
	// beyond this is dropped before prompting.
	maxHistoryMessages = 20
)

const systemPromptBase = `You are a helpful assistant specialized in trip planning.
Your job is to answer travel-related questions only and do not answer any other questions.
Use the user's trip details and planned activities to give personalized answers.

Guidelines:
- If you are unsure, say: "I'm not sure about that. Please try again."
- Keep responses short, simple, and clear.
- Avoid long paragraphs or unnecessary details.
- Prefer concise bullet-point or one-line answers when suggesting itineraries.
- Respond in a single, straightforward sentence when possible.`

var _ AssistantService = (*AssistantServiceImpl)(nil)

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatRequest struct {
	Message string        `json:"message"`
	TripID  *uuid.UUID    `json:"trip_id,omitempty"`
	History []ChatMessage `json:"history,omitempty"`
}

type ChatResponse struct {
	Reply string `json:"reply"`
}

type AssistantService interface {
	// Chat answers a travel question grounded in the user's trip. When the
	// request names a trip it is used; otherwise the most recent trip is.
	Chat(ctx context.Context, userID uuid.UUID, req ChatRequest) (*ChatResponse, error)
}

type AssistantServiceImpl struct {
	logger *slog.Logger
	repo   AssistantRepo
	model  ModelClient
}

func NewAssistantService(repo AssistantRepo, model ModelClient, logger *slog.Logger) *AssistantServiceImpl {
	return &AssistantServiceImpl{
		logger: logger,
		repo:   repo,
		model:  model,
	}
}

// buildTripContext renders the trip and its saved activities into the block of
// text the system prompt grounds answers in. Activities are replayed in date
// order and grouped into days.
func buildTripContext(trip *types.Trip) string {
	var lines []string

	if trip != nil {
		from := trip.CurrentLocation
		if from == "" {
			from = "Unknown"
		}
		to := trip.Destination
		if to == "" {
			to = "Unknown"
		}
		lines = append(lines, "Current trip details:")
		lines = append(lines, "- From: "+from)
		lines = append(lines, "- To: "+to)
		if !trip.StartDate.IsZero() && !trip.EndDate.IsZero() {
			lines = append(lines, fmt.Sprintf("- Dates: %s to %s",
				trip.StartDate.Format("2006-01-02"), trip.EndDate.Format("2006-01-02")))
		}
		if trip.Travelers > 0 {
			lines = append(lines, fmt.Sprintf("- Travelers: %d", trip.Travelers))
		}
		if trip.BudgetRange != "" {
			lines = append(lines, "- Budget range: "+string(trip.BudgetRange))
		}
		if trip.DailyBudget > 0 {
			lines = append(lines, fmt.Sprintf("- Approx daily budget: ₹%.0f", trip.DailyBudget))
		}
		lines = append(lines, "")
	}

	if trip != nil && len(trip.Activities) > 0 {
		acts := make([]types.TripActivity, len(trip.Activities))
		copy(acts, trip.Activities)
		sort.SliceStable(acts, func(i, j int) bool {
			return acts[i].Date.Before(acts[j].Date)
		})

		lines = append(lines, "Planned activities for this trip:")
		currentDate := ""
		dayCounter := 1
		for _, act := range acts {
			dateText := "Unknown date"
			if !act.Date.IsZero() {
				dateText = act.Date.Format("2006-01-02")
			}
			if dateText != currentDate {
				lines = append(lines, fmt.Sprintf("\nDay %d (%s):", dayCounter, dateText))
				currentDate = dateText
				dayCounter++
			}

			name := act.Name
			if name == "" {
				name = "Activity"
			}
			line := "- " + name
			if act.Location != "" {
				line += " at " + act.Location
			}
			if act.Description != "" {
				line += " | " + act.Description
			}
			lines = append(lines, line)
		}
	}

	if len(lines) == 0 {
		return "No saved trip or activities were provided."
	}
	return strings.Join(lines, "\n")
}

// contextTrip resolves which trip grounds the conversation. Lookup failures
// degrade to an ungrounded chat rather than failing the request.
func (s *AssistantServiceImpl) contextTrip(ctx context.Context, userID uuid.UUID, tripID *uuid.UUID) *types.Trip {
	l := s.logger.With(slog.String("method", "contextTrip"), slog.String("userID", userID.String()))

	if tripID != nil {
		trip, err := s.repo.GetTrip(ctx, userID, *tripID)
		if err != nil {
			l.WarnContext(ctx, "Failed to load requested trip for chat context",
				slog.String("tripID", tripID.String()), slog.Any("error", err))
			return nil
		}
		return trip
	}

	trip, err := s.repo.GetLatestTrip(ctx, userID)
	if err != nil {
		l.WarnContext(ctx, "Failed to load latest trip for chat context", slog.Any("error", err))
		return nil
	}
	return trip
}

func (s *AssistantServiceImpl) Chat(ctx context.Context, userID uuid.UUID, req ChatRequest) (*ChatResponse, error) {
	ctx, span := otel.Tracer("AssistantService").Start(ctx, "Chat", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "Chat"), slog.String("userID", userID.String()))

	trip := s.contextTrip(ctx, userID, req.TripID)
	span.SetAttributes(attribute.Bool("chat.trip_context", trip != nil))

	systemPrompt := systemPromptBase +
		"\n\nHere is the user's current trip and activities:\n" +
		buildTripContext(trip)

	history := req.History
	if len(history) > maxHistoryMessages {
		history = history[len(history)-maxHistoryMessages:]
	}

	reply, err := s.model.GenerateReply(ctx, systemPrompt, history, req.Message)
	if err != nil {
		l.ErrorContext(ctx, "Model call failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Model call failed")
		return nil, fmt.Errorf("assistant model error: %w", err)
	}
	if reply == "" {
		reply = "Sorry, no response from the AI service."
	}

	span.SetStatus(codes.Ok, "Chat answered")
	return &ChatResponse{Reply: reply}, nil
}
