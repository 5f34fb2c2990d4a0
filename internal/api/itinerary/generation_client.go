package itinerary

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/roamly/roamly-api/internal/types"
)

var _ GenerationClient = (*HTTPGenerationClient)(nil)

// GenerationClient calls the external itinerary generation service. The
// service is an opaque collaborator; a success:false envelope or a missing
// itinerary is a hard failure and is never fed to the builder.
type GenerationClient interface {
	Generate(ctx context.Context, trip *types.Trip) (*types.RawItineraryPayload, error)
}

// generationRequest is the contract the generation service expects.
type generationRequest struct {
	Destination     string   `json:"destination"`
	CurrentLocation string   `json:"currentLocation"`
	StartDate       string   `json:"startDate"`
	EndDate         string   `json:"endDate"`
	Travelers       int      `json:"travelers"`
	DailyBudget     float64  `json:"dailyBudget"`
	BudgetRange     string   `json:"budgetRange"`
	Interests       []string `json:"interests"`
	AdditionalNotes string   `json:"additionalNotes"`
}

type HTTPGenerationClient struct {
	logger     *slog.Logger
	httpClient *http.Client
	url        string
}

func NewHTTPGenerationClient(url string, timeout time.Duration, logger *slog.Logger) *HTTPGenerationClient {
	if timeout <= 0 {
		timeout = 90 * time.Second
	}
	return &HTTPGenerationClient{
		logger:     logger,
		httpClient: &http.Client{Timeout: timeout},
		url:        url,
	}
}

func (c *HTTPGenerationClient) Generate(ctx context.Context, trip *types.Trip) (*types.RawItineraryPayload, error) {
	ctx, span := otel.Tracer("GenerationClient").Start(ctx, "Generate", trace.WithAttributes(
		attribute.String("trip.id", trip.ID.String()),
		attribute.String("trip.destination", trip.Destination),
	))
	defer span.End()

	l := c.logger.With(slog.String("method", "Generate"), slog.String("tripID", trip.ID.String()))

	interests := trip.Interests
	if interests == nil {
		interests = []string{}
	}
	body, err := json.Marshal(generationRequest{
		Destination:     trip.Destination,
		CurrentLocation: trip.CurrentLocation,
		StartDate:       trip.StartDate.Format(time.RFC3339),
		EndDate:         trip.EndDate.Format(time.RFC3339),
		Travelers:       trip.Travelers,
		DailyBudget:     trip.DailyBudget,
		BudgetRange:     string(trip.BudgetRange),
		Interests:       interests,
		AdditionalNotes: trip.AdditionalNotes,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Request marshal failed")
		return nil, fmt.Errorf("failed to marshal generation request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Request build failed")
		return nil, fmt.Errorf("failed to build generation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		l.ErrorContext(ctx, "Generation service unreachable", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Generation call failed")
		return nil, fmt.Errorf("generation service call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		l.ErrorContext(ctx, "Generation service returned error",
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(raw)))
		span.SetStatus(codes.Error, "Generation service error status")
		return nil, fmt.Errorf("generation service returned status %d", resp.StatusCode)
	}

	var envelope types.GenerationResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Response decode failed")
		return nil, fmt.Errorf("failed to decode generation response: %w", err)
	}

	if !envelope.Success || envelope.Itinerary == nil {
		l.ErrorContext(ctx, "Generation service returned unusable envelope",
			slog.Bool("success", envelope.Success),
			slog.String("serviceError", envelope.Error))
		span.SetStatus(codes.Error, "Unusable generation envelope")
		return nil, fmt.Errorf("invalid itinerary response from generation service")
	}

	l.InfoContext(ctx, "Generation succeeded", slog.Int("days", len(envelope.Itinerary.Itinerary)))
	span.SetStatus(codes.Ok, "Generation succeeded")
	return envelope.Itinerary, nil
}
