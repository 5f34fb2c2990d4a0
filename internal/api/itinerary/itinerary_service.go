package itinerary

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/roamly/roamly-api/app/observability/metrics"
	"github.com/roamly/roamly-api/internal/types"
)

var _ ItineraryService = (*ItineraryServiceImpl)(nil)

type ItineraryService interface {
	// BuildTimeline fetches one trip snapshot and runs the builder over it.
	BuildTimeline(ctx context.Context, userID, tripID uuid.UUID) (*Timeline, error)
	// Generate calls the external generation service, persists the payload
	// verbatim plus the derived flat activities, and moves the trip to
	// planning. Only one generation per trip runs at a time; a concurrent
	// request is rejected with ErrConflict.
	Generate(ctx context.Context, userID, tripID uuid.UUID) (*GenerateResult, error)
	// Export renders the current timeline as a plain-text report.
	Export(ctx context.Context, userID, tripID uuid.UUID) (filename string, content []byte, err error)
}

// GenerateResult is what a successful generation returns to the caller.
type GenerateResult struct {
	Success    bool                       `json:"success"`
	Itinerary  *types.RawItineraryPayload `json:"itinerary"`
	Activities []types.TripActivity       `json:"activities"`
	Trip       *types.Trip                `json:"trip"`
}

type ItineraryServiceImpl struct {
	logger *slog.Logger
	repo   ItineraryRepo
	client GenerationClient

	// inFlight tracks trips with a generation currently running. The guard is
	// process-local; it protects against double-submission from the UI, not
	// against a multi-instance deployment.
	mu       sync.Mutex
	inFlight map[uuid.UUID]struct{}
}

func NewItineraryService(repo ItineraryRepo, client GenerationClient, logger *slog.Logger) *ItineraryServiceImpl {
	return &ItineraryServiceImpl{
		logger:   logger,
		repo:     repo,
		client:   client,
		inFlight: make(map[uuid.UUID]struct{}),
	}
}

func (s *ItineraryServiceImpl) acquireGeneration(tripID uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, running := s.inFlight[tripID]; running {
		return false
	}
	s.inFlight[tripID] = struct{}{}
	return true
}

func (s *ItineraryServiceImpl) releaseGeneration(tripID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, tripID)
}

func (s *ItineraryServiceImpl) BuildTimeline(ctx context.Context, userID, tripID uuid.UUID) (*Timeline, error) {
	ctx, span := otel.Tracer("ItineraryService").Start(ctx, "BuildTimeline", trace.WithAttributes(
		attribute.String("trip.id", tripID.String()),
	))
	defer span.End()

	trip, err := s.repo.GetTripSnapshot(ctx, userID, tripID)
	if err != nil {
		span.SetStatus(codes.Error, "Snapshot fetch failed")
		return nil, err
	}

	start := time.Now()
	timeline := Build(trip)

	m := metrics.Get()
	sourceAttr := metric.WithAttributes(attribute.String("source", string(timeline.Source)))
	m.ItineraryBuildsTotal.Add(ctx, 1, sourceAttr)
	m.ItineraryBuildSeconds.Record(ctx, time.Since(start).Seconds(), sourceAttr)

	span.SetAttributes(
		attribute.String("itinerary.source", string(timeline.Source)),
		attribute.Int("itinerary.days", len(timeline.Days)),
	)
	span.SetStatus(codes.Ok, "Timeline built")
	return timeline, nil
}

func (s *ItineraryServiceImpl) Generate(ctx context.Context, userID, tripID uuid.UUID) (*GenerateResult, error) {
	ctx, span := otel.Tracer("ItineraryService").Start(ctx, "Generate", trace.WithAttributes(
		attribute.String("trip.id", tripID.String()),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "Generate"), slog.String("tripID", tripID.String()))
	m := metrics.Get()

	if !s.acquireGeneration(tripID) {
		l.WarnContext(ctx, "Rejected concurrent generation request")
		m.GenerationInFlightRejected.Add(ctx, 1)
		span.SetStatus(codes.Error, "Generation already running")
		return nil, fmt.Errorf("itinerary generation already in progress for this trip: %w", types.ErrConflict)
	}
	defer s.releaseGeneration(tripID)

	trip, err := s.repo.GetTripSnapshot(ctx, userID, tripID)
	if err != nil {
		span.SetStatus(codes.Error, "Snapshot fetch failed")
		return nil, err
	}

	start := time.Now()
	payload, err := s.client.Generate(ctx, trip)
	m.GenerationDurationSeconds.Record(ctx, time.Since(start).Seconds())
	m.GenerationRequestsTotal.Add(ctx, 1, metric.WithAttributes(attribute.Bool("success", err == nil)))
	if err != nil {
		l.ErrorContext(ctx, "Generation call failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Generation failed")
		return nil, err
	}

	activities := deriveActivities(payload, trip)

	if err := s.repo.SaveGeneration(ctx, userID, tripID, payload, activities, types.TripStatusPlanning); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Persist failed")
		return nil, err
	}

	trip.Itinerary = payload
	trip.Activities = activities
	trip.Status = types.TripStatusPlanning

	l.InfoContext(ctx, "Itinerary generated",
		slog.Int("days", len(payload.Itinerary)),
		slog.Int("activities", len(activities)))
	span.SetStatus(codes.Ok, "Generation complete")
	return &GenerateResult{
		Success:    true,
		Itinerary:  payload,
		Activities: activities,
		Trip:       trip,
	}, nil
}

func (s *ItineraryServiceImpl) Export(ctx context.Context, userID, tripID uuid.UUID) (string, []byte, error) {
	ctx, span := otel.Tracer("ItineraryService").Start(ctx, "Export", trace.WithAttributes(
		attribute.String("trip.id", tripID.String()),
	))
	defer span.End()

	trip, err := s.repo.GetTripSnapshot(ctx, userID, tripID)
	if err != nil {
		span.SetStatus(codes.Error, "Snapshot fetch failed")
		return "", nil, err
	}

	timeline := Build(trip)
	report := Export(trip, timeline, time.Now())

	span.SetStatus(codes.Ok, "Export rendered")
	return ExportFilename(trip.Destination), []byte(report), nil
}

// deriveActivities flattens a structured payload into the trip's flat
// activities list, mirroring what is stored alongside the payload: transport
// legs are skipped, the date comes from the day record or the start offset,
// and the description folds in the time prefix and cost suffix.
func deriveActivities(payload *types.RawItineraryPayload, trip *types.Trip) []types.TripActivity {
	activities := make([]types.TripActivity, 0)

	for i, day := range payload.Itinerary {
		dayNumber := day.Day
		if dayNumber < 1 {
			dayNumber = i + 1
		}

		var activityDate time.Time
		if parsed, ok := parseRecordDate(day.Date); day.Date != "" && ok {
			activityDate = parsed
		} else {
			activityDate = DateFromDayOffset(dayNumber, trip.StartDate)
		}

		for _, act := range day.Activities {
			if isTransportCategory(normalizeCategory(act.Type)) {
				continue
			}

			title := act.Title
			if title == "" {
				title = "Activity"
			}
			location := act.Location
			if location == "" {
				location = trip.Destination
			}

			description := act.Description
			if act.Time != "" {
				base := description
				if base == "" {
					base = title
				}
				description = fmt.Sprintf("%s - %s", act.Time, base)
			}
			if act.EstimatedCost != "" {
				description = fmt.Sprintf("%s (%s)", description, act.EstimatedCost)
			}
			if description == "" {
				description = fmt.Sprintf("%s at %s", title, location)
			}

			activities = append(activities, types.TripActivity{
				Name:        title,
				Date:        activityDate,
				Location:    location,
				Description: description,
			})
		}
	}

	return activities
}
