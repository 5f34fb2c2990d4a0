package dashboard

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/roamly/roamly-api/internal/api/user"
	"github.com/roamly/roamly-api/internal/types"
)

const (
	cacheTTL             = 30 * time.Second
	upcomingBookingLimit = 5
)

var _ DashboardService = (*DashboardServiceImpl)(nil)

// Overview is the aggregate behind GET /dashboard.
type Overview struct {
	Stats            types.DashboardStats `json:"stats"`
	UpcomingBookings []types.Booking      `json:"upcoming_bookings"`
}

type DashboardService interface {
	// GetOverview aggregates trips and bookings for the dashboard, serving a
	// short-lived per-user cached snapshot when one exists.
	GetOverview(ctx context.Context, userID uuid.UUID) (*Overview, error)
}

type DashboardServiceImpl struct {
	logger *slog.Logger
	repo   DashboardRepo
	cache  *cache.Cache
}

func NewDashboardService(repo DashboardRepo, logger *slog.Logger) *DashboardServiceImpl {
	return &DashboardServiceImpl{
		logger: logger,
		repo:   repo,
		cache:  cache.New(cacheTTL, 2*cacheTTL),
	}
}

// computeDashboardStats reduces the trip list into the dashboard numbers.
// "This month" counts trips starting on or after the first of the current
// month; upcoming means a future start and not completed.
func computeDashboardStats(trips []types.Trip, now time.Time) types.DashboardStats {
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	stats := types.DashboardStats{TotalTrips: len(trips)}
	countries := make(map[string]struct{})
	for _, trip := range trips {
		if !trip.StartDate.Before(startOfMonth) {
			stats.ThisMonthTrips++
		}
		if trip.StartDate.After(now) && trip.Status != types.TripStatusCompleted {
			stats.UpcomingTrips++
		}
		if trip.Status == types.TripStatusCompleted {
			stats.CompletedTrips++
		}
		if country := user.CountryOf(trip.Destination); country != "" {
			countries[country] = struct{}{}
		}
		stats.TotalSaved += trip.Budget
	}
	stats.SavedCountries = len(countries)
	return stats
}

func (s *DashboardServiceImpl) GetOverview(ctx context.Context, userID uuid.UUID) (*Overview, error) {
	ctx, span := otel.Tracer("DashboardService").Start(ctx, "GetOverview", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "GetOverview"), slog.String("userID", userID.String()))

	cacheKey := userID.String()
	if cached, found := s.cache.Get(cacheKey); found {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		span.SetStatus(codes.Ok, "Served from cache")
		return cached.(*Overview), nil
	}
	span.SetAttributes(attribute.Bool("cache.hit", false))

	var (
		trips    []types.Trip
		bookings []types.Booking
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		trips, err = s.repo.ListTripStats(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		bookings, err = s.repo.ListUpcomingBookings(gctx, userID, upcomingBookingLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		l.ErrorContext(ctx, "Dashboard aggregation failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Aggregation failed")
		return nil, err
	}

	overview := &Overview{
		Stats:            computeDashboardStats(trips, time.Now()),
		UpcomingBookings: bookings,
	}
	s.cache.Set(cacheKey, overview, cache.DefaultExpiration)

	span.SetStatus(codes.Ok, "Overview assembled")
	return overview, nil
}
