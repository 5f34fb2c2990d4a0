package user

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/roamly/roamly-api/internal/types"
)

var _ UserService = (*UserServiceImpl)(nil)

type UserService interface {
	// GetProfile assembles the user record with trip-derived travel
	// statistics, the travel level and earned achievements.
	GetProfile(ctx context.Context, userID uuid.UUID) (*types.ProfileResponse, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, params types.UpdateProfileParams) (*types.UserProfile, error)
	// DeleteAccount removes the account and everything hanging off it.
	DeleteAccount(ctx context.Context, userID uuid.UUID) error
}

type UserServiceImpl struct {
	logger *slog.Logger
	repo   UserRepo
}

func NewUserService(repo UserRepo, logger *slog.Logger) *UserServiceImpl {
	return &UserServiceImpl{
		logger: logger,
		repo:   repo,
	}
}

// CountryOf extracts the country from a "City, Country" destination string,
// using the segment after the last comma. A destination without a comma
// counts as its own entry.
func CountryOf(destination string) string {
	destination = strings.TrimSpace(destination)
	if destination == "" {
		return ""
	}
	if idx := strings.LastIndex(destination, ","); idx >= 0 {
		return strings.TrimSpace(destination[idx+1:])
	}
	return destination
}

// travelLevelFor maps trip and country counts onto the profile level ladder.
func travelLevelFor(totalTrips, countriesVisited int) string {
	switch {
	case totalTrips >= 10 && countriesVisited >= 5:
		return "Explorer"
	case totalTrips >= 5 && countriesVisited >= 3:
		return "Adventurer"
	case totalTrips >= 2:
		return "Traveler"
	default:
		return "Beginner"
	}
}

// computeTravelStats reduces the user's trips into the profile statistics.
func computeTravelStats(trips []types.Trip, now time.Time) types.TravelStats {
	stats := types.TravelStats{
		TotalTrips: len(trips),
		// Rating collection is not implemented yet; the profile page shows a
		// fixed figure until it is.
		AverageRating: 4.8,
	}

	countries := make(map[string]struct{})
	for _, trip := range trips {
		if country := CountryOf(trip.Destination); country != "" {
			countries[country] = struct{}{}
		}
		if trip.StartDate.After(now) && trip.Status != types.TripStatusCompleted {
			stats.UpcomingTrips++
		}
		if trip.Status == types.TripStatusCompleted {
			stats.CompletedTrips++
		}
		stats.TotalSpent += trip.Budget
	}

	stats.CountriesVisited = len(countries)
	stats.TravelLevel = travelLevelFor(stats.TotalTrips, stats.CountriesVisited)
	return stats
}

// earnedAchievements lists the achievements unlocked by the given stats.
func earnedAchievements(stats types.TravelStats) []string {
	achievements := []string{}
	if stats.TotalTrips >= 1 {
		achievements = append(achievements, "First Trip Completed")
	}
	if stats.TotalTrips >= 5 {
		achievements = append(achievements, "Frequent Traveler")
	}
	if stats.CountriesVisited >= 3 {
		achievements = append(achievements, "Multi-Country Explorer")
	}
	if stats.TotalSpent >= 5000 {
		achievements = append(achievements, "Budget Master")
	}
	if stats.UpcomingTrips >= 2 {
		achievements = append(achievements, "Future Planner")
	}
	if stats.CompletedTrips >= 3 {
		achievements = append(achievements, "Experience Collector")
	}
	return achievements
}

func (s *UserServiceImpl) GetProfile(ctx context.Context, userID uuid.UUID) (*types.ProfileResponse, error) {
	ctx, span := otel.Tracer("UserService").Start(ctx, "GetProfile", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
	))
	defer span.End()

	user, err := s.repo.GetUserWithProfile(ctx, userID)
	if err != nil {
		span.SetStatus(codes.Error, "User fetch failed")
		return nil, err
	}

	trips, err := s.repo.ListTripStats(ctx, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Trip stats fetch failed")
		return nil, err
	}

	stats := computeTravelStats(trips, time.Now())

	interests := user.Profile.Interests
	if interests == nil {
		interests = []string{}
	}

	span.SetStatus(codes.Ok, "Profile assembled")
	return &types.ProfileResponse{
		User: types.ProfileUser{
			Name:      user.Name,
			Email:     user.Email,
			Avatar:    user.Profile.Avatar,
			CreatedAt: user.CreatedAt,
		},
		Stats:        stats,
		Achievements: earnedAchievements(stats),
		Preferences: types.ProfilePreference{
			Bio:       user.Profile.Bio,
			Location:  user.Profile.Location,
			Phone:     user.Profile.Phone,
			Interests: interests,
		},
	}, nil
}

func (s *UserServiceImpl) UpdateProfile(ctx context.Context, userID uuid.UUID, params types.UpdateProfileParams) (*types.UserProfile, error) {
	ctx, span := otel.Tracer("UserService").Start(ctx, "UpdateProfile", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "UpdateProfile"), slog.String("userID", userID.String()))

	user, err := s.repo.UpdateProfile(ctx, userID, params)
	if err != nil {
		l.ErrorContext(ctx, "Failed to update profile", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Profile update failed")
		return nil, err
	}

	l.InfoContext(ctx, "Profile updated")
	span.SetStatus(codes.Ok, "Profile updated")
	return &user.Profile, nil
}

func (s *UserServiceImpl) DeleteAccount(ctx context.Context, userID uuid.UUID) error {
	ctx, span := otel.Tracer("UserService").Start(ctx, "DeleteAccount", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "DeleteAccount"), slog.String("userID", userID.String()))

	if err := s.repo.DeleteAccount(ctx, userID); err != nil {
		span.SetStatus(codes.Error, "Account deletion failed")
		return err
	}

	l.InfoContext(ctx, "Account deleted")
	span.SetStatus(codes.Ok, "Account deleted")
	return nil
}
