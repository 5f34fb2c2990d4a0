package container

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	database "github.com/roamly/roamly-api/app/db"
	"github.com/roamly/roamly-api/config"
	"github.com/roamly/roamly-api/internal/api/assistant"
	"github.com/roamly/roamly-api/internal/api/auth"
	"github.com/roamly/roamly-api/internal/api/booking"
	"github.com/roamly/roamly-api/internal/api/dashboard"
	"github.com/roamly/roamly-api/internal/api/itinerary"
	"github.com/roamly/roamly-api/internal/api/trip"
	"github.com/roamly/roamly-api/internal/api/user"
)

// Container holds all application dependencies.
type Container struct {
	Config           *config.Config
	Logger           *slog.Logger
	Pool             *pgxpool.Pool
	AuthHandler      *auth.AuthHandler
	TripHandler      *trip.TripHandler
	ItineraryHandler *itinerary.ItineraryHandler
	BookingHandler   *booking.BookingHandler
	UserHandler      *user.UserHandler
	DashboardHandler *dashboard.DashboardHandler
	AssistantHandler *assistant.AssistantHandler
}

// NewContainer initializes the database pool and wires repositories, services
// and handlers.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	dbConfig, err := database.NewDatabaseConfig(cfg, logger)
	if err != nil {
		logger.Error("Failed to generate database config", slog.Any("error", err))
		return nil, err
	}

	pool, err := database.Init(dbConfig.ConnectionURL, logger)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.Any("error", err))
		return nil, err
	}

	authRepo := auth.NewPostgresAuthRepo(pool, logger)
	authService := auth.NewAuthService(authRepo, cfg, logger)
	authHandler := auth.NewAuthHandler(authService, logger)

	tripRepo := trip.NewPostgresTripRepo(pool, logger)
	tripService := trip.NewTripService(tripRepo, logger)
	tripHandler := trip.NewTripHandler(tripService, logger)

	itineraryRepo := itinerary.NewPostgresItineraryRepo(pool, logger)
	generationClient := itinerary.NewHTTPGenerationClient(cfg.Generator.URL, cfg.Generator.Timeout, logger)
	itineraryService := itinerary.NewItineraryService(itineraryRepo, generationClient, logger)
	itineraryHandler := itinerary.NewItineraryHandler(itineraryService, logger)

	bookingRepo := booking.NewPostgresBookingRepo(pool, logger)
	bookingService := booking.NewBookingService(bookingRepo, logger)
	bookingHandler := booking.NewBookingHandler(bookingService, logger)

	userRepo := user.NewPostgresUserRepo(pool, logger)
	userService := user.NewUserService(userRepo, logger)
	userHandler := user.NewUserHandler(userService, logger)

	dashboardRepo := dashboard.NewPostgresDashboardRepo(pool, logger)
	dashboardService := dashboard.NewDashboardService(dashboardRepo, logger)
	dashboardHandler := dashboard.NewDashboardHandler(dashboardService, logger)

	geminiClient, err := assistant.NewGeminiClient(ctx, cfg.Assistant.Model)
	if err != nil {
		logger.Error("Failed to initialize assistant model client", slog.Any("error", err))
		pool.Close()
		return nil, err
	}
	assistantRepo := assistant.NewPostgresAssistantRepo(pool, logger)
	assistantService := assistant.NewAssistantService(assistantRepo, geminiClient, logger)
	assistantHandler := assistant.NewAssistantHandler(assistantService, logger)

	return &Container{
		Config:           cfg,
		Logger:           logger,
		Pool:             pool,
		AuthHandler:      authHandler,
		TripHandler:      tripHandler,
		ItineraryHandler: itineraryHandler,
		BookingHandler:   bookingHandler,
		UserHandler:      userHandler,
		DashboardHandler: dashboardHandler,
		AssistantHandler: assistantHandler,
	}, nil
}

// Close releases all resources held by the container.
func (c *Container) Close() {
	if c.Pool != nil {
		c.Pool.Close()
	}
}

// WaitForDB waits for the database to be ready.
func (c *Container) WaitForDB(ctx context.Context) bool {
	return database.WaitForDB(ctx, c.Pool, c.Logger)
}
