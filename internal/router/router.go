package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/roamly/roamly-api/internal/api/assistant"
	"github.com/roamly/roamly-api/internal/api/auth"
	"github.com/roamly/roamly-api/internal/api/booking"
	"github.com/roamly/roamly-api/internal/api/dashboard"
	"github.com/roamly/roamly-api/internal/api/itinerary"
	"github.com/roamly/roamly-api/internal/api/trip"
	"github.com/roamly/roamly-api/internal/api/user"
)

// Config contains the handlers and middleware the router wires together.
// Server-wide middleware (requestID, logger, recoverer) is applied before
// mounting this router in main.go.
type Config struct {
	AuthHandler            *auth.AuthHandler
	TripHandler            *trip.TripHandler
	ItineraryHandler       *itinerary.ItineraryHandler
	BookingHandler         *booking.BookingHandler
	UserHandler            *user.UserHandler
	DashboardHandler       *dashboard.DashboardHandler
	AssistantHandler       *assistant.AssistantHandler
	AuthenticateMiddleware func(http.Handler) http.Handler
}

// SetupRouter initializes and configures the main application router.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})

	// Served once the swagger docs are generated with swag init.
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	r.Route("/api/v1", func(r chi.Router) {

		// Public auth routes, no JWT required
		r.Group(func(r chi.Router) {
			r.Post("/auth/register", cfg.AuthHandler.Register)
			r.Post("/auth/login", cfg.AuthHandler.Login)
			r.Post("/auth/refresh", cfg.AuthHandler.RefreshToken)
		})

		// Everything else requires a valid access token
		r.Group(func(r chi.Router) {
			r.Use(cfg.AuthenticateMiddleware)

			r.Post("/auth/logout", cfg.AuthHandler.Logout)

			r.Route("/trips", func(r chi.Router) {
				r.Post("/", cfg.TripHandler.CreateTrip)
				r.Get("/", cfg.TripHandler.ListTrips)
				r.Route("/{tripID}", func(r chi.Router) {
					r.Get("/", cfg.TripHandler.GetTrip)
					r.Put("/", cfg.TripHandler.UpdateTrip)
					r.Delete("/", cfg.TripHandler.DeleteTrip)
					r.Get("/itinerary", cfg.ItineraryHandler.GetItinerary)
					r.Get("/itinerary/export", cfg.ItineraryHandler.ExportItinerary)
					r.Post("/generate", cfg.ItineraryHandler.GenerateItinerary)
				})
			})

			r.Route("/bookings", func(r chi.Router) {
				r.Post("/", cfg.BookingHandler.CreateBooking)
				r.Get("/", cfg.BookingHandler.ListBookings)
				r.Route("/{bookingID}", func(r chi.Router) {
					r.Get("/", cfg.BookingHandler.GetBooking)
					r.Put("/", cfg.BookingHandler.UpdateBooking)
					r.Delete("/", cfg.BookingHandler.DeleteBooking)
				})
			})

			r.Route("/profile", func(r chi.Router) {
				r.Get("/", cfg.UserHandler.GetProfile)
				r.Put("/", cfg.UserHandler.UpdateProfile)
				r.Delete("/", cfg.UserHandler.DeleteAccount)
			})

			r.Get("/dashboard", cfg.DashboardHandler.GetDashboard)
			r.Post("/assistant/chat", cfg.AssistantHandler.Chat)
		})
	})

	return r
}
