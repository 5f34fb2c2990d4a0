package types

import (
	"time"

	"github.com/google/uuid"
)

// User is an account holder. Password is the bcrypt hash, never serialized.
type User struct {
	ID        uuid.UUID   `json:"id"`
	Email     string      `json:"email"`
	Password  string      `json:"-"`
	Name      string      `json:"name"`
	CreatedAt time.Time   `json:"created_at"`
	Profile   UserProfile `json:"profile"`
}

// UserProfile holds the optional, user-editable profile fields.
type UserProfile struct {
	Avatar      string   `json:"avatar,omitempty"`
	Phone       string   `json:"phone,omitempty"`
	Bio         string   `json:"bio,omitempty"`
	Location    string   `json:"location,omitempty"`
	Interests   []string `json:"interests,omitempty"`
	Preferences []string `json:"preferences,omitempty"`
}

// UpdateProfileParams is used for partial profile updates.
type UpdateProfileParams struct {
	Bio       *string  `json:"bio,omitempty"`
	Location  *string  `json:"location,omitempty"`
	Phone     *string  `json:"phone,omitempty"`
	Interests []string `json:"interests,omitempty"`
}

// TravelStats are the trip-derived numbers surfaced on the profile page.
type TravelStats struct {
	TotalTrips       int     `json:"total_trips"`
	CountriesVisited int     `json:"countries_visited"`
	UpcomingTrips    int     `json:"upcoming_trips"`
	CompletedTrips   int     `json:"completed_trips"`
	TotalSpent       float64 `json:"total_spent"`
	AverageRating    float64 `json:"average_rating"`
	TravelLevel      string  `json:"travel_level"`
}

// ProfileResponse is the aggregate returned by GET /profile.
type ProfileResponse struct {
	User         ProfileUser       `json:"user"`
	Stats        TravelStats       `json:"stats"`
	Achievements []string          `json:"achievements"`
	Preferences  ProfilePreference `json:"preferences"`
}

type ProfileUser struct {
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Avatar    string    `json:"avatar,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type ProfilePreference struct {
	Bio       string   `json:"bio"`
	Location  string   `json:"location"`
	Phone     string   `json:"phone"`
	Interests []string `json:"interests"`
}

// DashboardStats is the aggregate returned by GET /dashboard.
type DashboardStats struct {
	TotalTrips     int     `json:"total_trips"`
	ThisMonthTrips int     `json:"this_month_trips"`
	UpcomingTrips  int     `json:"upcoming_trips"`
	CompletedTrips int     `json:"completed_trips"`
	SavedCountries int     `json:"saved_countries"`
	TotalSaved     float64 `json:"total_saved"`
}
