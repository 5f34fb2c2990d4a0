package types

import (
	"time"

	"github.com/google/uuid"
)

type TripStatus string

const (
	TripStatusDraft     TripStatus = "draft"
	TripStatusPlanning  TripStatus = "planning"
	TripStatusConfirmed TripStatus = "confirmed"
	TripStatusCompleted TripStatus = "completed"
)

type BudgetRange string

const (
	BudgetRangeBudget   BudgetRange = "budget"
	BudgetRangeMidrange BudgetRange = "midrange"
	BudgetRangeLuxury   BudgetRange = "luxury"
	BudgetRangeCustom   BudgetRange = "custom"
)

// Trip is a user's planned journey with dates, budget and destination.
// The Itinerary payload is stored as-is from the generation service and may be
// absent or carry one of several historical shapes; ItineraryState at the
// deserialization boundary decides which.
type Trip struct {
	ID              uuid.UUID            `json:"id"`
	UserID          uuid.UUID            `json:"user_id"`
	Destination     string               `json:"destination"`
	CurrentLocation string               `json:"current_location"`
	StartDate       time.Time            `json:"start_date"`
	EndDate         time.Time            `json:"end_date"`
	Travelers       int                  `json:"travelers"`
	Budget          float64              `json:"budget"`
	DailyBudget     float64              `json:"daily_budget"`
	BudgetRange     BudgetRange          `json:"budget_range"`
	Status          TripStatus           `json:"status"`
	Interests       []string             `json:"interests"`
	AdditionalNotes string               `json:"additional_notes,omitempty"`
	Image           string               `json:"image,omitempty"`
	Activities      []TripActivity       `json:"activities,omitempty"`
	Itinerary       *RawItineraryPayload `json:"itinerary,omitempty"`
	CreatedAt       time.Time            `json:"created_at"`
}

// TripActivity is the flat, legacy activity record stored directly on the trip
// without day grouping. The builder reconstructs day structure from Date.
type TripActivity struct {
	Name        string    `json:"name"`
	Date        time.Time `json:"date"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
}

// CreateTripRequest represents the expected JSON body for trip creation.
type CreateTripRequest struct {
	Destination     string      `json:"destination" binding:"required"`
	CurrentLocation string      `json:"current_location" binding:"required"`
	StartDate       time.Time   `json:"start_date" binding:"required"`
	EndDate         time.Time   `json:"end_date" binding:"required"`
	Travelers       int         `json:"travelers" binding:"required,min=1"`
	BudgetRange     BudgetRange `json:"budget_range" binding:"required"`
	CustomBudget    float64     `json:"custom_budget,omitempty"` // Daily amount, only read when budget_range is "custom".
	Interests       []string    `json:"interests,omitempty"`
	AdditionalNotes string      `json:"additional_notes,omitempty"`
	Image           string      `json:"image,omitempty"`
}

// UpdateTripParams is used for partial trip updates. Only draft trips accept
// updates; date changes recompute the total budget from the daily budget.
type UpdateTripParams struct {
	Destination     *string    `json:"destination,omitempty"`
	CurrentLocation *string    `json:"current_location,omitempty"`
	StartDate       *time.Time `json:"start_date,omitempty"`
	EndDate         *time.Time `json:"end_date,omitempty"`
	Travelers       *int       `json:"travelers,omitempty"`
	Interests       []string   `json:"interests,omitempty"`
	AdditionalNotes *string    `json:"additional_notes,omitempty"`
	Image           *string    `json:"image,omitempty"`
}

// DurationDays returns the trip length in whole days using the ceil formula
// the rest of the system (budget computation, skeleton itinerary) relies on:
// ceil((end - start) / 24h). A trip from Mar 1 to Mar 4 spans 3 days.
func DurationDays(start, end time.Time) int {
	diff := end.Sub(start)
	if diff < 0 {
		diff = -diff
	}
	days := int(diff / (24 * time.Hour))
	if diff%(24*time.Hour) != 0 {
		days++
	}
	return days
}

// DailyBudgetFor maps a budget range to the per-person daily amount. Custom
// ranges use the caller-provided figure.
func DailyBudgetFor(budgetRange BudgetRange, customBudget float64) float64 {
	switch budgetRange {
	case BudgetRangeBudget:
		return 1750 // Average of Rs.1500-2000
	case BudgetRangeMidrange:
		return 3500 // Average of Rs.2500-4500
	case BudgetRangeLuxury:
		return 6000 // Rs.5000+
	case BudgetRangeCustom:
		return customBudget
	default:
		return 0
	}
}
