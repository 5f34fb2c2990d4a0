package types

import (
	"time"

	"github.com/google/uuid"
)

type BookingType string

const (
	BookingTypeFlight     BookingType = "flight"
	BookingTypeHotel      BookingType = "hotel"
	BookingTypeCar        BookingType = "car"
	BookingTypeActivity   BookingType = "activity"
	BookingTypeRestaurant BookingType = "restaurant"
)

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
)

// Booking is a single reservation tied to a trip.
type Booking struct {
	ID                 uuid.UUID     `json:"id"`
	UserID             uuid.UUID     `json:"user_id"`
	TripID             uuid.UUID     `json:"trip_id"`
	Type               BookingType   `json:"type"`
	Title              string        `json:"title"`
	Details            string        `json:"details"`
	Date               time.Time     `json:"date"`
	EndDate            *time.Time    `json:"end_date,omitempty"`
	Status             BookingStatus `json:"status"`
	Price              float64       `json:"price"`
	Currency           string        `json:"currency"`
	ConfirmationNumber string        `json:"confirmation_number,omitempty"`
	Provider           string        `json:"provider,omitempty"`
	Location           string        `json:"location,omitempty"`
	Notes              string        `json:"notes,omitempty"`
	CreatedAt          time.Time     `json:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at"`

	// Trip context joined in list/detail responses.
	Trip *BookingTripRef `json:"trip,omitempty"`
}

// BookingTripRef is the slice of trip data joined onto booking responses.
type BookingTripRef struct {
	Destination string    `json:"destination"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
}

// CreateBookingRequest represents the expected JSON body for booking creation.
type CreateBookingRequest struct {
	TripID             uuid.UUID   `json:"trip_id" binding:"required"`
	Type               BookingType `json:"type" binding:"required"`
	Title              string      `json:"title" binding:"required"`
	Details            string      `json:"details" binding:"required"`
	Date               time.Time   `json:"date" binding:"required"`
	EndDate            *time.Time  `json:"end_date,omitempty"`
	Status             string      `json:"status,omitempty"`
	Price              float64     `json:"price" binding:"required"`
	Currency           string      `json:"currency,omitempty"`
	ConfirmationNumber string      `json:"confirmation_number,omitempty"`
	Provider           string      `json:"provider,omitempty"`
	Location           string      `json:"location,omitempty"`
	Notes              string      `json:"notes,omitempty"`
}

// UpdateBookingParams is used for partial booking updates.
type UpdateBookingParams struct {
	Title              *string    `json:"title,omitempty"`
	Details            *string    `json:"details,omitempty"`
	Date               *time.Time `json:"date,omitempty"`
	EndDate            *time.Time `json:"end_date,omitempty"`
	Status             *string    `json:"status,omitempty"`
	Price              *float64   `json:"price,omitempty"`
	Currency           *string    `json:"currency,omitempty"`
	ConfirmationNumber *string    `json:"confirmation_number,omitempty"`
	Provider           *string    `json:"provider,omitempty"`
	Location           *string    `json:"location,omitempty"`
	Notes              *string    `json:"notes,omitempty"`
}
