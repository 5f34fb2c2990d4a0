package types

// RawItineraryPayload is the itinerary document exactly as the external
// generation service produced it. It is persisted verbatim and never trusted:
// any field may be missing, null or carry junk without failing a build.
type RawItineraryPayload struct {
	Itinerary          []RawItineraryDay      `json:"itinerary,omitempty"`
	TotalEstimatedCost string                 `json:"totalEstimatedCost,omitempty"`
	Transportation     *RawTransportationPlan `json:"transportation,omitempty"`
}

// RawItineraryDay is one day-record of the structured payload shape.
type RawItineraryDay struct {
	Day        int           `json:"day"`
	Date       string        `json:"date,omitempty"`
	Activities []RawActivity `json:"activities,omitempty"`
}

// RawActivity is one activity as emitted by the generation service.
type RawActivity struct {
	Time          string  `json:"time,omitempty"`
	Type          string  `json:"type,omitempty"`
	Title         string  `json:"title,omitempty"`
	Location      string  `json:"location,omitempty"`
	Description   string  `json:"description,omitempty"`
	EstimatedCost string  `json:"estimatedCost,omitempty"`
	Duration      string  `json:"duration,omitempty"`
	Rating        float64 `json:"rating,omitempty"`
}

// RawTransportationPlan summarizes the to/from legs of the trip.
type RawTransportationPlan struct {
	ToDestination   *RawTransportLeg `json:"toDestination,omitempty"`
	FromDestination *RawTransportLeg `json:"fromDestination,omitempty"`
}

type RawTransportLeg struct {
	Type          string `json:"type,omitempty"`
	DepartureTime string `json:"departureTime,omitempty"`
	ArrivalTime   string `json:"arrivalTime,omitempty"`
	EstimatedCost string `json:"estimatedCost,omitempty"`
}

// GenerationResponse is the envelope the external generation service returns.
// A false Success or nil Itinerary is a hard failure of generation and must
// never be fed to the builder.
type GenerationResponse struct {
	Success   bool                 `json:"success"`
	Itinerary *RawItineraryPayload `json:"itinerary"`
	Error     string               `json:"error,omitempty"`
}
