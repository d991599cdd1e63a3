package models

// DisruptionRequest is the body for reporting a trip disruption.
type DisruptionRequest struct {
	// ActionType is the disruption to apply: cancel, delay, divert,
	// emergency or transfer.
	ActionType string `json:"actionType" validate:"required"`

	// Reason is an optional operator-supplied explanation.
	Reason *string `json:"reason,omitempty"`

	// DelayMinutes is required when ActionType is "delay".
	DelayMinutes *int `json:"delayMinutes,omitempty"`

	// TransferTripID is required when ActionType is "transfer".
	TransferTripID *string `json:"transferTripId,omitempty"`
}

// DisruptionResponse is the outcome of a disruption submission.
type DisruptionResponse struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// AlternativeTrip is a replacement trip offered after a disruption.
type AlternativeTrip struct {
	ID             string    `json:"id"`
	RouteName      string    `json:"routeName"`
	DepartureTime  Timestamp `json:"departureTime"`
	ArrivalTime    Timestamp `json:"arrivalTime"`
	Price          float64   `json:"price"`
	AvailableSeats int       `json:"availableSeats"`
	Status         string    `json:"status"`
}

// AlternativesResponse lists alternatives for a disrupted trip.
type AlternativesResponse struct {
	TripID       string            `json:"tripId"`
	Alternatives []AlternativeTrip `json:"alternatives"`
}
