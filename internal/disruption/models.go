// Package disruption provides the client-side orchestration of trip
// disruption operations: cancellations, delays, diversions, emergency stops
// and passenger transfers, plus the alternative-trip lookup used for
// rebooking.
package disruption

import (
	"errors"
	"time"
)

// ErrUnknownAction is returned for action types outside the wire enum.
var ErrUnknownAction = errors.New("unknown disruption action type")

// ActionType is the wire value of a disruption action. The remote procedure
// branches on these exact strings.
type ActionType string

const (
	ActionCancel    ActionType = "cancel"
	ActionDelay     ActionType = "delay"
	ActionDivert    ActionType = "divert"
	ActionEmergency ActionType = "emergency"
	ActionTransfer  ActionType = "transfer"
)

// Valid reports whether the action is a known wire value.
func (a ActionType) Valid() bool {
	switch a {
	case ActionCancel, ActionDelay, ActionDivert, ActionEmergency, ActionTransfer:
		return true
	}
	return false
}

// Request describes one disruption action against a trip. Optional fields
// are pointers because the remote routine distinguishes "not supplied" from
// "supplied as zero": nil is marshaled as an explicit JSON null, never
// omitted.
type Request struct {
	// TripID identifies the disrupted trip.
	TripID string

	// Action is the disruption action to apply.
	Action ActionType

	// Reason is optional free text describing the disruption.
	Reason *string

	// DelayMinutes is the delay length, meaningful only for ActionDelay.
	DelayMinutes *int

	// TransferTripID is the target trip, meaningful only for ActionTransfer.
	TransferTripID *string
}

// Result is the uniform outcome of a disruption operation. Transport
// failures and logical (payload-reported) failures produce the same shape.
type Result struct {
	// Success reports whether the remote transaction committed.
	Success bool

	// Message is human-readable; on failure it carries the error text from
	// whichever layer failed.
	Message string

	// Payload is the full server response on success, passed through
	// opaquely (e.g. affected booking counts).
	Payload map[string]interface{}
}

// Outcome is the decoded response of the handle_trip_disruption procedure.
// A transport-level success may still report Success=false, which the
// handler normalizes into a failure Result.
type Outcome struct {
	Success bool
	Message string
	Payload map[string]interface{}
}

// AlternativeTrip is a candidate trip offered for rebooking after a
// disruption.
type AlternativeTrip struct {
	ID             string
	RouteName      string
	DepartureTime  time.Time
	ArrivalTime    time.Time
	Price          float64
	AvailableSeats int
	Status         string
}

// LogicalError carries the failure message of a transport-level success
// whose payload reported success=false. It exists so both failure layers
// converge on one external shape.
type LogicalError struct {
	Message string
}

func (e *LogicalError) Error() string {
	return e.Message
}
