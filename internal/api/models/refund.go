package models

// CancellationRule is a single time-windowed refund rule.
type CancellationRule struct {
	ID               string   `json:"id,omitempty"`
	MinHours         *float64 `json:"minHoursBeforeDeparture"`
	MaxHours         *float64 `json:"maxHoursBeforeDeparture"`
	RefundPercentage float64  `json:"refundPercentage" validate:"gte=0,lte=100"`
	CancellationFee  float64  `json:"cancellationFee" validate:"gte=0"`
}

// RefundQuoteRequest is the body for an ad-hoc refund calculation.
type RefundQuoteRequest struct {
	// BasePrice is the amount paid for the booking.
	BasePrice float64 `json:"basePrice" validate:"required,gt=0"`

	// DepartureTime is the trip's scheduled departure.
	DepartureTime Timestamp `json:"departureTime" validate:"required"`

	// Rules are evaluated in order; the first window containing the
	// hours-to-departure wins.
	Rules []CancellationRule `json:"rules"`

	// CancellationTime defaults to the server's current time.
	CancellationTime *Timestamp `json:"cancellationTime,omitempty"`
}

// RefundCalculation is the computed refund breakdown.
type RefundCalculation struct {
	RefundAmount     float64 `json:"refundAmount"`
	CancellationFee  float64 `json:"cancellationFee"`
	RefundPercentage float64 `json:"refundPercentage"`
	AppliedRuleID    string  `json:"appliedRuleId,omitempty"`
}

// BookingRefundQuote is a refund calculation bound to a booking.
type BookingRefundQuote struct {
	BookingID     string            `json:"bookingId"`
	TripID        string            `json:"tripId"`
	BasePrice     float64           `json:"basePrice"`
	DepartureTime Timestamp         `json:"departureTime"`
	QuotedAt      Timestamp         `json:"quotedAt"`
	Refund        RefundCalculation `json:"refund"`
}
