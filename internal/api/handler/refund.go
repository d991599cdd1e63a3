package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/safarbus/safarbus/internal/api/models"
	"github.com/safarbus/safarbus/internal/api/response"
	"github.com/safarbus/safarbus/internal/booking"
	"github.com/safarbus/safarbus/internal/policy"
)

// RefundHandler handles refund calculation endpoints.
type RefundHandler struct {
	bookings *booking.Service
}

// NewRefundHandler creates a new RefundHandler.
func NewRefundHandler(bookings *booking.Service) *RefundHandler {
	return &RefundHandler{bookings: bookings}
}

// QuoteRefund handles POST /v1/refunds/quote - ad-hoc refund calculation
// over caller-supplied rules. The calculation is pure; nothing is persisted.
func (h *RefundHandler) QuoteRefund(w http.ResponseWriter, r *http.Request) {
	var input models.RefundQuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid request body", nil)
		return
	}

	var fieldErrors []models.FieldError
	if input.BasePrice <= 0 {
		fieldErrors = append(fieldErrors, models.FieldError{
			Field:   "basePrice",
			Message: "must be greater than zero",
			Code:    "OUT_OF_RANGE",
		})
	}
	if input.DepartureTime.Time().IsZero() {
		fieldErrors = append(fieldErrors, models.FieldError{
			Field:   "departureTime",
			Message: "required",
			Code:    "REQUIRED",
		})
	}
	if len(fieldErrors) > 0 {
		response.BadRequest(w, r, "invalid refund quote request", fieldErrors)
		return
	}

	cancelledAt := time.Now()
	if input.CancellationTime != nil {
		cancelledAt = input.CancellationTime.Time()
	}

	rules := make([]policy.CancellationRule, 0, len(input.Rules))
	for _, rule := range input.Rules {
		rules = append(rules, policy.CancellationRule{
			RuleID:           rule.ID,
			MinHours:         rule.MinHours,
			MaxHours:         rule.MaxHours,
			RefundPercentage: rule.RefundPercentage,
			CancellationFee:  rule.CancellationFee,
		})
	}

	calc := policy.CalculateRefund(input.BasePrice, input.DepartureTime.Time(), rules, cancelledAt)
	response.JSON(w, r, http.StatusOK, refundCalculationModel(calc))
}

// BookingRefundQuote handles GET /v1/bookings/{bookingId}/refund-quote.
func (h *RefundHandler) BookingRefundQuote(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "bookingId")
	if bookingID == "" {
		response.BadRequest(w, r, "bookingId is required", nil)
		return
	}

	quote, err := h.bookings.RefundQuote(r.Context(), bookingID, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrBookingNotFound):
			response.NotFound(w, r, "booking not found")
		case errors.Is(err, booking.ErrTripNotFound):
			response.NotFound(w, r, "trip not found")
		case errors.Is(err, booking.ErrBookingNotRefundable):
			response.Conflict(w, r, "booking is not refundable")
		default:
			response.InternalError(w, r, "failed to compute refund quote")
		}
		return
	}

	response.JSON(w, r, http.StatusOK, models.BookingRefundQuote{
		BookingID:     quote.BookingID,
		TripID:        quote.TripID,
		BasePrice:     quote.BasePrice,
		DepartureTime: models.Timestamp(quote.DepartureTime),
		QuotedAt:      models.Timestamp(quote.QuotedAt),
		Refund:        refundCalculationModel(quote.Refund),
	})
}

func refundCalculationModel(calc policy.RefundCalculation) models.RefundCalculation {
	return models.RefundCalculation{
		RefundAmount:     calc.RefundAmount,
		CancellationFee:  calc.CancellationFee,
		RefundPercentage: calc.RefundPercentage,
		AppliedRuleID:    calc.AppliedRuleID,
	}
}
