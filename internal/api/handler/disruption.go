package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/safarbus/safarbus/internal/api/models"
	"github.com/safarbus/safarbus/internal/api/response"
	"github.com/safarbus/safarbus/internal/disruption"
)

// DisruptionHandler handles trip disruption endpoints.
type DisruptionHandler struct {
	disruptions *disruption.Handler
}

// NewDisruptionHandler creates a new DisruptionHandler.
func NewDisruptionHandler(disruptions *disruption.Handler) *DisruptionHandler {
	return &DisruptionHandler{disruptions: disruptions}
}

// ReportDisruption handles POST /v1/trips/{tripId}/disruption.
func (h *DisruptionHandler) ReportDisruption(w http.ResponseWriter, r *http.Request) {
	tripID := chi.URLParam(r, "tripId")
	if tripID == "" {
		response.BadRequest(w, r, "tripId is required", nil)
		return
	}

	var input models.DisruptionRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid request body", nil)
		return
	}

	action := disruption.ActionType(input.ActionType)
	if fieldErrors := validateDisruption(action, input); len(fieldErrors) > 0 {
		response.BadRequest(w, r, "invalid disruption request", fieldErrors)
		return
	}

	// One disruption at a time; the remote transaction is not idempotent.
	if h.disruptions.InFlight() {
		response.Conflict(w, r, "a disruption submission is already in progress")
		return
	}

	result := h.disruptions.HandleDisruption(r.Context(), disruption.Request{
		TripID:         tripID,
		Action:         action,
		Reason:         input.Reason,
		DelayMinutes:   input.DelayMinutes,
		TransferTripID: input.TransferTripID,
	})

	// Transport and logical failures share one shape; the success flag is
	// the only discriminator the client gets.
	response.JSON(w, r, http.StatusOK, models.DisruptionResponse{
		Success: result.Success,
		Message: result.Message,
		Details: result.Payload,
	})
}

// GetAlternatives handles GET /v1/trips/{tripId}/alternatives.
func (h *DisruptionHandler) GetAlternatives(w http.ResponseWriter, r *http.Request) {
	tripID := chi.URLParam(r, "tripId")
	if tripID == "" {
		response.BadRequest(w, r, "tripId is required", nil)
		return
	}

	trips := h.disruptions.FindAlternatives(r.Context(), tripID)

	alternatives := make([]models.AlternativeTrip, 0, len(trips))
	for _, t := range trips {
		alternatives = append(alternatives, models.AlternativeTrip{
			ID:             t.ID,
			RouteName:      t.RouteName,
			DepartureTime:  models.Timestamp(t.DepartureTime),
			ArrivalTime:    models.Timestamp(t.ArrivalTime),
			Price:          t.Price,
			AvailableSeats: t.AvailableSeats,
			Status:         t.Status,
		})
	}

	response.JSON(w, r, http.StatusOK, models.AlternativesResponse{
		TripID:       tripID,
		Alternatives: alternatives,
	})
}

func validateDisruption(action disruption.ActionType, input models.DisruptionRequest) []models.FieldError {
	var fieldErrors []models.FieldError

	if !action.Valid() {
		fieldErrors = append(fieldErrors, models.FieldError{
			Field:   "actionType",
			Message: "must be one of: cancel, delay, divert, emergency, transfer",
			Code:    "UNKNOWN_ACTION",
		})
		return fieldErrors
	}

	if action == disruption.ActionDelay && (input.DelayMinutes == nil || *input.DelayMinutes <= 0) {
		fieldErrors = append(fieldErrors, models.FieldError{
			Field:   "delayMinutes",
			Message: "must be a positive number of minutes for delay actions",
			Code:    "REQUIRED",
		})
	}

	if action == disruption.ActionTransfer && (input.TransferTripID == nil || *input.TransferTripID == "") {
		fieldErrors = append(fieldErrors, models.FieldError{
			Field:   "transferTripId",
			Message: "required for transfer actions",
			Code:    "REQUIRED",
		})
	}

	return fieldErrors
}
