package disruption

import (
	"context"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// RPC is the remote procedure interface the handler orchestrates. The
// implementation owns transport concerns; errors it returns are transport
// errors only — a completed call reporting success=false comes back as an
// Outcome, not an error.
type RPC interface {
	// HandleTripDisruption invokes the atomic server-side disruption
	// transaction.
	HandleTripDisruption(ctx context.Context, req Request) (*Outcome, error)

	// FindAlternativeTrips looks up rebooking candidates for a disrupted
	// trip.
	FindAlternativeTrips(ctx context.Context, tripID string) ([]AlternativeTrip, error)
}

// HandlerConfig holds configuration for the disruption handler.
type HandlerConfig struct {
	RPC      RPC
	Notifier Notifier
	Logger   zerolog.Logger
}

// Handler orchestrates disruption operations: request shaping, failure
// normalization, user feedback and the alternatives lookup. One handler
// serves one submission flow; InFlight exposes the Submitting state so the
// caller can disable duplicate submissions. The handler itself performs no
// deduplication, no retries and no compensating logic — the remote side is
// the transactional authority.
type Handler struct {
	rpc      RPC
	notifier Notifier
	logger   zerolog.Logger
	inFlight atomic.Bool
}

// NewHandler creates a new disruption handler.
func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{
		rpc:      cfg.RPC,
		notifier: cfg.Notifier,
		logger:   cfg.Logger,
	}
}

// InFlight reports whether a disruption submission is currently running.
func (h *Handler) InFlight() bool {
	return h.inFlight.Load()
}

// HandleDisruption submits one disruption request and interprets the
// response. It never returns a Go error: transport failures and logical
// failures both resolve to Result{Success: false, Message: ...} plus a
// failure notification, so callers see one uniform shape regardless of
// which layer failed.
func (h *Handler) HandleDisruption(ctx context.Context, req Request) Result {
	submissionID := "sub_" + uuid.New().String()[:22]
	logger := h.logger.With().
		Str("submission_id", submissionID).
		Str("trip_id", req.TripID).
		Str("action", string(req.Action)).
		Logger()

	if !req.Action.Valid() {
		logger.Error().Msg("rejected disruption request with unknown action")
		h.notifier.Failure(ctx, genericFailureMessage)
		return Result{Success: false, Message: ErrUnknownAction.Error()}
	}

	h.inFlight.Store(true)
	defer h.inFlight.Store(false)

	outcome, err := h.rpc.HandleTripDisruption(ctx, req)
	if err == nil && !outcome.Success {
		// Transport succeeded but the payload reports failure; normalize
		// to the same shape as a transport error.
		err = &LogicalError{Message: outcome.Message}
	}

	if err != nil {
		logger.Error().Err(err).Msg("disruption request failed")
		h.notifier.Failure(ctx, FailureMessage(req.Action))
		return Result{Success: false, Message: err.Error()}
	}

	logger.Info().Msg("disruption applied")
	h.notifier.Success(ctx, SuccessMessage(req.Action))
	return Result{
		Success: true,
		Message: outcome.Message,
		Payload: outcome.Payload,
	}
}

// FindAlternatives returns rebooking candidates for a disrupted trip.
// Any error, transport or logical, is logged and swallowed: "lookup failed"
// and "no alternatives exist" are indistinguishable to the caller, both
// yielding an empty (non-nil) slice.
func (h *Handler) FindAlternatives(ctx context.Context, tripID string) []AlternativeTrip {
	trips, err := h.rpc.FindAlternativeTrips(ctx, tripID)
	if err != nil {
		h.logger.Warn().Err(err).
			Str("trip_id", tripID).
			Msg("alternative trip lookup failed, returning empty result")
		return []AlternativeTrip{}
	}
	if trips == nil {
		trips = []AlternativeTrip{}
	}
	return trips
}
