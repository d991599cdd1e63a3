package disruption

import (
	"context"

	"github.com/rs/zerolog"
)

// Notifier is the user-facing feedback channel for disruption operations.
// Success and failure are always fired and must be visually distinguishable;
// delivery (toast, push, websocket) is the implementer's concern.
type Notifier interface {
	Success(ctx context.Context, message string)
	Failure(ctx context.Context, message string)
}

// LogNotifier is a Notifier that writes feedback to the structured log.
// Used server-side where no interactive channel exists.
type LogNotifier struct {
	logger zerolog.Logger
}

// NewLogNotifier creates a new LogNotifier.
func NewLogNotifier(logger zerolog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Success logs a success notification.
func (n *LogNotifier) Success(_ context.Context, message string) {
	n.logger.Info().Str("notification", message).Msg("disruption feedback")
}

// Failure logs a failure notification.
func (n *LogNotifier) Failure(_ context.Context, message string) {
	n.logger.Warn().Str("notification", message).Msg("disruption feedback")
}
