package notify

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// Message is an outbound notification. When ConfirmKey is non-empty the
// transport attaches its yes/no sign-up affordance carrying that session key.
type Message struct {
	Text       string
	ConfirmKey string
}

// Notifier delivers a message to a single recipient. Implemented by the
// Telegram transport; tests substitute a recorder.
type Notifier interface {
	Send(ctx context.Context, recipient int64, msg Message) error
}

// Dispatcher fans a message out to many recipients on a best-effort basis.
// Each delivery is attempted independently: a failure is logged and the rest
// of the batch proceeds. Log lines of one batch share a correlation id.
type Dispatcher struct {
	notifier Notifier
	logger   *slog.Logger
}

// NewDispatcher wires a dispatcher around the given notifier.
func NewDispatcher(notifier Notifier, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{notifier: notifier, logger: logger}
}

// Fanout delivers msg to every recipient and returns the number of
// successful deliveries. It never returns an error: per-recipient failures
// must not abort the batch.
func (d *Dispatcher) Fanout(ctx context.Context, recipients []int64, msg Message) int {
	if d == nil || d.notifier == nil || len(recipients) == 0 {
		return 0
	}

	batchID := uuid.NewString()
	delivered := 0
	for _, recipient := range recipients {
		if err := d.notifier.Send(ctx, recipient, msg); err != nil {
			d.logger.Warn("notification delivery failed",
				"batch_id", batchID,
				"recipient", recipient,
				"error", err,
			)
			continue
		}
		delivered++
	}

	if delivered < len(recipients) {
		d.logger.Info("fanout completed with failures",
			"batch_id", batchID,
			"delivered", delivered,
			"recipients", len(recipients),
		)
	}
	return delivered
}
