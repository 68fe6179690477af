package testfixtures

import (
	"context"
	"sync"

	"github.com/example/classbot/internal/notify"
)

// Delivery is one recorded send attempt.
type Delivery struct {
	Recipient int64
	Message   notify.Message
}

// RecordingNotifier captures outbound notifications and can simulate
// per-recipient delivery failures.
type RecordingNotifier struct {
	mu         sync.Mutex
	deliveries []Delivery
	failFor    map[int64]error
}

// NewRecordingNotifier returns an empty recorder.
func NewRecordingNotifier() *RecordingNotifier {
	return &RecordingNotifier{failFor: make(map[int64]error)}
}

// FailFor makes Send return err for the given recipient.
func (n *RecordingNotifier) FailFor(recipient int64, err error) {
	n.mu.Lock()
	n.failFor[recipient] = err
	n.mu.Unlock()
}

// Send implements notify.Notifier.
func (n *RecordingNotifier) Send(_ context.Context, recipient int64, msg notify.Message) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err, ok := n.failFor[recipient]; ok {
		return err
	}
	n.deliveries = append(n.deliveries, Delivery{Recipient: recipient, Message: msg})
	return nil
}

// Deliveries returns a copy of every successful send so far.
func (n *RecordingNotifier) Deliveries() []Delivery {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]Delivery, len(n.deliveries))
	copy(out, n.deliveries)
	return out
}

// DeliveriesTo filters recorded sends by recipient.
func (n *RecordingNotifier) DeliveriesTo(recipient int64) []Delivery {
	var out []Delivery
	for _, delivery := range n.Deliveries() {
		if delivery.Recipient == recipient {
			out = append(out, delivery)
		}
	}
	return out
}

// Reset drops all recorded deliveries.
func (n *RecordingNotifier) Reset() {
	n.mu.Lock()
	n.deliveries = nil
	n.mu.Unlock()
}
