package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
)

type notifierStub struct {
	mu       sync.Mutex
	sent     []int64
	failFor  map[int64]error
	messages []Message
}

func (n *notifierStub) Send(_ context.Context, recipient int64, msg Message) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err, ok := n.failFor[recipient]; ok {
		return err
	}
	n.sent = append(n.sent, recipient)
	n.messages = append(n.messages, msg)
	return nil
}

func TestDispatcher_FanoutDeliversToAll(t *testing.T) {
	t.Parallel()

	stub := &notifierStub{}
	dispatcher := NewDispatcher(stub, nil)

	delivered := dispatcher.Fanout(context.Background(), []int64{1, 2, 3}, Message{Text: "hello"})
	if delivered != 3 {
		t.Fatalf("expected 3 deliveries, got %d", delivered)
	}
	if len(stub.sent) != 3 {
		t.Fatalf("expected 3 sends, got %d", len(stub.sent))
	}
}

func TestDispatcher_SingleFailureDoesNotAbortBatch(t *testing.T) {
	t.Parallel()

	stub := &notifierStub{failFor: map[int64]error{2: errors.New("blocked the bot")}}
	dispatcher := NewDispatcher(stub, nil)

	delivered := dispatcher.Fanout(context.Background(), []int64{1, 2, 3}, Message{Text: "hello"})
	if delivered != 2 {
		t.Fatalf("expected 2 deliveries despite one failure, got %d", delivered)
	}
	for _, recipient := range stub.sent {
		if recipient == 2 {
			t.Fatal("failed recipient must not be counted as sent")
		}
	}
}

func TestDispatcher_EmptyBatch(t *testing.T) {
	t.Parallel()

	dispatcher := NewDispatcher(&notifierStub{}, nil)
	if delivered := dispatcher.Fanout(context.Background(), nil, Message{Text: "hello"}); delivered != 0 {
		t.Fatalf("expected no deliveries for empty batch, got %d", delivered)
	}
}
