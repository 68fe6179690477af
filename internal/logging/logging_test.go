package logging

import (
	"context"
	"io"
	"log/slog"
	"testing"
)

func TestContextLoggerRoundTrip(t *testing.T) {
	t.Parallel()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := ContextWithLogger(context.Background(), logger)

	if got := FromContext(ctx); got != logger {
		t.Fatal("expected the attached logger back")
	}
	if got := FromContext(context.Background()); got != nil {
		t.Fatal("expected nil for a bare context")
	}
}

func TestContextWithLogger_NilInputs(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	if got := ContextWithLogger(ctx, nil); got != ctx {
		t.Fatal("a nil logger must leave the context untouched")
	}
}

func TestFromContextOrDefault(t *testing.T) {
	t.Parallel()

	attached := slog.New(slog.NewTextHandler(io.Discard, nil))
	fallback := slog.New(slog.NewTextHandler(io.Discard, nil))

	ctx := ContextWithLogger(context.Background(), attached)
	if got := FromContextOrDefault(ctx, fallback); got != attached {
		t.Fatal("the context logger must win over the fallback")
	}
	if got := FromContextOrDefault(context.Background(), fallback); got != fallback {
		t.Fatal("the fallback must win over the default")
	}
	if got := FromContextOrDefault(context.Background(), nil); got != slog.Default() {
		t.Fatal("expected slog.Default as the last resort")
	}
}
