package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/example/classbot/internal/booking"
	"github.com/example/classbot/internal/logging"
)

var (
	errBadRequestBody = errors.New("invalid request body")
	errInvalidUserID  = errors.New("invalid user id")
	errInvalidKey     = errors.New("invalid session key")
	errInvalidSlot    = errors.New("invalid slot number")
)

type responder struct {
	logger *slog.Logger
}

func newResponder(logger *slog.Logger) responder {
	if logger == nil {
		logger = slog.Default()
	}
	return responder{logger: logger}
}

func (r responder) loggerFor(ctx context.Context) *slog.Logger {
	return logging.FromContextOrDefault(ctx, r.logger)
}

func (r responder) writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}

	if status == http.StatusNoContent || payload == nil {
		w.WriteHeader(status)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		r.loggerFor(ctx).ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

func (r responder) writeError(ctx context.Context, w http.ResponseWriter, status int, err error) {
	message := http.StatusText(status)
	if err != nil {
		message = err.Error()
	}
	r.writeJSON(ctx, w, status, map[string]string{"error": message})
}

// handleBookingError maps the booking error taxonomy onto HTTP statuses.
func (r responder) handleBookingError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, booking.ErrSessionClosed):
		r.writeError(ctx, w, http.StatusGone, err)
	case errors.Is(err, booking.ErrSlotBusy):
		r.writeError(ctx, w, http.StatusConflict, err)
	case errors.Is(err, booking.ErrInvalidSlot):
		r.writeError(ctx, w, http.StatusBadRequest, err)
	default:
		r.loggerFor(ctx).ErrorContext(ctx, "unexpected booking error", "error", err)
		r.writeError(ctx, w, http.StatusInternalServerError, nil)
	}
}
