package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/example/classbot/internal/booking"
	"github.com/gorilla/mux"
)

type bookingService interface {
	RegisterUser(ctx context.Context, id booking.UserID)
	ConfirmYes(key booking.SessionKey, user booking.UserID) (booking.Grid, error)
	SelectSlot(ctx context.Context, key booking.SessionKey, slot int, user booking.UserID) (booking.SelectResult, booking.Grid, error)
	Grid(key booking.SessionKey, viewer booking.UserID) (booking.Grid, error)
	Sessions() []booking.SessionView
}

// BookingHandler exposes the operational REST surface over the booking core.
type BookingHandler struct {
	service   bookingService
	responder responder
	logger    *slog.Logger
}

// NewBookingHandler wires the handler with its service and logger.
func NewBookingHandler(service bookingService, logger *slog.Logger) *BookingHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &BookingHandler{service: service, responder: newResponder(logger), logger: logger}
}

type userIDBody struct {
	UserID int64 `json:"user_id"`
}

type sessionDTO struct {
	Key      string    `json:"key"`
	Subject  string    `json:"subject"`
	OpenedAt time.Time `json:"opened_at"`
	Booked   int       `json:"booked"`
}

type slotDTO struct {
	Number int    `json:"number"`
	State  string `json:"state"`
}

type gridDTO struct {
	Key     string    `json:"key"`
	Subject string    `json:"subject"`
	Slots   []slotDTO `json:"slots"`
}

type selectDTO struct {
	Outcome string  `json:"outcome"`
	Slot    int     `json:"slot"`
	Grid    gridDTO `json:"grid"`
}

// Register handles POST /users/{id}.
func (h *BookingHandler) Register(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidUserID)
		return
	}
	h.service.RegisterUser(r.Context(), id)
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

// List handles GET /sessions.
func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	views := h.service.Sessions()
	sessions := make([]sessionDTO, 0, len(views))
	for _, view := range views {
		sessions = append(sessions, sessionDTO{
			Key:      view.Key.String(),
			Subject:  view.Subject,
			OpenedAt: view.OpenedAt,
			Booked:   view.Booked,
		})
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, map[string]any{"sessions": sessions})
}

// Grid handles GET /sessions/{key}/grid?viewer=<id>.
func (h *BookingHandler) Grid(w http.ResponseWriter, r *http.Request) {
	key, err := booking.ParseSessionKey(mux.Vars(r)["key"])
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidKey)
		return
	}
	viewer, err := strconv.ParseInt(r.URL.Query().Get("viewer"), 10, 64)
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidUserID)
		return
	}

	grid, err := h.service.Grid(key, viewer)
	if err != nil {
		h.responder.handleBookingError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toGridDTO(grid))
}

// Confirm handles POST /sessions/{key}/confirm.
func (h *BookingHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	key, err := booking.ParseSessionKey(mux.Vars(r)["key"])
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidKey)
		return
	}

	var body userIDBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	grid, err := h.service.ConfirmYes(key, body.UserID)
	if err != nil {
		h.responder.handleBookingError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toGridDTO(grid))
}

// Select handles POST /sessions/{key}/slots/{slot}.
func (h *BookingHandler) Select(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	key, err := booking.ParseSessionKey(vars["key"])
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidKey)
		return
	}
	slot, err := strconv.Atoi(vars["slot"])
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidSlot)
		return
	}

	var body userIDBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	result, grid, err := h.service.SelectSlot(r.Context(), key, slot, body.UserID)
	if err != nil {
		h.responder.handleBookingError(r.Context(), w, err)
		return
	}

	outcome := "assigned"
	if result.Outcome == booking.OutcomeReleased {
		outcome = "released"
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, selectDTO{
		Outcome: outcome,
		Slot:    result.Slot,
		Grid:    toGridDTO(grid),
	})
}

// Health handles GET /healthz.
func (h *BookingHandler) Health(w http.ResponseWriter, r *http.Request) {
	h.responder.writeJSON(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
}

func toGridDTO(grid booking.Grid) gridDTO {
	dto := gridDTO{Key: grid.Key.String(), Subject: grid.Subject, Slots: make([]slotDTO, 0, len(grid.Slots))}
	for _, slot := range grid.Slots {
		state := "free"
		switch slot.State {
		case booking.SlotHeld:
			state = "held"
		case booking.SlotTaken:
			state = "taken"
		}
		dto.Slots = append(dto.Slots, slotDTO{Number: slot.Number, State: state})
	}
	return dto
}
