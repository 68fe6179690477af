package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/example/classbot/internal/application"
	"github.com/example/classbot/internal/booking"
	"github.com/example/classbot/internal/notify"
	"github.com/example/classbot/internal/testfixtures"
)

func newTestRouter(t *testing.T) (http.Handler, *booking.Registry) {
	t.Helper()

	registry := booking.NewRegistry(3, time.Hour, nil)
	service := application.NewService(
		booking.NewRoster(),
		registry,
		notify.NewLedger(),
		testfixtures.NewMemoryStore(),
		nil,
	)
	router := NewRouter(RouterConfig{
		Booking: NewBookingHandler(service, nil),
	})
	return router, registry
}

func openWindow(t *testing.T, registry *booking.Registry) booking.SessionKey {
	t.Helper()
	key := booking.SessionKey{Day: time.Monday, Hour: 12, Minute: 40}
	registry.OpenSession(key, "Иностранный язык", testfixtures.ReferenceTime())
	return key
}

func do(t *testing.T, router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("{}")
	} else {
		reader = strings.NewReader(body)
	}
	request := httptest.NewRequest(method, target, reader)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	return recorder
}

func TestBookingHandler_Health(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t)
	response := do(t, router, http.MethodGet, "/healthz", "")
	if response.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", response.Code)
	}
}

func TestBookingHandler_Register(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t)

	if response := do(t, router, http.MethodPost, "/users/100", ""); response.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", response.Code)
	}
	if response := do(t, router, http.MethodPost, "/users/abc", ""); response.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a malformed id, got %d", response.Code)
	}
}

func TestBookingHandler_ListSessions(t *testing.T) {
	t.Parallel()

	router, registry := newTestRouter(t)
	openWindow(t, registry)

	response := do(t, router, http.MethodGet, "/sessions", "")
	if response.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", response.Code)
	}

	var payload struct {
		Sessions []sessionDTO `json:"sessions"`
	}
	if err := json.Unmarshal(response.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(payload.Sessions) != 1 {
		t.Fatalf("expected one open session, got %d", len(payload.Sessions))
	}
	if payload.Sessions[0].Key != "monday_12:40" || payload.Sessions[0].Subject != "Иностранный язык" {
		t.Fatalf("unexpected session %+v", payload.Sessions[0])
	}
}

func TestBookingHandler_SelectFlow(t *testing.T) {
	t.Parallel()

	router, registry := newTestRouter(t)
	key := openWindow(t, registry)

	response := do(t, router, http.MethodPost, "/sessions/"+key.String()+"/slots/2", `{"user_id":100}`)
	if response.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", response.Code, response.Body)
	}
	var selected selectDTO
	if err := json.Unmarshal(response.Body.Bytes(), &selected); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if selected.Outcome != "assigned" || selected.Slot != 2 {
		t.Fatalf("unexpected selection %+v", selected)
	}
	if selected.Grid.Slots[1].State != "held" {
		t.Fatalf("grid must show the viewer's slot as held: %+v", selected.Grid)
	}

	// Another user sees the slot as taken and cannot steal it.
	response = do(t, router, http.MethodPost, "/sessions/"+key.String()+"/slots/2", `{"user_id":200}`)
	if response.Code != http.StatusConflict {
		t.Fatalf("expected 409 for an occupied slot, got %d", response.Code)
	}

	// Re-selecting toggles the slot off.
	response = do(t, router, http.MethodPost, "/sessions/"+key.String()+"/slots/2", `{"user_id":100}`)
	if response.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", response.Code)
	}
	if err := json.Unmarshal(response.Body.Bytes(), &selected); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if selected.Outcome != "released" {
		t.Fatalf("expected release on toggle, got %+v", selected)
	}
}

func TestBookingHandler_ErrorMapping(t *testing.T) {
	t.Parallel()

	router, registry := newTestRouter(t)
	key := openWindow(t, registry)

	cases := []struct {
		name   string
		method string
		target string
		body   string
		status int
	}{
		{"closed session is gone", http.MethodPost, "/sessions/friday_09:00/slots/1", `{"user_id":100}`, http.StatusGone},
		{"out-of-range slot", http.MethodPost, "/sessions/" + key.String() + "/slots/99", `{"user_id":100}`, http.StatusBadRequest},
		{"malformed key", http.MethodGet, "/sessions/notakey/grid?viewer=100", "", http.StatusBadRequest},
		{"malformed body", http.MethodPost, "/sessions/" + key.String() + "/slots/1", `not json`, http.StatusBadRequest},
		{"missing viewer", http.MethodGet, "/sessions/" + key.String() + "/grid", "", http.StatusBadRequest},
		{"grid for closed session", http.MethodGet, "/sessions/friday_09:00/grid?viewer=100", "", http.StatusGone},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			response := do(t, router, tc.method, tc.target, tc.body)
			if response.Code != tc.status {
				t.Fatalf("expected %d, got %d: %s", tc.status, response.Code, response.Body)
			}
		})
	}
}

func TestBookingHandler_Confirm(t *testing.T) {
	t.Parallel()

	router, registry := newTestRouter(t)
	key := openWindow(t, registry)

	response := do(t, router, http.MethodPost, "/sessions/"+key.String()+"/confirm", `{"user_id":100}`)
	if response.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", response.Code)
	}
	var grid gridDTO
	if err := json.Unmarshal(response.Body.Bytes(), &grid); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if grid.Key != key.String() || len(grid.Slots) != 3 {
		t.Fatalf("unexpected grid %+v", grid)
	}
	for _, slot := range grid.Slots {
		if slot.State != "free" {
			t.Fatalf("fresh window must render all slots free, got %+v", slot)
		}
	}
}
