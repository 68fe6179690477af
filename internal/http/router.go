package http

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RouterConfig wires handlers and middleware into the router.
type RouterConfig struct {
	Booking    *BookingHandler
	Middleware []func(http.Handler) http.Handler
}

// NewRouter builds the operational API router.
func NewRouter(cfg RouterConfig) http.Handler {
	router := mux.NewRouter()

	if cfg.Booking != nil {
		router.HandleFunc("/healthz", cfg.Booking.Health).Methods(http.MethodGet)
		router.HandleFunc("/users/{id}", cfg.Booking.Register).Methods(http.MethodPost)
		router.HandleFunc("/sessions", cfg.Booking.List).Methods(http.MethodGet)
		router.HandleFunc("/sessions/{key}/grid", cfg.Booking.Grid).Methods(http.MethodGet)
		router.HandleFunc("/sessions/{key}/confirm", cfg.Booking.Confirm).Methods(http.MethodPost)
		router.HandleFunc("/sessions/{key}/slots/{slot}", cfg.Booking.Select).Methods(http.MethodPost)
	}

	var handler http.Handler = router
	for i := len(cfg.Middleware) - 1; i >= 0; i-- {
		if cfg.Middleware[i] != nil {
			handler = cfg.Middleware[i](handler)
		}
	}
	return handler
}
