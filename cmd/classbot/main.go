package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/example/classbot/internal/application"
	"github.com/example/classbot/internal/booking"
	"github.com/example/classbot/internal/config"
	httptransport "github.com/example/classbot/internal/http"
	"github.com/example/classbot/internal/notify"
	"github.com/example/classbot/internal/persistence/sqlite"
	"github.com/example/classbot/internal/scheduler"
	"github.com/example/classbot/internal/telegram"
	"github.com/example/classbot/internal/timetable"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger); err != nil {
		logger.Error("classbot failed", "error", err)
		stop()
		os.Exit(1)
	}
}

// run wires and drives the process; returning instead of exiting keeps the
// deferred cleanup (notably closing storage) on every error path.
func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	store, err := sqlite.Open(cfg.SQLiteDSN, logger)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	roster := booking.NewRoster()
	registry := booking.NewRegistry(cfg.MaxSlots, cfg.RecordingDuration, logger)
	ledger := notify.NewLedger()
	service := application.NewService(roster, registry, ledger, store, logger)
	service.Recover(ctx)

	transport, err := telegram.NewTransport(cfg.TelegramToken, service, logger)
	if err != nil {
		return fmt.Errorf("start telegram transport: %w", err)
	}
	dispatcher := notify.NewDispatcher(transport, logger)

	loop := scheduler.NewLoop(scheduler.Config{
		Catalog:    timetable.Default(),
		Registry:   registry,
		Roster:     roster,
		Ledger:     ledger,
		Dispatcher: dispatcher,
		Persister:  service,
		Interval:   cfg.TickInterval,
		Location:   cfg.Location(),
		Logger:     logger,
	})

	bookingHandler := httptransport.NewBookingHandler(service, logger)
	router := httptransport.NewRouter(httptransport.RouterConfig{
		Booking:    bookingHandler,
		Middleware: []func(http.Handler) http.Handler{httptransport.RequestLogger(logger)},
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		loop.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		transport.Run(ctx)
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("classbot API listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		cancel()
	}

	wg.Wait()
	service.Persist(context.Background())
	logger.Info("classbot stopped")
	return nil
}
