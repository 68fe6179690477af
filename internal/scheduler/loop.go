package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/example/classbot/internal/booking"
	"github.com/example/classbot/internal/notify"
	"github.com/example/classbot/internal/timetable"
)

// Persister writes the current state snapshot to durable storage.
type Persister interface {
	Persist(ctx context.Context)
}

// Loop drives the session-window lifecycle: each tick it closes expired
// sign-up windows, fires due schedule notifications exactly once per
// calendar day, prunes the dedup ledger, and persists state when anything
// changed. A tick's work is bounded by the catalog and registry sizes; no
// failure inside a tick stops subsequent ticks.
type Loop struct {
	catalog    timetable.Catalog
	registry   *booking.Registry
	roster     *booking.Roster
	ledger     *notify.Ledger
	dispatcher *notify.Dispatcher
	persister  Persister
	interval   time.Duration
	location   *time.Location
	now        func() time.Time
	logger     *slog.Logger
}

// Config wires the collaborators of a Loop.
type Config struct {
	Catalog    timetable.Catalog
	Registry   *booking.Registry
	Roster     *booking.Roster
	Ledger     *notify.Ledger
	Dispatcher *notify.Dispatcher
	Persister  Persister
	Interval   time.Duration
	Location   *time.Location
	Now        func() time.Time
	Logger     *slog.Logger
}

// NewLoop constructs a Loop, applying defaults for interval, location, clock
// and logger.
func NewLoop(cfg Config) *Loop {
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Second
	}
	if cfg.Location == nil {
		// The service runs on one fixed zone; the host zone never leaks into
		// scheduling decisions.
		cfg.Location = time.FixedZone("UTC+3", 3*60*60)
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Loop{
		catalog:    cfg.Catalog,
		registry:   cfg.Registry,
		roster:     cfg.Roster,
		ledger:     cfg.Ledger,
		dispatcher: cfg.Dispatcher,
		persister:  cfg.Persister,
		interval:   cfg.Interval,
		location:   cfg.Location,
		now:        cfg.Now,
		logger:     cfg.Logger,
	}
}

// Run ticks immediately and then on the configured interval until ctx is
// done.
func (l *Loop) Run(ctx context.Context) {
	l.Tick(ctx)

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			l.logger.Info("scheduler loop stopping", "reason", ctx.Err())
			return
		case <-ticker.C:
			l.Tick(ctx)
		}
	}
}

// Tick performs one pass: close expired windows, fire due notifications,
// prune the ledger, persist if anything mutated.
func (l *Loop) Tick(ctx context.Context) {
	now := l.now().In(l.location)
	today := notify.DateOf(now)
	changed := false

	for _, closed := range l.registry.CloseExpired(now) {
		changed = true
		l.logger.Info("session closed", "session", closed.Key.String(), "subject", closed.Subject, "occupants", len(closed.Occupants))
		l.dispatcher.Fanout(ctx, closed.Occupants, notify.Message{
			Text: closedMessage(closed.Subject, closed.Key),
		})
	}

	for _, entry := range l.catalog.At(now.Weekday(), now.Hour(), now.Minute()) {
		if !l.ledger.Mark(entry.EventID(), today) {
			continue
		}
		changed = true

		switch entry.Kind {
		case timetable.KindLecture:
			l.logger.Info("lecture starting", "subject", entry.Subject, "event", entry.EventID())
			l.dispatcher.Fanout(ctx, l.roster.All(), notify.Message{
				Text: lectureMessage(entry),
			})
		case timetable.KindPractice:
			key := booking.SessionKey{Day: entry.Day, Hour: entry.Hour, Minute: entry.Minute}
			if !l.registry.OpenSession(key, entry.Subject, now) {
				// Restored from a snapshot before this tick; the sign-up
				// notice already went out in a previous run.
				continue
			}
			l.logger.Info("sign-up window opened", "session", key.String(), "subject", entry.Subject)
			l.dispatcher.Fanout(ctx, l.roster.All(), notify.Message{
				Text:       openedMessage(entry, l.registry.RecordingDuration()),
				ConfirmKey: key.String(),
			})
		}
	}

	if pruned := l.ledger.Prune(now); pruned > 0 {
		l.logger.Info("pruned stale notice records", "count", pruned)
		changed = true
	}

	if changed && l.persister != nil {
		l.persister.Persist(ctx)
	}
}
