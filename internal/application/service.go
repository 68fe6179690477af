package application

import (
	"context"
	"log/slog"
	"time"

	"github.com/example/classbot/internal/booking"
	"github.com/example/classbot/internal/notify"
	"github.com/example/classbot/internal/persistence"
)

// Service handles discrete user events against the shared booking state and
// owns write-through persistence: every successful mutation is followed by a
// full snapshot save. The booking locks are never held across store I/O, so
// a slow or failing save cannot stall allocation.
type Service struct {
	roster   *booking.Roster
	registry *booking.Registry
	ledger   *notify.Ledger
	store    persistence.Store
	logger   *slog.Logger
}

// NewService wires the user-event service.
func NewService(roster *booking.Roster, registry *booking.Registry, ledger *notify.Ledger, store persistence.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		roster:   roster,
		registry: registry,
		ledger:   ledger,
		store:    store,
		logger:   logger,
	}
}

// RegisterUser adds the user to the notification roster. Registering an
// already known user is an observable no-op.
func (s *Service) RegisterUser(ctx context.Context, id booking.UserID) {
	if !s.roster.Add(id) {
		return
	}
	s.logger.Info("user registered", "user_id", id, "roster_size", s.roster.Len())
	s.Persist(ctx)
}

// ConfirmYes acknowledges a sign-up confirmation and returns the current
// masked slot grid, or booking.ErrSessionClosed when the window has expired.
func (s *Service) ConfirmYes(key booking.SessionKey, user booking.UserID) (booking.Grid, error) {
	return s.registry.Grid(key, user)
}

// ConfirmDecline acknowledges a declined sign-up. No state effect.
func (s *Service) ConfirmDecline() {}

// SelectSlot applies one slot selection and persists the resulting snapshot.
// The returned grid reflects the state immediately after the mutation so the
// transport can re-render.
func (s *Service) SelectSlot(ctx context.Context, key booking.SessionKey, slot int, user booking.UserID) (booking.SelectResult, booking.Grid, error) {
	result, err := s.registry.SelectSlot(key, slot, user)
	if err != nil {
		return booking.SelectResult{}, booking.Grid{}, err
	}

	grid, gridErr := s.registry.Grid(key, user)
	if gridErr != nil {
		// The close sweep removed the session between the mutation and the
		// re-render; the selection itself still happened.
		grid = booking.Grid{Key: key}
	}

	s.Persist(ctx)
	return result, grid, nil
}

// Grid returns the masked slot grid for re-rendering.
func (s *Service) Grid(key booking.SessionKey, viewer booking.UserID) (booking.Grid, error) {
	return s.registry.Grid(key, viewer)
}

// Sessions lists currently open sign-up windows.
func (s *Service) Sessions() []booking.SessionView {
	return s.registry.Sessions()
}

// Persist writes the full state snapshot. Failures are logged and swallowed:
// durability is best effort and the next successful save catches up.
func (s *Service) Persist(ctx context.Context) {
	state := persistence.State{
		Users:    s.roster.All(),
		Sessions: toSessionRecords(s.registry.Snapshot()),
		Notices:  toNoticeRecords(s.ledger.Snapshot()),
	}
	if err := s.store.Save(ctx, state); err != nil {
		s.logger.Error("state save failed, continuing in memory", "error", err)
	}
}

// Recover loads the persisted snapshot into the shared state. Missing or
// corrupt storage yields empty collections; recovery never fails startup.
func (s *Service) Recover(ctx context.Context) {
	state, err := s.store.Load(ctx)
	if err != nil {
		s.logger.Warn("state load failed, starting empty", "error", err)
		return
	}

	s.roster.Restore(state.Users)
	s.registry.Restore(toSessionSnapshots(state.Sessions))
	s.ledger.Restore(toLedgerRecords(state.Notices))

	s.logger.Info("state recovered",
		"users", len(state.Users),
		"sessions", len(state.Sessions),
		"notices", len(state.Notices),
	)
}

func toSessionRecords(snapshots []booking.SessionSnapshot) []persistence.SessionRecord {
	if len(snapshots) == 0 {
		return nil
	}
	records := make([]persistence.SessionRecord, 0, len(snapshots))
	for _, snap := range snapshots {
		record := persistence.SessionRecord{
			Day:      int(snap.Key.Day),
			Hour:     snap.Key.Hour,
			Minute:   snap.Key.Minute,
			Subject:  snap.Subject,
			OpenedAt: snap.OpenedAt,
			Slots:    make([]persistence.SlotRecord, 0, len(snap.Slots)),
		}
		for number, uid := range snap.Slots {
			record.Slots = append(record.Slots, persistence.SlotRecord{Number: number, UserID: uid})
		}
		records = append(records, record)
	}
	return records
}

func toSessionSnapshots(records []persistence.SessionRecord) []booking.SessionSnapshot {
	if len(records) == 0 {
		return nil
	}
	snapshots := make([]booking.SessionSnapshot, 0, len(records))
	for _, record := range records {
		snap := booking.SessionSnapshot{
			Key: booking.SessionKey{
				Day:    time.Weekday(record.Day),
				Hour:   record.Hour,
				Minute: record.Minute,
			},
			Subject:  record.Subject,
			OpenedAt: record.OpenedAt,
			Slots:    make(map[int]booking.UserID, len(record.Slots)),
		}
		for _, slot := range record.Slots {
			snap.Slots[slot.Number] = slot.UserID
		}
		snapshots = append(snapshots, snap)
	}
	return snapshots
}

func toNoticeRecords(records []notify.Record) []persistence.NoticeRecord {
	if len(records) == 0 {
		return nil
	}
	out := make([]persistence.NoticeRecord, 0, len(records))
	for _, record := range records {
		out = append(out, persistence.NoticeRecord{EventID: record.EventID, Date: record.Date})
	}
	return out
}

func toLedgerRecords(records []persistence.NoticeRecord) []notify.Record {
	if len(records) == 0 {
		return nil
	}
	out := make([]notify.Record, 0, len(records))
	for _, record := range records {
		out = append(out, notify.Record{EventID: record.EventID, Date: record.Date})
	}
	return out
}
