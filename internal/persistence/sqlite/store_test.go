package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/example/classbot/internal/persistence"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(filepath.Join(t.TempDir(), "classbot.db"), nil)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("close store: %v", err)
		}
	})
	return store
}

func testState() persistence.State {
	openedAt := time.Date(2026, time.September, 7, 12, 40, 0, 123456789, time.FixedZone("UTC+3", 3*60*60))
	return persistence.State{
		Users: []int64{100, 200, 300},
		Sessions: []persistence.SessionRecord{{
			Day:      1,
			Hour:     12,
			Minute:   40,
			Subject:  "Иностранный язык",
			OpenedAt: openedAt,
			Slots: []persistence.SlotRecord{
				{Number: 3, UserID: 100},
				{Number: 7, UserID: 200},
			},
		}},
		Notices: []persistence.NoticeRecord{
			{EventID: "1_12:40_practice_Иностранный язык", Date: "2026-09-07"},
			{EventID: "1_09:00_lecture_Философия", Date: "2026-09-07"},
		},
	}
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	ctx := context.Background()
	saved := testState()

	if err := store.Save(ctx, saved); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if len(loaded.Users) != 3 || loaded.Users[0] != 100 || loaded.Users[2] != 300 {
		t.Fatalf("unexpected users %v", loaded.Users)
	}

	if len(loaded.Sessions) != 1 {
		t.Fatalf("expected one session, got %d", len(loaded.Sessions))
	}
	session := loaded.Sessions[0]
	if session.Day != 1 || session.Hour != 12 || session.Minute != 40 || session.Subject != "Иностранный язык" {
		t.Fatalf("unexpected session %+v", session)
	}
	// Timestamps survive to the nanosecond; the instant matters, not the zone.
	if !session.OpenedAt.Equal(saved.Sessions[0].OpenedAt) {
		t.Fatalf("opened_at must round-trip: %v != %v", session.OpenedAt, saved.Sessions[0].OpenedAt)
	}
	if len(session.Slots) != 2 || session.Slots[0].Number != 3 || session.Slots[1].UserID != 200 {
		t.Fatalf("unexpected allocations %+v", session.Slots)
	}

	if len(loaded.Notices) != 2 {
		t.Fatalf("expected two notices, got %d", len(loaded.Notices))
	}
	if loaded.Notices[0].Date != "2026-09-07" {
		t.Fatalf("unexpected notice %+v", loaded.Notices[0])
	}
}

func TestStore_SaveReplacesPreviousSnapshot(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, testState()); err != nil {
		t.Fatalf("first save: %v", err)
	}
	if err := store.Save(ctx, persistence.State{Users: []int64{42}}); err != nil {
		t.Fatalf("second save: %v", err)
	}

	loaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded.Users) != 1 || loaded.Users[0] != 42 {
		t.Fatalf("save must replace the roster wholesale, got %v", loaded.Users)
	}
	if len(loaded.Sessions) != 0 || len(loaded.Notices) != 0 {
		t.Fatalf("stale sessions or notices survived the save: %+v", loaded)
	}
}

func TestStore_LoadFromFreshDatabaseIsEmpty(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)

	loaded, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded.Users) != 0 || len(loaded.Sessions) != 0 || len(loaded.Notices) != 0 {
		t.Fatalf("fresh database must load empty, got %+v", loaded)
	}
}

func TestStore_ReopenPersistsAcrossHandles(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "classbot.db")
	ctx := context.Background()

	first, err := Open(path, nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := first.Save(ctx, testState()); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	second, err := Open(path, nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer second.Close()

	loaded, err := second.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded.Users) != 3 || len(loaded.Sessions) != 1 || len(loaded.Notices) != 2 {
		t.Fatalf("snapshot must survive a process restart, got %+v", loaded)
	}
}
