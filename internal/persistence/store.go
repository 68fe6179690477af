package persistence

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrUnavailable indicates the backing storage could not complete the
	// operation. Callers log it and continue in memory; the next successful
	// save catches up.
	ErrUnavailable = errors.New("persistence: storage unavailable")
)

// SlotRecord is one allocation row: a strictly numeric slot number and its
// occupant.
type SlotRecord struct {
	Number int
	UserID int64
}

// SessionRecord is the durable form of one open sign-up session. Session
// metadata and the slot table are separate fields so slot numbers never
// collide with metadata keys.
type SessionRecord struct {
	Day      int // time.Weekday value, Sunday == 0
	Hour     int
	Minute   int
	Subject  string
	OpenedAt time.Time
	Slots    []SlotRecord
}

// NoticeRecord is one sent-notification dedup row.
type NoticeRecord struct {
	EventID string
	Date    string
}

// State is the full durable snapshot: three independent collections, each
// round-trippable to flat storage.
type State struct {
	Users    []int64
	Sessions []SessionRecord
	Notices  []NoticeRecord
}

// Store persists and recovers the full application snapshot.
//
// Load must tolerate missing or corrupt backing storage by returning empty
// collections and logging, never failing the caller. Save replaces the
// stored snapshot atomically.
type Store interface {
	Load(ctx context.Context) (State, error)
	Save(ctx context.Context, state State) error
	Close() error
}
