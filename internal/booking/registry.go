package booking

import (
	"log/slog"
	"sort"
	"sync"
	"time"
)

// UserID identifies a registered recipient. Telegram chat identifiers are
// 64-bit integers, so the HTTP surface uses the same type.
type UserID = int64

// session is the registry-owned record of one open sign-up window. Metadata
// and the slot table are separate fields; slot numbers never share key space
// with anything else.
type session struct {
	key      SessionKey
	subject  string
	openedAt time.Time
	slots    map[int]UserID
}

// ClosedSession reports a window removed by the expiry sweep so the caller
// can dispatch confirmation notices.
type ClosedSession struct {
	Key       SessionKey
	Subject   string
	Occupants []UserID
}

// SessionView is a copy of registry state safe to hand to transports.
type SessionView struct {
	Key      SessionKey
	Subject  string
	OpenedAt time.Time
	Booked   int
}

// Registry owns every currently open sign-up session. A single mutex guards
// all session state: allocation attempts and open/close sweeps are mutually
// exclusive, and a session is never partially visible. The lock is never held
// across I/O; callers persist snapshots after the mutation returns.
type Registry struct {
	mu       sync.Mutex
	maxSlots int
	duration time.Duration
	sessions map[SessionKey]*session
	logger   *slog.Logger
}

// NewRegistry constructs an empty registry. maxSlots bounds the roster of
// every session; recordingDuration is how long a window stays open.
func NewRegistry(maxSlots int, recordingDuration time.Duration, logger *slog.Logger) *Registry {
	if maxSlots <= 0 {
		maxSlots = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		maxSlots: maxSlots,
		duration: recordingDuration,
		sessions: make(map[SessionKey]*session),
		logger:   logger,
	}
}

// MaxSlots returns the per-session slot capacity.
func (r *Registry) MaxSlots() int {
	return r.maxSlots
}

// RecordingDuration returns how long a window stays open after OpenSession.
func (r *Registry) RecordingDuration() time.Duration {
	return r.duration
}

// OpenSession creates a new sign-up window. Opening an already open key is a
// logged no-op; the return value reports whether a window was created.
func (r *Registry) OpenSession(key SessionKey, subject string, now time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sessions[key]; exists {
		r.logger.Info("session already open, skipping", "session", key.String(), "subject", subject)
		return false
	}

	r.sessions[key] = &session{
		key:      key,
		subject:  subject,
		openedAt: now,
		slots:    make(map[int]UserID),
	}
	return true
}

// CloseExpired removes every session whose window has elapsed and returns the
// closures so the caller can notify occupants. Removal is atomic per session:
// once this returns, no allocation can land on a closed key.
func (r *Registry) CloseExpired(now time.Time) []ClosedSession {
	r.mu.Lock()
	defer r.mu.Unlock()

	var closed []ClosedSession
	for key, sess := range r.sessions {
		if now.Sub(sess.openedAt) <= r.duration {
			continue
		}
		occupants := make([]UserID, 0, len(sess.slots))
		for _, uid := range sess.slots {
			occupants = append(occupants, uid)
		}
		sort.Slice(occupants, func(i, j int) bool { return occupants[i] < occupants[j] })
		closed = append(closed, ClosedSession{Key: key, Subject: sess.subject, Occupants: occupants})
		delete(r.sessions, key)
	}

	sort.Slice(closed, func(i, j int) bool { return closed[i].Key.String() < closed[j].Key.String() })
	return closed
}

// Lookup reports the session for key, if it is currently open.
func (r *Registry) Lookup(key SessionKey) (SessionView, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, ok := r.sessions[key]
	if !ok {
		return SessionView{}, false
	}
	return SessionView{Key: sess.key, Subject: sess.subject, OpenedAt: sess.openedAt, Booked: len(sess.slots)}, true
}

// Sessions lists every open session ordered by key.
func (r *Registry) Sessions() []SessionView {
	r.mu.Lock()
	defer r.mu.Unlock()

	views := make([]SessionView, 0, len(r.sessions))
	for _, sess := range r.sessions {
		views = append(views, SessionView{Key: sess.key, Subject: sess.subject, OpenedAt: sess.openedAt, Booked: len(sess.slots)})
	}
	sort.Slice(views, func(i, j int) bool { return views[i].Key.String() < views[j].Key.String() })
	return views
}

// SessionSnapshot is the flat, persistable form of one open session.
type SessionSnapshot struct {
	Key      SessionKey
	Subject  string
	OpenedAt time.Time
	Slots    map[int]UserID
}

// Snapshot copies the full registry state for persistence.
func (r *Registry) Snapshot() []SessionSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	snapshots := make([]SessionSnapshot, 0, len(r.sessions))
	for _, sess := range r.sessions {
		slots := make(map[int]UserID, len(sess.slots))
		for number, uid := range sess.slots {
			slots[number] = uid
		}
		snapshots = append(snapshots, SessionSnapshot{
			Key:      sess.key,
			Subject:  sess.subject,
			OpenedAt: sess.openedAt,
			Slots:    slots,
		})
	}
	sort.Slice(snapshots, func(i, j int) bool { return snapshots[i].Key.String() < snapshots[j].Key.String() })
	return snapshots
}

// Restore replaces registry state with a loaded snapshot. Slot numbers
// outside the valid range are dropped with a warning rather than failing the
// whole load.
func (r *Registry) Restore(snapshots []SessionSnapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions = make(map[SessionKey]*session, len(snapshots))
	for _, snap := range snapshots {
		slots := make(map[int]UserID, len(snap.Slots))
		for number, uid := range snap.Slots {
			if number < 1 || number > r.maxSlots {
				r.logger.Warn("dropping out-of-range slot from snapshot", "session", snap.Key.String(), "slot", number)
				continue
			}
			slots[number] = uid
		}
		r.sessions[snap.Key] = &session{
			key:      snap.Key,
			subject:  snap.Subject,
			openedAt: snap.OpenedAt,
			slots:    slots,
		}
	}
}
