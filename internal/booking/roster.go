package booking

import (
	"sort"
	"sync"
)

// Roster is the append-only set of registered notification recipients.
// Entries are only ever removed by replacing the whole set from a loaded
// snapshot.
type Roster struct {
	mu    sync.Mutex
	users map[UserID]struct{}
}

// NewRoster returns an empty roster.
func NewRoster() *Roster {
	return &Roster{users: make(map[UserID]struct{})}
}

// Add registers a user and reports whether the roster grew. Re-registering
// is a no-op.
func (r *Roster) Add(id UserID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; ok {
		return false
	}
	r.users[id] = struct{}{}
	return true
}

// Contains reports whether the user is registered.
func (r *Roster) Contains(id UserID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.users[id]
	return ok
}

// Len returns the number of registered users.
func (r *Roster) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users)
}

// All returns the registered users in ascending order.
func (r *Roster) All() []UserID {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]UserID, 0, len(r.users))
	for id := range r.users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Restore replaces the roster with a loaded snapshot.
func (r *Roster) Restore(ids []UserID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.users = make(map[UserID]struct{}, len(ids))
	for _, id := range ids {
		r.users[id] = struct{}{}
	}
}
