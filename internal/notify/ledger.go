package notify

import (
	"sort"
	"sync"
	"time"
)

// Record is one sent-notification dedup entry: an event identity plus the
// calendar date it fired on. The date is an explicit field so pruning can
// compare dates instead of matching substrings inside opaque keys.
type Record struct {
	EventID string
	Date    string // ISO calendar date, e.g. "2026-09-01"
}

// DateOf formats a timestamp as the ledger's calendar-date form.
func DateOf(t time.Time) string {
	return t.Format("2006-01-02")
}

// Ledger tracks which (event, date) pairs have already produced a
// notification, so coarse polling can overlap a scheduled instant more than
// once without re-firing. Entries are pruned once their date is older than
// yesterday.
type Ledger struct {
	mu   sync.Mutex
	sent map[Record]struct{}
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{sent: make(map[Record]struct{})}
}

// Mark records that the event fired on the given date and reports whether
// the pair was newly recorded. A false return means the notification was
// already sent and must not fire again.
func (l *Ledger) Mark(eventID string, date string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	record := Record{EventID: eventID, Date: date}
	if _, ok := l.sent[record]; ok {
		return false
	}
	l.sent[record] = struct{}{}
	return true
}

// Contains reports whether the pair has been recorded.
func (l *Ledger) Contains(eventID string, date string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.sent[Record{EventID: eventID, Date: date}]
	return ok
}

// Prune drops every record whose date is strictly older than the day before
// today, bounding ledger growth. ISO dates order lexicographically, so plain
// string comparison is a calendar comparison. The number of dropped records
// is returned.
func (l *Ledger) Prune(today time.Time) int {
	cutoff := DateOf(today.AddDate(0, 0, -1))

	l.mu.Lock()
	defer l.mu.Unlock()

	dropped := 0
	for record := range l.sent {
		if record.Date < cutoff {
			delete(l.sent, record)
			dropped++
		}
	}
	return dropped
}

// Snapshot copies the ledger for persistence, ordered deterministically.
func (l *Ledger) Snapshot() []Record {
	l.mu.Lock()
	defer l.mu.Unlock()

	records := make([]Record, 0, len(l.sent))
	for record := range l.sent {
		records = append(records, record)
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].Date != records[j].Date {
			return records[i].Date < records[j].Date
		}
		return records[i].EventID < records[j].EventID
	})
	return records
}

// Restore replaces ledger state with a loaded snapshot.
func (l *Ledger) Restore(records []Record) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.sent = make(map[Record]struct{}, len(records))
	for _, record := range records {
		l.sent[record] = struct{}{}
	}
}
