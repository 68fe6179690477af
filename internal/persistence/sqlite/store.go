package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/classbot/internal/persistence"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY
);

CREATE TABLE IF NOT EXISTS sessions (
	day INTEGER NOT NULL,
	hour INTEGER NOT NULL,
	minute INTEGER NOT NULL,
	subject TEXT NOT NULL,
	opened_at TEXT NOT NULL,
	PRIMARY KEY (day, hour, minute)
);

CREATE TABLE IF NOT EXISTS allocations (
	day INTEGER NOT NULL,
	hour INTEGER NOT NULL,
	minute INTEGER NOT NULL,
	slot_number INTEGER NOT NULL,
	user_id INTEGER NOT NULL,
	PRIMARY KEY (day, hour, minute, slot_number),
	FOREIGN KEY (day, hour, minute) REFERENCES sessions(day, hour, minute) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS notices (
	event_id TEXT NOT NULL,
	sent_date TEXT NOT NULL,
	PRIMARY KEY (event_id, sent_date)
);
`

// Store is the SQLite implementation of persistence.Store. It keeps the
// whole application snapshot in four flat tables and replaces it wholesale
// on every save; at tens of users and a handful of sessions this is cheaper
// than tracking deltas.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens (creating if needed) the SQLite database at dsn and ensures the
// schema exists.
func Open(dsn string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// modernc.org/sqlite serializes writes; a single connection avoids
	// SQLITE_BUSY under concurrent saves.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialise schema: %w", err)
	}

	return &Store{db: db, logger: logger}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Load reads the stored snapshot. Corrupt rows are skipped with a warning
// and failed queries yield empty collections: recovery never blocks startup.
func (s *Store) Load(ctx context.Context) (persistence.State, error) {
	state := persistence.State{}

	state.Users = s.loadUsers(ctx)
	state.Sessions = s.loadSessions(ctx)
	state.Notices = s.loadNotices(ctx)

	return state, nil
}

func (s *Store) loadUsers(ctx context.Context) []int64 {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM users ORDER BY id`)
	if err != nil {
		s.logger.Warn("failed to load users, starting empty", "error", err)
		return nil
	}
	defer rows.Close()

	var users []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			s.logger.Warn("skipping unreadable user row", "error", err)
			continue
		}
		users = append(users, id)
	}
	if err := rows.Err(); err != nil {
		s.logger.Warn("user rows terminated early", "error", err)
	}
	return users
}

func (s *Store) loadSessions(ctx context.Context) []persistence.SessionRecord {
	rows, err := s.db.QueryContext(ctx, `SELECT day, hour, minute, subject, opened_at FROM sessions ORDER BY day, hour, minute`)
	if err != nil {
		s.logger.Warn("failed to load sessions, starting empty", "error", err)
		return nil
	}
	defer rows.Close()

	var sessions []persistence.SessionRecord
	for rows.Next() {
		var record persistence.SessionRecord
		var openedAt string
		if err := rows.Scan(&record.Day, &record.Hour, &record.Minute, &record.Subject, &openedAt); err != nil {
			s.logger.Warn("skipping unreadable session row", "error", err)
			continue
		}
		parsed, err := time.Parse(time.RFC3339Nano, openedAt)
		if err != nil {
			s.logger.Warn("skipping session with unparseable opened_at",
				"day", record.Day, "hour", record.Hour, "minute", record.Minute, "error", err)
			continue
		}
		record.OpenedAt = parsed
		sessions = append(sessions, record)
	}
	if err := rows.Err(); err != nil {
		s.logger.Warn("session rows terminated early", "error", err)
	}

	for i := range sessions {
		sessions[i].Slots = s.loadAllocations(ctx, sessions[i])
	}
	return sessions
}

func (s *Store) loadAllocations(ctx context.Context, session persistence.SessionRecord) []persistence.SlotRecord {
	rows, err := s.db.QueryContext(ctx,
		`SELECT slot_number, user_id FROM allocations WHERE day = ? AND hour = ? AND minute = ? ORDER BY slot_number`,
		session.Day, session.Hour, session.Minute,
	)
	if err != nil {
		s.logger.Warn("failed to load allocations", "day", session.Day, "hour", session.Hour, "minute", session.Minute, "error", err)
		return nil
	}
	defer rows.Close()

	var slots []persistence.SlotRecord
	for rows.Next() {
		var slot persistence.SlotRecord
		if err := rows.Scan(&slot.Number, &slot.UserID); err != nil {
			s.logger.Warn("skipping unreadable allocation row", "error", err)
			continue
		}
		slots = append(slots, slot)
	}
	if err := rows.Err(); err != nil {
		s.logger.Warn("allocation rows terminated early", "error", err)
	}
	return slots
}

func (s *Store) loadNotices(ctx context.Context) []persistence.NoticeRecord {
	rows, err := s.db.QueryContext(ctx, `SELECT event_id, sent_date FROM notices ORDER BY sent_date, event_id`)
	if err != nil {
		s.logger.Warn("failed to load notices, starting empty", "error", err)
		return nil
	}
	defer rows.Close()

	var notices []persistence.NoticeRecord
	for rows.Next() {
		var notice persistence.NoticeRecord
		if err := rows.Scan(&notice.EventID, &notice.Date); err != nil {
			s.logger.Warn("skipping unreadable notice row", "error", err)
			continue
		}
		notices = append(notices, notice)
	}
	if err := rows.Err(); err != nil {
		s.logger.Warn("notice rows terminated early", "error", err)
	}
	return notices
}

// Save replaces the stored snapshot in a single transaction.
func (s *Store) Save(ctx context.Context, state persistence.State) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", persistence.ErrUnavailable, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, table := range []string{"allocations", "sessions", "users", "notices"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return fmt.Errorf("%w: clearing %s: %v", persistence.ErrUnavailable, table, err)
		}
	}

	for _, id := range state.Users {
		if _, err := tx.ExecContext(ctx, `INSERT INTO users (id) VALUES (?)`, id); err != nil {
			return fmt.Errorf("%w: inserting user: %v", persistence.ErrUnavailable, err)
		}
	}

	for _, session := range state.Sessions {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO sessions (day, hour, minute, subject, opened_at) VALUES (?, ?, ?, ?, ?)`,
			session.Day, session.Hour, session.Minute, session.Subject,
			session.OpenedAt.UTC().Format(time.RFC3339Nano),
		); err != nil {
			return fmt.Errorf("%w: inserting session: %v", persistence.ErrUnavailable, err)
		}
		for _, slot := range session.Slots {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO allocations (day, hour, minute, slot_number, user_id) VALUES (?, ?, ?, ?, ?)`,
				session.Day, session.Hour, session.Minute, slot.Number, slot.UserID,
			); err != nil {
				return fmt.Errorf("%w: inserting allocation: %v", persistence.ErrUnavailable, err)
			}
		}
	}

	for _, notice := range state.Notices {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO notices (event_id, sent_date) VALUES (?, ?)`,
			notice.EventID, notice.Date,
		); err != nil {
			return fmt.Errorf("%w: inserting notice: %v", persistence.ErrUnavailable, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %v", persistence.ErrUnavailable, err)
	}
	return nil
}
