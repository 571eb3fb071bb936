// Package sqlite implements the check-in store on SQLite as an alternative
// to the JSON file backend, useful once a deployment outgrows "rewrite one
// document per save" or wants to query the data with other tools.
//
// WHY modernc.org/sqlite INSTEAD OF github.com/mattn/go-sqlite3?
// mattn/go-sqlite3 uses CGo, which means a C compiler and painful
// cross-compilation. modernc.org/sqlite is a pure Go translation of SQLite:
// it works everywhere Go works.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sakif/checkin-bot/internal/model"

	// Blank import: the driver registers itself with database/sql under the
	// name "sqlite" in its init function.
	_ "modernc.org/sqlite"
)

// Store wraps a sql.DB connection pool.
type Store struct {
	conn *sql.DB
}

// Open opens or creates the database, applies pragmas, and migrates the
// schema. Use ":memory:" in tests for a throwaway database.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("sqlite: creating data directory %s: %w", dir, err)
		}
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// Ping forces an immediate connection so a bad path surfaces here,
	// not on the first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL lets leaderboard reads proceed while a check-in is being written.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}
	if _, err := conn.Exec("PRAGMA busy_timeout=5000"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting busy timeout: %w", err)
	}

	s := &Store{conn: conn}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}
	return s, nil
}

// Close closes the connection pool.
func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) migrate() error {
	// seq preserves the order users were first seen in a context, which is
	// the leaderboard tie-break order. Upserts keep the original seq.
	_, err := s.conn.Exec(`
		CREATE TABLE IF NOT EXISTS checkins (
			seq             INTEGER PRIMARY KEY AUTOINCREMENT,
			context_id      TEXT NOT NULL,
			user_id         TEXT NOT NULL,
			username        TEXT NOT NULL DEFAULT '',
			total_days      INTEGER NOT NULL DEFAULT 0,
			continuous_days INTEGER NOT NULL DEFAULT 0,
			month_days      INTEGER NOT NULL DEFAULT 0,
			total_rewards   INTEGER NOT NULL DEFAULT 0,
			month_rewards   INTEGER NOT NULL DEFAULT 0,
			last_checkin    TEXT NOT NULL DEFAULT '',
			UNIQUE(context_id, user_id)
		);
		CREATE INDEX IF NOT EXISTS idx_checkins_context ON checkins(context_id);
	`)
	if err != nil {
		return fmt.Errorf("creating checkins table: %w", err)
	}
	return nil
}

// Load rebuilds the in-memory store from all rows, ordered by seq so that
// insertion order round-trips exactly like the JSON backend.
func (s *Store) Load(ctx context.Context) (*model.ContextStore, error) {
	rows, err := s.conn.QueryContext(ctx, `
		SELECT context_id, user_id, username, total_days, continuous_days,
		       month_days, total_rewards, month_rewards, last_checkin
		FROM checkins
		ORDER BY seq ASC
	`)
	if err != nil {
		return model.NewContextStore(), fmt.Errorf("sqlite: loading checkins: %w", err)
	}
	defer rows.Close()

	store := model.NewContextStore()
	for rows.Next() {
		var contextID, userID, lastCheckin string
		rec := &model.CheckInRecord{}
		if err := rows.Scan(
			&contextID, &userID, &rec.DisplayName,
			&rec.TotalDays, &rec.ContinuousDays, &rec.MonthDays,
			&rec.TotalRewards, &rec.MonthRewards, &lastCheckin,
		); err != nil {
			return model.NewContextStore(), fmt.Errorf("sqlite: scanning checkin row: %w", err)
		}
		rec.LastCheckin = model.Date(lastCheckin)
		store.GetOrCreate(contextID).Put(userID, rec)
	}
	if err := rows.Err(); err != nil {
		return model.NewContextStore(), fmt.Errorf("sqlite: reading checkin rows: %w", err)
	}
	return store, nil
}

// Save upserts every record in one transaction. Records are never deleted
// in this domain, so upsert-only keeps each row's seq (and therefore the
// tie-break order) stable.
func (s *Store) Save(ctx context.Context, store *model.ContextStore) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: starting save transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO checkins (
			context_id, user_id, username, total_days, continuous_days,
			month_days, total_rewards, month_rewards, last_checkin
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(context_id, user_id) DO UPDATE SET
			username        = excluded.username,
			total_days      = excluded.total_days,
			continuous_days = excluded.continuous_days,
			month_days      = excluded.month_days,
			total_rewards   = excluded.total_rewards,
			month_rewards   = excluded.month_rewards,
			last_checkin    = excluded.last_checkin
	`)
	if err != nil {
		return fmt.Errorf("sqlite: preparing upsert: %w", err)
	}
	defer stmt.Close()

	for _, contextID := range store.ContextIDs() {
		table, _ := store.Get(contextID)
		for _, userID := range table.UserIDs() {
			rec, _ := table.Get(userID)
			if _, err := stmt.ExecContext(ctx,
				contextID, userID, rec.DisplayName,
				rec.TotalDays, rec.ContinuousDays, rec.MonthDays,
				rec.TotalRewards, rec.MonthRewards, string(rec.LastCheckin),
			); err != nil {
				return fmt.Errorf("sqlite: upserting %s/%s: %w", contextID, userID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing save: %w", err)
	}
	return nil
}
