package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"musicwordle/internal/types"
)

const migrationsSQL = `
CREATE TABLE IF NOT EXISTS game_sessions (
	session_id TEXT PRIMARY KEY,
	game_date  TEXT NOT NULL,
	state      TEXT NOT NULL,
	updated_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_game_sessions_updated_at ON game_sessions (updated_at);
`

// SQLite keeps sessions in a single table, one JSON document per row.
type SQLite struct {
	db      *sql.DB
	timeout time.Duration
	now     func() time.Time
}

// OpenSQLite opens (or creates) the database at path and migrates it.
func OpenSQLite(path string, timeout time.Duration) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// sqlite allows a single writer.
	db.SetMaxOpenConns(1)

	s, err := NewSQLite(db, timeout)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewSQLite migrates db and wraps it.
func NewSQLite(db *sql.DB, timeout time.Duration) (*SQLite, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if err := initDB(db); err != nil {
		return nil, fmt.Errorf("migrate game_sessions: %w", err)
	}
	return &SQLite{db: db, timeout: timeout, now: time.Now}, nil
}

func initDB(db *sql.DB) error {
	for _, stmt := range strings.Split(migrationsSQL, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLite) Load(ctx context.Context, sessionID string) (types.GameState, error) {
	if err := validateID(sessionID); err != nil {
		return types.GameState{}, ErrNotFound
	}

	var (
		raw       string
		updatedAt int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT state, updated_at FROM game_sessions WHERE session_id = ?`, sessionID,
	).Scan(&raw, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return types.GameState{}, ErrNotFound
	}
	if err != nil {
		return types.GameState{}, fmt.Errorf("load session %s: %w", sessionID, err)
	}

	if s.now().Sub(time.UnixMilli(updatedAt)) > s.timeout {
		if err := s.Delete(ctx, sessionID); err != nil {
			return types.GameState{}, err
		}
		return types.GameState{}, ErrNotFound
	}

	var state types.GameState
	if err := json.Unmarshal([]byte(raw), &state); err != nil || !validState(state) {
		if err := s.Delete(ctx, sessionID); err != nil {
			return types.GameState{}, err
		}
		return types.GameState{}, ErrNotFound
	}
	return state, nil
}

func (s *SQLite) Save(ctx context.Context, sessionID string, state types.GameState) error {
	if err := validateID(sessionID); err != nil {
		return err
	}

	now := s.now()
	state.LastAccessTime = now
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", sessionID, err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO game_sessions (session_id, game_date, state, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(session_id) DO UPDATE SET
		   game_date = excluded.game_date,
		   state = excluded.state,
		   updated_at = excluded.updated_at`,
		sessionID, state.Date, string(data), now.UnixMilli())
	if err != nil {
		return fmt.Errorf("save session %s: %w", sessionID, err)
	}
	return nil
}

func (s *SQLite) Delete(ctx context.Context, sessionID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM game_sessions WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("delete session %s: %w", sessionID, err)
	}
	return nil
}

func (s *SQLite) Cleanup(ctx context.Context) (int, error) {
	cutoff := s.now().Add(-s.timeout).UnixMilli()
	res, err := s.db.ExecContext(ctx, `DELETE FROM game_sessions WHERE updated_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("cleanup sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
