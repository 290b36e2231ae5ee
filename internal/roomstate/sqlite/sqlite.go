package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/livesteno/livesteno-server/internal/caption"
	"github.com/livesteno/livesteno-server/internal/roomstate"
)

const schema = `
CREATE TABLE IF NOT EXISTS room_state (
	room_id    TEXT PRIMARY KEY,
	messages   TEXT NOT NULL DEFAULT '[]',
	settings   TEXT,
	live_input TEXT NOT NULL DEFAULT '',
	updated_at INTEGER NOT NULL DEFAULT 0
);
`

// Store implements roomstate.Store on SQLite, giving rooms reload
// continuity across server restarts.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// New opens (and if needed initializes) the database at dbPath.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// SQLite works best with a single connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the room snapshot, or empty defaults for an unknown room.
// Corrupt persisted JSON degrades to the field's default rather than failing
// the read.
func (s *Store) Get(ctx context.Context, roomID string) (roomstate.Snapshot, error) {
	query := `
		SELECT messages, settings, live_input, updated_at
		FROM room_state
		WHERE room_id = ?
	`
	var (
		messagesJSON string
		settingsJSON sql.NullString
		snap         roomstate.Snapshot
	)
	err := s.db.QueryRowContext(ctx, query, roomID).
		Scan(&messagesJSON, &settingsJSON, &snap.LiveInput, &snap.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return roomstate.EmptySnapshot(), nil
	}
	if err != nil {
		return roomstate.EmptySnapshot(), fmt.Errorf("select room state: %w", err)
	}

	if err := json.Unmarshal([]byte(messagesJSON), &snap.Messages); err != nil || snap.Messages == nil {
		snap.Messages = []caption.Message{}
	}
	if settingsJSON.Valid && settingsJSON.String != "" {
		var st caption.Settings
		if err := json.Unmarshal([]byte(settingsJSON.String), &st); err == nil {
			snap.Settings = &st
		}
	}
	return snap, nil
}

// Put merges the provided fields over prior state inside a transaction and
// stamps a fresh update time.
func (s *Store) Put(ctx context.Context, roomID string, p roomstate.Patch) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var (
		messagesJSON = "[]"
		settingsJSON sql.NullString
		liveInput    string
	)
	err = tx.QueryRowContext(ctx,
		`SELECT messages, settings, live_input FROM room_state WHERE room_id = ?`, roomID).
		Scan(&messagesJSON, &settingsJSON, &liveInput)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("select prior state: %w", err)
	}

	if p.Messages != nil {
		encoded, err := json.Marshal(p.Messages)
		if err != nil {
			return 0, fmt.Errorf("encode messages: %w", err)
		}
		messagesJSON = string(encoded)
	}
	if p.Settings != nil {
		encoded, err := json.Marshal(p.Settings)
		if err != nil {
			return 0, fmt.Errorf("encode settings: %w", err)
		}
		settingsJSON = sql.NullString{String: string(encoded), Valid: true}
	}
	if p.LiveInput != nil {
		liveInput = *p.LiveInput
	}

	updatedAt := s.now().UnixMilli()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO room_state (room_id, messages, settings, live_input, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(room_id) DO UPDATE SET
			messages = excluded.messages,
			settings = excluded.settings,
			live_input = excluded.live_input,
			updated_at = excluded.updated_at
	`, roomID, messagesJSON, settingsJSON, liveInput, updatedAt)
	if err != nil {
		return 0, fmt.Errorf("upsert room state: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return updatedAt, nil
}
