// Package transcript keeps chat history in a SQLite file so a conversation
// survives restarts of the client.
package transcript

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Roles stored with each entry.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Entry is one stored chat message.
type Entry struct {
	ID           int64
	Conversation string
	Role         string
	Content      string
	Time         time.Time
}

// Store reads and writes chat entries.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS messages (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	conversation TEXT    NOT NULL,
	role         TEXT    NOT NULL,
	content      TEXT    NOT NULL,
	created_at   INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_messages_conversation ON messages (conversation, id);
`

// Open opens or creates the transcript database at path. ":memory:" gives
// a private in-memory store.
func Open(ctx context.Context, path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A single connection keeps ":memory:" on one database and serializes writers.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

// Append stores an entry and returns it with its ID set.
func (s *Store) Append(ctx context.Context, e Entry) (Entry, error) {
	if e.Time.IsZero() {
		e.Time = time.Now()
	}
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO messages (conversation, role, content, created_at) VALUES (?, ?, ?, ?)`,
		e.Conversation, e.Role, e.Content, e.Time.UnixMilli(),
	)
	if err != nil {
		return e, fmt.Errorf("failed to append message: %w", err)
	}
	if e.ID, err = result.LastInsertId(); err != nil {
		return e, fmt.Errorf("failed to read message id: %w", err)
	}
	return e, nil
}

// Recent returns the last limit entries of a conversation, oldest first.
// A limit of zero or less returns every entry.
func (s *Store) Recent(ctx context.Context, conversation string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, conversation, role, content, created_at FROM (
			SELECT id, conversation, role, content, created_at
			FROM messages WHERE conversation = ?
			ORDER BY id DESC LIMIT ?
		) ORDER BY id ASC`,
		conversation, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load messages: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var created int64
		if err := rows.Scan(&e.ID, &e.Conversation, &e.Role, &e.Content, &created); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		e.Time = time.UnixMilli(created)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Clear deletes every entry of a conversation.
func (s *Store) Clear(ctx context.Context, conversation string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM messages WHERE conversation = ?`, conversation); err != nil {
		return fmt.Errorf("failed to clear messages: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
