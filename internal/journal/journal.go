// Package journal records hook decisions in a SQLite database.
//
// The journal is an audit trail only. Callers must never let a journal
// failure change a verdict.
package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"hookguard/internal/validation"
)

// Hook names stored in entries.
const (
	HookPreToolUse  = "PreToolUse"
	HookPostToolUse = "PostToolUse"
)

// DefaultLimit is the number of entries Recent returns for a non-positive limit.
const DefaultLimit = 20

// Entry is one recorded decision.
type Entry struct {
	ID        int64
	Hook      string
	SessionID string
	ToolName  string
	Subject   string // file path or command
	Decision  string // allow, warn, block, or a formatter outcome
	Messages  []string
	CreatedAt time.Time
}

// Journal is a SQLite-backed decision log.
type Journal struct {
	db     *sql.DB
	logger *slog.Logger
}

const schema = `
CREATE TABLE IF NOT EXISTS decisions (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	hook        TEXT NOT NULL,
	session_id  TEXT NOT NULL,
	tool_name   TEXT,
	subject     TEXT,
	decision    TEXT NOT NULL,
	messages    TEXT,
	created_at  INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_decisions_time ON decisions(created_at);
`

// Open opens or creates the journal at path.
func Open(ctx context.Context, path string, logger *slog.Logger) (*Journal, error) {
	if path == "" {
		return nil, fmt.Errorf("journal path is empty")
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("cannot create journal directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("cannot open journal: %w", err)
	}

	// Hooks run as short-lived processes; one connection is enough.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("journal migration failed: %w", err)
	}

	return &Journal{db: db, logger: logger}, nil
}

// Record appends an entry. Invalid session IDs are stored as "default".
func (j *Journal) Record(ctx context.Context, e Entry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	if e.Messages == nil {
		e.Messages = []string{}
	}

	messages, err := json.Marshal(e.Messages)
	if err != nil {
		return fmt.Errorf("encode messages: %w", err)
	}

	_, err = j.db.ExecContext(ctx,
		`INSERT INTO decisions (hook, session_id, tool_name, subject, decision, messages, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.Hook, validation.SessionIDOrDefault(e.SessionID), e.ToolName, e.Subject, e.Decision,
		string(messages), e.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("record decision: %w", err)
	}

	j.logger.Debug("decision journaled", "hook", e.Hook, "tool", e.ToolName, "decision", e.Decision)
	return nil
}

// Recent returns up to limit entries, newest first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	rows, err := j.db.QueryContext(ctx,
		`SELECT id, hook, session_id, tool_name, subject, decision, messages, created_at
		 FROM decisions ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query decisions: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e        Entry
			toolName sql.NullString
			subject  sql.NullString
			messages sql.NullString
			created  int64
		)
		if err := rows.Scan(&e.ID, &e.Hook, &e.SessionID, &toolName, &subject, &e.Decision, &messages, &created); err != nil {
			return nil, fmt.Errorf("scan decision: %w", err)
		}
		e.ToolName = toolName.String
		e.Subject = subject.String
		e.CreatedAt = time.UnixMilli(created)
		if messages.Valid && messages.String != "" {
			if err := json.Unmarshal([]byte(messages.String), &e.Messages); err != nil {
				j.logger.Warn("corrupt journal messages", "id", e.ID, "err", err)
			}
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Count returns the number of recorded entries.
func (j *Journal) Count(ctx context.Context) (int, error) {
	var n int
	err := j.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM decisions`).Scan(&n)
	return n, err
}

// Close releases the database.
func (j *Journal) Close() error {
	return j.db.Close()
}
