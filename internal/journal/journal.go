// Package journal persists the diagnostic event feed to a local SQLite
// database. It is strictly best-effort: a failed append never surfaces to
// the flow, and nothing in the session reads the journal back.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// Entry is one appended diagnostic record.
type Entry struct {
	ID     string
	At     time.Time
	Kind   string // e.g. "stage", "popup", "push_event", "error"
	Detail string
}

// Journal is an append-only diagnostic log.
type Journal interface {
	Append(ctx context.Context, kind, detail string) error
	Recent(ctx context.Context, limit int) ([]Entry, error)
	Close() error
}

// sqliteJournal backs Journal with a single SQLite table.
type sqliteJournal struct {
	db *sql.DB
}

// Open creates a Journal at dsn, applying recommended pragmas and creating
// the table if needed.
func Open(dsn string) (Journal, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := applyPragmas(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	const schema = `CREATE TABLE IF NOT EXISTS journal_entries (
		id TEXT PRIMARY KEY,
		at TIMESTAMP NOT NULL,
		kind TEXT NOT NULL,
		detail TEXT NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &sqliteJournal{db: db}, nil
}

func (j *sqliteJournal) Append(ctx context.Context, kind, detail string) error {
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO journal_entries (id, at, kind, detail) VALUES (?, ?, ?, ?)`,
		uuid.New().String(), time.Now().UTC(), kind, detail,
	)
	return err
}

func (j *sqliteJournal) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := j.db.QueryContext(ctx,
		`SELECT id, at, kind, detail FROM journal_entries ORDER BY at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.At, &e.Kind, &e.Detail); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (j *sqliteJournal) Close() error {
	return j.db.Close()
}

// applyPragmas configures SQLite for single-user append workloads.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// DefaultPath resolves the journal file path in priority order:
// 1. DOST_DB environment variable
// 2. $XDG_DATA_HOME/dost/dost.db
// 3. ~/.local/share/dost/dost.db
func DefaultPath() (string, error) {
	if p := os.Getenv("DOST_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "dost", "dost.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}

// Nop returns a Journal that drops everything, for when opening the
// database fails.
func Nop() Journal { return nopJournal{} }

type nopJournal struct{}

func (nopJournal) Append(context.Context, string, string) error { return nil }
func (nopJournal) Recent(context.Context, int) ([]Entry, error) { return nil, nil }
func (nopJournal) Close() error                                 { return nil }
