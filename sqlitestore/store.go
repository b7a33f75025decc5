// Package sqlitestore is a content.Backend on a local SQLite file. It mirrors
// the hosted store's tables and reports failures in the hosted store's error
// shape, so the Content Access Layer behaves the same against either.
package sqlitestore

import (
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/northpoint/website/content"
)

// Store wraps a SQLite database holding posts, image metadata and comments.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

var _ content.Backend = (*Store)(nil)

// Open opens (or creates) the database at path, ensures the data directory
// exists and creates the schema.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL lets readers proceed during writes; busy_timeout makes writers wait
	// instead of failing with SQLITE_BUSY.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
		PRAGMA foreign_keys=ON;
	`); err != nil {
		db.Close()
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db, now: time.Now}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS blog_posts (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL CHECK (title <> ''),
    slug TEXT NOT NULL UNIQUE CHECK (slug <> ''),
    excerpt TEXT NOT NULL,
    content TEXT NOT NULL,
    author TEXT NOT NULL,
    date TEXT NOT NULL,
    read_time TEXT NOT NULL,
    tags TEXT NOT NULL DEFAULT '[]',
    published INTEGER NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_blog_posts_created_at ON blog_posts(created_at);

CREATE TABLE IF NOT EXISTS uploaded_images (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    url TEXT NOT NULL,
    upload_date TEXT NOT NULL,
    created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS blog_comments (
    id TEXT PRIMARY KEY,
    post_slug TEXT NOT NULL,
    name TEXT NOT NULL,
    email TEXT NOT NULL,
    comment TEXT NOT NULL,
    approved INTEGER NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_blog_comments_slug ON blog_comments(post_slug, created_at);
`)
	return err
}

// createdLayout has a fixed width so stored timestamps sort lexically.
const createdLayout = "2006-01-02T15:04:05.000000000Z07:00"

func (s *Store) timestamp() (string, time.Time) {
	t := s.now().UTC()
	return t.Format(createdLayout), t
}

func parseTime(v string) time.Time {
	t, _ := time.Parse(createdLayout, v)
	return t
}

// translate maps SQLite failures onto the hosted store's error shape.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return &content.RawError{Code: content.CodeNoRows, Message: "row not found", Status: 406}
	}
	var se *sqlite.Error
	if errors.As(err, &se) && se.Code()&0xff == sqlite3.SQLITE_CONSTRAINT {
		code, msg := se.Code(), se.Error()
		switch {
		case code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY ||
			strings.Contains(msg, "UNIQUE constraint"):
			return &content.RawError{Code: content.CodeUniqueViolation, Message: "duplicate key value violates unique constraint: " + msg, Status: 409}
		case code == sqlite3.SQLITE_CONSTRAINT_NOTNULL || strings.Contains(msg, "NOT NULL constraint"):
			return &content.RawError{Code: content.CodeNotNull, Message: "null value violates not-null constraint: " + msg, Status: 400}
		default:
			return &content.RawError{Code: content.CodeCheckViolation, Message: "row violates check constraint: " + msg, Status: 400}
		}
	}
	msg := err.Error()
	if strings.Contains(msg, "no such column") {
		return &content.RawError{Code: content.CodeUnknownColumn, Message: msg, Status: 400}
	}
	return err
}

func encodeTags(tags []string) string {
	if tags == nil {
		tags = []string{}
	}
	b, _ := json.Marshal(tags)
	return string(b)
}

func decodeTags(v string) []string {
	var tags []string
	if err := json.Unmarshal([]byte(v), &tags); err != nil || tags == nil {
		return []string{}
	}
	return tags
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
