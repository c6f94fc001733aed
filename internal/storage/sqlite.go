// Package storage persists notes in an embedded SQLite database.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/matsen/codebrain/internal/config"
	"github.com/matsen/codebrain/internal/note"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// InMemory is the path that selects an ephemeral database, discarded on Close.
const InMemory = ":memory:"

// ErrClosed is returned by any operation on a closed Store.
var ErrClosed = errors.New("use after close")

// StorageError reports a failure to create, reach or query the database.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Store is an append-only log of notes backed by SQLite.
// A Store holds a single connection and is not safe for concurrent use.
type Store struct {
	path   string
	db     *sql.DB
	log    *zap.SugaredLogger
	closed bool
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for debug output.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(s *Store) {
		if log != nil {
			s.log = log
		}
	}
}

// selectNoteFields contains the standard field list for SELECT queries.
const selectNoteFields = `id, name, tags, content, created_at`

// Open opens or creates the notes database at path. Use InMemory for a
// database that lives only as long as the Store.
func Open(path string, opts ...Option) (*Store, error) {
	s := &Store{path: path, log: zap.NewNop().Sugar()}
	for _, opt := range opts {
		opt(s)
	}

	if path != InMemory {
		s.path = config.ExpandPath(path)
		if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
			return nil, &StorageError{Op: "creating database directory", Err: err}
		}
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return nil, &StorageError{Op: "opening database", Err: err}
	}

	// SQLite doesn't support concurrent writes, and an in-memory database
	// exists only on the connection that created it.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, &StorageError{Op: "creating schema", Err: err}
	}
	s.db = db

	s.log.Debugw("opened notes database", "path", s.path)
	return s, nil
}

// createSchema creates the notes table if it doesn't exist.
func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS notes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			tags TEXT,
			content TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
	`
	_, err := db.Exec(schema)
	return err
}

// Path returns the resolved database path.
func (s *Store) Path() string {
	return s.path
}

// Close releases the database connection. Calling Close twice returns ErrClosed.
func (s *Store) Close() error {
	if s.closed {
		return &StorageError{Op: "closing database", Err: ErrClosed}
	}
	s.closed = true
	if err := s.db.Close(); err != nil {
		return &StorageError{Op: "closing database", Err: err}
	}
	return nil
}

func (s *Store) checkOpen(op string) error {
	if s.closed {
		return &StorageError{Op: op, Err: ErrClosed}
	}
	return nil
}

// Add appends notes in order, one committed insert per note. On failure,
// notes before the failing one remain stored.
func (s *Store) Add(notes ...*note.Note) error {
	if err := s.checkOpen("adding notes"); err != nil {
		return err
	}
	if i := slices.Index(notes, nil); i >= 0 {
		return &StorageError{Op: "adding notes", Err: fmt.Errorf("note %d is nil", i)}
	}

	stmt, err := s.db.Prepare(`INSERT INTO notes (name, tags, content) VALUES (?, ?, ?)`)
	if err != nil {
		return &StorageError{Op: "preparing notes insert", Err: err}
	}
	defer stmt.Close()

	for i, n := range notes {
		row := n.Row()
		res, err := stmt.Exec(row.Name, row.Tags, row.Content)
		if err != nil {
			return &StorageError{Op: fmt.Sprintf("inserting note %d (%q)", i, row.Name), Err: err}
		}
		if id, err := res.LastInsertId(); err == nil {
			s.log.Debugw("inserted note", "id", id, "name", row.Name)
		}
	}
	return nil
}

// Get returns the n most recently added notes, oldest first. n == 0 returns
// every note. A nil slice means there are no notes.
func (s *Store) Get(n int) ([]*note.Note, error) {
	if err := s.checkOpen("getting notes"); err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, &note.ValidationError{Field: "count", Err: note.ErrInvalidCount}
	}

	query := `SELECT ` + selectNoteFields + ` FROM notes ORDER BY id DESC`
	var args []any
	if n > 0 {
		query += ` LIMIT ?`
		args = append(args, n)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, &StorageError{Op: "querying notes", Err: err}
	}
	defer rows.Close()

	notes, err := s.scanNotes(rows)
	if err != nil {
		return nil, err
	}
	slices.Reverse(notes)
	return notes, nil
}

// Search returns notes whose name or tags contain query, ignoring case,
// in the order they were added. A nil slice means nothing matched.
//
// Matching is by substring, so "tag1" also matches a note tagged "tag10".
func (s *Store) Search(query string) ([]*note.Note, error) {
	if err := s.checkOpen("searching notes"); err != nil {
		return nil, err
	}
	if strings.TrimSpace(query) == "" {
		return nil, &note.ValidationError{Field: "query", Err: note.ErrEmptyQuery}
	}

	pattern := "%" + escapeLike(query) + "%"
	rows, err := s.db.Query(`
		SELECT `+selectNoteFields+`
		FROM notes
		WHERE name LIKE ? ESCAPE '\' OR tags LIKE ? ESCAPE '\'
		ORDER BY id`, pattern, pattern)
	if err != nil {
		return nil, &StorageError{Op: "searching notes", Err: err}
	}
	defer rows.Close()

	return s.scanNotes(rows)
}

// Count returns the number of stored notes, including rows that no longer
// decode into valid notes.
func (s *Store) Count() (int, error) {
	if err := s.checkOpen("counting notes"); err != nil {
		return 0, err
	}
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM notes").Scan(&count); err != nil {
		return 0, &StorageError{Op: "counting notes", Err: err}
	}
	return count, nil
}

// escapeLike escapes LIKE wildcards so query matches literally.
func escapeLike(query string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(query)
}

// noteScanFields holds the scan targets for a notes row.
type noteScanFields struct {
	id                  int64
	name, tags, content sql.NullString
	createdAt           sql.NullString
}

// timestampLayouts are the forms created_at may come back in: the driver
// may hand back a time.Time (formatted by database/sql as RFC 3339) or the
// raw CURRENT_TIMESTAMP text.
var timestampLayouts = []string{time.RFC3339Nano, "2006-01-02 15:04:05"}

func parseTimestamp(s string) time.Time {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

// toRow converts scanned fields to a typed row.
func (f *noteScanFields) toRow() note.Row {
	return note.Row{
		ID:        f.id,
		Name:      f.name.String,
		Tags:      f.tags.String,
		Content:   f.content.String,
		CreatedAt: parseTimestamp(f.createdAt.String),
	}
}

func (f *noteScanFields) targets() []any {
	return []any{&f.id, &f.name, &f.tags, &f.content, &f.createdAt}
}

// scanRows scans every remaining row into typed rows.
func scanRows(rows *sql.Rows) ([]note.Row, error) {
	var out []note.Row
	for rows.Next() {
		var f noteScanFields
		if err := rows.Scan(f.targets()...); err != nil {
			return nil, &StorageError{Op: "scanning note row", Err: err}
		}
		out = append(out, f.toRow())
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Op: "reading note rows", Err: err}
	}
	return out, nil
}

// scanNotes scans rows into notes, skipping rows that are not valid notes.
func (s *Store) scanNotes(rows *sql.Rows) ([]*note.Note, error) {
	scanned, err := scanRows(rows)
	if err != nil {
		return nil, err
	}

	var notes []*note.Note
	for _, row := range scanned {
		n, ok := note.FromRow(row)
		if !ok {
			s.log.Debugw("skipping invalid note row", "id", row.ID)
			continue
		}
		notes = append(notes, n)
	}
	return notes, nil
}
