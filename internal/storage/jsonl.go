package storage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/matsen/codebrain/internal/note"
)

// MaxJSONLLineCapacity is the maximum buffer size for reading JSONL lines (1MB per line).
const MaxJSONLLineCapacity = 1024 * 1024

// Record is the JSONL form of a stored note.
type Record struct {
	ID        int64     `json:"id,omitempty"`
	Name      string    `json:"name"`
	Tags      []string  `json:"tags"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at,omitzero"`
}

// Export writes every stored row to w as one JSON object per line, in the
// order the notes were added. Rows that are not valid notes are exported
// as-is so nothing is lost. It returns the number of records written.
func (s *Store) Export(w io.Writer) (int, error) {
	if err := s.checkOpen("exporting notes"); err != nil {
		return 0, err
	}

	rows, err := s.db.Query(`SELECT ` + selectNoteFields + ` FROM notes ORDER BY id`)
	if err != nil {
		return 0, &StorageError{Op: "querying notes", Err: err}
	}
	defer rows.Close()

	scanned, err := scanRows(rows)
	if err != nil {
		return 0, err
	}

	enc := json.NewEncoder(w)
	for i, row := range scanned {
		rec := Record{
			ID:        row.ID,
			Name:      row.Name,
			Tags:      strings.Split(row.Tags, note.TagSeparator),
			Content:   row.Content,
			CreatedAt: row.CreatedAt,
		}
		if err := enc.Encode(rec); err != nil {
			return i, fmt.Errorf("writing note %d: %w", row.ID, err)
		}
	}
	return len(scanned), nil
}

// ReadJSONL parses exported records into unsaved notes. IDs and timestamps
// in the input are ignored; the store assigns new ones on Add. Blank lines
// are skipped. A malformed or invalid record fails the whole read so that
// an import is all-or-nothing at the parsing stage.
func ReadJSONL(r io.Reader) ([]*note.Note, error) {
	scanner := bufio.NewScanner(r)

	// Increase buffer size for long lines
	buf := make([]byte, MaxJSONLLineCapacity)
	scanner.Buffer(buf, MaxJSONLLineCapacity)

	var notes []*note.Note
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue // Skip empty lines
		}

		var rec Record
		if err := json.Unmarshal(line, &rec); err != nil {
			return nil, fmt.Errorf("parsing line %d: %w", lineNum, err)
		}
		n, err := note.New(rec.Name, rec.Tags, strings.Split(rec.Content, note.LineSeparator))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
		notes = append(notes, n)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading notes: %w", err)
	}
	return notes, nil
}
