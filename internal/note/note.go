// Package note defines the core domain type for a tagged markdown note.
package note

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
)

// Note is a titled, tagged, multi-line markdown record.
//
// Fields are unexported so that every change goes through a validating
// constructor or setter. A Note is never observable in an invalid state.
type Note struct {
	id      int64
	name    string
	tags    []string
	content []string
}

// Row is the flat persisted representation of a Note.
type Row struct {
	ID        int64
	Name      string
	Tags      string // tags joined by TagSeparator
	Content   string // lines joined by LineSeparator
	CreatedAt time.Time
}

const (
	TagSeparator  = ","
	LineSeparator = "\n"

	// PlaceholderID is displayed for notes that have not been saved yet.
	PlaceholderID = "_"
)

// Validation errors.
var (
	ErrEmptyName    = errors.New("note name cannot be empty")
	ErrEmptyTags    = errors.New("note must have at least one tag")
	ErrEmptyContent = errors.New("note content cannot be empty")
	ErrInvalidTag   = errors.New(`note tags cannot contain ","`)
	ErrInvalidLine  = errors.New("note content lines cannot contain newlines")
	ErrEmptyQuery   = errors.New("search query cannot be empty")
	ErrInvalidCount = errors.New("number of notes must not be negative")
)

// ValidationError reports an invalid note field or query.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err is (or wraps) a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// New constructs an unsaved note (ID 0) after validating every field.
// Tags are stored sorted.
func New(name string, tags, content []string) (*Note, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	sorted, err := normalizeTags(tags)
	if err != nil {
		return nil, err
	}
	if err := validateContent(content); err != nil {
		return nil, err
	}
	return &Note{
		name:    name,
		tags:    sorted,
		content: slices.Clone(content),
	}, nil
}

// FromRow rebuilds a note from a stored row. It returns false instead of
// an error when the row does not hold a valid note, so listings can skip
// corrupt or legacy rows.
func FromRow(row Row) (*Note, bool) {
	n, err := New(row.Name, strings.Split(row.Tags, TagSeparator), strings.Split(row.Content, LineSeparator))
	if err != nil {
		return nil, false
	}
	n.id = row.ID
	return n, true
}

// ID returns the store-assigned id, or 0 for an unsaved note.
func (n *Note) ID() int64 { return n.id }

// Name returns the note title.
func (n *Note) Name() string { return n.name }

// Tags returns a copy of the sorted tags.
func (n *Note) Tags() []string { return slices.Clone(n.tags) }

// Content returns a copy of the content lines.
func (n *Note) Content() []string { return slices.Clone(n.content) }

// DisplayID returns the id as shown to users; unsaved notes use PlaceholderID.
func (n *Note) DisplayID() string {
	if n.id == 0 {
		return PlaceholderID
	}
	return fmt.Sprintf("%d", n.id)
}

// SetTags replaces the tags, re-sorting them. The note is unchanged on error.
func (n *Note) SetTags(tags []string) error {
	sorted, err := normalizeTags(tags)
	if err != nil {
		return err
	}
	n.tags = sorted
	return nil
}

// SetContent replaces the content lines. The note is unchanged on error.
func (n *Note) SetContent(lines []string) error {
	if err := validateContent(lines); err != nil {
		return err
	}
	n.content = slices.Clone(lines)
	return nil
}

// TagsCSV returns the tags in their persisted form.
func (n *Note) TagsCSV() string {
	return strings.Join(n.tags, TagSeparator)
}

// ContentText returns the content lines in their persisted form.
func (n *Note) ContentText() string {
	return strings.Join(n.content, LineSeparator)
}

// Row returns the persisted encoding. ID and CreatedAt are assigned by the store.
func (n *Note) Row() Row {
	return Row{
		Name:    n.name,
		Tags:    n.TagsCSV(),
		Content: n.ContentText(),
	}
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return &ValidationError{Field: "name", Err: ErrEmptyName}
	}
	return nil
}

// normalizeTags validates tags and returns a sorted copy. A tag may not
// contain TagSeparator, or it would split apart when read back from a Row.
func normalizeTags(tags []string) ([]string, error) {
	if !slices.ContainsFunc(tags, notBlank) {
		return nil, &ValidationError{Field: "tags", Err: ErrEmptyTags}
	}
	if slices.ContainsFunc(tags, containsAny(TagSeparator)) {
		return nil, &ValidationError{Field: "tags", Err: ErrInvalidTag}
	}
	sorted := slices.Clone(tags)
	slices.Sort(sorted)
	return sorted, nil
}

func validateContent(lines []string) error {
	if !slices.ContainsFunc(lines, notBlank) {
		return &ValidationError{Field: "content", Err: ErrEmptyContent}
	}
	if slices.ContainsFunc(lines, containsAny(LineSeparator)) {
		return &ValidationError{Field: "content", Err: ErrInvalidLine}
	}
	return nil
}

func containsAny(chars string) func(string) bool {
	return func(s string) bool { return strings.ContainsAny(s, chars) }
}

func notBlank(s string) bool {
	return strings.TrimSpace(s) != ""
}
