// Package compose runs the interactive flow that builds a new note.
package compose

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/matsen/codebrain/internal/note"
)

// Asker supplies answers for each note field.
type Asker interface {
	AskText(label, def string) (string, error)
	AskTagString() (string, error)
	AskMultilineUntilEOF() ([]string, error)
}

// Compose asks for the fields of a new note and returns it once valid.
// An invalid field is reported on w and asked again; the other fields are
// kept. name, when non-blank, is used without asking. Any error from a
// (including io.EOF) aborts the flow without a note.
func Compose(a Asker, w io.Writer, name string, now time.Time) (*note.Note, error) {
	var err error
	if strings.TrimSpace(name) == "" {
		if name, err = askName(a, now); err != nil {
			return nil, err
		}
	}

	tags, err := askTags(a)
	if err != nil {
		return nil, err
	}
	content, err := a.AskMultilineUntilEOF()
	if err != nil {
		return nil, err
	}

	for {
		n, err := note.New(name, tags, content)
		if err == nil {
			return n, nil
		}
		if !note.IsValidation(err) {
			return nil, err
		}
		fmt.Fprintf(w, "%v, please try again\n", err)

		switch {
		case errors.Is(err, note.ErrEmptyName):
			name, err = askName(a, now)
		case errors.Is(err, note.ErrEmptyTags), errors.Is(err, note.ErrInvalidTag):
			tags, err = askTags(a)
		case errors.Is(err, note.ErrEmptyContent), errors.Is(err, note.ErrInvalidLine):
			content, err = a.AskMultilineUntilEOF()
		default:
			return nil, err
		}
		if err != nil {
			return nil, err
		}
	}
}

func askName(a Asker, now time.Time) (string, error) {
	return a.AskText("Note name", note.DefaultName(now))
}

func askTags(a Asker) ([]string, error) {
	raw, err := a.AskTagString()
	if err != nil {
		return nil, err
	}
	return note.ParseTags(raw), nil
}
