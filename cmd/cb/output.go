package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/matsen/codebrain/internal/note"
	"github.com/matsen/codebrain/internal/render"
)

// NoteJSON is the JSON form of a note in list and search output.
type NoteJSON struct {
	ID      int64    `json:"id"`
	Name    string   `json:"name"`
	Tags    []string `json:"tags"`
	Content []string `json:"content"`
}

// ErrorResponse is the JSON form of a failure.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse is a generic response for commands that return status.
type StatusResponse struct {
	Status string `json:"status"`
	Count  int    `json:"count,omitempty"`
	Path   string `json:"path,omitempty"`
}

// ConfigResponse is the response for the config command.
type ConfigResponse struct {
	Path      string `json:"path"`
	DBFile    string `json:"db_file"`
	CodeTheme string `json:"code_theme"`
	Notes     int    `json:"notes"`
}

// outputJSON writes a value as indented JSON to stdout.
func outputJSON(v any) error {
	return writeJSON(os.Stdout, v)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputHuman writes a human-readable string to stdout.
func outputHuman(format string, args ...any) {
	fmt.Printf(format, args...)
}

// exitError is a command failure carrying the process exit code.
type exitError struct {
	code int
	msg  string
}

func (e *exitError) Error() string {
	return e.msg
}

// exitErrorf returns an error that makes cb exit with code.
func exitErrorf(code int, format string, args ...any) error {
	return &exitError{code: code, msg: fmt.Sprintf(format, args...)}
}

// reportError outputs err in the appropriate format (human or JSON) on
// stderr and returns the exit code to use. Errors without a code, such as
// cobra's argument errors, exit with ExitError.
func reportError(err error) int {
	code := ExitError
	var ee *exitError
	if errors.As(err, &ee) {
		code = ee.code
	}

	if jsonOutput {
		writeJSON(os.Stderr, ErrorResponse{Error: err.Error()})
	} else {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
	}
	return code
}

// exitCodeFor maps a store error to an exit code.
func exitCodeFor(err error) int {
	if note.IsValidation(err) {
		return ExitDataError
	}
	return ExitError
}

// outputNotes prints notes as rendered blocks, or as JSON with --json.
func outputNotes(notes []*note.Note, theme string) error {
	if jsonOutput {
		items := make([]NoteJSON, len(notes))
		for i, n := range notes {
			items[i] = NoteJSON{ID: n.ID(), Name: n.Name(), Tags: n.Tags(), Content: n.Content()}
		}
		return outputJSON(items)
	}
	if err := render.RenderAll(os.Stdout, notes, theme); err != nil {
		return exitErrorf(ExitError, "writing notes: %v", err)
	}
	return nil
}
