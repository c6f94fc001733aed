package main

import (
	"fmt"
	"os"

	"github.com/matsen/codebrain/internal/storage"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(importCmd)
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Append notes from a JSONL export",
	Long: `Append the notes in a file written by 'cb export'.

Imported notes get new ids. The whole file is checked before anything is
written, so a malformed line leaves the database untouched.

Example:
  cb import backup.jsonl`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func runImport(cmd *cobra.Command, args []string) error {
	path := args[0]

	f, err := os.Open(path)
	if err != nil {
		return exitErrorf(ExitError, "opening import file: %v", err)
	}
	defer f.Close()

	notes, err := storage.ReadJSONL(f)
	if err != nil {
		return exitErrorf(ExitDataError, "reading %s: %v", path, err)
	}

	_, store, err := setup()
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Add(notes...); err != nil {
		return exitErrorf(exitCodeFor(err), "importing notes: %v", err)
	}
	log.Debugw("imported notes", "path", path, "count", len(notes))

	if jsonOutput {
		outputJSON(StatusResponse{Status: "imported", Count: len(notes), Path: path})
	} else {
		fmt.Printf("Imported %d notes from %s\n", len(notes), path)
	}
	return nil
}
