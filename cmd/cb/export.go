package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export all notes as JSONL",
	Long: `Write every note as one JSON object per line, oldest first.

Without a file the notes are written to stdout.

Examples:
  cb export notes.jsonl
  cb export > backup.jsonl`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	_, store, err := setup()
	if err != nil {
		return err
	}
	defer store.Close()

	var w io.Writer = os.Stdout
	var path string
	if len(args) > 0 {
		path = args[0]
		f, err := os.Create(path)
		if err != nil {
			return exitErrorf(ExitError, "creating export file: %v", err)
		}
		defer f.Close()
		w = f
	}

	count, err := store.Export(w)
	if err != nil {
		return exitErrorf(ExitError, "exporting notes: %v", err)
	}

	// Stdout already carries the notes themselves.
	if path == "" {
		return nil
	}
	if jsonOutput {
		outputJSON(StatusResponse{Status: "exported", Count: count, Path: path})
	} else {
		fmt.Printf("Exported %d notes to %s\n", count, path)
	}
	return nil
}
