package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/matsen/codebrain/internal/prompt"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:     "search [query]",
	Aliases: []string{"s"},
	Short:   "Search notes by name or tag",
	Long: `Search notes whose name or tags contain the query, ignoring case.

Matching is by substring, so "go" also finds notes tagged "golang".
Without a query you are asked for one.

Examples:
  cb search sql
  cb s "rebase onto"`,
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	if len(args) == 0 {
		var err error
		query, err = prompt.New(os.Stdin, os.Stderr).AskText("Search", "")
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(os.Stderr)
			return nil
		}
		if err != nil {
			return exitErrorf(ExitError, "reading query: %v", err)
		}
	}

	cfg, store, err := setup()
	if err != nil {
		return err
	}
	defer store.Close()

	notes, err := store.Search(query)
	if err != nil {
		return exitErrorf(exitCodeFor(err), "searching notes: %v", err)
	}
	if len(notes) == 0 {
		return exitErrorf(ExitNoResults, "no notes match %q", query)
	}

	return outputNotes(notes, cfg.CodeTheme)
}
