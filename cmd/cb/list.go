package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// listAll selects every note.
const listAll = "all"

func init() {
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:     "list [n|all]",
	Aliases: []string{"l"},
	Short:   "Show the most recent notes",
	Long: `Show the n most recent notes, oldest first. Without a count, or with
"all" or 0, every note is shown.

Examples:
  cb list
  cb list 10
  cb l all --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runList,
}

func runList(cmd *cobra.Command, args []string) error {
	var n int
	if len(args) > 0 {
		var err error
		if n, err = parseCount(args[0]); err != nil {
			return exitErrorf(ExitDataError, "%v", err)
		}
	}

	cfg, store, err := setup()
	if err != nil {
		return err
	}
	defer store.Close()

	notes, err := store.Get(n)
	if err != nil {
		return exitErrorf(exitCodeFor(err), "getting notes: %v", err)
	}
	if len(notes) == 0 {
		return exitErrorf(ExitNoResults, "no notes found")
	}

	return outputNotes(notes, cfg.CodeTheme)
}

// parseCount parses a list count. "all" and 0 select every note.
func parseCount(arg string) (int, error) {
	if strings.EqualFold(arg, listAll) {
		return 0, nil
	}
	n, err := strconv.Atoi(arg)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid number of notes %q: must be a non-negative integer or %q", arg, listAll)
	}
	return n, nil
}
