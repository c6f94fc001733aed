package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/matsen/codebrain/internal/compose"
	"github.com/matsen/codebrain/internal/prompt"
	"github.com/matsen/codebrain/internal/render"
	"github.com/spf13/cobra"
)

var newYes bool

func init() {
	newCmd.Flags().BoolVarP(&newYes, "yes", "y", false, "Save without asking for confirmation")
	rootCmd.AddCommand(newCmd)
}

var newCmd = &cobra.Command{
	Use:     "new [name]",
	Aliases: []string{"n"},
	Short:   "Write a new note",
	Long: `Write a new note interactively.

You are asked for a name (a dated default is offered), a list of tags
separated by spaces, commas or '#', and the note body in markdown. End the
body with Ctrl-D. The note is previewed and saved once you confirm.

Examples:
  cb new
  cb new "git rebase onto"
  cb n -y`,
	Args: cobra.MaximumNArgs(1),
	RunE: runNew,
}

func runNew(cmd *cobra.Command, args []string) error {
	cfg, store, err := setup()
	if err != nil {
		return err
	}
	defer store.Close()

	// Prompts stay off stdout when it carries JSON.
	var out io.Writer = os.Stdout
	if jsonOutput {
		out = os.Stderr
	}
	p := prompt.New(os.Stdin, out)

	var name string
	if len(args) > 0 {
		name = args[0]
	}

	n, err := compose.Compose(p, out, name, time.Now())
	if errors.Is(err, io.EOF) {
		fmt.Fprintln(out, "No note saved.")
		return nil
	}
	if err != nil {
		return exitErrorf(ExitError, "composing note: %v", err)
	}

	fmt.Fprintln(out)
	if err := render.Render(out, n, cfg.CodeTheme); err != nil {
		return exitErrorf(ExitError, "previewing note: %v", err)
	}

	if !newYes {
		ok, err := p.Confirm("Save note?")
		if err != nil && !errors.Is(err, io.EOF) {
			return exitErrorf(ExitError, "reading answer: %v", err)
		}
		if !ok {
			fmt.Fprintln(out, "Note discarded.")
			return nil
		}
	}

	if err := store.Add(n); err != nil {
		return exitErrorf(exitCodeFor(err), "saving note: %v", err)
	}

	if jsonOutput {
		outputJSON(StatusResponse{Status: "saved", Count: 1})
	} else {
		outputHuman("Note saved.\n")
	}
	return nil
}
