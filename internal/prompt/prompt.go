// Package prompt reads interactive answers from a line source.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// MultilineBanner introduces multi-line note entry.
const MultilineBanner = "PLEASE ENTER YOUR NOTE BELOW IN MARKDOWN (Ctrl-D to finish)"

// Prompter asks questions on w and reads answers line by line from r.
// End of input is reported as io.EOF so callers can abort cleanly.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// New returns a Prompter reading from r and writing prompts to w.
func New(r io.Reader, w io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(r), out: w}
}

// readLine returns the next line without its line ending. A final line
// without a newline is returned normally; io.EOF is returned only when no
// characters were read.
func (p *Prompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("reading input: %w", err)
		}
		if line == "" {
			return "", io.EOF
		}
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// AskText prints label (and def, when set) and returns the trimmed answer,
// or def when the answer is blank.
func (p *Prompter) AskText(label, def string) (string, error) {
	if def != "" {
		fmt.Fprintf(p.out, "%s (%s): ", label, def)
	} else {
		fmt.Fprintf(p.out, "%s: ", label)
	}

	line, err := p.readLine()
	if err != nil {
		fmt.Fprintln(p.out)
		return "", err
	}
	if answer := strings.TrimSpace(line); answer != "" {
		return answer, nil
	}
	return def, nil
}

// AskTagString asks for the raw tag string.
func (p *Prompter) AskTagString() (string, error) {
	return p.AskText("Note tags", "")
}

// AskMultilineUntilEOF reads lines until end of input. Lines are returned
// verbatim. It returns io.EOF if input ended before any line was entered.
func (p *Prompter) AskMultilineUntilEOF() ([]string, error) {
	fmt.Fprintln(p.out, MultilineBanner)

	var lines []string
	for {
		fmt.Fprint(p.out, "> ")
		line, err := p.readLine()
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(p.out)
			break
		}
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}

	if len(lines) == 0 {
		return nil, io.EOF
	}
	return lines, nil
}

// Confirm asks a yes/no question. A blank answer means no.
func (p *Prompter) Confirm(question string) (bool, error) {
	for {
		fmt.Fprintf(p.out, "%s [y/n]: ", question)
		line, err := p.readLine()
		if err != nil {
			fmt.Fprintln(p.out)
			return false, err
		}

		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true, nil
		case "", "n", "no":
			return false, nil
		}
		fmt.Fprintln(p.out, "Please enter y or n")
	}
}
