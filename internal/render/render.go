// Package render formats notes for the terminal.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/matsen/codebrain/internal/note"
)

// ThemePlain disables ANSI styling.
const ThemePlain = "plain"

// RuleWidth is the width of the header and footer rules.
const RuleWidth = 60

const (
	ansiBold  = "\033[1m"
	ansiCode  = "\033[36m"
	ansiReset = "\033[0m"
)

// codeFence opens and closes markdown code blocks.
const codeFence = "```"

// Render writes n as a display block: a header rule with the note id, the
// name, the tagline, the content and a footer rule. Lines inside fenced code
// blocks are indented and, unless theme is ThemePlain, colored.
func Render(w io.Writer, n *note.Note, theme string) error {
	s := style{ansi: theme != ThemePlain}

	var sb strings.Builder
	sb.WriteString(s.bold(rule("NOTE #"+n.DisplayID())) + "\n")
	sb.WriteString(s.bold(n.Name()) + "\n")
	sb.WriteString(Tagline(n.Tags()) + "\n\n")

	inCode := false
	for _, line := range n.Content() {
		if strings.HasPrefix(strings.TrimSpace(line), codeFence) {
			inCode = !inCode
			sb.WriteString(line + "\n")
			continue
		}
		if inCode {
			sb.WriteString(s.code("  │ "+line) + "\n")
			continue
		}
		sb.WriteString(line + "\n")
	}

	sb.WriteString("\n" + s.bold(rule("END NOTE #"+n.DisplayID())) + "\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

// RenderAll renders notes separated by blank lines.
func RenderAll(w io.Writer, notes []*note.Note, theme string) error {
	for i, n := range notes {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if err := Render(w, n, theme); err != nil {
			return err
		}
	}
	return nil
}

// Tagline formats tags as "#a #b". Blank tags are left out.
func Tagline(tags []string) string {
	var parts []string
	for _, tag := range tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			parts = append(parts, "#"+tag)
		}
	}
	return strings.Join(parts, " ")
}

// rule centers title in a horizontal rule of RuleWidth characters.
func rule(title string) string {
	title = " " + title + " "
	pad := RuleWidth - len([]rune(title))
	if pad < 2 {
		return title
	}
	left := pad / 2
	return strings.Repeat("─", left) + title + strings.Repeat("─", pad-left)
}

type style struct {
	ansi bool
}

func (s style) bold(text string) string {
	if !s.ansi {
		return text
	}
	return ansiBold + text + ansiReset
}

func (s style) code(text string) string {
	if !s.ansi {
		return text
	}
	return ansiCode + text + ansiReset
}
