package note

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// tagDelimiters are the characters users may separate tags with.
const tagDelimiters = " #,"

var tagSplitPattern = regexp.MustCompile(`[ #,]+`)

// ParseTags splits a raw tag string on runs of spaces, '#' and ','.
// Leading and trailing delimiters are dropped first, so "#a, #b" yields
// ["a", "b"]. An empty input yields a single empty tag, which New rejects.
func ParseTags(raw string) []string {
	return tagSplitPattern.Split(strings.Trim(raw, tagDelimiters), -1)
}

// DefaultName returns a name of the form YYYYMMDD-xxxxxxxx for a note
// created at now, with eight random hex characters.
func DefaultName(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return now.Format("20060102") + "-" + suffix
}
