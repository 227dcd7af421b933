package detail

import (
	"regexp"
	"strings"

	"github.com/pfrederiksen/campus-events/internal/entity"
)

var (
	horizontalRun  = regexp.MustCompile(`[ \t]+`)
	newlinePadding = regexp.MustCompile(` *\n *`)
	newlineRun     = regexp.MustCompile(`\n{3,}`)
)

// Normalize cleans extracted text for display: it collapses space and tab
// runs, trims spaces around newlines, caps blank lines at one, decodes
// entities and trims the result.
//
// The platform double-encodes some descriptions, and a decoded &nbsp; can
// itself produce new whitespace runs, so the steps repeat until the text is
// stable. A round only ever drops characters or turns tabs into spaces, so
// the loop ends, and Normalize(Normalize(s)) == Normalize(s).
func Normalize(s string) string {
	for {
		next := normalizeOnce(s)
		if next == s {
			return next
		}
		s = next
	}
}

func normalizeOnce(s string) string {
	s = horizontalRun.ReplaceAllString(s, " ")
	s = newlinePadding.ReplaceAllString(s, "\n")
	s = newlineRun.ReplaceAllString(s, "\n\n")
	s = entity.Decode(s)
	return strings.TrimSpace(s)
}
