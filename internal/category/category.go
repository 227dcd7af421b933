// Package category builds an event's category string from the accessibility
// labels on its category badges.
package category

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"

	"github.com/pfrederiksen/campus-events/internal/dom"
	"github.com/pfrederiksen/campus-events/internal/entity"
)

// Separator joins labels in the aggregate category string.
const Separator = " / "

var (
	slashWord     = regexp.MustCompile(`(?i)\s+slash\s+`)
	slashSpacing  = regexp.MustCompile(`\s*/\s*`)
	whitespaceRun = regexp.MustCompile(`\s+`)
)

// Extract parses a category fragment with the default parser. See
// ExtractWith.
func Extract(markup string) (string, error) {
	return ExtractWith(dom.HTMLParser{}, markup)
}

// ExtractWith collects every aria-label in markup, cleans each one, drops
// case-insensitive duplicates (first spelling wins) and joins the rest with
// Separator. Empty markup yields "".
func ExtractWith(parser dom.Parser, markup string) (string, error) {
	if strings.TrimSpace(markup) == "" {
		return "", nil
	}

	root, err := parser.Parse(markup)
	if err != nil {
		return "", err
	}

	var labels []string
	for _, n := range root.Find("[aria-label]") {
		label, _ := n.Attr("aria-label")
		labels = append(labels, label)
	}
	return Join(labels), nil
}

// Join cleans and de-duplicates raw labels and joins them with Separator.
func Join(labels []string) string {
	seen := make(map[string]bool)
	unique := make([]string, 0, len(labels))
	for _, raw := range labels {
		label := CleanLabel(raw)
		if label == "" {
			continue
		}
		key := cases.Fold().String(label)
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, label)
	}
	return strings.Join(unique, Separator)
}

// CleanLabel normalizes one label: the word "slash" becomes " / ", slash
// spacing is made uniform and whitespace is collapsed.
func CleanLabel(label string) string {
	label = strings.TrimSpace(entity.Decode(label))
	if label == "" {
		return ""
	}
	// Adjacent "slash" words share the whitespace between them, so a single
	// pass leaves every second one behind.
	for {
		next := slashWord.ReplaceAllString(label, Separator)
		if next == label {
			break
		}
		label = next
	}
	label = slashSpacing.ReplaceAllString(label, Separator)
	label = whitespaceRun.ReplaceAllString(label, " ")
	return strings.TrimSpace(label)
}
