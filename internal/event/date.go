package event

import (
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/pfrederiksen/campus-events/internal/dom"
	"github.com/pfrederiksen/campus-events/internal/entity"
)

// DisplayLayout renders a parsed start time, e.g. "Thu, Oct 23, 2025, 6:00 PM".
const DisplayLayout = "Mon, Jan 2, 2006, 3:04 PM"

// DateInfo is the parsed date of an event. When Instant is nil, Display is
// the cleaned text exactly as the platform showed it.
type DateInfo struct {
	Instant *time.Time `json:"instant,omitempty"`
	Display string     `json:"display"`
}

// dateLayouts are tried in order before falling back to dateparse.
var dateLayouts = []string{
	"Monday, January 2, 2006 3:04 PM",
	"Monday, January 2, 2006 at 3:04 PM",
	"Monday, January 2 2006 at 3:04 PM",
	"Monday, Jan 2, 2006 3:04 PM",
	"Mon, January 2, 2006 3:04 PM",
	"Mon, Jan 2, 2006 3:04 PM",
	"Mon, Jan 2, 2006 at 3:04 PM",
	"Mon, Jan 2, 2006, 3:04 PM",
	"January 2, 2006 3:04 PM",
	"January 2, 2006 at 3:04 PM",
	"Jan 2, 2006 3:04 PM",
	"1/2/2006 3:04 PM",
	"Monday, January 2, 2006",
	"Mon, Jan 2, 2006",
	"January 2, 2006",
	"Jan 2, 2006",
	time.RFC3339,
}

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	trailingDash  = regexp.MustCompile(`\s*[-–—]\s*$`)
)

// ParseDateInfo extracts and parses the date shown in a date fragment.
//
// Entities are decoded before parsing so "&ndash;" separators become real
// dashes. Paragraph texts are joined with a space; without paragraphs the
// whole fragment's text is used. A trailing range dash is dropped. Text that
// does not parse is not an error: it comes back as Display with a nil
// Instant. Only a parser failure is returned as an error.
func ParseDateInfo(markup string) (DateInfo, error) {
	return ParseDateInfoWith(dom.HTMLParser{}, markup)
}

// ParseDateInfoWith is ParseDateInfo with an explicit parser.
func ParseDateInfoWith(parser dom.Parser, markup string) (DateInfo, error) {
	if strings.TrimSpace(markup) == "" {
		return DateInfo{}, nil
	}

	root, err := parser.Parse(entity.Decode(markup))
	if err != nil {
		return DateInfo{}, err
	}

	var text string
	if paragraphs := root.Find("p"); len(paragraphs) > 0 {
		parts := make([]string, 0, len(paragraphs))
		for _, p := range paragraphs {
			if t := strings.TrimSpace(p.Text()); t != "" {
				parts = append(parts, t)
			}
		}
		text = strings.Join(parts, " ")
	} else {
		text = root.Text()
	}

	return ParseDateText(text), nil
}

// ParseDateText cleans already-extracted date text and parses it.
func ParseDateText(text string) DateInfo {
	text = strings.ReplaceAll(text, "\u00a0", " ")
	text = strings.TrimSpace(whitespaceRun.ReplaceAllString(text, " "))
	text = trailingDash.ReplaceAllString(text, "")

	t := ParseDate(text)
	if t.IsZero() {
		return DateInfo{Display: text}
	}
	return DateInfo{Instant: &t, Display: t.Format(DisplayLayout)}
}

// ParseDate attempts to parse date text in the host's local time zone.
// Text without a year is placed in the current year, or the next one when
// that day has already passed.
// Returns time.Time{} (zero value) if parsing fails.
func ParseDate(text string) time.Time {
	return parseDateAt(text, time.Now())
}

func parseDateAt(text string, now time.Time) time.Time {
	if text == "" {
		return time.Time{}
	}

	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, text, time.Local); err == nil {
			return t
		}
	}

	t := parseLoose(text)
	if !t.IsZero() && t.Year() == 0 {
		t = withYear(t, now)
	}
	return t
}

// withYear moves a yearless date into now's year, rolling over to next year
// when the day is already behind now.
func withYear(t, now time.Time) time.Time {
	now = now.In(t.Location())
	dated := time.Date(now.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, t.Location())
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, t.Location())
	if dated.Before(today) {
		dated = time.Date(now.Year()+1, t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, t.Location())
	}
	return dated
}

// parseLoose hands text to dateparse, which recognises far more shapes than
// the layout list. dateparse can panic on some malformed input.
func parseLoose(text string) (t time.Time) {
	defer func() {
		if recover() != nil {
			t = time.Time{}
		}
	}()

	parsed, err := dateparse.ParseIn(text, time.Local)
	if err != nil {
		return time.Time{}
	}
	return parsed
}

// IsPastEvent checks if an event's start has passed.
// Returns false if the start is unknown (safer default).
func (e *Event) IsPastEvent() bool {
	if e.Start == nil {
		return false // Can't determine, don't filter
	}
	return e.Start.Before(time.Now())
}

// IsWithinDays checks if an event starts within N days from now.
// Returns true if days <= 0 (feature disabled) or the start is unknown.
func (e *Event) IsWithinDays(days int) bool {
	if days <= 0 {
		return true // Feature disabled
	}
	if e.Start == nil {
		return true // Can't determine, include it
	}
	now := time.Now()
	cutoff := now.AddDate(0, 0, days)
	return e.Start.After(now) && e.Start.Before(cutoff)
}

// IsUpcoming checks if an event is in the future (not past).
// Returns true if the start is unknown (safer default).
func (e *Event) IsUpcoming() bool {
	if e.Start == nil {
		return true // Can't determine, include it
	}
	return e.Start.After(time.Now())
}
