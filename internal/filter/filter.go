// Package filter narrows a list of processed events.
//
// Criteria combine with AND:
//   - Free food only
//   - Exclude housing-only events
//   - Categories (substring matching, case-insensitive)
//   - Text search over title and description
//   - Date range (from/to, inclusive) on the parsed start time
//   - Weekends only (Saturday/Sunday)
//
// Events whose start could not be parsed are never excluded by a date
// criterion.
//
// Example usage:
//
//	f := filter.NewFilter()
//	f.FreeFoodOnly = true
//	f.ExcludeHousing = true
//	f.Categories = []string{"lecture"}
//
//	filtered := f.Apply(events)
package filter

import (
	"fmt"
	"strings"
	"time"

	"github.com/pfrederiksen/campus-events/internal/event"
)

// Filter represents event filtering criteria
type Filter struct {
	FreeFoodOnly   bool `json:"free_food_only,omitempty"`
	ExcludeHousing bool `json:"exclude_housing,omitempty"`

	// Category filtering (case-insensitive substring match on the joined category)
	Categories []string `json:"categories,omitempty"`

	// Search matches title or description (case-insensitive substring match)
	Search string `json:"search,omitempty"`

	// Date range filtering
	DateFrom *time.Time `json:"date_from,omitempty"`
	DateTo   *time.Time `json:"date_to,omitempty"`

	// Weekend-only filtering (Saturday/Sunday)
	WeekendsOnly bool `json:"weekends_only,omitempty"`
}

// NewFilter creates a new empty filter with no active criteria.
// The filter will match all events until criteria are added.
func NewFilter() *Filter {
	return &Filter{
		Categories: []string{},
	}
}

// IsEmpty checks if the filter has any active criteria.
func (f *Filter) IsEmpty() bool {
	return !f.FreeFoodOnly &&
		!f.ExcludeHousing &&
		len(f.Categories) == 0 &&
		strings.TrimSpace(f.Search) == "" &&
		f.DateFrom == nil &&
		f.DateTo == nil &&
		!f.WeekendsOnly
}

// Matches checks if an event matches all active filter criteria.
// An empty filter matches all events.
func (f *Filter) Matches(evt *event.Event) bool {
	if f.IsEmpty() {
		return true
	}

	if f.FreeFoodOnly && !evt.HasFreeFood {
		return false
	}

	if f.ExcludeHousing && evt.IsHousingOnly {
		return false
	}

	if start := evt.Start; start != nil {
		if f.DateFrom != nil && start.Before(*f.DateFrom) {
			return false
		}
		if f.DateTo != nil && start.After(*f.DateTo) {
			return false
		}
		if f.WeekendsOnly {
			weekday := start.Weekday()
			if weekday != time.Saturday && weekday != time.Sunday {
				return false
			}
		}
	}

	if len(f.Categories) > 0 && !containsAny(evt.Category, f.Categories) {
		return false
	}

	if search := strings.TrimSpace(f.Search); search != "" {
		if !containsAny(evt.Title, []string{search}) && !containsAny(evt.Description, []string{search}) {
			return false
		}
	}

	return true
}

func containsAny(s string, needles []string) bool {
	lower := strings.ToLower(s)
	for _, needle := range needles {
		needle = strings.ToLower(strings.TrimSpace(needle))
		if needle != "" && strings.Contains(lower, needle) {
			return true
		}
	}
	return false
}

// Apply applies the filter to a list of events and returns only matching events.
// If the filter is empty, returns the original list unchanged.
func (f *Filter) Apply(events []*event.Event) []*event.Event {
	if f.IsEmpty() {
		return events
	}

	var filtered []*event.Event
	for _, evt := range events {
		if f.Matches(evt) {
			filtered = append(filtered, evt)
		}
	}

	return filtered
}

// String returns a human-readable description of the active filter criteria.
// Format: "Free food only | Categories: lecture | From: Oct 1, 2025"
func (f *Filter) String() string {
	if f.IsEmpty() {
		return "No active filters"
	}

	var parts []string

	if f.FreeFoodOnly {
		parts = append(parts, "Free food only")
	}

	if f.ExcludeHousing {
		parts = append(parts, "Excluding housing-only")
	}

	if len(f.Categories) > 0 {
		parts = append(parts, fmt.Sprintf("Categories: %s", strings.Join(f.Categories, ", ")))
	}

	if search := strings.TrimSpace(f.Search); search != "" {
		parts = append(parts, fmt.Sprintf("Search: %q", search))
	}

	if f.DateFrom != nil {
		parts = append(parts, fmt.Sprintf("From: %s", f.DateFrom.Format("Jan 2, 2006")))
	}

	if f.DateTo != nil {
		parts = append(parts, fmt.Sprintf("To: %s", f.DateTo.Format("Jan 2, 2006")))
	}

	if f.WeekendsOnly {
		parts = append(parts, "Weekends only")
	}

	return strings.Join(parts, " | ")
}

// Clone creates a deep copy of the filter.
func (f *Filter) Clone() *Filter {
	clone := &Filter{
		FreeFoodOnly:   f.FreeFoodOnly,
		ExcludeHousing: f.ExcludeHousing,
		Search:         f.Search,
		WeekendsOnly:   f.WeekendsOnly,
		Categories:     append([]string{}, f.Categories...),
	}

	if f.DateFrom != nil {
		df := *f.DateFrom
		clone.DateFrom = &df
	}

	if f.DateTo != nil {
		dt := *f.DateTo
		clone.DateTo = &dt
	}

	return clone
}
