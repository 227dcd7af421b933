package cli

import (
	"sort"
	"strings"

	"github.com/pfrederiksen/campus-events/internal/event"
)

// SortOrder represents the available sorting options
type SortOrder string

const (
	SortByDate     SortOrder = "date"
	SortByTitle    SortOrder = "title"
	SortByCategory SortOrder = "category"
)

// sortEvents sorts a slice of events based on the specified sort order.
// Ties always fall back to the start time.
func sortEvents(events []*event.Event, sortOrder SortOrder) {
	// Start order first so the stable sorts below keep it within ties.
	event.SortByStart(events)

	switch sortOrder {
	case SortByTitle:
		sort.SliceStable(events, func(i, j int) bool {
			return strings.ToLower(events[i].Title) < strings.ToLower(events[j].Title)
		})
	case SortByCategory:
		sort.SliceStable(events, func(i, j int) bool {
			return strings.ToLower(events[i].PrimaryCategory()) < strings.ToLower(events[j].PrimaryCategory())
		})
	}
}
