package event

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// Snapshot represents a collection of events at a point in time
type Snapshot struct {
	Events      map[string]*Event `json:"events"`       // keyed by Event.ID
	StableIndex map[string]string `json:"stable_index"` // StableKey → ID mapping
	ChangeLog   []*EventChange    `json:"change_log"`   // Recent changes
	UpdatedAt   string            `json:"updated_at"`   // RFC3339 timestamp
}

// NewSnapshot creates an empty snapshot
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Events:      make(map[string]*Event),
		StableIndex: make(map[string]string),
		ChangeLog:   make([]*EventChange, 0),
	}
}

// DiffResult contains the results of comparing two snapshots
type DiffResult struct {
	NewEvents  []*Event
	Categories map[string][]*Event // new events grouped by primary category
}

// Diff compares current events against a previous snapshot and returns new events
func Diff(previous *Snapshot, current []*Event) *DiffResult {
	result := &DiffResult{
		NewEvents:  make([]*Event, 0),
		Categories: make(map[string][]*Event),
	}

	if previous == nil {
		previous = NewSnapshot()
	}

	for _, evt := range current {
		if _, exists := previous.Events[evt.ID]; exists {
			continue
		}
		result.NewEvents = append(result.NewEvents, evt)

		cat := evt.PrimaryCategory()
		result.Categories[cat] = append(result.Categories[cat], evt)
	}

	// Sort new events for consistent output
	SortByStart(result.NewEvents)
	for cat := range result.Categories {
		SortByStart(result.Categories[cat])
	}

	return result
}

// SortByStart orders events by start time. Events without a parsed start go
// last; ties fall back to title, then ID.
func SortByStart(events []*Event) {
	sort.SliceStable(events, func(i, j int) bool {
		return lessByStart(events[i], events[j])
	})
}

func lessByStart(a, b *Event) bool {
	switch {
	case a.Start != nil && b.Start != nil && !a.Start.Equal(*b.Start):
		return a.Start.Before(*b.Start)
	case a.Start != nil && b.Start == nil:
		return true
	case a.Start == nil && b.Start != nil:
		return false
	}
	if ta, tb := strings.ToLower(a.Title), strings.ToLower(b.Title); ta != tb {
		return ta < tb
	}
	return a.ID < b.ID
}

// CreateSnapshot creates a snapshot from a list of events
func CreateSnapshot(events []*Event, updatedAt string) *Snapshot {
	snap := NewSnapshot()
	snap.UpdatedAt = updatedAt

	for _, evt := range events {
		snap.Events[evt.ID] = evt
		// Build stable index
		if evt.StableKey != "" {
			snap.StableIndex[evt.StableKey] = evt.ID
		}
	}

	return snap
}

// Change types recorded in EventChange.ChangeType
const (
	ChangeNew      = "new"
	ChangeDate     = "date"
	ChangeTitle    = "title"
	ChangeCategory = "category"
	ChangeFreeFood = "free_food"
)

// EventChange represents a change detected in an event
type EventChange struct {
	EventID    string    `json:"event_id"`
	StableKey  string    `json:"stable_key"`
	ChangeType string    `json:"change_type"`
	OldValue   string    `json:"old_value"`
	NewValue   string    `json:"new_value"`
	DetectedAt time.Time `json:"detected_at"`
}

// DetectChanges compares two events and returns detected changes
func DetectChanges(previous, current *Event) []*EventChange {
	now := time.Now().UTC()

	// If no previous event, this is a new event
	if previous == nil {
		return []*EventChange{
			{
				EventID:    current.ID,
				StableKey:  current.StableKey,
				ChangeType: ChangeNew,
				NewValue:   current.Title,
				DetectedAt: now,
			},
		}
	}

	var changes []*EventChange
	record := func(changeType, oldValue, newValue string) {
		if oldValue == newValue {
			return
		}
		changes = append(changes, &EventChange{
			EventID:    current.ID,
			StableKey:  current.StableKey,
			ChangeType: changeType,
			OldValue:   oldValue,
			NewValue:   newValue,
			DetectedAt: now,
		})
	}

	record(ChangeDate, previous.DateText, current.DateText)
	record(ChangeTitle, previous.Title, current.Title)
	record(ChangeCategory, previous.Category, current.Category)
	record(ChangeFreeFood, strconv.FormatBool(previous.HasFreeFood), strconv.FormatBool(current.HasFreeFood))

	return changes
}

// CompareSnapshots compares two sets of events and returns all detected changes
func CompareSnapshots(previousEvents, currentEvents map[string]*Event, previousIndex, currentIndex map[string]string) []*EventChange {
	var allChanges []*EventChange

	// Check each stable key in current snapshot
	for stableKey, currentID := range currentIndex {
		currentEvent := currentEvents[currentID]

		// Look for previous event with same stable key
		if previousID, exists := previousIndex[stableKey]; exists {
			previousEvent := previousEvents[previousID]
			allChanges = append(allChanges, DetectChanges(previousEvent, currentEvent)...)
		} else {
			allChanges = append(allChanges, DetectChanges(nil, currentEvent)...)
		}
	}

	sort.SliceStable(allChanges, func(i, j int) bool {
		if allChanges[i].EventID != allChanges[j].EventID {
			return allChanges[i].EventID < allChanges[j].EventID
		}
		return allChanges[i].ChangeType < allChanges[j].ChangeType
	})

	return allChanges
}
