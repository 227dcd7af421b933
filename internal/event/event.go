package event

import (
	"crypto/sha1"
	"fmt"
	"strings"
	"time"
)

// Event represents one processed listing from the events platform
type Event struct {
	ID            string     `json:"id"`
	StableKey     string     `json:"stable_key"` // Stable identifier based on normalized title
	Title         string     `json:"title"`
	URL           string     `json:"url,omitempty"`
	Category      string     `json:"category,omitempty"`
	DateText      string     `json:"date_text"`
	Start         *time.Time `json:"start,omitempty"`
	Description   string     `json:"description"`
	HasFreeFood   bool       `json:"has_free_food"`
	IsHousingOnly bool       `json:"is_housing_only"`
	FoodMatches   []string   `json:"food_matches,omitempty"`
	FirstSeen     time.Time  `json:"first_seen"`
}

// GenerateID creates a deterministic ID for an event without a platform ID
func GenerateID(url, title string) string {
	h := sha1.New()
	h.Write([]byte(url + "|" + title))
	return fmt.Sprintf("%x", h.Sum(nil))
}

// GenerateStableKey creates a stable identifier based on normalized title.
// This key stays the same when the platform re-issues an event under a new ID.
func GenerateStableKey(title string) string {
	normalized := strings.Join(strings.Fields(strings.ToLower(title)), " ")

	h := sha1.New()
	h.Write([]byte(normalized))
	return fmt.Sprintf("%x", h.Sum(nil))
}

// NewEvent creates a new Event with ID, StableKey, and FirstSeen populated.
// sourceID is the platform's own identifier and may be empty.
func NewEvent(sourceID, title, url string) *Event {
	id := strings.TrimSpace(sourceID)
	if id == "" {
		id = GenerateID(url, title)
	}
	return &Event{
		ID:        id,
		StableKey: GenerateStableKey(title),
		Title:     title,
		URL:       url,
		FirstSeen: time.Now().UTC(),
	}
}

// SetDate copies a parsed DateInfo onto the event.
func (e *Event) SetDate(info DateInfo) {
	e.DateText = info.Display
	e.Start = info.Instant
}

// PrimaryCategory returns the first label of the category, or
// "Uncategorized" when the event has none.
func (e *Event) PrimaryCategory() string {
	first, _, _ := strings.Cut(e.Category, " / ")
	if first = strings.TrimSpace(first); first == "" {
		return "Uncategorized"
	}
	return first
}
