package notifier

import (
	"context"
	"fmt"
	"strings"

	"github.com/pfrederiksen/campus-events/internal/event"
)

// maxMessageLength keeps one event's message within common chat limits.
const maxMessageLength = 500

// Notifier defines the interface for posting event notifications
type Notifier interface {
	// Notify posts notifications for the given events
	Notify(ctx context.Context, events []*event.Event) error
}

// formatMessage formats an event as a short chat message
func formatMessage(evt *event.Event) string {
	var b strings.Builder

	if evt.HasFreeFood {
		b.WriteString("🍕 Free food: ")
	} else {
		b.WriteString("📣 New event: ")
	}
	b.WriteString(evt.Title)
	b.WriteString("\n")

	if evt.DateText != "" {
		fmt.Fprintf(&b, "📅 %s\n", evt.DateText)
	}
	if evt.Category != "" {
		fmt.Fprintf(&b, "🏷️ %s\n", evt.Category)
	}
	if len(evt.FoodMatches) > 0 {
		fmt.Fprintf(&b, "🥤 %s\n", strings.Join(evt.FoodMatches, ", "))
	}
	if evt.IsHousingOnly {
		b.WriteString("🏠 Residents only\n")
	}
	if evt.URL != "" {
		fmt.Fprintf(&b, "🔗 %s\n", evt.URL)
	}

	return truncate(strings.TrimRight(b.String(), "\n"), maxMessageLength)
}

// truncate shortens s to at most limit runes, ending in "...".
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-3]) + "..."
}
