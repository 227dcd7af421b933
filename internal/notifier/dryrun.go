package notifier

import (
	"context"
	"fmt"
	"io"

	"github.com/pfrederiksen/campus-events/internal/event"
)

// DryRunNotifier prints what would be posted without sending anything
type DryRunNotifier struct {
	w io.Writer
}

// NewDryRunNotifier creates a new dry-run notifier writing to w
func NewDryRunNotifier(w io.Writer) *DryRunNotifier {
	return &DryRunNotifier{w: w}
}

// Notify prints the messages that would be posted
func (n *DryRunNotifier) Notify(_ context.Context, events []*event.Event) error {
	for i, evt := range events {
		if _, err := fmt.Fprintf(n.w, "--- Message %d/%d ---\n%s\n\n", i+1, len(events), formatMessage(evt)); err != nil {
			return fmt.Errorf("writing dry-run message: %w", err)
		}
	}
	return nil
}
