package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/pfrederiksen/campus-events/internal/calendar"
	"github.com/pfrederiksen/campus-events/internal/event"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
	FormatICS  OutputFormat = "ics"
)

// OutputResult contains data to be output
type OutputResult struct {
	CheckedAt  time.Time                 `json:"checked_at"`
	Feed       string                    `json:"feed"`
	Filter     string                    `json:"filter,omitempty"`
	Events     []*event.Event            `json:"events"`
	EventCount int                       `json:"event_count"`
	ByCategory map[string][]*event.Event `json:"-"`
	ShowAll    bool                      `json:"show_all,omitempty"`
}

func newOutputResult(now time.Time, cfg *Config, events []*event.Event) *OutputResult {
	if events == nil {
		events = []*event.Event{}
	}

	byCategory := make(map[string][]*event.Event)
	for _, evt := range events {
		cat := evt.PrimaryCategory()
		byCategory[cat] = append(byCategory[cat], evt)
	}

	return &OutputResult{
		CheckedAt:  now.UTC(),
		Feed:       cfg.Feed,
		Events:     events,
		EventCount: len(events),
		ByCategory: byCategory,
		ShowAll:    cfg.All,
	}
}

// WriteOutput writes the result in the specified format
func WriteOutput(w io.Writer, result *OutputResult, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeText(w, result, verbose)
	case FormatICS:
		_, err := io.WriteString(w, calendar.GenerateICS(result.Events, result.CheckedAt))
		return err
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs results as JSON
func writeJSON(w io.Writer, result *OutputResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// writeText outputs results grouped by primary category. Events within a
// group keep the order of result.Events.
func writeText(w io.Writer, result *OutputResult, verbose bool) error {
	eventLabel := "new"
	eventPrefix := "NEW: "
	if result.ShowAll {
		eventLabel = "events"
		eventPrefix = ""
	}

	if result.EventCount == 0 {
		if result.ShowAll {
			fmt.Fprintln(w, "No events found.")
		} else {
			fmt.Fprintln(w, "No new events found.")
		}
		return nil
	}

	categories := make([]string, 0, len(result.ByCategory))
	for cat := range result.ByCategory {
		categories = append(categories, cat)
	}
	sort.Strings(categories)

	for _, cat := range categories {
		events := result.ByCategory[cat]

		fmt.Fprintf(w, "\n%s (%d %s):\n", cat, len(events), eventLabel)
		for _, evt := range events {
			fmt.Fprintf(w, "  %s%s\n", eventPrefix, evt.Title)
			if evt.DateText != "" {
				fmt.Fprintf(w, "       When: %s\n", evt.DateText)
			}
			if evt.HasFreeFood {
				fmt.Fprintf(w, "       Food: %s\n", strings.Join(evt.FoodMatches, ", "))
			}
			if evt.IsHousingOnly {
				fmt.Fprintln(w, "       Residents only")
			}
			if verbose {
				fmt.Fprintf(w, "       ID: %s\n", evt.ID)
				if evt.URL != "" {
					fmt.Fprintf(w, "       URL: %s\n", evt.URL)
				}
				if evt.Description != "" {
					fmt.Fprintf(w, "       %s\n", indent(evt.Description, "       "))
				}
			}
		}
	}

	fmt.Fprintf(w, "\nTotal: %d %s across %d categories\n", result.EventCount, eventLabel, len(result.ByCategory))
	if result.Filter != "" {
		fmt.Fprintf(w, "Filters: %s\n", result.Filter)
	}

	return nil
}

func indent(s, prefix string) string {
	return strings.ReplaceAll(s, "\n", "\n"+prefix)
}
