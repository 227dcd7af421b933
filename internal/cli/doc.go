// Package cli implements the command-line interface for campus-events.
//
// The cli package provides the Cobra-based command, configured through
// Viper (flags, CAMPUS_EVENTS_* environment variables and an optional
// $HOME/.campus-events.yaml). It reads captured listings, runs them through
// the scraper, diffs them against the stored snapshot, filters and sorts
// them, and reports in text, JSON or iCalendar form.
package cli
