// Package event provides types and functions for processed campus events.
//
// An Event is what the scraper produces for one platform listing: the cleaned
// description, category and date, plus the free-food and housing flags. Each
// event carries a deterministic ID (the platform ID when present, otherwise a
// SHA1 of its URL and title) so runs can be diffed through snapshots.
package event
