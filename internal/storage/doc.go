// Package storage provides JSON-based persistence for event snapshots.
//
// Snapshots track processed events across runs so the CLI can report which
// listings are new. Each feed gets its own file (snapshot_FEED.json); the
// default feed is stored in snapshot.json. The default storage location is
// ~/.local/share/campus-events/.
package storage
