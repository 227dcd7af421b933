package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/pfrederiksen/campus-events/internal/event"
)

// MaxChangeLog caps the number of changes kept in a saved snapshot.
const MaxChangeLog = 200

var unsafeFeedChars = regexp.MustCompile(`[^a-z0-9_-]+`)

// Storage handles persistence of event snapshots
type Storage struct {
	dataDir string
}

// New creates a new Storage instance
func New(dataDir string) (*Storage, error) {
	// Expand ~ to home directory
	if strings.HasPrefix(dataDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, dataDir[2:])
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &Storage{
		dataDir: dataDir,
	}, nil
}

// Dir returns the resolved data directory.
func (s *Storage) Dir() string {
	return s.dataDir
}

// snapshotPath returns the path to the snapshot file for feed
func (s *Storage) snapshotPath(feed string) string {
	feed = unsafeFeedChars.ReplaceAllString(strings.ToLower(strings.TrimSpace(feed)), "-")
	feed = strings.Trim(feed, "-")
	if feed == "" || feed == "all" {
		return filepath.Join(s.dataDir, "snapshot.json")
	}
	return filepath.Join(s.dataDir, fmt.Sprintf("snapshot_%s.json", feed))
}

// LoadSnapshot loads a snapshot from disk. A missing file yields an empty
// snapshot.
func (s *Storage) LoadSnapshot(feed string) (*event.Snapshot, error) {
	data, err := os.ReadFile(s.snapshotPath(feed))
	if err != nil {
		if os.IsNotExist(err) {
			return event.NewSnapshot(), nil
		}
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	var snapshot event.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("parsing snapshot: %w", err)
	}

	if snapshot.Events == nil {
		snapshot.Events = make(map[string]*event.Event)
	}
	if snapshot.StableIndex == nil {
		snapshot.StableIndex = make(map[string]string)
	}

	return &snapshot, nil
}

// SaveSnapshot writes a snapshot to disk. The file is replaced atomically so
// an interrupted run leaves the previous snapshot intact.
func (s *Storage) SaveSnapshot(snapshot *event.Snapshot, feed string) error {
	path := s.snapshotPath(feed)

	snapshot.UpdatedAt = time.Now().UTC().Format(time.RFC3339)

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	tmp, err := os.CreateTemp(s.dataDir, ".snapshot-*.json")
	if err != nil {
		return fmt.Errorf("creating temp snapshot: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing snapshot: %w", err)
	}

	return nil
}

// CreateSnapshotFromEvents builds the next snapshot from the current events
// and saves it. Events already present in previous keep their FirstSeen
// time, and changes against previous are appended to the change log. The
// detected changes are returned.
func (s *Storage) CreateSnapshotFromEvents(events []*event.Event, previous *event.Snapshot, feed string) ([]*event.EventChange, error) {
	if previous == nil {
		previous = event.NewSnapshot()
	}

	for _, evt := range events {
		if prev, ok := previous.Events[evt.ID]; ok && !prev.FirstSeen.IsZero() {
			evt.FirstSeen = prev.FirstSeen
		}
	}

	snapshot := event.CreateSnapshot(events, time.Now().UTC().Format(time.RFC3339))
	changes := event.CompareSnapshots(previous.Events, snapshot.Events, previous.StableIndex, snapshot.StableIndex)

	snapshot.ChangeLog = append(append(snapshot.ChangeLog, previous.ChangeLog...), changes...)
	if n := len(snapshot.ChangeLog); n > MaxChangeLog {
		snapshot.ChangeLog = snapshot.ChangeLog[n-MaxChangeLog:]
	}

	if err := s.SaveSnapshot(snapshot, feed); err != nil {
		return nil, err
	}
	return changes, nil
}

// GetEventByID retrieves an event by ID from the feed's snapshot
func (s *Storage) GetEventByID(feed, eventID string) (*event.Event, error) {
	snapshot, err := s.LoadSnapshot(feed)
	if err != nil {
		return nil, fmt.Errorf("loading snapshot: %w", err)
	}

	if evt, exists := snapshot.Events[eventID]; exists {
		return evt, nil
	}

	return nil, fmt.Errorf("event not found: %s", eventID)
}
