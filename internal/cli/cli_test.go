package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pfrederiksen/campus-events/internal/event"
)

const fixture = "testdata/listings.json"

type runResult struct {
	code   int
	stdout string
	stderr string
}

func run(t *testing.T, stdin string, args ...string) runResult {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := Run(context.Background(), args, strings.NewReader(stdin), &stdout, &stderr)
	return runResult{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

// isolate keeps the user's config file and environment out of the test.
func isolate(t *testing.T) string {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	return t.TempDir()
}

func decodeResult(t *testing.T, out string) OutputResult {
	t.Helper()
	var result OutputResult
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	return result
}

func TestRunReportsNewFreeFoodEvents(t *testing.T) {
	dataDir := isolate(t)

	first := run(t, "", "-i", fixture, "--data-dir", dataDir, "--format", "json")
	if first.code != ExitNewEvents {
		t.Fatalf("first run exit = %d, want %d\nstderr: %s", first.code, ExitNewEvents, first.stderr)
	}

	result := decodeResult(t, first.stdout)
	if result.EventCount != 1 || result.Events[0].Title != "Pizza & Politics" {
		t.Fatalf("expected only the open free-food event, got %+v", result.Events)
	}
	if result.Feed != "all" {
		t.Errorf("Feed = %q, want all", result.Feed)
	}

	second := run(t, "", "-i", fixture, "--data-dir", dataDir)
	if second.code != ExitSuccess {
		t.Fatalf("second run exit = %d, want %d", second.code, ExitSuccess)
	}
	if !strings.Contains(second.stdout, "No new events found.") {
		t.Errorf("unexpected output: %q", second.stdout)
	}

	if _, err := os.Stat(filepath.Join(dataDir, "snapshot.json")); err != nil {
		t.Errorf("snapshot not written: %v", err)
	}
}

func TestRunAllEvents(t *testing.T) {
	dataDir := isolate(t)

	res := run(t, "", "-i", fixture, "--data-dir", dataDir, "--format", "json",
		"--all", "--free-food-only=false", "--include-housing", "--sort", "title")
	if res.code != ExitNewEvents {
		t.Fatalf("exit = %d, stderr: %s", res.code, res.stderr)
	}

	result := decodeResult(t, res.stdout)
	if result.EventCount != 3 {
		t.Fatalf("expected 3 events, got %d", result.EventCount)
	}
	var titles []string
	for _, evt := range result.Events {
		titles = append(titles, evt.Title)
	}
	if got := strings.Join(titles, "|"); got != "Floor Movie Night|Pizza & Politics|Resume Review" {
		t.Errorf("titles = %s", got)
	}
	if !result.ShowAll {
		t.Error("ShowAll should be set")
	}
}

func TestRunRefresh(t *testing.T) {
	dataDir := isolate(t)

	res := run(t, "", "-i", fixture, "--data-dir", dataDir, "--refresh")
	if res.code != ExitSuccess {
		t.Fatalf("refresh exit = %d, stderr: %s", res.code, res.stderr)
	}
	if !strings.Contains(res.stdout, "Snapshot refreshed successfully.") {
		t.Errorf("unexpected output: %q", res.stdout)
	}

	after := run(t, "", "-i", fixture, "--data-dir", dataDir)
	if after.code != ExitSuccess {
		t.Errorf("events seen during refresh should not be new, exit = %d", after.code)
	}
}

func TestRunStdinAndICS(t *testing.T) {
	dataDir := isolate(t)
	data, err := os.ReadFile(fixture)
	if err != nil {
		t.Fatal(err)
	}

	res := run(t, string(data), "-i", "-", "--data-dir", dataDir, "--format", "ics")
	if res.code != ExitNewEvents {
		t.Fatalf("exit = %d, stderr: %s", res.code, res.stderr)
	}
	if !strings.HasPrefix(res.stdout, "BEGIN:VCALENDAR\r\n") || !strings.Contains(res.stdout, "UID:11856204@campus-events") {
		t.Errorf("unexpected ICS output:\n%s", res.stdout)
	}
}

func TestRunRulesFile(t *testing.T) {
	dataDir := isolate(t)
	rulesPath := filepath.Join(t.TempDir(), "rules.yaml")
	if err := os.WriteFile(rulesPath, []byte("free_food:\n  - resume\n"), 0644); err != nil {
		t.Fatal(err)
	}

	res := run(t, "", "-i", fixture, "--data-dir", dataDir, "--format", "json", "--rules", rulesPath)
	if res.code != ExitNewEvents {
		t.Fatalf("exit = %d, stderr: %s", res.code, res.stderr)
	}

	result := decodeResult(t, res.stdout)
	if result.EventCount != 1 || result.Events[0].Title != "Resume Review" {
		t.Errorf("expected the custom keyword to select Resume Review, got %+v", result.Events)
	}
}

func TestRunEnvironmentAndConfigFile(t *testing.T) {
	dataDir := isolate(t)

	t.Setenv("CAMPUS_EVENTS_FORMAT", "ics")
	res := run(t, "", "-i", fixture, "--data-dir", dataDir)
	if !strings.HasPrefix(res.stdout, "BEGIN:VCALENDAR") {
		t.Errorf("environment should select ics, got %q", res.stdout)
	}

	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	cfg := "format: json\nall: true\ndata-dir: " + t.TempDir() + "\n"
	if err := os.WriteFile(cfgPath, []byte(cfg), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CAMPUS_EVENTS_FORMAT", "")

	res = run(t, "", "-i", fixture, "--config", cfgPath, "--format", "json")
	if res.code != ExitNewEvents {
		t.Fatalf("exit = %d, stderr: %s", res.code, res.stderr)
	}
	if result := decodeResult(t, res.stdout); !result.ShowAll {
		t.Error("config file should enable --all")
	}
}

func TestRunNotifiesWebhook(t *testing.T) {
	dataDir := isolate(t)

	var posts, status atomic.Int32
	status.Store(http.StatusBadRequest)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		posts.Add(1)
		w.WriteHeader(int(status.Load()))
	}))
	defer server.Close()

	failed := run(t, "", "-i", fixture, "--data-dir", dataDir, "--notify-webhook", server.URL)
	if failed.code != ExitError || !strings.Contains(failed.stderr, "notifying") {
		t.Fatalf("rejected webhook should fail the run, exit = %d, stderr: %s", failed.code, failed.stderr)
	}

	// The snapshot was not saved, so the same events are still new.
	status.Store(http.StatusOK)
	ok := run(t, "", "-i", fixture, "--data-dir", dataDir, "--notify-webhook", server.URL)
	if ok.code != ExitNewEvents {
		t.Fatalf("exit = %d, stderr: %s", ok.code, ok.stderr)
	}
	if got := posts.Load(); got != 2 {
		t.Errorf("server saw %d posts, want 2", got)
	}

	quiet := run(t, "", "-i", fixture, "--data-dir", dataDir, "--notify-webhook", server.URL)
	if quiet.code != ExitSuccess || posts.Load() != 2 {
		t.Errorf("no new events should mean no post, exit = %d, posts = %d", quiet.code, posts.Load())
	}
}

func TestRunNotifyDryRun(t *testing.T) {
	dataDir := isolate(t)

	res := run(t, "", "-i", fixture, "--data-dir", dataDir, "--notify-dry-run", "--format", "json")
	if res.code != ExitNewEvents {
		t.Fatalf("exit = %d, stderr: %s", res.code, res.stderr)
	}
	if !strings.Contains(res.stderr, "--- Message 1/1 ---") {
		t.Errorf("dry run should print to stderr, got %q", res.stderr)
	}
	decodeResult(t, res.stdout)
}

func TestRunErrors(t *testing.T) {
	dataDir := isolate(t)

	tests := []struct {
		name    string
		stdin   string
		args    []string
		wantErr string
	}{
		{"invalid format", "", []string{"-i", fixture, "--data-dir", dataDir, "--format", "xml"}, "invalid format"},
		{"invalid sort", "", []string{"-i", fixture, "--data-dir", dataDir, "--sort", "size"}, "invalid sort"},
		{"bad concurrency", "", []string{"-i", fixture, "--data-dir", dataDir, "--concurrency", "0"}, "concurrency"},
		{"bad dates", "", []string{"-i", fixture, "--data-dir", dataDir, "--dates", "someday"}, "parsing --dates"},
		{"missing input", "", []string{"-i", "testdata/missing.json", "--data-dir", dataDir}, "opening listings"},
		{"empty stdin", "", []string{"--data-dir", dataDir}, "no listings"},
		{"missing rules", "", []string{"-i", fixture, "--data-dir", dataDir, "--rules", "testdata/missing.yaml"}, "loading rules"},
		{"unexpected argument", "", []string{"extra"}, "unknown command"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := run(t, tt.stdin, tt.args...)
			if res.code != ExitError {
				t.Fatalf("exit = %d, want %d", res.code, ExitError)
			}
			if !strings.Contains(res.stderr, tt.wantErr) {
				t.Errorf("stderr = %q, want it to contain %q", res.stderr, tt.wantErr)
			}
		})
	}
}

func TestNewRootCmdDefaults(t *testing.T) {
	cmd := NewRootCmd(strings.NewReader(""), &bytes.Buffer{}, &bytes.Buffer{})

	tests := map[string]string{
		"format":          "text",
		"sort":            "date",
		"feed":            "all",
		"free-food-only":  "true",
		"include-housing": "false",
		"data-dir":        defaultDataDir,
	}
	for name, want := range tests {
		flag := cmd.Flags().Lookup(name)
		if flag == nil {
			t.Errorf("flag --%s not defined", name)
			continue
		}
		if flag.DefValue != want {
			t.Errorf("--%s default = %q, want %q", name, flag.DefValue, want)
		}
	}
}

func TestConfigFilter(t *testing.T) {
	now := time.Date(2025, 10, 19, 12, 0, 0, 0, time.UTC)
	cfg := &Config{
		FreeFoodOnly: true,
		Categories:   []string{" lecture ", ""},
		Dates:        "week",
	}

	f, err := cfg.Filter(now)
	if err != nil {
		t.Fatalf("Filter() error = %v", err)
	}
	if !f.FreeFoodOnly || !f.ExcludeHousing {
		t.Errorf("unexpected flags: %+v", f)
	}
	if len(f.Categories) != 1 || f.Categories[0] != "lecture" {
		t.Errorf("Categories = %v", f.Categories)
	}
	if f.DateFrom == nil || f.DateTo == nil || f.DateTo.Day() != 25 {
		t.Errorf("date range = %v - %v", f.DateFrom, f.DateTo)
	}
}

func TestSortEvents(t *testing.T) {
	early := time.Date(2025, 10, 20, 9, 0, 0, 0, time.UTC)
	late := time.Date(2025, 10, 22, 9, 0, 0, 0, time.UTC)

	newEvents := func() []*event.Event {
		return []*event.Event{
			{ID: "1", Title: "bagel breakfast", Category: "Social", Start: &late},
			{ID: "2", Title: "Art Walk", Category: "Arts", Start: nil},
			{ID: "3", Title: "Career Fair", Category: "Social", Start: &early},
		}
	}

	tests := []struct {
		order SortOrder
		want  string
	}{
		{SortByDate, "3,1,2"},
		{SortByTitle, "2,1,3"},
		{SortByCategory, "2,3,1"},
	}

	for _, tt := range tests {
		t.Run(string(tt.order), func(t *testing.T) {
			events := newEvents()
			sortEvents(events, tt.order)

			ids := make([]string, len(events))
			for i, evt := range events {
				ids[i] = evt.ID
			}
			if got := strings.Join(ids, ","); got != tt.want {
				t.Errorf("order = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestWriteText(t *testing.T) {
	start := time.Date(2025, 10, 23, 18, 0, 0, 0, time.UTC)
	events := []*event.Event{
		{ID: "1", Title: "Pizza & Politics", Category: "Lecture / Presentation", DateText: "Thu, Oct 23, 2025, 6:00 PM", Start: &start, HasFreeFood: true, FoodMatches: []string{"free pizza", "pizza"}},
		{ID: "2", Title: "Floor Movie Night", Category: "RA Floor Program", DateText: "TBD", IsHousingOnly: true},
	}
	result := newOutputResult(start, &Config{Feed: "all"}, events)

	var buf bytes.Buffer
	if err := WriteOutput(&buf, result, FormatText, true); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	for _, want := range []string{
		"Lecture (1 new):",
		"NEW: Pizza & Politics",
		"When: Thu, Oct 23, 2025, 6:00 PM",
		"Food: free pizza, pizza",
		"RA Floor Program (1 new):",
		"Residents only",
		"ID: 2",
		"Total: 2 new across 2 categories",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	if strings.Index(out, "Lecture") > strings.Index(out, "RA Floor Program") {
		t.Error("categories should be listed alphabetically")
	}
}
