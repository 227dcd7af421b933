package filter

import (
	"testing"
	"time"
)

func TestParseDateRange(t *testing.T) {
	now := time.Date(2025, 10, 19, 15, 4, 0, 0, time.UTC)
	day := func(year int, month time.Month, d int) time.Time {
		return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
	}

	tests := []struct {
		name     string
		input    string
		wantFrom time.Time
		wantTo   time.Time
		wantErr  bool
	}{
		{"same month", "Oct 1-15", day(2025, 10, 1), day(2025, 10, 15), false},
		{"same month full name", "October 20 - 31", day(2025, 10, 20), day(2025, 10, 31), false},
		{"past month rolls to next year", "Mar 1-15", day(2026, 3, 1), day(2026, 3, 15), false},
		{"cross month", "October 28 - November 3", day(2025, 10, 28), day(2025, 11, 3), false},
		{"cross year", "Dec 20 - Jan 5", day(2025, 12, 20), day(2026, 1, 5), false},
		{"whole month", "November", day(2025, 11, 1), day(2025, 11, 30), false},
		{"sept abbreviation", "Sept", day(2026, 9, 1), day(2026, 9, 30), false},
		{"iso range", "2025-10-01..2025-10-31", day(2025, 10, 1), day(2025, 10, 31), false},
		{"iso range with to", "2025-10-01 to 2025-10-02", day(2025, 10, 1), day(2025, 10, 2), false},
		{"today", "today", day(2025, 10, 19), day(2025, 10, 19), false},
		{"week", "Week", day(2025, 10, 19), day(2025, 10, 25), false},
		{"empty", "", time.Time{}, time.Time{}, true},
		{"reversed days", "Oct 15-1", time.Time{}, time.Time{}, true},
		{"invalid day", "Oct 0-5", time.Time{}, time.Time{}, true},
		{"reversed iso", "2025-10-31..2025-10-01", time.Time{}, time.Time{}, true},
		{"garbage", "next tuesday-ish", time.Time{}, time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from, to, err := ParseDateRange(tt.input, now)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDateRange(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}

			if !from.Equal(tt.wantFrom) {
				t.Errorf("from = %v, want %v", from, tt.wantFrom)
			}
			wantTo := tt.wantTo.Add(23*time.Hour + 59*time.Minute + 59*time.Second)
			if !to.Equal(wantTo) {
				t.Errorf("to = %v, want %v", to, wantTo)
			}
		})
	}
}

func TestParseMonth(t *testing.T) {
	tests := []struct {
		input string
		want  time.Month
	}{
		{"jan", time.January},
		{"January", time.January},
		{" SEP ", time.September},
		{"sept", time.September},
		{"may", time.May},
		{"smarch", 0},
	}

	for _, tt := range tests {
		if got := parseMonth(tt.input); got != tt.want {
			t.Errorf("parseMonth(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
