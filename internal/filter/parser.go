package filter

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const monthPattern = `(jan|january|feb|february|mar|march|apr|april|may|jun|june|jul|july|aug|august|sep|sept|september|oct|october|nov|november|dec|december)`

var (
	sameMonthRange  = regexp.MustCompile(`(?i)^` + monthPattern + `\s+(\d{1,2})\s*-\s*(\d{1,2})$`)
	crossMonthRange = regexp.MustCompile(`(?i)^` + monthPattern + `\s+(\d{1,2})\s*-\s*` + monthPattern + `\s+(\d{1,2})$`)
	wholeMonth      = regexp.MustCompile(`(?i)^` + monthPattern + `$`)
	isoRange        = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})\s*(?:\.\.|to)\s*(\d{4}-\d{2}-\d{2})$`)
)

// ParseDateRange parses a date range string into start and end times
// relative to now.
//
// Supported formats:
//   - "Oct 1-15" or "October 1-15" - Same month, different days
//   - "October 28 - November 3" - Different months
//   - "October" - Entire month
//   - "2025-10-01..2025-10-31" or "2025-10-01 to 2025-10-31" - Explicit dates
//   - "today" or "week" - Today, or today and the next six days
//
// Month names without a year resolve to the current year, or next year when
// the month has already passed. Times are in now's location; the start is at
// 00:00:00 and the end at 23:59:59.
func ParseDateRange(input string, now time.Time) (*time.Time, *time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, nil, fmt.Errorf("date range cannot be empty")
	}
	loc := now.Location()

	switch strings.ToLower(input) {
	case "today":
		return dayRange(now, now)
	case "week":
		return dayRange(now, now.AddDate(0, 0, 6))
	}

	if m := isoRange.FindStringSubmatch(input); m != nil {
		from, err := time.ParseInLocation("2006-01-02", m[1], loc)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid date %q: %w", m[1], err)
		}
		to, err := time.ParseInLocation("2006-01-02", m[2], loc)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid date %q: %w", m[2], err)
		}
		return dayRange(from, to)
	}

	if m := sameMonthRange.FindStringSubmatch(input); m != nil {
		month := parseMonth(m[1])
		day1, err := parseDay(m[2])
		if err != nil {
			return nil, nil, err
		}
		day2, err := parseDay(m[3])
		if err != nil {
			return nil, nil, err
		}

		year := yearForMonth(month, now)
		return dayRange(
			time.Date(year, month, day1, 0, 0, 0, 0, loc),
			time.Date(year, month, day2, 0, 0, 0, 0, loc),
		)
	}

	if m := crossMonthRange.FindStringSubmatch(input); m != nil {
		month1 := parseMonth(m[1])
		day1, err := parseDay(m[2])
		if err != nil {
			return nil, nil, err
		}
		month2 := parseMonth(m[3])
		day2, err := parseDay(m[4])
		if err != nil {
			return nil, nil, err
		}

		year1 := yearForMonth(month1, now)
		year2 := year1
		// "Dec 20 - Jan 5" wraps into the following year
		if month2 < month1 {
			year2++
		}

		return dayRange(
			time.Date(year1, month1, day1, 0, 0, 0, 0, loc),
			time.Date(year2, month2, day2, 0, 0, 0, 0, loc),
		)
	}

	if m := wholeMonth.FindStringSubmatch(input); m != nil {
		month := parseMonth(m[1])
		year := yearForMonth(month, now)
		// Day 0 of the next month is the last day of this one.
		return dayRange(
			time.Date(year, month, 1, 0, 0, 0, 0, loc),
			time.Date(year, month+1, 0, 0, 0, 0, 0, loc),
		)
	}

	return nil, nil, fmt.Errorf("invalid date range format. Use 'Oct 1-15', 'October 28 - November 3', 'October', '2025-10-01..2025-10-31', 'today' or 'week'")
}

// dayRange spans from the start of first's day to the end of last's day.
func dayRange(first, last time.Time) (*time.Time, *time.Time, error) {
	from := time.Date(first.Year(), first.Month(), first.Day(), 0, 0, 0, 0, first.Location())
	to := time.Date(last.Year(), last.Month(), last.Day(), 23, 59, 59, 0, last.Location())

	if from.After(to) {
		return nil, nil, fmt.Errorf("start date must be before end date")
	}

	return &from, &to, nil
}

func parseDay(s string) (int, error) {
	day, err := strconv.Atoi(s)
	if err != nil || day < 1 || day > 31 {
		return 0, fmt.Errorf("invalid day: %s", s)
	}
	return day, nil
}

// parseMonth converts a month name to time.Month
func parseMonth(name string) time.Month {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "sept" {
		return time.September
	}

	for m := time.January; m <= time.December; m++ {
		full := strings.ToLower(m.String())
		if name == full || name == full[:3] {
			return m
		}
	}
	return 0
}

// yearForMonth returns now's year, or the next one when month has passed.
func yearForMonth(month time.Month, now time.Time) int {
	year := now.Year()
	if month < now.Month() {
		year++
	}
	return year
}
