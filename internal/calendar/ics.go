// Package calendar renders processed events as an iCalendar (RFC 5545) feed.
package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/pfrederiksen/campus-events/internal/event"
)

// DefaultDuration is the length given to events, since listings carry only
// a start time.
const DefaultDuration = time.Hour

// maxLineOctets is the RFC 5545 content line limit, excluding CRLF.
const maxLineOctets = 75

// GenerateICS generates an iCalendar feed containing every event. now stamps
// each entry's DTSTAMP.
//
// Events with a parsed start run for DefaultDuration. Events whose date
// could not be parsed become tentative all-day entries on the day they were
// first seen, with the platform's date text in the description.
func GenerateICS(events []*event.Event, now time.Time) string {
	var ics strings.Builder

	writeLine(&ics, "BEGIN:VCALENDAR")
	writeLine(&ics, "VERSION:2.0")
	writeLine(&ics, "PRODID:-//Campus Events//campus-events//EN")
	writeLine(&ics, "CALSCALE:GREGORIAN")
	writeLine(&ics, "METHOD:PUBLISH")
	writeLine(&ics, "X-WR-CALNAME:Campus Events")

	for _, evt := range events {
		writeEvent(&ics, evt, now)
	}

	writeLine(&ics, "END:VCALENDAR")

	return ics.String()
}

func writeEvent(ics *strings.Builder, evt *event.Event, now time.Time) {
	writeLine(ics, "BEGIN:VEVENT")
	writeLine(ics, fmt.Sprintf("UID:%s@campus-events", evt.ID))
	writeLine(ics, "DTSTAMP:"+formatICSTime(now))

	status := "CONFIRMED"
	if evt.Start != nil {
		writeLine(ics, "DTSTART:"+formatICSTime(*evt.Start))
		writeLine(ics, "DTEND:"+formatICSTime(evt.Start.Add(DefaultDuration)))
	} else {
		day := evt.FirstSeen
		if day.IsZero() {
			day = now
		}
		writeLine(ics, "DTSTART;VALUE=DATE:"+day.Format("20060102"))
		writeLine(ics, "DTEND;VALUE=DATE:"+day.AddDate(0, 0, 1).Format("20060102"))
		status = "TENTATIVE"
	}

	summary := evt.Title
	if evt.HasFreeFood {
		summary = "[Free food] " + summary
	}
	writeLine(ics, "SUMMARY:"+escapeICS(summary))

	var sections []string
	if evt.Start == nil && evt.DateText != "" {
		sections = append(sections, "Date: "+evt.DateText)
	}
	if evt.Description != "" {
		sections = append(sections, evt.Description)
	}
	if len(evt.FoodMatches) > 0 {
		sections = append(sections, "Food: "+strings.Join(evt.FoodMatches, ", "))
	}
	if evt.IsHousingOnly {
		sections = append(sections, "Residents only.")
	}
	writeLine(ics, "DESCRIPTION:"+escapeICS(strings.Join(sections, "\n\n")))

	if evt.Category != "" {
		labels := strings.Split(evt.Category, " / ")
		for i, label := range labels {
			labels[i] = escapeICS(label)
		}
		writeLine(ics, "CATEGORIES:"+strings.Join(labels, ","))
	}

	if evt.URL != "" {
		writeLine(ics, "URL:"+evt.URL)
	}

	writeLine(ics, "STATUS:"+status)
	writeLine(ics, "TRANSP:TRANSPARENT")
	writeLine(ics, "END:VEVENT")
}

// writeLine writes one content line, folding it at maxLineOctets without
// splitting a UTF-8 sequence.
func writeLine(ics *strings.Builder, line string) {
	limit := maxLineOctets
	for len(line) > limit {
		cut := limit
		for cut > 0 && !isRuneStart(line[cut]) {
			cut--
		}
		ics.WriteString(line[:cut])
		ics.WriteString("\r\n ")
		line = line[cut:]
		// continuation lines spend one octet on the leading space
		limit = maxLineOctets - 1
	}
	ics.WriteString(line)
	ics.WriteString("\r\n")
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}

// formatICSTime formats a time.Time as an iCalendar datetime string
func formatICSTime(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

// escapeICS escapes special characters for iCalendar format
func escapeICS(s string) string {
	// Replace special characters according to RFC 5545
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}
