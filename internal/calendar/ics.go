// Package calendar renders scraped events as iCalendar (.ics) files.
package calendar

import (
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Pranoy-dev/Knightec-Conferences/internal/event"
)

const (
	prodID      = "-//Knightec Conferences//conference-scraper//EN"
	uidDomain   = "conference-scraper"
	icsDate     = "20060102"
	maxLineOcts = 75
)

// ErrNoStartDate is returned for events that cannot be placed on a calendar
var ErrNoStartDate = errors.New("event has no start date")

// now is replaced in tests
var now = time.Now

// GenerateICS renders a single event as a calendar with one all-day VEVENT
func GenerateICS(evt *event.ScrapedEvent) (string, error) {
	var ics strings.Builder
	writeHeader(&ics, "")
	if err := writeEvent(&ics, evt, now()); err != nil {
		return "", err
	}
	ics.WriteString("END:VCALENDAR\r\n")
	return ics.String(), nil
}

// GenerateBulkICS renders several events into one calendar. Events without a
// start date are skipped; an empty string is returned when none remain.
func GenerateBulkICS(events []*event.ScrapedEvent, calendarName string) string {
	var body strings.Builder
	stamp := now()
	count := 0

	for _, evt := range events {
		if err := writeEvent(&body, evt, stamp); err != nil {
			continue
		}
		count++
	}
	if count == 0 {
		return ""
	}

	var ics strings.Builder
	writeHeader(&ics, calendarName)
	ics.WriteString(body.String())
	ics.WriteString("END:VCALENDAR\r\n")
	return ics.String()
}

func writeHeader(ics *strings.Builder, calendarName string) {
	ics.WriteString("BEGIN:VCALENDAR\r\n")
	ics.WriteString("VERSION:2.0\r\n")
	ics.WriteString("PRODID:" + prodID + "\r\n")
	ics.WriteString("CALSCALE:GREGORIAN\r\n")
	ics.WriteString("METHOD:PUBLISH\r\n")
	if calendarName != "" {
		writeLine(ics, "X-WR-CALNAME", escapeICS(calendarName))
	}
}

// writeEvent appends one VEVENT. Conference dates are whole days, so DTSTART and
// DTEND are DATE values with DTEND exclusive.
func writeEvent(ics *strings.Builder, evt *event.ScrapedEvent, stamp time.Time) error {
	start, err := time.Parse(event.DateLayout, evt.StartDate)
	if err != nil {
		return ErrNoStartDate
	}

	end := start
	if evt.EndDate != "" {
		if parsed, err := time.Parse(event.DateLayout, evt.EndDate); err == nil && !parsed.Before(start) {
			end = parsed
		}
	}

	ics.WriteString("BEGIN:VEVENT\r\n")
	writeLine(ics, "UID", eventUID(evt))
	writeLine(ics, "DTSTAMP", formatICSTime(stamp))
	writeLine(ics, "DTSTART;VALUE=DATE", start.Format(icsDate))
	writeLine(ics, "DTEND;VALUE=DATE", end.AddDate(0, 0, 1).Format(icsDate))

	summary := evt.Name
	if summary == "" {
		summary = "Conference"
	}
	writeLine(ics, "SUMMARY", escapeICS(summary))

	if evt.Location != "" {
		writeLine(ics, "LOCATION", escapeICS(evt.Location))
	}

	description := evt.Description
	if evt.Price != nil {
		price := fmt.Sprintf("Price: %g", *evt.Price)
		if description == "" {
			description = price
		} else {
			description += "\n\n" + price
		}
	}
	if description != "" {
		writeLine(ics, "DESCRIPTION", escapeICS(description))
	}

	if evt.Category != nil {
		writeLine(ics, "CATEGORIES", escapeICS(*evt.Category))
	}
	if evt.URL != "" {
		writeLine(ics, "URL", evt.URL)
	}

	ics.WriteString("STATUS:CONFIRMED\r\n")
	ics.WriteString("SEQUENCE:0\r\n")
	ics.WriteString("TRANSP:TRANSPARENT\r\n")
	ics.WriteString("END:VEVENT\r\n")
	return nil
}

// eventUID is stable across runs for the same page and event name
func eventUID(evt *event.ScrapedEvent) string {
	sum := sha1.Sum([]byte(evt.URL + "|" + evt.Name))
	return hex.EncodeToString(sum[:]) + "@" + uidDomain
}

// writeLine writes a content line folded at 75 octets
func writeLine(ics *strings.Builder, name, value string) {
	line := name + ":" + value
	limit := maxLineOcts
	for len(line) > limit {
		cut := limit
		// Never split a UTF-8 sequence
		for cut > 0 && line[cut]&0xC0 == 0x80 {
			cut--
		}
		ics.WriteString(line[:cut])
		ics.WriteString("\r\n ")
		line = line[cut:]
		// continuation lines start with a space
		limit = maxLineOcts - 1
	}
	ics.WriteString(line)
	ics.WriteString("\r\n")
}

// formatICSTime formats a time.Time as an iCalendar datetime string
func formatICSTime(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

// escapeICS escapes special characters for iCalendar format
func escapeICS(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, "\r\n", "\\n")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}
