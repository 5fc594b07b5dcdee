package event

import (
	"regexp"
	"strings"
	"time"
)

// DateLayout is the calendar-date format every normalized date uses
const DateLayout = "2006-01-02"

// nativeLayouts cover machine-readable date-times, e.g. schema.org startDate values
var nativeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
}

// explicitLayouts are tried in order; US month-first variants win over European ones
var explicitLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05.000Z",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"01/02/2006",
	"1/2/2006",
	"02/01/2006",
	"2/1/2006",
	"01-02-2006",
	"1-2-2006",
	"02-01-2006",
	"2-1-2006",
	"02.01.2006",
	"2.1.2006",
}

// looseLayouts accept the human-written forms found in page text
var looseLayouts = []string{
	"January 2, 2006",
	"January 2 2006",
	"Jan 2, 2006",
	"Jan 2 2006",
	"2 January 2006",
	"2 January, 2006",
	"2 Jan 2006",
	"Monday, January 2, 2006",
	"Monday, 2 January 2006",
	"Mon, Jan 2, 2006",
	"Mon, 2 Jan 2006",
	"2006/01/02",
	"2006/1/2",
	time.RFC1123,
	time.RFC1123Z,
}

var (
	ordinalSuffix  = regexp.MustCompile(`(?i)\b(\d{1,2})(st|nd|rd|th)\b`)
	abbrevDot      = regexp.MustCompile(`\b([A-Za-z]{3})\.`)
	collapseSpaces = regexp.MustCompile(`\s+`)
)

// NormalizeDate converts a date or date-time string into a YYYY-MM-DD calendar date.
// The calendar date is taken in the parsed value's own offset; no timezone conversion
// is applied. Returns false when no known layout matches.
func NormalizeDate(value string) (string, bool) {
	t, ok := ParseDate(value)
	if !ok {
		return "", false
	}
	return t.Format(DateLayout), true
}

// ParseDate attempts native date-time parsing, then the explicit layouts, then the
// loose human-written layouts. The first successful parse wins.
func ParseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}

	for _, layout := range nativeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}

	for _, layout := range explicitLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}

	loose := cleanLooseDate(value)
	for _, layout := range looseLayouts {
		if t, err := time.Parse(layout, loose); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// cleanLooseDate strips ordinal suffixes ("15th") and abbreviation dots ("Mar.")
func cleanLooseDate(value string) string {
	value = ordinalSuffix.ReplaceAllString(value, "$1")
	value = abbrevDot.ReplaceAllString(value, "$1")
	return collapseSpaces.ReplaceAllString(strings.TrimSpace(value), " ")
}
