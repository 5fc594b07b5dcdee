package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/Pranoy-dev/Knightec-Conferences/internal/calendar"
	"github.com/Pranoy-dev/Knightec-Conferences/internal/event"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
	FormatICS  OutputFormat = "ics"
)

const calendarName = "Conferences"

// Failure records a page that could not be scraped
type Failure struct {
	URL   string `json:"url"`
	Error string `json:"error"`
}

// OutputResult contains data to be output
type OutputResult struct {
	ScrapedAt  time.Time             `json:"scraped_at"`
	Events     []*event.ScrapedEvent `json:"events"`
	EventCount int                   `json:"event_count"`
	Failures   []Failure             `json:"failures,omitempty"`
}

// WriteOutput writes the result in the specified format
func WriteOutput(w io.Writer, result *OutputResult, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeText(w, result, verbose)
	case FormatICS:
		return writeICS(w, result)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs results as JSON
func writeJSON(w io.Writer, result *OutputResult) error {
	if result.Events == nil {
		result.Events = []*event.ScrapedEvent{}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// writeICS outputs one calendar. A single event must have a start date; with several,
// undated events are left out.
func writeICS(w io.Writer, result *OutputResult) error {
	if len(result.Events) == 1 {
		ics, err := calendar.GenerateICS(result.Events[0])
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, ics)
		return err
	}

	ics := calendar.GenerateBulkICS(result.Events, calendarName)
	if ics == "" {
		return calendar.ErrNoStartDate
	}
	_, err := io.WriteString(w, ics)
	return err
}

// writeText outputs results as human-readable text
func writeText(w io.Writer, result *OutputResult, verbose bool) error {
	if result.EventCount == 0 && len(result.Failures) == 0 {
		fmt.Fprintln(w, "No events found.")
		return nil
	}

	for i, evt := range result.Events {
		if i > 0 {
			fmt.Fprintln(w)
		}
		writeEventText(w, evt, verbose)
	}

	for _, f := range result.Failures {
		fmt.Fprintf(w, "FAILED: %s: %s\n", f.URL, f.Error)
	}

	if result.EventCount+len(result.Failures) > 1 {
		fmt.Fprintf(w, "\nTotal: %d scraped, %d failed\n", result.EventCount, len(result.Failures))
	}
	return nil
}

func writeEventText(w io.Writer, evt *event.ScrapedEvent, verbose bool) {
	name := evt.Name
	if name == "" {
		name = "(untitled event)"
	}
	fmt.Fprintln(w, name)

	field := func(label, value string) {
		if value != "" {
			fmt.Fprintf(w, "  %-10s %s\n", label+":", value)
		}
	}

	field("Location", evt.Location)
	field("Dates", dateRange(evt.StartDate, evt.EndDate))
	if evt.Price != nil {
		field("Price", strconv.FormatFloat(*evt.Price, 'f', -1, 64))
	}
	field("Category", evt.CategoryName())
	field("Suggested", strings.Join(evt.SuggestedCategories, ", "))
	field("URL", evt.URL)

	if verbose {
		field("Source", string(evt.Source))
		field("About", evt.Description)
	}
}

func dateRange(start, end string) string {
	switch {
	case start == "":
		return end
	case end == "" || end == start:
		return start
	default:
		return start + " to " + end
	}
}
