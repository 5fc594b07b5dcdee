package cli

import (
	"sort"
	"strings"

	"github.com/Pranoy-dev/Knightec-Conferences/internal/event"
)

// SortOrder represents the available sorting options
type SortOrder string

const (
	SortByDate     SortOrder = "date"
	SortByName     SortOrder = "name"
	SortByCategory SortOrder = "category"
)

// sortEvents sorts a slice of events based on the specified sort order
func sortEvents(events []*event.ScrapedEvent, sortOrder SortOrder) {
	switch sortOrder {
	case SortByDate:
		sort.SliceStable(events, func(i, j int) bool {
			return compareByDate(events[i], events[j])
		})
	case SortByName:
		sort.SliceStable(events, func(i, j int) bool {
			ni, nj := strings.ToLower(events[i].Name), strings.ToLower(events[j].Name)
			if ni != nj {
				return ni < nj
			}
			return compareByDate(events[i], events[j])
		})
	case SortByCategory:
		sort.SliceStable(events, func(i, j int) bool {
			ci, cj := events[i].CategoryName(), events[j].CategoryName()
			if ci != cj {
				// Uncategorized events go last
				if ci == "" || cj == "" {
					return cj == ""
				}
				return ci < cj
			}
			return compareByDate(events[i], events[j])
		})
	}
}

// compareByDate compares two events by their start date
// Returns true if event i should come before event j
func compareByDate(i, j *event.ScrapedEvent) bool {
	// Normalized dates are YYYY-MM-DD and compare lexically
	if i.StartDate != "" && j.StartDate != "" && i.StartDate != j.StartDate {
		return i.StartDate < j.StartDate
	}

	// If only one date is set, put the dated one first
	if i.StartDate != "" && j.StartDate == "" {
		return true
	}
	if i.StartDate == "" && j.StartDate != "" {
		return false
	}

	return strings.ToLower(i.Name) < strings.ToLower(j.Name)
}
