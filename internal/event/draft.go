package event

import (
	"fmt"
	"strings"
)

// Status is the planning state of a conference
type Status string

const (
	StatusInterested Status = "Interested"
	StatusPlanned    Status = "Planned"
	StatusBooked     Status = "Booked"
	StatusAttended   Status = "Attended"
)

// Statuses lists every valid status in workflow order
var Statuses = []Status{StatusInterested, StatusPlanned, StatusBooked, StatusAttended}

// ParseStatus matches a status name case-insensitively
func ParseStatus(s string) (Status, error) {
	for _, status := range Statuses {
		if strings.EqualFold(strings.TrimSpace(s), string(status)) {
			return status, nil
		}
	}
	return "", fmt.Errorf("invalid status: %q (must be one of Interested, Planned, Booked, Attended)", s)
}

// ConferenceDraft holds the values that pre-fill the conference creation form.
// Field names follow the conference table columns.
type ConferenceDraft struct {
	Name      string   `json:"name"`
	Location  string   `json:"location,omitempty"`
	Category  string   `json:"category,omitempty"`
	Price     *float64 `json:"price,omitempty"`
	Currency  string   `json:"currency,omitempty"`
	StartDate string   `json:"start_date,omitempty"`
	EndDate   string   `json:"end_date,omitempty"`
	EventLink string   `json:"event_link,omitempty"`
	Notes     string   `json:"notes,omitempty"`
	Status    Status   `json:"status"`
}

// NewConferenceDraft derives a form draft from a scraped event.
// The scraped price carries no currency, so currency is supplied by the caller.
// An end date earlier than the start date is dropped.
func NewConferenceDraft(evt *ScrapedEvent, currency string) *ConferenceDraft {
	draft := &ConferenceDraft{
		Name:      evt.Name,
		Location:  evt.Location,
		Category:  evt.CategoryName(),
		StartDate: evt.StartDate,
		EndDate:   evt.EndDate,
		EventLink: evt.URL,
		Notes:     evt.Description,
		Status:    StatusInterested,
	}

	if evt.Price != nil {
		price := *evt.Price
		draft.Price = &price
		draft.Currency = strings.ToUpper(strings.TrimSpace(currency))
	}

	// ISO dates compare lexically
	if draft.StartDate != "" && draft.EndDate != "" && draft.EndDate < draft.StartDate {
		draft.EndDate = ""
	}

	return draft
}
