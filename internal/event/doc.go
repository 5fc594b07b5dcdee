// Package event provides the transient records produced by the event-page scraper.
//
// A ScrapedEvent is the best-effort result of one scrape: every field is optional and
// missing values are left for manual entry on the conference form. The package also holds
// the date and price normalization used by every extraction strategy, and the
// ConferenceDraft that pre-fills the conference creation form.
package event
