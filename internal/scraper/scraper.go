package scraper

import (
	"context"
	"fmt"

	"github.com/Pranoy-dev/Knightec-Conferences/internal/category"
	"github.com/Pranoy-dev/Knightec-Conferences/internal/event"
	"github.com/Pranoy-dev/Knightec-Conferences/internal/logger"
)

// Scraper turns an event page URL into a ScrapedEvent
type Scraper struct {
	fetcher Fetcher
}

// New creates a Scraper backed by an HTTPFetcher with default settings
func New() *Scraper {
	return NewWithFetcher(NewHTTPFetcher(0, "", 0))
}

// NewWithFetcher creates a Scraper using the given fetcher
func NewWithFetcher(f Fetcher) *Scraper {
	return &Scraper{fetcher: f}
}

// Scrape fetches rawURL and extracts its event details.
// Only fetch failures abort; every extraction miss leaves the field empty.
func (s *Scraper) Scrape(ctx context.Context, rawURL string) (*event.ScrapedEvent, error) {
	markup, err := s.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to scrape event data: %w", err)
	}

	evt, err := Extract(markup, rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to scrape event data: %w", err)
	}
	return evt, nil
}

// Extract runs the extraction chain over already fetched markup
func Extract(markup, sourceURL string) (*event.ScrapedEvent, error) {
	p, err := newPage(markup)
	if err != nil {
		return nil, err
	}

	evt := extractStructured(p)
	if evt != nil {
		if evt.URL == "" {
			evt.URL = sourceURL
		}
		if evt.Location == "" || looksLikeURL(evt.Location) {
			location, strategy := extractLocation(p)
			logger.Debug("Re-extracted location heuristically", logger.Fields{
				"url":       sourceURL,
				"discarded": evt.Location,
				"location":  location,
				"strategy":  strategy,
			})
			evt.Location = location
		}
	} else {
		evt = extractFallback(p, sourceURL)
	}

	classify(evt)

	logger.Debug("Extracted event", logger.Fields{
		"url":      sourceURL,
		"source":   string(evt.Source),
		"name":     evt.Name,
		"category": evt.CategoryName(),
	})

	return evt, nil
}

// classify attaches the primary category and ranked suggestions
func classify(evt *event.ScrapedEvent) {
	result := category.Classify(evt.Name, evt.Description, evt.URL)
	evt.SetCategories(result.Primary, result.Suggestions)
}
