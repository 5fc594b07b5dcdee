// Package scraper fetches a conference or event page and recovers its details.
//
// Extraction runs as a fallback chain. Embedded JSON-LD describing a schema.org Event is
// preferred when present; otherwise heuristic pattern matching over the markup and its
// visible text recovers the title, date, location and price. A location that turns out to
// be a URL is discarded and re-extracted heuristically. The result is classified against
// the category taxonomy before it is returned.
package scraper
