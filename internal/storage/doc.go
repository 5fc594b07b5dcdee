// Package storage keeps a file-per-URL cache of scraped events.
//
// Each entry is a JSON file named after a hash of the page URL and records when the
// page was scraped. Entries older than the TTL are treated as missing and can be
// removed with Prune. The scrape command prunes and then uses the cache when
// --cache-dir is set.
package storage
