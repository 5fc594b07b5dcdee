// Package cli implements the command-line interface for the conference scraper.
//
// The cli package provides the Cobra-based CLI with two commands: scrape, which
// fetches one or more event pages and prints the results as text, JSON or iCalendar,
// and serve, which runs the HTTP endpoint used by the conference creation form.
// It coordinates the config, scraper, calendar and server packages.
package cli
