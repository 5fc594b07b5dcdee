package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Pranoy-dev/Knightec-Conferences/internal/event"
	"github.com/Pranoy-dev/Knightec-Conferences/internal/logger"
	"github.com/Pranoy-dev/Knightec-Conferences/internal/scraper"
	"github.com/Pranoy-dev/Knightec-Conferences/internal/storage"
)

var (
	flagFormat   string
	flagTimeout  time.Duration
	flagSort     string
	flagCacheDir string
	flagCacheTTL time.Duration
)

func newScrapeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrape <url> [url...]",
		Short: "Extract event details from one or more event pages",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runScrape,
	}

	cmd.Flags().StringVar(&flagFormat, "format", "text", "Output format: text, json or ics")
	cmd.Flags().DurationVar(&flagTimeout, "timeout", 0, "Fetch timeout per page (overrides scraper.timeout)")
	cmd.Flags().StringVar(&flagSort, "sort", "", "Sort results: date, name or category")
	cmd.Flags().StringVar(&flagCacheDir, "cache-dir", "", "Reuse results cached in this directory (disabled when empty)")
	cmd.Flags().DurationVar(&flagCacheTTL, "cache-ttl", storage.DefaultTTL, "How long cached results stay fresh")

	return cmd
}

func runScrape(cmd *cobra.Command, args []string) error {
	format := OutputFormat(strings.ToLower(flagFormat))
	if format != FormatText && format != FormatJSON && format != FormatICS {
		return fmt.Errorf("invalid format: %s (must be 'text', 'json' or 'ics')", flagFormat)
	}

	sortOrder := SortOrder(strings.ToLower(flagSort))
	if sortOrder != "" && sortOrder != SortByDate && sortOrder != SortByName && sortOrder != SortByCategory {
		return fmt.Errorf("invalid sort: %s (must be 'date', 'name' or 'category')", flagSort)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if flagTimeout > 0 {
		cfg.Scraper.Timeout = flagTimeout
	}

	sc := scraper.NewWithFetcher(scraper.NewHTTPFetcher(cfg.Scraper.Timeout, cfg.Scraper.UserAgent, cfg.Scraper.MaxBodyBytes))

	var cache *storage.Storage
	if flagCacheDir != "" {
		cache, err = storage.New(flagCacheDir, flagCacheTTL)
		if err != nil {
			return fmt.Errorf("initializing cache: %w", err)
		}
		if removed, err := cache.Prune(); err != nil {
			logger.Warn("Pruning cache failed", logger.Fields{"dir": flagCacheDir, "error": err.Error()})
		} else if removed > 0 {
			logger.Debug("Pruned cache", logger.Fields{"dir": flagCacheDir, "removed": removed})
		}
	}

	result := &OutputResult{ScrapedAt: time.Now().UTC()}
	for _, rawURL := range args {
		evt, err := scrapeCached(cmd, sc, cache, rawURL)
		if err != nil {
			logger.Warn("Scrape failed", logger.Fields{"url": rawURL, "error": err.Error()})
			result.Failures = append(result.Failures, Failure{URL: rawURL, Error: err.Error()})
			continue
		}
		result.Events = append(result.Events, evt)
	}
	result.EventCount = len(result.Events)

	if sortOrder != "" {
		sortEvents(result.Events, sortOrder)
	}

	if result.EventCount > 0 || format != FormatICS {
		if err := WriteOutput(cmd.OutOrStdout(), result, format, flagVerbose); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
	}

	if len(result.Failures) > 0 {
		if len(args) == 1 {
			return fmt.Errorf("%s", result.Failures[0].Error)
		}
		return fmt.Errorf("%d of %d pages failed to scrape", len(result.Failures), len(args))
	}
	return nil
}

// scrapeCached serves rawURL from the cache when possible. Cache failures are logged
// and never fail the scrape.
func scrapeCached(cmd *cobra.Command, sc *scraper.Scraper, cache *storage.Storage, rawURL string) (*event.ScrapedEvent, error) {
	if cache != nil {
		evt, ok, err := cache.Load(rawURL)
		if err != nil {
			logger.Warn("Reading cache failed", logger.Fields{"url": rawURL, "error": err.Error()})
		}
		if ok {
			logger.Debug("Using cached result", logger.Fields{"url": rawURL})
			return evt, nil
		}
	}

	logger.Debug("Scraping", logger.Fields{"url": rawURL})
	evt, err := sc.Scrape(cmd.Context(), rawURL)
	if err != nil {
		return nil, err
	}

	if cache != nil {
		if err := cache.Save(rawURL, evt); err != nil {
			logger.Warn("Writing cache failed", logger.Fields{"url": rawURL, "error": err.Error()})
		}
	}
	return evt, nil
}
