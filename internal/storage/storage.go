package storage

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Pranoy-dev/Knightec-Conferences/internal/event"
)

// DefaultTTL is how long a cached scrape stays fresh
const DefaultTTL = 24 * time.Hour

// Entry is one cached scrape as stored on disk
type Entry struct {
	URL       string              `json:"url"`
	ScrapedAt time.Time           `json:"scraped_at"`
	Source    event.Source        `json:"source"`
	Event     *event.ScrapedEvent `json:"event"`
}

// Storage handles persistence of scraped events
type Storage struct {
	dataDir string
	ttl     time.Duration
	now     func() time.Time
}

// New creates a new Storage instance. A zero ttl uses DefaultTTL.
func New(dataDir string, ttl time.Duration) (*Storage, error) {
	// Expand ~ to home directory
	if strings.HasPrefix(dataDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, dataDir[2:])
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &Storage{
		dataDir: dataDir,
		ttl:     ttl,
		now:     time.Now,
	}, nil
}

// entryPath returns the cache file for a page URL
func (s *Storage) entryPath(rawURL string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(rawURL)))
	return filepath.Join(s.dataDir, "scrape_"+hex.EncodeToString(sum[:16])+".json")
}

// Load returns the cached event for rawURL. ok is false when nothing is cached or the
// entry has expired.
func (s *Storage) Load(rawURL string) (*event.ScrapedEvent, bool, error) {
	data, err := os.ReadFile(s.entryPath(rawURL))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("reading cache entry: %w", err)
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, false, fmt.Errorf("parsing cache entry: %w", err)
	}

	if entry.Event == nil || entry.URL != strings.TrimSpace(rawURL) {
		return nil, false, nil
	}
	if s.now().Sub(entry.ScrapedAt) > s.ttl {
		return nil, false, nil
	}

	// Source is not part of the event's JSON form
	entry.Event.Source = entry.Source
	if entry.Event.SuggestedCategories == nil {
		entry.Event.SuggestedCategories = []string{}
	}
	return entry.Event, true, nil
}

// Save stores evt for rawURL, replacing any previous entry
func (s *Storage) Save(rawURL string, evt *event.ScrapedEvent) error {
	entry := Entry{
		URL:       strings.TrimSpace(rawURL),
		ScrapedAt: s.now().UTC(),
		Source:    evt.Source,
		Event:     evt,
	}

	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding cache entry: %w", err)
	}

	// Write then rename so readers never see a partial file
	path := s.entryPath(rawURL)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing cache entry: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("writing cache entry: %w", err)
	}

	return nil
}

// Prune removes expired entries and returns how many were deleted
func (s *Storage) Prune() (int, error) {
	paths, err := filepath.Glob(filepath.Join(s.dataDir, "scrape_*.json"))
	if err != nil {
		return 0, fmt.Errorf("listing cache: %w", err)
	}

	removed := 0
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}

		var entry Entry
		if err := json.Unmarshal(data, &entry); err == nil && s.now().Sub(entry.ScrapedAt) <= s.ttl {
			continue
		}

		// Expired or unreadable
		if err := os.Remove(path); err != nil {
			return removed, fmt.Errorf("removing %s: %w", filepath.Base(path), err)
		}
		removed++
	}

	return removed, nil
}
