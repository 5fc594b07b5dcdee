package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html/charset"
)

const (
	// UserAgent identifies as a common desktop browser; many event sites block bot agents
	UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	Accept    = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
	Timeout   = 30 * time.Second

	MaxBodyBytes int64 = 10 << 20
)

// Fetcher retrieves the raw markup of a page
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (string, error)
}

// FetchError reports a failed page fetch: either a transport failure (Err set) or a
// non-success HTTP status (StatusCode set)
type FetchError struct {
	URL        string
	StatusCode int
	Status     string
	Err        error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Status)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// HTTPFetcher fetches pages with a single GET request and no retries
type HTTPFetcher struct {
	client       *http.Client
	userAgent    string
	maxBodyBytes int64
}

// NewHTTPFetcher creates a fetcher. Zero values select the package defaults.
func NewHTTPFetcher(timeout time.Duration, userAgent string, maxBodyBytes int64) *HTTPFetcher {
	if timeout <= 0 {
		timeout = Timeout
	}
	if userAgent == "" {
		userAgent = UserAgent
	}
	if maxBodyBytes <= 0 {
		maxBodyBytes = MaxBodyBytes
	}

	return &HTTPFetcher{
		client: &http.Client{
			Timeout: timeout,
		},
		userAgent:    userAgent,
		maxBodyBytes: maxBodyBytes,
	}
}

// Fetch returns the page body decoded to UTF-8
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", Accept)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", &FetchError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &FetchError{
			URL:        rawURL,
			StatusCode: resp.StatusCode,
			Status:     reasonPhrase(resp),
		}
	}

	body, err := charset.NewReader(io.LimitReader(resp.Body, f.maxBodyBytes), resp.Header.Get("Content-Type"))
	if err != nil {
		return "", fmt.Errorf("decoding body: %w", err)
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return "", &FetchError{URL: rawURL, Err: fmt.Errorf("reading body: %w", err)}
	}

	return string(data), nil
}

// reasonPhrase strips the status code from resp.Status ("404 Not Found" -> "Not Found")
func reasonPhrase(resp *http.Response) string {
	phrase := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if phrase == "" {
		phrase = http.StatusText(resp.StatusCode)
	}
	return phrase
}
