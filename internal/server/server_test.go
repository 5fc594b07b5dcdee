package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/Pranoy-dev/Knightec-Conferences/internal/config"
	"github.com/Pranoy-dev/Knightec-Conferences/internal/event"
	"github.com/Pranoy-dev/Knightec-Conferences/internal/metrics"
	"github.com/Pranoy-dev/Knightec-Conferences/internal/scraper"
)

type fakeScraper struct {
	evt   *event.ScrapedEvent
	err   error
	calls []string
}

func (f *fakeScraper) Scrape(ctx context.Context, rawURL string) (*event.ScrapedEvent, error) {
	f.calls = append(f.calls, rawURL)
	return f.evt, f.err
}

func sampleEvent() *event.ScrapedEvent {
	evt := &event.ScrapedEvent{
		Name:      "DevConf Stockholm",
		Location:  "Stockholm, Sweden",
		StartDate: "2025-03-15",
		URL:       "https://devconf.example/2025",
		Source:    event.SourceStructured,
	}
	evt.SetPrice(2499)
	evt.SetCategories("Technology", []string{"Technology", "Conference"})
	return evt
}

func newTestServer(sc Scraper, cfg config.Server) *Server {
	return New(cfg, sc, metrics.New(), "sek")
}

func post(t *testing.T, h http.Handler, route, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, route, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding error body %q: %v", rec.Body.String(), err)
	}
	return body.Error
}

func TestScrape_BadRequests(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{"empty object", `{}`, ErrURLRequired},
		{"null url", `{"url": null}`, ErrURLRequired},
		{"empty url", `{"url": ""}`, ErrURLRequired},
		{"blank url", `{"url": "   "}`, ErrURLRequired},
		{"number url", `{"url": 42}`, ErrURLRequired},
		{"not json", `url=https://example.com`, ErrURLRequired},
		{"empty body", ``, ErrURLRequired},
		{"not a url", `{"url": "not a url"}`, ErrInvalidURL},
		{"relative path", `{"url": "/events/1"}`, ErrInvalidURL},
		{"missing host", `{"url": "https://"}`, ErrInvalidURL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := &fakeScraper{evt: sampleEvent()}
			rec := post(t, newTestServer(sc, config.Server{}).Handler(), ScrapeRoute, tt.body)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			if got := decodeError(t, rec); got != tt.wantMsg {
				t.Errorf("error = %q, want %q", got, tt.wantMsg)
			}
			if len(sc.calls) != 0 {
				t.Errorf("scraper called %d times, want 0", len(sc.calls))
			}
		})
	}
}

func TestScrape_Success(t *testing.T) {
	sc := &fakeScraper{evt: sampleEvent()}
	rec := post(t, newTestServer(sc, config.Server{}).Handler(), ScrapeRoute, `{"url": " https://devconf.example/2025 "}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	if len(sc.calls) != 1 || sc.calls[0] != "https://devconf.example/2025" {
		t.Errorf("scraper calls = %v, want trimmed URL", sc.calls)
	}

	var body struct {
		Data map[string]interface{} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body.Data["name"] != "DevConf Stockholm" {
		t.Errorf("name = %v", body.Data["name"])
	}
	if body.Data["price"] != 2499.0 {
		t.Errorf("price = %v, want 2499", body.Data["price"])
	}
	if body.Data["category"] != "Technology" {
		t.Errorf("category = %v", body.Data["category"])
	}
	if _, ok := body.Data["source"]; ok {
		t.Error("source should not be serialized")
	}
}

func TestScrape_NoCategorySerializesNull(t *testing.T) {
	evt := &event.ScrapedEvent{Name: "Quarterly Gathering", Source: event.SourceHeuristic}
	evt.SetCategories("", nil)

	rec := post(t, newTestServer(&fakeScraper{evt: evt}, config.Server{}).Handler(), ScrapeRoute, `{"url": "https://example.com"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	want := `{"data":{"name":"Quarterly Gathering","category":null,"suggested_categories":[]}}`
	if got := strings.TrimSpace(rec.Body.String()); got != want {
		t.Errorf("body = %s, want %s", got, want)
	}
}

func TestScrape_Failure(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantMsg string
	}{
		{
			name:    "status error",
			err:     fmt.Errorf("failed to scrape event data: %w", &scraper.FetchError{URL: "https://example.com", StatusCode: 404, Status: "Not Found"}),
			wantMsg: "failed to scrape event data: HTTP 404: Not Found",
		},
		{
			name:    "no event",
			err:     errors.New("failed to scrape event data: no event name found"),
			wantMsg: "failed to scrape event data: no event name found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(t, newTestServer(&fakeScraper{err: tt.err}, config.Server{}).Handler(), ScrapeRoute, `{"url": "https://example.com"}`)

			if rec.Code != http.StatusInternalServerError {
				t.Fatalf("status = %d, want 500", rec.Code)
			}
			if got := decodeError(t, rec); got != tt.wantMsg {
				t.Errorf("error = %q, want %q", got, tt.wantMsg)
			}
		})
	}
}

func TestScrape_UnreachableHost(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	addr := ts.URL
	ts.Close()

	srv := newTestServer(scraper.New(), config.Server{})
	rec := post(t, srv.Handler(), ScrapeRoute, fmt.Sprintf(`{"url": %q}`, addr))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if msg := decodeError(t, rec); !strings.HasPrefix(msg, "failed to scrape event data:") {
		t.Errorf("error = %q", msg)
	}
}

func TestScrape_MethodNotAllowed(t *testing.T) {
	h := newTestServer(&fakeScraper{evt: sampleEvent()}, config.Server{}).Handler()

	req := httptest.NewRequest(http.MethodGet, ScrapeRoute, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}

func TestScrape_RateLimited(t *testing.T) {
	sc := &fakeScraper{evt: sampleEvent()}
	h := newTestServer(sc, config.Server{RateLimit: 0.001, RateBurst: 1}).Handler()

	if rec := post(t, h, ScrapeRoute, `{"url": "https://example.com"}`); rec.Code != http.StatusOK {
		t.Fatalf("first request status = %d, want 200", rec.Code)
	}

	rec := post(t, h, ScrapeRoute, `{"url": "https://example.com"}`)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second request status = %d, want 429", rec.Code)
	}
	if got := decodeError(t, rec); got != ErrTooManyRequests {
		t.Errorf("error = %q", got)
	}
	if len(sc.calls) != 1 {
		t.Errorf("scraper calls = %d, want 1", len(sc.calls))
	}
}

func TestDraft(t *testing.T) {
	evt := sampleEvent()
	evt.EndDate = "2025-03-14"

	rec := post(t, newTestServer(&fakeScraper{evt: evt}, config.Server{}).Handler(), DraftRoute, `{"url": "https://devconf.example/2025"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body struct {
		Data event.ConferenceDraft `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}

	draft := body.Data
	if draft.Name != "DevConf Stockholm" || draft.Category != "Technology" {
		t.Errorf("draft = %+v", draft)
	}
	if draft.Currency != "SEK" {
		t.Errorf("Currency = %q, want SEK", draft.Currency)
	}
	if draft.EndDate != "" {
		t.Errorf("EndDate = %q, want dropped", draft.EndDate)
	}
	if draft.Status != event.StatusInterested {
		t.Errorf("Status = %q, want Interested", draft.Status)
	}
	if draft.EventLink != "https://devconf.example/2025" {
		t.Errorf("EventLink = %q", draft.EventLink)
	}
}

func TestDraft_Status(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantCode   int
		wantStatus event.Status
		wantCalls  int
	}{
		{"default", `{"url": "https://devconf.example"}`, http.StatusOK, event.StatusInterested, 1},
		{"explicit", `{"url": "https://devconf.example", "status": "booked"}`, http.StatusOK, event.StatusBooked, 1},
		{"invalid", `{"url": "https://devconf.example", "status": "maybe"}`, http.StatusBadRequest, "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := &fakeScraper{evt: sampleEvent()}
			rec := post(t, newTestServer(sc, config.Server{}).Handler(), DraftRoute, tt.body)

			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.wantCode, rec.Body.String())
			}
			if len(sc.calls) != tt.wantCalls {
				t.Errorf("scraper calls = %d, want %d", len(sc.calls), tt.wantCalls)
			}
			if tt.wantCode != http.StatusOK {
				if msg := decodeError(t, rec); !strings.Contains(msg, "invalid status") {
					t.Errorf("error = %q", msg)
				}
				return
			}

			var body struct {
				Data event.ConferenceDraft `json:"data"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decoding body: %v", err)
			}
			if body.Data.Status != tt.wantStatus {
				t.Errorf("Status = %q, want %q", body.Data.Status, tt.wantStatus)
			}
		})
	}
}

func TestScrape_IgnoresStatus(t *testing.T) {
	rec := post(t, newTestServer(&fakeScraper{evt: sampleEvent()}, config.Server{}).Handler(), ScrapeRoute,
		`{"url": "https://devconf.example", "status": "maybe"}`)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestRequestID(t *testing.T) {
	h := newTestServer(&fakeScraper{evt: sampleEvent()}, config.Server{}).Handler()

	rec := post(t, h, ScrapeRoute, `{"url": "https://example.com"}`)
	if _, err := uuid.Parse(rec.Header().Get(RequestIDHeader)); err != nil {
		t.Errorf("generated request ID is not a UUID: %v", err)
	}

	const clientID = "6f1c2a9e-3b7d-4e51-9a0c-2d8f4b6e1a77"
	tests := []struct {
		name     string
		header   string
		wantEcho bool
	}{
		{"uuid is echoed", clientID, true},
		{"uppercase uuid is echoed canonically", strings.ToUpper(clientID), true},
		{"free text is replaced", "abc-123", false},
		{"oversized value is replaced", strings.Repeat("x", 4096), false},
		{"log injection is replaced", "id\nlevel=ERROR", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
			req.Header.Set(RequestIDHeader, tt.header)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			got := rec.Header().Get(RequestIDHeader)
			if tt.wantEcho {
				if got != clientID {
					t.Errorf("request ID = %q, want %q", got, clientID)
				}
				return
			}
			if got == tt.header {
				t.Errorf("request ID %q should have been replaced", got)
			}
			if _, err := uuid.Parse(got); err != nil {
				t.Errorf("replacement request ID %q is not a UUID", got)
			}
		})
	}
}

func TestCategories(t *testing.T) {
	h := newTestServer(&fakeScraper{}, config.Server{}).Handler()

	req := httptest.NewRequest(http.MethodGet, CategoriesRoute, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body struct {
		Data []categoryResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if len(body.Data) != 13 {
		t.Fatalf("categories = %d, want 13", len(body.Data))
	}
	if body.Data[0].Name != "Technology" || len(body.Data[0].Keywords) == 0 {
		t.Errorf("first category = %+v", body.Data[0])
	}
	if body.Data[12].Name != "Workshop" {
		t.Errorf("last category = %q, want Workshop", body.Data[12].Name)
	}
}

func TestHealthz(t *testing.T) {
	ts := httptest.NewServer(newTestServer(&fakeScraper{}, config.Server{}).Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || string(body) != "ok" {
		t.Errorf("healthz = %d %q", resp.StatusCode, body)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestServer(&fakeScraper{evt: sampleEvent()}, config.Server{}).Handler()
	post(t, h, ScrapeRoute, `{"url": "https://example.com"}`)
	post(t, h, ScrapeRoute, `{}`)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	out := rec.Body.String()
	for _, want := range []string{
		`conference_scraper_scrapes_total{result="ok",source="structured"} 1`,
		`conference_scraper_http_requests_total{code="400",route="/api/scrape"} 1`,
		`conference_scraper_http_requests_total{code="200",route="/api/scrape"} 1`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}
