// Package server exposes the scraper over HTTP.
//
// POST /api/scrape accepts {"url": "..."} and answers {"data": ScrapedEvent} or
// {"error": "..."}. The response seeds the pre-filled conference creation form.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/Pranoy-dev/Knightec-Conferences/internal/category"
	"github.com/Pranoy-dev/Knightec-Conferences/internal/config"
	"github.com/Pranoy-dev/Knightec-Conferences/internal/event"
	"github.com/Pranoy-dev/Knightec-Conferences/internal/logger"
	"github.com/Pranoy-dev/Knightec-Conferences/internal/metrics"
	"github.com/Pranoy-dev/Knightec-Conferences/internal/scraper"
)

const (
	ScrapeRoute     = "/api/scrape"
	DraftRoute      = "/api/draft"
	CategoriesRoute = "/api/categories"

	maxRequestBytes = 1 << 20
)

// Error messages returned to the form
const (
	ErrURLRequired     = "URL is required"
	ErrInvalidURL      = "Invalid URL format"
	ErrTooManyRequests = "Too many requests"
)

// Scraper is the pipeline the handlers call
type Scraper interface {
	Scrape(ctx context.Context, rawURL string) (*event.ScrapedEvent, error)
}

// Server serves the scrape API, health check and metrics
type Server struct {
	scraper  Scraper
	metrics  *metrics.Metrics
	limiter  *rate.Limiter
	currency string

	mux        *http.ServeMux
	httpServer *http.Server
}

type scrapeRequest struct {
	URL    *string `json:"url"`
	Status string  `json:"status,omitempty"`

	url string
}

type categoryResponse struct {
	Name     string   `json:"name"`
	Keywords []string `json:"keywords"`
}

type dataResponse struct {
	Data interface{} `json:"data"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// New wires the routes. A zero cfg.RateLimit disables rate limiting.
func New(cfg config.Server, sc Scraper, m *metrics.Metrics, currency string) *Server {
	s := &Server{
		scraper:  sc,
		metrics:  m,
		currency: currency,
		mux:      http.NewServeMux(),
	}
	if cfg.RateLimit > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst)
	}

	s.mux.HandleFunc("POST "+ScrapeRoute, s.handleScrape)
	s.mux.HandleFunc("POST "+DraftRoute, s.handleDraft)
	s.mux.HandleFunc("GET "+CategoriesRoute, s.handleCategories)
	s.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	s.mux.Handle("GET /metrics", m.Handler())

	s.httpServer = &http.Server{
		Addr:         cfg.ListenAddress,
		Handler:      s.Handler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return s
}

// Handler returns the routed handler wrapped with request logging
func (s *Server) Handler() http.Handler {
	return s.withRequestID(s.mux)
}

// ListenAndServe blocks until the server stops. It returns http.ErrServerClosed
// after Shutdown.
func (s *Server) ListenAndServe() error {
	logger.Info("Listening", logger.Fields{"address": s.httpServer.Addr})
	return s.httpServer.ListenAndServe()
}

// Shutdown drains in-flight requests until ctx expires
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// handleScrape answers POST /api/scrape
func (s *Server) handleScrape(w http.ResponseWriter, r *http.Request) {
	req, status, msg := s.decode(r)
	if status == http.StatusOK {
		var evt *event.ScrapedEvent
		evt, status, msg = s.scrape(r, req.url)
		if status == http.StatusOK {
			s.writeJSON(w, r, ScrapeRoute, http.StatusOK, dataResponse{Data: evt})
			return
		}
	}
	s.writeJSON(w, r, ScrapeRoute, status, errorResponse{Error: msg})
}

// handleDraft answers POST /api/draft with the conference form pre-fill. An optional
// "status" in the body replaces the default Interested status.
func (s *Server) handleDraft(w http.ResponseWriter, r *http.Request) {
	req, status, msg := s.decode(r)
	if status != http.StatusOK {
		s.writeJSON(w, r, DraftRoute, status, errorResponse{Error: msg})
		return
	}

	draftStatus := event.StatusInterested
	if req.Status != "" {
		parsed, err := event.ParseStatus(req.Status)
		if err != nil {
			s.writeJSON(w, r, DraftRoute, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		draftStatus = parsed
	}

	evt, status, msg := s.scrape(r, req.url)
	if status != http.StatusOK {
		s.writeJSON(w, r, DraftRoute, status, errorResponse{Error: msg})
		return
	}

	draft := event.NewConferenceDraft(evt, s.currency)
	draft.Status = draftStatus
	s.writeJSON(w, r, DraftRoute, http.StatusOK, dataResponse{Data: draft})
}

// handleCategories answers GET /api/categories with the taxonomy the classifier uses
func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	names := category.Names()
	out := make([]categoryResponse, 0, len(names))
	for _, name := range names {
		keywords, _ := category.Keywords(name)
		out = append(out, categoryResponse{Name: name, Keywords: keywords})
	}
	s.writeJSON(w, r, CategoriesRoute, http.StatusOK, dataResponse{Data: out})
}

// decode applies the rate limit and validates the request body, returning the HTTP
// status and error message to use when it is rejected
func (s *Server) decode(r *http.Request) (*scrapeRequest, int, string) {
	if s.limiter != nil && !s.limiter.Allow() {
		return nil, http.StatusTooManyRequests, ErrTooManyRequests
	}

	var req scrapeRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxRequestBytes)).Decode(&req); err != nil || req.URL == nil {
		return nil, http.StatusBadRequest, ErrURLRequired
	}

	req.url = strings.TrimSpace(*req.URL)
	if req.url == "" {
		return nil, http.StatusBadRequest, ErrURLRequired
	}
	if !validURL(req.url) {
		return nil, http.StatusBadRequest, ErrInvalidURL
	}
	return &req, http.StatusOK, ""
}

// scrape runs the pipeline for a validated URL
func (s *Server) scrape(r *http.Request, rawURL string) (*event.ScrapedEvent, int, string) {
	log := requestLogger(r.Context())
	start := time.Now()

	evt, err := s.scraper.Scrape(r.Context(), rawURL)
	elapsed := time.Since(start)

	if err != nil {
		var fetchErr *scraper.FetchError
		if errors.As(err, &fetchErr) {
			s.metrics.ObserveFetchError(fetchErr.StatusCode)
		}
		s.metrics.ObserveScrape("", elapsed, err)
		log.Error("Scrape failed", logger.Fields{
			"url":         rawURL,
			"duration_ms": elapsed.Milliseconds(),
		}, err)
		return nil, http.StatusInternalServerError, err.Error()
	}

	s.metrics.ObserveScrape(string(evt.Source), elapsed, nil)
	log.Info("Scraped event", logger.Fields{
		"url":         rawURL,
		"source":      string(evt.Source),
		"category":    evt.CategoryName(),
		"duration_ms": elapsed.Milliseconds(),
	})
	return evt, http.StatusOK, ""
}

// validURL requires an absolute URL with a scheme and host
func validURL(rawURL string) bool {
	u, err := url.ParseRequestURI(rawURL)
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, route string, status int, body interface{}) {
	s.metrics.ObserveRequest(route, status)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		requestLogger(r.Context()).Error("Writing response failed", logger.Fields{"route": route}, err)
	}
}
