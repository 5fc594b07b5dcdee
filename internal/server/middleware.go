package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Pranoy-dev/Knightec-Conferences/internal/logger"
)

const RequestIDHeader = "X-Request-ID"

type ctxKey int

const loggerKey ctxKey = iota

// statusRecorder captures the status code written by a handler
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// withRequestID tags every request with an ID, echoes it in X-Request-ID and
// attaches a request-scoped logger to the context
func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := requestID(r.Header.Get(RequestIDHeader))
		w.Header().Set(RequestIDHeader, id)

		log := logger.Default().With(logger.Fields{"request_id": id})
		ctx := context.WithValue(r.Context(), loggerKey, log)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r.WithContext(ctx))

		log.Debug("Request handled", logger.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      rec.status,
			"duration_ms": time.Since(start).Milliseconds(),
		})
	})
}

// requestID keeps a client-supplied ID only when it is a well-formed UUID
func requestID(header string) string {
	if parsed, err := uuid.Parse(strings.TrimSpace(header)); err == nil {
		return parsed.String()
	}
	return uuid.NewString()
}

func requestLogger(ctx context.Context) *logger.Logger {
	if log, ok := ctx.Value(loggerKey).(*logger.Logger); ok {
		return log
	}
	return logger.Default()
}
