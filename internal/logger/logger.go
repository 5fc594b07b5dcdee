// Package logger provides structured JSON logging for the conference scraper.
//
// Entries are single JSON lines carrying a timestamp, level, message, arbitrary
// structured fields and an optional error. A console format is available for local use.
//
// Example usage:
//
//	logger.Info("Scraped event", logger.Fields{
//	    "url":    "https://example.com/summit",
//	    "source": "structured",
//	})
//
//	logger.Error("Scrape failed", logger.Fields{
//	    "url": "https://example.com/summit",
//	}, err)
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Level represents log severity
type Level string

const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

// Format selects the output encoding
type Format string

const (
	FormatJSON    Format = "json"
	FormatConsole Format = "console"
)

// Fields represents structured log fields
type Fields map[string]interface{}

// Logger provides structured logging
type Logger struct {
	zl zerolog.Logger
}

var defaultLogger *Logger

func init() {
	zerolog.TimestampFieldName = "timestamp"
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.LevelFieldMarshalFunc = func(l zerolog.Level) string {
		return strings.ToUpper(l.String())
	}

	defaultLogger = New(LevelInfo, os.Stdout)
}

// New creates a JSON logger with the specified minimum level and output destination.
// Messages below the minimum level are discarded.
func New(level Level, output io.Writer) *Logger {
	zl := zerolog.New(output).Level(zerologLevel(level)).With().Timestamp().Logger()
	return &Logger{zl: zl}
}

// NewWithFormat creates a logger writing either JSON lines or human-readable console output
func NewWithFormat(level Level, format Format, output io.Writer) *Logger {
	if format == FormatConsole {
		cw := zerolog.ConsoleWriter{Out: output, TimeFormat: time.RFC3339, NoColor: true}
		zl := zerolog.New(cw).Level(zerologLevel(level)).With().Timestamp().Logger()
		return &Logger{zl: zl}
	}
	return New(level, output)
}

// SetDefault sets the package-level logger used by Debug, Info, Warn and Error
func SetDefault(logger *Logger) {
	defaultLogger = logger
}

// ParseLevel converts "debug", "info", "warn" or "error" (any case) into a Level
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return "", fmt.Errorf("invalid log level: %q (must be debug, info, warn or error)", s)
	}
}

// ParseFormat converts "json" or "console" into a Format
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatJSON, "":
		return FormatJSON, nil
	case FormatConsole:
		return FormatConsole, nil
	default:
		return "", fmt.Errorf("invalid log format: %q (must be json or console)", s)
	}
}

func zerologLevel(level Level) zerolog.Level {
	switch level {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// log writes a structured log entry
func (l *Logger) log(e *zerolog.Event, message string, fields Fields, err error) {
	if e == nil {
		return
	}
	if len(fields) > 0 {
		e = e.Fields(map[string]interface{}(fields))
	}
	if err != nil {
		e = e.Err(err)
	}
	e.Msg(message)
}

// Debug logs detailed diagnostic information
func (l *Logger) Debug(message string, fields Fields) {
	l.log(l.zl.Debug(), message, fields, nil)
}

// Info logs general operational information
func (l *Logger) Info(message string, fields Fields) {
	l.log(l.zl.Info(), message, fields, nil)
}

// Warn logs potential issues that don't prevent operation
func (l *Logger) Warn(message string, fields Fields) {
	l.log(l.zl.Warn(), message, fields, nil)
}

// Error logs a failure together with its error
func (l *Logger) Error(message string, fields Fields, err error) {
	l.log(l.zl.Error(), message, fields, err)
}

// With returns a child logger that adds fields to every entry
func (l *Logger) With(fields Fields) *Logger {
	return &Logger{zl: l.zl.With().Fields(map[string]interface{}(fields)).Logger()}
}

// Package-level convenience functions using the default logger

// Debug logs a debug message with the default logger
func Debug(message string, fields Fields) {
	defaultLogger.Debug(message, fields)
}

// Info logs an info message with the default logger
func Info(message string, fields Fields) {
	defaultLogger.Info(message, fields)
}

// Warn logs a warning message with the default logger
func Warn(message string, fields Fields) {
	defaultLogger.Warn(message, fields)
}

// Error logs an error message with the default logger
func Error(message string, fields Fields, err error) {
	defaultLogger.Error(message, fields, err)
}

// Default returns the package-level logger
func Default() *Logger {
	return defaultLogger
}
