package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestLogger_Levels(t *testing.T) {
	tests := []struct {
		name    string
		logFunc func(l *Logger)
		want    bool // should log
	}{
		{
			name:    "info message",
			logFunc: func(l *Logger) { l.Info("test message", Fields{"key": "value"}) },
			want:    true,
		},
		{
			name:    "debug below threshold",
			logFunc: func(l *Logger) { l.Debug("debug message", nil) },
			want:    false,
		},
		{
			name:    "warn message",
			logFunc: func(l *Logger) { l.Warn("warn message", nil) },
			want:    true,
		},
		{
			name:    "error with err",
			logFunc: func(l *Logger) { l.Error("error occurred", nil, errors.New("test error")) },
			want:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := New(LevelInfo, &buf)

			tt.logFunc(logger)

			logged := buf.Len() > 0
			if logged != tt.want {
				t.Errorf("logged = %v, want %v (output %q)", logged, tt.want, buf.String())
			}
		})
	}
}

func TestLogger_JSONEntry(t *testing.T) {
	var buf bytes.Buffer
	logger := New(LevelDebug, &buf)

	logger.Error("scrape failed", Fields{"url": "https://example.com", "attempt": 1}, errors.New("HTTP 404: Not Found"))

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}

	checks := map[string]interface{}{
		"level":   "ERROR",
		"message": "scrape failed",
		"url":     "https://example.com",
		"attempt": float64(1),
		"error":   "HTTP 404: Not Found",
	}
	for key, want := range checks {
		if entry[key] != want {
			t.Errorf("entry[%q] = %v, want %v", key, entry[key], want)
		}
	}
	if _, ok := entry["timestamp"]; !ok {
		t.Error("entry missing timestamp")
	}
}

func TestLogger_With(t *testing.T) {
	var buf bytes.Buffer
	logger := New(LevelInfo, &buf).With(Fields{"request_id": "abc"})

	logger.Info("handled", nil)

	if !strings.Contains(buf.String(), `"request_id":"abc"`) {
		t.Errorf("output %q missing request_id", buf.String())
	}
}

func TestNewWithFormat_Console(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithFormat(LevelInfo, FormatConsole, &buf)

	logger.Info("console message", Fields{"state": "ok"})

	out := buf.String()
	if strings.HasPrefix(strings.TrimSpace(out), "{") {
		t.Errorf("console output should not be JSON: %q", out)
	}
	if !strings.Contains(out, "console message") {
		t.Errorf("console output %q missing message", out)
	}
}

func TestDefaultLogger(t *testing.T) {
	original := Default()
	defer SetDefault(original)

	var buf bytes.Buffer
	SetDefault(New(LevelWarn, &buf))

	Info("ignored", nil)
	if buf.Len() != 0 {
		t.Errorf("Info below WARN should not log, got %q", buf.String())
	}

	Warn("kept", nil)
	if !strings.Contains(buf.String(), "kept") {
		t.Errorf("Warn should log, got %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{"", LevelInfo, false},
		{"warning", LevelWarn, false},
		{"error", LevelError, false},
		{"verbose", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat("Console"); err != nil || f != FormatConsole {
		t.Errorf("ParseFormat(Console) = %q, %v", f, err)
	}
	if f, err := ParseFormat(""); err != nil || f != FormatJSON {
		t.Errorf("ParseFormat(\"\") = %q, %v", f, err)
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("ParseFormat(xml) should fail")
	}
}
