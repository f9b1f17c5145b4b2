package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var entries []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]interface{}
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("Line is not valid JSON: %q: %v", line, err)
		}
		entries = append(entries, entry)
	}
	return entries
}

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer

	logger := New(Config{
		Level:     DEBUG,
		Format:    JSONFormat,
		Output:    &buf,
		Component: "test",
	})

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message", nil)

	entries := decodeLines(t, &buf)
	if len(entries) != 4 {
		t.Fatalf("Expected 4 log lines, got %d", len(entries))
	}

	wantLevels := []string{"debug", "info", "warn", "error"}
	for i, entry := range entries {
		if entry["level"] != wantLevels[i] {
			t.Errorf("Line %d: expected level %s, got %v", i+1, wantLevels[i], entry["level"])
		}
		if entry["component"] != "test" {
			t.Errorf("Line %d: expected component 'test', got %v", i+1, entry["component"])
		}
	}
}

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer

	logger := New(Config{
		Level:  WARN,
		Format: JSONFormat,
		Output: &buf,
	})

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message", nil)

	if entries := decodeLines(t, &buf); len(entries) != 2 {
		t.Errorf("Expected 2 log lines with WARN level, got %d", len(entries))
	}
}

func TestFieldsAndError(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: INFO, Output: &buf})

	logger.Error("fetch failed", errors.New("boom"), map[string]interface{}{"state": "KL"})

	entries := decodeLines(t, &buf)
	if len(entries) != 1 {
		t.Fatalf("Expected 1 log line, got %d", len(entries))
	}
	entry := entries[0]
	if entry["message"] != "fetch failed" {
		t.Errorf("Unexpected message %v", entry["message"])
	}
	if entry["error"] != "boom" {
		t.Errorf("Expected error 'boom', got %v", entry["error"])
	}
	if entry["state"] != "KL" {
		t.Errorf("Expected state field 'KL', got %v", entry["state"])
	}
}

func TestTextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: INFO, Format: TextFormat, Output: &buf, Component: "server"})

	logger.Info("listening")

	out := buf.String()
	if !strings.Contains(out, "listening") {
		t.Errorf("Text output missing message: %q", out)
	}
	if strings.HasPrefix(strings.TrimSpace(out), "{") {
		t.Errorf("Text output looks like JSON: %q", out)
	}
}

func TestWithComponentKeepsParentSettings(t *testing.T) {
	var buf bytes.Buffer
	parent := New(Config{Level: WARN, Output: &buf})

	child := parent.WithComponent("fetchers")
	child.Info("filtered")
	child.Warn("kept")

	entries := decodeLines(t, &buf)
	if len(entries) != 1 {
		t.Fatalf("Expected 1 line, got %d", len(entries))
	}
	if entries[0]["component"] != "fetchers" {
		t.Errorf("Expected component 'fetchers', got %v", entries[0]["component"])
	}
}

func TestSetLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: ERROR, Output: &buf})

	logger.Info("dropped")
	logger.SetLevel(DEBUG)
	logger.Debug("kept")

	if entries := decodeLines(t, &buf); len(entries) != 1 {
		t.Errorf("Expected 1 line after SetLevel, got %d", len(entries))
	}
}

func TestParseHelpers(t *testing.T) {
	levels := map[string]LogLevel{"debug": DEBUG, "INFO": INFO, "warning": WARN, "error": ERROR, "bogus": -1}
	for in, want := range levels {
		if got := parseLogLevel(in); got != want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", in, got, want)
		}
	}

	formats := map[string]LogFormat{"json": JSONFormat, "TEXT": TextFormat, "xml": -1}
	for in, want := range formats {
		if got := parseLogFormat(in); got != want {
			t.Errorf("parseLogFormat(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestGlobalLogger(t *testing.T) {
	original := GetGlobalLogger()
	defer SetGlobalLogger(original)

	var buf bytes.Buffer
	SetGlobalLogger(New(Config{Level: INFO, Output: &buf}))

	Info("global info")
	Component("charts").Warn("component warn")

	entries := decodeLines(t, &buf)
	if len(entries) != 2 {
		t.Fatalf("Expected 2 lines, got %d", len(entries))
	}
	if entries[1]["component"] != "charts" {
		t.Errorf("Expected component 'charts', got %v", entries[1]["component"])
	}
}

func TestSetOutput(t *testing.T) {
	var first, second bytes.Buffer
	logger := New(Config{Level: INFO, Format: JSONFormat, Output: &first})

	logger.Info("before")
	logger.SetOutput(&second)
	logger.Info("after")

	if !strings.Contains(first.String(), "before") || strings.Contains(first.String(), "after") {
		t.Errorf("Unexpected first output: %q", first.String())
	}
	if !strings.Contains(second.String(), "after") {
		t.Errorf("Expected redirected output, got %q", second.String())
	}
}
