package utils_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/yasinhessnawi1/storefront/internal/config"
	"github.com/yasinhessnawi1/storefront/internal/utils"
)

// captureLogs swaps the global logger for one writing to a buffer.
func captureLogs(t *testing.T, level zerolog.Level) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	origLogger := log.Logger
	origLevel := zerolog.GlobalLevel()
	log.Logger = zerolog.New(&buf)
	zerolog.SetGlobalLevel(level)
	t.Cleanup(func() {
		log.Logger = origLogger
		zerolog.SetGlobalLevel(origLevel)
	})
	return &buf
}

func lastEntry(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[len(lines)-1]), &entry); err != nil {
		t.Fatalf("could not parse log line %q: %v", lines[len(lines)-1], err)
	}
	return entry
}

func TestNewLogger(t *testing.T) {
	cfg := &config.AppConfig{
		App:     config.AppSettings{Name: "storefront", Version: "1.2.3", Environment: "testing"},
		Logging: config.LoggingSettings{Format: "json"},
	}
	var buf bytes.Buffer

	logger := utils.NewLogger(cfg, &buf)
	logger.Info().Msg("hello")

	entry := lastEntry(t, &buf)
	if entry["app"] != "storefront" || entry["version"] != "1.2.3" || entry["env"] != "testing" {
		t.Errorf("unexpected context fields: %v", entry)
	}
}

func TestNewLoggerConsoleFormat(t *testing.T) {
	cfg := &config.AppConfig{
		App:     config.AppSettings{Environment: "development"},
		Logging: config.LoggingSettings{Format: "console"},
	}
	var buf bytes.Buffer

	logger := utils.NewLogger(cfg, &buf)
	logger.Info().Msg("hello")

	if json.Valid(buf.Bytes()) {
		t.Errorf("console format should not produce JSON: %s", buf.String())
	}
}

func TestLogHTTPRequestLevels(t *testing.T) {
	tests := []struct {
		name      string
		path      string
		status    int
		wantLevel string
	}{
		{"API success", "/api/products/", 200, "info"},
		{"Client error", "/api/products/", 404, "warn"},
		{"Server error", "/api/products/", 500, "error"},
		{"SPA asset", "/static/app.js", 200, "debug"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := captureLogs(t, zerolog.DebugLevel)

			utils.LogHTTPRequest("req-1", "GET", tt.path, "127.0.0.1", "test", tt.status, time.Millisecond)

			entry := lastEntry(t, buf)
			if entry["level"] != tt.wantLevel {
				t.Errorf("level = %v, want %v", entry["level"], tt.wantLevel)
			}
		})
	}
}

func TestLogHTTPRequestSkipsHealthOutsideDebug(t *testing.T) {
	buf := captureLogs(t, zerolog.InfoLevel)

	utils.LogHTTPRequest("req-1", "GET", "/health", "127.0.0.1", "healthcheck", 200, time.Millisecond)

	if buf.Len() != 0 {
		t.Errorf("expected no log output, got %s", buf.String())
	}
}

func TestLogDBQueryRedactsSecrets(t *testing.T) {
	buf := captureLogs(t, zerolog.DebugLevel)

	utils.LogDBQuery("UPDATE users SET password_hash = $1, salt = $2 WHERE id = $3",
		[]any{"hash", "salt", int64(4)}, time.Millisecond, nil)

	out := buf.String()
	if strings.Contains(out, `"hash"`) || !strings.Contains(out, "[REDACTED]") {
		t.Errorf("query args were not redacted: %s", out)
	}
}

func TestLogDBQueryMasksEmails(t *testing.T) {
	buf := captureLogs(t, zerolog.DebugLevel)

	utils.LogDBQuery("SELECT id FROM users WHERE LOWER(email) = LOWER($1)",
		[]any{"user@example.com"}, time.Millisecond, errors.New("boom"))

	entry := lastEntry(t, buf)
	if entry["level"] != "error" {
		t.Errorf("level = %v, want error", entry["level"])
	}
	if strings.Contains(buf.String(), "user@example.com") {
		t.Errorf("email was not masked: %s", buf.String())
	}
}

func TestLogAuth(t *testing.T) {
	buf := captureLogs(t, zerolog.DebugLevel)

	utils.LogAuth("login", 7, "ann", false, "bad password")

	entry := lastEntry(t, buf)
	if entry["level"] != "warn" || entry["reason"] != "bad password" || entry["user_id"] != float64(7) {
		t.Errorf("unexpected auth entry: %v", entry)
	}
}

func TestLogPasswordReset(t *testing.T) {
	buf := captureLogs(t, zerolog.DebugLevel)

	utils.LogPasswordReset("reset_requested", 3, "user@example.com", "")

	entry := lastEntry(t, buf)
	if entry["email"] != "u**r@example.com" {
		t.Errorf("email = %v, want masked", entry["email"])
	}
	if entry["category"] != "password_reset" {
		t.Errorf("category = %v, want password_reset", entry["category"])
	}
}

func TestSetLogLevel(t *testing.T) {
	captureLogs(t, zerolog.InfoLevel)

	if err := utils.SetLogLevel("warn"); err != nil {
		t.Fatalf("SetLogLevel() error = %v", err)
	}
	if got := utils.GetLogLevel(); got != "warn" {
		t.Errorf("GetLogLevel() = %v, want warn", got)
	}
	if err := utils.SetLogLevel("loud"); err == nil {
		t.Error("SetLogLevel(invalid) expected error")
	}
}
