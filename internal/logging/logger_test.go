package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"studypulse/internal/config"
	"studypulse/internal/services"
)

func TestConsoleHandlerFormatsComponentAndAttrs(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	logger := slog.New(newConsoleHandler(&buf, lvl, false, false))
	logger = NewComponentLogger(logger, "sessions")

	logger.Info("session recorded", String(FieldSessionID, "20250101_120000"), Int("frames", 3), String("note", "two words"))

	line := buf.String()
	if !strings.Contains(line, " INFO sessions: session recorded") {
		t.Fatalf("unexpected prefix in %q", line)
	}
	if !strings.Contains(line, "session_id=20250101_120000") {
		t.Fatalf("missing session id in %q", line)
	}
	if !strings.Contains(line, "frames=3") {
		t.Fatalf("missing frames attr in %q", line)
	}
	if !strings.Contains(line, `note="two words"`) {
		t.Fatalf("expected quoted value in %q", line)
	}
	if strings.Contains(line, "component=") {
		t.Fatalf("component should be promoted, not repeated: %q", line)
	}
}

func TestConsoleHandlerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	lvl.Set(slog.LevelWarn)
	logger := slog.New(newConsoleHandler(&buf, lvl, false, false))

	logger.Info("hidden")
	logger.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info line should be filtered: %q", out)
	}
	if !strings.Contains(out, "WARN shown") {
		t.Fatalf("expected warn line, got %q", out)
	}
}

func TestConsoleHandlerGroupsFlatten(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newConsoleHandler(&buf, new(slog.LevelVar), false, false))
	logger.WithGroup("classifier").Info("reading", String("label", "happy"))
	if !strings.Contains(buf.String(), "classifier.label=happy") {
		t.Fatalf("expected grouped key, got %q", buf.String())
	}
}

func TestConsoleHandlerColoursOnlyWhenEnabled(t *testing.T) {
	h := &consoleHandler{colour: true}
	if got := h.levelLabel(slog.LevelError); !strings.Contains(got, ansiRed) {
		t.Fatalf("expected coloured label, got %q", got)
	}
	if got := h.levelLabel(slog.LevelInfo); got != "INFO" {
		t.Fatalf("info should stay plain, got %q", got)
	}
	h.colour = false
	if got := h.levelLabel(slog.LevelError); got != "ERROR" {
		t.Fatalf("expected plain label, got %q", got)
	}
}

func TestJSONHandlerRenamesKeys(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	logger := slog.New(newJSONHandler(&buf, lvl, false))
	logger.Error("classifier failed", Error(errors.New("boom")))

	var payload map[string]any
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("decode json log: %v", err)
	}
	if _, ok := payload["ts"]; !ok {
		t.Fatalf("expected ts key, got %v", payload)
	}
	if payload["level"] != "error" {
		t.Fatalf("expected lower-case level, got %v", payload["level"])
	}
	if payload["error"] != "boom" {
		t.Fatalf("expected error attr, got %v", payload["error"])
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNewFromConfigWritesLogFile(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = filepath.Join(t.TempDir(), "logs")
	cfg.Logging.Format = "json"

	logger, err := NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig: %v", err)
	}
	logger.Info("hello")

	data, err := os.ReadFile(filepath.Join(cfg.Paths.LogDir, "studypulse.log"))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"hello"`) {
		t.Fatalf("expected log line in file, got %q", data)
	}
}

func TestWithContextAddsCorrelationFields(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(newConsoleHandler(&buf, new(slog.LevelVar), false, false))
	ctx := services.WithRequestID(context.Background(), "req-9")
	ctx = services.WithAnalysisKind(ctx, "emotion")

	WithContext(ctx, base).Info("analyzing")

	out := buf.String()
	if !strings.Contains(out, "correlation_id=req-9") || !strings.Contains(out, "analysis_kind=emotion") {
		t.Fatalf("expected context fields, got %q", out)
	}
}

func TestWarnEventInjectsDefaults(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newConsoleHandler(&buf, new(slog.LevelVar), false, false))
	WarnEvent(logger, "skipping unreadable session", "session_parse_failed")
	out := buf.String()
	if !strings.Contains(out, "event_type=session_parse_failed") || !strings.Contains(out, "impact=") {
		t.Fatalf("expected injected fields, got %q", out)
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := NewNop()
	if logger.Enabled(context.Background(), slog.LevelError) {
		t.Fatal("nop logger should be disabled")
	}
}
