package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"studypulse/internal/api"
	"studypulse/internal/daemon"
	"studypulse/internal/logging"
	"studypulse/internal/recommend"
	"studypulse/internal/sessions"
	"studypulse/internal/testsupport"
	"studypulse/internal/voice"
)

func TestStressCommand(t *testing.T) {
	out, _, err := runCLI(t, []string{"stress", "I", "am", "fine"}, "")
	if err != nil {
		t.Fatalf("stress: %v", err)
	}
	if !strings.Contains(out, "Low") || !strings.Contains(out, "15.0") {
		t.Fatalf("unexpected stress output:\n%s", out)
	}

	out, _, err = runCLI(t, []string{"stress", "--json", strings.Repeat("word ", 12)}, "")
	if err != nil {
		t.Fatalf("stress --json: %v", err)
	}
	var analysis voice.Analysis
	if err := json.Unmarshal([]byte(out), &analysis); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	if analysis.StressLevel != voice.StressMedium || analysis.WordCount != 12 {
		t.Fatalf("unexpected analysis %+v", analysis)
	}
}

func TestRecommendCommand(t *testing.T) {
	out, _, err := runCLI(t, []string{"recommend", "--json", "happy"}, "")
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	var rec recommend.Recommendation
	if err := json.Unmarshal([]byte(out), &rec); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	if rec.Key != "happy" || len(rec.StudyTips) == 0 {
		t.Fatalf("unexpected happy entry %+v", rec)
	}

	out, _, err = runCLI(t, []string{"recommend", "confused"}, "")
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	if !strings.Contains(out, "Recommendations (Neutral)") {
		t.Fatalf("expected neutral fallback, got:\n%s", out)
	}

	out, _, err = runCLI(t, []string{"recommend", "--stress", "high", "--json", "happy"}, "")
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	if err := json.Unmarshal([]byte(out), &rec); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	if rec.Key != recommend.KeyHigh {
		t.Fatalf("expected stress override to win, got %q", rec.Key)
	}
}

func TestAnalyzeVoiceRecordsAndHistoryLists(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"analyze", "voice", "I", "am", "fine"}, env.configPath)
	if err != nil {
		t.Fatalf("analyze voice: %v", err)
	}
	if !strings.Contains(out, "Stress level") || !strings.Contains(out, "Low") {
		t.Fatalf("unexpected analyze output:\n%s", out)
	}

	out, _, err = runCLI(t, []string{"history", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	var resp api.SessionsResponse
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("decode history: %v", err)
	}
	if len(resp.Sessions) != 1 || resp.Sessions[0].Analysis.Kind != sessions.KindVoice {
		t.Fatalf("expected one voice session, got %+v", resp.Sessions)
	}

	out, _, err = runCLI(t, []string{"history"}, env.configPath)
	if err != nil {
		t.Fatalf("history table: %v", err)
	}
	if !strings.Contains(out, resp.Sessions[0].ID) || !strings.Contains(out, "Low") {
		t.Fatalf("expected session row in table:\n%s", out)
	}
}

func TestAnalyzeVoiceAudioWithoutTranscription(t *testing.T) {
	env := setupCLITestEnv(t)
	audio := filepath.Join(t.TempDir(), "clip.wav")
	if err := os.WriteFile(audio, []byte("RIFF"), 0o644); err != nil {
		t.Fatalf("write audio: %v", err)
	}
	_, _, err := runCLI(t, []string{"analyze", "voice", "--audio", audio}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "send a transcript") {
		t.Fatalf("expected transcription disabled error, got %v", err)
	}
}

func TestAnalyzeImageUsesStaticClassifier(t *testing.T) {
	env := setupCLITestEnv(t)
	img := filepath.Join(t.TempDir(), "face.png")
	testsupport.WritePNG(t, img, 16, 16)

	out, _, err := runCLI(t, []string{"analyze", "image", "--json", img}, env.configPath)
	if err != nil {
		t.Fatalf("analyze image: %v", err)
	}
	var result api.EmotionResult
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if result.Emotion != "neutral" || result.Frames != 1 || result.SessionID == "" {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestHistoryEmpty(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := runCLI(t, []string{"history"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if !strings.Contains(out, "No sessions recorded yet") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)
	target := filepath.Join(t.TempDir(), "fresh.toml")

	out, _, err := runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	if !strings.Contains(out, target) {
		t.Fatalf("expected target path in output:\n%s", out)
	}
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected init to refuse overwriting")
	}

	out, _, err = runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Configuration valid") {
		t.Fatalf("unexpected validate output:\n%s", out)
	}
}

func TestStatusWithoutDaemon(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := runCLI(t, []string{"status", "--addr", "127.0.0.1:1"}, env.configPath)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !strings.Contains(out, "Running:") || !strings.Contains(out, "no") {
		t.Fatalf("expected not running output:\n%s", out)
	}
	if !strings.Contains(out, "Data directory") {
		t.Fatalf("expected local checks:\n%s", out)
	}
}

func TestStatusQueriesDaemon(t *testing.T) {
	env := setupCLITestEnv(t)
	if err := env.cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	store, err := sessions.Open(env.cfg)
	if err != nil {
		t.Fatalf("sessions.Open: %v", err)
	}
	d, err := daemon.New(env.cfg, store, logging.NewNop(), api.AssistantOptions{})
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	if err := d.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}

	out, _, err := runCLI(t, []string{"status", "--json", "--addr", d.Addr()}, env.configPath)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	var status api.StatusResponse
	if err := json.Unmarshal([]byte(out), &status); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if !status.Running || status.Classifier != "static" || len(status.Checks) == 0 {
		t.Fatalf("unexpected status %+v", status)
	}
}

func TestLogsCommandPrintsTail(t *testing.T) {
	env := setupCLITestEnv(t)
	if err := os.MkdirAll(env.cfg.Paths.LogDir, 0o755); err != nil {
		t.Fatalf("mkdir logs: %v", err)
	}
	if err := os.WriteFile(env.cfg.LogPath(), []byte("one\ntwo\nthree\n"), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}

	out, _, err := runCLI(t, []string{"logs", "--lines", "2"}, env.configPath)
	if err != nil {
		t.Fatalf("logs: %v", err)
	}
	if out != "two\nthree\n" {
		t.Fatalf("unexpected logs output %q", out)
	}
}
