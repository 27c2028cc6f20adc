package transcribe_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"studypulse/internal/services"
	"studypulse/internal/services/transcribe"
	"studypulse/internal/voice"
)

func transcriptionServer(t *testing.T, text string, gotModel, gotFile *string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/audio/transcriptions") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
			return
		}
		*gotModel = r.FormValue("model")
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Errorf("form file: %v", err)
			return
		}
		defer file.Close()
		data, _ := io.ReadAll(file)
		*gotFile = header.Filename + ":" + string(data)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"text": text})
	}))
	t.Cleanup(server.Close)
	return server
}

func TestTranscribeUploadsAudio(t *testing.T) {
	var model, file string
	server := transcriptionServer(t, " I am fine ", &model, &file)

	client, err := transcribe.New(transcribe.Config{APIKey: "test", BaseURL: server.URL, Model: "whisper-1"}, nil, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	var transcriber voice.Transcriber = client
	text, err := transcriber.Transcribe(context.Background(), voice.Audio{
		Filename: "clip.webm",
		Body:     bytes.NewReader([]byte("fake-audio")),
	})
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if text != "I am fine" {
		t.Fatalf("unexpected transcript %q", text)
	}
	if model != "whisper-1" {
		t.Fatalf("unexpected model %q", model)
	}
	if file != "clip.webm:fake-audio" {
		t.Fatalf("unexpected uploaded file %q", file)
	}
}

func TestTranscribeRejectsMissingBody(t *testing.T) {
	client, err := transcribe.New(transcribe.Config{APIKey: "test", Model: "whisper-1"}, nil, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := client.Transcribe(context.Background(), voice.Audio{}); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestNewRequiresKey(t *testing.T) {
	if _, err := transcribe.New(transcribe.Config{Model: "whisper-1"}, nil, nil); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}
