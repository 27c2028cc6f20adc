package vision

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"studypulse/internal/emotion"
	"studypulse/internal/services"
	"studypulse/internal/testsupport"
)

func completionServer(t *testing.T, content string, inspect func(body string)) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		if inspect != nil {
			inspect(string(body))
		}
		payload := map[string]any{
			"id":      "chatcmpl-test",
			"object":  "chat.completion",
			"created": 0,
			"model":   "test-vision",
			"choices": []any{
				map[string]any{
					"index":         0,
					"finish_reason": "stop",
					"message": map[string]any{
						"role":    "assistant",
						"content": content,
					},
				},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(payload)
	}))
	t.Cleanup(server.Close)
	return server
}

func testImage(t *testing.T) emotion.Image {
	t.Helper()
	img, err := emotion.DecodeImage(testsupport.PNGDataURL(t, 8, 8), emotion.Limits{})
	if err != nil {
		t.Fatalf("DecodeImage: %v", err)
	}
	return img
}

func newTestClassifier(t *testing.T, baseURL string) *Classifier {
	t.Helper()
	c, err := New(Config{APIKey: "test", BaseURL: baseURL, Model: "test-vision", MaxRetries: 0})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestClassifySendsImageAndParsesScores(t *testing.T) {
	var sent string
	server := completionServer(t, `{"face_detected": true, "emotions": {"happy": 70, "neutral": 25, "sad": 5}}`, func(body string) {
		sent = body
	})

	reading, err := newTestClassifier(t, server.URL).Classify(context.Background(), testImage(t))
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if reading.Dominant != emotion.Happy || reading.Confidence != 70 || !reading.FaceDetected {
		t.Fatalf("unexpected reading %+v", reading)
	}
	if !strings.Contains(sent, "data:image/png;base64,") {
		t.Fatal("expected the snapshot to be sent as a data url")
	}
	if !strings.Contains(sent, `"model":"test-vision"`) {
		t.Fatalf("expected model in request, got %s", sent)
	}
}

func TestClassifyNoFace(t *testing.T) {
	server := completionServer(t, "```json\n{\"face_detected\": false, \"emotions\": {}}\n```", nil)
	reading, err := newTestClassifier(t, server.URL).Classify(context.Background(), testImage(t))
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if reading.FaceDetected {
		t.Fatalf("expected no face, got %+v", reading)
	}
	if _, err := emotion.Aggregate([]emotion.Reading{reading}); !errors.Is(err, emotion.ErrNoFace) {
		t.Fatalf("expected aggregate to report no face, got %v", err)
	}
}

func TestClassifyGarbageIsExternalError(t *testing.T) {
	server := completionServer(t, "I cannot help with that.", nil)
	_, err := newTestClassifier(t, server.URL).Classify(context.Background(), testImage(t))
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
}

func TestClassifyHTTPFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"bad key"}}`))
	}))
	defer server.Close()

	_, err := newTestClassifier(t, server.URL).Classify(context.Background(), testImage(t))
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
}

func TestParseReadingScalesFractions(t *testing.T) {
	reading, err := ParseReading(`Sure! {"emotions": {"Sad": 0.6, "neutral": 0.4}}`)
	if err != nil {
		t.Fatalf("ParseReading: %v", err)
	}
	if reading.Dominant != emotion.Sad || reading.Scores["sad"] != 60 {
		t.Fatalf("unexpected reading %+v", reading)
	}
}

func TestNewRequiresKey(t *testing.T) {
	if _, err := New(Config{Model: "m"}); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}
