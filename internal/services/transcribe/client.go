package transcribe

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	openaigo "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"studypulse/internal/logging"
	"studypulse/internal/services"
	"studypulse/internal/voice"
)

const (
	defaultTimeout     = 60 * time.Second
	defaultFilename    = "recording.wav"
	defaultContentType = "audio/wav"
)

// Config captures the runtime settings for the transcription endpoint.
type Config struct {
	APIKey     string
	BaseURL    string
	Model      string
	Timeout    time.Duration
	MaxRetries int
	// MaxBytes rejects uploads above this size; zero disables the check.
	MaxBytes int64
}

// Client implements voice.Transcriber.
type Client struct {
	client   openaigo.Client
	model    string
	maxBytes int64
	logger   *slog.Logger
}

// New constructs a transcription client. The API key is required.
func New(cfg Config, httpClient *http.Client, logger *slog.Logger) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, services.Wrap(services.ErrConfiguration, "transcribe", "init", "api key required", nil)
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		return nil, services.Wrap(services.ErrConfiguration, "transcribe", "init", "model required", nil)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}

	reqOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(max(cfg.MaxRetries, 0)),
		option.WithRequestTimeout(timeout),
	}
	if baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"); baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(baseURL))
	}

	return &Client{
		client:   openaigo.NewClient(reqOpts...),
		model:    model,
		maxBytes: cfg.MaxBytes,
		logger:   logging.NewComponentLogger(logger, "transcribe"),
	}, nil
}

// Transcribe uploads the recording and returns the recognised text.
func (c *Client) Transcribe(ctx context.Context, audio voice.Audio) (string, error) {
	if audio.Body == nil {
		return "", services.Wrap(services.ErrValidation, "transcribe", "upload", "audio file required", nil)
	}
	body := audio.Body
	if c.maxBytes > 0 {
		body = &limitedReader{r: io.LimitReader(audio.Body, c.maxBytes+1), remaining: c.maxBytes}
	}

	filename := strings.TrimSpace(audio.Filename)
	if filename == "" {
		filename = defaultFilename
	}
	contentType := strings.TrimSpace(audio.ContentType)
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = defaultContentType
	}

	started := time.Now()
	resp, err := c.client.Audio.Transcriptions.New(ctx, openaigo.AudioTranscriptionNewParams{
		File:  openaigo.File(body, filename, contentType),
		Model: openaigo.AudioModel(c.model),
	})
	if lr, ok := body.(*limitedReader); ok && lr.exceeded {
		return "", services.Wrap(services.ErrValidation, "transcribe", "upload", "audio exceeds size limit", nil)
	}
	if err != nil {
		return "", services.Wrap(services.ErrExternalTool, "transcribe", "request", "transcription failed", err)
	}

	text := strings.TrimSpace(resp.Text)
	logging.WithContext(ctx, c.logger).Debug("transcription complete",
		logging.Int("chars", len(text)),
		logging.Duration("elapsed", time.Since(started)),
	)
	return text, nil
}

// limitedReader reports when the upload ran past the configured size.
type limitedReader struct {
	r         io.Reader
	remaining int64
	exceeded  bool
}

func (l *limitedReader) Read(p []byte) (int, error) {
	n, err := l.r.Read(p)
	l.remaining -= int64(n)
	if l.remaining < 0 {
		l.exceeded = true
		return 0, io.ErrUnexpectedEOF
	}
	return n, err
}
