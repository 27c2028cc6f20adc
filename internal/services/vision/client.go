package vision

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	openaigo "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"studypulse/internal/emotion"
	"studypulse/internal/logging"
	"studypulse/internal/services"
)

const (
	defaultTimeout    = 30 * time.Second
	defaultMaxRetries = 2
)

// Config captures the runtime settings required to talk to the model.
type Config struct {
	APIKey     string
	BaseURL    string
	Model      string
	Timeout    time.Duration
	MaxRetries int
}

// Classifier implements emotion.Classifier over a chat completion endpoint.
type Classifier struct {
	client openaigo.Client
	model  string
	logger *slog.Logger
}

// Option customizes the classifier.
type Option func(*settings)

type settings struct {
	httpClient *http.Client
	logger     *slog.Logger
}

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(s *settings) {
		if client != nil {
			s.httpClient = client
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}

// New constructs a classifier. The API key is required.
func New(cfg Config, opts ...Option) (*Classifier, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, services.Wrap(services.ErrConfiguration, "vision", "init", "api key required", nil)
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		return nil, services.Wrap(services.ErrConfiguration, "vision", "init", "model required", nil)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	retries := cfg.MaxRetries
	if retries < 0 {
		retries = defaultMaxRetries
	}

	s := settings{httpClient: &http.Client{Timeout: timeout}}
	for _, opt := range opts {
		opt(&s)
	}

	reqOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(s.httpClient),
		option.WithMaxRetries(retries),
		option.WithRequestTimeout(timeout),
	}
	if baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"); baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(baseURL))
	}

	return &Classifier{
		client: openaigo.NewClient(reqOpts...),
		model:  model,
		logger: logging.NewComponentLogger(s.logger, "vision"),
	}, nil
}

// Classify sends one image and returns the parsed reading. A response without
// a face yields a reading with FaceDetected false and no error; callers
// aggregate frames and surface emotion.ErrNoFace when none had a face.
func (c *Classifier) Classify(ctx context.Context, img emotion.Image) (emotion.Reading, error) {
	if len(img.Data) == 0 {
		return emotion.Reading{}, services.Wrap(services.ErrValidation, "vision", "classify", "image required", nil)
	}

	started := time.Now()
	resp, err := c.client.Chat.Completions.New(ctx, openaigo.ChatCompletionNewParams{
		Model: openaigo.ChatModel(c.model),
		Messages: []openaigo.ChatCompletionMessageParamUnion{
			openaigo.SystemMessage(SystemPrompt),
			openaigo.UserMessage([]openaigo.ChatCompletionContentPartUnionParam{
				openaigo.TextContentPart(userPrompt),
				openaigo.ImageContentPart(openaigo.ChatCompletionContentPartImageImageURLParam{
					URL: img.DataURL(),
				}),
			}),
		},
	})
	if err != nil {
		return emotion.Reading{}, services.Wrap(services.ErrExternalTool, "vision", "classify", "chat completion failed", err)
	}
	if len(resp.Choices) == 0 {
		return emotion.Reading{}, services.Wrap(services.ErrExternalTool, "vision", "classify", "empty choices", nil)
	}

	reading, err := ParseReading(resp.Choices[0].Message.Content)
	if err != nil {
		return emotion.Reading{}, services.Wrap(services.ErrExternalTool, "vision", "parse", "unexpected model output", err)
	}
	logging.WithContext(ctx, c.logger).Debug("vision classification complete",
		logging.String("dominant", reading.Dominant),
		logging.Bool("face_detected", reading.FaceDetected),
		logging.Duration("elapsed", time.Since(started)),
	)
	return reading, nil
}

type modelReply struct {
	FaceDetected *bool              `json:"face_detected"`
	Emotions     map[string]float64 `json:"emotions"`
}

// ParseReading decodes the model's JSON reply. Fractional scores (summing to
// at most one) are scaled to percentages.
func ParseReading(content string) (emotion.Reading, error) {
	var reply modelReply
	if err := decodeModelJSON(content, &reply); err != nil {
		return emotion.Reading{}, err
	}
	scores := emotion.Scores(reply.Emotions).Normalize()
	if reply.FaceDetected != nil && !*reply.FaceDetected {
		return emotion.Reading{FaceDetected: false}, nil
	}
	if len(scores) == 0 {
		return emotion.Reading{FaceDetected: false}, nil
	}

	total := 0.0
	for _, v := range scores {
		total += v
	}
	if total > 0 && total <= 1.0001 {
		for label, v := range scores {
			scores[label] = v * 100
		}
	}
	return emotion.NewReading(scores), nil
}

func decodeModelJSON(content string, target any) error {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return errors.New("empty payload")
	}
	directErr := json.Unmarshal([]byte(trimmed), target)
	if directErr == nil {
		return nil
	}
	sanitized := sanitizeJSONPayload(trimmed)
	if sanitized == "" || sanitized == trimmed {
		return fmt.Errorf("%w (payload snippet: %s)", directErr, snippet(trimmed))
	}
	if err := json.Unmarshal([]byte(sanitized), target); err != nil {
		return fmt.Errorf("%w (sanitized payload snippet: %s)", err, snippet(sanitized))
	}
	return nil
}

// sanitizeJSONPayload strips code fences and surrounding prose.
func sanitizeJSONPayload(content string) string {
	trimmed := strings.TrimSpace(stripCodeFence(content))
	if trimmed == "" {
		return ""
	}
	if trimmed[0] == '{' {
		return trimmed
	}
	if start := strings.Index(trimmed, "{"); start >= 0 {
		if end := strings.LastIndex(trimmed, "}"); end > start {
			return strings.TrimSpace(trimmed[start : end+1])
		}
	}
	return trimmed
}

func stripCodeFence(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	body := strings.TrimLeft(trimmed[3:], " \t\r\n")
	if len(body) >= 4 && strings.EqualFold(body[:4], "json") {
		body = strings.TrimLeft(body[4:], " \t\r\n")
	}
	if idx := strings.LastIndex(body, "```"); idx >= 0 {
		body = body[:idx]
	}
	return strings.TrimSpace(body)
}

func snippet(s string) string {
	const limit = 160
	s = strings.Join(strings.Fields(s), " ")
	if len(s) > limit {
		return s[:limit] + "..."
	}
	return s
}
