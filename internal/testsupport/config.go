package testsupport

import (
	"path/filepath"
	"testing"

	"studypulse/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.APIBind = "127.0.0.1:0"
	cfgVal.Paths.APIToken = ""
	cfgVal.Classifier.APIKey = ""
	cfgVal.Transcription.APIKey = ""

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithBackend selects the session storage backend.
func WithBackend(backend string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Sessions.Backend = backend
	}
}

// WithAPIToken sets the bearer token the daemon API requires.
func WithAPIToken(token string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Paths.APIToken = token
	}
}

// WithOpenAIClassifier points the classifier at baseURL with a test key.
func WithOpenAIClassifier(baseURL string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Classifier.Provider = config.ProviderOpenAI
		b.cfg.Classifier.APIKey = "test"
		b.cfg.Classifier.BaseURL = baseURL
	}
}

// WithTranscription enables transcription against baseURL with a test key.
func WithTranscription(baseURL string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Transcription.Enabled = true
		b.cfg.Transcription.APIKey = "test"
		b.cfg.Transcription.BaseURL = baseURL
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}
